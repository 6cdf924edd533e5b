// internal/game/events.go
package game

import (
	"math/rand"

	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

// eventSpec is one row of the data-driven economic event table. Instant
// events apply immediately and leave no active record.
type eventSpec struct {
	Type        models.EconomicEventType
	Description string
	Duration    int // rounds; 0 for instant
	Weight      int
}

// eventTable drives triggerRandomEvent through a single weighted-sampling
// routine.
var eventTable = []eventSpec{
	{models.EventRecession, "Recession: rents reduced by 25%", 3, 20},
	{models.EventHousingBoom, "Housing boom: building costs up 50%", 3, 15},
	{models.EventTaxHoliday, "Tax holiday: no taxes collected", 2, 15},
	{models.EventMarketCrash, "Market crash: property prices down 20%", 3, 10},
	{models.EventBullMarket, "Bull market: rents up 20%", 3, 20},
	{models.EventBankingCrisis, "Banking crisis: loan interest doubled", 2, 10},
	{models.EventStimulus, "Stimulus: every player receives £100", 0, 10},
}

// stimulusAmount is the one-shot payout of the stimulus event.
const stimulusAmount = 100

// sampleEvent picks a row from the table in proportion to its weight.
func sampleEvent(r *rand.Rand, table []eventSpec) eventSpec {
	total := 0
	for _, spec := range table {
		total += spec.Weight
	}
	pick := r.Intn(total)
	for _, spec := range table {
		pick -= spec.Weight
		if pick < 0 {
			return spec
		}
	}
	return table[len(table)-1]
}

// triggerRandomEvent selects a weighted random event. Re-triggering an
// active type extends its duration rather than stacking a second instance.
func (g *Game) triggerRandomEvent(seat int) {
	spec := sampleEvent(g.rng, eventTable)
	g.logEvent(seat, "economic event: %s", spec.Description)

	if spec.Duration == 0 {
		g.applyInstantEvent(spec)
		return
	}
	for _, active := range g.Events {
		if active.Type == spec.Type {
			active.RoundsLeft += spec.Duration
			g.logEvent(-1, "%s extended to %d rounds", spec.Type, active.RoundsLeft)
			return
		}
	}
	g.Events = append(g.Events, &models.ActiveEconomicEvent{
		Type:        spec.Type,
		Description: spec.Description,
		RoundsLeft:  spec.Duration,
	})
}

// applyInstantEvent executes a zero-duration event.
func (g *Game) applyInstantEvent(spec eventSpec) {
	switch spec.Type {
	case models.EventStimulus:
		for _, p := range g.Players {
			if !p.Bankrupt {
				p.Cash += stimulusAmount
			}
		}
	}
}

// eventActive reports whether an event of the given type is in effect.
func (g *Game) eventActive(t models.EconomicEventType) bool {
	for _, active := range g.Events {
		if active.Type == t {
			return true
		}
	}
	return false
}

// ageEconomicEvents decrements durations once per completed round and
// removes expired events.
func (g *Game) ageEconomicEvents() {
	kept := g.Events[:0]
	for _, active := range g.Events {
		active.RoundsLeft--
		if active.RoundsLeft > 0 {
			kept = append(kept, active)
		} else {
			g.logEvent(-1, "economic event ended: %s", active.Type)
		}
	}
	g.Events = kept
}
