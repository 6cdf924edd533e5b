// internal/game/events_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

func TestSampleEventRespectsWeights(t *testing.T) {
	table := []eventSpec{
		{Type: models.EventRecession, Weight: 3},
		{Type: models.EventBullMarket, Weight: 1},
	}
	r := rand.New(rand.NewSource(7))

	counts := map[models.EconomicEventType]int{}
	for i := 0; i < 400; i++ {
		counts[sampleEvent(r, table).Type]++
	}

	assert.Greater(t, counts[models.EventRecession], 0)
	assert.Greater(t, counts[models.EventBullMarket], 0)
	assert.Greater(t, counts[models.EventRecession], counts[models.EventBullMarket])
}

func TestTriggerNeverStacksDuplicateEvents(t *testing.T) {
	g, _ := setupTestGame(t, 2)

	for i := 0; i < 200; i++ {
		g.triggerRandomEvent(0)
	}

	seen := map[models.EconomicEventType]bool{}
	for _, ev := range g.Events {
		assert.False(t, seen[ev.Type], "event %s recorded twice", ev.Type)
		seen[ev.Type] = true
		assert.NotEqual(t, models.EventStimulus, ev.Type, "instant events leave no active record")
	}
}

func TestRetriggerExtendsDuration(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Events = append(g.Events, &models.ActiveEconomicEvent{Type: models.EventRecession, RoundsLeft: 2})

	// Force the sampler onto the recession row.
	for i := 0; i < 500 && len(g.Events) >= 1 && g.Events[0].RoundsLeft == 2; i++ {
		g.triggerRandomEvent(0)
		for _, ev := range g.Events[1:] {
			require.NotEqual(t, models.EventRecession, ev.Type)
		}
	}

	require.GreaterOrEqual(t, g.Events[0].RoundsLeft, 5, "re-trigger should extend, not replace")
}

func TestAgeEconomicEventsExpires(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Events = []*models.ActiveEconomicEvent{
		{Type: models.EventRecession, RoundsLeft: 2},
		{Type: models.EventTaxHoliday, RoundsLeft: 1},
	}

	g.ageEconomicEvents()

	require.Len(t, g.Events, 1)
	assert.Equal(t, models.EventRecession, g.Events[0].Type)
	assert.Equal(t, 1, g.Events[0].RoundsLeft)
	assert.True(t, g.eventActive(models.EventRecession))
	assert.False(t, g.eventActive(models.EventTaxHoliday))

	g.ageEconomicEvents()
	assert.Empty(t, g.Events)
}

func TestStimulusPaysEveryActivePlayer(t *testing.T) {
	g, _ := setupTestGame(t, 3)
	g.Players[2].Bankrupt = true
	before0 := g.Players[0].Cash
	before2 := g.Players[2].Cash

	g.applyInstantEvent(eventSpec{Type: models.EventStimulus})

	assert.Equal(t, before0+stimulusAmount, g.Players[0].Cash)
	assert.Equal(t, before0+stimulusAmount, g.Players[1].Cash)
	assert.Equal(t, before2, g.Players[2].Cash, "bankrupt players receive nothing")
}

func TestFreeParkingJackpotPayout(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Settings.EconomicEvents = false
	g.Settings.Jackpot = true
	g.Settings.JackpotPayoutOdds = 1.0
	g.Jackpot = 120
	p := g.Players[0]
	before := p.Cash

	g.resolveFreeParking(p)

	assert.Equal(t, before+120, p.Cash)
	assert.Equal(t, 0, g.Jackpot)
	assert.Equal(t, PhaseResolving, g.Phase)
}

func TestFreeParkingJackpotCanMiss(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Settings.EconomicEvents = false
	g.Settings.Jackpot = true
	g.Settings.JackpotPayoutOdds = 0.0
	g.Jackpot = 80
	p := g.Players[0]
	before := p.Cash

	g.resolveFreeParking(p)

	assert.Equal(t, before, p.Cash)
	assert.Equal(t, 80, g.Jackpot, "unclaimed jackpot carries over")
}

func TestDrawCardCyclesDeck(t *testing.T) {
	deck := newChanceDeck()
	first := deck[0]
	size := len(deck)

	card, deck := drawCard(deck)

	require.Equal(t, first, card)
	assert.Len(t, deck, size)
	assert.Equal(t, first, deck[len(deck)-1], "drawn card returns to the bottom")
}
