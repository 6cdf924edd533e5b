// internal/game/trade.go
package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

// proposeTrade opens a trade offer from the current player to another seat.
func (g *Game) proposeTrade(seat int, payload map[string]interface{}) {
	receiver, ok := payloadInt(payload, "receiver")
	if !ok || receiver < 0 || receiver >= len(g.Players) || receiver == seat {
		g.logEvent(seat, "trade rejected: invalid receiver")
		return
	}
	if g.Players[receiver].Bankrupt {
		g.logEvent(seat, "trade rejected: receiver is bankrupt")
		return
	}
	offer := g.tradeFromPayload(seat, receiver, payload)
	if err := g.validateTradeSide(offer.InitiatorSeat, offer.OfferCash, offer.OfferProperties, offer.OfferJailCards); err != nil {
		g.logEvent(seat, "trade rejected: %v", err)
		return
	}
	g.Trade = offer
	g.phaseBeforeTrade = g.Phase
	g.Phase = PhaseTrading
	g.logEvent(seat, "%s proposed a trade to %s", g.Players[seat].Name, g.Players[receiver].Name)
}

// counterTrade lets the receiver replace the terms once per pending cycle;
// accept/reject authority flips back to the initiator.
func (g *Game) counterTrade(seat int, payload map[string]interface{}) {
	old := g.Trade
	counter := g.tradeFromPayload(old.InitiatorSeat, old.ReceiverSeat, payload)
	counter.ID = old.ID
	counter.Status = models.TradeCounterPending
	counter.Countered = true
	g.Trade = counter
	g.logEvent(seat, "%s countered the trade", g.Players[seat].Name)
}

// acceptTrade re-validates both sides against current state before
// committing, rejecting offers that went stale while pending.
func (g *Game) acceptTrade(seat int) {
	t := g.Trade
	ini := g.Players[t.InitiatorSeat]
	rec := g.Players[t.ReceiverSeat]

	if err := g.validateTradeSide(t.InitiatorSeat, t.OfferCash, t.OfferProperties, t.OfferJailCards); err != nil {
		g.logEvent(seat, "trade voided: %v", err)
		g.closeTrade(models.TradeCancelled)
		return
	}
	if err := g.validateTradeSide(t.ReceiverSeat, t.RequestCash, t.RequestProperties, t.RequestJailCards); err != nil {
		g.logEvent(seat, "trade voided: %v", err)
		g.closeTrade(models.TradeCancelled)
		return
	}

	ini.Cash += t.RequestCash - t.OfferCash
	rec.Cash += t.OfferCash - t.RequestCash
	ini.JailCards += t.RequestJailCards - t.OfferJailCards
	rec.JailCards += t.OfferJailCards - t.RequestJailCards
	for _, pos := range t.OfferProperties {
		g.transferProperty(pos, ini, rec)
	}
	for _, pos := range t.RequestProperties {
		g.transferProperty(pos, rec, ini)
	}
	g.logEvent(seat, "trade between %s and %s completed", ini.Name, rec.Name)
	g.closeTrade(models.TradeAccepted)
}

func (g *Game) rejectTrade(seat int) {
	g.logEvent(seat, "%s rejected the trade", g.Players[seat].Name)
	g.closeTrade(models.TradeRejected)
}

func (g *Game) cancelTrade(seat int) {
	g.logEvent(seat, "%s cancelled the trade", g.Players[seat].Name)
	g.closeTrade(models.TradeCancelled)
}

// closeTrade clears the sub-object and restores the interrupted phase.
func (g *Game) closeTrade(status models.TradeStatus) {
	if g.Trade != nil {
		g.Trade.Status = status
	}
	g.Trade = nil
	if g.phaseBeforeTrade != "" {
		g.Phase = g.phaseBeforeTrade
		g.phaseBeforeTrade = ""
	} else {
		g.Phase = PhaseResolving
	}
}

// cancelTradeFor voids any trade involving a bankrupt seat.
func (g *Game) cancelTradeFor(seat int) {
	if g.Trade != nil && g.Trade.Involves(seat) {
		g.logEvent(-1, "trade cancelled: a party went bankrupt")
		g.closeTrade(models.TradeCancelled)
	}
}

// validateTradeSide checks that the seat can currently deliver the cash,
// jail-free cards and properties it has put on the table. Offered
// properties must be unmortgaged and building-free.
func (g *Game) validateTradeSide(seat, cash int, properties []int, jailCards int) error {
	p := g.Players[seat]
	if p.Bankrupt {
		return fmt.Errorf("%s is bankrupt", p.Name)
	}
	if cash < 0 || cash > p.Cash {
		return fmt.Errorf("%s cannot cover £%d", p.Name, cash)
	}
	if jailCards < 0 || jailCards > p.JailCards {
		return fmt.Errorf("%s does not hold %d jail-free cards", p.Name, jailCards)
	}
	for _, pos := range properties {
		if pos < 0 || pos >= BoardSize {
			return fmt.Errorf("invalid property position %d", pos)
		}
		sp := g.Board[pos]
		if sp.Owner != seat {
			return fmt.Errorf("%s does not own %s", p.Name, sp.Name)
		}
		if sp.Mortgaged {
			return fmt.Errorf("%s is mortgaged", sp.Name)
		}
		if sp.Houses > 0 || sp.Hotel {
			return fmt.Errorf("%s has buildings", sp.Name)
		}
	}
	return nil
}

// transferProperty moves a deed between players, keeping the ownership
// invariant (owner field and property lists agree) intact.
func (g *Game) transferProperty(pos int, from, to *models.Player) {
	sp := g.Board[pos]
	from.RemoveProperty(pos)
	to.Properties = append(to.Properties, pos)
	sp.Owner = to.Seat
}

// tradeFromPayload builds a TradeOffer from the wire payload.
func (g *Game) tradeFromPayload(initiator, receiver int, payload map[string]interface{}) *models.TradeOffer {
	id, _ := uuid.NewRandom()
	offerCash, _ := payloadInt(payload, "offerCash")
	requestCash, _ := payloadInt(payload, "requestCash")
	offerJail, _ := payloadInt(payload, "offerJailCards")
	requestJail, _ := payloadInt(payload, "requestJailCards")
	return &models.TradeOffer{
		ID:                id,
		InitiatorSeat:     initiator,
		ReceiverSeat:      receiver,
		Status:            models.TradePending,
		OfferCash:         offerCash,
		RequestCash:       requestCash,
		OfferJailCards:    offerJail,
		RequestJailCards:  requestJail,
		OfferProperties:   payloadIntSlice(payload, "offerProperties"),
		RequestProperties: payloadIntSlice(payload, "requestProperties"),
	}
}

// payloadIntSlice extracts a JSON array of numbers.
func payloadIntSlice(payload map[string]interface{}, key string) []int {
	if payload == nil {
		return nil
	}
	raw, ok := payload[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case float64:
			out = append(out, int(n))
		case int:
			out = append(out, n)
		}
	}
	return out
}
