// internal/game/ai.go
package game

import (
	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

// maxAIActionsPerRun bounds one AI drive so an all-AI room cannot spin the
// lock forever; the host re-triggers for the next batch.
const maxAIActionsPerRun = 50

// aiCashReserve is kept back before discretionary purchases.
const aiCashReserve = 100

// runAITurn drives AI seats through the same action surface human clients
// use, one authorized action at a time, until a human seat is waiting or
// the per-run cap is hit. Lock held by the caller.
func (g *Game) runAITurn() {
	for i := 0; i < maxAIActionsPerRun; i++ {
		if g.Phase == PhaseGameOver || !g.Started {
			return
		}
		seat := g.pendingAISeat()
		if seat < 0 {
			return
		}
		act := g.aiDecide(seat)
		if act == nil {
			return
		}
		if ok, reason := g.authorize(seat, act.Action, act.Payload); !ok {
			g.logger.WithField("seat", seat).Warnf("ai action %s denied: %s", act.Action, reason)
			return
		}
		g.applyAction(seat, *act)
	}
}

// pendingAISeat returns the AI seat the game is waiting on, or -1.
func (g *Game) pendingAISeat() int {
	for _, p := range g.Players {
		if p.IsAI && !p.Bankrupt && g.seatBlocksPendingPhase(p.Seat) {
			return p.Seat
		}
	}
	cur := g.Players[g.CurrentPlayerIndex]
	if cur.IsAI && !cur.Bankrupt {
		switch g.Phase {
		case PhaseRolling, PhaseMoving, PhaseResolving, PhaseBuyDecision, PhaseTaxDecision, PhaseJailDecision:
			return cur.Seat
		}
	}
	return -1
}

// aiDecide picks the next action for the seat under a simple greedy policy.
func (g *Game) aiDecide(seat int) *models.GameAction {
	p := g.Players[seat]

	switch g.Phase {
	case PhaseRolling:
		return &models.GameAction{Action: ActionRollDice}

	case PhaseMoving:
		return &models.GameAction{Action: ActionMovePlayer, Payload: map[string]interface{}{"steps": g.Roll.Total}}

	case PhaseJailDecision:
		if p.JailCards > 0 {
			return &models.GameAction{Action: ActionUseJailCard}
		}
		if p.Cash >= g.Settings.BailAmount+aiCashReserve {
			return &models.GameAction{Action: ActionPayBail}
		}
		return &models.GameAction{Action: ActionRollDice}

	case PhaseBuyDecision:
		sp := g.Board[p.Position]
		if p.Cash >= g.purchasePrice(sp)+aiCashReserve {
			return &models.GameAction{Action: ActionBuyProperty}
		}
		return &models.GameAction{Action: ActionDeclineProperty}

	case PhaseTaxDecision:
		sp := g.Board[p.Position]
		method := "flat"
		if g.TaxAmount(p, sp, "networth") < g.TaxAmount(p, sp, "flat") {
			method = "networth"
		}
		return &models.GameAction{Action: ActionPayTax, Payload: map[string]interface{}{"method": method}}

	case PhaseAuction:
		sp := g.Board[g.Auction.Property]
		min := g.Auction.MinimumBid(sp.Price)
		if min <= g.purchasePrice(sp) && p.Cash >= min+aiCashReserve {
			return &models.GameAction{Action: ActionPlaceBid, Payload: map[string]interface{}{"amount": min}}
		}
		return &models.GameAction{Action: ActionPassAuction}

	case PhaseTrading:
		if g.aiTradeFavorable(seat) {
			return &models.GameAction{Action: ActionAcceptTrade}
		}
		return &models.GameAction{Action: ActionRejectTrade}

	case PhaseRentNegotiation:
		neg := g.RentNegotiation
		if neg.Stage == models.StagePlanOffered {
			return &models.GameAction{Action: ActionAcceptPlan}
		}
		debtor := g.Players[neg.DebtorSeat]
		if debtor.Cash > 0 {
			return &models.GameAction{Action: ActionProposePlan, Payload: map[string]interface{}{"upfront": debtor.Cash}}
		}
		return &models.GameAction{Action: ActionDemandPayment}

	case PhaseBankruptcyDecision:
		if g.Settings.Restructuring && p.Chapter11 == nil {
			return &models.GameAction{Action: ActionChapter11}
		}
		return &models.GameAction{Action: ActionBankruptcy}

	case PhaseResolving:
		return &models.GameAction{Action: ActionEndTurn}
	}
	return nil
}

// aiTradeFavorable values each side at cash plus current purchase prices
// and accepts when the AI comes out ahead or even.
func (g *Game) aiTradeFavorable(seat int) bool {
	t := g.Trade
	give := t.RequestCash
	get := t.OfferCash
	for _, pos := range t.RequestProperties {
		give += g.purchasePrice(g.Board[pos])
	}
	for _, pos := range t.OfferProperties {
		get += g.purchasePrice(g.Board[pos])
	}
	if seat == t.InitiatorSeat {
		give, get = get, give
	}
	return get >= give
}
