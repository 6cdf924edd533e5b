// internal/game/authorize.go
package game

import "github.com/childoftherion/ludomercatus-sub000/internal/models"

// authorize is the single gate every action passes before it can mutate
// state. It walks a ladder: seat identity, game liveness, then per-action
// phase and role rules. Lock held; a false return leaves state untouched
// and reports the reason to the requesting seat only.
func (g *Game) authorize(seat int, action string, payload map[string]interface{}) (bool, string) {
	if seat < 0 || seat >= len(g.Players) {
		return false, "unknown seat"
	}
	p := g.Players[seat]
	if p.Bankrupt {
		return false, "bankrupt players cannot act"
	}
	if g.Phase == PhaseGameOver {
		return false, "the game is over"
	}

	if !g.Started {
		switch action {
		case ActionStartGame:
			if seat != g.HostSeat() {
				return false, "only the host can start the game"
			}
			if len(g.Players) < 2 {
				return false, "at least two players are required"
			}
			return true, ""
		case ActionUpdateSettings:
			if seat != g.HostSeat() {
				return false, "only the host can change settings"
			}
			return true, ""
		default:
			return false, "the game has not started"
		}
	}

	switch action {
	case ActionStartGame:
		return false, "the game has already started"
	case ActionUpdateSettings:
		return false, "settings are locked once the game starts"

	case ActionRollDice:
		if seat != g.CurrentPlayerIndex {
			return false, "not your turn"
		}
		if g.Phase != PhaseRolling && g.Phase != PhaseJailDecision {
			return false, "you cannot roll now"
		}
		if g.Roll != nil {
			return false, "you have already rolled"
		}
		return true, ""

	case ActionMovePlayer:
		if seat != g.CurrentPlayerIndex {
			return false, "not your turn"
		}
		if g.Phase != PhaseMoving {
			return false, "no movement pending"
		}
		if g.Roll == nil || g.Roll.Moved {
			return false, "no unconsumed roll"
		}
		steps, ok := payloadInt(payload, "steps")
		if !ok || steps != g.Roll.Total {
			return false, "movement does not match the roll"
		}
		return true, ""

	case ActionBuyProperty, ActionDeclineProperty:
		if seat != g.CurrentPlayerIndex {
			return false, "not your turn"
		}
		if g.Phase != PhaseBuyDecision {
			return false, "no purchase is pending"
		}
		return true, ""

	case ActionPayTax:
		if seat != g.CurrentPlayerIndex {
			return false, "not your turn"
		}
		if g.Phase != PhaseTaxDecision {
			return false, "no tax is pending"
		}
		return true, ""

	case ActionEndTurn:
		if seat != g.CurrentPlayerIndex {
			return false, "not your turn"
		}
		if g.Phase != PhaseResolving {
			return false, "you cannot end your turn now"
		}
		return true, ""

	case ActionPayBail, ActionUseJailCard:
		if seat != g.CurrentPlayerIndex {
			return false, "not your turn"
		}
		if g.Phase != PhaseJailDecision || !p.InJail {
			return false, "you are not facing a jail decision"
		}
		return true, ""

	case ActionBuildHouse, ActionSellHouse, ActionMortgage, ActionUnmortgage,
		ActionTakeLoan, ActionRepayLoan, ActionPayIOU, ActionBuyInsurance:
		if seat != g.CurrentPlayerIndex {
			return false, "asset management is allowed only on your turn"
		}
		switch g.Phase {
		case PhaseRolling, PhaseResolving, PhaseJailDecision:
			return true, ""
		}
		return false, "asset management is not allowed right now"

	case ActionPlaceBid, ActionPassAuction:
		if g.Phase != PhaseAuction || g.Auction == nil {
			return false, "no auction is running"
		}
		if seat != g.Auction.ActiveBidder {
			return false, "it is not your bid"
		}
		return true, ""

	case ActionProposeTrade:
		if seat != g.CurrentPlayerIndex {
			return false, "trades can only be proposed on your turn"
		}
		if g.Phase != PhaseRolling && g.Phase != PhaseResolving {
			return false, "you cannot open a trade right now"
		}
		return true, ""

	case ActionCounterTrade:
		if g.Phase != PhaseTrading || g.Trade == nil {
			return false, "no trade is pending"
		}
		if seat != g.Trade.Responder() {
			return false, "it is not your response"
		}
		if g.Trade.Countered {
			return false, "the trade has already been countered once"
		}
		return true, ""

	case ActionAcceptTrade, ActionRejectTrade:
		if g.Phase != PhaseTrading || g.Trade == nil {
			return false, "no trade is pending"
		}
		if seat != g.Trade.Responder() {
			return false, "it is not your response"
		}
		return true, ""

	case ActionCancelTrade:
		if g.Phase != PhaseTrading || g.Trade == nil {
			return false, "no trade is pending"
		}
		if seat != g.Trade.InitiatorSeat {
			return false, "only the proposer can cancel"
		}
		return true, ""

	case ActionForgiveRent, ActionProposePlan, ActionDemandPayment:
		neg := g.RentNegotiation
		if g.Phase != PhaseRentNegotiation || neg == nil {
			return false, "no rent negotiation is pending"
		}
		if neg.Stage != models.StageCreditorChoice {
			return false, "a payment plan is already on the table"
		}
		if seat != neg.CreditorSeat {
			return false, "only the creditor can decide"
		}
		return true, ""

	case ActionAcceptPlan:
		neg := g.RentNegotiation
		if g.Phase != PhaseRentNegotiation || neg == nil || neg.Stage != models.StagePlanOffered {
			return false, "no payment plan is on the table"
		}
		if seat != neg.DebtorSeat {
			return false, "only the debtor can accept"
		}
		return true, ""

	case ActionChapter11, ActionBankruptcy:
		if g.Phase != PhaseBankruptcyDecision || g.Bankruptcy == nil {
			return false, "no bankruptcy decision is pending"
		}
		if seat != g.Bankruptcy.DebtorSeat {
			return false, "only the debtor can decide"
		}
		return true, ""

	case ActionTriggerAI:
		if seat != g.HostSeat() {
			return false, "only the host can trigger AI turns"
		}
		if !g.aiSeatPending() {
			return false, "no AI seat is waiting to act"
		}
		return true, ""
	}

	return false, "unknown action"
}

// aiSeatPending reports whether an AI seat is the one the game is waiting
// on, either as the current player or through a pending sub-object.
func (g *Game) aiSeatPending() bool {
	if g.Players[g.CurrentPlayerIndex].IsAI {
		return true
	}
	for _, p := range g.Players {
		if p.IsAI && !p.Bankrupt && g.seatBlocksPendingPhase(p.Seat) {
			return true
		}
	}
	return false
}
