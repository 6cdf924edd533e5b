// internal/game/bankruptcy.go
package game

import (
	"github.com/google/uuid"

	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

// chargeRent settles rent as a zero-sum transfer. A debtor who cannot cover
// the full amount enters the insolvency cascade instead; nothing is
// transferred partially.
func (g *Game) chargeRent(p, owner *models.Player, sp *models.Space, rent int) {
	if rent <= 0 {
		g.Phase = PhaseResolving
		g.utilityFactor = 0
		return
	}
	if p.Cash < rent {
		g.beginInsolvency(p.Seat, owner.Seat, rent, sp.Position)
		return
	}
	p.Cash -= rent
	owner.Cash += rent
	g.utilityFactor = 0
	g.logEvent(p.Seat, "%s paid £%d rent to %s for %s", p.Name, rent, owner.Name, sp.Name)
	g.Phase = PhaseResolving
}

// beginInsolvency starts the cascade for a debt the debtor cannot pay in
// cash. Player-to-player debts go to rent negotiation first when enabled;
// bank debts (creditor -1) and demanded payments go straight to the
// bankruptcy decision. property is the board position the debt arose from,
// or -1.
func (g *Game) beginInsolvency(debtor, creditor, amount, property int) {
	d := g.Players[debtor]
	g.logEvent(debtor, "%s cannot cover £%d", d.Name, amount)
	if creditor >= 0 && g.Settings.RentNegotiation {
		g.RentNegotiation = &models.PendingRentNegotiation{
			DebtorSeat:   debtor,
			CreditorSeat: creditor,
			Amount:       amount,
			Property:     property,
			Stage:        models.StageCreditorChoice,
		}
		g.Phase = PhaseRentNegotiation
		return
	}
	g.enterBankruptcyDecision(debtor, creditor, amount)
}

// enterBankruptcyDecision offers Chapter 11 when restructuring is enabled
// and the debtor is not already under it; otherwise liquidation is
// immediate.
func (g *Game) enterBankruptcyDecision(debtor, creditor, amount int) {
	d := g.Players[debtor]
	if g.Settings.Restructuring && d.Chapter11 == nil {
		g.Bankruptcy = &models.PendingBankruptcy{
			DebtorSeat:   debtor,
			CreditorSeat: creditor,
			Amount:       amount,
		}
		g.Phase = PhaseBankruptcyDecision
		return
	}
	g.liquidate(debtor, creditor)
}

// forgiveRent waives the debt entirely. Creditor's choice.
func (g *Game) forgiveRent(seat int) {
	neg := g.RentNegotiation
	debtor := g.Players[neg.DebtorSeat]
	g.logEvent(seat, "%s forgave %s's £%d rent", g.Players[seat].Name, debtor.Name, neg.Amount)
	g.RentNegotiation = nil
	g.utilityFactor = 0
	g.Phase = PhaseResolving
}

// proposePaymentPlan offers the debtor a split: upfront cash now, the
// remainder as an interest-bearing IOU. Upfront is clamped to what the
// debtor holds.
func (g *Game) proposePaymentPlan(seat, upfront int) {
	neg := g.RentNegotiation
	debtor := g.Players[neg.DebtorSeat]
	if upfront < 0 {
		upfront = 0
	}
	if upfront > debtor.Cash {
		upfront = debtor.Cash
	}
	if upfront >= neg.Amount {
		upfront = neg.Amount - 1
	}
	neg.PlanUpfront = upfront
	neg.Stage = models.StagePlanOffered
	g.logEvent(seat, "%s proposed a plan: £%d now, £%d as an IOU", g.Players[seat].Name, upfront, neg.Amount-upfront)
}

// acceptPaymentPlan executes the offered split. Debtor's choice; declining
// is expressed by declaring bankruptcy or Chapter 11 via demand.
func (g *Game) acceptPaymentPlan(seat int) {
	neg := g.RentNegotiation
	debtor := g.Players[neg.DebtorSeat]
	creditor := g.Players[neg.CreditorSeat]
	upfront := neg.PlanUpfront
	if upfront > debtor.Cash {
		upfront = debtor.Cash
	}
	debtor.Cash -= upfront
	creditor.Cash += upfront
	iou := g.createIOU(neg.DebtorSeat, neg.CreditorSeat, neg.Amount-upfront)
	g.logEvent(seat, "%s accepted: £%d paid, £%d owed to %s", debtor.Name, upfront, iou.Principal, creditor.Name)
	g.RentNegotiation = nil
	g.utilityFactor = 0
	g.Phase = PhaseResolving
}

// demandPayment is the creditor refusing leniency; the debtor must now
// choose between restructuring and bankruptcy.
func (g *Game) demandPayment(seat int) {
	neg := g.RentNegotiation
	g.logEvent(seat, "%s demands full payment of £%d", g.Players[seat].Name, neg.Amount)
	g.RentNegotiation = nil
	g.enterBankruptcyDecision(neg.DebtorSeat, neg.CreditorSeat, neg.Amount)
}

// declareChapter11 puts the debtor into restructuring: the unpaid debt is
// deferred (an IOU to a player creditor, a bank loan otherwise), rent
// collected by the debtor is halved, and total debt must be brought down to
// half its current level within the configured number of turns.
func (g *Game) declareChapter11(seat int) {
	pending := g.Bankruptcy
	d := g.Players[pending.DebtorSeat]

	if pending.CreditorSeat >= 0 {
		g.createIOU(pending.DebtorSeat, pending.CreditorSeat, pending.Amount)
	} else {
		id, _ := uuid.NewRandom()
		d.Loans = append(d.Loans, &models.BankLoan{ID: id, Balance: pending.Amount, Rate: g.Settings.LoanInterestRate})
	}
	d.Chapter11 = &models.Chapter11Status{
		DebtTarget: g.totalDebt(d) / 2,
		TurnsLeft:  g.Settings.Chapter11Turns,
	}
	g.logEvent(seat, "%s entered Chapter 11: debt target £%d within %d turns", d.Name, d.Chapter11.DebtTarget, d.Chapter11.TurnsLeft)
	g.Bankruptcy = nil
	g.utilityFactor = 0
	g.Phase = PhaseResolving
}

// declareBankruptcy liquidates the debtor in favor of the pending creditor.
func (g *Game) declareBankruptcy(seat int) {
	pending := g.Bankruptcy
	g.Bankruptcy = nil
	g.liquidate(pending.DebtorSeat, pending.CreditorSeat)
}

// progressChapter11 ticks the restructuring clock at end of turn: meeting
// the debt target exits Chapter 11, running out the clock forces
// liquidation to the bank.
func (g *Game) progressChapter11(p *models.Player) {
	if p.Chapter11 == nil {
		return
	}
	if g.totalDebt(p) <= p.Chapter11.DebtTarget {
		g.logEvent(p.Seat, "%s met the debt target and exits Chapter 11", p.Name)
		p.Chapter11 = nil
		return
	}
	p.Chapter11.TurnsLeft--
	if p.Chapter11.TurnsLeft <= 0 {
		g.logEvent(p.Seat, "%s failed restructuring and is liquidated", p.Name)
		g.liquidate(p.Seat, -1)
		return
	}
	g.logEvent(p.Seat, "%s has %d restructuring turns left (debt £%d, target £%d)", p.Name, p.Chapter11.TurnsLeft, g.totalDebt(p), p.Chapter11.DebtTarget)
}

// liquidate removes the debtor from play. Buildings return to the supply
// pools; deeds and remaining cash go to a player creditor, or revert to the
// bank unowned. IOUs held by the debtor transfer to the creditor.
func (g *Game) liquidate(debtorSeat, creditorSeat int) {
	d := g.Players[debtorSeat]
	var creditor *models.Player
	if creditorSeat >= 0 {
		creditor = g.Players[creditorSeat]
	}

	for _, pos := range d.Properties {
		sp := g.Board[pos]
		g.HousePool += sp.Houses
		sp.Houses = 0
		if sp.Hotel {
			g.HotelPool++
			sp.Hotel = false
		}
		sp.Insurance = nil
		if creditor != nil {
			sp.Owner = creditor.Seat
			creditor.Properties = append(creditor.Properties, pos)
		} else {
			sp.Owner = -1
			sp.Mortgaged = false
		}
	}
	d.Properties = nil

	if creditor != nil {
		creditor.Cash += d.Cash
		creditor.JailCards += d.JailCards
	}
	d.Cash = 0
	d.JailCards = 0
	d.Loans = nil
	d.Chapter11 = nil
	d.InJail = false
	d.JailTurns = 0

	// Debts owed by the liquidated player are wiped; debts owed to them
	// follow the estate.
	kept := g.IOUs[:0]
	for _, iou := range g.IOUs {
		switch {
		case iou.DebtorSeat == debtorSeat:
		case iou.CreditorSeat == debtorSeat && creditor != nil:
			iou.CreditorSeat = creditor.Seat
			kept = append(kept, iou)
		case iou.CreditorSeat == debtorSeat:
		default:
			kept = append(kept, iou)
		}
	}
	g.IOUs = kept

	d.Bankrupt = true
	if creditor != nil {
		g.logEvent(debtorSeat, "%s is bankrupt; the estate passes to %s", d.Name, creditor.Name)
	} else {
		g.logEvent(debtorSeat, "%s is bankrupt; assets revert to the bank", d.Name)
	}

	g.cancelAuctionFor(debtorSeat)
	g.cancelTradeFor(debtorSeat)
	g.RentNegotiation = nil
	g.utilityFactor = 0

	if g.checkWin() {
		return
	}
	if debtorSeat == g.CurrentPlayerIndex {
		g.advanceSeat()
	}
}
