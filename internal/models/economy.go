package models

import "github.com/google/uuid"

// IOU is a deferred-payment record between two players, created when a
// debtor cannot fully cover rent and negotiation is enabled.
//
// Interest is simple and computed lazily: the amount owed after r elapsed
// rounds is Principal * (1 + Rate*r), with r = currentRound - CreatedRound.
// Observation never mutates the record, so accrual is idempotent and
// order-independent. A payment first capitalizes accrued interest
// (Principal becomes the owed total, CreatedRound resets) and then subtracts
// the payment.
type IOU struct {
	ID           uuid.UUID `json:"id"`
	DebtorSeat   int       `json:"debtorSeat"`
	CreditorSeat int       `json:"creditorSeat"`
	Principal    int       `json:"principal"`
	Rate         float64   `json:"rate"` // per completed round
	CreatedRound int       `json:"createdRound"`
}

// OwedAt returns the total outstanding at the given round.
func (i *IOU) OwedAt(round int) int {
	elapsed := round - i.CreatedRound
	if elapsed < 0 {
		elapsed = 0
	}
	return roundHalfUp(float64(i.Principal) * (1 + i.Rate*float64(elapsed)))
}

// ApplyPayment capitalizes interest up to the given round, subtracts the
// payment, and returns the remaining balance. The accrual baseline resets to
// the payment round.
func (i *IOU) ApplyPayment(amount, round int) int {
	i.Principal = i.OwedAt(round) - amount
	if i.Principal < 0 {
		i.Principal = 0
	}
	i.CreatedRound = round
	return i.Principal
}

// BankLoan is borrowed from the bank against net worth. Interest accrues
// incrementally once per end-of-turn (doubled while a banking crisis event
// is active), so Balance is always current.
type BankLoan struct {
	ID      uuid.UUID `json:"id"`
	Balance int       `json:"balance"`
	Rate    float64   `json:"rate"` // per end-of-turn
}

// Accrue applies one end-of-turn interest tick at the given multiplier and
// returns the interest charged.
func (l *BankLoan) Accrue(multiplier float64) int {
	interest := roundHalfUp(float64(l.Balance) * l.Rate * multiplier)
	l.Balance += interest
	return interest
}

// EconomicEventType enumerates the randomized economic events.
type EconomicEventType string

const (
	EventRecession     EconomicEventType = "recession"
	EventHousingBoom   EconomicEventType = "housing_boom"
	EventTaxHoliday    EconomicEventType = "tax_holiday"
	EventMarketCrash   EconomicEventType = "market_crash"
	EventBullMarket    EconomicEventType = "bull_market"
	EventBankingCrisis EconomicEventType = "banking_crisis"
	EventStimulus      EconomicEventType = "stimulus"
)

// ActiveEconomicEvent is a non-instant event currently in effect.
// Re-triggering the same type extends RoundsLeft rather than stacking;
// RoundsLeft decrements once per completed round.
type ActiveEconomicEvent struct {
	Type        EconomicEventType `json:"type"`
	Description string            `json:"description"`
	RoundsLeft  int               `json:"roundsLeft"`
}

func roundHalfUp(x float64) int {
	if x < 0 {
		return -roundHalfUp(-x)
	}
	return int(x + 0.5)
}
