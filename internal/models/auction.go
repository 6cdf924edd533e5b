package models

// Auction runs when a property purchase is declined. Bidding rotates through
// non-bankrupt seats that have not passed, wrapping around, and closes when
// at most one eligible bidder remains.
type Auction struct {
	Property      int          `json:"property"`
	CurrentBid    int          `json:"currentBid"`
	HighestBidder int          `json:"highestBidder"` // seat index, -1 before any bid
	ActiveBidder  int          `json:"activeBidder"`
	Passed        map[int]bool `json:"passed"`
}

// MinimumBid returns the smallest legal next bid: max(10, 10% of price) to
// open, then current bid plus max(10, 10% of current bid).
func (a *Auction) MinimumBid(price int) int {
	if a.HighestBidder < 0 {
		return maxInt(10, price/10)
	}
	return a.CurrentBid + maxInt(10, a.CurrentBid/10)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// NegotiationStage tracks where a pending rent negotiation stands.
type NegotiationStage string

const (
	StageCreditorChoice NegotiationStage = "creditor_choice"
	StagePlanOffered    NegotiationStage = "plan_offered"
)

// PendingRentNegotiation exists while a creditor decides what to do about
// rent the debtor cannot cover: forgive it, propose a partial payment plus
// an IOU, or demand full payment.
type PendingRentNegotiation struct {
	DebtorSeat   int              `json:"debtorSeat"`
	CreditorSeat int              `json:"creditorSeat"`
	Amount       int              `json:"amount"`
	Property     int              `json:"property"`
	Stage        NegotiationStage `json:"stage"`

	// PlanUpfront is the cash portion of an offered payment plan; the
	// remainder becomes an IOU if the debtor accepts.
	PlanUpfront int `json:"planUpfront,omitempty"`
}

// PendingBankruptcy exists while an insolvent debtor chooses between
// Chapter 11 restructuring and full bankruptcy. CreditorSeat is -1 when the
// debt is owed to the bank.
type PendingBankruptcy struct {
	DebtorSeat   int `json:"debtorSeat"`
	CreditorSeat int `json:"creditorSeat"`
	Amount       int `json:"amount"`
}
