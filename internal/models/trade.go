package models

import "github.com/google/uuid"

// TradeStatus is the negotiation state of a TradeOffer.
type TradeStatus string

const (
	TradePending        TradeStatus = "pending"
	TradeCounterPending TradeStatus = "counter_pending"
	TradeAccepted       TradeStatus = "accepted"
	TradeRejected       TradeStatus = "rejected"
	TradeCancelled      TradeStatus = "cancelled"
)

// TradeOffer is a two-party exchange of cash, properties and jail-free
// cards. Only the initiator may propose or cancel; only the receiver may
// counter, and only once per pending cycle. Accept/reject authority flips to
// the initiator while a counter-offer is outstanding.
type TradeOffer struct {
	ID            uuid.UUID   `json:"id"`
	InitiatorSeat int         `json:"initiatorSeat"`
	ReceiverSeat  int         `json:"receiverSeat"`
	Status        TradeStatus `json:"status"`

	OfferCash         int   `json:"offerCash"`
	OfferProperties   []int `json:"offerProperties"`
	OfferJailCards    int   `json:"offerJailCards"`
	RequestCash       int   `json:"requestCash"`
	RequestProperties []int `json:"requestProperties"`
	RequestJailCards  int   `json:"requestJailCards"`

	// Countered guards the once-per-cycle counter-offer rule.
	Countered bool `json:"countered"`
}

// Responder returns the seat whose accept/reject decision is pending.
func (t *TradeOffer) Responder() int {
	if t.Status == TradeCounterPending {
		return t.InitiatorSeat
	}
	return t.ReceiverSeat
}

// Involves reports whether the seat is a party to the trade.
func (t *TradeOffer) Involves(seat int) bool {
	return t.InitiatorSeat == seat || t.ReceiverSeat == seat
}
