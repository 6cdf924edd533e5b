package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinimumBidOpening(t *testing.T) {
	a := &Auction{HighestBidder: -1}

	assert.Equal(t, 40, a.MinimumBid(400))
	assert.Equal(t, 10, a.MinimumBid(60), "floor of 10 applies to cheap deeds")
}

func TestMinimumBidIncrement(t *testing.T) {
	a := &Auction{HighestBidder: 2, CurrentBid: 40}
	assert.Equal(t, 50, a.MinimumBid(400), "ten percent of 40 is below the floor")

	a.CurrentBid = 200
	assert.Equal(t, 220, a.MinimumBid(400))
}

func TestTradeOfferResponder(t *testing.T) {
	offer := &TradeOffer{InitiatorSeat: 0, ReceiverSeat: 2, Status: TradePending}
	assert.Equal(t, 2, offer.Responder())

	offer.Status = TradeCounterPending
	assert.Equal(t, 0, offer.Responder(), "decision flips to the initiator on a counter")

	assert.True(t, offer.Involves(0))
	assert.True(t, offer.Involves(2))
	assert.False(t, offer.Involves(1))
}
