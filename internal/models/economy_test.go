package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIOUSimpleInterest(t *testing.T) {
	iou := &IOU{Principal: 100, Rate: 0.05, CreatedRound: 2}

	assert.Equal(t, 100, iou.OwedAt(2))
	assert.Equal(t, 105, iou.OwedAt(3))
	assert.Equal(t, 115, iou.OwedAt(5))
	assert.Equal(t, 100, iou.OwedAt(1), "rounds before creation accrue nothing")
}

func TestIOUObservationIsIdempotent(t *testing.T) {
	iou := &IOU{Principal: 100, Rate: 0.05, CreatedRound: 0}

	first := iou.OwedAt(4)
	second := iou.OwedAt(4)
	assert.Equal(t, first, second)
	assert.Equal(t, 100, iou.Principal, "reads never mutate the record")
}

func TestIOUPaymentCapitalizesInterest(t *testing.T) {
	iou := &IOU{Principal: 100, Rate: 0.05, CreatedRound: 0}

	remaining := iou.ApplyPayment(50, 3)

	assert.Equal(t, 65, remaining, "115 owed minus 50 paid")
	assert.Equal(t, 65, iou.Principal)
	assert.Equal(t, 3, iou.CreatedRound, "accrual baseline resets at payment")
	assert.Equal(t, 65, iou.OwedAt(3), "no double-counted interest")
}

func TestIOUOverpaymentClampsToZero(t *testing.T) {
	iou := &IOU{Principal: 40, Rate: 0.05, CreatedRound: 0}
	assert.Equal(t, 0, iou.ApplyPayment(100, 0))
}

func TestBankLoanAccrual(t *testing.T) {
	loan := &BankLoan{Balance: 200, Rate: 0.05}

	assert.Equal(t, 10, loan.Accrue(1.0))
	assert.Equal(t, 210, loan.Balance)

	// Banking crisis doubles the tick.
	assert.Equal(t, 21, loan.Accrue(2.0))
	assert.Equal(t, 231, loan.Balance)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 7, roundHalfUp(7.4))
	assert.Equal(t, 8, roundHalfUp(7.5))
	assert.Equal(t, 29, roundHalfUp(29.4))
	assert.Equal(t, 2, roundHalfUp(1.5))
	assert.Equal(t, -8, roundHalfUp(-7.5))
}
