// internal/game/trade_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

func proposeSimpleTrade(t *testing.T, g *Game, payload map[string]interface{}) {
	t.Helper()
	g.Phase = PhaseResolving
	g.HandleAction(0, models.GameAction{Action: ActionProposeTrade, Payload: payload})
	require.NotNil(t, g.Trade)
	require.Equal(t, PhaseTrading, g.Phase)
}

func TestProposeTradeEntersTradingPhase(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 0, 1)
	proposeSimpleTrade(t, g, map[string]interface{}{
		"receiver":        float64(1),
		"offerProperties": []interface{}{float64(1)},
		"requestCash":     float64(100),
	})
	assert.Equal(t, models.TradePending, g.Trade.Status)
	assert.Equal(t, 1, g.Trade.Responder())
}

func TestProposeTradeRejectsUnownedProperty(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Phase = PhaseResolving
	g.HandleAction(0, models.GameAction{Action: ActionProposeTrade, Payload: map[string]interface{}{
		"receiver":        float64(1),
		"offerProperties": []interface{}{float64(1)},
	}})
	assert.Nil(t, g.Trade, "offering an unowned deed is rejected up front")
	assert.Equal(t, PhaseResolving, g.Phase)
}

func TestAcceptTradeTransfersBothSides(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 0, 1)
	giveProperty(g, 1, 39)
	ini, rec := g.Players[0], g.Players[1]
	iniCash, recCash := ini.Cash, rec.Cash

	proposeSimpleTrade(t, g, map[string]interface{}{
		"receiver":          float64(1),
		"offerProperties":   []interface{}{float64(1)},
		"offerCash":         float64(50),
		"requestProperties": []interface{}{float64(39)},
	})
	g.HandleAction(1, models.GameAction{Action: ActionAcceptTrade})

	assert.Nil(t, g.Trade)
	assert.Equal(t, PhaseResolving, g.Phase)
	assert.Equal(t, iniCash-50, ini.Cash)
	assert.Equal(t, recCash+50, rec.Cash)
	assert.Equal(t, 1, g.Board[1].Owner)
	assert.Equal(t, 0, g.Board[39].Owner)
	assert.Contains(t, rec.Properties, 1)
	assert.Contains(t, ini.Properties, 39)
	assert.NotContains(t, ini.Properties, 1)
}

func TestCounterTradeOncePerCycle(t *testing.T) {
	g, mn := setupTestGame(t, 2)
	giveProperty(g, 0, 1)
	proposeSimpleTrade(t, g, map[string]interface{}{
		"receiver":        float64(1),
		"offerProperties": []interface{}{float64(1)},
		"requestCash":     float64(100),
	})

	g.HandleAction(1, models.GameAction{Action: ActionCounterTrade, Payload: map[string]interface{}{
		"offerProperties": []interface{}{float64(1)},
		"requestCash":     float64(60),
	}})
	require.Equal(t, models.TradeCounterPending, g.Trade.Status)
	assert.True(t, g.Trade.Countered)
	assert.Equal(t, 0, g.Trade.Responder(), "authority flips back to the initiator")

	// The initiator cannot counter the counter.
	g.HandleAction(0, models.GameAction{Action: ActionCounterTrade, Payload: map[string]interface{}{}})
	assert.Contains(t, mn.lastMessage(0), "countered once")

	g.HandleAction(0, models.GameAction{Action: ActionAcceptTrade})
	assert.Nil(t, g.Trade)
	assert.Equal(t, 1, g.Board[1].Owner)
}

func TestAcceptStaleTradeVoids(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 0, 1)
	proposeSimpleTrade(t, g, map[string]interface{}{
		"receiver":        float64(1),
		"offerProperties": []interface{}{float64(1)},
	})

	// Offered deed gets mortgaged while the offer is pending.
	g.Board[1].Mortgaged = true
	g.HandleAction(1, models.GameAction{Action: ActionAcceptTrade})

	assert.Nil(t, g.Trade)
	assert.Equal(t, 0, g.Board[1].Owner, "stale trade voids, nothing transfers")
	assert.Equal(t, PhaseResolving, g.Phase)
}

func TestTradeCashShortfallVoids(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	proposeSimpleTrade(t, g, map[string]interface{}{
		"receiver":  float64(1),
		"offerCash": float64(500),
	})
	g.Players[0].Cash = 100

	recBefore := g.Players[1].Cash
	g.HandleAction(1, models.GameAction{Action: ActionAcceptTrade})
	assert.Nil(t, g.Trade)
	assert.Equal(t, recBefore, g.Players[1].Cash)
}

func TestRejectAndCancelTrade(t *testing.T) {
	g, mn := setupTestGame(t, 2)
	proposeSimpleTrade(t, g, map[string]interface{}{
		"receiver":  float64(1),
		"offerCash": float64(10),
	})

	// Only the responder may reject.
	g.HandleAction(0, models.GameAction{Action: ActionRejectTrade})
	assert.Contains(t, mn.lastMessage(0), "not your response")
	require.NotNil(t, g.Trade)

	g.HandleAction(1, models.GameAction{Action: ActionRejectTrade})
	assert.Nil(t, g.Trade)
	assert.Equal(t, PhaseResolving, g.Phase)

	proposeSimpleTrade(t, g, map[string]interface{}{
		"receiver":  float64(1),
		"offerCash": float64(10),
	})
	g.HandleAction(0, models.GameAction{Action: ActionCancelTrade})
	assert.Nil(t, g.Trade)
}

func TestTradeRestoresInterruptedPhase(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Phase = PhaseRolling
	g.HandleAction(0, models.GameAction{Action: ActionProposeTrade, Payload: map[string]interface{}{
		"receiver":  float64(1),
		"offerCash": float64(10),
	}})
	require.Equal(t, PhaseTrading, g.Phase)

	g.HandleAction(1, models.GameAction{Action: ActionRejectTrade})
	assert.Equal(t, PhaseRolling, g.Phase, "resolution restores the phase the trade interrupted")
}

func TestCancelTradeForBankruptParty(t *testing.T) {
	g, _ := setupTestGame(t, 3)
	proposeSimpleTrade(t, g, map[string]interface{}{
		"receiver":  float64(1),
		"offerCash": float64(10),
	})
	g.cancelTradeFor(1)
	assert.Nil(t, g.Trade)

	g.cancelTradeFor(2)
	assert.Nil(t, g.Trade, "no-op when no trade involves the seat")
}

func TestTradeWithJailCards(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Players[0].JailCards = 2
	proposeSimpleTrade(t, g, map[string]interface{}{
		"receiver":       float64(1),
		"offerJailCards": float64(1),
		"requestCash":    float64(25),
	})
	g.HandleAction(1, models.GameAction{Action: ActionAcceptTrade})

	assert.Equal(t, 1, g.Players[0].JailCards)
	assert.Equal(t, 1, g.Players[1].JailCards)
	assert.Equal(t, 1525, g.Players[0].Cash)
	assert.Equal(t, 1475, g.Players[1].Cash)
}
