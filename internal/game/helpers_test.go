// internal/game/helpers_test.go
package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

// mockNotifier records per-seat messages and change broadcasts instead of
// sending them over WS.
type mockNotifier struct {
	mu       sync.Mutex
	changes  int
	messages map[int][]string
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{messages: make(map[int][]string)}
}

func (m *mockNotifier) onChange() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes++
}

func (m *mockNotifier) notify(seat int, kind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[seat] = append(m.messages[seat], kind+": "+message)
}

func (m *mockNotifier) lastMessage(seat int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.messages[seat]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func (m *mockNotifier) messageCount(seat int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages[seat])
}

// setupTestGame seats numPlayers humans and starts the game.
func setupTestGame(t *testing.T, numPlayers int) (*Game, *mockNotifier) {
	t.Helper()
	g, mn := setupLobby(t, numPlayers)
	g.HandleAction(0, models.GameAction{Action: ActionStartGame})
	require.True(t, g.Started, "game should be started")
	require.Equal(t, PhaseRolling, g.Phase)
	return g, mn
}

// setupLobby seats numPlayers humans without starting.
func setupLobby(t *testing.T, numPlayers int) (*Game, *mockNotifier) {
	t.Helper()
	g := NewGame("classic", nil)
	mn := newMockNotifier()
	g.OnChange = mn.onChange
	g.NotifyPlayerFn = mn.notify
	for i := 0; i < numPlayers; i++ {
		seat, err := g.AddPlayer(fmt.Sprintf("Player %d", i+1), uuid.New())
		require.NoError(t, err)
		require.Equal(t, i, seat)
	}
	return g, mn
}

// totalCash sums cash across all players, bankrupt or not.
func totalCash(g *Game) int {
	total := 0
	for _, p := range g.Players {
		total += p.Cash
	}
	return total
}

// giveProperty hands a deed to a seat directly, bypassing purchase.
func giveProperty(g *Game, seat, pos int) {
	sp := g.Board[pos]
	sp.Owner = seat
	g.Players[seat].Properties = append(g.Players[seat].Properties, pos)
}

// giveGroup hands a full color group to a seat.
func giveGroup(g *Game, seat int, group string) []int {
	positions := groupPositions(g.Board, group)
	for _, pos := range positions {
		giveProperty(g, seat, pos)
	}
	return positions
}
