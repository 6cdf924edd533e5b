// internal/game/store.go
package game

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// defaultRoomIdleTimeout is how long a room with no connected humans and no
// activity survives before the sweeper reclaims it.
const defaultRoomIdleTimeout = 10 * time.Minute

// RoomStore is the in-memory registry of live rooms.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*Game
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[uuid.UUID]*Game),
	}
}

func (s *RoomStore) Add(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[g.ID] = g
}

func (s *RoomStore) Get(id uuid.UUID) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.rooms[id]
	return g, exists
}

func (s *RoomStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// RoomSummary is the listing row sent to clients browsing rooms.
type RoomSummary struct {
	ID      uuid.UUID `json:"id"`
	Mode    string    `json:"mode"`
	Players int       `json:"players"`
	Started bool      `json:"started"`
}

// List returns a snapshot summary of every live room.
func (s *RoomStore) List() []RoomSummary {
	s.mu.Lock()
	rooms := make([]*Game, 0, len(s.rooms))
	for _, g := range s.rooms {
		rooms = append(rooms, g)
	}
	s.mu.Unlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, g := range rooms {
		g.Mu.Lock()
		out = append(out, RoomSummary{
			ID:      g.ID,
			Mode:    g.Mode,
			Players: len(g.Players),
			Started: g.Started,
		})
		g.Mu.Unlock()
	}
	return out
}

// RunSweeper reclaims idle rooms on an interval until the context is
// cancelled. Rooms with a connected human are never reclaimed.
func (s *RoomStore) RunSweeper(ctx context.Context, interval time.Duration, logger *logrus.Logger) {
	timeout := roomIdleTimeout()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, summary := range s.List() {
				g, ok := s.Get(summary.ID)
				if !ok {
					continue
				}
				last, anyConnected := g.IdleSince()
				if anyConnected || time.Since(last) < timeout {
					continue
				}
				s.Delete(g.ID)
				if logger != nil {
					logger.WithField("room", g.ID.String()).Info("reclaimed idle room")
				}
			}
		}
	}
}

// roomIdleTimeout reads ROOM_IDLE_TIMEOUT (seconds) from the environment.
func roomIdleTimeout() time.Duration {
	if v := os.Getenv("ROOM_IDLE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRoomIdleTimeout
}
