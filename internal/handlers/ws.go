// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/childoftherion/ludomercatus-sub000/internal/game"
	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

// RoomMessage is the envelope for incoming WebSocket messages.
type RoomMessage struct {
	Type    string                 `json:"type"`
	Action  string                 `json:"action,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Name    string                 `json:"name,omitempty"`
}

const writeTimeout = 3 * time.Second

// RoomWSHandler upgrades the connection for a specific room, seats (or
// reseats) the authenticated user, and runs the read loop. All game
// mutation goes through Game.HandleAction; the handler never touches state
// directly.
func RoomWSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomIDStr := strings.TrimPrefix(r.URL.Path, "/room/ws/")
		if idx := strings.Index(roomIDStr, "/"); idx >= 0 {
			roomIDStr = roomIDStr[:idx]
		}
		roomID, err := uuid.Parse(roomIDStr)
		if err != nil {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}
		g, ok := s.Rooms.Get(roomID)
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("authentication failed for room %s: %v", roomID, err)
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"monopoly"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("websocket accept error for room %s: %v", roomID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error")

		if c.Subprotocol() != "monopoly" {
			c.Close(websocket.StatusPolicyViolation, "client must use the 'monopoly' subprotocol")
			return
		}

		name := r.URL.Query().Get("name")
		if name == "" {
			name = "Guest"
		}
		seat, err := g.AddPlayer(name, userID)
		if err != nil {
			sendWsError(r.Context(), c, logger, err.Error())
			c.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}

		g.Mu.Lock()
		g.Players[seat].Conn = c
		if g.OnChange == nil {
			g.OnChange = broadcastStateFunc(g, logger)
		}
		if g.NotifyPlayerFn == nil {
			g.NotifyPlayerFn = notifySeatFunc(g, logger)
		}
		g.Mu.Unlock()
		g.HandleReconnect(userID, seat)

		logger.WithFields(logrus.Fields{"room": roomID.String(), "seat": seat}).Infof("%s connected", name)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		readRoomMessages(ctx, c, g, seat, logger)

		g.HandleDisconnect(userID)
	}
}

// broadcastStateFunc serializes the room state under the lock and fans it
// out asynchronously. Called without the game lock held.
func broadcastStateFunc(g *game.Game, logger *logrus.Logger) func() {
	return func() {
		g.Mu.Lock()
		data, err := json.Marshal(g)
		conns := make([]*websocket.Conn, 0, len(g.Players))
		for _, p := range g.Players {
			if p.Connected && p.Conn != nil {
				conns = append(conns, p.Conn)
			}
		}
		g.Mu.Unlock()
		if err != nil {
			logger.Errorf("failed to marshal state for room %s: %v", g.ID, err)
			return
		}

		envelope, err := json.Marshal(map[string]json.RawMessage{
			"type":  json.RawMessage(`"state"`),
			"state": data,
		})
		if err != nil {
			logger.Errorf("failed to wrap state for room %s: %v", g.ID, err)
			return
		}

		go func(conns []*websocket.Conn, data []byte) {
			for _, conn := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Warnf("failed to write state to a client in room %s: %v", g.ID, err)
				}
				cancel()
			}
		}(conns, envelope)
	}
}

// notifySeatFunc delivers a private message (denial reasons) to one seat.
// Called without the game lock held.
func notifySeatFunc(g *game.Game, logger *logrus.Logger) func(seat int, kind, message string) {
	return func(seat int, kind, message string) {
		var conn *websocket.Conn
		g.Mu.Lock()
		if seat >= 0 && seat < len(g.Players) {
			p := g.Players[seat]
			if p.Connected && p.Conn != nil {
				conn = p.Conn
			}
		}
		g.Mu.Unlock()
		if conn == nil {
			return
		}
		data, err := json.Marshal(map[string]string{"type": kind, "message": message})
		if err != nil {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Warnf("failed to notify seat %d in room %s: %v", seat, g.ID, err)
			}
		}()
	}
}

// readRoomMessages runs the blocking per-connection read loop.
func readRoomMessages(ctx context.Context, c *websocket.Conn, g *game.Game, seat int, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for seat %d in room %s", seat, g.ID)
			} else if !strings.Contains(err.Error(), "context canceled") {
				logger.Warnf("read error for seat %d in room %s: %v", seat, g.ID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg RoomMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, logger, "invalid JSON")
			continue
		}

		switch msg.Type {
		case "action":
			g.HandleAction(seat, models.GameAction{Action: msg.Action, Payload: msg.Payload})

		case "add_ai":
			g.Mu.Lock()
			host := g.HostSeat()
			started := g.Started
			g.Mu.Unlock()
			if seat != host || started {
				sendWsError(ctx, c, logger, "only the host can add AI players in the lobby")
				continue
			}
			name := msg.Name
			if name == "" {
				name = fmt.Sprintf("Bot %d", seat+1)
			}
			if _, err := g.AddAIPlayer(name); err != nil {
				sendWsError(ctx, c, logger, err.Error())
				continue
			}
			if g.OnChange != nil {
				g.OnChange()
			}

		case "ping":
			sendWsMessage(ctx, c, logger, map[string]string{"type": "pong"})

		default:
			sendWsError(ctx, c, logger, fmt.Sprintf("unknown message type: %s", msg.Type))
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func sendWsMessage(ctx context.Context, c *websocket.Conn, logger *logrus.Logger, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("failed to marshal websocket message: %v", err)
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.Write(wctx, websocket.MessageText, data); err != nil {
		logger.Warnf("failed to write websocket message: %v", err)
	}
}

func sendWsError(ctx context.Context, c *websocket.Conn, logger *logrus.Logger, message string) {
	sendWsMessage(ctx, c, logger, map[string]string{"type": "error", "message": message})
}
