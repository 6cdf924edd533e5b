// internal/handlers/server.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/childoftherion/ludomercatus-sub000/internal/game"
)

// Server holds the room registry shared by the HTTP and WebSocket handlers.
type Server struct {
	Rooms  *game.RoomStore
	Logger *logrus.Logger
}

func NewServer(logger *logrus.Logger) *Server {
	return &Server{
		Rooms:  game.NewRoomStore(),
		Logger: logger,
	}
}

type createRoomRequest struct {
	Mode string `json:"mode"`
}

type createRoomResponse struct {
	ID string `json:"id"`
}

// CreateRoomHandler creates a new room in the lobby phase and returns its ID.
func CreateRoomHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req createRoomRequest
		if r.Body != nil {
			// An empty body means default mode.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		if req.Mode == "" {
			req.Mode = "classic"
		}
		g := game.NewGame(req.Mode, s.Logger)
		s.Rooms.Add(g)
		s.Logger.WithField("room", g.ID.String()).Info("room created")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createRoomResponse{ID: g.ID.String()})
	}
}

// ListRoomsHandler returns a summary of every live room.
func ListRoomsHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.Rooms.List())
	}
}
