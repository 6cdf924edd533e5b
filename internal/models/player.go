package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seat at the table. Players are created when the game is
// assembled (or when a client joins the lobby) and are never removed;
// bankruptcy is a terminal flag, not deletion.
type Player struct {
	Seat   int       `json:"seat"`
	Name   string    `json:"name"`
	Token  string    `json:"token"`
	Color  string    `json:"color"`
	UserID uuid.UUID `json:"userId,omitempty"`

	Conn      *websocket.Conn `json:"-"`
	Connected bool            `json:"connected"`

	// ConnEpoch increments on every connect/disconnect transition. Grace
	// timers capture it so a stale fire after reconnection is a no-op.
	ConnEpoch int `json:"-"`

	Cash       int   `json:"cash"`
	Position   int   `json:"position"`
	Properties []int `json:"properties"`

	InJail    bool `json:"inJail"`
	JailTurns int  `json:"jailTurns"`
	JailCards int  `json:"jailCards"`

	IsAI     bool `json:"isAI"`
	Bankrupt bool `json:"bankrupt"`

	Loans     []*BankLoan      `json:"loans,omitempty"`
	Chapter11 *Chapter11Status `json:"chapter11,omitempty"`
}

// OwnsProperty reports whether the given board position appears in the
// player's property list.
func (p *Player) OwnsProperty(pos int) bool {
	for _, owned := range p.Properties {
		if owned == pos {
			return true
		}
	}
	return false
}

// RemoveProperty deletes a board position from the player's property list.
// Returns false if the position was not present.
func (p *Player) RemoveProperty(pos int) bool {
	for i, owned := range p.Properties {
		if owned == pos {
			p.Properties = append(p.Properties[:i], p.Properties[i+1:]...)
			return true
		}
	}
	return false
}

// Chapter11Status tracks a player in restructuring: they keep their assets
// and collect half rent, but must bring total debt at or below DebtTarget
// before TurnsLeft runs out or they are liquidated.
type Chapter11Status struct {
	DebtTarget int `json:"debtTarget"`
	TurnsLeft  int `json:"turnsLeft"`
}
