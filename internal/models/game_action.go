package models

import "time"

// GameAction captures one requested player move as delivered by the
// transport: an action name plus a loosely-typed payload. The authorization
// gate validates both before anything executes.
type GameAction struct {
	Action  string                 `json:"action"`
	Payload map[string]interface{} `json:"payload"`
}

// DiceRoll is the active roll for the current turn. A roll authorizes
// exactly one movement of its total; Moved flips once that movement has been
// consumed.
type DiceRoll struct {
	Die1    int  `json:"die1"`
	Die2    int  `json:"die2"`
	Total   int  `json:"total"`
	Doubles bool `json:"doubles"`
	Moved   bool `json:"moved"`
}

// CardDeck names the two rotating decks.
type CardDeck string

const (
	DeckChance CardDeck = "chance"
	DeckChest  CardDeck = "chest"
)

// CardEffect enumerates what a drawn card does.
type CardEffect string

const (
	CardCollect        CardEffect = "collect"
	CardPay            CardEffect = "pay"
	CardMoveTo         CardEffect = "move_to"
	CardMoveRelative   CardEffect = "move_relative"
	CardJailFree       CardEffect = "jail_free"
	CardGoToJail       CardEffect = "go_to_jail"
	CardRepairs        CardEffect = "repairs"
	CardPayEachPlayer  CardEffect = "pay_each_player"
	CardCollectFromAll CardEffect = "collect_from_all"
	CardNearestUtility CardEffect = "nearest_utility"
)

// Card is one chance or community-chest card. Amount and Target are
// interpreted per effect: collect/pay amounts, destination positions, or
// per-house repair cost (with AmountHotel for hotels).
type Card struct {
	Deck        CardDeck   `json:"deck"`
	Text        string     `json:"text"`
	Effect      CardEffect `json:"effect"`
	Amount      int        `json:"amount,omitempty"`
	AmountHotel int        `json:"amountHotel,omitempty"`
	Target      int        `json:"target,omitempty"`
}

// GameLogEntry is one line of the room's append-only audit trail.
type GameLogEntry struct {
	Round     int       `json:"round"`
	Seat      int       `json:"seat"` // -1 for bank/system entries
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
