// internal/game/cards.go
package game

import (
	"math/rand"

	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

// newChanceDeck builds the chance deck. Drawn cards cycle to the bottom.
func newChanceDeck() []*models.Card {
	return []*models.Card{
		{Deck: models.DeckChance, Text: "Advance to GO", Effect: models.CardMoveTo, Target: PosGo},
		{Deck: models.DeckChance, Text: "Advance to Trafalgar Square", Effect: models.CardMoveTo, Target: 24},
		{Deck: models.DeckChance, Text: "Advance to Mayfair", Effect: models.CardMoveTo, Target: 39},
		{Deck: models.DeckChance, Text: "Advance to the nearest utility and pay ten times your roll", Effect: models.CardNearestUtility},
		{Deck: models.DeckChance, Text: "Bank pays you dividend of £50", Effect: models.CardCollect, Amount: 50},
		{Deck: models.DeckChance, Text: "Get out of jail free", Effect: models.CardJailFree},
		{Deck: models.DeckChance, Text: "Go back 3 spaces", Effect: models.CardMoveRelative, Amount: -3},
		{Deck: models.DeckChance, Text: "Go directly to jail", Effect: models.CardGoToJail},
		{Deck: models.DeckChance, Text: "Make general repairs: £25 per house, £100 per hotel", Effect: models.CardRepairs, Amount: 25, AmountHotel: 100},
		{Deck: models.DeckChance, Text: "Speeding fine £15", Effect: models.CardPay, Amount: 15},
		{Deck: models.DeckChance, Text: "You have been elected chairman of the board: pay each player £50", Effect: models.CardPayEachPlayer, Amount: 50},
		{Deck: models.DeckChance, Text: "Your building loan matures: collect £150", Effect: models.CardCollect, Amount: 150},
	}
}

// newChestDeck builds the community chest deck.
func newChestDeck() []*models.Card {
	return []*models.Card{
		{Deck: models.DeckChest, Text: "Advance to GO", Effect: models.CardMoveTo, Target: PosGo},
		{Deck: models.DeckChest, Text: "Bank error in your favour: collect £200", Effect: models.CardCollect, Amount: 200},
		{Deck: models.DeckChest, Text: "Doctor's fee: pay £50", Effect: models.CardPay, Amount: 50},
		{Deck: models.DeckChest, Text: "From sale of stock you get £50", Effect: models.CardCollect, Amount: 50},
		{Deck: models.DeckChest, Text: "Get out of jail free", Effect: models.CardJailFree},
		{Deck: models.DeckChest, Text: "Go directly to jail", Effect: models.CardGoToJail},
		{Deck: models.DeckChest, Text: "Holiday fund matures: collect £100", Effect: models.CardCollect, Amount: 100},
		{Deck: models.DeckChest, Text: "Income tax refund: collect £20", Effect: models.CardCollect, Amount: 20},
		{Deck: models.DeckChest, Text: "It is your birthday: collect £10 from every player", Effect: models.CardCollectFromAll, Amount: 10},
		{Deck: models.DeckChest, Text: "Pay hospital fees of £100", Effect: models.CardPay, Amount: 100},
		{Deck: models.DeckChest, Text: "Street repairs: £40 per house, £115 per hotel", Effect: models.CardRepairs, Amount: 40, AmountHotel: 115},
		{Deck: models.DeckChest, Text: "You inherit £100", Effect: models.CardCollect, Amount: 100},
	}
}

func shuffleDeck(r *rand.Rand, deck []*models.Card) {
	r.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// drawCard takes the top card and cycles it to the bottom of the deck,
// returning the card and the rotated deck.
func drawCard(deck []*models.Card) (*models.Card, []*models.Card) {
	if len(deck) == 0 {
		return nil, deck
	}
	card := deck[0]
	return card, append(deck[1:], card)
}
