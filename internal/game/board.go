// internal/game/board.go
package game

import "github.com/childoftherion/ludomercatus-sub000/internal/models"

// Building supply pools. A hotel purchase returns the property's 4 houses to
// the pool and takes 1 hotel; sale and liquidation reverse both.
const (
	TotalHouses = 32
	TotalHotels = 12
)

// BoardSize is the number of spaces; movement is modulo BoardSize.
const BoardSize = 40

// Well-known positions used by space resolution and card effects.
const (
	PosGo          = 0
	PosJail        = 10
	PosFreeParking = 20
	PosGoToJail    = 30
)

func prop(pos int, name, group string, price, baseRent int, houseRents []int, hotelRent, houseCost int) *models.Space {
	return &models.Space{
		Position: pos, Name: name, Type: models.SpaceProperty, Group: group,
		Price: price, BaseRent: baseRent, HouseRents: houseRents,
		HotelRent: hotelRent, HouseCost: houseCost,
		Owner: -1, ValueMultiplier: 1.0,
	}
}

func railroad(pos int, name string) *models.Space {
	return &models.Space{
		Position: pos, Name: name, Type: models.SpaceRailroad, Group: "railroad",
		Price: 200, BaseRent: 25, Owner: -1, ValueMultiplier: 1.0,
	}
}

func utility(pos int, name string) *models.Space {
	return &models.Space{
		Position: pos, Name: name, Type: models.SpaceUtility, Group: "utility",
		Price: 150, Owner: -1, ValueMultiplier: 1.0,
	}
}

func plain(pos int, name string, t models.SpaceType) *models.Space {
	return &models.Space{Position: pos, Name: name, Type: t, Owner: -1, ValueMultiplier: 1.0}
}

func tax(pos int, name string, amount int) *models.Space {
	return &models.Space{Position: pos, Name: name, Type: models.SpaceTax, TaxAmount: amount, Owner: -1, ValueMultiplier: 1.0}
}

// NewBoard builds the standard 40-space board.
func NewBoard() []*models.Space {
	return []*models.Space{
		plain(0, "GO", models.SpaceGo),
		prop(1, "Old Kent Road", "brown", 60, 2, []int{10, 30, 90, 160}, 250, 50),
		plain(2, "Community Chest", models.SpaceChest),
		prop(3, "Whitechapel Road", "brown", 60, 4, []int{20, 60, 180, 320}, 450, 50),
		tax(4, "Income Tax", 200),
		railroad(5, "King's Cross Station"),
		prop(6, "The Angel Islington", "lightblue", 100, 6, []int{30, 90, 270, 400}, 550, 50),
		plain(7, "Chance", models.SpaceChance),
		prop(8, "Euston Road", "lightblue", 100, 6, []int{30, 90, 270, 400}, 550, 50),
		prop(9, "Pentonville Road", "lightblue", 120, 8, []int{40, 100, 300, 450}, 600, 50),
		plain(10, "Jail", models.SpaceJail),
		prop(11, "Pall Mall", "pink", 140, 10, []int{50, 150, 450, 625}, 750, 100),
		utility(12, "Electric Company"),
		prop(13, "Whitehall", "pink", 140, 10, []int{50, 150, 450, 625}, 750, 100),
		prop(14, "Northumberland Avenue", "pink", 160, 12, []int{60, 180, 500, 700}, 900, 100),
		railroad(15, "Marylebone Station"),
		prop(16, "Bow Street", "orange", 180, 14, []int{70, 200, 550, 750}, 950, 100),
		plain(17, "Community Chest", models.SpaceChest),
		prop(18, "Marlborough Street", "orange", 180, 14, []int{70, 200, 550, 750}, 950, 100),
		prop(19, "Vine Street", "orange", 200, 16, []int{80, 220, 600, 800}, 1000, 100),
		plain(20, "Free Parking", models.SpaceFreeParking),
		prop(21, "The Strand", "red", 220, 18, []int{90, 250, 700, 875}, 1050, 150),
		plain(22, "Chance", models.SpaceChance),
		prop(23, "Fleet Street", "red", 220, 18, []int{90, 250, 700, 875}, 1050, 150),
		prop(24, "Trafalgar Square", "red", 240, 20, []int{100, 300, 750, 925}, 1100, 150),
		railroad(25, "Fenchurch St Station"),
		prop(26, "Leicester Square", "yellow", 260, 22, []int{110, 330, 800, 975}, 1150, 150),
		prop(27, "Coventry Street", "yellow", 260, 22, []int{110, 330, 800, 975}, 1150, 150),
		utility(28, "Water Works"),
		prop(29, "Piccadilly", "yellow", 280, 24, []int{120, 360, 850, 1025}, 1200, 150),
		plain(30, "Go To Jail", models.SpaceGoToJail),
		prop(31, "Regent Street", "green", 300, 26, []int{130, 390, 900, 1100}, 1275, 200),
		prop(32, "Oxford Street", "green", 300, 26, []int{130, 390, 900, 1100}, 1275, 200),
		plain(33, "Community Chest", models.SpaceChest),
		prop(34, "Bond Street", "green", 320, 28, []int{150, 450, 1000, 1200}, 1400, 200),
		railroad(35, "Liverpool Street Station"),
		plain(36, "Chance", models.SpaceChance),
		prop(37, "Park Lane", "darkblue", 350, 35, []int{175, 500, 1100, 1300}, 1500, 200),
		tax(38, "Super Tax", 100),
		prop(39, "Mayfair", "darkblue", 400, 50, []int{200, 600, 1400, 1700}, 2000, 200),
	}
}

// groupPositions returns every board position in the given color group.
func groupPositions(board []*models.Space, group string) []int {
	var out []int
	for _, s := range board {
		if s.Type == models.SpaceProperty && s.Group == group {
			out = append(out, s.Position)
		}
	}
	return out
}
