package models

// SpaceType classifies the 40 board positions.
type SpaceType string

const (
	SpaceGo          SpaceType = "go"
	SpaceProperty    SpaceType = "property"
	SpaceRailroad    SpaceType = "railroad"
	SpaceUtility     SpaceType = "utility"
	SpaceTax         SpaceType = "tax"
	SpaceChance      SpaceType = "chance"
	SpaceChest       SpaceType = "chest"
	SpaceJail        SpaceType = "jail"
	SpaceGoToJail    SpaceType = "go_to_jail"
	SpaceFreeParking SpaceType = "free_parking"
)

// Space is one board position. Ownership fields only apply to property,
// railroad and utility spaces; TaxAmount only to tax spaces.
//
// Invariant: Owner >= 0 iff the position appears in exactly one player's
// property list.
type Space struct {
	Position int       `json:"position"`
	Name     string    `json:"name"`
	Type     SpaceType `json:"type"`
	Group    string    `json:"group,omitempty"`

	Price      int   `json:"price,omitempty"`
	BaseRent   int   `json:"baseRent,omitempty"`
	HouseRents []int `json:"houseRents,omitempty"` // rent with 1..4 houses
	HotelRent  int   `json:"hotelRent,omitempty"`
	HouseCost  int   `json:"houseCost,omitempty"`
	TaxAmount  int   `json:"taxAmount,omitempty"`

	Owner     int  `json:"owner"` // seat index, -1 when unowned
	Houses    int  `json:"houses"`
	Hotel     bool `json:"hotel"`
	Mortgaged bool `json:"mortgaged"`

	// ValueMultiplier tracks appreciation/depreciation applied to rent and
	// valuation, clamped to [0.5, 2.0].
	ValueMultiplier float64 `json:"valueMultiplier"`

	Insurance *InsurancePolicy `json:"insurance,omitempty"`
}

// Ownable reports whether the space can have an owner at all.
func (s *Space) Ownable() bool {
	switch s.Type {
	case SpaceProperty, SpaceRailroad, SpaceUtility:
		return true
	}
	return false
}

// MortgageValue is the cash the bank advances against the deed.
func (s *Space) MortgageValue() int {
	return s.Price / 2
}

// InsurancePolicy covers repair-type card costs on a property for a fixed
// number of rounds. Expiry is swept once per completed round.
type InsurancePolicy struct {
	Premium    int `json:"premium"`
	RoundsLeft int `json:"roundsLeft"`
}
