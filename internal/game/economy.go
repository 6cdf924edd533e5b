// internal/game/economy.go
package game

import (
	"math"

	"github.com/google/uuid"

	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

// roundMoney applies the uniform rounding rule for every fractional money
// computation in the engine: round half up.
func roundMoney(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CalculateRent computes the rent owed for landing on the space, applying
// the modifier stack in order: event modifier, property value multiplier,
// Chapter 11 discount. Rounding happens once, at the end.
func (g *Game) CalculateRent(sp *models.Space, diceTotal int) int {
	base := 0
	switch sp.Type {
	case models.SpaceProperty:
		switch {
		case sp.Hotel:
			base = sp.HotelRent
		case sp.Houses > 0:
			base = sp.HouseRents[sp.Houses-1]
		case g.ownerHasMonopoly(sp):
			base = sp.BaseRent * 2
		default:
			base = sp.BaseRent
		}
	case models.SpaceRailroad:
		owned := g.countOwnedInGroup(sp.Owner, "railroad")
		base = sp.BaseRent
		for i := 1; i < owned; i++ {
			base *= 2
		}
	case models.SpaceUtility:
		factor := 4
		if g.utilityFactor > 0 {
			factor = g.utilityFactor
		} else if g.countOwnedInGroup(sp.Owner, "utility") >= 2 {
			factor = 10
		}
		base = diceTotal * factor
	}

	rent := float64(base)
	if g.eventActive(models.EventRecession) {
		rent *= 0.75
	} else if g.eventActive(models.EventBullMarket) {
		rent *= 1.2
	}
	rent *= clampMultiplier(sp.ValueMultiplier)
	owner := g.Players[sp.Owner]
	if owner.Chapter11 != nil {
		rent *= 0.5
	}
	return roundMoney(rent)
}

// ownerHasMonopoly reports whether the owner holds every property in the
// space's color group with zero buildings anywhere in the group.
func (g *Game) ownerHasMonopoly(sp *models.Space) bool {
	for _, pos := range groupPositions(g.Board, sp.Group) {
		other := g.Board[pos]
		if other.Owner != sp.Owner {
			return false
		}
		if other.Houses > 0 || other.Hotel {
			return false
		}
	}
	return true
}

// countOwnedInGroup counts group members (railroads/utilities) held by the
// seat.
func (g *Game) countOwnedInGroup(seat int, group string) int {
	count := 0
	for _, sp := range g.Board {
		if sp.Group == group && sp.Owner == seat {
			count++
		}
	}
	return count
}

func clampMultiplier(m float64) float64 {
	if m == 0 {
		return 1.0
	}
	if m < 0.5 {
		return 0.5
	}
	if m > 2.0 {
		return 2.0
	}
	return m
}

// purchasePrice is the list price adjusted by active price events.
func (g *Game) purchasePrice(sp *models.Space) int {
	price := float64(sp.Price)
	if g.eventActive(models.EventMarketCrash) {
		price *= 0.8
	}
	return roundMoney(price)
}

// TaxAmount resolves the tax owed for the chosen method. "networth" charges
// the configured percentage of net worth; anything else is the flat amount.
// An active tax holiday waives the tax.
func (g *Game) TaxAmount(p *models.Player, sp *models.Space, method string) int {
	if g.eventActive(models.EventTaxHoliday) {
		return 0
	}
	if method == "networth" {
		return roundMoney(float64(g.NetWorth(p)) * g.Settings.NetWorthTaxRate)
	}
	flat := sp.TaxAmount
	if flat == 0 {
		flat = g.Settings.FlatTax
	}
	return flat
}

// NetWorth is cash plus unmortgaged property value at the current
// multiplier plus half-cost liquidation value of buildings, minus
// outstanding debt, floored at zero.
func (g *Game) NetWorth(p *models.Player) int {
	worth := float64(p.Cash)
	for _, pos := range p.Properties {
		sp := g.Board[pos]
		if !sp.Mortgaged {
			worth += float64(sp.Price) * clampMultiplier(sp.ValueMultiplier)
		}
		buildings := sp.Houses
		if sp.Hotel {
			buildings = 5
		}
		worth += float64(buildings*sp.HouseCost) / 2
	}
	worth -= float64(g.totalDebt(p))
	if worth < 0 {
		return 0
	}
	return roundMoney(worth)
}

// totalDebt sums loan balances and IOU principal owed by the player.
func (g *Game) totalDebt(p *models.Player) int {
	debt := 0
	for _, loan := range p.Loans {
		debt += loan.Balance
	}
	for _, iou := range g.IOUs {
		if iou.DebtorSeat == p.Seat {
			debt += iou.OwedAt(g.Round)
		}
	}
	return debt
}

// takeLoan borrows from the bank up to netWorth*maxLoanPercent minus
// existing debt, subject to the minimum loan size.
func (g *Game) takeLoan(seat, amount int) {
	p := g.Players[seat]
	ceiling := roundMoney(float64(g.NetWorth(p))*g.Settings.MaxLoanPercent) - g.totalDebt(p)
	if amount < g.Settings.MinLoanAmount {
		g.logEvent(seat, "loan request below minimum of £%d", g.Settings.MinLoanAmount)
		return
	}
	if amount > ceiling {
		g.logEvent(seat, "%s cannot borrow £%d (limit £%d)", p.Name, amount, ceiling)
		return
	}
	id, _ := uuid.NewRandom()
	p.Loans = append(p.Loans, &models.BankLoan{ID: id, Balance: amount, Rate: g.Settings.LoanInterestRate})
	p.Cash += amount
	g.logEvent(seat, "%s borrowed £%d from the bank", p.Name, amount)
}

// repayLoan pays down the oldest loan first.
func (g *Game) repayLoan(seat, amount int) {
	p := g.Players[seat]
	if len(p.Loans) == 0 {
		g.logEvent(seat, "%s has no outstanding loans", p.Name)
		return
	}
	if amount <= 0 || amount > p.Cash {
		g.logEvent(seat, "%s cannot repay £%d", p.Name, amount)
		return
	}
	loan := p.Loans[0]
	if amount > loan.Balance {
		amount = loan.Balance
	}
	p.Cash -= amount
	loan.Balance -= amount
	g.logEvent(seat, "%s repaid £%d (loan balance £%d)", p.Name, amount, loan.Balance)
	if loan.Balance == 0 {
		p.Loans = p.Loans[1:]
	}
}

// payIOU pays down an IOU held against the player. Interest accrued so far
// is capitalized at payment time; see models.IOU.
func (g *Game) payIOU(seat int, iouID string, amount int) {
	p := g.Players[seat]
	id, err := uuid.Parse(iouID)
	if err != nil {
		g.logEvent(seat, "invalid IOU reference")
		return
	}
	for i, iou := range g.IOUs {
		if iou.ID != id || iou.DebtorSeat != seat {
			continue
		}
		owed := iou.OwedAt(g.Round)
		if amount > owed {
			amount = owed
		}
		if amount <= 0 || amount > p.Cash {
			g.logEvent(seat, "%s cannot pay £%d towards the IOU", p.Name, amount)
			return
		}
		creditor := g.Players[iou.CreditorSeat]
		p.Cash -= amount
		creditor.Cash += amount
		remaining := iou.ApplyPayment(amount, g.Round)
		g.logEvent(seat, "%s paid £%d to %s on an IOU (£%d outstanding)", p.Name, amount, creditor.Name, remaining)
		if remaining == 0 {
			g.IOUs = append(g.IOUs[:i], g.IOUs[i+1:]...)
		}
		return
	}
	g.logEvent(seat, "IOU not found")
}

// createIOU records a new deferred debt between two seats.
func (g *Game) createIOU(debtor, creditor, principal int) *models.IOU {
	id, _ := uuid.NewRandom()
	iou := &models.IOU{
		ID:           id,
		DebtorSeat:   debtor,
		CreditorSeat: creditor,
		Principal:    principal,
		Rate:         g.Settings.IOUInterestRate,
		CreatedRound: g.Round,
	}
	g.IOUs = append(g.IOUs, iou)
	return iou
}

// buyInsurance purchases a repair-cost policy on an owned property for a
// percentage of its price.
func (g *Game) buyInsurance(seat, pos int) {
	p := g.Players[seat]
	if pos < 0 || pos >= BoardSize {
		g.logEvent(seat, "no such property")
		return
	}
	sp := g.Board[pos]
	if sp.Owner != seat {
		g.logEvent(seat, "%s does not own %s", p.Name, sp.Name)
		return
	}
	if sp.Insurance != nil {
		g.logEvent(seat, "%s is already insured", sp.Name)
		return
	}
	premium := roundMoney(float64(sp.Price) * g.Settings.InsurancePremium)
	if p.Cash < premium {
		g.logEvent(seat, "%s cannot afford the £%d premium", p.Name, premium)
		return
	}
	p.Cash -= premium
	sp.Insurance = &models.InsurancePolicy{Premium: premium, RoundsLeft: g.Settings.InsuranceRounds}
	g.logEvent(seat, "%s insured %s for %d rounds (£%d premium)", p.Name, sp.Name, g.Settings.InsuranceRounds, premium)
}

// expireInsurance sweeps policies once per completed round.
func (g *Game) expireInsurance() {
	for _, sp := range g.Board {
		if sp.Insurance == nil {
			continue
		}
		sp.Insurance.RoundsLeft--
		if sp.Insurance.RoundsLeft <= 0 {
			g.logEvent(-1, "insurance on %s expired", sp.Name)
			sp.Insurance = nil
		}
	}
}

// currentGoSalary applies the inflation schedule to the base salary.
func (g *Game) currentGoSalary() int {
	if g.Settings.InflationRate == 0 {
		return g.Settings.GoSalaryBase
	}
	completed := g.Round - 1
	if completed < 0 {
		completed = 0
	}
	return roundMoney(float64(g.Settings.GoSalaryBase) * math.Pow(1+g.Settings.InflationRate, float64(completed)))
}

// mortgageProperty advances half the price against the deed. A fraction of
// the proceeds feeds the parking jackpot.
func (g *Game) mortgageProperty(seat, pos int) {
	p := g.Players[seat]
	if pos < 0 || pos >= BoardSize {
		g.logEvent(seat, "no such property")
		return
	}
	sp := g.Board[pos]
	if sp.Owner != seat || sp.Mortgaged {
		g.logEvent(seat, "%s cannot mortgage %s", p.Name, sp.Name)
		return
	}
	if sp.Houses > 0 || sp.Hotel {
		g.logEvent(seat, "%s must sell buildings on %s first", p.Name, sp.Name)
		return
	}
	value := sp.MortgageValue()
	sp.Mortgaged = true
	p.Cash += value
	if g.Settings.Jackpot {
		g.Jackpot += value / 10
	}
	g.logEvent(seat, "%s mortgaged %s for £%d", p.Name, sp.Name, value)
}

// unmortgageProperty redeems the deed at mortgage value plus 10% interest.
func (g *Game) unmortgageProperty(seat, pos int) {
	p := g.Players[seat]
	if pos < 0 || pos >= BoardSize {
		g.logEvent(seat, "no such property")
		return
	}
	sp := g.Board[pos]
	if sp.Owner != seat || !sp.Mortgaged {
		g.logEvent(seat, "%s cannot unmortgage %s", p.Name, sp.Name)
		return
	}
	cost := roundMoney(float64(sp.MortgageValue()) * 1.1)
	if p.Cash < cost {
		g.logEvent(seat, "%s cannot afford £%d to unmortgage %s", p.Name, cost, sp.Name)
		return
	}
	p.Cash -= cost
	sp.Mortgaged = false
	g.logEvent(seat, "%s unmortgaged %s for £%d", p.Name, sp.Name, cost)
}

// houseBuildCost is the per-house cost adjusted by active events.
func (g *Game) houseBuildCost(sp *models.Space) int {
	cost := float64(sp.HouseCost)
	if g.eventActive(models.EventHousingBoom) {
		cost *= 1.5
	}
	return roundMoney(cost)
}

// buildHouse adds a house, or converts four houses to a hotel. Supply is
// conserved: a hotel purchase returns 4 houses to the pool and removes one
// hotel.
func (g *Game) buildHouse(seat, pos int) {
	p := g.Players[seat]
	if pos < 0 || pos >= BoardSize {
		g.logEvent(seat, "no such property")
		return
	}
	sp := g.Board[pos]
	if sp.Type != models.SpaceProperty || sp.Owner != seat || sp.Mortgaged {
		g.logEvent(seat, "%s cannot build on %s", p.Name, sp.Name)
		return
	}
	if !g.ownsFullGroup(seat, sp.Group) {
		g.logEvent(seat, "%s needs the whole %s group to build", p.Name, sp.Group)
		return
	}
	if sp.Hotel {
		g.logEvent(seat, "%s already has a hotel", sp.Name)
		return
	}
	cost := g.houseBuildCost(sp)
	if p.Cash < cost {
		g.logEvent(seat, "%s cannot afford a house on %s (£%d)", p.Name, sp.Name, cost)
		return
	}
	if sp.Houses == 4 {
		if g.HotelPool <= 0 {
			g.logEvent(seat, "no hotels left in supply")
			return
		}
		sp.Houses = 0
		sp.Hotel = true
		g.HousePool += 4
		g.HotelPool--
		p.Cash -= cost
		g.logEvent(seat, "%s built a hotel on %s", p.Name, sp.Name)
		return
	}
	if g.HousePool <= 0 {
		g.logEvent(seat, "no houses left in supply")
		return
	}
	sp.Houses++
	g.HousePool--
	p.Cash -= cost
	g.logEvent(seat, "%s built a house on %s (%d houses)", p.Name, sp.Name, sp.Houses)
}

// sellHouse liquidates one building at half cost, reversing the supply
// movement of buildHouse.
func (g *Game) sellHouse(seat, pos int) {
	p := g.Players[seat]
	if pos < 0 || pos >= BoardSize {
		g.logEvent(seat, "no such property")
		return
	}
	sp := g.Board[pos]
	if sp.Type != models.SpaceProperty || sp.Owner != seat {
		g.logEvent(seat, "%s cannot sell buildings on %s", p.Name, sp.Name)
		return
	}
	if sp.Hotel {
		if g.HousePool < 4 {
			g.logEvent(seat, "not enough houses in supply to break up the hotel")
			return
		}
		sp.Hotel = false
		sp.Houses = 4
		g.HotelPool++
		g.HousePool -= 4
		p.Cash += sp.HouseCost / 2
		g.logEvent(seat, "%s sold the hotel on %s", p.Name, sp.Name)
		return
	}
	if sp.Houses == 0 {
		g.logEvent(seat, "no buildings on %s", sp.Name)
		return
	}
	sp.Houses--
	g.HousePool++
	p.Cash += sp.HouseCost / 2
	g.logEvent(seat, "%s sold a house on %s (%d left)", p.Name, sp.Name, sp.Houses)
}

// ownsFullGroup reports whether the seat owns every property in the color
// group.
func (g *Game) ownsFullGroup(seat int, group string) bool {
	for _, pos := range groupPositions(g.Board, group) {
		if g.Board[pos].Owner != seat {
			return false
		}
	}
	return true
}
