// internal/game/economy_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

func TestRentBaseAndMonopoly(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	sp := g.Board[1] // Old Kent Road, base rent 2
	giveProperty(g, 1, 1)
	assert.Equal(t, 2, g.CalculateRent(sp, 7))

	giveProperty(g, 1, 3) // completes brown group
	assert.Equal(t, 4, g.CalculateRent(sp, 7), "unimproved monopoly doubles base rent")

	g.Board[3].Houses = 1
	assert.Equal(t, 2, g.CalculateRent(sp, 7), "buildings anywhere in the group cancel the double")
}

func TestRentWithBuildings(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	sp := g.Board[39] // Mayfair
	giveProperty(g, 1, 39)

	sp.Houses = 3
	assert.Equal(t, 1400, g.CalculateRent(sp, 7))
	sp.Houses = 0
	sp.Hotel = true
	assert.Equal(t, 2000, g.CalculateRent(sp, 7))
}

func TestRailroadRentDoublesPerStation(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	sp := g.Board[5]
	giveProperty(g, 1, 5)
	assert.Equal(t, 25, g.CalculateRent(sp, 7))

	giveProperty(g, 1, 15)
	assert.Equal(t, 50, g.CalculateRent(sp, 7))

	giveProperty(g, 1, 25)
	giveProperty(g, 1, 35)
	assert.Equal(t, 200, g.CalculateRent(sp, 7))
}

func TestUtilityRent(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	sp := g.Board[12]
	giveProperty(g, 1, 12)
	assert.Equal(t, 28, g.CalculateRent(sp, 7), "one utility pays 4x the roll")

	giveProperty(g, 1, 28)
	assert.Equal(t, 70, g.CalculateRent(sp, 7), "both utilities pay 10x the roll")
}

func TestUtilityCardFactorOverrides(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	sp := g.Board[12]
	giveProperty(g, 1, 12)
	g.utilityFactor = 10
	assert.Equal(t, 70, g.CalculateRent(sp, 7))
}

func TestRentModifierStackRoundsOnce(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	sp := g.Board[12]
	giveProperty(g, 1, 12)
	sp.ValueMultiplier = 1.05
	// 7*4 = 28, *1.05 = 29.4, rounded half up once at the end.
	assert.Equal(t, 29, g.CalculateRent(sp, 7))
}

func TestRentRecessionModifier(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	sp := g.Board[1]
	giveProperty(g, 1, 1)
	sp.ValueMultiplier = 1.0
	g.Events = append(g.Events, &models.ActiveEconomicEvent{Type: models.EventRecession, RoundsLeft: 2})
	// base 2 * 0.75 = 1.5 -> 2 (round half up)
	assert.Equal(t, 2, g.CalculateRent(sp, 7))

	sp.Houses = 1 // rent 10 * 0.75 = 7.5 -> 8
	assert.Equal(t, 8, g.CalculateRent(sp, 7))
}

func TestRentChapter11Halved(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	sp := g.Board[39]
	giveProperty(g, 1, 39)
	g.Players[1].Chapter11 = &models.Chapter11Status{DebtTarget: 100, TurnsLeft: 3}
	assert.Equal(t, 25, g.CalculateRent(sp, 7), "owner in restructuring collects half")
}

func TestValueMultiplierClamped(t *testing.T) {
	assert.Equal(t, 1.0, clampMultiplier(0))
	assert.Equal(t, 0.5, clampMultiplier(0.1))
	assert.Equal(t, 2.0, clampMultiplier(3.5))
	assert.Equal(t, 1.3, clampMultiplier(1.3))
}

func TestRentZeroSum(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 1, 1)
	before := totalCash(g)

	g.Roll = &models.DiceRoll{Die1: 1, Die2: 0, Total: 1}
	g.Phase = PhaseMoving
	g.movePlayer(0, 1)

	assert.Equal(t, before, totalCash(g), "rent moves cash, never creates or destroys it")
	assert.Equal(t, PhaseResolving, g.Phase)
}

func TestMortgagedPropertyChargesNoRent(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 1, 1)
	g.Board[1].Mortgaged = true
	cashBefore := g.Players[0].Cash

	g.Roll = &models.DiceRoll{Die1: 1, Die2: 0, Total: 1}
	g.Phase = PhaseMoving
	g.movePlayer(0, 1)
	assert.Equal(t, cashBefore, g.Players[0].Cash)
	assert.Equal(t, PhaseResolving, g.Phase)
}

func TestTaxAmountMethods(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	p := g.Players[0]
	sp := g.Board[4] // Income Tax, flat 200
	assert.Equal(t, 200, g.TaxAmount(p, sp, "flat"))
	// 10% of net worth (1500 cash, no assets).
	assert.Equal(t, 150, g.TaxAmount(p, sp, "networth"))

	g.Events = append(g.Events, &models.ActiveEconomicEvent{Type: models.EventTaxHoliday, RoundsLeft: 1})
	assert.Equal(t, 0, g.TaxAmount(p, sp, "flat"))
}

func TestNetWorthCountsAssetsMinusDebt(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	p := g.Players[0]
	p.Cash = 500
	giveProperty(g, 0, 1) // £60
	g.Board[1].Houses = 2 // 2 * 50 / 2 = 50
	giveProperty(g, 0, 3)
	g.Board[3].Mortgaged = true // excluded

	assert.Equal(t, 610, g.NetWorth(p))

	g.createIOU(0, 1, 100)
	assert.Equal(t, 510, g.NetWorth(p))
}

func TestTakeLoanCeiling(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	p := g.Players[0]
	p.Cash = 1000
	// Net worth 1000, ceiling 50% = 500.
	g.takeLoan(0, 600)
	assert.Empty(t, p.Loans)

	g.takeLoan(0, 400)
	require.Len(t, p.Loans, 1)
	assert.Equal(t, 1400, p.Cash)

	// Existing debt shrinks the ceiling.
	g.takeLoan(0, 400)
	assert.Len(t, p.Loans, 1)
}

func TestTakeLoanMinimum(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.takeLoan(0, 20)
	assert.Empty(t, g.Players[0].Loans)
}

func TestLoanInterestAccruesAtTurnEnd(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	p := g.Players[0]
	g.takeLoan(0, 200)
	require.Len(t, p.Loans, 1)

	g.applyEndOfTurnEconomy(p)
	assert.Equal(t, 210, p.Loans[0].Balance, "5% simple interest per turn")

	g.Events = append(g.Events, &models.ActiveEconomicEvent{Type: models.EventBankingCrisis, RoundsLeft: 2})
	g.applyEndOfTurnEconomy(p)
	assert.Equal(t, 231, p.Loans[0].Balance, "banking crisis doubles the rate")
}

func TestPayIOUCapitalizesInterest(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	debtor := g.Players[0]
	creditor := g.Players[1]
	iou := g.createIOU(0, 1, 100)
	g.Round += 3
	require.Equal(t, 115, iou.OwedAt(g.Round))

	debtorBefore, creditorBefore := debtor.Cash, creditor.Cash
	g.payIOU(0, iou.ID.String(), 50)
	assert.Equal(t, debtorBefore-50, debtor.Cash)
	assert.Equal(t, creditorBefore+50, creditor.Cash)
	assert.Equal(t, 65, iou.OwedAt(g.Round), "payment capitalizes accrued interest first")
}

func TestPayIOUFullClears(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	iou := g.createIOU(0, 1, 100)
	g.payIOU(0, iou.ID.String(), 100)
	assert.Empty(t, g.IOUs)
}

func TestGoSalaryInflation(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Settings.InflationRate = 0.05
	g.Round = 1
	assert.Equal(t, 200, g.currentGoSalary())
	g.Round = 2
	assert.Equal(t, 210, g.currentGoSalary())
	g.Round = 3
	// 200 * 1.05^2 = 220.5 -> 221
	assert.Equal(t, 221, g.currentGoSalary())
}

func TestMortgageAndRedeem(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	p := g.Players[0]
	giveProperty(g, 0, 39) // Mayfair £400
	cashBefore := p.Cash

	g.mortgageProperty(0, 39)
	assert.True(t, g.Board[39].Mortgaged)
	assert.Equal(t, cashBefore+200, p.Cash)
	assert.Equal(t, 20, g.Jackpot, "a tenth of the advance feeds the jackpot")

	g.mortgageProperty(0, 39)
	assert.Equal(t, cashBefore+200, p.Cash, "double mortgage rejected")

	g.unmortgageProperty(0, 39)
	assert.False(t, g.Board[39].Mortgaged)
	assert.Equal(t, cashBefore-20, p.Cash, "redeemed at 110% of the advance")
}

func TestMortgageBlockedByBuildings(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 0, 39)
	g.Board[39].Houses = 1
	g.mortgageProperty(0, 39)
	assert.False(t, g.Board[39].Mortgaged)
}

func TestBuildHouseRequiresFullGroup(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 0, 1)
	g.buildHouse(0, 1)
	assert.Equal(t, 0, g.Board[1].Houses)

	giveProperty(g, 0, 3)
	g.buildHouse(0, 1)
	assert.Equal(t, 1, g.Board[1].Houses)
	assert.Equal(t, TotalHouses-1, g.HousePool)
}

func TestHotelConversionConservesSupply(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	p := g.Players[0]
	p.Cash = 5000
	giveGroup(g, 0, "brown")
	for i := 0; i < 4; i++ {
		g.buildHouse(0, 1)
	}
	require.Equal(t, 4, g.Board[1].Houses)
	require.Equal(t, TotalHouses-4, g.HousePool)

	g.buildHouse(0, 1)
	assert.True(t, g.Board[1].Hotel)
	assert.Equal(t, 0, g.Board[1].Houses)
	assert.Equal(t, TotalHouses, g.HousePool, "hotel conversion returns 4 houses")
	assert.Equal(t, TotalHotels-1, g.HotelPool)

	g.sellHouse(0, 1)
	assert.False(t, g.Board[1].Hotel)
	assert.Equal(t, 4, g.Board[1].Houses)
	assert.Equal(t, TotalHouses-4, g.HousePool)
	assert.Equal(t, TotalHotels, g.HotelPool)
}

func TestBuildHouseSupplyExhausted(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Players[0].Cash = 5000
	giveGroup(g, 0, "brown")
	g.HousePool = 0
	g.buildHouse(0, 1)
	assert.Equal(t, 0, g.Board[1].Houses)
}

func TestHousingBoomRaisesBuildCost(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	p := g.Players[0]
	p.Cash = 5000
	giveGroup(g, 0, "brown")
	g.Events = append(g.Events, &models.ActiveEconomicEvent{Type: models.EventHousingBoom, RoundsLeft: 2})

	cashBefore := p.Cash
	g.buildHouse(0, 1)
	assert.Equal(t, cashBefore-75, p.Cash, "house cost 50 * 1.5 under a boom")
}

func TestMarketCrashDiscountsPurchase(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	g.Events = append(g.Events, &models.ActiveEconomicEvent{Type: models.EventMarketCrash, RoundsLeft: 2})
	assert.Equal(t, 48, g.purchasePrice(g.Board[1]), "£60 listed, 20% off in a crash")
}

func TestBuyInsurancePremium(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	p := g.Players[0]
	giveProperty(g, 0, 39)
	cashBefore := p.Cash

	g.buyInsurance(0, 39)
	require.NotNil(t, g.Board[39].Insurance)
	assert.Equal(t, cashBefore-40, p.Cash, "premium is 10% of price")
	assert.Equal(t, g.Settings.InsuranceRounds, g.Board[39].Insurance.RoundsLeft)
}

func TestInsuranceExpires(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 0, 39)
	g.Board[39].Insurance = &models.InsurancePolicy{Premium: 40, RoundsLeft: 1}
	g.expireInsurance()
	assert.Nil(t, g.Board[39].Insurance)
}

func TestUtilityCardOverrideDiesWithoutRent(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 1, 28) // Water Works
	p := g.Players[0]

	// Nearest-utility card landed the player on the unowned Electric
	// Company; the purchase decision resolves the landing without rent.
	g.utilityFactor = 10
	p.Position = 12
	g.resolveOwnableSpace(p, g.Board[12])
	require.Equal(t, PhaseBuyDecision, g.Phase)

	assert.Equal(t, 28, g.CalculateRent(g.Board[28], 7), "the 10x override must not leak past its landing")
}

func TestUtilityCardOverrideDiesOnOwnAndMortgagedUtility(t *testing.T) {
	g, _ := setupTestGame(t, 2)
	giveProperty(g, 0, 12)
	giveProperty(g, 1, 28)
	p := g.Players[0]

	g.utilityFactor = 10
	p.Position = 12
	g.resolveOwnableSpace(p, g.Board[12])
	assert.Equal(t, PhaseResolving, g.Phase)
	assert.Equal(t, 28, g.CalculateRent(g.Board[28], 7))

	g.utilityFactor = 10
	g.Board[28].Mortgaged = true
	p.Position = 28
	g.resolveOwnableSpace(p, g.Board[28])
	g.Board[28].Mortgaged = false
	assert.Equal(t, 28, g.CalculateRent(g.Board[28], 7))
}
