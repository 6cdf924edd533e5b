// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/childoftherion/ludomercatus-sub000/internal/cache"
	"github.com/childoftherion/ludomercatus-sub000/internal/models"
)

// Phase is the current stage of the room's turn state machine. Exactly one
// "pending" sub-object phase is active at a time: the phase value and the
// presence of its corresponding sub-object always agree.
type Phase string

const (
	PhaseLobby              Phase = "lobby"
	PhaseRolling            Phase = "rolling"
	PhaseMoving             Phase = "moving"
	PhaseResolving          Phase = "resolving_space"
	PhaseBuyDecision        Phase = "awaiting_buy_decision"
	PhaseTaxDecision        Phase = "awaiting_tax_decision"
	PhaseRentNegotiation    Phase = "awaiting_rent_negotiation"
	PhaseBankruptcyDecision Phase = "awaiting_bankruptcy_decision"
	PhaseAuction            Phase = "auction"
	PhaseTrading            Phase = "trading"
	PhaseJailDecision       Phase = "jail_decision"
	PhaseGameOver           Phase = "game_over"
)

// Action names making up the full gated action surface. The AI policy and
// human clients invoke exactly the same set.
const (
	ActionStartGame       = "start_game"
	ActionRollDice        = "roll_dice"
	ActionMovePlayer      = "move_player"
	ActionBuyProperty     = "buy_property"
	ActionDeclineProperty = "decline_property"
	ActionPayTax          = "pay_tax"
	ActionEndTurn         = "end_turn"
	ActionPayBail         = "pay_bail"
	ActionUseJailCard     = "use_jail_card"
	ActionBuildHouse      = "build_house"
	ActionSellHouse       = "sell_house"
	ActionMortgage        = "mortgage"
	ActionUnmortgage      = "unmortgage"
	ActionTakeLoan        = "take_loan"
	ActionRepayLoan       = "repay_loan"
	ActionPayIOU          = "pay_iou"
	ActionBuyInsurance    = "buy_insurance"
	ActionPlaceBid        = "place_bid"
	ActionPassAuction     = "pass_auction"
	ActionProposeTrade    = "propose_trade"
	ActionCounterTrade    = "counter_trade"
	ActionAcceptTrade     = "accept_trade"
	ActionRejectTrade     = "reject_trade"
	ActionCancelTrade     = "cancel_trade"
	ActionForgiveRent     = "forgive_rent"
	ActionProposePlan     = "propose_payment_plan"
	ActionDemandPayment   = "demand_payment"
	ActionAcceptPlan      = "accept_payment_plan"
	ActionChapter11       = "declare_chapter11"
	ActionBankruptcy      = "declare_bankruptcy"
	ActionUpdateSettings  = "update_settings"
	ActionTriggerAI       = "trigger_ai_turn"
)

// disconnectGrace is how long a disconnected human seat waits before
// converting to AI control when its turn is blocking the game.
const disconnectGrace = 30 * time.Second

// maxLogEntries bounds the in-room event log; older entries fall off.
const maxLogEntries = 100

// Game holds the entire state for a single room in memory. All mutation is
// single-threaded under Mu: one action is fully authorized, applied and
// broadcast before the next is processed.
type Game struct {
	ID   uuid.UUID `json:"id"`
	Mode string    `json:"mode"`

	Players []*models.Player `json:"players"`
	Board   []*models.Space  `json:"board"`

	ChanceDeck []*models.Card `json:"-"`
	ChestDeck  []*models.Card `json:"-"`

	Phase              Phase            `json:"phase"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	Round              int              `json:"round"`
	Roll               *models.DiceRoll `json:"roll,omitempty"`
	DoublesCount       int              `json:"doublesCount"`

	Auction         *models.Auction                `json:"auction,omitempty"`
	Trade           *models.TradeOffer             `json:"trade,omitempty"`
	RentNegotiation *models.PendingRentNegotiation `json:"rentNegotiation,omitempty"`
	Bankruptcy      *models.PendingBankruptcy      `json:"bankruptcy,omitempty"`

	Log    []models.GameLogEntry         `json:"log"`
	Events []*models.ActiveEconomicEvent `json:"events"`
	IOUs   []*models.IOU                 `json:"ious"`

	HousePool int `json:"housePool"`
	HotelPool int `json:"hotelPool"`
	Jackpot   int `json:"jackpot"`
	GoSalary  int `json:"goSalary"`

	Settings GameSettings `json:"settings"`
	Started  bool         `json:"started"`

	Mu sync.Mutex `json:"-"`

	// OnChange fires after every successful mutation, without the lock held.
	// The transport serializes and publishes the new state.
	OnChange func() `json:"-"`

	// NotifyPlayerFn delivers a message to a single seat only (denial
	// reasons are never broadcast). Called without the lock held.
	NotifyPlayerFn func(seat int, kind, message string) `json:"-"`

	// phaseBeforeTrade restores the turn phase when a trade resolves.
	phaseBeforeTrade Phase

	// utilityFactor is a one-shot card override for utility rent (e.g. 10x
	// roll); cleared as soon as the rent is collected or forgiven.
	utilityFactor int

	lastActive  time.Time
	actionIndex int
	rng         *rand.Rand
	logger      *logrus.Entry
}

// NewGame builds an empty room in the lobby phase with a shuffled board
// setup and default settings.
func NewGame(mode string, logger *logrus.Logger) *Game {
	id, _ := uuid.NewRandom()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	g := &Game{
		ID:                 id,
		Mode:               mode,
		Board:              NewBoard(),
		ChanceDeck:         newChanceDeck(),
		ChestDeck:          newChestDeck(),
		Phase:              PhaseLobby,
		CurrentPlayerIndex: 0,
		Round:              0,
		HousePool:          TotalHouses,
		HotelPool:          TotalHotels,
		Settings:           DefaultSettings(),
		lastActive:         time.Now(),
		rng:                rng,
	}
	g.GoSalary = g.Settings.GoSalaryBase
	shuffleDeck(rng, g.ChanceDeck)
	shuffleDeck(rng, g.ChestDeck)
	if logger != nil {
		g.logger = logger.WithField("room", id.String())
	} else {
		g.logger = logrus.NewEntry(logrus.New())
	}
	return g
}

// AddPlayer seats a new player during the lobby phase, or rebinds the
// connection of an existing seat (reconnect). Returns the seat index or an
// error when the room is full or already playing.
func (g *Game) AddPlayer(name string, userID uuid.UUID) (int, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	for _, p := range g.Players {
		if p.UserID == userID && userID != uuid.Nil {
			return p.Seat, nil
		}
	}
	if g.Started {
		return -1, fmt.Errorf("game already started")
	}
	if len(g.Players) >= 8 {
		return -1, fmt.Errorf("room is full")
	}
	seat := len(g.Players)
	tokens := []string{"boot", "hat", "dog", "ship", "car", "thimble", "iron", "wheelbarrow"}
	colors := []string{"red", "blue", "green", "yellow", "purple", "orange", "cyan", "pink"}
	p := &models.Player{
		Seat:       seat,
		Name:       name,
		Token:      tokens[seat%len(tokens)],
		Color:      colors[seat%len(colors)],
		UserID:     userID,
		Connected:  true,
		Cash:       g.Settings.StartingCash,
		Properties: []int{},
	}
	g.Players = append(g.Players, p)
	g.lastActive = time.Now()
	g.logEvent(seat, "%s joined the game", name)
	return seat, nil
}

// AddAIPlayer seats a computer-controlled player during the lobby phase.
func (g *Game) AddAIPlayer(name string) (int, error) {
	seat, err := g.AddPlayer(name, uuid.Nil)
	if err != nil {
		return -1, err
	}
	g.Mu.Lock()
	g.Players[seat].IsAI = true
	g.Players[seat].Connected = false
	g.Mu.Unlock()
	return seat, nil
}

// Touch records room activity for the idle sweeper.
func (g *Game) Touch() {
	g.Mu.Lock()
	g.lastActive = time.Now()
	g.Mu.Unlock()
}

// IdleSince reports the last activity timestamp and whether any human
// player is still connected.
func (g *Game) IdleSince() (time.Time, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	anyConnected := false
	for _, p := range g.Players {
		if p.Connected {
			anyConnected = true
			break
		}
	}
	return g.lastActive, anyConnected
}

// HostSeat returns the seat index of the designated host: the first
// non-bankrupt human seat. Privileged actions (settings, AI triggering) are
// restricted to it so duplicate AI execution races cannot happen across
// multiple connected clients.
func (g *Game) HostSeat() int {
	for _, p := range g.Players {
		if !p.IsAI && !p.Bankrupt {
			return p.Seat
		}
	}
	return 0
}

// HandleAction authorizes and applies one player action, then fires the
// change notifier. A denial is reported only to the requesting seat and
// leaves the state untouched.
func (g *Game) HandleAction(seat int, act models.GameAction) {
	g.Mu.Lock()
	g.lastActive = time.Now()
	if ok, reason := g.authorize(seat, act.Action, act.Payload); !ok {
		g.Mu.Unlock()
		g.logger.WithFields(logrus.Fields{"seat": seat, "action": act.Action}).Debugf("denied: %s", reason)
		g.notify(seat, "denied", reason)
		return
	}
	g.applyAction(seat, act)
	g.runAITurn()
	g.Mu.Unlock()
	g.fireChanged()
}

// applyAction dispatches an already-authorized action. Lock held.
func (g *Game) applyAction(seat int, act models.GameAction) {
	g.publishAction(seat, act)
	switch act.Action {
	case ActionStartGame:
		g.startGame()
	case ActionRollDice:
		g.rollDice(seat)
	case ActionMovePlayer:
		steps, _ := payloadInt(act.Payload, "steps")
		g.movePlayer(seat, steps)
	case ActionBuyProperty:
		g.buyProperty(seat)
	case ActionDeclineProperty:
		g.declineProperty(seat)
	case ActionPayTax:
		method, _ := payloadString(act.Payload, "method")
		g.payTax(seat, method)
	case ActionEndTurn:
		g.endTurn(seat)
	case ActionPayBail:
		g.payBail(seat)
	case ActionUseJailCard:
		g.useJailCard(seat)
	case ActionBuildHouse:
		pos, _ := payloadInt(act.Payload, "property")
		g.buildHouse(seat, pos)
	case ActionSellHouse:
		pos, _ := payloadInt(act.Payload, "property")
		g.sellHouse(seat, pos)
	case ActionMortgage:
		pos, _ := payloadInt(act.Payload, "property")
		g.mortgageProperty(seat, pos)
	case ActionUnmortgage:
		pos, _ := payloadInt(act.Payload, "property")
		g.unmortgageProperty(seat, pos)
	case ActionTakeLoan:
		amount, _ := payloadInt(act.Payload, "amount")
		g.takeLoan(seat, amount)
	case ActionRepayLoan:
		amount, _ := payloadInt(act.Payload, "amount")
		g.repayLoan(seat, amount)
	case ActionPayIOU:
		amount, _ := payloadInt(act.Payload, "amount")
		iouID, _ := payloadString(act.Payload, "iou")
		g.payIOU(seat, iouID, amount)
	case ActionBuyInsurance:
		pos, _ := payloadInt(act.Payload, "property")
		g.buyInsurance(seat, pos)
	case ActionPlaceBid:
		amount, _ := payloadInt(act.Payload, "amount")
		g.placeBid(seat, amount)
	case ActionPassAuction:
		g.passAuction(seat)
	case ActionProposeTrade:
		g.proposeTrade(seat, act.Payload)
	case ActionCounterTrade:
		g.counterTrade(seat, act.Payload)
	case ActionAcceptTrade:
		g.acceptTrade(seat)
	case ActionRejectTrade:
		g.rejectTrade(seat)
	case ActionCancelTrade:
		g.cancelTrade(seat)
	case ActionForgiveRent:
		g.forgiveRent(seat)
	case ActionProposePlan:
		upfront, _ := payloadInt(act.Payload, "upfront")
		g.proposePaymentPlan(seat, upfront)
	case ActionDemandPayment:
		g.demandPayment(seat)
	case ActionAcceptPlan:
		g.acceptPaymentPlan(seat)
	case ActionChapter11:
		g.declareChapter11(seat)
	case ActionBankruptcy:
		g.declareBankruptcy(seat)
	case ActionUpdateSettings:
		g.updateSettings(seat, act.Payload)
	case ActionTriggerAI:
		g.runAITurn()
	}
}

// startGame transitions lobby -> rolling and deals starting cash. Cash is
// dealt here, not at seat time, so lobby settings changes apply to everyone.
func (g *Game) startGame() {
	g.Started = true
	g.Round = 1
	g.Phase = PhaseRolling
	g.CurrentPlayerIndex = 0
	g.GoSalary = g.Settings.GoSalaryBase
	for _, p := range g.Players {
		p.Cash = g.Settings.StartingCash
	}
	g.logEvent(-1, "game started with %d players", len(g.Players))
}

// rollDice produces two independent uniform die values. Three consecutive
// doubles forces the roller to jail and ends the turn immediately, bypassing
// movement. In the jail_decision phase the roll is an escape attempt
// instead.
func (g *Game) rollDice(seat int) {
	p := g.Players[seat]
	d1 := g.rng.Intn(6) + 1
	d2 := g.rng.Intn(6) + 1
	roll := &models.DiceRoll{Die1: d1, Die2: d2, Total: d1 + d2, Doubles: d1 == d2}
	g.Roll = roll
	g.logEvent(seat, "%s rolled %d and %d", p.Name, d1, d2)

	if p.InJail {
		g.resolveJailRoll(p, roll)
		return
	}

	if roll.Doubles {
		g.DoublesCount++
		if g.DoublesCount >= 3 {
			g.logEvent(seat, "%s rolled three consecutive doubles and is sent to jail", p.Name)
			g.sendToJail(p)
			g.finishTurn(p)
			return
		}
	}
	g.Phase = PhaseMoving
}

// resolveJailRoll handles the in-jail escape attempt for the current roll.
func (g *Game) resolveJailRoll(p *models.Player, roll *models.DiceRoll) {
	if roll.Doubles {
		p.InJail = false
		p.JailTurns = 0
		// The doubles are spent on the escape; no bonus roll follows.
		roll.Doubles = false
		g.logEvent(p.Seat, "%s rolled doubles and leaves jail", p.Name)
		g.Phase = PhaseMoving
		return
	}
	p.JailTurns++
	if p.JailTurns >= 3 {
		// Third failed attempt: bail is compulsory.
		bail := g.Settings.BailAmount
		if p.Cash >= bail {
			p.Cash -= bail
			p.InJail = false
			p.JailTurns = 0
			g.logEvent(p.Seat, "%s pays £%d bail after three failed escape rolls", p.Name, bail)
			g.Phase = PhaseMoving
			return
		}
		// Release is not conditional on payment; the unpaid bail becomes a
		// debt to the bank.
		p.InJail = false
		p.JailTurns = 0
		g.beginInsolvency(p.Seat, -1, bail, -1)
		return
	}
	g.logEvent(p.Seat, "%s failed to roll doubles and stays in jail", p.Name)
	g.finishTurn(p)
}

// movePlayer consumes the active roll and advances the token. Crossing GO
// pays the current (inflation-adjusted) salary.
func (g *Game) movePlayer(seat, steps int) {
	p := g.Players[seat]
	g.Roll.Moved = true
	g.advanceToken(p, steps)
	g.resolveSpace(p)
}

// advanceToken moves the token forward, paying GO salary on a wrap. Negative
// steps move backwards without salary.
func (g *Game) advanceToken(p *models.Player, steps int) {
	oldPos := p.Position
	newPos := ((oldPos+steps)%BoardSize + BoardSize) % BoardSize
	p.Position = newPos
	if steps > 0 && oldPos+steps >= BoardSize {
		p.Cash += g.GoSalary
		g.logEvent(p.Seat, "%s passed GO and collects £%d", p.Name, g.GoSalary)
	}
}

// resolveSpace applies the effect of the space the player stands on.
func (g *Game) resolveSpace(p *models.Player) {
	sp := g.Board[p.Position]
	switch sp.Type {
	case models.SpaceGo, models.SpaceJail:
		g.Phase = PhaseResolving
	case models.SpaceGoToJail:
		g.logEvent(p.Seat, "%s is sent to jail", p.Name)
		g.sendToJail(p)
		g.finishTurn(p)
	case models.SpaceFreeParking:
		g.resolveFreeParking(p)
	case models.SpaceTax:
		g.Phase = PhaseTaxDecision
	case models.SpaceChance:
		g.drawAndApply(p, models.DeckChance)
	case models.SpaceChest:
		g.drawAndApply(p, models.DeckChest)
	case models.SpaceProperty, models.SpaceRailroad, models.SpaceUtility:
		g.resolveOwnableSpace(p, sp)
	}
}

// resolveOwnableSpace branches between buy-decision and automatic rent.
func (g *Game) resolveOwnableSpace(p *models.Player, sp *models.Space) {
	switch {
	case sp.Owner < 0:
		// The one-shot card override lasts a single resolution; it dies
		// here even when no rent is due.
		g.utilityFactor = 0
		g.Phase = PhaseBuyDecision
	case sp.Owner == p.Seat, sp.Mortgaged:
		g.utilityFactor = 0
		g.Phase = PhaseResolving
	default:
		diceTotal := 0
		if g.Roll != nil {
			diceTotal = g.Roll.Total
		}
		rent := g.CalculateRent(sp, diceTotal)
		g.chargeRent(p, g.Players[sp.Owner], sp, rent)
	}
}

// resolveFreeParking optionally triggers an economic event and pays out the
// jackpot probabilistically.
func (g *Game) resolveFreeParking(p *models.Player) {
	if g.Settings.EconomicEvents {
		g.triggerRandomEvent(p.Seat)
	}
	if g.Settings.Jackpot && g.Jackpot > 0 && g.rng.Float64() < g.Settings.JackpotPayoutOdds {
		g.logEvent(p.Seat, "%s wins the £%d parking jackpot", p.Name, g.Jackpot)
		p.Cash += g.Jackpot
		g.Jackpot = 0
	}
	g.Phase = PhaseResolving
}

// buyProperty transfers the deed atomically: cash debit and ownership flip
// happen in the same critical section, never partially.
func (g *Game) buyProperty(seat int) {
	p := g.Players[seat]
	sp := g.Board[p.Position]
	price := g.purchasePrice(sp)
	if p.Cash < price {
		g.logEvent(seat, "%s cannot afford %s (£%d)", p.Name, sp.Name, price)
		return
	}
	p.Cash -= price
	sp.Owner = seat
	p.Properties = append(p.Properties, sp.Position)
	g.logEvent(seat, "%s bought %s for £%d", p.Name, sp.Name, price)
	g.Phase = PhaseResolving
}

// declineProperty sends the property to auction.
func (g *Game) declineProperty(seat int) {
	p := g.Players[seat]
	sp := g.Board[p.Position]
	g.logEvent(seat, "%s declined to buy %s; it goes to auction", p.Name, sp.Name)
	g.startAuction(sp.Position)
}

// payTax settles the tax space with the chosen method: the flat amount or a
// percentage of net worth. A tax holiday waives it entirely.
func (g *Game) payTax(seat int, method string) {
	p := g.Players[seat]
	sp := g.Board[p.Position]
	amount := g.TaxAmount(p, sp, method)
	if amount == 0 {
		g.logEvent(seat, "%s owes no tax (tax holiday)", p.Name)
		g.Phase = PhaseResolving
		return
	}
	if p.Cash < amount {
		g.beginInsolvency(seat, -1, amount, -1)
		return
	}
	p.Cash -= amount
	g.logEvent(seat, "%s paid £%d %s tax", p.Name, amount, method)
	g.Phase = PhaseResolving
}

// endTurn is the only way the current-player index advances. Doubles grant
// the same player another roll instead, unless the turn ended in jail.
func (g *Game) endTurn(seat int) {
	p := g.Players[seat]
	if g.Roll != nil && g.Roll.Doubles && !p.InJail && !p.Bankrupt {
		// Loan interest and Chapter 11 progress accrue once per actual
		// turn, not per doubles segment; the sweep waits for finishTurn.
		g.Roll = nil
		g.Phase = PhaseRolling
		g.logEvent(seat, "%s rolled doubles and goes again", p.Name)
		return
	}
	g.finishTurn(p)
}

// finishTurn applies end-of-turn economics and advances the seat. A
// liquidation during the economy sweep advances the seat itself.
func (g *Game) finishTurn(p *models.Player) {
	g.applyEndOfTurnEconomy(p)
	if p.Bankrupt || g.Phase == PhaseGameOver {
		return
	}
	g.advanceSeat()
}

// applyEndOfTurnEconomy accrues loan interest and progresses Chapter 11
// status for the player whose turn is ending.
func (g *Game) applyEndOfTurnEconomy(p *models.Player) {
	if p.Bankrupt {
		return
	}
	multiplier := 1.0
	if g.eventActive(models.EventBankingCrisis) {
		multiplier = 2.0
	}
	for _, loan := range p.Loans {
		interest := loan.Accrue(multiplier)
		if interest > 0 {
			g.logEvent(p.Seat, "loan interest of £%d accrued for %s (balance £%d)", interest, p.Name, loan.Balance)
		}
	}
	g.progressChapter11(p)
}

// advanceSeat moves to the next non-bankrupt seat, resetting the doubles
// counter and clearing the roll. Completing a full round advances the round
// counter, recomputes the GO salary, ages economic events and expires
// insurance.
func (g *Game) advanceSeat() {
	g.Roll = nil
	g.DoublesCount = 0
	if g.checkWin() {
		return
	}

	cur := g.CurrentPlayerIndex
	next := (cur + 1) % len(g.Players)
	for g.Players[next].Bankrupt {
		next = (next + 1) % len(g.Players)
		if next == cur {
			break
		}
	}
	if next <= cur {
		g.completeRound()
	}
	g.CurrentPlayerIndex = next

	if g.Players[next].InJail {
		g.Phase = PhaseJailDecision
	} else {
		g.Phase = PhaseRolling
	}
}

// completeRound runs the once-per-round sweeps.
func (g *Game) completeRound() {
	g.Round++
	g.GoSalary = g.currentGoSalary()
	g.ageEconomicEvents()
	g.expireInsurance()
}

// sendToJail moves the token to jail without passing GO.
func (g *Game) sendToJail(p *models.Player) {
	p.Position = PosJail
	p.InJail = true
	p.JailTurns = 0
}

// payBail settles bail voluntarily from the jail decision phase.
func (g *Game) payBail(seat int) {
	p := g.Players[seat]
	bail := g.Settings.BailAmount
	if p.Cash < bail {
		g.logEvent(seat, "%s cannot afford £%d bail", p.Name, bail)
		return
	}
	p.Cash -= bail
	p.InJail = false
	p.JailTurns = 0
	g.logEvent(seat, "%s paid £%d bail and is released", p.Name, bail)
	g.Phase = PhaseRolling
}

// useJailCard spends a get-out-of-jail-free card.
func (g *Game) useJailCard(seat int) {
	p := g.Players[seat]
	if p.JailCards <= 0 {
		g.logEvent(seat, "%s has no get-out-of-jail-free card", p.Name)
		return
	}
	p.JailCards--
	p.InJail = false
	p.JailTurns = 0
	g.logEvent(seat, "%s used a get-out-of-jail-free card", p.Name)
	g.Phase = PhaseRolling
}

// drawAndApply draws the top card of the deck, cycles it to the bottom, and
// applies its effect.
func (g *Game) drawAndApply(p *models.Player, deck models.CardDeck) {
	var card *models.Card
	if deck == models.DeckChance {
		card, g.ChanceDeck = drawCard(g.ChanceDeck)
	} else {
		card, g.ChestDeck = drawCard(g.ChestDeck)
	}
	if card == nil {
		g.logger.Warnf("empty %s deck in room %s", deck, g.ID)
		g.Phase = PhaseResolving
		return
	}
	g.logEvent(p.Seat, "%s drew: %s", p.Name, card.Text)
	g.applyCardEffect(p, card)
}

// applyCardEffect executes one drawn card.
func (g *Game) applyCardEffect(p *models.Player, card *models.Card) {
	switch card.Effect {
	case models.CardCollect:
		p.Cash += card.Amount
		g.Phase = PhaseResolving
	case models.CardPay:
		if p.Cash < card.Amount {
			g.beginInsolvency(p.Seat, -1, card.Amount, -1)
			return
		}
		p.Cash -= card.Amount
		g.Phase = PhaseResolving
	case models.CardJailFree:
		p.JailCards++
		g.Phase = PhaseResolving
	case models.CardGoToJail:
		g.sendToJail(p)
		g.finishTurn(p)
	case models.CardMoveTo:
		steps := ((card.Target - p.Position) + BoardSize) % BoardSize
		if steps == 0 {
			steps = BoardSize
		}
		g.advanceToken(p, steps)
		g.resolveSpace(p)
	case models.CardMoveRelative:
		g.advanceToken(p, card.Amount)
		g.resolveSpace(p)
	case models.CardNearestUtility:
		steps := g.stepsToNearestUtility(p.Position)
		g.utilityFactor = 10
		g.advanceToken(p, steps)
		g.resolveSpace(p)
	case models.CardRepairs:
		g.applyRepairs(p, card)
	case models.CardPayEachPlayer:
		g.payEachPlayer(p, card.Amount)
	case models.CardCollectFromAll:
		g.collectFromAll(p, card.Amount)
	}
}

// stepsToNearestUtility returns the forward distance to the next utility.
func (g *Game) stepsToNearestUtility(pos int) int {
	for steps := 1; steps <= BoardSize; steps++ {
		if g.Board[(pos+steps)%BoardSize].Type == models.SpaceUtility {
			return steps
		}
	}
	return 0
}

// applyRepairs charges per-building repair costs, skipping properties with
// an active insurance policy.
func (g *Game) applyRepairs(p *models.Player, card *models.Card) {
	cost := 0
	for _, pos := range p.Properties {
		sp := g.Board[pos]
		if sp.Insurance != nil {
			continue
		}
		if sp.Hotel {
			cost += card.AmountHotel
		} else {
			cost += sp.Houses * card.Amount
		}
	}
	if cost == 0 {
		g.logEvent(p.Seat, "%s owes nothing for repairs", p.Name)
		g.Phase = PhaseResolving
		return
	}
	if p.Cash < cost {
		g.beginInsolvency(p.Seat, -1, cost, -1)
		return
	}
	p.Cash -= cost
	g.logEvent(p.Seat, "%s paid £%d for repairs", p.Name, cost)
	g.Phase = PhaseResolving
}

// payEachPlayer pays every other active seat; any shortfall becomes a bank
// insolvency for the remainder.
func (g *Game) payEachPlayer(p *models.Player, amount int) {
	total := 0
	for _, other := range g.Players {
		if other.Seat == p.Seat || other.Bankrupt {
			continue
		}
		total += amount
	}
	if p.Cash < total {
		g.beginInsolvency(p.Seat, -1, total, -1)
		return
	}
	for _, other := range g.Players {
		if other.Seat == p.Seat || other.Bankrupt {
			continue
		}
		p.Cash -= amount
		other.Cash += amount
	}
	g.logEvent(p.Seat, "%s paid £%d to each player", p.Name, amount)
	g.Phase = PhaseResolving
}

// collectFromAll collects from every other active seat, capped at what each
// can pay.
func (g *Game) collectFromAll(p *models.Player, amount int) {
	for _, other := range g.Players {
		if other.Seat == p.Seat || other.Bankrupt {
			continue
		}
		pay := amount
		if other.Cash < pay {
			pay = other.Cash
		}
		other.Cash -= pay
		p.Cash += pay
	}
	g.logEvent(p.Seat, "%s collected £%d from each player", p.Name, amount)
	g.Phase = PhaseResolving
}

// updateSettings applies a host settings change during the lobby phase.
func (g *Game) updateSettings(seat int, payload map[string]interface{}) {
	if err := g.Settings.Update(payload); err != nil {
		g.logEvent(seat, "settings update rejected: %v", err)
		return
	}
	g.GoSalary = g.Settings.GoSalaryBase
	g.logEvent(seat, "settings updated by host")
}

// checkWin flags the game over when exactly one non-bankrupt player
// remains.
func (g *Game) checkWin() bool {
	remaining := -1
	count := 0
	for _, p := range g.Players {
		if !p.Bankrupt {
			remaining = p.Seat
			count++
		}
	}
	if count == 1 && g.Started {
		g.Phase = PhaseGameOver
		g.logEvent(remaining, "%s wins the game", g.Players[remaining].Name)
		g.publishAction(remaining, models.GameAction{Action: "game_over"})
		return true
	}
	return false
}

// HandleDisconnect marks the seat disconnected and arms the grace timer: if
// the seat is still disconnected and still on turn when it fires, it
// converts to AI control so the game is never blocked by an absent player.
func (g *Game) HandleDisconnect(userID uuid.UUID) {
	g.Mu.Lock()
	var seat = -1
	for _, p := range g.Players {
		if p.UserID == userID && p.Connected {
			p.Connected = false
			p.Conn = nil
			p.ConnEpoch++
			seat = p.Seat
			break
		}
	}
	if seat < 0 {
		g.Mu.Unlock()
		return
	}
	epoch := g.Players[seat].ConnEpoch
	g.logEvent(seat, "%s disconnected", g.Players[seat].Name)
	g.Mu.Unlock()
	g.fireChanged()

	time.AfterFunc(disconnectGrace, func() {
		g.convertSeatToAI(seat, epoch)
	})
}

// convertSeatToAI fires from the disconnect grace timer. The epoch check
// makes a stale fire (player reconnected meanwhile) a no-op.
func (g *Game) convertSeatToAI(seat, epoch int) {
	g.Mu.Lock()
	p := g.Players[seat]
	if p.Connected || p.ConnEpoch != epoch || p.Bankrupt || !g.Started || g.Phase == PhaseGameOver {
		g.Mu.Unlock()
		return
	}
	if g.CurrentPlayerIndex != seat && !g.seatBlocksPendingPhase(seat) {
		g.Mu.Unlock()
		return
	}
	p.IsAI = true
	g.logEvent(seat, "%s converted to AI control after disconnect", p.Name)
	g.runAITurn()
	g.Mu.Unlock()
	g.fireChanged()
}

// seatBlocksPendingPhase reports whether the seat is the one a pending
// sub-object is waiting on.
func (g *Game) seatBlocksPendingPhase(seat int) bool {
	switch g.Phase {
	case PhaseAuction:
		return g.Auction != nil && g.Auction.ActiveBidder == seat
	case PhaseTrading:
		return g.Trade != nil && g.Trade.Responder() == seat
	case PhaseRentNegotiation:
		if g.RentNegotiation == nil {
			return false
		}
		if g.RentNegotiation.Stage == models.StagePlanOffered {
			return g.RentNegotiation.DebtorSeat == seat
		}
		return g.RentNegotiation.CreditorSeat == seat
	case PhaseBankruptcyDecision:
		return g.Bankruptcy != nil && g.Bankruptcy.DebtorSeat == seat
	}
	return false
}

// HandleReconnect rebinds a returning session to its seat and restores
// human control.
func (g *Game) HandleReconnect(userID uuid.UUID, seat int) {
	g.Mu.Lock()
	if seat >= 0 && seat < len(g.Players) {
		p := g.Players[seat]
		if p.UserID == userID {
			p.Connected = true
			p.ConnEpoch++
			if p.IsAI && userID != uuid.Nil {
				p.IsAI = false
				g.logEvent(seat, "%s reclaimed their seat", p.Name)
			}
		}
	}
	g.Mu.Unlock()
	g.fireChanged()
}

// notify delivers a private message to one seat, never broadcast.
func (g *Game) notify(seat int, kind, message string) {
	if g.NotifyPlayerFn != nil {
		g.NotifyPlayerFn(seat, kind, message)
	}
}

func (g *Game) fireChanged() {
	if g.OnChange != nil {
		g.OnChange()
	}
}

// logEvent appends a line to the room's audit trail and trims it to the
// recent window. Lock held.
func (g *Game) logEvent(seat int, format string, args ...interface{}) {
	entry := models.GameLogEntry{
		Round:     g.Round,
		Seat:      seat,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	}
	g.Log = append(g.Log, entry)
	if len(g.Log) > maxLogEntries {
		g.Log = g.Log[len(g.Log)-maxLogEntries:]
	}
}

// publishAction ships an audit record to the historian queue. Lock held;
// network send is asynchronous and best-effort.
func (g *Game) publishAction(seat int, act models.GameAction) {
	g.actionIndex++
	record := cache.ActionRecord{
		RoomID:      g.ID,
		ActionIndex: g.actionIndex,
		Seat:        seat,
		Action:      act.Action,
		Payload:     act.Payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func(rec cache.ActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishActionRecord(ctx, rec); err != nil {
			logrus.Warnf("failed to publish action record %d for room %s: %v", rec.ActionIndex, rec.RoomID, err)
		}
	}(record)
}

// payloadInt extracts an integer field from a JSON payload (numbers arrive
// as float64).
func payloadInt(payload map[string]interface{}, key string) (int, bool) {
	if payload == nil {
		return 0, false
	}
	switch v := payload[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func payloadString(payload map[string]interface{}, key string) (string, bool) {
	if payload == nil {
		return "", false
	}
	s, ok := payload[key].(string)
	return s, ok
}
