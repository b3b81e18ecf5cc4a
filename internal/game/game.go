package game

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"landlord-game/internal/protocol"
	"landlord-game/internal/rules"
	"landlord-game/internal/shared"

	"go.uber.org/zap"
)

// Phase represents the current state of the match.
type Phase string

const (
	Waiting Phase = "Waiting" // Seats are being filled
	Bidding Phase = "Bidding" // Cards dealt, seats bid for the landlord
	Playing Phase = "Playing" // Tricks are being played
	Ended   Phase = "Ended"   // A hand emptied or the room emptied; terminal
)

const (
	NumSeats     = 3
	HandSize     = 17
	BottomSize   = 3
	MaxBid       = 3
	maxNameRunes = 32
)

// MessageSender defines the function signature for sending messages back to clients.
// The Hub provides an implementation that must not block.
type MessageSender func(clientID string, message []byte)

// Result describes a finished match.
type Result struct {
	RoomID       string
	LandlordSeat int
	WinnerSeat   int
	LandlordWon  bool
	Bid          int
	Names        [NumSeats]string
	FinishedAt   time.Time
}

// Options configures every game created by a Registry.
type Options struct {
	BidTimeout  time.Duration // Zero disables the bidding deadline
	TurnTimeout time.Duration // Zero disables the play deadline
	MaxRedeals  int           // All-pass deals redealt before the opener is forced to take the hand
	Clock       Clock
	Logger      *zap.Logger
	Seed        int64 // Zero seeds from the clock
	OnFinish    func(Result)
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = RealClock()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.MaxRedeals < 0 {
		o.MaxRedeals = 0
	}
	return o
}

type seat struct {
	player *shared.Player
	connID string // Empty once the connection has left
	hand   shared.Hand
}

func (s *seat) connected() bool { return s.connID != "" }

type deadlineKind int

const (
	deadlineNone deadlineKind = iota
	deadlineBid
	deadlineTurn
)

// deadline is the single pending timeout of a room.
type deadline struct {
	kind  deadlineKind
	seat  int
	at    time.Time
	timer Timer
}

// Game represents one room and its match state machine.
type Game struct {
	ID      string
	mu      sync.Mutex
	opts    Options
	logger  *zap.Logger
	rng     *rand.Rand
	send    MessageSender
	onClose func(*Game)

	phase        Phase
	seats        []*seat
	bottom       []shared.Card
	played       []shared.Card
	trick        *shared.Trick
	currentSeat  int
	landlordSeat int

	biddingSeat int
	bidOpener   int
	currentBid  int
	provisional int
	redeals     int

	deadline    deadline
	deadlineGen uint64
	closed      bool
}

// NewGame creates an empty room. onClose is called, with the room lock held,
// once the room is destroyed.
func NewGame(id string, opts Options, send MessageSender, onClose func(*Game)) *Game {
	opts = opts.withDefaults()
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Game{
		ID:           id,
		opts:         opts,
		logger:       opts.Logger.With(zap.String("room", id)),
		rng:          rand.New(rand.NewSource(seed)),
		send:         send,
		onClose:      onClose,
		phase:        Waiting,
		trick:        shared.NewTrick(),
		currentSeat:  -1,
		landlordSeat: -1,
		biddingSeat:  -1,
		provisional:  -1,
	}
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Closed reports whether the room has been destroyed.
func (g *Game) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// Join seats connID in the next free seat and returns the seat index.
func (g *Game) Join(connID, name string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return -1, ErrRoomNotFound
	}
	if g.seatOfLocked(connID) >= 0 {
		return -1, ErrAlreadySeated
	}
	if len(g.seats) >= NumSeats {
		return -1, ErrRoomFull
	}

	index := len(g.seats)
	name = cleanName(name, index)
	g.seats = append(g.seats, &seat{player: shared.NewPlayer(connID, name, index), connID: connID})
	g.logger.Info("player joined", zap.String("client", connID), zap.String("name", name), zap.Int("seat", index))

	g.broadcastStateLocked(protocol.TypeRoomUpdate)
	if len(g.seats) == NumSeats {
		g.startBiddingLocked()
	}
	return index, nil
}

// Bid records amount for the seat on the bidding clock. An amount that does
// not raise the current bid counts as a pass.
func (g *Game) Bid(connID string, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.phase != Bidding {
		return ErrWrongPhase
	}
	index := g.seatOfLocked(connID)
	if index < 0 {
		return ErrNotSeated
	}
	if index != g.biddingSeat {
		return ErrNotYourTurn
	}
	if amount < 0 || amount > MaxBid {
		return ErrInvalidBid
	}
	g.bidLocked(index, amount)
	return nil
}

// Play plays cards from the hand of the seat on turn.
func (g *Game) Play(connID string, cards []shared.Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.phase != Playing {
		return ErrWrongPhase
	}
	index := g.seatOfLocked(connID)
	if index < 0 {
		return ErrNotSeated
	}
	if index != g.currentSeat {
		return ErrNotYourTurn
	}
	s := g.seats[index]
	if !s.hand.Contains(cards) {
		return ErrCardsNotInHand
	}
	candidate := rules.Analyze(cards)
	if !rules.CanBeat(candidate, g.referenceLocked()) {
		return ErrInvalidPlay
	}

	s.hand = s.hand.Without(cards)
	g.played = append(g.played, cards...)
	g.trick.Play(index, cards)
	g.logger.Debug("cards played",
		zap.Int("seat", index),
		zap.Stringer("kind", candidate.Kind()),
		zap.Int("power", candidate.Power()),
		zap.Int("left", len(s.hand)),
	)

	if len(s.hand) == 0 {
		g.finishLocked(index)
		return nil
	}
	g.currentSeat = next(index)
	g.resetTurnTimerLocked()
	g.broadcastStateLocked(protocol.TypeGameUpdate)
	return nil
}

// Pass declines to beat the current play.
func (g *Game) Pass(connID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.phase != Playing {
		return ErrWrongPhase
	}
	index := g.seatOfLocked(connID)
	if index < 0 {
		return ErrNotSeated
	}
	if index != g.currentSeat {
		return ErrNotYourTurn
	}
	if !g.canPassLocked(index) {
		return ErrCannotPass
	}
	g.passLocked(index)
	return nil
}

// Hint asks the advisor for a play that would beat the table. It never mutates state.
func (g *Game) Hint(connID string) ([]shared.Card, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.phase != Playing {
		return nil, false, ErrWrongPhase
	}
	index := g.seatOfLocked(connID)
	if index < 0 {
		return nil, false, ErrNotSeated
	}
	if index != g.currentSeat {
		return nil, false, ErrNotYourTurn
	}
	advice, ok := rules.Advise(g.seats[index].hand, g.referenceLocked())
	return advice.Cards, ok, nil
}

// Disconnect vacates the seat held by connID. Before the deal the seat is
// removed and the others move down; once cards are dealt the seat keeps its
// index and hand. The room is destroyed once no seat is connected.
func (g *Game) Disconnect(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	index := g.seatOfLocked(connID)
	if index < 0 {
		return
	}
	if g.phase == Waiting {
		g.seats = append(g.seats[:index], g.seats[index+1:]...)
		for i, s := range g.seats {
			s.player.Seat = i
		}
	} else {
		g.seats[index].connID = ""
	}
	g.logger.Info("player left", zap.String("client", connID), zap.Int("seat", index), zap.String("phase", string(g.phase)))

	if g.connectedLocked() == 0 {
		g.closeLocked()
		return
	}
	g.broadcastStateLocked(protocol.TypeRoomUpdate)
}

// Shutdown stops the pending deadline without notifying anyone.
func (g *Game) Shutdown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelTimerLocked()
	g.closed = true
}

// Snapshot returns the view of the room as seen from connID's seat. When
// connID is not seated every hand is hidden.
func (g *Game) Snapshot(connID string) protocol.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.projectLocked(g.seatOfLocked(connID))
}

// RoomInfo summarizes a room for listings.
type RoomInfo struct {
	ID      string   `json:"id"`
	Phase   Phase    `json:"phase"`
	Players []string `json:"players"`
}

// Info returns the listing summary of the room.
func (g *Game) Info() RoomInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	info := RoomInfo{ID: g.ID, Phase: g.phase, Players: make([]string, 0, len(g.seats))}
	for _, s := range g.seats {
		info.Players = append(info.Players, s.player.Name)
	}
	return info
}

// --- Bidding ---

// startBiddingLocked deals a fresh deck and opens the bidding at a random seat.
func (g *Game) startBiddingLocked() {
	deck := shared.NewDeck()
	deck.Shuffle(g.rng)
	hands, rest := deck.Deal(NumSeats, HandSize)
	if hands == nil || len(rest) != BottomSize {
		g.logger.Error("deal failed", zap.Int("deck", len(deck.Cards)))
		return
	}
	for i, hand := range hands {
		shared.SortCards(hand)
		g.seats[i].hand = hand
	}
	g.bottom = rest
	g.played = nil
	g.trick.Close()
	g.currentBid = 0
	g.provisional = -1
	g.landlordSeat = -1
	g.currentSeat = -1
	g.biddingSeat = g.rng.Intn(NumSeats)
	g.bidOpener = g.biddingSeat
	g.phase = Bidding

	g.logger.Info("bidding started", zap.Int("opener", g.bidOpener), zap.Int("redeals", g.redeals))
	g.resetBidTimerLocked()
	g.broadcastStateLocked(protocol.TypeBiddingStarted)
}

// bidLocked applies an already validated bid.
func (g *Game) bidLocked(index, amount int) {
	if amount > g.currentBid {
		g.currentBid = amount
		g.provisional = index
	}
	g.logger.Debug("bid", zap.Int("seat", index), zap.Int("amount", amount), zap.Int("current", g.currentBid))

	if g.currentBid == MaxBid {
		g.startPlayingLocked(g.provisional, g.currentBid)
		return
	}

	g.biddingSeat = next(index)
	switch {
	case g.provisional >= 0 && g.biddingSeat == g.provisional:
		g.startPlayingLocked(g.provisional, g.currentBid)
	case g.provisional < 0 && g.biddingSeat == g.bidOpener:
		g.noBidLocked()
	default:
		g.resetBidTimerLocked()
		g.broadcastStateLocked(protocol.TypeBiddingState)
	}
}

// noBidLocked handles a rotation in which every seat passed: redeal, or after
// MaxRedeals redeals hand the landlord to the opener at the lowest bid.
func (g *Game) noBidLocked() {
	if g.redeals >= g.opts.MaxRedeals {
		g.logger.Info("no bids, forcing landlord", zap.Int("seat", g.bidOpener), zap.Int("redeals", g.redeals))
		g.startPlayingLocked(g.bidOpener, 1)
		return
	}
	g.redeals++
	g.logger.Info("no bids, redealing", zap.Int("redeals", g.redeals))
	g.startBiddingLocked()
}

// startPlayingLocked closes the bidding and hands the bottom to the landlord.
func (g *Game) startPlayingLocked(landlord, bid int) {
	g.landlordSeat = landlord
	g.currentBid = bid
	g.provisional = landlord
	g.biddingSeat = -1
	g.redeals = 0

	s := g.seats[landlord]
	s.hand = append(s.hand, g.bottom...)
	shared.SortCards(s.hand)

	g.currentSeat = landlord
	g.trick.Close()
	g.phase = Playing

	g.logger.Info("landlord chosen", zap.Int("seat", landlord), zap.Int("bid", bid))
	g.resetTurnTimerLocked()
	g.broadcastStateLocked(protocol.TypeBiddingEnded)
	g.broadcastStateLocked(protocol.TypeGameStarted)
}

// --- Playing ---

// referenceLocked analyzes the play the seat on turn must beat, nil when the round is open.
func (g *Game) referenceLocked() rules.Combination {
	if g.trick.Open() {
		return nil
	}
	return rules.Analyze(g.trick.Cards)
}

// canPassLocked reports whether index may pass: never while leading an open
// round or while owning the play on the table.
func (g *Game) canPassLocked(index int) bool {
	return !g.trick.Open() && g.trick.OwnerSeat != index
}

// passLocked applies an already validated pass.
func (g *Game) passLocked(index int) {
	g.trick.Pass()
	g.currentSeat = next(index)
	if g.trick.Passes >= NumSeats-1 && g.currentSeat == g.trick.OwnerSeat {
		g.logger.Debug("trick closed", zap.Int("leader", g.currentSeat))
		g.trick.Close()
	}
	g.resetTurnTimerLocked()
	g.broadcastStateLocked(protocol.TypeGameUpdate)
}

// finishLocked ends the match won by winner and destroys the room.
func (g *Game) finishLocked(winner int) {
	g.cancelTimerLocked()
	g.phase = Ended
	g.currentSeat = -1

	result := Result{
		RoomID:       g.ID,
		LandlordSeat: g.landlordSeat,
		WinnerSeat:   winner,
		LandlordWon:  shared.SideOf(winner, g.landlordSeat) == shared.SideLandlord,
		Bid:          g.currentBid,
		FinishedAt:   g.opts.Clock.Now(),
	}
	for i, s := range g.seats {
		result.Names[i] = s.player.Name
	}
	g.logger.Info("game over",
		zap.Int("winner", winner),
		zap.Int("landlord", g.landlordSeat),
		zap.Bool("landlordWon", result.LandlordWon),
	)

	g.broadcastStateLocked(protocol.TypeGameUpdate)
	ended := protocol.GameEndedPayload{
		RoomID:       g.ID,
		WinnerSeat:   winner,
		LandlordSeat: g.landlordSeat,
		LandlordWon:  result.LandlordWon,
		Bid:          g.currentBid,
	}
	if msg, err := protocol.NewMessage(protocol.TypeGameEnded, ended); err == nil {
		g.broadcastLocked(msg)
	} else {
		g.logger.Error("encode game_ended", zap.Error(err))
	}

	if g.opts.OnFinish != nil {
		g.opts.OnFinish(result)
	}
	g.closeLocked()
}

// closeLocked destroys the room. It is idempotent.
func (g *Game) closeLocked() {
	if g.closed {
		return
	}
	g.cancelTimerLocked()
	g.closed = true
	if g.phase != Ended {
		g.phase = Ended
	}
	g.logger.Info("room closed")
	if g.onClose != nil {
		g.onClose(g)
	}
}

// --- Deadlines ---

func (g *Game) resetBidTimerLocked() {
	g.armLocked(deadlineBid, g.biddingSeat, g.opts.BidTimeout)
}

func (g *Game) resetTurnTimerLocked() {
	g.armLocked(deadlineTurn, g.currentSeat, g.opts.TurnTimeout)
}

// armLocked replaces the pending deadline. The callback only carries the
// generation; everything else is re-read under the lock when it fires.
func (g *Game) armLocked(kind deadlineKind, index int, d time.Duration) {
	g.cancelTimerLocked()
	if d <= 0 {
		return
	}
	gen := g.deadlineGen
	g.deadline = deadline{
		kind: kind,
		seat: index,
		at:   g.opts.Clock.Now().Add(d),
	}
	g.deadline.timer = g.opts.Clock.AfterFunc(d, func() {
		g.onDeadline(gen)
	})
}

func (g *Game) cancelTimerLocked() {
	if g.deadline.timer != nil {
		g.deadline.timer.Stop()
	}
	g.deadline = deadline{}
	g.deadlineGen++
}

// onDeadline is the timer callback. It is a no-op unless gen still names the
// pending deadline and that deadline's seat is still on the clock.
func (g *Game) onDeadline(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || gen != g.deadlineGen {
		return
	}
	d := g.deadline
	switch d.kind {
	case deadlineBid:
		if g.phase != Bidding || g.biddingSeat != d.seat {
			return
		}
		g.logger.Info("bid timeout, passing", zap.Int("seat", d.seat))
		g.bidLocked(d.seat, 0)
	case deadlineTurn:
		if g.phase != Playing || g.currentSeat != d.seat {
			return
		}
		if !g.canPassLocked(d.seat) {
			g.logger.Info("turn timeout while leading, waiting", zap.Int("seat", d.seat))
			g.resetTurnTimerLocked()
			g.broadcastStateLocked(protocol.TypeGameUpdate)
			return
		}
		g.logger.Info("turn timeout, passing", zap.Int("seat", d.seat))
		g.passLocked(d.seat)
	}
}

// remainingSecondsLocked is the whole seconds left on the pending deadline.
func (g *Game) remainingSecondsLocked() (int, bool) {
	if g.deadline.kind == deadlineNone {
		return 0, false
	}
	diff := g.deadline.at.Sub(g.opts.Clock.Now())
	if diff <= 0 {
		return 0, true
	}
	return int((diff + time.Second - 1) / time.Second), true
}

// --- Messaging Helpers (lock held) ---

// broadcastStateLocked sends every connected seat its own projection.
func (g *Game) broadcastStateLocked(msgType string) {
	if g.send == nil {
		return
	}
	for i, s := range g.seats {
		if !s.connected() {
			continue
		}
		msg, err := protocol.NewMessage(msgType, g.projectLocked(i))
		if err != nil {
			g.logger.Error("encode snapshot", zap.String("type", msgType), zap.Error(err))
			continue
		}
		g.send(s.connID, msg)
	}
}

func (g *Game) broadcastLocked(msg []byte) {
	if g.send == nil {
		return
	}
	for _, s := range g.seats {
		if s.connected() {
			g.send(s.connID, msg)
		}
	}
}

// --- Utility Helpers ---

// seatOfLocked finds the seat held by connID. Returns -1 if not found.
func (g *Game) seatOfLocked(connID string) int {
	if connID == "" {
		return -1
	}
	for i, s := range g.seats {
		if s.connID == connID {
			return i
		}
	}
	return -1
}

func (g *Game) connectedLocked() int {
	n := 0
	for _, s := range g.seats {
		if s.connected() {
			n++
		}
	}
	return n
}

func next(index int) int {
	return (index + 1) % NumSeats
}

func cleanName(name string, index int) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > maxNameRunes {
		runes = runes[:maxNameRunes]
	}
	if len(runes) == 0 {
		return fmt.Sprintf("Player %d", index+1)
	}
	return string(runes)
}
