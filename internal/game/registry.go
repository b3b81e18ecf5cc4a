package game

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"landlord-game/internal/shared"

	"go.uber.org/zap"
)

const roomCodeLength = 5 // Length of generated room codes

// Registry owns the live rooms. It routes every command by room id and
// forgets a room as soon as the room reports itself closed.
//
// Lock order: the registry lock is never held while a room lock is taken.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Game
	seats  map[string]string // Connection id to room id
	opts   Options
	send   MessageSender
	logger *zap.Logger
	rng    *rand.Rand
}

// NewRegistry creates an empty registry. send delivers outbound messages and must not block.
func NewRegistry(opts Options, send MessageSender) *Registry {
	opts = opts.withDefaults()
	return &Registry{
		rooms:  make(map[string]*Game),
		seats:  make(map[string]string),
		opts:   opts,
		send:   send,
		logger: opts.Logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Join seats connID in roomID, creating the room when it does not exist.
// An empty roomID creates a room under a fresh code.
func (r *Registry) Join(roomID, connID, name string) (string, int, error) {
	roomID = strings.ToUpper(strings.TrimSpace(roomID))

	r.mu.Lock()
	if _, seated := r.seats[connID]; seated {
		r.mu.Unlock()
		return "", -1, ErrAlreadySeated
	}
	if roomID == "" {
		roomID = r.generateRoomCodeLocked()
	}
	g, ok := r.rooms[roomID]
	if !ok {
		opts := r.opts
		if opts.Seed != 0 {
			opts.Seed += int64(len(r.rooms))
		}
		g = NewGame(roomID, opts, r.send, r.remove)
		r.rooms[roomID] = g
		r.logger.Info("room created", zap.String("room", roomID))
	}
	r.seats[connID] = roomID
	r.mu.Unlock()

	seat, err := g.Join(connID, name)
	if err != nil {
		r.mu.Lock()
		if r.seats[connID] == roomID {
			delete(r.seats, connID)
		}
		r.mu.Unlock()
		return roomID, -1, err
	}
	return roomID, seat, nil
}

// Bid routes a bid to the room.
func (r *Registry) Bid(roomID, connID string, amount int) error {
	g, err := r.lookup(roomID, connID)
	if err != nil {
		return err
	}
	return g.Bid(connID, amount)
}

// Play routes a play to the room.
func (r *Registry) Play(roomID, connID string, cards []shared.Card) error {
	g, err := r.lookup(roomID, connID)
	if err != nil {
		return err
	}
	return g.Play(connID, cards)
}

// Pass routes a pass to the room.
func (r *Registry) Pass(roomID, connID string) error {
	g, err := r.lookup(roomID, connID)
	if err != nil {
		return err
	}
	return g.Pass(connID)
}

// Hint asks the room's advisor on behalf of connID.
func (r *Registry) Hint(roomID, connID string) ([]shared.Card, bool, error) {
	g, err := r.lookup(roomID, connID)
	if err != nil {
		return nil, false, err
	}
	return g.Hint(connID)
}

// Disconnect vacates whatever seat connID holds.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	roomID, seated := r.seats[connID]
	delete(r.seats, connID)
	g := r.rooms[roomID]
	r.mu.Unlock()

	if seated && g != nil {
		g.Disconnect(connID)
	}
}

// Room returns the live room with id.
func (r *Registry) Room(roomID string) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.rooms[strings.ToUpper(roomID)]
	return g, ok
}

// Rooms lists the live rooms ordered by id.
func (r *Registry) Rooms() []RoomInfo {
	r.mu.RLock()
	games := make([]*Game, 0, len(r.rooms))
	for _, g := range r.rooms {
		games = append(games, g)
	}
	r.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(games))
	for _, g := range games {
		infos = append(infos, g.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Shutdown stops every pending deadline and forgets all rooms.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	games := make([]*Game, 0, len(r.rooms))
	for _, g := range r.rooms {
		games = append(games, g)
	}
	r.rooms = make(map[string]*Game)
	r.seats = make(map[string]string)
	r.mu.Unlock()

	for _, g := range games {
		g.Shutdown()
	}
}

// lookup resolves the room a command is addressed to. An empty roomID falls
// back to the room connID is seated in.
func (r *Registry) lookup(roomID, connID string) (*Game, error) {
	roomID = strings.ToUpper(strings.TrimSpace(roomID))

	r.mu.RLock()
	defer r.mu.RUnlock()
	if roomID == "" {
		roomID = r.seats[connID]
	}
	g, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return g, nil
}

// remove is the rooms' close callback. Called with the room lock held.
func (r *Registry) remove(g *Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[g.ID] != g {
		return
	}
	delete(r.rooms, g.ID)
	for connID, roomID := range r.seats {
		if roomID == g.ID {
			delete(r.seats, connID)
		}
	}
	r.logger.Info("room removed", zap.String("room", g.ID), zap.Int("rooms", len(r.rooms)))
}

// generateRoomCodeLocked creates a unique alphanumeric room code.
func (r *Registry) generateRoomCodeLocked() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < roomCodeLength; i++ {
			sb.WriteByte(letters[r.rng.Intn(len(letters))])
		}
		code := sb.String()
		if _, exists := r.rooms[code]; !exists {
			return code
		}
		r.logger.Debug("room code collided, retrying", zap.String("code", code))
	}
}
