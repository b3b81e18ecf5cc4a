package shared

// Trick tracks the combination currently on the table.
// An empty Cards slice means the round is open and the seat on turn leads.
type Trick struct {
	Cards     []Card // Last successful play
	OwnerSeat int    // Seat that made the last play, -1 when the round is open
	Passes    int    // Consecutive passes since the last play
}

// NewTrick creates an open trick.
func NewTrick() *Trick {
	return &Trick{OwnerSeat: -1}
}

// Open reports whether nobody has played into the current round yet.
func (t *Trick) Open() bool {
	return len(t.Cards) == 0
}

// Play records cards played by seat and resets the pass counter.
func (t *Trick) Play(seat int, cards []Card) {
	t.Cards = append([]Card{}, cards...)
	t.OwnerSeat = seat
	t.Passes = 0
}

// Pass counts a pass against the current play.
func (t *Trick) Pass() {
	t.Passes++
}

// Close clears the table so the owner can lead a fresh round.
func (t *Trick) Close() {
	t.Cards = nil
	t.OwnerSeat = -1
	t.Passes = 0
}
