package game

// Category separates errors caused by addressing the wrong room, phase or turn
// from errors caused by an illegal move.
type Category int

const (
	CategoryProtocol Category = iota
	CategoryRule
)

func (c Category) String() string {
	if c == CategoryRule {
		return "rule"
	}
	return "protocol"
}

// Error is a rejected command. No state is mutated when one is returned.
type Error struct {
	Code     string
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrRoomNotFound  = &Error{Code: "room_not_found", Category: CategoryProtocol, Message: "room not found"}
	ErrRoomFull      = &Error{Code: "room_full", Category: CategoryProtocol, Message: "room is full"}
	ErrWrongPhase    = &Error{Code: "wrong_phase", Category: CategoryProtocol, Message: "action not allowed in the current phase"}
	ErrNotYourTurn   = &Error{Code: "not_your_turn", Category: CategoryProtocol, Message: "not your turn"}
	ErrAlreadySeated = &Error{Code: "already_seated", Category: CategoryProtocol, Message: "already seated in a room"}
	ErrNotSeated     = &Error{Code: "not_seated", Category: CategoryProtocol, Message: "not seated in this room"}

	ErrCardsNotInHand = &Error{Code: "cards_not_in_hand", Category: CategoryRule, Message: "cards not in hand"}
	ErrInvalidPlay    = &Error{Code: "invalid_play", Category: CategoryRule, Message: "cards do not beat the current play"}
	ErrCannotPass     = &Error{Code: "cannot_pass", Category: CategoryRule, Message: "cannot pass while leading the round"}
	ErrInvalidBid     = &Error{Code: "invalid_bid", Category: CategoryRule, Message: "bid must be between 0 and 3"}
)
