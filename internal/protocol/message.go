package protocol

import (
	"encoding/json"

	"landlord-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "join", "play_cards")
	ID      string          `json:"id,omitempty"`      // Client correlation id, echoed in the ack
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// Client -> server message types.
const (
	TypeJoin      = "join"
	TypeBid       = "bid"
	TypePlayCards = "play_cards"
	TypePass      = "pass"
	TypeHint      = "hint"
	TypePing      = "ping"
)

// Server -> client message types.
const (
	TypePong           = "pong"
	TypeAck            = "ack"
	TypeError          = "error"
	TypeRoomUpdate     = "room_update"
	TypeBiddingStarted = "bidding_started"
	TypeBiddingState   = "bidding_state"
	TypeBiddingEnded   = "bidding_ended"
	TypeGameStarted    = "game_started"
	TypeGameUpdate     = "game_update"
	TypeGameEnded      = "game_ended"
)

// --- Client -> Server Payload Structs ---

type JoinPayload struct {
	RoomID string `json:"roomId"` // Empty creates a new room
	Name   string `json:"name"`
}

type BidPayload struct {
	RoomID string `json:"roomId"`
	Amount int    `json:"amount"` // 0 passes, 1..3 bids
}

type PlayCardsPayload struct {
	RoomID string        `json:"roomId"`
	Cards  []shared.Card `json:"cards"`
}

// RoomPayload addresses commands that carry nothing but the room, like pass and hint.
type RoomPayload struct {
	RoomID string `json:"roomId"`
}

// --- Server -> Client Payload Structs ---

type AckPayload struct {
	OK     bool          `json:"ok"`
	RoomID string        `json:"roomId,omitempty"`
	Seat   *int          `json:"seat,omitempty"`
	Code   string        `json:"code,omitempty"`
	Error  string        `json:"error,omitempty"`
	Hint   []shared.Card `json:"hint,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// SeatView is one seat as seen by a particular recipient.
type SeatView struct {
	Seat      int           `json:"seat"`
	Name      string        `json:"name"`
	Connected bool          `json:"connected"`
	CardCount int           `json:"cardCount"`
	Hand      []shared.Card `json:"hand"` // Empty unless the recipient owns the seat
}

// Snapshot is the personalized room state pushed after every accepted command.
type Snapshot struct {
	RoomID    string `json:"roomId"`
	Phase     string `json:"phase"`
	Started   bool   `json:"started"`
	YourSeat  int    `json:"yourSeat"`

	BiddingSeat             *int `json:"biddingSeat,omitempty"`
	CurrentBid              int  `json:"currentBid"`
	ProvisionalLandlordSeat *int `json:"provisionalLandlordSeat,omitempty"`

	LandlordSeat *int          `json:"landlordSeat,omitempty"`
	BottomCount  int           `json:"bottomCount"`
	Bottom       []shared.Card `json:"bottom"`

	CurrentSeat       *int          `json:"currentSeat,omitempty"`
	LastPlay          []shared.Card `json:"lastPlay"`
	LastPlayOwnerSeat *int          `json:"lastPlayOwnerSeat,omitempty"`
	LastPlayKind      string        `json:"lastPlayKind,omitempty"`
	PassCount         int           `json:"passCount"`

	Seats []SeatView `json:"seats"`

	RemainingSeconds *int          `json:"remainingSeconds,omitempty"`
	CanBeat          *bool         `json:"canBeat,omitempty"` // Only for the seat on turn
	Hint             []shared.Card `json:"hint,omitempty"`
}

type GameEndedPayload struct {
	RoomID       string `json:"roomId"`
	WinnerSeat   int    `json:"winnerSeat"`
	LandlordSeat int    `json:"landlordSeat"`
	LandlordWon  bool   `json:"landlordWon"`
	Bid          int    `json:"bid"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	return NewReply(msgType, "", payload)
}

// NewReply creates a JSON message carrying the correlation id of the request it answers.
func NewReply(msgType, id string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType, ID: id})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		ID:      id,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
