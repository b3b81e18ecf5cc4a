package database

import (
	"time"

	"landlord-game/internal/game"

	"github.com/google/uuid"
)

// timeLayout sorts lexicographically, so retention can compare created_at as text on every driver.
const timeLayout = "2006-01-02 15:04:05.000000"

type GameResult struct {
	ID           string `json:"id"`
	RoomID       string `json:"room_id"`
	CreatedAt    string `json:"created_at"`
	Player1      string `json:"player1"`
	Player2      string `json:"player2"`
	Player3      string `json:"player3"`
	LandlordSeat int    `json:"landlord_seat"`
	WinnerSeat   int    `json:"winner_seat"`
	LandlordWon  bool   `json:"landlord_won"`
	Bid          int    `json:"bid"`
}

// FromGame converts a finished match into a row with a fresh id.
func FromGame(r game.Result) GameResult {
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	return GameResult{
		ID:           uuid.NewString(),
		RoomID:       r.RoomID,
		CreatedAt:    formatTime(finished),
		Player1:      r.Names[0],
		Player2:      r.Names[1],
		Player3:      r.Names[2],
		LandlordSeat: r.LandlordSeat,
		WinnerSeat:   r.WinnerSeat,
		LandlordWon:  r.LandlordWon,
		Bid:          r.Bid,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
