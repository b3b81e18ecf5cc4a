package game

import (
	"landlord-game/internal/protocol"
	"landlord-game/internal/rules"
	"landlord-game/internal/shared"
)

// projectLocked renders the canonical state as seen by viewer (-1 hides every hand).
// Other seats' hands are always empty, and the bottom cards are only revealed
// to the landlord once play has started.
func (g *Game) projectLocked(viewer int) protocol.Snapshot {
	snap := protocol.Snapshot{
		RoomID:      g.ID,
		Phase:       string(g.phase),
		Started:     g.phase == Playing || g.phase == Ended,
		YourSeat:    viewer,
		CurrentBid:  g.currentBid,
		BottomCount: len(g.bottom),
		Bottom:      []shared.Card{},
		LastPlay:    []shared.Card{},
		PassCount:   g.trick.Passes,
		Seats:       make([]protocol.SeatView, 0, len(g.seats)),
	}

	if g.phase == Bidding {
		snap.BiddingSeat = intPtr(g.biddingSeat)
		if g.provisional >= 0 {
			snap.ProvisionalLandlordSeat = intPtr(g.provisional)
		}
	}
	if g.landlordSeat >= 0 {
		snap.LandlordSeat = intPtr(g.landlordSeat)
		if viewer == g.landlordSeat && snap.Started {
			snap.Bottom = append(snap.Bottom, g.bottom...)
		}
	}
	if g.phase == Playing {
		snap.CurrentSeat = intPtr(g.currentSeat)
	}
	if !g.trick.Open() {
		snap.LastPlay = append(snap.LastPlay, g.trick.Cards...)
		snap.LastPlayOwnerSeat = intPtr(g.trick.OwnerSeat)
		snap.LastPlayKind = rules.Analyze(g.trick.Cards).Kind().String()
	}

	for i, s := range g.seats {
		view := protocol.SeatView{
			Seat:      i,
			Name:      s.player.Name,
			Connected: s.connected(),
			CardCount: len(s.hand),
			Hand:      []shared.Card{},
		}
		if i == viewer {
			view.Hand = append(view.Hand, s.hand...)
		}
		snap.Seats = append(snap.Seats, view)
	}

	if secs, ok := g.remainingSecondsLocked(); ok {
		snap.RemainingSeconds = intPtr(secs)
	}

	if g.phase == Playing && viewer >= 0 && viewer == g.currentSeat {
		advice, ok := rules.Advise(g.seats[viewer].hand, g.referenceLocked())
		snap.CanBeat = &ok
		if ok {
			snap.Hint = advice.Cards
		}
	}
	return snap
}

func intPtr(v int) *int {
	return &v
}
