package shared

// Player represents the occupant of a seat.
type Player struct {
	ID   string // Connection identity supplied by the transport
	Name string // Player's chosen name
	Seat int    // Fixed seat index 0..2
}

// NewPlayer creates a new player with the given ID, name and seat.
func NewPlayer(id string, name string, seat int) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Seat: seat,
	}
}

// Hand is the multiset of cards held by a seat.
type Hand []Card

// Contains reports whether every card in cards is held, honouring multiplicity.
func (h Hand) Contains(cards []Card) bool {
	counts := make(map[Card]int, len(h))
	for _, c := range h {
		counts[c]++
	}
	for _, c := range cards {
		if counts[c] == 0 {
			return false
		}
		counts[c]--
	}
	return true
}

// Without returns a copy of the hand with cards removed.
func (h Hand) Without(cards []Card) Hand {
	remove := make(map[Card]int, len(cards))
	for _, c := range cards {
		remove[c]++
	}
	out := make(Hand, 0, len(h))
	for _, c := range h {
		if remove[c] > 0 {
			remove[c]--
			continue
		}
		out = append(out, c)
	}
	return out
}

// Counts groups the hand by comparable value.
func (h Hand) Counts() map[int][]Card {
	groups := make(map[int][]Card)
	for _, c := range h {
		groups[c.Value()] = append(groups[c.Value()], c)
	}
	return groups
}
