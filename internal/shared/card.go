package shared

import "fmt"

// Suit represents the suit of a card. Jokers carry SuitJoker.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Clubs
	Diamonds
	SuitJoker
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	default:
		return "J"
	}
}

// Card is the opaque card identifier exchanged with clients (1..54).
// 1..52 map onto suit and rank, 53 is the small joker and 54 the big joker.
type Card int

const (
	SmallJoker Card = 53
	BigJoker   Card = 54

	// DeckSize is the number of cards in a full deck, jokers included.
	DeckSize = 54
)

// Comparable card values. Faces 3..10 keep their number.
const (
	ValueJack       = 11
	ValueQueen      = 12
	ValueKing       = 13
	ValueAce        = 14
	ValueTwo        = 15
	ValueSmallJoker = 16
	ValueBigJoker   = 17
)

// rankNames follows the id layout inside a suit: A,2,3,...,10,J,Q,K.
var rankNames = [13]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Valid reports whether the identifier belongs to the 54-card deck.
func (c Card) Valid() bool {
	return c >= 1 && c <= BigJoker
}

// IsJoker reports whether the card is one of the two jokers.
func (c Card) IsJoker() bool {
	return c == SmallJoker || c == BigJoker
}

// Suit returns the suit of the card.
func (c Card) Suit() Suit {
	if c.IsJoker() {
		return SuitJoker
	}
	return Suit((int(c) - 1) / 13)
}

// Rank returns the index of the card inside its suit (0 = A ... 12 = K), or -1 for jokers.
func (c Card) Rank() int {
	if c.IsJoker() {
		return -1
	}
	return (int(c) - 1) % 13
}

// Value returns the comparable strength of the card:
// 3..10 keep their face, J/Q/K are 11..13, A is 14, 2 is 15,
// the small joker 16 and the big joker 17.
func (c Card) Value() int {
	switch c {
	case SmallJoker:
		return ValueSmallJoker
	case BigJoker:
		return ValueBigJoker
	}
	switch r := c.Rank(); r {
	case 0:
		return ValueAce
	case 1:
		return ValueTwo
	default:
		return r + 1
	}
}

func (c Card) String() string {
	switch c {
	case SmallJoker:
		return "SJ"
	case BigJoker:
		return "BJ"
	}
	if !c.Valid() {
		return fmt.Sprintf("?%d", int(c))
	}
	return rankNames[c.Rank()] + c.Suit().String()
}

// ValueName renders a comparable value the way players call it out.
func ValueName(v int) string {
	switch {
	case v >= 3 && v <= 10:
		return fmt.Sprintf("%d", v)
	case v == ValueJack:
		return "J"
	case v == ValueQueen:
		return "Q"
	case v == ValueKing:
		return "K"
	case v == ValueAce:
		return "A"
	case v == ValueTwo:
		return "2"
	case v == ValueSmallJoker:
		return "SJ"
	case v == ValueBigJoker:
		return "BJ"
	}
	return "?"
}
