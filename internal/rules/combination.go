package rules

import "landlord-game/internal/shared"

// Kind represents the type of card combination.
type Kind int

const (
	Invalid Kind = iota
	Single
	Pair
	Triple
	TripleWithSingle
	TripleWithPair
	Straight      // Five or more consecutive single values
	StraightPairs // Three or more consecutive pairs
	FourWithSingles
	FourWithPairs
	Airplane // Two or more consecutive triples
	AirplaneWithSingles
	AirplaneWithPairs
	Bomb   // Four of a kind
	Rocket // Both jokers
)

var kindNames = map[Kind]string{
	Invalid:             "invalid",
	Single:              "single",
	Pair:                "pair",
	Triple:              "triple",
	TripleWithSingle:    "triple_with_single",
	TripleWithPair:      "triple_with_pair",
	Straight:            "straight",
	StraightPairs:       "straight_pairs",
	FourWithSingles:     "four_with_singles",
	FourWithPairs:       "four_with_pairs",
	Airplane:            "airplane",
	AirplaneWithSingles: "airplane_with_singles",
	AirplaneWithPairs:   "airplane_with_pairs",
	Bomb:                "bomb",
	Rocket:              "rocket",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Combination is a classified set of cards. The set of implementations is
// closed: Simple, Chain and Plane.
type Combination interface {
	Kind() Kind
	// Power is the comparable strength inside a kind. Always 0 for Invalid.
	Power() int
	Cards() []shared.Card
	combination()
}

// Simple covers every kind without a structural length.
type Simple struct {
	Type    Kind
	Value   int
	Members []shared.Card
}

func (s Simple) Kind() Kind           { return s.Type }
func (s Simple) Power() int           { return s.Value }
func (s Simple) Cards() []shared.Card { return s.Members }
func (Simple) combination()           {}

// Chain is a Straight or StraightPairs. Length counts distinct values,
// so a three-pair chain has Length 3.
type Chain struct {
	Simple
	Length int
}

// Plane is an Airplane, with or without kickers. Run is the number of
// consecutive triples.
type Plane struct {
	Simple
	Run int
}

func invalid(cards []shared.Card) Combination {
	return Simple{Type: Invalid, Members: cards}
}
