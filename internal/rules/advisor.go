package rules

import (
	"landlord-game/internal/shared"
)

// Advice is a proposed play produced by Advise. It is a hint only: every
// submitted play is validated again from scratch.
type Advice struct {
	Cards       []shared.Card
	Combination Combination
}

// Advise reports whether some subset of hand can legally beat reference and
// proposes the cheapest one it finds. Same-kind answers are preferred over
// bombs, and bombs over the rocket.
func Advise(hand []shared.Card, reference Combination) (Advice, bool) {
	if len(hand) == 0 {
		return Advice{}, false
	}
	groups := shared.Hand(hand).Counts()

	var candidates [][]shared.Card
	if reference == nil || reference.Kind() == Invalid {
		candidates = append(candidates, lowestSingle(hand))
	} else {
		candidates = append(candidates, sameKindCandidates(groups, reference)...)
		candidates = append(candidates, bombCandidates(groups)...)
		if rocket, ok := rocketCandidate(groups); ok {
			candidates = append(candidates, rocket)
		}
	}

	for _, cards := range candidates {
		combo := Analyze(cards)
		if CanBeat(combo, reference) {
			return Advice{Cards: combo.Cards(), Combination: combo}, true
		}
	}
	return Advice{}, false
}

// CanBeatWithHand answers the yes/no half of Advise.
func CanBeatWithHand(hand []shared.Card, reference Combination) bool {
	_, ok := Advise(hand, reference)
	return ok
}

func lowestSingle(hand []shared.Card) []shared.Card {
	sorted := append([]shared.Card{}, hand...)
	shared.SortCards(sorted)
	return sorted[:1]
}

func sameKindCandidates(groups map[int][]shared.Card, reference Combination) [][]shared.Card {
	power := reference.Power()
	switch reference.Kind() {
	case Single:
		return ofAKind(groups, power, 1)
	case Pair:
		return ofAKind(groups, power, 2)
	case Triple:
		return ofAKind(groups, power, 3)
	case Bomb:
		return ofAKind(groups, power, 4)
	case TripleWithSingle:
		return withKickers(groups, ofAKind(groups, power, 3), 1, 1)
	case TripleWithPair:
		return withKickers(groups, ofAKind(groups, power, 3), 1, 2)
	case Straight:
		if chain, ok := reference.(Chain); ok {
			return windows(groups, power, chain.Length, 1)
		}
	case StraightPairs:
		if chain, ok := reference.(Chain); ok {
			return windows(groups, power, chain.Length, 2)
		}
	case Airplane:
		if plane, ok := reference.(Plane); ok {
			return windows(groups, power, plane.Run, 3)
		}
	case AirplaneWithSingles:
		if plane, ok := reference.(Plane); ok {
			return withKickers(groups, windows(groups, power, plane.Run, 3), plane.Run, 1)
		}
	case AirplaneWithPairs:
		if plane, ok := reference.(Plane); ok {
			return withKickers(groups, windows(groups, power, plane.Run, 3), plane.Run, 2)
		}
	case FourWithSingles:
		return withKickers(groups, ofAKind(groups, power, 4), 2, 1)
	case FourWithPairs:
		return withKickers(groups, ofAKind(groups, power, 4), 2, 2)
	}
	return nil
}

// ofAKind returns n cards of every value above power that has them, lowest first.
func ofAKind(groups map[int][]shared.Card, power, n int) [][]shared.Card {
	var out [][]shared.Card
	for v := power + 1; v <= shared.ValueBigJoker; v++ {
		if len(groups[v]) >= n {
			out = append(out, append([]shared.Card{}, groups[v][:n]...))
		}
	}
	return out
}

// windows slides a window of length values with per copies each, whose top
// is above power, across 3..A.
func windows(groups map[int][]shared.Card, power, length, per int) [][]shared.Card {
	var out [][]shared.Card
	for top := power + 1; top <= shared.ValueAce; top++ {
		low := top - length + 1
		if low < 3 {
			continue
		}
		cards := make([]shared.Card, 0, length*per)
		ok := true
		for v := low; v <= top; v++ {
			if len(groups[v]) < per {
				ok = false
				break
			}
			cards = append(cards, groups[v][:per]...)
		}
		if ok {
			out = append(out, cards)
		}
	}
	return out
}

// withKickers completes every body with count kickers of size cards each,
// taken from the lowest values not already used by the body.
func withKickers(groups map[int][]shared.Card, bodies [][]shared.Card, count, size int) [][]shared.Card {
	var out [][]shared.Card
	for _, body := range bodies {
		used := make(map[int]bool, len(body))
		for _, c := range body {
			used[c.Value()] = true
		}
		cards := append([]shared.Card{}, body...)
		picked := 0
		for v := 3; v <= shared.ValueBigJoker && picked < count; v++ {
			if used[v] || len(groups[v]) < size {
				continue
			}
			cards = append(cards, groups[v][:size]...)
			picked++
		}
		if picked == count {
			out = append(out, cards)
		}
	}
	return out
}

func bombCandidates(groups map[int][]shared.Card) [][]shared.Card {
	return ofAKind(groups, 0, 4)
}

func rocketCandidate(groups map[int][]shared.Card) ([]shared.Card, bool) {
	small, big := groups[shared.ValueSmallJoker], groups[shared.ValueBigJoker]
	if len(small) == 0 || len(big) == 0 {
		return nil, false
	}
	return []shared.Card{small[0], big[0]}, true
}
