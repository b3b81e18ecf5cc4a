package rules

import (
	"sort"

	"landlord-game/internal/shared"
)

// profile is the value histogram of a card set.
type profile struct {
	counts map[int]int
	values []int // distinct values, ascending
}

func newProfile(cards []shared.Card) profile {
	p := profile{counts: make(map[int]int, len(cards))}
	for _, c := range cards {
		v := c.Value()
		if p.counts[v] == 0 {
			p.values = append(p.values, v)
		}
		p.counts[v]++
	}
	sort.Ints(p.values)
	return p
}

// valueWithCount returns the single value that appears exactly n times.
func (p profile) valueWithCount(n int) (int, bool) {
	found, ok := 0, false
	for _, v := range p.values {
		if p.counts[v] == n {
			if ok {
				return 0, false
			}
			found, ok = v, true
		}
	}
	return found, ok
}

// Analyze classifies cards into a combination. Ownership is the caller's
// concern. Any shape that is not a legal combination yields Invalid.
func Analyze(cards []shared.Card) Combination {
	n := len(cards)
	if n == 0 {
		return invalid(nil)
	}

	sorted := append([]shared.Card{}, cards...)
	shared.SortCards(sorted)
	p := newProfile(sorted)

	if n == 2 && p.counts[shared.ValueSmallJoker] == 1 && p.counts[shared.ValueBigJoker] == 1 {
		return Simple{Type: Rocket, Value: shared.ValueBigJoker, Members: sorted}
	}

	if len(p.values) == 1 {
		v := p.values[0]
		switch n {
		case 1:
			return Simple{Type: Single, Value: v, Members: sorted}
		case 2:
			return Simple{Type: Pair, Value: v, Members: sorted}
		case 3:
			return Simple{Type: Triple, Value: v, Members: sorted}
		case 4:
			return Simple{Type: Bomb, Value: v, Members: sorted}
		}
	}

	if combo, ok := tripleWithKicker(sorted, p); ok {
		return combo
	}
	if combo, ok := straight(sorted, p); ok {
		return combo
	}
	if combo, ok := straightPairs(sorted, p); ok {
		return combo
	}
	if combo, ok := fourWithKickers(sorted, p); ok {
		return combo
	}
	if combo, ok := airplane(sorted, p); ok {
		return combo
	}
	return invalid(sorted)
}

func tripleWithKicker(cards []shared.Card, p profile) (Combination, bool) {
	if len(p.values) != 2 {
		return nil, false
	}
	v, ok := p.valueWithCount(3)
	if !ok {
		return nil, false
	}
	switch len(cards) {
	case 4:
		return Simple{Type: TripleWithSingle, Value: v, Members: cards}, true
	case 5:
		return Simple{Type: TripleWithPair, Value: v, Members: cards}, true
	}
	return nil, false
}

func straight(cards []shared.Card, p profile) (Combination, bool) {
	n := len(cards)
	if n < 5 || len(p.values) != n || !consecutive(p.values) {
		return nil, false
	}
	top := p.values[len(p.values)-1]
	return Chain{Simple: Simple{Type: Straight, Value: top, Members: cards}, Length: n}, true
}

func straightPairs(cards []shared.Card, p profile) (Combination, bool) {
	n := len(cards)
	if n < 6 || n%2 != 0 || len(p.values) != n/2 || !consecutive(p.values) {
		return nil, false
	}
	for _, v := range p.values {
		if p.counts[v] != 2 {
			return nil, false
		}
	}
	top := p.values[len(p.values)-1]
	return Chain{Simple: Simple{Type: StraightPairs, Value: top, Members: cards}, Length: n / 2}, true
}

func fourWithKickers(cards []shared.Card, p profile) (Combination, bool) {
	quad, ok := p.valueWithCount(4)
	if !ok {
		return nil, false
	}
	switch len(cards) {
	case 6:
		// Two kickers of any value, a pair included.
		return Simple{Type: FourWithSingles, Value: quad, Members: cards}, true
	case 8:
		if len(p.values) != 3 {
			return nil, false
		}
		for _, v := range p.values {
			if v != quad && p.counts[v] != 2 {
				return nil, false
			}
		}
		return Simple{Type: FourWithPairs, Value: quad, Members: cards}, true
	}
	return nil, false
}

func airplane(cards []shared.Card, p profile) (Combination, bool) {
	low, run := longestTripleRun(p)
	if run < 2 {
		return nil, false
	}
	top := low + run - 1
	n := len(cards)

	// Whatever is left after taking three copies of every run value.
	rest := make(map[int]int)
	restCount := 0
	for _, v := range p.values {
		c := p.counts[v]
		if v >= low && v <= top {
			c -= 3
		}
		if c > 0 {
			rest[v] = c
			restCount += c
		}
	}

	switch n {
	case 3 * run:
		return Plane{Simple: Simple{Type: Airplane, Value: top, Members: cards}, Run: run}, true
	case 4 * run:
		for _, c := range rest {
			if c != 1 {
				return nil, false
			}
		}
		return Plane{Simple: Simple{Type: AirplaneWithSingles, Value: top, Members: cards}, Run: run}, true
	case 5 * run:
		if len(rest) != run {
			return nil, false
		}
		for _, c := range rest {
			if c != 2 {
				return nil, false
			}
		}
		return Plane{Simple: Simple{Type: AirplaneWithPairs, Value: top, Members: cards}, Run: run}, true
	}
	return nil, false
}

// longestTripleRun finds the longest run of consecutive values below the 2
// that hold at least three copies each. Ties go to the higher run.
func longestTripleRun(p profile) (low, length int) {
	curLow, curLen := 0, 0
	prev := -1
	for _, v := range p.values {
		if v >= shared.ValueTwo || p.counts[v] < 3 {
			curLen = 0
			prev = -1
			continue
		}
		if curLen > 0 && v == prev+1 {
			curLen++
		} else {
			curLow, curLen = v, 1
		}
		prev = v
		if curLen >= length {
			low, length = curLow, curLen
		}
	}
	return low, length
}

// consecutive reports whether ascending distinct values form an unbroken
// run that stays below the 2.
func consecutive(values []int) bool {
	if len(values) == 0 || values[len(values)-1] >= shared.ValueTwo {
		return false
	}
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}
