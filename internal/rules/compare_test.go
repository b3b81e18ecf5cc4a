package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanBeat(t *testing.T) {
	tests := []struct {
		name      string
		reference []int // nil means the round is open
		candidate []int
		expected  bool
	}{
		{name: "Any valid combination leads", reference: nil, candidate: []int{3, 4, 5, 6, 7}, expected: true},
		{name: "Invalid never leads", reference: nil, candidate: []int{3, 5}, expected: false},
		{name: "Higher single", reference: []int{9}, candidate: []int{10}, expected: true},
		{name: "Equal single", reference: []int{9}, candidate: []int{9}, expected: false},
		{name: "Lower single", reference: []int{9}, candidate: []int{8}, expected: false},
		{name: "Two beats ace", reference: []int{14}, candidate: []int{15}, expected: true},
		{name: "Big joker beats small joker", reference: []int{16}, candidate: []int{17}, expected: true},
		{name: "Pair against single", reference: []int{3}, candidate: []int{9, 9}, expected: false},
		{name: "Bomb beats pair", reference: []int{15, 15}, candidate: []int{3, 3, 3, 3}, expected: true},
		{name: "Bomb beats straight", reference: []int{10, 11, 12, 13, 14}, candidate: []int{3, 3, 3, 3}, expected: true},
		{name: "Higher bomb beats bomb", reference: []int{5, 5, 5, 5}, candidate: []int{6, 6, 6, 6}, expected: true},
		{name: "Lower bomb loses to bomb", reference: []int{6, 6, 6, 6}, candidate: []int{5, 5, 5, 5}, expected: false},
		{name: "Rocket beats bomb", reference: []int{15, 15, 15, 15}, candidate: []int{16, 17}, expected: true},
		{name: "Nothing beats rocket", reference: []int{16, 17}, candidate: []int{15, 15, 15, 15}, expected: false},
		{name: "Single does not beat rocket", reference: []int{16, 17}, candidate: []int{17}, expected: false},
		{name: "Longer straight does not compare", reference: []int{3, 4, 5, 6, 7}, candidate: []int{4, 5, 6, 7, 8, 9}, expected: false},
		{name: "Same length straight", reference: []int{3, 4, 5, 6, 7}, candidate: []int{4, 5, 6, 7, 8}, expected: true},
		{name: "Straight pairs of different length", reference: []int{3, 3, 4, 4, 5, 5}, candidate: []int{7, 7, 8, 8, 9, 9, 10, 10}, expected: false},
		{name: "Higher straight pairs", reference: []int{3, 3, 4, 4, 5, 5}, candidate: []int{7, 7, 8, 8, 9, 9}, expected: true},
		{name: "Airplane of different run", reference: []int{3, 3, 3, 4, 4, 4}, candidate: []int{7, 7, 7, 8, 8, 8, 9, 9, 9}, expected: false},
		{name: "Higher airplane with singles", reference: []int{3, 3, 3, 4, 4, 4, 9, 10}, candidate: []int{7, 7, 7, 8, 8, 8, 5, 6}, expected: true},
		{name: "Triple with single by triple value", reference: []int{9, 9, 9, 3}, candidate: []int{10, 10, 10, 4}, expected: true},
		{name: "Triple with single against triple with pair", reference: []int{9, 9, 9, 3, 3}, candidate: []int{10, 10, 10, 4}, expected: false},
		{name: "Four with singles", reference: []int{5, 5, 5, 5, 3, 4}, candidate: []int{6, 6, 6, 6, 3, 4}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reference Combination
			if tt.reference != nil {
				reference = Analyze(cards(tt.reference...))
			}
			candidate := Analyze(cards(tt.candidate...))
			assert.Equal(t, tt.expected, CanBeat(candidate, reference))
		})
	}
}

func TestCanBeatIsAntisymmetric(t *testing.T) {
	shapes := [][]int{
		{3}, {9}, {15}, {16}, {17},
		{4, 4}, {12, 12},
		{6, 6, 6}, {6, 6, 6, 3}, {7, 7, 7, 3, 3},
		{3, 4, 5, 6, 7}, {4, 5, 6, 7, 8}, {4, 5, 6, 7, 8, 9},
		{3, 3, 4, 4, 5, 5}, {5, 5, 6, 6, 7, 7},
		{8, 8, 8, 8}, {9, 9, 9, 9}, {8, 8, 8, 8, 3, 4},
		{3, 3, 3, 4, 4, 4}, {5, 5, 5, 6, 6, 6},
		{16, 17},
	}
	combos := make([]Combination, len(shapes))
	for i, s := range shapes {
		combos[i] = Analyze(cards(s...))
	}
	for i, a := range combos {
		for j, b := range combos {
			if CanBeat(a, b) && CanBeat(b, a) {
				t.Fatalf("%v and %v beat each other", shapes[i], shapes[j])
			}
		}
	}
}

func TestDifferentKindsNeverCompare(t *testing.T) {
	pair := Analyze(cards(10, 10))
	triple := Analyze(cards(4, 4, 4))
	straight := Analyze(cards(3, 4, 5, 6, 7))

	assert.False(t, CanBeat(pair, triple))
	assert.False(t, CanBeat(triple, pair))
	assert.False(t, CanBeat(straight, pair))
	assert.False(t, CanBeat(pair, straight))
}

func TestRocketBeatsEverything(t *testing.T) {
	rocket := Analyze(cards(16, 17))
	for _, s := range [][]int{{15}, {15, 15}, {15, 15, 15, 15}, {10, 11, 12, 13, 14}, {3, 3, 3, 4, 4, 4}} {
		assert.True(t, CanBeat(rocket, Analyze(cards(s...))), "%v", s)
	}
}
