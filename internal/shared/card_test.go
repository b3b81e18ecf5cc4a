package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardValue(t *testing.T) {
	for id := Card(3); id <= 13; id++ {
		assert.Equal(t, int(id), id.Value(), "card %d", id)
	}
	assert.Equal(t, ValueAce, Card(1).Value())
	assert.Equal(t, ValueTwo, Card(2).Value())
	assert.Equal(t, ValueSmallJoker, SmallJoker.Value())
	assert.Equal(t, ValueBigJoker, BigJoker.Value())
}

func TestCardValueOrderAcrossSuits(t *testing.T) {
	// 3 < 4 < ... < K < A < 2 in every suit, jokers on top.
	for suit := 0; suit < 4; suit++ {
		base := Card(suit * 13)
		order := []Card{base + 3, base + 4, base + 5, base + 6, base + 7, base + 8, base + 9, base + 10, base + 11, base + 12, base + 13, base + 1, base + 2, SmallJoker, BigJoker}
		for i := 1; i < len(order); i++ {
			require.Less(t, order[i-1].Value(), order[i].Value(), "%s vs %s", order[i-1], order[i])
		}
	}
	assert.Equal(t, Card(14).Value(), Card(1).Value())
	assert.Equal(t, Card(26+9).Value(), Card(9).Value())
}

func TestCardSuitAndRank(t *testing.T) {
	tests := []struct {
		card Card
		suit Suit
		rank int
		name string
	}{
		{card: 1, suit: Spades, rank: 0, name: "AS"},
		{card: 13, suit: Spades, rank: 12, name: "KS"},
		{card: 14, suit: Hearts, rank: 0, name: "AH"},
		{card: 36, suit: Clubs, rank: 9, name: "10C"},
		{card: 52, suit: Diamonds, rank: 12, name: "KD"},
		{card: SmallJoker, suit: SuitJoker, rank: -1, name: "SJ"},
		{card: BigJoker, suit: SuitJoker, rank: -1, name: "BJ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.suit, tt.card.Suit())
			assert.Equal(t, tt.rank, tt.card.Rank())
			assert.Equal(t, tt.name, tt.card.String())
		})
	}
}

func TestCardValid(t *testing.T) {
	assert.False(t, Card(0).Valid())
	assert.True(t, Card(1).Valid())
	assert.True(t, BigJoker.Valid())
	assert.False(t, Card(55).Valid())
}
