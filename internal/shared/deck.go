package shared

import (
	"math/rand"
	"sort"
)

// Deck represents a collection of cards.
type Deck struct {
	Cards []Card
}

// NewDeck creates an ordered 54-card deck.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for id := Card(1); id <= BigJoker; id++ {
		cards = append(cards, id)
	}
	return &Deck{Cards: cards}
}

// Shuffle randomizes the order of cards in the deck using rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Deal distributes cardsPerPlayer cards to each of numPlayers round-robin and
// returns the hands together with whatever is left over. It returns nil hands
// if the deck cannot cover the deal.
func (d *Deck) Deal(numPlayers, cardsPerPlayer int) (hands [][]Card, rest []Card) {
	if numPlayers <= 0 || len(d.Cards) < numPlayers*cardsPerPlayer {
		return nil, nil
	}

	hands = make([][]Card, numPlayers)
	for i := range hands {
		hands[i] = make([]Card, 0, cardsPerPlayer)
	}
	dealt := numPlayers * cardsPerPlayer
	for i := 0; i < dealt; i++ {
		hands[i%numPlayers] = append(hands[i%numPlayers], d.Cards[i])
	}
	rest = append([]Card{}, d.Cards[dealt:]...)

	d.Cards = []Card{}
	return hands, rest
}

// SortCards orders cards by ascending value, breaking ties by id.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		vi, vj := cards[i].Value(), cards[j].Value()
		if vi != vj {
			return vi < vj
		}
		return cards[i] < cards[j]
	})
}
