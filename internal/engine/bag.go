package engine

import "math/rand"

type Tile struct {
	Letter string `json:"letter"`
	Value  int    `json:"value"`
}

// RackSize is the number of tiles a player holds after a refresh.
const RackSize = 7

// letterCounts is the classic 98-tile distribution (no blanks).
var letterCounts = map[string]int{
	"A": 9, "B": 2, "C": 2, "D": 4, "E": 12, "F": 2, "G": 3, "H": 2,
	"I": 9, "J": 1, "K": 1, "L": 4, "M": 2, "N": 6, "O": 8, "P": 2,
	"Q": 1, "R": 6, "S": 4, "T": 6, "U": 4, "V": 2, "W": 2, "X": 1,
	"Y": 2, "Z": 1,
}

var letterValues = map[string]int{
	"A": 1, "B": 3, "C": 3, "D": 2, "E": 1, "F": 4, "G": 2, "H": 4,
	"I": 1, "J": 8, "K": 5, "L": 1, "M": 3, "N": 1, "O": 1, "P": 3,
	"Q": 10, "R": 1, "S": 1, "T": 1, "U": 1, "V": 4, "W": 4, "X": 8,
	"Y": 4, "Z": 10,
}

// LetterValue reports the fixed point value of an uppercase letter.
func LetterValue(letter string) int {
	return letterValues[letter]
}

// Bag is the shared multiset of undrawn tiles for one game.
type Bag struct {
	tiles []Tile
	rng   *rand.Rand
}

func NewBag(seed int64) *Bag {
	b := &Bag{rng: rand.New(rand.NewSource(seed))}
	for letter, n := range letterCounts {
		for i := 0; i < n; i++ {
			b.tiles = append(b.tiles, Tile{Letter: letter, Value: letterValues[letter]})
		}
	}
	b.shuffle()
	return b
}

func (b *Bag) shuffle() {
	b.rng.Shuffle(len(b.tiles), func(i, j int) {
		b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	})
}

func (b *Bag) Remaining() int { return len(b.tiles) }

// Draw removes up to count tiles. A depleted bag returns fewer tiles;
// it never errors.
func (b *Bag) Draw(count int) []Tile {
	if count > len(b.tiles) {
		count = len(b.tiles)
	}
	drawn := make([]Tile, count)
	copy(drawn, b.tiles[:count])
	b.tiles = b.tiles[count:]
	return drawn
}

// Return puts tiles back and reshuffles, used when a player swaps their
// whole rack.
func (b *Bag) Return(tiles []Tile) {
	b.tiles = append(b.tiles, tiles...)
	b.shuffle()
}
