package engine

// LengthBonus multiplies a word's base score once the path reaches
// MinLength letters. The table is policy, not rules-of-the-game: ops can
// tune it per deployment.
type LengthBonus struct {
	MinLength  int
	Multiplier int
}

type Rules struct {
	RackSize   int
	MinPlayers int
	MaxPlayers int
	// Bonuses must be sorted by MinLength descending; the first match wins.
	Bonuses []LengthBonus
}

func DefaultRules() Rules {
	return Rules{
		RackSize:   RackSize,
		MinPlayers: 2,
		MaxPlayers: 6,
		Bonuses: []LengthBonus{
			{MinLength: 7, Multiplier: 3},
			{MinLength: 5, Multiplier: 2},
		},
	}
}

func (r Rules) multiplier(length int) int {
	for _, b := range r.Bonuses {
		if length >= b.MinLength {
			return b.Multiplier
		}
	}
	return 1
}

// scorePath sums the tile values along the path and applies the length
// bonus. Only the primary path scores; cross words ride along unscored.
func scorePath(b *Board, path []Position, rules Rules) int {
	sum := 0
	for _, p := range path {
		sum += LetterValue(b.At(p).Letter)
	}
	return sum * rules.multiplier(len(path))
}
