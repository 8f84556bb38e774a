package engine

// BoardSize is the fixed board edge length.
const BoardSize = 10

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell holds a single board square. Owner is the provisional owner's
// player id while a letter is uncommitted; 0 means unowned. A committed
// cell's letter never changes.
type Cell struct {
	Letter    string `json:"letter,omitempty"`
	Owner     int64  `json:"owner,omitempty"`
	Committed bool   `json:"committed,omitempty"`
}

type Board struct {
	Cells [BoardSize][BoardSize]Cell `json:"cells"`
}

func NewBoard() *Board {
	return &Board{}
}

func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

func (b *Board) At(p Position) Cell {
	return b.Cells[p.Y][p.X]
}

// Place claims a cell provisionally for playerID. Re-placing on a cell the
// player already holds overwrites the letter; any other occupancy is a
// conflict.
func (b *Board) Place(playerID int64, p Position, letter string) error {
	if !b.InBounds(p) {
		return ErrOutOfBounds
	}
	c := &b.Cells[p.Y][p.X]
	if c.Committed {
		return ErrCellCommitted
	}
	if c.Owner != 0 && c.Owner != playerID {
		return ErrCellOwned
	}
	c.Letter = letter
	c.Owner = playerID
	return nil
}

// Remove clears a provisional letter. Only the current provisional owner
// may remove it.
func (b *Board) Remove(playerID int64, p Position) error {
	if !b.InBounds(p) {
		return ErrOutOfBounds
	}
	c := &b.Cells[p.Y][p.X]
	if c.Committed {
		return ErrCellCommitted
	}
	if c.Owner != playerID {
		return ErrNotOwner
	}
	c.Letter = ""
	c.Owner = 0
	return nil
}

// Commit fixes every cell on path. Already-committed cells are left as-is,
// so re-committing a path is a no-op.
func (b *Board) Commit(path []Position) {
	for _, p := range path {
		c := &b.Cells[p.Y][p.X]
		c.Committed = true
		c.Owner = 0
	}
}

// Rollback clears every provisional cell held by playerID and reports the
// cleared positions so clients can undo the stale letters. Committed cells
// are untouched.
func (b *Board) Rollback(playerID int64) []Position {
	var cleared []Position
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			c := &b.Cells[y][x]
			if !c.Committed && c.Owner == playerID {
				c.Letter = ""
				c.Owner = 0
				cleared = append(cleared, Position{X: x, Y: y})
			}
		}
	}
	return cleared
}
