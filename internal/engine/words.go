package engine

import "strings"

// validatePath checks bounds and shape: at least two cells forming one
// contiguous straight line, ordered left-to-right or top-to-bottom.
// Returns whether the path runs horizontally.
func validatePath(b *Board, path []Position) (bool, error) {
	if len(path) < 2 {
		return false, ErrBadPath
	}
	for _, p := range path {
		if !b.InBounds(p) {
			return false, ErrOutOfBounds
		}
	}
	horizontal := path[0].Y == path[1].Y
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		if horizontal {
			if cur.Y != prev.Y || cur.X != prev.X+1 {
				return false, ErrBadPath
			}
		} else {
			if cur.X != prev.X || cur.Y != prev.Y+1 {
				return false, ErrBadPath
			}
		}
	}
	return horizontal, nil
}

// visibleLetter is what a cross-word scan may read at p from playerID's
// point of view: committed letters and the player's own provisional
// letters. Other players' uncommitted letters are invisible so their
// half-finished attempts can never invalidate a submission.
func visibleLetter(b *Board, p Position, playerID int64) string {
	if !b.InBounds(p) {
		return ""
	}
	c := b.At(p)
	if c.Letter == "" {
		return ""
	}
	if c.Committed || c.Owner == playerID {
		return c.Letter
	}
	return ""
}

// pathFlanked reports whether a visible letter sits immediately before or
// after the path along its own axis, meaning the path does not cover the
// full word on the board.
func pathFlanked(b *Board, path []Position, horizontal bool, playerID int64) bool {
	first, last := path[0], path[len(path)-1]
	if horizontal {
		return visibleLetter(b, Position{X: first.X - 1, Y: first.Y}, playerID) != "" ||
			visibleLetter(b, Position{X: last.X + 1, Y: last.Y}, playerID) != ""
	}
	return visibleLetter(b, Position{X: first.X, Y: first.Y - 1}, playerID) != "" ||
		visibleLetter(b, Position{X: first.X, Y: last.Y + 1}, playerID) != ""
}

// crossWords collects every word formed perpendicular to the path through
// the submitter's newly placed letters. Scan order is deterministic: cells
// are visited in path order and each cross word is read top-to-bottom or
// left-to-right.
func crossWords(b *Board, path []Position, horizontal bool, playerID int64) []string {
	var words []string
	for _, p := range path {
		c := b.At(p)
		if c.Committed || c.Owner != playerID {
			continue // only newly placed letters form new cross words
		}
		var w string
		if horizontal {
			w = readRun(b, p, 0, 1, playerID)
		} else {
			w = readRun(b, p, 1, 0, playerID)
		}
		if len(w) > 1 {
			words = append(words, w)
		}
	}
	return words
}

// readRun reads the maximal visible run through p along (dx,dy).
func readRun(b *Board, p Position, dx, dy int, playerID int64) string {
	start := p
	for {
		prev := Position{X: start.X - dx, Y: start.Y - dy}
		if visibleLetter(b, prev, playerID) == "" {
			break
		}
		start = prev
	}
	var sb strings.Builder
	for cur := start; visibleLetter(b, cur, playerID) != ""; cur = (Position{X: cur.X + dx, Y: cur.Y + dy}) {
		sb.WriteString(visibleLetter(b, cur, playerID))
	}
	return sb.String()
}
