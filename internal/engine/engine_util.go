package engine

func (s *State) player(id int64) (*Player, error) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrUnknownPlayer
}

// preGame reports whether the lobby phase is still open.
func (s *State) preGame() bool {
	switch s.Status {
	case StatusPending, StatusReady, StatusFull:
		return true
	}
	return false
}

func (s *State) readyCount() int {
	n := 0
	for _, p := range s.Players {
		if p.Ready {
			n++
		}
	}
	return n
}

// deriveLobbyStatus recomputes pending/ready/full after the player set
// changes pre-game.
func (s *State) deriveLobbyStatus() {
	switch {
	case len(s.Players) >= s.Rules.MaxPlayers:
		s.Status = StatusFull
	case s.readyCount() >= s.Rules.MinPlayers:
		s.Status = StatusReady
	default:
		s.Status = StatusPending
	}
}

// availableCount is the number of copies of letter the player can still
// place: rack count minus copies already sitting provisionally on the
// board. Placement never consumes the rack; only a committed submission
// does.
func (s *State) availableCount(p *Player, letter string) int {
	n := 0
	for _, t := range p.Rack {
		if t.Letter == letter {
			n++
		}
	}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			c := s.Board.Cells[y][x]
			if !c.Committed && c.Owner == p.ID && c.Letter == letter {
				n--
			}
		}
	}
	return n
}

func removeFromRack(p *Player, letter string) bool {
	for i, t := range p.Rack {
		if t.Letter == letter {
			p.Rack = append(p.Rack[:i], p.Rack[i+1:]...)
			return true
		}
	}
	return false
}

func normalizeLetter(letter string) (string, bool) {
	if len(letter) != 1 {
		return "", false
	}
	ch := letter[0]
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	if ch < 'A' || ch > 'Z' {
		return "", false
	}
	return string(ch), true
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
