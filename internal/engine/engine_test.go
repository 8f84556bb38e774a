package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeDict map[string]bool

func (d fakeDict) Contains(w string) bool { return d[strings.ToLower(w)] }

var testWords = fakeDict{
	"cat": true, "pig": true, "to": true, "at": true, "ax": true,
	"tea": true, "eat": true, "rate": true,
}

func newLobbyState(t *testing.T, players ...int64) *State {
	t.Helper()
	s := NewState("ROOM01", 0, testWords, DefaultRules(), 42)
	for _, id := range players {
		_, err := Apply(s, Command{Type: CmdJoin, PlayerID: id, Name: "p"})
		require.NoError(t, err)
	}
	return s
}

func newLiveState(t *testing.T) *State {
	t.Helper()
	s := newLobbyState(t, 1, 2)
	for _, id := range []int64{1, 2} {
		_, err := Apply(s, Command{Type: CmdReady, PlayerID: id})
		require.NoError(t, err)
	}
	events, err := Apply(s, Command{Type: CmdStartGame, PlayerID: 1})
	require.NoError(t, err)
	require.True(t, ContainsEvent(events, EvtGameStarted))
	require.Equal(t, StatusLive, s.Status)
	return s
}

func giveRack(s *State, playerID int64, letters string) {
	p, _ := s.player(playerID)
	p.Rack = nil
	for _, ch := range letters {
		l := string(ch)
		p.Rack = append(p.Rack, Tile{Letter: l, Value: LetterValue(l)})
	}
}

func placeAll(t *testing.T, s *State, playerID int64, word string, path []Position) {
	t.Helper()
	for i, pos := range path {
		_, err := Apply(s, Command{
			Type:     CmdPlaceLetter,
			PlayerID: playerID,
			Letter:   string(word[i]),
			Pos:      pos,
		})
		require.NoError(t, err)
	}
}

func row(y, x0 int, n int) []Position {
	path := make([]Position, n)
	for i := range path {
		path[i] = Position{X: x0 + i, Y: y}
	}
	return path
}

func TestLobbyLifecycle(t *testing.T) {
	s := newLobbyState(t, 1)
	require.Equal(t, StatusPending, s.Status)

	// Start needs two ready players.
	_, err := Apply(s, Command{Type: CmdReady, PlayerID: 1})
	require.NoError(t, err)
	_, err = Apply(s, Command{Type: CmdStartGame, PlayerID: 1})
	require.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = Apply(s, Command{Type: CmdJoin, PlayerID: 2, Name: "p"})
	require.NoError(t, err)
	_, err = Apply(s, Command{Type: CmdReady, PlayerID: 2})
	require.NoError(t, err)
	require.Equal(t, StatusReady, s.Status)

	// Only the creator may start.
	_, err = Apply(s, Command{Type: CmdStartGame, PlayerID: 2})
	require.ErrorIs(t, err, ErrNotCreator)

	events, err := Apply(s, Command{Type: CmdStartGame, PlayerID: 1})
	require.NoError(t, err)
	require.True(t, ContainsEvent(events, EvtGameLoading))
	require.True(t, ContainsEvent(events, EvtGameStarted))
	require.Equal(t, StatusLive, s.Status)

	// Every player starts with a full rack.
	for _, p := range s.Players {
		require.Len(t, p.Rack, RackSize)
	}

	// No re-entry into the lobby phase.
	_, err = Apply(s, Command{Type: CmdJoin, PlayerID: 3, Name: "late"})
	require.ErrorIs(t, err, ErrWrongState)
}

func TestJoinCapacity(t *testing.T) {
	s := newLobbyState(t, 1, 2, 3, 4, 5)
	events, err := Apply(s, Command{Type: CmdJoin, PlayerID: 6, Name: "p"})
	require.NoError(t, err)
	require.True(t, ContainsEvent(events, EvtGameFull))
	require.Equal(t, StatusFull, s.Status)

	_, err = Apply(s, Command{Type: CmdJoin, PlayerID: 7, Name: "p"})
	require.ErrorIs(t, err, ErrGameFull)

	// A leaver reopens the seat.
	_, err = Apply(s, Command{Type: CmdLeave, PlayerID: 6})
	require.NoError(t, err)
	require.NotEqual(t, StatusFull, s.Status)
	_, err = Apply(s, Command{Type: CmdJoin, PlayerID: 7, Name: "p"})
	require.NoError(t, err)
}

func TestRejoinIsNoOp(t *testing.T) {
	s := newLiveState(t)
	events, err := Apply(s, Command{Type: CmdJoin, PlayerID: 1, Name: "p"})
	require.NoError(t, err)
	require.Empty(t, events)
	require.Len(t, s.Players, 2)
}

func TestPlacementBeforeLiveRejected(t *testing.T) {
	s := newLobbyState(t, 1, 2)
	_, err := Apply(s, Command{
		Type: CmdPlaceLetter, PlayerID: 1, Letter: "A", Pos: Position{X: 0, Y: 0},
	})
	require.ErrorIs(t, err, ErrWrongState)
}

func TestPlacementConflicts(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CATXYZQ")
	giveRack(s, 2, "CATXYZQ")

	_, err := Apply(s, Command{
		Type: CmdPlaceLetter, PlayerID: 1, Letter: "C", Pos: Position{X: 3, Y: 4},
	})
	require.NoError(t, err)

	// Another player cannot claim the same cell.
	_, err = Apply(s, Command{
		Type: CmdPlaceLetter, PlayerID: 2, Letter: "X", Pos: Position{X: 3, Y: 4},
	})
	require.ErrorIs(t, err, ErrCellOwned)

	// Nor remove someone else's provisional letter.
	_, err = Apply(s, Command{
		Type: CmdRemoveLetter, PlayerID: 2, Pos: Position{X: 3, Y: 4},
	})
	require.ErrorIs(t, err, ErrNotOwner)

	// The owner can.
	_, err = Apply(s, Command{
		Type: CmdRemoveLetter, PlayerID: 1, Pos: Position{X: 3, Y: 4},
	})
	require.NoError(t, err)
	require.Equal(t, Cell{}, s.Board.At(Position{X: 3, Y: 4}))
}

func TestPlacementRequiresRackLetter(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CCTXYZQ")

	// Two C's in the rack allow exactly two provisional C's.
	_, err := Apply(s, Command{Type: CmdPlaceLetter, PlayerID: 1, Letter: "C", Pos: Position{X: 0, Y: 0}})
	require.NoError(t, err)
	_, err = Apply(s, Command{Type: CmdPlaceLetter, PlayerID: 1, Letter: "C", Pos: Position{X: 1, Y: 0}})
	require.NoError(t, err)
	_, err = Apply(s, Command{Type: CmdPlaceLetter, PlayerID: 1, Letter: "C", Pos: Position{X: 2, Y: 0}})
	require.ErrorIs(t, err, ErrLetterNotInRack)

	_, err = Apply(s, Command{Type: CmdPlaceLetter, PlayerID: 1, Letter: "A", Pos: Position{X: 3, Y: 0}})
	require.ErrorIs(t, err, ErrLetterNotInRack)
}

func TestSubmitValidWord(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CATXYZQ")
	path := row(4, 3, 3)
	placeAll(t, s, 1, "CAT", path)

	events, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "CAT", Path: path, IsNew: true,
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, EvtWordSubmitted, events[0].Type)
	require.Equal(t, []string{"CAT"}, events[0].Words)

	// C=3, A=1, T=1, no length bonus below 5 letters.
	wantScore := 5
	require.Equal(t, wantScore, events[0].Score)
	require.Equal(t, EvtScoreUpdate, events[1].Type)
	require.Equal(t, wantScore, events[1].Total)

	p, _ := s.player(1)
	require.Equal(t, wantScore, p.Score)
	require.Len(t, p.Rack, RackSize)

	for _, pos := range path {
		c := s.Board.At(pos)
		require.True(t, c.Committed)
		require.Zero(t, c.Owner)
	}

	// Re-placing on committed cells is always rejected.
	giveRack(s, 2, "CATXYZQ")
	_, err = Apply(s, Command{
		Type: CmdPlaceLetter, PlayerID: 2, Letter: "X", Pos: Position{X: 4, Y: 4},
	})
	require.ErrorIs(t, err, ErrCellCommitted)
}

func TestSubmitInvalidWordRollsBack(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CTAXYZQ")
	path := row(4, 3, 3)
	placeAll(t, s, 1, "CTA", path)
	rackBefore := len(mustPlayer(t, s, 1).Rack)

	events, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "CTA", Path: path, IsNew: true,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, EvtWordNotValid, events[0].Type)
	require.Len(t, events[0].Cleared, 3)

	// Only the submitter's provisional cells are rolled back; the rack is
	// not consumed.
	for _, pos := range path {
		require.Equal(t, Cell{}, s.Board.At(pos))
	}
	require.Equal(t, rackBefore, len(mustPlayer(t, s, 1).Rack))
	require.Zero(t, mustPlayer(t, s, 1).Score)
}

func TestSubmitRollbackLeavesOtherPlayersAlone(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CTAXYZQ")
	giveRack(s, 2, "CATXYZQ")

	placeAll(t, s, 2, "C", []Position{{X: 0, Y: 0}})

	path := row(4, 3, 3)
	placeAll(t, s, 1, "CTA", path)
	_, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "CTA", Path: path, IsNew: true,
	})
	require.NoError(t, err)

	c := s.Board.At(Position{X: 0, Y: 0})
	require.Equal(t, "C", c.Letter)
	require.Equal(t, int64(2), c.Owner)
}

func TestSubmitAdjacentWordsNotValid(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CATXYZQ")
	catPath := row(4, 3, 3)
	placeAll(t, s, 1, "CAT", catPath)
	_, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "CAT", Path: catPath, IsNew: true,
	})
	require.NoError(t, err)

	// PIG under CAT is itself valid, but forms CP / AI / TG columns.
	giveRack(s, 2, "PIGXYZQ")
	pigPath := row(5, 3, 3)
	placeAll(t, s, 2, "PIG", pigPath)
	events, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 2, Word: "PIG", Path: pigPath, IsNew: true,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, EvtAdjacentWordsNotValid, events[0].Type)

	for _, pos := range pigPath {
		require.Equal(t, Cell{}, s.Board.At(pos))
	}
	// The committed CAT is untouched.
	require.Equal(t, "A", s.Board.At(Position{X: 4, Y: 4}).Letter)
	require.True(t, s.Board.At(Position{X: 4, Y: 4}).Committed)
}

func TestSubmitWithValidCrossWords(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CATXYZQ")
	catPath := row(4, 3, 3)
	placeAll(t, s, 1, "CAT", catPath)
	_, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "CAT", Path: catPath, IsNew: true,
	})
	require.NoError(t, err)

	// TO under AT forms columns AT and TO, all valid.
	giveRack(s, 2, "TOXYZQW")
	toPath := row(5, 4, 2)
	placeAll(t, s, 2, "TO", toPath)
	events, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 2, Word: "TO", Path: toPath, IsNew: true,
	})
	require.NoError(t, err)
	require.Equal(t, EvtWordSubmitted, events[0].Type)
	require.Equal(t, []string{"TO", "AT", "TO"}, events[0].Words)
}

func TestSubmitExtendsCommittedWord(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CATXYZQ")
	catPath := row(4, 3, 3)
	placeAll(t, s, 1, "CAT", catPath)
	_, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "CAT", Path: catPath, IsNew: true,
	})
	require.NoError(t, err)

	// AX downward through the committed A: path covers the committed cell.
	giveRack(s, 2, "XQZWVKJ")
	axPath := []Position{{X: 4, Y: 4}, {X: 4, Y: 5}}
	placeAll(t, s, 2, "X", axPath[1:])
	events, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 2, Word: "AX", Path: axPath, IsNew: false,
	})
	require.NoError(t, err)
	require.Equal(t, EvtWordSubmitted, events[0].Type)
	require.Equal(t, []string{"AX"}, events[0].Words)

	// An isNew submission over a committed cell is a conflict.
	giveRack(s, 2, "XQZWVKJ")
	_, err = Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 2, Word: "AX", Path: axPath, IsNew: true,
	})
	require.ErrorIs(t, err, ErrCellCommitted)
}

func TestSubmitShapeErrors(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CATXYZQ")

	cases := []struct {
		name string
		word string
		path []Position
	}{
		{"single cell", "C", []Position{{X: 0, Y: 0}}},
		{"diagonal", "CA", []Position{{X: 0, Y: 0}, {X: 1, Y: 1}}},
		{"gap", "CA", []Position{{X: 0, Y: 0}, {X: 2, Y: 0}}},
		{"wrong order", "CA", []Position{{X: 1, Y: 0}, {X: 0, Y: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(s, Command{
				Type: CmdSubmitWord, PlayerID: 1, Word: tc.word, Path: tc.path, IsNew: true,
			})
			require.ErrorIs(t, err, ErrBadPath)
		})
	}

	_, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "CA",
		Path: []Position{{X: 9, Y: 0}, {X: 10, Y: 0}}, IsNew: true,
	})
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestSubmitWordMismatch(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CATXYZQ")
	path := row(4, 3, 3)
	placeAll(t, s, 1, "CAT", path)

	_, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "CAR", Path: path, IsNew: true,
	})
	require.ErrorIs(t, err, ErrWordMismatch)
}

func TestSubmitLengthBonus(t *testing.T) {
	dict := fakeDict{"rates": true}
	s := NewState("ROOM02", 0, dict, DefaultRules(), 7)
	mustJoinReadyStart(t, s)

	giveRack(s, 1, "RATESZQ")
	path := row(0, 0, 5)
	placeAll(t, s, 1, "RATES", path)
	events, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "RATES", Path: path, IsNew: true,
	})
	require.NoError(t, err)
	// R1+A1+T1+E1+S1 = 5, doubled at five letters.
	require.Equal(t, 10, events[0].Score)
}

func TestRefreshRackSwapsTiles(t *testing.T) {
	s := newLiveState(t)
	p := mustPlayer(t, s, 1)
	before := s.Bag.Remaining()

	events, err := Apply(s, Command{Type: CmdRefreshRack, PlayerID: 1})
	require.NoError(t, err)
	require.True(t, ContainsEvent(events, EvtRackRefreshed))
	require.Len(t, p.Rack, RackSize)
	require.Equal(t, before, s.Bag.Remaining())
}

func TestEndGameDiscardsProvisional(t *testing.T) {
	s := newLiveState(t)
	giveRack(s, 1, "CATXYZQ")
	catPath := row(4, 3, 3)
	placeAll(t, s, 1, "CAT", catPath)
	_, err := Apply(s, Command{
		Type: CmdSubmitWord, PlayerID: 1, Word: "CAT", Path: catPath, IsNew: true,
	})
	require.NoError(t, err)

	// A dangling provisional letter at end of game.
	placeAll(t, s, 1, "X", []Position{{X: 0, Y: 0}})

	events, err := Apply(s, Command{Type: CmdEndGame})
	require.NoError(t, err)
	require.True(t, ContainsEvent(events, EvtGameEnded))
	require.Equal(t, StatusEnded, s.Status)

	require.Equal(t, Cell{}, s.Board.At(Position{X: 0, Y: 0}))
	require.True(t, s.Board.At(Position{X: 3, Y: 4}).Committed)
	require.Equal(t, 5, mustPlayer(t, s, 1).Score)

	// Ended is terminal.
	_, err = Apply(s, Command{Type: CmdEndGame})
	require.ErrorIs(t, err, ErrWrongState)
	_, err = Apply(s, Command{
		Type: CmdPlaceLetter, PlayerID: 1, Letter: "X", Pos: Position{X: 1, Y: 1},
	})
	require.ErrorIs(t, err, ErrWrongState)
}

func mustPlayer(t *testing.T, s *State, id int64) *Player {
	t.Helper()
	p, err := s.player(id)
	require.NoError(t, err)
	return p
}

func mustJoinReadyStart(t *testing.T, s *State) {
	t.Helper()
	for _, id := range []int64{1, 2} {
		_, err := Apply(s, Command{Type: CmdJoin, PlayerID: id, Name: "p"})
		require.NoError(t, err)
		_, err = Apply(s, Command{Type: CmdReady, PlayerID: id})
		require.NoError(t, err)
	}
	_, err := Apply(s, Command{Type: CmdStartGame, PlayerID: 1})
	require.NoError(t, err)
}
