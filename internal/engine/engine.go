package engine

import (
	"errors"
	"strings"
)

var ErrGameFull = errors.New("game is full")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrWrongState = errors.New("action not allowed in current game state")
var ErrNotCreator = errors.New("only the game creator can start the game")
var ErrNotEnoughPlayers = errors.New("need at least two ready players")
var ErrOutOfBounds = errors.New("position out of bounds")
var ErrCellCommitted = errors.New("cell is already committed")
var ErrCellOwned = errors.New("cell is held by another player")
var ErrNotOwner = errors.New("cell is not held by player")
var ErrLetterNotInRack = errors.New("letter is not in the player's rack")
var ErrBadLetter = errors.New("letter must be a single character A-Z")
var ErrBadPath = errors.New("path is not a contiguous straight line over placed letters")
var ErrWordMismatch = errors.New("word does not match the letters on the path")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusLoading Status = "loading"
	StatusLive    Status = "live"
	StatusEnded   Status = "ended"
	StatusFull    Status = "full"
)

type Player struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Wallet string `json:"walletAddress,omitempty"`
	Ready  bool   `json:"ready"`
	Staked bool   `json:"staked"`
	Score  int    `json:"score"`
	Rack   []Tile `json:"availableLetters"`
}

// WordChecker answers dictionary lookups. The index is immutable and
// shared read-only across all games.
type WordChecker interface {
	Contains(word string) bool
}

// State is one game's authoritative state. It is owned by exactly one
// room goroutine; nothing here is safe for concurrent use.
type State struct {
	GameID  string
	Status  Status
	Players []*Player // join order; Players[0] is the creator
	Board   *Board
	Bag     *Bag
	Rules   Rules
	Stake   int64

	dict WordChecker
	seed int64
}

func NewState(gameID string, stake int64, dict WordChecker, rules Rules, seed int64) *State {
	return &State{
		GameID: gameID,
		Status: StatusPending,
		Board:  NewBoard(),
		Rules:  rules,
		Stake:  stake,
		dict:   dict,
		seed:   seed,
	}
}

type CommandType string

const (
	CmdJoin           CommandType = "Join"
	CmdReady          CommandType = "Ready"
	CmdStakeConfirmed CommandType = "StakeConfirmed"
	CmdStartGame      CommandType = "StartGame"
	CmdPlaceLetter    CommandType = "PlaceLetter"
	CmdRemoveLetter   CommandType = "RemoveLetter"
	CmdSubmitWord     CommandType = "SubmitWord"
	CmdRefreshRack    CommandType = "RefreshRack"
	CmdEndGame        CommandType = "EndGame"
	CmdLeave          CommandType = "Leave"
)

type Command struct {
	Type     CommandType
	PlayerID int64

	// join
	Name   string
	Avatar string
	Wallet string

	// stake
	PaymentHash string

	// placement
	Letter string
	Pos    Position

	// submission
	Word  string
	Path  []Position
	IsNew bool
}

type EventType string

const (
	EvtPlayerJoined          EventType = "PlayerJoined"
	EvtGameFull              EventType = "GameFull"
	EvtGameUpdate            EventType = "GameUpdate"
	EvtGameLoading           EventType = "GameLoading"
	EvtGameStarted           EventType = "GameStarted"
	EvtLetterPlaced          EventType = "LetterPlaced"
	EvtLetterRemoved         EventType = "LetterRemoved"
	EvtWordSubmitted         EventType = "WordSubmitted"
	EvtWordNotValid          EventType = "WordNotValid"
	EvtAdjacentWordsNotValid EventType = "AdjacentWordsNotValid"
	EvtScoreUpdate           EventType = "ScoreUpdate"
	EvtRackRefreshed         EventType = "RackRefreshed"
	EvtGameEnded             EventType = "GameEnded"
)

type Event struct {
	Type     EventType
	PlayerID int64
	Letter   string
	Pos      Position
	Path     []Position
	Word     string
	Words    []string
	Score    int        // delta for the triggering submission
	Total    int        // player's running total after the delta
	Cleared  []Position // provisional cells rolled back on rejection
}

// Apply mutates s according to cmd and returns the events to broadcast.
// A non-nil error means nothing was mutated and the rejection is scoped
// to the sender. Rejected word submissions are events, not errors: they
// roll back the submitter's provisional cells, which everyone must see.
func Apply(s *State, cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdJoin:
		return applyJoin(s, cmd)
	case CmdReady:
		return applyReady(s, cmd)
	case CmdStakeConfirmed:
		return applyStake(s, cmd)
	case CmdStartGame:
		return applyStart(s, cmd)
	case CmdPlaceLetter:
		return applyPlace(s, cmd)
	case CmdRemoveLetter:
		return applyRemove(s, cmd)
	case CmdSubmitWord:
		return applySubmit(s, cmd)
	case CmdRefreshRack:
		return applyRefresh(s, cmd)
	case CmdEndGame:
		return applyEnd(s)
	case CmdLeave:
		return applyLeave(s, cmd)
	default:
		return nil, ErrUnsupportedCommand
	}
}

func applyJoin(s *State, cmd Command) ([]Event, error) {
	if p, _ := s.player(cmd.PlayerID); p != nil {
		// Reconnect: the seat and score persist, no state change. The
		// room resyncs the connection with a full snapshot.
		return nil, nil
	}
	if s.Status == StatusFull {
		return nil, ErrGameFull
	}
	if s.Status != StatusPending && s.Status != StatusReady {
		return nil, ErrWrongState
	}
	if len(s.Players) >= s.Rules.MaxPlayers {
		return nil, ErrGameFull
	}
	s.Players = append(s.Players, &Player{
		ID:     cmd.PlayerID,
		Name:   cmd.Name,
		Avatar: cmd.Avatar,
		Wallet: cmd.Wallet,
	})
	events := []Event{
		{Type: EvtPlayerJoined, PlayerID: cmd.PlayerID},
		{Type: EvtGameUpdate},
	}
	if len(s.Players) == s.Rules.MaxPlayers {
		s.Status = StatusFull
		events = append(events, Event{Type: EvtGameFull})
	}
	return events, nil
}

func applyReady(s *State, cmd Command) ([]Event, error) {
	if !s.preGame() {
		return nil, ErrWrongState
	}
	p, err := s.player(cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	p.Ready = true
	if s.Status == StatusPending && s.readyCount() >= s.Rules.MinPlayers {
		s.Status = StatusReady
	}
	return []Event{{Type: EvtGameUpdate}}, nil
}

func applyStake(s *State, cmd Command) ([]Event, error) {
	if !s.preGame() {
		return nil, ErrWrongState
	}
	p, err := s.player(cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	p.Staked = true
	return []Event{{Type: EvtGameUpdate}}, nil
}

func applyStart(s *State, cmd Command) ([]Event, error) {
	if !s.preGame() {
		return nil, ErrWrongState
	}
	if len(s.Players) == 0 || s.Players[0].ID != cmd.PlayerID {
		return nil, ErrNotCreator
	}
	if s.readyCount() < s.Rules.MinPlayers {
		return nil, ErrNotEnoughPlayers
	}
	s.Status = StatusLoading
	// Board generation and letter distribution are in-memory, so the
	// loading and started events land in the same batch.
	s.Board = NewBoard()
	s.Bag = NewBag(s.seed)
	for _, p := range s.Players {
		p.Rack = s.Bag.Draw(s.Rules.RackSize)
	}
	s.Status = StatusLive
	return []Event{
		{Type: EvtGameLoading},
		{Type: EvtGameStarted},
	}, nil
}

func applyPlace(s *State, cmd Command) ([]Event, error) {
	if s.Status != StatusLive {
		return nil, ErrWrongState
	}
	p, err := s.player(cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	letter, ok := normalizeLetter(cmd.Letter)
	if !ok {
		return nil, ErrBadLetter
	}
	if s.availableCount(p, letter) <= 0 {
		return nil, ErrLetterNotInRack
	}
	if err := s.Board.Place(cmd.PlayerID, cmd.Pos, letter); err != nil {
		return nil, err
	}
	return []Event{{
		Type:     EvtLetterPlaced,
		PlayerID: cmd.PlayerID,
		Pos:      cmd.Pos,
		Letter:   letter,
	}}, nil
}

func applyRemove(s *State, cmd Command) ([]Event, error) {
	if s.Status != StatusLive {
		return nil, ErrWrongState
	}
	if _, err := s.player(cmd.PlayerID); err != nil {
		return nil, err
	}
	if err := s.Board.Remove(cmd.PlayerID, cmd.Pos); err != nil {
		return nil, err
	}
	return []Event{{
		Type:     EvtLetterRemoved,
		PlayerID: cmd.PlayerID,
		Pos:      cmd.Pos,
	}}, nil
}

func applySubmit(s *State, cmd Command) ([]Event, error) {
	if s.Status != StatusLive {
		return nil, ErrWrongState
	}
	p, err := s.player(cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	word := strings.ToUpper(cmd.Word)
	horizontal, err := validatePath(s.Board, cmd.Path)
	if err != nil {
		return nil, err
	}

	// Ownership and spelling in one pass. Committed cells are only legal
	// when extending an existing word.
	var spelled strings.Builder
	var consumed []string
	for _, pos := range cmd.Path {
		c := s.Board.At(pos)
		switch {
		case c.Committed:
			if cmd.IsNew {
				return nil, ErrCellCommitted
			}
		case c.Owner == cmd.PlayerID:
			consumed = append(consumed, c.Letter)
		case c.Owner == 0:
			return nil, ErrBadPath
		default:
			return nil, ErrCellOwned
		}
		spelled.WriteString(c.Letter)
	}
	if len(consumed) == 0 {
		return nil, ErrBadPath
	}
	if spelled.String() != word {
		return nil, ErrWordMismatch
	}
	if pathFlanked(s.Board, cmd.Path, horizontal, cmd.PlayerID) {
		return nil, ErrBadPath
	}

	if !s.dict.Contains(word) {
		cleared := s.Board.Rollback(cmd.PlayerID)
		return []Event{{
			Type:     EvtWordNotValid,
			PlayerID: cmd.PlayerID,
			Word:     word,
			Path:     cmd.Path,
			Cleared:  cleared,
		}}, nil
	}

	cross := crossWords(s.Board, cmd.Path, horizontal, cmd.PlayerID)
	for _, w := range cross {
		if !s.dict.Contains(w) {
			cleared := s.Board.Rollback(cmd.PlayerID)
			return []Event{{
				Type:     EvtAdjacentWordsNotValid,
				PlayerID: cmd.PlayerID,
				Word:     word,
				Words:    cross,
				Path:     cmd.Path,
				Cleared:  cleared,
			}}, nil
		}
	}

	score := scorePath(s.Board, cmd.Path, s.Rules)
	s.Board.Commit(cmd.Path)
	for _, letter := range consumed {
		removeFromRack(p, letter)
	}
	if missing := s.Rules.RackSize - len(p.Rack); missing > 0 {
		p.Rack = append(p.Rack, s.Bag.Draw(missing)...)
	}
	p.Score += score

	return []Event{
		{
			Type:     EvtWordSubmitted,
			PlayerID: cmd.PlayerID,
			Words:    append([]string{word}, cross...),
			Score:    score,
			Path:     cmd.Path,
		},
		{
			Type:     EvtScoreUpdate,
			PlayerID: cmd.PlayerID,
			Score:    score,
			Total:    p.Score,
		},
	}, nil
}

func applyRefresh(s *State, cmd Command) ([]Event, error) {
	if s.Status != StatusLive {
		return nil, ErrWrongState
	}
	p, err := s.player(cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	s.Bag.Return(p.Rack)
	p.Rack = s.Bag.Draw(s.Rules.RackSize)
	return []Event{{Type: EvtRackRefreshed, PlayerID: cmd.PlayerID}}, nil
}

func applyEnd(s *State) ([]Event, error) {
	if s.Status != StatusLive {
		return nil, ErrWrongState
	}
	// Uncommitted attempts are discarded; final scores count committed
	// words only.
	for _, p := range s.Players {
		s.Board.Rollback(p.ID)
	}
	s.Status = StatusEnded
	return []Event{{Type: EvtGameEnded}}, nil
}

func applyLeave(s *State, cmd Command) ([]Event, error) {
	if !s.preGame() {
		// Mid-game the seat and score persist for reconnection.
		return nil, nil
	}
	for i, p := range s.Players {
		if p.ID == cmd.PlayerID {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			s.deriveLobbyStatus()
			return []Event{{Type: EvtGameUpdate}}, nil
		}
	}
	return nil, ErrUnknownPlayer
}
