package types

import (
	"time"

	"github.com/wordrush/wordrush-backend/internal/engine"
)

// ClientMessage is the single inbound wire shape. Type selects the intent;
// unused fields stay zero.
type ClientMessage struct {
	Type        string            `json:"type"`
	GameID      string            `json:"gameId,omitempty"`
	Player      *PlayerInfo       `json:"player,omitempty"`
	PlayerID    int64             `json:"playerId,omitempty"`
	PaymentHash string            `json:"paymentHash,omitempty"`
	Letter      string            `json:"letter,omitempty"`
	X           int               `json:"x"`
	Y           int               `json:"y"`
	Word        string            `json:"word,omitempty"`
	Path        []engine.Position `json:"path,omitempty"`
	IsNew       bool              `json:"isNew,omitempty"`
}

type PlayerInfo struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Avatar        string `json:"avatar,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// Envelope wraps every outbound event. Seq is monotonic per room so
// clients can discard anything they have already applied.
type Envelope struct {
	Seq     int64  `json:"seq"`
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Outbound event type tags.
const (
	EvtPlayerJoined          = "player_joined"
	EvtGameFull              = "game_full"
	EvtGameUpdate            = "game_update"
	EvtGameLoading           = "game_loading"
	EvtGameStarted           = "game_started"
	EvtLetterPlaced          = "letter_placed"
	EvtLetterRemoved         = "letter_removed"
	EvtWordSubmitted         = "word_submitted"
	EvtWordNotValid          = "word_not_valid"
	EvtAdjacentWordsNotValid = "adjacent_words_not_valid"
	EvtScoreUpdate           = "score_update"
	EvtRefreshedLetters      = "refreshed_available_letters"
	EvtTimerTick             = "timer_tick"
	EvtGameEnded             = "game_ended"
	EvtStateSnapshot         = "state_snapshot"
	EvtError                 = "error"
)

// Inbound intent type tags.
const (
	IntentConnect = "connect_to_lobby"
	IntentReady   = "player_ready"
	IntentStake   = "player_stake_confirmed"
	IntentStart   = "start_game"
	IntentPlace   = "place_letter"
	IntentRemove  = "remove_letter"
	IntentSubmit  = "submit_word"
	IntentRefresh = "refresh_available_letters"
	IntentLeave   = "leave_game"
)

type PlayerJoinedPayload struct {
	Player *engine.Player `json:"player"`
}

type GameUpdatePayload struct {
	Players []*engine.Player `json:"players"`
	Status  engine.Status    `json:"status"`
}

type GameLoadingPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type GameStartedPayload struct {
	Board         *engine.Board    `json:"board"`
	TimeRemaining int              `json:"timeRemaining"`
	Players       []*engine.Player `json:"players"`
	StartTime     time.Time        `json:"startTime"`
	EndTime       time.Time        `json:"endTime"`
}

type LetterPlacedPayload struct {
	PlayerID int64           `json:"player"`
	Position engine.Position `json:"position"`
	Letter   string          `json:"letter"`
}

type LetterRemovedPayload struct {
	PlayerID int64           `json:"playerId"`
	Position engine.Position `json:"position"`
}

type WordSubmittedPayload struct {
	Player *engine.Player    `json:"player"`
	Words  []string          `json:"words"`
	Score  int               `json:"score"`
	Path   []engine.Position `json:"path"`
	Board  *engine.Board     `json:"board"`
}

// WordRejectedPayload serves both word_not_valid and
// adjacent_words_not_valid; Cleared lets other clients drop the
// submitter's stale provisional letters.
type WordRejectedPayload struct {
	PlayerID int64             `json:"player"`
	Word     string            `json:"word"`
	Words    []string          `json:"words,omitempty"`
	Path     []engine.Position `json:"path"`
	Cleared  []engine.Position `json:"cleared"`
	Board    *engine.Board     `json:"board"`
}

type ScoreUpdatePayload struct {
	PlayerID   int64 `json:"player"`
	NewScore   int   `json:"newScore"`
	TotalScore int   `json:"totalScore"`
}

type RefreshedLettersPayload struct {
	Players  []*engine.Player `json:"players"`
	PlayerID int64            `json:"playerId"`
}

type TimerTickPayload struct {
	TimeRemaining int `json:"timeRemaining"`
}

type GameEndedPayload struct {
	Players []*engine.Player `json:"players"`
}

// StateSnapshotPayload is the full-state resync sent on join and
// reconnect; disconnected clients never replay missed deltas.
type StateSnapshotPayload struct {
	GameID        string           `json:"gameId"`
	Status        engine.Status    `json:"status"`
	Players       []*engine.Player `json:"players"`
	Board         *engine.Board    `json:"board,omitempty"`
	TimeRemaining int              `json:"timeRemaining,omitempty"`
	Stake         int64            `json:"stake,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
