package room

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/engine"
	"github.com/wordrush/wordrush-backend/internal/store"
	"github.com/wordrush/wordrush-backend/internal/types"
)

type Msg interface{ isRoomMsg() }

// Attach registers a connection's outbox before the client has identified
// a player. The room replies immediately with a full state snapshot.
type Attach struct {
	ClientID string
	Outbox   chan types.Envelope
}

func (Attach) isRoomMsg() {}

type Detach struct{ ClientID string }

func (Detach) isRoomMsg() {}

// Intent carries one decoded client command into the room's single
// worker. FIFO draining of the inbox is the concurrency primitive: no
// two operations on the same game ever run at once.
type Intent struct {
	ClientID string
	Cmd      engine.Command
}

func (Intent) isRoomMsg() {}

type tick struct{}

func (tick) isRoomMsg() {}

type idleCheck struct{}

func (idleCheck) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// GetState is a test hook mirroring the worker's view without races.
type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type View struct {
	Seq        int64
	NumClients int
	Status     engine.Status
	Players    []engine.Player
}

type Options struct {
	GameDuration time.Duration
	TickInterval time.Duration
	GracePeriod  time.Duration
	IdleTimeout  time.Duration
	Rules        engine.Rules
	Seed         int64
}

type Room struct {
	id      string
	inbox   chan Msg
	state   *engine.State
	seq     int64
	clients map[string]chan types.Envelope
	opts    Options

	deadline time.Time
	tickStop context.CancelFunc
	ended    bool

	log      *zap.Logger
	recorder store.Recorder
	onClose  func(id string)
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewRoom(parent context.Context, id string, stake int64, dict engine.WordChecker, opts Options, log *zap.Logger, recorder store.Recorder, onClose func(id string)) *Room {
	ctx, cancel := context.WithCancel(parent)
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 5 * time.Minute
	}
	r := &Room{
		id:       id,
		inbox:    make(chan Msg, 64),
		state:    engine.NewState(id, stake, dict, opts.Rules, opts.Seed),
		clients:  make(map[string]chan types.Envelope),
		opts:     opts,
		log:      log.With(zap.String("game", id)),
		recorder: recorder,
		onClose:  onClose,
		ctx:      ctx,
		cancel:   cancel,
	}
	r.scheduleIdleCheck()
	go r.loop()
	return r
}

// Inbox exposes the message channel to the ws layer and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			if stop := r.handle(m); stop {
				r.shutdown()
				return
			}
		}
	}
}

// handle processes one message. A panic is contained here: it aborts the
// offending message but leaves the room (and every other room) running.
func (r *Room) handle(m Msg) (stop bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("room worker recovered", zap.Any("panic", rec))
		}
	}()

	switch msg := m.(type) {
	case Attach:
		r.clients[msg.ClientID] = msg.Outbox
		r.send(msg.ClientID, types.EvtStateSnapshot, r.snapshotPayload())

	case Detach:
		// Closing here releases the connection's writer goroutine. The
		// seat and score persist; a reconnect resyncs via the snapshot
		// sent on Attach.
		if ch, ok := r.clients[msg.ClientID]; ok {
			close(ch)
			delete(r.clients, msg.ClientID)
		}

	case Intent:
		r.handleIntent(msg)

	case tick:
		r.handleTick()

	case idleCheck:
		return r.handleIdle()

	case GetState:
		msg.Reply <- r.view()

	case Shutdown:
		return true
	}
	return false
}

func (r *Room) handleIntent(msg Intent) {
	events, err := engine.Apply(r.state, msg.Cmd)
	if err != nil {
		r.rejectTo(msg.ClientID, err)
		return
	}
	for _, ev := range events {
		r.dispatch(ev)
	}
}

// dispatch turns one engine event into wire envelopes. Most events are
// broadcast; game_full on a failed join goes only to the requester via
// the error path, so everything reaching here fans out to the room.
func (r *Room) dispatch(ev engine.Event) {
	switch ev.Type {
	case engine.EvtPlayerJoined:
		p, _ := r.findPlayer(ev.PlayerID)
		r.broadcast(types.EvtPlayerJoined, types.PlayerJoinedPayload{Player: p})

	case engine.EvtGameFull:
		r.broadcast(types.EvtGameFull, nil)

	case engine.EvtGameUpdate:
		r.broadcast(types.EvtGameUpdate, types.GameUpdatePayload{
			Players: r.state.Players,
			Status:  r.state.Status,
		})

	case engine.EvtGameLoading:
		r.broadcast(types.EvtGameLoading, types.GameLoadingPayload{
			Title: "Game starting",
			Body:  "Generating board and dealing letters",
		})

	case engine.EvtGameStarted:
		now := time.Now()
		r.deadline = now.Add(r.opts.GameDuration)
		r.startTicker()
		r.broadcast(types.EvtGameStarted, types.GameStartedPayload{
			Board:         r.state.Board,
			TimeRemaining: int(r.opts.GameDuration.Seconds()),
			Players:       r.state.Players,
			StartTime:     now,
			EndTime:       r.deadline,
		})

	case engine.EvtLetterPlaced:
		r.broadcast(types.EvtLetterPlaced, types.LetterPlacedPayload{
			PlayerID: ev.PlayerID,
			Position: ev.Pos,
			Letter:   ev.Letter,
		})

	case engine.EvtLetterRemoved:
		r.broadcast(types.EvtLetterRemoved, types.LetterRemovedPayload{
			PlayerID: ev.PlayerID,
			Position: ev.Pos,
		})

	case engine.EvtWordSubmitted:
		p, _ := r.findPlayer(ev.PlayerID)
		r.broadcast(types.EvtWordSubmitted, types.WordSubmittedPayload{
			Player: p,
			Words:  ev.Words,
			Score:  ev.Score,
			Path:   ev.Path,
			Board:  r.state.Board,
		})

	case engine.EvtWordNotValid:
		r.broadcast(types.EvtWordNotValid, r.rejectedPayload(ev))

	case engine.EvtAdjacentWordsNotValid:
		r.broadcast(types.EvtAdjacentWordsNotValid, r.rejectedPayload(ev))

	case engine.EvtScoreUpdate:
		r.broadcast(types.EvtScoreUpdate, types.ScoreUpdatePayload{
			PlayerID:   ev.PlayerID,
			NewScore:   ev.Score,
			TotalScore: ev.Total,
		})

	case engine.EvtRackRefreshed:
		r.broadcast(types.EvtRefreshedLetters, types.RefreshedLettersPayload{
			Players:  r.state.Players,
			PlayerID: ev.PlayerID,
		})

	case engine.EvtGameEnded:
		r.finish()
	}
}

func (r *Room) rejectedPayload(ev engine.Event) types.WordRejectedPayload {
	return types.WordRejectedPayload{
		PlayerID: ev.PlayerID,
		Word:     ev.Word,
		Words:    ev.Words,
		Path:     ev.Path,
		Cleared:  ev.Cleared,
		Board:    r.state.Board,
	}
}

// startTicker runs the countdown outside the worker but feeds ticks back
// through the inbox, so timer-driven mutation stays serialized with
// everything else.
func (r *Room) startTicker() {
	ctx, cancel := context.WithCancel(r.ctx)
	r.tickStop = cancel
	ticker := time.NewTicker(r.opts.TickInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case r.inbox <- tick{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

func (r *Room) scheduleIdleCheck() {
	time.AfterFunc(r.opts.IdleTimeout, func() {
		select {
		case r.inbox <- idleCheck{}:
		case <-r.ctx.Done():
		}
	})
}

// handleIdle reaps abandoned pre-game rooms: a code that was created but
// has no connected clients would otherwise live in the hub forever, since
// game-end teardown only runs after a game actually starts. Once the game
// is live the countdown and grace period own teardown instead.
func (r *Room) handleIdle() (stop bool) {
	if r.state.Status == engine.StatusLive || r.ended {
		return false
	}
	if len(r.clients) == 0 {
		r.log.Info("reaping idle room")
		return true
	}
	r.scheduleIdleCheck()
	return false
}

func (r *Room) handleTick() {
	if r.ended {
		return
	}
	remaining := int(time.Until(r.deadline).Seconds())
	if remaining > 0 {
		r.broadcast(types.EvtTimerTick, types.TimerTickPayload{TimeRemaining: remaining})
		return
	}
	events, err := engine.Apply(r.state, engine.Command{Type: engine.CmdEndGame})
	if err != nil {
		// Already ended via an explicit command; the ticker just lost
		// the race.
		return
	}
	for _, ev := range events {
		r.dispatch(ev)
	}
}

// finish runs exactly once: broadcast the final standings, hand the
// result to the recorder, and schedule teardown after the grace period.
func (r *Room) finish() {
	if r.ended {
		return
	}
	r.ended = true
	if r.tickStop != nil {
		r.tickStop()
	}
	r.broadcast(types.EvtGameEnded, types.GameEndedPayload{Players: r.state.Players})
	r.record()

	grace := r.opts.GracePeriod
	if grace <= 0 {
		grace = 30 * time.Second
	}
	time.AfterFunc(grace, func() {
		select {
		case r.inbox <- Shutdown{}:
		case <-r.ctx.Done():
		}
	})
}

func (r *Room) record() {
	result := store.GameResult{
		GameID:     r.id,
		ContractID: store.ContractID(r.id),
		Stake:      r.state.Stake,
		EndedAt:    time.Now(),
	}
	best := -1
	for _, p := range r.state.Players {
		result.Players = append(result.Players, store.PlayerResult{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    p.Score,
		})
		if p.Score > best {
			best = p.Score
			result.WinnerID = p.ID
		}
	}
	// Recording is a session-boundary call; never let it stall the worker.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.recorder.RecordResult(ctx, result); err != nil {
			r.log.Error("record game result", zap.Error(err))
		}
	}()
}

func (r *Room) rejectTo(clientID string, err error) {
	code := "bad_request"
	switch {
	case errors.Is(err, engine.ErrCellCommitted),
		errors.Is(err, engine.ErrCellOwned),
		errors.Is(err, engine.ErrNotOwner):
		code = "cell_conflict"
	case errors.Is(err, engine.ErrWrongState),
		errors.Is(err, engine.ErrNotEnoughPlayers),
		errors.Is(err, engine.ErrNotCreator):
		code = "wrong_state"
	case errors.Is(err, engine.ErrGameFull):
		// The contract names a dedicated event for this one.
		r.send(clientID, types.EvtGameFull, nil)
		return
	}
	r.send(clientID, types.EvtError, types.ErrorPayload{Code: code, Message: err.Error()})
}

func (r *Room) snapshotPayload() types.StateSnapshotPayload {
	snap := types.StateSnapshotPayload{
		GameID:  r.id,
		Status:  r.state.Status,
		Players: r.state.Players,
		Stake:   r.state.Stake,
	}
	if r.state.Status == engine.StatusLive || r.state.Status == engine.StatusEnded {
		snap.Board = r.state.Board
	}
	if r.state.Status == engine.StatusLive {
		snap.TimeRemaining = int(time.Until(r.deadline).Seconds())
	}
	return snap
}

func (r *Room) view() View {
	v := View{
		Seq:        r.seq,
		NumClients: len(r.clients),
		Status:     r.state.Status,
	}
	for _, p := range r.state.Players {
		v.Players = append(v.Players, *p)
	}
	return v
}

// broadcast fans an envelope out to every connected client. Slow clients
// are dropped rather than allowed to block the worker; they resync on
// reconnect.
func (r *Room) broadcast(eventType string, payload any) {
	r.seq++
	env := types.Envelope{Seq: r.seq, Type: eventType, Payload: payload}
	for id, ch := range r.clients {
		select {
		case ch <- env:
		default:
			close(ch)
			delete(r.clients, id)
		}
	}
}

// send delivers to a single client, with its own sequence number so the
// client-side dedup stays uniform. A client too slow to take even a
// targeted envelope is dropped, same as in broadcast: silently losing a
// snapshot would leave it desynced with no signal.
func (r *Room) send(clientID string, eventType string, payload any) {
	out, ok := r.clients[clientID]
	if !ok {
		return
	}
	r.seq++
	select {
	case out <- types.Envelope{Seq: r.seq, Type: eventType, Payload: payload}:
	default:
		close(out)
		delete(r.clients, clientID)
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	if r.onClose != nil {
		r.onClose(r.id)
	}
	r.cancel()
}

func (r *Room) findPlayer(id int64) (*engine.Player, bool) {
	for _, p := range r.state.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
