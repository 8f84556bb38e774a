package hub

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/engine"
	"github.com/wordrush/wordrush-backend/internal/room"
	"github.com/wordrush/wordrush-backend/internal/store"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Code  string
	Stake int64
	Reply chan *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type EnsureRoom struct {
	Code  string
	Stake int64 // only used if creation happens
	Reply chan *room.Room
}

type RemoveRoom struct {
	Code string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (EnsureRoom) isHubMsg()  {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Deps are the shared collaborators every room gets. The dictionary is
// the only cross-room shared resource; it is read-only.
type Deps struct {
	Dict     engine.WordChecker
	Recorder store.Recorder
	Log      *zap.Logger
	Opts     room.Options
}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, deps Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if r := h.rooms[msg.Code]; r != nil {
					msg.Reply <- r
					break
				}
				msg.Reply <- h.spawn(msg.Code, msg.Stake)

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // May be nil

			case EnsureRoom:
				if r := h.rooms[msg.Code]; r != nil {
					msg.Reply <- r
					break
				}
				msg.Reply <- h.spawn(msg.Code, msg.Stake)

			case RemoveRoom:
				delete(h.rooms, msg.Code)

			case ShutdownHub:
				for _, r := range h.rooms {
					r.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

func (h *Hub) spawn(code string, stake int64) *room.Room {
	opts := h.deps.Opts
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}
	onClose := func(id string) {
		select {
		case h.inbox <- RemoveRoom{Code: id}:
		case <-h.ctx.Done():
		}
	}
	r := room.NewRoom(h.ctx, code, stake, h.deps.Dict, opts, h.deps.Log, h.deps.Recorder, onClose)
	h.rooms[code] = r
	return r
}
