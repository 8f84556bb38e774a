package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/engine"
	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/room"
	"github.com/wordrush/wordrush-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 60 * time.Second
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := randID(8)
		clog := log.With(zap.String("game", code), zap.String("client", clientID))
		out := make(chan types.Envelope, 32)

		rm.Inbox() <- room.Attach{ClientID: clientID, Outbox: out}
		var playerID int64
		defer func() {
			rm.Inbox() <- room.Detach{ClientID: clientID}
			if playerID != 0 {
				rm.Inbox() <- room.Intent{ClientID: clientID, Cmd: engine.Command{
					Type:     engine.CmdLeave,
					PlayerID: playerID,
				}}
			}
		}()

		// Writer goroutine: drains the room's outbox for this connection.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for env := range out {
				payload, err := json.Marshal(env)
				if err != nil {
					clog.Error("marshal envelope", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop.
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","payload":{"code":"bad_request","message":"bad json"}}`))
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","payload":{"code":"bad_request","message":"unknown type"}}`))
				continue
			}
			if cmd.Type == engine.CmdJoin {
				playerID = cmd.PlayerID
			}

			rm.Inbox() <- room.Intent{ClientID: clientID, Cmd: cmd}
		}
	}
}

// toCommand maps a wire intent onto an engine command.
func toCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case types.IntentConnect:
		if m.Player == nil {
			return engine.Command{}, false
		}
		return engine.Command{
			Type:     engine.CmdJoin,
			PlayerID: m.Player.ID,
			Name:     m.Player.Name,
			Avatar:   m.Player.Avatar,
			Wallet:   m.Player.WalletAddress,
		}, true
	case types.IntentReady:
		return engine.Command{Type: engine.CmdReady, PlayerID: playerIDOf(m)}, true
	case types.IntentStake:
		return engine.Command{
			Type:        engine.CmdStakeConfirmed,
			PlayerID:    playerIDOf(m),
			PaymentHash: m.PaymentHash,
		}, true
	case types.IntentStart:
		return engine.Command{Type: engine.CmdStartGame, PlayerID: playerIDOf(m)}, true
	case types.IntentPlace:
		return engine.Command{
			Type:     engine.CmdPlaceLetter,
			PlayerID: playerIDOf(m),
			Letter:   m.Letter,
			Pos:      engine.Position{X: m.X, Y: m.Y},
		}, true
	case types.IntentRemove:
		return engine.Command{
			Type:     engine.CmdRemoveLetter,
			PlayerID: playerIDOf(m),
			Pos:      engine.Position{X: m.X, Y: m.Y},
		}, true
	case types.IntentSubmit:
		return engine.Command{
			Type:     engine.CmdSubmitWord,
			PlayerID: playerIDOf(m),
			Word:     m.Word,
			Path:     m.Path,
			IsNew:    m.IsNew,
		}, true
	case types.IntentRefresh:
		return engine.Command{Type: engine.CmdRefreshRack, PlayerID: playerIDOf(m)}, true
	case types.IntentLeave:
		return engine.Command{Type: engine.CmdLeave, PlayerID: playerIDOf(m)}, true
	default:
		return engine.Command{}, false
	}
}

// playerIDOf accepts both the flat playerId field and the nested player
// object the lobby intents use.
func playerIDOf(m types.ClientMessage) int64 {
	if m.PlayerID != 0 {
		return m.PlayerID
	}
	if m.Player != nil {
		return m.Player.ID
	}
	return 0
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
