package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"

	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/room"
	"github.com/wordrush/wordrush-backend/internal/store"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createGameRequest struct {
	Stake int64 `json:"stake"`
}

type createGameResponse struct {
	Code       string `json:"code"`
	ContractID uint64 `json:"contractId"`
}

// CreateGame allocates a fresh room behind an unused 6-char code.
func CreateGame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // empty body means no stake
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *room.Room, 1)
			h.Inbox() <- hub.GetRoom{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Info("collision on game code, regenerating", zap.String("code", c))
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Code: code, Stake: req.Stake, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createGameResponse{
			Code:       code,
			ContractID: store.ContractID(code),
		})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
