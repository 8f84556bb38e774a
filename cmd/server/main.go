package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/config"
	"github.com/wordrush/wordrush-backend/internal/dictionary"
	"github.com/wordrush/wordrush-backend/internal/engine"
	"github.com/wordrush/wordrush-backend/internal/httpapi"
	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/room"
	"github.com/wordrush/wordrush-backend/internal/store"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	dict, err := dictionary.Load(cfg.DictionaryPath)
	if err != nil {
		// No dictionary, no games.
		log.Fatal("load dictionary", zap.Error(err))
	}
	log.Info("dictionary loaded", zap.Int("words", dict.Size()))

	var recorder store.Recorder = store.Noop{}
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("connect postgres", zap.Error(err))
		}
		recorder = pg
	}

	h := hub.NewHub(context.Background(), hub.Deps{
		Dict:     dict,
		Recorder: recorder,
		Log:      log,
		Opts: room.Options{
			GameDuration: cfg.GameDuration,
			TickInterval: cfg.TickInterval,
			GracePeriod:  cfg.GracePeriod,
			IdleTimeout:  cfg.IdleTimeout,
			Rules:        engine.DefaultRules(),
		},
	})

	handler := httpapi.SetupRoutes(h, log)

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}
