package store

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Recorder receives final standings once a game ends. It is the only
// persistence touchpoint: nothing mid-game is written anywhere.
type Recorder interface {
	RecordResult(ctx context.Context, result GameResult) error
}

type GameResult struct {
	GameID     string
	ContractID uint64
	WinnerID   int64
	Stake      int64
	EndedAt    time.Time
	Players    []PlayerResult
}

type PlayerResult struct {
	PlayerID int64
	Name     string
	Score    int
}

// ContractID maps a game code to the fixed-width numeric id the
// settlement contract is keyed by. FNV-1a keeps the mapping deterministic
// across restarts and instances.
func ContractID(gameID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(gameID))
	return h.Sum64()
}

type gameResultRow struct {
	ID         uint   `gorm:"primaryKey"`
	GameID     string `gorm:"uniqueIndex;size:16"`
	ContractID uint64
	WinnerID   int64
	Stake      int64
	EndedAt    time.Time
	CreatedAt  time.Time
}

func (gameResultRow) TableName() string { return "game_results" }

type playerResultRow struct {
	ID       uint   `gorm:"primaryKey"`
	GameID   string `gorm:"index;size:16"`
	PlayerID int64
	Name     string `gorm:"size:64"`
	Score    int
}

func (playerResultRow) TableName() string { return "player_results" }

// Postgres records results through gorm.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&gameResultRow{}, &playerResultRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) RecordResult(ctx context.Context, result GameResult) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := gameResultRow{
			GameID:     result.GameID,
			ContractID: result.ContractID,
			WinnerID:   result.WinnerID,
			Stake:      result.Stake,
			EndedAt:    result.EndedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for _, pr := range result.Players {
			prRow := playerResultRow{
				GameID:   result.GameID,
				PlayerID: pr.PlayerID,
				Name:     pr.Name,
				Score:    pr.Score,
			}
			if err := tx.Create(&prRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Noop satisfies Recorder when no database is configured (local dev).
type Noop struct{}

func (Noop) RecordResult(context.Context, GameResult) error { return nil }
