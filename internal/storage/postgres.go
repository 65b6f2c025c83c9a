package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

func InitPostgres(dsn string) error {
	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	if err := DB.Ping(); err != nil {
		return err
	}
	return ensureSchema()
}

func ensureSchema() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS settlements (
			game_id    BIGINT PRIMARY KEY,
			winner     TEXT NOT NULL,
			pot        BIGINT NOT NULL,
			settled_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

// SettlementStore 结算审计表的写入端，实现 manager.ResultStore
type SettlementStore struct {
	db *sql.DB
}

func NewSettlementStore(db *sql.DB) *SettlementStore {
	return &SettlementStore{db: db}
}

func (s *SettlementStore) SaveSettlement(ctx context.Context, gameID uint64, winner string, pot int64, settledAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (game_id, winner, pot, settled_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (game_id) DO NOTHING`,
		int64(gameID), winner, pot, settledAt)
	return err
}
