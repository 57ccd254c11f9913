// Package repository persists finished-match records in PostgreSQL. The
// server runs without it when no DSN is configured.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slayloop/party-server-go/internal/config"
	"go.uber.org/zap"
)

// DB wraps the pgx connection pool.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewDB connects to the configured database and verifies the connection.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// MatchResult records one finished game.
type MatchResult struct {
	RoomID     string
	WinnerID   string
	Turns      int
	Duration   time.Duration
	FinishedAt time.Time
}

// ResultRepository stores match results.
type ResultRepository struct {
	db *DB
}

// NewResultRepository creates a result repository over the given DB.
func NewResultRepository(db *DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// EnsureSchema creates the results table when it does not exist yet.
func (r *ResultRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_results (
			id          BIGSERIAL PRIMARY KEY,
			room_id     TEXT NOT NULL,
			winner_id   TEXT NOT NULL,
			turns       INT NOT NULL,
			duration_ms BIGINT NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating match_results table: %w", err)
	}
	return nil
}

// SaveMatchResult inserts one finished-match record.
func (r *ResultRepository) SaveMatchResult(ctx context.Context, result MatchResult) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO match_results (room_id, winner_id, turns, duration_ms, finished_at)
		VALUES ($1, $2, $3, $4, $5)`,
		result.RoomID,
		result.WinnerID,
		result.Turns,
		result.Duration.Milliseconds(),
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting match result: %w", err)
	}

	r.db.logger.Debug("match result saved",
		zap.String("room_id", result.RoomID),
		zap.String("winner_id", result.WinnerID),
		zap.Int("turns", result.Turns),
	)
	return nil
}
