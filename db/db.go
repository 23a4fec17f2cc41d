package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
)

// PoolConfig controls the database/sql connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var DefaultPool = PoolConfig{
	MaxOpenConns:    25,
	MaxIdleConns:    25,
	ConnMaxLifetime: 5 * time.Minute,
}

func Connect(dsn string, pool PoolConfig, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database within %v: %w (close failed: %v)", timeout, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return db, nil
}

// EnsureSchema creates the tables the engine's orchestration layer reads and
// writes. Every statement is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d failed: %w", i+1, err)
		}
	}
	return nil
}

var schema = []string{
	`DO $$ BEGIN
		CREATE TYPE tournament_status AS ENUM ('registration', 'active', 'completed', 'canceled');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		CREATE TYPE match_status AS ENUM ('scheduled', 'in_progress', 'completed', 'bye');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS tournaments (
		id            SERIAL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		organizer_id  INTEGER NOT NULL,
		format        VARCHAR(32) NOT NULL CHECK (format IN ('swiss', 'round_robin')),
		settings_json TEXT,
		status        tournament_status NOT NULL DEFAULT 'registration',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id            SERIAL PRIMARY KEY,
		tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		name          VARCHAR(255) NOT NULL,
		seed          INTEGER,
		status        VARCHAR(32) NOT NULL DEFAULT 'participant'
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id            SERIAL PRIMARY KEY,
		tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		round         INTEGER NOT NULL CHECK (round >= 1),
		player1_id    INTEGER REFERENCES participants(id),
		player2_id    INTEGER REFERENCES participants(id),
		winner_id     INTEGER REFERENCES participants(id),
		status        match_status NOT NULL DEFAULT 'scheduled',
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS matches_round_pair_uniq
		ON matches (tournament_id, round, LEAST(player1_id, player2_id), GREATEST(player1_id, player2_id))`,
	`CREATE TABLE IF NOT EXISTS placements (
		tournament_id  INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		participant_id INTEGER NOT NULL REFERENCES participants(id),
		rank           INTEGER NOT NULL,
		wins           INTEGER NOT NULL DEFAULT 0,
		losses         INTEGER NOT NULL DEFAULT 0,
		points         INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (tournament_id, participant_id)
	)`,
}
