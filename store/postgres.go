package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createBestTimes = `
CREATE TABLE IF NOT EXISTS best_times (
	preset      TEXT PRIMARY KEY,
	seconds     INTEGER NOT NULL CHECK (seconds >= 0),
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// The WHERE clause turns the upsert into a no-op unless the new time is
// strictly faster; RowsAffected tells the two apart.
const upsertBestTime = `
INSERT INTO best_times (preset, seconds) VALUES ($1, $2)
ON CONFLICT (preset) DO UPDATE
	SET seconds = EXCLUDED.seconds, recorded_at = now()
	WHERE best_times.seconds > EXCLUDED.seconds`

// Postgres keeps best times in the best_times table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and creates the table if needed.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, createBestTimes); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: migrate: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Best(ctx context.Context, preset string) (int, bool, error) {
	var seconds int
	err := p.pool.QueryRow(ctx, `SELECT seconds FROM best_times WHERE preset = $1`, preset).Scan(&seconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("postgres store: select %s: %w", preset, err)
	}
	return seconds, true, nil
}

func (p *Postgres) Record(ctx context.Context, preset string, seconds int) (bool, error) {
	if err := validate(seconds); err != nil {
		return false, err
	}

	tag, err := p.pool.Exec(ctx, upsertBestTime, preset, seconds)
	if err != nil {
		return false, fmt.Errorf("postgres store: upsert %s: %w", preset, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
