// Package database persists served quotes so the order desk can follow
// up on estimates by mail. The store is optional: quoting never depends
// on it, and a nil *Store is a valid no-op.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

type Config struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
	MaxConnIdle time.Duration
}

// QuoteRecord is one row in the quote log.
type QuoteRecord struct {
	ID        uuid.UUID
	URL       string
	Zone      string
	Outcome   string
	Title     string
	PriceDKK  int
	TotalDKK  int
	CreatedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS quote_log (
	id UUID PRIMARY KEY,
	url TEXT NOT NULL,
	zone TEXT NOT NULL,
	outcome TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	price_dkk INTEGER NOT NULL DEFAULT 0,
	total_dkk INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_quote_log_created_at ON quote_log (created_at);
`

// New connects a quote log store and ensures its schema exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLife > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLife
	}
	if cfg.MaxConnIdle > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdle
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s == nil {
		return
	}
	s.pool.Close()
}

// Record appends one quote to the log. A nil store drops the record.
func (s *Store) Record(ctx context.Context, rec QuoteRecord) error {
	if s == nil {
		return nil
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO quote_log (id, url, zone, outcome, title, price_dkk, total_dkk, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.URL, rec.Zone, rec.Outcome, rec.Title, rec.PriceDKK, rec.TotalDKK, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote record: %w", err)
	}
	return nil
}
