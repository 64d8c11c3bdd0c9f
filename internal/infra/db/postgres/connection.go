package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPgxPool builds a connection pool from the configured database URL.
func NewPgxPool(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// Schema is the core-owned audit table. The log is append-mostly: rows
// are inserted at issuance and updated once at redemption.
const Schema = `
CREATE TABLE IF NOT EXISTS birthday_coupon_log (
    id                     uuid PRIMARY KEY,
    coupon_id              text NOT NULL,
    coupon_code            text NOT NULL UNIQUE,
    user_id                text NOT NULL,
    user_birthday          char(5) NOT NULL,
    coupon_generation_date timestamptz NOT NULL,
    coupon_redeemed_date   timestamptz,
    order_id               text
);
CREATE INDEX IF NOT EXISTS birthday_coupon_log_coupon_id_idx ON birthday_coupon_log (coupon_id);
CREATE INDEX IF NOT EXISTS birthday_coupon_log_user_id_idx ON birthday_coupon_log (user_id);
`

// EnsureSchema applies the audit table schema, used by cmd/seed and
// integration tests.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
