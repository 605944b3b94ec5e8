package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		role TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		surname TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS cars (
		id BIGSERIAL PRIMARY KEY,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		year INT NOT NULL,
		price BIGINT NOT NULL CHECK (price >= 0),
		state TEXT NOT NULL,
		version BIGINT NOT NULL DEFAULT 1
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		kind TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL,
		customer_id BIGINT NOT NULL REFERENCES users(id),
		car_id BIGINT NOT NULL REFERENCES cars(id)
	);`,
	`CREATE INDEX IF NOT EXISTS orders_customer_idx ON orders(customer_id);`,
	`CREATE INDEX IF NOT EXISTS orders_car_idx ON orders(car_id);`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		action TEXT NOT NULL,
		info TEXT NOT NULL DEFAULT '',
		at TIMESTAMPTZ NOT NULL
	);`,
}

// Migrate bootstraps the schema. Statements are idempotent, so running it on
// every start is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
