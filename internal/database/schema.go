package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations create the catalog tables. Every statement is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS flights (
		id               TEXT PRIMARY KEY,
		origin           TEXT NOT NULL,
		destination      TEXT NOT NULL,
		stops            TEXT[] NOT NULL DEFAULT '{}',
		price            BIGINT NOT NULL CHECK (price > 0),
		departure_time   TEXT NOT NULL,
		arrival_time     TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		score            DOUBLE PRECISION,
		CHECK (origin <> destination)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_flights_route_price
		ON flights(origin, destination, price)`,

	`CREATE INDEX IF NOT EXISTS idx_flights_destination
		ON flights(destination)`,

	`CREATE TABLE IF NOT EXISTS hotels (
		id              TEXT PRIMARY KEY,
		city_code       TEXT NOT NULL,
		name            TEXT NOT NULL,
		address         TEXT NOT NULL,
		stars           INTEGER NOT NULL CHECK (stars BETWEEN 1 AND 5),
		rating          INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 10),
		amenities       TEXT[] NOT NULL DEFAULT '{}',
		price_per_night BIGINT NOT NULL CHECK (price_per_night > 0),
		score           DOUBLE PRECISION
	)`,

	`CREATE INDEX IF NOT EXISTS idx_hotels_city_price
		ON hotels(city_code, price_per_night)`,

	`CREATE TABLE IF NOT EXISTS catalog_state (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		generation BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`INSERT INTO catalog_state (id, generation) VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING`,
}

// Migrate creates the catalog schema if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
