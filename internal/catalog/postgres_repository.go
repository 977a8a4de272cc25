package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	flightColumns = `id, origin, destination, stops, price, departure_time, arrival_time, duration_minutes, score`
	hotelColumns  = `id, city_code, name, address, stars, rating, amenities, price_per_night, score`
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// View runs fn inside a REPEATABLE READ, READ ONLY transaction so that every
// read sees the same catalog generation.
func (r *PostgresRepository) View(ctx context.Context, fn ViewFunc) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin catalog view: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	generation, err := currentGeneration(ctx, tx)
	if err != nil {
		return err
	}

	if err := fn(ctx, &postgresView{tx: tx, generation: generation}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Ping checks database connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Replace deletes and reinserts the selected collections in one transaction.
// The EXCLUSIVE table lock serializes concurrent regenerations while still
// letting open views finish on their snapshot.
func (r *PostgresRepository) Replace(ctx context.Context, rep Replacement) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin catalog replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `LOCK TABLE flights, hotels, catalog_state IN EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("lock catalog: %w", err)
	}

	if rep.ReplaceFlights {
		if err := replaceFlights(ctx, tx, rep.Flights); err != nil {
			return 0, err
		}
	}
	if rep.ReplaceHotels {
		if err := replaceHotels(ctx, tx, rep.Hotels); err != nil {
			return 0, err
		}
	}

	var generation int64
	err = tx.QueryRow(ctx, `
		UPDATE catalog_state
		SET generation = generation + 1, updated_at = NOW()
		WHERE id = 1
		RETURNING generation
	`).Scan(&generation)
	if err != nil {
		return 0, fmt.Errorf("bump catalog generation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit catalog replace: %w", err)
	}
	return generation, nil
}

// Snapshot returns every flight and hotel of the current generation.
func (r *PostgresRepository) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := r.View(ctx, func(ctx context.Context, v View) error {
		pv, ok := v.(*postgresView)
		if !ok {
			return fmt.Errorf("unexpected view type %T", v)
		}
		snap.Generation = pv.generation

		flights, err := pv.queryFlights(ctx,
			`SELECT `+flightColumns+` FROM flights ORDER BY origin, destination, price, id`)
		if err != nil {
			return err
		}
		hotels, err := pv.queryHotels(ctx,
			`SELECT `+hotelColumns+` FROM hotels ORDER BY city_code, name, id`)
		if err != nil {
			return err
		}
		snap.Flights = flights
		snap.Hotels = hotels
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func currentGeneration(ctx context.Context, tx pgx.Tx) (int64, error) {
	var generation int64
	err := tx.QueryRow(ctx, `SELECT generation FROM catalog_state WHERE id = 1`).Scan(&generation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read catalog generation: %w", err)
	}
	return generation, nil
}

func replaceFlights(ctx context.Context, tx pgx.Tx, legs []FlightLeg) error {
	if _, err := tx.Exec(ctx, `DELETE FROM flights`); err != nil {
		return fmt.Errorf("delete flights: %w", err)
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"flights"},
		[]string{"id", "origin", "destination", "stops", "price", "departure_time", "arrival_time", "duration_minutes", "score"},
		pgx.CopyFromSlice(len(legs), func(i int) ([]any, error) {
			l := legs[i]
			return []any{l.ID, l.Origin, l.Destination, l.Stops, l.Price, l.DepartureTime, l.ArrivalTime, l.DurationMinutes, l.Score}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("insert flights: %w", err)
	}
	return nil
}

func replaceHotels(ctx context.Context, tx pgx.Tx, hotels []HotelOption) error {
	if _, err := tx.Exec(ctx, `DELETE FROM hotels`); err != nil {
		return fmt.Errorf("delete hotels: %w", err)
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"hotels"},
		[]string{"id", "city_code", "name", "address", "stars", "rating", "amenities", "price_per_night", "score"},
		pgx.CopyFromSlice(len(hotels), func(i int) ([]any, error) {
			h := hotels[i]
			return []any{h.ID, h.CityCode, h.Name, h.Address, h.Stars, h.Rating, h.Amenities, h.PricePerNight, h.Score}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("insert hotels: %w", err)
	}
	return nil
}

// postgresView reads inside the transaction opened by View.
type postgresView struct {
	tx         pgx.Tx
	generation int64
}

func (v *postgresView) Generation() int64 {
	return v.generation
}

func (v *postgresView) FindFlights(ctx context.Context, q FlightQuery) ([]FlightLeg, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if q.Pair != nil {
		return v.queryFlights(ctx, `
			SELECT `+flightColumns+`
			FROM flights
			WHERE (origin = $1 AND destination = $2) OR (origin = $2 AND destination = $1)
			ORDER BY price ASC, id ASC
		`, q.Pair.A, q.Pair.B)
	}

	return v.queryFlights(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE origin = $1 OR destination = $1
		ORDER BY origin ASC, price ASC, id ASC
	`, q.Endpoint)
}

func (v *postgresView) FindHotels(ctx context.Context, q HotelQuery) ([]HotelOption, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	orderBy := `rating DESC, stars DESC, price_per_night ASC, id ASC`
	if q.Order == OrderScore {
		orderBy = `score DESC NULLS LAST, id ASC`
	}

	return v.queryHotels(ctx, `
		SELECT `+hotelColumns+`
		FROM hotels
		WHERE city_code = ANY($1) AND price_per_night <= $2
		ORDER BY `+orderBy, q.Cities, q.MaxPricePerNight)
}

func (v *postgresView) queryFlights(ctx context.Context, query string, args ...any) ([]FlightLeg, error) {
	rows, err := v.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer rows.Close()

	legs := make([]FlightLeg, 0)
	for rows.Next() {
		var l FlightLeg
		err := rows.Scan(
			&l.ID,
			&l.Origin,
			&l.Destination,
			&l.Stops,
			&l.Price,
			&l.DepartureTime,
			&l.ArrivalTime,
			&l.DurationMinutes,
			&l.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		legs = append(legs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flights: %w", err)
	}
	return legs, nil
}

func (v *postgresView) queryHotels(ctx context.Context, query string, args ...any) ([]HotelOption, error) {
	rows, err := v.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hotels: %w", err)
	}
	defer rows.Close()

	hotels := make([]HotelOption, 0)
	for rows.Next() {
		var h HotelOption
		err := rows.Scan(
			&h.ID,
			&h.CityCode,
			&h.Name,
			&h.Address,
			&h.Stars,
			&h.Rating,
			&h.Amenities,
			&h.PricePerNight,
			&h.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		hotels = append(hotels, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hotels: %w", err)
	}
	return hotels, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
