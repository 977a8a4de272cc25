package catalog

import "context"

// FlightReader retrieves flight legs.
type FlightReader interface {
	// FindFlights returns the legs selected by the query in the order the
	// query documents. Returns ErrInvalidQuery for malformed queries.
	FindFlights(ctx context.Context, q FlightQuery) ([]FlightLeg, error)
}

// HotelReader retrieves hotel options.
type HotelReader interface {
	// FindHotels returns the hotels selected by the query in q.Order.
	FindHotels(ctx context.Context, q HotelQuery) ([]HotelOption, error)
}

// View is a read view pinned to a single catalog generation.
type View interface {
	FlightReader
	HotelReader

	// Generation returns the catalog generation the view reads from.
	Generation() int64
}

// ViewFunc runs reads against a consistent view. The context passed in
// governs the reads and must be used instead of the caller's context.
type ViewFunc func(ctx context.Context, v View) error

// Catalog is the read side consumed by the planner.
type Catalog interface {
	// View runs fn against a view that does not observe a concurrent
	// regeneration. Both reads of a planning request run inside one view.
	View(ctx context.Context, fn ViewFunc) error

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}

// Writer is the maintenance side used by regeneration.
type Writer interface {
	// Replace swaps the selected collections atomically and returns the new
	// generation. It is exclusive with respect to views.
	Replace(ctx context.Context, r Replacement) (int64, error)
}

// Repository combines the read and write sides of a catalog store.
type Repository interface {
	Catalog
	Writer

	// Snapshot returns every flight and hotel of the current generation.
	Snapshot(ctx context.Context) (*Snapshot, error)
}
