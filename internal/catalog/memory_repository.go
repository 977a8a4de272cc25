package catalog

import (
	"context"
	"slices"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// Views hold the read lock for their whole duration so a regeneration never
// interleaves with the reads of a planning request.
type InMemoryRepository struct {
	mu         sync.RWMutex
	generation int64
	flights    []FlightLeg
	hotels     []HotelOption
}

// NewInMemoryRepository creates an empty in-memory catalog at generation 0.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// View runs fn while holding the read lock.
func (r *InMemoryRepository) View(ctx context.Context, fn ViewFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return fn(ctx, memoryView{repo: r})
}

// Ping always succeeds for the in-memory catalog.
func (r *InMemoryRepository) Ping(_ context.Context) error {
	return nil
}

// Replace swaps the selected collections under the write lock.
func (r *InMemoryRepository) Replace(ctx context.Context, rep Replacement) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if rep.ReplaceFlights {
		r.flights = cloneFlights(rep.Flights)
	}
	if rep.ReplaceHotels {
		r.hotels = cloneHotels(rep.Hotels)
	}
	r.generation++
	return r.generation, nil
}

// Snapshot returns a copy of the current generation.
func (r *InMemoryRepository) Snapshot(_ context.Context) (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &Snapshot{
		Generation: r.generation,
		Flights:    cloneFlights(r.flights),
		Hotels:     cloneHotels(r.hotels),
	}, nil
}

// memoryView reads the repository without locking; the enclosing View holds the lock.
type memoryView struct {
	repo *InMemoryRepository
}

func (v memoryView) Generation() int64 {
	return v.repo.generation
}

func (v memoryView) FindFlights(ctx context.Context, q FlightQuery) ([]FlightLeg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	legs := make([]FlightLeg, 0)
	for _, l := range v.repo.flights {
		if q.Matches(l) {
			legs = append(legs, cloneFlight(l))
		}
	}
	SortFlights(legs, q)
	return legs, nil
}

func (v memoryView) FindHotels(ctx context.Context, q HotelQuery) ([]HotelOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	hotels := make([]HotelOption, 0)
	for _, h := range v.repo.hotels {
		if q.Matches(h) {
			hotels = append(hotels, cloneHotel(h))
		}
	}
	SortHotels(hotels, q.Order)
	return hotels, nil
}

func cloneFlight(l FlightLeg) FlightLeg {
	l.Stops = slices.Clone(l.Stops)
	if l.Score != nil {
		s := *l.Score
		l.Score = &s
	}
	return l
}

func cloneHotel(h HotelOption) HotelOption {
	h.Amenities = slices.Clone(h.Amenities)
	if h.Score != nil {
		s := *h.Score
		h.Score = &s
	}
	return h
}

func cloneFlights(in []FlightLeg) []FlightLeg {
	out := make([]FlightLeg, 0, len(in))
	for _, l := range in {
		out = append(out, cloneFlight(l))
	}
	return out
}

func cloneHotels(in []HotelOption) []HotelOption {
	out := make([]HotelOption, 0, len(in))
	for _, h := range in {
		out = append(out, cloneHotel(h))
	}
	return out
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
