package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/travelwits/travelwits/internal/catalog"
)

func leg(id, from, to string, price int64) catalog.FlightLeg {
	return catalog.FlightLeg{
		ID:              id,
		Origin:          from,
		Destination:     to,
		Stops:           []string{},
		Price:           price,
		DepartureTime:   "08:00",
		ArrivalTime:     "12:00",
		DurationMinutes: 240,
	}
}

func hotel(id, city string, price int64, rating, stars int) catalog.HotelOption {
	return catalog.HotelOption{
		ID:            id,
		CityCode:      city,
		Name:          "Hotel " + id,
		Stars:         stars,
		Rating:        rating,
		Amenities:     []string{"Bar"},
		PricePerNight: price,
	}
}

func seededRepo(t *testing.T) *catalog.InMemoryRepository {
	t.Helper()
	repo := catalog.NewInMemoryRepository()
	_, err := repo.Replace(context.Background(), catalog.Replacement{
		ReplaceFlights: true,
		Flights: []catalog.FlightLeg{
			leg("f1", "LAX", "JFK", 300),
			leg("f2", "JFK", "LAX", 200),
			leg("f3", "LAX", "LHR", 900),
			leg("f4", "LHR", "LAX", 800),
			leg("f5", "JFK", "LHR", 500),
			leg("f6", "LAX", "JFK", 250),
		},
		ReplaceHotels: true,
		Hotels: []catalog.HotelOption{
			hotel("h1", "JFK", 100, 7, 3),
			hotel("h2", "JFK", 150, 9, 4),
			hotel("h3", "JFK", 90, 9, 4),
			hotel("h4", "LHR", 120, 5, 5),
			hotel("h5", "LAX", 60, 8, 2),
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return repo
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func flightID(l catalog.FlightLeg) string  { return l.ID }
func hotelID(h catalog.HotelOption) string { return h.ID }

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInMemoryRepository_PairQuery(t *testing.T) {
	repo := seededRepo(t)

	err := repo.View(context.Background(), func(ctx context.Context, v catalog.View) error {
		legs, err := v.FindFlights(ctx, catalog.FlightQuery{Pair: &catalog.Pair{A: "LAX", B: "JFK"}})
		if err != nil {
			return err
		}
		got := ids(legs, flightID)
		want := []string{"f2", "f6", "f1"}
		if !equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestInMemoryRepository_EndpointQuery(t *testing.T) {
	repo := seededRepo(t)

	err := repo.View(context.Background(), func(ctx context.Context, v catalog.View) error {
		legs, err := v.FindFlights(ctx, catalog.FlightQuery{Endpoint: "LAX"})
		if err != nil {
			return err
		}
		// Grouped by origin, then price.
		got := ids(legs, flightID)
		want := []string{"f2", "f6", "f1", "f3", "f4"}
		if !equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestInMemoryRepository_HotelQuery(t *testing.T) {
	repo := seededRepo(t)

	tests := []struct {
		name  string
		query catalog.HotelQuery
		want  []string
	}{
		{
			name:  "desirability order within ceiling",
			query: catalog.HotelQuery{Cities: []string{"JFK"}, MaxPricePerNight: 150},
			want:  []string{"h3", "h2", "h1"},
		},
		{
			name:  "ceiling is inclusive",
			query: catalog.HotelQuery{Cities: []string{"JFK"}, MaxPricePerNight: 100},
			want:  []string{"h3", "h1"},
		},
		{
			name:  "multiple cities",
			query: catalog.HotelQuery{Cities: []string{"LHR", "LAX"}, MaxPricePerNight: 500},
			want:  []string{"h5", "h4"},
		},
		{
			name:  "nothing under ceiling",
			query: catalog.HotelQuery{Cities: []string{"JFK"}, MaxPricePerNight: 10},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.View(context.Background(), func(ctx context.Context, v catalog.View) error {
				hotels, err := v.FindHotels(ctx, tt.query)
				if err != nil {
					return err
				}
				if got := ids(hotels, hotelID); !equal(got, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("view: %v", err)
			}
		})
	}
}

func TestInMemoryRepository_HotelScoreOrder(t *testing.T) {
	repo := catalog.NewInMemoryRepository()
	high, low := 9.5, 1.0
	hotels := []catalog.HotelOption{
		hotel("a", "SYD", 100, 5, 5),
		hotel("b", "SYD", 100, 5, 5),
		hotel("c", "SYD", 100, 5, 5),
	}
	hotels[1].Score = &low
	hotels[2].Score = &high
	if _, err := repo.Replace(context.Background(), catalog.Replacement{ReplaceHotels: true, Hotels: hotels}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	err := repo.View(context.Background(), func(ctx context.Context, v catalog.View) error {
		got, err := v.FindHotels(ctx, catalog.HotelQuery{Cities: []string{"SYD"}, MaxPricePerNight: 100, Order: catalog.OrderScore})
		if err != nil {
			return err
		}
		want := []string{"c", "b", "a"}
		if gotIDs := ids(got, hotelID); !equal(gotIDs, want) {
			t.Errorf("expected %v, got %v", want, gotIDs)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestInMemoryRepository_InvalidQueries(t *testing.T) {
	repo := seededRepo(t)

	queries := []catalog.FlightQuery{
		{},
		{Pair: &catalog.Pair{A: "LAX", B: "LAX"}},
		{Pair: &catalog.Pair{A: "LAX"}},
		{Pair: &catalog.Pair{A: "LAX", B: "JFK"}, Endpoint: "LAX"},
	}
	for _, q := range queries {
		err := repo.View(context.Background(), func(ctx context.Context, v catalog.View) error {
			_, err := v.FindFlights(ctx, q)
			return err
		})
		if !errors.Is(err, catalog.ErrInvalidQuery) {
			t.Errorf("query %+v: expected ErrInvalidQuery, got %v", q, err)
		}
	}

	err := repo.View(context.Background(), func(ctx context.Context, v catalog.View) error {
		_, err := v.FindHotels(ctx, catalog.HotelQuery{MaxPricePerNight: 100})
		return err
	})
	if !errors.Is(err, catalog.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery for hotel query without cities, got %v", err)
	}
}

func TestInMemoryRepository_ResultsAreCopies(t *testing.T) {
	repo := seededRepo(t)

	_ = repo.View(context.Background(), func(ctx context.Context, v catalog.View) error {
		hotels, _ := v.FindHotels(ctx, catalog.HotelQuery{Cities: []string{"LAX"}, MaxPricePerNight: 100})
		hotels[0].Amenities[0] = "mutated"
		hotels[0].PricePerNight = 1
		return nil
	})

	snap, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	for _, h := range snap.Hotels {
		if h.ID == "h5" && (h.Amenities[0] != "Bar" || h.PricePerNight != 60) {
			t.Errorf("stored hotel was mutated through a query result: %+v", h)
		}
	}
}

func TestInMemoryRepository_ReplaceSelectedCollections(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	gen, err := repo.Replace(ctx, catalog.Replacement{ReplaceHotels: true, Hotels: nil})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if gen != 2 {
		t.Errorf("expected generation 2, got %d", gen)
	}

	snap, _ := repo.Snapshot(ctx)
	if len(snap.Flights) != 6 {
		t.Errorf("flights should be untouched, got %d", len(snap.Flights))
	}
	if len(snap.Hotels) != 0 {
		t.Errorf("hotels should be cleared, got %d", len(snap.Hotels))
	}
	if snap.Generation != 2 {
		t.Errorf("expected snapshot generation 2, got %d", snap.Generation)
	}
}

func TestInMemoryRepository_ViewSeesSingleGeneration(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup

	var before, after int64
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = repo.View(ctx, func(ctx context.Context, v catalog.View) error {
			before = v.Generation()
			close(started)
			<-release
			legs, _ := v.FindFlights(ctx, catalog.FlightQuery{Pair: &catalog.Pair{A: "LAX", B: "JFK"}})
			if len(legs) != 3 {
				t.Errorf("view observed a concurrent replace: %d legs", len(legs))
			}
			after = v.Generation()
			return nil
		})
	}()

	<-started
	done := make(chan struct{})
	go func() {
		_, _ = repo.Replace(ctx, catalog.Replacement{ReplaceFlights: true})
		close(done)
	}()

	close(release)
	wg.Wait()
	<-done

	if before != after {
		t.Errorf("generation changed inside a view: %d -> %d", before, after)
	}
	snap, _ := repo.Snapshot(ctx)
	if len(snap.Flights) != 0 || snap.Generation != 2 {
		t.Errorf("replace should have completed after the view, got %d flights at generation %d", len(snap.Flights), snap.Generation)
	}
}

func TestInMemoryRepository_ViewHonoursCancelledContext(t *testing.T) {
	repo := seededRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := repo.View(ctx, func(context.Context, catalog.View) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("view function should not run with a cancelled context")
	}
}
