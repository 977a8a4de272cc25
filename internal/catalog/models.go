// Package catalog provides the flight and hotel catalogs read by the trip planner.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// Catalog errors.
var (
	ErrInvalidQuery         = errors.New("invalid catalog query")
	ErrNothingToRegenerate  = errors.New("neither flights nor hotels selected for regeneration")
	ErrRegenerationDisabled = errors.New("catalog regeneration is not configured")
)

// FlightLeg is one directed flight between two cities.
// Legs are produced by the generator and never modified afterwards.
type FlightLeg struct {
	ID              string
	Origin          string
	Destination     string
	Stops           []string
	Price           int64
	DepartureTime   string
	ArrivalTime     string
	DurationMinutes int
	// Score is nil for plain legs.
	Score *float64
}

// Scored reports whether the leg carries a desirability score.
func (f FlightLeg) Scored() bool {
	return f.Score != nil
}

// HotelOption is a lodging choice in a single city.
type HotelOption struct {
	ID            string
	CityCode      string
	Name          string
	Address       string
	Stars         int
	Rating        int
	Amenities     []string
	PricePerNight int64
	// Score is nil for plain hotels.
	Score *float64
}

// Scored reports whether the hotel carries a desirability score.
func (h HotelOption) Scored() bool {
	return h.Score != nil
}

// Pair is an unordered pair of city codes.
type Pair struct {
	A string
	B string
}

// FlightQuery selects flight legs. Exactly one of Pair or Endpoint must be set.
type FlightQuery struct {
	// Pair selects legs A->B and B->A, ordered by price ascending.
	Pair *Pair

	// Endpoint selects every leg touching the city in either direction,
	// grouped by origin (origin ascending, then price ascending).
	Endpoint string
}

// Validate checks that the query selects exactly one retrieval shape.
func (q FlightQuery) Validate() error {
	switch {
	case q.Pair != nil && q.Endpoint != "":
		return fmt.Errorf("%w: pair and endpoint are mutually exclusive", ErrInvalidQuery)
	case q.Pair != nil:
		if q.Pair.A == "" || q.Pair.B == "" {
			return fmt.Errorf("%w: pair requires two cities", ErrInvalidQuery)
		}
		if q.Pair.A == q.Pair.B {
			return fmt.Errorf("%w: pair cities must differ", ErrInvalidQuery)
		}
		return nil
	case q.Endpoint != "":
		return nil
	default:
		return fmt.Errorf("%w: pair or endpoint is required", ErrInvalidQuery)
	}
}

// Matches reports whether the leg is selected by the query.
func (q FlightQuery) Matches(l FlightLeg) bool {
	if q.Pair != nil {
		return (l.Origin == q.Pair.A && l.Destination == q.Pair.B) ||
			(l.Origin == q.Pair.B && l.Destination == q.Pair.A)
	}
	return l.Origin == q.Endpoint || l.Destination == q.Endpoint
}

// HotelOrder is the ordering applied to hotel query results.
type HotelOrder int

const (
	// OrderDesirability sorts by rating desc, stars desc, nightly price asc.
	OrderDesirability HotelOrder = iota
	// OrderScore sorts by score desc with unscored hotels last.
	OrderScore
)

// HotelQuery selects hotels located in any of Cities whose nightly price
// does not exceed MaxPricePerNight.
type HotelQuery struct {
	Cities           []string
	MaxPricePerNight int64
	Order            HotelOrder
}

// Validate checks the hotel query.
func (q HotelQuery) Validate() error {
	if len(q.Cities) == 0 {
		return fmt.Errorf("%w: at least one city is required", ErrInvalidQuery)
	}
	if q.Order != OrderDesirability && q.Order != OrderScore {
		return fmt.Errorf("%w: unknown hotel order %d", ErrInvalidQuery, q.Order)
	}
	return nil
}

// Matches reports whether the hotel is selected by the query.
func (q HotelQuery) Matches(h HotelOption) bool {
	return h.PricePerNight <= q.MaxPricePerNight && slices.Contains(q.Cities, h.CityCode)
}

// Snapshot is a full copy of one catalog generation.
type Snapshot struct {
	Generation int64
	Flights    []FlightLeg
	Hotels     []HotelOption
}

// Replacement describes a regeneration write. Only the selected collections
// are replaced; the generation is bumped either way.
type Replacement struct {
	ReplaceFlights bool
	Flights        []FlightLeg
	ReplaceHotels  bool
	Hotels         []HotelOption
}
