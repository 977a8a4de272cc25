// Package planner builds and ranks trip packages (outbound flight, return
// flight and hotel stay) that fit a traveler's total budget.
package planner

import (
	"errors"

	"github.com/travelwits/travelwits/internal/catalog"
)

// Planning outcomes.
var (
	// ErrIncreaseBudget means no outbound/return/hotel combination fits the budget.
	ErrIncreaseBudget = errors.New("please increase your budget")

	// ErrFetchTrips means the catalog could not be read. The cause is logged, not returned.
	ErrFetchTrips = errors.New("error in fetching hotels and flights")
)

// Validation limits.
const (
	MinDays = 1
	MaxDays = 30
)

// Strategy names a trip ordering.
type Strategy string

const (
	// StrategyCost orders by total cost ascending.
	StrategyCost Strategy = "cost"
	// StrategyRating orders by hotel rating, stars, then nightly price, all descending.
	StrategyRating Strategy = "rating"
	// StrategyStars orders by hotel stars, rating, then nightly price, all descending.
	StrategyStars Strategy = "stars"
	// StrategyScore orders by total score descending.
	StrategyScore Strategy = "score"
)

// ParseStrategy parses a strategy name. The empty string is accepted and
// means "use the mode default".
func ParseStrategy(s string) (Strategy, bool) {
	switch st := Strategy(s); st {
	case "", StrategyCost, StrategyRating, StrategyStars, StrategyScore:
		return st, true
	}
	return "", false
}

// Mode is the planning mode selected by the request.
type Mode string

const (
	// ModePair plans trips to one explicit destination.
	ModePair Mode = "pair"
	// ModeAllDestinations plans trips to every destination reachable from the origin.
	ModeAllDestinations Mode = "all_destinations"
)

// Request is a trip planning request.
type Request struct {
	Origin string
	// Destination is optional; empty selects ModeAllDestinations.
	Destination string
	Budget      int64
	Days        int
	Strategy    Strategy
}

// Mode returns the planning mode implied by the request.
func (r Request) Mode() Mode {
	if r.Destination == "" {
		return ModeAllDestinations
	}
	return ModePair
}

// Validate rejects requests the engine cannot plan for.
func (r Request) Validate() error {
	var errs []FieldError

	if r.Origin == "" {
		errs = append(errs, FieldError{Field: "from", Message: "is required"})
	} else if _, ok := catalog.LookupCity(r.Origin); !ok {
		errs = append(errs, FieldError{Field: "from", Message: "must be a served city code", Code: "UNKNOWN_CITY"})
	}

	if r.Destination != "" {
		if _, ok := catalog.LookupCity(r.Destination); !ok {
			errs = append(errs, FieldError{Field: "to", Message: "must be a served city code", Code: "UNKNOWN_CITY"})
		} else if r.Destination == r.Origin {
			errs = append(errs, FieldError{Field: "to", Message: "must differ from origin"})
		}
	}

	if r.Budget <= 0 {
		errs = append(errs, FieldError{Field: "budget", Message: "must be a positive amount"})
	}

	if r.Days < MinDays || r.Days > MaxDays {
		errs = append(errs, FieldError{Field: "days", Message: "must be between 1 and 30"})
	}

	if _, ok := ParseStrategy(string(r.Strategy)); !ok {
		errs = append(errs, FieldError{Field: "sortBy", Message: "must be one of cost, rating, stars, score"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Candidate is one feasible (outbound, return, hotel) combination.
type Candidate struct {
	Outbound catalog.FlightLeg
	Return   catalog.FlightLeg
	Hotel    catalog.HotelOption

	// TotalCost is outbound + return + nightly price * days.
	TotalCost int64

	// TotalScore is the sum of the three component scores, nil unless all three are scored.
	TotalScore *float64
}

// Destination returns the city the candidate travels to.
func (c Candidate) Destination() string {
	return c.Outbound.Destination
}

// Result is the outcome of a successful plan.
type Result struct {
	Mode Mode
	// Strategy is the ordering actually applied, after any fallback.
	Strategy Strategy
	Trips    []Candidate
	// BestByDestination holds the top candidate per destination (all-destinations mode only).
	BestByDestination []Candidate
	// Generation is the catalog generation the plan was computed from.
	Generation int64
}

// FieldError represents a validation error on a specific request field.
type FieldError struct {
	Field   string
	Message string
	Code    string
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
