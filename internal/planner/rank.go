package planner

import (
	"cmp"
	"slices"
)

// Rank returns a new slice holding candidates ordered by strategy. The sort
// is stable, so ties keep their input order. An unknown or empty strategy
// orders by cost, and so does score when any candidate is unscored.
func Rank(candidates []Candidate, strategy Strategy) []Candidate {
	ranked := slices.Clone(candidates)
	if ranked == nil {
		ranked = make([]Candidate, 0)
	}
	slices.SortStableFunc(ranked, comparator(EffectiveStrategy(candidates, strategy)))
	return ranked
}

// EffectiveStrategy returns the strategy Rank applies to candidates.
func EffectiveStrategy(candidates []Candidate, strategy Strategy) Strategy {
	switch strategy {
	case StrategyRating, StrategyStars:
		return strategy
	case StrategyScore:
		if allScored(candidates) {
			return StrategyScore
		}
	}
	return StrategyCost
}

// BestPerDestination returns the top candidate for each destination, ordered
// by destination code. Candidates are compared by score when all are scored,
// by cost otherwise; the earliest candidate wins a tie.
func BestPerDestination(candidates []Candidate) []Candidate {
	compare := comparator(EffectiveStrategy(candidates, StrategyScore))

	best := make(map[string]Candidate)
	order := make([]string, 0)
	for _, c := range candidates {
		dest := c.Destination()
		current, ok := best[dest]
		if !ok {
			order = append(order, dest)
			best[dest] = c
			continue
		}
		if compare(c, current) < 0 {
			best[dest] = c
		}
	}

	slices.Sort(order)
	out := make([]Candidate, 0, len(order))
	for _, dest := range order {
		out = append(out, best[dest])
	}
	return out
}

func allScored(candidates []Candidate) bool {
	for _, c := range candidates {
		if c.TotalScore == nil {
			return false
		}
	}
	return true
}

func comparator(strategy Strategy) func(a, b Candidate) int {
	switch strategy {
	case StrategyRating:
		return func(a, b Candidate) int {
			if c := cmp.Compare(b.Hotel.Rating, a.Hotel.Rating); c != 0 {
				return c
			}
			if c := cmp.Compare(b.Hotel.Stars, a.Hotel.Stars); c != 0 {
				return c
			}
			return cmp.Compare(b.Hotel.PricePerNight, a.Hotel.PricePerNight)
		}
	case StrategyStars:
		return func(a, b Candidate) int {
			if c := cmp.Compare(b.Hotel.Stars, a.Hotel.Stars); c != 0 {
				return c
			}
			if c := cmp.Compare(b.Hotel.Rating, a.Hotel.Rating); c != 0 {
				return c
			}
			return cmp.Compare(b.Hotel.PricePerNight, a.Hotel.PricePerNight)
		}
	case StrategyScore:
		// Only used when every candidate is scored.
		return func(a, b Candidate) int {
			return cmp.Compare(*b.TotalScore, *a.TotalScore)
		}
	default:
		return func(a, b Candidate) int {
			return cmp.Compare(a.TotalCost, b.TotalCost)
		}
	}
}
