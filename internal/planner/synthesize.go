package planner

import "github.com/travelwits/travelwits/internal/catalog"

// Synthesize enumerates every (outbound, return, hotel) triple and keeps
// those whose total cost fits the budget. Inputs are expected to be
// pre-filtered to the right direction, city and nightly ceiling.
//
// The enumeration is a full cross-product: catalogs are bounded upstream to a
// few dozen records each, and exhaustive enumeration cannot miss a feasible
// trip. Candidates are emitted outbound-major, then by return, then by hotel.
func Synthesize(outbound, returns []catalog.FlightLeg, hotels []catalog.HotelOption, budget int64, days int) []Candidate {
	trips := make([]Candidate, 0)
	if len(outbound) == 0 || len(returns) == 0 || len(hotels) == 0 {
		return trips
	}

	nights := int64(days)
	for _, out := range outbound {
		for _, ret := range returns {
			flightCost := out.Price + ret.Price
			if flightCost > budget {
				continue
			}
			for _, h := range hotels {
				total := flightCost + h.PricePerNight*nights
				if total > budget {
					continue
				}
				trips = append(trips, Candidate{
					Outbound:   out,
					Return:     ret,
					Hotel:      h,
					TotalCost:  total,
					TotalScore: totalScore(out, ret, h),
				})
			}
		}
	}
	return trips
}

// SynthesizeByDestination runs Synthesize for each group in order and
// concatenates the results.
func SynthesizeByDestination(groups []DestinationGroup, budget int64, days int) []Candidate {
	trips := make([]Candidate, 0)
	for _, g := range groups {
		trips = append(trips, Synthesize(g.Outbound, g.Return, g.Hotels, budget, days)...)
	}
	return trips
}

func totalScore(out, ret catalog.FlightLeg, h catalog.HotelOption) *float64 {
	if !out.Scored() || !ret.Scored() || !h.Scored() {
		return nil
	}
	s := *out.Score + *ret.Score + *h.Score
	return &s
}
