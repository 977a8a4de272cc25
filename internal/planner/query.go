package planner

import (
	"cmp"
	"slices"

	"github.com/travelwits/travelwits/internal/catalog"
)

// pairQuery selects the legs between origin and destination in either direction.
func pairQuery(origin, destination string) catalog.FlightQuery {
	return catalog.FlightQuery{Pair: &catalog.Pair{A: origin, B: destination}}
}

// endpointQuery selects every leg leaving or reaching origin.
func endpointQuery(origin string) catalog.FlightQuery {
	return catalog.FlightQuery{Endpoint: origin}
}

// hotelQuery selects hotels in cities priced at or under ceiling per night.
func hotelQuery(cities []string, ceiling int64, scored bool) catalog.HotelQuery {
	order := catalog.OrderDesirability
	if scored {
		order = catalog.OrderScore
	}
	return catalog.HotelQuery{
		Cities:           cities,
		MaxPricePerNight: ceiling,
		Order:            order,
	}
}

// SplitByDirection partitions pair-query legs into outbound (origin to
// destination) and return (destination to origin) legs, keeping input order.
func SplitByDirection(legs []catalog.FlightLeg, origin, destination string) (outbound, returns []catalog.FlightLeg) {
	for _, l := range legs {
		switch {
		case l.Origin == origin && l.Destination == destination:
			outbound = append(outbound, l)
		case l.Origin == destination && l.Destination == origin:
			returns = append(returns, l)
		}
	}
	return outbound, returns
}

// DestinationGroup holds everything synthesized for one destination.
type DestinationGroup struct {
	Destination string
	Outbound    []catalog.FlightLeg
	Return      []catalog.FlightLeg
	Hotels      []catalog.HotelOption
	// Ceiling is the nightly-rate ceiling derived from this destination's cheapest legs.
	Ceiling int64
}

// GroupByDestination groups endpoint-query legs by the city at the other end,
// ordered by destination code. Destinations lacking either direction are dropped.
func GroupByDestination(legs []catalog.FlightLeg, origin string) []DestinationGroup {
	byDest := make(map[string]*DestinationGroup)
	for _, l := range legs {
		switch {
		case l.Origin == origin && l.Destination != origin:
			g := groupFor(byDest, l.Destination)
			g.Outbound = append(g.Outbound, l)
		case l.Destination == origin && l.Origin != origin:
			g := groupFor(byDest, l.Origin)
			g.Return = append(g.Return, l)
		}
	}

	groups := make([]DestinationGroup, 0, len(byDest))
	for _, g := range byDest {
		if len(g.Outbound) == 0 || len(g.Return) == 0 {
			continue
		}
		groups = append(groups, *g)
	}
	slices.SortFunc(groups, func(a, b DestinationGroup) int {
		return cmp.Compare(a.Destination, b.Destination)
	})
	return groups
}

func groupFor(m map[string]*DestinationGroup, dest string) *DestinationGroup {
	g, ok := m[dest]
	if !ok {
		g = &DestinationGroup{Destination: dest}
		m[dest] = g
	}
	return g
}

// withinCeiling returns the hotels in city priced at or under ceiling, keeping order.
func withinCeiling(hotels []catalog.HotelOption, city string, ceiling int64) []catalog.HotelOption {
	out := make([]catalog.HotelOption, 0)
	for _, h := range hotels {
		if h.CityCode == city && h.PricePerNight <= ceiling {
			out = append(out, h)
		}
	}
	return out
}

// cheapest returns the lowest price among legs, which must not be empty.
func cheapest(legs []catalog.FlightLeg) int64 {
	lowest := legs[0].Price
	for _, l := range legs[1:] {
		lowest = min(lowest, l.Price)
	}
	return lowest
}
