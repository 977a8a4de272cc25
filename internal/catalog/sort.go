package catalog

import (
	"cmp"
	"slices"
)

// SortFlights orders legs the way FlightQuery documents: by price for pair
// queries, grouped by origin for endpoint queries. IDs break ties.
func SortFlights(legs []FlightLeg, q FlightQuery) {
	slices.SortStableFunc(legs, func(a, b FlightLeg) int {
		if q.Pair == nil {
			if c := cmp.Compare(a.Origin, b.Origin); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(a.Price, b.Price); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// SortHotels orders hotels by the given HotelOrder. IDs break ties.
func SortHotels(hotels []HotelOption, order HotelOrder) {
	slices.SortStableFunc(hotels, func(a, b HotelOption) int {
		var c int
		if order == OrderScore {
			c = compareScoreDesc(a.Score, b.Score)
		} else {
			c = compareDesirability(a, b)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func compareDesirability(a, b HotelOption) int {
	if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Stars, a.Stars); c != 0 {
		return c
	}
	return cmp.Compare(a.PricePerNight, b.PricePerNight)
}

// compareScoreDesc sorts higher scores first and nil scores last.
func compareScoreDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*b, *a)
}
