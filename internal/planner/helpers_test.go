package planner_test

import (
	"fmt"
	"time"

	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/planner"
	"github.com/travelwits/travelwits/internal/resilience"
)

func flight(from, to string, price int64) catalog.FlightLeg {
	return catalog.FlightLeg{
		ID:              fmt.Sprintf("%s-%s-%d", from, to, price),
		Origin:          from,
		Destination:     to,
		Stops:           []string{},
		Price:           price,
		DepartureTime:   "09:00",
		ArrivalTime:     "15:00",
		DurationMinutes: 360,
	}
}

func scoredFlight(from, to string, price int64, score float64) catalog.FlightLeg {
	l := flight(from, to, price)
	l.Score = &score
	return l
}

func stay(id, city string, price int64, rating, stars int) catalog.HotelOption {
	return catalog.HotelOption{
		ID:            id,
		CityCode:      city,
		Name:          "Hotel " + id,
		Address:       "Address 1",
		Stars:         stars,
		Rating:        rating,
		Amenities:     []string{},
		PricePerNight: price,
	}
}

func scoredStay(id, city string, price int64, rating, stars int, score float64) catalog.HotelOption {
	h := stay(id, city, price, rating, stars)
	h.Score = &score
	return h
}

func totalCosts(trips []planner.Candidate) []int64 {
	out := make([]int64, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.TotalCost)
	}
	return out
}

func guardConfigForTest() resilience.GuardConfig {
	cfg := resilience.DefaultGuardConfig("catalog-test")
	cfg.InitialInterval = time.Millisecond
	cfg.MaxInterval = 2 * time.Millisecond
	return cfg
}
