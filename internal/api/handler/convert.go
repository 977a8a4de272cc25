package handler

import (
	"github.com/travelwits/travelwits/internal/api/models"
	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/planner"
)

func toFlight(l catalog.FlightLeg) models.FlightLeg {
	stops := l.Stops
	if stops == nil {
		stops = []string{}
	}
	return models.FlightLeg{
		ID:              l.ID,
		From:            l.Origin,
		To:              l.Destination,
		Stops:           stops,
		Price:           l.Price,
		DepartureTime:   l.DepartureTime,
		ArrivalTime:     l.ArrivalTime,
		DurationMinutes: l.DurationMinutes,
		Score:           l.Score,
	}
}

func toHotel(h catalog.HotelOption) models.Hotel {
	amenities := h.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return models.Hotel{
		ID:            h.ID,
		City:          h.CityCode,
		Name:          h.Name,
		Address:       h.Address,
		Stars:         h.Stars,
		Rating:        h.Rating,
		Amenities:     amenities,
		PricePerNight: h.PricePerNight,
		Score:         h.Score,
	}
}

func toFlights(legs []catalog.FlightLeg) []models.FlightLeg {
	out := make([]models.FlightLeg, len(legs))
	for i, l := range legs {
		out[i] = toFlight(l)
	}
	return out
}

func toHotels(hotels []catalog.HotelOption) []models.Hotel {
	out := make([]models.Hotel, len(hotels))
	for i, h := range hotels {
		out[i] = toHotel(h)
	}
	return out
}

func toTrips(candidates []planner.Candidate) []models.Trip {
	out := make([]models.Trip, len(candidates))
	for i, c := range candidates {
		out[i] = models.Trip{
			Destination: c.Destination(),
			Outbound:    toFlight(c.Outbound),
			Return:      toFlight(c.Return),
			Hotel:       toHotel(c.Hotel),
			TotalCost:   c.TotalCost,
			TotalScore:  c.TotalScore,
		}
	}
	return out
}
