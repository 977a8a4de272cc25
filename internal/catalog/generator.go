package catalog

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Generator defaults.
const (
	DefaultLegsPerPair   = 5
	DefaultHotelsPerCity = 5

	minFlightPrice  = 200
	flightPriceSpan = 1300
	minHotelPrice   = 50
	hotelPriceSpan  = 200

	latestDepartureHour = 17
	minFlightMinutes    = 60
	lastMinuteOfDay     = 23*60 + 59
)

// idNamespace scopes generated record IDs so a seed always yields the same IDs.
var idNamespace = uuid.MustParse("6f1c7a52-9a4e-4f0b-8d1e-5b3c2a7e9d10")

// GeneratorConfig configures synthetic catalog generation.
type GeneratorConfig struct {
	// LegsPerPair is the number of legs per ordered city pair. Default: 5
	LegsPerPair int

	// HotelsPerCity is the number of hotels per city. Default: 5
	HotelsPerCity int

	// Scored populates desirability scores on every record.
	Scored bool
}

// Generator produces randomized flight and hotel catalogs over the served cities.
type Generator struct {
	cfg    GeneratorConfig
	cities []City
}

// NewGenerator creates a generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.LegsPerPair <= 0 {
		cfg.LegsPerPair = DefaultLegsPerPair
	}
	if cfg.HotelsPerCity <= 0 {
		cfg.HotelsPerCity = DefaultHotelsPerCity
	}
	return &Generator{cfg: cfg, cities: Cities()}
}

// Flights generates LegsPerPair legs for every ordered pair of distinct cities.
// Every flight departs and lands on the same day.
func (g *Generator) Flights(seed uint64) []FlightLeg {
	rng := newRand(seed, 1)
	legs := make([]FlightLeg, 0, len(g.cities)*(len(g.cities)-1)*g.cfg.LegsPerPair)

	for _, from := range g.cities {
		for _, to := range g.cities {
			if from.Code == to.Code {
				continue
			}
			for i := 0; i < g.cfg.LegsPerPair; i++ {
				departure := rng.IntN(latestDepartureHour+1)*60 + rng.IntN(60)
				earliestArrival := departure + minFlightMinutes
				arrival := earliestArrival + rng.IntN(lastMinuteOfDay-earliestArrival+1)

				leg := FlightLeg{
					ID:              recordID("flt", seed, fmt.Sprintf("%s-%s-%d", from.Code, to.Code, i)),
					Origin:          from.Code,
					Destination:     to.Code,
					Stops:           g.randomStops(rng, from.Code, to.Code),
					Price:           int64(minFlightPrice + rng.IntN(flightPriceSpan)),
					DepartureTime:   clock(departure),
					ArrivalTime:     clock(arrival),
					DurationMinutes: arrival - departure,
				}
				if g.cfg.Scored {
					score := FlightScore(leg.Price, len(leg.Stops), leg.DurationMinutes)
					leg.Score = &score
				}
				legs = append(legs, leg)
			}
		}
	}
	return legs
}

// Hotels generates HotelsPerCity hotels in every city.
func (g *Generator) Hotels(seed uint64) []HotelOption {
	rng := newRand(seed, 2)
	hotels := make([]HotelOption, 0, len(g.cities)*g.cfg.HotelsPerCity)

	for _, city := range g.cities {
		for i := 0; i < g.cfg.HotelsPerCity; i++ {
			amenities := make([]string, 0, len(HotelAmenities))
			for _, a := range HotelAmenities {
				if rng.IntN(2) == 0 {
					amenities = append(amenities, a)
				}
			}

			hotel := HotelOption{
				ID:            recordID("htl", seed, fmt.Sprintf("%s-%d", city.Code, i)),
				CityCode:      city.Code,
				Name:          fmt.Sprintf("Hotel %d", i+1),
				Address:       fmt.Sprintf("Address %d, %s", i+1, city.Name),
				Stars:         1 + rng.IntN(5),
				Rating:        1 + rng.IntN(10),
				Amenities:     amenities,
				PricePerNight: int64(minHotelPrice + rng.IntN(hotelPriceSpan)),
			}
			if g.cfg.Scored {
				score := HotelScore(hotel.Rating, hotel.Stars, hotel.PricePerNight)
				hotel.Score = &score
			}
			hotels = append(hotels, hotel)
		}
	}
	return hotels
}

// randomStops picks up to n-1 distinct intermediate cities, n being the
// number of cities other than the endpoints.
func (g *Generator) randomStops(rng *rand.Rand, from, to string) []string {
	others := make([]string, 0, len(g.cities))
	for _, c := range g.cities {
		if c.Code != from && c.Code != to {
			others = append(others, c.Code)
		}
	}

	stops := make([]string, 0)
	if len(others) == 0 {
		return stops
	}
	n := rng.IntN(len(others))
	for _, idx := range rng.Perm(len(others))[:n] {
		stops = append(stops, others[idx])
	}
	return stops
}

// FlightScore rates a leg; cheaper, shorter and more direct legs score higher.
func FlightScore(price int64, stops, durationMinutes int) float64 {
	return round2(-float64(price)/100 - 0.75*float64(stops) - float64(durationMinutes)/120)
}

// HotelScore rates a hotel; better rated, higher starred and cheaper hotels score higher.
func HotelScore(rating, stars int, pricePerNight int64) float64 {
	return round2(0.6*float64(rating) + 0.8*float64(stars) - float64(pricePerNight)/50)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream)) //nolint:gosec // synthetic data, not security sensitive
}

func recordID(prefix string, seed uint64, key string) string {
	id := uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%d/%s", seed, key)))
	return prefix + "_" + id.String()
}

func clock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}
