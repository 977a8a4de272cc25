package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelwits/travelwits/internal/api/handler"
	"github.com/travelwits/travelwits/internal/api/models"
	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/planner"
)

func flight(id, from, to string, price int64) catalog.FlightLeg {
	return catalog.FlightLeg{
		ID:              id,
		Origin:          from,
		Destination:     to,
		Price:           price,
		DepartureTime:   "08:00",
		ArrivalTime:     "13:30",
		DurationMinutes: 330,
	}
}

func hotel(id, city string, price int64, rating, stars int) catalog.HotelOption {
	return catalog.HotelOption{
		ID:            id,
		CityCode:      city,
		Name:          "Hotel " + id,
		Address:       "Address 1, New York",
		Stars:         stars,
		Rating:        rating,
		Amenities:     []string{"WiFi"},
		PricePerNight: price,
	}
}

// fixtureRepo holds LAX<->JFK legs and two New York hotels. With a budget of
// 1000 over 3 days the nightly ceiling is (1000-300-250)/3 = 150.
func fixtureRepo(t *testing.T) *catalog.InMemoryRepository {
	t.Helper()
	repo := catalog.NewInMemoryRepository()
	_, err := repo.Replace(context.Background(), catalog.Replacement{
		ReplaceFlights: true,
		Flights: []catalog.FlightLeg{
			flight("f1", "LAX", "JFK", 300),
			flight("f2", "LAX", "JFK", 320),
			flight("f3", "JFK", "LAX", 250),
			flight("f4", "JFK", "LAX", 400),
			flight("f5", "LAX", "LHR", 700),
		},
		ReplaceHotels: true,
		Hotels: []catalog.HotelOption{
			hotel("h1", "JFK", 100, 6, 3),
			hotel("h2", "JFK", 200, 9, 5),
		},
	})
	require.NoError(t, err)
	return repo
}

func newPlanner(t *testing.T) *planner.Service {
	t.Helper()
	return planner.NewService(planner.ServiceConfig{
		Catalog: fixtureRepo(t),
		Logger:  zerolog.New(io.Discard),
	})
}

type stubPlanner struct {
	result *planner.Result
	err    error
}

func (p stubPlanner) Plan(context.Context, planner.Request) (*planner.Result, error) {
	return p.result, p.err
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func fields(errs []models.FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestPlanTrips_Pair(t *testing.T) {
	h := handler.NewTripsHandler(newPlanner(t))

	rec := get(h.PlanTrips, "/v1/trips?from=lax&to=JFK&budget=1000&days=3")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.TripsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "pair", resp.Mode)
	assert.Equal(t, "cost", resp.Strategy)
	assert.Equal(t, int64(1000), resp.Budget)
	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, int64(1), resp.Generation)
	assert.Empty(t, resp.Error)

	costs := make([]int64, len(resp.Trips))
	for i, trip := range resp.Trips {
		costs[i] = trip.TotalCost
		assert.Equal(t, "JFK", trip.Destination)
		assert.Equal(t, "LAX", trip.Outbound.From)
		assert.Equal(t, "LAX", trip.Return.To)
		assert.Equal(t, "h1", trip.Hotel.ID)
		assert.NotNil(t, trip.Outbound.Stops)
	}
	assert.Equal(t, []int64{850, 870, 1000}, costs)
}

func TestPlanTrips_AllDestinations(t *testing.T) {
	h := handler.NewTripsHandler(newPlanner(t))

	rec := get(h.PlanTrips, "/v1/trips?from=LAX&budget=1000&days=3")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.TripsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "all_destinations", resp.Mode)
	// Fixture hotels are unscored, so the score default falls back to cost.
	assert.Equal(t, "cost", resp.Strategy)
	assert.Len(t, resp.Trips, 3)
	require.Len(t, resp.BestByDestination, 1)
	assert.Equal(t, int64(850), resp.BestByDestination[0].TotalCost)
}

func TestPlanTrips_IncreaseBudget(t *testing.T) {
	h := handler.NewTripsHandler(newPlanner(t))

	rec := get(h.PlanTrips, "/v1/trips?from=LAX&to=JFK&budget=500&days=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"trips":[]`)

	var resp models.TripsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Please increase your budget", resp.Error)
	assert.Empty(t, resp.Trips)
}

func TestPlanTrips_MalformedParameters(t *testing.T) {
	h := handler.NewTripsHandler(newPlanner(t))

	rec := get(h.PlanTrips, "/v1/trips?from=LAX&to=JFK&days=three")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, models.ProblemTypeValidation, p.Type)
	assert.Equal(t, "/v1/trips", p.Instance)
	assert.ElementsMatch(t, []string{"budget", "days"}, fields(p.Errors))
}

func TestPlanTrips_InvalidRequest(t *testing.T) {
	h := handler.NewTripsHandler(newPlanner(t))

	rec := get(h.PlanTrips, "/v1/trips?from=XXX&to=JFK&budget=-5&days=40&sortBy=price")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	assert.ElementsMatch(t, []string{"from", "budget", "days", "sortBy"}, fields(p.Errors))
}

func TestPlanTrips_ValidationErrorsKeepCodes(t *testing.T) {
	h := handler.NewTripsHandler(stubPlanner{err: &planner.ValidationError{Errors: []planner.FieldError{
		{Field: "to", Message: "must be a served city code", Code: "UNKNOWN_CITY"},
	}}})

	rec := get(h.PlanTrips, "/v1/trips?from=LAX&to=AMS&budget=1000&days=3")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, []models.FieldError{
		{Field: "to", Message: "must be a served city code", Code: "UNKNOWN_CITY"},
	}, p.Errors)
}

func TestPlanTrips_CatalogFault(t *testing.T) {
	h := handler.NewTripsHandler(stubPlanner{err: planner.ErrFetchTrips})

	rec := get(h.PlanTrips, "/v1/trips?from=LAX&to=JFK&budget=1000&days=3")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, "Error in fetching hotels and flights", p.Detail)
}

func TestPlanTrips_UnexpectedError(t *testing.T) {
	h := handler.NewTripsHandler(stubPlanner{err: errors.New("boom")})

	rec := get(h.PlanTrips, "/v1/trips?from=LAX&to=JFK&budget=1000&days=3")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestItinerary(t *testing.T) {
	h := handler.NewTripsHandler(newPlanner(t))

	rec := get(h.Itinerary, "/v1/trips/itinerary.pdf?from=LAX&to=JFK&budget=1000&days=3&rank=2")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "travelwits-LAX-JFK-3d.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestItinerary_Errors(t *testing.T) {
	h := handler.NewTripsHandler(newPlanner(t))

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"rank beyond results", "/v1/trips/itinerary.pdf?from=LAX&to=JFK&budget=1000&days=3&rank=9", http.StatusNotFound},
		{"rank zero", "/v1/trips/itinerary.pdf?from=LAX&to=JFK&budget=1000&days=3&rank=0", http.StatusBadRequest},
		{"nothing fits", "/v1/trips/itinerary.pdf?from=LAX&to=JFK&budget=500&days=3", http.StatusNotFound},
		{"missing days", "/v1/trips/itinerary.pdf?from=LAX&to=JFK&budget=1000", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h.Itinerary, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}
