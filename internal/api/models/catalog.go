package models

// City is a served city.
type City struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CitiesResponse is the body of GET /v1/cities.
type CitiesResponse struct {
	Cities []City `json:"cities"`
}

// FlightsResponse is the body of GET /v1/flights.
type FlightsResponse struct {
	Flights    []FlightLeg `json:"flights"`
	Generation int64       `json:"generation"`
}

// HotelsResponse is the body of GET /v1/hotels.
type HotelsResponse struct {
	Hotels     []Hotel `json:"hotels"`
	Generation int64   `json:"generation"`
}

// RegenerateRequest is the body of POST /v1/admin/catalog/regenerate.
type RegenerateRequest struct {
	Flights bool   `json:"flights"`
	Hotels  bool   `json:"hotels"`
	Seed    uint64 `json:"seed,omitempty"`
}

// RegenerateResponse reports an inline regeneration.
type RegenerateResponse struct {
	Generation int64  `json:"generation"`
	Flights    int    `json:"flights"`
	Hotels     int    `json:"hotels"`
	Seed       uint64 `json:"seed"`
	DurationMs int64  `json:"durationMs"`
}

// RegenerateAccepted reports a regeneration handed to the worker.
type RegenerateAccepted struct {
	JobID     string `json:"jobId"`
	MessageID string `json:"messageId"`
}

// CatalogExport is a full dump of one catalog generation.
type CatalogExport struct {
	Generation int64       `json:"generation"`
	ExportedAt Timestamp   `json:"exportedAt"`
	Flights    []FlightLeg `json:"flights"`
	Hotels     []Hotel     `json:"hotels"`
}
