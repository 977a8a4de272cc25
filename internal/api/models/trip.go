package models

// FlightLeg is a flight in API responses.
type FlightLeg struct {
	ID              string   `json:"id"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	Stops           []string `json:"stops"`
	Price           int64    `json:"price"`
	DepartureTime   string   `json:"departureTime"`
	ArrivalTime     string   `json:"arrivalTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Score           *float64 `json:"score,omitempty"`
}

// Hotel is a hotel in API responses.
type Hotel struct {
	ID            string   `json:"id"`
	City          string   `json:"city"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Stars         int      `json:"stars"`
	Rating        int      `json:"rating"`
	Amenities     []string `json:"amenities"`
	PricePerNight int64    `json:"pricePerNight"`
	Score         *float64 `json:"score,omitempty"`
}

// Trip is one ranked package: outbound flight, return flight and hotel stay.
type Trip struct {
	Destination string    `json:"destination"`
	Outbound    FlightLeg `json:"outbound"`
	Return      FlightLeg `json:"return"`
	Hotel       Hotel     `json:"hotel"`
	TotalCost   int64     `json:"totalCost"`
	TotalScore  *float64  `json:"totalScore,omitempty"`
}

// TripsResponse is the body of GET /v1/trips.
//
// When nothing fits the budget the request still succeeds: Trips is empty
// and Error carries the message to show the traveler.
type TripsResponse struct {
	Mode              string `json:"mode,omitempty"`
	Strategy          string `json:"strategy,omitempty"`
	Days              int    `json:"days,omitempty"`
	Budget            int64  `json:"budget,omitempty"`
	Trips             []Trip `json:"trips"`
	BestByDestination []Trip `json:"bestByDestination,omitempty"`
	Generation        int64  `json:"generation,omitempty"`
	Error             string `json:"error,omitempty"`
}
