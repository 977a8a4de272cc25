package catalog

// City is a served city identified by its airport code.
type City struct {
	Code string
	Name string
}

var cities = []City{
	{Code: "LAX", Name: "Los Angeles, USA"},
	{Code: "JFK", Name: "New York City, USA"},
	{Code: "LHR", Name: "London, UK"},
	{Code: "NRT", Name: "Tokyo, Japan"},
	{Code: "SYD", Name: "Sydney, Australia"},
}

// HotelAmenities lists the amenity labels a generated hotel may offer.
var HotelAmenities = []string{
	"Free Wi-Fi",
	"Swimming pool",
	"Fitness center",
	"Restaurant",
	"Bar",
	"Room service",
}

// Cities returns the served cities in display order.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

// CityCodes returns the served city codes in display order.
func CityCodes() []string {
	codes := make([]string, 0, len(cities))
	for _, c := range cities {
		codes = append(codes, c.Code)
	}
	return codes
}

// LookupCity returns the city with the given code.
func LookupCity(code string) (City, bool) {
	for _, c := range cities {
		if c.Code == code {
			return c, true
		}
	}
	return City{}, false
}
