package planner

// Allocate returns the highest nightly hotel rate that keeps a trip within
// budget once the cheapest outbound and return legs are paid for.
//
// The result may be zero or negative, in which case no hotel qualifies.
// Integer division is exact for the purpose: prices are whole amounts, so
// price <= floor(x) holds exactly when price <= x.
func Allocate(budget, minOutbound, minReturn int64, days int) int64 {
	if days < MinDays {
		return 0
	}
	return (budget - minOutbound - minReturn) / int64(days)
}
