package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/planner"
)

func TestSplitByDirection(t *testing.T) {
	legs := []catalog.FlightLeg{
		flight("JFK", "LAX", 200),
		flight("LAX", "JFK", 250),
		flight("JFK", "LAX", 260),
		flight("LAX", "JFK", 300),
	}

	outbound, returns := planner.SplitByDirection(legs, "LAX", "JFK")

	require.Len(t, outbound, 2)
	require.Len(t, returns, 2)
	assert.Equal(t, []int64{250, 300}, []int64{outbound[0].Price, outbound[1].Price})
	assert.Equal(t, []int64{200, 260}, []int64{returns[0].Price, returns[1].Price})
	for _, l := range outbound {
		assert.Equal(t, "LAX", l.Origin)
	}
	for _, l := range returns {
		assert.Equal(t, "LAX", l.Destination)
	}
}

func TestGroupByDestination(t *testing.T) {
	legs := []catalog.FlightLeg{
		flight("JFK", "LAX", 210),
		flight("LAX", "SYD", 900),
		flight("LAX", "JFK", 300),
		flight("LHR", "LAX", 700),
		flight("LAX", "LHR", 650),
		flight("LAX", "JFK", 280),
	}

	groups := planner.GroupByDestination(legs, "LAX")

	// SYD has no return leg and is dropped.
	require.Len(t, groups, 2)
	assert.Equal(t, "JFK", groups[0].Destination)
	assert.Len(t, groups[0].Outbound, 2)
	assert.Len(t, groups[0].Return, 1)
	assert.Equal(t, "LHR", groups[1].Destination)
	assert.Len(t, groups[1].Outbound, 1)
	assert.Len(t, groups[1].Return, 1)
}
