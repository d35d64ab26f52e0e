package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"akses-lakbay/internal/pkg/geo"
)

// A rider far from every route origin, so no proximity bonus applies.
var farRider = geo.Coordinate{Latitude: 14.5995, Longitude: 120.9842}

// A rider at the Libertad market area.
var libertadRider = geo.Coordinate{Latitude: 10.6639, Longitude: 122.9512}

func TestScore(t *testing.T) {
	svc := NewService()

	t.Run("Landmark Match Ranks Routes Serving It", func(t *testing.T) {
		ranked := svc.Score("SM near Central Market", farRider)

		assert.NotEmpty(t, ranked)
		for _, r := range ranked {
			assert.Contains(t, r.Route.Landmarks, "Central Market")
		}
		// Stable sort keeps the table order for equal scores.
		assert.Equal(t, "Bata-Libertad", ranked[0].Route.Name)
	})

	t.Run("Route Name Match Counts", func(t *testing.T) {
		ranked := svc.Score("take the mandalagan-libertad jeep", farRider)

		assert.NotEmpty(t, ranked)
		assert.Equal(t, "Mandalagan-Libertad", ranked[0].Route.Name)
	})

	t.Run("Path Segment Match Counts Least", func(t *testing.T) {
		ranked := svc.Score("somewhere along lacson street", farRider)

		assert.Len(t, ranked, 2)
		for _, r := range ranked {
			assert.Contains(t, r.Route.Path, "Lacson Street")
			assert.Equal(t, pathSegmentWeight, r.Score)
		}
	})

	t.Run("No Match Far Away Yields Nothing", func(t *testing.T) {
		ranked := svc.Score("underwater basket weaving", farRider)
		assert.Empty(t, ranked)
	})

	t.Run("Proximity Alone Can Qualify A Route", func(t *testing.T) {
		ranked := svc.Score("no textual overlap at all", libertadRider)

		// Every route origin within 5km of the rider earns the distance
		// bonus even without a text hit.
		assert.NotEmpty(t, ranked)
		for _, r := range ranked {
			assert.Less(t, geo.DistanceKm(libertadRider, r.Route.Origin), proximityBonusMaxKm)
		}
	})

	t.Run("Matching Is Case Insensitive", func(t *testing.T) {
		upper := svc.Score("CENTRAL MARKET", farRider)
		lower := svc.Score("central market", farRider)

		assert.Equal(t, len(upper), len(lower))
	})
}

func TestSuggest(t *testing.T) {
	svc := NewService()

	t.Run("Primary Plus Up To Two Alternatives", func(t *testing.T) {
		suggestion := svc.Suggest("Central Market", libertadRider)

		assert.NotNil(t, suggestion.Primary)
		assert.LessOrEqual(t, len(suggestion.Alternatives), 2)

		for _, alt := range suggestion.Alternatives {
			assert.LessOrEqual(t, alt.Score, suggestion.Primary.Score)
		}
	})

	t.Run("No Candidates Yields Empty Suggestion", func(t *testing.T) {
		suggestion := svc.Suggest("nothing relevant", farRider)

		assert.Nil(t, suggestion.Primary)
		assert.Empty(t, suggestion.Alternatives)
	})
}

func TestKnownRoutes(t *testing.T) {
	routes := KnownRoutes()

	assert.Len(t, routes, 8)
	for _, route := range routes {
		assert.NotEmpty(t, route.Name)
		assert.NotEmpty(t, route.Landmarks)
		assert.NotEmpty(t, route.Path)
		assert.True(t, route.Origin.Valid())
		// Origin resolves from the first landmark.
		assert.Equal(t, landmarkCoords[route.Landmarks[0]], route.Origin)
	}
}
