package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"akses-lakbay/internal/config"
	"akses-lakbay/internal/pkg/geo"
)

func newTestClient(baseURL string, retries int) Client {
	return NewHTTPClient(&config.Config{
		MapsBaseURL: baseURL,
		MapsAPIKey:  "test-key",
		MapsTimeout: 2 * time.Second,
		MapsRetries: retries,
	})
}

func TestReverseGeocode(t *testing.T) {
	ctx := context.Background()
	point := geo.Coordinate{Latitude: 10.6712, Longitude: 122.9465}

	t.Run("Parses Result Types", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			assert.NotEmpty(t, r.URL.Query().Get("latlng"))

			w.Write([]byte(`{
				"status": "OK",
				"results": [
					{"formatted_address": "Rizal St, Bacolod", "types": ["route"]},
					{"formatted_address": "Bacolod City", "types": ["locality", "political"]}
				]
			}`))
		}))
		defer server.Close()

		results, err := newTestClient(server.URL, 0).ReverseGeocode(ctx, point)

		assert.NoError(t, err)
		assert.Len(t, results, 2)
		assert.True(t, results[0].IsRoad())
		assert.False(t, results[1].IsRoad())
	})

	t.Run("Zero Results Is Not An Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
		}))
		defer server.Close()

		results, err := newTestClient(server.URL, 0).ReverseGeocode(ctx, point)

		assert.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Provider Error Status Surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "OVER_QUERY_LIMIT"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, 0).ReverseGeocode(ctx, point)

		assert.ErrorContains(t, err, "OVER_QUERY_LIMIT")
	})

	t.Run("Retries Until Success", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"status": "OK", "results": []}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, 2).ReverseGeocode(ctx, point)

		assert.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})
}

func TestNearestRoads(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/nearestRoads", r.URL.Path)
		w.Write([]byte(`{
			"snappedPoints": [
				{"location": {"latitude": 10.6713, "longitude": 122.9466}, "placeId": "abc123"}
			]
		}`))
	}))
	defer server.Close()

	points, err := newTestClient(server.URL, 0).NearestRoads(ctx, geo.Coordinate{Latitude: 10.6712, Longitude: 122.9465})

	assert.NoError(t, err)
	assert.Len(t, points, 1)
	assert.Equal(t, "abc123", points[0].PlaceID)
	assert.InDelta(t, 10.6713, points[0].Location.Latitude, 1e-9)
}

func TestDirections(t *testing.T) {
	ctx := context.Background()
	req := DirectionsRequest{
		Origin:      geo.Coordinate{Latitude: 10.6712, Longitude: 122.9465},
		Destination: geo.Coordinate{Latitude: 10.6639, Longitude: 122.9512},
		Profile:     "driving",
	}

	directionsBody := `{
		"status": "OK",
		"routes": [{
			"overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC"},
			"legs": [{
				"duration": {"value": 600},
				"duration_in_traffic": {"value": 720},
				"distance": {"value": 4000},
				"steps": [
					{"distance": {"value": 150}, "end_location": {"lat": 10.6705, "lng": 122.9470}, "html_instructions": "Head south"}
				]
			}]
		}]
	}`

	t.Run("Parses Legs And Steps", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
			assert.Equal(t, "driving", r.URL.Query().Get("mode"))
			w.Write([]byte(directionsBody))
		}))
		defer server.Close()

		routes, err := newTestClient(server.URL, 0).Directions(ctx, req)

		assert.NoError(t, err)
		assert.Len(t, routes, 1)
		assert.Equal(t, "_p~iF~ps|U_ulLnnqC", routes[0].OverviewPolyline)
		assert.Equal(t, 600, routes[0].Legs[0].DurationSec)
		assert.Equal(t, 720, routes[0].Legs[0].TrafficDurationSec)
		assert.Equal(t, 150, routes[0].Legs[0].Steps[0].DistanceMeters)
	})

	t.Run("Missing Traffic Duration Falls Back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"status": "OK",
				"routes": [{
					"overview_polyline": {"points": ""},
					"legs": [{"duration": {"value": 300}, "distance": {"value": 2000}, "steps": []}]
				}]
			}`))
		}))
		defer server.Close()

		routes, err := newTestClient(server.URL, 0).Directions(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, 300, routes[0].Legs[0].TrafficDurationSec)
	})

	t.Run("Wheelchair Flags Reach The Wire", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("wheelchair"))
			assert.Equal(t, "indoor", r.URL.Query().Get("avoid"))
			w.Write([]byte(directionsBody))
		}))
		defer server.Close()

		wheelchairReq := req
		wheelchairReq.Profile = "walking"
		wheelchairReq.Wheelchair = true

		_, err := newTestClient(server.URL, 0).Directions(ctx, wheelchairReq)
		assert.NoError(t, err)
	})
}
