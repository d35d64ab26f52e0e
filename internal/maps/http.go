package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"akses-lakbay/internal/config"
	"akses-lakbay/internal/pkg/geo"
)

// httpClient talks to a Google-compatible mapping API. Every call carries a
// timeout and is retried a bounded number of times before the error surfaces.
type httpClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	retries int
	client  *http.Client
}

func NewHTTPClient(cfg *config.Config) Client {
	return &httpClient{
		baseURL: cfg.MapsBaseURL,
		apiKey:  cfg.MapsAPIKey,
		timeout: cfg.MapsTimeout,
		retries: cfg.MapsRetries,
		client:  &http.Client{},
	}
}

func (c *httpClient) ReverseGeocode(ctx context.Context, point geo.Coordinate) ([]GeocodeResult, error) {
	params := url.Values{}
	params.Set("latlng", formatPoint(point))

	var resp struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string   `json:"formatted_address"`
			Types            []string `json:"types"`
		} `json:"results"`
	}

	if err := c.get(ctx, "/maps/api/geocode/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("geocode request failed: %s", resp.Status)
	}

	results := make([]GeocodeResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, GeocodeResult{
			FormattedAddress: r.FormattedAddress,
			Types:            r.Types,
		})
	}
	return results, nil
}

func (c *httpClient) NearestRoads(ctx context.Context, point geo.Coordinate) ([]SnappedPoint, error) {
	params := url.Values{}
	params.Set("points", formatPoint(point))

	var resp struct {
		SnappedPoints []struct {
			Location struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"location"`
			PlaceID string `json:"placeId"`
		} `json:"snappedPoints"`
	}

	if err := c.get(ctx, "/v1/nearestRoads", params, &resp); err != nil {
		return nil, err
	}

	points := make([]SnappedPoint, 0, len(resp.SnappedPoints))
	for _, p := range resp.SnappedPoints {
		points = append(points, SnappedPoint{
			Location: geo.Coordinate{Latitude: p.Location.Latitude, Longitude: p.Location.Longitude},
			PlaceID:  p.PlaceID,
		})
	}
	return points, nil
}

func (c *httpClient) Directions(ctx context.Context, req DirectionsRequest) ([]Route, error) {
	params := url.Values{}
	params.Set("origin", formatPoint(req.Origin))
	params.Set("destination", formatPoint(req.Destination))
	params.Set("mode", req.Profile)
	params.Set("departure_time", "now")
	params.Set("alternatives", strconv.FormatBool(req.Alternatives))
	if req.Wheelchair {
		params.Set("avoid", "indoor")
		params.Set("wheelchair", "true")
	}
	if req.Optimize {
		params.Set("transit_routing_preference", "fewer_transfers")
	}

	var resp struct {
		Status string `json:"status"`
		Routes []struct {
			OverviewPolyline struct {
				Points string `json:"points"`
			} `json:"overview_polyline"`
			Legs []struct {
				Duration          durationValue `json:"duration"`
				DurationInTraffic durationValue `json:"duration_in_traffic"`
				Distance          distanceValue `json:"distance"`
				Steps             []struct {
					Distance    distanceValue `json:"distance"`
					EndLocation latLng        `json:"end_location"`
					Instruction string        `json:"html_instructions"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}

	if err := c.get(ctx, "/maps/api/directions/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("directions request failed: %s", resp.Status)
	}

	routes := make([]Route, 0, len(resp.Routes))
	for _, r := range resp.Routes {
		route := Route{OverviewPolyline: r.OverviewPolyline.Points}
		for _, l := range r.Legs {
			leg := Leg{
				DurationSec:        l.Duration.Value,
				TrafficDurationSec: l.DurationInTraffic.Value,
				DistanceMeters:     l.Distance.Value,
			}
			if leg.TrafficDurationSec == 0 {
				leg.TrafficDurationSec = leg.DurationSec
			}
			for _, s := range l.Steps {
				leg.Steps = append(leg.Steps, Step{
					DistanceMeters: s.Distance.Value,
					EndLocation:    geo.Coordinate{Latitude: s.EndLocation.Lat, Longitude: s.EndLocation.Lng},
					Instruction:    s.Instruction,
				})
			}
			route.Legs = append(route.Legs, leg)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

type durationValue struct {
	Value int `json:"value"`
}

type distanceValue struct {
	Value int `json:"value"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		lastErr = c.getOnce(ctx, endpoint, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}

func (c *httpClient) getOnce(ctx context.Context, endpoint string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps API returned %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func formatPoint(p geo.Coordinate) string {
	return strconv.FormatFloat(p.Latitude, 'f', 6, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', 6, 64)
}
