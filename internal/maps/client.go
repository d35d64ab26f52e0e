// Package maps wraps the external mapping service: reverse geocoding,
// road snapping, and directions. Request/response contracts are owned by the
// upstream provider; this package only narrows them to what the route
// advisory needs.
package maps

import (
	"context"

	"akses-lakbay/internal/pkg/geo"
)

type Client interface {
	ReverseGeocode(ctx context.Context, point geo.Coordinate) ([]GeocodeResult, error)
	NearestRoads(ctx context.Context, point geo.Coordinate) ([]SnappedPoint, error)
	Directions(ctx context.Context, req DirectionsRequest) ([]Route, error)
}

// GeocodeResult is one reverse-geocoding hit. Types carries the provider's
// classification tags ("route", "street_address", "plus_code", ...).
type GeocodeResult struct {
	FormattedAddress string
	Types            []string
}

// IsRoad reports whether the result classifies the queried point as lying on
// the road network.
func (g GeocodeResult) IsRoad() bool {
	for _, t := range g.Types {
		if t == "route" || t == "street_address" {
			return true
		}
	}
	return false
}

// SnappedPoint is a coordinate projected onto the nearest known road.
type SnappedPoint struct {
	Location geo.Coordinate
	PlaceID  string
}

type DirectionsRequest struct {
	Origin      geo.Coordinate
	Destination geo.Coordinate
	// Profile is the provider travel profile ("driving" or "walking").
	Profile      string
	Alternatives bool
	// Wheelchair asks for step-free routing where the provider supports it.
	Wheelchair bool
	// Optimize prefers the fewest-transfer / most-accessible variant over the
	// fastest one.
	Optimize bool
}

type Route struct {
	OverviewPolyline string
	Legs             []Leg
}

type Leg struct {
	DurationSec        int
	TrafficDurationSec int
	DistanceMeters     int
	Steps              []Step
}

type Step struct {
	DistanceMeters int
	EndLocation    geo.Coordinate
	Instruction    string
}
