// Package navigation resolves whether a rider is on the road network and
// merges per-mode direction requests into a single route plan. Every upstream
// failure degrades: an unreachable geocoder means "assume on-road", a failed
// mode drops out of the plan without touching the others.
package navigation

import (
	"context"
	"errors"
	"log"
	"sync"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/maps"
	"akses-lakbay/internal/pkg/geo"
)

var ErrNoModes = errors.New("at least one travel mode is required")

const (
	// fallbackFirstStepM: a first walking step longer than this means the
	// rider has to walk to reach a road.
	fallbackFirstStepM = 30
	// syntheticOffsetDeg displaces the probe destination when the rider has
	// not picked one yet (~1.1 km at the equator).
	syntheticOffsetDeg = 0.01
)

type Service interface {
	ResolveRoadPosition(ctx context.Context, rider geo.Coordinate, destination *geo.Coordinate) domain.RoadPosition
	Aggregate(ctx context.Context, req domain.NavigationRequest) (*domain.RoutePlan, error)
}

type service struct {
	maps        maps.Client
	snapRadiusM float64
}

func NewService(mapsClient maps.Client, snapRadiusM float64) Service {
	return &service{
		maps:        mapsClient,
		snapRadiusM: snapRadiusM,
	}
}

// ResolveRoadPosition decides whether the rider's coordinate already sits on
// a drivable road. Primary strategy: reverse geocode and check the
// classification, then snap to the nearest road and compare against the snap
// radius. Fallback (geocoder unavailable): probe with a walking request and
// inspect the first step. If everything fails the rider is assumed on-road.
func (s *service) ResolveRoadPosition(ctx context.Context, rider geo.Coordinate, destination *geo.Coordinate) domain.RoadPosition {
	results, err := s.maps.ReverseGeocode(ctx, rider)
	if err != nil {
		log.Printf("reverse geocode failed, probing with walking directions: %v", err)
		return s.resolveByWalkingProbe(ctx, rider, destination)
	}

	for _, r := range results {
		if r.IsRoad() {
			return domain.RoadPosition{OnRoad: true}
		}
	}

	snapped, err := s.maps.NearestRoads(ctx, rider)
	if err != nil || len(snapped) == 0 {
		if err != nil {
			log.Printf("road snap failed, probing with walking directions: %v", err)
		}
		return s.resolveByWalkingProbe(ctx, rider, destination)
	}

	roadPoint := snapped[0].Location
	if geo.DistanceMeters(rider, roadPoint) <= s.snapRadiusM {
		return domain.RoadPosition{OnRoad: true}
	}
	return domain.RoadPosition{OnRoad: false, WalkTarget: &roadPoint}
}

func (s *service) resolveByWalkingProbe(ctx context.Context, rider geo.Coordinate, destination *geo.Coordinate) domain.RoadPosition {
	target := geo.Coordinate{
		Latitude:  rider.Latitude + syntheticOffsetDeg,
		Longitude: rider.Longitude + syntheticOffsetDeg,
	}
	if destination != nil {
		target = *destination
	}

	routes, err := s.maps.Directions(ctx, maps.DirectionsRequest{
		Origin:      rider,
		Destination: target,
		Profile:     domain.ModeWalking.RoutingProfile(),
	})
	if err != nil || len(routes) == 0 || len(routes[0].Legs) == 0 || len(routes[0].Legs[0].Steps) == 0 {
		// Fail open: an extra zero-length walk segment beats blocking
		// navigation outright.
		return domain.RoadPosition{OnRoad: true}
	}

	first := routes[0].Legs[0].Steps[0]
	if first.DistanceMeters > fallbackFirstStepM {
		return domain.RoadPosition{OnRoad: false, WalkTarget: &first.EndLocation}
	}
	return domain.RoadPosition{OnRoad: true}
}

// Aggregate resolves the road position once, then requests directions per
// mode. The decoded polyline is kept only for the selected display mode;
// metrics are kept for every mode that succeeded.
func (s *service) Aggregate(ctx context.Context, req domain.NavigationRequest) (*domain.RoutePlan, error) {
	if len(req.Modes) == 0 {
		return nil, ErrNoModes
	}

	road := s.ResolveRoadPosition(ctx, req.Rider, &req.Destination)

	origin := req.Rider
	if !road.OnRoad && road.WalkTarget != nil {
		origin = *road.WalkTarget
	}

	plan := &domain.RoutePlan{
		Road:    road,
		Metrics: make(map[domain.TravelMode]domain.ModeMetrics),
	}

	for _, mode := range req.Modes {
		if !mode.IsValid() {
			continue
		}

		routes, err := s.maps.Directions(ctx, maps.DirectionsRequest{
			Origin:      origin,
			Destination: req.Destination,
			Profile:     mode.RoutingProfile(),
		})
		if err != nil || len(routes) == 0 || len(routes[0].Legs) == 0 {
			if err != nil {
				log.Printf("directions failed for mode %s: %v", mode, err)
			}
			plan.FailedModes = append(plan.FailedModes, mode)
			continue
		}

		plan.Metrics[mode] = sumLegs(routes[0].Legs)
		if mode == req.SelectedMode {
			plan.Polyline = geo.DecodePolyline(routes[0].OverviewPolyline)
		}
	}

	if req.PreferAccessible {
		s.fetchAccessibleOptions(ctx, plan, origin, req.Destination)
	}

	return plan, nil
}

// fetchAccessibleOptions issues the two accessible-walking variants as one
// concurrent pair. Both results are retained; the most-accessible variant
// also overwrites the generic walking metrics for display.
func (s *service) fetchAccessibleOptions(ctx context.Context, plan *domain.RoutePlan, origin, destination geo.Coordinate) {
	requests := []maps.DirectionsRequest{
		{Origin: origin, Destination: destination, Profile: domain.ModeWalking.RoutingProfile(), Wheelchair: true},
		{Origin: origin, Destination: destination, Profile: domain.ModeWalking.RoutingProfile(), Wheelchair: true, Optimize: true},
	}

	results := make([]*domain.ModeMetrics, len(requests))

	var wg sync.WaitGroup
	for i, r := range requests {
		wg.Add(1)
		go func(i int, r maps.DirectionsRequest) {
			defer wg.Done()
			routes, err := s.maps.Directions(ctx, r)
			if err != nil || len(routes) == 0 || len(routes[0].Legs) == 0 {
				if err != nil {
					log.Printf("accessible directions variant failed: %v", err)
				}
				return
			}
			m := sumLegs(routes[0].Legs)
			results[i] = &m
		}(i, r)
	}
	wg.Wait()

	if results[0] == nil && results[1] == nil {
		return
	}

	options := &domain.AccessibleOptions{}
	if results[0] != nil {
		options.Fastest = *results[0]
	}
	if results[1] != nil {
		options.MostAccessible = *results[1]
		plan.Metrics[domain.ModeWalking] = *results[1]
	} else if results[0] != nil {
		options.MostAccessible = *results[0]
		plan.Metrics[domain.ModeWalking] = *results[0]
	}
	plan.Accessible = options
}

func sumLegs(legs []maps.Leg) domain.ModeMetrics {
	var m domain.ModeMetrics
	for _, leg := range legs {
		m.DurationSec += leg.DurationSec
		m.TrafficDurationSec += leg.TrafficDurationSec
		m.DistanceMeters += leg.DistanceMeters
	}
	return m
}
