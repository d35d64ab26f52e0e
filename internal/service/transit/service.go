// Package transit ranks the city's fixed jeepney routes against a free-text
// destination and the rider's position. Scoring is pure computation over
// static reference data; nothing here can fail.
package transit

import (
	"sort"
	"strings"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/pkg/geo"
)

// Scoring weights. Landmark hits dominate, the route's own name counts for
// a little less, and corridor segments least. The proximity bonus decays
// linearly and reaches zero five kilometers from the route's origin.
const (
	landmarkWeight      = 3.0
	routeNameWeight     = 2.0
	pathSegmentWeight   = 1.0
	proximityBonusMaxKm = 5.0
)

type Service interface {
	Score(destinationText string, rider geo.Coordinate) []domain.ScoredRoute
	Suggest(destinationText string, rider geo.Coordinate) domain.RouteSuggestion
	Routes() []domain.JeepneyRoute
}

type service struct {
	routes []domain.JeepneyRoute
}

func NewService() Service {
	return &service{routes: KnownRoutes()}
}

func (s *service) Routes() []domain.JeepneyRoute {
	return s.routes
}

// Score returns every route with a positive score, ranked descending. The
// sort is stable, so ties keep the static table's ordering.
func (s *service) Score(destinationText string, rider geo.Coordinate) []domain.ScoredRoute {
	dest := strings.ToLower(destinationText)

	var scored []domain.ScoredRoute
	for _, route := range s.routes {
		score := scoreRoute(route, dest, rider)
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.ScoredRoute{Route: route, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// Suggest picks the top-ranked route as the primary suggestion and the next
// two as alternatives.
func (s *service) Suggest(destinationText string, rider geo.Coordinate) domain.RouteSuggestion {
	ranked := s.Score(destinationText, rider)
	if len(ranked) == 0 {
		return domain.RouteSuggestion{}
	}

	suggestion := domain.RouteSuggestion{Primary: &ranked[0]}
	if len(ranked) > 1 {
		end := len(ranked)
		if end > 3 {
			end = 3
		}
		suggestion.Alternatives = ranked[1:end]
	}
	return suggestion
}

func scoreRoute(route domain.JeepneyRoute, dest string, rider geo.Coordinate) float64 {
	var score float64

	for _, landmark := range route.Landmarks {
		if strings.Contains(dest, strings.ToLower(landmark)) {
			score += landmarkWeight
		}
	}

	if strings.Contains(dest, strings.ToLower(route.Name)) {
		score += routeNameWeight
	}

	for _, segment := range route.Path {
		if strings.Contains(dest, strings.ToLower(segment)) {
			score += pathSegmentWeight
		}
	}

	if bonus := proximityBonusMaxKm - geo.DistanceKm(rider, route.Origin); bonus > 0 {
		score += bonus
	}

	return score
}
