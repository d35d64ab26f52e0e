package domain

import "akses-lakbay/internal/pkg/geo"

// JeepneyRoute is a fixed informal-transit route described by the ordered
// landmarks it passes. Routes are static reference data loaded at startup and
// never mutated.
type JeepneyRoute struct {
	Name      string   `json:"name"`
	Landmarks []string `json:"landmarks"`
	// Path is the human-readable corridor description, one segment per
	// stretch of road the route follows.
	Path []string `json:"path"`
	// Origin is the coordinate of the route's first landmark, used for the
	// rider-proximity bonus when scoring.
	Origin geo.Coordinate `json:"origin"`
}

type ScoredRoute struct {
	Route JeepneyRoute `json:"route"`
	Score float64      `json:"score"`
}

// RouteSuggestion carries the top-ranked route plus up to two alternatives.
type RouteSuggestion struct {
	Primary      *ScoredRoute  `json:"primary,omitempty"`
	Alternatives []ScoredRoute `json:"alternatives,omitempty"`
}
