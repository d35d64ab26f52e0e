package domain

import "akses-lakbay/internal/pkg/geo"

// TravelMode is the closed set of transport modes the route aggregator
// understands. Informal transit rides the road network, so it routes with the
// driving profile.
type TravelMode string

const (
	ModeDriving         TravelMode = "driving"
	ModeWalking         TravelMode = "walking"
	ModeInformalTransit TravelMode = "jeepney"
)

func (m TravelMode) IsValid() bool {
	switch m {
	case ModeDriving, ModeWalking, ModeInformalTransit:
		return true
	default:
		return false
	}
}

// RoutingProfile maps the mode onto the profile the directions service
// accepts.
func (m TravelMode) RoutingProfile() string {
	if m == ModeInformalTransit {
		return string(ModeDriving)
	}
	return string(m)
}

// NavigationRequest is a per-session routing query. It is never persisted.
type NavigationRequest struct {
	Rider            geo.Coordinate `json:"rider"`
	Destination      geo.Coordinate `json:"destination"`
	DestinationLabel string         `json:"destination_label"`
	Modes            []TravelMode   `json:"modes"`
	SelectedMode     TravelMode     `json:"selected_mode"`
	PreferAccessible bool           `json:"prefer_accessible"`
}

// RoadPosition is the outcome of deciding whether a rider is already on a
// drivable road. WalkTarget is set only when they are not.
type RoadPosition struct {
	OnRoad     bool            `json:"on_road"`
	WalkTarget *geo.Coordinate `json:"walk_target,omitempty"`
}

type ModeMetrics struct {
	DurationSec        int `json:"duration_sec"`
	TrafficDurationSec int `json:"traffic_duration_sec"`
	DistanceMeters     int `json:"distance_meters"`
}

// AccessibleOptions holds the two walking variants fetched when an
// accessibility-preferring route is requested.
type AccessibleOptions struct {
	Fastest        ModeMetrics `json:"fastest"`
	MostAccessible ModeMetrics `json:"most_accessible"`
}

// RoutePlan is the merged result of one aggregation: road position, per-mode
// metrics, and the decoded polyline of the selected display mode. Modes whose
// directions request failed appear in FailedModes and nowhere else.
type RoutePlan struct {
	Road        RoadPosition               `json:"road"`
	Metrics     map[TravelMode]ModeMetrics `json:"metrics"`
	FailedModes []TravelMode               `json:"failed_modes,omitempty"`
	Polyline    []geo.Coordinate           `json:"polyline,omitempty"`
	Accessible  *AccessibleOptions         `json:"accessible,omitempty"`
}
