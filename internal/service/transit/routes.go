package transit

import (
	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/pkg/geo"
)

// landmarkCoords maps each route landmark to its coordinate. The table is
// reference data for Bacolod City and is never mutated at runtime.
var landmarkCoords = map[string]geo.Coordinate{
	"Bata":           {Latitude: 10.7065, Longitude: 122.9574},
	"Mandalagan":     {Latitude: 10.6957, Longitude: 122.9565},
	"Banago":         {Latitude: 10.7019, Longitude: 122.9399},
	"Shopping":       {Latitude: 10.6798, Longitude: 122.9576},
	"Villamonte":     {Latitude: 10.6691, Longitude: 122.9555},
	"Alijis":         {Latitude: 10.6499, Longitude: 122.9586},
	"Mansilingan":    {Latitude: 10.6421, Longitude: 122.9706},
	"Sum-ag":         {Latitude: 10.6067, Longitude: 122.9482},
	"Tangub":         {Latitude: 10.6253, Longitude: 122.9419},
	"Libertad":       {Latitude: 10.6639, Longitude: 122.9512},
	"Central Market": {Latitude: 10.6712, Longitude: 122.9465},
	"Plaza":          {Latitude: 10.6765, Longitude: 122.9509},
	"Capitol":        {Latitude: 10.6777, Longitude: 122.9545},
	"La Salle":       {Latitude: 10.6800, Longitude: 122.9620},
}

// bacolodRoutes is the known jeepney network, in display order. Order matters:
// the scorer's sort is stable, so equal scores keep this ordering.
var bacolodRoutes = []struct {
	name      string
	landmarks []string
	path      []string
}{
	{
		name:      "Bata-Libertad",
		landmarks: []string{"Bata", "Capitol", "Plaza", "Central Market", "Libertad"},
		path:      []string{"Bata Terminal", "Lacson Street", "Rizal Street", "Libertad Market"},
	},
	{
		name:      "Mandalagan-Libertad",
		landmarks: []string{"Mandalagan", "Capitol", "Plaza", "Libertad"},
		path:      []string{"Mandalagan Terminal", "Lacson Street", "Gonzaga Street", "Libertad Market"},
	},
	{
		name:      "Banago-Libertad",
		landmarks: []string{"Banago", "Plaza", "Central Market", "Libertad"},
		path:      []string{"Banago Wharf", "San Juan Street", "Libertad Market"},
	},
	{
		name:      "Shopping-Libertad",
		landmarks: []string{"Shopping", "La Salle", "Plaza", "Central Market", "Libertad"},
		path:      []string{"Shopping Center", "Benigno Aquino Drive", "San Sebastian Street", "Libertad Market"},
	},
	{
		name:      "Villamonte-Libertad",
		landmarks: []string{"Villamonte", "Capitol", "Libertad"},
		path:      []string{"Villamonte", "6th Street", "Gatuslao Street", "Libertad Market"},
	},
	{
		name:      "Alijis-Libertad",
		landmarks: []string{"Alijis", "Villamonte", "Libertad"},
		path:      []string{"Alijis Road", "Carlos Hilado Highway", "Libertad Market"},
	},
	{
		name:      "Mansilingan-Libertad",
		landmarks: []string{"Mansilingan", "Alijis", "Central Market", "Libertad"},
		path:      []string{"Mansilingan", "Airport Road", "Araneta Avenue", "Libertad Market"},
	},
	{
		name:      "Sum-ag-Libertad",
		landmarks: []string{"Sum-ag", "Tangub", "Central Market", "Libertad"},
		path:      []string{"Sum-ag Terminal", "Araneta Avenue", "Libertad Market"},
	},
}

// KnownRoutes builds the route table with landmark origins resolved.
func KnownRoutes() []domain.JeepneyRoute {
	routes := make([]domain.JeepneyRoute, 0, len(bacolodRoutes))
	for _, r := range bacolodRoutes {
		routes = append(routes, domain.JeepneyRoute{
			Name:      r.name,
			Landmarks: r.landmarks,
			Path:      r.path,
			Origin:    landmarkCoords[r.landmarks[0]],
		})
	}
	return routes
}
