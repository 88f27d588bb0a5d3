package view

import (
	"strings"

	"github.com/zetflow/zetflow-live/model"
)

// SearchResult is one route matching a search, shown once however many
// vehicles run on it.
type SearchResult struct {
	RouteID   string `json:"routeId"`
	RouteName string `json:"routeName"`
	RouteType string `json:"routeType"`
}

// FilterVehicles returns the vehicles whose route id or route long name
// contains query, ignoring case and surrounding whitespace. A blank query
// returns vehicles unchanged. Order is preserved.
func FilterVehicles(vehicles []model.VehicleRecord, query string) []model.VehicleRecord {
	term := normalize(query)
	if term == "" {
		return vehicles
	}

	out := make([]model.VehicleRecord, 0, len(vehicles))
	for _, v := range vehicles {
		if containsFold(v.RouteID, term) || containsFold(v.RouteLongName, term) {
			out = append(out, v)
		}
	}
	return out
}

// SearchRoutes lists the distinct routes among the vehicles matching query, in
// the order each route is first seen. Vehicles without a route id are skipped.
// A blank query yields no results.
func SearchRoutes(vehicles []model.VehicleRecord, query string) []SearchResult {
	if normalize(query) == "" {
		return []SearchResult{}
	}

	seen := make(map[string]struct{})
	results := []SearchResult{}
	for _, v := range FilterVehicles(vehicles, query) {
		routeID := model.Deref(v.RouteID)
		if strings.TrimSpace(routeID) == "" {
			continue
		}
		if _, dup := seen[routeID]; dup {
			continue
		}
		seen[routeID] = struct{}{}
		results = append(results, SearchResult{
			RouteID:   routeID,
			RouteName: model.Deref(v.RouteLongName),
			RouteType: model.Deref(v.RouteType),
		})
	}
	return results
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFold(field *string, term string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), term)
}
