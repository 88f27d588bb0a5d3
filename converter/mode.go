package converter

import (
	"strconv"
	"strings"
)

// VehicleModeForRouteType maps a GTFS route_type, as carried in the feed, to a
// SIRI VehicleMode. ok is false when routeType is blank or not a number.
// See: https://gtfs.org/schedule/reference/#routestxt
func VehicleModeForRouteType(routeType string) (mode string, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(routeType))
	if err != nil {
		return "", false
	}
	return mapGTFSRouteTypeToSIRIVehicleMode(n), true
}

func mapGTFSRouteTypeToSIRIVehicleMode(routeType int) string {
	switch routeType {
	case 0:
		return "tram"
	case 1:
		return "metro"
	case 2:
		return "rail"
	case 3:
		return "bus"
	case 4:
		return "ferry"
	case 5:
		return "cableTram"
	case 6:
		return "aerialLift"
	case 7:
		return "funicular"
	case 11:
		return "trolleybus"
	case 12:
		return "monorail"
	default:
		return "bus"
	}
}
