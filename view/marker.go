package view

import "github.com/zetflow/zetflow-live/model"

// Route colours, by GTFS route type.
const (
	ColorTram    = "#2c8bff"
	ColorBus     = "#294cc2"
	ColorDefault = "#6B7280"
)

// Marker icons.
const (
	IconTram = "tram"
	IconBus  = "bus"
	IconStop = "stop"
)

// DimmedOpacity applies to markers that are not selected while another one is.
const DimmedOpacity = 0.3

// Position is a WGS84 coordinate.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Camera is a map viewport.
type Camera struct {
	Center Position `json:"center"`
	Zoom   float64  `json:"zoom"`
}

// FocusZoom is the zoom used when centring on a vehicle or stop.
const FocusZoom = 16

// DefaultCamera is the initial viewport over Zagreb.
var DefaultCamera = Camera{Center: Position{Lat: 45.8, Lon: 15.985}, Zoom: 12}

// VehicleMarker is one vehicle drawn on the map.
type VehicleMarker struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Snippet  string   `json:"snippet"`
	Position Position `json:"position"`
	Color    string   `json:"color"`
	Icon     string   `json:"icon"`
	Opacity  float64  `json:"opacity"`
	Selected bool     `json:"selected"`
	TripID   string   `json:"tripId,omitempty"`
}

// StopMarker is one stop of the selected trip.
type StopMarker struct {
	Title    string   `json:"title"`
	Snippet  string   `json:"snippet"`
	Position Position `json:"position"`
	Icon     string   `json:"icon"`
}

// RouteColor returns the marker colour for a route type.
func RouteColor(routeType string) string {
	switch routeType {
	case "0":
		return ColorTram
	case "3":
		return ColorBus
	default:
		return ColorDefault
	}
}

// RouteIcon returns IconTram for trams and IconBus for everything else.
func RouteIcon(routeType string) string {
	if routeType == "0" {
		return IconTram
	}
	return IconBus
}

// ActivePosition returns the position of the selected vehicle among vehicles.
// ok is false when nothing is selected, the vehicle is not in the list, or its
// position is incomplete.
func ActivePosition(selectedID string, vehicles []model.VehicleRecord) (Position, bool) {
	if selectedID == "" {
		return Position{}, false
	}
	for _, v := range vehicles {
		if v.ID == nil || *v.ID != selectedID {
			continue
		}
		lat, lon, ok := v.Position()
		if !ok {
			return Position{}, false
		}
		return Position{Lat: lat, Lon: lon}, true
	}
	return Position{}, false
}

// FocusCamera returns the camera for the selected vehicle, or fallback when
// there is no active position.
func FocusCamera(selectedID string, vehicles []model.VehicleRecord, fallback Camera) Camera {
	if pos, ok := ActivePosition(selectedID, vehicles); ok {
		return Camera{Center: pos, Zoom: FocusZoom}
	}
	return fallback
}

// VehicleMarkers builds one marker per vehicle that has both an id and a full
// position. When selectedID is set, every other marker is dimmed.
func VehicleMarkers(vehicles []model.VehicleRecord, selectedID string) []VehicleMarker {
	hasSelection := selectedID != ""
	markers := make([]VehicleMarker, 0, len(vehicles))
	for _, v := range vehicles {
		if v.ID == nil {
			continue
		}
		lat, lon, ok := v.Position()
		if !ok {
			continue
		}
		routeType := model.Deref(v.RouteType)
		selected := *v.ID == selectedID

		opacity := 1.0
		if hasSelection && !selected {
			opacity = DimmedOpacity
		}
		markers = append(markers, VehicleMarker{
			ID:       *v.ID,
			Title:    model.Deref(v.RouteID),
			Snippet:  model.Deref(v.RouteLongName),
			Position: Position{Lat: lat, Lon: lon},
			Color:    RouteColor(routeType),
			Icon:     RouteIcon(routeType),
			Opacity:  opacity,
			Selected: selected,
			TripID:   model.Deref(v.TripID),
		})
	}
	return markers
}

// StopMarkers builds one marker per stop of trip that has a full position, in
// visiting order. A nil trip yields no markers.
func StopMarkers(trip *model.TripDetail) []StopMarker {
	if trip == nil {
		return []StopMarker{}
	}
	markers := make([]StopMarker, 0, len(trip.StopTimes))
	for _, s := range trip.StopTimes {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		markers = append(markers, StopMarker{
			Title:    orNA(s.StopName),
			Snippet:  "Arrival: " + orNA(s.ArrivalTime),
			Position: Position{Lat: *s.Latitude, Lon: *s.Longitude},
			Icon:     IconStop,
		})
	}
	return markers
}

func orNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}
