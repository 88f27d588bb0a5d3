package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zetflow/zetflow-live/model"
)

func vehicle(id, routeID, routeType, name string, lat, lon *float64) model.VehicleRecord {
	v := model.VehicleRecord{Latitude: lat, Longitude: lon}
	if id != "" {
		v.ID = model.Str(id)
	}
	if routeID != "" {
		v.RouteID = model.Str(routeID)
	}
	if routeType != "" {
		v.RouteType = model.Str(routeType)
	}
	if name != "" {
		v.RouteLongName = model.Str(name)
	}
	return v
}

func fleet() []model.VehicleRecord {
	return []model.VehicleRecord{
		vehicle("V1", "6", "0", "Sopot - Črnomerec", model.Float(45.80), model.Float(15.98)),
		vehicle("V2", "109", "3", "Dubrava - Čulinec", model.Float(45.82), model.Float(16.05)),
		vehicle("V3", "6", "0", "Sopot - Črnomerec", model.Float(45.79), nil),
		vehicle("V4", "", "3", "Unrouted - depot", model.Float(45.81), model.Float(15.90)),
		vehicle("", "16", "0", "Ghost", model.Float(45.77), model.Float(15.95)),
	}
}

func ids(vs []model.VehicleRecord) []string {
	out := []string{}
	for _, v := range vs {
		out = append(out, model.Deref(v.ID))
	}
	return out
}

func TestFilterVehicles(t *testing.T) {
	vs := fleet()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "blank returns all", query: "   ", want: []string{"V1", "V2", "V3", "V4", ""}},
		{name: "route id", query: "6", want: []string{"V1", "V3", ""}},
		{name: "route name case-insensitive", query: "  SOPOT ", want: []string{"V1", "V3"}},
		{name: "unicode name", query: "čulinec", want: []string{"V2"}},
		{name: "name only vehicle", query: "unrouted", want: []string{"V4"}},
		{name: "no match", query: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterVehicles(vs, tt.query)))
		})
	}
}

func TestFilterVehicles_DoesNotMutateInput(t *testing.T) {
	vs := fleet()
	_ = FilterVehicles(vs, "109")
	assert.Equal(t, []string{"V1", "V2", "V3", "V4", ""}, ids(vs))
}

func TestSearchRoutes(t *testing.T) {
	vs := fleet()

	assert.Empty(t, SearchRoutes(vs, ""))
	assert.NotNil(t, SearchRoutes(vs, " "))

	got := SearchRoutes(vs, " - ")
	assert.Equal(t, []SearchResult{
		{RouteID: "6", RouteName: "Sopot - Črnomerec", RouteType: "0"},
		{RouteID: "109", RouteName: "Dubrava - Čulinec", RouteType: "3"},
	}, got, "distinct routes in first-seen order, unrouted vehicles skipped")

	assert.Equal(t, []SearchResult{{RouteID: "109", RouteName: "Dubrava - Čulinec", RouteType: "3"}}, SearchRoutes(vs, "10"))
}

func TestSearchRoutes_MissingNameAndType(t *testing.T) {
	vs := []model.VehicleRecord{vehicle("V1", "42", "", "", nil, nil)}
	assert.Equal(t, []SearchResult{{RouteID: "42"}}, SearchRoutes(vs, "42"))
}

func TestActivePosition(t *testing.T) {
	vs := fleet()

	pos, ok := ActivePosition("V2", vs)
	require.True(t, ok)
	assert.Equal(t, Position{Lat: 45.82, Lon: 16.05}, pos)

	_, ok = ActivePosition("", vs)
	assert.False(t, ok, "nothing selected")

	_, ok = ActivePosition("V3", vs)
	assert.False(t, ok, "incomplete position")

	_, ok = ActivePosition("V9", vs)
	assert.False(t, ok, "not in list")

	_, ok = ActivePosition("V2", FilterVehicles(vs, "sopot"))
	assert.False(t, ok, "filtered out")
}

func TestFocusCamera(t *testing.T) {
	vs := fleet()
	assert.Equal(t, Camera{Center: Position{Lat: 45.80, Lon: 15.98}, Zoom: FocusZoom}, FocusCamera("V1", vs, DefaultCamera))
	assert.Equal(t, DefaultCamera, FocusCamera("V3", vs, DefaultCamera))
	assert.Equal(t, Position{Lat: 45.8, Lon: 15.985}, DefaultCamera.Center)
}

func TestRouteColorAndIcon(t *testing.T) {
	assert.Equal(t, "#2c8bff", RouteColor("0"))
	assert.Equal(t, "#294cc2", RouteColor("3"))
	assert.Equal(t, "#6B7280", RouteColor(""))
	assert.Equal(t, "#6B7280", RouteColor("2"))

	assert.Equal(t, IconTram, RouteIcon("0"))
	assert.Equal(t, IconBus, RouteIcon("3"))
	assert.Equal(t, IconBus, RouteIcon(""))
}

func TestVehicleMarkers(t *testing.T) {
	vs := fleet()

	markers := VehicleMarkers(vs, "")
	require.Len(t, markers, 3, "vehicles without an id or a full position are not drawn")
	for _, m := range markers {
		assert.Equal(t, 1.0, m.Opacity)
		assert.False(t, m.Selected)
	}
	assert.Equal(t, VehicleMarker{
		ID:       "V1",
		Title:    "6",
		Snippet:  "Sopot - Črnomerec",
		Position: Position{Lat: 45.80, Lon: 15.98},
		Color:    ColorTram,
		Icon:     IconTram,
		Opacity:  1,
	}, markers[0])

	markers = VehicleMarkers(vs, "V2")
	require.Len(t, markers, 3)
	assert.Equal(t, DimmedOpacity, markers[0].Opacity)
	assert.True(t, markers[1].Selected)
	assert.Equal(t, 1.0, markers[1].Opacity)
	assert.Equal(t, ColorBus, markers[1].Color)
	assert.Equal(t, DimmedOpacity, markers[2].Opacity)
	assert.Empty(t, markers[2].Title)
}

func TestStopMarkers(t *testing.T) {
	assert.Empty(t, StopMarkers(nil))

	trip := &model.TripDetail{
		TripID: "T1",
		StopTimes: []model.StopVisit{
			{StopName: model.Str("Sopot"), ArrivalTime: model.Str("08:00:00"), Latitude: model.Float(45.78), Longitude: model.Float(15.98)},
			{StopName: model.Str("No position")},
			{Latitude: model.Float(45.81), Longitude: model.Float(15.93)},
		},
	}
	assert.Equal(t, []StopMarker{
		{Title: "Sopot", Snippet: "Arrival: 08:00:00", Position: Position{Lat: 45.78, Lon: 15.98}, Icon: IconStop},
		{Title: "N/A", Snippet: "Arrival: N/A", Position: Position{Lat: 45.81, Lon: 15.93}, Icon: IconStop},
	}, StopMarkers(trip))
}
