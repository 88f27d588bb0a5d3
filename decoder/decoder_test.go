package decoder

import (
	"encoding/json"
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/zetflow/zetflow-live/model"
)

func TestJSON_SingleVehicle(t *testing.T) {
	vehicles, err := JSON.Decode([]byte(`[{"id":"V1","routeId":"5","latitude":45.8,"longitude":15.98}]`))
	require.NoError(t, err)
	require.Len(t, vehicles, 1)

	v := vehicles[0]
	assert.Equal(t, "V1", *v.ID)
	assert.Equal(t, "5", *v.RouteID)
	assert.Equal(t, 45.8, *v.Latitude)
	assert.Equal(t, 15.98, *v.Longitude)
	assert.Nil(t, v.RouteType)
	assert.Nil(t, v.RouteLongName)
	assert.Nil(t, v.TripID)
}

func TestJSON_RoundTripPreservesPresentFields(t *testing.T) {
	inputs := []string{
		`[]`,
		`[{"id":"V1"}]`,
		`[{"id":"V1","routeId":"5","routeType":"3","routeLongName":"Ljubljanica - Dubec","latitude":45.8,"longitude":15.98,"tripId":"T1"},{"routeId":"12"}]`,
		`[{"latitude":0,"longitude":0},{"id":""}]`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			vehicles, err := JSON.Decode([]byte(in))
			require.NoError(t, err)
			out, err := json.Marshal(vehicles)
			require.NoError(t, err)
			assert.JSONEq(t, in, string(out))
		})
	}
}

func TestJSON_IgnoresUnknownKeys(t *testing.T) {
	vehicles, err := JSON.Decode([]byte(`[{"id":"V9","bearing":120,"extra":{"nested":true}}]`))
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "V9", *vehicles[0].ID)
}

func TestJSON_PreservesOrder(t *testing.T) {
	vehicles, err := JSON.Decode([]byte(`[{"id":"c"},{"id":"a"},{"id":"b"}]`))
	require.NoError(t, err)
	var ids []string
	for _, v := range vehicles {
		ids = append(ids, *v.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestJSON_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `not json`},
		{name: "empty", payload: ``},
		{name: "object instead of array", payload: `{"id":"V1"}`},
		{name: "null", payload: `null`},
		{name: "null element", payload: `[null]`},
		{name: "wrong field type", payload: `[{"latitude":"north"}]`},
		{name: "truncated", payload: `[{"id":"V1"`},
		{name: "array of scalars", payload: `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vehicles, err := JSON.Decode([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, vehicles)
		})
	}
}

func feedMessage(t *testing.T) []byte {
	t.Helper()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{GtfsRealtimeVersion: proto.String("2.0")},
		Entity: []*gtfsrtpb.FeedEntity{
			{
				Id: proto.String("e1"),
				Vehicle: &gtfsrtpb.VehiclePosition{
					Vehicle:  &gtfsrtpb.VehicleDescriptor{Id: proto.String("V1")},
					Trip:     &gtfsrtpb.TripDescriptor{TripId: proto.String("T1"), RouteId: proto.String("6")},
					Position: &gtfsrtpb.Position{Latitude: proto.Float32(45.5), Longitude: proto.Float32(16)},
				},
			},
			{
				Id:         proto.String("e2"),
				TripUpdate: &gtfsrtpb.TripUpdate{Trip: &gtfsrtpb.TripDescriptor{TripId: proto.String("T2")}},
			},
			{
				Id:      proto.String("e3"),
				Vehicle: &gtfsrtpb.VehiclePosition{},
			},
		},
	}
	b, err := proto.Marshal(fm)
	require.NoError(t, err)
	return b
}

func TestProtobuf_VehiclePositions(t *testing.T) {
	vehicles, err := Protobuf.Decode(feedMessage(t))
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	assert.Equal(t, "V1", model.Deref(vehicles[0].ID))
	assert.Equal(t, "T1", model.Deref(vehicles[0].TripID))
	assert.Equal(t, "6", model.Deref(vehicles[0].RouteID))
	assert.InDelta(t, 45.5, *vehicles[0].Latitude, 1e-6)
	assert.InDelta(t, 16.0, *vehicles[0].Longitude, 1e-6)
	assert.Nil(t, vehicles[0].RouteType)

	assert.Equal(t, model.VehicleRecord{}, vehicles[1])
}

func TestProtobuf_Malformed(t *testing.T) {
	_, err := Protobuf.Decode([]byte{0xff, 0xff, 0xff})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestByContentType(t *testing.T) {
	d := ByContentType()

	vehicles, err := d.DecodeContent("application/x-protobuf", feedMessage(t))
	require.NoError(t, err)
	assert.Len(t, vehicles, 2)

	vehicles, err = d.DecodeContent("application/json;charset=UTF-8", []byte(`[{"id":"V1"}]`))
	require.NoError(t, err)
	assert.Len(t, vehicles, 1)

	vehicles, err = d.DecodeContent("", []byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, vehicles)

	_, err = d.Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestIsProtobuf(t *testing.T) {
	assert.True(t, IsProtobuf("application/x-protobuf"))
	assert.True(t, IsProtobuf(" Application/Octet-Stream ; q=1"))
	assert.True(t, IsProtobuf("application/protobuf"))
	assert.False(t, IsProtobuf("application/json"))
	assert.False(t, IsProtobuf(""))
}
