package decoder

import (
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/zetflow/zetflow-live/model"
)

// Protobuf decodes a GTFS-Realtime FeedMessage and keeps every entity that carries
// a vehicle position. Route type and name are not part of GTFS-RT and stay nil.
var Protobuf Decoder = Func(decodeProtobuf)

func decodeProtobuf(payload []byte) ([]model.VehicleRecord, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(payload, &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	vehicles := make([]model.VehicleRecord, 0, len(fm.Entity))
	for _, e := range fm.Entity {
		vp := e.GetVehicle()
		if vp == nil {
			continue
		}
		var rec model.VehicleRecord
		if vp.Vehicle != nil && vp.Vehicle.Id != nil {
			rec.ID = model.Str(*vp.Vehicle.Id)
		}
		if vp.Trip != nil {
			if vp.Trip.TripId != nil {
				rec.TripID = model.Str(*vp.Trip.TripId)
			}
			if vp.Trip.RouteId != nil {
				rec.RouteID = model.Str(*vp.Trip.RouteId)
			}
		}
		if vp.Position != nil {
			if vp.Position.Latitude != nil {
				rec.Latitude = model.Float(float64(*vp.Position.Latitude))
			}
			if vp.Position.Longitude != nil {
				rec.Longitude = model.Float(float64(*vp.Position.Longitude))
			}
		}
		vehicles = append(vehicles, rec)
	}
	return vehicles, nil
}
