package model

import "time"

// VehicleRecord is one vehicle's last reported position as received from the feed.
// Every field is optional; absent fields stay nil.
type VehicleRecord struct {
	ID            *string  `json:"id,omitempty"`
	RouteID       *string  `json:"routeId,omitempty"`
	RouteType     *string  `json:"routeType,omitempty"`
	RouteLongName *string  `json:"routeLongName,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	TripID        *string  `json:"tripId,omitempty"`
}

// Position returns the vehicle coordinates when both are known.
func (v VehicleRecord) Position() (lat, lon float64, ok bool) {
	if v.Latitude == nil || v.Longitude == nil {
		return 0, 0, false
	}
	return *v.Latitude, *v.Longitude, true
}

// VehicleSnapshot is the full set of vehicles from the most recent decoded message,
// in the order they were received.
type VehicleSnapshot struct {
	Vehicles   []VehicleRecord
	ReceivedAt time.Time
	Sequence   uint64
}

// Len returns the number of vehicles in the snapshot.
func (s VehicleSnapshot) Len() int { return len(s.Vehicles) }

// Find returns the first vehicle with the given id.
func (s VehicleSnapshot) Find(id string) (VehicleRecord, bool) {
	for _, v := range s.Vehicles {
		if v.ID != nil && *v.ID == id {
			return v, true
		}
	}
	return VehicleRecord{}, false
}

// Str returns a pointer to s, for building optional fields.
func Str(s string) *string { return &s }

// Float returns a pointer to f, for building optional fields.
func Float(f float64) *float64 { return &f }

// Deref returns the pointed-to string or "" when absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
