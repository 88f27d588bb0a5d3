package model

// TripDetail is one scheduled trip with its stops in visiting order.
type TripDetail struct {
	TripID    string      `json:"tripId"`
	RouteID   *string     `json:"routeId,omitempty"`
	RouteName *string     `json:"routeName,omitempty"`
	StopTimes []StopVisit `json:"stopTimes"`
}

// StopVisit is a single stop along a trip. Times are passed through as text.
type StopVisit struct {
	StopName      *string  `json:"stopName,omitempty"`
	ArrivalTime   *string  `json:"arrivalTime,omitempty"`
	DepartureTime *string  `json:"departureTime,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}
