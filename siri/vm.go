package siri

// VehicleMonitoring represents the VehicleMonitoring delivery
type VehicleMonitoring struct {
	ResponseTimestamp string                 `json:"ResponseTimestamp"`
	ValidUntil        string                 `json:"ValidUntil,omitempty"`
	VehicleActivity   []VehicleActivityEntry `json:"VehicleActivity"`
}

// VehicleActivityEntry represents a single vehicle's activity
type VehicleActivityEntry struct {
	RecordedAtTime          string                  `json:"RecordedAtTime"`
	ValidUntilTime          string                  `json:"ValidUntilTime,omitempty"`
	MonitoredVehicleJourney MonitoredVehicleJourney `json:"MonitoredVehicleJourney"`
}

// MonitoredVehicleJourney contains details about a monitored vehicle journey.
// Only the fields the live feed can fill are carried.
type MonitoredVehicleJourney struct {
	LineRef                 string                   `json:"LineRef,omitempty"`
	FramedVehicleJourneyRef *FramedVehicleJourneyRef `json:"FramedVehicleJourneyRef,omitempty"`
	VehicleMode             string                   `json:"VehicleMode,omitempty"` // bus, tram, metro, etc.
	PublishedLineName       string                   `json:"PublishedLineName,omitempty"`
	Monitored               bool                     `json:"Monitored"`
	DataSource              string                   `json:"DataSource"`
	VehicleLocation         *VehicleLocation         `json:"VehicleLocation,omitempty"`
	VehicleRef              string                   `json:"VehicleRef"`
	IsCompleteStopSequence  bool                     `json:"IsCompleteStopSequence"` // always false for VM
}

// FramedVehicleJourneyRef identifies the journey a vehicle is running.
type FramedVehicleJourneyRef struct {
	DataFrameRef           string `json:"DataFrameRef"`
	DatedVehicleJourneyRef string `json:"DatedVehicleJourneyRef"`
}

// VehicleLocation represents the geographical location of a vehicle
type VehicleLocation struct {
	Latitude  *float64 `json:"Latitude"`
	Longitude *float64 `json:"Longitude"`
}
