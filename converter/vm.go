package converter

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zetflow/zetflow-live/formatter"
	"github.com/zetflow/zetflow-live/internal"
	"github.com/zetflow/zetflow-live/model"
	"github.com/zetflow/zetflow-live/siri"
	"github.com/zetflow/zetflow-live/utils"
)

// Options controls how references are formatted in the SIRI output.
type Options struct {
	// Codespace prefixes every reference: {codespace}:Line:{route_id}.
	Codespace string
	// ValidFor is added to the response time to produce ValidUntil. Zero omits it.
	ValidFor time.Duration
}

// Converter renders vehicle snapshots as SIRI VehicleMonitoring deliveries.
type Converter struct {
	opts   Options
	logger *zap.Logger
}

// New creates a converter. An empty codespace becomes "UNKNOWN".
func New(opts Options, logger *zap.Logger) *Converter {
	if strings.TrimSpace(opts.Codespace) == "" {
		opts.Codespace = "UNKNOWN"
	}
	return &Converter{opts: opts, logger: internal.OrNop(logger)}
}

// Codespace returns the codespace used for references.
func (c *Converter) Codespace() string { return c.opts.Codespace }

// VehicleMonitoringResponse builds a complete SIRI response for snap as of now.
func (c *Converter) VehicleMonitoringResponse(snap model.VehicleSnapshot, now time.Time) *siri.SiriResponse {
	return formatter.WrapVehicleMonitoringResponse(c.VehicleMonitoring(snap, now), now, c.opts.Codespace)
}

// VehicleMonitoring builds one VM delivery. Vehicles without an id cannot be
// referenced and are left out; every other record yields one activity, in
// snapshot order.
func (c *Converter) VehicleMonitoring(snap model.VehicleSnapshot, now time.Time) siri.VehicleMonitoring {
	validUntil := utils.ValidUntilFrom(now, c.opts.ValidFor)
	recordedAt := snap.ReceivedAt
	if recordedAt.IsZero() {
		recordedAt = now
	}

	vm := siri.VehicleMonitoring{
		ResponseTimestamp: utils.Iso8601(now),
		ValidUntil:        validUntil,
		VehicleActivity:   make([]siri.VehicleActivityEntry, 0, len(snap.Vehicles)),
	}

	warnings := NewWarningAggregator()
	for _, v := range snap.Vehicles {
		id := strings.TrimSpace(model.Deref(v.ID))
		if id == "" {
			warnings.Add(WarningNoVehicleID, model.Deref(v.TripID))
			continue
		}
		vm.VehicleActivity = append(vm.VehicleActivity, siri.VehicleActivityEntry{
			RecordedAtTime:          utils.Iso8601(recordedAt),
			ValidUntilTime:          validUntil,
			MonitoredVehicleJourney: c.buildMVJ(v, id, recordedAt, warnings),
		})
	}
	warnings.LogAll(c.logger, c.opts.Codespace)
	return vm
}

func (c *Converter) buildMVJ(v model.VehicleRecord, id string, recordedAt time.Time, warnings *WarningAggregator) siri.MonitoredVehicleJourney {
	cs := c.opts.Codespace

	// LineRef format: {codespace}:Line:{lineid}
	routeID := strings.TrimSpace(model.Deref(v.RouteID))
	lineRef := ""
	if routeID != "" {
		lineRef = cs + ":Line:" + routeID
	} else {
		warnings.Add(WarningNoRouteID, id)
	}

	pub := strings.TrimSpace(model.Deref(v.RouteLongName))
	if pub == "" {
		pub = routeID
	}

	vehicleMode := ""
	if mode, ok := VehicleModeForRouteType(model.Deref(v.RouteType)); ok {
		vehicleMode = mode
	} else {
		warnings.Add(WarningNoRouteType, id)
	}

	var framed *siri.FramedVehicleJourneyRef
	if tripID := strings.TrimSpace(model.Deref(v.TripID)); tripID != "" {
		framed = &siri.FramedVehicleJourneyRef{
			DataFrameRef:           utils.Iso8601DateFrom(recordedAt),
			DatedVehicleJourneyRef: cs + ":ServiceJourney:" + tripID,
		}
	}

	var loc *siri.VehicleLocation
	if lat, lon, ok := v.Position(); ok {
		loc = &siri.VehicleLocation{Latitude: &lat, Longitude: &lon}
	} else {
		warnings.Add(WarningNoLatLon, id)
	}

	return siri.MonitoredVehicleJourney{
		LineRef:                 lineRef,
		FramedVehicleJourneyRef: framed,
		VehicleMode:             vehicleMode,
		PublishedLineName:       pub,
		Monitored:               loc != nil,
		DataSource:              cs,
		VehicleLocation:         loc,
		VehicleRef:              cs + ":VehicleRef:" + id,
		IsCompleteStopSequence:  false,
	}
}
