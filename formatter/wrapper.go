package formatter

import (
	"strings"
	"time"

	"github.com/zetflow/zetflow-live/siri"
	"github.com/zetflow/zetflow-live/utils"
)

// BuildServiceDelivery creates a standardized ServiceDelivery wrapper
// with ResponseTimestamp and ProducerRef (codespace)
func BuildServiceDelivery(now time.Time, codespace string) siri.ServiceDelivery {
	if codespace == "" {
		codespace = "UNKNOWN"
	}

	return siri.ServiceDelivery{
		ResponseTimestamp: utils.Iso8601(now),
		ProducerRef:       codespace,
	}
}

// WrapVehicleMonitoringResponse wraps a VM delivery in a complete SIRI response
func WrapVehicleMonitoringResponse(vm siri.VehicleMonitoring, now time.Time, codespace string) *siri.SiriResponse {
	if ts, ok := utils.ParseIso8601(vm.ResponseTimestamp); ok {
		now = ts
	}

	sd := BuildServiceDelivery(now, codespace)
	sd.VehicleMonitoringDelivery = []siri.VehicleMonitoring{vm}

	return &siri.SiriResponse{
		Siri: siri.SiriServiceDelivery{
			ServiceDelivery: sd,
		},
	}
}

// FilterVehicleMonitoring keeps the activities whose LineRef contains lineRef
// and whose VehicleRef contains vehicleRef. Matching is case-insensitive and
// an empty filter matches everything.
func FilterVehicleMonitoring(vm siri.VehicleMonitoring, lineRef, vehicleRef string) siri.VehicleMonitoring {
	lineRef = strings.ToLower(strings.TrimSpace(lineRef))
	vehicleRef = strings.ToLower(strings.TrimSpace(vehicleRef))

	filtered := siri.VehicleMonitoring{
		ResponseTimestamp: vm.ResponseTimestamp,
		ValidUntil:        vm.ValidUntil,
		VehicleActivity:   []siri.VehicleActivityEntry{},
	}

	for _, va := range vm.VehicleActivity {
		mvj := va.MonitoredVehicleJourney
		if lineRef != "" && !strings.Contains(strings.ToLower(mvj.LineRef), lineRef) {
			continue
		}
		if vehicleRef != "" && !strings.Contains(strings.ToLower(mvj.VehicleRef), vehicleRef) {
			continue
		}
		filtered.VehicleActivity = append(filtered.VehicleActivity, va)
	}

	return filtered
}
