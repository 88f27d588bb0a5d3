package converter

import (
	"sort"

	"go.uber.org/zap"
)

// Warning type constants
const (
	WarningNoVehicleID = "no_vehicle_id"
	WarningNoRouteID   = "no_route_id"
	WarningNoRouteType = "no_route_type"
	WarningNoLatLon    = "no_lat_lon"
)

const maxExamples = 3

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects warnings during conversion and outputs consolidated summaries
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	info := w.warnings[warningType]
	if info == nil {
		info = &warningInfo{examples: make([]string, 0, maxExamples)}
		w.warnings[warningType] = info
	}
	info.count++
	if exampleID != "" && len(info.examples) < maxExamples {
		info.examples = append(info.examples, exampleID)
	}
}

// Count returns how many times warningType was recorded.
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// LogAll writes one debug entry per warning type, in a stable order.
func (w *WarningAggregator) LogAll(logger *zap.Logger, codespace string) {
	if len(w.warnings) == 0 {
		return
	}
	types := make([]string, 0, len(w.warnings))
	for t := range w.warnings {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		info := w.warnings[t]
		logger.Debug("incomplete vehicle records in SIRI output",
			zap.String("warning", t),
			zap.String("description", describeWarning(t)),
			zap.String("codespace", codespace),
			zap.Int("occurrences", info.count),
			zap.Strings("examples", info.examples),
		)
	}
}

func describeWarning(warningType string) string {
	switch warningType {
	case WarningNoVehicleID:
		return "vehicles with no id; left out of the delivery"
	case WarningNoRouteID:
		return "vehicles with no route id; LineRef omitted"
	case WarningNoRouteType:
		return "vehicles with no usable route type; VehicleMode omitted"
	case WarningNoLatLon:
		return "vehicles with no position; VehicleLocation omitted"
	default:
		return "unknown issue"
	}
}
