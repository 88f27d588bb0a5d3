// Package converter turns live vehicle snapshots into SIRI VehicleMonitoring
// deliveries.
//
// References follow the {codespace}:{kind}:{id} convention:
//
//	LineRef                  ZET:Line:6
//	VehicleRef               ZET:VehicleRef:V1
//	DatedVehicleJourneyRef   ZET:ServiceJourney:0_1_605_6_10467
//
// Usage:
//
//	conv := converter.New(converter.Options{Codespace: "ZET", ValidFor: 30 * time.Second}, logger)
//	res := conv.VehicleMonitoringResponse(session.Snapshot(), time.Now())
//	body, err := formatter.NewResponseBuilder().BuildJSON(res)
//
// Records missing optional data still produce an activity with the affected
// elements omitted; the omissions are summarised in a debug log entry per
// conversion.
package converter
