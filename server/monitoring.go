package server

import (
	"net/http"

	"go.uber.org/zap"
)

// vehicleMonitoring renders the SIRI response for the current snapshot, filtered
// by the lineRef and vehicleRef query parameters.
func (s *Server) vehicleMonitoring(r *http.Request, format string) ([]byte, error) {
	q := r.URL.Query()
	return s.siriCache.GetVehicleMonitoringResponse(s.model.Snapshot(), s.now(), format, q.Get("lineRef"), q.Get("vehicleRef"))
}

func (s *Server) handleVehicleMonitoringJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	buf, err := s.vehicleMonitoring(r, "json")
	if err != nil {
		s.logger.Error("build vehicle monitoring", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(buildSiriErrorPayload(err.Error()))
		return
	}
	_, _ = w.Write(buf)
}

func (s *Server) handleVehicleMonitoringXML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml")
	buf, err := s.vehicleMonitoring(r, "xml")
	if err != nil {
		s.logger.Error("build vehicle monitoring", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(buf)
}
