package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/zetflow/zetflow-live/feed"
	"github.com/zetflow/zetflow-live/model"
	"github.com/zetflow/zetflow-live/trip"
	"github.com/zetflow/zetflow-live/view"
)

type vehiclesResponse struct {
	Vehicles   []model.VehicleRecord `json:"vehicles"`
	Count      int                   `json:"count"`
	Sequence   uint64                `json:"sequence"`
	ReceivedAt *time.Time            `json:"receivedAt,omitempty"`
}

type markersResponse struct {
	Camera   view.Camera          `json:"camera"`
	Vehicles []view.VehicleMarker `json:"vehicles"`
	Stops    []view.StopMarker    `json:"stops"`
}

type selectionResponse struct {
	VehicleID string            `json:"vehicleId,omitempty"`
	Position  *view.Position    `json:"position,omitempty"`
	Trip      *model.TripDetail `json:"trip"`
	Stops     []view.StopMarker `json:"stops"`
}

type sessionErrorView struct {
	Reason feed.Reason `json:"reason"`
	Detail string      `json:"detail"`
	At     time.Time   `json:"at"`
}

type errorStateResponse struct {
	Error *sessionErrorView `json:"error"`
}

func receivedAt(snap model.VehicleSnapshot) *time.Time {
	if snap.ReceivedAt.IsZero() {
		return nil
	}
	t := snap.ReceivedAt.UTC()
	return &t
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	snap := s.model.Snapshot()
	vehicles := view.FilterVehicles(snap.Vehicles, r.URL.Query().Get("q"))
	if vehicles == nil {
		vehicles = []model.VehicleRecord{}
	}
	s.sendJSON(w, http.StatusOK, vehiclesResponse{
		Vehicles:   vehicles,
		Count:      len(vehicles),
		Sequence:   snap.Sequence,
		ReceivedAt: receivedAt(snap),
	})
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	v, ok := s.model.Snapshot().Find(id)
	if !ok {
		s.sendErrorResponse(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	s.sendJSON(w, http.StatusOK, v)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, view.SearchRoutes(s.model.Snapshot().Vehicles, r.URL.Query().Get("q")))
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	vehicles := view.FilterVehicles(s.model.Snapshot().Vehicles, r.URL.Query().Get("q"))
	selected := s.model.Selected()
	s.sendJSON(w, http.StatusOK, markersResponse{
		Camera:   view.FocusCamera(selected, vehicles, view.DefaultCamera),
		Vehicles: view.VehicleMarkers(vehicles, selected),
		Stops:    view.StopMarkers(s.model.TripDetail()),
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	selected := s.model.Selected()
	detail := s.model.TripDetail()
	resp := selectionResponse{
		VehicleID: selected,
		Trip:      detail,
		Stops:     view.StopMarkers(detail),
	}
	if pos, ok := view.ActivePosition(selected, s.model.Snapshot().Vehicles); ok {
		resp.Position = &pos
	}
	s.sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.model.Select(id) {
		s.sendErrorResponse(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.model.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTrip(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	res := s.trips.Lookup(r.Context(), id)
	switch res.Status {
	case trip.Found:
		s.sendJSON(w, http.StatusOK, res.Trip)
	case trip.NotFound:
		s.sendErrorResponse(w, http.StatusNotFound, "Trip not found")
	default:
		s.sendErrorResponse(w, http.StatusBadGateway, "Trip lookup failed: "+res.Err.Error())
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	var resp errorStateResponse
	if e := s.model.Err(); e != nil {
		resp.Error = &sessionErrorView{Reason: e.Reason, Detail: e.Detail, At: e.At.UTC()}
	}
	s.sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearError(w http.ResponseWriter, r *http.Request) {
	s.model.ClearError()
	w.WriteHeader(http.StatusNoContent)
}
