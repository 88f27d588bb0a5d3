package server

import (
	"net/http"
	"time"

	"github.com/zetflow/zetflow-live/feed"
)

type healthResponse struct {
	Status     string      `json:"status"`
	State      feed.State  `json:"state"`
	Vehicles   int         `json:"vehicles"`
	Sequence   uint64      `json:"sequence"`
	LastUpdate *time.Time  `json:"lastUpdate,omitempty"`
	Error      feed.Reason `json:"error,omitempty"`
}

// handleHealth reports "ok" while the feed is connecting or subscribed and
// "degraded" otherwise. It always answers 200 so the process itself counts as up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.model.Snapshot()
	state := s.model.State()

	resp := healthResponse{
		Status:     "ok",
		State:      state,
		Vehicles:   snap.Len(),
		Sequence:   snap.Sequence,
		LastUpdate: receivedAt(snap),
	}
	if state != feed.Connecting && state != feed.Subscribed {
		resp.Status = "degraded"
	}
	if e := s.model.Err(); e != nil {
		resp.Error = e.Reason
	}
	s.sendJSON(w, http.StatusOK, resp)
}
