package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-SIRI error.
type ErrorResponse struct {
	Errors []Error `json:"errors"`
}

// Error describes one failure.
type Error struct {
	Status string `json:"status,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("marshal response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) sendErrorResponse(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, ErrorResponse{
		Errors: []Error{{
			Status: strconv.Itoa(status),
			Title:  http.StatusText(status),
			Detail: message,
		}},
	})
}

// buildSiriErrorPayload wraps msg in a SIRI ErrorCondition.
func buildSiriErrorPayload(msg string) []byte {
	type siriErr struct {
		Siri struct {
			ServiceDelivery struct {
				ErrorCondition struct {
					Description string `json:"Description"`
				} `json:"ErrorCondition"`
			} `json:"ServiceDelivery"`
		} `json:"Siri"`
	}
	var e siriErr
	e.Siri.ServiceDelivery.ErrorCondition.Description = msg
	b, _ := json.Marshal(e)
	return b
}
