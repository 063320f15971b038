package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dayronponce94/designer-platform-sub000/pkg/types"
)

func (s *Service) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps core errors onto HTTP statuses. Reads pass
// hideForbidden so an unrelated caller cannot tell a record they may not see
// apart from one that does not exist.
func (s *Service) respondServiceError(w http.ResponseWriter, err error, hideForbidden bool) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Reason, "field": verr.Field})
	case errors.Is(err, types.ErrEngagementNotFound):
		s.respondError(w, http.StatusNotFound, "engagement not found")
	case errors.Is(err, types.ErrForbidden):
		if hideForbidden {
			s.respondError(w, http.StatusNotFound, "engagement not found")
			return
		}
		s.respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, types.ErrInvalidTransition):
		s.respondError(w, http.StatusUnprocessableEntity, "invalid status transition")
	case errors.Is(err, types.ErrConflict):
		s.respondError(w, http.StatusConflict, "engagement modified concurrently, re-read and resubmit")
	default:
		s.logger.WithError(err).Error("request failed")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
