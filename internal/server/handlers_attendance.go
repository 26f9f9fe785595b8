package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"officedesk/internal/app"
	"officedesk/pkg/domain"
)

type punchRequest struct {
	Action string   `json:"action"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
}

type punchResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handlePunch(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req punchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := s.app.Punch(user, req.Action, req.Lat, req.Lng); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, app.ErrInvalidState) {
			status = http.StatusConflict
		}
		writeJSON(w, status, punchResponse{OK: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, punchResponse{OK: true})
}

func (s *Server) handleTodayAttendance(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	rec, ok, err := s.app.TodayAttendance(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"record": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"record": rec})
}

func (s *Server) handleLiveAttendance(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	entries, err := s.app.LiveAttendance()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": entries})
}
