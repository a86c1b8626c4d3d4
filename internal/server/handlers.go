package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"albion-tracker/internal/domain"
	"albion-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	var req service.AttendanceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		log.Debug().Err(err).Msg("invalid attendance body")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: guildName and playerList are required"})
		return
	}

	resp, err := s.attendance.Calculate(r.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
		case errors.Is(err, service.ErrBattleFetchTimeout):
			writeJSON(w, http.StatusInternalServerError, service.DegradedResponse("Request timed out while fetching battle data"))
		case errors.Is(err, service.ErrBattleFetch):
			writeJSON(w, http.StatusInternalServerError, service.DegradedResponse(err.Error()))
		default:
			log.Error().Err(err).Msg("attendance calculation failed")
			writeJSON(w, http.StatusInternalServerError, service.DegradedResponse("Failed to fetch comparison data"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)

	if s.attendance.ScheduleRefresh(req, resp) {
		log.Debug().Str("guild", req.GuildName).Msg("background refresh scheduled")
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "guild name is required"})
		return
	}
	minGP, err := queryInt(r, "minGP")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "minGP must be a non-negative integer"})
		return
	}

	rows, err := s.attendance.History(r.Context(), name, minGP)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("guild", name).Msg("failed to load history")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load statistics"})
		return
	}
	if rows == nil {
		rows = []domain.GuildStatistics{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.attendance.Ping(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
