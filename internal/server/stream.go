package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"albion-tracker/internal/constants"
	"albion-tracker/internal/service"

	"github.com/rs/zerolog"
)

// handleStream holds an event stream open for one guild and minGP. Refresh
// results arrive as "attendance" events; comment lines keep idle proxies from
// closing the connection.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	guild := strings.TrimSpace(r.URL.Query().Get("guildName"))
	if guild == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "guildName is required"})
		return
	}
	minGP, err := queryInt(r, "minGP")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "minGP must be a non-negative integer"})
		return
	}

	log := zerolog.Ctx(r.Context()).With().Str("guild", guild).Int("min_gp", minGP).Logger()
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sub := s.registry.Subscribe(service.StreamKey(guild, minGP))
	s.metrics.Subscribers.Set(float64(s.registry.Count()))
	defer func() {
		s.registry.Unsubscribe(sub)
		s.metrics.Subscribers.Set(float64(s.registry.Count()))
		log.Debug().Str("subscriber", sub.ID).Msg("stream closed")
	}()

	fmt.Fprint(w, ":\n\n")
	if err := rc.Flush(); err != nil {
		log.Warn().Err(err).Msg("stream flush unsupported")
		return
	}

	ticker := time.NewTicker(constants.SSEKeepAlivePeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				// evicted
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			if err := rc.Flush(); err != nil {
				return
			}
			s.registry.Touch(sub)

		case <-ticker.C:
			fmt.Fprint(w, ":\n\n")
			if err := rc.Flush(); err != nil {
				return
			}
			s.registry.Touch(sub)

		case <-r.Context().Done():
			return
		}
	}
}
