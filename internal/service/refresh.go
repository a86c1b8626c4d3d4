package service

import (
	"context"
	"encoding/json"

	"albion-tracker/internal/cache"
	"albion-tracker/internal/constants"
	"albion-tracker/internal/notify"
)

const AttendanceEvent = "attendance"

// StreamKey identifies the subscribers interested in one guild and minGP.
func StreamKey(guildName string, minGP int) string {
	return cache.Key(guildName, minGP)
}

// ScheduleRefresh starts a background re-fetch for req when resp was served
// from the battle cache and someone is listening on its stream. It is meant
// to run after the response has been written. The task publishes the fresh
// ranking to subscribers and is cancelled when the last one disconnects. It
// reports whether a task was started.
func (s *AttendanceService) ScheduleRefresh(req AttendanceRequest, resp *AttendanceResponse) bool {
	if resp == nil || !resp.Cached {
		return false
	}
	if err := req.Validate(); err != nil {
		return false
	}

	key := StreamKey(req.GuildName, req.MinGP)
	ctx, done, ok := s.registry.StartTask(context.Background(), key)
	if !ok {
		return false
	}

	go func() {
		defer done()
		s.refresh(ctx, key, req)
	}()
	return true
}

func (s *AttendanceService) refresh(ctx context.Context, key string, req AttendanceRequest) {
	ctx, cancel := context.WithTimeout(ctx, constants.RefreshTaskTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "AttendanceService.refresh")
	defer span.End()

	log := s.logger.With().Str("key", key).Logger()
	log.Debug().Msg("background refresh started")

	records, err := s.fetchBattles(ctx, req.GuildName, req.MinGP)
	if err != nil {
		if ctx.Err() != nil {
			log.Debug().Err(err).Msg("background refresh cancelled")
			return
		}
		log.Warn().Err(err).Msg("background refresh fetch failed")
		return
	}

	resp, err := s.rank(ctx, req, records, s.guildInfo(ctx, req))
	if err != nil {
		log.Warn().Err(err).Msg("background refresh ranking failed")
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode refresh payload")
		return
	}

	delivered := s.registry.Publish(key, notify.Event{Name: AttendanceEvent, Data: payload})
	log.Info().Int("delivered", delivered).Int("players", len(resp.Players)).Msg("background refresh published")
}
