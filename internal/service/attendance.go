package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"albion-tracker/internal/api"
	"albion-tracker/internal/cache"
	"albion-tracker/internal/constants"
	"albion-tracker/internal/domain"
	"albion-tracker/internal/metrics"
	"albion-tracker/internal/notify"
	"albion-tracker/internal/scoring"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrComparisonUnavailable means none of the comparison queries
	// succeeded, which usually means the store is down.
	ErrComparisonUnavailable = errors.New("comparison data unavailable")
	ErrBattleFetchTimeout    = errors.New("battle data request timed out")
	ErrBattleFetch           = errors.New("failed to fetch battle data")
)

type BattleSource interface {
	GetGuildPlayers(ctx context.Context, guildName string, lookbackDays, minGP int) ([]domain.PlayerBattleRecord, error)
}

type GuildDirectory interface {
	LookupGuild(ctx context.Context, name string) (*domain.GuildInfo, error)
}

type StatisticsStore interface {
	Upsert(ctx context.Context, stats domain.GuildStatistics) (domain.GuildStatistics, error)
	FindSimilarGuild(ctx context.Context, minGP int, month time.Time, size int, excludeName string) (*domain.GuildStatistics, error)
	FindBestGuild(ctx context.Context, minGP int, month time.Time, sizeHint int) (*domain.GuildStatistics, error)
	GlobalAverageAttendance(ctx context.Context, minGP int, month time.Time) (float64, error)
	History(ctx context.Context, guildName string, minGP, limit int) ([]domain.GuildStatistics, error)
	Ping(ctx context.Context) error
}

type AttendanceResponse struct {
	Players                 []domain.PlayerRanking  `json:"players"`
	GlobalAverageAttendance float64                 `json:"globalAverageAttendance"`
	SimilarGuild            *domain.GuildStatistics `json:"similarGuild"`
	BestGuild               *domain.GuildStatistics `json:"bestGuild"`
	Stats                   *domain.GuildStatistics `json:"stats,omitempty"`
	Cached                  bool                    `json:"cached,omitempty"`
	Error                   string                  `json:"error,omitempty"`
}

// DegradedResponse is the body sent when the pipeline could not produce any
// ranking.
func DegradedResponse(msg string) *AttendanceResponse {
	return &AttendanceResponse{
		Players: []domain.PlayerRanking{},
		Error:   msg,
	}
}

type AttendanceService struct {
	battles  BattleSource
	guilds   GuildDirectory
	store    StatisticsStore
	cache    *cache.BattleCache
	registry *notify.Registry
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAttendanceService(
	battles BattleSource,
	guilds GuildDirectory,
	store StatisticsStore,
	battleCache *cache.BattleCache,
	registry *notify.Registry,
	m *metrics.Metrics,
	tracer trace.Tracer,
	logger zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		battles:  battles,
		guilds:   guilds,
		store:    store,
		cache:    battleCache,
		registry: registry,
		metrics:  m,
		tracer:   tracer,
		logger:   logger,
		now:      time.Now,
	}
}

// Calculate runs the attendance pipeline for one request: fetch battle data,
// build and store the guild's monthly statistics, load comparison guilds and
// rank every player.
func (s *AttendanceService) Calculate(ctx context.Context, req AttendanceRequest) (*AttendanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AttendanceService.Calculate", trace.WithAttributes(
		attribute.String("guild", req.GuildName),
		attribute.Int("min_gp", req.MinGP),
		attribute.Int("players", len(req.PlayerList)),
	))
	defer span.End()

	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.metrics.Calculations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	start := time.Now()
	log := s.requestLogger(ctx).With().Str("guild", req.GuildName).Int("min_gp", req.MinGP).Logger()

	var (
		records []domain.PlayerBattleRecord
		cached  bool
		info    *domain.GuildInfo
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, cached, err = s.loadBattles(gCtx, req.GuildName, req.MinGP)
		return err
	})
	g.Go(func() error {
		info = s.guildInfo(gCtx, req)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load battle data")
		span.SetStatus(codes.Error, err.Error())
		s.metrics.Calculations.WithLabelValues("fetch_error").Inc()
		return nil, err
	}

	resp, err := s.rank(ctx, req, records, info)
	if err != nil {
		log.Error().Err(err).Msg("attendance pipeline failed")
		span.SetStatus(codes.Error, err.Error())
		s.metrics.Calculations.WithLabelValues("degraded").Inc()
		return nil, err
	}
	resp.Cached = cached

	s.metrics.Calculations.WithLabelValues("ok").Inc()
	s.metrics.CalculationTime.Observe(time.Since(start).Seconds())
	log.Info().
		Int("players", len(resp.Players)).
		Bool("cached", cached).
		Dur("took", time.Since(start)).
		Msg("attendance calculated")
	return resp, nil
}

// loadBattles answers from the cache when it can and otherwise fetches from
// upstream under the fetch timeout.
func (s *AttendanceService) loadBattles(ctx context.Context, guildName string, minGP int) ([]domain.PlayerBattleRecord, bool, error) {
	if records, ok := s.cache.Get(guildName, minGP); ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return records, true, nil
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	records, err := s.fetchBattles(ctx, guildName, minGP)
	if err != nil {
		return nil, false, err
	}
	return records, false, nil
}

func (s *AttendanceService) fetchBattles(ctx context.Context, guildName string, minGP int) ([]domain.PlayerBattleRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, constants.BattleFetchTimeout)
	defer cancel()

	start := time.Now()
	records, err := s.battles.GetGuildPlayers(fetchCtx, guildName, constants.LookbackDays, minGP)
	s.metrics.UpstreamFetchDur.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, api.ErrUpstreamTimeout) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			s.metrics.UpstreamFetches.WithLabelValues("timeout").Inc()
			return nil, fmt.Errorf("%w after %s: %w", ErrBattleFetchTimeout, constants.BattleFetchTimeout, err)
		}
		s.metrics.UpstreamFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrBattleFetch, err)
	}
	s.metrics.UpstreamFetches.WithLabelValues("ok").Inc()

	s.cache.Put(guildName, minGP, records)
	return records, nil
}

// guildInfo prefers the caller's metadata and falls back to the game-info
// API. A failed lookup leaves the guild size to the player count.
func (s *AttendanceService) guildInfo(ctx context.Context, req AttendanceRequest) *domain.GuildInfo {
	if req.GuildInfo != nil {
		return req.GuildInfo
	}
	if s.guilds == nil {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, constants.GameInfoTimeout)
	defer cancel()

	info, err := s.guilds.LookupGuild(lookupCtx, req.GuildName)
	if err != nil {
		s.requestLogger(ctx).Warn().Err(err).Str("guild", req.GuildName).Msg("guild lookup failed, using player count")
		return nil
	}
	return info
}

func (s *AttendanceService) rank(ctx context.Context, req AttendanceRequest, fetched []domain.PlayerBattleRecord, info *domain.GuildInfo) (*AttendanceResponse, error) {
	log := s.requestLogger(ctx)

	players, missing := scoring.Backfill(fetched, req.PlayerList)
	stats := scoring.BuildGuildStatistics(scoring.AggregateInput{
		GuildName: req.GuildName,
		MinGP:     req.MinGP,
		Players:   players,
		GuildInfo: info,
		Now:       s.now(),
	})

	stored := s.persist(ctx, stats)
	if stored.IsSuccess() {
		stats = *stored.Success
	} else {
		s.metrics.StoreFailures.WithLabelValues("upsert").Inc()
		log.Warn().Err(*stored.Failure).Str("guild", stats.GuildName).Msg("failed to store guild statistics, continuing")
	}

	cmp := s.loadComparisons(ctx, stats)
	if cmp.allFailed() {
		return nil, fmt.Errorf("%w: %w", ErrComparisonUnavailable, cmp.firstError())
	}

	global := cmp.globalAverage.ValueOr(0)
	similar := cmp.similar.ValueOr(nil)
	best := cmp.best.ValueOr(nil)

	rankings := scoring.RankPlayers(scoring.RankInput{
		Players:                 players,
		Missing:                 missing,
		Current:                 stats,
		Similar:                 similar,
		Best:                    best,
		GlobalAverageAttendance: global,
	})

	log.Debug().
		Int("fetched", len(fetched)).
		Int("missing", len(missing)).
		Float64("global_average", global).
		Bool("has_similar", similar != nil).
		Bool("has_best", best != nil).
		Msg("players ranked")

	return &AttendanceResponse{
		Players:                 rankings,
		GlobalAverageAttendance: global,
		SimilarGuild:            similar,
		BestGuild:               best,
		Stats:                   &stats,
	}, nil
}

// History lists the stored monthly statistics for a guild, newest first.
func (s *AttendanceService) History(ctx context.Context, guildName string, minGP int) ([]domain.GuildStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	rows, err := s.store.History(ctx, guildName, minGP, constants.StatisticsHistoryLimit)
	if err != nil {
		s.metrics.StoreFailures.WithLabelValues("history").Inc()
		return nil, fmt.Errorf("failed to load history for %s: %w", guildName, err)
	}
	return rows, nil
}

func (s *AttendanceService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.store.Ping(ctx)
}

func (s *AttendanceService) requestLogger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
