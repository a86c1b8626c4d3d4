package fx

import (
	"database/sql"

	"albion-tracker/internal/api"
	"albion-tracker/internal/cache"
	"albion-tracker/internal/config"
	"albion-tracker/internal/database"
	"albion-tracker/internal/db"
	"albion-tracker/internal/logger"
	"albion-tracker/internal/metrics"
	"albion-tracker/internal/notify"
	"albion-tracker/internal/repository"
	"albion-tracker/internal/scheduler"
	"albion-tracker/internal/server"
	"albion-tracker/internal/service"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// ProvideTracer uses the global provider, a no-op unless the binary
// installs one.
func ProvideTracer() trace.Tracer {
	return otel.Tracer("albion-tracker")
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Invoke(logger.ApplyLevel),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	metrics.Module,
	scheduler.Module,
	fx.Provide(ProvideTracer),
	// repos
	fx.Provide(
		fx.Annotate(
			repository.NewGuildStatisticsRepository,
			fx.As(new(service.StatisticsStore)),
		),
	),
	// api clients
	fx.Provide(
		fx.Annotate(api.NewMurderLedgerClient, fx.As(new(service.BattleSource))),
		fx.Annotate(api.NewGameInfoClient, fx.As(new(service.GuildDirectory))),
	),
	// svc
	fx.Provide(cache.NewBattleCache),
	fx.Provide(notify.NewRegistry),
	fx.Invoke(notify.RegisterEviction),
	fx.Provide(service.NewAttendanceService),
	// server
	fx.Provide(server.New),
)
