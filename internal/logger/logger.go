package logger

import (
	"os"

	"albion-tracker/internal/config"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New is the bootstrap logger used before configuration is loaded.
func New() zerolog.Logger {
	return SetLevel(zerolog.DebugLevel)
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

// ApplyLevel raises the global level once configuration is known. The
// bootstrap logger stays at debug so config loading itself is visible.
func ApplyLevel(cfg *config.Config, logger zerolog.Logger) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	logger.Debug().Str("level", level.String()).Msg("log level applied")
	return nil
}

var Module = fx.Provide(New)
