package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"albion-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	MurderLedgerURL string
	GameInfoURL     string
	DBPath          string
	ServerPort      string
	LogLevel        string
	AllowedOrigins  []string
	BattleCacheTTL  time.Duration
	SubscriberTTL   time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cacheTTL, err := getDuration("BATTLE_CACHE_TTL", constants.BattleCacheTTL)
	if err != nil {
		return nil, err
	}
	subscriberTTL, err := getDuration("SUBSCRIBER_TTL", constants.SubscriberTTL)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MurderLedgerURL: strings.TrimRight(getEnv("MURDER_LEDGER_URL", "https://murderledger.albiononline2d.com"), "/"),
		GameInfoURL:     strings.TrimRight(getEnv("GAMEINFO_URL", "https://gameinfo.albiononline.com/api/gameinfo"), "/"),
		DBPath:          getEnv("DB_PATH", "albion.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
		BattleCacheTTL:  cacheTTL,
		SubscriberTTL:   subscriberTTL,
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("murder_ledger_url", cfg.MurderLedgerURL).
		Dur("battle_cache_ttl", cfg.BattleCacheTTL).
		Dur("subscriber_ttl", cfg.SubscriberTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
