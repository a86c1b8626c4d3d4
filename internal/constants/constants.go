package constants

import "time"

const (
	BattleCacheTTL  = 5 * time.Minute
	BattleCacheSize = 256
	SubscriberTTL   = 30 * time.Minute
	EvictionPeriod  = 1 * time.Minute
	LookbackDays    = 28
)

const (
	BattleFetchTimeout  = 60 * time.Second
	GameInfoTimeout     = 10 * time.Second
	DatabaseTimeout     = 5 * time.Second
	ComparisonTimeout   = 10 * time.Second
	RequestTimeout      = 90 * time.Second
	RefreshTaskTimeout  = 2 * time.Minute
	DatabaseRetryWait   = 200 * time.Millisecond
	DatabaseRetryLimit  = 1
	SSEKeepAlivePeriod  = 15 * time.Second
	SubscriberQueueSize = 8
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	StatisticsHistoryLimit = 24
)

// Peer selection size bands, as fractions of the target guild's size.
const (
	SimilarSizeLow  = 0.8
	SimilarSizeHigh = 1.2
	BestSizeLow     = 0.5
	BestSizeHigh    = 2.0
)
