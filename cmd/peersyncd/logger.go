package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initLogger builds the process logger. Unlike a request-driven HTTP
// service, peersyncd's Discover/SyncTick loops fire on fixed, short
// tickers (PEERSYNC_TICK_MS, PEERSYNC_SYNC_RATE_HZ) regardless of any
// external traffic, so repeated per-tick log lines (e.g. lost_coordinator,
// resolve_pending) need tighter sampling than a per-request service would:
// a busy LAN segment can otherwise drown the log at steady state.
func initLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(os.Getenv("PEERSYNC_LOG_LEVEL")))
	cfg.Sampling = &zap.SamplingConfig{Initial: 20, Thereafter: 50}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = ""
	logger, _ := cfg.Build()
	return logger.With(zap.String("component", "peersyncd"))
}

func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zap.InfoLevel
	}
	return lvl
}
