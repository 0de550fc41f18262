package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type config struct {
	RegName      string
	HostName     string
	Port         uint16
	APIHost      string
	APIPort      string
	TickMs       uint32
	MaxPeerAgeMs uint32
	SamplingRate float64
	SeedFile     string
}

func loadConfig(logger *zap.Logger) config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("env_file_load_failed", zap.Error(err))
	}

	hostName, _ := os.Hostname()

	return config{
		RegName:      getEnv("PEERSYNC_REGISTRATION", "peersync"),
		HostName:     getEnv("PEERSYNC_HOSTNAME", hostName),
		Port:         getEnvUint16("PEERSYNC_PORT", 7946),
		APIHost:      getEnv("PEERSYNC_API_HOST", "0.0.0.0"),
		APIPort:      getEnv("PEERSYNC_API_PORT", "8080"),
		TickMs:       getEnvUint32("PEERSYNC_TICK_MS", 1000),
		MaxPeerAgeMs: getEnvUint32("PEERSYNC_MAX_PEER_AGE_MS", 60000),
		SamplingRate: getEnvFloat("PEERSYNC_SYNC_RATE_HZ", 1.0),
		SeedFile:     getEnv("PEERSYNC_SEED_FILE", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvUint16(key string, def uint16) uint16 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			return uint16(n)
		}
	}
	return def
}

func getEnvUint32(key string, def uint32) uint32 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(n)
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
