package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peersync/pkg/api"
	"github.com/shuliakovsky/peersync/pkg/clocksync"
	"github.com/shuliakovsky/peersync/pkg/coordinator"
	"github.com/shuliakovsky/peersync/pkg/discovery"
	"github.com/shuliakovsky/peersync/pkg/metrics"
	"github.com/shuliakovsky/peersync/pkg/registry"
	"github.com/shuliakovsky/peersync/pkg/seed"
)

func main() {
	PrintVersion()

	logger := initLogger()
	defer logger.Sync()

	cfg := loadConfig(logger)

	disc := discovery.New(cfg.RegName, logger)
	coord := coordinator.New(cfg.RegName, cfg.HostName, cfg.Port, disc, logger)

	sync := clocksync.New(coord, cfg.SamplingRate, func() bool {
		return coord.ClientState() == registry.Connected
	}, logger)
	coord.SetPayloadHandler(sync)

	seedFile, err := seed.Load(cfg.SeedFile, logger)
	if err != nil {
		logger.Warn("seed_load_failed", zap.Error(err))
	} else {
		seed.Apply(seedFile, coord.Registry(), logger)
	}

	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, coord, logger)

	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server_down", zap.Error(err))
		}
	}()

	go runDiscoverLoop(ctx, coord, cfg, logger)
	go runSyncLoop(ctx, sync, cfg, logger)
	go runMetricsLoop(ctx, coord, sync, disc)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting_down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server_shutdown_error", zap.Error(err))
	}
}

func runDiscoverLoop(ctx context.Context, coord *coordinator.Coordinator, cfg config, logger *zap.Logger) {
	ticker := time.NewTicker(time.Duration(cfg.TickMs) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			coord.Discover(ctx, cfg.TickMs, cfg.MaxPeerAgeMs)
		}
	}
}

func runSyncLoop(ctx context.Context, sync *clocksync.Synchronizer, cfg config, logger *zap.Logger) {
	period := time.Second
	if cfg.SamplingRate > 0 {
		period = time.Duration(float64(time.Second) / cfg.SamplingRate)
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sync.SyncTick()
		}
	}
}

func runMetricsLoop(ctx context.Context, coord *coordinator.Coordinator, sync *clocksync.Synchronizer, disc *discovery.Discovery) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.Report(metrics.Source{Coordinator: coord, Synchronizer: sync, Discovery: disc})
		}
	}
}
