// ratesd runs the background rate refresh loop and serves the rate cache
// over HTTP.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/valutatrade/valutatrade-hub/internal/bootstrap"
	"github.com/valutatrade/valutatrade-hub/internal/config"
	"github.com/valutatrade/valutatrade-hub/internal/domain"
	httpserver "github.com/valutatrade/valutatrade-hub/internal/infrastructure/http"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/logx"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/metrics"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/scheduler"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()

	store := bootstrap.BuildRateStore(cfg)
	updates := bootstrap.BuildUpdateService(cfg, store, metrics.NewUpdateMetrics())

	guard, closeGuard, err := bootstrap.BuildRefreshGuard(cfg)
	if err != nil {
		logger.Fatal("bootstrap refresh guard", zap.Error(err))
	}
	defer closeGuard()

	sched := scheduler.New(func(ctx context.Context) (domain.UpdateResult, error) {
		return updates.RunUpdate(ctx, "")
	}, logger)
	sched.Start(cfg.RefreshInterval)

	srv := httpserver.NewServer(updates, store, guard, cfg.CacheTTL)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpserver.NewRouter(srv),
	}

	go func() {
		logger.Info("server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
