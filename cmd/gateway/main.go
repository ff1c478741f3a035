package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/medisync/medisync-go/internal/config"
	"github.com/medisync/medisync-go/internal/gateway"
	"github.com/medisync/medisync-go/internal/medisync"
	"github.com/medisync/medisync-go/internal/observability/metrics"
	"github.com/medisync/medisync-go/internal/session"
	"github.com/medisync/medisync-go/pkg/logging"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting medisync gateway",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
	)

	registry := prometheus.NewRegistry()
	clientMetrics := metrics.NewClientMetrics(registry)

	var store session.Store
	switch cfg.SessionBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		store = session.NewRedisStore(rdb, "", cfg.SessionTTL)
	default:
		store = session.NewFileStore(cfg.SessionFile)
	}

	sess := session.New(store, logger)
	if err := sess.Init(context.Background()); err != nil {
		logger.Error("failed to restore session", "error", err)
		os.Exit(1)
	}

	casing := medisync.SendLowercase
	if cfg.StatusUppercase {
		casing = medisync.SendCapitalized
	}
	client, err := medisync.New(medisync.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Casing:  casing,
		Tokens:  sess,
		Logger:  logger,
		Metrics: clientMetrics,
	})
	if err != nil {
		logger.Error("failed to create backend client", "error", err)
		os.Exit(1)
	}

	handler := gateway.NewHandler(client, sess, logger)
	router := gateway.NewRouter(&gateway.RouterConfig{
		Handler:            handler,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		LoginRatePerSecond: cfg.LoginRatePerSecond,
		LoginBurst:         cfg.LoginBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("gateway stopped")
}
