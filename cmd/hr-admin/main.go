package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pribylovaa/hr-admin-service/internal/cache"
	"github.com/pribylovaa/hr-admin-service/internal/config"
	"github.com/pribylovaa/hr-admin-service/internal/service"
	"github.com/pribylovaa/hr-admin-service/internal/storage/postgres"
	transport "github.com/pribylovaa/hr-admin-service/internal/transport/http"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting hr-admin-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	// База данных: миграции + пул соединений.
	initCtx, initCancel := context.WithTimeout(rootCtx, 10*time.Second)
	defer initCancel()

	if err := postgres.RunMigrations(initCtx, cfg.DB.DatabaseURL); err != nil {
		log.Error("migrations_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	store, err := postgres.New(initCtx, cfg.DB.DatabaseURL)
	if err != nil {
		log.Error("storage_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage_initialized")

	svc := service.New(store, cfg.Auth)

	// Кэш ролей опционален: пустой redis_url его отключает.
	if cfg.Redis.RedisURL != "" {
		roleCache, err := cache.NewRedisCache(cfg.Redis.RedisURL, "hr:role:")
		if err != nil {
			log.Error("role_cache_init_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}

		defer func() {
			if cerr := roleCache.Close(); cerr != nil {
				log.Warn("role_cache_close_failed", slog.String("err", cerr.Error()))
			}
		}()

		svc.SetRoleCache(roleCache, cfg.Redis.RoleTTL)
		log.Info("role_cache_enabled")
	}

	var ready int32 // 0 — not ready; 1 — ready

	handler := transport.NewRouter(svc, cfg, transport.Options{
		Logger:   log,
		Timeout:  cfg.Timeouts.Service,
		BasePath: "/api",
		Ready: func() bool {
			return atomic.LoadInt32(&ready) == 1
		},
	})

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
