package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/config"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	appHTTP "github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/push"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/timesheet-portal-go/internal/repository/redis"
	serviceAuth "github.com/cmlabs-hris/timesheet-portal-go/internal/service/auth"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/service/guard"
	notificationService "github.com/cmlabs-hris/timesheet-portal-go/internal/service/notification"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/service/relay"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timesheet-portal"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	scheduler := cron.NewScheduler(logger)

	var sessions session.Repository
	switch cfg.Session.Store {
	case "redis":
		client, err := database.NewRedisClient(database.RedisOptions{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		sessions = redisRepo.NewSessionRepository(client)
	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		sessions = postgresql.NewSessionRepository(db)

		// Redis expires keys on its own; rows need sweeping.
		scheduler.AddJob("purge_expired_sessions", time.Hour, func(ctx context.Context) error {
			n, err := postgresql.PurgeExpiredSessions(ctx, db)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("purged expired sessions", slog.Int64("count", n))
			}
			return nil
		})
	}

	api := apiclient.New(apiclient.Config{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout,
		BreakerMaxFailures: cfg.API.BreakerMaxFailures,
		BreakerTimeout:     cfg.API.BreakerTimeout,
	}, logger)
	defer api.Close()

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	routeGuard := guard.NewGuard(jwtService, guard.DefaultPaths())

	authService := serviceAuth.NewAuthService(sessions, api, cfg.Session.TTL)

	registry := notificationService.NewRegistry()
	hub := sse.NewHub(32, logger)
	pushConfig := push.Config{
		URL:            cfg.Push.URL,
		ReconnectDelay: cfg.Push.ReconnectDelay,
	}
	if pushConfig.URL == "" {
		logger.Warn("PUSH_URL not set, push events disabled")
	}
	eventRelay := relay.NewRelay(registry, relay.NewHubToaster(hub), func(token string) relay.PushClient {
		if pushConfig.URL == "" {
			token = ""
		}
		return push.NewClient(pushConfig, token, logger)
	}, logger)
	scheduler.AddJob("close_idle_push_connections", 5*time.Minute, eventRelay.CloseIdleJob(cfg.Push.IdleTimeout))

	renderer, err := appHTTP.NewRenderer()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	handlers := appHTTP.Handlers{
		Auth: appHTTP.NewAuthHandler(authService, appHTTP.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.Secure,
		}, renderer),
		Page:         appHTTP.NewPageHandler(api, authService, renderer),
		Notification: appHTTP.NewNotificationHandler(registry, eventRelay, hub),
		Timesheet:    appHTTP.NewTimesheetHandler(api, authService, eventRelay),
		Leave:        appHTTP.NewLeaveHandler(api, authService),
		Report:       appHTTP.NewReportHandler(api, authService),
		Directory:    appHTTP.NewDirectoryHandler(api, authService),
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		CORSAllowedOrigins: cfg.App.CORSAllowedOrigins,
		CookieName:         cfg.Session.CookieName,
		LogLevel:           cfg.SlogLevel(),
	}, logger, authService, routeGuard, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Open event streams only end when the hub closes their channels.
	srv.RegisterOnShutdown(hub.Close)

	scheduler.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	scheduler.Stop()
	eventRelay.Shutdown()

	return nil
}
