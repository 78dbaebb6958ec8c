package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devsecops-platform/internal/auth"
	"devsecops-platform/internal/config"
	"devsecops-platform/internal/files"
	"devsecops-platform/internal/httpapi"
	"devsecops-platform/internal/mail"
	"devsecops-platform/internal/notify"
	"devsecops-platform/internal/ratelimit"
	"devsecops-platform/internal/subscribers"
	"devsecops-platform/internal/users"
	"devsecops-platform/pkg/logger"
	"devsecops-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, "api")
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	objects, err := files.NewS3Store(rootCtx, cfg.Storage)
	if err != nil {
		log.Error("object storage init failed", "err", err)
		os.Exit(1)
	}

	subscriberStore := subscribers.NewStore(db)

	// Account activity fans out to the admin webhook and the mailing list.
	notifier := notify.NewService(
		notify.NewResolver(cfg.Notify),
		notify.NewFanout(cfg.Notify.DeliveryTimeout, log, nil),
		log,
	).WithEmail(notify.EmailChannel{
		Sender:      mail.NewSender(cfg.SMTP, log),
		Subscribers: subscriberStore,
		AdminEmail:  cfg.SMTP.AdminEmail,
	})

	// The dispatcher outlives rootCtx so queued events still drain during
	// shutdown; Close below is the lifecycle control.
	dispatcher := notify.NewDispatcher(notifier, 64, log)
	dispatcher.Start(context.Background())

	userService := users.NewService(users.NewStore(db), tokens, dispatcher)
	fileService := files.NewService(files.NewStore(db), objects)

	handlers := httpapi.Handlers{
		Users:       userService,
		Files:       &httpapi.FileHandlers{Service: fileService},
		Subscribers: subscriberStore,
		LoginLimit:  ratelimit.NewLoginLimiter(rdb, 10, time.Minute),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, handlers, auth.RequireAuth(tokens))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	// Drain queued notifications before exit.
	dispatcher.Close()
}
