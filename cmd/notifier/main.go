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

	"devsecops-platform/internal/config"
	"devsecops-platform/internal/notify"
	"devsecops-platform/internal/relay"
	"devsecops-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// The notifier is a stateless relay: CI posts pipeline outcomes here and
// they fan out to the configured role webhooks.
func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadNotifier()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, "notifier")
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	notifier := notify.NewService(
		notify.NewResolver(cfg.Notify),
		notify.NewFanout(cfg.Notify.DeliveryTimeout, log, nil),
		log,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"service":   "notifier",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	h := relay.Handler{Notify: notifier}
	r.POST("/notify/pipeline", relay.RequireWebhookToken(cfg.Notify.WebhookToken), h.HandlePipeline)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("notifier listening", "addr", srv.Addr, "env", cfg.App.Env)
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
}
