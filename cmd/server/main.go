package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/medreza/giftcard-validation-service/pkg/auth"
	"github.com/medreza/giftcard-validation-service/pkg/config"
	"github.com/medreza/giftcard-validation-service/pkg/logger"
	"github.com/medreza/giftcard-validation-service/pkg/repository"
	"github.com/medreza/giftcard-validation-service/pkg/router"
	"github.com/medreza/giftcard-validation-service/pkg/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	if cfg.UsesDefaultCredentials() {
		logrus.Warn("Using default admin credentials, set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	store := storage.NewFileStore(cfg.DataDir)
	snap, err := store.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize data store")
	}

	cardRepo := repository.NewGiftCardRepository(store, snap)
	guard := auth.NewPlaintextGuard(cfg.AdminUsername, cfg.AdminPassword)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(cardRepo, guard, router.Options{
			PublicDir:      cfg.PublicDir,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("Starting gift card service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down service...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Service forced to shutdown")
	}

	if err := cardRepo.Flush(); err != nil {
		logrus.WithError(err).Error("Failed to persist state on shutdown")
	}

	logrus.Info("Service exited")
}
