package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/loan-registry/internal/backup"
	"github.com/Dan9191/loan-registry/internal/config"
	"github.com/Dan9191/loan-registry/internal/export"
	"github.com/Dan9191/loan-registry/internal/handler"
	"github.com/Dan9191/loan-registry/internal/metrics"
	"github.com/Dan9191/loan-registry/internal/repository"
	"github.com/Dan9191/loan-registry/internal/service"
	"github.com/Dan9191/loan-registry/internal/utils/email"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig(".")
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize records file
	repo := repository.NewRepository(cfg.DataFile, logger)
	status, err := repo.EnsureInitialized()
	if err != nil {
		logger.Errorf("Failed to initialize records file %s: %v", cfg.DataFile, err)
	} else if status != repository.HeaderValid {
		logger.Warnf("Records file %s reset to header (%s)", cfg.DataFile, status)
	}

	// Initialize layers
	var notifier service.Notifier
	if cfg.MailEnabled() {
		notifier = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, logger, notifier)
	m := metrics.New()
	h := handler.NewHandler(svc, cfg, m, logger)
	r := handler.NewRouter(h)
	if !cfg.AuthEnabled() {
		logger.Warn("ADMIN_PASSWORD_HASH not set, mutating routes are unauthenticated")
	}

	// Schedule backups
	scheduler := cron.New()
	if cfg.BackupSchedule != "" {
		format, err := export.ParseFormat(cfg.BackupFormat)
		if err != nil {
			logger.Fatalf("Invalid BACKUP_FORMAT: %v", err)
		}
		job := backup.NewJob(svc, cfg.BackupDir, format, logger)
		if _, err := scheduler.AddFunc(cfg.BackupSchedule, job.Func()); err != nil {
			logger.Fatalf("Failed to schedule backup: %v", err)
		}
		logger.Infof("Backups scheduled: %s -> %s", cfg.BackupSchedule, cfg.BackupDir)
	}
	scheduler.Start()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		logger.Fatalf("Server failed: %v", err)
	case sig := <-quit:
		logger.Infof("Shutting down on %s", sig)
	}

	<-scheduler.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}
