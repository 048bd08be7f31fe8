package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vytor/ezexam/internal/api"
	"github.com/vytor/ezexam/internal/catalog"
	"github.com/vytor/ezexam/internal/jobs"
	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/repository/sqlite"
	"github.com/vytor/ezexam/internal/services"
	"github.com/vytor/ezexam/internal/worker"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().Bool("seed", false, "Seed the lesson catalog before serving")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	loc, _ := cfg.Location()

	log.Info("===========================================")
	log.Info("%s Server Starting", cfg.APITitle)
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("db_max_open_conns=%d", cfg.DBMaxOpenConns)
	log.Debug("log_level=%s log_format=%s", cfg.LogLevel, cfg.LogFormat)
	log.Debug("demo_user_id=%d", cfg.DemoUserID)
	log.Debug("streak_timezone=%s", loc)
	log.Debug("allowed_origins=%v", cfg.AllowedOrigins)
	log.Debug("recompute_worker_count=%d", cfg.RecomputeWorkerCount)
	log.Debug("recompute_queue_size=%d", cfg.RecomputeQueueSize)

	database, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	lessonRepo := sqlite.NewLessonRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)
	ledger := sqlite.NewAttemptLedger(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)

	if seed, _ := cmd.Flags().GetBool("seed"); seed {
		c, err := catalog.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		report, err := catalog.Seed(logger.NewContext(cmd.Context(), log), lessonRepo, userRepo, c, cfg.DemoUserID)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info("catalog seeded: created=%d skipped=%d", report.LessonsCreated, report.LessonsSkipped)
	}

	recomputePool := worker.NewPool(cfg.RecomputeWorkerCount, cfg.RecomputeQueueSize)

	progressService := services.NewProgressService(progressRepo, ledger, userRepo, nil)
	submissionService := services.NewSubmissionService(
		lessonRepo, userRepo, ledger, progressService,
		jobs.NewWorkerQueue(recomputePool, progressService),
		services.SubmissionOptions{Location: loc},
	)

	srv := &api.Server{
		LessonService:     services.NewLessonService(lessonRepo, progressRepo),
		SubmissionService: submissionService,
		ProfileService:    services.NewProfileService(userRepo, lessonRepo, progressRepo),
		Health:            database,
		DemoUserID:        cfg.DemoUserID,
		AllowedOrigins:    cfg.AllowedOrigins,
		Title:             cfg.APITitle,
		Version:           cfg.APIVersion,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recomputePool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		recomputePool.Stop()
		return fmt.Errorf("http server: %w", err)
	case <-sigCtx.Done():
		log.Info("received shutdown signal, initiating graceful shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Queued retries still run; Stop drains before cancelling.
	log.Debug("stopping recompute pool")
	recomputePool.Stop()

	log.Info("===========================================")
	log.Info("%s Server Stopped", cfg.APITitle)
	log.Info("===========================================")
	return nil
}
