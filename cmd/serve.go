package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/killallgit/autocut/api"
	"github.com/killallgit/autocut/api/types"
	"github.com/killallgit/autocut/internal/database"
	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/models"
	"github.com/killallgit/autocut/internal/pipeline"
	"github.com/killallgit/autocut/internal/services/cleanup"
	"github.com/killallgit/autocut/internal/services/cuts"
	"github.com/killallgit/autocut/internal/services/jobs"
	"github.com/killallgit/autocut/internal/services/workers"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and job workers",
		Long: `Start the autocut HTTP API with its job queue.

Cut requests posted to /api/v1/cuts are queued in the database and processed
by the worker pool. When a watch directory is configured, new videos in it
are queued too.

Example:
  autocut serve
  autocut serve --port 9090 --workers 2
  autocut serve --watch ./recordings`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("host", "", "server host (overrides config)")
	cmd.Flags().Int("port", 0, "server port (overrides config)")
	cmd.Flags().Int("workers", 0, "number of job workers (overrides config)")
	cmd.Flags().String("watch", "", "directory whose new videos are queued (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := *appConfig
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("workers") {
		cfg.Processing.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("watch") {
		cfg.Watch.Dir, _ = flags.GetString("watch")
	}
	logger := logging.NewComponent(appLogger, "serve")

	db, err := database.InitializeFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	jobService := jobs.NewService(jobs.NewRepository(db.DB), appLogger)
	cutService := cuts.NewService(cuts.NewRepository(db.DB), appLogger)

	runner, err := newRunner(&cfg, appLogger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pool := workers.NewWorkerPool(jobService, cfg.Processing.Workers, cfg.Processing.PollInterval, appLogger)
	pool.RegisterProcessor(workers.NewCutProcessor(
		runner, jobService, cutService,
		pipeline.OptionsFromConfig(cfg.Cut),
		cfg.Processing.JobTimeout,
		appLogger,
	))
	if err := pool.Start(ctx); err != nil {
		return err
	}
	defer pool.Stop()

	sweeper := cleanup.NewService(cfg.Storage.TempDir, cfg.Storage.MaxTempAge, cfg.Storage.CleanupInterval, appLogger)
	sweeper.PruneJobs(jobService, cfg.Storage.JobRetention)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	if cfg.Watch.Dir != "" {
		w, err := newDirWatcher(cfg.Watch.Dir, cfg.Watch, cfg.Watch.SettleDelay)
		if err != nil {
			return err
		}
		defer w.Stop()
		go w.Start(ctx)
		go enqueueEvents(ctx, w, jobService, logging.NewComponent(appLogger, "watch"))
	}

	srv := api.NewServer(cfg.Server, cfg.Security, &types.Dependencies{
		DB:         db,
		JobService: jobService,
		CutService: cutService,
		WorkerPool: pool,
		Build:      types.BuildInfo{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime},
		Logger:     appLogger,
	}, appLogger)
	if err := srv.Initialize(); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		logger.Info("shutting down")
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", logging.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	cancel()
	return runErr
}

// enqueueEvents queues a silence cut for each settled file. A file that
// already has an active job is not queued twice.
func enqueueEvents(ctx context.Context, src eventSource, jobService jobs.Producer, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-src.Errors():
			logger.Warn("watcher error", logging.Error(err))
		case ev := <-src.Events():
			job, err := jobService.EnqueueUniqueJob(ctx, models.JobTypeSilenceCut,
				models.CutPayload{InputPath: ev.Path}.Payload(),
				models.PayloadInputPath,
				jobs.WithCreatedBy("watch"))
			if err != nil {
				logger.Error("failed to queue new file", slog.String("path", ev.Path), logging.Error(err))
				continue
			}
			logger.Info("queued new file", slog.String("path", ev.Path), slog.Uint64("job_id", uint64(job.ID)))
		}
	}
}
