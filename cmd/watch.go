package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/pipeline"
	"github.com/killallgit/autocut/internal/reconstruct"
	"github.com/killallgit/autocut/internal/watcher"
	"github.com/killallgit/autocut/pkg/config"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Cut every new video that lands in a directory",
		Long: `Watch a directory and remove silence from each new video once it has
finished being written. Files are processed one at a time in arrival order.
Outputs named *_ALTERED are ignored.

Example:
  autocut watch ./recordings
  autocut watch ./recordings --settle-delay 10s --frame-margin 2`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().Duration("settle-delay", 0, "time a file must stay unchanged before it is cut (default from config)")
	addCutFlags(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := newRunner(appConfig, appLogger)
	if err != nil {
		return err
	}

	settle := appConfig.Watch.SettleDelay
	if cmd.Flags().Changed("settle-delay") {
		settle, _ = cmd.Flags().GetDuration("settle-delay")
	}

	w, err := newDirWatcher(args[0], appConfig.Watch, settle)
	if err != nil {
		return err
	}
	defer w.Stop()
	go w.Start(ctx)

	return cutEvents(ctx, w, runner, cutOptions(cmd, appConfig), cmd.OutOrStdout(),
		logging.NewComponent(appLogger, "watch"))
}

// newDirWatcher creates a watcher on dir that skips autocut's own outputs.
func newDirWatcher(dir string, cfg config.WatchConfig, settle time.Duration) (*watcher.Watcher, error) {
	w, err := watcher.New(appLogger, watcher.Options{
		Extensions:  cfg.Extensions,
		SettleDelay: settle,
		SkipSuffix:  pipeline.OutputSuffix,
	})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(dir); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}

type eventSource interface {
	Events() <-chan watcher.Event
	Errors() <-chan error
}

// cutEvents runs the pipeline for each settled file until ctx ends. A failed
// file is logged and skipped.
func cutEvents(ctx context.Context, src eventSource, runner cutRunner, opts pipeline.Options, out io.Writer, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-src.Errors():
			logger.Warn("watcher error", logging.Error(err))
		case ev := <-src.Events():
			logger.Info("cutting new file", slog.String("path", ev.Path), slog.Int64("size", ev.Size))
			res, err := runner.Run(ctx, pipeline.Request{Input: ev.Path, Options: opts}, reconstruct.NopObserver{})
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("cut failed", slog.String("path", ev.Path), logging.Error(err))
				continue
			}
			printResult(out, res)
		}
	}
}
