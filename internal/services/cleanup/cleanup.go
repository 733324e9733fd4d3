// Package cleanup sweeps abandoned pipeline work directories.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/pipeline"
)

// JobPruner deletes finished jobs older than a retention window.
type JobPruner interface {
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}

// Service removes stale work directories left behind by crashed or
// keep_temp runs, and optionally prunes old finished jobs.
type Service struct {
	tempDir         string
	maxAge          time.Duration
	cleanupInterval time.Duration
	logger          *slog.Logger

	pruner        JobPruner
	retentionDays int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	now    func() time.Time
}

// NewService creates a new cleanup service
func NewService(tempDir string, maxAge, cleanupInterval time.Duration, logger *slog.Logger) *Service {
	return &Service{
		tempDir:         tempDir,
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
		logger:          logging.NewComponent(logger, "cleanup"),
		now:             time.Now,
	}
}

// PruneJobs makes every sweep also delete finished jobs older than
// retentionDays. A non-positive retention disables pruning.
func (s *Service) PruneJobs(pruner JobPruner, retentionDays int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruner = pruner
	s.retentionDays = retentionDays
}

// Start runs one sweep immediately and then one per interval until Stop or
// ctx cancellation.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.sweepAndLog(ctx)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweepAndLog(ctx)
			case <-ctx.Done():
				s.logger.Info("cleanup service stopped")
				return
			}
		}
	}()

	s.logger.Info("cleanup service started",
		slog.String("temp_dir", s.tempDir),
		slog.Duration("interval", s.cleanupInterval),
		slog.Duration("max_age", s.maxAge))
}

// Stop stops the periodic sweep and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Service) sweepAndLog(ctx context.Context) {
	removed, err := s.Sweep()
	if err != nil {
		s.logger.Warn("cleanup sweep failed", logging.Error(err))
	} else if removed > 0 {
		s.logger.Info("removed stale work directories", slog.Int("count", removed))
	}

	if s.pruner == nil || s.retentionDays <= 0 {
		return
	}
	pruned, err := s.pruner.CleanupOldJobs(ctx, s.retentionDays)
	if err != nil {
		s.logger.Warn("job pruning failed", logging.Error(err))
		return
	}
	if pruned > 0 {
		s.logger.Info("pruned old jobs", slog.Int64("count", pruned))
	}
}

// Sweep removes every work directory under the temp dir whose mtime is older
// than the max age and returns how many were removed. A missing temp dir is
// not an error.
func (s *Service) Sweep() (int, error) {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read temp dir %s: %w", s.tempDir, err)
	}

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), pipeline.WorkDirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(s.tempDir, entry.Name())
		s.logger.Debug("removing stale work directory", slog.String("path", path))
		if err := os.RemoveAll(path); err != nil {
			s.logger.Warn("failed to remove work directory", slog.String("path", path), logging.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
