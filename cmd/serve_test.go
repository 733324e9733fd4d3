package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/killallgit/autocut/internal/database"
	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/models"
	"github.com/killallgit/autocut/internal/services/jobs"
	"github.com/killallgit/autocut/internal/watcher"
	"github.com/killallgit/autocut/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueEvents(t *testing.T) {
	db, err := database.Initialize(database.MemoryPath, false)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())
	svc := jobs.NewService(jobs.NewRepository(db.DB), logging.NewNop())

	src := newChanSource()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		enqueueEvents(ctx, src, svc, logging.NewNop())
		close(done)
	}()

	src.events <- watcher.Event{Path: "/watch/a.mp4"}
	src.events <- watcher.Event{Path: "/watch/a.mp4"}
	src.events <- watcher.Event{Path: "/watch/b.mp4"}
	// The unbuffered send returns once the previous event is fully handled.
	src.errs <- assert.AnError
	cancel()
	<-done

	list, err := svc.ListJobs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 2, "an active job is not queued twice")

	paths := map[string]bool{}
	for _, job := range list {
		assert.Equal(t, models.JobTypeSilenceCut, job.Type)
		assert.Equal(t, "watch", job.CreatedBy)
		paths[job.InputPath()] = true
	}
	assert.Equal(t, map[string]bool{"/watch/a.mp4": true, "/watch/b.mp4": true}, paths)
}

func TestServeCommand_StopsWithContext(t *testing.T) {
	useStubRunner(t)
	t.Setenv(config.EnvPrefix+"_WATCH_DIR", t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := execute(t, ctx, "serve", "--host", "127.0.0.1", "--port", "0", "--workers", "1")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)

	db, err := database.Initialize(config.GetString("database.path"), false)
	require.NoError(t, err)
	defer db.Close()
	assert.Empty(t, db.PendingMigrations(), "serve migrates on startup")
}
