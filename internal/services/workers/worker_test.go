package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/killallgit/autocut/internal/database"
	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/models"
	"github.com/killallgit/autocut/internal/services/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProcessor struct {
	mu        sync.Mutex
	err       error
	processed []uint
}

func (s *stubProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeSilenceCut
}

func (s *stubProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	s.mu.Lock()
	s.processed = append(s.processed, job.ID)
	s.mu.Unlock()
	return s.err
}

func (s *stubProcessor) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.processed)
}

func setupJobs(t *testing.T) jobs.Service {
	t.Helper()
	db, err := database.Initialize(database.MemoryPath, false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return jobs.NewService(jobs.NewRepository(db.DB), logging.NewNop())
}

func TestWorker_ProcessNextJob(t *testing.T) {
	svc := setupJobs(t)
	ctx := context.Background()
	w := NewWorker("worker-1", svc, time.Second, logging.NewNop())

	_, err := w.processNextJob(ctx)
	assert.Error(t, err, "no processors registered")

	proc := &stubProcessor{}
	w.RegisterProcessor(proc)

	claimed, err := w.processNextJob(ctx)
	require.NoError(t, err)
	assert.False(t, claimed, "empty queue")

	job, err := svc.EnqueueJob(ctx, models.JobTypeSilenceCut, models.JobPayload{models.PayloadInputPath: "/in.mp4"})
	require.NoError(t, err)

	claimed, err = w.processNextJob(ctx)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, []uint{job.ID}, proc.processed)
}

func TestWorker_FailureIsRecorded(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantType   string
		wantCode   string
		wantStatus models.JobStatus
	}{
		{
			name:       "structured error",
			err:        models.NewProcessingError("OUTPUT_NOT_CREATED", "mux did not produce output", "Stage: mux", nil),
			wantType:   "processing",
			wantCode:   "OUTPUT_NOT_CREATED",
			wantStatus: models.JobStatusPermanentlyFailed,
		},
		{
			name:       "plain error",
			err:        errors.New("disk full"),
			wantType:   "system",
			wantStatus: models.JobStatusPermanentlyFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setupJobs(t)
			ctx := context.Background()
			w := NewWorker("worker-1", svc, time.Second, logging.NewNop())
			w.RegisterProcessor(&stubProcessor{err: tt.err})

			job, err := svc.EnqueueJob(ctx, models.JobTypeSilenceCut, models.JobPayload{models.PayloadInputPath: "/in.mp4"})
			require.NoError(t, err)

			claimed, err := w.processNextJob(ctx)
			assert.True(t, claimed)
			assert.ErrorIs(t, err, tt.err)

			got, err := svc.GetJob(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantType, got.ErrorType)
			assert.Equal(t, tt.wantCode, got.ErrorCode)
		})
	}
}

func TestWorkerPool_StartStop(t *testing.T) {
	svc := setupJobs(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, in := range []string{"/a.mp4", "/b.mp4", "/c.mp4"} {
		_, err := svc.EnqueueJob(ctx, models.JobTypeSilenceCut, models.JobPayload{models.PayloadInputPath: in})
		require.NoError(t, err)
	}

	pool := NewWorkerPool(svc, 2, 10*time.Millisecond, logging.NewNop())
	assert.Equal(t, 2, pool.Size())

	proc := &stubProcessor{}
	pool.RegisterProcessor(proc)

	require.NoError(t, pool.Start(ctx))
	assert.Error(t, pool.Start(ctx), "double start")

	assert.Eventually(t, func() bool { return proc.count() == 3 }, 5*time.Second, 10*time.Millisecond)

	pool.Stop()
	pool.Stop()
}

func TestWorkerPool_RecoversStaleJobs(t *testing.T) {
	svc := setupJobs(t)
	ctx := context.Background()

	job, err := svc.EnqueueJob(ctx, models.JobTypeSilenceCut, models.JobPayload{models.PayloadInputPath: "/a.mp4"})
	require.NoError(t, err)
	_, err = svc.ClaimNextJob(ctx, "crashed-worker", nil)
	require.NoError(t, err)

	pool := NewWorkerPool(svc, 0, time.Hour, logging.NewNop())
	assert.Equal(t, 1, pool.Size(), "worker count is at least one")
	pool.RegisterProcessor(&stubProcessor{})
	require.NoError(t, pool.Start(ctx))
	defer pool.Stop()

	got, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, got.Status)
}
