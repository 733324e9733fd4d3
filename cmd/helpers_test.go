package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/killallgit/autocut/internal/pipeline"
	"github.com/killallgit/autocut/internal/reconstruct"
	"github.com/killallgit/autocut/internal/silence"
	"github.com/killallgit/autocut/pkg/config"
	"github.com/killallgit/autocut/pkg/ffmpeg"
)

// stubRunner stands in for the ffmpeg pipeline.
type stubRunner struct {
	mu     sync.Mutex
	failOn string
	inputs []string
	last   pipeline.Request
	opts   pipeline.Options
}

var stubIntervals = []silence.Interval{
	{Start: 0, End: 30, Tier: silence.TierKeep},
	{Start: 30, End: 90, Tier: silence.TierDrop},
	{Start: 90, End: 120, Tier: silence.TierKeep},
}

func (s *stubRunner) Run(ctx context.Context, req pipeline.Request, observer reconstruct.Observer) (*pipeline.Result, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, req.Input)
	s.last = req
	s.mu.Unlock()

	if req.Input == s.failOn {
		return nil, ffmpeg.NewProcessingError("probe", req.Input, errors.New("exit status 1"), "moov atom not found")
	}
	output := req.Output
	if output == "" {
		output = pipeline.DefaultOutputPath(req.Input)
	}
	return &pipeline.Result{
		Output:    output,
		Intervals: stubIntervals,
		Summary:   silence.Summarize(stubIntervals),
		Tracks:    2,
		FrameRate: 30,
		Elapsed:   2 * time.Second,
	}, nil
}

func (s *stubRunner) Analyze(ctx context.Context, input string, opts pipeline.Options) (*pipeline.Analysis, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, input)
	s.opts = opts
	s.mu.Unlock()
	return &pipeline.Analysis{
		Info:      &ffmpeg.VideoInfo{FrameRate: 30, AudioTracks: 2},
		Track:     opts.TrackIndex,
		Intervals: stubIntervals,
		Summary:   silence.Summarize(stubIntervals),
	}, nil
}

func (s *stubRunner) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.inputs...)
}

// useStubRunner swaps newRunner for the duration of the test and points the
// database and temp dir at a fresh directory.
func useStubRunner(t *testing.T) *stubRunner {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvPrefix+"_DATABASE_PATH", dir+"/autocut.db")
	t.Setenv(config.EnvPrefix+"_STORAGE_TEMP_DIR", dir+"/tmp")

	stub := &stubRunner{}
	prev := newRunner
	newRunner = func(*config.Config, *slog.Logger) (cutRunner, error) { return stub, nil }
	t.Cleanup(func() { newRunner = prev })
	return stub
}

// execute runs the command tree with args and returns stdout.
func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}
