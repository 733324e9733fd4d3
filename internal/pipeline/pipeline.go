// Package pipeline drives a full silence-removal run: probe, extract,
// classify, reconstruct, write, mux and verify.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/reconstruct"
	"github.com/killallgit/autocut/internal/silence"
	"github.com/killallgit/autocut/internal/waveform"
	apperrors "github.com/killallgit/autocut/pkg/errors"
	"github.com/killallgit/autocut/pkg/ffmpeg"
)

// WorkDirPrefix names every per-run temporary directory.
const WorkDirPrefix = "autocut-"

// Stage names used in OutputNotCreated errors and logs.
const (
	StageExtract = "extract_track"
	StageEncode  = "encode_video"
	StageWrite   = "write_track"
	StageMux     = "mux"
)

// Request describes one run. An empty Output selects DefaultOutputPath.
type Request struct {
	Input   string
	Output  string
	Options Options
}

// Result summarises a finished run.
type Result struct {
	Output         string             `json:"output"`
	Intervals      []silence.Interval `json:"intervals"`
	Summary        silence.Summary    `json:"summary"`
	Tracks         int                `json:"tracks"`
	FrameRate      float64            `json:"frame_rate"`
	FramesRead     int                `json:"frames_read"`
	OverflowFrames int                `json:"overflow_frames"`
	Samples        int                `json:"samples"`
	Elapsed        time.Duration      `json:"elapsed"`
}

// Analysis is the classification of one track without reconstruction.
type Analysis struct {
	Info      *ffmpeg.VideoInfo  `json:"info"`
	Track     int                `json:"track"`
	Intervals []silence.Interval `json:"intervals"`
	Summary   silence.Summary    `json:"summary"`
}

// Pipeline runs silence removal against a Codec.
type Pipeline struct {
	codec         Codec
	classifier    *silence.Classifier
	reconstructor *reconstruct.Reconstructor
	tempRoot      string
	logger        *slog.Logger
}

// New creates a pipeline that places work directories under tempRoot.
func New(codec Codec, tempRoot string, logger *slog.Logger) *Pipeline {
	logger = logging.NewComponent(logger, "pipeline")
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	return &Pipeline{
		codec:         codec,
		classifier:    silence.NewClassifier(logger),
		reconstructor: reconstruct.NewReconstructor(logger),
		tempRoot:      tempRoot,
		logger:        logger,
	}
}

// Run removes silence from req.Input and writes req.Output. Steps run
// strictly in order and the first failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, req Request, observer reconstruct.Observer) (*Result, error) {
	started := time.Now()
	opts := req.Options
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkInput(req.Input); err != nil {
		return nil, err
	}

	output := req.Output
	if output == "" {
		output = DefaultOutputPath(req.Input)
	}

	unlock, err := lockOutput(output)
	if err != nil {
		return nil, err
	}
	defer unlock()

	workDir, cleanup, err := p.makeWorkDir(opts.KeepTemp)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	logger := p.logger.With(slog.String("input", req.Input), slog.String("output", output))

	info, err := p.probe(ctx, req.Input, opts.TrackIndex)
	if err != nil {
		return nil, err
	}
	logger.Info("probed input",
		slog.Int("width", info.Width),
		slog.Int("height", info.Height),
		slog.String("frame_rate", info.FrameRateExpr),
		slog.Int("audio_tracks", info.AudioTracks))

	tracks := make([]*waveform.Waveform, info.AudioTracks)
	for i := range tracks {
		if tracks[i], err = p.extract(ctx, req.Input, i, opts, workDir); err != nil {
			return nil, err
		}
	}
	logger.Info("extracted audio tracks", slog.Int("tracks", len(tracks)))

	intervals, err := p.classifier.Classify(tracks[opts.TrackIndex], opts.classifierParams(info.FrameRate))
	if err != nil {
		return nil, err
	}
	summary := silence.Summarize(intervals)
	logger.Info("classified frames",
		slog.Int("intervals", len(intervals)),
		slog.Int("kept_frames", summary.KeptFrames),
		slog.Int("total_frames", summary.TotalFrames))

	videoExt := filepath.Ext(output)
	if videoExt == "" {
		videoExt = ".mp4"
	}
	videoPath := filepath.Join(workDir, "video"+videoExt)
	rec, err := p.reconstruct(ctx, req.Input, videoPath, info, opts.VideoCodec, tracks, intervals, observer)
	if err != nil {
		return nil, err
	}
	logger.Info("reconstructed video",
		slog.Int("kept_frames", rec.KeptFrames),
		slog.Int("samples", rec.Samples))

	trackPaths := make([]string, len(rec.Tracks))
	for i, w := range rec.Tracks {
		trackPaths[i] = filepath.Join(workDir, fmt.Sprintf("new%d.wav", i))
		if err := waveform.WriteWAV(trackPaths[i], w, waveform.DefaultBitDepth); err != nil {
			return nil, err
		}
		if err := verifyCreated(StageWrite, trackPaths[i]); err != nil {
			return nil, err
		}
	}

	muxReq := ffmpeg.MuxRequest{
		Video:    videoPath,
		Tracks:   trackPaths,
		Output:   output,
		Separate: opts.KeepTracksSeparate,
	}
	if err := p.codec.Mux(ctx, muxReq); err != nil {
		return nil, err
	}
	if err := verifyCreated(StageMux, output); err != nil {
		return nil, err
	}

	res := &Result{
		Output:         output,
		Intervals:      intervals,
		Summary:        summary,
		Tracks:         len(tracks),
		FrameRate:      info.FrameRate,
		FramesRead:     rec.FramesRead,
		OverflowFrames: rec.OverflowFrames,
		Samples:        rec.Samples,
		Elapsed:        time.Since(started),
	}
	logger.Info("silence removal complete",
		slog.Float64("kept_ratio", summary.KeptRatio()),
		slog.Duration("elapsed", res.Elapsed))
	return res, nil
}

// Analyze probes input and classifies the selected track only.
func (p *Pipeline) Analyze(ctx context.Context, input string, opts Options) (*Analysis, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkInput(input); err != nil {
		return nil, err
	}

	workDir, cleanup, err := p.makeWorkDir(opts.KeepTemp)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	info, err := p.probe(ctx, input, opts.TrackIndex)
	if err != nil {
		return nil, err
	}
	track, err := p.extract(ctx, input, opts.TrackIndex, opts, workDir)
	if err != nil {
		return nil, err
	}
	intervals, err := p.classifier.Classify(track, opts.classifierParams(info.FrameRate))
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Info:      info,
		Track:     opts.TrackIndex,
		Intervals: intervals,
		Summary:   silence.Summarize(intervals),
	}, nil
}

// probe reads the input layout and rejects an out-of-range track before
// any extraction happens.
func (p *Pipeline) probe(ctx context.Context, input string, track int) (*ffmpeg.VideoInfo, error) {
	info, err := p.codec.Probe(ctx, input)
	if err != nil {
		return nil, err
	}
	if track >= info.AudioTracks {
		return nil, apperrors.TrackIndexOutOfRange(track, info.AudioTracks).
			WithDetail("file", input)
	}
	if !(info.FrameRate > 0) {
		return nil, apperrors.InvalidInput("%s: frame rate must be positive, got %v", input, info.FrameRate)
	}
	return info, nil
}

func (p *Pipeline) extract(ctx context.Context, input string, track int, opts Options, workDir string) (*waveform.Waveform, error) {
	path := filepath.Join(workDir, fmt.Sprintf("%d.wav", track))
	if err := p.codec.ExtractTrack(ctx, input, track, opts.extractOptions(), path); err != nil {
		return nil, err
	}
	if err := verifyCreated(StageExtract, path); err != nil {
		return nil, err
	}
	return waveform.ReadWAV(path, track)
}

func (p *Pipeline) reconstruct(
	ctx context.Context,
	input, videoPath string,
	info *ffmpeg.VideoInfo,
	videoCodec string,
	tracks []*waveform.Waveform,
	intervals []silence.Interval,
	observer reconstruct.Observer,
) (*reconstruct.Result, error) {
	reader, err := p.codec.OpenFrameReader(ctx, input, info)
	if err != nil {
		return nil, err
	}
	writer, err := p.codec.OpenFrameWriter(ctx, videoPath, info, videoCodec)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	rec, err := p.reconstructor.Reconstruct(ctx, reader, writer, tracks, intervals, observer)
	readErr := reader.Close()
	writeErr := writer.Close()
	switch {
	case err != nil:
		return nil, err
	case readErr != nil:
		return nil, readErr
	case writeErr != nil:
		return nil, writeErr
	}

	if err := verifyCreated(StageEncode, videoPath); err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *Pipeline) makeWorkDir(keep bool) (string, func(), error) {
	if err := os.MkdirAll(p.tempRoot, 0o755); err != nil {
		return "", nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "create temp root %s", p.tempRoot)
	}
	dir := filepath.Join(p.tempRoot, WorkDirPrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "create work dir %s", dir)
	}
	cleanup := func() {
		if keep {
			p.logger.Info("keeping work dir", slog.String("dir", dir))
			return
		}
		if err := os.RemoveAll(dir); err != nil {
			p.logger.Warn("failed to remove work dir", slog.String("dir", dir), logging.Error(err))
		}
	}
	return dir, cleanup, nil
}

func checkInput(input string) error {
	if input == "" {
		return apperrors.InvalidInput("input path is empty")
	}
	st, err := os.Stat(input)
	if err != nil {
		return apperrors.InvalidInput("input %s is not readable: %v", input, err).WithDetail("file", input)
	}
	if st.IsDir() {
		return apperrors.InvalidInput("input %s is a directory", input).WithDetail("file", input)
	}
	return nil
}

// lockOutput prevents two runs from writing the same output at once.
func lockOutput(output string) (func(), error) {
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "create output dir %s", dir)
		}
	}
	lockPath := output + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "acquire lock %s", lockPath)
	}
	if !ok {
		return nil, apperrors.OutputLocked(output)
	}
	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}, nil
}

func verifyCreated(stage, path string) error {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return apperrors.OutputNotCreated(stage, path)
	}
	return nil
}
