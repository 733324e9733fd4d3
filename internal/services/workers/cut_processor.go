package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/models"
	"github.com/killallgit/autocut/internal/pipeline"
	"github.com/killallgit/autocut/internal/progress"
	"github.com/killallgit/autocut/internal/reconstruct"
	"github.com/killallgit/autocut/internal/services/cuts"
	"github.com/killallgit/autocut/internal/services/jobs"
	apperrors "github.com/killallgit/autocut/pkg/errors"
	"github.com/killallgit/autocut/pkg/ffmpeg"
)

// CutRunner runs one silence removal. *pipeline.Pipeline satisfies it.
type CutRunner interface {
	Run(ctx context.Context, req pipeline.Request, observer reconstruct.Observer) (*pipeline.Result, error)
}

// CutProcessor processes silence cut jobs.
type CutProcessor struct {
	runner     CutRunner
	jobService jobs.Consumer
	cutService cuts.CutService
	defaults   pipeline.Options
	timeout    time.Duration
	logger     *slog.Logger
}

// NewCutProcessor creates a processor that applies job payload overrides on
// top of defaults. A zero timeout leaves runs unbounded.
func NewCutProcessor(
	runner CutRunner,
	jobService jobs.Consumer,
	cutService cuts.CutService,
	defaults pipeline.Options,
	timeout time.Duration,
	logger *slog.Logger,
) *CutProcessor {
	return &CutProcessor{
		runner:     runner,
		jobService: jobService,
		cutService: cutService,
		defaults:   defaults,
		timeout:    timeout,
		logger:     logging.NewComponent(logger, "cut_processor"),
	}
}

// CanProcess returns true for silence cut jobs
func (p *CutProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeSilenceCut
}

// ProcessJob runs the pipeline for job, stores its CutRecord and completes
// the job. Failures are returned as *models.StructuredJobError.
func (p *CutProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	req, err := p.parseRequest(job)
	if err != nil {
		return classifyCutError(err, "")
	}

	logger := p.logger.With(slog.Uint64("job_id", uint64(job.ID)), slog.String("input", req.Input))
	logger.Info("starting silence cut")

	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	reporter := progress.NewJobReporter(func(percent int) {
		if err := p.jobService.UpdateProgress(ctx, job.ID, percent); err != nil {
			logger.Warn("failed to update job progress", logging.Error(err))
		}
	})

	res, err := p.runner.Run(runCtx, req, reporter)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("silence cut exceeded job timeout %s: %w", p.timeout, err)
		}
		return classifyCutError(err, req.Input)
	}

	record, err := cuts.RecordFromResult(job.ID, req, res)
	if err != nil {
		return models.NewSystemError("encode_intervals", "Failed to encode intervals", err.Error(), err)
	}
	if err := p.cutService.SaveCut(ctx, record); err != nil {
		return models.NewSystemError("save_cut", "Failed to save cut record", err.Error(), err)
	}

	result := models.JobResult{
		"cut_id":       record.ID,
		"output":       res.Output,
		"total_frames": res.Summary.TotalFrames,
		"kept_frames":  res.Summary.KeptFrames,
		"kept_ratio":   res.Summary.KeptRatio(),
		"tracks":       res.Tracks,
		"elapsed_ms":   res.Elapsed.Milliseconds(),
	}
	if err := p.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return models.NewSystemError("complete_job", "Failed to complete job", err.Error(), err)
	}

	logger.Info("silence cut finished",
		slog.String("output", res.Output),
		slog.Int("kept_frames", res.Summary.KeptFrames),
		slog.Int("total_frames", res.Summary.TotalFrames))
	return nil
}

// parseRequest builds a pipeline request from the job payload. Keys the
// payload leaves out keep the processor defaults.
func (p *CutProcessor) parseRequest(job *models.Job) (pipeline.Request, error) {
	payload, err := job.CutPayload()
	if err != nil {
		appErr := apperrors.InvalidInput("job %d: %v", job.ID, err)
		var pe *models.PayloadError
		if errors.As(err, &pe) {
			appErr = appErr.WithDetail("field", pe.Key)
		}
		return pipeline.Request{}, appErr
	}

	opts := p.defaults
	if payload.SilentThreshold != nil {
		opts.SilentThreshold = *payload.SilentThreshold
	}
	if payload.FrameMargin != nil {
		opts.FrameMargin = *payload.FrameMargin
	}
	if payload.Track != nil {
		opts.TrackIndex = *payload.Track
	}
	if payload.KeepTracksSeparate != nil {
		opts.KeepTracksSeparate = *payload.KeepTracksSeparate
	}

	return pipeline.Request{Input: payload.InputPath, Output: payload.OutputPath, Options: opts}, nil
}

// classifyCutError maps pipeline failures to job error categories. Caller
// mistakes fail the job permanently, collaborator failures are processing
// errors and everything else is a system error.
func classifyCutError(err error, input string) *models.StructuredJobError {
	var structured *models.StructuredJobError
	if errors.As(err, &structured) {
		return structured
	}

	details := errorDetails(err, input)
	code := string(apperrors.GetCode(err))

	switch {
	case apperrors.Is(err, apperrors.ErrCodeTrackIndexOutOfRange):
		return models.NewNotFoundError(code, "Requested audio track does not exist", details, err)
	case apperrors.IsPermanent(err):
		return models.NewNotFoundError(code, "Invalid silence cut request", details, err)
	case apperrors.Is(err, apperrors.ErrCodeOutputNotCreated):
		return models.NewProcessingError(code, "A processing stage did not produce its output", details, err)
	case apperrors.Is(err, apperrors.ErrCodeOutputLocked):
		return models.NewSystemError(code, "Output is locked by another run", details, err)
	}

	var procErr *ffmpeg.ProcessingError
	switch {
	case errors.As(err, &procErr):
		return models.NewProcessingError(procErr.Operation, "ffmpeg failed", details, err)
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewProcessingError("timeout", "Silence cut timed out", details, err)
	case errors.Is(err, context.Canceled):
		return models.NewSystemError("cancelled", "Silence cut was cancelled", details, err)
	case apperrors.Is(err, apperrors.ErrCodeCodec):
		return models.NewProcessingError(code, "Media processing failed", details, err)
	}

	return models.NewSystemError("internal", "Silence cut failed", details, err)
}

func errorDetails(err error, input string) string {
	var b strings.Builder
	if input != "" {
		fmt.Fprintf(&b, "Input: %s\n", input)
	}
	if appErr, ok := apperrors.As(err); ok {
		for _, key := range []string{"stage", "file", "index", "available", "field"} {
			if v, ok := appErr.Details[key]; ok {
				fmt.Fprintf(&b, "%s: %v\n", strings.ToUpper(key[:1])+key[1:], v)
			}
		}
	}
	var procErr *ffmpeg.ProcessingError
	if errors.As(err, &procErr) {
		fmt.Fprintf(&b, "Operation: %s\n", procErr.Operation)
		if procErr.Stderr != "" {
			fmt.Fprintf(&b, "FFmpeg stderr: %s\n", procErr.Stderr)
		}
	}
	fmt.Fprintf(&b, "Error: %s", err.Error())
	return b.String()
}
