package cmd

import (
	"context"
	"log/slog"

	"github.com/killallgit/autocut/internal/pipeline"
	"github.com/killallgit/autocut/internal/reconstruct"
	"github.com/killallgit/autocut/pkg/config"
	"github.com/killallgit/autocut/pkg/ffmpeg"
	"github.com/spf13/cobra"
)

// cutRunner is the part of *pipeline.Pipeline the commands use.
type cutRunner interface {
	Run(ctx context.Context, req pipeline.Request, observer reconstruct.Observer) (*pipeline.Result, error)
	Analyze(ctx context.Context, input string, opts pipeline.Options) (*pipeline.Analysis, error)
}

// newRunner builds the ffmpeg-backed pipeline. Tests replace it.
var newRunner = func(cfg *config.Config, logger *slog.Logger) (cutRunner, error) {
	ff := ffmpeg.New(cfg.Processing.FFmpegPath, cfg.Processing.FFprobePath, cfg.Processing.FFmpegTimeout)
	if err := ff.ValidateBinaries(); err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.NewFFmpegCodec(ff), cfg.Storage.TempDir, logger), nil
}

// addAnalysisFlags registers the flags that affect classification.
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("silent-threshold", 0, "normalized level below which a frame is silent (default from config)")
	cmd.Flags().Int("frame-margin", 0, "frames kept on each side of loud frames (default from config)")
	cmd.Flags().Int("track", 0, "audio track analysed for silence, numbered from 0 (default from config)")
	cmd.Flags().Int("sample-rate", 0, "sample rate used for extracted audio (default from config)")
}

// addCutFlags registers analysis flags plus those that affect output.
func addCutFlags(cmd *cobra.Command) {
	addAnalysisFlags(cmd)
	cmd.Flags().Bool("keep-tracks-separate", false, "keep every audio track as its own stream instead of merging")
	cmd.Flags().String("video-codec", "", "ffmpeg video encoder (default from config)")
	cmd.Flags().Bool("keep-temp", false, "keep the work directory after the run")
}

// cutOptions starts from the cut config and applies every flag the user set.
func cutOptions(cmd *cobra.Command, cfg *config.Config) pipeline.Options {
	opts := pipeline.OptionsFromConfig(cfg.Cut)
	flags := cmd.Flags()

	if flags.Changed("silent-threshold") {
		opts.SilentThreshold, _ = flags.GetFloat64("silent-threshold")
	}
	if flags.Changed("frame-margin") {
		opts.FrameMargin, _ = flags.GetInt("frame-margin")
	}
	if flags.Changed("track") {
		opts.TrackIndex, _ = flags.GetInt("track")
	}
	if flags.Changed("sample-rate") {
		opts.SampleRate, _ = flags.GetInt("sample-rate")
	}
	if flags.Changed("keep-tracks-separate") {
		opts.KeepTracksSeparate, _ = flags.GetBool("keep-tracks-separate")
	}
	if flags.Changed("video-codec") {
		opts.VideoCodec, _ = flags.GetString("video-codec")
	}
	if flags.Changed("keep-temp") {
		opts.KeepTemp, _ = flags.GetBool("keep-temp")
	}
	return opts
}
