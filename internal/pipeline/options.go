package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/killallgit/autocut/internal/silence"
	"github.com/killallgit/autocut/pkg/config"
	apperrors "github.com/killallgit/autocut/pkg/errors"
	"github.com/killallgit/autocut/pkg/ffmpeg"
)

// Options tunes one silence-removal run.
type Options struct {
	SilentThreshold    float64 `json:"silent_threshold" validate:"gte=0"`
	LoudThreshold      float64 `json:"loud_threshold" validate:"gte=0"`
	FrameMargin        int     `json:"frame_margin" validate:"gte=0"`
	TrackIndex         int     `json:"track" validate:"gte=0"`
	SampleRate         int     `json:"sample_rate" validate:"gt=0"`
	AudioChannels      int     `json:"audio_channels" validate:"gte=1,lte=8"`
	AudioBitrate       string  `json:"audio_bitrate" validate:"required"`
	KeepTracksSeparate bool    `json:"keep_tracks_separate"`
	VideoCodec         string  `json:"video_codec" validate:"required"`
	KeepTemp           bool    `json:"keep_temp"`
}

// DefaultOptions mirrors the cut.* configuration defaults.
func DefaultOptions() Options {
	return Options{
		SilentThreshold: 0.04,
		LoudThreshold:   silence.DefaultLoudThreshold,
		FrameMargin:     1,
		SampleRate:      48000,
		AudioChannels:   2,
		AudioBitrate:    "160k",
		VideoCodec:      "libx264",
	}
}

// OptionsFromConfig builds Options from the cut section of the config.
func OptionsFromConfig(cfg config.CutConfig) Options {
	return Options{
		SilentThreshold:    cfg.SilentThreshold,
		LoudThreshold:      cfg.LoudThreshold,
		FrameMargin:        cfg.FrameMargin,
		TrackIndex:         cfg.Track,
		SampleRate:         cfg.SampleRate,
		AudioChannels:      cfg.AudioChannels,
		AudioBitrate:       cfg.AudioBitrate,
		KeepTracksSeparate: cfg.KeepTracksSeparate,
		VideoCodec:         cfg.VideoCodec,
		KeepTemp:           cfg.KeepTemp,
	}
}

func (o Options) classifierParams(frameRate float64) silence.Params {
	return silence.Params{
		FrameRate:       frameRate,
		SilentThreshold: o.SilentThreshold,
		LoudThreshold:   o.LoudThreshold,
		FrameMargin:     o.FrameMargin,
	}
}

func (o Options) extractOptions() ffmpeg.ExtractOptions {
	return ffmpeg.ExtractOptions{
		SampleRate: o.SampleRate,
		Channels:   o.AudioChannels,
		Bitrate:    o.AudioBitrate,
	}
}

var validate = validator.New()

// Validate reports the first invalid field as an InvalidInput error.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Wrapf(err, apperrors.ErrCodeInvalidInput, "invalid options")
	}
	fe := fieldErrs[0]
	return apperrors.InvalidInput("option %s must satisfy %s, got %v", fe.Field(), describeTag(fe), fe.Value()).
		WithDetail("field", fe.Field())
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}

// OutputSuffix is appended to the input's base name by DefaultOutputPath.
const OutputSuffix = "_ALTERED"

// DefaultOutputPath returns <base>_ALTERED<ext> next to input.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + OutputSuffix + ext
}
