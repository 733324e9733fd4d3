package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// FFmpeg wraps ffmpeg and ffprobe functionality
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// New creates a new FFmpeg instance. timeout bounds one-shot commands
// (probe, extract, mux); streaming readers and writers only honour ctx.
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	// Check ffmpeg
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}

	// Check ffprobe
	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}

	return nil
}

// ExtractTrack decodes audio stream track of input into a WAV file
func (f *FFmpeg) ExtractTrack(ctx context.Context, input string, track int, opts ExtractOptions, output string) error {
	return f.run(ctx, "extract_track", input, extractArgs(input, track, opts, output))
}

// Mux combines the rebuilt video with its audio tracks. Unless req.Separate
// is set, multiple tracks are first merged into one stereo WAV.
func (f *FFmpeg) Mux(ctx context.Context, req MuxRequest) error {
	if len(req.Tracks) == 0 {
		return NewProcessingError("mux", req.Output, fmt.Errorf("no audio tracks"), "")
	}

	if req.Separate {
		return f.run(ctx, "mux", req.Output, muxArgs(req.Video, req.Tracks, req.Output))
	}

	audio := req.Tracks[0]
	if len(req.Tracks) > 1 {
		audio = filepath.Join(filepath.Dir(req.Video), "merged.wav")
		if err := f.run(ctx, "merge_tracks", audio, mergeArgs(req.Tracks, audio)); err != nil {
			return err
		}
	}
	return f.run(ctx, "mux", req.Output, muxArgs(req.Video, []string{audio}, req.Output))
}

// run executes a one-shot ffmpeg command, capturing stderr for errors
func (f *FFmpeg) run(ctx context.Context, operation, file string, args []string) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	cmd := f.command(ctx, args)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return NewProcessingError(operation, file, err, stderr.String())
	}
	return nil
}

func (f *FFmpeg) command(ctx context.Context, args []string) *exec.Cmd {
	full := append([]string{"-hide_banner", "-nostats", "-loglevel", "error"}, args...)
	return exec.CommandContext(ctx, f.ffmpegPath, full...)
}

func extractArgs(input string, track int, opts ExtractOptions, output string) []string {
	return ffmpeggo.Input(input).
		Output(output, ffmpeggo.KwArgs{
			"map": fmt.Sprintf("0:a:%d", track),
			"ac":  strconv.Itoa(opts.Channels),
			"ar":  strconv.Itoa(opts.SampleRate),
			"ab":  opts.Bitrate,
		}).
		OverWriteOutput().
		GetArgs()
}

func mergeArgs(tracks []string, output string) []string {
	inputs := make([]*ffmpeggo.Stream, len(tracks))
	for i, t := range tracks {
		inputs[i] = ffmpeggo.Input(t)
	}
	return ffmpeggo.Filter(inputs, "amerge", ffmpeggo.Args{}, ffmpeggo.KwArgs{"inputs": strconv.Itoa(len(tracks))}).
		Output(output, ffmpeggo.KwArgs{"ac": "2"}).
		OverWriteOutput().
		GetArgs()
}

func muxArgs(video string, tracks []string, output string) []string {
	streams := make([]*ffmpeggo.Stream, 0, len(tracks)+1)
	for _, t := range tracks {
		streams = append(streams, ffmpeggo.Input(t))
	}
	streams = append(streams, ffmpeggo.Input(video))
	return ffmpeggo.Output(streams, output, ffmpeggo.KwArgs{
		"c:v":      "copy",
		"movflags": "+faststart",
	}).
		OverWriteOutput().
		GetArgs()
}
