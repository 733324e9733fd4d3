package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFFmpegNotFound  = errors.New("ffmpeg binary not found")
	ErrFFprobeNotFound = errors.New("ffprobe binary not found")
	ErrNoVideoStream   = errors.New("no video stream found")
	ErrBadFrameRate    = errors.New("invalid frame rate")
	ErrShortFrame      = errors.New("truncated video frame")
)

// stderrTailLines bounds how much of a failed run's stderr is kept. ffmpeg
// prints its banner and stream map first and the actual failure last.
const stderrTailLines = 8

// ProcessingError is a failed ffmpeg or ffprobe run. Operation names the
// stage, for example "probe", "extract_track", "decode_frames" or "mux".
type ProcessingError struct {
	Operation string
	File      string
	Err       error
	Stderr    string
}

// NewProcessingError keeps only the tail of stderr.
func NewProcessingError(operation, file string, err error, stderr string) *ProcessingError {
	return &ProcessingError{Operation: operation, File: file, Err: err, Stderr: tail(stderr, stderrTailLines)}
}

func (e *ProcessingError) Error() string {
	msg := fmt.Sprintf("ffmpeg %s failed for %s: %v", e.Operation, e.File, e.Err)
	if e.Stderr == "" {
		return msg
	}
	return msg + " (stderr: " + e.Stderr + ")"
}

func (e *ProcessingError) Unwrap() error { return e.Err }

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
