package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// stderrBuffer collects ffmpeg's stderr. exec copies into it from its own
// goroutine while frames are still being read or written.
type stderrBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *stderrBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *stderrBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// FrameReader decodes a video into raw rgb24 frames, one at a time
type FrameReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr stderrBuffer
	path   string
	info   *VideoInfo
	buf    []byte
	index  int
	done   bool
}

// OpenFrameReader starts ffmpeg decoding path to rgb24 on stdout
func (f *FFmpeg) OpenFrameReader(ctx context.Context, path string, info *VideoInfo) (*FrameReader, error) {
	if info == nil || info.FrameSize() <= 0 {
		return nil, NewProcessingError("decode_frames", path, fmt.Errorf("unknown frame size"), "")
	}

	r := &FrameReader{
		path: path,
		info: info,
		buf:  make([]byte, info.FrameSize()),
	}
	r.cmd = f.command(ctx, decodeArgs(path))
	r.cmd.Stderr = &r.stderr

	stdout, err := r.cmd.StdoutPipe()
	if err != nil {
		return nil, NewProcessingError("decode_frames", path, err, "")
	}
	r.stdout = stdout

	if err := r.cmd.Start(); err != nil {
		return nil, NewProcessingError("decode_frames", path, err, "")
	}
	return r, nil
}

// Info returns the probed stream description
func (r *FrameReader) Info() *VideoInfo {
	return r.info
}

// ReadFrame returns the next frame and its 0-based index. The returned slice
// is reused by the following call. io.EOF marks the end of the stream.
func (r *FrameReader) ReadFrame() (int, []byte, error) {
	if r.done {
		return 0, nil, io.EOF
	}
	_, err := io.ReadFull(r.stdout, r.buf)
	switch {
	case errors.Is(err, io.EOF):
		r.done = true
		return 0, nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		r.done = true
		return 0, nil, NewProcessingError("decode_frames", r.path,
			fmt.Errorf("%w at frame %d", ErrShortFrame, r.index), r.stderr.String())
	case err != nil:
		return 0, nil, NewProcessingError("decode_frames", r.path, err, r.stderr.String())
	}
	idx := r.index
	r.index++
	return idx, r.buf, nil
}

// Close stops the decoder. A decoder failure is only reported when the
// stream was read to the end.
func (r *FrameReader) Close() error {
	if !r.done && r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	err := r.cmd.Wait()
	if r.done && err != nil {
		return NewProcessingError("decode_frames", r.path, err, r.stderr.String())
	}
	return nil
}

// FrameWriter encodes raw rgb24 frames written to ffmpeg's stdin
type FrameWriter struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    stderrBuffer
	path      string
	frameSize int
	frames    int
}

// OpenFrameWriter starts ffmpeg encoding rgb24 frames from stdin into path
// with the given video codec, at the source frame rate.
func (f *FFmpeg) OpenFrameWriter(ctx context.Context, path string, info *VideoInfo, codec string) (*FrameWriter, error) {
	if info == nil || info.FrameSize() <= 0 {
		return nil, NewProcessingError("encode_frames", path, fmt.Errorf("unknown frame size"), "")
	}

	w := &FrameWriter{path: path, frameSize: info.FrameSize()}
	w.cmd = f.command(ctx, encodeArgs(path, info, codec))
	w.cmd.Stderr = &w.stderr

	stdin, err := w.cmd.StdinPipe()
	if err != nil {
		return nil, NewProcessingError("encode_frames", path, err, "")
	}
	w.stdin = stdin

	if err := w.cmd.Start(); err != nil {
		return nil, NewProcessingError("encode_frames", path, err, "")
	}
	return w, nil
}

// WriteFrame sends one frame to the encoder
func (w *FrameWriter) WriteFrame(data []byte) error {
	if len(data) != w.frameSize {
		return NewProcessingError("encode_frames", w.path,
			fmt.Errorf("frame %d is %d bytes, want %d", w.frames, len(data), w.frameSize), "")
	}
	if _, err := w.stdin.Write(data); err != nil {
		return NewProcessingError("encode_frames", w.path, err, w.stderr.String())
	}
	w.frames++
	return nil
}

// Frames returns how many frames were written
func (w *FrameWriter) Frames() int {
	return w.frames
}

// Close flushes the encoder and waits for it to exit
func (w *FrameWriter) Close() error {
	closeErr := w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return NewProcessingError("encode_frames", w.path, err, w.stderr.String())
	}
	if closeErr != nil && !errors.Is(closeErr, io.ErrClosedPipe) {
		return NewProcessingError("encode_frames", w.path, closeErr, "")
	}
	return nil
}

func decodeArgs(path string) []string {
	return ffmpeggo.Input(path).
		Output("pipe:", ffmpeggo.KwArgs{
			"map":     "0:v:0",
			"f":       "rawvideo",
			"pix_fmt": "rgb24",
		}).
		GetArgs()
}

func encodeArgs(path string, info *VideoInfo, codec string) []string {
	rate := info.FrameRateExpr
	if rate == "" {
		rate = strconv.FormatFloat(info.FrameRate, 'f', -1, 64)
	}
	return ffmpeggo.Input("pipe:", ffmpeggo.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgb24",
		"s":       fmt.Sprintf("%dx%d", info.Width, info.Height),
		"r":       rate,
	}).
		Output(path, ffmpeggo.KwArgs{
			"c:v":     codec,
			"pix_fmt": "yuv420p",
		}).
		OverWriteOutput().
		GetArgs()
}
