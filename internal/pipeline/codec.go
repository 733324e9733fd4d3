package pipeline

import (
	"context"
	"io"

	"github.com/killallgit/autocut/internal/reconstruct"
	"github.com/killallgit/autocut/pkg/ffmpeg"
)

// Codec is the media toolchain the pipeline drives.
type Codec interface {
	Probe(ctx context.Context, path string) (*ffmpeg.VideoInfo, error)
	ExtractTrack(ctx context.Context, input string, track int, opts ffmpeg.ExtractOptions, output string) error
	OpenFrameReader(ctx context.Context, path string, info *ffmpeg.VideoInfo) (FrameReader, error)
	OpenFrameWriter(ctx context.Context, path string, info *ffmpeg.VideoInfo, videoCodec string) (FrameWriter, error)
	Mux(ctx context.Context, req ffmpeg.MuxRequest) error
}

// FrameReader is a closable frame source.
type FrameReader interface {
	reconstruct.FrameSource
	io.Closer
}

// FrameWriter is a closable frame sink.
type FrameWriter interface {
	reconstruct.FrameSink
	io.Closer
}

// NewFFmpegCodec adapts ff to Codec.
func NewFFmpegCodec(ff *ffmpeg.FFmpeg) Codec {
	return &ffmpegCodec{ff: ff}
}

type ffmpegCodec struct {
	ff *ffmpeg.FFmpeg
}

func (c *ffmpegCodec) Probe(ctx context.Context, path string) (*ffmpeg.VideoInfo, error) {
	return c.ff.Probe(ctx, path)
}

func (c *ffmpegCodec) ExtractTrack(ctx context.Context, input string, track int, opts ffmpeg.ExtractOptions, output string) error {
	return c.ff.ExtractTrack(ctx, input, track, opts, output)
}

func (c *ffmpegCodec) OpenFrameReader(ctx context.Context, path string, info *ffmpeg.VideoInfo) (FrameReader, error) {
	r, err := c.ff.OpenFrameReader(ctx, path, info)
	if err != nil {
		return nil, err
	}
	return &frameReader{r: r}, nil
}

func (c *ffmpegCodec) OpenFrameWriter(ctx context.Context, path string, info *ffmpeg.VideoInfo, videoCodec string) (FrameWriter, error) {
	w, err := c.ff.OpenFrameWriter(ctx, path, info, videoCodec)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (c *ffmpegCodec) Mux(ctx context.Context, req ffmpeg.MuxRequest) error {
	return c.ff.Mux(ctx, req)
}

type frameReader struct {
	r *ffmpeg.FrameReader
}

func (fr *frameReader) Info() reconstruct.FrameInfo {
	info := fr.r.Info()
	return reconstruct.FrameInfo{Width: info.Width, Height: info.Height, FrameRate: info.FrameRate}
}

func (fr *frameReader) Next() (reconstruct.Frame, error) {
	idx, data, err := fr.r.ReadFrame()
	if err != nil {
		return reconstruct.Frame{}, err
	}
	return reconstruct.Frame{Index: idx, Data: data}, nil
}

func (fr *frameReader) Close() error {
	return fr.r.Close()
}
