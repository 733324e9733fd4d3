package reconstruct

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/silence"
	"github.com/killallgit/autocut/internal/waveform"
	apperrors "github.com/killallgit/autocut/pkg/errors"
)

// Result is the outcome of one reconstruction pass.
type Result struct {
	// Tracks holds one re-sliced waveform per input track, all of length Samples.
	Tracks []*waveform.Waveform

	FramesRead     int
	KeptFrames     int
	TotalFrames    int
	OverflowFrames int
	Samples        int
}

// Reconstructor performs the single pass over a frame source.
type Reconstructor struct {
	logger *slog.Logger
}

// NewReconstructor creates a reconstructor. A nil logger is replaced by a no-op.
func NewReconstructor(logger *slog.Logger) *Reconstructor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconstructor{logger: logger}
}

// Reconstruct reads src once, forwards retained frames to sink and copies the
// matching audio window of every track to a shared write cursor. Frames at or
// past the end of the last interval are dropped and counted as overflow.
func (r *Reconstructor) Reconstruct(
	ctx context.Context,
	src FrameSource,
	sink FrameSink,
	tracks []*waveform.Waveform,
	intervals []silence.Interval,
	observer Observer,
) (*Result, error) {
	if observer == nil {
		observer = NopObserver{}
	}
	info := src.Info()
	if !(info.FrameRate > 0) {
		return nil, apperrors.InvalidInput("frame rate must be positive, got %v", info.FrameRate)
	}
	if err := silence.Validate(intervals); err != nil {
		return nil, err
	}
	longest, err := checkTracks(tracks)
	if err != nil {
		return nil, err
	}

	out := make([]*waveform.Waveform, len(tracks))
	for i, t := range tracks {
		out[i] = waveform.New(t.Track, t.SampleRate, t.Channels, longest)
	}

	samplesPerFrame := float64(tracks[0].SampleRate) / info.FrameRate
	total := silence.TotalFrames(intervals)
	res := &Result{TotalFrames: total}
	iv := intervalCursor{intervals: intervals, last: -1}
	audio := cursor{limit: longest}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Codec(err, "read frame %d", res.FramesRead)
		}
		res.FramesRead++

		tier, ok, err := iv.tierAt(frame.Index)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.OverflowFrames++
			observer.OnFrame(frame.Index, total)
			continue
		}
		if tier.Retained() {
			if err := sink.WriteFrame(frame.Data); err != nil {
				return nil, apperrors.Codec(err, "write frame %d", frame.Index)
			}
			start := int(float64(frame.Index) * samplesPerFrame)
			end := int(float64(frame.Index+1) * samplesPerFrame)
			audio.copy(tracks, out, start, end)
			res.KeptFrames++
		}
		observer.OnFrame(frame.Index, total)
	}

	for _, w := range out {
		w.Truncate(audio.pos)
	}
	res.Tracks = out
	res.Samples = audio.pos

	if res.OverflowFrames > 0 {
		r.logger.Warn("source has frames beyond the analysed audio, dropping them",
			slog.Int("overflow_frames", res.OverflowFrames),
			slog.Int("total_frames", total))
	}
	r.logger.Debug("reconstruction finished",
		slog.Int("frames_read", res.FramesRead),
		slog.Int("kept_frames", res.KeptFrames),
		slog.Int("samples", res.Samples))

	return res, nil
}

func checkTracks(tracks []*waveform.Waveform) (int, error) {
	if len(tracks) == 0 {
		return 0, apperrors.InvalidInput("no audio tracks to reconstruct")
	}
	longest := 0
	for _, t := range tracks {
		if err := t.Validate(); err != nil {
			return 0, err
		}
		if t.SampleRate != tracks[0].SampleRate {
			return 0, apperrors.InvalidInput("track %d sample rate %d differs from track %d rate %d",
				t.Track, t.SampleRate, tracks[0].Track, tracks[0].SampleRate)
		}
		longest = max(longest, t.Len())
	}
	return longest, nil
}

// intervalCursor walks the interval list forward as frame indices ascend.
type intervalCursor struct {
	intervals []silence.Interval
	idx       int
	last      int
}

// tierAt returns the tier covering frame f, or ok=false once f is past the
// final interval.
func (c *intervalCursor) tierAt(f int) (silence.Tier, bool, error) {
	if f <= c.last {
		return 0, false, apperrors.InvalidInput("frame index %d arrived after %d", f, c.last)
	}
	c.last = f
	for c.idx < len(c.intervals) && c.intervals[c.idx].End <= f {
		c.idx++
	}
	if c.idx == len(c.intervals) {
		return 0, false, nil
	}
	return c.intervals[c.idx].Tier, true, nil
}

// cursor is the shared write offset, in sample frames, into every output track.
type cursor struct {
	pos   int
	limit int
}

// copy appends sample frames [start, end) of every track at the cursor. The
// bounds are clamped to [0, limit); a track shorter than end contributes
// zeros for the missing part.
func (c *cursor) copy(tracks, out []*waveform.Waveform, start, end int) {
	start = max(0, min(start, c.limit))
	end = max(start, min(end, c.limit))
	n := end - start
	if n == 0 {
		return
	}
	for i, t := range tracks {
		ch := t.Channels
		avail := max(0, min(end, t.Len())-start)
		copy(out[i].Samples[c.pos*ch:(c.pos+avail)*ch], t.Samples[start*ch:(start+avail)*ch])
	}
	c.pos += n
}
