// Package silence turns an audio waveform into keep/drop intervals measured
// in video frames.
package silence

import (
	"log/slog"
	"math"

	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/waveform"
	apperrors "github.com/killallgit/autocut/pkg/errors"
)

// DefaultLoudThreshold sits above any normalized level, so TierKeepLoud is
// only produced when a caller lowers it.
const DefaultLoudThreshold = 2.0

// Params controls classification. A zero LoudThreshold means
// DefaultLoudThreshold and a nil Collapse means CollapseBinary.
type Params struct {
	FrameRate       float64
	SilentThreshold float64
	LoudThreshold   float64
	FrameMargin     int
	Collapse        CollapsePolicy
}

func (p Params) validate() error {
	if !(p.FrameRate > 0) || math.IsInf(p.FrameRate, 0) {
		return apperrors.InvalidInput("frame rate must be positive, got %v", p.FrameRate)
	}
	if p.SilentThreshold < 0 || math.IsNaN(p.SilentThreshold) {
		return apperrors.InvalidInput("silent threshold must be >= 0, got %v", p.SilentThreshold)
	}
	if loud := p.loudThreshold(); math.IsNaN(loud) || loud < p.SilentThreshold {
		return apperrors.InvalidInput("loud threshold %v is below silent threshold %v", loud, p.SilentThreshold)
	}
	if p.FrameMargin < 0 {
		return apperrors.InvalidInput("frame margin must be >= 0, got %d", p.FrameMargin)
	}
	return nil
}

func (p Params) loudThreshold() float64 {
	if p.LoudThreshold == 0 {
		return DefaultLoudThreshold
	}
	return p.LoudThreshold
}

// Classifier is stateless apart from its logger and is safe for concurrent use.
type Classifier struct {
	logger *slog.Logger
}

// NewClassifier creates a classifier. A nil logger discards the silence warning.
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Classifier{logger: logger}
}

// Classify labels every frame-duration window of w and run-length encodes
// the margin-expanded labels into ascending, gapless intervals covering
// [0, frameCount).
func (c *Classifier) Classify(w *waveform.Waveform, p Params) ([]Interval, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	collapse := p.Collapse
	if collapse == nil {
		collapse = CollapseBinary
	}
	loud := p.loudThreshold()

	sampleCount := w.Len()
	samplesPerFrame := float64(w.SampleRate) / p.FrameRate
	frameCount := FrameCount(sampleCount, w.SampleRate, p.FrameRate)

	peak := w.Peak()
	if peak == 0 {
		c.logger.Warn("entire audio track is silent, keeping every frame",
			slog.Int("track", w.Track),
			slog.Int("frames", frameCount))
		return []Interval{{Start: 0, End: frameCount, Tier: TierKeep}}, nil
	}

	tiers := make([]Tier, frameCount)
	for i := range frameCount {
		start := int(float64(i) * samplesPerFrame)
		end := min(int(float64(i+1)*samplesPerFrame), sampleCount)
		level := float64(w.PeakRange(start, end)) / float64(peak)

		switch {
		case level >= loud:
			tiers[i] = TierKeepLoud
		case level >= p.SilentThreshold:
			tiers[i] = TierKeep
		}
	}

	expanded := expandMargin(tiers, p.FrameMargin, collapse)
	return runLengthEncode(expanded), nil
}

// FrameCount returns how many frame-duration windows cover sampleCount
// samples, counting a trailing partial window.
func FrameCount(sampleCount, sampleRate int, frameRate float64) int {
	samplesPerFrame := float64(sampleRate) / frameRate
	return int(math.Ceil(float64(sampleCount) / samplesPerFrame))
}

// expandMargin gives each frame the highest tier found within margin frames
// on either side, then applies the collapse policy.
func expandMargin(tiers []Tier, margin int, collapse CollapsePolicy) []Tier {
	n := len(tiers)
	out := make([]Tier, n)
	for i := range n {
		lo := max(0, i-margin)
		hi := min(n, i+margin+1)
		best := TierDrop
		for _, t := range tiers[lo:hi] {
			if t > best {
				best = t
				if best == TierKeepLoud {
					break
				}
			}
		}
		out[i] = collapse(best)
	}
	return out
}

func runLengthEncode(tiers []Tier) []Interval {
	n := len(tiers)
	if n == 0 {
		return nil
	}
	intervals := make([]Interval, 0, 8)
	runStart := 0
	for i := 1; i < n; i++ {
		if tiers[i] != tiers[i-1] {
			intervals = append(intervals, Interval{Start: runStart, End: i, Tier: tiers[i-1]})
			runStart = i
		}
	}
	return append(intervals, Interval{Start: runStart, End: n, Tier: tiers[n-1]})
}
