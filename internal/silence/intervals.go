package silence

import (
	apperrors "github.com/killallgit/autocut/pkg/errors"
)

// Summary aggregates an interval sequence.
type Summary struct {
	TotalFrames   int `json:"total_frames"`
	KeptFrames    int `json:"kept_frames"`
	DroppedFrames int `json:"dropped_frames"`
	KeptRuns      int `json:"kept_runs"`
}

// KeptRatio returns the fraction of frames retained.
func (s Summary) KeptRatio() float64 {
	if s.TotalFrames == 0 {
		return 0
	}
	return float64(s.KeptFrames) / float64(s.TotalFrames)
}

// Summarize counts kept and dropped frames.
func Summarize(intervals []Interval) Summary {
	var s Summary
	for _, iv := range intervals {
		s.TotalFrames += iv.Len()
		if iv.Tier.Retained() {
			s.KeptFrames += iv.Len()
			s.KeptRuns++
		} else {
			s.DroppedFrames += iv.Len()
		}
	}
	return s
}

// TotalFrames returns the end of the last interval.
func TotalFrames(intervals []Interval) int {
	if len(intervals) == 0 {
		return 0
	}
	return intervals[len(intervals)-1].End
}

// Validate checks that intervals start at frame 0, are non-empty, ascending,
// gapless and never repeat a tier between neighbours.
func Validate(intervals []Interval) error {
	if len(intervals) == 0 {
		return apperrors.InvalidInput("interval sequence is empty")
	}
	if intervals[0].Start != 0 {
		return apperrors.InvalidInput("first interval starts at frame %d, want 0", intervals[0].Start)
	}
	for i, iv := range intervals {
		if iv.End <= iv.Start {
			return apperrors.InvalidInput("interval %d [%d,%d) is empty", i, iv.Start, iv.End)
		}
		if iv.Tier > TierKeepLoud {
			return apperrors.InvalidInput("interval %d has unknown %s", i, iv.Tier)
		}
		if i == 0 {
			continue
		}
		prev := intervals[i-1]
		if iv.Start != prev.End {
			return apperrors.InvalidInput("interval %d starts at %d but previous ends at %d", i, iv.Start, prev.End)
		}
		if iv.Tier == prev.Tier {
			return apperrors.InvalidInput("intervals %d and %d share tier %s", i-1, i, iv.Tier)
		}
	}
	return nil
}
