package silence

import "fmt"

// Tier labels one frame-duration window of audio.
type Tier uint8

const (
	TierDrop Tier = iota
	TierKeep
	TierKeepLoud
)

// String returns the tier name used in logs and tables.
func (t Tier) String() string {
	switch t {
	case TierDrop:
		return "drop"
	case TierKeep:
		return "keep"
	case TierKeepLoud:
		return "keep_loud"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// Retained reports whether frames of this tier survive reconstruction.
func (t Tier) Retained() bool {
	return t != TierDrop
}

// CollapsePolicy maps the margin-expanded tier of a frame to the tier carried
// into its Interval.
type CollapsePolicy func(Tier) Tier

// CollapseBinary reduces every retained tier to TierKeep, so intervals only
// ever carry drop or keep.
func CollapseBinary(t Tier) Tier {
	if t.Retained() {
		return TierKeep
	}
	return TierDrop
}

// PreserveTiers carries the three-way tier through unchanged.
func PreserveTiers(t Tier) Tier {
	return t
}

// Interval is a half-open run of frames [Start, End) sharing one tier.
type Interval struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Tier  Tier `json:"tier"`
}

// Len returns the number of frames in the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}
