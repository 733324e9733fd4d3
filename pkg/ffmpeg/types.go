package ffmpeg

// VideoInfo describes a probed input file
type VideoInfo struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	FrameRate     float64 `json:"frame_rate"`      // Exact value of FrameRateExpr
	FrameRateExpr string  `json:"frame_rate_expr"` // Rational as reported by ffprobe, e.g. "30000/1001"
	FrameCount    int     `json:"frame_count"`     // nb_frames, 0 when the container does not say
	AudioTracks   int     `json:"audio_tracks"`
	Duration      float64 `json:"duration"` // Duration in seconds
	VideoCodec    string  `json:"video_codec"`
}

// FrameSize returns the byte size of one rgb24 frame
func (v *VideoInfo) FrameSize() int {
	return v.Width * v.Height * 3
}

// ExtractOptions controls audio track extraction to WAV
type ExtractOptions struct {
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Bitrate    string `json:"bitrate"`
}

// DefaultExtractOptions returns the extraction settings used when none are given
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		SampleRate: 48000,
		Channels:   2,
		Bitrate:    "160k",
	}
}

// MuxRequest combines a rebuilt video stream with its audio tracks
type MuxRequest struct {
	Video    string   // Video-only file produced by the frame writer
	Tracks   []string // WAV files, in track order
	Output   string
	Separate bool // Keep every track as its own stream instead of merging to stereo
}
