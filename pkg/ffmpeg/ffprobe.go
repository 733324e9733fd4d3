package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ffprobeOutput represents the JSON structure returned by ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		Index        int    `json:"index"`
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
}

// Probe reads stream layout and frame rate from a video file using ffprobe
func (f *FFmpeg) Probe(ctx context.Context, filePath string) (*VideoInfo, error) {
	args := []string{
		"-v", "quiet",
		"-show_format",
		"-show_streams",
		"-of", "json",
		filePath,
	}

	cmd := exec.CommandContext(ctx, f.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewProcessingError("probe", filePath, err, stderr.String())
	}

	return parseProbe(stdout.Bytes(), filePath)
}

// parseProbe converts raw ffprobe JSON to VideoInfo
func parseProbe(data []byte, filePath string) (*VideoInfo, error) {
	var output ffprobeOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, NewProcessingError("probe_parsing", filePath, err, "")
	}

	info := &VideoInfo{}
	if output.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(output.Format.Duration, 64); err == nil {
			info.Duration = duration
		}
	}

	videoFound := false
	for _, stream := range output.Streams {
		switch stream.CodecType {
		case "audio":
			info.AudioTracks++
		case "video":
			// Only the first video stream is used; later ones are usually cover art
			if videoFound {
				continue
			}
			videoFound = true
			info.Width = stream.Width
			info.Height = stream.Height
			info.VideoCodec = stream.CodecName

			expr := stream.RFrameRate
			if expr == "" || expr == "0/0" {
				expr = stream.AvgFrameRate
			}
			rate, err := ParseRational(expr)
			if err != nil {
				return nil, NewProcessingError("probe_parsing", filePath, err, "")
			}
			info.FrameRate = rate
			info.FrameRateExpr = expr

			if n, err := strconv.Atoi(stream.NbFrames); err == nil {
				info.FrameCount = n
			}
			if info.Duration == 0 && stream.Duration != "" {
				if duration, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
					info.Duration = duration
				}
			}
		}
	}

	if !videoFound {
		return nil, NewProcessingError("probe", filePath, ErrNoVideoStream, "")
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, NewProcessingError("probe", filePath,
			fmt.Errorf("invalid frame size %dx%d", info.Width, info.Height), "")
	}

	return info, nil
}

// ParseRational parses an ffprobe rate such as "30000/1001" or "25".
func ParseRational(expr string) (float64, error) {
	num, den, found := strings.Cut(strings.TrimSpace(expr), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadFrameRate, expr)
	}
	d := 1.0
	if found {
		if d, err = strconv.ParseFloat(den, 64); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadFrameRate, expr)
		}
	}
	if !(n > 0) || !(d > 0) || math.IsInf(n/d, 0) {
		return 0, fmt.Errorf("%w: %q", ErrBadFrameRate, expr)
	}
	return n / d, nil
}
