package models

import "fmt"

// Payload keys for silence cut jobs.
const (
	PayloadInputPath          = "input_path"
	PayloadOutputPath         = "output_path"
	PayloadSilentThreshold    = "silent_threshold"
	PayloadFrameMargin        = "frame_margin"
	PayloadTrack              = "track"
	PayloadKeepTracksSeparate = "keep_tracks_separate"
)

// CutPayload is the typed form of a silence cut job's payload. Nil parameters
// keep the worker's configured defaults.
type CutPayload struct {
	InputPath          string
	OutputPath         string
	SilentThreshold    *float64
	FrameMargin        *int
	Track              *int
	KeepTracksSeparate *bool
}

// PayloadError names a payload key holding a value of the wrong kind
type PayloadError struct {
	Key   string
	Value any
}

func (e *PayloadError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("payload has no %s", e.Key)
	}
	return fmt.Sprintf("payload has invalid %s: %v", e.Key, e.Value)
}

// Payload encodes p for storage, leaving out unset parameters
func (p CutPayload) Payload() JobPayload {
	out := JobPayload{PayloadInputPath: p.InputPath}
	if p.OutputPath != "" {
		out[PayloadOutputPath] = p.OutputPath
	}
	if p.SilentThreshold != nil {
		out[PayloadSilentThreshold] = *p.SilentThreshold
	}
	if p.FrameMargin != nil {
		out[PayloadFrameMargin] = *p.FrameMargin
	}
	if p.Track != nil {
		out[PayloadTrack] = *p.Track
	}
	if p.KeepTracksSeparate != nil {
		out[PayloadKeepTracksSeparate] = *p.KeepTracksSeparate
	}
	return out
}

// CutPayload decodes the job's payload. Numbers read back from the database
// are float64, so integer fields accept whole floats. A missing input or a
// value of the wrong kind returns a *PayloadError.
func (j *Job) CutPayload() (CutPayload, error) {
	var p CutPayload
	var ok bool

	if p.InputPath, ok = j.Payload[PayloadInputPath].(string); !ok || p.InputPath == "" {
		return CutPayload{}, &PayloadError{Key: PayloadInputPath, Value: j.Payload[PayloadInputPath]}
	}
	if v, present := j.Payload[PayloadOutputPath]; present {
		if p.OutputPath, ok = v.(string); !ok {
			return CutPayload{}, &PayloadError{Key: PayloadOutputPath, Value: v}
		}
	}

	var err error
	if p.SilentThreshold, err = optional(j.Payload, PayloadSilentThreshold, asFloat); err != nil {
		return CutPayload{}, err
	}
	if p.FrameMargin, err = optional(j.Payload, PayloadFrameMargin, asInt); err != nil {
		return CutPayload{}, err
	}
	if p.Track, err = optional(j.Payload, PayloadTrack, asInt); err != nil {
		return CutPayload{}, err
	}
	if p.KeepTracksSeparate, err = optional(j.Payload, PayloadKeepTracksSeparate, asBool); err != nil {
		return CutPayload{}, err
	}
	return p, nil
}

func optional[T any](payload JobPayload, key string, convert func(any) (T, bool)) (*T, error) {
	v, present := payload[key]
	if !present {
		return nil, nil
	}
	out, ok := convert(v)
	if !ok {
		return nil, &PayloadError{Key: key, Value: v}
	}
	return &out, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}
