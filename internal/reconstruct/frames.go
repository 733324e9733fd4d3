// Package reconstruct rebuilds a video stream from the retained frames of a
// source and re-slices every audio track to stay aligned with them.
package reconstruct

// FrameInfo describes the decoded video stream.
type FrameInfo struct {
	Width     int
	Height    int
	FrameRate float64
}

// FrameSize returns the byte size of one rgb24 frame.
func (i FrameInfo) FrameSize() int {
	return i.Width * i.Height * 3
}

// Frame is one decoded video frame. Index is assigned by the source and
// starts at 0.
type Frame struct {
	Index int
	Data  []byte
}

// FrameSource yields decoded frames in ascending index order and returns
// io.EOF once exhausted.
type FrameSource interface {
	Info() FrameInfo
	Next() (Frame, error)
}

// FrameSink receives retained frames in order.
type FrameSink interface {
	WriteFrame(data []byte) error
}

// Observer is notified after each source frame is handled.
type Observer interface {
	OnFrame(index, total int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(index, total int)

func (f ObserverFunc) OnFrame(index, total int) { f(index, total) }

// NopObserver ignores progress.
type NopObserver struct{}

func (NopObserver) OnFrame(int, int) {}
