package watcher

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultSettleDelay is how long a file must stay unchanged before it is
// reported.
const DefaultSettleDelay = 3 * time.Second

// Options configures the watcher.
type Options struct {
	// Extensions lists the accepted file extensions, case-insensitive.
	// Empty accepts every file.
	Extensions  []string
	SettleDelay time.Duration
	// SkipSuffix rejects files whose base name ends with it before the
	// extension, so finished outputs are not picked up again.
	SkipSuffix string
}

func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	for i, ext := range o.Extensions {
		ext = strings.ToLower(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		o.Extensions[i] = ext
	}
}

// accepts reports whether path is a candidate video.
func (o *Options) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext == ".lock" {
		return false
	}
	if o.SkipSuffix != "" && strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), o.SkipSuffix) {
		return false
	}
	if len(o.Extensions) == 0 {
		return true
	}
	for _, allowed := range o.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
