//go:build !((linux && cgo) || windows || darwin)

package playback

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/saregama/internal/shared"
)

// AudioAvailable reports whether this build can drive the system speaker.
// Linux builds need cgo for the native sound libraries.
const AudioAvailable = false

// BeepEngine opens handles that cannot start: this build has no audio output.
type BeepEngine struct {
	logger *log.Logger
}

var _ Engine = (*BeepEngine)(nil)

// NewBeepEngine creates an engine whose handles fail with [shared.ErrAudioUnavailable].
func NewBeepEngine(opts BeepOpts) *BeepEngine {
	opts = opts.withDefaults()
	return &BeepEngine{logger: shared.WithLogger(opts.Logger, "component", "audio")}
}

// Open returns a handle bound to url.
func (e *BeepEngine) Open(url string) (Handle, error) {
	return &silentHandle{url: url}, nil
}

type silentHandle struct {
	url string
}

func (h *silentHandle) URL() string               { return h.url }
func (h *silentHandle) Play() error               { return shared.ErrAudioUnavailable }
func (h *silentHandle) Pause() error              { return nil }
func (h *silentHandle) Position() time.Duration   { return 0 }
func (h *silentHandle) Duration() time.Duration   { return 0 }
func (h *silentHandle) Seek(time.Duration) error  { return shared.ErrInvalidSeek }
func (h *silentHandle) Subscribe(Listener) func() { return func() {} }
func (h *silentHandle) Close() error              { return nil }
