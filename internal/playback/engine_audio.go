//go:build (linux && cgo) || windows || darwin

package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/saregama/internal/shared"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// AudioAvailable reports whether this build can drive the system speaker.
const AudioAvailable = true

const outputSampleRate = beep.SampleRate(44100)

var errHandleClosed = errors.New("handle closed")

// audioOutput is the mixer handles play through.
type audioOutput interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

// speakerOutput drives the system speaker.
type speakerOutput struct{}

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }

// BeepEngine opens handles that play through the system speaker.
type BeepEngine struct {
	opts   BeepOpts
	logger *log.Logger
	out    audioOutput

	initOnce sync.Once
	initErr  error
}

var _ Engine = (*BeepEngine)(nil)

// NewBeepEngine creates an engine. The speaker is initialized on first playback.
func NewBeepEngine(opts BeepOpts) *BeepEngine {
	return newBeepEngine(opts, speakerOutput{})
}

func newBeepEngine(opts BeepOpts, out audioOutput) *BeepEngine {
	opts = opts.withDefaults()
	return &BeepEngine{opts: opts, logger: shared.WithLogger(opts.Logger, "component", "audio"), out: out}
}

// Open returns an unstarted handle bound to url.
func (e *BeepEngine) Open(url string) (Handle, error) {
	ctx, cancel := context.WithCancel(context.Background())
	return &beepHandle{engine: e, url: url, ctx: ctx, cancel: cancel}, nil
}

func (e *BeepEngine) initSpeaker() error {
	e.initOnce.Do(func() {
		e.initErr = e.out.Init(outputSampleRate, outputSampleRate.N(time.Second/10))
	})
	return e.initErr
}

// beepHandle loads its media on the first Play and then streams it through a [beep.Ctrl].
type beepHandle struct {
	engine *BeepEngine
	url    string
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	listener   Listener
	loading    bool
	closed     bool
	wantPaused bool
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
}

func (h *beepHandle) URL() string { return h.url }

func (h *beepHandle) Subscribe(l Listener) func() {
	h.mu.Lock()
	h.listener = l
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		h.listener = nil
		h.mu.Unlock()
	}
}

func (h *beepHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errHandleClosed
	}
	h.wantPaused = false

	if h.ctrl != nil {
		h.engine.out.Lock()
		h.ctrl.Paused = false
		h.engine.out.Unlock()
		return nil
	}
	if !h.loading {
		h.loading = true
		go h.load()
	}
	return nil
}

func (h *beepHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.wantPaused = true
	if h.ctrl != nil {
		h.engine.out.Lock()
		h.ctrl.Paused = true
		h.engine.out.Unlock()
	}
	return nil
}

func (h *beepHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.streamer == nil {
		return 0
	}
	h.engine.out.Lock()
	pos := h.streamer.Position()
	h.engine.out.Unlock()
	return h.format.SampleRate.D(pos)
}

func (h *beepHandle) Duration() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.streamer == nil {
		return 0
	}
	return h.format.SampleRate.D(h.streamer.Len())
}

func (h *beepHandle) Seek(position time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.streamer == nil {
		return fmt.Errorf("%w: media not loaded", shared.ErrInvalidSeek)
	}

	n := h.format.SampleRate.N(position)
	n = max(0, min(n, h.streamer.Len()-1))

	h.engine.out.Lock()
	defer h.engine.out.Unlock()
	return h.streamer.Seek(n)
}

func (h *beepHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.listener = nil
	h.cancel()

	if h.ctrl != nil {
		h.engine.out.Lock()
		h.ctrl.Streamer = nil
		h.engine.out.Unlock()
	}
	if h.streamer != nil {
		err := h.streamer.Close()
		h.streamer = nil
		return err
	}
	return nil
}

// load fetches and decodes the media, then starts it on the speaker.
func (h *beepHandle) load() {
	data, contentType, err := fetchMedia(h.ctx, h.engine.opts.HTTPClient, h.url, h.engine.opts.MaxBytes)
	if err != nil {
		h.fail(err)
		return
	}

	streamer, format, err := decodeMedia(data, contentType, h.url)
	if err != nil {
		h.fail(err)
		return
	}

	if err := h.engine.initSpeaker(); err != nil {
		streamer.Close()
		h.fail(fmt.Errorf("%w: %v", shared.ErrAudioUnavailable, err))
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		streamer.Close()
		return
	}
	h.streamer = streamer
	h.format = format
	h.ctrl = &beep.Ctrl{
		Streamer: beep.Resample(4, format.SampleRate, outputSampleRate, streamer),
		Paused:   h.wantPaused,
	}
	ctrl := h.ctrl
	duration := format.SampleRate.D(streamer.Len())
	h.mu.Unlock()

	h.engine.logger.Debug("media loaded", "url", h.url, "bytes", len(data), "duration", duration)
	h.emit(Event{Kind: MetadataReady, Duration: duration})

	done := make(chan struct{})
	h.engine.out.Play(beep.Seq(ctrl, beep.Callback(func() {
		close(done)
		// The callback runs under the speaker lock; deliver outside it.
		go h.emit(Event{Kind: Ended, Position: duration, Duration: duration})
	})))

	go h.tick(done)
}

func (h *beepHandle) tick(done <-chan struct{}) {
	t := time.NewTicker(h.engine.opts.TickInterval)
	defer t.Stop()

	for {
		select {
		case <-done:
			return
		case <-h.ctx.Done():
			return
		case <-t.C:
			h.mu.Lock()
			paused := h.wantPaused
			h.mu.Unlock()
			if !paused {
				h.emit(Event{Kind: TimeUpdate, Position: h.Position()})
			}
		}
	}
}

// fail reports a load error unless the handle was closed while loading.
func (h *beepHandle) fail(err error) {
	if !errors.Is(err, context.Canceled) {
		h.engine.logger.Error("playback failed", "url", h.url, "err", err)
		h.emit(Event{Kind: Failed, Err: err})
	}

	h.mu.Lock()
	h.loading = false
	h.mu.Unlock()
}

func (h *beepHandle) emit(ev Event) {
	h.mu.Lock()
	l := h.listener
	closed := h.closed
	h.mu.Unlock()

	if closed || l == nil {
		return
	}
	l(ev)
}
