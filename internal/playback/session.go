package playback

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/shared"
)

// SessionOpts contains configuration options for creating a Session.
type SessionOpts struct {
	Engine       Engine
	MediaBaseURL string          // Base for songs without an explicit URL
	Logger       *log.Logger     // Defaults to a discarding logger
	Recorder     Recorder        // Optional playback history
	Sink         func(Event)     // Optional; receives stamped events instead of Dispatch
	Intn         func(n int) int // Shuffle source; defaults to math/rand/v2
}

// Telemetry is a snapshot of what the presentation layer renders.
type Telemetry struct {
	Index    int          // Current playlist index, -1 when the playlist is empty
	Song     *models.Song // Song at Index, nil when the playlist is empty
	URL      string       // Resolved URL of the live handle, empty without one
	State    State
	Playing  bool
	Position time.Duration
	Duration time.Duration // Zero until the handle reports metadata
}

// Progress returns Position/Duration in [0,1], or 0 when the duration is unknown.
func (t Telemetry) Progress() float64 {
	if t.Duration <= 0 {
		return 0
	}
	p := float64(t.Position) / float64(t.Duration)
	return math.Max(0, math.Min(1, p))
}

// HasHandle reports whether a handle is live.
func (t Telemetry) HasHandle() bool { return t.State != NoHandle }

// Session synchronizes one playback handle with a playlist position.
type Session struct {
	engine    Engine
	mediaBase string
	logger    *log.Logger
	recorder  Recorder
	sink      func(Event)
	intn      func(int) int

	songs []models.Song
	index int

	handle      Handle
	unsubscribe func()
	generation  uint64
	state       State
	position    time.Duration
	duration    time.Duration
	playID      string
}

// NewSession creates a Session with an empty playlist.
func NewSession(opts SessionOpts) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}

	return &Session{
		engine:    opts.Engine,
		mediaBase: opts.MediaBaseURL,
		logger:    shared.WithLogger(opts.Logger, "component", "session"),
		recorder:  opts.Recorder,
		sink:      opts.Sink,
		intn:      opts.Intn,
		index:     -1,
		state:     NoHandle,
	}
}

// SetSongs replaces the playlist wholesale.
//
// The live handle is kept. The index is kept when still in range, otherwise it resets to 0
// (or -1 for an empty list).
func (s *Session) SetSongs(songs []models.Song) {
	s.songs = append([]models.Song(nil), songs...)

	switch {
	case len(s.songs) == 0:
		s.index = -1
	case s.index < 0 || s.index >= len(s.songs):
		s.index = 0
	}
}

// Songs returns a copy of the playlist.
func (s *Session) Songs() []models.Song {
	return append([]models.Song(nil), s.songs...)
}

// Len returns the playlist length.
func (s *Session) Len() int { return len(s.songs) }

// Telemetry returns the current snapshot.
func (s *Session) Telemetry() Telemetry {
	t := Telemetry{
		Index:    s.index,
		State:    s.state,
		Playing:  s.state == Playing,
		Position: s.position,
		Duration: s.duration,
	}
	if s.index >= 0 && s.index < len(s.songs) {
		song := s.songs[s.index]
		t.Song = &song
	}
	if s.handle != nil {
		t.URL = s.handle.URL()
	}
	return t
}

// SelectAndPlay releases any live handle, opens a new one for the song at index and starts it.
//
// Re-selecting the current index still opens a new handle. When the handle fails to start it is
// kept as current in the [Idle] state and the returned error wraps [shared.ErrPlaybackStart].
func (s *Session) SelectAndPlay(index int) error {
	if index < 0 || index >= len(s.songs) {
		return s.report(fmt.Errorf("%w: %d (playlist has %d songs)", shared.ErrIndexOutOfRange, index, len(s.songs)))
	}

	song := s.songs[index]
	url := song.ResolveURL(s.mediaBase)

	s.release(models.OutcomeSkipped)
	s.index = index
	s.position = 0
	s.duration = 0

	if s.engine == nil {
		return s.report(fmt.Errorf("%w: no playback engine", shared.ErrPlaybackStart))
	}

	h, err := s.engine.Open(url)
	if err != nil {
		return s.report(fmt.Errorf("%w: open %s: %v", shared.ErrPlaybackStart, url, err))
	}

	s.generation++
	gen := s.generation
	s.handle = h
	s.unsubscribe = h.Subscribe(func(ev Event) {
		ev.Handle = gen
		s.deliver(ev)
	})
	s.recordStart(song, url)

	s.state = Playing
	if err := h.Play(); err != nil {
		s.state = Idle
		s.recordFinish(models.OutcomeFailed)
		return s.report(fmt.Errorf("%w: %s: %v", shared.ErrPlaybackStart, url, err))
	}

	s.logger.Info("playing", "index", index, "song", song.Title(), "url", url)
	return nil
}

// TogglePlayPause pauses a playing handle or resumes any other live handle.
//
// Without a handle it does nothing.
func (s *Session) TogglePlayPause() error {
	if s.handle == nil {
		return nil
	}

	if s.state == Playing {
		if err := s.handle.Pause(); err != nil {
			return s.report(fmt.Errorf("pause failed: %w", err))
		}
		s.state = Paused
		return nil
	}

	prev := s.state
	s.state = Playing
	if err := s.handle.Play(); err != nil {
		s.state = prev
		return s.report(fmt.Errorf("%w: resume: %v", shared.ErrPlaybackStart, err))
	}
	return nil
}

// Next plays the following song, wrapping to the first.
func (s *Session) Next() error {
	return s.step(1)
}

// Previous plays the preceding song, wrapping to the last.
func (s *Session) Previous() error {
	return s.step(-1)
}

func (s *Session) step(delta int) error {
	n := len(s.songs)
	if n == 0 {
		return s.report(fmt.Errorf("%w: nothing to skip to", shared.ErrEmptyPlaylist))
	}
	cur := max(s.index, 0)
	return s.SelectAndPlay(((cur+delta)%n + n) % n)
}

// Shuffle plays a uniformly random song. The current song may be picked again.
func (s *Session) Shuffle() error {
	n := len(s.songs)
	if n == 0 {
		return s.report(fmt.Errorf("%w: no songs to shuffle", shared.ErrEmptyPlaylist))
	}
	return s.SelectAndPlay(s.intn(n))
}

// Seek moves the handle to fraction of the known duration. Fractions outside [0,1] are clamped.
func (s *Session) Seek(fraction float64) error {
	if math.IsNaN(fraction) {
		return s.report(fmt.Errorf("%w: fraction is NaN", shared.ErrInvalidSeek))
	}
	if s.handle == nil || s.duration <= 0 {
		return s.report(shared.ErrInvalidSeek)
	}

	fraction = math.Max(0, math.Min(1, fraction))
	return s.seekTo(time.Duration(math.Round(fraction * float64(s.duration))))
}

// SeekBy moves the position by delta relative to the current position, clamped to the track.
func (s *Session) SeekBy(delta time.Duration) error {
	if s.handle == nil || s.duration <= 0 {
		return s.report(shared.ErrInvalidSeek)
	}
	return s.seekTo(max(0, min(s.position+delta, s.duration)))
}

func (s *Session) seekTo(target time.Duration) error {
	if err := s.handle.Seek(target); err != nil {
		return s.report(fmt.Errorf("seek failed: %w", err))
	}
	s.position = target
	return nil
}

// Dispatch applies a handle event. Events from replaced handles are dropped.
//
// An [Ended] event advances to the next song; any error from that is returned.
func (s *Session) Dispatch(ev Event) error {
	if s.handle == nil || ev.Handle != s.generation {
		s.logger.Debug("dropping stale event", "kind", ev.Kind, "handle", ev.Handle, "current", s.generation)
		return nil
	}

	switch ev.Kind {
	case TimeUpdate:
		s.position = ev.Position
	case MetadataReady:
		s.duration = ev.Duration
	case Ended:
		s.recordFinish(models.OutcomeCompleted)
		return s.Next()
	case Failed:
		s.state = Idle
		s.recordFinish(models.OutcomeFailed)
		return s.report(fmt.Errorf("%w: %s: %v", shared.ErrPlaybackStart, s.handle.URL(), ev.Err))
	}
	return nil
}

// Close releases the live handle.
func (s *Session) Close() {
	s.release(models.OutcomeSkipped)
}

func (s *Session) deliver(ev Event) {
	if s.sink != nil {
		s.sink(ev)
		return
	}
	// Dispatch logs its own failures.
	_ = s.Dispatch(ev)
}

// release detaches from and closes the live handle.
func (s *Session) release(outcome models.PlayOutcome) {
	if s.handle == nil {
		return
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if err := s.handle.Close(); err != nil {
		s.logger.Warn("failed to close handle", "url", s.handle.URL(), "err", err)
	}
	s.recordFinish(outcome)
	s.handle = nil
	s.state = NoHandle
}

func (s *Session) recordStart(song models.Song, url string) {
	if s.recorder == nil {
		return
	}
	id, err := s.recorder.Start(song, url)
	if err != nil {
		s.logger.Warn("failed to record playback", "song", song.ID, "err", err)
		return
	}
	s.playID = id
}

func (s *Session) recordFinish(outcome models.PlayOutcome) {
	if s.recorder == nil || s.playID == "" {
		return
	}
	if err := s.recorder.Finish(s.playID, outcome); err != nil {
		s.logger.Warn("failed to record outcome", "id", s.playID, "err", err)
	}
	s.playID = ""
}

func (s *Session) report(err error) error {
	s.logger.Error(err.Error())
	return err
}
