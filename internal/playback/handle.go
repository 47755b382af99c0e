package playback

import (
	"time"

	"github.com/desertthunder/saregama/internal/models"
)

// State is the playback state of the session's current handle.
type State int

const (
	NoHandle State = iota
	Idle
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case NoHandle:
		return "no_handle"
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// EventKind enumerates the signals a [Handle] emits.
type EventKind int

const (
	TimeUpdate    EventKind = iota // position advanced
	Ended                          // reached the natural end of the track
	MetadataReady                  // total duration is known
	Failed                         // media could not be loaded or decoded
)

func (k EventKind) String() string {
	switch k {
	case TimeUpdate:
		return "time_update"
	case Ended:
		return "ended"
	case MetadataReady:
		return "metadata_ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is a signal from a handle.
//
// Handle is the subscription generation, stamped by the session; engines leave it zero.
type Event struct {
	Kind     EventKind
	Handle   uint64
	Position time.Duration
	Duration time.Duration
	Err      error
}

// Listener receives handle events.
type Listener func(Event)

// Handle is one live playback of one resolved media URL.
type Handle interface {
	URL() string
	// Play starts or resumes playback. Loading may continue asynchronously;
	// asynchronous failures arrive as a [Failed] event.
	Play() error
	Pause() error
	Position() time.Duration
	// Duration returns the total length, or a value <= 0 when unknown.
	Duration() time.Duration
	Seek(position time.Duration) error
	// Subscribe registers l as the handle's listener and returns a function that removes it.
	Subscribe(l Listener) (unsubscribe func())
	// Close stops playback and releases the handle. Events are not delivered after Close.
	Close() error
}

// Engine opens unstarted handles.
type Engine interface {
	Open(url string) (Handle, error)
}

// Recorder receives the lifecycle of each playback, e.g. for session history.
type Recorder interface {
	Start(song models.Song, url string) (id string, err error)
	Finish(id string, outcome models.PlayOutcome) error
}
