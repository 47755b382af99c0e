// Package playback owns the single live audio handle and the playlist position that drives it.
//
// # Session
//
// A [Session] is the state machine behind the player: it holds the song list, the current index,
// and at most one [Handle]. Transport operations ([Session.SelectAndPlay], [Session.TogglePlayPause],
// [Session.Next], [Session.Previous], [Session.Shuffle], [Session.Seek]) mutate that state; handle
// events ([Session.Dispatch]) update telemetry and advance the playlist when a track ends.
//
// A Session is not safe for concurrent use. It is meant to be owned by a single event loop
// (the bubbletea program in this module). Engines whose handles emit events from other
// goroutines must be paired with [SessionOpts.Sink], which hands stamped events back to the
// owner; the owner then calls Dispatch.
//
// # Handles and Stale Events
//
// Every song change opens a fresh handle. Before the new handle is opened the session
// unsubscribes its listener from the old one and closes it, and each subscription stamps its
// events with a generation number. Dispatch drops any event whose generation is not current,
// so late callbacks from a replaced handle never reach telemetry.
//
// # Engines
//
// [BeepEngine] fetches the resolved URL into memory, decodes MP3 or WAV with gopxl/beep and
// plays through the system speaker. Builds without audio support get an engine whose handles
// fail to start with [shared.ErrAudioUnavailable]; the session reports the failure and keeps working.
package playback
