// Package ui implements the interactive player using bubbletea's Elm architecture.
//
// The screen is a song browser over the catalog with a now-playing bar underneath:
//   - the list marks the current song and resolves each song's media URL
//   - the bar shows title, position / duration and a progress gauge
//   - an optional side pane lists this session's play history
//
// The [Model] owns a [playback.Session]. Handle events never touch the session directly:
// they are queued by [EventSink] and applied on the Update loop through the Msg union type,
// so all session state changes happen on one goroutine.
//
// Uploads run through [tasks.CatalogEngine] and stream progress over a channel, following the same
// wait-for-progress pattern used for every long-running command.
package ui
