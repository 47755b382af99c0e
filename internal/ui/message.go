package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/playback"
	"github.com/desertthunder/saregama/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsFetched MsgKind = iota
	MsgUploadComplete
	MsgProgressUpdate
	MsgPlaybackEvent
	MsgHistoryFetched
)

type songsResult struct {
	songs []models.Song
	err   error
}

type historyResult struct {
	events []*models.PlayEvent
	err    error
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(songs []models.Song, err error) Msg {
	return Msg{kind: MsgSongsFetched, data: songsResult{songs, err}}
}

// uploadCompleteMsg is the constructor for [MsgUploadComplete]
func uploadCompleteMsg(songs []models.Song, err error) Msg {
	return Msg{kind: MsgUploadComplete, data: songsResult{songs, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// playbackEventMsg is the constructor for [MsgPlaybackEvent]
func playbackEventMsg(ev playback.Event) Msg {
	return Msg{kind: MsgPlaybackEvent, data: ev}
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]
func historyFetchedMsg(events []*models.PlayEvent, err error) Msg {
	return Msg{kind: MsgHistoryFetched, data: historyResult{events, err}}
}
