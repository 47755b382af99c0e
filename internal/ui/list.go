package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/saregama/internal/models"
	"github.com/samber/lo"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song    models.Song
	url     string
	current bool
}

func (i songItem) FilterValue() string { return i.song.Title() }
func (i songItem) Title() string {
	if i.current {
		return "♪ " + i.song.Title()
	}
	return i.song.Title()
}
func (i songItem) Description() string { return i.url }

func songItems(songs []models.Song, mediaBase string, current int) []list.Item {
	return lo.Map(songs, func(s models.Song, i int) list.Item {
		return songItem{song: s, url: s.ResolveURL(mediaBase), current: i == current}
	})
}

// newSongList builds the song browser. Paging and quit keys are taken over by the player.
func newSongList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Songs"
	l.Styles.Title = styles.playing
	l.SetShowHelp(false)
	l.SetStatusBarItemName("song", "songs")

	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page"))
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	return l
}
