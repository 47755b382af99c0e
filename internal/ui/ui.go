package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/playback"
	"github.com/desertthunder/saregama/internal/shared"
	"github.com/desertthunder/saregama/internal/tasks"
	"github.com/mattn/go-runewidth"
)

const (
	historyLimit = 12
	historyWidth = 36
)

// Mode is the current input mode of the player.
type Mode int

const (
	BrowseMode Mode = iota
	UploadMode
)

// HistorySource lists recent plays, newest first.
type HistorySource interface {
	Recent(limit int) ([]*models.PlayEvent, error)
}

// ModelOpts contains the dependencies of the player model.
type ModelOpts struct {
	Engine       *tasks.CatalogEngine
	Session      *playback.Session
	Events       <-chan playback.Event // Fed by [EventSink] from the session's handles
	History      HistorySource         // Optional
	MediaBaseURL string
	SeekStep     time.Duration // Arrow-key seek distance; defaults to 5s
}

// Model represents the player state.
type Model struct {
	ctx       context.Context
	mode      Mode
	engine    *tasks.CatalogEngine
	session   *playback.Session
	events    <-chan playback.Event
	history   HistorySource
	mediaBase string
	seekStep  time.Duration

	width   int
	height  int
	songs   list.Model
	bar     progress.Model
	spinner spinner.Model
	input   textinput.Model
	help    help.Model
	keys    keyMap

	loading      bool
	showHistory  bool
	plays        []*models.PlayEvent
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	uploadSongs  []models.Song
	uploadErr    error
	status       string
	err          error
}

// EventSink returns a [playback.SessionOpts.Sink] that queues events on ch until ctx is done.
func EventSink(ctx context.Context, ch chan<- playback.Event) func(playback.Event) {
	return func(ev playback.Event) {
		select {
		case ch <- ev:
		case <-ctx.Done():
		}
	}
}

// NewModel creates a new player model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5 * time.Second
	}

	input := textinput.New()
	input.Placeholder = "path/to/song.mp3"
	input.Prompt = "Upload › "
	input.CharLimit = 4096

	return &Model{
		ctx:       ctx,
		mode:      BrowseMode,
		engine:    opts.Engine,
		session:   opts.Session,
		events:    opts.Events,
		history:   opts.History,
		mediaBase: opts.MediaBaseURL,
		seekStep:  opts.SeekStep,
		songs:     newSongList(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:     input,
		help:      help.New(),
		keys:      newKeyMap(),
		loading:   true,
	}
}

// Init fetches the catalog and starts listening for playback events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchSongs(), m.waitForEvent(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.mode == UploadMode {
			return m.handleUploadKeys(msg)
		}
		return m.handleBrowseKeys(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.songs, cmd = m.songs.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSongsFetched:
		res := msg.data.(songsResult)
		m.loading = false
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		return m, m.setSongs(res.songs)

	case MsgUploadComplete:
		res := msg.data.(songsResult)
		m.loading = false
		m.progressChan = nil
		if errors.Is(res.err, shared.ErrRefreshFailed) {
			m.err = fmt.Errorf("uploaded; %w", res.err)
			return m, nil
		}
		if res.err != nil {
			m.err = fmt.Errorf("upload failed: %w", res.err)
			return m, nil
		}
		m.err = nil
		m.status = styles.ok.Render("✓ " + m.progress.Message)
		return m, m.setSongs(res.songs)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		m.status = m.progress.Message
		return m, m.waitForProgress()

	case MsgPlaybackEvent:
		ev := msg.data.(playback.Event)
		before := m.session.Telemetry().Index
		if err := m.session.Dispatch(ev); err != nil {
			m.err = err
		}
		cmds := []tea.Cmd{m.waitForEvent()}
		if m.session.Telemetry().Index != before || ev.Kind == playback.Ended {
			cmds = append(cmds, m.songChanged())
		}
		return m, tea.Batch(cmds...)

	case MsgHistoryFetched:
		res := msg.data.(historyResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.plays = res.events
		return m, nil
	}
	return m, nil
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.songs.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.songs, cmd = m.songs.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.session.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.play):
		item, ok := m.songs.SelectedItem().(songItem)
		if !ok {
			return m, nil
		}
		return m, m.run(m.session.SelectAndPlay(m.indexOf(item.song)), true)

	case key.Matches(msg, m.keys.toggle):
		return m, m.run(m.session.TogglePlayPause(), false)

	case key.Matches(msg, m.keys.next):
		return m, m.run(m.session.Next(), true)

	case key.Matches(msg, m.keys.previous):
		return m, m.run(m.session.Previous(), true)

	case key.Matches(msg, m.keys.shuffle):
		return m, m.run(m.session.Shuffle(), true)

	case key.Matches(msg, m.keys.back):
		return m, m.run(m.session.SeekBy(-m.seekStep), false)

	case key.Matches(msg, m.keys.forward):
		return m, m.run(m.session.SeekBy(m.seekStep), false)

	case key.Matches(msg, m.keys.seekTo):
		tenths := float64(msg.String()[0]-'0') / 10
		return m, m.run(m.session.Seek(tenths), false)

	case key.Matches(msg, m.keys.upload):
		if m.engine == nil {
			m.err = fmt.Errorf("%w: catalog not configured", shared.ErrServiceUnavailable)
			return m, nil
		}
		m.mode = UploadMode
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		return m, tea.Batch(m.fetchSongs(), m.spinner.Tick)

	case key.Matches(msg, m.keys.history):
		m.showHistory = !m.showHistory
		m.resize()
		if m.showHistory {
			return m, m.fetchHistory()
		}
		return m, nil

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.songs, cmd = m.songs.Update(msg)
	return m, cmd
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.mode = BrowseMode
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.submit):
		path := strings.TrimSpace(m.input.Value())
		m.mode = BrowseMode
		m.input.Blur()
		if path == "" {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.startUpload(path), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// run records err for display and refreshes song-dependent views when the song may have changed.
func (m *Model) run(err error, songChange bool) tea.Cmd {
	if err != nil {
		m.err = err
	} else {
		m.err = nil
	}
	if songChange {
		return m.songChanged()
	}
	return nil
}

func (m *Model) songChanged() tea.Cmd {
	tel := m.session.Telemetry()
	cmd := m.songs.SetItems(songItems(m.session.Songs(), m.mediaBase, tel.Index))
	if tel.Index >= 0 && m.songs.FilterState() == list.Unfiltered {
		m.songs.Select(tel.Index)
	}
	if m.showHistory {
		return tea.Batch(cmd, m.fetchHistory())
	}
	return cmd
}

func (m *Model) setSongs(songs []models.Song) tea.Cmd {
	m.session.SetSongs(songs)
	return m.songChanged()
}

// indexOf maps a list item back to its playlist index, which differs from the list index while filtered.
func (m *Model) indexOf(song models.Song) int {
	for i, s := range m.session.Songs() {
		if s.ID == song.ID {
			return i
		}
	}
	return -1
}

func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	w := m.width - 2
	if m.showHistory {
		w -= historyWidth + 2
	}
	reserved := 8
	if m.help.ShowAll {
		reserved += 3
	}
	m.songs.SetSize(max(w, 20), max(m.height-reserved, 5))
	m.bar.Width = max(min(w-16, 60), 10)
	m.input.Width = max(w-12, 10)
	m.help.Width = m.width
}

func (m *Model) fetchSongs() tea.Cmd {
	return func() tea.Msg {
		if m.engine == nil {
			return songsFetchedMsg(nil, fmt.Errorf("%w: catalog not configured", shared.ErrServiceUnavailable))
		}
		songs, err := m.engine.Refresh(m.ctx, nil)
		return songsFetchedMsg(songs, err)
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	return func() tea.Msg {
		events, err := m.history.Recent(historyLimit)
		return historyFetchedMsg(events, err)
	}
}

func (m *Model) startUpload(path string) tea.Cmd {
	ch := make(chan tasks.ProgressUpdate, 10)
	m.progressChan = ch
	m.uploadSongs, m.uploadErr = nil, nil

	go func() {
		songs, err := m.engine.Upload(m.ctx, ch, path, "")
		m.uploadSongs, m.uploadErr = songs, err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return uploadCompleteMsg(m.uploadSongs, m.uploadErr)
		}
		update, ok := <-ch
		if !ok {
			return uploadCompleteMsg(m.uploadSongs, m.uploadErr)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev, ok := <-m.events:
			if !ok {
				return nil
			}
			return playbackEventMsg(ev)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// View renders the player.
func (m *Model) View() string {
	var main string
	if m.loading && len(m.songs.Items()) == 0 {
		main = fmt.Sprintf("%s Fetching songs...", m.spinner.View())
	} else {
		main = m.songs.View()
	}

	if m.showHistory {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, " ", m.renderHistory())
	}

	sections := []string{main, m.renderNowPlaying()}

	if m.mode == UploadMode {
		sections = append(sections, m.input.View())
	} else if line := m.renderStatus(); line != "" {
		sections = append(sections, line)
	}

	sections = append(sections, m.help.View(m.keys))
	return strings.Join(sections, "\n")
}

func (m *Model) renderNowPlaying() string {
	tel := m.session.Telemetry()
	if tel.Song == nil || !tel.HasHandle() {
		return styles.help.Render("Select a Song")
	}

	icon := "▶"
	switch tel.State {
	case playback.Paused:
		icon = "❚❚"
	case playback.Idle:
		icon = "■"
	}

	title := tel.Song.Title()
	if m.width > 0 {
		title = runewidth.Truncate(title, max(m.width-24, 10), "…")
	}

	clock := fmt.Sprintf("%s / %s", shared.FormatDuration(tel.Position), shared.FormatDuration(tel.Duration))

	return fmt.Sprintf("%s %s\n%s %s",
		styles.playing.Render(icon),
		styles.playing.Render(title),
		m.bar.ViewAs(tel.Progress()),
		clock,
	)
}

func (m *Model) renderStatus() string {
	switch {
	case m.err != nil:
		return styles.err.Render("Error: " + m.err.Error())
	case m.loading && m.progressChan != nil:
		return fmt.Sprintf("%s %s", m.spinner.View(), m.status)
	default:
		return m.status
	}
}

func (m *Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("History"))
	b.WriteString("\n")

	if len(m.plays) == 0 {
		b.WriteString(styles.help.Render("No plays yet"))
	}
	for _, e := range m.plays {
		name := runewidth.Truncate(e.SongName(), historyWidth-14, "…")
		fmt.Fprintf(&b, "%s %s %s\n",
			e.StartedAt().Format("15:04"),
			runewidth.FillRight(name, historyWidth-14),
			renderOutcome(e.Outcome()),
		)
	}

	return styles.pane.Width(historyWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func renderOutcome(o models.PlayOutcome) string {
	switch o {
	case models.OutcomeCompleted:
		return styles.ok.Render("✓")
	case models.OutcomeFailed:
		return styles.err.Render("✗")
	case models.OutcomeSkipped:
		return styles.warn.Render("»")
	default:
		return styles.help.Render("…")
	}
}
