// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/playback"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	mu        sync.Mutex
	Songs     []models.Song
	ListErr   error
	UploadErr error
	// FailUploads fails only the uploads whose name is listed.
	FailUploads map[string]bool
	Uploaded    []string
	ListCalls   int
}

func (m *MockCatalog) ListSongs(ctx context.Context) ([]models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.Song(nil), m.Songs...), nil
}

func (m *MockCatalog) UploadSong(ctx context.Context, fileName string, r io.Reader) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUploads[fileName] {
		return fmt.Errorf("upload of %s failed", fileName)
	}
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.Uploaded = append(m.Uploaded, fileName)
	m.Songs = append(m.Songs, models.Song{ID: fileName, Name: fileName})
	return nil
}

func (m *MockCatalog) Name() string { return "mock" }

// UploadedNames returns the names of successful uploads.
func (m *MockCatalog) UploadedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Uploaded...)
}

// FakeEngine is a test double for [playback.Engine] that records every handle it opens
type FakeEngine struct {
	OpenErr error
	PlayErr error // Returned by Play on handles opened after it is set
	Handles []*FakeHandle
}

func (e *FakeEngine) Open(url string) (playback.Handle, error) {
	if e.OpenErr != nil {
		return nil, e.OpenErr
	}
	h := &FakeHandle{url: url, PlayErr: e.PlayErr}
	e.Handles = append(e.Handles, h)
	return h, nil
}

// Last returns the most recently opened handle, or nil.
func (e *FakeEngine) Last() *FakeHandle {
	if len(e.Handles) == 0 {
		return nil
	}
	return e.Handles[len(e.Handles)-1]
}

// Live returns the handles that have not been closed.
func (e *FakeEngine) Live() []*FakeHandle {
	var live []*FakeHandle
	for _, h := range e.Handles {
		if !h.Closed {
			live = append(live, h)
		}
	}
	return live
}

// FakeHandle is a [playback.Handle] driven by the test through Emit
type FakeHandle struct {
	url      string
	listener playback.Listener

	PlayErr    error
	PauseErr   error
	SeekErr    error
	Plays      int
	Pauses     int
	Seeks      []time.Duration
	Closed     bool
	Subscribed bool
	Pos        time.Duration
	Dur        time.Duration
}

func (h *FakeHandle) URL() string { return h.url }

func (h *FakeHandle) Play() error {
	h.Plays++
	return h.PlayErr
}

func (h *FakeHandle) Pause() error {
	h.Pauses++
	return h.PauseErr
}

func (h *FakeHandle) Position() time.Duration { return h.Pos }
func (h *FakeHandle) Duration() time.Duration { return h.Dur }

func (h *FakeHandle) Seek(position time.Duration) error {
	if h.SeekErr != nil {
		return h.SeekErr
	}
	h.Seeks = append(h.Seeks, position)
	h.Pos = position
	return nil
}

func (h *FakeHandle) Subscribe(l playback.Listener) func() {
	h.listener = l
	h.Subscribed = true
	return func() {
		h.listener = nil
		h.Subscribed = false
	}
}

func (h *FakeHandle) Close() error {
	h.Closed = true
	return nil
}

// Emit delivers ev to the subscribed listener, ignoring whether the handle was closed.
// It returns false when nobody is subscribed.
func (h *FakeHandle) Emit(ev playback.Event) bool {
	if h.listener == nil {
		return false
	}
	h.listener(ev)
	return true
}

// FakeRecorder is an in-memory [playback.Recorder]
type FakeRecorder struct {
	StartErr error
	Started  []string // song IDs in start order
	Finished map[string]models.PlayOutcome
	Order    []models.PlayOutcome
}

func (r *FakeRecorder) Start(song models.Song, url string) (string, error) {
	if r.StartErr != nil {
		return "", r.StartErr
	}
	r.Started = append(r.Started, song.ID)
	return fmt.Sprintf("play-%d", len(r.Started)), nil
}

func (r *FakeRecorder) Finish(id string, outcome models.PlayOutcome) error {
	if r.Finished == nil {
		r.Finished = make(map[string]models.PlayOutcome)
	}
	r.Finished[id] = outcome
	r.Order = append(r.Order, outcome)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// WAV builds a 16-bit PCM mono WAV file holding frames silent samples.
func WAV(sampleRate, frames int) []byte {
	var b bytes.Buffer
	dataLen := frames * 2
	le32 := func(v int) { b.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}) }
	le16 := func(v int) { b.Write([]byte{byte(v), byte(v >> 8)}) }

	b.WriteString("RIFF")
	le32(36 + dataLen)
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	le32(16)
	le16(1) // PCM
	le16(1) // mono
	le32(sampleRate)
	le32(sampleRate * 2)
	le16(2)
	le16(16)
	b.WriteString("data")
	le32(dataLen)
	b.Write(make([]byte, dataLen))
	return b.Bytes()
}

func MustWriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
