package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/shared"
)

// MaxUploadSize caps the multipart body accepted by POST /upload.
const MaxUploadSize = 64 << 20

type storedSong struct {
	song        models.Song
	contentType string
	data        []byte
	addedAt     time.Time
}

// CatalogHandler is an in-memory catalog backend.
type CatalogHandler struct {
	mu     sync.RWMutex
	songs  []*storedSong
	byID   map[string]*storedSong
	files  map[string]string // source path to song ID
	logger *log.Logger
}

var _ Handler = (*CatalogHandler)(nil)

// NewCatalogHandler creates an empty catalog.
func NewCatalogHandler(logger *log.Logger) *CatalogHandler {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &CatalogHandler{
		byID:   make(map[string]*storedSong),
		files:  make(map[string]string),
		logger: shared.WithLogger(logger, "component", "catalog"),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CatalogHandler) Routes() []string {
	return []string{"/songs", "/upload", "/media/"}
}

// Add stores a song and returns it with its generated ID.
func (h *CatalogHandler) Add(name, contentType string, data []byte) models.Song {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	s := &storedSong{
		song:        models.Song{ID: shared.GenerateID(), Name: name},
		contentType: contentType,
		data:        data,
		addedAt:     time.Now(),
	}

	h.mu.Lock()
	h.songs = append(h.songs, s)
	h.byID[s.song.ID] = s
	h.mu.Unlock()

	return s.song
}

// Songs returns the catalog in insertion order.
func (h *CatalogHandler) Songs() []models.Song {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.Song, len(h.songs))
	for i, s := range h.songs {
		out[i] = s.song
	}
	return out
}

// LoadDir adds every audio file in dir, named after the file without its extension.
//
// Files already loaded from the same path are skipped.
func (h *CatalogHandler) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	loaded := 0
	for _, e := range entries {
		if e.IsDir() || !isAudioFile(e.Name()) {
			continue
		}
		_, added, err := h.addFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return loaded, err
		}
		if added {
			loaded++
		}
	}

	h.logger.Info("loaded songs", "dir", dir, "count", loaded)
	return loaded, nil
}

func (h *CatalogHandler) addFile(path string) (models.Song, bool, error) {
	path = filepath.Clean(path)

	h.mu.RLock()
	existing, seen := h.byID[h.files[path]]
	h.mu.RUnlock()
	if seen {
		return existing.song, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Song{}, false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	song := h.Add(strings.TrimSuffix(base, ext), mime.TypeByExtension(strings.ToLower(ext)), data)

	h.mu.Lock()
	h.files[path] = song.ID
	h.mu.Unlock()
	return song, true, nil
}

func isAudioFile(name string) bool {
	return slices.Contains([]string{".mp3", ".wav"}, strings.ToLower(filepath.Ext(name)))
}

// ServeHTTP dispatches to the songs, upload and media endpoints.
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/songs":
		h.allow(w, r, http.MethodGet, h.listSongs)
	case r.URL.Path == "/upload":
		h.allow(w, r, http.MethodPost, h.upload)
	case strings.HasPrefix(r.URL.Path, "/media/"):
		h.allow(w, r, http.MethodGet, h.media)
	default:
		http.NotFound(w, r)
	}
}

func (h *CatalogHandler) allow(w http.ResponseWriter, r *http.Request, method string, fn http.HandlerFunc) {
	if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
		w.Header().Set("Allow", method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn(w, r)
}

func (h *CatalogHandler) listSongs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Songs())
}

func (h *CatalogHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		http.Error(w, "invalid multipart body: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}
	if name == "" {
		http.Error(w, "missing name field", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename)))
	}

	song := h.Add(name, contentType, buf.Bytes())
	h.logger.Info("song uploaded", "id", song.ID, "name", song.Name, "bytes", buf.Len())
	writeJSON(w, http.StatusCreated, song)
}

func (h *CatalogHandler) media(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/media/")

	h.mu.RLock()
	s, ok := h.byID[id]
	h.mu.RUnlock()

	if !ok {
		http.Error(w, fmt.Sprintf("%v: %s", shared.ErrSongNotFound, id), http.StatusNotFound)
		return
	}

	if s.contentType != "" {
		w.Header().Set("Content-Type", s.contentType)
	}
	http.ServeContent(w, r, s.song.Name, s.addedAt, bytes.NewReader(s.data))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewCatalogRouter returns a router serving h plus a health check, with logging and CORS.
func NewCatalogRouter(h *CatalogHandler, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	router := NewBasicRouter()
	router.Use(LoggingMiddleware(logger), CORSMiddleware())
	router.Handler(h)
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "songs": len(h.Songs())})
	}))
	return router
}
