package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/saregama/internal/shared"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// BeepOpts contains configuration options for creating a BeepEngine.
type BeepOpts struct {
	HTTPClient   *http.Client
	Logger       *log.Logger
	TickInterval time.Duration // Interval between TimeUpdate events; defaults to 250ms
	MaxBytes     int64         // Largest media payload accepted; defaults to 64 MiB
}

// DefaultMaxMediaBytes bounds how much of a media resource is buffered in memory.
const DefaultMaxMediaBytes int64 = 64 << 20

func (o BeepOpts) withDefaults() BeepOpts {
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	if o.Logger == nil {
		o.Logger = shared.NewLogger(io.Discard)
	}
	if o.TickInterval <= 0 {
		o.TickInterval = 250 * time.Millisecond
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxMediaBytes
	}
	return o
}

type mediaFormat int

const (
	formatUnknown mediaFormat = iota
	formatMP3
	formatWAV
)

// fetchMedia downloads the whole resource at rawURL and returns it with its content type.
// Resources larger than limit bytes are rejected.
func fetchMedia(ctx context.Context, client *http.Client, rawURL string, limit int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", shared.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: GET %s returned %d", shared.ErrNetworkFailure, rawURL, resp.StatusCode)
	}

	if resp.ContentLength > limit {
		return nil, "", fmt.Errorf("%w: %s is %d bytes (limit %d)", shared.ErrUnsupportedMedia, rawURL, resp.ContentLength, limit)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read media: %w", shared.ErrNetworkFailure, err)
	}
	if int64(len(data)) > limit {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", shared.ErrUnsupportedMedia, rawURL, limit)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// sniffFormat inspects magic bytes, then the content type, then the URL extension.
// Unrecognized payloads with no hints are treated as MP3, the catalog's usual format.
func sniffFormat(data []byte, contentType, rawURL string) mediaFormat {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return formatWAV
	case bytes.HasPrefix(data, []byte("ID3")):
		return formatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return formatMP3
	case bytes.HasPrefix(data, []byte("OggS")), bytes.HasPrefix(data, []byte("fLaC")):
		return formatUnknown
	}

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
			return formatWAV
		case "audio/mpeg", "audio/mp3", "audio/mpeg3":
			return formatMP3
		}
	}

	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}
	switch ext {
	case ".wav", ".wave":
		return formatWAV
	case ".mp3", "":
		return formatMP3
	}
	return formatUnknown
}

// decodeMedia decodes an in-memory payload into a seekable stream.
func decodeMedia(data []byte, contentType, rawURL string) (beep.StreamSeekCloser, beep.Format, error) {
	switch sniffFormat(data, contentType, rawURL) {
	case formatWAV:
		s, f, err := wav.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("%w: wav: %v", shared.ErrUnsupportedMedia, err)
		}
		return s, f, nil
	case formatMP3:
		s, f, err := mp3.Decode(seekableCloser{bytes.NewReader(data)})
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("%w: mp3: %v", shared.ErrUnsupportedMedia, err)
		}
		return s, f, nil
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", shared.ErrUnsupportedMedia, rawURL)
	}
}

// seekableCloser keeps the reader's Seek method visible to the MP3 decoder.
type seekableCloser struct {
	*bytes.Reader
}

func (seekableCloser) Close() error { return nil }
