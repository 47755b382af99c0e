package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultCatalogURL is the public song catalog.
const DefaultCatalogURL = "https://saregamabackend.onrender.com"

var _ Catalog = (*CatalogService)(nil)

// CatalogService is an HTTP client for the song catalog.
type CatalogService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// CatalogOpts contains configuration options for creating a CatalogService.
type CatalogOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	RateLimit  float64 // Requests per second; zero disables limiting
	Logger     *log.Logger
}

// NewCatalogService creates a new catalog client instance.
func NewCatalogService(opts CatalogOpts) *CatalogService {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultCatalogURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &CatalogService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		logger:     shared.WithLogger(opts.Logger, "component", "catalog"),
	}
}

// Name returns the catalog base URL.
func (c *CatalogService) Name() string { return c.baseURL }

// ListSongs performs GET /songs and decodes the song list.
func (c *CatalogService) ListSongs(ctx context.Context) ([]models.Song, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/songs", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrNetworkFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var songs []models.Song
	if err := json.Unmarshal(body, &songs); err != nil {
		return nil, fmt.Errorf("%w: failed to decode song list: %v", shared.ErrNetworkFailure, err)
	}

	c.logger.Debug("fetched songs", "count", len(songs))
	return songs, nil
}

// UploadSong performs POST /upload with multipart fields "file" and "name".
func (c *CatalogService) UploadSong(ctx context.Context, fileName string, r io.Reader) error {
	if fileName == "" {
		return fmt.Errorf("%w: file name", shared.ErrMissingArgument)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if err := form.WriteField("name", fileName); err != nil {
		return fmt.Errorf("failed to write form field: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrNetworkFailure, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	if _, err := c.do(ctx, req); err != nil {
		return err
	}

	c.logger.Info("uploaded song", "name", fileName)
	return nil
}

// do waits for the limiter, sends req and returns the body of a 2xx response.
func (c *CatalogService) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrNetworkFailure, err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", req.Method, "url", req.URL.String(), "err", err)
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrNetworkFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("unexpected status", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %s %s returned %d", shared.ErrNetworkFailure, req.Method, req.URL.Path, resp.StatusCode)
	}

	return body, nil
}
