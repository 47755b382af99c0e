package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/shared"
	tu "github.com/desertthunder/saregama/internal/testing"
)

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		tu.MustWriteFile(t, path, []byte("audio:"+name))
		paths = append(paths, path)
	}
	return paths
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	var out []ProgressUpdate
	for {
		select {
		case u := <-ch:
			out = append(out, u)
		default:
			return out
		}
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{RefreshCatalog, "refresh_catalog"},
		{UploadSongs, "upload_songs"},
		{Phase(42), ""},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestCatalogEngine(t *testing.T) {
	t.Run("Nil Catalog", func(t *testing.T) {
		engine := NewCatalogEngine(nil)

		if _, err := engine.Refresh(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if _, err := engine.Upload(context.Background(), nil, "x.mp3", ""); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if _, err := engine.BulkUpload(context.Background(), nil, []string{"x.mp3"}, BulkUploadOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		catalog := &tu.MockCatalog{Songs: []models.Song{{ID: "a", Name: "Song A"}, {ID: "b", Name: "Song B"}}}
		engine := NewCatalogEngine(catalog)
		prog := make(chan ProgressUpdate, 10)

		songs, err := engine.Refresh(context.Background(), prog)
		if err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}
		if len(songs) != 2 || songs[0].ID != "a" {
			t.Errorf("expected songs in catalog order, got %v", songs)
		}

		updates := drain(prog)
		if len(updates) != 2 {
			t.Fatalf("expected 2 progress updates, got %d", len(updates))
		}
		if updates[1].Message != "Found 2 songs" || updates[1].Data == nil {
			t.Errorf("unexpected final update %+v", updates[1])
		}
	})

	t.Run("Refresh Error", func(t *testing.T) {
		engine := NewCatalogEngine(&tu.MockCatalog{ListErr: shared.ErrNetworkFailure})
		if _, err := engine.Refresh(context.Background(), nil); !errors.Is(err, shared.ErrNetworkFailure) {
			t.Errorf("expected ErrNetworkFailure, got %v", err)
		}
	})

	t.Run("Upload Defaults To Base Name", func(t *testing.T) {
		catalog := &tu.MockCatalog{}
		engine := NewCatalogEngine(catalog)
		paths := writeFiles(t, "track.mp3")

		songs, err := engine.Upload(context.Background(), nil, paths[0], "")
		if err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if got := catalog.UploadedNames(); !slices.Equal(got, []string{"track.mp3"}) {
			t.Errorf("expected upload named track.mp3, got %v", got)
		}
		if len(songs) != 1 || catalog.ListCalls != 1 {
			t.Errorf("expected a re-fetch after upload, got %d songs and %d calls", len(songs), catalog.ListCalls)
		}
	})

	t.Run("Upload With Name", func(t *testing.T) {
		catalog := &tu.MockCatalog{}
		paths := writeFiles(t, "track.mp3")

		if _, err := NewCatalogEngine(catalog).Upload(context.Background(), nil, paths[0], "My Song"); err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if got := catalog.UploadedNames(); !slices.Equal(got, []string{"My Song"}) {
			t.Errorf("expected upload named My Song, got %v", got)
		}
	})

	t.Run("Upload Lands But Refresh Fails", func(t *testing.T) {
		catalog := &tu.MockCatalog{ListErr: shared.ErrServiceUnavailable}
		paths := writeFiles(t, "track.mp3")

		_, err := NewCatalogEngine(catalog).Upload(context.Background(), nil, paths[0], "")
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Errorf("expected ErrRefreshFailed, got %v", err)
		}
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected the refresh cause to be kept, got %v", err)
		}
		if got := catalog.UploadedNames(); len(got) != 1 {
			t.Errorf("expected the upload to have landed, got %v", got)
		}
	})

	t.Run("Upload Failure Skips Refresh", func(t *testing.T) {
		catalog := &tu.MockCatalog{UploadErr: shared.ErrNetworkFailure}
		paths := writeFiles(t, "track.mp3")
		prog := make(chan ProgressUpdate, 10)

		_, err := NewCatalogEngine(catalog).Upload(context.Background(), prog, paths[0], "")
		if !errors.Is(err, shared.ErrNetworkFailure) {
			t.Errorf("expected ErrNetworkFailure, got %v", err)
		}
		if catalog.ListCalls != 0 {
			t.Error("expected no re-fetch after a failed upload")
		}
		updates := drain(prog)
		if len(updates) != 1 || !strings.Contains(updates[0].Message, "✗") {
			t.Errorf("expected a failure update, got %+v", updates)
		}
	})

	t.Run("Upload Missing File", func(t *testing.T) {
		_, err := NewCatalogEngine(&tu.MockCatalog{}).Upload(context.Background(), nil, filepath.Join(t.TempDir(), "nope.mp3"), "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Upload Directory", func(t *testing.T) {
		_, err := NewCatalogEngine(&tu.MockCatalog{}).Upload(context.Background(), nil, t.TempDir(), "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestBulkUpload(t *testing.T) {
	t.Run("All Succeed", func(t *testing.T) {
		catalog := &tu.MockCatalog{}
		paths := writeFiles(t, "a.mp3", "b.mp3", "c.mp3", "d.mp3")
		prog := make(chan ProgressUpdate, 20)

		result, err := NewCatalogEngine(catalog).BulkUpload(context.Background(), prog, paths, BulkUploadOpts{NumWorkers: 2, RateLimit: 1000})
		if err != nil {
			t.Fatalf("BulkUpload failed: %v", err)
		}

		if result.Total != 4 || result.Successful != 4 || result.Failed != 0 {
			t.Errorf("unexpected counts %+v", result)
		}
		for i, res := range result.Results {
			if res.Path != paths[i] {
				t.Errorf("expected results in request order, got %s at %d", res.Path, i)
			}
		}
		if len(result.Songs) != 4 {
			t.Errorf("expected refreshed catalog with 4 songs, got %d", len(result.Songs))
		}
		if catalog.ListCalls != 1 {
			t.Errorf("expected exactly one re-fetch, got %d", catalog.ListCalls)
		}

		updates := drain(prog)
		if updates[0].Phase != UploadSongs || updates[len(updates)-1].Phase != RefreshCatalog {
			t.Errorf("expected upload then refresh phases, got %v ... %v", updates[0].Phase, updates[len(updates)-1].Phase)
		}
	})

	t.Run("Partial Failure", func(t *testing.T) {
		catalog := &tu.MockCatalog{FailUploads: map[string]bool{"b.mp3": true}}
		paths := writeFiles(t, "a.mp3", "b.mp3", "c.mp3")
		paths = append(paths, filepath.Join(filepath.Dir(paths[0]), "missing.mp3"))

		result, err := NewCatalogEngine(catalog).BulkUpload(context.Background(), nil, paths, BulkUploadOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("BulkUpload failed: %v", err)
		}

		if result.Successful != 2 || result.Failed != 2 {
			t.Errorf("expected 2 successes and 2 failures, got %d and %d", result.Successful, result.Failed)
		}
		if got := result.FailedPaths(); !slices.Equal(got, []string{paths[1], paths[3]}) {
			t.Errorf("unexpected failed paths %v", got)
		}
		if result.Results[1].Error == nil {
			t.Error("expected error recorded for b.mp3")
		}
		if len(result.Songs) != 2 {
			t.Errorf("expected refreshed catalog with 2 songs, got %d", len(result.Songs))
		}
	})

	t.Run("All Fail Skips Refresh", func(t *testing.T) {
		catalog := &tu.MockCatalog{UploadErr: errors.New("server down")}
		paths := writeFiles(t, "a.mp3", "b.mp3")

		result, err := NewCatalogEngine(catalog).BulkUpload(context.Background(), nil, paths, BulkUploadOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("BulkUpload failed: %v", err)
		}
		if result.Failed != 2 || result.Songs != nil || catalog.ListCalls != 0 {
			t.Errorf("expected no refresh after total failure, got %+v", result)
		}
	})

	t.Run("Refresh Failure Is Reported", func(t *testing.T) {
		catalog := &tu.MockCatalog{ListErr: shared.ErrNetworkFailure}
		paths := writeFiles(t, "a.mp3")

		result, err := NewCatalogEngine(catalog).BulkUpload(context.Background(), nil, paths, BulkUploadOpts{})
		if err != nil {
			t.Fatalf("BulkUpload failed: %v", err)
		}
		if !errors.Is(result.RefreshError, shared.ErrNetworkFailure) {
			t.Errorf("expected refresh error, got %v", result.RefreshError)
		}
	})

	t.Run("No Paths", func(t *testing.T) {
		_, err := NewCatalogEngine(&tu.MockCatalog{}).BulkUpload(context.Background(), nil, nil, BulkUploadOpts{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		catalog := &tu.MockCatalog{}
		paths := writeFiles(t, "a.mp3", "b.mp3", "c.mp3")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := NewCatalogEngine(catalog).BulkUpload(ctx, nil, paths, BulkUploadOpts{})
		if err != nil {
			t.Fatalf("BulkUpload failed: %v", err)
		}
		if result.Successful != 0 || result.Failed != 3 {
			t.Errorf("expected every file to be reported failed, got %d/%d", result.Successful, result.Failed)
		}
		for _, res := range result.Results {
			if !errors.Is(res.Error, context.Canceled) {
				t.Errorf("expected context.Canceled for %s, got %v", res.Path, res.Error)
			}
		}
	})

	t.Run("Non Blocking Progress", func(t *testing.T) {
		paths := writeFiles(t, "a.mp3", "b.mp3", "c.mp3")
		prog := make(chan ProgressUpdate)

		if _, err := NewCatalogEngine(&tu.MockCatalog{}).BulkUpload(context.Background(), prog, paths, BulkUploadOpts{RateLimit: 1000}); err != nil {
			t.Fatalf("BulkUpload failed: %v", err)
		}
	})
}
