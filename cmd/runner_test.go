package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/saregama/internal/formatter"
	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/services"
	"github.com/desertthunder/saregama/internal/shared"
	tu "github.com/desertthunder/saregama/internal/testing"
)

func newTestRunner(catalog *tu.MockCatalog) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	return NewRunner(RunnerOpts{
		Catalog: catalog,
		Logger:  shared.NewLogger(io.Discard),
		Output:  output,
	}), output
}

func testSongs() []models.Song {
	return []models.Song{
		{ID: "s1", Name: "Raga Yaman"},
		{ID: "s2", Name: "Bhairavi", URL: "https://cdn.example.com/bhairavi.mp3"},
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := &tu.MockCatalog{}
			player := &tu.FakeEngine{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    catalog,
				Player:     player,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.player != player {
				t.Error("expected player to be set")
			}
			if runner.engine == nil {
				t.Error("expected catalog engine to be created")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with nil catalog builds client from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Catalog.BaseURL = "http://localhost:9999/"

			runner := NewRunner(RunnerOpts{Config: config})

			svc, ok := runner.catalog.(*services.CatalogService)
			if !ok {
				t.Fatalf("expected *services.CatalogService, got %T", runner.catalog)
			}
			if svc.Name() != "http://localhost:9999" {
				t.Errorf("expected configured base URL, got %s", svc.Name())
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"play", "songs", "upload", "serve", "setup"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestSongs(t *testing.T) {
	ctx := context.Background()

	t.Run("JSON", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockCatalog{Songs: testSongs()})

		if err := songsCommand(runner).Run(ctx, []string{"songs", "--format", "json"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		result := output.String()
		if !strings.Contains(result, `"_id": "s1"`) {
			t.Errorf("expected song ids in JSON, got %s", result)
		}
		if !strings.Contains(result, runner.mediaBase()+"/s1") {
			t.Errorf("expected resolved media URL, got %s", result)
		}
		if !strings.Contains(result, "https://cdn.example.com/bhairavi.mp3") {
			t.Error("expected explicit URL to win")
		}
	})

	t.Run("Table By Default", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockCatalog{Songs: testSongs()})

		if err := songsCommand(runner).Run(ctx, []string{"songs"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Raga Yaman") || !strings.Contains(output.String(), "2 songs") {
			t.Errorf("expected table, got %s", output.String())
		}
	})

	t.Run("Format Alias", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockCatalog{Songs: testSongs()})

		if err := songsCommand(runner).Run(ctx, []string{"songs", "-f", "txt"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "1. Raga Yaman") {
			t.Errorf("expected text list, got %s", output.String())
		}
	})

	t.Run("Output File", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockCatalog{Songs: testSongs()})
		path := filepath.Join(t.TempDir(), "songs.csv")

		if err := songsCommand(runner).Run(ctx, []string{"songs", "--format", formatter.FormatCSV, "--output", path}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "Bhairavi") {
			t.Error("expected CSV to contain songs")
		}
		if !strings.Contains(output.String(), "Wrote 2 songs") {
			t.Errorf("expected confirmation, got %s", output.String())
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		catalog := &tu.MockCatalog{Songs: testSongs()}
		runner, _ := newTestRunner(catalog)

		err := songsCommand(runner).Run(ctx, []string{"songs", "--format", "yaml"})
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
		if catalog.ListCalls != 0 {
			t.Error("expected no catalog request")
		}
	})

	t.Run("Catalog Error", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{ListErr: shared.ErrNetworkFailure})

		err := songsCommand(runner).Run(ctx, []string{"songs"})
		if !errors.Is(err, shared.ErrNetworkFailure) {
			t.Errorf("expected ErrNetworkFailure, got %v", err)
		}
	})
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	writeFiles := func(t *testing.T, names ...string) []string {
		t.Helper()
		dir := t.TempDir()
		paths := make([]string, len(names))
		for i, name := range names {
			paths[i] = filepath.Join(dir, name)
			tu.MustWriteFile(t, paths[i], []byte("ID3"))
		}
		return paths
	}

	t.Run("Single File With Name", func(t *testing.T) {
		catalog := &tu.MockCatalog{Songs: testSongs()}
		runner, output := newTestRunner(catalog)
		paths := writeFiles(t, "take1.mp3")

		err := uploadCommand(runner).Run(ctx, []string{"upload", "--name", "Morning Raga", paths[0]})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := catalog.UploadedNames(); len(got) != 1 || got[0] != "Morning Raga" {
			t.Errorf("expected upload under custom name, got %v", got)
		}
		if !strings.Contains(output.String(), "catalog now has 3 songs") {
			t.Errorf("expected refreshed count, got %s", output.String())
		}
	})

	t.Run("Single File Refresh Fails", func(t *testing.T) {
		catalog := &tu.MockCatalog{ListErr: shared.ErrNetworkFailure}
		runner, output := newTestRunner(catalog)
		paths := writeFiles(t, "take1.mp3")

		err := uploadCommand(runner).Run(ctx, []string{"upload", paths[0]})
		if err != nil {
			t.Fatalf("expected the landed upload to succeed, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Uploaded") || !strings.Contains(output.String(), "catalog refresh failed") {
			t.Errorf("expected upload success with a refresh warning, got %s", output.String())
		}
	})

	t.Run("Several Files", func(t *testing.T) {
		catalog := &tu.MockCatalog{FailUploads: map[string]bool{"b.mp3": true}}
		runner, output := newTestRunner(catalog)
		paths := writeFiles(t, "a.mp3", "b.mp3", "c.wav")

		err := uploadCommand(runner).Run(ctx, append([]string{"upload", "--rate", "100"}, paths...))
		if err != nil {
			t.Fatalf("expected partial success, got %v", err)
		}

		result := output.String()
		for _, want := range []string{"Upload Complete!", "Uploaded: 2/3", "b.mp3", "Catalog now has 2 songs"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, result)
			}
		}
	})

	t.Run("All Failed", func(t *testing.T) {
		catalog := &tu.MockCatalog{UploadErr: shared.ErrNetworkFailure}
		runner, _ := newTestRunner(catalog)
		paths := writeFiles(t, "a.mp3", "b.mp3")

		err := uploadCommand(runner).Run(ctx, append([]string{"upload", "--rate", "100"}, paths...))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if catalog.ListCalls != 0 {
			t.Error("expected no refresh when nothing was uploaded")
		}
	})

	t.Run("Name With Several Files", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{})
		paths := writeFiles(t, "a.mp3", "b.mp3")

		err := uploadCommand(runner).Run(ctx, append([]string{"upload", "--name", "x"}, paths...))
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("No Files", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{})

		err := uploadCommand(runner).Run(ctx, []string{"upload"})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		catalog := &tu.MockCatalog{}
		runner, _ := newTestRunner(catalog)

		err := uploadCommand(runner).Run(ctx, []string{"upload", filepath.Join(t.TempDir(), "nope.mp3")})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if len(catalog.UploadedNames()) != 0 {
			t.Error("expected nothing uploaded")
		}
	})
}

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("Config", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockCatalog{})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := setupCommand(runner).Run(ctx, []string{"setup", "config", "--config", path}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "Config written to") {
			t.Errorf("expected confirmation, got %s", output.String())
		}

		output.Reset()
		if err := setupCommand(runner).Run(ctx, []string{"setup", "config", "--config", path}); err != nil {
			t.Fatalf("expected rerun to succeed, got %v", err)
		}
		if !strings.Contains(output.String(), "already present") {
			t.Errorf("expected existing config to be kept, got %s", output.String())
		}
	})

	t.Run("Check", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockCatalog{Songs: testSongs()})

		if err := setupCommand(runner).Run(ctx, []string{"setup", "check"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "has 2 songs") {
			t.Errorf("expected song count, got %s", output.String())
		}
	})

	t.Run("Check Invalid Config", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{})
		runner.config.Catalog.MediaURL = "not a url"

		err := setupCommand(runner).Run(ctx, []string{"setup", "check"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Check Unreachable Catalog", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{ListErr: shared.ErrServiceUnavailable})

		err := setupCommand(runner).Run(ctx, []string{"setup", "check"})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestServe(t *testing.T) {
	t.Run("Loads Directory And Stops With Context", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockCatalog{})
		runner.config.Server.Host = "127.0.0.1"
		runner.config.Server.Port = 0

		dir := t.TempDir()
		tu.MustWriteFile(t, filepath.Join(dir, "tone.wav"), tu.WAV(8000, 800))
		tu.MustWriteFile(t, filepath.Join(dir, "notes.txt"), []byte("skip"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := serveCommand(runner).Run(ctx, []string{"serve", "--dir", dir}); err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
		if !strings.Contains(output.String(), "Loaded 1 songs") || !strings.Contains(output.String(), "GET /health") {
			t.Errorf("expected one song loaded, got %s", output.String())
		}
	})

	t.Run("Missing Directory", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{})

		err := serveCommand(runner).Run(context.Background(), []string{"serve", "--dir", filepath.Join(t.TempDir(), "nope")})
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
	})

	t.Run("Watch Requires Directory", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{})

		err := serveCommand(runner).Run(context.Background(), []string{"serve", "--watch"})
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("Invalid Port", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{})

		err := serveCommand(runner).Run(context.Background(), []string{"serve", "--port", "70000"})
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}
