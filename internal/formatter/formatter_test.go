package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/saregama/internal/models"
)

const mediaBase = "https://media.example.com/"

func testSongs() []models.Song {
	return []models.Song{
		{ID: "a1", Name: "Raga Yaman"},
		{ID: "b2", Name: "Bhairavi [live]", URL: "https://cdn.example.com/b2.mp3"},
		{ID: "c3"},
	}
}

func TestExportToCSV(t *testing.T) {
	t.Run("Writes Header And Rows", func(t *testing.T) {
		data, err := ExportToCSV(testSongs(), mediaBase)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}
		if len(rows) != 4 {
			t.Fatalf("expected 4 rows, got %d", len(rows))
		}

		want := [][]string{
			{"Index", "ID", "Name", "URL"},
			{"1", "a1", "Raga Yaman", "https://media.example.com/a1"},
			{"2", "b2", "Bhairavi [live]", "https://cdn.example.com/b2.mp3"},
			{"3", "c3", "c3", "https://media.example.com/c3"},
		}
		for i := range want {
			if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
				t.Errorf("row %d: expected %v, got %v", i, want[i], rows[i])
			}
		}
	})

	t.Run("Empty List", func(t *testing.T) {
		data, err := ExportToCSV(nil, mediaBase)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != "Index,ID,Name,URL" {
			t.Errorf("expected header only, got %q", data)
		}
	})
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(testSongs(), mediaBase)
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 songs, got %d", len(got))
	}
	if got[0]["_id"] != "a1" || got[0]["url"] != "https://media.example.com/a1" {
		t.Errorf("expected resolved URL, got %v", got[0])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(testSongs(), mediaBase, "")
	if err != nil {
		t.Fatalf("ExportToMarkdown failed: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# Songs\n",
		"**Songs**: 3",
		"1. [Raga Yaman](https://media.example.com/a1)",
		`2. [Bhairavi \[live\]](https://cdn.example.com/b2.mp3)`,
		"3. [c3](https://media.example.com/c3)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}

	titled, _ := ExportToMarkdown(nil, mediaBase, "Library")
	if !strings.HasPrefix(string(titled), "# Library\n") {
		t.Errorf("expected custom title, got %q", titled)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(testSongs())
	if err != nil {
		t.Fatalf("ExportToText failed: %v", err)
	}

	want := "Songs: 3\n\n1. Raga Yaman\n2. Bhairavi [live]\n3. c3\n"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, data)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, testSongs(), mediaBase, 0)
	out := buf.String()

	for _, want := range []string{"Raga Yaman", "a1", "https://media.example.com/a1", "3 songs"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestExport(t *testing.T) {
	t.Run("Known Formats", func(t *testing.T) {
		for _, format := range append(Formats, "md", "txt") {
			data, err := Export(testSongs(), mediaBase, format)
			if err != nil {
				t.Errorf("%s: unexpected error %v", format, err)
			}
			if len(data) == 0 {
				t.Errorf("%s: expected output", format)
			}
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := Export(testSongs(), mediaBase, "yaml"); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Writes File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.csv")
		if err := WriteExport(testSongs(), mediaBase, FormatCSV, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.HasPrefix(string(data), "Index,ID,Name,URL") {
			t.Errorf("unexpected file contents %q", data)
		}
	})

	t.Run("Bad Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "songs.csv")
		if err := WriteExport(testSongs(), mediaBase, FormatText, path); err == nil {
			t.Error("expected write error")
		}
	})
}
