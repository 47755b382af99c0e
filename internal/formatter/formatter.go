// package formatter renders catalog song lists to various formats (table, JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/saregama/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Supported output formats.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Formats lists every supported format, in help-text order.
var Formats = []string{FormatTable, FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ErrUnknownFormat is returned for formats outside [Formats].
var ErrUnknownFormat = fmt.Errorf("unknown format (expected one of %s)", strings.Join(Formats, ", "))

// songRecord is the exported shape of a song with its resolved URL.
type songRecord struct {
	Index int    `json:"index"`
	ID    string `json:"_id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

func records(songs []models.Song, mediaBase string) []songRecord {
	out := make([]songRecord, len(songs))
	for i, s := range songs {
		out[i] = songRecord{Index: i + 1, ID: s.ID, Name: s.Title(), URL: s.ResolveURL(mediaBase)}
	}
	return out
}

// ExportToCSV converts a song list to CSV format with columns: Index, ID, Name, URL
func ExportToCSV(songs []models.Song, mediaBase string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "ID", "Name", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records(songs, mediaBase) {
		record := []string{strconv.Itoa(r.Index), r.ID, r.Name, r.URL}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a song list to an indented JSON array with resolved URLs
func ExportToJSON(songs []models.Song, mediaBase string) ([]byte, error) {
	data, err := json.MarshalIndent(records(songs, mediaBase), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal songs: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToMarkdown converts a song list to a Markdown document with linked titles
func ExportToMarkdown(songs []models.Song, mediaBase, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Songs"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	for _, r := range records(songs, mediaBase) {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)\n", r.Index, escapeMarkdown(r.Name), r.URL))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a song list to plain text format
func ExportToText(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))
	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, song.Title()))
	}

	return buf.Bytes(), nil
}

// RenderTable writes a song list as a terminal table. A positive width caps row length.
func RenderTable(w io.Writer, songs []models.Song, mediaBase string, width int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if width > 0 {
		t.SetAllowedRowLength(width)
	}

	t.AppendHeader(table.Row{"#", "Name", "ID", "URL"})
	for _, r := range records(songs, mediaBase) {
		t.AppendRow(table.Row{r.Index, text.Bold.Sprint(r.Name), r.ID, text.FgHiBlack.Sprint(r.URL)})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d songs", len(songs))})

	t.Render()
}

// Export renders songs in the named format.
func Export(songs []models.Song, mediaBase, format string) ([]byte, error) {
	switch format {
	case FormatTable:
		var buf bytes.Buffer
		RenderTable(&buf, songs, mediaBase, 0)
		return buf.Bytes(), nil
	case FormatJSON:
		return ExportToJSON(songs, mediaBase)
	case FormatCSV:
		return ExportToCSV(songs, mediaBase)
	case FormatMarkdown, "md":
		return ExportToMarkdown(songs, mediaBase, "")
	case FormatText, "txt":
		return ExportToText(songs)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteExport renders songs in the named format and writes them to path.
func WriteExport(songs []models.Song, mediaBase, format, path string) error {
	data, err := Export(songs, mediaBase, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s export: %w", format, err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
