package models

import "strings"

// Song is one catalog entry as returned by GET /songs.
type Song struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// ResolveURL returns the playable address for the song.
//
// An explicit URL wins; otherwise the address is derived as {mediaBase}/{ID}.
func (s Song) ResolveURL(mediaBase string) string {
	if s.URL != "" {
		return s.URL
	}
	return strings.TrimRight(mediaBase, "/") + "/" + s.ID
}

// Title returns the display name, falling back to the ID.
func (s Song) Title() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
