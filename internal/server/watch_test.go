package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tu "github.com/desertthunder/saregama/internal/testing"
)

func TestCatalogWatch(t *testing.T) {
	dir := t.TempDir()
	tu.MustWriteFile(t, filepath.Join(dir, "early.wav"), tu.WAV(8000, 10))

	h := NewCatalogHandler(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Watch(ctx, dir) }()

	waitFor := func(n int) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for len(h.Songs()) < n {
			if time.Now().After(deadline) {
				t.Fatalf("expected %d songs, got %v", n, h.Songs())
			}
			time.Sleep(20 * time.Millisecond)
		}
	}

	waitFor(1)
	tu.MustWriteFile(t, filepath.Join(dir, "notes.txt"), []byte("skip"))
	tu.MustWriteFile(t, filepath.Join(dir, "late.wav"), tu.WAV(8000, 10))
	waitFor(2)

	// Let any duplicate events settle before counting.
	time.Sleep(3 * settleDelay)
	songs := h.Songs()
	if len(songs) != 2 || songs[0].Name != "early" || songs[1].Name != "late" {
		t.Errorf("expected early and late once each, got %v", songs)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestCatalogWatchMissingDir(t *testing.T) {
	h := NewCatalogHandler(nil)
	if err := h.Watch(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
