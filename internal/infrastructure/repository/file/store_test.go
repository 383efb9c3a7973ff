package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, ok, err := s.Get(ctx, "16league_matches"); ok || err != nil {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "16league_matches", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.Get(ctx, "16league_matches")
	if err != nil || !ok || string(got) != `[{"id":1}]` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", got, ok, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "16league_matches.json" {
		t.Fatalf("temp files must not be left behind: %v", entries)
	}

	if err := s.Delete(ctx, "16league_matches"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "16league_matches"); err != nil {
		t.Fatalf("deleting a missing key must succeed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "16league_matches.json")); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
}

func TestStore_RejectsPathKeys(t *testing.T) {
	t.Parallel()

	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.Set(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
