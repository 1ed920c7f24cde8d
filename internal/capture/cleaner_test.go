package capture

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/ilsubyeega/fgtail/internal/logging"
)

func TestCleanerEnforcesMaxCaptures(t *testing.T) {
	tmp := t.TempDir()
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	writeCaptureDir(t, tmp, "alpha", now.Add(-3*time.Hour), 2)
	writeCaptureDir(t, tmp, "bravo", now.Add(-2*time.Hour), 2)
	writeCaptureDir(t, tmp, "charlie", now.Add(-time.Hour), 2)

	cleaner := NewCleaner(tmp, RetentionPolicy{MaxCaptures: 2}, logging.NewTestLogger())
	cleaner.now = func() time.Time { return now }
	cleaner.RunOnce()

	remaining := listCaptureDirs(t, tmp)
	if len(remaining) != 2 {
		t.Fatalf("expected 2 captures retained, got %d (%v)", len(remaining), remaining)
	}
	if remaining[0] != "bravo" || remaining[1] != "charlie" {
		t.Fatalf("unexpected retained captures: %v", remaining)
	}

	stats := cleaner.Stats()
	if stats.Captures != 2 {
		t.Fatalf("expected stats to report 2 captures, got %d", stats.Captures)
	}
	if stats.LastSweep.IsZero() {
		t.Fatalf("expected last sweep timestamp to be recorded")
	}
}

func TestCleanerPrunesByAge(t *testing.T) {
	tmp := t.TempDir()
	now := time.Date(2024, 7, 16, 9, 0, 0, 0, time.UTC)
	writeCaptureDir(t, tmp, "delta", now.Add(-48*time.Hour), 3)
	writeCaptureDir(t, tmp, "echo", now.Add(-time.Hour), 3)

	cleaner := NewCleaner(tmp, RetentionPolicy{MaxAge: 36 * time.Hour}, logging.NewTestLogger())
	cleaner.now = func() time.Time { return now }
	cleaner.RunOnce()

	remaining := listCaptureDirs(t, tmp)
	if len(remaining) != 1 || remaining[0] != "echo" {
		t.Fatalf("expected only echo to remain, got %v", remaining)
	}
}

func writeCaptureDir(t *testing.T, root, name string, mod time.Time, files int) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for i := 0; i < files; i++ {
		path := filepath.Join(dir, "events.jsonl.sz")
		if i > 0 {
			path = filepath.Join(dir, "header.json")
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
	}
	if err := os.Chtimes(dir, mod, mod); err != nil {
		t.Fatalf("Chtimes dir: %v", err)
	}
}

func listCaptureDirs(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}
