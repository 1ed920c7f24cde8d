// Package capture implements an optional, durable append-only recording of
// the committed GameEvent stream, so a tailing session can be replayed
// offline later (e.g. to test a rule change against real historical data).
package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/golang/snappy"

	"github.com/ilsubyeega/fgtail/internal/events"
)

var writerNameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// record is the on-disk shape of a single captured event line.
type record struct {
	Kind       events.Kind     `json:"kind"`
	CapturedAt string          `json:"captured_at"`
	Timestamp  *string         `json:"timestamp,omitempty"`
	Event      json.RawMessage `json:"event"`
}

// Writer streams one JSON line per committed GameEvent into a
// snappy-compressed append sink, alongside a small JSON header describing
// the capture.
type Writer struct {
	mu     sync.Mutex
	dir    string
	now    func() time.Time
	file   *os.File
	stream *snappy.Writer
}

// NewWriter prepares a capture directory named after watchedFile and the
// current time, and opens the compressed event sink plus header.
func NewWriter(root, watchedDir, watchedFile string, clock func() time.Time) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("capture root must be provided")
	}
	if clock == nil {
		clock = time.Now
	}

	cleaned := writerNameCleaner.ReplaceAllString(watchedFile, "")
	if cleaned == "" {
		cleaned = "capture"
	}
	started := clock().UTC()
	folder := fmt.Sprintf("%s-%s", cleaned, started.Format("20060102T150405Z"))
	dir := filepath.Join(root, folder)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	eventsPath := filepath.Join(dir, "events.jsonl.sz")
	headerPath := filepath.Join(dir, "header.json")

	file, err := os.Create(eventsPath)
	if err != nil {
		return nil, err
	}
	stream := snappy.NewBufferedWriter(file)

	header := Header{
		SchemaVersion: HeaderSchemaVersion,
		WatchedDir:    watchedDir,
		WatchedFile:   watchedFile,
		StartedAt:     started.Format(time.RFC3339Nano),
		EventsPath:    "events.jsonl.sz",
	}
	if err := WriteHeader(headerPath, header); err != nil {
		stream.Close()
		file.Close()
		return nil, err
	}

	return &Writer{dir: dir, now: clock, file: file, stream: stream}, nil
}

// Directory exposes the directory backing this capture.
func (w *Writer) Directory() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// AppendEvent writes a single committed event as one JSON line.
func (w *Writer) AppendEvent(event events.GameEvent, timestamp *time.Time) error {
	if w == nil {
		return fmt.Errorf("writer not initialised")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var ts *string
	if timestamp != nil {
		formatted := timestamp.Format(time.RFC3339Nano)
		ts = &formatted
	}

	rec := record{
		Kind:       event.EventKind(),
		CapturedAt: w.now().UTC().Format(time.RFC3339Nano),
		Timestamp:  ts,
		Event:      payload,
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.stream.Write(line); err != nil {
		return err
	}
	if _, err := w.stream.Write([]byte("\n")); err != nil {
		return err
	}
	return w.stream.Flush()
}

// Close flushes and closes the underlying event sink.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	if err := w.stream.Flush(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := w.stream.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := w.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
