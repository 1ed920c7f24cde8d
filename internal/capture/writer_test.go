package capture

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/snappy"

	"github.com/ilsubyeega/fgtail/internal/events"
)

func TestWriterAppendsEventsAsCompressedJSONLines(t *testing.T) {
	tmp := t.TempDir()
	base := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return base }

	writer, err := NewWriter(tmp, "/home/player/Logs", "Player.log", clock)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	ts := base.Add(5 * time.Second)
	if err := writer.AppendEvent(events.ServerConnected{}, &ts); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := writer.AppendEvent(events.LeaveMatch{}, nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	headerBytes, err := os.ReadFile(filepath.Join(writer.Directory(), "header.json"))
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if header.WatchedFile != "Player.log" || header.WatchedDir != "/home/player/Logs" {
		t.Fatalf("unexpected header: %+v", header)
	}

	raw, err := os.ReadFile(filepath.Join(writer.Directory(), "events.jsonl.sz"))
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	reader := snappy.NewReader(bytes.NewReader(raw))
	scanner := bufio.NewScanner(reader)

	var records []record
	for scanner.Scan() {
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal record: %v", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Kind != events.KindServerConnected {
		t.Fatalf("unexpected first record kind: %q", records[0].Kind)
	}
	if records[0].Timestamp == nil {
		t.Fatalf("expected first record to carry a timestamp")
	}
	if records[1].Kind != events.KindLeaveMatch {
		t.Fatalf("unexpected second record kind: %q", records[1].Kind)
	}
	if records[1].Timestamp != nil {
		t.Fatalf("expected second record to omit timestamp")
	}
}

func TestWriterCapturesEnumFieldsNotEmptyObjects(t *testing.T) {
	tmp := t.TempDir()
	base := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return base }

	writer, err := NewWriter(tmp, "/home/player/Logs", "Player.log", clock)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	after := events.StateMatchmaking
	if err := writer.AppendEvent(events.GameStateChanged{Before: &events.StateMainMenu, After: after}, nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := writer.AppendEvent(events.SuccessfullyJoined{GameMode: events.ExtraGameMode("Fall Mountain", "fall_mountain")}, nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(writer.Directory(), "events.jsonl.sz"))
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	reader := snappy.NewReader(bytes.NewReader(raw))
	scanner := bufio.NewScanner(reader)

	var records []record
	for scanner.Scan() {
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal record: %v", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if !bytes.Contains(records[0].Event, []byte("StateMainMenu")) || !bytes.Contains(records[0].Event, []byte("StateMatchmaking")) {
		t.Fatalf("expected captured JSON to carry the real state names, not an empty object: %s", records[0].Event)
	}

	if !bytes.Contains(records[1].Event, []byte("fall_mountain")) || !bytes.Contains(records[1].Event, []byte("Fall Mountain")) {
		t.Fatalf("expected captured JSON to carry the real game mode, not an empty object: %s", records[1].Event)
	}
}
