package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HeaderSchemaVersion tracks the schema version for capture header documents.
const HeaderSchemaVersion = 1

// Header describes the metadata persisted alongside a capture's event log:
// which file fgtail was watching and when the capture began, so a later
// offline replay through internal/parser can be matched back to its source.
type Header struct {
	SchemaVersion int    `json:"schema_version"`
	WatchedDir    string `json:"watched_dir"`
	WatchedFile   string `json:"watched_file"`
	StartedAt     string `json:"started_at"`
	EventsPath    string `json:"events_path"`
}

// Validate ensures the header carries enough information for later tooling
// to locate and interpret the capture.
func (h Header) Validate() error {
	if h.SchemaVersion <= 0 {
		return fmt.Errorf("schema_version must be positive")
	}
	if strings.TrimSpace(h.EventsPath) == "" {
		return fmt.Errorf("events_path must not be empty")
	}
	return nil
}

// WriteHeader persists the supplied header to path.
func WriteHeader(path string, header Header) error {
	if err := header.Validate(); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(payload, '\n'), 0o644)
}

// ReadHeader loads and decodes a capture header from disk.
func ReadHeader(path string) (Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Header{}, err
	}
	var header Header
	if err := json.Unmarshal(data, &header); err != nil {
		return Header{}, err
	}
	if err := header.Validate(); err != nil {
		return Header{}, err
	}
	return header, nil
}
