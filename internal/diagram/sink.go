package diagram

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skillsenselab/voiceboard/internal/logger"
)

// DefaultSinkPath is the well-known file the diagramming front-end polls.
// The encoded shape is an external contract; coordinate with that consumer
// before changing it.
const DefaultSinkPath = "public/actions.json"

// Sink persists the latest ActionBatch to a shared JSON file. Overwrite
// only, last-write-wins; concurrent writers race without locking, which is
// an accepted limitation of the hand-off mechanism.
type Sink struct {
	path string
	log  *logger.Logger
}

// NewSink creates a Sink writing to path, creating the parent directory if
// needed. An empty path selects DefaultSinkPath.
func NewSink(path string, log *logger.Logger) (*Sink, error) {
	if path == "" {
		path = DefaultSinkPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sink: create directory %s: %w", dir, err)
		}
	}
	return &Sink{
		path: path,
		log:  log.WithComponent("action-sink"),
	}, nil
}

// Path returns the sink file path.
func (s *Sink) Path() string { return s.path }

// Write overwrites the sink file with the JSON encoding of batch. The write
// goes through a temp file and rename so a polling reader never observes a
// partially written file.
func (s *Sink) Write(batch ActionBatch) error {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("sink: encode batch: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".actions-*.json")
	if err != nil {
		return fmt.Errorf("sink: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sink: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sink: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sink: replace %s: %w", s.path, err)
	}

	s.log.Info("Wrote action batch", map[string]interface{}{
		"path":    s.path,
		"id":      batch.ID,
		"actions": len(batch.Actions),
	})
	return nil
}
