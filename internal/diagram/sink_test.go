package diagram

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skillsenselab/voiceboard/internal/logger"
)

func newTestSink(t *testing.T) *Sink {
	t.Helper()
	path := filepath.Join(t.TempDir(), "public", "actions.json")
	sink, err := NewSink(path, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("NewSink() error: %v", err)
	}
	return sink
}

func TestSinkWrite(t *testing.T) {
	sink := newTestSink(t)

	batch := NewActionBatch("create a users database", []Action{
		{Type: ActionCreateNode, ID: "Users", NodeType: NodeDatabase},
	})
	if err := sink.Write(batch); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(sink.Path())
	if err != nil {
		t.Fatalf("read sink file: %v", err)
	}

	var got ActionBatch
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("sink file is not valid JSON: %v", err)
	}
	if got.Message != "create a users database" {
		t.Errorf("message = %q", got.Message)
	}
	if len(got.Actions) != 1 || got.Actions[0].NodeType != NodeDatabase {
		t.Errorf("actions = %+v", got.Actions)
	}
	if got.ID == 0 {
		t.Error("batch id was not stamped")
	}
}

func TestSinkWrite_Overwrites(t *testing.T) {
	sink := newTestSink(t)

	if err := sink.Write(NewActionBatch("first", nil)); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if err := sink.Write(NewActionBatch("second", nil)); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, _ := os.ReadFile(sink.Path())
	var got ActionBatch
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("sink file is not valid JSON: %v", err)
	}
	if got.Message != "second" {
		t.Errorf("message = %q, want last write to win", got.Message)
	}
}

func TestSinkWrite_MessageOnlyOmitsActionsKey(t *testing.T) {
	sink := newTestSink(t)

	if err := sink.Write(NewActionBatch("transcript only", nil)); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, _ := os.ReadFile(sink.Path())
	if strings.Contains(string(data), `"actions"`) {
		t.Errorf("message-only record must omit the actions key, got: %s", data)
	}
}

func TestSinkWrite_LeavesNoTempFiles(t *testing.T) {
	sink := newTestSink(t)

	if err := sink.Write(NewActionBatch("tidy", nil)); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(sink.Path()))
	if err != nil {
		t.Fatalf("read sink dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "actions.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("sink dir contents = %v, want only actions.json", names)
	}
}
