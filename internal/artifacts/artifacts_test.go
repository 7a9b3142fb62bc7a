package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveWritesFixedAndBackupFiles(t *testing.T) {
	dir := t.TempDir()

	Save(dir, "calendar_events_response", map[string]int{"events": 3})

	fixed := filepath.Join(dir, "calendar_events_response.json")
	data, err := os.ReadFile(fixed)
	if err != nil {
		t.Fatalf("fixed artifact not written: %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if decoded["events"] != 3 {
		t.Errorf("artifact content = %v", decoded)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "calendar_events_response_*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("got %d backup files, want 1: %v", len(matches), matches)
	}
}

func TestSaveOverwritesFixedFile(t *testing.T) {
	dir := t.TempDir()

	Save(dir, "new_clients", []string{"a"})
	Save(dir, "new_clients", []string{"a", "b"})

	data, err := os.ReadFile(filepath.Join(dir, "new_clients.json"))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Errorf("fixed artifact holds %v, want the latest write", names)
	}
}

func TestSaveUnmarshalableValueDoesNotPanic(t *testing.T) {
	// Channels cannot be marshaled; Save should log and return.
	Save(t.TempDir(), "bad", make(chan int))
}
