package history

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	entries, err := m.Load(SearchFile)
	if err != nil || len(entries) != 0 {
		t.Fatalf("Expected empty history, got %v (%v)", entries, err)
	}

	if err := m.Save(SearchFile, []string{"vivax", "~falcip"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	entries, err = m.Load(SearchFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 2 || entries[1] != "~falcip" {
		t.Errorf("Unexpected entries: %v", entries)
	}
}

func TestManagerKeepsNewest(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m.limit = 2

	if err := m.Save(CommandFile, []string{"save", "reset", "toggle"}); err != nil {
		t.Fatal(err)
	}
	entries, _ := m.Load(CommandFile)
	if len(entries) != 2 || entries[0] != "reset" || entries[1] != "toggle" {
		t.Errorf("Expected [reset toggle], got %v", entries)
	}
}

func TestManagerCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "history", SearchFile), []byte("entries = ["), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := m.Load(SearchFile)
	if err != nil || len(entries) != 0 {
		t.Errorf("Corrupted file should load as empty, got %v (%v)", entries, err)
	}
}

func TestAppend(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		entry   string
		want    []string
	}{
		{"new entry", []string{"a"}, "b", []string{"a", "b"}},
		{"moves duplicate", []string{"a", "b", "c"}, "a", []string{"b", "c", "a"}},
		{"ignores empty", []string{"a"}, "", []string{"a"}},
	}
	for _, tt := range tests {
		got := Append(tt.entries, tt.entry)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
				break
			}
		}
	}
}
