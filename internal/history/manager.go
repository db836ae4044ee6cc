package history

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// History files kept by the application
const (
	SearchFile  = "search.toml"
	CommandFile = "command.toml"
)

// DefaultLimit is the number of entries kept per history file
const DefaultLimit = 100

// Manager handles loading and saving history to TOML files
type Manager struct {
	historyDir string
	limit      int
}

// HistoryFile represents the structure of a history TOML file
type HistoryFile struct {
	Entries []string `toml:"entries"`
}

// NewManager creates a history manager storing files in dir/history
func NewManager(dir string) (*Manager, error) {
	historyDir := filepath.Join(dir, "history")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &Manager{historyDir: historyDir, limit: DefaultLimit}, nil
}

// Load loads history entries from a TOML file, oldest first
func (m *Manager) Load(filename string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.historyDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var histFile HistoryFile
	if err := toml.Unmarshal(data, &histFile); err != nil {
		// A corrupted history file is not worth failing over
		log.Printf("Ignoring corrupted history %s: %v", filename, err)
		return []string{}, nil
	}

	return histFile.Entries, nil
}

// Save saves history entries to a TOML file, keeping the newest entries
func (m *Manager) Save(filename string, entries []string) error {
	if len(entries) > m.limit {
		entries = entries[len(entries)-m.limit:]
	}

	data, err := toml.Marshal(HistoryFile{Entries: entries})
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(m.historyDir, filename), data, 0644)
}

// Append adds an entry to a history list, moving an existing equal entry to
// the end. Empty entries are ignored.
func Append(entries []string, entry string) []string {
	if entry == "" {
		return entries
	}
	out := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		if e != entry {
			out = append(out, e)
		}
	}
	return append(out, entry)
}
