package ui

import (
	"log"

	"github.com/pstuifzand/myorganisms/internal/history"
)

// History lets an input walk back and forth through previous entries
type History struct {
	entries        []string
	currentIndex   int // -1 when not navigating
	maxEntries     int
	temporaryInput string // input before navigation started
	manager        *history.Manager
	filename       string
}

// NewHistory creates a new in-memory History
func NewHistory(maxEntries int) *History {
	return &History{currentIndex: -1, maxEntries: maxEntries}
}

// NewHistoryWithManager creates a History backed by a history file. A
// failed load leaves the history empty.
func NewHistoryWithManager(maxEntries int, manager *history.Manager, filename string) *History {
	h := NewHistory(maxEntries)
	if manager == nil {
		return h
	}
	h.manager = manager
	h.filename = filename

	entries, err := manager.Load(filename)
	if err != nil {
		log.Printf("Failed to load %s: %v", filename, err)
		return h
	}
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	h.entries = entries
	return h
}

// Add records an entry, moving an earlier duplicate to the end, and saves
// the history when it is backed by a file.
func (h *History) Add(entry string) {
	if entry == "" {
		return
	}
	h.entries = history.Append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
	h.Reset()

	if h.manager != nil {
		if err := h.manager.Save(h.filename, h.entries); err != nil {
			log.Printf("Failed to save %s: %v", h.filename, err)
		}
	}
}

// Previous returns the previous entry in history
func (h *History) Previous() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.currentIndex < 0 {
		h.currentIndex = len(h.entries) - 1
	} else if h.currentIndex > 0 {
		h.currentIndex--
	}
	return h.entries[h.currentIndex], true
}

// Next returns the next entry, or the input saved by SetTemporary when
// moving past the newest entry.
func (h *History) Next() (string, bool) {
	if h.currentIndex < 0 {
		return "", false
	}
	h.currentIndex++
	if h.currentIndex >= len(h.entries) {
		temp := h.temporaryInput
		h.Reset()
		return temp, true
	}
	return h.entries[h.currentIndex], true
}

// Reset stops navigating
func (h *History) Reset() {
	h.currentIndex = -1
	h.temporaryInput = ""
}

// SetTemporary stores the current input before navigating history
func (h *History) SetTemporary(input string) {
	h.temporaryInput = input
}

// IsNavigating returns true if currently navigating through history
func (h *History) IsNavigating() bool {
	return h.currentIndex >= 0
}

// GetAll returns a copy of all history entries
func (h *History) GetAll() []string {
	return append([]string(nil), h.entries...)
}

// navigate handles Up/Down for an input backed by h
func (h *History) navigate(in *lineInput, up bool) {
	if up {
		if !h.IsNavigating() {
			h.SetTemporary(in.input)
		}
		if prev, ok := h.Previous(); ok {
			in.set(prev)
		}
		return
	}
	if next, ok := h.Next(); ok {
		in.set(next)
	}
}
