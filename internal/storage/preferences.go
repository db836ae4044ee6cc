package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNoPreferences is returned by Load when the user never saved
var ErrNoPreferences = errors.New("no saved preferences")

// Preferences is the persisted state of a user's organism preferences
type Preferences struct {
	// Organisms is the preferred organism list, in the order it was saved
	Organisms []string
	// Known is the set of available organisms at the time of the last save.
	// Organisms available now but missing here are "new".
	Known   []string
	Enabled bool
	SavedAt time.Time
}

// PreferenceStore persists preferences
type PreferenceStore interface {
	Load(ctx context.Context) (*Preferences, error)
	Save(ctx context.Context, prefs *Preferences) error
	SetEnabled(ctx context.Context, enabled bool) error
	Close() error
}
