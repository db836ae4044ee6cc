// Package prefs implements the user's preferred-organism state on top of a
// preference store and the loaded taxonomy.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pstuifzand/myorganisms/internal/storage"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// ErrEmptySelection is returned when saving a list without any organism
// that exists in the taxonomy.
var ErrEmptySelection = errors.New("please select at least one organism")

// Service holds the preferred organisms, the enabled flag and the set of
// organisms known at the last save.
type Service struct {
	store storage.PreferenceStore

	mu     sync.RWMutex
	doc    *taxonomy.Document
	prefs  *storage.Preferences
	filter taxonomy.PreviewMemo

	group singleflight.Group

	// writeMu serializes writers so the enabled flag and the lists are
	// read and stored as one step.
	writeMu sync.Mutex

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int

	now func() time.Time
}

// NewService creates a service. Load must be called before the preference
// getters return anything.
func NewService(store storage.PreferenceStore, doc *taxonomy.Document) *Service {
	return &Service{
		store: store,
		doc:   doc,
		subs:  make(map[int]func()),
		now:   time.Now,
	}
}

// Load reads stored preferences. On first run every available organism is
// preferred, all of them are known and filtering is disabled; that state is
// persisted right away.
func (s *Service) Load(ctx context.Context) error {
	s.writeMu.Lock()
	err := s.load(ctx)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Service) load(ctx context.Context) error {
	p, err := s.store.Load(ctx)
	if errors.Is(err, storage.ErrNoPreferences) {
		available, aerr := s.AvailableOrganisms(ctx)
		if aerr != nil {
			return aerr
		}
		p = &storage.Preferences{
			Organisms: available,
			Known:     available,
			Enabled:   false,
			SavedAt:   s.now(),
		}
		if err := s.store.Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save initial preferences: %w", err)
		}
		log.Printf("Initialized preferences with %d organisms", len(available))
	} else if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	s.mu.Lock()
	s.prefs = p
	s.mu.Unlock()
	return nil
}

// Loaded reports whether preferences have been read
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs != nil
}

// PreferredOrganisms returns a copy of the preferred organism list
func (s *Service) PreferredOrganisms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prefs == nil {
		return nil
	}
	return append([]string(nil), s.prefs.Organisms...)
}

// Enabled reports whether site-wide filtering is on
func (s *Service) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs != nil && s.prefs.Enabled
}

// SetEnabled turns filtering on or off
func (s *Service) SetEnabled(ctx context.Context, enabled bool) error {
	s.writeMu.Lock()
	err := s.setEnabled(ctx, enabled)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Toggle flips the enabled flag
func (s *Service) Toggle(ctx context.Context) error {
	s.writeMu.Lock()
	err := s.setEnabled(ctx, !s.Enabled())
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// setEnabled must be called with writeMu held
func (s *Service) setEnabled(ctx context.Context, enabled bool) error {
	if err := s.store.SetEnabled(ctx, enabled); err != nil {
		return fmt.Errorf("failed to store enabled flag: %w", err)
	}
	s.mu.Lock()
	if s.prefs == nil {
		s.prefs = &storage.Preferences{}
	}
	s.prefs.Enabled = enabled
	s.mu.Unlock()
	return nil
}

// Save stores a new preferred organism list. Ids missing from the taxonomy
// are dropped and every currently available organism becomes known, which
// clears the new-organism banner.
func (s *Service) Save(ctx context.Context, organisms []string) error {
	s.writeMu.Lock()
	n, err := s.commit(ctx, organisms, false)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	log.Printf("Saved %d preferred organisms", n)
	s.notify()
	return nil
}

// Dismiss acknowledges the new organisms: every available organism becomes
// known and the preferred list is saved as it is. Unlike Save it succeeds
// when none of the preferred organisms is left in the taxonomy; the stored
// list is then kept unchanged.
func (s *Service) Dismiss(ctx context.Context) error {
	s.writeMu.Lock()
	n, err := s.commit(ctx, s.PreferredOrganisms(), true)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	log.Printf("Dismissed new organisms, %d preferred", n)
	s.notify()
	return nil
}

// commit writes a new preference row. It must be called with writeMu held,
// so the enabled flag it copies is the one being stored.
func (s *Service) commit(ctx context.Context, organisms []string, keepInvalid bool) (int, error) {
	available, err := s.AvailableOrganisms(ctx)
	if err != nil {
		return 0, err
	}
	valid := make(map[string]struct{}, len(available))
	for _, id := range available {
		valid[id] = struct{}{}
	}

	kept := make([]string, 0, len(organisms))
	seen := make(map[string]struct{}, len(organisms))
	for _, id := range organisms {
		if _, ok := valid[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, id)
	}
	if len(kept) == 0 {
		if !keepInvalid {
			return 0, ErrEmptySelection
		}
		kept = append(kept, organisms...)
	}

	p := &storage.Preferences{
		Organisms: kept,
		Known:     available,
		Enabled:   s.Enabled(),
		SavedAt:   s.now(),
	}
	if err := s.store.Save(ctx, p); err != nil {
		return 0, fmt.Errorf("failed to save preferences: %w", err)
	}

	s.mu.Lock()
	s.prefs = p
	s.mu.Unlock()
	return len(kept), nil
}

// AvailableOrganisms returns every organism (leaf) of the taxonomy.
// Concurrent callers share a single computation.
func (s *Service) AvailableOrganisms(ctx context.Context) ([]string, error) {
	doc := s.Taxonomy()
	if doc == nil || doc.Tree == nil {
		return nil, taxonomy.ErrEmptyTaxonomy
	}

	key := fmt.Sprintf("available-%p", doc.Tree)
	ch := s.group.DoChan(key, func() (any, error) {
		return taxonomy.Leaves(doc.Tree), nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		leaves := res.Val.([]string)
		return append([]string(nil), leaves...), nil
	}
}

// NewOrganisms returns the available organisms that were not known at the
// time of the last save, in taxonomy order.
func (s *Service) NewOrganisms(ctx context.Context) ([]string, error) {
	available, err := s.AvailableOrganisms(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	known := make(map[string]struct{})
	if s.prefs != nil {
		for _, id := range s.prefs.Known {
			known[id] = struct{}{}
		}
	}
	loaded := s.prefs != nil
	s.mu.RUnlock()

	if !loaded {
		return nil, nil
	}

	var fresh []string
	for _, id := range available {
		if _, ok := known[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	return fresh, nil
}

// Summary is a snapshot of the preference state
type Summary struct {
	Preferred    int
	Available    int
	NewOrganisms int
	Enabled      bool
}

// Summary collects the counts shown next to the preferences link
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	available, err := s.AvailableOrganisms(ctx)
	if err != nil {
		return Summary{}, err
	}
	fresh, err := s.NewOrganisms(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Preferred:    len(s.PreferredOrganisms()),
		Available:    len(available),
		NewOrganisms: len(fresh),
		Enabled:      s.Enabled(),
	}, nil
}

// DisplayName is the name of the project the taxonomy belongs to
func (s *Service) DisplayName() string {
	doc := s.Taxonomy()
	if doc == nil {
		return ""
	}
	if doc.DisplayName != "" {
		return doc.DisplayName
	}
	return doc.ProjectID
}

// ProjectID returns the project identifier of the taxonomy
func (s *Service) ProjectID() string {
	doc := s.Taxonomy()
	if doc == nil {
		return ""
	}
	return doc.ProjectID
}

// Taxonomy returns the current taxonomy document
func (s *Service) Taxonomy() *taxonomy.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// SetTaxonomy replaces the taxonomy, for example after the file changed on
// disk. The preferences are left as they are; organisms that disappeared
// are dropped on the next save.
func (s *Service) SetTaxonomy(doc *taxonomy.Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	s.notify()
}

// Filter returns the tree as the rest of the application should see it:
// restricted to the preferred organisms when filtering is enabled, the
// full tree otherwise.
func (s *Service) Filter(tree *taxonomy.Node) *taxonomy.Node {
	if tree == nil || !s.Enabled() {
		return tree
	}
	organisms := s.PreferredOrganisms()
	if len(organisms) == 0 {
		return tree
	}
	return s.filter.Get(tree, organisms)
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (s *Service) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
