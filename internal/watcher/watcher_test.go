package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() {
			callCount.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() {
		called.Store(true)
	})
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func writeTaxonomy(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "taxonomy.json")
	writeTaxonomy(t, tmpFile, `{"tree":{}}`)

	var changed atomic.Bool
	w, err := New(tmpFile,
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	writeTaxonomy(t, tmpFile, `{"tree":{"data":{"term":"root"}}}`)

	if !waitFor(t, changed.Load) {
		t.Error("expected change to be detected")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	tmpFile := filepath.Join(dir, "taxonomy.json")
	writeTaxonomy(t, tmpFile, `{}`)

	var changed atomic.Bool
	w, err := New(tmpFile,
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeTaxonomy(t, filepath.Join(dir, "preferences.db"), "x")
	time.Sleep(200 * time.Millisecond)

	if changed.Load() {
		t.Error("changes to other files in the directory should be ignored")
	}
}

func TestWatcher_PollingFallback(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "taxonomy.json")
	writeTaxonomy(t, tmpFile, "initial")

	var changed atomic.Bool
	w, err := New(tmpFile,
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(100*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	writeTaxonomy(t, tmpFile, "modified content")

	if !waitFor(t, changed.Load) {
		t.Error("expected change to be detected in polling mode")
	}
}

func TestWatcher_ReportsRemoval(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "taxonomy.json")
	writeTaxonomy(t, tmpFile, "initial")

	var removed atomic.Bool
	w, err := New(tmpFile,
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			if errors.Is(err, ErrFileRemoved) {
				removed.Store(true)
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(tmpFile); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, removed.Load) {
		t.Error("expected ErrFileRemoved")
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "taxonomy.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}
