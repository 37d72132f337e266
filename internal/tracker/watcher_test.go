package tracker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"align/internal/config"
	"align/internal/snapshot"
)

func TestHandleFiltersOwnArtifacts(t *testing.T) {
	tr := testTrackerWithSettings(t, config.Settings{RefreshCooldown: 0})
	repo := makeRepo(t, map[string]string{"a.txt": "hello\n"})
	r, err := tr.Track(repo)
	if err != nil {
		t.Fatal(err)
	}
	s := &watchSession{tracker: tr, repo: r}
	docPath := filepath.Join(repo, snapshot.DocumentName)

	// events for the document and temp files never trigger a refresh
	s.handle(docPath)
	s.handle(filepath.Join(repo, ".align-123.tmp"))
	if _, err := os.Stat(docPath); !os.IsNotExist(err) {
		t.Fatal("filtered event produced a snapshot document")
	}

	// a real content event does
	s.handle(filepath.Join(repo, "a.txt"))
	if !strings.Contains(readDoc(t, repo), "- a.txt") {
		t.Error("content event did not refresh the document")
	}
}

func TestHandleCooldownGate(t *testing.T) {
	tr := testTrackerWithSettings(t, config.Settings{RefreshCooldown: 0.2})
	repo := makeRepo(t, map[string]string{"a.txt": "hello\n"})
	r, err := tr.Track(repo)
	if err != nil {
		t.Fatal(err)
	}
	s := &watchSession{tracker: tr, repo: r}

	// first event lands, the gate opens the window
	s.handle(filepath.Join(repo, "a.txt"))
	if !strings.Contains(readDoc(t, repo), "- a.txt") {
		t.Fatal("first event did not refresh")
	}

	// an event inside the window is dropped, not queued
	writeTree(t, repo, map[string]string{"b.txt": "beta\n"})
	s.handle(filepath.Join(repo, "b.txt"))
	if strings.Contains(readDoc(t, repo), "- b.txt") {
		t.Fatal("event inside the cooldown window triggered a refresh")
	}

	// after the window the next event lands
	time.Sleep(250 * time.Millisecond)
	s.handle(filepath.Join(repo, "b.txt"))
	if !strings.Contains(readDoc(t, repo), "- b.txt") {
		t.Error("event after the cooldown window was dropped")
	}
}

func TestDroppedEventNotRequeued(t *testing.T) {
	tr := testTrackerWithSettings(t, config.Settings{RefreshCooldown: 0.2})
	repo := makeRepo(t, map[string]string{"a.txt": "hello\n"})
	r, err := tr.Track(repo)
	if err != nil {
		t.Fatal(err)
	}
	s := &watchSession{tracker: tr, repo: r}

	s.handle(filepath.Join(repo, "a.txt"))
	writeTree(t, repo, map[string]string{"b.txt": "beta\n"})
	s.handle(filepath.Join(repo, "b.txt"))

	// the dropped event must not fire later on its own
	time.Sleep(250 * time.Millisecond)
	if strings.Contains(readDoc(t, repo), "- b.txt") {
		t.Error("dropped event resurfaced after the window")
	}

	// a rejected event must not move the gate timestamp either:
	// two back-to-back rejected probes then one accepted event
	if s.repo.acceptEvent(tr.settings.Cooldown()) != true {
		t.Fatal("gate should accept after the window")
	}
	if s.repo.acceptEvent(tr.settings.Cooldown()) {
		t.Error("gate accepted twice inside one window")
	}
}

func TestUnwatchUnknownPath(t *testing.T) {
	tr := testTracker(t)
	// must neither panic nor block
	tr.Unwatch(filepath.Join(t.TempDir(), "never-watched"))
}

func TestWatchRefreshesOnChange(t *testing.T) {
	tr := testTrackerWithSettings(t, config.Settings{RefreshCooldown: 0})
	repo := makeRepo(t, map[string]string{"a.txt": "hello\n"})

	if err := tr.Watch(repo); err != nil {
		t.Skipf("filesystem watch unavailable here: %v", err)
	}

	writeTree(t, repo, map[string]string{"fresh.txt": "new\n"})

	deadline := time.Now().Add(5 * time.Second)
	for {
		data, err := os.ReadFile(filepath.Join(repo, snapshot.DocumentName))
		if err == nil && strings.Contains(string(data), "- fresh.txt") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watched change did not refresh the document in time")
		}
		time.Sleep(50 * time.Millisecond)
	}

	// after Unwatch the loop is joined; later changes stay unseen
	tr.Unwatch(repo)
	writeTree(t, repo, map[string]string{"late.txt": "late\n"})
	time.Sleep(300 * time.Millisecond)
	if strings.Contains(readDoc(t, repo), "- late.txt") {
		t.Error("change after Unwatch still refreshed the document")
	}
}
