package tracker

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rjeczalik/notify"

	"align/internal/events"
	"align/internal/snapshot"
	"align/internal/util"
)

const (
	eventBufferSize = 100
	stopTimeout     = 5 * time.Second
	tempSuffix      = ".tmp"
)

// watchSession is one live recursive event subscription plus its loop
// goroutine, 1:1 with a tracked repository while it is watched.
type watchSession struct {
	tracker  *Tracker
	repo     *Repo
	events   chan notify.EventInfo
	quit     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// Watch opens a recursive subscription for path and starts its session loop.
// Idempotent per repository.
func (t *Tracker) Watch(path string) error {
	r, err := t.Track(path)
	if err != nil {
		return &WatchInitError{Path: absPath(path), Err: err}
	}

	t.mu.Lock()
	if _, ok := t.sessions[r.path]; ok {
		t.mu.Unlock()
		return nil
	}
	s := &watchSession{
		tracker: t,
		repo:    r,
		events:  make(chan notify.EventInfo, eventBufferSize),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	t.sessions[r.path] = s
	t.mu.Unlock()

	if err := notify.Watch(filepath.Join(r.path, "..."), s.events, notify.All); err != nil {
		t.mu.Lock()
		delete(t.sessions, r.path)
		t.mu.Unlock()
		return &WatchInitError{Path: r.path, Err: err}
	}
	go s.loop()
	t.publish(events.EventWatchStarted, r.path)
	return nil
}

// Unwatch stops path's session and waits for its loop to exit. Safe to call
// for paths that were never watched.
func (t *Tracker) Unwatch(path string) {
	abs := absPath(path)
	t.mu.Lock()
	s := t.sessions[abs]
	delete(t.sessions, abs)
	t.mu.Unlock()
	if s == nil {
		return
	}
	s.stop()
	t.publish(events.EventWatchStopped, abs)
}

func (s *watchSession) loop() {
	defer close(s.stopped)
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			s.handle(ev.Path())
		case <-s.quit:
			return
		}
	}
}

// handle filters out the engine's own writes, applies the cooldown gate and
// runs a synchronous refresh on this session's goroutine. Events arriving
// while the gate is closed are dropped, never queued.
func (s *watchSession) handle(path string) {
	if strings.HasSuffix(path, snapshot.DocumentName) || strings.HasSuffix(path, tempSuffix) {
		return
	}
	if !s.repo.acceptEvent(s.tracker.settings.Cooldown()) {
		return
	}
	if err := s.tracker.Refresh(s.repo.path); err != nil {
		util.Default.Printf("❌ auto refresh of %s failed: %v\n", s.repo.path, err)
	}
}

func (s *watchSession) stop() {
	s.stopOnce.Do(func() {
		notify.Stop(s.events)
		close(s.quit)
		select {
		case <-s.stopped:
		case <-time.After(stopTimeout):
			util.Default.Printf("⚠️  watch loop for %s did not stop in time\n", s.repo.path)
		}
	})
}

// acceptEvent consults the cooldown gate: an event landing less than
// cooldown after the last accepted one is rejected and does not move the
// timestamp.
func (r *Repo) acceptEvent(cooldown time.Duration) bool {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	now := time.Now()
	if now.Sub(r.lastAccepted) < cooldown {
		return false
	}
	r.lastAccepted = now
	return true
}

// bumpGate re-arms the cooldown gate, so a just-finished manual refresh
// absorbs the watch events it caused itself.
func (r *Repo) bumpGate() {
	r.stateMu.Lock()
	r.lastAccepted = time.Now()
	r.stateMu.Unlock()
}
