package tracker

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"golang.org/x/sync/errgroup"

	"align/internal/config"
	"align/internal/events"
	"align/internal/history"
	"align/internal/ignore"
	"align/internal/snapshot"
	"align/internal/store"
	"align/internal/util"
)

// Repo is the in-memory record for one tracked repository. The outer mutex
// serializes whole refreshes; stateMu guards field access so status queries
// never block behind a running scan.
type Repo struct {
	path string

	mu sync.Mutex // held for the full duration of a refresh

	stateMu      sync.Mutex
	current      string
	persisted    string
	refreshing   bool
	lastSync     time.Time
	lastAccepted time.Time // cooldown gate timestamp
}

func (r *Repo) Path() string { return r.path }

// Status derives the repository state from the fingerprint pair and the
// in-flight flag. Never stored, always recomputed.
func (r *Repo) Status() Status {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	switch {
	case r.refreshing:
		return StatusUpdating
	case r.current != "" && r.current == r.persisted:
		return StatusUpToDate
	default:
		return StatusNeedsUpdate
	}
}

func (r *Repo) LastSync() time.Time {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.lastSync
}

func (r *Repo) fingerprints() (current, persisted string) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.current, r.persisted
}

func (r *Repo) setCurrent(digest string) {
	r.stateMu.Lock()
	r.current = digest
	r.stateMu.Unlock()
}

func (r *Repo) markSynced(digest string, at time.Time) {
	r.stateMu.Lock()
	r.current = digest
	r.persisted = digest
	r.lastSync = at
	r.stateMu.Unlock()
}

// Tracker owns every repository record and watch session. It is the single
// writer for fingerprints and the only component talking to the sidecar
// store. Construct one per process and Close it on shutdown.
type Tracker struct {
	settings config.Settings
	store    *store.Store
	bus      EventBus.Bus

	mu       sync.RWMutex
	repos    map[string]*Repo
	order    []string
	sessions map[string]*watchSession
}

func New(settings config.Settings, st *store.Store, bus EventBus.Bus) *Tracker {
	return &Tracker{
		settings: settings,
		store:    st,
		bus:      bus,
		repos:    make(map[string]*Repo),
		sessions: make(map[string]*watchSession),
	}
}

// Track registers path in memory, recovering the persisted fingerprint from
// the sidecar store. Idempotent: an already tracked path returns its record.
func (t *Tracker) Track(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, &NotFoundError{Path: abs}
	}

	t.mu.Lock()
	if r, ok := t.repos[abs]; ok {
		t.mu.Unlock()
		return r, nil
	}
	r := &Repo{path: abs}
	t.repos[abs] = r
	t.order = append(t.order, abs)
	t.mu.Unlock()

	docPath := filepath.Join(abs, snapshot.DocumentName)
	if record, err := t.store.Lookup(docPath); err == nil && record != nil {
		r.stateMu.Lock()
		r.persisted = record.Digest
		r.lastSync = record.SyncedAt
		r.stateMu.Unlock()
		t.checkExternalEdit(docPath, record)
	}
	return r, nil
}

// Add starts tracking path: registry entry, first refresh, then the watch
// session. A watch failure only costs automatic sync and is reported as a
// warning; the error from the initial refresh is returned.
func (t *Tracker) Add(path string) error {
	r, err := t.Track(path)
	if err != nil {
		return err
	}
	if err := config.AddRepo(r.path); err != nil {
		return err
	}
	if err := history.AddPath(r.path); err != nil {
		util.Default.Printf("⚠️  could not update history: %v\n", err)
	}
	refreshErr := t.Refresh(r.path)
	if err := t.Watch(r.path); err != nil {
		util.Default.Printf("⚠️  %v (manual refresh still works)\n", err)
	}
	return refreshErr
}

// Remove untracks path. The watch session is stopped and joined first so no
// late event can touch a discarded record. The snapshot document stays on
// disk.
func (t *Tracker) Remove(path string) error {
	abs := absPath(path)
	t.Unwatch(abs)
	t.mu.Lock()
	delete(t.repos, abs)
	for i, p := range t.order {
		if p == abs {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	t.mu.Unlock()
	return config.RemoveRepo(abs)
}

// Refresh recomputes path's fingerprint and rewrites the snapshot document
// when content drifted. A refresh that finds nothing changed succeeds
// without touching the disk. One refresh at a time per repository;
// concurrent callers block.
func (t *Tracker) Refresh(path string) error {
	abs := absPath(path)
	if _, err := os.Stat(abs); err != nil {
		return &NotFoundError{Path: abs}
	}
	r, err := t.Track(abs)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	t.setRefreshing(r, true)
	defer t.setRefreshing(r, false)
	return t.refresh(r)
}

func (t *Tracker) refresh(r *Repo) error {
	root := r.path
	if err := ignore.EnsureEntry(root, snapshot.DocumentName); err != nil {
		util.Default.Printf("⚠️  could not amend ignore file in %s: %v\n", root, err)
	}
	rules := ignore.Load(root)

	digest, skipped, err := snapshot.Fingerprint(root, rules)
	if err != nil {
		return &NotFoundError{Path: root}
	}
	if len(skipped) > 0 {
		util.Default.Printf("⚠️  skipped %d unreadable path(s) under %s\n", len(skipped), root)
	}

	current, persisted := r.fingerprints()
	if current == digest && persisted == digest {
		return nil
	}

	// Commit the fresh fingerprint before writing: a failed write then leaves
	// current != persisted and the repository keeps reporting NEEDS_UPDATE.
	r.setCurrent(digest)

	doc, _, err := snapshot.Render(root, rules)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: root}
		}
		return &WriteError{Path: root, Err: err}
	}
	docPath := filepath.Join(root, snapshot.DocumentName)
	if err := writeDocument(docPath, doc); err != nil {
		return &WriteError{Path: root, Err: err}
	}
	if err := t.store.SaveDigest(docPath, digest, []byte(doc)); err != nil {
		return &WriteError{Path: root, Err: err}
	}
	r.markSynced(digest, time.Now())
	return nil
}

// RefreshMany refreshes the given repositories sequentially. Each failure is
// reported and counted without stopping the rest. Every successful refresh
// re-arms that repository's cooldown gate.
func (t *Tracker) RefreshMany(paths []string) (successCount, total int) {
	for _, p := range paths {
		if err := t.Refresh(p); err != nil {
			util.Default.Printf("❌ %v\n", err)
			continue
		}
		successCount++
		if r := t.repo(absPath(p)); r != nil {
			r.bumpGate()
		}
	}
	return successCount, len(paths)
}

// RefreshSelected refreshes an explicit set of repositories unconditionally.
func (t *Tracker) RefreshSelected(paths []string) (int, int) {
	return t.RefreshMany(paths)
}

// RefreshAll brings every tracked repository up to date. Watched
// repositories are re-fingerprinted and refreshed only when they drifted,
// with up-to-date ones getting their gate re-armed; tracked-but-unwatched
// repositories are adopted into watching and refreshed unconditionally.
func (t *Tracker) RefreshAll() (int, int) {
	var due []string
	for _, p := range t.Tracked() {
		r := t.repo(p)
		if r == nil {
			continue
		}
		if !t.watching(p) {
			if err := t.Watch(p); err != nil {
				util.Default.Printf("⚠️  %v\n", err)
			}
			due = append(due, p)
			continue
		}
		if err := t.Audit(p); err != nil {
			due = append(due, p)
			continue
		}
		current, persisted := r.fingerprints()
		if current != persisted {
			due = append(due, p)
		} else {
			r.bumpGate()
		}
	}
	return t.RefreshMany(due)
}

// Audit recomputes path's fingerprint so the derived status reflects the
// tree as it is on disk right now. No writes happen.
func (t *Tracker) Audit(path string) error {
	r, err := t.Track(path)
	if err != nil {
		return err
	}
	rules := ignore.Load(r.path)
	digest, _, err := snapshot.Fingerprint(r.path, rules)
	if err != nil {
		return err
	}
	r.setCurrent(digest)
	t.publishStatus(r)
	return nil
}

// AuditAll audits every tracked repository in parallel; distinct
// repositories share no state, so the scans fan out freely.
func (t *Tracker) AuditAll() error {
	var g errgroup.Group
	for _, p := range t.Tracked() {
		p := p
		g.Go(func() error {
			return t.Audit(p)
		})
	}
	return g.Wait()
}

// StatusOf derives the presentation record for path.
func (t *Tracker) StatusOf(path string) (StatusInfo, error) {
	abs := absPath(path)
	r := t.repo(abs)
	if r == nil {
		return StatusInfo{}, &NotFoundError{Path: abs}
	}
	st := r.Status()
	return StatusInfo{
		Path:        abs,
		State:       st,
		Description: st.Description(),
		LastSync:    r.LastSync(),
	}, nil
}

// Tracked returns the tracked repository paths in registration order.
func (t *Tracker) Tracked() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Close tears down every watch session, stopping delivery and joining each
// loop before the records are released, then closes the sidecar store.
func (t *Tracker) Close() {
	t.mu.Lock()
	sessions := make([]*watchSession, 0, len(t.sessions))
	for _, s := range t.sessions {
		sessions = append(sessions, s)
	}
	t.sessions = make(map[string]*watchSession)
	t.mu.Unlock()
	for _, s := range sessions {
		s.stop()
	}
	if t.store != nil {
		if err := t.store.Close(); err != nil {
			util.Default.Printf("⚠️  closing store: %v\n", err)
		}
	}
}

// DocumentPath returns where repoPath's snapshot document lives.
func DocumentPath(repoPath string) string {
	return filepath.Join(absPath(repoPath), snapshot.DocumentName)
}

func (t *Tracker) repo(path string) *Repo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.repos[path]
}

func (t *Tracker) watching(path string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.sessions[path]
	return ok
}

func (t *Tracker) setRefreshing(r *Repo, v bool) {
	r.stateMu.Lock()
	r.refreshing = v
	r.stateMu.Unlock()
	t.publishStatus(r)
}

func (t *Tracker) publishStatus(r *Repo) {
	t.publish(events.EventRepoStatusChanged, r.path, r.Status())
}

func (t *Tracker) publish(topic string, args ...interface{}) {
	if t.bus != nil {
		t.bus.Publish(topic, args...)
	}
}

// checkExternalEdit reports a snapshot document whose on-disk content no
// longer matches the checksum recorded at its last sync. Diagnostic only;
// status stays a pure function of the fingerprints.
func (t *Tracker) checkExternalEdit(docPath string, record *store.SnapshotRecord) {
	if record.DocChecksum == "" {
		return
	}
	data, err := os.ReadFile(docPath)
	if err != nil {
		return
	}
	if store.Checksum(data) != record.DocChecksum {
		util.Default.Printf("⚠️  %s was edited outside align since its last sync\n", docPath)
	}
}

// writeDocument overwrites docPath atomically. The temp file carries the
// .tmp suffix the watch filter already drops, so the engine's own writes
// never feed back into the gate.
func writeDocument(docPath, content string) error {
	dir := filepath.Dir(docPath)
	tmp, err := os.CreateTemp(dir, ".align-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, docPath); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
