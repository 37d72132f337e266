package tracker

import "fmt"

// NotFoundError reports a repository path that is missing at refresh time.
// Nothing is mutated when it is returned.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("repository path not found: %s", e.Path)
}

// WriteError reports a failed snapshot or sidecar write. The refresh that
// produced it never touches the persisted fingerprint, so the repository
// stays flagged as needing an update.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write snapshot for %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WatchInitError reports a repository whose watch session could not start.
// Fatal for automatic synchronization of that repository only; it stays
// tracked and manual refresh keeps working.
type WatchInitError struct {
	Path string
	Err  error
}

func (e *WatchInitError) Error() string {
	return fmt.Sprintf("failed to watch %s: %v", e.Path, e.Err)
}

func (e *WatchInitError) Unwrap() error { return e.Err }
