package events

import "github.com/asaskevich/EventBus"

// GlobalBus is the shared event bus for the entire application
var GlobalBus EventBus.Bus

func init() {
	GlobalBus = EventBus.New()
}

// Topics for application-wide coordination. Status payloads carry the
// repository path plus its derived state so subscribers never have to call
// back into the tracker from a handler.
const (
	// Repository status transitions, published as (path, derived state)
	EventRepoStatusChanged = "repo:status:changed"

	// Watch session lifecycle, published with the repository path
	EventWatchStarted = "watch:started"
	EventWatchStopped = "watch:stopped"
)
