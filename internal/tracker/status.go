package tracker

import "time"

// Status is the derived repository state. It is never stored: it is always
// recomputed from the fingerprint pair plus the in-flight flag.
type Status int

const (
	StatusUpToDate Status = iota
	StatusNeedsUpdate
	StatusUpdating
)

func (s Status) String() string {
	switch s {
	case StatusUpdating:
		return "UPDATING"
	case StatusUpToDate:
		return "UP_TO_DATE"
	default:
		return "NEEDS_UPDATE"
	}
}

// Description is the operator-facing wording shown by list and watch views.
func (s Status) Description() string {
	switch s {
	case StatusUpdating:
		return "Currently updating"
	case StatusUpToDate:
		return "Content is up to date"
	default:
		return "Content needs updating"
	}
}

// StatusInfo is the presentation record handed to CLI and dashboard views.
type StatusInfo struct {
	Path        string
	State       Status
	Description string
	LastSync    time.Time
}
