package types

// Status represents the workflow stage of an issue
type Status string

const (
	StatusReported   Status = "reported"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// AllStatuses lists statuses in workflow order
var AllStatuses = []Status{
	StatusReported,
	StatusInProgress,
	StatusResolved,
	StatusRejected,
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusReported, StatusInProgress, StatusResolved, StatusRejected:
		return true
	default:
		return false
	}
}

// NextActions returns the status changes offered for an issue currently in s.
// The backend remains the authority on legality; this only decides which
// actions are enabled.
func (s Status) NextActions() []Status {
	switch s {
	case StatusReported:
		return []Status{StatusInProgress, StatusRejected}
	case StatusInProgress:
		return []Status{StatusResolved}
	default:
		return nil
	}
}

// CanMoveTo reports whether next is one of the offered actions for s
func (s Status) CanMoveTo(next Status) bool {
	for _, v := range s.NextActions() {
		if v == next {
			return true
		}
	}
	return false
}
