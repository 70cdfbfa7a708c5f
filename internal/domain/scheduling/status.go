package scheduling

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// IsTerminal reports whether no further transition is allowed.
func IsTerminal(s Status) bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// InitialStatus is the entry state for the given booking path: direct
// self-service bookings are confirmed immediately, provider-mediated
// requests wait for an explicit Confirm.
func InitialStatus(requireConfirmation bool) Status {
	if requireConfirmation {
		return StatusPending
	}
	return StatusConfirmed
}
