package scheduling

import (
	"strings"
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

const (
	// CancelNotice is the minimum lead time before start for a
	// cancellation or reschedule.
	CancelNotice = 2 * time.Hour

	// MaxReschedules bounds how often a patient may move one appointment.
	MaxReschedules = 2

	// Join window around the appointment, both bounds inclusive.
	JoinEarly = 15 * time.Minute
	JoinLate  = 30 * time.Minute

	MinCancellationReason = 10
)

// ===============================
// Queries (pure, explicit clock)
// ===============================

// CanCancel holds while the appointment is not terminal and now is
// more than CancelNotice before start.
func CanCancel(ap *models.Appointment, now time.Time) bool {
	if IsTerminal(Status(ap.Status)) {
		return false
	}
	return ap.StartTime.After(now.Add(CancelNotice))
}

func CanReschedule(ap *models.Appointment, now time.Time) bool {
	if ap.RescheduleCount >= MaxReschedules {
		return false
	}
	return CanCancel(ap, now)
}

// CanJoin holds from 15 minutes before start through 30 minutes after
// end, for confirmed or in-progress appointments.
func CanJoin(ap *models.Appointment, now time.Time) bool {
	s := Status(ap.Status)
	if s != StatusConfirmed && s != StatusInProgress {
		return false
	}

	joinStart := ap.StartTime.Add(-JoinEarly)
	joinEnd := ap.EndTime.Add(JoinLate)

	return !now.Before(joinStart) && !now.After(joinEnd)
}

// ===============================
// Transitions
// ===============================

func Cancel(ap *models.Appointment, actorID uint, reason string, now time.Time) error {
	if IsTerminal(Status(ap.Status)) {
		return httperr.ErrInvalidState("invalid_state", "Appointment is already closed.")
	}
	if !CanCancel(ap, now) {
		return httperr.ErrPolicy("cancellation_window_closed", "Appointments can only be cancelled more than 2 hours before start.")
	}
	if len(strings.TrimSpace(reason)) < MinCancellationReason {
		return httperr.ErrValidation("invalid_cancellation_reason", "A cancellation reason of at least 10 characters is required.")
	}

	ap.Status = string(StatusCancelled)
	ap.CancellationReason = reason
	ap.CancelledByID = &actorID
	ap.CancelledAt = &now
	return nil
}

// Confirm moves a provider-mediated request to confirmed.
func Confirm(ap *models.Appointment) error {
	if Status(ap.Status) != StatusPending {
		return httperr.ErrInvalidState("invalid_state", "Only pending appointments can be confirmed.")
	}
	ap.Status = string(StatusConfirmed)
	return nil
}

func Reject(ap *models.Appointment, actorID uint, reason string, now time.Time) error {
	if Status(ap.Status) != StatusPending {
		return httperr.ErrInvalidState("invalid_state", "Only pending appointments can be rejected.")
	}

	ap.Status = string(StatusCancelled)
	ap.CancellationReason = reason
	ap.CancelledByID = &actorID
	ap.CancelledAt = &now
	return nil
}

func Start(ap *models.Appointment) error {
	switch Status(ap.Status) {
	case StatusPending, StatusConfirmed:
		ap.Status = string(StatusInProgress)
		return nil
	}
	return httperr.ErrInvalidState("invalid_state", "Appointment cannot be started.")
}

func Complete(ap *models.Appointment) error {
	switch Status(ap.Status) {
	case StatusConfirmed, StatusInProgress:
		ap.Status = string(StatusCompleted)
		return nil
	}
	return httperr.ErrInvalidState("invalid_state", "Only confirmed or in-progress appointments can be completed.")
}

func MarkNoShow(ap *models.Appointment) error {
	switch Status(ap.Status) {
	case StatusPending, StatusConfirmed:
		ap.Status = string(StatusNoShow)
		return nil
	}
	return httperr.ErrInvalidState("invalid_state", "Appointment cannot be marked as a no-show.")
}

// Reschedule moves the appointment onto newSlot. Guards on the current
// slot (window, cap) and on the target (same doctor, available, future)
// all run here; persisting the paired slot flips is the repository's job.
func Reschedule(ap *models.Appointment, newSlot *models.TimeSlot, now time.Time) error {
	if ap.RescheduleCount >= MaxReschedules {
		return httperr.ErrPolicy("reschedule_limit_reached", "This appointment has already been rescheduled the maximum number of times.")
	}
	if IsTerminal(Status(ap.Status)) {
		return httperr.ErrInvalidState("invalid_state", "Appointment is already closed.")
	}
	if s := Status(ap.Status); s != StatusPending && s != StatusConfirmed {
		return httperr.ErrInvalidState("invalid_state", "Only pending or confirmed appointments can be rescheduled.")
	}
	if !CanCancel(ap, now) {
		return httperr.ErrPolicy("reschedule_window_closed", "Appointments can only be rescheduled more than 2 hours before start.")
	}

	if newSlot.DoctorID != ap.DoctorID {
		return httperr.ErrValidation("slot_doctor_mismatch", "New slot must belong to the same doctor.")
	}
	if newSlot.Status != models.SlotAvailable {
		return httperr.ErrConflict("slot_not_available", "This time slot is not available.")
	}
	if !newSlot.StartTime.After(now) {
		return httperr.ErrValidation("slot_in_past", "Cannot reschedule to a past slot.")
	}

	ap.TimeSlotID = &newSlot.ID
	ap.Date = newSlot.Date
	ap.StartTime = newSlot.StartTime
	ap.EndTime = newSlot.EndTime
	ap.RescheduleCount++
	return nil
}
