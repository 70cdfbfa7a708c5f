package scheduling

import (
	"context"
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/audit"
	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/notify"
)

// ConfirmAppointment handles the doctor's decision on a pending,
// provider-mediated request: Execute confirms it, Reject declines it.
type ConfirmAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	loc    *time.Location
}

func NewConfirmAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
	loc *time.Location,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:   repo,
		audit:  auditDispatcher,
		notify: notifyDispatcher,
		loc:    loc,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForActor(ctx, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	prevStatus := ap.Status
	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentState(ctx, ap, prevStatus); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.notify.Dispatch(notify.NewEvent(notify.EventAppointmentConfirmed, *ap))

	return ap, nil
}

// Reject declines a pending request and records the reason; the bound
// slot is released so other patients can take it.
func (uc *ConfirmAppointment) Reject(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForActor(ctx, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	prevStatus := ap.Status
	now := time.Now().In(uc.loc)

	if err := domain.Reject(ap, actor.UserID, reason, now); err != nil {
		return nil, err
	}

	if err := uc.repo.ReleaseSlotAndUpdate(ctx, ap, prevStatus, ap.TimeSlotID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_rejected",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": reason},
	})

	uc.notify.Dispatch(notify.NewEvent(notify.EventAppointmentCancelled, *ap))

	return ap, nil
}
