package scheduling

import (
	"context"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/audit"
	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/notify"
)

// ProgressAppointment owns the doctor-side transitions of a live
// appointment: start, complete and no-show.
type ProgressAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewProgressAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
) *ProgressAppointment {
	return &ProgressAppointment{
		repo:   repo,
		audit:  auditDispatcher,
		notify: notifyDispatcher,
	}
}

func (uc *ProgressAppointment) transition(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
	action string,
	apply func(*models.Appointment) error,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForActor(ctx, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	prevStatus := ap.Status
	if err := apply(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentState(ctx, ap, prevStatus); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func (uc *ProgressAppointment) Start(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
) (*models.Appointment, error) {
	return uc.transition(ctx, appointmentID, actor, "appointment_started", domain.Start)
}

func (uc *ProgressAppointment) Complete(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
) (*models.Appointment, error) {

	ap, err := uc.transition(ctx, appointmentID, actor, "appointment_completed", domain.Complete)
	if err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.NewEvent(notify.EventAppointmentCompleted, *ap))
	return ap, nil
}

func (uc *ProgressAppointment) MarkNoShow(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
) (*models.Appointment, error) {
	return uc.transition(ctx, appointmentID, actor, "appointment_no_show", domain.MarkNoShow)
}
