package scheduling

import (
	"context"
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/audit"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/cache"
	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/notify"
)

type CancelAppointment struct {
	repo   domain.Repository
	cache  *cache.SlotCache
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	loc    *time.Location
}

func NewCancelAppointment(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
	loc *time.Location,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		cache:  slotCache,
		audit:  auditDispatcher,
		notify: notifyDispatcher,
		loc:    loc,
	}
}

func (uc *CancelAppointment) Execute(
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

	if err := domain.Cancel(ap, actor.UserID, reason, now); err != nil {
		return nil, err
	}

	if err := uc.repo.ReleaseSlotAndUpdate(ctx, ap, prevStatus, ap.TimeSlotID); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ap.DoctorID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": reason, "actor_type": actor.UserType},
	})

	uc.notify.Dispatch(notify.NewEvent(notify.EventAppointmentCancelled, *ap))

	return ap, nil
}
