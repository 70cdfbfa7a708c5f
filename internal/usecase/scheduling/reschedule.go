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

type RescheduleAppointment struct {
	repo   domain.Repository
	cache  *cache.SlotCache
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	loc    *time.Location
}

func NewRescheduleAppointment(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
	loc *time.Location,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:   repo,
		cache:  slotCache,
		audit:  auditDispatcher,
		notify: notifyDispatcher,
		loc:    loc,
	}
}

// Execute moves the appointment onto newSlotID. The old slot's release,
// the new slot's reservation and the appointment update commit in one
// transaction; the target slot is checked again under its row lock.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
	newSlotID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForActor(ctx, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	prevStatus := ap.Status
	oldSlotID := ap.TimeSlotID
	oldStart := ap.StartTime
	now := time.Now().In(uc.loc)

	err = uc.repo.RescheduleToSlot(
		ctx,
		ap,
		prevStatus,
		oldSlotID,
		newSlotID,
		func(newSlot *models.TimeSlot) error {
			return domain.Reschedule(ap, newSlot, now)
		},
	)
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ap.DoctorID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"old_start":        oldStart,
			"new_start":        ap.StartTime,
			"reschedule_count": ap.RescheduleCount,
		},
	})

	uc.notify.Dispatch(notify.NewEvent(notify.EventAppointmentRescheduled, *ap))

	return ap, nil
}
