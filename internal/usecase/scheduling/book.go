package scheduling

import (
	"context"
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/audit"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/cache"
	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	PatientID  uint
	DoctorID   uint
	TimeSlotID uint

	Reason   string
	Symptoms string

	// RequireConfirmation routes the appointment through the pending
	// state so the doctor explicitly confirms or rejects it.
	RequireConfirmation bool
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo   domain.Repository
	cache  *cache.SlotCache
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	loc    *time.Location
}

func NewBookAppointment(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
	loc *time.Location,
) *BookAppointment {
	return &BookAppointment{
		repo:   repo,
		cache:  slotCache,
		audit:  auditDispatcher,
		notify: notifyDispatcher,
		loc:    loc,
	}
}

// Execute converts an available slot into an appointment. All guards run
// under the slot's row lock inside one transaction, so of two concurrent
// bookings exactly one commits and the other sees slot_not_available.
func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	now := time.Now().In(uc.loc)

	doctor, err := uc.repo.GetDoctorByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	patient, err := uc.repo.GetPatientByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	build := func(slot *models.TimeSlot) (*models.Appointment, error) {

		if slot.Status != models.SlotAvailable {
			return nil, httperr.ErrConflict("slot_not_available", "This time slot is not available.")
		}
		if !slot.StartTime.After(now) {
			return nil, httperr.ErrValidation("slot_in_past", "Cannot book a slot in the past.")
		}
		if !doctor.IsVerified() {
			return nil, httperr.ErrPolicy("doctor_not_verified", "Doctor is not verified.")
		}
		if slot.DoctorID != in.DoctorID {
			return nil, httperr.ErrValidation("slot_doctor_mismatch", "This slot does not belong to the selected doctor.")
		}

		slotID := slot.ID
		return &models.Appointment{
			AppointmentNumber: domain.NewAppointmentNumber(now),
			PatientID:         in.PatientID,
			DoctorID:          in.DoctorID,
			TimeSlotID:        &slotID,
			Date:              slot.Date,
			StartTime:         slot.StartTime,
			EndTime:           slot.EndTime,
			Status:            string(domain.InitialStatus(in.RequireConfirmation)),
			Reason:            in.Reason,
			Symptoms:          in.Symptoms,
		}, nil
	}

	// Appointment numbers are random; a collision with an existing one is
	// retried with a fresh number before giving up.
	var ap *models.Appointment
	for attempt := 0; ; attempt++ {
		ap, err = uc.repo.BookSlot(ctx, in.TimeSlotID, build)
		if err == nil || attempt >= 2 || !httperr.IsBusiness(err, "appointment_number_taken") {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	// The notification sinks need the recipients, which the insert alone
	// does not carry.
	ap.Patient = *patient
	ap.Doctor = *doctor

	uc.cache.Invalidate(ctx, in.DoctorID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.PatientID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"slot_id": in.TimeSlotID, "start": ap.StartTime},
	})

	uc.notify.Dispatch(notify.NewEvent(notify.EventBookingConfirmed, *ap))

	return ap, nil
}
