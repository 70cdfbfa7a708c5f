package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

type SchedulingGormRepository struct {
	db  *gorm.DB
	loc *time.Location
}

func NewSchedulingGormRepository(db *gorm.DB, loc *time.Location) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db, loc: loc}
}

// --------------------------------------------------
// Doctors
// --------------------------------------------------

func (r *SchedulingGormRepository) GetDoctorByID(
	ctx context.Context,
	id uint,
) (*models.DoctorProfile, error) {

	var doctor models.DoctorProfile
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&doctor, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("doctor_not_found", "Doctor not found.")
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *SchedulingGormRepository) ListVerifiedDoctorIDs(
	ctx context.Context,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.DoctorProfile{}).
		Where("verification_status = ?", models.VerificationVerified).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// --------------------------------------------------
// Patients
// --------------------------------------------------

func (r *SchedulingGormRepository) GetPatientByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		First(&user, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("patient_not_found", "Patient not found.")
		}
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Availability templates
// --------------------------------------------------

func (r *SchedulingGormRepository) ListActiveTemplates(
	ctx context.Context,
	doctorID uint,
) ([]models.AvailabilityTemplate, error) {

	var templates []models.AvailabilityTemplate
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND active = true", doctorID).
		Order("day_of_week ASC, start_time ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *SchedulingGormRepository) ListSlotKeys(
	ctx context.Context,
	doctorID uint,
	from time.Time,
	to time.Time,
) (map[domain.SlotKey]struct{}, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Select("date", "start_time").
		Where(
			"doctor_id = ? AND date >= ? AND date < ?",
			doctorID, from, to,
		).
		Find(&slots).Error; err != nil {
		return nil, err
	}

	keys := make(map[domain.SlotKey]struct{}, len(slots))
	for i := range slots {
		keys[domain.KeyOf(&slots[i])] = struct{}{}
	}
	return keys, nil
}

// CreateSlots never overwrites an existing slot's status: regeneration
// is insert-only with conflicts ignored.
func (r *SchedulingGormRepository) CreateSlots(
	ctx context.Context,
	slots []models.TimeSlot,
) (int, error) {

	if len(slots) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&slots)
	if res.Error != nil {
		return 0, res.Error
	}

	return int(res.RowsAffected), nil
}

func (r *SchedulingGormRepository) ListAvailableSlots(
	ctx context.Context,
	doctorID uint,
	from time.Time,
	to time.Time,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND status = ? AND date >= ? AND date < ?",
			doctorID, models.SlotAvailable, from, to,
		).
		Order("date ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SchedulingGormRepository) DeletePastAvailableSlots(
	ctx context.Context,
	before time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("date < ? AND status = ?", before, models.SlotAvailable).
		Delete(&models.TimeSlot{})

	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *SchedulingGormRepository) BookSlot(
	ctx context.Context,
	slotID uint,
	build func(slot *models.TimeSlot) (*models.Appointment, error),
) (*models.Appointment, error) {

	var created *models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var slot models.TimeSlot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, slotID).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrNotFound("slot_not_found", "Time slot not found.")
			}
			return err
		}

		// Guards run under the row lock; a concurrent booking that
		// committed first is observed here as slot_not_available.
		ap, err := build(&slot)
		if err != nil {
			return err
		}

		if err := tx.Create(ap).Error; err != nil {
			return err
		}

		if err := tx.Model(&slot).Update("status", models.SlotBooked).Error; err != nil {
			return err
		}

		created = ap
		return nil
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			// The slot race itself is settled by the row lock; a unique
			// violation here is either the appointment number or the
			// slot index hit by a concurrent generation.
			if httperr.UniqueViolationConstraint(err) == "idx_appointment_number" {
				return nil, httperr.ErrConflict("appointment_number_taken", "Appointment number already exists.")
			}
			return nil, httperr.ErrConflict("slot_not_available", "This time slot is not available.")
		}
		return nil, err
	}

	return created, nil
}

// --------------------------------------------------
// State changes
// --------------------------------------------------

// appointmentStateColumns are the fields a status transition may touch.
var appointmentStateColumns = []string{
	"status",
	"cancellation_reason",
	"cancelled_by_id",
	"cancelled_at",
}

func casUpdateAppointment(tx *gorm.DB, ap *models.Appointment, fromStatus string) error {
	res := tx.Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, fromStatus).
		Select(appointmentStateColumns).
		Updates(ap)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrConflict("appointment_state_changed", "Appointment was modified concurrently.")
	}
	return nil
}

func (r *SchedulingGormRepository) UpdateAppointmentState(
	ctx context.Context,
	ap *models.Appointment,
	fromStatus string,
) error {
	return casUpdateAppointment(r.db.WithContext(ctx), ap, fromStatus)
}

func (r *SchedulingGormRepository) ReleaseSlotAndUpdate(
	ctx context.Context,
	ap *models.Appointment,
	fromStatus string,
	releaseSlotID *uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := casUpdateAppointment(tx, ap, fromStatus); err != nil {
			return err
		}

		if releaseSlotID == nil {
			return nil
		}

		var slot models.TimeSlot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, *releaseSlotID).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Slot swept or detached; nothing to release.
				return nil
			}
			return err
		}

		return tx.Model(&slot).Update("status", models.SlotAvailable).Error
	})
}

func (r *SchedulingGormRepository) RescheduleToSlot(
	ctx context.Context,
	ap *models.Appointment,
	fromStatus string,
	oldSlotID *uint,
	newSlotID uint,
	apply func(newSlot *models.TimeSlot) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var newSlot models.TimeSlot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&newSlot, newSlotID).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrNotFound("slot_not_found", "Time slot not found.")
			}
			return err
		}

		if err := apply(&newSlot); err != nil {
			return err
		}

		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", ap.ID, fromStatus).
			Select("time_slot_id", "date", "start_time", "end_time", "reschedule_count").
			Updates(ap)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrConflict("appointment_state_changed", "Appointment was modified concurrently.")
		}

		if oldSlotID != nil {
			var oldSlot models.TimeSlot
			err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&oldSlot, *oldSlotID).Error
			if err == nil {
				if err := tx.Model(&oldSlot).Update("status", models.SlotAvailable).Error; err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		return tx.Model(&newSlot).Update("status", models.SlotBooked).Error
	})
}

func (r *SchedulingGormRepository) UpdateSessionFields(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID).
		Updates(map[string]any{
			"video_room_url": ap.VideoRoomURL,
			"video_host_url": ap.VideoHostURL,
			"video_room_id":  ap.VideoRoomID,
		}).Error
}

// --------------------------------------------------
// Appointment reads
// --------------------------------------------------

func (r *SchedulingGormRepository) GetAppointmentForActor(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
) (*models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor.User").
		Where("id = ?", appointmentID)

	if actor.IsDoctor() {
		q = q.Where("doctor_id = ?", actor.DoctorProfileID)
	} else {
		q = q.Where("patient_id = ?", actor.UserID)
	}

	var ap models.Appointment
	if err := q.First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
		}
		return nil, err
	}

	return &ap, nil
}

func (r *SchedulingGormRepository) ListAppointments(
	ctx context.Context,
	actor domain.Actor,
	filter domain.AppointmentFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor.User")

	if actor.IsDoctor() {
		q = q.Where("doctor_id = ?", actor.DoctorProfileID)
	} else {
		q = q.Where("patient_id = ?", actor.UserID)
	}

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("date <= ?", *filter.DateTo)
	}
	if filter.UpcomingOnly {
		q = q.Where(
			"date >= ? AND status IN ?",
			domain.DayStart(time.Now().In(r.loc)),
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		)
	}

	var aps []models.Appointment
	if err := q.
		Order("date DESC, start_time DESC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *SchedulingGormRepository) ListAppointmentsForDoctorDay(
	ctx context.Context,
	doctorID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Where(
			"doctor_id = ? AND start_time >= ? AND start_time < ? AND status IN ?",
			doctorID, dayStart, dayEnd,
			[]string{string(domain.StatusConfirmed), string(domain.StatusInProgress)},
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *SchedulingGormRepository) ListAppointmentsStartingBetween(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor.User").
		Where(
			"status = ? AND start_time >= ? AND start_time < ?",
			string(domain.StatusConfirmed), from, to,
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
