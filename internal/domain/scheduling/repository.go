package scheduling

import (
	"context"
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

// Actor identifies who is acting on an appointment. Doctors carry
// their profile id; patients only their user id.
type Actor struct {
	UserID          uint
	DoctorProfileID uint
	UserType        string
}

func (a Actor) IsDoctor() bool {
	return a.UserType == models.UserTypeDoctor
}

type AppointmentFilter struct {
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time

	// UpcomingOnly restricts to pending/confirmed from today on.
	UpcomingOnly bool
}

type Repository interface {
	// -------- Doctors --------
	GetDoctorByID(
		ctx context.Context,
		id uint,
	) (*models.DoctorProfile, error)

	ListVerifiedDoctorIDs(
		ctx context.Context,
	) ([]uint, error)

	// -------- Patients --------
	GetPatientByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Availability templates --------
	ListActiveTemplates(
		ctx context.Context,
		doctorID uint,
	) ([]models.AvailabilityTemplate, error)

	// -------- Slots --------
	ListSlotKeys(
		ctx context.Context,
		doctorID uint,
		from time.Time,
		to time.Time,
	) (map[SlotKey]struct{}, error)

	// CreateSlots bulk-inserts with on-conflict-do-nothing and returns
	// how many rows were actually created.
	CreateSlots(
		ctx context.Context,
		slots []models.TimeSlot,
	) (int, error)

	ListAvailableSlots(
		ctx context.Context,
		doctorID uint,
		from time.Time,
		to time.Time,
	) ([]models.TimeSlot, error)

	DeletePastAvailableSlots(
		ctx context.Context,
		before time.Time,
	) (int64, error)

	// -------- Booking (transactional) --------

	// BookSlot loads and row-locks the slot, then calls build to run the
	// booking guards and produce the appointment. The appointment insert
	// and the slot flip to booked commit atomically; any error rolls
	// everything back.
	BookSlot(
		ctx context.Context,
		slotID uint,
		build func(slot *models.TimeSlot) (*models.Appointment, error),
	) (*models.Appointment, error)

	// -------- State changes (transactional) --------

	// UpdateAppointmentState persists a status transition, guarded by a
	// compare-and-swap on fromStatus so racing transitions resolve with
	// exactly one winner.
	UpdateAppointmentState(
		ctx context.Context,
		ap *models.Appointment,
		fromStatus string,
	) error

	// ReleaseSlotAndUpdate persists a cancellation: the appointment CAS
	// update plus the bound slot's flip back to available, atomically.
	ReleaseSlotAndUpdate(
		ctx context.Context,
		ap *models.Appointment,
		fromStatus string,
		releaseSlotID *uint,
	) error

	// RescheduleToSlot locks the target slot, calls apply to run the
	// reschedule guards (mutating ap), then atomically releases the old
	// slot, books the new one and CAS-updates the appointment.
	RescheduleToSlot(
		ctx context.Context,
		ap *models.Appointment,
		fromStatus string,
		oldSlotID *uint,
		newSlotID uint,
		apply func(newSlot *models.TimeSlot) error,
	) error

	// UpdateSessionFields persists only the video-session columns.
	UpdateSessionFields(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment reads --------
	GetAppointmentForActor(
		ctx context.Context,
		appointmentID uint,
		actor Actor,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		actor Actor,
		filter AppointmentFilter,
	) ([]models.Appointment, error)

	ListAppointmentsForDoctorDay(
		ctx context.Context,
		doctorID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsStartingBetween(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)
}
