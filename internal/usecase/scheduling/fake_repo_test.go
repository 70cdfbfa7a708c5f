package scheduling

import (
	"context"
	"fmt"
	"time"

	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

// fakeRepo is an in-memory domain.Repository for exercising the use
// cases without a database. It mimics the repository's guard behavior:
// CAS checks on status and conflict-ignoring bulk inserts.
type fakeRepo struct {
	doctors      map[uint]*models.DoctorProfile
	patients     map[uint]*models.User
	templates    []models.AvailabilityTemplate
	slots        map[uint]*models.TimeSlot
	appointments map[uint]*models.Appointment

	nextSlotID uint
	nextApID   uint

	// numberCollisions makes the next N appointment inserts fail the
	// way a duplicate appointment number does.
	numberCollisions int

	// beforeStateUpdate runs once inside the next CAS update, standing
	// in for a concurrent writer that commits between read and write.
	beforeStateUpdate func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors:      make(map[uint]*models.DoctorProfile),
		patients:     make(map[uint]*models.User),
		slots:        make(map[uint]*models.TimeSlot),
		appointments: make(map[uint]*models.Appointment),
		nextSlotID:   1,
		nextApID:     1,
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) addDoctor(id uint, verified bool) *models.DoctorProfile {
	status := models.VerificationPending
	if verified {
		status = models.VerificationVerified
	}
	d := &models.DoctorProfile{
		ID:     id,
		UserID: id + 100,
		User: models.User{
			ID:        id + 100,
			FirstName: "Doc",
			LastName:  fmt.Sprintf("Doctor%d", id),
			Email:     fmt.Sprintf("doctor%d@example.com", id),
			UserType:  models.UserTypeDoctor,
		},
		VerificationStatus: status,
	}
	r.doctors[id] = d
	return d
}

func (r *fakeRepo) addPatient(id uint) *models.User {
	u := &models.User{
		ID:        id,
		FirstName: "Pat",
		LastName:  fmt.Sprintf("Patient%d", id),
		Email:     fmt.Sprintf("patient%d@example.com", id),
		UserType:  models.UserTypePatient,
	}
	r.patients[id] = u
	return u
}

func (r *fakeRepo) addSlot(doctorID uint, start time.Time, status string) *models.TimeSlot {
	s := &models.TimeSlot{
		ID:        r.nextSlotID,
		DoctorID:  doctorID,
		Date:      time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		StartTime: start,
		EndTime:   start.Add(domain.SlotDuration),
		Status:    status,
	}
	r.nextSlotID++
	r.slots[s.ID] = s
	return s
}

func (r *fakeRepo) addAppointment(ap *models.Appointment) *models.Appointment {
	ap.ID = r.nextApID
	r.nextApID++
	cp := *ap
	r.appointments[ap.ID] = &cp
	return ap
}

func (r *fakeRepo) GetDoctorByID(ctx context.Context, id uint) (*models.DoctorProfile, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, httperr.ErrNotFound("doctor_not_found", "Doctor not found.")
	}
	return d, nil
}

func (r *fakeRepo) GetPatientByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.patients[id]
	if !ok {
		return nil, httperr.ErrNotFound("patient_not_found", "Patient not found.")
	}
	return u, nil
}

func (r *fakeRepo) ListVerifiedDoctorIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	for id, d := range r.doctors {
		if d.IsVerified() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeRepo) ListActiveTemplates(ctx context.Context, doctorID uint) ([]models.AvailabilityTemplate, error) {
	var out []models.AvailabilityTemplate
	for _, tpl := range r.templates {
		if tpl.DoctorID == doctorID && tpl.Active {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListSlotKeys(ctx context.Context, doctorID uint, from, to time.Time) (map[domain.SlotKey]struct{}, error) {
	out := make(map[domain.SlotKey]struct{})
	for _, s := range r.slots {
		if s.DoctorID == doctorID {
			out[domain.KeyOf(s)] = struct{}{}
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateSlots(ctx context.Context, slots []models.TimeSlot) (int, error) {
	existing := make(map[domain.SlotKey]uint)
	for id, s := range r.slots {
		if _, ok := existing[domain.KeyOf(s)]; !ok {
			existing[domain.KeyOf(s)] = id
		}
	}

	created := 0
	for i := range slots {
		s := slots[i]
		if _, dup := existing[domain.KeyOf(&s)]; dup {
			continue
		}
		s.ID = r.nextSlotID
		r.nextSlotID++
		r.slots[s.ID] = &s
		existing[domain.KeyOf(&s)] = s.ID
		created++
	}
	return created, nil
}

func (r *fakeRepo) ListAvailableSlots(ctx context.Context, doctorID uint, from, to time.Time) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range r.slots {
		if s.DoctorID == doctorID && s.Status == models.SlotAvailable &&
			!s.StartTime.Before(from) && s.StartTime.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeletePastAvailableSlots(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64
	for id, s := range r.slots {
		if s.Status == models.SlotAvailable && s.Date.Before(before) {
			delete(r.slots, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeRepo) BookSlot(
	ctx context.Context,
	slotID uint,
	build func(slot *models.TimeSlot) (*models.Appointment, error),
) (*models.Appointment, error) {

	slot, ok := r.slots[slotID]
	if !ok {
		return nil, httperr.ErrNotFound("slot_not_found", "Time slot not found.")
	}

	ap, err := build(slot)
	if err != nil {
		return nil, err
	}

	if r.numberCollisions > 0 {
		r.numberCollisions--
		return nil, httperr.ErrConflict("appointment_number_taken", "Appointment number already exists.")
	}

	slot.Status = models.SlotBooked
	return r.addAppointment(ap), nil
}

func (r *fakeRepo) casUpdate(ap *models.Appointment, fromStatus string) error {
	if r.beforeStateUpdate != nil {
		f := r.beforeStateUpdate
		r.beforeStateUpdate = nil
		f()
	}

	stored, ok := r.appointments[ap.ID]
	if !ok {
		return httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}
	if stored.Status != fromStatus {
		return httperr.ErrConflict("appointment_state_changed", "Appointment was modified concurrently.")
	}
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateAppointmentState(ctx context.Context, ap *models.Appointment, fromStatus string) error {
	return r.casUpdate(ap, fromStatus)
}

func (r *fakeRepo) ReleaseSlotAndUpdate(ctx context.Context, ap *models.Appointment, fromStatus string, releaseSlotID *uint) error {
	if err := r.casUpdate(ap, fromStatus); err != nil {
		return err
	}
	if releaseSlotID != nil {
		if slot, ok := r.slots[*releaseSlotID]; ok {
			slot.Status = models.SlotAvailable
		}
	}
	return nil
}

func (r *fakeRepo) RescheduleToSlot(
	ctx context.Context,
	ap *models.Appointment,
	fromStatus string,
	oldSlotID *uint,
	newSlotID uint,
	apply func(newSlot *models.TimeSlot) error,
) error {

	newSlot, ok := r.slots[newSlotID]
	if !ok {
		return httperr.ErrNotFound("slot_not_found", "Time slot not found.")
	}

	if err := apply(newSlot); err != nil {
		return err
	}

	if err := r.casUpdate(ap, fromStatus); err != nil {
		return err
	}

	if oldSlotID != nil {
		if old, ok := r.slots[*oldSlotID]; ok {
			old.Status = models.SlotAvailable
		}
	}
	newSlot.Status = models.SlotBooked
	return nil
}

func (r *fakeRepo) UpdateSessionFields(ctx context.Context, ap *models.Appointment) error {
	stored, ok := r.appointments[ap.ID]
	if !ok {
		return httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}
	stored.VideoRoomURL = ap.VideoRoomURL
	stored.VideoHostURL = ap.VideoHostURL
	stored.VideoRoomID = ap.VideoRoomID
	return nil
}

func (r *fakeRepo) GetAppointmentForActor(ctx context.Context, appointmentID uint, actor domain.Actor) (*models.Appointment, error) {
	ap, ok := r.appointments[appointmentID]
	if !ok {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}

	if actor.IsDoctor() {
		if ap.DoctorID != actor.DoctorProfileID {
			return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
		}
	} else if ap.PatientID != actor.UserID {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}

	cp := *ap
	return &cp, nil
}

func (r *fakeRepo) ListAppointments(ctx context.Context, actor domain.Actor, filter domain.AppointmentFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if actor.IsDoctor() {
			if ap.DoctorID != actor.DoctorProfileID {
				continue
			}
		} else if ap.PatientID != actor.UserID {
			continue
		}
		if filter.Status != "" && ap.Status != filter.Status {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForDoctorDay(ctx context.Context, doctorID uint, dayStart, dayEnd time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.DoctorID == doctorID && !ap.StartTime.Before(dayStart) && ap.StartTime.Before(dayEnd) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsStartingBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Status == string(domain.StatusConfirmed) && !ap.StartTime.Before(from) && ap.StartTime.Before(to) {
			out = append(out, *ap)
		}
	}
	return out, nil
}
