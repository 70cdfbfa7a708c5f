package scheduling

import (
	"context"
	"time"

	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/dto"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListAppointments(repo domain.Repository, loc *time.Location) *ListAppointments {
	return &ListAppointments{repo: repo, loc: loc}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	actor domain.Actor,
	filter domain.AppointmentFilter,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointments(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	return uc.toDTOs(appointments), nil
}

// ExecuteDoctorDay lists a doctor's confirmed and in-progress
// appointments for one calendar day, ordered by start time.
func (uc *ListAppointments) ExecuteDoctorDay(
	ctx context.Context,
	doctorID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, uc.loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	appointments, err := uc.repo.ListAppointmentsForDoctorDay(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return uc.toDTOs(appointments), nil
}

func (uc *ListAppointments) toDTOs(appointments []models.Appointment) []dto.AppointmentListDTO {
	now := time.Now().In(uc.loc)

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for i := range appointments {
		ap := &appointments[i]
		out = append(out, dto.AppointmentListDTO{
			ID:                ap.ID,
			AppointmentNumber: ap.AppointmentNumber,
			Date:              ap.Date,
			StartTime:         ap.StartTime,
			EndTime:           ap.EndTime,
			Status:            ap.Status,
			Reason:            ap.Reason,
			PatientName:       ap.Patient.FullName(),
			DoctorName:        ap.Doctor.User.FullName(),
			Specialization:    ap.Doctor.Specialization,
			RescheduleCount:   ap.RescheduleCount,
			CanCancel:         domain.CanCancel(ap, now),
			CanReschedule:     domain.CanReschedule(ap, now),
			CanJoin:           domain.CanJoin(ap, now),
		})
	}
	return out
}
