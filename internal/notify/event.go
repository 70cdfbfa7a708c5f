package notify

import (
	"github.com/google/uuid"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

type EventType string

const (
	EventBookingConfirmed       EventType = "booking_confirmed"
	EventAppointmentConfirmed   EventType = "appointment_confirmed"
	EventAppointmentCancelled   EventType = "appointment_cancelled"
	EventAppointmentRescheduled EventType = "appointment_rescheduled"
	EventAppointmentCompleted   EventType = "appointment_completed"
	EventAppointmentReminder    EventType = "appointment_reminder"
)

type Event struct {
	ID          string
	Type        EventType
	Appointment models.Appointment
}

func NewEvent(t EventType, ap models.Appointment) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		Appointment: ap,
	}
}
