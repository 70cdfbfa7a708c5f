package dto

import "time"

type AppointmentListDTO struct {
	ID                uint      `json:"id"`
	AppointmentNumber string    `json:"appointment_number"`
	Date              time.Time `json:"date"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Status            string    `json:"status"`
	Reason            string    `json:"reason"`
	PatientName       string    `json:"patient_name"`
	DoctorName        string    `json:"doctor_name"`
	Specialization    string    `json:"doctor_specialization"`
	RescheduleCount   int       `json:"reschedule_count"`
	CanCancel         bool      `json:"can_cancel"`
	CanReschedule     bool      `json:"can_reschedule"`
	CanJoin           bool      `json:"can_join"`
}
