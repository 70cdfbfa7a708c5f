package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentNumber string `gorm:"size:20;uniqueIndex:idx_appointment_number;not null" json:"appointment_number"`

	PatientID uint `json:"patient_id"`
	Patient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient"`

	DoctorID uint          `json:"doctor_id"`
	Doctor   DoctorProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor"`

	// The slot can be released while the appointment keeps its own time copy.
	TimeSlotID *uint     `json:"time_slot_id"`
	TimeSlot   *TimeSlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"time_slot,omitempty"`

	Date      time.Time `gorm:"type:date" json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status   string `gorm:"size:15;default:'confirmed'" json:"status"`
	Reason   string `gorm:"type:text" json:"reason"`
	Symptoms string `gorm:"type:text" json:"symptoms"`

	VideoRoomURL string `gorm:"size:500" json:"video_room_url"`
	VideoHostURL string `gorm:"size:500" json:"-"`
	VideoRoomID  string `gorm:"size:50" json:"video_room_id"`

	CancellationReason string     `gorm:"type:text" json:"cancellation_reason"`
	CancelledByID      *uint      `json:"cancelled_by_id"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	RescheduledFromID *uint `json:"rescheduled_from_id"`
	RescheduleCount   int   `gorm:"default:0" json:"reschedule_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
