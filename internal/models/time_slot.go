package models

import "time"

const (
	SlotAvailable = "available"
	SlotBooked    = "booked"
	SlotBlocked   = "blocked"
)

type TimeSlot struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"uniqueIndex:idx_slot_doctor_date_start" json:"doctor_id"`

	Date      time.Time `gorm:"type:date;uniqueIndex:idx_slot_doctor_date_start" json:"date"`
	StartTime time.Time `gorm:"uniqueIndex:idx_slot_doctor_date_start" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:10;default:'available'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
