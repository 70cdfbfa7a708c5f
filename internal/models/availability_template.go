package models

import "time"

// AvailabilityTemplate is a doctor's recurring weekly open window.
// Times use the "15:04" wall-clock format in the clinic timezone.
type AvailabilityTemplate struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"uniqueIndex:idx_template_doctor_day_start" json:"doctor_id"`

	// DayOfWeek follows time.Weekday numbering: Sunday is 0, Saturday is 6.
	DayOfWeek int `gorm:"uniqueIndex:idx_template_doctor_day_start" json:"day_of_week"`

	StartTime string `gorm:"size:5;uniqueIndex:idx_template_doctor_day_start" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
