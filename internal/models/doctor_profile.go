package models

import "time"

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

type DoctorProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Specialization  string  `gorm:"size:100" json:"specialization"`
	Bio             string  `gorm:"size:500" json:"bio"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee float64 `json:"consultation_fee"`

	VerificationStatus string `gorm:"size:10;default:'pending'" json:"verification_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *DoctorProfile) IsVerified() bool {
	return d.VerificationStatus == VerificationVerified
}
