package scheduling

import (
	"math/rand"
	"time"
)

const numberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewAppointmentNumber returns an identifier like APT-20260830-K7Q2.
// Uniqueness is ultimately enforced by the database index; collisions
// are retried by the caller on insert.
func NewAppointmentNumber(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = numberAlphabet[rand.Intn(len(numberAlphabet))]
	}
	return "APT-" + now.Format("20060102") + "-" + string(suffix)
}
