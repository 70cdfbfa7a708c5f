package meeting

import (
	"context"
	"time"
)

// Room is a provisioned video room. GuestURL is handed to patients,
// HostURL to the doctor.
type Room struct {
	ID       string
	GuestURL string
	HostURL  string
}

// Provider mints meeting rooms. Implementations must return a brand-new
// room on every call; the caller decides whether to reuse an existing one.
type Provider interface {
	CreateRoom(ctx context.Context, endDate time.Time) (*Room, error)
}
