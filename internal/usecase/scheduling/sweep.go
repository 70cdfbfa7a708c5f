package scheduling

import (
	"context"
	"time"

	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
)

// SweepPastSlots deletes slots whose date has passed the retention
// window and that were never booked. Booked and blocked slots are kept
// for history.
type SweepPastSlots struct {
	repo          domain.Repository
	retentionDays int
	loc           *time.Location
}

func NewSweepPastSlots(repo domain.Repository, retentionDays int, loc *time.Location) *SweepPastSlots {
	if retentionDays < 0 {
		retentionDays = 0
	}
	return &SweepPastSlots{
		repo:          repo,
		retentionDays: retentionDays,
		loc:           loc,
	}
}

func (uc *SweepPastSlots) Execute(ctx context.Context) (int64, error) {
	now := time.Now().In(uc.loc)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc).
		AddDate(0, 0, -uc.retentionDays)

	return uc.repo.DeletePastAvailableSlots(ctx, cutoff)
}
