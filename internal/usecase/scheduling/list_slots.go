package scheduling

import (
	"context"
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/cache"
	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

type ListAvailableSlots struct {
	repo  domain.Repository
	cache *cache.SlotCache
	loc   *time.Location
}

func NewListAvailableSlots(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	loc *time.Location,
) *ListAvailableSlots {
	return &ListAvailableSlots{
		repo:  repo,
		cache: slotCache,
		loc:   loc,
	}
}

// Execute lists a doctor's open slots in [from, to); nil bounds default
// to today and today plus the default horizon. Listings are served from
// redis when possible; writers bump the doctor's cache version.
func (uc *ListAvailableSlots) Execute(
	ctx context.Context,
	doctorID uint,
	from *time.Time,
	to *time.Time,
) ([]models.TimeSlot, error) {

	now := time.Now().In(uc.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)

	start := dayStart
	if from != nil {
		start = *from
	}
	end := dayStart.AddDate(0, 0, domain.DefaultHorizonDays)
	if to != nil {
		end = *to
	}

	if slots, ok := uc.cache.GetAvailable(ctx, doctorID, start, end); ok {
		return slots, nil
	}

	slots, err := uc.repo.ListAvailableSlots(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	uc.cache.SetAvailable(ctx, doctorID, start, end, slots)

	return slots, nil
}
