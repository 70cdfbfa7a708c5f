package scheduling

import (
	"context"
	"log"
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/audit"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/cache"
	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
)

// ======================================================
// USE CASE
// ======================================================

type GenerateSlots struct {
	repo  domain.Repository
	cache *cache.SlotCache
	audit *audit.Dispatcher
	loc   *time.Location
}

func NewGenerateSlots(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	auditDispatcher *audit.Dispatcher,
	loc *time.Location,
) *GenerateSlots {
	return &GenerateSlots{
		repo:  repo,
		cache: slotCache,
		audit: auditDispatcher,
		loc:   loc,
	}
}

// Execute expands the doctor's active weekly templates into concrete
// 30-minute slots over the clamped horizon. Re-running is safe: existing
// rows are diffed out and the insert ignores conflicts, so a slot that
// was booked meanwhile is never touched.
func (uc *GenerateSlots) Execute(
	ctx context.Context,
	doctorID uint,
	horizonDays int,
) (int, error) {

	doctor, err := uc.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return 0, err
	}
	if !doctor.IsVerified() {
		return 0, httperr.ErrPolicy("doctor_not_verified", "Only verified doctors can generate slots.")
	}

	days := domain.ClampHorizon(horizonDays)

	templates, err := uc.repo.ListActiveTemplates(ctx, doctorID)
	if err != nil {
		return 0, err
	}
	if len(templates) == 0 {
		return 0, nil
	}

	today := time.Now().In(uc.loc)
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, uc.loc)

	existing, err := uc.repo.ListSlotKeys(ctx, doctorID, dayStart, dayStart.AddDate(0, 0, days))
	if err != nil {
		return 0, err
	}

	candidates := domain.ExpandTemplates(templates, today, days, existing)

	created, err := uc.repo.CreateSlots(ctx, candidates)
	if err != nil {
		return 0, err
	}

	if created > 0 {
		uc.cache.Invalidate(ctx, doctorID)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &doctor.UserID,
		Action:   "slots_generated",
		Entity:   "time_slot",
		Metadata: map[string]any{"doctor_id": doctorID, "days": days, "created": created},
	})

	return created, nil
}

// ExecuteAll generates slots for every verified doctor; used by the
// nightly job. Per-doctor failures are logged and skipped.
func (uc *GenerateSlots) ExecuteAll(ctx context.Context, horizonDays int) int {
	ids, err := uc.repo.ListVerifiedDoctorIDs(ctx)
	if err != nil {
		log.Printf("generate slots: listing doctors failed: %v", err)
		return 0
	}

	total := 0
	for _, id := range ids {
		created, err := uc.Execute(ctx, id, horizonDays)
		if err != nil {
			log.Printf("generate slots: doctor %d failed: %v", id, err)
			continue
		}
		total += created
	}
	return total
}
