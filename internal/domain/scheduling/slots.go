package scheduling

import (
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

const (
	SlotDuration = 30 * time.Minute

	DefaultHorizonDays = 30
	MaxHorizonDays     = 90
)

// DayStart is midnight of t's calendar day, in t's own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ClampHorizon defaults out-of-range horizons instead of rejecting them.
func ClampHorizon(days int) int {
	if days < 1 || days > MaxHorizonDays {
		return DefaultHorizonDays
	}
	return days
}

// SlotKey identifies a slot within one doctor's calendar.
type SlotKey struct {
	Date  string // 2006-01-02
	Start string // 15:04
}

func KeyOf(slot *models.TimeSlot) SlotKey {
	return SlotKey{
		Date:  slot.Date.Format("2006-01-02"),
		Start: slot.StartTime.Format("15:04"),
	}
}

func parseWallClock(day time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), true
}

// ExpandTemplates walks [today, today+horizonDays) and produces the slots
// the weekly templates imply, skipping keys already present in existing.
// Pure: the caller supplies the current slot set and persists the result.
func ExpandTemplates(
	templates []models.AvailabilityTemplate,
	today time.Time,
	horizonDays int,
	existing map[SlotKey]struct{},
) []models.TimeSlot {

	var out []models.TimeSlot
	seen := make(map[SlotKey]struct{}, len(existing))
	for k := range existing {
		seen[k] = struct{}{}
	}

	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	for offset := 0; offset < horizonDays; offset++ {
		day := dayStart.AddDate(0, 0, offset)
		weekday := int(day.Weekday())

		for _, tpl := range templates {
			if !tpl.Active || tpl.DayOfWeek != weekday {
				continue
			}

			windowStart, ok1 := parseWallClock(day, tpl.StartTime)
			windowEnd, ok2 := parseWallClock(day, tpl.EndTime)
			if !ok1 || !ok2 {
				continue
			}

			for cur := windowStart; !cur.Add(SlotDuration).After(windowEnd); cur = cur.Add(SlotDuration) {
				slot := models.TimeSlot{
					DoctorID:  tpl.DoctorID,
					Date:      day,
					StartTime: cur,
					EndTime:   cur.Add(SlotDuration),
					Status:    models.SlotAvailable,
				}

				key := KeyOf(&slot)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				out = append(out, slot)
			}
		}
	}

	return out
}
