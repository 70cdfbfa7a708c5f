package validators

import "time"

// IsValidWallClock accepts "15:04"-style times used by availability
// templates.
func IsValidWallClock(hm string) bool {
	_, err := time.Parse("15:04", hm)
	return err == nil
}

// WallClockBefore reports start < end for two valid wall-clock strings.
func WallClockBefore(start, end string) bool {
	s, err1 := time.Parse("15:04", start)
	e, err2 := time.Parse("15:04", end)
	if err1 != nil || err2 != nil {
		return false
	}
	return s.Before(e)
}
