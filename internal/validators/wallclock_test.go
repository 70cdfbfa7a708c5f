package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidWallClock(t *testing.T) {
	assert.True(t, IsValidWallClock("09:00"))
	assert.True(t, IsValidWallClock("23:59"))
	assert.False(t, IsValidWallClock("24:00"))
	assert.False(t, IsValidWallClock("9am"))
	assert.False(t, IsValidWallClock(""))
}

func TestWallClockBefore(t *testing.T) {
	assert.True(t, WallClockBefore("09:00", "10:00"))
	assert.False(t, WallClockBefore("10:00", "09:00"))
	assert.False(t, WallClockBefore("09:00", "09:00"))
	assert.False(t, WallClockBefore("bad", "10:00"))
}
