package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

var baseTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func appointmentAt(start time.Time, status Status) *models.Appointment {
	ap := &models.Appointment{
		DoctorID:  1,
		PatientID: 2,
		Date:      start.Truncate(24 * time.Hour),
		StartTime: start,
		EndTime:   start.Add(SlotDuration),
		Status:    string(status),
	}
	ap.ID = 10
	return ap
}

func TestCanCancel(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		status Status
		want   bool
	}{
		{"three hours before", baseTime.Add(3 * time.Hour), StatusConfirmed, true},
		{"exactly two hours before", baseTime.Add(2 * time.Hour), StatusConfirmed, false},
		{"one hour before", baseTime.Add(1 * time.Hour), StatusConfirmed, false},
		{"already started", baseTime.Add(-10 * time.Minute), StatusConfirmed, false},
		{"pending far out", baseTime.Add(48 * time.Hour), StatusPending, true},
		{"cancelled", baseTime.Add(48 * time.Hour), StatusCancelled, false},
		{"completed", baseTime.Add(48 * time.Hour), StatusCompleted, false},
		{"no show", baseTime.Add(48 * time.Hour), StatusNoShow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap := appointmentAt(tt.start, tt.status)
			assert.Equal(t, tt.want, CanCancel(ap, baseTime))
		})
	}
}

func TestCanReschedule_CountCap(t *testing.T) {
	ap := appointmentAt(baseTime.Add(48*time.Hour), StatusConfirmed)

	ap.RescheduleCount = 0
	assert.True(t, CanReschedule(ap, baseTime))

	ap.RescheduleCount = 1
	assert.True(t, CanReschedule(ap, baseTime))

	ap.RescheduleCount = 2
	assert.False(t, CanReschedule(ap, baseTime))
}

func TestCanJoin_Window(t *testing.T) {
	start := baseTime
	ap := appointmentAt(start, StatusConfirmed)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"sixteen minutes early", start.Add(-16 * time.Minute), false},
		{"fifteen minutes early", start.Add(-15 * time.Minute), true},
		{"at start", start, true},
		{"at end", ap.EndTime, true},
		{"thirty minutes after end", ap.EndTime.Add(30 * time.Minute), true},
		{"thirty-one minutes after end", ap.EndTime.Add(31 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanJoin(ap, tt.now))
		})
	}
}

func TestCanJoin_StatusGate(t *testing.T) {
	now := baseTime

	for _, s := range []Status{StatusConfirmed, StatusInProgress} {
		ap := appointmentAt(now, s)
		assert.True(t, CanJoin(ap, now), string(s))
	}

	for _, s := range []Status{StatusPending, StatusCancelled, StatusCompleted, StatusNoShow} {
		ap := appointmentAt(now, s)
		assert.False(t, CanJoin(ap, now), string(s))
	}
}

func TestCancel(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(3*time.Hour), StatusConfirmed)

		err := Cancel(ap, 7, "schedule conflict at work", baseTime)
		require.NoError(t, err)

		assert.Equal(t, string(StatusCancelled), ap.Status)
		assert.Equal(t, "schedule conflict at work", ap.CancellationReason)
		require.NotNil(t, ap.CancelledByID)
		assert.Equal(t, uint(7), *ap.CancelledByID)
		require.NotNil(t, ap.CancelledAt)
		assert.Equal(t, baseTime, *ap.CancelledAt)
	})

	t.Run("window closed", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(1*time.Hour), StatusConfirmed)

		err := Cancel(ap, 7, "schedule conflict at work", baseTime)
		assert.True(t, httperr.IsBusiness(err, "cancellation_window_closed"))
		assert.Equal(t, string(StatusConfirmed), ap.Status)
	})

	t.Run("reason too short", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(3*time.Hour), StatusConfirmed)

		err := Cancel(ap, 7, "   nope   ", baseTime)
		assert.True(t, httperr.IsBusiness(err, "invalid_cancellation_reason"))
	})

	t.Run("already closed", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(3*time.Hour), StatusCompleted)

		err := Cancel(ap, 7, "schedule conflict at work", baseTime)
		kind, ok := httperr.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, httperr.KindInvalidState, kind)
	})
}

func TestConfirmAndReject(t *testing.T) {
	ap := appointmentAt(baseTime.Add(24*time.Hour), StatusPending)
	require.NoError(t, Confirm(ap))
	assert.Equal(t, string(StatusConfirmed), ap.Status)

	err := Confirm(ap)
	kind, ok := httperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, httperr.KindInvalidState, kind)

	ap = appointmentAt(baseTime.Add(24*time.Hour), StatusPending)
	require.NoError(t, Reject(ap, 3, "not taking new patients", baseTime))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	require.NotNil(t, ap.CancelledByID)
	assert.Equal(t, uint(3), *ap.CancelledByID)
}

func TestStartCompleteNoShow(t *testing.T) {
	ap := appointmentAt(baseTime, StatusConfirmed)
	require.NoError(t, Start(ap))
	assert.Equal(t, string(StatusInProgress), ap.Status)

	require.NoError(t, Complete(ap))
	assert.Equal(t, string(StatusCompleted), ap.Status)

	assert.Error(t, Start(ap))
	assert.Error(t, Complete(ap))
	assert.Error(t, MarkNoShow(ap))

	ap = appointmentAt(baseTime, StatusConfirmed)
	require.NoError(t, MarkNoShow(ap))
	assert.Equal(t, string(StatusNoShow), ap.Status)
}

func TestReschedule(t *testing.T) {
	newSlot := func() *models.TimeSlot {
		s := &models.TimeSlot{
			DoctorID:  1,
			Date:      baseTime.AddDate(0, 0, 5),
			StartTime: baseTime.AddDate(0, 0, 5).Add(2 * time.Hour),
			EndTime:   baseTime.AddDate(0, 0, 5).Add(2*time.Hour + SlotDuration),
			Status:    models.SlotAvailable,
		}
		s.ID = 42
		return s
	}

	t.Run("success mutates appointment", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(24*time.Hour), StatusConfirmed)
		slot := newSlot()

		require.NoError(t, Reschedule(ap, slot, baseTime))

		require.NotNil(t, ap.TimeSlotID)
		assert.Equal(t, slot.ID, *ap.TimeSlotID)
		assert.Equal(t, slot.StartTime, ap.StartTime)
		assert.Equal(t, slot.EndTime, ap.EndTime)
		assert.Equal(t, 1, ap.RescheduleCount)
	})

	t.Run("limit reached", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(24*time.Hour), StatusConfirmed)
		ap.RescheduleCount = MaxReschedules

		err := Reschedule(ap, newSlot(), baseTime)
		assert.True(t, httperr.IsBusiness(err, "reschedule_limit_reached"))
	})

	t.Run("window closed", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(90*time.Minute), StatusConfirmed)

		err := Reschedule(ap, newSlot(), baseTime)
		assert.True(t, httperr.IsBusiness(err, "reschedule_window_closed"))
	})

	t.Run("in progress", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(24*time.Hour), StatusInProgress)

		err := Reschedule(ap, newSlot(), baseTime)
		kind, ok := httperr.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, httperr.KindInvalidState, kind)
	})

	t.Run("doctor mismatch", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(24*time.Hour), StatusConfirmed)
		slot := newSlot()
		slot.DoctorID = 99

		err := Reschedule(ap, slot, baseTime)
		assert.True(t, httperr.IsBusiness(err, "slot_doctor_mismatch"))
	})

	t.Run("slot taken", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(24*time.Hour), StatusConfirmed)
		slot := newSlot()
		slot.Status = models.SlotBooked

		err := Reschedule(ap, slot, baseTime)
		assert.True(t, httperr.IsBusiness(err, "slot_not_available"))
	})

	t.Run("slot in past", func(t *testing.T) {
		ap := appointmentAt(baseTime.Add(24*time.Hour), StatusConfirmed)
		slot := newSlot()
		slot.StartTime = baseTime.Add(-time.Hour)

		err := Reschedule(ap, slot, baseTime)
		assert.True(t, httperr.IsBusiness(err, "slot_in_past"))
	})
}
