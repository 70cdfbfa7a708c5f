package scheduling

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/meeting"
)

type fakeProvider struct {
	calls int
	fail  bool
}

func (p *fakeProvider) CreateRoom(ctx context.Context, endDate time.Time) (*meeting.Room, error) {
	p.calls++
	if p.fail {
		return nil, httperr.ErrDependency("meeting_provider_unavailable", "Meeting provider did not respond.")
	}
	return &meeting.Room{
		ID:       fmt.Sprintf("room-%d", p.calls),
		GuestURL: fmt.Sprintf("https://meet.example.com/room-%d", p.calls),
		HostURL:  fmt.Sprintf("https://meet.example.com/room-%d?host", p.calls),
	}, nil
}

func TestJoinSession(t *testing.T) {
	ctx := context.Background()
	inWindow := time.Now().UTC().Add(5 * time.Minute)

	t.Run("first join mints the room", func(t *testing.T) {
		repo := newFakeRepo()
		ap, _ := seedBookedAppointment(repo, domain.StatusConfirmed, inWindow)
		provider := &fakeProvider{}

		uc := NewJoinSession(repo, provider, testAudit(), time.UTC)

		url, err := uc.Execute(ctx, ap.ID, patientActor())
		require.NoError(t, err)

		assert.Equal(t, "https://meet.example.com/room-1", url)
		assert.Equal(t, 1, provider.calls)
		assert.Equal(t, "room-1", repo.appointments[ap.ID].VideoRoomID)
	})

	t.Run("repeat joins reuse the room", func(t *testing.T) {
		repo := newFakeRepo()
		ap, _ := seedBookedAppointment(repo, domain.StatusConfirmed, inWindow)
		provider := &fakeProvider{}

		uc := NewJoinSession(repo, provider, testAudit(), time.UTC)

		first, err := uc.Execute(ctx, ap.ID, patientActor())
		require.NoError(t, err)
		second, err := uc.Execute(ctx, ap.ID, patientActor())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("doctor gets the host url", func(t *testing.T) {
		repo := newFakeRepo()
		ap, _ := seedBookedAppointment(repo, domain.StatusConfirmed, inWindow)
		provider := &fakeProvider{}

		uc := NewJoinSession(repo, provider, testAudit(), time.UTC)

		url, err := uc.Execute(ctx, ap.ID, doctorActor())
		require.NoError(t, err)
		assert.Equal(t, "https://meet.example.com/room-1?host", url)
	})

	t.Run("outside the window", func(t *testing.T) {
		repo := newFakeRepo()
		ap, _ := seedBookedAppointment(repo, domain.StatusConfirmed, time.Now().UTC().Add(3*time.Hour))
		provider := &fakeProvider{}

		uc := NewJoinSession(repo, provider, testAudit(), time.UTC)

		_, err := uc.Execute(ctx, ap.ID, patientActor())
		assert.True(t, httperr.IsBusiness(err, "join_window_closed"))
		assert.Zero(t, provider.calls)
	})

	t.Run("cancelled appointment is not joinable", func(t *testing.T) {
		repo := newFakeRepo()
		ap, _ := seedBookedAppointment(repo, domain.StatusCancelled, inWindow)
		provider := &fakeProvider{}

		uc := NewJoinSession(repo, provider, testAudit(), time.UTC)

		_, err := uc.Execute(ctx, ap.ID, patientActor())
		assert.True(t, httperr.IsBusiness(err, "not_joinable"))
	})

	t.Run("provider outage leaves the appointment untouched", func(t *testing.T) {
		repo := newFakeRepo()
		ap, _ := seedBookedAppointment(repo, domain.StatusConfirmed, inWindow)
		provider := &fakeProvider{fail: true}

		uc := NewJoinSession(repo, provider, testAudit(), time.UTC)

		_, err := uc.Execute(ctx, ap.ID, patientActor())
		assert.True(t, httperr.IsBusiness(err, "meeting_provider_unavailable"))
		assert.Empty(t, repo.appointments[ap.ID].VideoRoomURL)

		// Recovery: next join succeeds and persists the room.
		provider.fail = false
		url, err := uc.Execute(ctx, ap.ID, patientActor())
		require.NoError(t, err)
		assert.NotEmpty(t, url)
	})

	t.Run("regenerate always mints a fresh room", func(t *testing.T) {
		repo := newFakeRepo()
		ap, _ := seedBookedAppointment(repo, domain.StatusConfirmed, inWindow)
		provider := &fakeProvider{}

		uc := NewJoinSession(repo, provider, testAudit(), time.UTC)

		_, err := uc.Execute(ctx, ap.ID, doctorActor())
		require.NoError(t, err)

		out, err := uc.Regenerate(ctx, ap.ID, doctorActor())
		require.NoError(t, err)

		assert.Equal(t, "room-2", out.VideoRoomID)
		assert.Equal(t, 2, provider.calls)
		assert.Equal(t, "room-2", repo.appointments[ap.ID].VideoRoomID)
	})
}
