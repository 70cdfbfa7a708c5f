package scheduling

import (
	"context"
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/audit"
	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/meeting"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

type JoinSession struct {
	repo     domain.Repository
	meetings meeting.Provider
	audit    *audit.Dispatcher
	loc      *time.Location
}

func NewJoinSession(
	repo domain.Repository,
	meetings meeting.Provider,
	auditDispatcher *audit.Dispatcher,
	loc *time.Location,
) *JoinSession {
	return &JoinSession{
		repo:     repo,
		meetings: meetings,
		audit:    auditDispatcher,
		loc:      loc,
	}
}

// Execute returns the join URL for the actor's role, minting the room on
// first use. A provider outage surfaces as dependency_unavailable and
// leaves the appointment untouched; callers simply retry.
func (uc *JoinSession) Execute(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
) (string, error) {

	ap, err := uc.repo.GetAppointmentForActor(ctx, appointmentID, actor)
	if err != nil {
		return "", err
	}

	now := time.Now().In(uc.loc)
	if !domain.CanJoin(ap, now) {
		s := domain.Status(ap.Status)
		if s != domain.StatusConfirmed && s != domain.StatusInProgress {
			return "", httperr.ErrInvalidState("not_joinable", "Appointment is not in a joinable state.")
		}
		return "", httperr.ErrPolicy("join_window_closed", "The meeting can be joined from 15 minutes before start until 30 minutes after end.")
	}

	host := actor.IsDoctor()

	// Idempotent: an existing session with the URL this role needs is
	// returned unchanged.
	if ap.VideoRoomURL != "" && (!host || ap.VideoHostURL != "") {
		return roleURL(ap, host), nil
	}

	if err := uc.mintSession(ctx, ap); err != nil {
		return "", err
	}

	return roleURL(ap, host), nil
}

// Regenerate always provisions a fresh room with new identifiers, so a
// rescheduled appointment never reuses a stale one.
func (uc *JoinSession) Regenerate(
	ctx context.Context,
	appointmentID uint,
	actor domain.Actor,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForActor(ctx, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	if err := uc.mintSession(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "session_regenerated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"room_id": ap.VideoRoomID},
	})

	return ap, nil
}

func (uc *JoinSession) mintSession(ctx context.Context, ap *models.Appointment) error {
	// Rooms stay valid a day past the appointment end, matching the
	// provider's endDate requirement.
	room, err := uc.meetings.CreateRoom(ctx, ap.EndTime.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	ap.VideoRoomURL = room.GuestURL
	ap.VideoHostURL = room.HostURL
	ap.VideoRoomID = room.ID

	// Persisted outside the meeting call as a small follow-up update.
	return uc.repo.UpdateSessionFields(ctx, ap)
}

func roleURL(ap *models.Appointment, host bool) string {
	if host && ap.VideoHostURL != "" {
		return ap.VideoHostURL
	}
	return ap.VideoRoomURL
}
