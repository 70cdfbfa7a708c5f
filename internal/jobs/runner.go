package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/notify"
	ucscheduling "github.com/mediconnect-dev/telehealth-scheduler/internal/usecase/scheduling"
)

// Runner owns the in-process scheduled work: nightly slot generation,
// the retention sweep and upcoming-appointment reminders.
type Runner struct {
	cron *cron.Cron

	generate *ucscheduling.GenerateSlots
	sweep    *ucscheduling.SweepPastSlots
	repo     domain.Repository
	notify   *notify.Dispatcher
	loc      *time.Location
}

func New(
	generate *ucscheduling.GenerateSlots,
	sweep *ucscheduling.SweepPastSlots,
	repo domain.Repository,
	notifyDispatcher *notify.Dispatcher,
	loc *time.Location,
) *Runner {
	return &Runner{
		cron:     cron.New(cron.WithLocation(loc)),
		generate: generate,
		sweep:    sweep,
		repo:     repo,
		notify:   notifyDispatcher,
		loc:      loc,
	}
}

func (r *Runner) Start() {
	r.cron.AddFunc("0 3 * * *", func() {
		total := r.generate.ExecuteAll(context.Background(), 0)
		log.Printf("jobs: nightly slot generation created %d slots", total)
	})

	r.cron.AddFunc("30 3 * * *", func() {
		deleted, err := r.sweep.Execute(context.Background())
		if err != nil {
			log.Printf("jobs: slot sweep failed: %v", err)
			return
		}
		log.Printf("jobs: slot sweep deleted %d past available slots", deleted)
	})

	r.cron.AddFunc("*/5 * * * *", r.sendReminders)

	r.cron.Start()
}

func (r *Runner) Stop() {
	r.cron.Stop()
}

// sendReminders picks confirmed appointments starting in roughly an
// hour. The 5-minute window matches the tick so each appointment is
// reminded once.
func (r *Runner) sendReminders() {
	now := time.Now().In(r.loc)
	lower := now.Add(60 * time.Minute)
	upper := now.Add(65 * time.Minute)

	appointments, err := r.repo.ListAppointmentsStartingBetween(context.Background(), lower, upper)
	if err != nil {
		log.Printf("jobs: reminder lookup failed: %v", err)
		return
	}

	for i := range appointments {
		r.notify.Dispatch(notify.NewEvent(notify.EventAppointmentReminder, appointments[i]))
	}
}
