package jobs

import (
	"context"
	"log/slog"

	"laundry/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReservationJanitorJob sweeps machine reservations orphaned by completed
// orders. Runs every minute so a forgotten release never blocks a machine
// for long.
type ReservationJanitorJob struct {
	handler commands.ReleaseStaleReservationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewReservationJanitorJob creates a new job for freeing stale reservations.
func NewReservationJanitorJob(
	handler commands.ReleaseStaleReservationsCommandHandler, logger *slog.Logger,
) *ReservationJanitorJob {
	return &ReservationJanitorJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "reservation_janitor_job"),
	}
}

// Start begins the janitor job to run every minute.
func (j *ReservationJanitorJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewReleaseStaleReservationsCommand()

		freed, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Reservation janitor job failed", "error", err)
			return
		}

		if freed > 0 {
			j.logger.InfoContext(ctx, "Released stale machine reservations", "count", freed)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reservation janitor job started (running every minute)")
	return nil
}

// Stop stops the janitor job.
func (j *ReservationJanitorJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reservation janitor job stopped")
}
