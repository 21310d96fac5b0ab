package jobs

import (
	"fmt"
	"log/slog"

	"laundry/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	reservationJanitorJob *ReservationJanitorJob
	readyReminderJob      *ReadyOrderReminderJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	releaseStaleHandler commands.ReleaseStaleReservationsCommandHandler,
	remindReadyHandler commands.RemindReadyOrdersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reservationJanitorJob: NewReservationJanitorJob(releaseStaleHandler, logger),
		readyReminderJob:      NewReadyOrderReminderJob(remindReadyHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reservationJanitorJob.Start(); err != nil {
		return fmt.Errorf("failed to start reservation janitor job: %w", err)
	}

	if err := jm.readyReminderJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.reservationJanitorJob.Stop()
		return fmt.Errorf("failed to start ready order reminder job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.readyReminderJob.Stop()
	jm.reservationJanitorJob.Stop()
}
