package jobs

import (
	"context"
	"log/slog"

	"laundry/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReadyOrderReminderJob re-announces orders that have been waiting in a
// ready status. Runs every five minutes.
type ReadyOrderReminderJob struct {
	handler commands.RemindReadyOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewReadyOrderReminderJob creates a new job for ready order reminders.
func NewReadyOrderReminderJob(
	handler commands.RemindReadyOrdersCommandHandler, logger *slog.Logger,
) *ReadyOrderReminderJob {
	return &ReadyOrderReminderJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "ready_order_reminder_job"),
	}
}

// Start begins the reminder job to run every five minutes.
func (j *ReadyOrderReminderJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRemindReadyOrdersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Ready order reminder job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Ready order reminder job started (running every 5 minutes)")
	return nil
}

// Stop stops the reminder job.
func (j *ReadyOrderReminderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Ready order reminder job stopped")
}
