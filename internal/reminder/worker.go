// Package reminder runs the background scan for tasks whose reminder
// interval has elapsed.
package reminder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"backend/internal/models"
	"backend/internal/repository"
)

// Notifier delivers a due-task reminder to an external channel.
type Notifier interface {
	NotifyDueTask(task *models.Task, userEmail string) error
}

// Worker periodically scans for due reminders and pushes them through the
// notifier. Tasks are stamped as reminded only after successful delivery, so
// the in-app reminder feed keeps showing them until the client acknowledges.
type Worker struct {
	tasks        repository.TaskRepository
	users        repository.UserRepository
	notifier     Notifier
	logger       *zap.Logger
	pollInterval int64
}

// NewWorker creates a reminder worker. notifier may be nil, in which case the
// worker only logs due reminders.
func NewWorker(tasks repository.TaskRepository, users repository.UserRepository, notifier Notifier, logger *zap.Logger, pollInterval int64) *Worker {
	return &Worker{
		tasks:        tasks,
		users:        users,
		notifier:     notifier,
		logger:       logger,
		pollInterval: pollInterval,
	}
}

// Run starts the periodic reminder scan and blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Reminder worker started.")

	ticker := time.NewTicker(time.Duration(w.pollInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reminder worker stopped.")
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan processes all currently due reminders once.
func (w *Worker) Scan() {
	due, err := w.tasks.ListAllDueReminders()
	if err != nil {
		w.logger.Error("Failed to list due reminders", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	w.logger.Info("Due reminders found", zap.Int("count", len(due)))

	if w.notifier == nil {
		return
	}

	for i := range due {
		task := &due[i]

		user, err := w.users.GetByID(task.UserID)
		if err != nil {
			w.logger.Error("Failed to resolve task owner",
				zap.Int64("task_id", task.ID),
				zap.Error(err))
			continue
		}

		if err := w.notifier.NotifyDueTask(task, user.Email); err != nil {
			w.logger.Error("Failed to notify due task",
				zap.Int64("task_id", task.ID),
				zap.Error(err))
			continue
		}

		if err := w.tasks.MarkReminded(task.ID); err != nil {
			w.logger.Error("Failed to mark task as reminded",
				zap.Int64("task_id", task.ID),
				zap.Error(err))
		}
	}
}
