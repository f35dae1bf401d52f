package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"backend/internal/models"
)

// dueReminderCond selects incomplete tasks whose reminder interval has
// elapsed since the last reminder (or since creation, if never reminded).
const dueReminderCond = `is_completed = false
	  AND reminder_interval_minutes IS NOT NULL
	  AND reminder_interval_minutes > 0
	  AND COALESCE(last_reminded_at, created_at) + make_interval(mins => reminder_interval_minutes) <= NOW()`

type TaskRepository interface {
	Create(task *models.Task) error
	ListByUser(userID string) ([]models.Task, error)
	GetByID(id int64, userID string) (*models.Task, error)
	Update(task *models.Task) error
	Delete(id int64, userID string) error
	ListDueReminders(userID string) ([]models.Task, error)
	ListAllDueReminders() ([]models.Task, error)
	AcknowledgeReminder(id int64, userID string) error
	MarkReminded(id int64) error
}

type taskRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTaskRepository(db *sqlx.DB, logger *zap.Logger) TaskRepository {
	return &taskRepository{db: db, logger: logger}
}

func (r *taskRepository) Create(task *models.Task) error {
	query := `INSERT INTO tasks (user_id, title, description, deadline_at, reminder_interval_minutes)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, is_completed, created_at, updated_at`
	return r.db.QueryRowx(query, task.UserID, task.Title, task.Description, task.DeadlineAt, task.ReminderIntervalMinutes).StructScan(task)
}

func (r *taskRepository) ListByUser(userID string) ([]models.Task, error) {
	tasks := []models.Task{}
	query := `SELECT * FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&tasks, query, userID); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(id int64, userID string) (*models.Task, error) {
	var task models.Task
	query := `SELECT * FROM tasks WHERE id = $1 AND user_id = $2`
	err := r.db.Get(&task, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Update(task *models.Task) error {
	query := `UPDATE tasks
	          SET title = $1, description = $2, is_completed = $3, deadline_at = $4,
	              reminder_interval_minutes = $5, updated_at = NOW()
	          WHERE id = $6 AND user_id = $7
	          RETURNING updated_at`
	err := r.db.QueryRowx(query, task.Title, task.Description, task.IsCompleted, task.DeadlineAt,
		task.ReminderIntervalMinutes, task.ID, task.UserID).Scan(&task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *taskRepository) Delete(id int64, userID string) error {
	result, err := r.db.Exec(`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *taskRepository) ListDueReminders(userID string) ([]models.Task, error) {
	tasks := []models.Task{}
	query := `SELECT * FROM tasks WHERE user_id = $1 AND ` + dueReminderCond + ` ORDER BY created_at`
	if err := r.db.Select(&tasks, query, userID); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ListAllDueReminders() ([]models.Task, error) {
	tasks := []models.Task{}
	query := `SELECT * FROM tasks WHERE ` + dueReminderCond + ` ORDER BY created_at`
	if err := r.db.Select(&tasks, query); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) AcknowledgeReminder(id int64, userID string) error {
	result, err := r.db.Exec(`UPDATE tasks SET last_reminded_at = NOW() WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *taskRepository) MarkReminded(id int64) error {
	_, err := r.db.Exec(`UPDATE tasks SET last_reminded_at = NOW() WHERE id = $1`, id)
	return err
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
