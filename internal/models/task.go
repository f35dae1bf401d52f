package models

import "time"

type Task struct {
	ID                      int64      `db:"id" json:"id"`
	UserID                  string     `db:"user_id" json:"user_id"`
	Title                   string     `db:"title" json:"title"`
	Description             *string    `db:"description" json:"description"`
	IsCompleted             bool       `db:"is_completed" json:"is_completed"`
	CreatedAt               time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updated_at"`
	DeadlineAt              *time.Time `db:"deadline_at" json:"deadline_at"`
	ReminderIntervalMinutes *int       `db:"reminder_interval_minutes" json:"reminder_interval_minutes"`
	LastRemindedAt          *time.Time `db:"last_reminded_at" json:"last_reminded_at"`
}
