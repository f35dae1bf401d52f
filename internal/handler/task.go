package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/repository"
)

type TaskHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	ListReminders(c *gin.Context)
	AcknowledgeReminder(c *gin.Context)
}

type taskHandler struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func NewTaskHandler(tasks repository.TaskRepository, logger *zap.Logger) TaskHandler {
	return &taskHandler{tasks: tasks, logger: logger}
}

type CreateTaskRequest struct {
	Title                   string     `json:"title" binding:"required"`
	Description             *string    `json:"description"`
	DeadlineAt              *time.Time `json:"deadline_at"`
	ReminderIntervalMinutes *int       `json:"reminder_interval_minutes"`
}

// UpdateTaskRequest carries a partial update; nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title                   *string    `json:"title"`
	Description             *string    `json:"description"`
	IsCompleted             *bool      `json:"is_completed"`
	DeadlineAt              *time.Time `json:"deadline_at"`
	ReminderIntervalMinutes *int       `json:"reminder_interval_minutes"`
}

func (h *taskHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(string)

	tasks, err := h.tasks.ListByUser(userID)
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *taskHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(string)

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := &models.Task{
		UserID:                  userID,
		Title:                   req.Title,
		Description:             req.Description,
		DeadlineAt:              req.DeadlineAt,
		ReminderIntervalMinutes: req.ReminderIntervalMinutes,
	}
	if err := h.tasks.Create(task); err != nil {
		h.logger.Error("Failed to create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *taskHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(string)

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.GetByID(taskID, userID)
	if err != nil {
		h.respondTaskError(c, err, "Failed to load task")
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}
	if req.DeadlineAt != nil {
		task.DeadlineAt = req.DeadlineAt
	}
	if req.ReminderIntervalMinutes != nil {
		task.ReminderIntervalMinutes = req.ReminderIntervalMinutes
	}

	if err := h.tasks.Update(task); err != nil {
		h.respondTaskError(c, err, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *taskHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(string)

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	if err := h.tasks.Delete(taskID, userID); err != nil {
		h.respondTaskError(c, err, "Failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListReminders returns the caller's tasks whose reminder is currently due.
func (h *taskHandler) ListReminders(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(string)

	tasks, err := h.tasks.ListDueReminders(userID)
	if err != nil {
		h.logger.Error("Failed to list due reminders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reminders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": tasks})
}

func (h *taskHandler) AcknowledgeReminder(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(string)

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	if err := h.tasks.AcknowledgeReminder(taskID, userID); err != nil {
		h.respondTaskError(c, err, "Failed to acknowledge reminder")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *taskHandler) respondTaskError(c *gin.Context, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
