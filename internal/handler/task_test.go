package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/repository"
)

type memoryTaskRepo struct {
	nextID int64
	tasks  map[int64]*models.Task
}

func newMemoryTaskRepo() *memoryTaskRepo {
	return &memoryTaskRepo{nextID: 1, tasks: map[int64]*models.Task{}}
}

func (m *memoryTaskRepo) Create(task *models.Task) error {
	task.ID = m.nextID
	m.nextID++
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *memoryTaskRepo) ListByUser(userID string) ([]models.Task, error) {
	out := []models.Task{}
	for _, task := range m.tasks {
		if task.UserID == userID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (m *memoryTaskRepo) GetByID(id int64, userID string) (*models.Task, error) {
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *memoryTaskRepo) Update(task *models.Task) error {
	stored, ok := m.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return repository.ErrNotFound
	}
	task.UpdatedAt = time.Now()
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *memoryTaskRepo) Delete(id int64, userID string) error {
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memoryTaskRepo) ListDueReminders(userID string) ([]models.Task, error) {
	out := []models.Task{}
	for _, task := range m.tasks {
		if task.UserID == userID && task.ReminderIntervalMinutes != nil && task.LastRemindedAt == nil {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (m *memoryTaskRepo) ListAllDueReminders() ([]models.Task, error) { return nil, nil }

func (m *memoryTaskRepo) AcknowledgeReminder(id int64, userID string) error {
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return repository.ErrNotFound
	}
	now := time.Now()
	task.LastRemindedAt = &now
	return nil
}

func (m *memoryTaskRepo) MarkReminded(int64) error { return nil }

// newTaskRouter runs the task handler behind a stub identity middleware.
func newTaskRouter(repo repository.TaskRepository, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	taskHandler := NewTaskHandler(repo, zap.NewNop())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxUserEmail, userID+"@example.com")
	})
	router.GET("/api/tasks", taskHandler.List)
	router.POST("/api/tasks", taskHandler.Create)
	router.PUT("/api/tasks/:id", taskHandler.Update)
	router.DELETE("/api/tasks/:id", taskHandler.Delete)
	router.GET("/api/tasks/reminders", taskHandler.ListReminders)
	router.POST("/api/tasks/:id/reminders/ack", taskHandler.AcknowledgeReminder)
	return router
}

func request(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTaskCreateAndList(t *testing.T) {
	repo := newMemoryTaskRepo()
	router := newTaskRouter(repo, "u1")

	w := request(router, http.MethodPost, "/api/tasks", gin.H{
		"title":       "write report",
		"description": "quarterly numbers",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "u1", created.UserID)
	assert.False(t, created.IsCompleted)

	w = request(router, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "write report")
}

func TestTaskCreate_MissingTitle(t *testing.T) {
	router := newTaskRouter(newMemoryTaskRepo(), "u1")

	w := request(router, http.MethodPost, "/api/tasks", gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskUpdate(t *testing.T) {
	repo := newMemoryTaskRepo()
	router := newTaskRouter(repo, "u1")

	w := request(router, http.MethodPost, "/api/tasks", gin.H{"title": "draft"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(router, http.MethodPut, "/api/tasks/1", gin.H{
		"title":        "final",
		"is_completed": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "final", updated.Title)
	assert.True(t, updated.IsCompleted)
}

func TestTaskUpdate_NotOwned(t *testing.T) {
	repo := newMemoryTaskRepo()
	owner := newTaskRouter(repo, "u1")
	intruder := newTaskRouter(repo, "u2")

	w := request(owner, http.MethodPost, "/api/tasks", gin.H{"title": "private"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(intruder, http.MethodPut, "/api/tasks/1", gin.H{"title": "stolen"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskDelete(t *testing.T) {
	repo := newMemoryTaskRepo()
	router := newTaskRouter(repo, "u1")

	w := request(router, http.MethodPost, "/api/tasks", gin.H{"title": "temp"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(router, http.MethodDelete, "/api/tasks/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(router, http.MethodDelete, "/api/tasks/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskDelete_BadID(t *testing.T) {
	router := newTaskRouter(newMemoryTaskRepo(), "u1")

	w := request(router, http.MethodDelete, "/api/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskReminders_ListAndAcknowledge(t *testing.T) {
	repo := newMemoryTaskRepo()
	router := newTaskRouter(repo, "u1")

	w := request(router, http.MethodPost, "/api/tasks", gin.H{
		"title":                     "call dentist",
		"reminder_interval_minutes": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(router, http.MethodGet, "/api/tasks/reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "call dentist")

	w = request(router, http.MethodPost, "/api/tasks/1/reminders/ack", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(router, http.MethodGet, "/api/tasks/reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "call dentist")
}
