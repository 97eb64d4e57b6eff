package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskcal/internal/apperr"
	"taskcal/internal/models"
	"taskcal/internal/recur"
)

type taskRequest struct {
	Title          *string           `json:"title"`
	Description    *string           `json:"description"`
	StartTime      *models.LocalTime `json:"startTime"`
	EndTime        *models.LocalTime `json:"endTime"`
	Priority       *string           `json:"priority"`
	Status         *string           `json:"status"`
	Category       *string           `json:"category"`
	Color          *string           `json:"color"`
	AllDay         *bool             `json:"isAllDay"`
	RepeatType     *string           `json:"repeatType"`
	RepeatInterval *int              `json:"repeatInterval"`
	RepeatEndDate  *models.LocalTime `json:"repeatEndDate"`
}

// apply merges the request onto a task, validating every touched field.
// Nothing is persisted until the whole request has been accepted.
func (req taskRequest) apply(t *models.Task) error {
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.StartTime != nil {
		t.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if req.EndTime.IsZero() {
			t.EndTime = nil
		} else {
			end := *req.EndTime
			t.EndTime = &end
		}
	}
	if req.Priority != nil {
		p, ok := models.ParsePriority(*req.Priority)
		if !ok {
			return apperr.NewValidation("priority", "unknown priority")
		}
		t.Priority = p
	}
	if req.Status != nil {
		st, ok := models.ParseStatus(*req.Status)
		if !ok {
			return apperr.NewValidation("status", "unknown status")
		}
		t.Status = st
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Color != nil {
		t.Color = *req.Color
	}
	if req.AllDay != nil {
		t.AllDay = *req.AllDay
	}
	if req.RepeatType != nil {
		rt, ok := models.ParseRepeatType(*req.RepeatType)
		if !ok {
			return apperr.NewInvalidRule("repeatType", "unknown repeat type")
		}
		t.RepeatType = rt
	}
	if req.RepeatInterval != nil {
		t.RepeatInterval = *req.RepeatInterval
	}
	if req.RepeatEndDate != nil {
		if req.RepeatEndDate.IsZero() {
			t.RepeatEndDate = nil
		} else {
			end := *req.RepeatEndDate
			t.RepeatEndDate = &end
		}
	}

	if t.Title == "" {
		return apperr.NewValidation("title", "must not be empty")
	}
	if t.StartTime.IsZero() {
		return apperr.NewValidation("startTime", "must be set")
	}
	if t.AllDay {
		// All-day tasks carry no meaningful end time.
		t.EndTime = nil
	}
	if t.EndTime != nil && !t.EndTime.After(t.StartTime.Time) {
		return apperr.NewValidation("endTime", "must be after the start time")
	}
	if t.RepeatType != models.RepeatNone {
		if err := recur.RuleOf(*t).Validate(*t); err != nil {
			return err
		}
	}
	return nil
}

// handleListTasks returns every task of the authenticated user.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": tasks})
}

// handleGetTask fetches a single task.
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := s.store.GetTask(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleCreateTask validates and persists a new task. When the task carries a
// repeat rule its occurrences are materialized immediately; a failed
// occurrence write leaves the earlier ones in place rather than rolling back.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task := models.Task{
		UserID:         currentUserID(c),
		Priority:       models.PriorityMedium,
		Status:         models.StatusPending,
		Color:          models.DefaultTaskColor,
		RepeatType:     models.RepeatNone,
		RepeatInterval: 1,
	}
	if err := req.apply(&task); err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := s.store.CreateTask(ctx, &task); err != nil {
		s.respondError(c, err)
		return
	}

	occurrences, err := s.materialize(c, task, recur.RuleOf(task))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task, "occurrences": occurrences})
}

// materialize expands a template and persists each generated occurrence.
func (s *Server) materialize(c *gin.Context, template models.Task, rule recur.Rule) ([]models.Task, error) {
	occurrences, err := recur.Expand(template, rule)
	if err != nil {
		return nil, err
	}
	created := make([]models.Task, 0, len(occurrences))
	for i := range occurrences {
		if err := s.store.CreateTask(c.Request.Context(), &occurrences[i]); err != nil {
			// Partial materialization stays visible to the user.
			return created, err
		}
		created = append(created, occurrences[i])
	}
	return created, nil
}

// handleUpdateTask edits task fields. Editing a template does not cascade to
// occurrences already generated from it.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	task, err := s.store.GetTask(ctx, currentUserID(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := req.apply(&task); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.SaveTask(ctx, &task); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task. Deleting a template leaves its generated
// occurrences in place.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), currentUserID(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleCompleteTask marks a task completed.
func (s *Server) handleCompleteTask(c *gin.Context) {
	s.patchStatus(c, models.StatusCompleted)
}

// handleUpdateStatus sets an arbitrary status on a task.
func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, ok := models.ParseStatus(req.Status)
	if !ok {
		s.respondError(c, apperr.NewValidation("status", "unknown status"))
		return
	}
	s.patchStatus(c, status)
}

func (s *Server) patchStatus(c *gin.Context, status models.Status) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	task, err := s.store.GetTask(ctx, currentUserID(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	task.Status = status
	if err := s.store.SaveTask(ctx, &task); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}
