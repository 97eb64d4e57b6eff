package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskcal/internal/apperr"
	"taskcal/internal/models"
	"taskcal/internal/recur"
)

type repeatRequest struct {
	RepeatType     string            `json:"repeatType"`
	RepeatInterval int               `json:"repeatInterval"`
	RepeatEndDate  *models.LocalTime `json:"repeatEndDate"`
}

// handleExpandRepeat materializes the occurrences of a template under the
// submitted rule. The rule is validated before anything is written; the
// template's stored rule is updated to match what was materialized.
func (s *Server) handleExpandRepeat(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req repeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	repeatType, ok := models.ParseRepeatType(req.RepeatType)
	if !ok {
		s.respondError(c, apperr.NewInvalidRule("repeatType", "unknown repeat type"))
		return
	}

	ctx := c.Request.Context()
	template, err := s.store.GetTask(ctx, currentUserID(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	rule := recur.Rule{Type: repeatType, Interval: req.RepeatInterval, EndDate: req.RepeatEndDate}
	if err := rule.Validate(template); err != nil {
		s.respondError(c, err)
		return
	}

	template.RepeatType = rule.Type
	template.RepeatInterval = rule.Interval
	template.RepeatEndDate = rule.EndDate
	if err := s.store.SaveTask(ctx, &template); err != nil {
		s.respondError(c, err)
		return
	}

	occurrences, err := s.materialize(c, template, rule)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"occurrences": occurrences})
}

// handleListOccurrences returns the occurrences generated from a template.
func (s *Server) handleListOccurrences(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	occurrences, err := s.store.ListOccurrences(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"occurrences": occurrences})
}

// handleDeleteOccurrences removes every occurrence generated from a template.
func (s *Server) handleDeleteOccurrences(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	deleted, err := s.store.DeleteOccurrences(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": deleted})
}
