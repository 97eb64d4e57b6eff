package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskcal/internal/apperr"
	"taskcal/internal/calendar"
	"taskcal/internal/models"
	"taskcal/internal/query"
)

// snapshot loads the caller's full task set as one consistent working set.
func (s *Server) snapshot(c *gin.Context) ([]models.Task, bool) {
	tasks, err := s.store.ListTasks(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return tasks, true
}

// handleToday returns tasks starting today.
func (s *Server) handleToday(c *gin.Context) {
	tasks, ok := s.snapshot(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.Today(tasks, s.now(), s.loc)})
}

// handleThisWeek returns tasks starting in the current Monday-based week.
func (s *Server) handleThisWeek(c *gin.Context) {
	tasks, ok := s.snapshot(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.ThisWeek(tasks, s.now(), s.loc)})
}

// handleThisMonth returns tasks starting in the current month.
func (s *Server) handleThisMonth(c *gin.Context) {
	tasks, ok := s.snapshot(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.ThisMonth(tasks, s.now(), s.loc)})
}

// handleDateRange returns tasks starting within [start, end].
func (s *Server) handleDateRange(c *gin.Context) {
	start, err := models.ParseLocalTime(c.Query("start"))
	if err != nil {
		s.respondError(c, apperr.NewValidation("start", "expected "+models.TimeLayout))
		return
	}
	end, err := models.ParseLocalTime(c.Query("end"))
	if err != nil {
		s.respondError(c, apperr.NewValidation("end", "expected "+models.TimeLayout))
		return
	}
	if end.Before(start.Time) {
		s.respondError(c, apperr.NewValidation("end", "must not be before start"))
		return
	}

	tasks, ok := s.snapshot(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.InRange(tasks, start.Time, end.Time)})
}

// handleUpcoming returns open tasks starting within the horizon, default 24h.
func (s *Server) handleUpcoming(c *gin.Context) {
	horizon := query.DefaultUpcomingHours * time.Hour
	if raw := c.Query("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 1 {
			s.respondError(c, apperr.NewValidation("hours", "must be a positive integer"))
			return
		}
		horizon = time.Duration(hours) * time.Hour
	}

	tasks, ok := s.snapshot(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.Upcoming(tasks, s.now(), horizon)})
}

// handleOverdue returns late tasks ordered by how long they have slipped.
func (s *Server) handleOverdue(c *gin.Context) {
	tasks, ok := s.snapshot(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.Overdue(tasks, s.now())})
}

// handleSearch matches the keyword against titles and descriptions.
func (s *Server) handleSearch(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		s.respondError(c, apperr.NewValidation("keyword", "must not be empty"))
		return
	}
	tasks, ok := s.snapshot(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.Search(tasks, keyword)})
}

// handleByStatus filters tasks by lifecycle status.
func (s *Server) handleByStatus(c *gin.Context) {
	status, ok := models.ParseStatus(c.Param("status"))
	if !ok {
		s.respondError(c, apperr.NewValidation("status", "unknown status"))
		return
	}
	tasks, snapOK := s.snapshot(c)
	if !snapOK {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.ByStatus(tasks, status)})
}

// handleByPriority filters tasks by priority.
func (s *Server) handleByPriority(c *gin.Context) {
	priority, ok := models.ParsePriority(c.Param("priority"))
	if !ok {
		s.respondError(c, apperr.NewValidation("priority", "unknown priority"))
		return
	}
	tasks, snapOK := s.snapshot(c)
	if !snapOK {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.ByPriority(tasks, priority)})
}

// handleByCategory filters tasks by category label.
func (s *Server) handleByCategory(c *gin.Context) {
	tasks, ok := s.snapshot(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": query.ByCategory(tasks, c.Param("category"))})
}

// handleCalendar returns a month of tasks grouped by day with the per-cell
// preview cap applied; full per-day totals stay available to the client.
func (s *Server) handleCalendar(c *gin.Context) {
	now := s.now()
	year, month := now.Year(), int(now.Month())

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(c, apperr.NewValidation("year", "must be an integer"))
			return
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			s.respondError(c, apperr.NewValidation("month", "must be 1..12"))
			return
		}
		month = v
	}

	tasks, ok := s.snapshot(c)
	if !ok {
		return
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	inMonth := query.InRange(tasks, first, last)
	days := calendar.PreviewAll(calendar.GroupByDay(inMonth, s.loc))
	respondSuccess(c, http.StatusOK, gin.H{"days": days})
}
