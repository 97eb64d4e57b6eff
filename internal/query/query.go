// Package query contains the read-only projections used by the list views.
// Every function is a pure, order-stable filter over a task snapshot; an
// empty result is a valid outcome, never an error.
package query

import (
	"sort"
	"strings"
	"time"

	"taskcal/internal/dates"
	"taskcal/internal/models"
)

// DefaultUpcomingHours is the horizon of the upcoming view.
const DefaultUpcomingHours = 24

// InRange returns tasks whose start time falls within [start, end].
func InRange(tasks []models.Task, start, end time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		s := t.StartTime.Time
		if !s.Before(start) && !s.After(end) {
			out = append(out, t)
		}
	}
	sortByStart(out)
	return out
}

// Today returns tasks starting on the calendar day containing now.
func Today(tasks []models.Task, now time.Time, loc *time.Location) []models.Task {
	return InRange(tasks, dates.StartOfDay(now, loc), dates.EndOfDay(now, loc))
}

// ThisWeek returns tasks starting in the Monday-to-Sunday week containing now.
func ThisWeek(tasks []models.Task, now time.Time, loc *time.Location) []models.Task {
	return InRange(tasks, dates.StartOfWeek(now, loc), dates.EndOfWeek(now, loc))
}

// ThisMonth returns tasks starting in the month containing now.
func ThisMonth(tasks []models.Task, now time.Time, loc *time.Location) []models.Task {
	return InRange(tasks, dates.StartOfMonth(now, loc), dates.EndOfMonth(now, loc))
}

// Upcoming returns open tasks starting in (now, now+horizon], earliest first.
// Completed and cancelled tasks are excluded.
func Upcoming(tasks []models.Task, now time.Time, horizon time.Duration) []models.Task {
	limit := now.Add(horizon)
	var out []models.Task
	for _, t := range tasks {
		if t.Status.Closed() {
			continue
		}
		s := t.StartTime.Time
		if s.After(now) && !s.After(limit) {
			out = append(out, t)
		}
	}
	sortByStart(out)
	return out
}

// ByStatus filters tasks with the given status, keeping input order.
func ByStatus(tasks []models.Task, status models.Status) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// ByPriority filters tasks with the given priority, keeping input order.
func ByPriority(tasks []models.Task, priority models.Priority) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Priority == priority {
			out = append(out, t)
		}
	}
	return out
}

// ByCategory filters tasks with the given category, keeping input order.
func ByCategory(tasks []models.Task, category string) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Search returns tasks whose title or description contains the keyword,
// case-insensitively, keeping input order.
func Search(tasks []models.Task, keyword string) []models.Task {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return nil
	}
	var out []models.Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}

// IsOverdue reports whether the task is late as of now. Closed tasks are
// never overdue. The reference instant is the end time when set, otherwise
// the start time; the task is overdue once that instant is strictly before
// now.
func IsOverdue(t models.Task, now time.Time) bool {
	if t.Status.Closed() {
		return false
	}
	ref := t.StartTime.Time
	if t.EndTime != nil && !t.AllDay {
		ref = t.EndTime.Time
	}
	return ref.Before(now)
}

// Overdue returns all late tasks ordered by their reference instant.
func Overdue(tasks []models.Task, now time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if IsOverdue(t, now) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return refInstant(out[i]).Before(refInstant(out[j]))
	})
	return out
}

func refInstant(t models.Task) time.Time {
	if t.EndTime != nil && !t.AllDay {
		return t.EndTime.Time
	}
	return t.StartTime.Time
}

func sortByStart(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].StartTime.Before(tasks[j].StartTime.Time)
	})
}
