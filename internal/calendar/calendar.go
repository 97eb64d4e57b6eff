// Package calendar groups tasks into day buckets for month-grid rendering.
package calendar

import (
	"time"

	"taskcal/internal/dates"
	"taskcal/internal/models"
)

// PreviewLimit is the number of tasks a grid cell renders before collapsing
// the remainder into an overflow count.
const PreviewLimit = 3

// GroupByDay buckets tasks by the calendar day of their start time, keyed
// YYYY-MM-DD in loc. Bucket order follows the input task order.
func GroupByDay(tasks []models.Task, loc *time.Location) map[string][]models.Task {
	grouped := make(map[string][]models.Task)
	for _, t := range tasks {
		key := dates.DayKey(t.StartTime.Time, loc)
		grouped[key] = append(grouped[key], t)
	}
	return grouped
}

// Day is one rendered grid cell: the first PreviewLimit tasks plus the count
// of hidden ones, with the full total still available.
type Day struct {
	Date     string        `json:"date"`
	Tasks    []models.Task `json:"tasks"`
	Overflow int           `json:"overflow"`
	Total    int           `json:"total"`
}

// Preview applies the per-cell cap to one day bucket.
func Preview(date string, tasks []models.Task) Day {
	day := Day{Date: date, Tasks: tasks, Total: len(tasks)}
	if len(tasks) > PreviewLimit {
		day.Tasks = tasks[:PreviewLimit]
		day.Overflow = len(tasks) - PreviewLimit
	}
	return day
}

// PreviewAll caps every bucket of a grouped task set.
func PreviewAll(grouped map[string][]models.Task) map[string]Day {
	out := make(map[string]Day, len(grouped))
	for date, tasks := range grouped {
		out[date] = Preview(date, tasks)
	}
	return out
}
