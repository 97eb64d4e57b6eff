// Package recur expands a recurrence template into its concrete occurrences.
// Expansion is a pure function: persistence and dedup are the caller's job.
package recur

import (
	"time"

	"taskcal/internal/apperr"
	"taskcal/internal/dates"
	"taskcal/internal/models"
)

// MaxOccurrences caps generation for any single rule. Rules without an end
// date are additionally bounded by DefaultHorizon from the template start.
// Unbounded generation is never allowed.
const MaxOccurrences = 1000

// DefaultHorizon bounds rules that carry no end date.
const DefaultHorizon = time.Hour * 24 * 365

// Rule describes how a template repeats.
type Rule struct {
	Type     models.RepeatType
	Interval int
	EndDate  *models.LocalTime
}

// RuleOf extracts the recurrence rule carried on a template task.
func RuleOf(t models.Task) Rule {
	return Rule{Type: t.RepeatType, Interval: t.RepeatInterval, EndDate: t.RepeatEndDate}
}

// Validate checks the rule against the template it would expand.
func (r Rule) Validate(template models.Task) error {
	if r.Type == models.RepeatNone {
		return nil
	}
	if !r.Type.Valid() {
		return apperr.NewInvalidRule("repeatType", "unknown repeat type")
	}
	if r.Interval < 1 {
		return apperr.NewInvalidRule("repeatInterval", "must be at least 1")
	}
	if r.EndDate != nil && !r.EndDate.After(template.StartTime.Time) {
		return apperr.NewInvalidRule("repeatEndDate", "must be after the start time")
	}
	return nil
}

// Expand generates the ordered occurrences of template under rule. The
// template itself is not part of the result. An occurrence landing exactly on
// the rule's end date is included; the first start past it stops generation.
func Expand(template models.Task, rule Rule) ([]models.Task, error) {
	if err := rule.Validate(template); err != nil {
		return nil, err
	}
	if rule.Type == models.RepeatNone {
		return nil, nil
	}

	unit := unitFor(rule.Type)
	start := template.StartTime.Time
	horizon := start.Add(DefaultHorizon)

	var out []models.Task
	cur := start
	for len(out) < MaxOccurrences {
		cur = dates.AddInterval(cur, unit, rule.Interval)
		if rule.EndDate != nil {
			if cur.After(rule.EndDate.Time) {
				break
			}
		} else if !cur.Before(horizon) {
			break
		}
		out = append(out, occurrence(template, cur))
	}
	return out, nil
}

func unitFor(t models.RepeatType) dates.Unit {
	switch t {
	case models.RepeatDaily:
		return dates.Day
	case models.RepeatWeekly:
		return dates.Week
	case models.RepeatMonthly:
		return dates.Month
	default:
		return dates.Year
	}
}

// occurrence copies the template onto a new start, preserving its duration.
// Occurrences never carry a repeat rule of their own.
func occurrence(template models.Task, start time.Time) models.Task {
	occ := models.Task{
		UserID:         template.UserID,
		Title:          template.Title,
		Description:    template.Description,
		StartTime:      models.NewLocalTime(start),
		Priority:       template.Priority,
		Status:         models.StatusPending,
		Category:       template.Category,
		Color:          template.Color,
		AllDay:         template.AllDay,
		RepeatType:     models.RepeatNone,
		RepeatInterval: 1,
	}
	id := template.ID
	occ.OriginalTaskID = &id
	if !template.AllDay && template.EndTime != nil {
		end := models.NewLocalTime(start.Add(template.EndTime.Sub(template.StartTime.Time)))
		occ.EndTime = &end
	}
	return occ
}
