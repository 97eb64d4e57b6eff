package models

import "strings"

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

var priorityLabels = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Label returns the display text for the priority.
func (p Priority) Label() string {
	return priorityLabels[p]
}

// ParsePriority maps a case-insensitive string to a Priority.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Status tracks a task through its lifecycle.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusInProgress: "In progress",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display text for the status.
func (s Status) Label() string {
	return statusLabels[s]
}

// Closed reports whether the status terminates the task. Closed tasks are
// never overdue and are excluded from upcoming views.
func (s Status) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus maps a case-insensitive string to a Status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// RepeatType selects the unit a recurrence rule advances by.
type RepeatType string

const (
	RepeatNone    RepeatType = "NONE"
	RepeatDaily   RepeatType = "DAILY"
	RepeatWeekly  RepeatType = "WEEKLY"
	RepeatMonthly RepeatType = "MONTHLY"
	RepeatYearly  RepeatType = "YEARLY"
)

var repeatLabels = map[RepeatType]string{
	RepeatNone:    "Does not repeat",
	RepeatDaily:   "Daily",
	RepeatWeekly:  "Weekly",
	RepeatMonthly: "Monthly",
	RepeatYearly:  "Yearly",
}

// Valid reports whether r is one of the defined repeat types.
func (r RepeatType) Valid() bool {
	_, ok := repeatLabels[r]
	return ok
}

// Label returns the display text for the repeat type.
func (r RepeatType) Label() string {
	return repeatLabels[r]
}

// ParseRepeatType maps a case-insensitive string to a RepeatType.
func ParseRepeatType(s string) (RepeatType, bool) {
	r := RepeatType(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}
