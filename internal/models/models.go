package models

// DefaultTaskColor is applied when a task is created without an explicit color.
const DefaultTaskColor = "#FFE4B5"

// Task represents a single calendar entry: a standalone task, a recurrence
// template, or a generated occurrence of a template.
type Task struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	UserID         int64      `json:"-" gorm:"index;not null"`
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description" gorm:"size:1000"`
	StartTime      LocalTime  `json:"startTime" gorm:"index;not null"`
	EndTime        *LocalTime `json:"endTime"`
	Priority       Priority   `json:"priority" gorm:"size:20;index"`
	Status         Status     `json:"status" gorm:"size:20;index"`
	Category       string     `json:"category" gorm:"size:50;index"`
	Color          string     `json:"color" gorm:"size:20"`
	AllDay         bool       `json:"isAllDay"`
	RepeatType     RepeatType `json:"repeatType" gorm:"size:20"`
	RepeatInterval int        `json:"repeatInterval"`
	RepeatEndDate  *LocalTime `json:"repeatEndDate"`
	OriginalTaskID *int64     `json:"originalTaskId" gorm:"index"`
	CreatedAt      LocalTime  `json:"createdAt"`
	UpdatedAt      LocalTime  `json:"updatedAt"`
}

// DurationSeconds returns the start-to-end span in seconds. All-day tasks and
// tasks without an end time have no meaningful duration.
func (t Task) DurationSeconds() int64 {
	if t.AllDay || t.EndTime == nil {
		return 0
	}
	return int64(t.EndTime.Sub(t.StartTime.Time).Seconds())
}

// IsOccurrence reports whether the task was generated from a template.
func (t Task) IsOccurrence() bool {
	return t.OriginalTaskID != nil
}

// User is an account owning tasks. All task queries are isolated per user.
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	DisplayName  string     `json:"displayName" gorm:"size:100"`
	Active       bool       `json:"-"`
	LastLoginAt  *LocalTime `json:"lastLoginAt"`
	CreatedAt    LocalTime  `json:"createdAt"`
	UpdatedAt    LocalTime  `json:"updatedAt"`
}
