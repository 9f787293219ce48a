package database

import "time"

// Priority is a task's urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Status is a task's board column.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// IsTerminal reports whether a task in this status is finished.
// Terminal tasks are excluded from active and overdue computations.
func (s Status) IsTerminal() bool {
	return s == StatusDone
}

// User is an authenticated owner of accounts, stages and tasks.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Account is a tracked company with health and pipeline attributes.
type Account struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	CompanyName     string     `json:"companyName"`
	ContactName     *string    `json:"contactName"`
	ContactEmail    *string    `json:"contactEmail"`
	ContactPhone    *string    `json:"contactPhone"`
	Website         *string    `json:"website"`
	Industry        *string    `json:"industry"`
	PipelineStageID *string    `json:"pipelineStageId"`
	HealthScore     *int       `json:"healthScore"`
	LastTouchedAt   *time.Time `json:"lastTouchedAt"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// PipelineStage is a named, ordered phase in an account's lifecycle.
type PipelineStage struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"displayOrder"`
	Color        *string   `json:"color"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Task is a to-do item, optionally linked to an account.
// DueDate uses date-only semantics ("2006-01-02"); a malformed value is
// tolerated and simply excluded from overdue detection.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AccountID   *string   `json:"accountId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     *string   `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
