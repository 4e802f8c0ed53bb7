package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/ShiroyamaY/tms/internal/pkg/validators"
)

// Status is the lifecycle state of a task
type Status string

// Task statuses
const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCanceled   Status = "Canceled"
	StatusArchived   Status = "Archived"
)

// Statuses lists every valid status in display order
var Statuses = []Status{StatusOpen, StatusInProgress, StatusCompleted, StatusCanceled, StatusArchived}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Task entity
type Task struct {
	ID          uint
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	AssigneeID  uint   `json:"assignee" validate:"required"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate for validating Task struct
func (t *Task) Validate() error {
	err := validators.Struct(validators.New(), t)

	verr, ok := err.(*validators.ValidationError)
	if err != nil && !ok {
		return err
	}
	if verr == nil {
		verr = &validators.ValidationError{}
	}
	if !t.Status.Valid() {
		verr.Add("status", fmt.Sprintf("\"%s\" is not a valid choice.", t.Status))
	}
	return verr.OrNil()
}

// TaskCreate is the input for a new task; the assignee is always the caller
type TaskCreate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// TaskUpdate carries the fields to change; nil fields are left alone
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *Status
	AssigneeID  *uint
}

// Apply copies the set fields onto t
func (u *TaskUpdate) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.AssigneeID != nil {
		t.AssigneeID = *u.AssigneeID
	}
}

// TaskQuery filters task listings
type TaskQuery struct {
	AssigneeID *uint
	Status     Status
	// Search matches titles case-insensitively
	Search string
}

// Validate checks the status filter
func (q *TaskQuery) Validate() error {
	if q.Status != "" && !q.Status.Valid() {
		return validators.NewFieldError("status", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", q.Status))
	}
	q.Search = strings.TrimSpace(q.Search)
	return nil
}

// TaskSummary is a task with the minutes logged against it
type TaskSummary struct {
	ID           uint
	Title        string
	TotalMinutes int
}

// TaskDetail is a task with its comments
type TaskDetail struct {
	Task
	Comments []*Comment
}

// TopTasksLimit bounds the top-logged-tasks listings
const TopTasksLimit = 20

// TopTasksQuery selects tasks by minutes logged in a window
type TopTasksQuery struct {
	// UserID restricts the sum to one user's time logs when set
	UserID *uint
	Start  time.Time
	End    time.Time
	Limit  int
}
