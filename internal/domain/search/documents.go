package search

import (
	"strconv"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
)

// Index names
const (
	TasksIndex    = "tasks"
	CommentsIndex = "comments"
)

// Target selects which index a query runs against
type Target string

// Search targets
const (
	TargetTask    Target = "task"
	TargetComment Target = "comment"
)

// TaskDocument is the indexed form of a task
type TaskDocument struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Assignee    string    `json:"assignee"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommentDocument is the indexed form of a comment
type CommentDocument struct {
	Text      string    `json:"text"`
	Task      string    `json:"task"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTaskDocument maps a task to its document
func NewTaskDocument(t *tasks.Task) *TaskDocument {
	return &TaskDocument{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Assignee:    strconv.FormatUint(uint64(t.AssigneeID), 10),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewCommentDocument maps a comment to its document
func NewCommentDocument(c *tasks.Comment) *CommentDocument {
	return &CommentDocument{
		Text:      c.Text,
		Task:      strconv.FormatUint(uint64(c.TaskID), 10),
		Author:    strconv.FormatUint(uint64(c.AuthorID), 10),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// DocumentID renders a primary key as a document id
func DocumentID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Hit is one search result: the document source plus its "id"
type Hit map[string]interface{}
