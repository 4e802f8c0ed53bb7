package tasks

import (
	"context"
	"io"
	"time"
)

// TaskService defines task lifecycle operations.
type TaskService interface {
	// Create stores a task assigned to the caller and announces the assignment.
	Create(ctx context.Context, callerID uint, in *TaskCreate) (*Task, error)

	// Get returns the task with its comments.
	Get(ctx context.Context, id uint) (*TaskDetail, error)

	// List returns tasks matching the query with their total logged minutes.
	List(ctx context.Context, query *TaskQuery) ([]*TaskSummary, error)

	// Update applies the set fields and reindexes the task.
	Update(ctx context.Context, id uint, in *TaskUpdate) (*Task, error)

	// Delete removes the task together with its comments, time logs and attachments.
	Delete(ctx context.Context, id uint) error

	// Complete marks the task completed and notifies the assignee and every commenter.
	Complete(ctx context.Context, id uint) (*Task, error)

	// AssignUser changes the assignee and notifies them.
	AssignUser(ctx context.Context, id, assigneeID uint) (*Task, error)

	// TopLoggedLastMonth ranks tasks by minutes logged by all users in the previous UTC month.
	// userID keys the cached result.
	TopLoggedLastMonth(ctx context.Context, userID uint) ([]*TaskSummary, error)
}

// CommentService defines comment operations.
type CommentService interface {
	List(ctx context.Context, taskID *uint) ([]*Comment, error)
	// Create stores the comment authored by the caller.
	Create(ctx context.Context, authorID, taskID uint, text string) (*Comment, error)
}

// TimeLogService defines time tracking operations.
type TimeLogService interface {
	// StartTimer closes the caller's running timers at start and opens a new one.
	StartTimer(ctx context.Context, userID, taskID uint, start time.Time) (*TimeLog, error)

	// StopTimer closes the caller's running timer on the task.
	StopTimer(ctx context.Context, userID, taskID uint, end time.Time) (*TimeLog, error)

	// LogDate records minutes spent on a date.
	LogDate(ctx context.Context, userID uint, in *DateLog) (*TimeLog, error)

	List(ctx context.Context, query *TimeLogQuery) ([]*TimeLog, error)
	Delete(ctx context.Context, id uint) error
}

// AttachmentService defines attachment operations.
type AttachmentService interface {
	// Upload streams the file to the object store; a store failure is recorded as Failed.
	Upload(ctx context.Context, taskID uint, filename, contentType string, body io.Reader, size int64) (*Attachment, error)

	// RequestUpload records a Pending attachment and returns a presigned PUT URL for it.
	RequestUpload(ctx context.Context, taskID uint, filename, contentType string) (*Attachment, string, error)

	// MarkUploaded flags the attachments stored under the given object keys as Uploaded.
	// It returns how many records changed.
	MarkUploaded(ctx context.Context, objectKeys []string) (int, error)

	List(ctx context.Context, taskID *uint) ([]*AttachmentView, error)
}

// TaskRepository defines the interface for Task-related operations
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	CreateBatch(ctx context.Context, tasks []*Task) error
	GetByID(ctx context.Context, id uint) (*Task, error)
	List(ctx context.Context, query *TaskQuery) ([]*TaskSummary, error)
	// ListAll returns up to limit tasks ordered by id, all when limit <= 0
	ListAll(ctx context.Context, limit int) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	// DeleteByID removes the task and its dependent rows in one transaction
	DeleteByID(ctx context.Context, id uint) error
	TopByLoggedMinutes(ctx context.Context, query *TopTasksQuery) ([]*TaskSummary, error)
}

// CommentRepository defines the interface for Comment-related operations
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id uint) (*Comment, error)
	List(ctx context.Context, taskID *uint) ([]*Comment, error)
	ListAll(ctx context.Context) ([]*Comment, error)
	ListIDsByTask(ctx context.Context, taskID uint) ([]uint, error)
}

// TimeLogRepository defines the interface for TimeLog-related operations
type TimeLogRepository interface {
	Create(ctx context.Context, log *TimeLog) error
	CreateBatch(ctx context.Context, logs []*TimeLog) error
	GetByID(ctx context.Context, id uint) (*TimeLog, error)
	List(ctx context.Context, query *TimeLogQuery) ([]*TimeLog, error)
	Update(ctx context.Context, log *TimeLog) error
	DeleteByID(ctx context.Context, id uint) error
	// FindActive returns the user's running timer on the task
	FindActive(ctx context.Context, userID, taskID uint) (*TimeLog, error)
	// CloseActive stops every running timer of the user at end
	CloseActive(ctx context.Context, userID uint, end time.Time) (int64, error)
	// SumMinutes totals the user's minutes fully inside [start, end]
	SumMinutes(ctx context.Context, userID uint, start, end time.Time) (int, error)
}

// AttachmentRepository defines the interface for Attachment-related operations
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *Attachment) error
	Update(ctx context.Context, attachment *Attachment) error
	GetByObjectName(ctx context.Context, objectName string) (*Attachment, error)
	List(ctx context.Context, taskID *uint) ([]*Attachment, error)
	ListObjectNamesByTask(ctx context.Context, taskID uint) ([]string, error)
}

// AttachmentStore is an interface for the object store holding attachment bytes
type AttachmentStore interface {
	Bucket() string
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	// URL returns the public object URL or a presigned GET
	URL(ctx context.Context, key string) (string, error)
}

// TopTasksCache keeps per-user top task listings
type TopTasksCache interface {
	Get(userID uint) ([]*TaskSummary, bool)
	Add(userID uint, tasks []*TaskSummary)
}
