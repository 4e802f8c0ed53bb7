package notifications

import (
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
)

// AssignedData is rendered into the task assigned email
type AssignedData struct {
	Task *tasks.Task
	User *users.User
}

// CommentedData is rendered into the new comment email
type CommentedData struct {
	Task    *tasks.Task
	User    *users.User
	Author  *users.User
	Comment *tasks.Comment
}

// CompletedData is rendered into the task completed email
type CompletedData struct {
	Task *tasks.Task
}

// TopTasksData is rendered into the periodic top tasks report
type TopTasksData struct {
	Tasks []*tasks.TaskSummary
}
