package notifications

import "context"

// Message is a rendered email
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// Notifier queues notifications for asynchronous delivery. Calls never block on sending.
type Notifier interface {
	TaskAssigned(taskID uint)
	TaskCommented(commentID uint)
	TaskCompleted(taskID uint, recipientIDs []uint)
	TopTasksReport()
}

// NotificationService builds and sends notifications synchronously.
// Each method reports whether an email was sent; invalid input is logged, not returned.
type NotificationService interface {
	SendTaskAssigned(ctx context.Context, taskID uint) bool
	SendTaskCommented(ctx context.Context, commentID uint) bool
	SendTaskCompleted(ctx context.Context, taskID uint, recipientIDs []uint) bool
	SendTopTasksReport(ctx context.Context) bool
}

// Email subjects
const (
	SubjectAssigned  = "You have been assigned a task: %s"
	SubjectCommented = "New comment on your task: %s"
	SubjectCompleted = "Task completed: %s"
	SubjectTopTasks  = "Top tasks by logged time"
)

// Template names
const (
	TemplateAssigned  = "task_assigned.html"
	TemplateCommented = "task_commented.html"
	TemplateCompleted = "task_completed.html"
	TemplateTopTasks  = "top_tasks_by_logged_time.html"
)

// Renderer turns a named template into HTML and a plain-text alternative
type Renderer interface {
	Render(name string, data interface{}) (html string, text string, err error)
}
