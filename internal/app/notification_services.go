package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/notifications"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
)

// errSkip marks a notification that is intentionally not sent
var errSkip = errors.New("skipped")

// notificationService implements the NotificationService interface
type notificationService struct {
	taskRepo    tasks.TaskRepository
	commentRepo tasks.CommentRepository
	userRepo    users.UserRepository
	renderer    notifications.Renderer
	mailer      notifications.Mailer
	logger      logger.Logger
	now         func() time.Time
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(
	taskRepo tasks.TaskRepository,
	commentRepo tasks.CommentRepository,
	userRepo users.UserRepository,
	renderer notifications.Renderer,
	mailer notifications.Mailer,
	logger logger.Logger,
) (notifications.NotificationService, error) {
	return &notificationService{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		renderer:    renderer,
		mailer:      mailer,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// SendTaskAssigned emails the task's assignee
func (s *notificationService) SendTaskAssigned(ctx context.Context, taskID uint) bool {
	return s.report("task assigned", func() error {
		task, err := s.taskRepo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		assignee, err := s.assigneeWithEmail(ctx, task)
		if err != nil {
			return err
		}

		return s.send(ctx, []string{assignee.Email}, fmt.Sprintf(notifications.SubjectAssigned, task.Title),
			notifications.TemplateAssigned, notifications.AssignedData{Task: task, User: assignee})
	})
}

// SendTaskCommented emails the assignee about a comment written by someone else
func (s *notificationService) SendTaskCommented(ctx context.Context, commentID uint) bool {
	return s.report("task commented", func() error {
		comment, err := s.commentRepo.GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		task, err := s.taskRepo.GetByID(ctx, comment.TaskID)
		if err != nil {
			return err
		}
		assignee, err := s.assigneeWithEmail(ctx, task)
		if err != nil {
			return err
		}
		if assignee.ID == comment.AuthorID {
			return fmt.Errorf("%w: comment %d was written by the assignee", errSkip, commentID)
		}
		author, err := s.userRepo.GetByID(ctx, comment.AuthorID)
		if err != nil {
			return err
		}

		data := notifications.CommentedData{Task: task, User: assignee, Author: author, Comment: comment}
		return s.send(ctx, []string{assignee.Email}, fmt.Sprintf(notifications.SubjectCommented, task.Title),
			notifications.TemplateCommented, data)
	})
}

// SendTaskCompleted emails every recipient that has an address
func (s *notificationService) SendTaskCompleted(ctx context.Context, taskID uint, recipientIDs []uint) bool {
	return s.report("task completed", func() error {
		task, err := s.taskRepo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		recipients, err := s.userRepo.ListByIDs(ctx, recipientIDs)
		if err != nil {
			return err
		}
		if len(recipients) == 0 {
			return errors.New("recipients not found")
		}
		emails := emailsOf(recipients)
		if len(emails) == 0 {
			return errors.New("no valid emails in recipients list")
		}

		return s.send(ctx, emails, fmt.Sprintf(notifications.SubjectCompleted, task.Title),
			notifications.TemplateCompleted, notifications.CompletedData{Task: task})
	})
}

// SendTopTasksReport emails the previous month's top tasks to every user with an address
func (s *notificationService) SendTopTasksReport(ctx context.Context) bool {
	return s.report("top tasks report", func() error {
		start, end := tasks.PreviousMonthRange(s.now())
		top, err := s.taskRepo.TopByLoggedMinutes(ctx, &tasks.TopTasksQuery{Start: start, End: end, Limit: tasks.TopTasksLimit})
		if err != nil {
			return err
		}
		if len(top) == 0 {
			return errors.New("no tasks with logged time in last month")
		}

		all, err := s.userRepo.List(ctx, 0)
		if err != nil {
			return err
		}
		emails := emailsOf(all)
		if len(emails) == 0 {
			return errors.New("no users with an email address")
		}

		return s.send(ctx, emails, notifications.SubjectTopTasks, notifications.TemplateTopTasks, notifications.TopTasksData{Tasks: top})
	})
}

func (s *notificationService) assigneeWithEmail(ctx context.Context, task *tasks.Task) (*users.User, error) {
	assignee, err := s.userRepo.GetByID(ctx, task.AssigneeID)
	if errors.Is(err, users.ErrUserNotFound) || (err == nil && strings.TrimSpace(assignee.Email) == "") {
		return nil, errors.New("assignee does not have an email address")
	}
	return assignee, err
}

func (s *notificationService) send(ctx context.Context, to []string, subject, template string, data interface{}) error {
	html, text, err := s.renderer.Render(template, data)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, &notifications.Message{To: to, Subject: subject, HTML: html, Text: text})
}

// report runs fn and logs why it did not send
func (s *notificationService) report(name string, fn func() error) bool {
	err := fn()
	switch {
	case err == nil:
		return true
	case errors.Is(err, errSkip):
		s.logger.Debug(name, " notification ", err)
	default:
		s.logger.Error(name, " notification not sent: ", err)
	}
	return false
}

func emailsOf(list []*users.User) []string {
	emails := make([]string, 0, len(list))
	for _, u := range list {
		if e := strings.TrimSpace(u.Email); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}
