package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/notifications"
	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
)

// taskService implements the TaskService interface
type taskService struct {
	taskRepo       tasks.TaskRepository
	commentRepo    tasks.CommentRepository
	attachmentRepo tasks.AttachmentRepository
	userRepo       users.UserRepository
	store          tasks.AttachmentStore
	indexer        search.Indexer
	notifier       notifications.Notifier
	cache          tasks.TopTasksCache
	logger         logger.Logger
	now            func() time.Time
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo tasks.TaskRepository,
	commentRepo tasks.CommentRepository,
	attachmentRepo tasks.AttachmentRepository,
	userRepo users.UserRepository,
	store tasks.AttachmentStore,
	indexer search.Indexer,
	notifier notifications.Notifier,
	cache tasks.TopTasksCache,
	logger logger.Logger,
) (tasks.TaskService, error) {
	return &taskService{
		taskRepo:       taskRepo,
		commentRepo:    commentRepo,
		attachmentRepo: attachmentRepo,
		userRepo:       userRepo,
		store:          store,
		indexer:        indexer,
		notifier:       notifier,
		cache:          cache,
		logger:         logger,
		now:            time.Now,
	}, nil
}

// Create stores a task assigned to the caller, indexes it and announces the assignment
func (s *taskService) Create(ctx context.Context, callerID uint, in *tasks.TaskCreate) (*tasks.Task, error) {
	task := &tasks.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		AssigneeID:  callerID,
	}
	if task.Status == "" {
		task.Status = tasks.StatusOpen
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.index(ctx, task)
	s.notifier.TaskAssigned(task.ID)
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id uint) (*tasks.TaskDetail, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.List(ctx, &id)
	if err != nil {
		return nil, err
	}
	return &tasks.TaskDetail{Task: *task, Comments: comments}, nil
}

func (s *taskService) List(ctx context.Context, query *tasks.TaskQuery) ([]*tasks.TaskSummary, error) {
	if query == nil {
		query = &tasks.TaskQuery{}
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.taskRepo.List(ctx, query)
}

// Update applies the set fields, checking that a new assignee exists
func (s *taskService) Update(ctx context.Context, id uint, in *tasks.TaskUpdate) (*tasks.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.AssigneeID != nil && *in.AssigneeID != task.AssigneeID {
		if _, err := requireUser(ctx, s.userRepo, "assignee", *in.AssigneeID); err != nil {
			return nil, err
		}
	}

	in.Apply(task)
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.index(ctx, task)
	return task, nil
}

// Delete removes the task and its dependents, then their documents and stored objects
func (s *taskService) Delete(ctx context.Context, id uint) error {
	if _, err := s.taskRepo.GetByID(ctx, id); err != nil {
		return err
	}

	commentIDs, err := s.commentRepo.ListIDsByTask(ctx, id)
	if err != nil {
		return err
	}
	objectNames, err := s.attachmentRepo.ListObjectNamesByTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	if err := s.indexer.DeleteTask(ctx, id); err != nil {
		s.logger.Error("Failed to remove task ", id, " from search index: ", err)
	}
	for _, commentID := range commentIDs {
		if err := s.indexer.DeleteComment(ctx, commentID); err != nil {
			s.logger.Error("Failed to remove comment ", commentID, " from search index: ", err)
		}
	}
	for _, name := range objectNames {
		if err := s.store.Delete(ctx, name); err != nil {
			s.logger.Error("Failed to delete attachment object ", name, ": ", err)
		}
	}
	return nil
}

// Complete marks the task completed and notifies the assignee and every commenter
func (s *taskService) Complete(ctx context.Context, id uint) (*tasks.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == tasks.StatusCompleted {
		return nil, tasks.ErrAlreadyCompleted
	}

	task.Status = tasks.StatusCompleted
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.index(ctx, task)

	comments, err := s.commentRepo.List(ctx, &id)
	if err != nil {
		s.logger.Error("Failed to load commenters of task ", id, ": ", err)
	}
	s.notifier.TaskCompleted(task.ID, recipients(task.AssigneeID, comments))
	return task, nil
}

// recipients returns the assignee followed by each distinct comment author
func recipients(assigneeID uint, comments []*tasks.Comment) []uint {
	seen := map[uint]bool{assigneeID: true}
	ids := []uint{assigneeID}
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			ids = append(ids, c.AuthorID)
		}
	}
	return ids
}

// AssignUser sets the assignee and notifies them, also when it did not change
func (s *taskService) AssignUser(ctx context.Context, id, assigneeID uint) (*tasks.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := requireUser(ctx, s.userRepo, "assignee", assigneeID); err != nil {
		return nil, err
	}

	task.AssigneeID = assigneeID
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.index(ctx, task)
	s.notifier.TaskAssigned(task.ID)
	return task, nil
}

// TopLoggedLastMonth ranks tasks by the minutes every user logged last month.
// The result is cached under the caller's id.
func (s *taskService) TopLoggedLastMonth(ctx context.Context, userID uint) ([]*tasks.TaskSummary, error) {
	if cached, ok := s.cache.Get(userID); ok {
		return cached, nil
	}

	start, end := tasks.PreviousMonthRange(s.now())
	top, err := s.taskRepo.TopByLoggedMinutes(ctx, &tasks.TopTasksQuery{
		Start: start,
		End:   end,
		Limit: tasks.TopTasksLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank tasks: %w", err)
	}

	s.cache.Add(userID, top)
	return top, nil
}

func (s *taskService) index(ctx context.Context, task *tasks.Task) {
	if err := s.indexer.IndexTask(ctx, task); err != nil {
		s.logger.Error("Failed to index task ", task.ID, ": ", err)
	}
}
