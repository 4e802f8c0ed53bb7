//go:build unit
// +build unit

package v1

import (
	"context"
	"io"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"

	"github.com/stretchr/testify/mock"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, reg *users.Registration) (*users.User, users.TokenPair, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, users.TokenPair{}, args.Error(2)
	}
	return args.Get(0).(*users.User), args.Get(1).(users.TokenPair), args.Error(2)
}

func (m *MockUserService) ObtainToken(ctx context.Context, username, password string) (users.TokenPair, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(users.TokenPair), args.Error(1)
}

func (m *MockUserService) RefreshToken(ctx context.Context, refresh string) (string, error) {
	args := m.Called(ctx, refresh)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, access string) (*users.User, error) {
	args := m.Called(ctx, access)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]*users.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*users.User), args.Error(1)
}

func (m *MockUserService) LoggedMinutesLastMonth(ctx context.Context, userID uint) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockTaskService is a mock implementation of TaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, callerID uint, in *tasks.TaskCreate) (*tasks.Task, error) {
	args := m.Called(ctx, callerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Task), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, id uint) (*tasks.TaskDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.TaskDetail), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, query *tasks.TaskQuery) ([]*tasks.TaskSummary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasks.TaskSummary), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, id uint, in *tasks.TaskUpdate) (*tasks.Task, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) Complete(ctx context.Context, id uint) (*tasks.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Task), args.Error(1)
}

func (m *MockTaskService) AssignUser(ctx context.Context, id, assigneeID uint) (*tasks.Task, error) {
	args := m.Called(ctx, id, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Task), args.Error(1)
}

func (m *MockTaskService) TopLoggedLastMonth(ctx context.Context, userID uint) ([]*tasks.TaskSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasks.TaskSummary), args.Error(1)
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, taskID *uint) ([]*tasks.Comment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasks.Comment), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, authorID, taskID uint, text string) (*tasks.Comment, error) {
	args := m.Called(ctx, authorID, taskID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Comment), args.Error(1)
}

// MockTimeLogService is a mock implementation of TimeLogService
type MockTimeLogService struct {
	mock.Mock
}

func (m *MockTimeLogService) StartTimer(ctx context.Context, userID, taskID uint, start time.Time) (*tasks.TimeLog, error) {
	args := m.Called(ctx, userID, taskID, start)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.TimeLog), args.Error(1)
}

func (m *MockTimeLogService) StopTimer(ctx context.Context, userID, taskID uint, end time.Time) (*tasks.TimeLog, error) {
	args := m.Called(ctx, userID, taskID, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.TimeLog), args.Error(1)
}

func (m *MockTimeLogService) LogDate(ctx context.Context, userID uint, in *tasks.DateLog) (*tasks.TimeLog, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.TimeLog), args.Error(1)
}

func (m *MockTimeLogService) List(ctx context.Context, query *tasks.TimeLogQuery) ([]*tasks.TimeLog, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasks.TimeLog), args.Error(1)
}

func (m *MockTimeLogService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAttachmentService is a mock implementation of AttachmentService
type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Upload(ctx context.Context, taskID uint, filename, contentType string, body io.Reader, size int64) (*tasks.Attachment, error) {
	args := m.Called(ctx, taskID, filename, contentType, body, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Attachment), args.Error(1)
}

func (m *MockAttachmentService) RequestUpload(ctx context.Context, taskID uint, filename, contentType string) (*tasks.Attachment, string, error) {
	args := m.Called(ctx, taskID, filename, contentType)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*tasks.Attachment), args.String(1), args.Error(2)
}

func (m *MockAttachmentService) MarkUploaded(ctx context.Context, objectKeys []string) (int, error) {
	args := m.Called(ctx, objectKeys)
	return args.Int(0), args.Error(1)
}

func (m *MockAttachmentService) List(ctx context.Context, taskID *uint) ([]*tasks.AttachmentView, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasks.AttachmentView), args.Error(1)
}

// MockSearchService is a mock implementation of SearchService
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, target search.Target, query string) ([]search.Hit, error) {
	args := m.Called(ctx, target, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.Hit), args.Error(1)
}

func (m *MockSearchService) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSearchService) Rebuild(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
