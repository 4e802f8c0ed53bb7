//go:build integration
// +build integration

package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/notifications"
	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/infrastructure/auth"
	"github.com/ShiroyamaY/tms/internal/infrastructure/cache"
	"github.com/ShiroyamaY/tms/internal/infrastructure/connector"
	"github.com/ShiroyamaY/tms/internal/infrastructure/mail"
	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// recordingIndexer keeps the ids of indexed and removed documents
type recordingIndexer struct {
	mu              sync.Mutex
	tasks           map[uint]*tasks.Task
	comments        map[uint]*tasks.Comment
	deletedTasks    []uint
	deletedComments []uint
	err             error
}

func newRecordingIndexer() *recordingIndexer {
	return &recordingIndexer{tasks: map[uint]*tasks.Task{}, comments: map[uint]*tasks.Comment{}}
}

func (r *recordingIndexer) EnsureIndices(context.Context) error   { return r.err }
func (r *recordingIndexer) RecreateIndices(context.Context) error { return r.err }

func (r *recordingIndexer) IndexTask(_ context.Context, t *tasks.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *recordingIndexer) DeleteTask(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	r.deletedTasks = append(r.deletedTasks, id)
	return r.err
}

func (r *recordingIndexer) IndexComment(_ context.Context, c *tasks.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *recordingIndexer) DeleteComment(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	r.deletedComments = append(r.deletedComments, id)
	return r.err
}

func (r *recordingIndexer) BulkIndex(_ context.Context, ts []*tasks.Task, cs []*tasks.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range ts {
		r.tasks[t.ID] = t
	}
	for _, c := range cs {
		r.comments[c.ID] = c
	}
	return r.err
}

func (r *recordingIndexer) Search(context.Context, search.Target, string) ([]search.Hit, error) {
	return nil, r.err
}

// recordingNotifier keeps the notifications that would have been queued
type recordingNotifier struct {
	mu        sync.Mutex
	assigned  []uint
	commented []uint
	completed map[uint][]uint
	reports   int
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{completed: map[uint][]uint{}}
}

func (n *recordingNotifier) TaskAssigned(taskID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, taskID)
}

func (n *recordingNotifier) TaskCommented(commentID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.commented = append(n.commented, commentID)
}

func (n *recordingNotifier) TaskCompleted(taskID uint, recipientIDs []uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed[taskID] = recipientIDs
}

func (n *recordingNotifier) TopTasksReport() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reports++
}

// recordingMailer keeps sent messages
type recordingMailer struct {
	mu   sync.Mutex
	sent []*notifications.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg *notifications.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	UserService         users.UserService
	TaskService         tasks.TaskService
	CommentService      tasks.CommentService
	TimeLogService      tasks.TimeLogService
	AttachmentService   tasks.AttachmentService
	SearchService       search.SearchService
	NotificationService notifications.NotificationService
	Seeder              *Seeder

	Indexer  *recordingIndexer
	Notifier *recordingNotifier
	Mailer   *recordingMailer
	Storage  *connector.MockS3Backend

	DBContext *persistence.TestContext
}

// SetupTestServices initializes all application services for integration tests
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	authSettings := &config.AuthSettings{
		SigningKey:      "integration-test-signing-key",
		Issuer:          "tms",
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: time.Hour,
		BcryptCost:      4,
	}
	issuer, err := auth.NewJWTIssuer(authSettings)
	require.NoError(t, err)
	hasher, err := auth.NewBcryptHasher(authSettings.BcryptCost)
	require.NoError(t, err)

	storageSettings := &config.StorageSettings{
		Bucket:         "tms-attachments",
		Region:         "us-east-1",
		PathStyle:      true,
		URLExpiryHours: 24,
		MaxUploadBytes: 1 << 20,
	}
	store, backend, err := connector.NewMockS3AttachmentConnector(storageSettings, logger)
	require.NoError(t, err)

	indexer := newRecordingIndexer()
	notifier := newRecordingNotifier()
	mailer := &recordingMailer{}
	renderer, err := mail.NewTemplateRenderer()
	require.NoError(t, err)

	userService, err := NewUserService(dbContext.UserRepo, dbContext.TimeLogRepo, issuer, hasher, logger)
	require.NoError(t, err)

	taskService, err := NewTaskService(
		dbContext.TaskRepo,
		dbContext.CommentRepo,
		dbContext.AttachmentRepo,
		dbContext.UserRepo,
		store,
		indexer,
		notifier,
		cache.NewTopTasksCache(16, time.Minute),
		logger,
	)
	require.NoError(t, err)

	commentService, err := NewCommentService(dbContext.CommentRepo, dbContext.TaskRepo, indexer, notifier, logger)
	require.NoError(t, err)

	timeLogService, err := NewTimeLogService(dbContext.TimeLogRepo, dbContext.TaskRepo, logger)
	require.NoError(t, err)

	attachmentService, err := NewAttachmentService(dbContext.AttachmentRepo, dbContext.TaskRepo, store, logger)
	require.NoError(t, err)

	searchSettings := &config.SearchSettings{
		Addresses:   []string{"http://localhost:9200"},
		StartupMode: config.SearchModeRebuild,
		MaxAttempts: 3,
		RetryDelay:  time.Millisecond,
		BulkSize:    2,
	}
	searchService, err := NewSearchService(indexer, indexer, dbContext.TaskRepo, dbContext.CommentRepo, searchSettings, logger)
	require.NoError(t, err)

	notificationService, err := NewNotificationService(
		dbContext.TaskRepo,
		dbContext.CommentRepo,
		dbContext.UserRepo,
		renderer,
		mailer,
		logger,
	)
	require.NoError(t, err)

	seeder := NewSeeder(dbContext.UserRepo, dbContext.TaskRepo, dbContext.TimeLogRepo, hasher, 42, logger)

	return &TestServices{
		UserService:         userService,
		TaskService:         taskService,
		CommentService:      commentService,
		TimeLogService:      timeLogService,
		AttachmentService:   attachmentService,
		SearchService:       searchService,
		NotificationService: notificationService,
		Seeder:              seeder,
		Indexer:             indexer,
		Notifier:            notifier,
		Mailer:              mailer,
		Storage:             backend,
		DBContext:           dbContext,
	}
}
