package commands

import (
	"context"
	"fmt"

	v1 "github.com/ShiroyamaY/tms/internal/api/rest/v1"
	"github.com/ShiroyamaY/tms/internal/app"
	"github.com/ShiroyamaY/tms/internal/domain/notifications"
	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/infrastructure/auth"
	"github.com/ShiroyamaY/tms/internal/infrastructure/cache"
	"github.com/ShiroyamaY/tms/internal/infrastructure/connector"
	"github.com/ShiroyamaY/tms/internal/infrastructure/elastic"
	"github.com/ShiroyamaY/tms/internal/infrastructure/jobs"
	"github.com/ShiroyamaY/tms/internal/infrastructure/mail"
	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"gorm.io/gorm"
)

// repositories holds the GORM repositories over one connection
type repositories struct {
	users       users.UserRepository
	tasks       tasks.TaskRepository
	comments    tasks.CommentRepository
	timeLogs    tasks.TimeLogRepository
	attachments tasks.AttachmentRepository
}

func openDatabase(cfg *config.AppConfig, log logger.Logger) (*gorm.DB, error) {
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	log.Info("Connected to ", cfg.Database.Type, " database")
	return db, nil
}

func newRepositories(db *gorm.DB, log logger.Logger) (*repositories, error) {
	userRepo, err := persistence.NewGormUserRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}
	taskRepo, err := persistence.NewGormTaskRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task repository: %w", err)
	}
	commentRepo, err := persistence.NewGormCommentRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment repository: %w", err)
	}
	timeLogRepo, err := persistence.NewGormTimeLogRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create time log repository: %w", err)
	}
	attachmentRepo, err := persistence.NewGormAttachmentRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment repository: %w", err)
	}

	return &repositories{
		users:       userRepo,
		tasks:       taskRepo,
		comments:    commentRepo,
		timeLogs:    timeLogRepo,
		attachments: attachmentRepo,
	}, nil
}

func newSearchService(cfg *config.AppConfig, repos *repositories, log logger.Logger) (search.SearchService, *elastic.Client, error) {
	client, err := elastic.NewClient(&cfg.Search, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search client: %w", err)
	}

	service, err := app.NewSearchService(client, client, repos.tasks, repos.comments, &cfg.Search, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search service: %w", err)
	}
	return service, client, nil
}

func newNotificationService(cfg *config.AppConfig, repos *repositories, log logger.Logger) (notifications.NotificationService, error) {
	renderer, err := mail.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}

	mailer, err := mail.NewSMTPMailer(&cfg.Mail, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	service, err := app.NewNotificationService(repos.tasks, repos.comments, repos.users, renderer, mailer, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %w", err)
	}
	return service, nil
}

// application is everything the HTTP server needs
type application struct {
	db            *gorm.DB
	repos         *repositories
	dispatcher    *jobs.Dispatcher
	notifier      notifications.Notifier
	searchService search.SearchService
	services      *v1.Services
}

// newApplication connects to the database and wires every service
func newApplication(ctx context.Context, cfg *config.AppConfig, log logger.Logger) (*application, error) {
	db, err := openDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	a, err := wireApplication(ctx, cfg, db, log)
	if err != nil {
		_ = persistence.CloseDB(db)
		return nil, err
	}
	return a, nil
}

func wireApplication(ctx context.Context, cfg *config.AppConfig, db *gorm.DB, log logger.Logger) (*application, error) {
	repos, err := newRepositories(db, log)
	if err != nil {
		return nil, err
	}

	searchService, esClient, err := newSearchService(cfg, repos, log)
	if err != nil {
		return nil, err
	}

	store, err := connector.NewS3AttachmentConnector(ctx, &cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment store: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}
	issuer, err := auth.NewJWTIssuer(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	notificationService, err := newNotificationService(cfg, repos, log)
	if err != nil {
		return nil, err
	}
	dispatcher, err := jobs.NewDispatcher(cfg.Mail.Workers, cfg.Mail.QueueSize, cfg.Mail.RatePerSecond, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create job dispatcher: %w", err)
	}
	notifier, err := app.NewQueuedNotifier(dispatcher, notificationService, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	userService, err := app.NewUserService(repos.users, repos.timeLogs, issuer, hasher, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	taskService, err := app.NewTaskService(
		repos.tasks, repos.comments, repos.attachments, repos.users,
		store, esClient, notifier,
		cache.NewTopTasksCache(cfg.Cache.Size, cfg.Cache.TopTasksTTL),
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	commentService, err := app.NewCommentService(repos.comments, repos.tasks, esClient, notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment service: %w", err)
	}
	timeLogService, err := app.NewTimeLogService(repos.timeLogs, repos.tasks, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create time log service: %w", err)
	}
	attachmentService, err := app.NewAttachmentService(repos.attachments, repos.tasks, store, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment service: %w", err)
	}

	return &application{
		db:            db,
		repos:         repos,
		dispatcher:    dispatcher,
		notifier:      notifier,
		searchService: searchService,
		services: &v1.Services{
			Users:       userService,
			Tasks:       taskService,
			Comments:    commentService,
			TimeLogs:    timeLogService,
			Attachments: attachmentService,
			Search:      searchService,
		},
	}, nil
}

func (a *application) close() error {
	return persistence.CloseDB(a.db)
}
