package v1

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services bundles the application services exposed over REST
type Services struct {
	Users       users.UserService
	Tasks       tasks.TaskService
	Comments    tasks.CommentService
	TimeLogs    tasks.TimeLogService
	Attachments tasks.AttachmentService
	Search      search.SearchService
}

// RouterOptions configures the parts of the router that are not services
type RouterOptions struct {
	// StaticRoot is the collected asset directory served under StaticPrefix
	StaticRoot     string
	StaticPrefix   string
	OpenAPI        []byte
	WebhookToken   string
	MaxUploadBytes int64
	Metrics        *Metrics
}

// NewRouter builds the engine with recovery, request logging, metrics, CORS and every route
func NewRouter(services *Services, opts RouterOptions, logger logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	SetupRoutes(r, services, opts, logger)
	return r
}

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine, services *Services, opts RouterOptions, logger logger.Logger) {
	auth := RequireAuth(services.Users, logger)

	common := NewCommonHandler(opts.OpenAPI)
	r.GET("/health", common.Health)
	r.GET("/protected", auth, common.Protected)
	r.GET("/openapi.yaml", common.OpenAPI)
	if opts.Metrics != nil {
		r.GET("/metrics", opts.Metrics.Handler())
	}
	if opts.StaticRoot != "" && opts.StaticPrefix != "" {
		r.StaticFS(opts.StaticPrefix, gin.Dir(opts.StaticRoot, false))
	}

	v1 := r.Group(BasePath) // lookup in version file

	// Users Routes
	userHandler := NewUserHandler(services.Users, logger)
	v1.POST("/users/register", userHandler.Register)
	v1.POST("/users/token", userHandler.ObtainToken)
	v1.POST("/users/token/refresh", userHandler.RefreshToken)
	v1.GET("/users", userHandler.List)
	v1.GET("/users/logged-time/last-month", auth, userHandler.LoggedTimeLastMonth)

	// Attachment webhook authenticates with the storage token instead of a JWT
	attachmentHandler := NewAttachmentHandler(services.Attachments, opts.WebhookToken, opts.MaxUploadBytes, logger)
	v1.POST("/tasks/attachments/webhook", attachmentHandler.Webhook)

	protected := v1.Group("", auth)

	// Tasks Routes
	taskHandler := NewTaskHandler(services.Tasks, logger)
	protected.GET("/tasks", taskHandler.List)
	protected.POST("/tasks", taskHandler.Create)
	protected.GET("/tasks/top-logged-tasks-last-month", taskHandler.TopLoggedLastMonth)
	protected.GET("/tasks/:id", taskHandler.GetByID)
	protected.PUT("/tasks/:id", taskHandler.Update)
	protected.PATCH("/tasks/:id", taskHandler.PartialUpdate)
	protected.DELETE("/tasks/:id", taskHandler.DeleteByID)
	protected.PATCH("/tasks/:id/complete", taskHandler.Complete)
	protected.PATCH("/tasks/:id/assign-user", taskHandler.AssignUser)

	// Comments Routes
	commentHandler := NewCommentHandler(services.Comments, logger)
	protected.GET("/tasks/comments", commentHandler.List)
	protected.POST("/tasks/comments", commentHandler.Create)

	// Time Logs Routes
	timeLogHandler := NewTimeLogHandler(services.TimeLogs, logger)
	protected.GET("/tasks/time-logs", timeLogHandler.List)
	protected.DELETE("/tasks/time-logs/:id", timeLogHandler.DeleteByID)
	protected.POST("/tasks/time-logs/start-timer", timeLogHandler.StartTimer)
	protected.PATCH("/tasks/time-logs/stop-timer", timeLogHandler.StopTimer)
	protected.POST("/tasks/time-logs/log-date", timeLogHandler.LogDate)

	// Attachments Routes
	protected.GET("/tasks/attachments", attachmentHandler.List)
	protected.POST("/tasks/attachments", attachmentHandler.Create)

	// Search Routes
	searchHandler := NewSearchHandler(services.Search, logger)
	protected.GET("/search", searchHandler.Search)
}
