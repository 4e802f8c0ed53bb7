package app

import (
	"context"
	"fmt"

	"github.com/ShiroyamaY/tms/internal/domain/notifications"
	"github.com/ShiroyamaY/tms/internal/infrastructure/jobs"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
)

// JobQueue accepts background jobs without blocking
type JobQueue interface {
	Enqueue(job jobs.Job) error
}

// queuedNotifier implements the Notifier interface by queueing NotificationService calls
type queuedNotifier struct {
	queue   JobQueue
	service notifications.NotificationService
	logger  logger.Logger
}

// NewQueuedNotifier creates a Notifier that hands every notification to queue
func NewQueuedNotifier(queue JobQueue, service notifications.NotificationService, logger logger.Logger) (notifications.Notifier, error) {
	return &queuedNotifier{queue: queue, service: service, logger: logger}, nil
}

func (n *queuedNotifier) TaskAssigned(taskID uint) {
	n.enqueue(fmt.Sprintf("task-assigned:%d", taskID), func(ctx context.Context) bool {
		return n.service.SendTaskAssigned(ctx, taskID)
	})
}

func (n *queuedNotifier) TaskCommented(commentID uint) {
	n.enqueue(fmt.Sprintf("task-commented:%d", commentID), func(ctx context.Context) bool {
		return n.service.SendTaskCommented(ctx, commentID)
	})
}

func (n *queuedNotifier) TaskCompleted(taskID uint, recipientIDs []uint) {
	ids := append([]uint(nil), recipientIDs...)
	n.enqueue(fmt.Sprintf("task-completed:%d", taskID), func(ctx context.Context) bool {
		return n.service.SendTaskCompleted(ctx, taskID, ids)
	})
}

func (n *queuedNotifier) TopTasksReport() {
	n.enqueue("top-tasks-report", n.service.SendTopTasksReport)
}

func (n *queuedNotifier) enqueue(name string, run func(ctx context.Context) bool) {
	if err := n.queue.Enqueue(jobs.Job{Name: name, Run: run}); err != nil {
		n.logger.Error("Failed to queue notification ", name, ": ", err)
	}
}
