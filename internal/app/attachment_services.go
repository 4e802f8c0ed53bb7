package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"

	"github.com/google/uuid"
)

// attachmentService implements the AttachmentService interface on top of the object store
type attachmentService struct {
	attachmentRepo tasks.AttachmentRepository
	taskRepo       tasks.TaskRepository
	store          tasks.AttachmentStore
	logger         logger.Logger
}

// NewAttachmentService creates a new instance of AttachmentService
func NewAttachmentService(
	attachmentRepo tasks.AttachmentRepository,
	taskRepo tasks.TaskRepository,
	store tasks.AttachmentStore,
	logger logger.Logger,
) (tasks.AttachmentService, error) {
	return &attachmentService{
		attachmentRepo: attachmentRepo,
		taskRepo:       taskRepo,
		store:          store,
		logger:         logger,
	}, nil
}

func (s *attachmentService) newAttachment(ctx context.Context, taskID uint, filename, contentType string) (*tasks.Attachment, error) {
	if filename == "" {
		return nil, validators.NewFieldError("filename", "This field is required.")
	}
	if _, err := requireTask(ctx, s.taskRepo, "task", taskID); err != nil {
		return nil, err
	}

	a := &tasks.Attachment{
		TaskID:      taskID,
		Filename:    filename,
		Status:      tasks.AttachmentPending,
		Bucket:      s.store.Bucket(),
		ContentType: contentType,
		ObjectName:  tasks.ObjectKey(taskID, uuid.NewString(), filename),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Upload stores the file and records the attachment as Uploaded, or as Failed when the store rejects it
func (s *attachmentService) Upload(ctx context.Context, taskID uint, filename, contentType string, body io.Reader, size int64) (*tasks.Attachment, error) {
	a, err := s.newAttachment(ctx, taskID, filename, contentType)
	if err != nil {
		return nil, err
	}

	a.Status = tasks.AttachmentUploaded
	if err := s.store.Put(ctx, a.ObjectName, contentType, body, size); err != nil {
		s.logger.Error("Failed to store attachment ", a.ObjectName, ": ", err)
		a.Status = tasks.AttachmentFailed
	}

	if err := s.attachmentRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// RequestUpload records a Pending attachment the client uploads directly with the returned URL
func (s *attachmentService) RequestUpload(ctx context.Context, taskID uint, filename, contentType string) (*tasks.Attachment, string, error) {
	a, err := s.newAttachment(ctx, taskID, filename, contentType)
	if err != nil {
		return nil, "", err
	}

	url, err := s.store.PresignPut(ctx, a.ObjectName, contentType)
	if err != nil {
		return nil, "", err
	}

	if err := s.attachmentRepo.Create(ctx, a); err != nil {
		return nil, "", err
	}
	return a, url, nil
}

// MarkUploaded flags known objects as Uploaded; unknown keys are logged and skipped
func (s *attachmentService) MarkUploaded(ctx context.Context, objectKeys []string) (int, error) {
	updated := 0
	for _, key := range objectKeys {
		a, err := s.attachmentRepo.GetByObjectName(ctx, key)
		if errors.Is(err, tasks.ErrAttachmentNotFound) {
			s.logger.Warn("Storage event for unknown object ", key)
			continue
		}
		if err != nil {
			return updated, err
		}
		if a.Status == tasks.AttachmentUploaded {
			continue
		}

		a.Status = tasks.AttachmentUploaded
		if err := s.attachmentRepo.Update(ctx, a); err != nil {
			return updated, fmt.Errorf("failed to mark %s uploaded: %w", key, err)
		}
		updated++
	}
	return updated, nil
}

// List returns attachments with their download URLs
func (s *attachmentService) List(ctx context.Context, taskID *uint) ([]*tasks.AttachmentView, error) {
	list, err := s.attachmentRepo.List(ctx, taskID)
	if err != nil {
		return nil, err
	}

	views := make([]*tasks.AttachmentView, 0, len(list))
	for _, a := range list {
		url, err := s.store.URL(ctx, a.ObjectName)
		if err != nil {
			return nil, err
		}
		views = append(views, &tasks.AttachmentView{Attachment: *a, URL: url})
	}
	return views, nil
}
