package tasks

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ShiroyamaY/tms/internal/pkg/validators"
)

// AttachmentStatus tracks whether the object reached the bucket
type AttachmentStatus string

// Attachment statuses
const (
	AttachmentPending  AttachmentStatus = "Pending"
	AttachmentUploaded AttachmentStatus = "Uploaded"
	AttachmentFailed   AttachmentStatus = "Failed"
)

// Attachment is a file stored in the object store and linked to a task
type Attachment struct {
	ID          uint
	TaskID      uint   `json:"task" validate:"required"`
	Filename    string `json:"filename" validate:"max=100"`
	Status      AttachmentStatus
	Bucket      string `json:"bucket" validate:"max=255"`
	ContentType string `json:"content_type" validate:"max=255"`
	ObjectName  string `json:"object_name" validate:"required,max=255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate for validating Attachment struct
func (a *Attachment) Validate() error {
	return validators.Struct(validators.New(), a)
}

// AttachmentView is an attachment with a URL the client can download it from
type AttachmentView struct {
	Attachment
	URL string
}

// ObjectKey builds the bucket key for an upload: tasks/{task}/{id}-{filename}
func ObjectKey(taskID uint, id, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return fmt.Sprintf("tasks/%d/%s-%s", taskID, id, name)
}
