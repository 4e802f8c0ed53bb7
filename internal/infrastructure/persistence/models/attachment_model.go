package models

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
)

// AttachmentModel is the GORM database model for task attachments
type AttachmentModel struct {
	ID          uint      `gorm:"primaryKey"`
	TaskID      uint      `gorm:"not null;index"`
	Filename    string    `gorm:"type:varchar(100)"`
	Status      string    `gorm:"type:varchar(20);not null;default:'Pending'"`
	Bucket      string    `gorm:"type:varchar(255)"`
	ContentType string    `gorm:"type:varchar(255)"`
	ObjectName  string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (AttachmentModel) TableName() string {
	return "attachments"
}

// ToDomain converts GORM model to domain entity
func (m *AttachmentModel) ToDomain() *tasks.Attachment {
	return &tasks.Attachment{
		ID:          m.ID,
		TaskID:      m.TaskID,
		Filename:    m.Filename,
		Status:      tasks.AttachmentStatus(m.Status),
		Bucket:      m.Bucket,
		ContentType: m.ContentType,
		ObjectName:  m.ObjectName,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *AttachmentModel) FromDomain(a *tasks.Attachment) {
	m.ID = a.ID
	m.TaskID = a.TaskID
	m.Filename = a.Filename
	m.Status = string(a.Status)
	m.Bucket = a.Bucket
	m.ContentType = a.ContentType
	m.ObjectName = a.ObjectName
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
}
