package models

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
)

// CommentModel is the GORM database model for task comments
type CommentModel struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	TaskID    uint      `gorm:"not null;index"`
	AuthorID  uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (CommentModel) TableName() string {
	return "comments"
}

// ToDomain converts GORM model to domain entity
func (m *CommentModel) ToDomain() *tasks.Comment {
	return &tasks.Comment{
		ID:        m.ID,
		Text:      m.Text,
		TaskID:    m.TaskID,
		AuthorID:  m.AuthorID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *CommentModel) FromDomain(c *tasks.Comment) {
	m.ID = c.ID
	m.Text = c.Text
	m.TaskID = c.TaskID
	m.AuthorID = c.AuthorID
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}
