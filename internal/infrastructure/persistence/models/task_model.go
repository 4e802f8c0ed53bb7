package models

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
)

// TaskModel is the GORM database model for tasks
type TaskModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Status      string    `gorm:"type:varchar(20);not null;default:'Open';index"`
	AssigneeID  uint      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts GORM model to domain entity
func (m *TaskModel) ToDomain() *tasks.Task {
	return &tasks.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      tasks.Status(m.Status),
		AssigneeID:  m.AssigneeID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *TaskModel) FromDomain(t *tasks.Task) {
	m.ID = t.ID
	m.Title = t.Title
	m.Description = t.Description
	m.Status = string(t.Status)
	m.AssigneeID = t.AssigneeID
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
}
