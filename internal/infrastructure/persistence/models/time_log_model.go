package models

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
)

// TimeLogModel is the GORM database model for time logs
type TimeLogModel struct {
	ID              uint       `gorm:"primaryKey"`
	UserID          uint       `gorm:"not null;index"`
	TaskID          uint       `gorm:"not null;index"`
	StartTime       *time.Time `gorm:"index"`
	EndTime         *time.Time
	Date            *time.Time `gorm:"index"`
	DurationMinutes *int
	CreatedAt       time.Time `gorm:"not null;index"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (TimeLogModel) TableName() string {
	return "time_logs"
}

// ToDomain converts GORM model to domain entity
func (m *TimeLogModel) ToDomain() *tasks.TimeLog {
	return &tasks.TimeLog{
		ID:              m.ID,
		UserID:          m.UserID,
		TaskID:          m.TaskID,
		StartTime:       utcPtr(m.StartTime),
		EndTime:         utcPtr(m.EndTime),
		Date:            utcPtr(m.Date),
		DurationMinutes: m.DurationMinutes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *TimeLogModel) FromDomain(l *tasks.TimeLog) {
	m.ID = l.ID
	m.UserID = l.UserID
	m.TaskID = l.TaskID
	m.StartTime = utcPtr(l.StartTime)
	m.EndTime = utcPtr(l.EndTime)
	m.Date = utcPtr(l.Date)
	m.DurationMinutes = l.DurationMinutes
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// utcPtr normalises stored instants so range comparisons agree across drivers
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
