package tasks

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/pkg/validators"
)

// TimeLog records time spent on a task, either as a start/end timer or as minutes on a date
type TimeLog struct {
	ID              uint
	UserID          uint `json:"user" validate:"required"`
	TaskID          uint `json:"task" validate:"required"`
	StartTime       *time.Time
	EndTime         *time.Time
	Date            *time.Time
	DurationMinutes *int `json:"duration_minutes" validate:"omitempty,min=0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate for validating TimeLog struct
func (l *TimeLog) Validate() error {
	return validators.Struct(validators.New(), l)
}

// Active reports whether the timer was started and not stopped
func (l *TimeLog) Active() bool {
	return l.StartTime != nil && l.EndTime == nil
}

// CalculateDuration returns whole minutes between start and end when both are set,
// otherwise the stored duration (nil when none)
func (l *TimeLog) CalculateDuration() *int {
	if l.StartTime != nil && l.EndTime != nil {
		minutes := int(l.EndTime.Sub(*l.StartTime) / time.Minute)
		return &minutes
	}
	return l.DurationMinutes
}

// TimeLogQuery filters time log listings
type TimeLogQuery struct {
	TaskID *uint
	UserID *uint
}

// DateLog is the input for logging minutes on a specific date
type DateLog struct {
	TaskID          uint      `json:"task" validate:"required"`
	Date            time.Time `json:"date" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"min=1"`
}

// Validate checks the date log input
func (d *DateLog) Validate() error {
	return validators.Struct(validators.New(), d)
}
