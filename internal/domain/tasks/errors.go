package tasks

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrTimeLogNotFound    = errors.New("time log not found")
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrAlreadyCompleted is returned when completing a completed task
	ErrAlreadyCompleted = errors.New("task already completed")
	// ErrNoActiveTimer is returned when stopping a timer that was never started
	ErrNoActiveTimer = errors.New("active timer not found for this task")
	// ErrInvalidDuration is returned when a timer would stop at or before its start
	ErrInvalidDuration = errors.New("timelog duration must be greater than zero")
)
