package tasks

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/pkg/validators"
)

// Comment entity
type Comment struct {
	ID        uint
	Text      string `json:"text" validate:"required"`
	TaskID    uint   `json:"task" validate:"required"`
	AuthorID  uint   `json:"author" validate:"required"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate for validating Comment struct
func (c *Comment) Validate() error {
	return validators.Struct(validators.New(), c)
}
