package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"
)

func invalidPK(field string, id uint) error {
	return validators.NewFieldError(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
}

// requireTask loads the task referenced by field, reporting a missing one as a field error
func requireTask(ctx context.Context, repo tasks.TaskRepository, field string, id uint) (*tasks.Task, error) {
	task, err := repo.GetByID(ctx, id)
	if errors.Is(err, tasks.ErrTaskNotFound) {
		return nil, invalidPK(field, id)
	}
	return task, err
}

// requireUser loads the user referenced by field, reporting a missing one as a field error
func requireUser(ctx context.Context, repo users.UserRepository, field string, id uint) (*users.User, error) {
	user, err := repo.GetByID(ctx, id)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, invalidPK(field, id)
	}
	return user, err
}
