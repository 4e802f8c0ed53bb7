package search

import (
	"context"
	"errors"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
)

var (
	// ErrInvalidTarget is returned for targets other than task and comment
	ErrInvalidTarget = errors.New("invalid target parameter")
	// ErrClusterUnavailable wraps transport failures reaching the search cluster
	ErrClusterUnavailable = errors.New("search cluster unavailable")
)

// Indexer writes documents to the search cluster
type Indexer interface {
	// EnsureIndices creates missing indices and leaves existing ones untouched
	EnsureIndices(ctx context.Context) error
	// RecreateIndices drops and creates every index
	RecreateIndices(ctx context.Context) error
	IndexTask(ctx context.Context, task *tasks.Task) error
	DeleteTask(ctx context.Context, id uint) error
	IndexComment(ctx context.Context, comment *tasks.Comment) error
	DeleteComment(ctx context.Context, id uint) error
	BulkIndex(ctx context.Context, tasks []*tasks.Task, comments []*tasks.Comment) error
}

// Searcher runs full-text queries
type Searcher interface {
	Search(ctx context.Context, target Target, query string) ([]Hit, error)
}

// SearchService defines search and index maintenance operations.
type SearchService interface {
	Search(ctx context.Context, target Target, query string) ([]Hit, error)

	// Init creates missing indices, waiting for the cluster to come up.
	Init(ctx context.Context) error

	// Rebuild recreates the indices and loads every task and comment from the database.
	Rebuild(ctx context.Context) error
}
