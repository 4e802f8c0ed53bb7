package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"
)

// searchService implements the SearchService interface
type searchService struct {
	indexer     search.Indexer
	searcher    search.Searcher
	taskRepo    tasks.TaskRepository
	commentRepo tasks.CommentRepository
	settings    *config.SearchSettings
	logger      logger.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewSearchService creates a new instance of SearchService
func NewSearchService(
	indexer search.Indexer,
	searcher search.Searcher,
	taskRepo tasks.TaskRepository,
	commentRepo tasks.CommentRepository,
	settings *config.SearchSettings,
	logger logger.Logger,
) (search.SearchService, error) {
	return &searchService{
		indexer:     indexer,
		searcher:    searcher,
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		settings:    settings,
		logger:      logger,
		sleep:       sleepContext,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Search validates the parameters and runs the query against the target index
func (s *searchService) Search(ctx context.Context, target search.Target, query string) ([]search.Hit, error) {
	verr := &validators.ValidationError{}
	if target == "" {
		verr.Add("target", "This field is required.")
	}
	if strings.TrimSpace(query) == "" {
		verr.Add("query", "This field is required.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if target != search.TargetTask && target != search.TargetComment {
		return nil, search.ErrInvalidTarget
	}

	return s.searcher.Search(ctx, target, query)
}

// Init creates missing indices. While the cluster is unreachable it retries up to
// MaxAttempts times, RetryDelay apart, then returns the last error.
func (s *searchService) Init(ctx context.Context) error {
	attempts := s.settings.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		s.logger.Info(fmt.Sprintf("[%d] Connecting to Elasticsearch...", attempt))
		err = s.indexer.EnsureIndices(ctx)
		if err == nil {
			s.logger.Info("Elasticsearch indices initialized.")
			return nil
		}
		if !errors.Is(err, search.ErrClusterUnavailable) {
			return fmt.Errorf("failed to initialize search indices: %w", err)
		}

		s.logger.Warn(fmt.Sprintf("[%d] Elasticsearch not ready: %v", attempt, err))
		if attempt == attempts {
			break
		}
		if serr := s.sleep(ctx, s.settings.RetryDelay); serr != nil {
			return serr
		}
	}
	return fmt.Errorf("elasticsearch unavailable after %d attempts: %w", attempts, err)
}

// Rebuild recreates the indices and loads every task and comment in BulkSize batches
func (s *searchService) Rebuild(ctx context.Context) error {
	if err := s.indexer.RecreateIndices(ctx); err != nil {
		return fmt.Errorf("failed to recreate search indices: %w", err)
	}

	taskList, err := s.taskRepo.ListAll(ctx, 0)
	if err != nil {
		return err
	}
	comments, err := s.commentRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	size := s.settings.BulkSize
	if size < 1 {
		size = len(taskList) + len(comments) + 1
	}
	for start := 0; start < len(taskList); start += size {
		end := min(start+size, len(taskList))
		if err := s.indexer.BulkIndex(ctx, taskList[start:end], nil); err != nil {
			return err
		}
	}
	for start := 0; start < len(comments); start += size {
		end := min(start+size, len(comments))
		if err := s.indexer.BulkIndex(ctx, nil, comments[start:end]); err != nil {
			return err
		}
	}

	s.logger.Info(fmt.Sprintf("Rebuilt search indices with %d tasks and %d comments", len(taskList), len(comments)))
	return nil
}
