package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/brianvoe/gofakeit/v7"
)

// Seed prerequisites
var (
	ErrNoUsers        = errors.New("no users found to generate tasks, run the generate users command")
	ErrNoUsersOrTasks = errors.New("there must be users and tasks in the database")
)

const (
	seedPassword       = "password123"
	seedUserSampleSize = 100
	seedTaskSampleSize = 500
)

var seedDurations = []int{30, 60, 90, 120}

// Seeder fills the database with fake users, tasks and time logs
type Seeder struct {
	userRepo    users.UserRepository
	taskRepo    tasks.TaskRepository
	timeLogRepo tasks.TimeLogRepository
	hasher      users.PasswordHasher
	faker       *gofakeit.Faker
	logger      logger.Logger
	now         func() time.Time
}

// NewSeeder creates a seeder. A zero seed picks a random one.
func NewSeeder(
	userRepo users.UserRepository,
	taskRepo tasks.TaskRepository,
	timeLogRepo tasks.TimeLogRepository,
	hasher users.PasswordHasher,
	seed uint64,
	logger logger.Logger,
) *Seeder {
	return &Seeder{
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		timeLogRepo: timeLogRepo,
		hasher:      hasher,
		faker:       gofakeit.New(seed),
		logger:      logger,
		now:         time.Now,
	}
}

// GenerateUsers creates count users sharing one known password
func (s *Seeder) GenerateUsers(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}

	hash, err := s.hasher.Hash(seedPassword)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, count)
	list := make([]*users.User, 0, count)
	for len(list) < count {
		username := strings.ToLower(fmt.Sprintf("%s%d", s.faker.Username(), s.faker.Number(1000, 999999)))
		if seen[username] {
			continue
		}
		taken, err := s.userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return 0, err
		}
		if taken {
			continue
		}
		seen[username] = true

		list = append(list, &users.User{
			Username:     username,
			Email:        username + "@" + s.faker.DomainName(),
			FirstName:    s.faker.FirstName(),
			LastName:     s.faker.LastName(),
			PasswordHash: hash,
		})
	}

	if err := s.userRepo.CreateBatch(ctx, list); err != nil {
		return 0, err
	}
	return len(list), nil
}

// GenerateTasks creates count tasks assigned to random existing users
func (s *Seeder) GenerateTasks(ctx context.Context, count int) (int, error) {
	sample, err := s.userRepo.List(ctx, seedUserSampleSize)
	if err != nil {
		return 0, err
	}
	if len(sample) == 0 {
		return 0, ErrNoUsers
	}
	if count <= 0 {
		return 0, nil
	}

	list := make([]*tasks.Task, 0, count)
	for i := 0; i < count; i++ {
		title := strings.TrimSuffix(s.faker.Sentence(4), ".")
		if len(title) > 100 {
			title = title[:100]
		}
		list = append(list, &tasks.Task{
			Title:      title,
			Status:     tasks.StatusOpen,
			AssigneeID: sample[s.faker.IntN(len(sample))].ID,
		})
	}

	if err := s.taskRepo.CreateBatch(ctx, list); err != nil {
		return 0, err
	}
	return len(list), nil
}

// GenerateTimeLogs creates count date logs within the last 60 days, mostly by the task's assignee
func (s *Seeder) GenerateTimeLogs(ctx context.Context, count int) (int, error) {
	userSample, err := s.userRepo.List(ctx, seedUserSampleSize)
	if err != nil {
		return 0, err
	}
	taskSample, err := s.taskRepo.ListAll(ctx, seedTaskSampleSize)
	if err != nil {
		return 0, err
	}
	if len(userSample) == 0 || len(taskSample) == 0 {
		return 0, ErrNoUsersOrTasks
	}
	if count <= 0 {
		return 0, nil
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	list := make([]*tasks.TimeLog, 0, count)
	for i := 0; i < count; i++ {
		task := taskSample[s.faker.IntN(len(taskSample))]
		userID := task.AssigneeID
		if userID == 0 {
			userID = userSample[s.faker.IntN(len(userSample))].ID
		}
		date := s.faker.DateRange(today.AddDate(0, 0, -60), today).UTC().Truncate(24 * time.Hour)
		minutes := s.faker.RandomInt(seedDurations)

		list = append(list, &tasks.TimeLog{UserID: userID, TaskID: task.ID, Date: &date, DurationMinutes: &minutes})
	}

	s.logger.Info(fmt.Sprintf("Creating %d TimeLog records...", len(list)))
	if err := s.timeLogRepo.CreateBatch(ctx, list); err != nil {
		return 0, err
	}
	return len(list), nil
}
