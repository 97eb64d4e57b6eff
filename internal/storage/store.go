// Package storage is the persistence layer: gorm over SQLite, one Store
// exposing task and user access. All task rows are scoped by owner.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"taskcal/internal/apperr"
	"taskcal/internal/models"
)

// Store wraps the database handle and exposes high level helpers.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open initializes the SQLite database and runs migrations.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureDir(dsn); err != nil {
		return nil, err
	}

	dbLogger := gormlogger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("database ready", slog.String("dsn", dsn))
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureDir(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func now() models.LocalTime {
	return models.NewLocalTime(time.Now().In(models.Location()))
}

// CreateTask persists a new task and fills its id and timestamps.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetTask fetches one task owned by the given user.
func (s *Store) GetTask(ctx context.Context, userID, id int64) (models.Task, error) {
	var t models.Task
	err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, fmt.Errorf("task %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasks returns every task of the user ordered by start time.
func (s *Store) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// SaveTask writes back a modified task.
func (s *Store) SaveTask(ctx context.Context, t *models.Task) error {
	t.UpdatedAt = now()
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// DeleteTask removes one task owned by the user.
func (s *Store) DeleteTask(ctx context.Context, userID, id int64) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// ListOccurrences returns the generated occurrences of a template, ordered by
// start time.
func (s *Store) ListOccurrences(ctx context.Context, userID, templateID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND original_task_id = ?", userID, templateID).
		Order("start_time ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}
	return tasks, nil
}

// DeleteOccurrences removes every occurrence generated from a template and
// reports how many were deleted.
func (s *Store) DeleteOccurrences(ctx context.Context, userID, templateID int64) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND original_task_id = ?", userID, templateID).
		Delete(&models.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete occurrences: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CreateUser persists a new account.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser fetches an account by id.
func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UserByLogin fetches an account by username or email.
func (s *Store) UserByLogin(ctx context.Context, login string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("user %q: %w", login, apperr.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// ListUsers returns every account.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SaveUser writes back a modified account.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = now()
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
