package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskcal/internal/apperr"
	"taskcal/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedUser(t *testing.T, store *Store, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Active:       true,
	}
	if err := store.CreateUser(context.Background(), &user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestTaskRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "alice")

	start := models.NewLocalTime(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	end := models.NewLocalTime(start.Add(time.Hour))
	task := models.Task{
		UserID:         user.ID,
		Title:          "write report",
		Description:    "quarterly numbers",
		StartTime:      start,
		EndTime:        &end,
		Priority:       models.PriorityHigh,
		Status:         models.StatusPending,
		Category:       "work",
		Color:          models.DefaultTaskColor,
		RepeatType:     models.RepeatNone,
		RepeatInterval: 1,
	}
	if err := store.CreateTask(ctx, &task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("create did not assign an id")
	}

	got, err := store.GetTask(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != task.Title || got.Category != task.Category || got.Priority != models.PriorityHigh {
		t.Errorf("fields lost in round trip: %+v", got)
	}
	if !got.StartTime.Equal(start.Time) {
		t.Errorf("start time %v, want %v", got.StartTime, start)
	}
	if got.EndTime == nil || !got.EndTime.Equal(end.Time) {
		t.Errorf("end time %v, want %v", got.EndTime, end)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}
}

func TestTasksAreScopedByUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	task := models.Task{
		UserID:    alice.ID,
		Title:     "private",
		StartTime: models.NewLocalTime(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)),
		Status:    models.StatusPending,
	}
	if err := store.CreateTask(ctx, &task); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.GetTask(ctx, bob.ID, task.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's task, got %v", err)
	}
	if err := store.DeleteTask(ctx, bob.ID, task.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting another user's task, got %v", err)
	}

	tasks, err := store.ListTasks(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("bob sees %d of alice's tasks", len(tasks))
	}
}

func TestListTasksOrderedByStart(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "alice")

	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	for _, offset := range []int{3, 1, 2} {
		task := models.Task{
			UserID:    user.ID,
			Title:     "t",
			StartTime: models.NewLocalTime(base.AddDate(0, 0, offset)),
			Status:    models.StatusPending,
		}
		if err := store.CreateTask(ctx, &task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tasks, err := store.ListTasks(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i].StartTime.Before(tasks[i-1].StartTime.Time) {
			t.Fatal("tasks not ordered by start time")
		}
	}
}

func TestDeleteTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "alice")

	task := models.Task{
		UserID:    user.ID,
		Title:     "gone soon",
		StartTime: models.NewLocalTime(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)),
		Status:    models.StatusPending,
	}
	if err := store.CreateTask(ctx, &task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.DeleteTask(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetTask(ctx, user.ID, task.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteTask(ctx, user.ID, task.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestOccurrenceLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "alice")

	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	template := models.Task{
		UserID:    user.ID,
		Title:     "standup",
		StartTime: models.NewLocalTime(start),
		Status:    models.StatusPending,
	}
	if err := store.CreateTask(ctx, &template); err != nil {
		t.Fatalf("create template: %v", err)
	}

	for i := 3; i >= 1; i-- {
		id := template.ID
		occ := models.Task{
			UserID:         user.ID,
			Title:          "standup",
			StartTime:      models.NewLocalTime(start.AddDate(0, 0, i)),
			Status:         models.StatusPending,
			OriginalTaskID: &id,
		}
		if err := store.CreateTask(ctx, &occ); err != nil {
			t.Fatalf("create occurrence: %v", err)
		}
	}

	occurrences, err := store.ListOccurrences(ctx, user.ID, template.ID)
	if err != nil {
		t.Fatalf("list occurrences: %v", err)
	}
	if len(occurrences) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(occurrences))
	}
	for i := 1; i < len(occurrences); i++ {
		if occurrences[i].StartTime.Before(occurrences[i-1].StartTime.Time) {
			t.Fatal("occurrences not ordered by start time")
		}
	}

	deleted, err := store.DeleteOccurrences(ctx, user.ID, template.ID)
	if err != nil {
		t.Fatalf("delete occurrences: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted %d occurrences, want 3", deleted)
	}

	// The template itself stays.
	if _, err := store.GetTask(ctx, user.ID, template.ID); err != nil {
		t.Errorf("template should survive occurrence deletion: %v", err)
	}
}

func TestUserLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "alice")

	byName, err := store.UserByLogin(ctx, "alice")
	if err != nil || byName.ID != user.ID {
		t.Errorf("lookup by username: %v, %v", byName.ID, err)
	}
	byEmail, err := store.UserByLogin(ctx, "alice@example.com")
	if err != nil || byEmail.ID != user.ID {
		t.Errorf("lookup by email: %v, %v", byEmail.ID, err)
	}
	if _, err := store.UserByLogin(ctx, "nobody"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
