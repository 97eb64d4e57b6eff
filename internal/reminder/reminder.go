// Package reminder produces periodic digests of upcoming and overdue tasks.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"taskcal/internal/query"
	"taskcal/internal/storage"
)

// Digest summarizes each user's open workload into the service log.
type Digest struct {
	store  *storage.Store
	logger *slog.Logger
	loc    *time.Location
}

// NewDigest builds a digest over the given store.
func NewDigest(store *storage.Store, logger *slog.Logger, loc *time.Location) *Digest {
	if logger == nil {
		logger = slog.Default()
	}
	return &Digest{store: store, logger: logger, loc: loc}
}

// Run computes one digest pass for every user.
func (d *Digest) Run(ctx context.Context) error {
	users, err := d.store.ListUsers(ctx)
	if err != nil {
		return err
	}

	now := time.Now().In(d.loc)
	for _, user := range users {
		tasks, err := d.store.ListTasks(ctx, user.ID)
		if err != nil {
			return err
		}

		upcoming := query.Upcoming(tasks, now, query.DefaultUpcomingHours*time.Hour)
		overdue := query.Overdue(tasks, now)
		if len(upcoming) == 0 && len(overdue) == 0 {
			continue
		}

		attrs := []any{
			slog.String("user", user.Username),
			slog.Int("upcoming", len(upcoming)),
			slog.Int("overdue", len(overdue)),
		}
		if len(upcoming) > 0 {
			attrs = append(attrs,
				slog.String("next", upcoming[0].Title),
				slog.String("next_at", upcoming[0].StartTime.String()))
		}
		d.logger.Info("task digest", attrs...)
	}
	return nil
}
