package workers

import (
	"context"
	"time"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/repositories"

	"gorm.io/gorm"
)

// NotificationWorker prunes read notifications past their retention.
type NotificationWorker struct {
	db        *gorm.DB
	repo      repositories.NotificationRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

func NewNotificationWorker(db *gorm.DB, repo repositories.NotificationRepository, retention, interval time.Duration) *NotificationWorker {
	return &NotificationWorker{
		db:        db,
		repo:      repo,
		retention: retention,
		interval:  interval,
		now:       time.Now,
	}
}

// Start runs the cleanup loop in the background until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *NotificationWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		case <-ticker.C:
			if _, err := w.PruneOnce(ctx); err != nil {
				logger.Error("Error pruning read notifications", "error", err)
			}
		}
	}
}

// PruneOnce deletes read notifications older than the retention window.
func (w *NotificationWorker) PruneOnce(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.retention)
	deleted, err := w.repo.DeleteReadBefore(w.db.WithContext(ctx), cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		logger.Info("Pruned read notifications", "count", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
