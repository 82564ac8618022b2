// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// EventPruner deletes audit events older than a duration.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Refresher reloads synchronized state from the remote service.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// PruneEvents returns a daily job removing events older than retention.
func PruneEvents(events EventPruner, retention time.Duration, logger *slog.Logger) Job {
	return Job{
		Name:     "prune-events",
		Schedule: "@daily",
		Run: func(ctx context.Context) error {
			n, err := events.DeleteOldEvents(ctx, retention)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("pruned old events", "deleted", n, "retention", retention)
			}
			return nil
		},
	}
}

// RefreshContent returns a job that reloads content and theme so published
// snapshots follow changes made outside this dashboard.
func RefreshContent(r Refresher, schedule string) Job {
	return Job{
		Name:     "refresh-content",
		Schedule: schedule,
		Run:      r.Refresh,
	}
}
