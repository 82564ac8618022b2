// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/testutil"
)

type fakePruner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (p *fakePruner) DeleteOldEvents(_ context.Context, olderThan time.Duration) (int64, error) {
	p.retention = olderThan
	return p.deleted, p.err
}

type fakeRefresher struct{ calls int }

func (r *fakeRefresher) Refresh(context.Context) error {
	r.calls++
	return nil
}

func TestScheduler_AddAndList(t *testing.T) {
	s := New(testutil.TestLoggerSilent())

	if err := s.Add(PruneEvents(&fakePruner{}, 24*time.Hour, testutil.TestLoggerSilent())); err != nil {
		t.Fatalf("Add(prune) error = %v", err)
	}
	if err := s.Add(RefreshContent(&fakeRefresher{}, "*/5 * * * *")); err != nil {
		t.Fatalf("Add(refresh) error = %v", err)
	}
	if err := s.Add(RefreshContent(&fakeRefresher{}, "@hourly")); err == nil {
		t.Error("duplicate job name accepted")
	}
	if err := s.Add(Job{Name: "bad", Schedule: "not a cron", Run: func(context.Context) error { return nil }}); err == nil {
		t.Error("invalid schedule accepted")
	}

	jobs := s.List()
	if len(jobs) != 2 {
		t.Fatalf("List() = %d jobs, want 2", len(jobs))
	}
	if jobs[0].Name != "prune-events" || jobs[1].Name != "refresh-content" {
		t.Errorf("List() names = %q, %q", jobs[0].Name, jobs[1].Name)
	}
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	pruner := &fakePruner{deleted: 3}
	refresher := &fakeRefresher{}
	_ = s.Add(PruneEvents(pruner, 90*24*time.Hour, testutil.TestLoggerSilent()))
	_ = s.Add(RefreshContent(refresher, "@every 1h"))

	ctx := context.Background()
	if err := s.RunNow(ctx, "prune-events"); err != nil {
		t.Fatalf("RunNow(prune-events) error = %v", err)
	}
	if pruner.retention != 90*24*time.Hour {
		t.Errorf("retention = %v, want 90 days", pruner.retention)
	}
	if err := s.RunNow(ctx, "refresh-content"); err != nil || refresher.calls != 1 {
		t.Errorf("RunNow(refresh-content) = %v, calls = %d", err, refresher.calls)
	}

	pruner.err = errors.New("disk I/O error")
	if err := s.RunNow(ctx, "prune-events"); !errors.Is(err, pruner.err) {
		t.Errorf("RunNow error = %v, want job error", err)
	}
	if err := s.RunNow(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("RunNow(missing) error = %v, want ErrNotFound", err)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	_ = s.Add(RefreshContent(&fakeRefresher{}, "@daily"))

	s.Start()
	if next := s.List()[0].NextRun; next.IsZero() {
		t.Error("NextRun is zero after Start")
	}
	s.Stop()
}
