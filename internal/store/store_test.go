// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "hubcms-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

func TestMigrate_Idempotent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	v, err := MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if v != 2 {
		t.Errorf("version = %d, want 2", v)
	}

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='sessions'`).Scan(&name)
	if err != nil {
		t.Errorf("sessions table missing: %v", err)
	}
}

func TestCreateAndListEvents(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC().Truncate(time.Second)

	for i, c := range []struct{ level, category, message string }{
		{"info", "content", "section committed"},
		{"warning", "auth", "login failed"},
		{"info", "video", "video toggled"},
	} {
		e, err := q.CreateEvent(ctx, CreateEventParams{
			Level:     c.level,
			Category:  c.category,
			Message:   c.message,
			Actor:     sql.NullString{String: "admin", Valid: true},
			Metadata:  "{}",
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
		if e.ID == 0 {
			t.Error("CreateEvent returned zero id")
		}
	}

	all, err := q.ListEvents(ctx, ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].Message != "video toggled" {
		t.Errorf("newest event = %q, want %q", all[0].Message, "video toggled")
	}

	warnings, err := q.ListEvents(ctx, ListEventsParams{Level: "warning", Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents(warning): %v", err)
	}
	if len(warnings) != 1 || warnings[0].Category != "auth" {
		t.Errorf("warnings = %+v", warnings)
	}

	n, err := q.CountEvents(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountEvents = %d, %v; want 3", n, err)
	}
}

func TestDeleteEventsBefore(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	for _, at := range []time.Time{now.AddDate(0, 0, -40), now.AddDate(0, 0, -31), now} {
		if _, err := q.CreateEvent(ctx, CreateEventParams{
			Level: "info", Category: "system", Message: "tick", Metadata: "{}", CreatedAt: at,
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	removed, err := q.DeleteEventsBefore(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}
