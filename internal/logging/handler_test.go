// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/store"
	"github.com/kemujan/hubcms/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, q *store.Queries) []store.Event {
	t.Helper()
	events, err := q.ListEvents(context.Background(), store.ListEventsParams{Limit: 50})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_ForwardsWarnAndAbove(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Info("section committed", "section", "hero")
	logger.Debug("content service request", "op", "fetch content")
	logger.Warn("section commit failed", "section", "hero", "error", "status 500")
	logger.Error("listing failed", "collection", "videos")

	events := listEvents(t, store.New(db))
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}

	byMessage := map[string]store.Event{}
	for _, e := range events {
		byMessage[e.Message] = e
	}

	warn := byMessage["section commit failed"]
	if warn.Level != model.EventLevelWarning {
		t.Errorf("warn level = %q, want %q", warn.Level, model.EventLevelWarning)
	}
	if warn.Category != model.EventCategoryContent {
		t.Errorf("warn category = %q, want %q", warn.Category, model.EventCategoryContent)
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(warn.Metadata), &meta); err != nil {
		t.Fatalf("metadata %q: %v", warn.Metadata, err)
	}
	if meta["section"] != "hero" || meta["error"] != "status 500" {
		t.Errorf("metadata = %v", meta)
	}

	errEvent := byMessage["listing failed"]
	if errEvent.Level != model.EventLevelError || errEvent.Category != model.EventCategoryVideo {
		t.Errorf("error event = %q/%q", errEvent.Level, errEvent.Category)
	}
}

func TestEventLogHandler_WithAttrs(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("collection", "questions")
	logger.Warn("collection mutation failed", "op", "answer")

	events := listEvents(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryQuestion {
		t.Errorf("category = %q, want %q", events[0].Category, model.EventCategoryQuestion)
	}
	var meta map[string]string
	_ = json.Unmarshal([]byte(events[0].Metadata), &meta)
	if meta["op"] != "answer" || meta["collection"] != "questions" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))
	logger.Warn("ignored warning")
	logger.Error("kept error", "category", model.EventCategoryCache)

	events := listEvents(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryCache {
		t.Errorf("category = %q, want %q", events[0].Category, model.EventCategoryCache)
	}
	if events[0].Metadata != "{}" {
		t.Errorf("metadata = %q, want {}", events[0].Metadata)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		msg    string
		fields map[string]string
		want   string
	}{
		{"login failed", nil, model.EventCategoryAuth},
		{"theme commit failed", nil, model.EventCategoryTheme},
		{"snapshot publish failed", nil, model.EventCategoryCache},
		{"anything", map[string]string{"collection": "articles"}, model.EventCategoryArticle},
		{"anything", map[string]string{"category": "custom"}, "custom"},
		{"server stopped", nil, model.EventCategorySystem},
	}
	for _, tt := range tests {
		if got := categorize(tt.msg, tt.fields); got != tt.want {
			t.Errorf("categorize(%q, %v) = %q, want %q", tt.msg, tt.fields, got, tt.want)
		}
	}
}
