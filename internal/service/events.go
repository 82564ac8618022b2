// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service builds the article, question and video collections on
// top of the generic collection manager and provides the audit event log.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/store"
)

// EventService records and lists audit events.
type EventService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, logger *slog.Logger) *EventService {
	return &EventService{
		queries: store.New(db),
		logger:  logger,
	}
}

// EventSource describes who triggered an event and from where.
type EventSource struct {
	Actor      string
	IPAddress  string
	RequestURL string
}

type sourceKey struct{}

// WithSource returns ctx carrying src for later audit entries.
func WithSource(ctx context.Context, src EventSource) context.Context {
	return context.WithValue(ctx, sourceKey{}, src)
}

// SourceFrom returns the EventSource stored by WithSource.
func SourceFrom(ctx context.Context) EventSource {
	src, _ := ctx.Value(sourceKey{}).(EventSource)
	return src
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, src EventSource, metadata map[string]any) error {
	metadataJSON := "{}"
	if len(metadata) > 0 {
		if data, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(data)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:      level,
		Category:   category,
		Message:    message,
		Actor:      sql.NullString{String: src.Actor, Valid: src.Actor != ""},
		Metadata:   metadataJSON,
		IpAddress:  src.IPAddress,
		RequestUrl: src.RequestURL,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		// Not logged at WARN: the event log handler would try to write it
		// back into the same table.
		s.logger.Info("failed to log event", "error", err, "message", message)
		return err
	}
	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, src EventSource, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, src, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, src EventSource, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, src, metadata)
}

// LogError logs an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message string, src EventSource, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, src, metadata)
}

// EventFilter narrows Recent. Zero values match everything.
type EventFilter struct {
	Level    string
	Category string
	Limit    int
	Offset   int
}

// Recent returns events newest first. The limit defaults to 50 and is
// capped at 500.
func (s *EventService) Recent(ctx context.Context, f EventFilter) ([]model.Event, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := s.queries.ListEvents(ctx, store.ListEventsParams{
		Level:    f.Level,
		Category: f.Category,
		Limit:    int64(limit),
		Offset:   int64(max(f.Offset, 0)),
	})
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, len(rows))
	for i, r := range rows {
		events[i] = model.Event{
			ID:        r.ID,
			Level:     r.Level,
			Category:  r.Category,
			Message:   r.Message,
			Actor:     r.Actor,
			Metadata:  r.Metadata,
			CreatedAt: r.CreatedAt,
		}
	}
	return events, nil
}

// DeleteOldEvents removes events older than the given duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().UTC().Add(-olderThan))
}
