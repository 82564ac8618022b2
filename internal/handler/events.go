// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kemujan/hubcms/internal/service"
)

// EventsPerPage is the default number of events returned.
const EventsPerPage = 50

// EventsHandler lists the audit log.
type EventsHandler struct {
	events *service.EventService
	logger *slog.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(events *service.EventService, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{events: events, logger: logger}
}

// EventView is an audit event as returned by the API.
type EventView struct {
	ID        int64          `json:"id"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	Actor     string         `json:"actor,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// List handles GET /events?level=&category=&limit=&offset=.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.EventFilter{
		Level:    q.Get("level"),
		Category: q.Get("category"),
		Limit:    queryInt(r, "limit", EventsPerPage),
		Offset:   queryInt(r, "offset", 0),
	}
	events, err := h.events.Recent(r.Context(), filter)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}

	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = EventView{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Actor:     e.Actor.String,
			CreatedAt: e.CreatedAt,
		}
		if e.Metadata != "" && e.Metadata != "{}" {
			// Malformed metadata is dropped rather than failing the listing.
			_ = json.Unmarshal([]byte(e.Metadata), &views[i].Metadata)
		}
	}
	WriteSuccess(w, views, map[string]int{"limit": filter.Limit, "offset": filter.Offset})
}
