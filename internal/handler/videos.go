// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kemujan/hubcms/internal/collection"
	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/videoref"
)

// VideosHandler serves the video collection.
type VideosHandler struct {
	dash   *dashboard.Dashboard
	logger *slog.Logger
}

// NewVideosHandler creates a new VideosHandler.
func NewVideosHandler(dash *dashboard.Dashboard, logger *slog.Logger) *VideosHandler {
	return &VideosHandler{dash: dash, logger: logger}
}

// List handles GET /videos. Videos come back in display order; ?active=true
// keeps only active ones.
func (h *VideosHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := h.dash.Videos.List(r.Context()); err != nil {
		writeErr(w, h.logger, err)
		return
	}
	items := h.dash.Videos.Ordered()
	if r.URL.Query().Get("active") == "true" {
		active := items[:0]
		for _, v := range items {
			if v.IsActive {
				active = append(active, v)
			}
		}
		items = active
	}
	WriteSuccess(w, items, h.dash.Videos.Summary())
}

// Create handles POST /videos.
func (h *VideosHandler) Create(w http.ResponseWriter, r *http.Request) {
	var v model.Video
	if !decodeJSON(w, r, &v) {
		return
	}
	warning, err := splitReload(h.dash.Videos.Create(r.Context(), v))
	err = h.record(r.Context(), "create video", err, map[string]any{"title": v.Title})
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, Response{Data: h.dash.Videos.Ordered(), Meta: h.dash.Videos.Summary(), Warning: warning})
}

// Update handles PUT /videos/{id}. The body names only the fields to
// change; the rest keep their current values.
func (h *VideosHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	var patch collection.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}
	warning, err := splitReload(h.dash.Videos.Update(r.Context(), id, patch))
	err = h.record(r.Context(), "update video", err, map[string]any{"id": id})
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, Response{Data: h.dash.Videos.Ordered(), Meta: h.dash.Videos.Summary(), Warning: warning})
}

// Toggle handles POST /videos/{id}/toggle.
func (h *VideosHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	warning, err := splitReload(h.dash.Videos.Toggle(r.Context(), id))
	err = h.record(r.Context(), "toggle video", err, map[string]any{"id": id})
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, Response{Data: h.dash.Videos.Ordered(), Meta: h.dash.Videos.Summary(), Warning: warning})
}

// Delete handles DELETE /videos/{id}?confirm=yes.
func (h *VideosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.dash.Videos.Delete(r.Context(), id, requestConfirm(r))
	warning, err := splitReload(err)
	if deleted || err != nil {
		err = h.record(r.Context(), "delete video", err, map[string]any{"id": id})
	}
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, deleteResult{Deleted: deleted, Declined: !deleted, Warning: warning})
}

// Resolve handles POST /videos/resolve. Nothing is sent to the content
// service.
func (h *VideosHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ref string `json:"ref"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	ref, err := videoref.Describe(req.Ref)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, ref)
}

func (h *VideosHandler) record(ctx context.Context, op string, err error, metadata map[string]any) error {
	return h.dash.Record(ctx, model.EventCategoryVideo, op, err, metadata)
}
