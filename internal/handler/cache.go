// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kemujan/hubcms/internal/cache"
	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/snapshot"
)

// CacheHandler reports snapshot cache statistics and republishes the
// snapshots on demand.
type CacheHandler struct {
	cache     cache.Cacher
	publisher *snapshot.Publisher
	dash      *dashboard.Dashboard
	logger    *slog.Logger
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(c cache.Cacher, pub *snapshot.Publisher, dash *dashboard.Dashboard, logger *slog.Logger) *CacheHandler {
	return &CacheHandler{cache: c, publisher: pub, dash: dash, logger: logger}
}

// Stats handles GET /cache/stats.
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sp, ok := h.cache.(cache.StatsProvider)
	if !ok {
		WriteSuccess(w, nil, map[string]bool{"stats": false})
		return
	}
	WriteSuccess(w, sp.Stats(), nil)
}

// Republish handles POST /cache/republish: the synchronized content and
// theme are written to the cache again. Drafts are never published.
func (h *CacheHandler) Republish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := errors.Join(
		h.publisher.PublishContent(ctx, h.dash.Content.Snapshot()),
		h.publisher.PublishTheme(ctx, h.dash.Theme.Snapshot()),
	)
	h.dash.Record(ctx, model.EventCategoryCache, "republish snapshots", err, nil)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"published": true})
}
