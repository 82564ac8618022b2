// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/scheduler"
)

// SchedulerHandler lists housekeeping jobs and triggers them on demand.
type SchedulerHandler struct {
	sched  *scheduler.Scheduler
	dash   *dashboard.Dashboard
	logger *slog.Logger
}

// NewSchedulerHandler creates a new SchedulerHandler.
func NewSchedulerHandler(sched *scheduler.Scheduler, dash *dashboard.Dashboard, logger *slog.Logger) *SchedulerHandler {
	return &SchedulerHandler{sched: sched, dash: dash, logger: logger}
}

// List handles GET /jobs.
func (h *SchedulerHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.sched.List(), nil)
}

// Run handles POST /jobs/{name}/run. The job runs in the request.
func (h *SchedulerHandler) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.sched.RunNow(r.Context(), name)
	h.dash.Record(r.Context(), model.EventCategorySystem, "run job "+name, err, nil)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ran": true, "name": name})
}
