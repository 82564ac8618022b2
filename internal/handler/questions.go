// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/model"
)

// QuestionsHandler serves visitor questions.
type QuestionsHandler struct {
	dash   *dashboard.Dashboard
	logger *slog.Logger
}

// NewQuestionsHandler creates a new QuestionsHandler.
func NewQuestionsHandler(dash *dashboard.Dashboard, logger *slog.Logger) *QuestionsHandler {
	return &QuestionsHandler{dash: dash, logger: logger}
}

// List handles GET /questions?status=all|pending|answered.
func (h *QuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := h.dash.Questions.List(r.Context()); err != nil {
		writeErr(w, h.logger, err)
		return
	}
	items, err := h.dash.Questions.FilterStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteSuccess(w, items, h.dash.Questions.Summary())
}

// Answer handles POST /questions/{id}/answer.
func (h *QuestionsHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Answer     string `json:"answer"`
		AnsweredBy string `json:"answered_by"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AnsweredBy == "" {
		req.AnsweredBy = h.dash.Gate.User(r.Context())
	}
	warning, err := splitReload(h.dash.Questions.Answer(r.Context(), id, req.Answer, req.AnsweredBy))
	err = h.dash.Record(r.Context(), model.EventCategoryQuestion, "answer question", err, map[string]any{"id": id})
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, Response{Data: h.dash.Questions.Items(), Meta: h.dash.Questions.Summary(), Warning: warning})
}

// Delete handles DELETE /questions/{id}?confirm=yes.
func (h *QuestionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.dash.Questions.Delete(r.Context(), id, requestConfirm(r))
	warning, err := splitReload(err)
	if deleted || err != nil {
		err = h.dash.Record(r.Context(), model.EventCategoryQuestion, "delete question", err, map[string]any{"id": id})
	}
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, deleteResult{Deleted: deleted, Declined: !deleted, Warning: warning})
}
