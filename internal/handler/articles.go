// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/collection"
	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/imaging"
	"github.com/kemujan/hubcms/internal/model"
)

// ArticlesHandler serves the news article collection.
type ArticlesHandler struct {
	dash   *dashboard.Dashboard
	logger *slog.Logger
}

// NewArticlesHandler creates a new ArticlesHandler.
func NewArticlesHandler(dash *dashboard.Dashboard, logger *slog.Logger) *ArticlesHandler {
	return &ArticlesHandler{dash: dash, logger: logger}
}

// List handles GET /articles. ?category= narrows the listing.
func (h *ArticlesHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.dash.Articles.List(r.Context())
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	if c := r.URL.Query().Get("category"); c != "" {
		items = h.dash.Articles.ByCategory(c)
	}
	WriteSuccess(w, items, map[string]any{
		"total":      h.dash.Articles.Len(),
		"categories": model.Categories,
	})
}

// Create handles POST /articles.
func (h *ArticlesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var a model.Article
	if !decodeJSON(w, r, &a) {
		return
	}
	warning, err := splitReload(h.dash.Articles.Create(r.Context(), a))
	err = h.record(r.Context(), "create article", err, map[string]any{"title": a.Title})
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, Response{Data: h.dash.Articles.Items(), Warning: warning})
}

// Update handles PUT /articles/{id}. The body names only the fields to
// change.
func (h *ArticlesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	var patch collection.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}
	warning, err := splitReload(h.dash.Articles.Update(r.Context(), id, patch))
	err = h.record(r.Context(), "update article", err, map[string]any{"id": id})
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, Response{Data: h.dash.Articles.Items(), Warning: warning})
}

// Delete handles DELETE /articles/{id}?confirm=yes.
func (h *ArticlesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.dash.Articles.Delete(r.Context(), id, requestConfirm(r))
	warning, err := splitReload(err)
	if deleted || err != nil {
		err = h.record(r.Context(), "delete article", err, map[string]any{"id": id})
	}
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, deleteResult{Deleted: deleted, Declined: !deleted, Warning: warning})
}

// Upload handles POST /articles/upload with a multipart "image" field and
// returns the URL to set on the article being drafted.
func (h *ArticlesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		WriteValidationError(w, apperr.Invalid("image", apperr.CodeTooLarge, "upload could not be read: %v", err))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		WriteValidationError(w, apperr.Required("image"))
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.dash.Articles.UploadImage(r.Context(), header.Filename, file)
	err = h.record(r.Context(), "upload image", err, map[string]any{"file": header.Filename})
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// Preview handles POST /articles/preview.
func (h *ArticlesHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	html, err := h.dash.Articles.Preview(req.Content)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"html": html})
}

func (h *ArticlesHandler) record(ctx context.Context, op string, err error, metadata map[string]any) error {
	return h.dash.Record(ctx, model.EventCategoryArticle, op, err, metadata)
}

// requestConfirm answers delete confirmations from the ?confirm query
// parameter.
func requestConfirm(r *http.Request) func(context.Context, string) bool {
	ok := deleteConfirmed(r)
	return func(context.Context, string) bool { return ok }
}
