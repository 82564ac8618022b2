// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kemujan/hubcms/internal/snapshot"
	"github.com/kemujan/hubcms/internal/videoref"
)

// PublicHandler serves the published snapshots to site renderers. It never
// touches drafts or the content service.
type PublicHandler struct {
	reader *snapshot.Reader
	logger *slog.Logger
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(reader *snapshot.Reader, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{reader: reader, logger: logger}
}

// Content handles GET /api/v1/content.
func (h *PublicHandler) Content(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func() ([]byte, error) { return h.reader.Content(r.Context()) })
}

// Section handles GET /api/v1/content/{section}.
func (h *PublicHandler) Section(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "section")
	h.serve(w, r, func() ([]byte, error) { return h.reader.Section(r.Context(), name) })
}

// Theme handles GET /api/v1/theme.
func (h *PublicHandler) Theme(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func() ([]byte, error) { return h.reader.Theme(r.Context()) })
}

// Embed handles GET /api/v1/videos/embed/{ref}. Full URLs can be passed as
// ?ref= instead of the path segment.
func (h *PublicHandler) Embed(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		ref = chi.URLParam(r, "ref")
	}
	v, err := videoref.Describe(ref)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	WriteJSON(w, http.StatusOK, v)
}

func (h *PublicHandler) serve(w http.ResponseWriter, r *http.Request, load func() ([]byte, error)) {
	data, err := load()
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
