// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/draft"
	"github.com/kemujan/hubcms/internal/keypath"
	"github.com/kemujan/hubcms/internal/model"
)

// SectionsHandler edits content sections and the theme through their
// drafts.
type SectionsHandler struct {
	dash   *dashboard.Dashboard
	logger *slog.Logger
}

// NewSectionsHandler creates a new SectionsHandler.
func NewSectionsHandler(dash *dashboard.Dashboard, logger *slog.Logger) *SectionsHandler {
	return &SectionsHandler{dash: dash, logger: logger}
}

// SectionView is the body returned for a section.
type SectionView struct {
	Section string       `json:"section"`
	Path    string       `json:"path,omitempty"`
	Value   keypath.Node `json:"value"`
	Dirty   bool         `json:"dirty"`
}

type editRequest struct {
	Path  string       `json:"path"`
	Value keypath.Node `json:"value"`
}

// List handles GET /sections.
func (h *SectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.dash.Content.Sections(), map[string]any{
		"menu":   dashboard.Sections,
		"active": h.dash.Active(),
	})
}

// Get handles GET /sections/{section}. An optional ?path= narrows the
// result to one node.
func (h *SectionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	path := r.URL.Query().Get("path")
	node, err := h.dash.Content.ReadPath(section, path)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, SectionView{
		Section: section,
		Path:    path,
		Value:   node,
		Dirty:   h.dash.Content.Dirty(section),
	})
}

// Patch handles PATCH /sections/{section}: writes value at path into the
// section draft.
func (h *SectionsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(section string, req editRequest) error {
		return h.dash.Content.Write(section, req.Path, req.Value)
	})
}

// Append handles POST /sections/{section}/append.
func (h *SectionsHandler) Append(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(section string, req editRequest) error {
		return h.dash.Content.Append(section, req.Path, req.Value)
	})
}

// Remove handles POST /sections/{section}/remove.
func (h *SectionsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(section string, req editRequest) error {
		return h.dash.Content.Remove(section, req.Path)
	})
}

func (h *SectionsHandler) edit(w http.ResponseWriter, r *http.Request, apply func(string, editRequest) error) {
	section := chi.URLParam(r, "section")
	var req editRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := apply(section, req); err != nil {
		writeErr(w, h.logger, err)
		return
	}
	node, err := h.dash.Content.Read(section)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, SectionView{Section: section, Value: node, Dirty: true})
}

// Save handles POST /sections/{section}/save.
func (h *SectionsHandler) Save(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if err := h.dash.SaveSection(r.Context(), section); err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"saved": true, "section": section})
}

// Discard handles POST /sections/{section}/discard.
func (h *SectionsHandler) Discard(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if err := h.dash.Discard(section); err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"discarded": true, "section": section})
}

// Activate handles POST /active/{section}.
func (h *SectionsHandler) Activate(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if err := h.dash.Activate(r.Context(), section); err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"active": section})
}

// Drafts handles GET /drafts.
func (h *SectionsHandler) Drafts(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"sections": h.dash.Content.DirtySections(),
		"theme":    h.dash.Theme.Dirty(),
	})
}

// ThemeView is the body returned for the theme.
type ThemeView struct {
	Theme       model.ThemeConfig  `json:"theme"`
	Dirty       bool               `json:"dirty"`
	ColorRoles  []string           `json:"colorRoles"`
	FontWeights []model.FontWeight `json:"fontWeights"`
}

// GetTheme handles GET /theme.
func (h *SectionsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.themeView())
}

// PatchTheme handles PATCH /theme. The patch is validated as a whole; a
// rejected patch leaves the draft as it was.
func (h *SectionsHandler) PatchTheme(w http.ResponseWriter, r *http.Request) {
	var patch draft.ThemePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := h.dash.Theme.Apply(patch); err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.themeView())
}

// SaveTheme handles POST /theme/save.
func (h *SectionsHandler) SaveTheme(w http.ResponseWriter, r *http.Request) {
	if err := h.dash.SaveSection(r.Context(), dashboard.SectionTheme); err != nil {
		writeErr(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.themeView())
}

// DiscardTheme handles POST /theme/discard.
func (h *SectionsHandler) DiscardTheme(w http.ResponseWriter, r *http.Request) {
	_ = h.dash.Discard(dashboard.SectionTheme)
	WriteJSON(w, http.StatusOK, h.themeView())
}

func (h *SectionsHandler) themeView() ThemeView {
	return ThemeView{
		Theme:       h.dash.Theme.Read(),
		Dirty:       h.dash.Theme.Dirty(),
		ColorRoles:  model.ColorRoles,
		FontWeights: model.FontWeights(),
	}
}
