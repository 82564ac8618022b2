// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package draft

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/model"
)

// ThemeBackend persists the theme.
type ThemeBackend interface {
	FetchTheme(ctx context.Context) (model.ThemeConfig, error)
	UpdateTheme(ctx context.Context, theme model.ThemeConfig) error
}

// ThemeStore is the theme counterpart of Store: a synchronized theme and an
// optional draft that reads prefer.
type ThemeStore struct {
	backend ThemeBackend
	logger  *slog.Logger

	// pubMu orders synced updates with their notifications.
	pubMu sync.Mutex

	mu     sync.RWMutex
	synced model.ThemeConfig
	draft  *model.ThemeConfig

	subs subscribers[model.ThemeConfig]
}

// NewThemeStore creates a ThemeStore holding the default theme.
func NewThemeStore(backend ThemeBackend, logger *slog.Logger) *ThemeStore {
	return &ThemeStore{
		backend: backend,
		logger:  logger,
		synced:  model.ThemeConfig{}.WithDefaults(),
	}
}

// Refresh loads the theme from the backend. A pending draft is kept.
func (s *ThemeStore) Refresh(ctx context.Context) error {
	theme, err := s.backend.FetchTheme(ctx)
	if err != nil {
		return fmt.Errorf("fetching theme: %w", err)
	}
	theme = theme.WithDefaults()

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	s.synced = theme
	s.mu.Unlock()

	s.subs.notify(theme.Clone())
	return nil
}

// Read returns the draft theme if present, otherwise the synchronized one.
func (s *ThemeStore) Read() model.ThemeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft != nil {
		return s.draft.Clone()
	}
	return s.synced.Clone()
}

// Snapshot returns the synchronized theme.
func (s *ThemeStore) Snapshot() model.ThemeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced.Clone()
}

// ThemePatch is a set of theme changes applied together. Nil and empty
// fields are left alone.
type ThemePatch struct {
	Colors     map[string]string `json:"colors,omitempty"`
	FontFamily *string           `json:"fontFamily,omitempty"`
	FontWeight *model.FontWeight `json:"fontWeight,omitempty"`
}

func (p ThemePatch) empty() bool {
	return len(p.Colors) == 0 && p.FontFamily == nil && p.FontWeight == nil
}

// applyTo validates every field and writes them into t. On error t may be
// partly modified; callers pass a copy.
func (p ThemePatch) applyTo(t *model.ThemeConfig) error {
	roles := slices.Sorted(maps.Keys(p.Colors))
	for _, raw := range roles {
		role := strings.TrimSpace(raw)
		if !model.IsColorRole(role) {
			return apperr.Invalid("colors."+role, apperr.CodeInvalidValue, "unknown color role %q", role)
		}
		value := strings.TrimSpace(p.Colors[raw])
		if value == "" {
			return apperr.Required("colors." + role)
		}
		if t.Colors == nil {
			t.Colors = map[string]string{}
		}
		t.Colors[role] = value
	}
	if p.FontFamily != nil {
		family := strings.TrimSpace(*p.FontFamily)
		if family == "" {
			return apperr.Required("fontFamily")
		}
		t.FontFamily = family
	}
	if p.FontWeight != nil {
		if !p.FontWeight.Valid() {
			return apperr.Invalid("fontWeight", apperr.CodeInvalidValue, "font weight must be one of 100..900, got %q", *p.FontWeight)
		}
		t.FontWeight = *p.FontWeight
	}
	return nil
}

// Apply validates the whole patch against a copy of the current theme and
// only then makes it the draft. A rejected patch changes nothing.
func (s *ThemeStore) Apply(p ThemePatch) error {
	if p.empty() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.synced
	if s.draft != nil {
		base = *s.draft
	}
	next := base.Clone()
	if err := p.applyTo(&next); err != nil {
		return err
	}
	s.draft = &next
	return nil
}

// SetColor sets the color for a theme role.
func (s *ThemeStore) SetColor(role, value string) error {
	return s.Apply(ThemePatch{Colors: map[string]string{role: value}})
}

// SetFontFamily sets the font family.
func (s *ThemeStore) SetFontFamily(family string) error {
	return s.Apply(ThemePatch{FontFamily: &family})
}

// SetFontWeight sets the font weight.
func (s *ThemeStore) SetFontWeight(w model.FontWeight) error {
	return s.Apply(ThemePatch{FontWeight: &w})
}

// Commit submits the draft theme. On success it becomes the synchronized
// theme and the draft is cleared; on failure the draft is kept.
func (s *ThemeStore) Commit(ctx context.Context) error {
	s.mu.RLock()
	if s.draft == nil {
		s.mu.RUnlock()
		return nil
	}
	pending := s.draft.Clone()
	s.mu.RUnlock()

	if err := s.backend.UpdateTheme(ctx, pending); err != nil {
		s.logger.Warn("theme commit failed", "error", err)
		return fmt.Errorf("saving theme: %w", err)
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	s.synced = pending
	if s.draft != nil && s.draft.Equal(pending) {
		s.draft = nil
	}
	s.mu.Unlock()

	s.logger.Info("theme committed")
	s.subs.notify(pending.Clone())
	return nil
}

// Discard drops the draft theme.
func (s *ThemeStore) Discard() {
	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()
}

// Dirty reports whether a draft theme exists.
func (s *ThemeStore) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft != nil
}

// Subscribe registers fn to receive the synchronized theme after every
// Refresh and successful Commit. The returned function unsubscribes.
func (s *ThemeStore) Subscribe(fn func(model.ThemeConfig)) func() {
	return s.subs.add(fn)
}
