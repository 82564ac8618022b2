// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dashboard routes operator actions to the draft stores and entity
// collections: it tracks the active section, sends saves to the right
// store and refreshes everything after login.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/draft"
	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/service"
	"github.com/kemujan/hubcms/internal/session"
)

// Dashboard sections.
const (
	SectionHero   = "hero"
	SectionFAQ    = "faq"
	SectionQnA    = "qna"
	SectionNews   = "news"
	SectionVideos = "videos"
	SectionTheme  = "theme"
)

// Sections lists the dashboard sections in menu order.
var Sections = []string{SectionHero, SectionFAQ, SectionQnA, SectionNews, SectionVideos, SectionTheme}

// IsCollection reports whether section is backed by an entity collection
// rather than a draft store.
func IsCollection(section string) bool {
	return section == SectionQnA || section == SectionNews || section == SectionVideos
}

// Deps holds the components a Dashboard drives.
type Deps struct {
	Gate      *session.Gate
	Content   *draft.Store
	Theme     *draft.ThemeStore
	Articles  *service.ArticleService
	Questions *service.QuestionService
	Videos    *service.VideoService
	Events    *service.EventService // optional
	Logger    *slog.Logger
}

// Dashboard is the control layer between a host surface and the engine.
type Dashboard struct {
	Deps

	mu     sync.Mutex
	active string
}

// New creates a Dashboard with no active section.
func New(deps Deps) *Dashboard {
	return &Dashboard{Deps: deps}
}

// Active returns the active section, or "" before the first Activate.
func (d *Dashboard) Active() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Activate makes section the active one. Besides the menu sections, any
// synchronized content section may be activated. Entering a collection
// section while authenticated lists that collection; the section stays
// active when the list fails.
func (d *Dashboard) Activate(ctx context.Context, section string) error {
	if !slices.Contains(Sections, section) {
		if _, ok := d.Content.Synced(section); !ok {
			return fmt.Errorf("%w: %q", apperr.ErrUnknownSection, section)
		}
	}

	d.mu.Lock()
	d.active = section
	d.mu.Unlock()
	d.Logger.Debug("section activated", "section", section)

	if !IsCollection(section) || !d.Gate.Authenticated(ctx) {
		return nil
	}
	var err error
	switch section {
	case SectionNews:
		_, err = d.Articles.List(ctx)
	case SectionQnA:
		_, err = d.Questions.List(ctx)
	case SectionVideos:
		_, err = d.Videos.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", section, err)
	}
	return nil
}

// Save commits the active section.
func (d *Dashboard) Save(ctx context.Context) error {
	section := d.Active()
	if section == "" {
		return fmt.Errorf("%w: no active section", apperr.ErrUnknownSection)
	}
	return d.SaveSection(ctx, section)
}

// SaveSection commits section: the theme goes to the theme store, content
// sections to the content store. Collection sections persist on every
// mutation and have nothing to save.
func (d *Dashboard) SaveSection(ctx context.Context, section string) error {
	if IsCollection(section) {
		return fmt.Errorf("%w: %s changes are saved per item", apperr.ErrUnsupported, section)
	}
	if err := d.Gate.Require(ctx); err != nil {
		return err
	}

	var err error
	category := model.EventCategoryContent
	if section == SectionTheme {
		category = model.EventCategoryTheme
		err = d.Theme.Commit(ctx)
	} else {
		err = d.Content.Commit(ctx, section)
	}
	return d.Record(ctx, category, "save "+section, err, map[string]any{"section": section})
}

// Discard drops the pending draft of section.
func (d *Dashboard) Discard(section string) error {
	switch {
	case section == SectionTheme:
		d.Theme.Discard()
	case IsCollection(section):
		return fmt.Errorf("%w: %s has no draft", apperr.ErrUnsupported, section)
	default:
		if _, ok := d.Content.Synced(section); !ok {
			return fmt.Errorf("%w: %q", apperr.ErrUnknownSection, section)
		}
		d.Content.Discard(section)
	}
	return nil
}

// Login authenticates through the gate and then reloads content and theme.
// A reload failure is returned but the session stays authenticated.
func (d *Dashboard) Login(ctx context.Context, username, password string) error {
	if err := d.Gate.Login(ctx, username, password); err != nil {
		d.recordAs(ctx, service.EventSource{Actor: username}, model.EventCategoryAuth, "login", err, nil)
		return err
	}
	d.recordAs(ctx, service.EventSource{Actor: username}, model.EventCategoryAuth, "login", nil, nil)
	return d.Refresh(ctx)
}

// Refresh reloads the content tree and the theme.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return errors.Join(d.Content.Refresh(ctx), d.Theme.Refresh(ctx))
}

// Preload refreshes content and theme once at startup so the public
// snapshots exist before the first login. A failure is logged and
// returned; the caller keeps serving.
func (d *Dashboard) Preload(ctx context.Context) error {
	if err := d.Refresh(ctx); err != nil {
		d.Logger.Warn("initial refresh failed, serving without snapshots", "error", err)
		return err
	}
	d.Logger.Info("content preloaded", "sections", len(d.Content.Sections()))
	return nil
}

// Logout ends the session.
func (d *Dashboard) Logout(ctx context.Context) error {
	d.Record(ctx, model.EventCategoryAuth, "logout", nil, nil)
	return d.Gate.Logout(ctx)
}

// Authenticated reports the gate state for ctx.
func (d *Dashboard) Authenticated(ctx context.Context) bool {
	return d.Gate.Authenticated(ctx)
}

// Record writes an audit event for op. A nil err records success. An err
// showing the remote session was rejected also logs the operator out; the
// returned error then wraps apperr.ErrNotAuthenticated. Otherwise err is
// returned as is.
func (d *Dashboard) Record(ctx context.Context, category, op string, err error, metadata map[string]any) error {
	src := service.SourceFrom(ctx)
	if src.Actor == "" {
		src.Actor = d.Gate.User(ctx)
	}
	d.recordAs(ctx, src, category, op, err, metadata)
	if d.Gate.Expire(ctx, err) {
		return fmt.Errorf("%w: %w", apperr.ErrNotAuthenticated, err)
	}
	return err
}

func (d *Dashboard) recordAs(ctx context.Context, src service.EventSource, category, op string, err error, metadata map[string]any) {
	if d.Events == nil {
		return
	}
	from := service.SourceFrom(ctx)
	if src.IPAddress == "" {
		src.IPAddress = from.IPAddress
	}
	if src.RequestURL == "" {
		src.RequestURL = from.RequestURL
	}
	if err != nil {
		if metadata == nil {
			metadata = make(map[string]any, 1)
		}
		metadata["error"] = err.Error()
		_ = d.Events.LogWarning(ctx, category, op+" failed", src, metadata)
		return
	}
	_ = d.Events.LogInfo(ctx, category, op+" succeeded", src, metadata)
}
