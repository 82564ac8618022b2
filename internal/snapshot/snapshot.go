// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package snapshot publishes the synchronized content tree and theme to the
// cache, where the public endpoints and renderers read them.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/cache"
	"github.com/kemujan/hubcms/internal/draft"
	"github.com/kemujan/hubcms/internal/keypath"
	"github.com/kemujan/hubcms/internal/model"
)

// Cache keys.
const (
	KeyContent = "content"
	KeyTheme   = "theme"
)

const publishTimeout = 5 * time.Second

// noExpiry is the TTL snapshots are stored with.
const noExpiry = -1

// Publisher writes snapshots whenever the draft stores report a new
// synchronized state. Snapshots are stored without expiry.
type Publisher struct {
	content *cache.TypedCache[keypath.Node]
	theme   *cache.TypedCache[model.ThemeConfig]
	logger  *slog.Logger

	mu      sync.Mutex
	cancels []func()
}

// NewPublisher creates a Publisher writing to c.
func NewPublisher(c cache.Cacher, logger *slog.Logger) *Publisher {
	return &Publisher{
		content: cache.NewTypedCache[keypath.Node](c, noExpiry),
		theme:   cache.NewTypedCache[model.ThemeConfig](c, noExpiry),
		logger:  logger,
	}
}

// Attach subscribes to content and theme. Either may be nil.
func (p *Publisher) Attach(content *draft.Store, theme *draft.ThemeStore) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if content != nil {
		p.cancels = append(p.cancels, content.Subscribe(func(tree keypath.Node) {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()
			_ = p.PublishContent(ctx, tree)
		}))
	}
	if theme != nil {
		p.cancels = append(p.cancels, theme.Subscribe(func(t model.ThemeConfig) {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()
			_ = p.PublishTheme(ctx, t)
		}))
	}
}

// Close detaches from the stores.
func (p *Publisher) Close() {
	p.mu.Lock()
	cancels := p.cancels
	p.cancels = nil
	p.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// PublishContent stores tree under KeyContent.
func (p *Publisher) PublishContent(ctx context.Context, tree keypath.Node) error {
	return p.published(KeyContent, p.content.Set(ctx, KeyContent, &tree))
}

// PublishTheme stores theme under KeyTheme.
func (p *Publisher) PublishTheme(ctx context.Context, theme model.ThemeConfig) error {
	return p.published(KeyTheme, p.theme.Set(ctx, KeyTheme, &theme))
}

func (p *Publisher) published(key string, err error) error {
	if err != nil {
		p.logger.Warn("snapshot publish failed", "category", "cache", "key", key, "error", err)
		return fmt.Errorf("publishing %s snapshot: %w", key, err)
	}
	p.logger.Debug("snapshot published", "key", key)
	return nil
}

// Reader serves published snapshots.
type Reader struct {
	content *cache.TypedCache[keypath.Node]
	theme   *cache.TypedCache[model.ThemeConfig]
}

// NewReader creates a Reader over c.
func NewReader(c cache.Cacher) *Reader {
	return &Reader{
		content: cache.NewTypedCache[keypath.Node](c, noExpiry),
		theme:   cache.NewTypedCache[model.ThemeConfig](c, noExpiry),
	}
}

// Content returns the published content tree as JSON.
func (r *Reader) Content(ctx context.Context) ([]byte, error) {
	return raw(r.content.Raw(ctx, KeyContent))
}

// Section returns one published section as JSON.
func (r *Reader) Section(ctx context.Context, name string) ([]byte, error) {
	tree, ok := r.content.Get(ctx, KeyContent)
	if !ok {
		return nil, fmt.Errorf("%s snapshot: %w", KeyContent, apperr.ErrNotFound)
	}
	section, ok := tree.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownSection, name)
	}
	return json.Marshal(section)
}

// Theme returns the published theme as JSON.
func (r *Reader) Theme(ctx context.Context) ([]byte, error) {
	return raw(r.theme.Raw(ctx, KeyTheme))
}

func raw(data []byte, err error) ([]byte, error) {
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("snapshot: %w", apperr.ErrNotFound)
	}
	return data, err
}
