// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package collection manages remotely persisted entity lists. The local
// list is a cache of the server's state: it is replaced wholesale by a
// reload after every acknowledged mutation and never patched locally.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kemujan/hubcms/internal/apperr"
)

// Backend is the remote CRUD collaborator for one collection.
type Backend[T any, ID comparable] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) error
	Update(ctx context.Context, id ID, item T) error
	Delete(ctx context.Context, id ID) error
}

// ErrReloadFailed marks a mutation the server acknowledged whose follow-up
// listing failed. The change is applied remotely; only the cache is stale.
var ErrReloadFailed = errors.New("reload failed")

// Patch is a partial update: the top-level JSON fields to change, keyed by
// their JSON names. Fields not named keep their current value.
type Patch map[string]json.RawMessage

// Merge applies p on top of base and returns the result. base itself is
// not modified.
func Merge[T any](base T, p Patch) (T, error) {
	var out T
	data, err := json.Marshal(base)
	if err != nil {
		return out, fmt.Errorf("encoding item: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("copying item: %w", err)
	}
	if len(p) == 0 {
		return out, nil
	}
	patch, err := json.Marshal(p)
	if err != nil {
		return out, apperr.Invalid("patch", apperr.CodeInvalidValue, "malformed patch: %v", err)
	}
	if err := json.Unmarshal(patch, &out); err != nil {
		return out, apperr.Invalid("patch", apperr.CodeInvalidValue, "patch does not fit: %v", err)
	}
	return out, nil
}

// Confirm asks the operator a yes/no question before a destructive action.
type Confirm func(ctx context.Context, prompt string) bool

// AlwaysConfirm approves every prompt.
func AlwaysConfirm(context.Context, string) bool { return true }

// NeverConfirm declines every prompt.
func NeverConfirm(context.Context, string) bool { return false }

// Options configures a Manager.
type Options[T any, ID comparable] struct {
	// Name is used in log messages and errors, e.g. "videos".
	Name string
	// IDOf returns the server identity of an item.
	IDOf func(T) ID
	// Prepare validates and normalizes an item before Create and Update.
	// A returned error aborts the operation without a remote call.
	Prepare func(T) (T, error)
	Logger  *slog.Logger
}

// Manager is the local view of one remote collection.
type Manager[T any, ID comparable] struct {
	backend Backend[T, ID]
	name    string
	idOf    func(T) ID
	prepare func(T) (T, error)
	logger  *slog.Logger

	// opMu sequences a mutation and the reload it triggers.
	opMu sync.Mutex

	mu     sync.RWMutex
	items  []T
	loaded bool
}

// New creates a Manager over backend.
func New[T any, ID comparable](backend Backend[T, ID], opts Options[T, ID]) *Manager[T, ID] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager[T, ID]{
		backend: backend,
		name:    opts.Name,
		idOf:    opts.IDOf,
		prepare: opts.Prepare,
		logger:  logger.With("collection", opts.Name),
	}
}

// Name returns the collection name.
func (m *Manager[T, ID]) Name() string { return m.name }

// List replaces the local collection with the server's listing and returns
// a copy of it. On failure the local collection is left untouched.
func (m *Manager[T, ID]) List(ctx context.Context) ([]T, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	if err := m.reload(ctx); err != nil {
		return nil, err
	}
	return m.Items(), nil
}

func (m *Manager[T, ID]) reload(ctx context.Context) error {
	items, err := m.backend.List(ctx)
	if err != nil {
		m.logger.Warn("collection reload failed", "error", err)
		return fmt.Errorf("listing %s: %w", m.name, err)
	}
	if items == nil {
		items = []T{}
	}
	m.mu.Lock()
	m.items = items
	m.loaded = true
	m.mu.Unlock()
	return nil
}

// Items returns a copy of the cached collection.
func (m *Manager[T, ID]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Loaded reports whether a listing has been received at least once.
func (m *Manager[T, ID]) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Len returns the size of the cached collection.
func (m *Manager[T, ID]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Find returns the cached item with the given id.
func (m *Manager[T, ID]) Find(id ID) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if m.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the cached items matching keep, in collection order.
func (m *Manager[T, ID]) Filter(keep func(T) bool) []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.items))
	for _, item := range m.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Create validates item, submits it and reloads the collection.
func (m *Manager[T, ID]) Create(ctx context.Context, item T) error {
	item, err := m.validate(item)
	if err != nil {
		return err
	}
	return m.Mutate(ctx, "create", func(ctx context.Context) error {
		return m.backend.Create(ctx, item)
	})
}

// Update merges patch over the current entity id, validates the result and
// sends the whole merged entity. The current entity comes from the cache,
// or from a fresh listing when id is not cached.
func (m *Manager[T, ID]) Update(ctx context.Context, id ID, patch Patch) error {
	current, err := m.current(ctx, id)
	if err != nil {
		return err
	}
	item, err := Merge(current, patch)
	if err != nil {
		return err
	}
	if m.idOf(item) != id {
		return apperr.Invalid("id", apperr.CodeInvalidValue, "id %v cannot be changed", id)
	}
	item, err = m.validate(item)
	if err != nil {
		return err
	}
	return m.Mutate(ctx, "update", func(ctx context.Context) error {
		return m.backend.Update(ctx, id, item)
	})
}

func (m *Manager[T, ID]) current(ctx context.Context, id ID) (T, error) {
	if item, ok := m.Find(id); ok {
		return item, nil
	}
	if _, err := m.List(ctx); err != nil {
		var zero T
		return zero, err
	}
	if item, ok := m.Find(id); ok {
		return item, nil
	}
	var zero T
	return zero, fmt.Errorf("%s item %v: %w", m.name, id, apperr.ErrNotFound)
}

// Delete asks confirm before deleting id. A declined confirmation returns
// false and a nil error without contacting the server. Once the server has
// acknowledged the delete, deleted is true even if the reload then fails;
// that error matches ErrReloadFailed.
func (m *Manager[T, ID]) Delete(ctx context.Context, id ID, confirm Confirm) (bool, error) {
	if confirm == nil || !confirm(ctx, fmt.Sprintf("Delete %s item %v?", m.name, id)) {
		m.logger.Debug("delete declined", "id", id)
		return false, nil
	}
	err := m.Mutate(ctx, "delete", func(ctx context.Context) error {
		return m.backend.Delete(ctx, id)
	})
	if err != nil && !errors.Is(err, ErrReloadFailed) {
		return false, err
	}
	return true, err
}

// Mutate runs a single remote mutation and, once it succeeds, reloads the
// collection. It is used for entity-specific operations such as answering
// a question or toggling a video.
//
// If the mutation succeeds but the reload fails, the returned error matches
// ErrReloadFailed and wraps the reload failure; the cache keeps its
// previous contents.
func (m *Manager[T, ID]) Mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := fn(ctx); err != nil {
		m.logger.Warn("collection mutation failed", "op", op, "error", err)
		return fmt.Errorf("%s %s: %w", op, m.name, err)
	}
	m.logger.Info("collection mutated", "op", op)

	if err := m.reload(ctx); err != nil {
		return fmt.Errorf("%s %s succeeded: %w: %w", op, m.name, ErrReloadFailed, err)
	}
	return nil
}

func (m *Manager[T, ID]) validate(item T) (T, error) {
	if m.prepare == nil {
		return item, nil
	}
	out, err := m.prepare(item)
	if err != nil {
		if _, ok := apperr.AsValidation(err); ok {
			m.logger.Debug("rejected invalid item", "error", err)
		}
		return item, err
	}
	return out, nil
}
