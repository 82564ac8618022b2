// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package draft holds the last synchronized content tree and the theme,
// together with the uncommitted edits made on top of them.
package draft

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/keypath"
)

// ContentBackend persists the content tree.
type ContentBackend interface {
	FetchContent(ctx context.Context) (keypath.Node, error)
	UpdateSection(ctx context.Context, section string, value keypath.Node) error
}

// Store keeps the synchronized content tree and one optional draft per
// section. Reads prefer the draft. The synchronized tree changes only
// through Refresh or a successful Commit.
type Store struct {
	backend ContentBackend
	logger  *slog.Logger

	// pubMu orders synced updates with their notifications, so subscribers
	// never see an older tree after a newer one.
	pubMu sync.Mutex

	mu     sync.RWMutex
	synced keypath.Node
	drafts map[string]keypath.Node

	subs subscribers[keypath.Node]
}

// NewStore creates an empty Store. Call Refresh to load content.
func NewStore(backend ContentBackend, logger *slog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		synced:  keypath.Map(nil),
		drafts:  make(map[string]keypath.Node),
	}
}

// Refresh replaces the synchronized tree with the backend's current content.
// Pending drafts are kept.
func (s *Store) Refresh(ctx context.Context) error {
	tree, err := s.backend.FetchContent(ctx)
	if err != nil {
		return fmt.Errorf("fetching content: %w", err)
	}
	if tree.IsNull() {
		tree = keypath.Map(nil)
	}
	if tree.Kind() != keypath.KindMap {
		return apperr.Remote("fetch content", fmt.Errorf("content is a %s, want map", tree.Kind()))
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	s.synced = tree
	s.mu.Unlock()

	s.logger.Debug("content refreshed", "sections", tree.Len())
	s.subs.notify(tree)
	return nil
}

// Sections returns the names of all synchronized sections, sorted.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced.Keys()
}

// Read returns the draft for section if one exists, otherwise the
// synchronized section.
func (s *Store) Read(section string) (keypath.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked(section)
}

func (s *Store) readLocked(section string) (keypath.Node, error) {
	if d, ok := s.drafts[section]; ok {
		return d, nil
	}
	if n, ok := s.synced.Field(section); ok {
		return n, nil
	}
	return keypath.Node{}, fmt.Errorf("%w: %q", apperr.ErrUnknownSection, section)
}

// ReadPath returns the node at path inside Read(section).
func (s *Store) ReadPath(section, path string) (keypath.Node, error) {
	p, err := keypath.Parse(path)
	if err != nil {
		return keypath.Node{}, err
	}
	root, err := s.Read(section)
	if err != nil {
		return keypath.Node{}, err
	}
	return keypath.Get(root, p)
}

// Synced returns the synchronized section, ignoring any draft.
func (s *Store) Synced(section string) (keypath.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced.Field(section)
}

// Snapshot returns the synchronized tree.
func (s *Store) Snapshot() keypath.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced
}

// Write sets value at path inside section's draft, creating the draft from
// the synchronized section on first use. An empty path replaces the whole
// section.
func (s *Store) Write(section, path string, value keypath.Node) error {
	p, err := keypath.Parse(path)
	if err != nil {
		return err
	}
	return s.edit(section, func(root keypath.Node) (keypath.Node, error) {
		return keypath.Set(root, p, value)
	})
}

// Append adds value to the end of the list at path inside section.
func (s *Store) Append(section, path string, value keypath.Node) error {
	p, err := keypath.Parse(path)
	if err != nil {
		return err
	}
	return s.edit(section, func(root keypath.Node) (keypath.Node, error) {
		return keypath.Append(root, p, value)
	})
}

// Remove deletes the node at path inside section.
func (s *Store) Remove(section, path string) error {
	p, err := keypath.Parse(path)
	if err != nil {
		return err
	}
	return s.edit(section, func(root keypath.Node) (keypath.Node, error) {
		return keypath.Remove(root, p)
	})
}

func (s *Store) edit(section string, fn func(keypath.Node) (keypath.Node, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, ok := s.drafts[section]
	if !ok {
		synced, found := s.synced.Field(section)
		if !found {
			return fmt.Errorf("%w: %q", apperr.ErrUnknownSection, section)
		}
		root = synced.Clone()
	}

	updated, err := fn(root)
	if err != nil {
		return err
	}
	s.drafts[section] = updated
	return nil
}

// Commit submits section's draft to the backend. On success the draft
// becomes the synchronized section and is cleared. On failure the draft is
// kept unchanged. Committing a section without a draft does nothing.
func (s *Store) Commit(ctx context.Context, section string) error {
	s.mu.RLock()
	pending, ok := s.drafts[section]
	s.mu.RUnlock()
	if !ok {
		if _, found := s.Synced(section); !found {
			return fmt.Errorf("%w: %q", apperr.ErrUnknownSection, section)
		}
		return nil
	}

	if err := s.backend.UpdateSection(ctx, section, pending); err != nil {
		s.logger.Warn("section commit failed", "section", section, "error", err)
		return fmt.Errorf("saving %s: %w", section, err)
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	updated, err := keypath.Set(s.synced, keypath.Path{section}, pending)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.synced = updated
	// Edits made while the request was in flight stay pending.
	if cur, ok := s.drafts[section]; ok && cur.Equal(pending) {
		delete(s.drafts, section)
	}
	s.mu.Unlock()

	s.logger.Info("section committed", "section", section)
	s.subs.notify(updated)
	return nil
}

// Discard drops section's draft.
func (s *Store) Discard(section string) {
	s.mu.Lock()
	delete(s.drafts, section)
	s.mu.Unlock()
}

// Dirty reports whether section has a draft.
func (s *Store) Dirty(section string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.drafts[section]
	return ok
}

// DirtySections returns the sections with drafts, sorted.
func (s *Store) DirtySections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.drafts))
	for k := range s.drafts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Subscribe registers fn to receive the synchronized tree after every
// Refresh and successful Commit. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(keypath.Node)) func() {
	return s.subs.add(fn)
}
