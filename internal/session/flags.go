// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"sync"

	"github.com/alexedwards/scs/v2"
)

// Session keys written by SCSFlags.
const (
	keyAuthenticated = "authenticated"
	keyUser          = "user"
)

// FlagStore persists the authenticated flag for one browsing session.
type FlagStore interface {
	Authenticated(ctx context.Context) bool
	User(ctx context.Context) string
	SetAuthenticated(ctx context.Context, user string) error
	Clear(ctx context.Context) error
}

// SCSFlags keeps the flag in an scs session. The context must come from a
// request wrapped by SessionManager.LoadAndSave (or from Load in tests).
type SCSFlags struct {
	sm *scs.SessionManager
}

// NewSCSFlags returns a FlagStore backed by sm.
func NewSCSFlags(sm *scs.SessionManager) *SCSFlags {
	return &SCSFlags{sm: sm}
}

// Authenticated reports whether the session carries the flag.
func (f *SCSFlags) Authenticated(ctx context.Context) bool {
	return f.sm.GetBool(ctx, keyAuthenticated)
}

// User returns the username stored at login.
func (f *SCSFlags) User(ctx context.Context) string {
	return f.sm.GetString(ctx, keyUser)
}

// SetAuthenticated renews the session token and stores the flag.
func (f *SCSFlags) SetAuthenticated(ctx context.Context, user string) error {
	if err := f.sm.RenewToken(ctx); err != nil {
		return err
	}
	f.sm.Put(ctx, keyAuthenticated, true)
	f.sm.Put(ctx, keyUser, user)
	return nil
}

// Clear destroys the session.
func (f *SCSFlags) Clear(ctx context.Context) error {
	return f.sm.Destroy(ctx)
}

// MemoryFlags keeps the flag in process memory. It backs the CLI, where a
// browsing session is one invocation.
type MemoryFlags struct {
	mu   sync.RWMutex
	auth bool
	user string
}

// NewMemoryFlags returns an empty in-memory FlagStore.
func NewMemoryFlags() *MemoryFlags {
	return &MemoryFlags{}
}

// Authenticated reports whether the flag is set.
func (f *MemoryFlags) Authenticated(context.Context) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.auth
}

// User returns the username stored at login.
func (f *MemoryFlags) User(context.Context) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.user
}

// SetAuthenticated sets the flag.
func (f *MemoryFlags) SetAuthenticated(_ context.Context, user string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth, f.user = true, user
	return nil
}

// Clear unsets the flag.
func (f *MemoryFlags) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth, f.user = false, ""
	return nil
}
