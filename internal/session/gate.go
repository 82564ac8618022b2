// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session implements the admin session gate and the browser
// session manager that persists its flag.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kemujan/hubcms/internal/apperr"
)

// State is the gate state.
type State int

// Gate states.
const (
	Unauthenticated State = iota
	Authenticated
)

// String returns the state name.
func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Authenticator is the remote login collaborator. The gate never checks
// credentials itself.
type Authenticator interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

// Gate sequences login and logout around an Authenticator and persists the
// outcome in a FlagStore.
type Gate struct {
	auth   Authenticator
	flags  FlagStore
	logger *slog.Logger
}

// NewGate creates a Gate.
func NewGate(auth Authenticator, flags FlagStore, logger *slog.Logger) *Gate {
	return &Gate{auth: auth, flags: flags, logger: logger}
}

// Current returns the state restored from the flag store.
func (g *Gate) Current(ctx context.Context) State {
	if g.flags.Authenticated(ctx) {
		return Authenticated
	}
	return Unauthenticated
}

// Authenticated reports whether Current is Authenticated.
func (g *Gate) Authenticated(ctx context.Context) bool {
	return g.Current(ctx) == Authenticated
}

// Require returns apperr.ErrNotAuthenticated unless the gate is
// authenticated.
func (g *Gate) Require(ctx context.Context) error {
	if !g.Authenticated(ctx) {
		return apperr.ErrNotAuthenticated
	}
	return nil
}

// User returns the user that logged in, or "" when unauthenticated.
func (g *Gate) User(ctx context.Context) string {
	return g.flags.User(ctx)
}

// Login calls the collaborator and, on success, persists the flag. On
// failure the state is left untouched and the collaborator error returned.
func (g *Gate) Login(ctx context.Context, username, password string) error {
	if err := g.auth.Login(ctx, username, password); err != nil {
		g.logger.Warn("login failed", "category", "auth", "user", username, "error", err)
		return err
	}
	if err := g.flags.SetAuthenticated(ctx, username); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	g.logger.Info("login succeeded", "user", username)
	return nil
}

// Logout notifies the collaborator and then clears the flag regardless of
// the collaborator outcome.
func (g *Gate) Logout(ctx context.Context) error {
	user := g.flags.User(ctx)
	if err := g.auth.Logout(ctx); err != nil {
		g.logger.Warn("remote logout failed", "category", "auth", "user", user, "error", err)
	}
	if err := g.flags.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	g.logger.Info("logged out", "user", user)
	return nil
}

// Expire clears the flag when err carries a remote 401 or 403, so a
// session the content service no longer accepts reads as logged out. It
// reports whether the flag was cleared.
func (g *Gate) Expire(ctx context.Context, err error) bool {
	re, ok := apperr.AsRemote(err)
	if !ok || (re.Status != http.StatusUnauthorized && re.Status != http.StatusForbidden) {
		return false
	}
	user := g.flags.User(ctx)
	if cerr := g.flags.Clear(ctx); cerr != nil {
		g.logger.Error("clearing expired session", "user", user, "error", cerr)
		return false
	}
	g.logger.Warn("remote session rejected, logged out", "category", "auth", "user", user, "status", re.Status)
	return true
}
