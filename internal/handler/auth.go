// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/middleware"
)

// AuthHandler handles login, logout and session state.
type AuthHandler struct {
	dash   *dashboard.Dashboard
	guard  *middleware.LoginGuard
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. guard may be nil.
func NewAuthHandler(dash *dashboard.Dashboard, guard *middleware.LoginGuard, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{dash: dash, guard: guard, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionStatus is the body of session responses.
type SessionStatus struct {
	Authenticated bool   `json:"authenticated"`
	User          string `json:"user,omitempty"`
	Active        string `json:"active,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		WriteValidationError(w, apperr.Required("username"))
		return
	}
	if req.Password == "" {
		WriteValidationError(w, apperr.Required("password"))
		return
	}

	if h.guard != nil {
		if locked, remaining := h.guard.Locked(req.Username); locked {
			WriteError(w, http.StatusTooManyRequests, "account_locked", middleware.LockedMessage(remaining), nil)
			return
		}
	}

	ctx := r.Context()
	err := h.dash.Login(ctx, req.Username, req.Password)
	if err != nil && !h.dash.Authenticated(ctx) {
		h.loginFailed(w, req.Username, err)
		return
	}
	if h.guard != nil {
		h.guard.Succeed(req.Username)
	}

	status := h.status(r)
	if err != nil {
		// Logged in, but the initial content load failed.
		h.logger.Warn("content refresh after login failed", "error", err)
		status.Warning = err.Error()
	}
	WriteJSON(w, http.StatusOK, status)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, user string, err error) {
	if re, ok := apperr.AsRemote(err); ok && re.Status == 0 && re.Err != nil {
		// Transport failure: the credentials were never checked.
		WriteError(w, http.StatusBadGateway, "remote_error", err.Error(), nil)
		return
	}
	if h.guard != nil {
		if d := h.guard.Fail(user); d > 0 {
			WriteError(w, http.StatusTooManyRequests, "account_locked", middleware.LockedMessage(d), nil)
			return
		}
	}
	msg := "Invalid credentials"
	if re, ok := apperr.AsRemote(err); ok && re.Message != "" {
		msg = re.Message
	}
	WriteError(w, http.StatusUnauthorized, "login_failed", msg, nil)
}

// Logout handles POST /logout. The local session ends even when the content
// service rejects the logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.dash.Logout(r.Context()); err != nil {
		h.logger.Warn("remote logout failed", "error", err)
	}
	WriteJSON(w, http.StatusOK, SessionStatus{Authenticated: false})
}

// Session handles GET /session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.status(r))
}

func (h *AuthHandler) status(r *http.Request) SessionStatus {
	ctx := r.Context()
	if !h.dash.Authenticated(ctx) {
		return SessionStatus{}
	}
	return SessionStatus{
		Authenticated: true,
		User:          h.dash.Gate.User(ctx),
		Active:        h.dash.Active(),
	}
}
