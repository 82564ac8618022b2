// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/kemujan/hubcms/internal/service"
	"github.com/kemujan/hubcms/internal/session"
)

// RequireAuth rejects requests whose session is not authenticated with a
// 401 JSON error. It must run inside the session manager's LoadAndSave.
func RequireAuth(gate *session.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Authenticated(r.Context()) {
				WriteAPIError(w, http.StatusUnauthorized, "not_authenticated", "Login required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EventSource records the client IP and request URL in the request context
// for audit events.
func EventSource(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := service.WithSource(r.Context(), service.EventSource{
			IPAddress:  ClientIP(r),
			RequestURL: r.URL.RequestURI(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP extracts the client IP, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
