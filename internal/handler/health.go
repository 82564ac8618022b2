// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/kemujan/hubcms/internal/session"
	"github.com/kemujan/hubcms/internal/store"
	"github.com/kemujan/hubcms/internal/version"
)

// pinger is implemented by cache backends that can check connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	cache     any
	gate      *session.Gate
	info      version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler. The cache is checked only
// when it can be pinged; gate may be nil.
func NewHealthHandler(db *sql.DB, cache any, gate *session.Gate, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cache,
		gate:      gate,
		info:      info,
		startTime: time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the full health response for authenticated callers.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
}

// Health handles GET /health. Callers with an authenticated session get the
// individual checks; ?verbose=true adds runtime info.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{"database": h.checkDatabase(r.Context())}
	if p, ok := h.cache.(pinger); ok {
		checks["cache"] = timedCheck(func() error { return p.Ping(r.Context()) }, "Connected")
	}

	overall := "healthy"
	for _, c := range checks {
		if c.Status != "healthy" {
			overall = "degraded"
		}
	}
	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}

	if !h.isAuthenticated(r) {
		WriteJSON(w, code, HealthStatusPublic{Status: overall})
		return
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.info.String(),
		Checks:    checks,
	}
	if r.URL.Query().Get("verbose") == "true" {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		status.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   m.Alloc >> 20,
		}
	}
	WriteJSON(w, code, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// isAuthenticated reports the gate state. It returns false without
// panicking when session data is not loaded into the context.
func (h *HealthHandler) isAuthenticated(r *http.Request) (ok bool) {
	if h.gate == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()
	return h.gate.Authenticated(r.Context())
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	c := timedCheck(func() error { return h.db.PingContext(ctx) }, "Connected")
	if c.Status != "healthy" {
		return c
	}
	if v, err := store.MigrationVersion(h.db); err == nil {
		c.Message = fmt.Sprintf("Connected (schema v%d)", v)
	}
	return c
}

func timedCheck(fn func() error, okMessage string) Check {
	start := time.Now()
	err := fn()
	latency := time.Since(start).String()
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency}
	}
	return Check{Status: "healthy", Message: okMessage, Latency: latency}
}
