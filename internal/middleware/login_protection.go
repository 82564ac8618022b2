// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// LoginGuard throttles admin login attempts per client IP and locks out
// usernames after repeated failures. Lockouts double on each repeat, up to
// maxLockout.
type LoginGuard struct {
	ipLimiters *limiterCache[string]
	logger     *slog.Logger

	mu       sync.Mutex
	failures map[string]*failureRecord

	maxFailures int
	lockout     time.Duration
	window      time.Duration
	now         func() time.Time
}

const maxLockout = 24 * time.Hour

type failureRecord struct {
	count       int
	first       time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginGuardConfig configures a LoginGuard. Zero fields take the defaults
// of DefaultLoginGuardConfig.
type LoginGuardConfig struct {
	IPRate      float64 // login requests per second per IP
	IPBurst     int
	MaxFailures int
	Lockout     time.Duration
	Window      time.Duration
}

// DefaultLoginGuardConfig returns the production defaults.
func DefaultLoginGuardConfig() LoginGuardConfig {
	return LoginGuardConfig{
		IPRate:      0.5,
		IPBurst:     5,
		MaxFailures: 5,
		Lockout:     15 * time.Minute,
		Window:      15 * time.Minute,
	}
}

// NewLoginGuard creates a LoginGuard.
func NewLoginGuard(cfg LoginGuardConfig, logger *slog.Logger) *LoginGuard {
	def := DefaultLoginGuardConfig()
	if cfg.IPRate <= 0 {
		cfg.IPRate = def.IPRate
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = def.MaxFailures
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = def.Lockout
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginGuard{
		ipLimiters:  newLimiterCache[string](cfg.IPRate, cfg.IPBurst),
		logger:      logger,
		failures:    make(map[string]*failureRecord),
		maxFailures: cfg.MaxFailures,
		lockout:     cfg.Lockout,
		window:      cfg.Window,
		now:         time.Now,
	}
}

// Locked reports whether user is locked out and for how much longer.
func (g *LoginGuard) Locked(user string) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.failures[user]
	if !ok {
		return false, 0
	}
	if remaining := rec.lockedUntil.Sub(g.now()); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// Fail records a failed login for user. It returns the lockout duration
// when this failure locked the account, zero otherwise.
func (g *LoginGuard) Fail(user string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	rec, ok := g.failures[user]
	if !ok || now.Sub(rec.first) > g.window {
		if !ok {
			rec = &failureRecord{}
			g.failures[user] = rec
		}
		rec.count = 1
		rec.first = now
		return 0
	}

	rec.count++
	if rec.count < g.maxFailures {
		return 0
	}

	d := g.lockout
	for i := 0; i < rec.lockouts && d < maxLockout; i++ {
		d *= 2
	}
	d = min(d, maxLockout)
	rec.lockedUntil = now.Add(d)
	rec.lockouts++
	rec.count = 0

	g.logger.Warn("login locked after repeated failures",
		"category", "auth", "user", user, "lockouts", rec.lockouts, "duration", d)
	return d
}

// Succeed forgets the failures recorded for user.
func (g *LoginGuard) Succeed(user string) {
	g.mu.Lock()
	delete(g.failures, user)
	g.mu.Unlock()
}

// Remaining returns how many failures user may still make before lockout.
func (g *LoginGuard) Remaining(user string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.failures[user]
	if !ok || g.now().Sub(rec.first) > g.window {
		return g.maxFailures
	}
	return max(g.maxFailures-rec.count, 0)
}

// Prune drops expired failure records and resets the IP limiters once
// they grow past maxIPs.
func (g *LoginGuard) Prune(maxIPs int) {
	if g.ipLimiters.clearIfExceeds(maxIPs) {
		g.logger.Info("cleared login rate limiters", "category", "auth")
	}
	now := g.now()
	g.mu.Lock()
	for user, rec := range g.failures {
		if now.After(rec.lockedUntil) && now.Sub(rec.first) > g.window {
			delete(g.failures, user)
		}
	}
	g.mu.Unlock()
}

// Middleware rate limits POST requests per client IP.
func (g *LoginGuard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := ClientIP(r)
			if !g.ipLimiters.get(ip).Allow() {
				g.logger.Warn("login rate limit exceeded", "category", "auth", "ip", ip)
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limited", "Too many login attempts, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LockedMessage formats the client-facing message for a lockout.
func LockedMessage(remaining time.Duration) string {
	return fmt.Sprintf("Account locked, try again in %s", remaining.Round(time.Second))
}
