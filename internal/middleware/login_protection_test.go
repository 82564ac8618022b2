// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGuard(maxFailures int) (*LoginGuard, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	g := NewLoginGuard(LoginGuardConfig{
		IPRate:      10,
		IPBurst:     100,
		MaxFailures: maxFailures,
		Lockout:     time.Minute,
		Window:      10 * time.Minute,
	}, nil)
	g.now = clock.now
	return g, clock
}

func TestNewLoginGuardDefaults(t *testing.T) {
	g := NewLoginGuard(LoginGuardConfig{}, nil)
	if g.maxFailures != 5 {
		t.Errorf("maxFailures = %d, want 5", g.maxFailures)
	}
	if g.lockout != 15*time.Minute {
		t.Errorf("lockout = %v, want 15m", g.lockout)
	}
	if g.window != 15*time.Minute {
		t.Errorf("window = %v, want 15m", g.window)
	}
}

func TestLoginGuard_LocksAfterMaxFailures(t *testing.T) {
	g, clock := newTestGuard(3)

	if d := g.Fail("admin"); d != 0 {
		t.Errorf("first Fail() = %v, want 0", d)
	}
	if d := g.Fail("admin"); d != 0 {
		t.Errorf("second Fail() = %v, want 0", d)
	}
	if got := g.Remaining("admin"); got != 1 {
		t.Errorf("Remaining() = %d, want 1", got)
	}
	if d := g.Fail("admin"); d != time.Minute {
		t.Errorf("third Fail() = %v, want 1m", d)
	}

	locked, remaining := g.Locked("admin")
	if !locked || remaining != time.Minute {
		t.Errorf("Locked() = %v, %v; want true, 1m", locked, remaining)
	}
	if locked, _ := g.Locked("editor"); locked {
		t.Error("other users must not be locked")
	}

	clock.advance(61 * time.Second)
	if locked, _ := g.Locked("admin"); locked {
		t.Error("lockout should expire")
	}
}

func TestLoginGuard_LockoutDoubles(t *testing.T) {
	g, clock := newTestGuard(2)

	g.Fail("admin")
	if d := g.Fail("admin"); d != time.Minute {
		t.Fatalf("first lockout = %v, want 1m", d)
	}
	clock.advance(2 * time.Minute)
	g.Fail("admin")
	if d := g.Fail("admin"); d != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", d)
	}
}

func TestLoginGuard_WindowResets(t *testing.T) {
	g, clock := newTestGuard(3)

	g.Fail("admin")
	g.Fail("admin")
	clock.advance(11 * time.Minute)
	if d := g.Fail("admin"); d != 0 {
		t.Errorf("Fail() after window = %v, want 0", d)
	}
	if got := g.Remaining("admin"); got != 2 {
		t.Errorf("Remaining() = %d, want 2", got)
	}
}

func TestLoginGuard_SucceedClears(t *testing.T) {
	g, _ := newTestGuard(3)
	g.Fail("admin")
	g.Fail("admin")
	g.Succeed("admin")
	if got := g.Remaining("admin"); got != 3 {
		t.Errorf("Remaining() = %d, want 3", got)
	}
}

func TestLoginGuard_Prune(t *testing.T) {
	g, clock := newTestGuard(3)
	g.Fail("admin")
	clock.advance(time.Hour)
	g.Prune(10)

	g.mu.Lock()
	n := len(g.failures)
	g.mu.Unlock()
	if n != 0 {
		t.Errorf("failures after Prune = %d, want 0", n)
	}
}

func TestLoginGuard_Middleware(t *testing.T) {
	g := NewLoginGuard(LoginGuardConfig{IPRate: 0.001, IPBurst: 2}, nil)
	handler := g.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/admin/api/login", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := do(http.MethodPost); w.Code != http.StatusOK {
			t.Fatalf("POST %d status = %d, want 200", i+1, w.Code)
		}
	}
	w := do(http.MethodPost)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("POST 3 status = %d, want 429", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"rate_limited"`) {
		t.Errorf("body = %s, want rate_limited code", w.Body.String())
	}
	if w := do(http.MethodGet); w.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", w.Code)
	}
}

func TestLockedMessage(t *testing.T) {
	got := LockedMessage(90*time.Second + 300*time.Millisecond)
	if got != "Account locked, try again in 1m30s" {
		t.Errorf("LockedMessage() = %q", got)
	}
}
