// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/keypath"
	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/testutil"
)

func newTestClient(t *testing.T) (*Client, *testutil.ContentService) {
	t.Helper()
	svc := testutil.NewContentService(t)
	c, err := New(svc.URL, DefaultTimeout, testutil.TestLoggerSilent())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, svc
}

func login(t *testing.T, c *Client) {
	t.Helper()
	if err := c.Login(context.Background(), testutil.ServiceUser, testutil.ServicePassword); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8080", "://x"} {
		if _, err := New(u, 0, testutil.TestLoggerSilent()); err == nil {
			t.Errorf("New(%q) expected error", u)
		}
	}
}

func TestFetchContent(t *testing.T) {
	c, svc := newTestClient(t)

	tree, err := c.FetchContent(context.Background())
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	title, err := keypath.Get(tree, keypath.MustParse("hero.title"))
	if err != nil {
		t.Fatalf("Get(hero.title) error = %v", err)
	}
	if s, _ := title.Str(); s != "Welcome" {
		t.Errorf("hero.title = %q, want %q", s, "Welcome")
	}

	ids := svc.RequestIDs()
	if len(ids) != 1 || ids[0] == "" {
		t.Errorf("request ids = %v, want one non-empty id", ids)
	}
}

func TestUpdateSection_RequiresLogin(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()
	value := keypath.Map(map[string]keypath.Node{"title": keypath.String("New")})

	err := c.UpdateSection(ctx, "hero", value)
	re, ok := apperr.AsRemote(err)
	if !ok {
		t.Fatalf("UpdateSection() error = %v, want RemoteError", err)
	}
	if re.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", re.Status, http.StatusUnauthorized)
	}

	login(t, c)
	if err := c.UpdateSection(ctx, "hero", value); err != nil {
		t.Fatalf("UpdateSection() after login error = %v", err)
	}
	hero, _ := svc.Section("hero")
	if !hero.Equal(value) {
		t.Errorf("persisted hero = %v, want %v", hero.Any(), value.Any())
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c, _ := newTestClient(t)
	err := c.Login(context.Background(), "admin", "wrong")
	re, ok := apperr.AsRemote(err)
	if !ok {
		t.Fatalf("Login() error = %v, want RemoteError", err)
	}
	if re.Message != "Invalid credentials" {
		t.Errorf("Message = %q, want %q", re.Message, "Invalid credentials")
	}
}

func TestLogout_DropsSession(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	login(t, c)
	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if err := c.UpdateTheme(ctx, model.ThemeConfig{}); !errors.Is(err, apperr.ErrRemote) {
		t.Errorf("UpdateTheme() after logout error = %v, want ErrRemote", err)
	}
}

func TestTheme(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()
	login(t, c)

	theme, err := c.FetchTheme(ctx)
	if err != nil {
		t.Fatalf("FetchTheme() error = %v", err)
	}
	theme.FontWeight = "700"
	if err := c.UpdateTheme(ctx, theme); err != nil {
		t.Fatalf("UpdateTheme() error = %v", err)
	}
	if got := svc.Theme().FontWeight; got != "700" {
		t.Errorf("persisted weight = %q, want %q", got, "700")
	}
}

func TestArticles_CRUD(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()
	login(t, c)
	articles := c.Articles()

	if err := articles.Create(ctx, model.Article{Title: "Second", Category: model.CategoryTutorial, Author: "Admin"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	list, err := articles.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(list))
	}
	created := list[1]
	created.Title = "Second, edited"
	if err := articles.Update(ctx, created.ID, created); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := svc.Articles()[1].Title; got != "Second, edited" {
		t.Errorf("persisted title = %q", got)
	}
	if err := articles.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n := len(svc.Articles()); n != 1 {
		t.Errorf("articles after delete = %d, want 1", n)
	}
	if err := articles.Delete(ctx, 9999); !errors.Is(err, apperr.ErrRemote) {
		t.Errorf("Delete(9999) error = %v, want ErrRemote", err)
	}
}

func TestArticles_UploadImage(t *testing.T) {
	c, svc := newTestClient(t)
	login(t, c)

	url, err := c.Articles().UploadImage(context.Background(), "cover.png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}
	if url != "/uploads/cover.png" {
		t.Errorf("url = %q, want %q", url, "/uploads/cover.png")
	}
	if data, ok := svc.Upload("cover.png"); !ok || string(data) != "PNGDATA" {
		t.Errorf("uploaded data = %q, %v", data, ok)
	}
}

func TestQuestions_Answer(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()
	login(t, c)

	if err := c.Questions().Answer(ctx, 2, "Yes, it is free.", "Admin"); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	list, err := c.Questions().List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != len(svc.Questions()) {
		t.Fatalf("len(List()) = %d, want %d", len(list), len(svc.Questions()))
	}
	q := list[1]
	if q.ID != 2 || q.Status != model.QuestionStatusAnswered || q.AnswerText() != "Yes, it is free." {
		t.Errorf("question 2 = %+v", q)
	}
}

func TestVideos_ToggleAndEnvelope(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()
	login(t, c)

	if err := c.Videos().Toggle(ctx, 2); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !svc.Videos()[1].IsActive {
		t.Error("video 2 still inactive after toggle")
	}

	svc.Fail("PUT /videos/1/toggle", http.StatusInternalServerError)
	err := c.Videos().Toggle(ctx, 1)
	re, ok := apperr.AsRemote(err)
	if !ok {
		t.Fatalf("Toggle() error = %v, want RemoteError", err)
	}
	if re.Status != http.StatusInternalServerError || re.Message != "injected failure" {
		t.Errorf("RemoteError = %+v", re)
	}
}

func TestClient_EnvelopeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"status error", http.StatusOK, `{"status":"error","message":"nope"}`, "nope"},
		{"success false", http.StatusOK, `{"success":false,"message":"denied"}`, "denied"},
		{"no envelope", http.StatusOK, `{"data":{}}`, "OK"},
		{"not json", http.StatusBadGateway, `<html>`, "Bad Gateway"},
		{"malformed success", http.StatusOK, `oops`, "malformed response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := New(srv.URL, 0, testutil.TestLoggerSilent())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			_, err = c.FetchContent(context.Background())
			re, ok := apperr.AsRemote(err)
			if !ok {
				t.Fatalf("FetchContent() error = %v, want RemoteError", err)
			}
			if re.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", re.Message, tt.wantMsg)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, 0, testutil.TestLoggerSilent())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := c.Videos().List(context.Background()); !errors.Is(err, apperr.ErrRemote) {
		t.Errorf("List() error = %v, want ErrRemote", err)
	}
}
