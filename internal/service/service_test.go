// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/collection"
	"github.com/kemujan/hubcms/internal/keypath"
	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/remote"
	"github.com/kemujan/hubcms/internal/testutil"
)

func newRemote(t *testing.T) (*remote.Client, *testutil.ContentService) {
	t.Helper()
	svc := testutil.NewContentService(t)
	c, err := remote.New(svc.URL, remote.DefaultTimeout, testutil.TestLoggerSilent())
	if err != nil {
		t.Fatalf("remote.New: %v", err)
	}
	if err := c.Login(context.Background(), testutil.ServiceUser, testutil.ServicePassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return c, svc
}

func TestArticleService_CreateAppliesDefaults(t *testing.T) {
	c, svc := newRemote(t)
	articles := NewArticleService(c.Articles(), 800, testutil.TestLoggerSilent())
	ctx := context.Background()

	if err := articles.Create(ctx, model.Article{Title: "  New post ", Category: "sports"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if articles.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", articles.Len())
	}
	created := svc.Articles()[1]
	if created.Title != "New post" || created.Category != model.CategoryGeneral || created.Author != model.DefaultAuthor {
		t.Errorf("created = %+v", created)
	}
	if got := articles.ByCategory(model.CategoryUpdate); len(got) != 1 {
		t.Errorf("ByCategory(update) = %d items, want 1", len(got))
	}
}

func TestArticleService_MissingTitle(t *testing.T) {
	c, svc := newRemote(t)
	articles := NewArticleService(c.Articles(), 800, testutil.TestLoggerSilent())
	ctx := context.Background()
	if _, err := articles.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	before := len(svc.RequestIDs())

	err := articles.Create(ctx, model.Article{Content: "body only"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("Create error = %v, want validation error", err)
	}
	if articles.Len() != 1 {
		t.Errorf("Len() = %d, want 1", articles.Len())
	}
	if after := len(svc.RequestIDs()); after != before {
		t.Errorf("validation failure made %d requests", after-before)
	}
}

func TestArticleService_UploadImage(t *testing.T) {
	c, svc := newRemote(t)
	articles := NewArticleService(c.Articles(), 50, testutil.TestLoggerSilent())

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 100, 40))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	url, err := articles.UploadImage(context.Background(), "Cover Photo.png", &buf)
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	name := strings.TrimPrefix(url, "/uploads/")
	if !strings.HasPrefix(name, "cover-photo-") || !strings.HasSuffix(name, ".png") {
		t.Errorf("uploaded name = %q", name)
	}
	data, ok := svc.Upload(name)
	if !ok {
		t.Fatalf("upload %q not received", name)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 50 {
		t.Errorf("uploaded width = %d, want 50", cfg.Width)
	}

	_, err = articles.UploadImage(context.Background(), "notes.txt", strings.NewReader("plain text"))
	if ve, ok := apperr.AsValidation(err); !ok || ve.Code != apperr.CodeUnsupportedType {
		t.Errorf("text upload error = %v, want unsupported_type", err)
	}
}

func TestArticleService_Preview(t *testing.T) {
	articles := NewArticleService(nil, 0, testutil.TestLoggerSilent())
	html, err := articles.Preview("# Title\n\nHello **world** <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>world</strong>") {
		t.Errorf("Preview() = %q, missing rendered markup", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("Preview() = %q, script not stripped", html)
	}
}

func TestQuestionService_AnswerAndFilter(t *testing.T) {
	c, svc := newRemote(t)
	questions := NewQuestionService(c.Questions(), testutil.TestLoggerSilent())
	ctx := context.Background()
	if _, err := questions.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}

	pending, err := questions.FilterStatus(model.QuestionStatusPending)
	if err != nil {
		t.Fatalf("FilterStatus: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != 2 {
		t.Fatalf("pending = %+v", pending)
	}
	if got := questions.Summary(); got != (model.QuestionSummary{Total: 2, Pending: 1, Answered: 1}) {
		t.Errorf("Summary() = %+v", got)
	}

	if err := questions.Answer(ctx, 2, "  Yes, entry is free. ", ""); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	stored := svc.Questions()[1]
	if stored.AnswerText() != "Yes, entry is free." || *stored.AnsweredBy != model.DefaultAuthor {
		t.Errorf("stored answer = %q by %q", stored.AnswerText(), *stored.AnsweredBy)
	}
	pending, _ = questions.FilterStatus(model.QuestionStatusPending)
	if len(pending) != 0 {
		t.Errorf("pending after answer = %d, want 0", len(pending))
	}
	all, _ := questions.FilterStatus(model.QuestionFilterAll)
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Errorf("all = %+v, want ids [1 2]", all)
	}

	if _, err := questions.FilterStatus("archived"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("FilterStatus(archived) error = %v, want validation error", err)
	}
	if err := questions.Answer(ctx, 1, "   ", "Admin"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Answer(empty) error = %v, want validation error", err)
	}
}

func TestQuestionService_AnswerKeepsText(t *testing.T) {
	c, svc := newRemote(t)
	questions := NewQuestionService(c.Questions(), testutil.TestLoggerSilent())
	ctx := context.Background()

	tests := []string{
		`Tom & Jerry: use x < 5 and "quotes"`,
		"<b>bold</b> stays as typed",
		"it's O'Brien's turn > yours",
	}
	for _, answer := range tests {
		if err := questions.Answer(ctx, 2, "\n "+answer+" \t", "Support"); err != nil {
			t.Fatalf("Answer(%q): %v", answer, err)
		}
		if got := svc.Questions()[1].AnswerText(); got != answer {
			t.Errorf("stored answer = %q, want %q", got, answer)
		}
	}
}

func TestQuestionService_Delete(t *testing.T) {
	c, svc := newRemote(t)
	questions := NewQuestionService(c.Questions(), testutil.TestLoggerSilent())
	ctx := context.Background()

	deleted, err := questions.Delete(ctx, 1, collection.NeverConfirm)
	if err != nil || deleted {
		t.Fatalf("declined Delete = %v, %v", deleted, err)
	}
	if len(svc.Questions()) != 2 {
		t.Error("declined delete removed a question")
	}
	deleted, err = questions.Delete(ctx, 1, collection.AlwaysConfirm)
	if err != nil || !deleted {
		t.Fatalf("confirmed Delete = %v, %v", deleted, err)
	}
	if _, found := questions.Find(1); found {
		t.Error("question 1 still cached after delete")
	}
}

func TestVideoService_CreateResolvesReference(t *testing.T) {
	c, svc := newRemote(t)
	videos := NewVideoService(c.Videos(), testutil.TestLoggerSilent())
	ctx := context.Background()

	err := videos.Create(ctx, model.Video{
		YouTubeID:    "https://youtu.be/M7lc1UVf-VE?t=3",
		Title:        "Player demo",
		DisplayOrder: 0,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored := svc.Videos()[2]
	if stored.YouTubeID != "M7lc1UVf-VE" {
		t.Errorf("stored youtube_id = %q, want %q", stored.YouTubeID, "M7lc1UVf-VE")
	}

	ordered := videos.Ordered()
	if ordered[0].Title != "Player demo" || ordered[1].Title != "Recap" || ordered[2].Title != "Intro" {
		t.Errorf("Ordered() titles = %q, %q, %q", ordered[0].Title, ordered[1].Title, ordered[2].Title)
	}
	if got := videos.Summary(); got != (model.VideoSummary{Total: 3, Active: 2}) {
		t.Errorf("Summary() = %+v", got)
	}
}

func TestVideoService_Validation(t *testing.T) {
	c, svc := newRemote(t)
	videos := NewVideoService(c.Videos(), testutil.TestLoggerSilent())
	ctx := context.Background()

	tests := []struct {
		name  string
		video model.Video
		code  string
	}{
		{"missing id", model.Video{Title: "x"}, apperr.CodeRequired},
		{"missing title", model.Video{YouTubeID: "dQw4w9WgXcQ"}, apperr.CodeRequired},
		{"short id", model.Video{YouTubeID: "short", Title: "x"}, apperr.CodeInvalidIDLength},
		{"watch without v", model.Video{YouTubeID: "https://youtube.com/watch", Title: "x"}, apperr.CodeInvalidIDLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := videos.Create(ctx, tt.video)
			ve, ok := apperr.AsValidation(err)
			if !ok || ve.Code != tt.code {
				t.Errorf("Create error = %v, want code %q", err, tt.code)
			}
		})
	}
	if len(svc.Videos()) != 2 {
		t.Errorf("videos persisted = %d, want 2", len(svc.Videos()))
	}
}

func TestVideoService_UpdateAndToggle(t *testing.T) {
	c, svc := newRemote(t)
	videos := NewVideoService(c.Videos(), testutil.TestLoggerSilent())
	ctx := context.Background()
	if _, err := videos.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}

	patch := collection.Patch{"youtube_id": json.RawMessage(`"https://www.youtube.com/watch?v=jNQXAC9IVRw"`)}
	if err := videos.Update(ctx, 2, patch); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := svc.Videos()[1].YouTubeID; got != "jNQXAC9IVRw" {
		t.Errorf("updated youtube_id = %q", got)
	}

	if err := videos.Toggle(ctx, 2); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if len(videos.ActiveOnly()) != 2 {
		t.Errorf("ActiveOnly() = %d, want 2", len(videos.ActiveOnly()))
	}

	svc.Fail("PUT /videos/1/toggle", 500)
	if err := videos.Toggle(ctx, 1); !errors.Is(err, apperr.ErrRemote) {
		t.Errorf("Toggle error = %v, want ErrRemote", err)
	}
	if v, _ := videos.Find(1); !v.IsActive {
		t.Error("failed toggle changed cached state")
	}
}

func TestVideoService_PartialUpdateKeepsFields(t *testing.T) {
	c, svc := newRemote(t)
	videos := NewVideoService(c.Videos(), testutil.TestLoggerSilent())
	ctx := context.Background()

	if err := videos.Update(ctx, 1, collection.Patch{"title": json.RawMessage(`"Renamed"`)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := svc.Videos()[0]
	want := model.Video{VideoID: 1, YouTubeID: "dQw4w9WgXcQ", Title: "Renamed", DisplayOrder: 2, IsActive: true}
	if got != want {
		t.Errorf("stored video = %+v, want %+v", got, want)
	}

	err := videos.Update(ctx, 1, collection.Patch{"youtube_id": json.RawMessage(`"short"`)})
	if ve, ok := apperr.AsValidation(err); !ok || ve.Code != apperr.CodeInvalidIDLength {
		t.Errorf("Update(short id) error = %v, want invalid_id_length", err)
	}
	if got := svc.Videos()[0].YouTubeID; got != "dQw4w9WgXcQ" {
		t.Errorf("youtube_id after rejected update = %q", got)
	}
}

func TestVideoService_DeleteReloadFailure(t *testing.T) {
	c, svc := newRemote(t)
	videos := NewVideoService(c.Videos(), testutil.TestLoggerSilent())
	ctx := context.Background()
	if _, err := videos.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}

	svc.Fail("GET /videos/all", 500)
	deleted, err := videos.Delete(ctx, 1, collection.AlwaysConfirm)
	if !deleted {
		t.Error("Delete reported not deleted after the server removed the video")
	}
	if !errors.Is(err, collection.ErrReloadFailed) {
		t.Errorf("Delete error = %v, want ErrReloadFailed", err)
	}
	if n := len(svc.Videos()); n != 1 {
		t.Errorf("server videos = %d, want 1", n)
	}
}

func TestNextFAQID(t *testing.T) {
	if got := NextFAQID(keypath.List()); got != 1 {
		t.Errorf("NextFAQID(empty) = %d, want 1", got)
	}
	items := keypath.List(NewFAQItem(3), NewFAQItem(7), keypath.Map(map[string]keypath.Node{"question": keypath.String("no id")}))
	if got := NextFAQID(items); got != 8 {
		t.Errorf("NextFAQID = %d, want 8", got)
	}
}
