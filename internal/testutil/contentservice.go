// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kemujan/hubcms/internal/keypath"
	"github.com/kemujan/hubcms/internal/model"
)

// Credentials accepted by ContentService.
const (
	ServiceUser     = "admin"
	ServicePassword = "secret-password"
)

const serviceCookie = "cms_session"

// SeedContent is the content tree ContentService starts with.
const SeedContent = `{
	"hero": {"title": "Welcome", "subtitle": "Hello"},
	"stats": {"stat1": {"label": "Members", "value": 10}},
	"faq": {"title": "FAQ", "questions": [{"id": 1, "question": "Q1", "answer": "A1"}]}
}`

// ContentService is an in-memory stand-in for the remote content service.
// Mutating endpoints require a session obtained through /auth/login.
type ContentService struct {
	*httptest.Server

	mu         sync.Mutex
	content    keypath.Node
	theme      model.ThemeConfig
	news       []model.Article
	questions  []model.Question
	videos     []model.Video
	nextID     int64
	sessions   map[string]bool
	failures   map[string]int
	requestIDs []string
	uploads    map[string][]byte
}

// NewContentService starts a ContentService seeded with SeedContent, one
// article, one pending and one answered question, and two videos.
func NewContentService(t *testing.T) *ContentService {
	t.Helper()

	var tree keypath.Node
	if err := json.Unmarshal([]byte(SeedContent), &tree); err != nil {
		t.Fatalf("seed content: %v", err)
	}
	answer, by, at := "Every Friday.", "Admin", "2025-01-02 10:00:00"
	s := &ContentService{
		content: tree,
		theme: model.ThemeConfig{
			Colors:     map[string]string{model.ColorPrimary: "#1e40af", model.ColorText: "#111827"},
			FontFamily: "Inter, sans-serif",
			FontWeight: "400",
		},
		news: []model.Article{
			{ID: 1, Title: "Launch", Excerpt: "We launched", Content: "Details", Category: model.CategoryUpdate, Author: "Admin"},
		},
		questions: []model.Question{
			{ID: 1, Name: "Ana", Email: "ana@example.com", Question: "When do you meet?", Status: model.QuestionStatusAnswered,
				Answer: &answer, AnsweredBy: &by, AnsweredAt: &at, CreatedAt: "2025-01-01 09:00:00"},
			{ID: 2, Name: "Budi", Email: "budi@example.com", Question: "Is it free?", Status: model.QuestionStatusPending,
				CreatedAt: "2025-01-03 12:00:00"},
		},
		videos: []model.Video{
			{VideoID: 1, YouTubeID: "dQw4w9WgXcQ", Title: "Intro", DisplayOrder: 2, IsActive: true},
			{VideoID: 2, YouTubeID: "9bZkp7q19f0", Title: "Recap", DisplayOrder: 1, IsActive: false},
		},
		nextID:   100,
		sessions: make(map[string]bool),
		failures: make(map[string]int),
		uploads:  make(map[string][]byte),
	}

	r := chi.NewRouter()
	r.Use(s.recordRequest)
	r.Post("/auth/login", s.login)
	r.Post("/auth/logout", s.logout)
	r.Get("/content", s.getContent)
	r.Get("/theme", s.getTheme)
	r.Get("/news", s.listNews)
	r.Get("/questions/all", s.listQuestions)
	r.Post("/questions", s.createQuestion)
	r.Get("/videos/all", s.listVideos)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Put("/content/{section}", s.putSection)
		r.Put("/theme", s.putTheme)
		r.Post("/news", s.createNews)
		r.Post("/news/upload", s.upload)
		r.Put("/news/{id}", s.updateNews)
		r.Delete("/news/{id}", s.deleteNews)
		r.Put("/questions/{id}", s.updateQuestion)
		r.Put("/questions/{id}/answer", s.answerQuestion)
		r.Delete("/questions/{id}", s.deleteQuestion)
		r.Post("/videos", s.createVideo)
		r.Put("/videos/{id}", s.updateVideo)
		r.Put("/videos/{id}/toggle", s.toggleVideo)
		r.Delete("/videos/{id}", s.deleteVideo)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Fail makes the next request to route ("PUT /content/hero") fail with
// status.
func (s *ContentService) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// RequestIDs returns the X-Request-ID headers received so far.
func (s *ContentService) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// Section returns the persisted content section.
func (s *ContentService) Section(name string) (keypath.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Field(name)
}

// Theme returns the persisted theme.
func (s *ContentService) Theme() model.ThemeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme.Clone()
}

// Articles returns the persisted articles.
func (s *ContentService) Articles() []model.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Article(nil), s.news...)
}

// Questions returns the persisted questions.
func (s *ContentService) Questions() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Question(nil), s.questions...)
}

// Videos returns the persisted videos.
func (s *ContentService) Videos() []model.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Video(nil), s.videos...)
}

// Upload returns an uploaded file by name.
func (s *ContentService) Upload(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploads[name]
	return data, ok
}

func isVideoRoute(path string) bool { return strings.HasPrefix(path, "/videos") }

func reply(w http.ResponseWriter, r *http.Request, status int, ok bool, message string, fields map[string]any) {
	body := map[string]any{"message": message}
	if isVideoRoute(r.URL.Path) {
		body["success"] = ok
	} else if ok {
		body["status"] = "success"
	} else {
		body["status"] = "error"
	}
	for k, v := range fields {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *ContentService) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
		route := r.Method + " " + r.URL.Path
		status, fail := s.failures[route]
		delete(s.failures, route)
		s.mu.Unlock()

		if fail {
			reply(w, r, status, false, "injected failure", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *ContentService) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(serviceCookie)
		s.mu.Lock()
		ok := err == nil && s.sessions[c.Value]
		s.mu.Unlock()
		if !ok {
			reply(w, r, http.StatusUnauthorized, false, "Unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		reply(w, r, http.StatusBadRequest, false, "invalid JSON", nil)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		reply(w, r, http.StatusBadRequest, false, "invalid id", nil)
		return 0, false
	}
	return id, true
}

func (s *ContentService) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &creds) {
		return
	}
	if creds.Username != ServiceUser || creds.Password != ServicePassword {
		reply(w, r, http.StatusUnauthorized, false, "Invalid credentials", nil)
		return
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = true
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: serviceCookie, Value: token, Path: "/", HttpOnly: true})
	reply(w, r, http.StatusOK, true, "Login successful", nil)
}

func (s *ContentService) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(serviceCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: serviceCookie, Value: "", Path: "/", MaxAge: -1})
	reply(w, r, http.StatusOK, true, "Logged out", nil)
}

func (s *ContentService) getContent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tree := s.content
	s.mu.Unlock()
	reply(w, r, http.StatusOK, true, "", map[string]any{"data": tree})
}

func (s *ContentService) putSection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Data keypath.Node `json:"data"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.mu.Lock()
	updated, err := keypath.Set(s.content, keypath.Path{chi.URLParam(r, "section")}, body.Data)
	if err == nil {
		s.content = updated
	}
	s.mu.Unlock()
	if err != nil {
		reply(w, r, http.StatusBadRequest, false, err.Error(), nil)
		return
	}
	reply(w, r, http.StatusOK, true, "Content updated", nil)
}

func (s *ContentService) getTheme(w http.ResponseWriter, r *http.Request) {
	reply(w, r, http.StatusOK, true, "", map[string]any{"data": s.Theme()})
}

func (s *ContentService) putTheme(w http.ResponseWriter, r *http.Request) {
	var theme model.ThemeConfig
	if !decodeBody(w, r, &theme) {
		return
	}
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	reply(w, r, http.StatusOK, true, "Theme updated", nil)
}

func (s *ContentService) listNews(w http.ResponseWriter, r *http.Request) {
	reply(w, r, http.StatusOK, true, "", map[string]any{"news": s.Articles()})
}

func (s *ContentService) createNews(w http.ResponseWriter, r *http.Request) {
	var a model.Article
	if !decodeBody(w, r, &a) {
		return
	}
	s.mu.Lock()
	s.nextID++
	a.ID = s.nextID
	s.news = append(s.news, a)
	s.mu.Unlock()
	reply(w, r, http.StatusCreated, true, "News created", nil)
}

func (s *ContentService) updateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var a model.Article
	if !decodeBody(w, r, &a) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.news {
		if s.news[i].ID == id {
			a.ID = id
			s.news[i] = a
			reply(w, r, http.StatusOK, true, "News updated", nil)
			return
		}
	}
	reply(w, r, http.StatusNotFound, false, "News not found", nil)
}

func (s *ContentService) deleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.news {
		if s.news[i].ID == id {
			s.news = append(s.news[:i], s.news[i+1:]...)
			reply(w, r, http.StatusOK, true, "News deleted", nil)
			return
		}
	}
	reply(w, r, http.StatusNotFound, false, "News not found", nil)
}

func (s *ContentService) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		reply(w, r, http.StatusBadRequest, false, "No image uploaded", nil)
		return
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(file)
	if err != nil {
		reply(w, r, http.StatusBadRequest, false, "read failed", nil)
		return
	}
	s.mu.Lock()
	s.uploads[header.Filename] = data
	s.mu.Unlock()
	reply(w, r, http.StatusOK, true, "Uploaded", map[string]any{"image_url": "/uploads/" + header.Filename})
}

func (s *ContentService) listQuestions(w http.ResponseWriter, r *http.Request) {
	reply(w, r, http.StatusOK, true, "", map[string]any{"data": s.Questions()})
}

func (s *ContentService) createQuestion(w http.ResponseWriter, r *http.Request) {
	var q model.Question
	if !decodeBody(w, r, &q) {
		return
	}
	s.mu.Lock()
	s.nextID++
	q.ID = s.nextID
	q.Status = model.QuestionStatusPending
	q.Answer, q.AnsweredBy, q.AnsweredAt = nil, nil, nil
	s.questions = append(s.questions, q)
	s.mu.Unlock()
	reply(w, r, http.StatusCreated, true, "Question submitted", nil)
}

func (s *ContentService) updateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var q model.Question
	if !decodeBody(w, r, &q) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == id {
			q.ID = id
			s.questions[i] = q
			reply(w, r, http.StatusOK, true, "Question updated", nil)
			return
		}
	}
	reply(w, r, http.StatusNotFound, false, "Question not found", nil)
}

func (s *ContentService) answerQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Answer     string `json:"answer"`
		AnsweredBy string `json:"answered_by"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == id {
			at := "2025-02-01 08:00:00"
			answer, by := body.Answer, body.AnsweredBy
			s.questions[i].Answer = &answer
			s.questions[i].AnsweredBy = &by
			s.questions[i].AnsweredAt = &at
			s.questions[i].Status = model.QuestionStatusAnswered
			reply(w, r, http.StatusOK, true, "Answer saved", nil)
			return
		}
	}
	reply(w, r, http.StatusNotFound, false, "Question not found", nil)
}

func (s *ContentService) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			reply(w, r, http.StatusOK, true, "Question deleted", nil)
			return
		}
	}
	reply(w, r, http.StatusNotFound, false, "Question not found", nil)
}

func (s *ContentService) listVideos(w http.ResponseWriter, r *http.Request) {
	reply(w, r, http.StatusOK, true, "", map[string]any{"videos": s.Videos()})
}

func (s *ContentService) createVideo(w http.ResponseWriter, r *http.Request) {
	var v model.Video
	if !decodeBody(w, r, &v) {
		return
	}
	s.mu.Lock()
	s.nextID++
	v.VideoID = s.nextID
	s.videos = append(s.videos, v)
	s.mu.Unlock()
	reply(w, r, http.StatusCreated, true, "Video added", nil)
}

func (s *ContentService) updateVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var v model.Video
	if !decodeBody(w, r, &v) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.videos {
		if s.videos[i].VideoID == id {
			v.VideoID = id
			s.videos[i] = v
			reply(w, r, http.StatusOK, true, "Video updated", nil)
			return
		}
	}
	reply(w, r, http.StatusNotFound, false, "Video not found", nil)
}

func (s *ContentService) toggleVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.videos {
		if s.videos[i].VideoID == id {
			s.videos[i].IsActive = !s.videos[i].IsActive
			reply(w, r, http.StatusOK, true, "Video status updated", nil)
			return
		}
	}
	reply(w, r, http.StatusNotFound, false, "Video not found", nil)
}

func (s *ContentService) deleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.videos {
		if s.videos[i].VideoID == id {
			s.videos = append(s.videos[:i], s.videos[i+1:]...)
			reply(w, r, http.StatusOK, true, "Video deleted", nil)
			return
		}
	}
	reply(w, r, http.StatusNotFound, false, "Video not found", nil)
}
