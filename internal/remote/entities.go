// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/model"
)

// Articles is the news collection backend.
type Articles struct{ c *Client }

// Articles returns the article backend.
func (c *Client) Articles() *Articles { return &Articles{c: c} }

// List returns all articles.
func (a *Articles) List(ctx context.Context) ([]model.Article, error) {
	env, err := a.c.call(ctx, "list articles", http.MethodGet, "/news", nil)
	if err != nil {
		return nil, err
	}
	var out []model.Article
	if err := env.decode("news", &out); err != nil {
		return nil, apperr.Remote("list articles", err)
	}
	return out, nil
}

// Create submits a new article.
func (a *Articles) Create(ctx context.Context, article model.Article) error {
	article.ID = 0
	_, err := a.c.call(ctx, "create article", http.MethodPost, "/news", article)
	return err
}

// Update replaces an article.
func (a *Articles) Update(ctx context.Context, id int64, article model.Article) error {
	article.ID = id
	_, err := a.c.call(ctx, "update article", http.MethodPut, idPath("/news", id, ""), article)
	return err
}

// Delete removes an article.
func (a *Articles) Delete(ctx context.Context, id int64) error {
	_, err := a.c.call(ctx, "delete article", http.MethodDelete, idPath("/news", id, ""), nil)
	return err
}

// UploadImage sends an article image and returns its public URL.
func (a *Articles) UploadImage(ctx context.Context, filename string, data io.Reader) (string, error) {
	const op = "upload image"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", apperr.Remote(op, err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", apperr.Remote(op, fmt.Errorf("reading image: %w", err))
	}
	if err := mw.Close(); err != nil {
		return "", apperr.Remote(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.c.baseURL+"/news/upload", &buf)
	if err != nil {
		return "", apperr.Remote(op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	env, err := a.c.send(op, req)
	if err != nil {
		return "", err
	}
	var imageURL string
	if err := env.decode("image_url", &imageURL); err != nil {
		return "", apperr.Remote(op, err)
	}
	return imageURL, nil
}

// Questions is the visitor question collection backend.
type Questions struct{ c *Client }

// Questions returns the question backend.
func (c *Client) Questions() *Questions { return &Questions{c: c} }

// List returns all questions, answered or not.
func (q *Questions) List(ctx context.Context) ([]model.Question, error) {
	env, err := q.c.call(ctx, "list questions", http.MethodGet, "/questions/all", nil)
	if err != nil {
		return nil, err
	}
	var out []model.Question
	if err := env.decode("data", &out); err != nil {
		return nil, apperr.Remote("list questions", err)
	}
	return out, nil
}

// Create submits a question.
func (q *Questions) Create(ctx context.Context, question model.Question) error {
	question.ID = 0
	_, err := q.c.call(ctx, "create question", http.MethodPost, "/questions", question)
	return err
}

// Update replaces a question.
func (q *Questions) Update(ctx context.Context, id int64, question model.Question) error {
	question.ID = id
	_, err := q.c.call(ctx, "update question", http.MethodPut, idPath("/questions", id, ""), question)
	return err
}

// Delete removes a question.
func (q *Questions) Delete(ctx context.Context, id int64) error {
	_, err := q.c.call(ctx, "delete question", http.MethodDelete, idPath("/questions", id, ""), nil)
	return err
}

// Answer records an answer for a question.
func (q *Questions) Answer(ctx context.Context, id int64, answer, answeredBy string) error {
	_, err := q.c.call(ctx, "answer question", http.MethodPut, idPath("/questions", id, "/answer"),
		map[string]string{"answer": answer, "answered_by": answeredBy})
	return err
}

// Videos is the video collection backend.
type Videos struct{ c *Client }

// Videos returns the video backend.
func (c *Client) Videos() *Videos { return &Videos{c: c} }

// List returns all videos including inactive ones.
func (v *Videos) List(ctx context.Context) ([]model.Video, error) {
	env, err := v.c.call(ctx, "list videos", http.MethodGet, "/videos/all", nil)
	if err != nil {
		return nil, err
	}
	var out []model.Video
	if err := env.decode("videos", &out); err != nil {
		return nil, apperr.Remote("list videos", err)
	}
	return out, nil
}

// Create submits a new video.
func (v *Videos) Create(ctx context.Context, video model.Video) error {
	video.VideoID = 0
	_, err := v.c.call(ctx, "create video", http.MethodPost, "/videos", video)
	return err
}

// Update replaces a video.
func (v *Videos) Update(ctx context.Context, id int64, video model.Video) error {
	video.VideoID = id
	_, err := v.c.call(ctx, "update video", http.MethodPut, idPath("/videos", id, ""), video)
	return err
}

// Delete removes a video.
func (v *Videos) Delete(ctx context.Context, id int64) error {
	_, err := v.c.call(ctx, "delete video", http.MethodDelete, idPath("/videos", id, ""), nil)
	return err
}

// Toggle flips a video's active flag.
func (v *Videos) Toggle(ctx context.Context, id int64) error {
	_, err := v.c.call(ctx, "toggle video", http.MethodPut, idPath("/videos", id, "/toggle"), nil)
	return err
}
