// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/collection"
	"github.com/kemujan/hubcms/internal/imaging"
	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/util"
)

// ArticleBackend is the remote article collection plus its image upload.
type ArticleBackend interface {
	collection.Backend[model.Article, int64]
	UploadImage(ctx context.Context, filename string, data io.Reader) (string, error)
}

// ArticleService manages news articles.
type ArticleService struct {
	*collection.Manager[model.Article, int64]
	backend   ArticleBackend
	processor *imaging.Processor
	markdown  goldmark.Markdown
	policy    *bluemonday.Policy
	logger    *slog.Logger
}

// NewArticleService creates an ArticleService. Uploaded images wider than
// maxImageWidth are scaled down.
func NewArticleService(backend ArticleBackend, maxImageWidth int, logger *slog.Logger) *ArticleService {
	return &ArticleService{
		Manager: collection.New[model.Article, int64](backend, collection.Options[model.Article, int64]{
			Name:    "articles",
			IDOf:    func(a model.Article) int64 { return a.ID },
			Prepare: prepareArticle,
			Logger:  logger,
		}),
		backend:   backend,
		processor: imaging.NewProcessor(maxImageWidth),
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:    bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

// prepareArticle requires a title and fills category and author defaults.
func prepareArticle(a model.Article) (model.Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return a, apperr.Required("title")
	}
	a.Excerpt = strings.TrimSpace(a.Excerpt)
	a.Image = strings.TrimSpace(a.Image)
	a.Category = model.NormalizeCategory(a.Category)
	a.Author = strings.TrimSpace(a.Author)
	if a.Author == "" {
		a.Author = model.DefaultAuthor
	}
	return a, nil
}

// UploadImage validates and prepares an image, uploads it and returns the
// public URL. Nothing is sent when validation fails.
func (s *ArticleService) UploadImage(ctx context.Context, filename string, data io.Reader) (string, error) {
	prepared, err := s.processor.Prepare(data)
	if err != nil {
		return "", err
	}
	name := util.UploadName(filename, prepared.Ext)

	imageURL, err := s.backend.UploadImage(ctx, name, bytes.NewReader(prepared.Data))
	if err != nil {
		s.logger.Warn("image upload failed", "collection", "articles", "file", name, "error", err)
		return "", fmt.Errorf("uploading image: %w", err)
	}
	s.logger.Info("image uploaded",
		"file", name,
		"bytes", len(prepared.Data),
		"resized", prepared.Resized)
	return imageURL, nil
}

// Preview renders article Markdown to sanitized HTML.
func (s *ArticleService) Preview(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return s.policy.Sanitize(buf.String()), nil
}

// ByCategory returns cached articles in category.
func (s *ArticleService) ByCategory(category string) []model.Article {
	category = model.NormalizeCategory(category)
	return s.Filter(func(a model.Article) bool { return a.Category == category })
}
