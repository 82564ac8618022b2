// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package videoref normalizes user-entered YouTube references into the
// canonical 11-character video ID.
package videoref

import (
	"net/url"
	"strings"

	"github.com/kemujan/hubcms/internal/apperr"
)

// IDLength is the length of a canonical YouTube video ID.
const IDLength = 11

const (
	shortHost = "youtu.be"
	longHost  = "youtube.com"
)

// Field is the field name reported in validation errors.
const Field = "youtube_id"

// Resolve accepts a bare ID, a youtu.be short link or a youtube.com URL and
// returns the canonical ID.
//
// A youtube.com URL without a "v" parameter falls back to the whole input,
// which then fails the length check.
func Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", apperr.Required(Field)
	}

	candidate := ref
	if strings.Contains(ref, longHost) || strings.Contains(ref, shortHost) {
		u, err := url.Parse(ref)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "", apperr.Invalid(Field, apperr.CodeInvalidReferenceFormat, "invalid YouTube URL format")
		}
		host := strings.ToLower(u.Hostname())
		switch {
		case host == shortHost:
			candidate = strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)[0]
		case strings.Contains(host, longHost):
			if v := u.Query().Get("v"); v != "" {
				candidate = v
			}
		}
	}

	if n := len(candidate); n != IDLength {
		return "", apperr.Invalid(Field, apperr.CodeInvalidIDLength,
			"invalid YouTube ID: must be %d characters, got %d", IDLength, n)
	}
	return candidate, nil
}

// EmbedURL returns the iframe embed URL for a canonical ID.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + url.PathEscape(id)
}

// WatchURL returns the public watch URL for a canonical ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// ThumbnailURL returns the high-quality thumbnail URL for a canonical ID.
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + url.PathEscape(id) + "/hqdefault.jpg"
}

// Ref is a resolved reference with its derived URLs.
type Ref struct {
	YouTubeID    string `json:"youtube_id"`
	EmbedURL     string `json:"embed_url"`
	WatchURL     string `json:"watch_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Describe resolves ref and fills in the derived URLs.
func Describe(ref string) (Ref, error) {
	id, err := Resolve(ref)
	if err != nil {
		return Ref{}, err
	}
	return Ref{
		YouTubeID:    id,
		EmbedURL:     EmbedURL(id),
		WatchURL:     WatchURL(id),
		ThumbnailURL: ThumbnailURL(id),
	}, nil
}
