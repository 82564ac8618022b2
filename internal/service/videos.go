// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/collection"
	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/videoref"
)

// VideoBackend is the remote video collection.
type VideoBackend interface {
	collection.Backend[model.Video, int64]
	Toggle(ctx context.Context, id int64) error
}

// VideoService manages YouTube video entries.
type VideoService struct {
	*collection.Manager[model.Video, int64]
	backend VideoBackend
}

// NewVideoService creates a VideoService. Create and Update resolve the
// entered YouTube reference to its canonical ID before anything is sent.
func NewVideoService(backend VideoBackend, logger *slog.Logger) *VideoService {
	return &VideoService{
		Manager: collection.New[model.Video, int64](backend, collection.Options[model.Video, int64]{
			Name:    "videos",
			IDOf:    func(v model.Video) int64 { return v.VideoID },
			Prepare: prepareVideo,
			Logger:  logger,
		}),
		backend: backend,
	}
}

func prepareVideo(v model.Video) (model.Video, error) {
	v.Title = strings.TrimSpace(v.Title)
	if strings.TrimSpace(v.YouTubeID) == "" {
		return v, apperr.Required(videoref.Field)
	}
	if v.Title == "" {
		return v, apperr.Required("title")
	}
	id, err := videoref.Resolve(v.YouTubeID)
	if err != nil {
		return v, err
	}
	v.YouTubeID = id
	v.Description = strings.TrimSpace(v.Description)
	return v, nil
}

// Toggle flips a video's active flag and reloads.
func (s *VideoService) Toggle(ctx context.Context, id int64) error {
	return s.Mutate(ctx, "toggle", func(ctx context.Context) error {
		return s.backend.Toggle(ctx, id)
	})
}

// ActiveOnly returns cached active videos.
func (s *VideoService) ActiveOnly() []model.Video {
	return s.Filter(func(v model.Video) bool { return v.IsActive })
}

// Ordered returns cached videos sorted by display order. Ties keep
// collection order.
func (s *VideoService) Ordered() []model.Video {
	items := s.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
	return items
}

// Summary counts cached videos.
func (s *VideoService) Summary() model.VideoSummary {
	var sum model.VideoSummary
	for _, v := range s.Items() {
		sum.Total++
		if v.IsActive {
			sum.Active++
		}
	}
	return sum
}
