// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Video is a YouTube video entry. VideoID is the server identity and is
// distinct from YouTubeID, the canonical 11-character external reference.
type Video struct {
	VideoID      int64  `json:"video_id,omitempty"`
	YouTubeID    string `json:"youtube_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// VideoSummary holds video counts.
type VideoSummary struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}
