// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategoryContent  = "content"
	EventCategoryTheme    = "theme"
	EventCategoryArticle  = "article"
	EventCategoryQuestion = "question"
	EventCategoryVideo    = "video"
	EventCategorySystem   = "system"
	EventCategoryCache    = "cache"
)

// Event represents an audit log entry.
type Event struct {
	ID        int64          `json:"id"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	Actor     sql.NullString `json:"-"`
	Metadata  string         `json:"metadata"` // JSON string
	CreatedAt time.Time      `json:"created_at"`
}
