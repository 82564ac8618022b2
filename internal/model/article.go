// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Article categories
const (
	CategoryGeneral    = "General"
	CategoryTechnology = "teknologi"
	CategoryBusiness   = "bisnis"
	CategoryTutorial   = "tutorial"
	CategoryUpdate     = "update"
)

// DefaultAuthor is used for articles and answers submitted without a name.
const DefaultAuthor = "Admin"

// Categories lists the article categories in display order.
var Categories = []string{
	CategoryGeneral,
	CategoryTechnology,
	CategoryBusiness,
	CategoryTutorial,
	CategoryUpdate,
}

// Article is a news article persisted by the content service. ID is
// assigned by the server and never generated locally.
type Article struct {
	ID       int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string `json:"title" yaml:"title"`
	Excerpt  string `json:"excerpt" yaml:"excerpt"`
	Content  string `json:"content" yaml:"content"`
	Image    string `json:"image,omitempty" yaml:"image,omitempty"`
	Category string `json:"category" yaml:"category"`
	Author   string `json:"author" yaml:"author"`
}

// NormalizeCategory returns c if it is a known category and
// CategoryGeneral otherwise.
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryGeneral
}
