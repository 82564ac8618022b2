// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/keypath"
	"github.com/kemujan/hubcms/internal/model"
)

// FetchContent returns the whole content tree.
func (c *Client) FetchContent(ctx context.Context) (keypath.Node, error) {
	env, err := c.call(ctx, "fetch content", http.MethodGet, "/content", nil)
	if err != nil {
		return keypath.Node{}, err
	}
	var tree keypath.Node
	if err := env.decode("data", &tree); err != nil {
		return keypath.Node{}, apperr.Remote("fetch content", err)
	}
	return tree, nil
}

// UpdateSection replaces one content section.
func (c *Client) UpdateSection(ctx context.Context, section string, value keypath.Node) error {
	_, err := c.call(ctx, "update section", http.MethodPut, "/content/"+url.PathEscape(section),
		map[string]any{"data": value})
	return err
}

// FetchTheme returns the site theme.
func (c *Client) FetchTheme(ctx context.Context) (model.ThemeConfig, error) {
	env, err := c.call(ctx, "fetch theme", http.MethodGet, "/theme", nil)
	if err != nil {
		return model.ThemeConfig{}, err
	}
	var theme model.ThemeConfig
	if err := env.decode("data", &theme); err != nil {
		return model.ThemeConfig{}, apperr.Remote("fetch theme", err)
	}
	return theme, nil
}

// UpdateTheme replaces the site theme.
func (c *Client) UpdateTheme(ctx context.Context, theme model.ThemeConfig) error {
	_, err := c.call(ctx, "update theme", http.MethodPut, "/theme", theme)
	return err
}

// Login authenticates against the content service. The session cookie it
// returns is kept in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	_, err := c.call(ctx, "login", http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	return err
}

// Logout ends the remote session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.call(ctx, "logout", http.MethodPost, "/auth/logout", nil)
	return err
}
