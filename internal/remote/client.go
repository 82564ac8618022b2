// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package remote talks to the content service that persists site content,
// the theme and the article, question and video collections.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kemujan/hubcms/internal/apperr"
)

// Client configuration constants
const (
	DefaultTimeout  = 30 * time.Second
	MaxResponseLen  = 4 << 20 // Maximum response body read (4MB)
	UserAgent       = "hubcms/1.0"
	RequestIDHeader = "X-Request-ID"
)

// Client is an HTTP client for the content service. It keeps a cookie jar
// so the session established by Login is sent with later calls.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client for the service at baseURL. A zero timeout disables
// the per-request timeout.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid content service URL %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		logger: logger,
	}, nil
}

// envelope is the common reply shape. Content, article and question
// endpoints use "status"; video endpoints use "success".
type envelope map[string]json.RawMessage

func (e envelope) ok() bool {
	if raw, found := e["status"]; found {
		var status string
		return json.Unmarshal(raw, &status) == nil && status == "success"
	}
	if raw, found := e["success"]; found {
		var success bool
		return json.Unmarshal(raw, &success) == nil && success
	}
	return false
}

func (e envelope) message() string {
	var msg string
	if raw, found := e["message"]; found {
		_ = json.Unmarshal(raw, &msg)
	}
	return msg
}

// decode unmarshals the named field into out.
func (e envelope) decode(field string, out any) error {
	raw, found := e[field]
	if !found {
		return fmt.Errorf("response has no %q field", field)
	}
	return json.Unmarshal(raw, out)
}

// call sends a JSON request and returns the parsed success envelope.
func (c *Client) call(ctx context.Context, op, method, path string, body any) (envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Remote(op, fmt.Errorf("encoding request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(op, req)
}

func (c *Client) send(op string, req *http.Request) (envelope, error) {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("content service request failed",
			"op", op,
			"request_id", requestID,
			"error", err)
		return nil, apperr.Remote(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	if err != nil {
		return nil, &apperr.RemoteError{Op: op, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("content service request",
		"op", op,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		msg := http.StatusText(resp.StatusCode)
		if resp.StatusCode < 300 {
			msg = "malformed response"
		}
		return nil, &apperr.RemoteError{Op: op, Status: resp.StatusCode, Message: msg, Err: err}
	}
	if resp.StatusCode >= 300 || !env.ok() {
		rerr := &apperr.RemoteError{Op: op, Message: env.message()}
		if resp.StatusCode >= 300 {
			rerr.Status = resp.StatusCode
		}
		if rerr.Message == "" {
			rerr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, rerr
	}
	return env, nil
}

func idPath(prefix string, id int64, suffix string) string {
	return fmt.Sprintf("%s/%d%s", prefix, id, suffix)
}
