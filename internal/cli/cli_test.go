// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kemujan/hubcms/internal/model"
	"github.com/kemujan/hubcms/internal/testutil"
	"github.com/kemujan/hubcms/internal/videoref"
)

// run executes hubctl against svc with valid credentials.
func run(t *testing.T, svc *testutil.ContentService, stdin string, args ...string) (string, error) {
	t.Helper()
	if svc != nil {
		args = append(args,
			"--api-url="+svc.URL,
			"--user="+testutil.ServiceUser,
			"--password="+testutil.ServicePassword,
		)
	}
	return runRaw(t, stdin, args...)
}

func runRaw(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVideoResolve(t *testing.T) {
	out, err := run(t, nil, "", "video", "resolve", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Contains(t, out, "dQw4w9WgXcQ\n")
	assert.Contains(t, out, "https://www.youtube.com/embed/dQw4w9WgXcQ")

	out, err = run(t, nil, "", "video", "resolve", "--json", "https://www.youtube.com/watch?v=9bZkp7q19f0&t=42")
	require.NoError(t, err)
	var ref videoref.Ref
	require.NoError(t, json.Unmarshal([]byte(out), &ref))
	assert.Equal(t, "9bZkp7q19f0", ref.YouTubeID)
	assert.Equal(t, "https://img.youtube.com/vi/9bZkp7q19f0/hqdefault.jpg", ref.ThumbnailURL)
}

func TestVideoResolve_Invalid(t *testing.T) {
	_, err := run(t, nil, "", "video", "resolve", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be 11 characters")
}

func TestMissingCredentials(t *testing.T) {
	t.Setenv("HUBCMS_USER", "")
	t.Setenv("HUBCMS_PASSWORD", "")
	svc := testutil.NewContentService(t)

	_, err := runRaw(t, "", "content", "get", "hero", "--api-url="+svc.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials required")
}

func TestLoginFailure(t *testing.T) {
	svc := testutil.NewContentService(t)

	_, err := runRaw(t, "", "content", "get", "hero",
		"--api-url="+svc.URL, "--user=admin", "--password=wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")
}

func TestContentGet(t *testing.T) {
	svc := testutil.NewContentService(t)

	out, err := run(t, svc, "", "content", "get", "hero")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Welcome"`)

	out, err = run(t, svc, "", "content", "get", "stats", "--path", "stat1.label")
	require.NoError(t, err)
	assert.Equal(t, "\"Members\"\n", out)

	_, err = run(t, svc, "", "content", "get", "missing")
	assert.Error(t, err)
}

func TestContentSet(t *testing.T) {
	svc := testutil.NewContentService(t)

	out, err := run(t, svc, "", "content", "set", "hero", "title", `"Updated"`)
	require.NoError(t, err)
	assert.Equal(t, "saved hero\n", out)

	hero, ok := svc.Section("hero")
	require.True(t, ok)
	title, _ := hero.Field("title")
	s, _ := title.Str()
	assert.Equal(t, "Updated", s)
	subtitle, _ := hero.Field("subtitle")
	s, _ = subtitle.Str()
	assert.Equal(t, "Hello", s, "other fields are kept")
}

func TestContentSet_InvalidJSON(t *testing.T) {
	svc := testutil.NewContentService(t)

	_, err := run(t, svc, "", "content", "set", "hero", "title", "not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value must be JSON")
}

func TestContentExport(t *testing.T) {
	svc := testutil.NewContentService(t)

	out, err := run(t, svc, "", "content", "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Welcome")
	assert.Contains(t, out, "fontFamily: Inter, sans-serif")

	out, err = run(t, svc, "", "content", "export")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "content")
	assert.Contains(t, doc, "theme")

	_, err = run(t, svc, "", "content", "export", "--format", "xml")
	assert.Error(t, err)
}

func TestArticlesList(t *testing.T) {
	svc := testutil.NewContentService(t)

	out, err := run(t, svc, "", "articles", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Launch")

	out, err = run(t, svc, "", "articles", "list", "--category", model.CategoryTutorial)
	require.NoError(t, err)
	assert.NotContains(t, out, "Launch")
}

func TestQuestions(t *testing.T) {
	svc := testutil.NewContentService(t)

	out, err := run(t, svc, "", "questions", "list", "--status", "pending", "--json")
	require.NoError(t, err)
	var pending []model.Question
	require.NoError(t, json.Unmarshal([]byte(out), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].ID)

	_, err = run(t, svc, "", "questions", "list", "--status", "closed")
	assert.Error(t, err)

	out, err = run(t, svc, "", "questions", "answer", "2", "Yes, it is free.")
	require.NoError(t, err)
	assert.Equal(t, "answered question 2\n", out)

	for _, q := range svc.Questions() {
		if q.ID == 2 {
			assert.Equal(t, model.QuestionStatusAnswered, q.Status)
			require.NotNil(t, q.AnsweredBy)
			assert.Equal(t, testutil.ServiceUser, *q.AnsweredBy)
		}
	}
}

func TestVideos(t *testing.T) {
	svc := testutil.NewContentService(t)

	out, err := run(t, svc, "", "videos", "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Recap"), strings.Index(out, "Intro"), "ordered by display order")
	assert.Contains(t, out, "2 videos, 1 active")

	out, err = run(t, svc, "", "videos", "toggle", "2")
	require.NoError(t, err)
	assert.Equal(t, "video 2 active\n", out)

	_, err = run(t, svc, "", "videos", "toggle", "x")
	assert.Error(t, err)
}

func TestVideosDelete(t *testing.T) {
	svc := testutil.NewContentService(t)

	out, err := run(t, svc, "n\n", "videos", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, out, "cancelled")
	assert.Len(t, svc.Videos(), 2)

	out, err = run(t, svc, "yes\n", "videos", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted video 1")
	assert.Len(t, svc.Videos(), 1)

	out, err = run(t, svc, "", "videos", "delete", "2", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "[y/N]")
	assert.Empty(t, svc.Videos())
}

func TestVideosDelete_StaleList(t *testing.T) {
	svc := testutil.NewContentService(t)
	svc.Fail("GET /videos/all", 500)

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"videos", "delete", "1", "--yes",
		"--api-url=" + svc.URL, "--user=" + testutil.ServiceUser, "--password=" + testutil.ServicePassword})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "deleted video 1")
	assert.Contains(t, errOut.String(), "warning: change saved")
	assert.Len(t, svc.Videos(), 1)
}
