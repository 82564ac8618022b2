// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteSession reports the gate state.
	RouteSession = "/session"

	// RouteSections is the content sections route.
	RouteSections = "/sections"
	// RouteSection addresses one content section.
	RouteSection = "/sections/{section}"
	// RouteActive selects the active section.
	RouteActive = "/active/{section}"
	// RouteDrafts lists pending drafts.
	RouteDrafts = "/drafts"
	// RouteTheme is the theme route.
	RouteTheme = "/theme"

	// RouteArticles is the articles route.
	RouteArticles = "/articles"
	// RouteQuestions is the questions route.
	RouteQuestions = "/questions"
	// RouteVideos is the videos route.
	RouteVideos = "/videos"
	// RouteEvents is the audit log route.
	RouteEvents = "/events"
	// RouteJobs lists housekeeping jobs.
	RouteJobs = "/jobs"
	// RouteJobRun triggers one job.
	RouteJobRun = "/jobs/{name}/run"
	// RouteCacheStats reports snapshot cache statistics.
	RouteCacheStats = "/cache/stats"
	// RouteCacheRepublish rewrites the published snapshots.
	RouteCacheRepublish = "/cache/republish"

	// RouteSuffixSave commits a draft.
	RouteSuffixSave = "/save"
	// RouteSuffixDiscard drops a draft.
	RouteSuffixDiscard = "/discard"
	// RouteSuffixAppend appends to a list inside a section.
	RouteSuffixAppend = "/append"
	// RouteSuffixRemove removes a node inside a section.
	RouteSuffixRemove = "/remove"
	// RouteSuffixUpload is the suffix for upload routes.
	RouteSuffixUpload = "/upload"
	// RouteSuffixPreview renders an article preview.
	RouteSuffixPreview = "/preview"
	// RouteSuffixAnswer answers a question.
	RouteSuffixAnswer = "/answer"
	// RouteSuffixToggle flips a video's active flag.
	RouteSuffixToggle = "/toggle"
	// RouteSuffixResolve resolves a video reference.
	RouteSuffixResolve = "/resolve"

	// RoutePublicContent serves the published content tree.
	RoutePublicContent = "/content"
	// RoutePublicSection serves one published section.
	RoutePublicSection = "/content/{section}"
	// RoutePublicTheme serves the published theme.
	RoutePublicTheme = "/theme"
	// RoutePublicEmbed resolves a video reference to player URLs.
	RoutePublicEmbed = "/videos/embed/{ref}"
)

// Query parameters.
const (
	// ParamConfirm must be "yes" for deletes to go through.
	ParamConfirm = "confirm"
	confirmYes   = "yes"
)
