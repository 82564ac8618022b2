// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/middleware"
	"github.com/kemujan/hubcms/internal/service"
)

// API bundles the admin API handlers.
type API struct {
	Auth      *AuthHandler
	Sections  *SectionsHandler
	Articles  *ArticlesHandler
	Questions *QuestionsHandler
	Videos    *VideosHandler
	Events    *EventsHandler
	Jobs      *SchedulerHandler // optional
	Cache     *CacheHandler     // optional

	guard *middleware.LoginGuard
}

// NewAPI creates the admin handlers over dash. events and guard may be nil.
func NewAPI(dash *dashboard.Dashboard, events *service.EventService, guard *middleware.LoginGuard, logger *slog.Logger) *API {
	api := &API{
		Auth:      NewAuthHandler(dash, guard, logger),
		Sections:  NewSectionsHandler(dash, logger),
		Articles:  NewArticlesHandler(dash, logger),
		Questions: NewQuestionsHandler(dash, logger),
		Videos:    NewVideosHandler(dash, logger),
		guard:     guard,
	}
	if events != nil {
		api.Events = NewEventsHandler(events, logger)
	}
	return api
}

// Routes registers the admin API on r. Every route except login, logout and
// session goes through requireAuth.
func (a *API) Routes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	login := http.Handler(http.HandlerFunc(a.Auth.Login))
	if a.guard != nil {
		login = a.guard.Middleware()(login)
	}
	r.Method(http.MethodPost, RouteLogin, login)
	r.Post(RouteLogout, a.Auth.Logout)
	r.Get(RouteSession, a.Auth.Session)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get(RouteSections, a.Sections.List)
		r.Get(RouteSection, a.Sections.Get)
		r.Patch(RouteSection, a.Sections.Patch)
		r.Post(RouteSection+RouteSuffixAppend, a.Sections.Append)
		r.Post(RouteSection+RouteSuffixRemove, a.Sections.Remove)
		r.Post(RouteSection+RouteSuffixSave, a.Sections.Save)
		r.Post(RouteSection+RouteSuffixDiscard, a.Sections.Discard)
		r.Post(RouteActive, a.Sections.Activate)
		r.Get(RouteDrafts, a.Sections.Drafts)

		r.Get(RouteTheme, a.Sections.GetTheme)
		r.Patch(RouteTheme, a.Sections.PatchTheme)
		r.Post(RouteTheme+RouteSuffixSave, a.Sections.SaveTheme)
		r.Post(RouteTheme+RouteSuffixDiscard, a.Sections.DiscardTheme)

		r.Get(RouteArticles, a.Articles.List)
		r.Post(RouteArticles, a.Articles.Create)
		r.Post(RouteArticles+RouteSuffixUpload, a.Articles.Upload)
		r.Post(RouteArticles+RouteSuffixPreview, a.Articles.Preview)
		r.Put(RouteArticles+RouteParamID, a.Articles.Update)
		r.Delete(RouteArticles+RouteParamID, a.Articles.Delete)

		r.Get(RouteQuestions, a.Questions.List)
		r.Post(RouteQuestions+RouteParamID+RouteSuffixAnswer, a.Questions.Answer)
		r.Delete(RouteQuestions+RouteParamID, a.Questions.Delete)

		r.Get(RouteVideos, a.Videos.List)
		r.Post(RouteVideos, a.Videos.Create)
		r.Post(RouteVideos+RouteSuffixResolve, a.Videos.Resolve)
		r.Put(RouteVideos+RouteParamID, a.Videos.Update)
		r.Delete(RouteVideos+RouteParamID, a.Videos.Delete)
		r.Post(RouteVideos+RouteParamID+RouteSuffixToggle, a.Videos.Toggle)

		if a.Events != nil {
			r.Get(RouteEvents, a.Events.List)
		}
		if a.Jobs != nil {
			r.Get(RouteJobs, a.Jobs.List)
			r.Post(RouteJobRun, a.Jobs.Run)
		}
		if a.Cache != nil {
			r.Get(RouteCacheStats, a.Cache.Stats)
			r.Post(RouteCacheRepublish, a.Cache.Republish)
		}
	})
}

// Routes registers the public snapshot API on r.
func (h *PublicHandler) Routes(r chi.Router) {
	r.Get(RoutePublicContent, h.Content)
	r.Get(RoutePublicSection, h.Section)
	r.Get(RoutePublicTheme, h.Theme)
	r.Get(RoutePublicEmbed, h.Embed)
}
