// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cli implements hubctl, the command-line client for the content
// service. Each invocation logs in, runs one command and exits.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kemujan/hubcms/internal/collection"
	"github.com/kemujan/hubcms/internal/config"
	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/draft"
	"github.com/kemujan/hubcms/internal/remote"
	"github.com/kemujan/hubcms/internal/service"
	"github.com/kemujan/hubcms/internal/session"
	"github.com/kemujan/hubcms/internal/version"
)

// app holds the global flags and the lazily connected dashboard.
type app struct {
	apiURL   string
	user     string
	password string
	verbose  bool
	jsonOut  bool

	dash *dashboard.Dashboard
}

// Execute runs hubctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the hubctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hubctl",
		Short: "Command-line client for the hub content service",
		Long: `hubctl edits site content, articles, questions and videos on the
hub content service.

The service URL and credentials are read from HUBCMS_API_URL,
HUBCMS_USER and HUBCMS_PASSWORD unless given as flags.`,
		Version:       version.Current().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "content service URL (default $HUBCMS_API_URL)")
	root.PersistentFlags().StringVarP(&a.user, "user", "u", "", "admin username (default $HUBCMS_USER)")
	root.PersistentFlags().StringVarP(&a.password, "password", "p", "", "admin password (default $HUBCMS_PASSWORD)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests and reloads")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newVideoCmd(a),
		newContentCmd(a),
		newArticlesCmd(a),
		newQuestionsCmd(a),
		newVideosCmd(a),
	)
	return root
}

// connect loads the configuration, logs in and refreshes content. The
// session lives only as long as the process.
func (a *app) connect(ctx context.Context, errOut io.Writer) (*dashboard.Dashboard, error) {
	if a.dash != nil {
		return a.dash, nil
	}
	cfg, err := config.LoadCLIWith(map[string]string{
		"HUBCMS_API_URL":  a.apiURL,
		"HUBCMS_USER":     a.user,
		"HUBCMS_PASSWORD": a.password,
	})
	if err != nil {
		return nil, err
	}
	if cfg.User == "" || cfg.Password == "" {
		return nil, errors.New("credentials required: use --user/--password or HUBCMS_USER/HUBCMS_PASSWORD")
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	rc, err := remote.New(cfg.APIURL, cfg.Timeout(), logger)
	if err != nil {
		return nil, err
	}
	dash := dashboard.New(dashboard.Deps{
		Gate:      session.NewGate(rc, session.NewMemoryFlags(), logger),
		Content:   draft.NewStore(rc, logger),
		Theme:     draft.NewThemeStore(rc, logger),
		Articles:  service.NewArticleService(rc.Articles(), 0, logger),
		Questions: service.NewQuestionService(rc.Questions(), logger),
		Videos:    service.NewVideoService(rc.Videos(), logger),
		Logger:    logger,
	})
	if err := dash.Login(ctx, cfg.User, cfg.Password); err != nil {
		if !dash.Authenticated(ctx) {
			return nil, fmt.Errorf("login: %w", err)
		}
		logger.Warn("loading content after login failed", "error", err)
	}
	a.dash = dash
	return dash, nil
}

// printJSON writes v as indented JSON.
// staleOK turns a reload failure after a persisted mutation into a warning
// on errOut. Other errors pass through.
func staleOK(errOut io.Writer, err error) error {
	if errors.Is(err, collection.ErrReloadFailed) {
		_, _ = fmt.Fprintf(errOut, "warning: change saved, but the list could not be reloaded: %v\n", err)
		return nil
	}
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
