// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newArticlesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Manage news articles",
	}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash, err := a.connect(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			articles, err := dash.Articles.List(cmd.Context())
			if err != nil {
				return err
			}
			if category != "" {
				articles = dash.Articles.ByCategory(category)
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), articles)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tCATEGORY\tAUTHOR\tTITLE")
			for _, art := range articles {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", art.ID, art.Category, art.Author, art.Title)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&category, "category", "", "only list this category")

	cmd.AddCommand(list)
	return cmd
}
