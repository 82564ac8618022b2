// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kemujan/hubcms/internal/keypath"
	"github.com/kemujan/hubcms/internal/model"
)

// Export formats
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// exportDoc is the document written by content export.
type exportDoc struct {
	Content keypath.Node      `json:"content" yaml:"content"`
	Theme   model.ThemeConfig `json:"theme" yaml:"theme"`
}

func newContentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Read and edit site content sections",
	}

	var path string
	get := &cobra.Command{
		Use:   "get <section>",
		Short: "Print a content section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := a.connect(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			node, err := dash.Content.ReadPath(args[0], path)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), node)
		},
	}
	get.Flags().StringVar(&path, "path", "", "key path inside the section, e.g. stats.stat1.label")

	set := &cobra.Command{
		Use:   "set <section> <path> <json>",
		Short: "Set a value and save the section",
		Long: `Set writes a JSON value at a key path and saves the section.
An empty path ("") replaces the whole section.`,
		Example: `  hubctl content set hero title '"New title"'
  hubctl content set faq questions.0.answer '"Yes"'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, path := args[0], args[1]
			var value keypath.Node
			if err := json.Unmarshal([]byte(args[2]), &value); err != nil {
				return fmt.Errorf("value must be JSON: %w", err)
			}
			dash, err := a.connect(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := dash.Content.Write(section, path, value); err != nil {
				return err
			}
			if err := dash.SaveSection(cmd.Context(), section); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", section)
			return err
		},
	}

	var format string
	export := &cobra.Command{
		Use:   "export",
		Short: "Print all content and the theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("unknown format %q, use json or yaml", format)
			}
			dash, err := a.connect(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			doc := exportDoc{Content: dash.Content.Snapshot(), Theme: dash.Theme.Snapshot()}
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), doc)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	export.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")

	cmd.AddCommand(get, set, export)
	return cmd
}
