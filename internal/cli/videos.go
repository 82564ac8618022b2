// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kemujan/hubcms/internal/collection"
	"github.com/kemujan/hubcms/internal/videoref"
)

func newVideoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "YouTube reference tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "resolve <ref>",
		Short: "Resolve a YouTube ID or URL to its canonical ID",
		Example: `  hubctl video resolve https://youtu.be/dQw4w9WgXcQ
  hubctl video resolve "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := videoref.Describe(args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), ref)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\nembed:     %s\nwatch:     %s\nthumbnail: %s\n",
				ref.YouTubeID, ref.EmbedURL, ref.WatchURL, ref.ThumbnailURL)
			return err
		},
	})
	return cmd
}

func newVideosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Manage videos",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List videos by display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash, err := a.connect(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if _, err := dash.Videos.List(cmd.Context()); err != nil {
				return err
			}
			videos := dash.Videos.Ordered()
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), videos)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tORDER\tYOUTUBE\tACTIVE\tTITLE")
			for _, v := range videos {
				_, _ = fmt.Fprintf(tw, "%d\t%d\t%s\t%t\t%s\n", v.VideoID, v.DisplayOrder, v.YouTubeID, v.IsActive, v.Title)
			}
			sum := dash.Videos.Summary()
			_, _ = fmt.Fprintf(tw, "\n%d videos, %d active\n", sum.Total, sum.Active)
			return tw.Flush()
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a video's active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dash, err := a.connect(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := staleOK(cmd.ErrOrStderr(), dash.Videos.Toggle(cmd.Context(), id)); err != nil {
				return err
			}
			state := "toggled"
			if v, ok := dash.Videos.Find(id); ok {
				state = "inactive"
				if v.IsActive {
					state = "active"
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "video %d %s\n", id, state)
			return err
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dash, err := a.connect(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			confirm := collection.AlwaysConfirm
			if !yes {
				confirm = promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			deleted, err := dash.Videos.Delete(cmd.Context(), id, confirm)
			if err := staleOK(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			if !deleted {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted video %d\n", id)
			return err
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")

	cmd.AddCommand(list, toggle, del)
	return cmd
}

// promptConfirm asks a y/N question on out and reads the answer from in.
// Anything other than y or yes declines.
func promptConfirm(in io.Reader, out io.Writer) collection.Confirm {
	return func(_ context.Context, prompt string) bool {
		_, _ = fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}
