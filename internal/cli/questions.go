// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kemujan/hubcms/internal/model"
)

func newQuestionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Review and answer visitor questions",
	}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash, err := a.connect(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if _, err := dash.Questions.List(cmd.Context()); err != nil {
				return err
			}
			questions, err := dash.Questions.FilterStatus(status)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), questions)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tNAME\tQUESTION")
			for _, q := range questions {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", q.ID, q.Status, q.Name, q.Question)
			}
			sum := dash.Questions.Summary()
			_, _ = fmt.Fprintf(tw, "\n%d questions, %d pending, %d answered\n", sum.Total, sum.Pending, sum.Answered)
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&status, "status", model.QuestionFilterAll, "all, pending or answered")

	var by string
	answer := &cobra.Command{
		Use:   "answer <id> <text>",
		Short: "Answer a question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dash, err := a.connect(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if by == "" {
				by = dash.Gate.User(cmd.Context())
			}
			if err := staleOK(cmd.ErrOrStderr(), dash.Questions.Answer(cmd.Context(), id, args[1], by)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "answered question %d\n", id)
			return err
		},
	}
	answer.Flags().StringVar(&by, "by", "", "name shown as the answerer (default: the login user)")

	cmd.AddCommand(list, answer)
	return cmd
}
