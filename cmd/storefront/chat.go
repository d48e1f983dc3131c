package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCommand(state *cli) *cobra.Command {
	var instant bool

	cmd := &cobra.Command{
		Use:   "chat <question...>",
		Short: "Ask the shopping assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			if instant {
				fmt.Fprintln(cmd.OutOrStdout(), state.app.Assistant.Ask(ctx, query))
				return nil
			}

			for chunk := range state.app.Assistant.AskRevealed(ctx, query) {
				fmt.Fprint(cmd.OutOrStdout(), chunk)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&instant, "instant", false, "print the full reply at once")
	return cmd
}
