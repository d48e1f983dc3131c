package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newReviewCommand(state *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Analyze review text",
	}
	cmd.AddCommand(
		newReviewSentimentCommand(state),
		newReviewTranslateCommand(state),
		newReviewCheckCommand(state),
	)
	return cmd
}

func newReviewSentimentCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sentiment <text...>",
		Short: "Classify a review as positive, neutral, or negative",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := state.app.API.AnalyzeSentiment(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%.2f)\n", result.Sentiment, result.Score)
			return nil
		},
	}
}

func newReviewTranslateCommand(state *cli) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "translate <text...>",
		Short: "Translate a review into English",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			translated, err := state.app.API.TranslateReview(cmd.Context(), strings.Join(args, " "), lang)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), translated)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "auto", "source language code")
	return cmd
}

func newReviewCheckCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check <text...>",
		Short: "Check whether a review looks fabricated",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := state.app.API.CheckReviewLegitimacy(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			verdict := "looks genuine"
			if result.IsFake {
				verdict = "looks fabricated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (confidence %.2f)\n", verdict, result.Confidence)
			return nil
		},
	}
}
