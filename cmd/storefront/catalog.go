package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Bhupesh-S/SmartShop-AI/internal/catalog"
	"github.com/spf13/cobra"
)

func newProductsCommand(state *cli) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog, grouped by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := state.requireCatalog(ctx); err != nil {
				return err
			}

			groups := state.app.BrowseGrouped(catalog.Criteria{Category: category})
			for _, group := range groups {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", group.Category)
				for _, entry := range group.Entries {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %-30s %s\n", entry.ID, entry.Name, entry.Price.StringFixed(2))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", catalog.CategoryAll, "filter to one category")
	return cmd
}

func newSearchCommand(state *cli) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search the catalog by name, description, or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := state.requireCatalog(ctx); err != nil {
				return err
			}

			results := state.app.Search(catalog.Criteria{
				SearchTerm: args[0],
				Category:   category,
			})
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no products matched")
				return nil
			}
			for _, entry := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-30s %-12s %s\n", entry.ID, entry.Name, entry.Category, entry.Price.StringFixed(2))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", catalog.CategoryAll, "restrict the search to one category")
	return cmd
}

func newFindImageCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "find-image <path>",
		Short: "Find the product closest to an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			match, err := state.app.API.SearchByImage(cmd.Context(), filepath.Base(args[0]), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-30s %s\n", match.ID, match.Name, match.Price.StringFixed(2))
			return nil
		},
	}
}

func newRecommendCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <product-id>",
		Short: "Show related products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := state.app.API.Recommendations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recommendations")
				return nil
			}
			for _, rec := range recs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", rec.ID, rec.Name)
			}
			return nil
		},
	}
}
