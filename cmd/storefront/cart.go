package main

import (
	"fmt"
	"strconv"

	"github.com/Bhupesh-S/SmartShop-AI/internal/cart"
	"github.com/spf13/cobra"
)

func newCartCommand(state *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and mutate the shopping cart",
	}
	cmd.AddCommand(
		newCartShowCommand(state),
		newCartAddCommand(state),
		newCartRemoveCommand(state),
		newCartUpdateCommand(state),
		newCartSummaryCommand(state),
	)
	return cmd
}

func printSnapshot(cmd *cobra.Command, snap cart.Snapshot) {
	if len(snap.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "cart is empty")
		return
	}
	for _, item := range snap.Items {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-30s x%-3d %s\n", item.ProductID, item.Name, item.Quantity, item.Price.StringFixed(2))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "total: %s (%d items)\n", snap.TotalPrice.StringFixed(2), snap.Count())
}

func newCartShowCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Fetch and print the server cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := state.app.RefreshCart(cmd.Context())
			if err != nil {
				return err
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
}

func newCartAddCommand(state *cli) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := state.app.AddToCart(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "units to add")
	return cmd
}

func newCartRemoveCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := state.app.RemoveFromCart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
}

func newCartUpdateCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set the absolute quantity for a product line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be an integer: %w", err)
			}
			snap, err := state.app.UpdateQuantity(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
}

func newCartSummaryCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Generate a promotional summary of the cart contents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := state.app.CartSummary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func newCheckoutCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Generate a receipt for the cart and clear it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			link, err := state.app.Checkout(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "receipt: %s\n", link)
			return nil
		},
	}
}
