package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func promptPassword(cmd *cobra.Command, password string) (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprint(cmd.OutOrStdout(), "password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCommand(state *cli) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and take over the account cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := promptPassword(cmd, password)
			if err != nil {
				return err
			}
			id, err := state.app.Identity.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", id.Key())
			printSnapshot(cmd, state.app.Cart.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newSignupCommand(state *cli) *cobra.Command {
	var (
		name     string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Register a new shopper account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := promptPassword(cmd, password)
			if err != nil {
				return err
			}
			message, err := state.app.Identity.Signup(cmd.Context(), name, email, args[0], pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newWhoamiCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active shopper identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := state.app.Identity.CurrentIdentity()
			if !id.IsAuthenticated() {
				fmt.Fprintf(cmd.OutOrStdout(), "anonymous (%s)\n", id.Key())
				return nil
			}
			details, err := state.app.API.GetUserDetails(cmd.Context(), id.Username)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (@%s)\n", details.Name, details.Email, details.Username)
			return nil
		},
	}
}

func newLogoutCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and start a fresh anonymous session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := state.app.Identity.Logout(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "browsing anonymously as %s\n", id.Key())
			return nil
		},
	}
}
