package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quarry/internal/api"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the issued token in the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			gw, err := ctx.ensureGateway(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := gw.Login(cmd.Context(), api.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			// Demo tokens are meaningless to the real service.
			if gw.MockMode() {
				fmt.Fprintf(out, "Signed in to demo data as %s (token not saved)\n", resp.User.Email)
				return nil
			}
			store, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.SetToken(cmd.Context(), resp.AccessToken); err != nil {
				return err
			}
			fmt.Fprintf(out, "Signed in as %s\n", orDash(resp.User.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.SetToken(cmd.Context(), ""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := ctx.ensureGateway(cmd.Context())
			if err != nil {
				return err
			}
			user, err := gw.Me(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, user)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", orDash(user.Email), user.ID)
			if user.Name != "" {
				fmt.Fprintf(out, "Name: %s\n", user.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
