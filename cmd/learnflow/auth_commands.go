package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("LEARNFLOW_PASSWORD")
			}
			email = strings.TrimSpace(email)
			if email == "" || password == "" {
				return errors.New("--email and --password (or LEARNFLOW_PASSWORD) are required")
			}

			c, err := ctx.anonymousClient()
			if err != nil {
				return err
			}
			res, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := ctx.saveSession(savedSession{API: ctx.apiURL(), Email: res.User.Email, AccessToken: res.AccessToken}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Logged in as %s", res.User.Email))
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
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.clearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List note categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.anonymousClient()
			if err != nil {
				return err
			}
			categories, err := c.Categories(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, cat := range categories {
				fmt.Fprintf(out, "%s  %s\n", cat.Id, cat.Name)
			}
			return nil
		},
	}
}
