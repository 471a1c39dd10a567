package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"altheia/internal/apiclient"
	"altheia/internal/policy"
	"altheia/internal/session"
)

func promptInput(title string, secret bool) (string, error) {
	var value string
	input := huh.NewInput().Title(title).Value(&value)
	if secret {
		input = input.EchoMode(huh.EchoModePassword)
	}
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return value, nil
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Sign in and keep the session on this machine",
		Example: "  clinicctl login --email owner@clinic.example",
		PreRunE: a.open,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if strings.TrimSpace(email) == "" {
				if email, err = a.prompt("Email", false); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.prompt("Password", true); err != nil {
					return err
				}
			}

			user, err := a.store.Login(cmd.Context(), email, password)
			if errors.Is(err, apiclient.ErrUnauthorized) {
				return errors.New("login failed: invalid email or password")
			}
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Signed in")+" as "+user.Name+" ("+policy.RoleName(user.Role)+")")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "End the session and remove local credentials",
		PreRunE: a.open,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, ok := session.Persisted(a.storage); !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err := a.store.Initialize(ctx); err != nil {
				return err
			}

			err := a.store.Logout(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			if err != nil {
				// Local credentials are gone either way.
				a.log.WarnContext(ctx, "remote logout failed", "error", err)
			}
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Short:   "Show the signed-in user",
		PreRunE: a.open,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Initialize(cmd.Context()); err != nil {
				return err
			}
			user := a.store.User()
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headingStyle.Render(user.Name))
			fmt.Fprintln(out, labelStyle.Render("email")+user.Email)
			fmt.Fprintln(out, labelStyle.Render("role")+policy.RoleName(user.Role))
			fmt.Fprintln(out, labelStyle.Render("home")+policy.Default.DashboardPath(user.Role))
			return nil
		},
	}
}
