package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				if username, err = promptLine(a.in, a.out, "Username"); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = promptLine(a.in, a.out, "Email"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword(a.out); err != nil {
					return err
				}
			}

			user, err := a.client.Register(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			a.printf("Registered %s <%s>.\n", user.Username, user.Email)

			if _, err := a.client.Login(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("account created but sign-in failed: %w", err)
			}
			a.printf("Logged in as %s.\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				if email, err = promptLine(a.in, a.out, "Email"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword(a.out); err != nil {
					return err
				}
			}

			user, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			a.printf("Logged in as %s.\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached session token",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.client.Logout(); err != nil {
				return err
			}
			a.printf("Logged out.\n")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("%s <%s> (%s)\n", user.Username, user.Email, user.ID)
			return nil
		},
	}
}
