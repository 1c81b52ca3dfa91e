package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/kvauth/internal/client/client"
	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/spf13/cobra"
)

// readCredentials prompts for a username and a password. The password
// buffer is wiped once it has been copied into the returned string.
func (a *App) readCredentials(cmd *cobra.Command) (string, string, error) {
	out := cmd.OutOrStdout()

	username, err := GetSimpleText(a.reader, "Enter username", out)
	if err != nil {
		return "", "", err
	}
	if username == "" {
		return "", "", common.ErrInvalidUsername
	}

	pw, err := GetPassword(out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(pw)

	return username, string(pw), nil
}

// tokenArg returns args[0] or prompts for a token.
func (a *App) tokenArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return GetSimpleText(a.reader, "Enter token", cmd.OutOrStdout())
}

func (a *App) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and print its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, password, err := a.readCredentials(cmd)
			if err != nil {
				return err
			}
			return a.withClient(cmd.Context(), func(ctx context.Context, c client.Client) error {
				token, err := c.Register(ctx, username, password)
				if err != nil {
					return fmt.Errorf("register: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
}

func (a *App) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a fresh token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, password, err := a.readCredentials(cmd)
			if err != nil {
				return err
			}
			return a.withClient(cmd.Context(), func(ctx context.Context, c client.Client) error {
				token, err := c.Login(ctx, username, password)
				if err != nil {
					return fmt.Errorf("login: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
}

func (a *App) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [token]",
		Short: "Check whether a token is valid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.tokenArg(cmd, args)
			if err != nil {
				return err
			}
			return a.withClient(cmd.Context(), func(ctx context.Context, c client.Client) error {
				if err := c.Validate(ctx, token); err != nil {
					return fmt.Errorf("validate: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			})
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami [token]",
		Short: "Print the username a token was issued to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.tokenArg(cmd, args)
			if err != nil {
				return err
			}
			return a.withClient(cmd.Context(), func(ctx context.Context, c client.Client) error {
				c.SetToken(token)
				username, err := c.Whoami(ctx)
				if err != nil {
					return fmt.Errorf("whoami: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), username)
				return nil
			})
		},
	}
}

func (a *App) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd.Context(), func(ctx context.Context, c client.Client) error {
				if err := c.Ping(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			})
		},
	}
}
