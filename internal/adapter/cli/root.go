// Package cli holds the admin command tree: schema setup and admin account
// provisioning.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"subsidy-intake/internal/domain/user"
)

type AdminAccounts interface {
	CreateAdmin(ctx context.Context, username, password string) (*user.User, error)
	ChangePassword(ctx context.Context, username, password string) error
}

// Deps is resolved lazily so --help works without a database.
type Deps struct {
	Migrate      func(ctx context.Context) error
	Accounts     AdminAccounts
	ReadPassword PasswordReader
}

type DepsFactory func() (*Deps, func(), error)

func NewRootCmd(factory DepsFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administer the subsidy intake service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newInitDBCmd(factory),
		newCreateAdminCmd(factory),
		newChangePasswordCmd(factory),
	)
	return root
}

func withDeps(factory DepsFactory, run func(cmd *cobra.Command, d *Deps) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		d, cleanup, err := factory()
		if err != nil {
			return err
		}
		if cleanup != nil {
			defer cleanup()
		}
		return run(cmd, d)
	}
}

func newInitDBCmd(factory DepsFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: withDeps(factory, func(cmd *cobra.Command, d *Deps) error {
			if err := d.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database initialized.")
			return nil
		}),
	}
}

func newCreateAdminCmd(factory DepsFactory) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user",
		Args:  cobra.NoArgs,
		RunE: withDeps(factory, func(cmd *cobra.Command, d *Deps) error {
			pw, err := readNewPassword(d.ReadPassword)
			if err != nil {
				return err
			}
			u, err := d.Accounts.CreateAdmin(cmd.Context(), username, pw)
			if err != nil {
				return fmt.Errorf("create admin %q: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin user %q created.\n", u.Username)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newChangePasswordCmd(factory DepsFactory) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change an admin user's password",
		Args:  cobra.NoArgs,
		RunE: withDeps(factory, func(cmd *cobra.Command, d *Deps) error {
			pw, err := readNewPassword(d.ReadPassword)
			if err != nil {
				return err
			}
			if err := d.Accounts.ChangePassword(cmd.Context(), username, pw); err != nil {
				return fmt.Errorf("change password for %q: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %q.\n", username)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
