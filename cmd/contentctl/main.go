// Command contentctl is the operator CLI: schema migration, dashboard accounts and
// content counts against the configured document store.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tumanina/internal/app"
	"tumanina/internal/config"
	"tumanina/internal/logging"
	"tumanina/internal/model"
	"tumanina/internal/session"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := rootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(out io.Writer) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "contentctl",
		Short:         "Operate the Tumanina content store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	env := func() (*config.AppConfig, *zap.Logger, error) {
		logger, err := logging.New(verbose)
		if err != nil {
			return nil, nil, err
		}
		return config.Load(), logger, nil
	}

	cmd.AddCommand(migrateCmd(env), userCmd(env), statsCmd(env))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "contentctl version %s\n", Version)
		},
	})
	return cmd
}

type envFunc func() (*config.AppConfig, *zap.Logger, error)

// openServices connects to the document store. Sessions are process-local: the CLI
// never issues tokens.
func openServices(ctx context.Context, env envFunc) (*app.Services, func(), error) {
	cfg, logger, err := env()
	if err != nil {
		return nil, nil, err
	}
	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	svcs, err := app.NewServices(app.ServiceDeps{
		Stores:   stores,
		Sessions: session.NewMemory(),
		TTL:      time.Hour,
		Logger:   logger,
	})
	if err != nil {
		_ = stores.Close()
		return nil, nil, err
	}
	return svcs, func() { _ = stores.Close(); _ = logger.Sync() }, nil
}

func migrateCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the PostgreSQL schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := env()
			if err != nil {
				return err
			}
			if cfg.DocStoreDriver != config.DriverPostgres {
				fmt.Fprintf(cmd.OutOrStdout(), "driver %s has no schema to migrate\n", cfg.DocStoreDriver)
				return nil
			}
			// Opening the postgres store applies pending migrations.
			stores, err := app.OpenStores(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer stores.Close() //nolint:errcheck
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func userCmd(env envFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard accounts",
	}

	var email, password, role, name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a dashboard account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != model.RoleAdmin && role != model.RoleStudent {
				return fmt.Errorf("role must be %q or %q", model.RoleAdmin, model.RoleStudent)
			}
			svcs, done, err := openServices(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer done()

			u, err := svcs.Auth.Provision(cmd.Context(), email, password, role, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", u.Role, u.Email, u.UID)
			return nil
		},
	}
	add.Flags().StringVar(&email, "email", "", "Sign-in email")
	add.Flags().StringVar(&password, "password", "", "Initial password")
	add.Flags().StringVar(&role, "role", model.RoleAdmin, "admin or student")
	add.Flags().StringVar(&name, "name", "", "Display name")
	_ = add.MarkFlagRequired("email")
	_ = add.MarkFlagRequired("password")

	cmd.AddCommand(add)
	return cmd
}

func statsCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the number of records in each collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := openServices(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer done()

			for _, s := range svcs.Dashboard.Stats(cmd.Context()) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %d\n", s.Collection, s.Count)
			}
			return nil
		},
	}
}
