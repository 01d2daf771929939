// Package cli implements orderctl, the operator command line for the
// order database.
package cli

import (
	"context"
	"fmt"

	"github.com/ashureev/orderbot/internal/config"
	"github.com/ashureev/orderbot/internal/shared"
	"github.com/ashureev/orderbot/internal/store"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

type options struct {
	dbPath string
}

// NewRootCmd builds the orderctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "orderctl",
		Short: "Inspect and operate the orderbot database",
		Long: `orderctl manages the menu and order tracking records stored by the
orderbot webhook. It talks to the SQLite database directly.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (default is $DB_PATH or ./data/orders.db)")

	rootCmd.AddCommand(
		newMenuCmd(opts),
		newTrackCmd(opts),
		newStatusCmd(opts),
	)
	return rootCmd
}

// Execute runs orderctl with the given context.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// openStore opens the database named by --db, falling back to the
// environment configuration.
func (o *options) openStore() (*store.SQLiteStore, error) {
	path := o.dbPath
	policy := shared.DefaultRetryPolicy
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.DBPath
		policy = shared.RetryPolicy{
			MaxRetries: cfg.Retry.DatabaseMaxRetries,
			BaseDelay:  cfg.Retry.DatabaseRetryBaseDelay,
		}
	}

	repo, err := store.NewSQLite(path, store.WithRetryPolicy(policy))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return repo, nil
}
