package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/certcredit/internal/adapters/repository"
	"github.com/okian/certcredit/pkg/logger"
)

func (c *cli) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or seed the certification catalog",
	}
	cmd.AddCommand(c.catalogListCmd(), c.catalogSeedCmd())
	return cmd
}

func (c *cli) catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := c.newService(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := svc.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
}

func (c *cli) catalogSeedCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a SQLite catalog holding the stock certifications",
		Long:  "Creates the schema if needed and inserts the stock records. A catalog that already has rows is left alone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				dbPath = c.cfg.CatalogDB
			}
			if dbPath == "" {
				return errors.New("--db or catalog_db is required")
			}
			ctx := cmd.Context()

			store, err := repository.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", dbPath, err)
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			existing, err := store.Entries(ctx)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				c.log.Info(ctx, "catalog already seeded", logger.String("db", dbPath), logger.Int("entries", len(existing)))
				return printJSON(cmd.OutOrStdout(), map[string]any{"db": dbPath, "seeded": 0, "entries": len(existing)})
			}

			seed := repository.DefaultSeed()
			if err := store.Seed(ctx, seed); err != nil {
				return err
			}
			c.log.Info(ctx, "catalog seeded", logger.String("db", dbPath), logger.Int("entries", len(seed)))
			return printJSON(cmd.OutOrStdout(), map[string]any{"db": dbPath, "seeded": len(seed), "entries": len(seed)})
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to seed (default catalog_db)")
	return cmd
}
