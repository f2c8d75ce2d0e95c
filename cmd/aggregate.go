package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/certcredit/internal/domain/model"
)

func (c *cli) aggregateCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "aggregate [FILE]",
		Short: "Total credit points for a JSON list of {name, expiry_text} items",
		Long: "Reads a JSON array of items from FILE, or from stdin when FILE is omitted or \"-\".\n" +
			"Expired items are listed with zero contribution.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readItems(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			svc, cleanup, err := c.newService(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			now, err := referenceTime(asOf, svc.Now)
			if err != nil {
				return err
			}
			res, err := svc.Aggregate(cmd.Context(), items, now)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date YYYY-MM-DD (default today)")
	return cmd
}

func (c *cli) badgesCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "badges URL...",
		Short: "Fetch public badge pages and total their credit points",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := c.newService(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			now, err := referenceTime(asOf, svc.Now)
			if err != nil {
				return err
			}
			report, err := svc.AggregateBadges(cmd.Context(), args, now)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date YYYY-MM-DD (default today)")
	return cmd
}

func readItems(stdin io.Reader, args []string) ([]model.Item, error) {
	r := stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var items []model.Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}
