package main

import (
	"strings"

	"github.com/spf13/cobra"

	app "github.com/okian/certcredit/internal/app"
)

func (c *cli) matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match NAME...",
		Short: "Match a certification name against the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := c.newService(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Match(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (c *cli) pointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "points NAME...",
		Short: "Resolve the credit points for a certification name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := c.newService(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.ResolvePoints(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (c *cli) validityCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "validity [TEXT...]",
		Short: "Classify an expiry expression as valid, expired or indeterminate",
		RunE: func(cmd *cobra.Command, args []string) error {
			// No catalog is needed to read a date.
			svc := app.New(app.WithLogger(c.log))
			now, err := referenceTime(asOf, svc.Now)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.CheckValidity(cmd.Context(), strings.Join(args, " "), now))
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date YYYY-MM-DD (default today)")
	return cmd
}
