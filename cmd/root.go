package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/certcredit/internal/adapters/badge"
	"github.com/okian/certcredit/internal/adapters/badgecache"
	"github.com/okian/certcredit/internal/adapters/repository"
	app "github.com/okian/certcredit/internal/app"
	"github.com/okian/certcredit/internal/config"
	"github.com/okian/certcredit/internal/domain/catalog"
	"github.com/okian/certcredit/internal/domain/types"
	"github.com/okian/certcredit/pkg/logger"
)

const appName = "certcredit"

// Actual version can be specified in build command.
var version = "unknown"

// cli carries state shared by every subcommand once the root has run.
type cli struct {
	configPath string
	logLevel   string
	jsonLogs   bool

	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "certcredit resolves certification names, checks expiry and totals credit points",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (default $CERTCREDIT_CONFIG)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	root.PersistentFlags().BoolVar(&c.jsonLogs, "json-logs", false, "JSON format for logging")

	root.AddCommand(
		c.serveCmd(),
		c.matchCmd(),
		c.pointsCmd(),
		c.validityCmd(),
		c.aggregateCmd(),
		c.badgesCmd(),
		c.catalogCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithJSON(c.jsonLogs)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	c.log = logger.Named(appName)

	cfg, err := config.Load(cmd.Context(), c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		c.log.Warn(cmd.Context(), "invalid log level; falling back to info", logger.String("log_level", level))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// catalogSource opens the configured catalog. The returned closer is never nil.
func (c *cli) catalogSource(ctx context.Context) (catalog.Source, func(), error) {
	if !c.cfg.UsesDB() {
		return catalog.FileSource{Path: c.cfg.CatalogPath}, func() {}, nil
	}
	store, err := repository.Open(c.cfg.CatalogDB)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open catalog db: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, func() {}, fmt.Errorf("migrate catalog db: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

// newService builds the service from config and starts it unless start is false.
func (c *cli) newService(ctx context.Context, start bool) (*app.Service, func(), error) {
	src, closeSrc, err := c.catalogSource(ctx)
	if err != nil {
		return nil, closeSrc, err
	}

	opts := []app.Option{
		app.WithLogger(logger.Named("service")),
		app.WithCatalogSource(src),
		app.WithFetchConcurrency(c.cfg.FetchConcurrency),
		app.WithBadgeExtractor(badge.New(
			badge.WithTimeout(c.cfg.FetchTimeout()),
			badge.WithUserAgent(c.cfg.UserAgent),
			badge.WithLimiter(badge.NewHostLimiter(c.cfg.FetchRatePerSec, c.cfg.FetchBurst)),
		)),
	}
	if c.cfg.BadgeCacheSize > 0 {
		opts = append(opts, app.WithBadgeCache(badgecache.New(badgecache.WithMaxSize(c.cfg.BadgeCacheSize))))
	}

	svc := app.New(opts...)
	if start {
		if err := svc.Start(ctx); err != nil {
			closeSrc()
			return nil, func() {}, err
		}
	}
	return svc, func() {
		svc.Stop()
		closeSrc()
	}, nil
}

// referenceTime parses --as-of, falling back to now.
func referenceTime(asOf string, now func() time.Time) (time.Time, error) {
	if asOf == "" {
		return now(), nil
	}
	d, err := types.ParseDate(asOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of: %w", err)
	}
	return d.Time, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// Skip config loading so version works anywhere.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", appName, version)
		},
	}
}
