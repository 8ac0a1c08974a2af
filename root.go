package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/store"
)

var (
	cfgFile   string
	verbose   bool
	appConfig config.Config
	logger    = slog.Default()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Renders a JSON-described portfolio into a static page",
	Long: `folio loads a portfolio content document (JSON), renders every section
into the mount points of an HTML page skeleton and writes the finished page.
Text from the document is always treated as plain text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := config.Load(viper.New(), cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		l, closer, err := newLogger(verbose, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("set up logging: %w", err)
		}
		logger, logCloser = l, closer
		slog.SetDefault(logger)

		if used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// openStore opens the configured database, or returns nil when none is set.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	if cfg.Database == "" {
		return nil, nil
	}
	return store.Open(ctx, os.ExpandEnv(cfg.Database), logger)
}

// requireStore is openStore for commands that cannot work without it.
func requireStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("no database configured: set database in config.yaml or FOLIO_DATABASE")
	}
	return st, nil
}
