package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GregMSThompson/household-finance/internal/config"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

var (
	cfgFile   string
	household string
	v         = viper.New()
	cfg       *config.Config
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "household",
		Short: "Household finance from the command line",
		Long: `household keeps a family's transactions, members and budgets in a local
SQLite database and reports how each period compares with the one before.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.household.yaml)")
	root.PersistentFlags().StringVar(&household, "household", "local", "household id the records belong to")
	root.PersistentFlags().String("db", "", "SQLite database path")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("SQLITEPATH", root.PersistentFlags().Lookup("db"))
	_ = v.BindPFlag("LOGLEVEL", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(migrateCmd())
	root.AddCommand(memberCmd())
	root.AddCommand(txCmd())
	root.AddCommand(budgetCmd())
	root.AddCommand(reportCmd())
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		v.SetConfigFile(filepath.Join(home, ".household.yaml"))
	}

	v.SetEnvPrefix("HOUSEHOLD")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded
	log := logger.New(cfg.LogLevel, logger.NewConsoleHandler)
	slog.SetDefault(log)
	cmd.SetContext(logger.ToContext(cmd.Context(), log.With("household", household)))
	return nil
}
