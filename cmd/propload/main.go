// Command propload loads the property spreadsheet into the home database.
//
// It takes no arguments; everything is configured through the environment
// (optionally from a .env file). The process exits 0 only when every stage
// completed.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/PropLoad/internal/config"
	"github.com/JonMunkholm/PropLoad/internal/core"
	_ "github.com/JonMunkholm/PropLoad/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/PropLoad/internal/logging"
	"github.com/JonMunkholm/PropLoad/internal/pipeline"
	"github.com/JonMunkholm/PropLoad/internal/source"
	"github.com/JonMunkholm/PropLoad/internal/store"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		msg := core.MapError(err)
		slog.Error("run failed", "code", msg.Code, "error", err, "action", msg.Action)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "propload",
		Short: "Load the property spreadsheet into the home database",
		Long: `propload recreates the properties, hoa_details, rehab_estimates and
valuations tables, loads them from the first readable source file and
prints a verification summary.

Configuration is read from the environment and an optional .env file.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd)
		},
	}
}

func run(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	closer, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	ctx, runID := logging.WithRunID(ctx)
	slog.Info("configuration loaded", "run_id", runID, "config", cfg.String())

	st, err := store.Open(ctx, cfg.Database, cfg.Pipeline.BatchSize)
	if err != nil {
		return err
	}
	defer st.Close()

	slog.Debug("tables registered", "count", core.TableCount(), "order", core.Keys())

	p := pipeline.New(st, source.NewLoader(cfg.Source), cfg.Pipeline, cmd.OutOrStdout())
	_, err = p.Run(ctx)
	return err
}
