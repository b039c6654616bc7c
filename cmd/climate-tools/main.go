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
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hawaii-climate/internal/config"
	"hawaii-climate/internal/logging"
)

const appName = "climate-tools"

var version = "dev"

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stderr, cfg, version, appName))
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "err", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          appName,
		Short:        "Build the climate dataset file served by climate-api",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("dataset", cfg.DatasetPath, "path of the SQLite dataset file (DATASET_PATH)")

	rootCmd.AddCommand(newMigrateCmd(), newImportCmd())
	return rootCmd
}

func datasetPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("dataset")
	if err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("dataset path is empty")
	}
	return filepath.Clean(path), nil
}
