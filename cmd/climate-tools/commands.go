package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"hawaii-climate/internal/dataset"
	"hawaii-climate/internal/db"
	"hawaii-climate/internal/migrate"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the dataset file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := datasetPath(cmd)
			if err != nil {
				return err
			}
			return withWritable(path, func(conn *sql.DB) error {
				n, err := migrate.Run(cmd.Context(), conn)
				if err != nil {
					return err
				}
				if err := dataset.Finalize(cmd.Context(), conn); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied\n", n)
				return err
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	var stationsPath, measurementsPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load station and measurement CSV exports into the dataset file",
		Long: "Creates the schema if needed, then inserts every row of the given CSV files.\n" +
			"Each file is loaded in a single transaction; a bad row aborts that file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stationsPath == "" && measurementsPath == "" {
				return errors.New("nothing to import: pass --stations and/or --measurements")
			}
			path, err := datasetPath(cmd)
			if err != nil {
				return err
			}
			return withWritable(path, func(conn *sql.DB) error {
				ctx := cmd.Context()
				if _, err := migrate.Run(ctx, conn); err != nil {
					return err
				}
				if stationsPath != "" {
					n, err := importFile(ctx, conn, stationsPath, dataset.ImportStations)
					if err != nil {
						return err
					}
					slog.Info("stations imported", "file", stationsPath, "rows", n)
				}
				if measurementsPath != "" {
					n, err := importFile(ctx, conn, measurementsPath, dataset.ImportMeasurements)
					if err != nil {
						return err
					}
					slog.Info("measurements imported", "file", measurementsPath, "rows", n)
				}
				return dataset.Finalize(ctx, conn)
			})
		},
	}

	cmd.Flags().StringVar(&stationsPath, "stations", "", "station CSV (station,name,latitude,longitude,elevation)")
	cmd.Flags().StringVar(&measurementsPath, "measurements", "", "measurement CSV (station,date,prcp,tobs)")
	return cmd
}

type importFunc func(ctx context.Context, db *sql.DB, r io.Reader) (int, error)

func importFile(ctx context.Context, conn *sql.DB, path string, fn importFunc) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("close csv", "file", path, "err", closeErr)
		}
	}()

	n, err := fn(ctx, conn, f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func withWritable(path string, fn func(conn *sql.DB) error) error {
	conn, err := db.OpenWritable(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()
	return fn(conn)
}
