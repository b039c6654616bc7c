package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"hawaii-climate/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

// ErrDatasetMissing is returned by Open when the dataset file does not exist.
var ErrDatasetMissing = errors.New("dataset file not found")

// Open opens the dataset read-only. The file must already exist; nothing is
// created. At debug level every statement is logged through the SQL logging
// connector.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn, err := buildReadOnlyDSN(cfg)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.LogLevel <= slog.LevelDebug {
		db = sql.OpenDB(NewLoggingConnector(dsn, slog.Default()))
	} else {
		db, err = sql.Open(driverName, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

// OpenWritable opens (creating if needed) a dataset file for the offline
// import tooling. The server never uses it.
func OpenWritable(path string) (*sql.DB, error) {
	dsn, err := buildWritableDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// A single writer avoids "database is locked" during bulk import.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func buildReadOnlyDSN(cfg config.Config) (string, error) {
	if cfg.DSN != "" {
		// The override may not be a file URI, so mode=ro cannot be relied on.
		// query_only is enforced by the driver on every connection.
		if strings.Contains(cfg.DSN, "_query_only=") {
			return cfg.DSN, nil
		}
		return withParams(cfg.DSN, "_query_only=1"), nil
	}

	path := cfg.DatasetPath
	if strings.HasPrefix(path, "file:") {
		return withParams(path, "mode=ro", "immutable=1"), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrDatasetMissing, path)
		}
		return "", fmt.Errorf("stat dataset %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("dataset %s is a directory", path)
	}

	return withParams("file:"+path, "mode=ro", "immutable=1"), nil
}

func buildWritableDSN(path string) (string, error) {
	if !strings.HasPrefix(path, "file:") {
		dir := filepath.Dir(path)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		path = "file:" + path
	}
	return withParams(path, "_foreign_keys=on", "_busy_timeout=5000", "_journal_mode=WAL"), nil
}

// withParams appends query parameters to a DSN, respecting an existing query string.
func withParams(uri string, params ...string) string {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	return uri + sep + strings.Join(params, "&")
}
