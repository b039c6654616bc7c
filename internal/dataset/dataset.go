// Package dataset builds the climate SQLite file from the station and
// measurement CSV exports. The server never imports data; this is used by
// climate-tools and by tests.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

var (
	stationColumns     = []string{"station", "name", "latitude", "longitude", "elevation"}
	measurementColumns = []string{"station", "date", "prcp", "tobs"}
)

// LineError reports a problem with one CSV line (1-based, header is line 1).
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidDate   = errors.New("invalid date (expected YYYY-MM-DD)")
	ErrInvalidNumber = errors.New("invalid number")
	ErrEmptyField    = errors.New("empty required field")
)

// ImportStations inserts every row of a station CSV in one transaction and
// returns the number of rows written. Coordinates may be empty.
func ImportStations(ctx context.Context, db *sql.DB, r io.Reader) (int, error) {
	return importCSV(ctx, db, r, stationColumns,
		`INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`,
		func(get func(string) string) ([]any, error) {
			id, err := required(get("station"))
			if err != nil {
				return nil, fmt.Errorf("station: %w", err)
			}
			name, err := required(get("name"))
			if err != nil {
				return nil, fmt.Errorf("name: %w", err)
			}
			args := []any{id, name}
			for _, col := range stationColumns[2:] {
				v, err := optionalFloat(get(col))
				if err != nil {
					return nil, fmt.Errorf("%s: %w", col, err)
				}
				args = append(args, v)
			}
			return args, nil
		})
}

// ImportMeasurements inserts every row of a measurement CSV in one
// transaction. An empty prcp is stored as NULL, not zero.
func ImportMeasurements(ctx context.Context, db *sql.DB, r io.Reader) (int, error) {
	return importCSV(ctx, db, r, measurementColumns,
		`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`,
		func(get func(string) string) ([]any, error) {
			station, err := required(get("station"))
			if err != nil {
				return nil, fmt.Errorf("station: %w", err)
			}
			date, err := parseDate(get("date"))
			if err != nil {
				return nil, fmt.Errorf("date: %w", err)
			}
			prcp, err := optionalFloat(get("prcp"))
			if err != nil {
				return nil, fmt.Errorf("prcp: %w", err)
			}
			tobsStr, err := required(get("tobs"))
			if err != nil {
				return nil, fmt.Errorf("tobs: %w", err)
			}
			tobs, err := strconv.ParseFloat(tobsStr, 64)
			if err != nil {
				return nil, fmt.Errorf("tobs: %w: %q", ErrInvalidNumber, tobsStr)
			}
			return []any{station, date, prcp, tobs}, nil
		})
}

// Finalize folds the write-ahead log into the main file and switches it to
// rollback-journal mode so the file can be opened immutable and read-only.
func Finalize(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	var mode string
	if err := db.QueryRowContext(ctx, `PRAGMA journal_mode=DELETE`).Scan(&mode); err != nil {
		return fmt.Errorf("journal mode: %w", err)
	}
	if !strings.EqualFold(mode, "delete") && !strings.EqualFold(mode, "memory") {
		return fmt.Errorf("journal mode is %q after finalize", mode)
	}
	return nil
}

type rowMapper func(get func(column string) string) ([]any, error)

func importCSV(ctx context.Context, db *sql.DB, r io.Reader, columns []string, insertSQL string, mapRow rowMapper) (n int, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, &LineError{Line: 1, Err: errors.New("missing header")}
		}
		return 0, &LineError{Line: 1, Err: err}
	}
	index, err := columnIndex(header, columns)
	if err != nil {
		return 0, &LineError{Line: 1, Err: err}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("import rollback", "error", rbErr)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			slog.Error("close import statement", "error", closeErr)
		}
	}()

	start := time.Now()
	for {
		record, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				line = parseErr.StartLine
			}
			return 0, &LineError{Line: line, Err: readErr}
		}
		line, _ := cr.FieldPos(0)
		get := func(column string) string {
			return strings.TrimSpace(record[index[column]])
		}
		args, mapErr := mapRow(get)
		if mapErr != nil {
			return 0, &LineError{Line: line, Err: mapErr}
		}
		if _, execErr := stmt.ExecContext(ctx, args...); execErr != nil {
			return 0, &LineError{Line: line, Err: execErr}
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	slog.Debug("csv imported", "rows", n, "duration_ms", time.Since(start).Milliseconds())
	return n, nil
}

func columnIndex(header []string, columns []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	out := make(map[string]int, len(columns))
	for _, c := range columns {
		i, ok := index[c]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
		out[c] = i
	}
	return out, nil
}

func required(s string) (string, error) {
	if s == "" {
		return "", ErrEmptyField
	}
	return s, nil
}

func optionalFloat(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return v, nil
}

func parseDate(s string) (string, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(time.DateOnly), nil
}
