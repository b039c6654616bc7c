package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"hawaii-climate/internal/modules/climate/types"
)

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-measurements.sql
var getMeasurementsSQL string

//go:embed sql/check-schema.sql
var checkSchemaSQL string

// ClimateRepository is the read-only dataset store.
type ClimateRepository interface {
	// Verify confirms the station and measurement tables carry every column
	// the queries read and returns their row counts.
	Verify() (stations int, measurements int, err error)
	AllStations() ([]types.Station, error)
	Measurements(filter types.MeasurementFilter) ([]types.Measurement, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Verify() (int, int, error) {
	var stations, measurements int
	if err := r.db.QueryRow(checkSchemaSQL).Scan(&stations, &measurements); err != nil {
		return 0, 0, fmt.Errorf("dataset schema: %w", err)
	}
	return stations, measurements, nil
}

func (r *repositoryImpl) AllStations() ([]types.Station, error) {
	rows, err := r.db.Query(getStationsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()
	out := []types.Station{}
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) Measurements(filter types.MeasurementFilter) ([]types.Measurement, error) {
	rows, err := r.db.Query(getMeasurementsSQL, filter.StationID, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close measurement rows", "error", err)
		}
	}()
	return scanMeasurements(rows)
}

func scanMeasurements(rows *sql.Rows) ([]types.Measurement, error) {
	out := []types.Measurement{}
	for rows.Next() {
		var (
			m    types.Measurement
			prcp sql.NullFloat64
		)
		if err := rows.Scan(&m.StationID, &m.Date, &prcp, &m.Temperature); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		if prcp.Valid {
			v := prcp.Float64
			m.Precipitation = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
