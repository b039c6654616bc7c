package service

import (
	"hawaii-climate/internal/config"
	"hawaii-climate/internal/modules/climate/repository"
	"hawaii-climate/internal/modules/climate/types"
)

// Service answers the climate queries. It holds no state besides the
// read-only repository, so it is safe for concurrent use.
type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

// PrecipitationForRange returns precipitation for every station with a date
// in [window.Start, window.End]. Row order is whatever the store yields.
func (s *Service) PrecipitationForRange(window config.DateRange) ([]types.PrecipitationRecord, error) {
	rows, err := s.repository.Measurements(types.MeasurementFilter{From: window.Start, To: window.End})
	if err != nil {
		return nil, err
	}
	out := make([]types.PrecipitationRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, types.PrecipitationRecord{Date: m.Date, Precipitation: m.Precipitation})
	}
	return out, nil
}

func (s *Service) ListStations() ([]types.StationSummary, error) {
	stations, err := s.repository.AllStations()
	if err != nil {
		return nil, err
	}
	out := make([]types.StationSummary, 0, len(stations))
	for _, st := range stations {
		out = append(out, types.StationSummary{Station: st.ID, Name: st.Name})
	}
	return out, nil
}

// TemperaturesForStation returns the observed temperatures of one station
// inside window. An unknown station yields an empty slice.
func (s *Service) TemperaturesForStation(stationID string, window config.DateRange) ([]types.TemperatureRecord, error) {
	rows, err := s.repository.Measurements(types.MeasurementFilter{
		StationID: stationID,
		From:      window.Start,
		To:        window.End,
	})
	if err != nil {
		return nil, err
	}
	out := make([]types.TemperatureRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, types.TemperatureRecord{Date: m.Date, Temperature: m.Temperature})
	}
	return out, nil
}

// TemperatureStatsFrom aggregates a station's temperatures on or after start.
func (s *Service) TemperatureStatsFrom(stationID string, start string) (types.TemperatureStats, error) {
	return s.temperatureStats(types.MeasurementFilter{StationID: stationID, From: start})
}

// TemperatureStatsRange aggregates a station's temperatures in [start, end].
func (s *Service) TemperatureStatsRange(stationID string, start string, end string) (types.TemperatureStats, error) {
	return s.temperatureStats(types.MeasurementFilter{StationID: stationID, From: start, To: end})
}

func (s *Service) temperatureStats(filter types.MeasurementFilter) (types.TemperatureStats, error) {
	rows, err := s.repository.Measurements(filter)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	temps := make([]float64, 0, len(rows))
	for _, m := range rows {
		temps = append(temps, m.Temperature)
	}
	return Summarize(temps), nil
}
