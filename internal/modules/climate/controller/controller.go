package controller

import (
	"net/http"

	"hawaii-climate/internal/config"
	"hawaii-climate/internal/modules/climate/types"
)

// QueryService is the query surface the handlers delegate to.
type QueryService interface {
	PrecipitationForRange(window config.DateRange) ([]types.PrecipitationRecord, error)
	ListStations() ([]types.StationSummary, error)
	TemperaturesForStation(stationID string, window config.DateRange) ([]types.TemperatureRecord, error)
	TemperatureStatsFrom(stationID string, start string) (types.TemperatureStats, error)
	TemperatureStatsRange(stationID string, start string, end string) (types.TemperatureStats, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	service        QueryService
	defaultStation string
	recentWindow   config.DateRange
}

func NewClimateController(service QueryService, cfg config.Config) ClimateController {
	return &climateControllerImpl{
		service:        service,
		defaultStation: cfg.DefaultStation,
		recentWindow:   cfg.RecentWindow,
	}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/{start}", c.handleStatsFrom)
	mux.HandleFunc("GET /api/v1.0/{start}/{end}", c.handleStatsRange)
	mux.HandleFunc("GET /api/v1.0/{station}/tobs", c.handleStationTobs)
}
