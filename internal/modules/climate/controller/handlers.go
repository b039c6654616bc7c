package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"hawaii-climate/internal/modules/climate/views"
	"hawaii-climate/internal/utils"
)

// Driver errors are logged, never sent to clients.
const queryFailed = "query failed"

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, &views.IndexData{
		Title:     "Hawaii climate API",
		Endpoints: endpointListing(c.defaultStation),
	}); err != nil {
		slog.Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("index: write response failed", "error", err)
	}
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	records, err := c.service.PrecipitationForRange(c.recentWindow)
	if err != nil {
		slog.Error("precipitation query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, queryFailed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.ListStations()
	if err != nil {
		slog.Error("stations query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, queryFailed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	c.writeStationTemperatures(w, c.defaultStation)
}

func (c *climateControllerImpl) handleStationTobs(w http.ResponseWriter, r *http.Request) {
	c.writeStationTemperatures(w, r.PathValue("station"))
}

func (c *climateControllerImpl) writeStationTemperatures(w http.ResponseWriter, station string) {
	records, err := c.service.TemperaturesForStation(station, c.recentWindow)
	if err != nil {
		slog.Error("temperature query failed", "station", station, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, queryFailed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

func (c *climateControllerImpl) handleStatsFrom(w http.ResponseWriter, r *http.Request) {
	start, err := parseDate("start", r.PathValue("start"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := c.service.TemperatureStatsFrom(c.defaultStation, start)
	if err != nil {
		slog.Error("temperature stats query failed", "station", c.defaultStation, "start", start, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, queryFailed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (c *climateControllerImpl) handleStatsRange(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r.PathValue("start"), r.PathValue("end"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := c.service.TemperatureStatsRange(c.defaultStation, start, end)
	if err != nil {
		slog.Error("temperature stats query failed", "station", c.defaultStation, "start", start, "end", end, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, queryFailed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}
