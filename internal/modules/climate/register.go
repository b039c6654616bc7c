package climate

import (
	"database/sql"
	"log/slog"
	"net/http"

	"hawaii-climate/internal/config"
	"hawaii-climate/internal/modules/climate/controller"
	"hawaii-climate/internal/modules/climate/repository"
	"hawaii-climate/internal/modules/climate/service"
)

// RegisterFeature checks that db holds the climate dataset and mounts the
// query routes on mux. A dataset without the expected tables is an error.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, cfg config.Config) error {
	climateRepository := repository.NewRepository(db)
	stations, measurements, err := climateRepository.Verify()
	if err != nil {
		return err
	}
	slog.Info("dataset loaded", "stations", stations, "measurements", measurements)

	climateService := service.NewService(climateRepository)
	climateController := controller.NewClimateController(climateService, cfg)
	climateController.RegisterRoutes(mux)
	return nil
}
