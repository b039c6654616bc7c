package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"hawaii-climate/internal/config"
	db "hawaii-climate/internal/db"
	httpapi "hawaii-climate/internal/httpapi"
	climate "hawaii-climate/internal/modules/climate"
	climateviews "hawaii-climate/internal/modules/climate/views"
)

// NewHandler wires every route against an open dataset.
func NewHandler(cfg config.Config, dbConn *sql.DB) (http.Handler, error) {
	if err := climateviews.LoadTemplates(); err != nil {
		return nil, err
	}
	mux := httpapi.NewMux(dbConn)
	if err := climate.RegisterFeature(mux, dbConn, cfg); err != nil {
		return nil, err
	}
	return mux, nil
}

// Run opens the dataset and serves HTTP until ctx is cancelled. Any dataset
// problem is returned before the listener is opened.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"datasetPath", cfg.DatasetPath,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"defaultStation", cfg.DefaultStation,
		"recentWindow", cfg.RecentWindow.Start+".."+cfg.RecentWindow.End,
	)

	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	handler, err := NewHandler(cfg, dbConn)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return err
	}
	return serve(ctx, httpapi.NewServer(cfg, handler), ln)
}

func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
