package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"roadwatch/internal/api/handlers/http/alerts"
	"roadwatch/internal/api/handlers/http/ratings"
	"roadwatch/internal/api/handlers/http/system"
	"roadwatch/internal/config"
	"roadwatch/internal/gateway"
	"roadwatch/internal/middleware"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, client *gateway.Client) *Server {
	alertsHandler := alerts.NewHandler(logger, client)
	ratingsHandler := ratings.NewHandler(logger, client)
	systemHandler := system.NewHandler(logger)

	r := InitRouter(cfg, alertsHandler, ratingsHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(cfg *config.Config, alertsHandler *alerts.Handler, ratingsHandler *ratings.Handler, systemHandler *system.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/alerts", func(ar chi.Router) {
			ar.Use(middleware.Limit(10, 20, 5*time.Minute, logger))

			ar.Get("/", alertsHandler.AlertList)
			ar.Get("/nearby", alertsHandler.AlertsNearby)
			ar.Get("/{id}", alertsHandler.AlertGet)
			ar.Get("/{id}/ratings", ratingsHandler.AlertRatings)
			ar.Get("/{id}/ratings/average", ratingsHandler.AlertAverageRating)

			// writes require the upstream claims check and a caller identity
			ar.Group(func(wr chi.Router) {
				wr.Use(middleware.APIKey(cfg.APIKey))
				wr.Use(middleware.Identity())

				wr.Post("/", alertsHandler.AlertCreate)
				wr.Patch("/{id}", alertsHandler.AlertUpdate)
				wr.Delete("/{id}", alertsHandler.AlertDelete)
				wr.Post("/{id}/votes", ratingsHandler.RateAlert)
			})
		})

		api.Get("/ratings", ratingsHandler.AllRatings)
		api.Get("/health", systemHandler.SystemHealth)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
