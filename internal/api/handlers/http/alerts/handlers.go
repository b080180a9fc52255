package alerts

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"roadwatch/internal/domain"
	"roadwatch/internal/rpc"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go

type AlertsGateway interface {
	CreateAlert(ctx context.Context, req domain.CreateAlertRequest) (*domain.Alert, error)
	FindAllAlerts(ctx context.Context) ([]*domain.Alert, error)
	FindOneAlert(ctx context.Context, id int64) (*domain.Alert, error)
	UpdateAlert(ctx context.Context, id int64, req domain.UpdateAlertRequest) (*domain.Alert, error)
	RemoveAlert(ctx context.Context, id int64) (*rpc.RemoveAlertReply, error)
	FindAlertsNearMe(ctx context.Context, req domain.NearbyRequest) ([]*domain.Alert, error)
}

type Handler struct {
	logger  *slog.Logger
	Gateway AlertsGateway
}

func NewHandler(logger *slog.Logger, gateway AlertsGateway) *Handler {
	return &Handler{logger: logger, Gateway: gateway}
}

func (h *Handler) AlertCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	alert, err := h.Gateway.CreateAlert(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if alert == nil {
		// degraded fallback after retry exhaustion
		l.Error("createAlert did not complete, alert store unreachable")
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "alert store unavailable"})
		return
	}

	l.Info("alert created", slog.Int64("id", alert.ID), slog.String("type", string(alert.Type)))
	h.writeJSON(w, http.StatusCreated, alert)
}

func (h *Handler) AlertList(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Gateway.FindAllAlerts(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, alerts)
}

func (h *Handler) AlertGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.alertID(w, r)
	if !ok {
		return
	}

	alert, err := h.Gateway.FindOneAlert(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, alert)
}

func (h *Handler) AlertUpdate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.alertID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	alert, err := h.Gateway.UpdateAlert(r.Context(), id, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if alert == nil {
		l.Error("updateAlert did not complete, alert store unreachable", slog.Int64("id", id))
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "alert store unavailable"})
		return
	}

	h.writeJSON(w, http.StatusOK, alert)
}

func (h *Handler) AlertDelete(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.alertID(w, r)
	if !ok {
		return
	}

	reply, err := h.Gateway.RemoveAlert(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if reply == nil {
		l.Error("removeAlert did not complete, alert store unreachable", slog.Int64("id", id))
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "alert store unavailable"})
		return
	}

	l.Info("alert deleted", slog.Int64("id", id))
	h.writeJSON(w, http.StatusOK, reply)
}

func (h *Handler) AlertsNearby(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	lat, okLat := parseFloat(r.URL.Query().Get("lat"))
	lng, okLng := parseFloat(r.URL.Query().Get("lng"))
	if !okLat || !okLng {
		l.Warn("invalid coordinates", slog.String("query", r.URL.RawQuery))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng query params required"})
		return
	}

	alerts, err := h.Gateway.FindAlertsNearMe(r.Context(), domain.NearbyRequest{Lat: lat, Lng: lng})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, alerts)
}
