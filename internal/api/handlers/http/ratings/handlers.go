package ratings

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"roadwatch/internal/domain"
	"roadwatch/internal/middleware"

	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go

type RatingsGateway interface {
	RateAlert(ctx context.Context, alertID int64, userID uuid.UUID, isUpvote bool) (*domain.RatingAggregate, error)
	GetAlertRatings(ctx context.Context, alertID int64) (*domain.RatingAggregate, error)
	GetAverageAlertRating(ctx context.Context, alertID int64) (float64, error)
	GetAllAlertRatings(ctx context.Context) ([]*domain.RatingAggregate, error)
}

type Handler struct {
	logger  *slog.Logger
	Gateway RatingsGateway
}

func NewHandler(logger *slog.Logger, gateway RatingsGateway) *Handler {
	return &Handler{logger: logger, Gateway: gateway}
}

func (h *Handler) RateAlert(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.alertID(w, r)
	if !ok {
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		l.Warn("vote without identity", slog.Int64("alert_id", id))
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "caller identity required"})
		return
	}

	var req domain.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	agg, err := h.Gateway.RateAlert(r.Context(), id, userID, req.IsUpvote)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("vote accepted",
		slog.Int64("alert_id", id),
		slog.String("user_id", userID.String()),
		slog.Bool("is_upvote", req.IsUpvote),
	)
	h.writeJSON(w, http.StatusOK, agg)
}

func (h *Handler) AlertRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.alertID(w, r)
	if !ok {
		return
	}

	agg, err := h.Gateway.GetAlertRatings(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, agg)
}

func (h *Handler) AlertAverageRating(w http.ResponseWriter, r *http.Request) {
	id, ok := h.alertID(w, r)
	if !ok {
		return
	}

	avg, err := h.Gateway.GetAverageAlertRating(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"average": avg})
}

func (h *Handler) AllRatings(w http.ResponseWriter, r *http.Request) {
	aggs, err := h.Gateway.GetAllAlertRatings(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, aggs)
}
