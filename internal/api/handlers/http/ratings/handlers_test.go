package ratings_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"roadwatch/internal/api/handlers/http/ratings"
	mock_ratings "roadwatch/internal/api/handlers/http/ratings/mocks"
	"roadwatch/internal/domain"
	"roadwatch/internal/middleware"
	"roadwatch/pkg/e"
)

// The vote route goes through middleware.Identity the same way the real
// router wires it, so these tests cover the X-User-Id extraction too.
func newRouter(h *ratings.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/alerts/{id}", func(r chi.Router) {
		r.With(middleware.Identity()).Post("/votes", h.RateAlert)
		r.Get("/ratings", h.AlertRatings)
		r.Get("/ratings/average", h.AlertAverageRating)
	})
	r.Get("/ratings", h.AllRatings)
	return r
}

func newHandler(t *testing.T) (*ratings.Handler, *mock_ratings.MockRatingsGateway) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	gw := mock_ratings.NewMockRatingsGateway(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ratings.NewHandler(logger, gw), gw
}

func voteRequest(t *testing.T, alertID int64, userID string, isUpvote bool) *http.Request {
	t.Helper()
	body, _ := json.Marshal(domain.CastVoteRequest{IsUpvote: isUpvote})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/alerts/%d/votes", alertID), bytes.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	return req
}

func TestRateAlert_OK(t *testing.T) {
	t.Parallel()

	h, gw := newHandler(t)
	userID := uuid.New()

	gw.EXPECT().
		RateAlert(gomock.Any(), int64(4), userID, true).
		Return(&domain.RatingAggregate{AlertID: 4, Upvotes: 1, Downvotes: 0}, nil).
		Times(1)

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, voteRequest(t, 4, userID.String(), true))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var agg domain.RatingAggregate
	if err := json.NewDecoder(rec.Body).Decode(&agg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if agg.Upvotes != 1 || agg.Downvotes != 0 {
		t.Fatalf("unexpected aggregate: %+v", agg)
	}
}

func TestRateAlert_MissingIdentity(t *testing.T) {
	t.Parallel()

	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, voteRequest(t, 4, "", true))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without X-User-Id, got %d", rec.Code)
	}
}

func TestRateAlert_MalformedIdentity(t *testing.T) {
	t.Parallel()

	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, voteRequest(t, 4, "not-a-uuid", true))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed X-User-Id, got %d", rec.Code)
	}
}

func TestRateAlert_RepeatVoteConflict(t *testing.T) {
	t.Parallel()

	h, gw := newHandler(t)
	userID := uuid.New()

	gw.EXPECT().
		RateAlert(gomock.Any(), int64(4), userID, false).
		Return(nil, fmt.Errorf("already voted this way: %w", e.ErrConflict)).
		Times(1)

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, voteRequest(t, 4, userID.String(), false))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "already voted this way" {
		t.Fatalf("expected canned conflict body, got %q", body["error"])
	}
}

func TestRateAlert_UnknownAlert(t *testing.T) {
	t.Parallel()

	h, gw := newHandler(t)
	userID := uuid.New()

	gw.EXPECT().
		RateAlert(gomock.Any(), int64(999), userID, true).
		Return(nil, fmt.Errorf("alert 999: %w", e.ErrNotFound)).
		Times(1)

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, voteRequest(t, 999, userID.String(), true))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAlertAverageRating_OK(t *testing.T) {
	t.Parallel()

	h, gw := newHandler(t)
	gw.EXPECT().GetAverageAlertRating(gomock.Any(), int64(8)).Return(0.25, nil).Times(1)

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alerts/8/ratings/average", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]float64
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["average"] != 0.25 {
		t.Fatalf("expected average 0.25, got %v", body["average"])
	}
}

func TestAlertRatings_NotFound(t *testing.T) {
	t.Parallel()

	h, gw := newHandler(t)
	gw.EXPECT().
		GetAlertRatings(gomock.Any(), int64(123)).
		Return(nil, fmt.Errorf("alert 123: %w", e.ErrNotFound)).
		Times(1)

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alerts/123/ratings", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAllRatings_OK(t *testing.T) {
	t.Parallel()

	h, gw := newHandler(t)
	gw.EXPECT().
		GetAllAlertRatings(gomock.Any()).
		Return([]*domain.RatingAggregate{
			{AlertID: 1, Upvotes: 3, Downvotes: 1},
			{AlertID: 2, Upvotes: 0, Downvotes: 2},
		}, nil).
		Times(1)

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ratings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var aggs []*domain.RatingAggregate
	if err := json.NewDecoder(rec.Body).Decode(&aggs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(aggs) != 2 || aggs[0].AlertID != 1 || aggs[1].Downvotes != 2 {
		t.Fatalf("unexpected aggregates: %+v", aggs)
	}
}
