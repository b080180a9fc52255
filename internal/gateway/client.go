package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roadwatch/internal/domain"
	"roadwatch/internal/rpc"
	"roadwatch/pkg/e"
	"roadwatch/pkg/validator"

	"github.com/google/uuid"
)

//go:generate mockgen -source=client.go -destination=mocks/mock.go

// Sender is the request side of the RPC transport.
type Sender interface {
	Send(ctx context.Context, pattern rpc.Pattern, payload any) (json.RawMessage, error)
}

// Client translates gateway operations into broker requests. Transport
// failures are retried up to maxAttempts; after exhaustion each operation
// degrades to its documented fallback: list operations return an empty
// slice, the legacy write operations return a nil result the caller must
// treat as "operation did not complete", and read-one/vote operations
// surface the failure. Domain errors from a successful round trip (NotFound,
// Conflict, invalid input) pass through untouched and are never retried.
type Client struct {
	sender      Sender
	logger      *slog.Logger
	maxAttempts int
}

func NewClient(sender Sender, logger *slog.Logger, maxAttempts int) *Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{sender: sender, logger: logger, maxAttempts: maxAttempts}
}

func (c *Client) call(ctx context.Context, pattern rpc.Pattern, payload any, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("gateway.call %s: %v: %w", pattern, ctx.Err(), e.ErrTransport)
		}

		raw, err := c.sender.Send(ctx, pattern, payload)
		if err == nil {
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("gateway.call %s: decode reply: %v: %w", pattern, err, e.ErrTransport)
			}
			return nil
		}
		if !errors.Is(err, e.ErrTransport) {
			return err
		}

		lastErr = err
		c.logger.Warn("rpc attempt failed",
			slog.String("pattern", string(pattern)),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		if attempt < c.maxAttempts {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
	}
	return lastErr
}

func (c *Client) giveUp(pattern rpc.Pattern, err error) {
	c.logger.Error("rpc retries exhausted, applying fallback",
		slog.String("pattern", string(pattern)),
		slog.Int("attempts", c.maxAttempts),
		slog.String("error", err.Error()),
	)
}

// CreateAlert returns (nil, nil) when the store stays unreachable after
// retries; a nil alert means the operation did not complete and must be
// surfaced to the user as an error, never rendered as a created alert.
func (c *Client) CreateAlert(ctx context.Context, req domain.CreateAlertRequest) (*domain.Alert, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("createAlert: %v: %w", err, e.ErrInvalidInput)
	}

	var alert domain.Alert
	if err := c.call(ctx, rpc.PatternCreateAlert, req, &alert); err != nil {
		if errors.Is(err, e.ErrTransport) {
			c.giveUp(rpc.PatternCreateAlert, err)
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (c *Client) FindAllAlerts(ctx context.Context) ([]*domain.Alert, error) {
	var alerts []*domain.Alert
	if err := c.call(ctx, rpc.PatternFindAllAlerts, struct{}{}, &alerts); err != nil {
		if errors.Is(err, e.ErrTransport) {
			c.giveUp(rpc.PatternFindAllAlerts, err)
			return []*domain.Alert{}, nil
		}
		return nil, err
	}
	return alerts, nil
}

// FindOneAlert surfaces transport failure instead of fabricating a nil
// alert: "not reachable" and "not found" are different answers.
func (c *Client) FindOneAlert(ctx context.Context, id int64) (*domain.Alert, error) {
	var alert domain.Alert
	if err := c.call(ctx, rpc.PatternFindOneAlert, rpc.AlertIDPayload{ID: id}, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

func (c *Client) UpdateAlert(ctx context.Context, id int64, req domain.UpdateAlertRequest) (*domain.Alert, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("updateAlert: %v: %w", err, e.ErrInvalidInput)
	}

	var alert domain.Alert
	payload := rpc.UpdateAlertPayload{ID: id, UpdateAlertRequest: req}
	if err := c.call(ctx, rpc.PatternUpdateAlert, payload, &alert); err != nil {
		if errors.Is(err, e.ErrTransport) {
			c.giveUp(rpc.PatternUpdateAlert, err)
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (c *Client) RemoveAlert(ctx context.Context, id int64) (*rpc.RemoveAlertReply, error) {
	var reply rpc.RemoveAlertReply
	if err := c.call(ctx, rpc.PatternRemoveAlert, rpc.AlertIDPayload{ID: id}, &reply); err != nil {
		if errors.Is(err, e.ErrTransport) {
			c.giveUp(rpc.PatternRemoveAlert, err)
			return nil, nil
		}
		return nil, err
	}
	return &reply, nil
}

func (c *Client) FindAlertsNearMe(ctx context.Context, req domain.NearbyRequest) ([]*domain.Alert, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("findAlertsNearMe: %v: %w", err, e.ErrInvalidCoordinates)
	}

	var alerts []*domain.Alert
	if err := c.call(ctx, rpc.PatternFindAlertsNearMe, req, &alerts); err != nil {
		if errors.Is(err, e.ErrTransport) {
			c.giveUp(rpc.PatternFindAlertsNearMe, err)
			return []*domain.Alert{}, nil
		}
		return nil, err
	}
	return alerts, nil
}

// RateAlert surfaces every failure: a silent fallback for "did my vote
// count?" would be misleading.
func (c *Client) RateAlert(ctx context.Context, alertID int64, userID uuid.UUID, isUpvote bool) (*domain.RatingAggregate, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("rateAlert: %w", e.ErrInvalidUserID)
	}

	var agg domain.RatingAggregate
	payload := rpc.RateAlertPayload{AlertID: alertID, UserID: userID, IsUpvote: isUpvote}
	if err := c.call(ctx, rpc.PatternRateAlert, payload, &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (c *Client) GetAlertRatings(ctx context.Context, alertID int64) (*domain.RatingAggregate, error) {
	var agg domain.RatingAggregate
	if err := c.call(ctx, rpc.PatternGetRatings, rpc.AlertIDPayload{ID: alertID}, &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (c *Client) GetAverageAlertRating(ctx context.Context, alertID int64) (float64, error) {
	var reply rpc.AverageRatingReply
	if err := c.call(ctx, rpc.PatternGetAverageRating, rpc.AlertIDPayload{ID: alertID}, &reply); err != nil {
		return 0, err
	}
	return reply.Average, nil
}

func (c *Client) GetAllAlertRatings(ctx context.Context) ([]*domain.RatingAggregate, error) {
	var aggs []*domain.RatingAggregate
	if err := c.call(ctx, rpc.PatternGetAllRatings, struct{}{}, &aggs); err != nil {
		if errors.Is(err, e.ErrTransport) {
			c.giveUp(rpc.PatternGetAllRatings, err)
			return []*domain.RatingAggregate{}, nil
		}
		return nil, err
	}
	return aggs, nil
}
