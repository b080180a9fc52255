package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"roadwatch/internal/domain"
	"roadwatch/internal/rpc"
	"roadwatch/internal/service"
	"roadwatch/pkg/e"
)

//go:generate mockgen -source=dispatcher.go -destination=mocks/mock.go

// Queue is the consumer side of the RPC transport.
type Queue interface {
	Next(ctx context.Context, wait time.Duration) (*rpc.Request, string, error)
	Reply(ctx context.Context, reply rpc.Reply) error
	Ack(ctx context.Context, raw string) error
}

// Dispatcher drains the request queue and routes each request to the alert
// or rating service by its pattern. Requests may be delivered more than
// once; every handler re-reads current state before mutating, so a duplicate
// delivery cannot corrupt the ledger.
type Dispatcher struct {
	queue   Queue
	svc     *service.Service
	logger  *slog.Logger
	workers int
	wait    time.Duration
}

func NewDispatcher(queue Queue, svc *service.Service, logger *slog.Logger, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		queue:   queue,
		svc:     svc,
		logger:  logger,
		workers: workers,
		wait:    5 * time.Second,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("dispatcher started", slog.Int("workers", d.workers))

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.worker(ctx)
		}()
	}
	wg.Wait()

	d.logger.Info("dispatcher stopped")
}

func (d *Dispatcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req, raw, err := d.queue.Next(ctx, d.wait)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if raw != "" {
				// undecodable request: drop it, nobody can be replied to
				d.logger.Error("dropping malformed request", slog.Any("error", err))
				if err := d.queue.Ack(ctx, raw); err != nil {
					d.logger.Error("ack failed", slog.Any("error", err))
				}
				continue
			}
			d.logger.Error("queue next failed", slog.Any("error", err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		reply := d.handle(ctx, req)
		if err := d.queue.Reply(ctx, reply); err != nil {
			d.logger.Error("reply failed", slog.String("pattern", string(req.Pattern)), slog.Any("error", err))
		}
		if err := d.queue.Ack(ctx, raw); err != nil {
			d.logger.Error("ack failed", slog.String("pattern", string(req.Pattern)), slog.Any("error", err))
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, req *rpc.Request) rpc.Reply {
	start := time.Now()
	reply := d.dispatch(ctx, req)

	l := d.logger.With(
		slog.String("pattern", string(req.Pattern)),
		slog.String("request_id", req.ID.String()),
		slog.Duration("latency", time.Since(start)),
	)
	if reply.OK {
		l.Debug("rpc handled")
	} else {
		l.Warn("rpc failed", slog.String("kind", string(reply.Error.Kind)), slog.String("error", reply.Error.Message))
	}
	return reply
}

func (d *Dispatcher) dispatch(ctx context.Context, req *rpc.Request) rpc.Reply {
	switch req.Pattern {
	case rpc.PatternCreateAlert:
		var p domain.CreateAlertRequest
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return rpc.ErrReply(req.ID, badPayload(req.Pattern, err))
		}
		alert, err := d.svc.AlertService.Create(ctx, p)
		if err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, alert)

	case rpc.PatternFindAllAlerts:
		alerts, err := d.svc.AlertService.List(ctx)
		if err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, alerts)

	case rpc.PatternFindOneAlert:
		var p rpc.AlertIDPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return rpc.ErrReply(req.ID, badPayload(req.Pattern, err))
		}
		alert, err := d.svc.AlertService.Get(ctx, p.ID)
		if err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, alert)

	case rpc.PatternUpdateAlert:
		var p rpc.UpdateAlertPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return rpc.ErrReply(req.ID, badPayload(req.Pattern, err))
		}
		alert, err := d.svc.AlertService.Update(ctx, p.ID, p.UpdateAlertRequest)
		if err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, alert)

	case rpc.PatternRemoveAlert:
		var p rpc.AlertIDPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return rpc.ErrReply(req.ID, badPayload(req.Pattern, err))
		}
		if err := d.svc.AlertService.Delete(ctx, p.ID); err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, rpc.RemoveAlertReply{ID: p.ID, Deleted: true})

	case rpc.PatternFindAlertsNearMe:
		var p domain.NearbyRequest
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return rpc.ErrReply(req.ID, badPayload(req.Pattern, err))
		}
		alerts, err := d.svc.AlertService.FindNearby(ctx, p.Lat, p.Lng)
		if err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, alerts)

	case rpc.PatternRateAlert:
		var p rpc.RateAlertPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return rpc.ErrReply(req.ID, badPayload(req.Pattern, err))
		}
		agg, err := d.svc.RatingService.CastVote(ctx, p.AlertID, p.UserID, p.IsUpvote)
		if err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, agg)

	case rpc.PatternGetRatings:
		var p rpc.AlertIDPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return rpc.ErrReply(req.ID, badPayload(req.Pattern, err))
		}
		agg, err := d.svc.RatingService.GetRatings(ctx, p.ID)
		if err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, agg)

	case rpc.PatternGetAverageRating:
		var p rpc.AlertIDPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return rpc.ErrReply(req.ID, badPayload(req.Pattern, err))
		}
		avg, err := d.svc.RatingService.GetAverageRating(ctx, p.ID)
		if err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, rpc.AverageRatingReply{Average: avg})

	case rpc.PatternGetAllRatings:
		aggs, err := d.svc.RatingService.GetAllRatings(ctx)
		if err != nil {
			return rpc.ErrReply(req.ID, err)
		}
		return rpc.OKReply(req.ID, aggs)

	default:
		return rpc.ErrReply(req.ID, fmt.Errorf("unknown pattern %q: %w", req.Pattern, e.ErrInvalidInput))
	}
}

func badPayload(p rpc.Pattern, err error) error {
	return fmt.Errorf("decode %s payload: %v: %w", p, err, e.ErrInvalidInput)
}
