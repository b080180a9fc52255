package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roadwatch/internal/rpc"
	"roadwatch/pkg/e"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RPCQueue is a request/reply channel over redis lists. Requests are pushed
// onto a shared request list; each reply goes to a list keyed by the request's
// correlation id. Consumers move requests into a processing list (BLMove) and
// remove them only after replying, so a crashed consumer leaves the request
// recoverable: delivery is at-least-once and handlers must tolerate
// duplicates.
type RPCQueue struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

func NewRPCQueue(client *redis.Client, key string, timeout time.Duration) *RPCQueue {
	return &RPCQueue{client: client, key: key, timeout: timeout}
}

func (q *RPCQueue) processingKey() string {
	return q.key + ":processing"
}

func (q *RPCQueue) replyKey(id uuid.UUID) string {
	return q.key + ":reply:" + id.String()
}

// Send publishes one request and blocks for its reply. A broker error or a
// reply timeout surfaces as e.ErrTransport; a wire error from the remote
// handler is mapped back to the matching sentinel error.
func (q *RPCQueue) Send(ctx context.Context, pattern rpc.Pattern, payload any) (json.RawMessage, error) {
	const op = "redis.RPCQueue.Send"

	req, err := rpc.NewRequest(pattern, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	if err := q.client.LPush(ctx, q.key, body).Err(); err != nil {
		return nil, fmt.Errorf("%s: push: %v: %w", op, err, e.ErrTransport)
	}

	res, err := q.client.BRPop(ctx, q.timeout, q.replyKey(req.ID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: reply timeout after %s: %w", op, q.timeout, e.ErrTransport)
		}
		return nil, fmt.Errorf("%s: pop: %v: %w", op, err, e.ErrTransport)
	}
	if len(res) < 2 {
		return nil, fmt.Errorf("%s: malformed BRPop result: %w", op, e.ErrTransport)
	}

	var reply rpc.Reply
	if err := json.Unmarshal([]byte(res[1]), &reply); err != nil {
		return nil, fmt.Errorf("%s: decode reply: %v: %w", op, err, e.ErrTransport)
	}
	if !reply.OK {
		if reply.Error == nil {
			return nil, fmt.Errorf("%s: remote failure without error: %w", op, e.ErrTransport)
		}
		return nil, reply.Error.Err()
	}
	return reply.Payload, nil
}

// Next blocks for the next request, moving it into the processing list. The
// returned raw body must be passed back to Ack once the reply is published.
// Returns e.ErrQueueEmpty when the wait times out with nothing queued.
func (q *RPCQueue) Next(ctx context.Context, wait time.Duration) (*rpc.Request, string, error) {
	const op = "redis.RPCQueue.Next"

	raw, err := q.client.BLMove(ctx, q.key, q.processingKey(), "RIGHT", "LEFT", wait).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", e.ErrQueueEmpty
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	var req rpc.Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, raw, fmt.Errorf("%s: decode request: %w", op, err)
	}
	return &req, raw, nil
}

// Reply publishes the reply under the request's correlation id. The reply
// list expires shortly after the client's wait window so abandoned replies
// don't accumulate.
func (q *RPCQueue) Reply(ctx context.Context, reply rpc.Reply) error {
	const op = "redis.RPCQueue.Reply"

	body, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	key := q.replyKey(reply.ID)
	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, key, body)
	pipe.Expire(ctx, key, q.timeout*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (q *RPCQueue) Ack(ctx context.Context, raw string) error {
	const op = "redis.RPCQueue.Ack"

	if err := q.client.LRem(ctx, q.processingKey(), 1, raw).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
