package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"roadwatch/pkg/e"

	"github.com/google/uuid"
)

// Request is the broker envelope for one RPC call. ID doubles as the
// correlation key the reply is published under.
type Request struct {
	ID      uuid.UUID       `json:"id"`
	Pattern Pattern         `json:"pattern"`
	Payload json.RawMessage `json:"payload"`
}

type Reply struct {
	ID      uuid.UUID       `json:"id"`
	OK      bool            `json:"ok"`
	Error   *WireError      `json:"error,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WireError carries a domain error across the broker so the gateway can tell
// a failed round trip (retryable) from a successful round trip that returned
// NotFound or Conflict (never retried, never masked).
type WireError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

type ErrorKind string

const (
	KindNotFound ErrorKind = "not_found"
	KindConflict ErrorKind = "conflict"
	KindInvalid  ErrorKind = "invalid"
	KindInternal ErrorKind = "internal"
)

func NewRequest(pattern Pattern, payload any) (*Request, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("rpc.NewRequest: %w", err)
	}
	return &Request{ID: uuid.New(), Pattern: pattern, Payload: raw}, nil
}

func OKReply(id uuid.UUID, payload any) Reply {
	raw, err := json.Marshal(payload)
	if err != nil {
		return ErrReply(id, fmt.Errorf("marshal reply: %w", e.ErrInternal))
	}
	return Reply{ID: id, OK: true, Payload: raw}
}

func ErrReply(id uuid.UUID, err error) Reply {
	return Reply{ID: id, OK: false, Error: &WireError{Kind: KindOf(err), Message: err.Error()}}
}

func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return KindNotFound
	case errors.Is(err, e.ErrConflict):
		return KindConflict
	case errors.Is(err, e.ErrInvalidInput), errors.Is(err, e.ErrInvalidCoordinates):
		return KindInvalid
	default:
		return KindInternal
	}
}

// Err maps a wire error back onto the sentinel taxonomy. Internal remote
// failures come back as transport failures so the gateway's retry policy
// applies to them.
func (w *WireError) Err() error {
	switch w.Kind {
	case KindNotFound:
		return fmt.Errorf("%s: %w", w.Message, e.ErrNotFound)
	case KindConflict:
		return fmt.Errorf("%s: %w", w.Message, e.ErrConflict)
	case KindInvalid:
		return fmt.Errorf("%s: %w", w.Message, e.ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", w.Message, e.ErrTransport)
	}
}
