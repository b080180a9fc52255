package rpc

import (
	"roadwatch/internal/domain"

	"github.com/google/uuid"
)

// Typed payloads and replies for the pattern catalog. Patterns whose payload
// is a full request DTO reuse the domain types directly.

type AlertIDPayload struct {
	ID int64 `json:"id"`
}

type UpdateAlertPayload struct {
	ID int64 `json:"id"`
	domain.UpdateAlertRequest
}

type RateAlertPayload struct {
	AlertID  int64     `json:"alertId"`
	UserID   uuid.UUID `json:"userId"`
	IsUpvote bool      `json:"isUpvote"`
}

type RemoveAlertReply struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

type AverageRatingReply struct {
	Average float64 `json:"average"`
}
