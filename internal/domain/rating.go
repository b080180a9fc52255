package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one user's current opinion on one alert. At most one row exists
// per (AlertID, UserID): a repeated vote in the same direction is rejected,
// a vote in the opposite direction replaces the row in place.
type Vote struct {
	AlertID   int64     `json:"alert_id"`
	UserID    uuid.UUID `json:"user_id"`
	IsUpvote  bool      `json:"is_upvote"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingAggregate holds the derived up/down counters for one alert. It is a
// read model over the vote ledger, never the source of truth.
type RatingAggregate struct {
	AlertID   int64 `json:"alert_id"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

type CastVoteRequest struct {
	IsUpvote bool `json:"is_upvote"`
}
