package postgres

import (
	"context"

	"roadwatch/internal/domain"

	"github.com/google/uuid"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) error
	List(ctx context.Context) ([]*domain.Alert, error)
	Get(ctx context.Context, id int64) (*domain.Alert, error)
	Update(ctx context.Context, alert *domain.Alert) error
	Delete(ctx context.Context, id int64) error // cascades votes and ratings
	FindNearby(ctx context.Context, lat, lng float64) ([]*domain.Alert, error)
}

type RatingRepository interface {
	Cast(ctx context.Context, alertID int64, userID uuid.UUID, isUpvote bool) (*domain.RatingAggregate, error)
	Ratings(ctx context.Context, alertID int64) (*domain.RatingAggregate, error)
	AverageRating(ctx context.Context, alertID int64) (float64, error)
	AllRatings(ctx context.Context) ([]*domain.RatingAggregate, error)
}

func (p *Postgres) Alerts() AlertRepository   { return p.Alert }
func (p *Postgres) Ratings() RatingRepository { return p.Rating }
