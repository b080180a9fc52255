package service

import (
	"context"

	"roadwatch/internal/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

type AlertService interface {
	Create(ctx context.Context, req domain.CreateAlertRequest) (*domain.Alert, error)
	List(ctx context.Context) ([]*domain.Alert, error)
	Get(ctx context.Context, id int64) (*domain.Alert, error)
	Update(ctx context.Context, id int64, req domain.UpdateAlertRequest) (*domain.Alert, error)
	Delete(ctx context.Context, id int64) error
	FindNearby(ctx context.Context, lat, lng float64) ([]*domain.Alert, error)
}

type RatingService interface {
	CastVote(ctx context.Context, alertID int64, userID uuid.UUID, isUpvote bool) (*domain.RatingAggregate, error)
	GetRatings(ctx context.Context, alertID int64) (*domain.RatingAggregate, error)
	GetAverageRating(ctx context.Context, alertID int64) (float64, error)
	GetAllRatings(ctx context.Context) ([]*domain.RatingAggregate, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) error
	List(ctx context.Context) ([]*domain.Alert, error)
	Get(ctx context.Context, id int64) (*domain.Alert, error)
	Update(ctx context.Context, alert *domain.Alert) error
	Delete(ctx context.Context, id int64) error
	FindNearby(ctx context.Context, lat, lng float64) ([]*domain.Alert, error)
}

type RatingRepository interface {
	Cast(ctx context.Context, alertID int64, userID uuid.UUID, isUpvote bool) (*domain.RatingAggregate, error)
	Ratings(ctx context.Context, alertID int64) (*domain.RatingAggregate, error)
	AverageRating(ctx context.Context, alertID int64) (float64, error)
	AllRatings(ctx context.Context) ([]*domain.RatingAggregate, error)
}

type Service struct {
	AlertService  AlertService
	RatingService RatingService
}

func NewService(alertService AlertService, ratingService RatingService) *Service {
	return &Service{
		AlertService:  alertService,
		RatingService: ratingService,
	}
}
