package service

import (
	"context"
	"fmt"
	"log/slog"

	"roadwatch/internal/domain"
	"roadwatch/pkg/e"

	"github.com/google/uuid"
)

type ratingService struct {
	repo   RatingRepository
	logger *slog.Logger
}

func NewRatingService(repo RatingRepository, logger *slog.Logger) RatingService {
	return &ratingService{repo: repo, logger: logger}
}

func (s *ratingService) CastVote(ctx context.Context, alertID int64, userID uuid.UUID, isUpvote bool) (*domain.RatingAggregate, error) {
	const op = "service.Rating.CastVote"

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	agg, err := s.repo.Cast(ctx, alertID, userID, isUpvote)
	if err != nil {
		return nil, err
	}

	s.logger.Info("vote cast",
		slog.Int64("alert_id", alertID),
		slog.String("user_id", userID.String()),
		slog.Bool("is_upvote", isUpvote),
		slog.Int64("upvotes", agg.Upvotes),
		slog.Int64("downvotes", agg.Downvotes),
	)
	return agg, nil
}

func (s *ratingService) GetRatings(ctx context.Context, alertID int64) (*domain.RatingAggregate, error) {
	return s.repo.Ratings(ctx, alertID)
}

func (s *ratingService) GetAverageRating(ctx context.Context, alertID int64) (float64, error) {
	return s.repo.AverageRating(ctx, alertID)
}

func (s *ratingService) GetAllRatings(ctx context.Context) ([]*domain.RatingAggregate, error) {
	return s.repo.AllRatings(ctx)
}
