package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roadwatch/internal/domain"
	"roadwatch/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VoteLedger struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewVoteLedger(pool *pgxpool.Pool, logger *slog.Logger) *VoteLedger {
	return &VoteLedger{pool: pool, logger: logger}
}

// Cast applies one vote with one-row-per-(alert,user) semantics:
// no existing row inserts, same direction conflicts, opposite direction
// flips the row and moves one count between the buckets. The read and the
// write run in a single transaction with the vote row locked, so concurrent
// casts for the same pair serialize; two racing first votes collide on the
// (alert_id, user_id) primary key and the loser reruns against the committed
// row.
func (v *VoteLedger) Cast(ctx context.Context, alertID int64, userID uuid.UUID, isUpvote bool) (*domain.RatingAggregate, error) {
	const op = "postgres.VoteLedger.Cast"

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	var agg *domain.RatingAggregate
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		agg, err = v.castOnce(ctx, alertID, userID, isUpvote)
		if err != nil && errors.Is(err, e.ErrUniqueViolation) {
			continue
		}
		break
	}
	return agg, err
}

func (v *VoteLedger) castOnce(ctx context.Context, alertID int64, userID uuid.UUID, isUpvote bool) (*domain.RatingAggregate, error) {
	const op = "postgres.VoteLedger.Cast"

	tx, err := v.pool.Begin(ctx)
	if err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	defer tx.Rollback(ctx)

	var exists int64
	if err := tx.QueryRow(ctx, `SELECT id FROM alerts WHERE id = $1`, alertID).Scan(&exists); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}

	var current bool
	err = tx.QueryRow(ctx,
		`SELECT is_upvote FROM alert_votes WHERE alert_id = $1 AND user_id = $2 FOR UPDATE`,
		alertID, userID,
	).Scan(&current)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if err := v.insertVote(ctx, tx, alertID, userID, isUpvote); err != nil {
			return nil, err
		}

	case err != nil:
		v.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)

	case current == isUpvote:
		return nil, fmt.Errorf("%s: already voted this way: %w", op, e.ErrConflict)

	default:
		if err := v.switchVote(ctx, tx, alertID, userID, isUpvote); err != nil {
			return nil, err
		}
	}

	agg := &domain.RatingAggregate{AlertID: alertID}
	err = tx.QueryRow(ctx,
		`SELECT upvotes, downvotes FROM alert_ratings WHERE alert_id = $1`,
		alertID,
	).Scan(&agg.Upvotes, &agg.Downvotes)
	if err != nil {
		return nil, e.WrapError(ctx, op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return agg, nil
}

func (v *VoteLedger) insertVote(ctx context.Context, tx pgx.Tx, alertID int64, userID uuid.UUID, isUpvote bool) error {
	const op = "postgres.VoteLedger.insertVote"

	_, err := tx.Exec(ctx,
		`INSERT INTO alert_votes (alert_id, user_id, is_upvote, created_at) VALUES ($1, $2, $3, $4)`,
		alertID, userID, isUpvote, time.Now().UTC(),
	)
	if err != nil {
		return e.WrapError(ctx, op, err)
	}

	up, down := voteDelta(isUpvote)
	_, err = tx.Exec(ctx, `
		INSERT INTO alert_ratings (alert_id, upvotes, downvotes, vote_events)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (alert_id) DO UPDATE SET
			upvotes = alert_ratings.upvotes + EXCLUDED.upvotes,
			downvotes = alert_ratings.downvotes + EXCLUDED.downvotes,
			vote_events = alert_ratings.vote_events + 1
	`, alertID, up, down)
	if err != nil {
		return e.WrapError(ctx, op, err)
	}
	return nil
}

// switchVote flips the existing row and moves exactly one count from the old
// bucket to the new one. Incrementing the new bucket without decrementing
// the old would break the ledger/aggregate consistency invariant.
func (v *VoteLedger) switchVote(ctx context.Context, tx pgx.Tx, alertID int64, userID uuid.UUID, isUpvote bool) error {
	const op = "postgres.VoteLedger.switchVote"

	_, err := tx.Exec(ctx,
		`UPDATE alert_votes SET is_upvote = $3, created_at = $4 WHERE alert_id = $1 AND user_id = $2`,
		alertID, userID, isUpvote, time.Now().UTC(),
	)
	if err != nil {
		return e.WrapError(ctx, op, err)
	}

	dUp, dDown := int64(-1), int64(1) // switched to a downvote
	if isUpvote {
		dUp, dDown = 1, -1
	}
	_, err = tx.Exec(ctx, `
		UPDATE alert_ratings SET
			upvotes = upvotes + $2,
			downvotes = downvotes + $3,
			vote_events = vote_events + 1
		WHERE alert_id = $1
	`, alertID, dUp, dDown)
	if err != nil {
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func voteDelta(isUpvote bool) (up, down int64) {
	if isUpvote {
		return 1, 0
	}
	return 0, 1
}

// Ratings returns the counters for one alert, zero-valued when nobody has
// voted yet. A missing alert is NotFound.
func (v *VoteLedger) Ratings(ctx context.Context, alertID int64) (*domain.RatingAggregate, error) {
	const op = "postgres.VoteLedger.Ratings"

	query := `
		SELECT a.id, COALESCE(r.upvotes, 0), COALESCE(r.downvotes, 0)
		FROM alerts a
		LEFT JOIN alert_ratings r ON r.alert_id = a.id
		WHERE a.id = $1
	`

	var agg domain.RatingAggregate
	err := v.pool.QueryRow(ctx, query, alertID).Scan(&agg.AlertID, &agg.Upvotes, &agg.Downvotes)
	if err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return &agg, nil
}

// AverageRating is (upvotes+downvotes)/vote_events, where vote_events grows
// monotonically with every accepted cast. Zero votes yields 0.
func (v *VoteLedger) AverageRating(ctx context.Context, alertID int64) (float64, error) {
	const op = "postgres.VoteLedger.AverageRating"

	query := `
		SELECT COALESCE(r.upvotes, 0) + COALESCE(r.downvotes, 0), COALESCE(r.vote_events, 0)
		FROM alerts a
		LEFT JOIN alert_ratings r ON r.alert_id = a.id
		WHERE a.id = $1
	`

	var total, events int64
	if err := v.pool.QueryRow(ctx, query, alertID).Scan(&total, &events); err != nil {
		return 0, e.WrapError(ctx, op, err)
	}
	if events == 0 {
		return 0, nil
	}
	return float64(total) / float64(events), nil
}

func (v *VoteLedger) AllRatings(ctx context.Context) ([]*domain.RatingAggregate, error) {
	const op = "postgres.VoteLedger.AllRatings"

	query := `
		SELECT alert_id, upvotes, downvotes
		FROM alert_ratings
		WHERE upvotes + downvotes > 0
		ORDER BY alert_id
	`

	rows, err := v.pool.Query(ctx, query)
	if err != nil {
		v.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	aggs := make([]*domain.RatingAggregate, 0, 8)
	for rows.Next() {
		var agg domain.RatingAggregate
		if err := rows.Scan(&agg.AlertID, &agg.Upvotes, &agg.Downvotes); err != nil {
			v.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		aggs = append(aggs, &agg)
	}
	if err := rows.Err(); err != nil {
		v.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return aggs, nil
}
