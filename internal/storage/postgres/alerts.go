package postgres

import (
	"context"
	"log/slog"
	"time"

	"roadwatch/internal/domain"
	"roadwatch/pkg/e"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// nearbyDelta is the half-width, in degrees, of the bounding box used by
// FindNearby. The filter is a flat lat/lng box, not a great-circle radius:
// it over-selects near the poles and misses across the antimeridian, which
// is acceptable at city scale and keeps the query on a plain btree index.
const nearbyDelta = 1.1

const nearbyLimit = 50

type AlertStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAlertStore(pool *pgxpool.Pool, logger *slog.Logger) *AlertStore {
	return &AlertStore{pool: pool, logger: logger}
}

const alertColumns = `id, title, description, type, lat, lng, accuracy, address, place, region, country, created_at`

func scanAlert(row pgx.Row) (*domain.Alert, error) {
	var a domain.Alert
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.Type,
		&a.Lat,
		&a.Lng,
		&a.Accuracy,
		&a.Address,
		&a.Place,
		&a.Region,
		&a.Country,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AlertStore) Create(ctx context.Context, alert *domain.Alert) error {
	const op = "postgres.Alert.Create"

	query := `
		INSERT INTO alerts (title, description, type, lat, lng, accuracy, address, place, region, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	err := s.pool.QueryRow(ctx, query,
		alert.Title,
		alert.Description,
		alert.Type,
		alert.Lat,
		alert.Lng,
		alert.Accuracy,
		alert.Address,
		alert.Place,
		alert.Region,
		alert.Country,
		alert.CreatedAt,
	).Scan(&alert.ID)
	if err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (s *AlertStore) List(ctx context.Context) ([]*domain.Alert, error) {
	const op = "postgres.Alert.List"

	query := `SELECT ` + alertColumns + ` FROM alerts`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		s.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	alerts := make([]*domain.Alert, 0, 16)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			s.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return alerts, nil
}

func (s *AlertStore) Get(ctx context.Context, id int64) (*domain.Alert, error) {
	const op = "postgres.Alert.Get"

	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`

	a, err := scanAlert(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return a, nil
}

func (s *AlertStore) Update(ctx context.Context, alert *domain.Alert) error {
	const op = "postgres.Alert.Update"

	query := `
		UPDATE alerts
		SET title = $2, description = $3, type = $4, lat = $5, lng = $6,
		    accuracy = $7, address = $8, place = $9, region = $10, country = $11
		WHERE id = $1
	`

	ct, err := s.pool.Exec(ctx, query,
		alert.ID,
		alert.Title,
		alert.Description,
		alert.Type,
		alert.Lat,
		alert.Lng,
		alert.Accuracy,
		alert.Address,
		alert.Place,
		alert.Region,
		alert.Country,
	)
	if err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if ct.RowsAffected() == 0 {
		return e.Wrap(op, e.ErrNotFound)
	}

	return nil
}

// Delete removes the alert together with its vote ledger and rating row in
// one transaction, so no orphan rows survive.
func (s *AlertStore) Delete(ctx context.Context, id int64) error {
	const op = "postgres.Alert.Delete"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return e.WrapError(ctx, op, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM alert_votes WHERE alert_id = $1`, id); err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM alert_ratings WHERE alert_id = $1`, id); err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if ct.RowsAffected() == 0 {
		return e.Wrap(op, e.ErrNotFound)
	}

	return e.WrapError(ctx, op, tx.Commit(ctx))
}

func (s *AlertStore) FindNearby(ctx context.Context, lat, lng float64) ([]*domain.Alert, error) {
	const op = "postgres.Alert.FindNearby"

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, e.Wrap(op, e.ErrInvalidCoordinates)
	}

	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE lat BETWEEN $1 AND $2
		  AND lng BETWEEN $3 AND $4
		ORDER BY created_at DESC
		LIMIT $5
	`

	rows, err := s.pool.Query(ctx, query,
		lat-nearbyDelta, lat+nearbyDelta,
		lng-nearbyDelta, lng+nearbyDelta,
		nearbyLimit,
	)
	if err != nil {
		s.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	alerts := make([]*domain.Alert, 0, 8)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			s.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return alerts, nil
}
