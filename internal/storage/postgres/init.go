package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"roadwatch/internal/config"
	"roadwatch/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	Pool   *pgxpool.Pool
	Alert  AlertRepository
	Rating RatingRepository
}

func NewPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("Failed to parse pgx config", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.ParseConfig", err)
	}
	poolCfg.MaxConns = cfg.Postgres.MaxConns
	poolCfg.MinConns = cfg.Postgres.MinConns
	poolCfg.MaxConnLifetime = cfg.Postgres.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Failed to create pgx pool", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.NewWithConfig", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Failed to ping Postgres database", slog.String("error", err.Error()))
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Ping", err)
	}
	logger.Info("Connected to Postgres successfully")

	pg := &Postgres{
		Pool:   pool,
		Alert:  NewAlertStore(pool, logger),
		Rating: NewVoteLedger(pool, logger),
	}

	if err := pg.Migrate(ctx); err != nil {
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Migrate", err)
	}

	return pg, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS alerts (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL,
			accuracy INT NOT NULL DEFAULT 0,
			address TEXT NOT NULL DEFAULT '',
			place TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS alert_votes (
			alert_id BIGINT NOT NULL REFERENCES alerts(id),
			user_id UUID NOT NULL,
			is_upvote BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (alert_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS alert_ratings (
			alert_id BIGINT PRIMARY KEY REFERENCES alerts(id),
			upvotes BIGINT NOT NULL DEFAULT 0,
			downvotes BIGINT NOT NULL DEFAULT 0,
			vote_events BIGINT NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_alerts_lat_lng ON alerts(lat, lng);
		CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at DESC);
	`

	_, err := p.Pool.Exec(ctx, schema)
	return err
}
