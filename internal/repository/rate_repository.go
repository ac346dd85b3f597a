package repository

import (
	"context"
	"time"

	"ratedash/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createRatesTable = `
CREATE TABLE IF NOT EXISTS rates (
    base      TEXT        NOT NULL,
    quote     TEXT        NOT NULL,
    rate_date DATE        NOT NULL,
    rate      NUMERIC     NOT NULL,
    PRIMARY KEY (base, quote, rate_date)
);

CREATE INDEX IF NOT EXISTS idx_rates_pair_date
    ON rates (base, quote, rate_date DESC);

CREATE TABLE IF NOT EXISTS conversation_messages (
    id         BIGSERIAL PRIMARY KEY,
    chat_id    BIGINT      NOT NULL,
    role       TEXT        NOT NULL,
    content    TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// RateRepository persists daily rate observations per currency pair.
type RateRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewRateRepository(pool PgxPool, tracer trace.Tracer) *RateRepository {
	return &RateRepository{pool: pool, tracer: tracer}
}

func (r *RateRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "rate-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createRatesTable)
	return err
}

// UpsertRates writes a batch of daily points for one pair, overwriting
// any existing observation for the same date.
func (r *RateRepository) UpsertRates(ctx context.Context, base, quote string, points []domain.RatePoint) error {
	if len(points) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "rate-repo.upsert-rates")
	defer span.End()

	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(
			`INSERT INTO rates (base, quote, rate_date, rate)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (base, quote, rate_date) DO UPDATE SET
			     rate = EXCLUDED.rate`,
			base, quote, p.Date, p.Rate,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range points {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetRates returns up to limit daily points for a pair, oldest first.
func (r *RateRepository) GetRates(ctx context.Context, base, quote string, limit int) ([]domain.RatePoint, error) {
	_, span := r.tracer.Start(ctx, "rate-repo.get-rates")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT rate_date, rate
		 FROM (
		     SELECT rate_date, rate
		     FROM rates
		     WHERE base = $1 AND quote = $2
		     ORDER BY rate_date DESC
		     LIMIT $3
		 ) latest
		 ORDER BY rate_date ASC`,
		base, quote, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.RatePoint
	for rows.Next() {
		var p domain.RatePoint
		var d time.Time
		if err := rows.Scan(&d, &p.Rate); err != nil {
			return nil, err
		}
		p.Date = d.UTC()
		points = append(points, p)
	}
	return points, rows.Err()
}
