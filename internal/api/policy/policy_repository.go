package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-policy-admin/app/db"
	"github.com/FACorreiaa/go-policy-admin/app/observability/metrics"
	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

var _ PolicyRepo = (*PostgresPolicyRepo)(nil)

// PolicyRepo is read-only; policies are written by the seeder.
type PolicyRepo interface {
	FindAll(ctx context.Context) ([]types.Policy, error)
	FindByID(ctx context.Context, id uuid.UUID) (*types.Policy, error)
}

type PostgresPolicyRepo struct {
	logger *slog.Logger
	pgpool database.PgxIface
}

func NewPostgresPolicyRepo(pgpool database.PgxIface, logger *slog.Logger) *PostgresPolicyRepo {
	return &PostgresPolicyRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func startSpan(ctx context.Context, tracer, name, operation, table string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
	)
	return otel.Tracer(tracer).Start(ctx, name, trace.WithAttributes(attrs...))
}

func recordQuery(ctx context.Context, repo, method string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("repo", repo), attribute.String("method", method))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, types.ErrNotFound) && !errors.Is(err, types.ErrBadRequest) {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

// FindAll returns every policy ordered by name.
func (r *PostgresPolicyRepo) FindAll(ctx context.Context) (_ []types.Policy, err error) {
	ctx, span := startSpan(ctx, "PolicyRepo", "FindAll", "SELECT", "policies")
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "policies", "FindAll", start, err) }()

	query := `SELECT id, name, short_description, monthly_premium FROM policies ORDER BY name`

	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query policies", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching policies: %w", err)
	}
	defer rows.Close()

	policies := []types.Policy{}
	for rows.Next() {
		var p types.Policy
		if err = rows.Scan(&p.ID, &p.Name, &p.ShortDescription, &p.MonthlyPremium); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning policy: %w", err)
		}
		policies = append(policies, p)
	}
	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading policies: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(policies)))
	span.SetStatus(codes.Ok, "Policies fetched")
	return policies, nil
}

func (r *PostgresPolicyRepo) FindByID(ctx context.Context, id uuid.UUID) (_ *types.Policy, err error) {
	ctx, span := startSpan(ctx, "PolicyRepo", "FindByID", "SELECT", "policies", attribute.String("db.policy.id", id.String()))
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "policies", "FindByID", start, err) }()

	var p types.Policy
	query := `SELECT id, name, short_description, monthly_premium FROM policies WHERE id = $1`
	err = r.pgpool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.ShortDescription, &p.MonthlyPremium)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Policy not found")
			return nil, fmt.Errorf("policy %s not found: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch policy", slog.String("policyID", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching policy: %w", err)
	}

	span.SetStatus(codes.Ok, "Policy fetched")
	return &p, nil
}
