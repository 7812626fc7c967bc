package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	database "github.com/FACorreiaa/go-policy-admin/app/db"
	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

var _ UserPolicyRepo = (*PostgresUserPolicyRepo)(nil)

// UserPolicyRepo persists user/policy links. The store enforces that a pair
// is linked at most once.
type UserPolicyRepo interface {
	FindByUserAndPolicy(ctx context.Context, userID, policyID uuid.UUID) (*types.UserPolicy, error)
	Create(ctx context.Context, link types.UserPolicy) (*types.UserPolicyWithPolicy, error)
	Delete(ctx context.Context, userID, policyID uuid.UUID) error
}

type PostgresUserPolicyRepo struct {
	logger *slog.Logger
	pgpool database.PgxIface
}

func NewPostgresUserPolicyRepo(pgpool database.PgxIface, logger *slog.Logger) *PostgresUserPolicyRepo {
	return &PostgresUserPolicyRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func pairAttrs(userID, policyID uuid.UUID) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("db.user.id", userID.String()),
		attribute.String("db.policy.id", policyID.String()),
	}
}

func (r *PostgresUserPolicyRepo) FindByUserAndPolicy(ctx context.Context, userID, policyID uuid.UUID) (_ *types.UserPolicy, err error) {
	ctx, span := startSpan(ctx, "UserPolicyRepo", "FindByUserAndPolicy", "SELECT", "user_policies", pairAttrs(userID, policyID)...)
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "user_policies", "FindByUserAndPolicy", start, err) }()

	var up types.UserPolicy
	query := `SELECT id, user_id, policy_id, created_at FROM user_policies WHERE user_id = $1 AND policy_id = $2`
	err = r.pgpool.QueryRow(ctx, query, userID, policyID).Scan(&up.ID, &up.UserID, &up.PolicyID, &up.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s has no policy %s: %w", userID, policyID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch user policy", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user policy: %w", err)
	}

	span.SetStatus(codes.Ok, "User policy fetched")
	return &up, nil
}

// Create inserts the link and returns it joined with its policy. A duplicate
// pair is reported as the same BadRequest the service-level check raises.
func (r *PostgresUserPolicyRepo) Create(ctx context.Context, link types.UserPolicy) (_ *types.UserPolicyWithPolicy, err error) {
	ctx, span := startSpan(ctx, "UserPolicyRepo", "Create", "INSERT", "user_policies", pairAttrs(link.UserID, link.PolicyID)...)
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "user_policies", "Create", start, err) }()

	l := r.logger.With(slog.String("method", "Create"),
		slog.String("userID", link.UserID.String()), slog.String("policyID", link.PolicyID.String()))

	query := `
        WITH inserted AS (
            INSERT INTO user_policies (id, user_id, policy_id)
            VALUES ($1, $2, $3)
            RETURNING id, user_id, policy_id, created_at
        )
        SELECT i.id, i.user_id, i.policy_id, i.created_at,
               p.id, p.name, p.short_description, p.monthly_premium
        FROM inserted i
        JOIN policies p ON p.id = i.policy_id`

	var up types.UserPolicyWithPolicy
	err = r.pgpool.QueryRow(ctx, query, link.ID, link.UserID, link.PolicyID).Scan(
		&up.ID, &up.UserID, &up.PolicyID, &up.CreatedAt,
		&up.Policy.ID, &up.Policy.Name, &up.Policy.ShortDescription, &up.Policy.MonthlyPremium,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		if _, ok := database.ConstraintViolation(err, database.CodeUniqueViolation); ok {
			l.WarnContext(ctx, "Duplicate assignment rejected by store", slog.Any("error", err))
			return nil, types.NewBadRequestError(types.MsgPolicyAlreadyAssigned)
		}
		if constraint, ok := database.ConstraintViolation(err, database.CodeForeignKeyViolation); ok {
			l.WarnContext(ctx, "Assignment references a missing row", slog.String("constraint", constraint))
			if constraint == database.ConstraintUserPoliciesPolicy {
				return nil, types.NewNotFoundError(types.MsgPolicyNotFound)
			}
			return nil, types.NewNotFoundError(types.MsgUserNotFound)
		}
		l.ErrorContext(ctx, "Failed to insert user policy", slog.Any("error", err))
		return nil, fmt.Errorf("database error assigning policy: %w", err)
	}

	l.InfoContext(ctx, "Policy assigned")
	span.SetStatus(codes.Ok, "User policy created")
	return &up, nil
}

// Delete removes the link. Deleting a link that does not exist is a BadRequest.
func (r *PostgresUserPolicyRepo) Delete(ctx context.Context, userID, policyID uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "UserPolicyRepo", "Delete", "DELETE", "user_policies", pairAttrs(userID, policyID)...)
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "user_policies", "Delete", start, err) }()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM user_policies WHERE user_id = $1 AND policy_id = $2`, userID, policyID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete user policy", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error removing policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "No row deleted")
		return types.NewBadRequestError(types.MsgPolicyNotAssigned)
	}

	span.SetStatus(codes.Ok, "User policy deleted")
	return nil
}
