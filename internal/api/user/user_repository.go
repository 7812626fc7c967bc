package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
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

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user data persistence. Lookups return
// an error wrapping types.ErrNotFound when no row matches.
type UserRepo interface {
	FindAll(ctx context.Context) ([]types.UserWithPolicies, error)
	FindByID(ctx context.Context, id uuid.UUID) (*types.UserWithPolicies, error)
	FindByUsername(ctx context.Context, username string) (*types.User, error)
	FindByEmail(ctx context.Context, email string) (*types.User, error)
	Create(ctx context.Context, user types.NewUser) (*types.UserWithPolicies, error)
	Update(ctx context.Context, id uuid.UUID, changes types.UserChanges) (*types.UserWithPolicies, error)
	UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL string) (*types.User, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool database.PgxIface
}

func NewPostgresUserRepo(pgpool database.PgxIface, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id, username, first_name, last_name, date_of_birth, address,
        phone_number, email, profile_image_url, created_at, updated_at`

func scanUser(row pgx.Row, u *types.User) error {
	return row.Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.DateOfBirth, &u.Address,
		&u.PhoneNumber, &u.Email, &u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt,
	)
}

func startSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "users"),
	)
	return otel.Tracer("UserRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func recordQuery(ctx context.Context, method string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("repo", "users"), attribute.String("method", method))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

// FindAll returns every user ordered by last name, with their policies.
func (r *PostgresUserRepo) FindAll(ctx context.Context) (users []types.UserWithPolicies, err error) {
	ctx, span := startSpan(ctx, "FindAll", "SELECT")
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "FindAll", start, err) }()

	l := r.logger.With(slog.String("method", "FindAll"))
	l.DebugContext(ctx, "Fetching all users")

	query := `SELECT ` + userColumns + ` FROM users ORDER BY last_name, first_name`

	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching users: %w", err)
	}
	defer rows.Close()

	users = []types.UserWithPolicies{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var u types.UserWithPolicies
		if err = scanUser(rows, &u.User); err != nil {
			l.ErrorContext(ctx, "Failed to scan user row", slog.Any("error", err))
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning user: %w", err)
		}
		users = append(users, u)
		ids = append(ids, u.ID)
	}
	if err = rows.Err(); err != nil {
		l.ErrorContext(ctx, "Error iterating user rows", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading users: %w", err)
	}

	byUser, err := r.policiesFor(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB policy query failed")
		return nil, err
	}
	for i := range users {
		users[i].Policies = byUser[users[i].ID]
		if users[i].Policies == nil {
			users[i].Policies = []types.UserPolicyWithPolicy{}
		}
	}

	l.DebugContext(ctx, "Fetched all users successfully", slog.Int("count", len(users)))
	span.SetStatus(codes.Ok, "Users fetched")
	return users, nil
}

// policiesFor loads the assignments of the given users keyed by user id.
func (r *PostgresUserRepo) policiesFor(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]types.UserPolicyWithPolicy, error) {
	result := make(map[uuid.UUID][]types.UserPolicyWithPolicy, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query := `
        SELECT up.id, up.user_id, up.policy_id, up.created_at,
               p.id, p.name, p.short_description, p.monthly_premium
        FROM user_policies up
        JOIN policies p ON p.id = up.policy_id
        WHERE up.user_id = ANY($1)
        ORDER BY up.created_at, p.name`

	rows, err := r.pgpool.Query(ctx, query, userIDs)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query user policies", slog.Any("error", err))
		return nil, fmt.Errorf("database error fetching user policies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var up types.UserPolicyWithPolicy
		if err := rows.Scan(
			&up.ID, &up.UserID, &up.PolicyID, &up.CreatedAt,
			&up.Policy.ID, &up.Policy.Name, &up.Policy.ShortDescription, &up.Policy.MonthlyPremium,
		); err != nil {
			return nil, fmt.Errorf("database error scanning user policy: %w", err)
		}
		result[up.UserID] = append(result[up.UserID], up)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error reading user policies: %w", err)
	}
	return result, nil
}

func (r *PostgresUserRepo) withPolicies(ctx context.Context, u types.User) (*types.UserWithPolicies, error) {
	byUser, err := r.policiesFor(ctx, []uuid.UUID{u.ID})
	if err != nil {
		return nil, err
	}
	policies := byUser[u.ID]
	if policies == nil {
		policies = []types.UserPolicyWithPolicy{}
	}
	return &types.UserWithPolicies{User: u, Policies: policies}, nil
}

// FindByID returns a user with policies.
func (r *PostgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (_ *types.UserWithPolicies, err error) {
	ctx, span := startSpan(ctx, "FindByID", "SELECT", attribute.String("db.user.id", id.String()))
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "FindByID", start, err) }()

	var u types.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err = scanUser(r.pgpool.QueryRow(ctx, query, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user %s not found: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch user", slog.String("userID", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	user, err := r.withPolicies(ctx, u)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "User fetched")
	return user, nil
}

func (r *PostgresUserRepo) findOneBy(ctx context.Context, method, column, value string) (_ *types.User, err error) {
	ctx, span := startSpan(ctx, method, "SELECT")
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, method, start, err) }()

	var u types.User
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	if err = scanUser(r.pgpool.QueryRow(ctx, query, value), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no user with that %s: %w", column, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user by %s: %w", column, err)
	}
	span.SetStatus(codes.Ok, "User fetched")
	return &u, nil
}

func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*types.User, error) {
	return r.findOneBy(ctx, "FindByUsername", "username", username)
}

func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	return r.findOneBy(ctx, "FindByEmail", "email", email)
}

// uniqueViolation maps a unique-constraint failure on users to the same
// Conflict the service-level check reports.
func uniqueViolation(err error) error {
	constraint, ok := database.ConstraintViolation(err, database.CodeUniqueViolation)
	if !ok {
		return nil
	}
	switch constraint {
	case database.ConstraintUsersUsername:
		return types.NewConflictError(types.MsgUsernameExists)
	case database.ConstraintUsersEmail:
		return types.NewConflictError(types.MsgEmailExists)
	default:
		return types.NewConflictError("User already exists")
	}
}

// Create inserts a user and returns it with an empty policy list.
func (r *PostgresUserRepo) Create(ctx context.Context, nu types.NewUser) (_ *types.UserWithPolicies, err error) {
	ctx, span := startSpan(ctx, "Create", "INSERT", attribute.String("db.user.id", nu.ID.String()))
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "Create", start, err) }()

	l := r.logger.With(slog.String("method", "Create"), slog.String("userID", nu.ID.String()))
	l.DebugContext(ctx, "Inserting user")

	query := `
        INSERT INTO users (id, username, first_name, last_name, date_of_birth,
                           address, phone_number, email, profile_image_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + userColumns

	var u types.User
	err = scanUser(r.pgpool.QueryRow(ctx, query,
		nu.ID, nu.Username, nu.FirstName, nu.LastName, nu.DateOfBirth,
		nu.Address, nu.PhoneNumber, nu.Email, nu.ProfileImageURL,
	), &u)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		if conflict := uniqueViolation(err); conflict != nil {
			l.WarnContext(ctx, "Unique constraint rejected user insert", slog.Any("error", err))
			return nil, conflict
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created")
	span.SetStatus(codes.Ok, "User created")
	return &types.UserWithPolicies{User: u, Policies: []types.UserPolicyWithPolicy{}}, nil
}

// Update applies the non-nil fields of changes and returns the updated user.
func (r *PostgresUserRepo) Update(ctx context.Context, id uuid.UUID, changes types.UserChanges) (_ *types.UserWithPolicies, err error) {
	ctx, span := startSpan(ctx, "Update", "UPDATE", attribute.String("db.user.id", id.String()))
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "Update", start, err) }()

	l := r.logger.With(slog.String("method", "Update"), slog.String("userID", id.String()))

	if changes.Empty() {
		l.DebugContext(ctx, "Update called with no fields to update")
		return r.FindByID(ctx, id)
	}

	var setClauses []string
	var args []interface{}
	argID := 1
	set := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
		span.SetAttributes(attribute.Bool("update."+column, true))
	}

	if changes.Username != nil {
		set("username", *changes.Username)
	}
	if changes.FirstName != nil {
		set("first_name", *changes.FirstName)
	}
	if changes.LastName != nil {
		set("last_name", *changes.LastName)
	}
	if changes.DateOfBirth != nil {
		set("date_of_birth", *changes.DateOfBirth)
	}
	if changes.Address != nil {
		set("address", *changes.Address)
	}
	if changes.PhoneNumber != nil {
		set("phone_number", *changes.PhoneNumber)
	}
	if changes.Email != nil {
		set("email", *changes.Email)
	}
	if changes.ProfileImageURL.Set {
		set("profile_image_url", changes.ProfileImageURL.Value)
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), argID, userColumns)

	l.DebugContext(ctx, "Executing dynamic update query", slog.Int("arg_count", len(args)))

	var u types.User
	if err = scanUser(r.pgpool.QueryRow(ctx, query, args...), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user %s not found for update: %w", id, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		if conflict := uniqueViolation(err); conflict != nil {
			l.WarnContext(ctx, "Unique constraint rejected user update", slog.Any("error", err))
			return nil, conflict
		}
		l.ErrorContext(ctx, "Failed to execute update query", slog.Any("error", err))
		return nil, fmt.Errorf("database error updating user: %w", err)
	}

	user, err := r.withPolicies(ctx, u)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	l.InfoContext(ctx, "User updated")
	span.SetStatus(codes.Ok, "User updated")
	return user, nil
}

// UpdateProfileImage sets the profile image reference.
func (r *PostgresUserRepo) UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL string) (_ *types.User, err error) {
	ctx, span := startSpan(ctx, "UpdateProfileImage", "UPDATE", attribute.String("db.user.id", id.String()))
	defer span.End()
	start := time.Now()
	defer func() { recordQuery(ctx, "UpdateProfileImage", start, err) }()

	query := `UPDATE users SET profile_image_url = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns

	var u types.User
	if err = scanUser(r.pgpool.QueryRow(ctx, query, imageURL, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user %s not found for image update: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to update profile image", slog.String("userID", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating profile image: %w", err)
	}

	span.SetStatus(codes.Ok, "Profile image updated")
	return &u, nil
}
