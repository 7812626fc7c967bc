package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-policy-admin/internal/api"
	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for user operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]types.UserWithPolicies, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.UserWithPolicies, error)
	CreateUser(ctx context.Context, params types.CreateUserParams) (*types.UserWithPolicies, error)
	UpdateUser(ctx context.Context, id uuid.UUID, params types.UpdateUserParams) (*types.UserWithPolicies, error)
	UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL string) (*types.User, error)
}

// UserServiceImpl provides the implementation for UserService.
type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
}

// NewUserService creates a new user service instance.
func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ListUsers returns all users ordered by last name.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]types.UserWithPolicies, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "ListUsers")
	defer span.End()

	l := s.logger.With(slog.String("method", "ListUsers"))
	l.DebugContext(ctx, "Fetching all users")

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch users")
		return nil, fmt.Errorf("error fetching users: %w", err)
	}

	span.SetStatus(codes.Ok, "Users fetched")
	return users, nil
}

// GetUser returns a single user with policies.
func (s *UserServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*types.UserWithPolicies, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetUser", trace.WithAttributes(
		attribute.String("user.id", id.String()),
	))
	defer span.End()

	user, err := s.findUser(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch user")
		return nil, err
	}
	span.SetStatus(codes.Ok, "User fetched")
	return user, nil
}

// findUser turns a missing row into the client-facing NotFound error.
func (s *UserServiceImpl) findUser(ctx context.Context, id uuid.UUID) (*types.UserWithPolicies, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil, types.NewNotFoundError(types.MsgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return user, nil
}

// checkUsernameUnique fails with Conflict if another user owns username.
// excludeID is the user being updated, or uuid.Nil on create.
func (s *UserServiceImpl) checkUsernameUnique(ctx context.Context, username string, excludeID uuid.UUID) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking username: %w", err)
	}
	if existing.ID != excludeID {
		return types.NewConflictError(types.MsgUsernameExists)
	}
	return nil
}

func (s *UserServiceImpl) checkEmailUnique(ctx context.Context, email string, excludeID uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking email: %w", err)
	}
	if existing.ID != excludeID {
		return types.NewConflictError(types.MsgEmailExists)
	}
	return nil
}

// CreateUser checks username then email uniqueness and persists the user.
func (s *UserServiceImpl) CreateUser(ctx context.Context, params types.CreateUserParams) (*types.UserWithPolicies, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "CreateUser", trace.WithAttributes(
		attribute.String("user.username", params.Username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateUser"), slog.String("username", params.Username))
	l.DebugContext(ctx, "Creating user")

	fail := func(err error) (*types.UserWithPolicies, error) {
		l.WarnContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return nil, err
	}

	if err := s.checkUsernameUnique(ctx, params.Username, uuid.Nil); err != nil {
		return fail(err)
	}
	if err := s.checkEmailUnique(ctx, params.Email, uuid.Nil); err != nil {
		return fail(err)
	}

	dob, err := api.ParseTimestamp(params.DateOfBirth)
	if err != nil {
		return fail(types.NewValidationError("Validation error: dateOfBirth: must be an ISO8601 date-time"))
	}

	var imageURL *string
	if params.ProfileImageURL != nil && *params.ProfileImageURL != "" {
		imageURL = params.ProfileImageURL
	}

	user, err := s.repo.Create(ctx, types.NewUser{
		ID:              uuid.New(),
		Username:        params.Username,
		FirstName:       params.FirstName,
		LastName:        params.LastName,
		DateOfBirth:     dob,
		Address:         params.Address,
		PhoneNumber:     params.PhoneNumber,
		Email:           params.Email,
		ProfileImageURL: imageURL,
	})
	if err != nil {
		return fail(fmt.Errorf("error creating user: %w", err))
	}

	l.InfoContext(ctx, "User created", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User created")
	return user, nil
}

// UpdateUser applies a partial update. Uniqueness checks skip the user's own row.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, params types.UpdateUserParams) (*types.UserWithPolicies, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateUser", trace.WithAttributes(
		attribute.String("user.id", id.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateUser"), slog.String("userID", id.String()))
	l.DebugContext(ctx, "Updating user")

	fail := func(err error) (*types.UserWithPolicies, error) {
		l.WarnContext(ctx, "Failed to update user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update user")
		return nil, err
	}

	if _, err := s.findUser(ctx, id); err != nil {
		return fail(err)
	}

	if params.Username != nil {
		if err := s.checkUsernameUnique(ctx, *params.Username, id); err != nil {
			return fail(err)
		}
	}
	if params.Email != nil {
		if err := s.checkEmailUnique(ctx, *params.Email, id); err != nil {
			return fail(err)
		}
	}

	changes := types.UserChanges{
		Username:        params.Username,
		FirstName:       params.FirstName,
		LastName:        params.LastName,
		Address:         params.Address,
		PhoneNumber:     params.PhoneNumber,
		Email:           params.Email,
		ProfileImageURL: params.ProfileImageURL,
	}
	if params.DateOfBirth != nil {
		dob, err := api.ParseTimestamp(*params.DateOfBirth)
		if err != nil {
			return fail(types.NewValidationError("Validation error: dateOfBirth: must be an ISO8601 date-time"))
		}
		changes.DateOfBirth = &dob
	}

	user, err := s.repo.Update(ctx, id, changes)
	if errors.Is(err, types.ErrNotFound) {
		// Deleted between the existence check and the update.
		return fail(types.NewNotFoundError(types.MsgUserNotFound))
	}
	if err != nil {
		return fail(fmt.Errorf("error updating user: %w", err))
	}

	l.InfoContext(ctx, "User updated")
	span.SetStatus(codes.Ok, "User updated")
	return user, nil
}

// UpdateProfileImage sets the user's profile image reference.
func (s *UserServiceImpl) UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL string) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateProfileImage", trace.WithAttributes(
		attribute.String("user.id", id.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateProfileImage"), slog.String("userID", id.String()))

	if _, err := s.findUser(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, err
	}

	user, err := s.repo.UpdateProfileImage(ctx, id, imageURL)
	if errors.Is(err, types.ErrNotFound) {
		return nil, types.NewNotFoundError(types.MsgUserNotFound)
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to update profile image", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update profile image")
		return nil, fmt.Errorf("error updating profile image: %w", err)
	}

	l.InfoContext(ctx, "Profile image updated")
	span.SetStatus(codes.Ok, "Profile image updated")
	return user, nil
}
