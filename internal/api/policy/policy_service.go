package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-policy-admin/app/observability/metrics"
	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

var (
	_ PolicyService     = (*PolicyServiceImpl)(nil)
	_ AssignmentService = (*AssignmentServiceImpl)(nil)
)

const policiesCacheKey = "policies:all"

type PolicyService interface {
	ListPolicies(ctx context.Context) ([]types.Policy, error)
}

// AssignmentService moves a (user, policy) pair between unassigned and assigned.
type AssignmentService interface {
	AssignPolicy(ctx context.Context, userID, policyID uuid.UUID) (*types.UserPolicyWithPolicy, error)
	RemovePolicy(ctx context.Context, userID, policyID uuid.UUID) error
}

// UserLookup is the part of the user store the assignment rules need.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*types.UserWithPolicies, error)
}

type PolicyServiceImpl struct {
	logger *slog.Logger
	repo   PolicyRepo
	cache  *cache.Cache
}

// NewPolicyService caches the policy list for ttl. Policies only change
// through seeding, so entries are never invalidated explicitly.
func NewPolicyService(repo PolicyRepo, ttl time.Duration, logger *slog.Logger) *PolicyServiceImpl {
	return &PolicyServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(ttl, 2*ttl),
	}
}

// ListPolicies returns all policies ordered by name.
func (s *PolicyServiceImpl) ListPolicies(ctx context.Context) ([]types.Policy, error) {
	ctx, span := otel.Tracer("PolicyService").Start(ctx, "ListPolicies")
	defer span.End()

	if cached, found := s.cache.Get(policiesCacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "Policies served from cache")
		return cached.([]types.Policy), nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	policies, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch policies", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch policies")
		return nil, fmt.Errorf("error fetching policies: %w", err)
	}

	s.cache.Set(policiesCacheKey, policies, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Policies fetched")
	return policies, nil
}

type AssignmentServiceImpl struct {
	logger   *slog.Logger
	users    UserLookup
	policies PolicyRepo
	links    UserPolicyRepo
}

func NewAssignmentService(users UserLookup, policies PolicyRepo, links UserPolicyRepo, logger *slog.Logger) *AssignmentServiceImpl {
	return &AssignmentServiceImpl{
		logger:   logger,
		users:    users,
		policies: policies,
		links:    links,
	}
}

// requireUserAndPolicy runs the existence checks that precede any pair check.
func (s *AssignmentServiceImpl) requireUserAndPolicy(ctx context.Context, userID, policyID uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.NewNotFoundError(types.MsgUserNotFound)
		}
		return fmt.Errorf("error fetching user: %w", err)
	}
	if _, err := s.policies.FindByID(ctx, policyID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.NewNotFoundError(types.MsgPolicyNotFound)
		}
		return fmt.Errorf("error fetching policy: %w", err)
	}
	return nil
}

// hasPolicy reports whether the pair is currently assigned.
func (s *AssignmentServiceImpl) hasPolicy(ctx context.Context, userID, policyID uuid.UUID) (bool, error) {
	_, err := s.links.FindByUserAndPolicy(ctx, userID, policyID)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error fetching user policy: %w", err)
	}
	return true, nil
}

func countAssignment(ctx context.Context, action string) {
	metrics.Get().PolicyAssignmentsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

// AssignPolicy links a policy to a user. The store's unique constraint backs
// the duplicate check when two requests race for the same pair.
func (s *AssignmentServiceImpl) AssignPolicy(ctx context.Context, userID, policyID uuid.UUID) (*types.UserPolicyWithPolicy, error) {
	ctx, span := otel.Tracer("AssignmentService").Start(ctx, "AssignPolicy", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("policy.id", policyID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AssignPolicy"),
		slog.String("userID", userID.String()), slog.String("policyID", policyID.String()))

	fail := func(err error) (*types.UserPolicyWithPolicy, error) {
		l.WarnContext(ctx, "Failed to assign policy", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to assign policy")
		return nil, err
	}

	if err := s.requireUserAndPolicy(ctx, userID, policyID); err != nil {
		return fail(err)
	}

	assigned, err := s.hasPolicy(ctx, userID, policyID)
	if err != nil {
		return fail(err)
	}
	if assigned {
		return fail(types.NewBadRequestError(types.MsgPolicyAlreadyAssigned))
	}

	link, err := s.links.Create(ctx, types.UserPolicy{
		ID:       uuid.New(),
		UserID:   userID,
		PolicyID: policyID,
	})
	if err != nil {
		return fail(fmt.Errorf("error assigning policy: %w", err))
	}

	countAssignment(ctx, "assign")
	l.InfoContext(ctx, "Policy assigned to user")
	span.SetStatus(codes.Ok, "Policy assigned")
	return link, nil
}

// RemovePolicy unlinks a policy from a user.
func (s *AssignmentServiceImpl) RemovePolicy(ctx context.Context, userID, policyID uuid.UUID) error {
	ctx, span := otel.Tracer("AssignmentService").Start(ctx, "RemovePolicy", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("policy.id", policyID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "RemovePolicy"),
		slog.String("userID", userID.String()), slog.String("policyID", policyID.String()))

	fail := func(err error) error {
		l.WarnContext(ctx, "Failed to remove policy", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to remove policy")
		return err
	}

	if err := s.requireUserAndPolicy(ctx, userID, policyID); err != nil {
		return fail(err)
	}

	assigned, err := s.hasPolicy(ctx, userID, policyID)
	if err != nil {
		return fail(err)
	}
	if !assigned {
		return fail(types.NewBadRequestError(types.MsgPolicyNotAssigned))
	}

	if err := s.links.Delete(ctx, userID, policyID); err != nil {
		return fail(fmt.Errorf("error removing policy: %w", err))
	}

	countAssignment(ctx, "remove")
	l.InfoContext(ctx, "Policy removed from user")
	span.SetStatus(codes.Ok, "Policy removed")
	return nil
}
