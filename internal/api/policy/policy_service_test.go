package policy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

type MockPolicyRepo struct {
	mock.Mock
}

func (m *MockPolicyRepo) FindAll(ctx context.Context) ([]types.Policy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Policy), args.Error(1)
}

func (m *MockPolicyRepo) FindByID(ctx context.Context, id uuid.UUID) (*types.Policy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Policy), args.Error(1)
}

type MockUserPolicyRepo struct {
	mock.Mock
}

func (m *MockUserPolicyRepo) FindByUserAndPolicy(ctx context.Context, userID, policyID uuid.UUID) (*types.UserPolicy, error) {
	args := m.Called(ctx, userID, policyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserPolicy), args.Error(1)
}

func (m *MockUserPolicyRepo) Create(ctx context.Context, link types.UserPolicy) (*types.UserPolicyWithPolicy, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserPolicyWithPolicy), args.Error(1)
}

func (m *MockUserPolicyRepo) Delete(ctx context.Context, userID, policyID uuid.UUID) error {
	args := m.Called(ctx, userID, policyID)
	return args.Error(0)
}

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) FindByID(ctx context.Context, id uuid.UUID) (*types.UserWithPolicies, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserWithPolicies), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPolicyServiceImpl_ListPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("second call is served from cache", func(t *testing.T) {
		repo := new(MockPolicyRepo)
		service := NewPolicyService(repo, time.Minute, discardLogger())
		expected := []types.Policy{{ID: uuid.New(), Name: "Car Insurance", MonthlyPremium: 89.99}}
		repo.On("FindAll", mock.Anything).Return(expected, nil).Once()

		first, err := service.ListPolicies(ctx)
		require.NoError(t, err)
		second, err := service.ListPolicies(ctx)
		require.NoError(t, err)

		assert.Equal(t, expected, first)
		assert.Equal(t, expected, second)
		repo.AssertNumberOfCalls(t, "FindAll", 1)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		repo := new(MockPolicyRepo)
		service := NewPolicyService(repo, time.Minute, discardLogger())
		repoErr := errors.New("db down")
		repo.On("FindAll", mock.Anything).Return(nil, repoErr).Once()
		repo.On("FindAll", mock.Anything).Return([]types.Policy{}, nil).Once()

		_, err := service.ListPolicies(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, repoErr)

		policies, err := service.ListPolicies(ctx)
		require.NoError(t, err)
		assert.Empty(t, policies)
		repo.AssertExpectations(t)
	})
}

type assignmentFixture struct {
	service  *AssignmentServiceImpl
	users    *MockUserLookup
	policies *MockPolicyRepo
	links    *MockUserPolicyRepo
	userID   uuid.UUID
	policyID uuid.UUID
}

func setupAssignmentTest() assignmentFixture {
	f := assignmentFixture{
		users:    new(MockUserLookup),
		policies: new(MockPolicyRepo),
		links:    new(MockUserPolicyRepo),
		userID:   uuid.New(),
		policyID: uuid.New(),
	}
	f.service = NewAssignmentService(f.users, f.policies, f.links, discardLogger())
	return f
}

func (f assignmentFixture) bothExist() {
	f.users.On("FindByID", mock.Anything, f.userID).Return(&types.UserWithPolicies{User: types.User{ID: f.userID}}, nil).Once()
	f.policies.On("FindByID", mock.Anything, f.policyID).Return(&types.Policy{ID: f.policyID}, nil).Once()
}

func TestAssignmentServiceImpl_AssignPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns", func(t *testing.T) {
		f := setupAssignmentTest()
		f.bothExist()
		f.links.On("FindByUserAndPolicy", mock.Anything, f.userID, f.policyID).Return(nil, types.ErrNotFound).Once()
		created := &types.UserPolicyWithPolicy{
			UserPolicy: types.UserPolicy{ID: uuid.New(), UserID: f.userID, PolicyID: f.policyID, CreatedAt: time.Now()},
			Policy:     types.Policy{ID: f.policyID, Name: "Car Insurance"},
		}
		f.links.On("Create", mock.Anything, mock.MatchedBy(func(up types.UserPolicy) bool {
			return up.ID != uuid.Nil && up.UserID == f.userID && up.PolicyID == f.policyID
		})).Return(created, nil).Once()

		link, err := f.service.AssignPolicy(ctx, f.userID, f.policyID)
		require.NoError(t, err)
		assert.Equal(t, created, link)
		f.links.AssertExpectations(t)
	})

	t.Run("missing user and policy reports the user", func(t *testing.T) {
		f := setupAssignmentTest()
		f.users.On("FindByID", mock.Anything, f.userID).Return(nil, types.ErrNotFound).Once()

		_, err := f.service.AssignPolicy(ctx, f.userID, f.policyID)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, types.MsgUserNotFound, err.Error())
		f.policies.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.links.AssertNotCalled(t, "FindByUserAndPolicy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing policy", func(t *testing.T) {
		f := setupAssignmentTest()
		f.users.On("FindByID", mock.Anything, f.userID).Return(&types.UserWithPolicies{}, nil).Once()
		f.policies.On("FindByID", mock.Anything, f.policyID).Return(nil, types.ErrNotFound).Once()

		_, err := f.service.AssignPolicy(ctx, f.userID, f.policyID)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, types.MsgPolicyNotFound, err.Error())
	})

	t.Run("already assigned", func(t *testing.T) {
		f := setupAssignmentTest()
		f.bothExist()
		f.links.On("FindByUserAndPolicy", mock.Anything, f.userID, f.policyID).Return(&types.UserPolicy{}, nil).Once()

		_, err := f.service.AssignPolicy(ctx, f.userID, f.policyID)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrBadRequest)
		assert.Equal(t, types.MsgPolicyAlreadyAssigned, err.Error())
		f.links.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost race surfaces the store's bad request", func(t *testing.T) {
		f := setupAssignmentTest()
		f.bothExist()
		f.links.On("FindByUserAndPolicy", mock.Anything, f.userID, f.policyID).Return(nil, types.ErrNotFound).Once()
		f.links.On("Create", mock.Anything, mock.Anything).Return(nil, types.NewBadRequestError(types.MsgPolicyAlreadyAssigned)).Once()

		_, err := f.service.AssignPolicy(ctx, f.userID, f.policyID)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrBadRequest)
	})
}

func TestAssignmentServiceImpl_RemovePolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("removes", func(t *testing.T) {
		f := setupAssignmentTest()
		f.bothExist()
		f.links.On("FindByUserAndPolicy", mock.Anything, f.userID, f.policyID).Return(&types.UserPolicy{}, nil).Once()
		f.links.On("Delete", mock.Anything, f.userID, f.policyID).Return(nil).Once()

		require.NoError(t, f.service.RemovePolicy(ctx, f.userID, f.policyID))
		f.links.AssertExpectations(t)
	})

	t.Run("not assigned", func(t *testing.T) {
		f := setupAssignmentTest()
		f.bothExist()
		f.links.On("FindByUserAndPolicy", mock.Anything, f.userID, f.policyID).Return(nil, types.ErrNotFound).Once()

		err := f.service.RemovePolicy(ctx, f.userID, f.policyID)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrBadRequest)
		assert.Equal(t, types.MsgPolicyNotAssigned, err.Error())
		f.links.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lookup failure is internal", func(t *testing.T) {
		f := setupAssignmentTest()
		boom := errors.New("boom")
		f.users.On("FindByID", mock.Anything, f.userID).Return(nil, boom).Once()

		err := f.service.RemovePolicy(ctx, f.userID, f.policyID)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})
}
