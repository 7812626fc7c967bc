package policy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

type MockPolicyService struct {
	mock.Mock
}

func (m *MockPolicyService) ListPolicies(ctx context.Context) ([]types.Policy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Policy), args.Error(1)
}

type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) AssignPolicy(ctx context.Context, userID, policyID uuid.UUID) (*types.UserPolicyWithPolicy, error) {
	args := m.Called(ctx, userID, policyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserPolicyWithPolicy), args.Error(1)
}

func (m *MockAssignmentService) RemovePolicy(ctx context.Context, userID, policyID uuid.UUID) error {
	args := m.Called(ctx, userID, policyID)
	return args.Error(0)
}

func setupPolicyHandlerTest() (http.Handler, *MockPolicyService, *MockAssignmentService) {
	ps := new(MockPolicyService)
	as := new(MockAssignmentService)
	h := NewHandlerImpl(ps, as, discardLogger())

	r := chi.NewRouter()
	r.Get("/policies", h.ListPolicies)
	r.Post("/policies/assign", h.AssignPolicy)
	r.Delete("/policies/users/{userId}/{policyId}", h.RemovePolicy)
	return r, ps, as
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandlerImpl_ListPolicies(t *testing.T) {
	h, ps, _ := setupPolicyHandlerTest()
	ps.On("ListPolicies", mock.Anything).Return([]types.Policy{{ID: uuid.New(), Name: "Car Insurance", MonthlyPremium: 89.99}}, nil).Once()

	rec := serve(h, http.MethodGet, "/policies", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 89.99, got[0]["monthlyPremium"])
	assert.Contains(t, got[0], "shortDescription")
}

func TestHandlerImpl_AssignPolicy(t *testing.T) {
	userID, policyID := uuid.New(), uuid.New()

	t.Run("created", func(t *testing.T) {
		h, _, as := setupPolicyHandlerTest()
		as.On("AssignPolicy", mock.Anything, userID, policyID).Return(&types.UserPolicyWithPolicy{
			UserPolicy: types.UserPolicy{ID: uuid.New(), UserID: userID, PolicyID: policyID},
			Policy:     types.Policy{ID: policyID, Name: "Car Insurance"},
		}, nil).Once()

		rec := serve(h, http.MethodPost, "/policies/assign", `{"userId":"`+userID.String()+`","policyId":"`+policyID.String()+`"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"policy":{`)
	})

	t.Run("missing fields", func(t *testing.T) {
		h, _, as := setupPolicyHandlerTest()

		rec := serve(h, http.MethodPost, "/policies/assign", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		as.AssertNotCalled(t, "AssignPolicy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed policy id", func(t *testing.T) {
		h, _, _ := setupPolicyHandlerTest()

		rec := serve(h, http.MethodPost, "/policies/assign", `{"userId":"`+userID.String()+`","policyId":"p-1"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), types.MsgPolicyNotFound)
	})

	t.Run("already assigned", func(t *testing.T) {
		h, _, as := setupPolicyHandlerTest()
		as.On("AssignPolicy", mock.Anything, userID, policyID).Return(nil, types.NewBadRequestError(types.MsgPolicyAlreadyAssigned)).Once()

		rec := serve(h, http.MethodPost, "/policies/assign", `{"userId":"`+userID.String()+`","policyId":"`+policyID.String()+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"BAD_REQUEST"`)
	})
}

func TestHandlerImpl_RemovePolicy(t *testing.T) {
	userID, policyID := uuid.New(), uuid.New()

	t.Run("no content", func(t *testing.T) {
		h, _, as := setupPolicyHandlerTest()
		as.On("RemovePolicy", mock.Anything, userID, policyID).Return(nil).Once()

		rec := serve(h, http.MethodDelete, "/policies/users/"+userID.String()+"/"+policyID.String(), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("not assigned", func(t *testing.T) {
		h, _, as := setupPolicyHandlerTest()
		as.On("RemovePolicy", mock.Anything, userID, policyID).Return(types.NewBadRequestError(types.MsgPolicyNotAssigned)).Once()

		rec := serve(h, http.MethodDelete, "/policies/users/"+userID.String()+"/"+policyID.String(), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), types.MsgPolicyNotAssigned)
	})
}
