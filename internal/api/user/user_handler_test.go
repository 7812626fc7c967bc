package user

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
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

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]types.UserWithPolicies, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserWithPolicies), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*types.UserWithPolicies, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserWithPolicies), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, params types.CreateUserParams) (*types.UserWithPolicies, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserWithPolicies), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id uuid.UUID, params types.UpdateUserParams) (*types.UserWithPolicies, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserWithPolicies), args.Error(1)
}

func (m *MockUserService) UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL string) (*types.User, error) {
	args := m.Called(ctx, id, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func setupUserHandlerTest() (http.Handler, *MockUserService) {
	svc := new(MockUserService)
	h := NewHandlerImpl(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Get("/users", h.ListUsers)
	r.Post("/users", h.CreateUser)
	r.Get("/users/{id}", h.GetUser)
	r.Put("/users/{id}", h.UpdateUser)
	r.Patch("/users/{id}/profile-image", h.UpdateProfileImage)
	return r, svc
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorDetail {
	t.Helper()
	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

const validCreateBody = `{
	"username": "jsmith",
	"firstName": "John",
	"lastName": "Smith",
	"dateOfBirth": "1985-03-15T00:00:00.000Z",
	"address": "123 Main Street",
	"phoneNumber": "+1-555-0101",
	"email": "john.smith@email.com"
}`

func TestHandlerImpl_CreateUser(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, svc := setupUserHandlerTest()
		id := uuid.New()
		svc.On("CreateUser", mock.Anything, mock.MatchedBy(func(p types.CreateUserParams) bool {
			return p.Username == "jsmith" && p.ProfileImageURL == nil
		})).Return(&types.UserWithPolicies{User: types.User{ID: id, Username: "jsmith"}, Policies: []types.UserPolicyWithPolicy{}}, nil).Once()

		rec := doRequest(h, http.MethodPost, "/users", validCreateBody)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, id.String(), got["id"])
		assert.Equal(t, []interface{}{}, got["policies"])
		assert.Contains(t, got, "profileImageUrl")
		svc.AssertExpectations(t)
	})

	t.Run("short username is rejected before the service", func(t *testing.T) {
		h, svc := setupUserHandlerTest()
		body := strings.Replace(validCreateBody, `"jsmith"`, `"ab"`, 1)

		rec := doRequest(h, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		detail := errorBody(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", detail.Code)
		assert.Contains(t, detail.Message, "username")
		svc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("conflict", func(t *testing.T) {
		h, svc := setupUserHandlerTest()
		svc.On("CreateUser", mock.Anything, mock.Anything).Return(nil, types.NewConflictError(types.MsgUsernameExists)).Once()

		rec := doRequest(h, http.MethodPost, "/users", validCreateBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, types.MsgUsernameExists, errorBody(t, rec).Message)
	})
}

func TestHandlerImpl_GetUser(t *testing.T) {
	t.Run("non-uuid id is not found", func(t *testing.T) {
		h, svc := setupUserHandlerTest()

		rec := doRequest(h, http.MethodGet, "/users/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, types.MsgUserNotFound, errorBody(t, rec).Message)
		svc.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("found", func(t *testing.T) {
		h, svc := setupUserHandlerTest()
		id := uuid.New()
		svc.On("GetUser", mock.Anything, id).Return(&types.UserWithPolicies{User: types.User{ID: id}}, nil).Once()

		rec := doRequest(h, http.MethodGet, "/users/"+id.String(), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unexpected failure hides details", func(t *testing.T) {
		h, svc := setupUserHandlerTest()
		id := uuid.New()
		svc.On("GetUser", mock.Anything, id).Return(nil, assert.AnError).Once()

		rec := doRequest(h, http.MethodGet, "/users/"+id.String(), "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		detail := errorBody(t, rec)
		assert.Equal(t, types.MsgInternal, detail.Message)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func TestHandlerImpl_UpdateUser(t *testing.T) {
	h, svc := setupUserHandlerTest()
	id := uuid.New()
	svc.On("UpdateUser", mock.Anything, id, mock.MatchedBy(func(p types.UpdateUserParams) bool {
		return p.Email != nil && *p.Email == "new@email.com" && p.Username == nil &&
			p.ProfileImageURL.Set && p.ProfileImageURL.Value == nil
	})).Return(&types.UserWithPolicies{User: types.User{ID: id, Email: "new@email.com"}}, nil).Once()

	rec := doRequest(h, http.MethodPut, "/users/"+id.String(), `{"email":"new@email.com","profileImageUrl":null}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandlerImpl_UpdateProfileImage(t *testing.T) {
	t.Run("missing imageUrl", func(t *testing.T) {
		h, _ := setupUserHandlerTest()

		rec := doRequest(h, http.MethodPatch, "/users/"+uuid.NewString()+"/profile-image", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorBody(t, rec).Message, "imageUrl: is required")
	})

	t.Run("updated", func(t *testing.T) {
		h, svc := setupUserHandlerTest()
		id := uuid.New()
		url := "https://example.com/me.png"
		svc.On("UpdateProfileImage", mock.Anything, id, url).Return(&types.User{ID: id, ProfileImageURL: &url}, nil).Once()

		rec := doRequest(h, http.MethodPatch, "/users/"+id.String()+"/profile-image", `{"imageUrl":"`+url+`"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), url)
	})
}
