package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-policy-admin/internal/api"
	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListUsers(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
	UpdateUser(w http.ResponseWriter, r *http.Request)
	UpdateProfileImage(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create user HandlerImpl with nil logger!")
	}
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers godoc
// @Summary      List Users
// @Description  Returns every user ordered by last name, each with their assigned policies.
// @Tags         Users
// @Produce      json
// @Success      200 {array}  types.UserWithPolicies
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users [get]
func (h *HandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

// GetUser godoc
// @Summary      Get User
// @Description  Returns a single user with their assigned policies.
// @Tags         Users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200 {object} types.UserWithPolicies
// @Failure      404 {object} types.ErrorResponse "User not found"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users/{id} [get]
func (h *HandlerImpl) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := api.ParseID(chi.URLParam(r, "id"), types.MsgUserNotFound)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// CreateUser godoc
// @Summary      Create User
// @Description  Creates a user. Username and email must be unique.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user body     types.CreateUserParams true "User to create"
// @Success      201 {object} types.UserWithPolicies
// @Failure      400 {object} types.ErrorResponse "Validation error"
// @Failure      409 {object} types.ErrorResponse "Username or email already exists"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users [post]
func (h *HandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	var params types.CreateUserParams
	if err := api.DecodeAndValidate(w, r, &params); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), params)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary      Update User
// @Description  Partially updates a user. Only the supplied fields change.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id   path     string                 true "User ID"
// @Param        user body     types.UpdateUserParams true "Fields to update"
// @Success      200 {object} types.UserWithPolicies
// @Failure      400 {object} types.ErrorResponse "Validation error"
// @Failure      404 {object} types.ErrorResponse "User not found"
// @Failure      409 {object} types.ErrorResponse "Username or email already exists"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users/{id} [put]
func (h *HandlerImpl) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var params types.UpdateUserParams
	if err := api.DecodeAndValidate(w, r, &params); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	id, err := api.ParseID(chi.URLParam(r, "id"), types.MsgUserNotFound)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, params)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// UpdateProfileImage godoc
// @Summary      Update Profile Image
// @Description  Sets the profile image URL of a user.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id    path     string                         true "User ID"
// @Param        image body     types.UpdateProfileImageParams true "Image reference"
// @Success      200 {object} types.User
// @Failure      400 {object} types.ErrorResponse "Validation error"
// @Failure      404 {object} types.ErrorResponse "User not found"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users/{id}/profile-image [patch]
func (h *HandlerImpl) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	var params types.UpdateProfileImageParams
	if err := api.DecodeAndValidate(w, r, &params); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	id, err := api.ParseID(chi.URLParam(r, "id"), types.MsgUserNotFound)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.UpdateProfileImage(r.Context(), id, params.ImageURL)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}
