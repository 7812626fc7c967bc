package policy

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-policy-admin/internal/api"
	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListPolicies(w http.ResponseWriter, r *http.Request)
	AssignPolicy(w http.ResponseWriter, r *http.Request)
	RemovePolicy(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	policyService     PolicyService
	assignmentService AssignmentService
	logger            *slog.Logger
}

func NewHandlerImpl(policyService PolicyService, assignmentService AssignmentService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		policyService:     policyService,
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// ListPolicies godoc
// @Summary      List Policies
// @Description  Returns every policy ordered by name.
// @Tags         Policies
// @Produce      json
// @Success      200 {array}  types.Policy
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /policies [get]
func (h *HandlerImpl) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.policyService.ListPolicies(r.Context())
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, policies)
}

// AssignPolicy godoc
// @Summary      Assign Policy
// @Description  Assigns a policy to a user.
// @Tags         Policies
// @Accept       json
// @Produce      json
// @Param        assignment body     types.AssignPolicyParams true "User and policy"
// @Success      201 {object} types.UserPolicyWithPolicy
// @Failure      400 {object} types.ErrorResponse "User already has this policy"
// @Failure      404 {object} types.ErrorResponse "User or policy not found"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /policies/assign [post]
func (h *HandlerImpl) AssignPolicy(w http.ResponseWriter, r *http.Request) {
	var params types.AssignPolicyParams
	if err := api.DecodeAndValidate(w, r, &params); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	userID, err := api.ParseID(params.UserID, types.MsgUserNotFound)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	policyID, err := api.ParseID(params.PolicyID, types.MsgPolicyNotFound)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	link, err := h.assignmentService.AssignPolicy(r.Context(), userID, policyID)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, link)
}

// RemovePolicy godoc
// @Summary      Remove Policy
// @Description  Removes a policy from a user.
// @Tags         Policies
// @Param        userId   path string true "User ID"
// @Param        policyId path string true "Policy ID"
// @Success      204 "No Content"
// @Failure      400 {object} types.ErrorResponse "User does not have this policy"
// @Failure      404 {object} types.ErrorResponse "User or policy not found"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /policies/users/{userId}/{policyId} [delete]
func (h *HandlerImpl) RemovePolicy(w http.ResponseWriter, r *http.Request) {
	userID, err := api.ParseID(chi.URLParam(r, "userId"), types.MsgUserNotFound)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	policyID, err := api.ParseID(chi.URLParam(r, "policyId"), types.MsgPolicyNotFound)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	if err := h.assignmentService.RemovePolicy(r.Context(), userID, policyID); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
