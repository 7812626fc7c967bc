package types

import (
	"time"

	"github.com/google/uuid"
)

// Policy is an insurance product. Policies are reference data and are only
// written by the seeder.
type Policy struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"shortDescription"`
	MonthlyPremium   float64   `json:"monthlyPremium"` // NUMERIC(10,2)
}

// UserPolicy links one user to one policy. (UserID, PolicyID) is unique.
type UserPolicy struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	PolicyID  uuid.UUID `json:"policyId"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserPolicyWithPolicy struct {
	UserPolicy
	Policy Policy `json:"policy"`
}

// AssignPolicyParams is the request body for POST /api/policies/assign.
type AssignPolicyParams struct {
	UserID   string `json:"userId" validate:"required" example:"0b9f5a9e-4c1e-4d51-9a4e-3c8f1f0d2b7a"`
	PolicyID string `json:"policyId" validate:"required" example:"7d2c8f61-0a3b-4e6f-8c1d-5b9e2a4f6c3d"`
}
