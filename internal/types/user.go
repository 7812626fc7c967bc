package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	DateOfBirth     time.Time `json:"dateOfBirth"`
	Address         string    `json:"address"`
	PhoneNumber     string    `json:"phoneNumber"`
	Email           string    `json:"email"`
	ProfileImageURL *string   `json:"profileImageUrl"` // nil serializes as null
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UserWithPolicies is a user together with its policy assignments.
// Policies is never nil so it always serializes as an array.
type UserWithPolicies struct {
	User
	Policies []UserPolicyWithPolicy `json:"policies"`
}

// CreateUserParams is the request body for creating a user.
type CreateUserParams struct {
	Username        string  `json:"username" validate:"required,min=3,max=50" example:"jsmith"`
	FirstName       string  `json:"firstName" validate:"required,min=1,max=100" example:"John"`
	LastName        string  `json:"lastName" validate:"required,min=1,max=100" example:"Smith"`
	DateOfBirth     string  `json:"dateOfBirth" validate:"required,iso8601" example:"1985-03-15T00:00:00.000Z"`
	Address         string  `json:"address" validate:"required,min=1,max=500" example:"123 Main Street, New York, NY 10001"`
	PhoneNumber     string  `json:"phoneNumber" validate:"required,min=1,max=20" example:"+1-555-0101"`
	Email           string  `json:"email" validate:"required,email" example:"john.smith@email.com"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty" validate:"omitempty,url" example:"https://example.com/me.png"`
}

// UpdateUserParams defines the fields allowed for user updates.
// Nil pointers are left untouched.
type UpdateUserParams struct {
	Username        *string        `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	FirstName       *string        `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName        *string        `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	DateOfBirth     *string        `json:"dateOfBirth,omitempty" validate:"omitempty,iso8601"`
	Address         *string        `json:"address,omitempty" validate:"omitempty,min=1,max=500"`
	PhoneNumber     *string        `json:"phoneNumber,omitempty" validate:"omitempty,min=1,max=20"`
	Email           *string        `json:"email,omitempty" validate:"omitempty,email"`
	ProfileImageURL NullableString `json:"profileImageUrl" validate:"omitempty,url" swaggertype:"string"`
}

// requiredUpdateFields may be omitted from an update but never set to null.
var requiredUpdateFields = []string{"username", "firstName", "lastName", "dateOfBirth", "address", "phoneNumber", "email"}

// UnmarshalJSON rejects an explicit null on fields that cannot be cleared.
func (p *UpdateUserParams) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, name := range requiredUpdateFields {
		if v, ok := raw[name]; ok && string(v) == "null" {
			return NewValidationError("Validation error: " + name + ": must not be null")
		}
	}

	type plain UpdateUserParams
	return json.Unmarshal(data, (*plain)(p))
}

// UpdateProfileImageParams is the request body for PATCH /users/{id}/profile-image.
type UpdateProfileImageParams struct {
	ImageURL string `json:"imageUrl" validate:"required,url" example:"https://example.com/me.png"`
}

// NewUser is a validated user ready to be persisted.
type NewUser struct {
	ID              uuid.UUID
	Username        string
	FirstName       string
	LastName        string
	DateOfBirth     time.Time
	Address         string
	PhoneNumber     string
	Email           string
	ProfileImageURL *string
}

// UserChanges is a validated partial update. ProfileImageURL distinguishes
// "leave as is" (Set == false) from "clear" (Set with nil Value).
type UserChanges struct {
	Username        *string
	FirstName       *string
	LastName        *string
	DateOfBirth     *time.Time
	Address         *string
	PhoneNumber     *string
	Email           *string
	ProfileImageURL NullableString
}

// Empty reports whether no field would change.
func (c UserChanges) Empty() bool {
	return c.Username == nil && c.FirstName == nil && c.LastName == nil &&
		c.DateOfBirth == nil && c.Address == nil && c.PhoneNumber == nil &&
		c.Email == nil && !c.ProfileImageURL.Set
}

// NullableString tracks whether a JSON field was present, and whether it was null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}
