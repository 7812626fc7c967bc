package types

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("requested item not found")
	ErrConflict   = errors.New("item already exists or conflict")
)

// Messages returned to clients.
const (
	MsgUserNotFound          = "User not found"
	MsgPolicyNotFound        = "Policy not found"
	MsgUsernameExists        = "Username already exists"
	MsgEmailExists           = "Email already exists"
	MsgPolicyAlreadyAssigned = "User already has this policy"
	MsgPolicyNotAssigned     = "User does not have this policy"
	MsgRouteNotFound         = "Route not found"
	MsgInternal              = "Internal server error"
)

// Error is a domain failure with a message safe to show to clients.
// Kind is one of the Err* sentinels so callers can use errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NewValidationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func NewBadRequestError(msg string) error {
	return &Error{Kind: ErrBadRequest, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}
