package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Absent and null skip the field's rules; any present string, empty
	// included, is checked against them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if n, ok := field.Interface().(types.NullableString); ok {
			return n.Value
		}
		return nil
	}, types.NullableString{})

	if err := v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("registering iso8601 validation: %v", err))
	}

	return v
}

// ParseTimestamp parses an ISO8601 date-time such as "1990-01-01T00:00:00.000Z".
// Fractional seconds are optional.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Validate checks struct tags and returns a validation error naming every
// offending field, e.g. "Validation error: username: must be at least 3 characters".
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating request: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), describeFieldError(fe)))
	}
	return types.NewValidationError("Validation error: " + strings.Join(msgs, ", "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "iso8601":
		return "must be an ISO8601 date-time"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// DecodeAndValidate decodes the JSON body into dst and validates it.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(w, r, dst); err != nil {
		return err
	}
	return Validate(dst)
}

// ParseID parses a path or body identifier. Anything that is not a UUID
// cannot name an existing row, so it is reported with notFoundMsg.
func ParseID(raw, notFoundMsg string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, types.NewNotFoundError(notFoundMsg)
	}
	return id, nil
}
