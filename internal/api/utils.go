package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

// Error codes sent in the error body.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeBadRequest = "BAD_REQUEST"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_ERROR"
)

// ErrorResponse writes the standard JSON error body.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSONResponse(w, r, status, types.ErrorResponse{
		Error: types.ErrorDetail{Message: message, Code: code},
	})
}

// HandleError translates a service error into a response. Domain errors map
// 1:1 onto a status; anything else is logged and reported as a generic 500.
func HandleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Unhandled error",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		ErrorResponse(w, r, status, code, types.MsgInternal)
		return
	}

	message := err.Error()
	var domainErr *types.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	logger.WarnContext(r.Context(), "Request failed", slog.Int("status", status), slog.String("message", message))
	ErrorResponse(w, r, status, code, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, types.ErrBadRequest):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// WriteJSONResponse encodes the data to JSON and writes the response header and body.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		// Status is already sent.
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// DecodeJSONBody reads and decodes a JSON request body safely. Every failure
// is a validation error.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var typedErr *types.Error
		if errors.As(err, &typedErr) {
			return err
		}
		return types.NewValidationError(describeDecodeError(err))
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return types.NewValidationError("Validation error: body must only contain a single JSON value")
	}

	return nil
}

func describeDecodeError(err error) string {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxError):
		return fmt.Sprintf("Validation error: body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return "Validation error: body contains badly-formed JSON"

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Sprintf("Validation error: %s: expected %s", unmarshalTypeError.Field, unmarshalTypeError.Type)
		}
		return fmt.Sprintf("Validation error: body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return "Validation error: body must not be empty"

	case errors.As(err, &maxBytesError):
		return fmt.Sprintf("Validation error: body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(fmt.Errorf("developer error: invalid argument passed to json.Unmarshal: %w", err))

	default:
		return fmt.Sprintf("Validation error: %s", err.Error())
	}
}
