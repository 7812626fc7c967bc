package types

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message" example:"User not found"`
	Code    string `json:"code" example:"NOT_FOUND"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
