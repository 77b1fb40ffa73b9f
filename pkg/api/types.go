package api

import "net/http"

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	// Query is the user question.
	Query string `json:"query"`

	// Context is optional supplementary text, typically retrieved documents.
	Context string `json:"context,omitempty"`
}

// QueryResponse is returned by POST /api/query.
type QueryResponse struct {
	Answer    string `json:"answer"`
	Provider  string `json:"provider"`
	RequestID string `json:"request_id"`

	// Placeholder is set when Answer is the debug-mode placeholder.
	Placeholder bool `json:"placeholder,omitempty"`

	// Failed is set when Answer carries the text of a provider failure.
	Failed bool `json:"failed,omitempty"`
}

// SettingsUpdateResponse is returned by a successful POST /api/settings/llm.
type SettingsUpdateResponse struct {
	Status             string   `json:"status"`
	Message            string   `json:"message"`
	ActiveProvider     string   `json:"active_provider"`
	AvailableProviders []string `json:"available_providers"`
}

// ProvidersResponse is returned by GET /api/providers.
type ProvidersResponse struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`

	// Failures maps a provider to the reason its client could not be built.
	Failures map[string]string `json:"failures,omitempty"`
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error (see the ErrorType constants).
	Type string `json:"type"`

	// Param names the request field that caused the error, if any.
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`

	// Fields lists every field failure of a rejected settings record.
	Fields []FieldDetail `json:"fields,omitempty"`
}

// FieldDetail is one rejected field of a settings record.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types.
const (
	ErrorTypeInvalidRequest     = "invalid_request_error"
	ErrorTypeAuthentication     = "authentication_error"
	ErrorTypeNotFound           = "not_found"
	ErrorTypeMethodNotAllowed   = "method_not_allowed"
	ErrorTypeServerError        = "server_error"
	ErrorTypeServiceUnavailable = "service_unavailable"
)

// Error codes.
const (
	CodeMissingField        = "missing_field"
	CodeInvalidValue        = "invalid_value"
	CodeInvalidJSON         = "invalid_json"
	CodeRequestTooLarge     = "request_too_large"
	CodeInvalidSettings     = "invalid_settings"
	CodePersistenceFailed   = "persistence_failed"
	CodeProviderUnavailable = "provider_unavailable"
	CodeShuttingDown        = "shutting_down"
)

// HTTPStatusCode returns the HTTP status code for the error type.
func (e ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		if e.Code == CodeRequestTooLarge {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorTypeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
			Code:    code,
		},
	}
}
