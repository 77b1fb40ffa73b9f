package api

import (
	"errors"
	"fmt"
	"net/http"

	"ragstack/llmrouter/pkg/router"
	"ragstack/llmrouter/pkg/settings"
)

// RequestError is a malformed or incomplete request body.
type RequestError struct {
	Message string
	Param   string
	Code    string
	Cause   error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("invalid request (%s): %s", e.Param, e.Message)
	}
	return "invalid request: " + e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// HandleError maps an error returned by the router or the request decoder
// to an error response. Unknown errors become a generic 500 so internal
// details are not exposed.
func HandleError(err error) *ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return NewErrorResponse(reqErr.Message, ErrorTypeInvalidRequest, reqErr.Param, reqErr.Code)
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return NewErrorResponse(
			fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
			ErrorTypeInvalidRequest, "", CodeRequestTooLarge,
		)
	}

	var validationErr *settings.ValidationError
	if errors.As(err, &validationErr) {
		resp := NewErrorResponse(validationErr.Error(), ErrorTypeInvalidRequest, "", CodeInvalidSettings)
		for _, fe := range validationErr.Errors {
			resp.Error.Fields = append(resp.Error.Fields, FieldDetail{Field: fe.Field, Message: fe.Message})
		}
		if len(resp.Error.Fields) == 1 {
			resp.Error.Param = resp.Error.Fields[0].Field
		}
		return resp
	}

	var persistErr *settings.PersistenceError
	if errors.As(err, &persistErr) {
		return NewErrorResponse("settings could not be saved", ErrorTypeServerError, "", CodePersistenceFailed)
	}

	if errors.Is(err, router.ErrNoActiveProvider) {
		return NewErrorResponse(err.Error(), ErrorTypeServiceUnavailable, "", CodeProviderUnavailable)
	}

	if errors.Is(err, router.ErrClosed) {
		return NewErrorResponse("server is shutting down", ErrorTypeServiceUnavailable, "", CodeShuttingDown)
	}

	return NewErrorResponse(
		"An internal error occurred. Please try again later.",
		ErrorTypeServerError, "", "",
	)
}
