package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSONResponse writes data as a JSON response with statusCode.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes errResp with the status code of its type.
func WriteErrorResponse(w http.ResponseWriter, errResp *ErrorResponse) error {
	return WriteJSONResponse(w, errResp.Error.HTTPStatusCode(), errResp)
}
