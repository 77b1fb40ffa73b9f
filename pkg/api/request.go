package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"ragstack/llmrouter/pkg/settings"
)

// readBody reads the full request body. An *http.MaxBytesError from the
// body limit middleware is returned unchanged.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, &RequestError{Message: "failed to read request body", Code: CodeInvalidJSON, Cause: err}
	}
	return data, nil
}

// ParseQueryRequest decodes and validates a query body.
func ParseQueryRequest(r *http.Request) (*QueryRequest, error) {
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}

	var req QueryRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &RequestError{Message: "request body must be a JSON object", Code: CodeInvalidJSON, Cause: err}
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, &RequestError{Message: "query is required", Param: "query", Code: CodeMissingField}
	}
	return &req, nil
}

// ParseSettingsRequest decodes a settings record. API keys sent back in
// their masked display form are replaced with the matching key from
// current, so a record fetched with GET can be edited and posted back.
func ParseSettingsRequest(r *http.Request, current settings.Settings) (settings.Settings, error) {
	data, err := readBody(r)
	if err != nil {
		return settings.Settings{}, err
	}

	incoming, err := settings.Parse(data)
	if err != nil {
		var verr *settings.ValidationError
		if errors.As(err, &verr) {
			return settings.Settings{}, err
		}
		return settings.Settings{}, &RequestError{Message: err.Error(), Code: CodeInvalidJSON, Cause: err}
	}

	return restoreMaskedKeys(incoming, current), nil
}

func restoreMaskedKeys(incoming, current settings.Settings) settings.Settings {
	for id, cfg := range incoming.Providers {
		prev, ok := current.Provider(id)
		if !ok || prev.APIKey == "" || cfg.APIKey == "" {
			continue
		}
		if cfg.APIKey == settings.MaskSecret(prev.APIKey) {
			cfg.APIKey = prev.APIKey
			incoming.Providers[id] = cfg
		}
	}
	return incoming
}
