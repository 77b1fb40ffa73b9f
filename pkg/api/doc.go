// Package api implements the JSON HTTP API of the router.
//
// Endpoints:
//
//	POST /api/query          generate an answer with the active provider
//	GET  /api/settings/llm   current settings, API keys masked
//	POST /api/settings/llm   replace the settings record
//	GET  /api/providers      active and available providers
//
// Errors share one shape:
//
//	{"error": {"message": "...", "type": "invalid_request_error", "code": "invalid_settings"}}
//
// A query made while no provider is usable is answered with 503, an invalid
// settings record with 400 and a failed settings write with 500.
package api
