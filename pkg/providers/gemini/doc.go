// Package gemini implements the Gemini provider adapter for Google's
// generateContent API.
//
// Supplementary context is sent as the systemInstruction; the prompt is a
// single user content entry. Text parts of the first candidate are
// concatenated into the returned text. The API key travels in the
// x-goog-api-key header rather than the query string so it never appears in
// logged URLs.
package gemini
