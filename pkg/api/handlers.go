package api

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"ragstack/llmrouter/pkg/providers"
	"ragstack/llmrouter/pkg/router"
	"ragstack/llmrouter/pkg/settings"
)

// Route paths.
const (
	QueryPath     = "/api/query"
	SettingsPath  = "/api/settings/llm"
	ProvidersPath = "/api/providers"
)

// Router is the part of *router.Router the handlers use.
type Router interface {
	GenerateAnswer(ctx context.Context, prompt, promptContext string) (router.Answer, error)
	UpdateSettings(ctx context.Context, s settings.Settings) error
	Settings() settings.Settings
	ActiveProvider() providers.ProviderID
	AvailableProviders() []providers.ProviderID
	Failures() map[providers.ProviderID]error
}

// Handler serves the query, settings and provider endpoints.
type Handler struct {
	router        Router
	logger        *slog.Logger
	settingsGuard func(http.Handler) http.Handler
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithSettingsGuard wraps the settings route in guard, typically
// middleware.AuthMiddleware for POST.
func WithSettingsGuard(guard func(http.Handler) http.Handler) HandlerOption {
	return func(h *Handler) {
		h.settingsGuard = guard
	}
}

// NewHandler creates a Handler. A nil logger uses slog.Default().
func NewHandler(r Router, logger *slog.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		router: r,
		logger: logger.With("component", "api"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(QueryPath, h.allow(h.handleQuery, http.MethodPost))

	var settingsHandler http.Handler = h.allow(h.handleSettings, http.MethodGet, http.MethodPost)
	if h.settingsGuard != nil {
		settingsHandler = h.settingsGuard(settingsHandler)
	}
	mux.Handle(SettingsPath, settingsHandler)

	mux.HandleFunc(ProvidersPath, h.allow(h.handleProviders, http.MethodGet))
}

// allow rejects methods outside methods with a JSON 405.
func (h *Handler) allow(next http.HandlerFunc, methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(methods, r.Method) {
			w.Header().Set("Allow", strings.Join(methods, ", "))
			h.writeError(w, r, NewErrorResponse(
				"method "+r.Method+" not allowed",
				ErrorTypeMethodNotAllowed, "", "",
			))
			return
		}
		next(w, r)
	}
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	req, err := ParseQueryRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	answer, err := h.router.GenerateAnswer(r.Context(), req.Query, req.Context)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, &QueryResponse{
		Answer:      answer.Text,
		Provider:    answer.Provider.String(),
		RequestID:   answer.RequestID,
		Placeholder: answer.Placeholder,
		Failed:      answer.TransportErr != nil,
	})
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.writeJSON(w, r, http.StatusOK, h.router.Settings().Redacted())
		return
	}

	s, err := ParseSettingsRequest(r, h.router.Settings())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.router.UpdateSettings(r.Context(), s); err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, &SettingsUpdateResponse{
		Status:             "success",
		Message:            "settings updated",
		ActiveProvider:     h.router.ActiveProvider().String(),
		AvailableProviders: idStrings(h.router.AvailableProviders()),
	})
}

func (h *Handler) handleProviders(w http.ResponseWriter, r *http.Request) {
	resp := &ProvidersResponse{
		Active:    h.router.ActiveProvider().String(),
		Available: idStrings(h.router.AvailableProviders()),
	}
	if failures := h.router.Failures(); len(failures) > 0 {
		resp.Failures = make(map[string]string, len(failures))
		for id, err := range failures {
			resp.Failures[id.String()] = err.Error()
		}
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// fail maps err to an error response and logs server-side failures.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	errResp := HandleError(err)
	if errResp.Error.HTTPStatusCode() >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"error", err,
		)
	} else {
		h.logger.DebugContext(r.Context(), "request rejected",
			"path", r.URL.Path,
			"error", err,
		)
	}
	h.writeError(w, r, errResp)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, errResp *ErrorResponse) {
	if err := WriteErrorResponse(w, errResp); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write error response", "error", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := WriteJSONResponse(w, status, data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

func idStrings(ids []providers.ProviderID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
