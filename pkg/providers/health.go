package providers

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultHealthCheckTimeout bounds a single probe when the caller's context has no deadline.
const DefaultHealthCheckTimeout = 5 * time.Second

// ProbeEndpoint performs a lightweight GET against url with the given headers
// and updates health bookkeeping. Adapters call it from HealthCheck with their
// model-listing endpoint.
func (p *HTTPProvider) ProbeEndpoint(ctx context.Context, url string, headers map[string]string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultHealthCheckTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := p.DoRequest(ctx, http.MethodGet, url, nil, headers)
	latency := time.Since(start)
	if err != nil {
		p.logger.Error("health check failed",
			"error", err,
			"latency", latency,
		)
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	p.logger.Debug("health check passed", "latency", latency)
	return nil
}
