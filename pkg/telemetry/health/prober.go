package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ragstack/llmrouter/pkg/providers"
	"ragstack/llmrouter/pkg/telemetry/metrics"

	"github.com/robfig/cron/v3"
)

// Prober probes provider clients on a cron schedule and publishes the
// results to the provider_health gauge.
type Prober struct {
	source   ProviderSource
	schedule string
	timeout  time.Duration
	metrics  *metrics.Collector
	logger   *slog.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	running bool

	resultsMu sync.RWMutex
	results   map[providers.ProviderID]error
	lastRun   time.Time
}

// NewProber creates a prober. An empty schedule disables Start. The
// collector may be nil.
func NewProber(source ProviderSource, schedule string, timeout time.Duration, collector *metrics.Collector) *Prober {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Prober{
		source:   source,
		schedule: schedule,
		timeout:  timeout,
		metrics:  collector,
		logger:   slog.Default().With("component", "health.prober"),
		cron:     cron.New(),
	}
}

// Start schedules probing. The first probe runs immediately. Probing
// stops when ctx is cancelled or Stop is called.
//
// Common schedules:
//   - "@every 1m"    - every minute
//   - "*/5 * * * *"  - every five minutes
func (p *Prober) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.schedule == "" {
		p.logger.Info("health schedule not configured, skipping prober")
		return nil
	}
	if p.running {
		return nil
	}

	if _, err := cron.ParseStandard(p.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.schedule, err)
	}

	if _, err := p.cron.AddFunc(p.schedule, func() {
		p.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule health probe: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("health prober started", "schedule", p.schedule, "timeout", p.timeout)

	go p.RunOnce(ctx)
	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// RunOnce probes every registered client and records the results.
func (p *Prober) RunOnce(ctx context.Context) map[providers.ProviderID]error {
	checkCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	results := p.source.CheckHealth(checkCtx)

	p.resultsMu.Lock()
	previous := p.results
	p.results = results
	p.lastRun = time.Now()
	p.resultsMu.Unlock()

	for id := range previous {
		if _, ok := results[id]; !ok {
			p.metrics.ForgetProvider(id.String())
		}
	}

	for id, err := range results {
		p.metrics.UpdateProviderHealth(id.String(), err == nil)
		if err != nil {
			p.logger.Warn("provider health check failed", "provider", id, "error", err)
			continue
		}
		p.logger.Debug("provider healthy", "provider", id)
	}

	return results
}

// Results returns a copy of the most recent probe results and when they
// were taken. The time is zero before the first probe.
func (p *Prober) Results() (map[providers.ProviderID]error, time.Time) {
	p.resultsMu.RLock()
	defer p.resultsMu.RUnlock()

	out := make(map[providers.ProviderID]error, len(p.results))
	for id, err := range p.results {
		out[id] = err
	}
	return out, p.lastRun
}

// Stop stops the scheduler and waits for a running probe to complete.
func (p *Prober) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		<-p.cron.Stop().Done()
		p.running = false
		p.logger.Info("health prober stopped")
	}
}

// IsRunning returns true if the prober is scheduled.
func (p *Prober) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

// NextRun returns the next scheduled probe time, or nil when not scheduled.
func (p *Prober) NextRun() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
