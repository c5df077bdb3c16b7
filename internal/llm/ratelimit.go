package llm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"resumelens/internal/logging"
)

// providerLimiter tracks rate limiting state for a single provider
type providerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	requests int64
	mu       sync.RWMutex
}

// OutboundLimiter throttles outbound vendor calls per provider. A nil
// limiter is valid and disables throttling entirely.
type OutboundLimiter struct {
	perMinute int
	limiters  map[string]*providerLimiter
	mu        sync.Mutex
}

// NewOutboundLimiter creates a per-provider outbound limiter. A rate of
// zero or less disables throttling and returns nil.
func NewOutboundLimiter(requestsPerMinute int) *OutboundLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return &OutboundLimiter{
		perMinute: requestsPerMinute,
		limiters:  make(map[string]*providerLimiter),
	}
}

// Wait blocks until the provider's bucket permits another call or the
// context is done. Unlike inbound limiting, outbound calls queue rather
// than fail when the bucket is momentarily empty.
func (ol *OutboundLimiter) Wait(ctx context.Context, provider string) error {
	if ol == nil {
		return nil
	}

	pl := ol.getProviderLimiter(provider)
	if err := pl.limiter.Wait(ctx); err != nil {
		return err
	}

	pl.mu.Lock()
	pl.requests++
	pl.lastSeen = time.Now()
	pl.mu.Unlock()

	return nil
}

// getProviderLimiter gets or creates a rate limiter for a provider
func (ol *OutboundLimiter) getProviderLimiter(provider string) *providerLimiter {
	ol.mu.Lock()
	defer ol.mu.Unlock()

	if pl, exists := ol.limiters[provider]; exists {
		return pl
	}

	// Rate limit: requests per minute converted to requests per second
	rps := rate.Limit(float64(ol.perMinute) / 60.0)
	burst := 5

	pl := &providerLimiter{
		limiter:  rate.NewLimiter(rps, burst),
		lastSeen: time.Now(),
	}
	ol.limiters[provider] = pl

	logger := logging.GetGlobalLogger()
	logger.Info("Created new provider rate limiter", map[string]interface{}{
		"provider": provider,
		"rate":     float64(rps),
		"burst":    burst,
	})

	return pl
}

// GetStats returns per-provider call counts for diagnostics
func (ol *OutboundLimiter) GetStats() map[string]map[string]interface{} {
	if ol == nil {
		return nil
	}

	ol.mu.Lock()
	defer ol.mu.Unlock()

	stats := make(map[string]map[string]interface{})
	for provider, pl := range ol.limiters {
		pl.mu.RLock()
		stats[provider] = map[string]interface{}{
			"requests":  pl.requests,
			"last_seen": pl.lastSeen,
			"limit":     float64(pl.limiter.Limit()),
			"burst":     pl.limiter.Burst(),
		}
		pl.mu.RUnlock()
	}

	return stats
}
