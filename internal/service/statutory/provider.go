package statutory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
)

// ConfigProvider hands out the statutory config snapshot to all concurrent
// pipeline invocations. Load-once with a TTL, explicit invalidation when
// configuration is edited, and compiled-in defaults when the store is
// unreachable.
type ConfigProvider struct {
	repo statutory.ConfigRepository
	ttl  time.Duration

	mu       sync.RWMutex
	cached   statutory.Config
	source   statutory.ConfigSource
	loadedAt time.Time
}

func NewConfigProvider(repo statutory.ConfigRepository, ttl time.Duration) *ConfigProvider {
	return &ConfigProvider{repo: repo, ttl: ttl}
}

// Get returns the active snapshot and where it came from. The snapshot is
// read-only and safely shared.
func (p *ConfigProvider) Get(ctx context.Context) (statutory.Config, statutory.ConfigSource) {
	p.mu.RLock()
	if !p.loadedAt.IsZero() && time.Since(p.loadedAt) < p.ttl {
		cfg, src := p.cached, p.source
		p.mu.RUnlock()
		return cfg, src
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if !p.loadedAt.IsZero() && time.Since(p.loadedAt) < p.ttl {
		return p.cached, p.source
	}

	cfg, err := p.repo.GetLatest(ctx)
	if err != nil {
		slog.Warn("statutory config store unreachable, using fallback defaults", "error", err)
		if p.loadedAt.IsZero() {
			p.cached = statutory.Defaults()
			p.source = statutory.ConfigSourceFallback
			p.loadedAt = time.Now()
		}
		// A previously loaded snapshot outlives its TTL rather than being
		// replaced by defaults.
		return p.cached, p.source
	}

	p.cached = cfg
	p.source = statutory.ConfigSourceStore
	p.loadedAt = time.Now()

	return p.cached, p.source
}

// Invalidate drops the cached snapshot. Wired to the configuration edit
// hook so the next Get reloads from the store.
func (p *ConfigProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadedAt = time.Time{}
	slog.Info("statutory config cache invalidated")
}
