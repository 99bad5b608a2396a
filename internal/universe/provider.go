package universe

import (
	"context"
	"fmt"
	"time"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/pkg/logger"
	"github.com/crivelaro/garimpo/pkg/redis"
)

// SnapshotTTL bounds how long a cached universe is served before the store
// is consulted again. Refreshes invalidate eagerly; the TTL is the backstop.
const SnapshotTTL = 15 * time.Minute

// loader is the storage dependency of the provider.
type loader interface {
	Load(ctx context.Context, class contracts.AssetClass) (*contracts.Snapshot, error)
}

// Provider hands immutable universe snapshots to the engines, keeping them
// warm in Redis between refresh cycles. Callers must treat the returned
// snapshot as read-only.
type Provider struct {
	repo  loader
	cache *redis.Cache
	log   *logger.Logger
}

func NewProvider(repo loader, cache *redis.Cache, log *logger.Logger) *Provider {
	return &Provider{repo: repo, cache: cache, log: log}
}

// Snapshot returns the current universe of one asset class.
func (p *Provider) Snapshot(ctx context.Context, class contracts.AssetClass) (*contracts.Snapshot, error) {
	var snap contracts.Snapshot
	err := p.cache.GetOrSet(ctx, snapshotKey(class), &snap, SnapshotTTL, func() (interface{}, error) {
		loaded, err := p.repo.Load(ctx, class)
		if err != nil {
			return nil, err
		}
		p.log.Debugf("[universe] %s loaded from store: %d instruments", class, loaded.Count())
		return loaded, nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", class, err)
	}
	return &snap, nil
}

// Invalidate drops the cached snapshot after a refresh so the next request
// sees the new universe immediately.
func (p *Provider) Invalidate(ctx context.Context, class contracts.AssetClass) error {
	return p.cache.Delete(ctx, snapshotKey(class))
}

func snapshotKey(class contracts.AssetClass) string {
	return fmt.Sprintf("universe:%s", class)
}
