// Package cache provides read-through caching for catalog data that never changes at runtime.
// Lookups check an in-process ccache first, then Redis, then the wrapped repository.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/karlseguin/ccache/v3"

	"github.com/asc-rental-marketplace/internal/domain/purchase"
)

const (
	packageListKey   = "packages:all"
	packageKeyPrefix = "packages:"
	localMaxSize     = 1000
)

// PackageCache decorates a purchase.PackageRepository with two cache levels
type PackageCache struct {
	next   purchase.PackageRepository
	local  *ccache.Cache[[]*purchase.Package]
	remote RemoteCache
	ttl    time.Duration
	logger *slog.Logger
}

func NewPackageCache(logger *slog.Logger, next purchase.PackageRepository, remote RemoteCache, ttl time.Duration) *PackageCache {
	return &PackageCache{
		next:   next,
		local:  ccache.New(ccache.Configure[[]*purchase.Package]().MaxSize(localMaxSize)),
		remote: remote,
		ttl:    ttl,
		logger: logger,
	}
}

// WithTx bypasses both cache levels; reads inside a transaction go to the database
func (c *PackageCache) WithTx(tx pgx.Tx) purchase.PackageRepository {
	return c.next.WithTx(tx)
}

func (c *PackageCache) List(ctx context.Context) ([]*purchase.Package, error) {
	if packages, ok := c.lookup(ctx, packageListKey); ok {
		return packages, nil
	}

	packages, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, packageListKey, packages)
	return packages, nil
}

// GetByID caches hits only, so a NotFound is always answered by the repository
func (c *PackageCache) GetByID(ctx context.Context, id string) (*purchase.Package, error) {
	key := packageKeyPrefix + id
	if packages, ok := c.lookup(ctx, key); ok && len(packages) == 1 {
		return packages[0], nil
	}

	pkg, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, []*purchase.Package{pkg})
	return pkg, nil
}

// Invalidate drops every cached catalog entry in both levels. The API calls it at startup because
// migrations may have changed coin_packages since other instances filled Redis.
func (c *PackageCache) Invalidate(ctx context.Context) {
	c.local.Clear()

	if err := c.remote.DeletePrefix(ctx, packageKeyPrefix); err != nil {
		c.logger.Warn("Failed to invalidate remote package cache", "error", err)
		return
	}
	c.logger.Info("Package cache invalidated")
}

func (c *PackageCache) lookup(ctx context.Context, key string) ([]*purchase.Package, bool) {
	if item := c.local.Get(key); item != nil && !item.Expired() {
		return item.Value(), true
	}

	raw, ok, err := c.remote.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Remote cache read failed, falling back to database", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var packages []*purchase.Package
	if err := json.Unmarshal(raw, &packages); err != nil {
		c.logger.Warn("Discarding undecodable remote cache entry", "key", key, "error", err)
		return nil, false
	}

	c.local.Set(key, packages, c.ttl)
	return packages, true
}

func (c *PackageCache) store(ctx context.Context, key string, packages []*purchase.Package) {
	c.local.Set(key, packages, c.ttl)

	raw, err := json.Marshal(packages)
	if err != nil {
		c.logger.Warn("Failed to encode packages for remote cache", "key", key, "error", err)
		return
	}
	if err := c.remote.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("Failed to write remote package cache", "key", key, "error", err)
	}
}
