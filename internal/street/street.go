// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package street estimates the width of the street at a coordinate.
package street

import (
	"context"
	"time"

	"github.com/wneessen/sunspot/internal/cache"
	"github.com/wneessen/sunspot/internal/geo"
)

// DefaultWidth is used whenever no better estimate is available (meters)
const DefaultWidth = 10.0

// coordPrecision is the precision used to quantize coordinates (0.0001 degrees ≈ 11 m)
const coordPrecision = 1e-4

// Estimator returns the street width in meters at the given coordinate.
type Estimator interface {
	Name() string
	Width(ctx context.Context, coords geo.Coordinate) (float64, error)
}

// CacheObserver is notified about every cache lookup.
type CacheObserver interface {
	CacheLookup(cache string, hit bool)
}

// Static always returns the same width.
type Static struct {
	width float64
}

func NewStatic(width float64) *Static {
	return &Static{width: width}
}

func (s *Static) Name() string {
	return "static"
}

func (s *Static) Width(context.Context, geo.Coordinate) (float64, error) {
	return s.width, nil
}

type cacheKey struct {
	Provider string
	cache.CoordKey
}

// CachedEstimator memoizes the widths returned by another Estimator. Errors are not cached.
type CachedEstimator struct {
	estimator Estimator
	ttl       time.Duration
	observer  CacheObserver
	widths    *cache.TTL[cacheKey, float64]
}

func NewCachedEstimator(estimator Estimator, ttl time.Duration) *CachedEstimator {
	return &CachedEstimator{
		estimator: estimator,
		ttl:       ttl,
		widths:    cache.New[cacheKey, float64](),
	}
}

// Observe registers an observer for cache hits and misses.
func (c *CachedEstimator) Observe(observer CacheObserver) {
	c.observer = observer
}

func (c *CachedEstimator) Name() string {
	return "street width cache using " + c.estimator.Name()
}

func (c *CachedEstimator) Width(ctx context.Context, coords geo.Coordinate) (float64, error) {
	key := cacheKey{
		Provider: c.estimator.Name(),
		CoordKey: cache.NewCoordKey(coords.Lat, coords.Lon, coordPrecision),
	}
	if width, ok := c.widths.Get(key); ok {
		c.notify(true)
		return width, nil
	}
	c.notify(false)

	width, err := c.estimator.Width(ctx, coords)
	if err != nil {
		return width, err
	}
	c.widths.Set(key, width, c.ttl)

	return width, nil
}

// Purge drops expired entries and returns how many were removed.
func (c *CachedEstimator) Purge() int {
	return c.widths.Purge()
}

func (c *CachedEstimator) notify(hit bool) {
	if c.observer != nil {
		c.observer.CacheLookup("street_width", hit)
	}
}
