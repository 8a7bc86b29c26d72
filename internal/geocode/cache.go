// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wneessen/sunspot/internal/cache"
	"github.com/wneessen/sunspot/internal/geo"
)

// coordPrecision is the precision used to quantize coordinates (0.0001 degrees ≈ 11 m)
const coordPrecision = 1e-4

type reverseKey struct {
	Provider string
	cache.CoordKey
}

type searchKey struct {
	Provider string
	Query    string
}

type searchEntry struct {
	Coords geo.Coordinate
	Found  bool
}

// CachedGeocoder memoizes the results of another Geocoder. Found results are kept for
// ttlHit, negative results for ttlMiss.
type CachedGeocoder struct {
	coder    Geocoder
	ttlHit   time.Duration
	ttlMiss  time.Duration
	observer CacheObserver

	reverse *cache.TTL[reverseKey, Address]
	search  *cache.TTL[searchKey, searchEntry]
}

func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		reverse: cache.New[reverseKey, Address](),
		search:  cache.New[searchKey, searchEntry](),
	}
}

// Observe registers an observer for cache hits and misses.
func (c *CachedGeocoder) Observe(observer CacheObserver) {
	c.observer = observer
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

func (c *CachedGeocoder) Reverse(ctx context.Context, coords geo.Coordinate) (Address, error) {
	key := reverseKey{
		Provider: c.coder.Name(),
		CoordKey: cache.NewCoordKey(coords.Lat, coords.Lon, coordPrecision),
	}
	if addr, ok := c.reverse.Get(key); ok {
		c.notify("reverse", true)
		addr.CacheHit = true
		return addr, nil
	}
	c.notify("reverse", false)

	addr, err := c.coder.Reverse(ctx, coords)
	if err != nil {
		return addr, err
	}

	ttl := c.ttlHit
	if !addr.AddressFound {
		ttl = c.ttlMiss
	}
	c.reverse.Set(key, addr, ttl)

	return addr, nil
}

// Search returns cached coordinates for the normalized query. ErrNotFound results are
// cached as well; other errors are not.
func (c *CachedGeocoder) Search(ctx context.Context, query string) (geo.Coordinate, error) {
	key := searchKey{
		Provider: c.coder.Name(),
		Query:    strings.ToLower(strings.Join(strings.Fields(query), " ")),
	}
	if entry, ok := c.search.Get(key); ok {
		c.notify("search", true)
		if !entry.Found {
			return geo.Coordinate{}, ErrNotFound
		}
		return entry.Coords, nil
	}
	c.notify("search", false)

	coords, err := c.coder.Search(ctx, query)
	switch {
	case errors.Is(err, ErrNotFound):
		c.search.Set(key, searchEntry{}, c.ttlMiss)
		return coords, err
	case err != nil:
		return coords, err
	}
	c.search.Set(key, searchEntry{Coords: coords, Found: true}, c.ttlHit)

	return coords, nil
}

// Purge drops expired entries and returns how many were removed.
func (c *CachedGeocoder) Purge() int {
	return c.reverse.Purge() + c.search.Purge()
}

func (c *CachedGeocoder) notify(kind string, hit bool) {
	if c.observer != nil {
		c.observer.CacheLookup("geocode_"+kind, hit)
	}
}
