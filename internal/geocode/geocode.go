// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"

	"github.com/wneessen/sunspot/internal/geo"
)

// UnknownLocation is the label used when an address could not be resolved.
const UnknownLocation = "Unknown Location"

var ErrNotFound = errors.New("location not found")

type Address struct {
	AddressFound bool
	CacheHit     bool
	Latitude     float64
	Longitude    float64
	DisplayName  string
	Country      string
	State        string
	CityDistrict string
	Postcode     string
	City         string
	Suburb       string
	Street       string
	HouseNumber  string
}

// Label returns the display name of the address or UnknownLocation.
func (a Address) Label() string {
	if !a.AddressFound || a.DisplayName == "" {
		return UnknownLocation
	}
	return a.DisplayName
}

// Geocoder resolves free-text places to coordinates and coordinates back to addresses.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) (geo.Coordinate, error)
	Reverse(ctx context.Context, coords geo.Coordinate) (Address, error)
}

// CacheObserver is notified about every cache lookup.
type CacheObserver interface {
	CacheLookup(cache string, hit bool)
}
