// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import (
	"errors"
	"fmt"

	"github.com/tidwall/geodesic"
)

// DefaultBearingInterval yields the eight compass directions.
const DefaultBearingInterval = 45

var (
	ErrInvalidRadius   = errors.New("radius must be a positive number of meters")
	ErrInvalidInterval = errors.New("bearing interval must be a positive divisor of 360")
)

// Destination projects distance meters from origin along the WGS-84 geodesic with the
// given initial bearing (degrees clockwise from true north).
func Destination(origin Coordinate, bearing, distance float64) Coordinate {
	var lat, lon float64
	geodesic.WGS84.Direct(origin.Lat, origin.Lon, bearing, distance, &lat, &lon, nil)
	return Coordinate{Lat: lat, Lon: lon}
}

// Bearings returns 0, interval, 2*interval, ... up to but excluding 360.
func Bearings(interval int) ([]float64, error) {
	if interval <= 0 || interval > 360 || 360%interval != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidInterval, interval)
	}
	bearings := make([]float64, 0, 360/interval)
	for b := 0; b < 360; b += interval {
		bearings = append(bearings, float64(b))
	}
	return bearings, nil
}

// Nearby returns one coordinate per bearing at radius meters around origin, in bearing order.
func Nearby(origin Coordinate, radius float64, interval int) ([]Coordinate, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidRadius, radius)
	}
	bearings, err := Bearings(interval)
	if err != nil {
		return nil, err
	}

	points := make([]Coordinate, 0, len(bearings))
	for _, bearing := range bearings {
		points = append(points, Destination(origin, bearing, radius))
	}
	return points, nil
}
