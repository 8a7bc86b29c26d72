// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package solar computes the position of the sun for a coordinate and point in time.
package solar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/sixdouglas/suncalc"

	"github.com/wneessen/sunspot/internal/geo"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Position describes where the sun is for an observer.
type Position struct {
	// Elevation is the angle above the horizon in degrees (negative below the horizon)
	Elevation float64
	// Azimuth is measured in degrees clockwise from true north
	Azimuth float64
	// Sunrise and Sunset are zero during polar day or polar night
	Sunrise time.Time
	Sunset  time.Time
}

// IsDaytime reports whether t lies between sunrise and sunset.
func (p Position) IsDaytime(t time.Time) bool {
	if p.Sunrise.IsZero() || p.Sunset.IsZero() {
		return p.Elevation > 0
	}
	return t.After(p.Sunrise) && t.Before(p.Sunset)
}

// Positioner is implemented by types that can compute a solar position.
type Positioner interface {
	Position(coords geo.Coordinate, t time.Time) (Position, error)
}

// Calculator computes solar positions with suncalc and sunrise/sunset with go-sunrise.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Position returns the solar elevation and azimuth at t, and the sunrise and sunset
// of t's UTC date.
func (c *Calculator) Position(coords geo.Coordinate, t time.Time) (Position, error) {
	if !coords.Valid() {
		return Position{}, fmt.Errorf("%w: %s", ErrInvalidCoordinate, coords)
	}

	t = t.UTC()
	pos := suncalc.GetPosition(t, coords.Lat, coords.Lon)
	rise, set := sunrise.SunriseSunset(coords.Lat, coords.Lon, t.Year(), t.Month(), t.Day())

	return Position{
		Elevation: degrees(pos.Altitude),
		Azimuth:   northAzimuth(pos.Azimuth),
		Sunrise:   rise,
		Sunset:    set,
	}, nil
}

// northAzimuth converts a suncalc azimuth (radians, south based, westward positive) into
// degrees clockwise from true north in [0, 360).
func northAzimuth(southBased float64) float64 {
	azimuth := math.Mod(degrees(southBased)+180, 360)
	if azimuth < 0 {
		azimuth += 360
	}
	return azimuth
}

func degrees(r float64) float64 { return r * 180 / math.Pi }
