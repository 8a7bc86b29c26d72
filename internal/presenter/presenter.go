// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter renders estimation reports for the API, GeoJSON clients and the terminal.
package presenter

import (
	"math"
	"time"

	"github.com/wneessen/sunspot/internal/service"
	"github.com/wneessen/sunspot/internal/sunlight"
)

// angleDecimals is the number of decimals solar angles are rounded to
const angleDecimals = 2

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type NearbyLocation struct {
	LocationName    string      `json:"location_name"`
	Coordinates     Coordinates `json:"coordinates"`
	SunlightStatus  bool        `json:"sunlight_status"`
	ConfidenceLevel float64     `json:"confidence_level"`
}

type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Solar struct {
	Elevation float64 `json:"elevation"`
	Azimuth   float64 `json:"azimuth"`
	Daytime   bool    `json:"daytime"`
	// Sunrise and Sunset are omitted during polar day and polar night
	Sunrise *time.Time `json:"sunrise,omitempty"`
	Sunset  *time.Time `json:"sunset,omitempty"`
}

// Response is the JSON body of a successful sunlight estimation.
type Response struct {
	CurrentSunlightStatus bool             `json:"current_sunlight_status"`
	ConfidenceLevel       float64          `json:"confidence_level"`
	NearbySunnyLocations  []NearbyLocation `json:"nearby_sunny_locations"`
	Location              Location         `json:"location"`
	Solar                 Solar            `json:"solar"`
}

type Presenter struct{}

func New() *Presenter {
	return &Presenter{}
}

// Response converts a report into the API response. The nearby list is never nil.
func (p *Presenter) Response(report *service.Report) Response {
	nearby := make([]NearbyLocation, 0, len(report.Nearby))
	for _, spot := range report.Nearby {
		nearby = append(nearby, NearbyLocation{
			LocationName: spot.LocationName,
			Coordinates: Coordinates{
				Latitude:  spot.Coordinate.Lat,
				Longitude: spot.Coordinate.Lon,
			},
			SunlightStatus:  spot.SunlightPresent,
			ConfidenceLevel: spot.Confidence,
		})
	}

	return Response{
		CurrentSunlightStatus: report.SunlightPresent,
		ConfidenceLevel:       report.Confidence,
		NearbySunnyLocations:  nearby,
		Location: Location{
			Name:      report.LocationName,
			Latitude:  report.Coordinate.Lat,
			Longitude: report.Coordinate.Lon,
		},
		Solar: Solar{
			Elevation: sunlight.Round(report.Solar.Elevation, angleDecimals),
			Azimuth:   sunlight.Round(report.Solar.Azimuth, angleDecimals),
			Daytime:   report.Solar.IsDaytime(report.CreatedAt),
			Sunrise:   timeOrNil(report.Solar.Sunrise),
			Sunset:    timeOrNil(report.Solar.Sunset),
		},
	}
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// finite returns val, or nil if val is infinite or NaN so that it can be JSON encoded.
func finite(val float64) any {
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return nil
	}
	return val
}
