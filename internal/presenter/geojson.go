// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/wneessen/sunspot/internal/geo"
	"github.com/wneessen/sunspot/internal/service"
)

const (
	RoleOrigin = "origin"
	RoleNearby = "nearby"
)

// GeoJSON renders the report as a FeatureCollection with the origin as first Point
// feature followed by the nearby sunny spots.
func (p *Presenter) GeoJSON(report *service.Report) ([]byte, error) {
	collection := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(report.Nearby)+1),
	}

	collection.Features = append(collection.Features, pointFeature(report.Coordinate, map[string]any{
		"role":            RoleOrigin,
		"query":           report.Query,
		"location_name":   report.LocationName,
		"sunlight_status": report.SunlightPresent,
		"confidence":      report.Confidence,
		"elevation":       report.Solar.Elevation,
		"azimuth":         report.Solar.Azimuth,
		"building_height": report.BuildingHeight,
		"street_width":    report.StreetWidth,
		"shadow_length":   finite(report.ShadowLength),
		"radius":          report.Radius,
	}))
	for i, spot := range report.Nearby {
		collection.Features = append(collection.Features, pointFeature(spot.Coordinate, map[string]any{
			"role":            RoleNearby,
			"rank":            i + 1,
			"location_name":   spot.LocationName,
			"sunlight_status": spot.SunlightPresent,
			"confidence":      spot.Confidence,
			"distance":        report.Coordinate.DistanceTo(spot.Coordinate),
		}))
	}

	data, err := json.Marshal(collection)
	if err != nil {
		return nil, fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	return data, nil
}

// GeoJSON positions are ordered longitude, latitude.
func pointFeature(coords geo.Coordinate, props map[string]any) *geojson.Feature {
	return &geojson.Feature{
		Geometry:   geom.NewPointFlat(geom.XY, []float64{coords.Lon, coords.Lat}),
		Properties: props,
	}
}
