// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package overpass estimates street widths from the number of OpenStreetMap highway ways
// around a coordinate, as reported by the Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wneessen/sunspot/internal/geo"
	"github.com/wneessen/sunspot/internal/http"
	"github.com/wneessen/sunspot/internal/street"
)

const (
	DefaultEndpoint     = "https://overpass-api.de/api/interpreter"
	DefaultSearchRadius = 50
	APITimeout          = time.Second * 25
	name                = "overpass"

	// busyThreshold is the number of ways above which an area counts as a dense street grid
	busyThreshold = 10
	wideStreet    = 12.0
	narrowStreet  = 8.0
)

type Overpass struct {
	http     *http.Client
	endpoint string
	radius   int
}

type Response struct {
	Elements *[]json.RawMessage `json:"elements"`
}

func New(client *http.Client, endpoint string, radius int) *Overpass {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if radius < 1 {
		radius = DefaultSearchRadius
	}
	return &Overpass{
		http:     client,
		endpoint: endpoint,
		radius:   radius,
	}
}

func (o *Overpass) Name() string {
	return name
}

// Query returns the Overpass QL query for all highway ways around coords.
func (o *Overpass) Query(coords geo.Coordinate) string {
	return fmt.Sprintf(`[out:json]; way(around:%d,%f,%f)["highway"]; out body;`, o.radius, coords.Lat, coords.Lon)
}

// Width returns 12 m if more than 10 highway ways are found around coords and 8 m otherwise.
// A response without an elements member yields street.DefaultWidth.
func (o *Overpass) Width(ctx context.Context, coords geo.Coordinate) (float64, error) {
	var result Response

	form := url.Values{}
	form.Set("data", o.Query(coords))
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}

	code, err := o.http.PostWithTimeout(ctx, o.endpoint, &result, strings.NewReader(form.Encode()), headers,
		APITimeout)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch ways from Overpass API: %w", err)
	}
	if code != 200 {
		return 0, fmt.Errorf("Overpass API returned non-positive response code: %d", code)
	}

	if result.Elements == nil {
		return street.DefaultWidth, nil
	}
	if len(*result.Elements) > busyThreshold {
		return wideStreet, nil
	}
	return narrowStreet, nil
}
