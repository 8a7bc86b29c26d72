// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/sunspot/internal/geo"
	"github.com/wneessen/sunspot/internal/service"
	"github.com/wneessen/sunspot/internal/solar"
	"github.com/wneessen/sunspot/internal/sunlight"
)

func testReport() *service.Report {
	return &service.Report{
		Query:        "Friedrichstraße 67, Berlin",
		LocationName: "Quartier 205, Friedrichstraße, Berlin",
		Coordinate:   geo.Coordinate{Lat: 52.5129, Lon: 13.3910},
		Solar: solar.Position{
			Elevation: 60.123456,
			Azimuth:   179.987654,
			Sunrise:   time.Date(2024, 6, 21, 2, 43, 0, 0, time.UTC),
			Sunset:    time.Date(2024, 6, 21, 19, 33, 0, 0, time.UTC),
		},
		BuildingHeight: 15,
		StreetWidth:    10,
		ShadowLength:   8.66,
		Radius:         500,
		CreatedAt:      time.Date(2024, 6, 21, 11, 8, 0, 0, time.UTC),
		Estimate:       sunlight.Estimate{SunlightPresent: true, Confidence: 0.09},
		Nearby: []service.NearbySpot{
			{
				LocationName:    "Gendarmenmarkt, Berlin",
				Coordinate:      geo.Coordinate{Lat: 52.5174, Lon: 13.3910},
				SunlightPresent: true,
				Confidence:      0.96,
			},
			{
				LocationName:    "東京都千代田区丸の内一丁目 東京駅前広場 北口 丸の内オアゾ前 バスターミナル",
				Coordinate:      geo.Coordinate{Lat: 52.5129, Lon: 13.3984},
				SunlightPresent: true,
				Confidence:      0.5,
			},
		},
	}
}

func TestPresenter_Response(t *testing.T) {
	t.Run("report is converted to the API response", func(t *testing.T) {
		resp := New().Response(testReport())
		if !resp.CurrentSunlightStatus || resp.ConfidenceLevel != 0.09 {
			t.Errorf("unexpected origin status: %+v", resp)
		}
		if len(resp.NearbySunnyLocations) != 2 {
			t.Fatalf("expected 2 nearby locations, got %d", len(resp.NearbySunnyLocations))
		}
		first := resp.NearbySunnyLocations[0]
		if first.LocationName != "Gendarmenmarkt, Berlin" || first.Coordinates.Latitude != 52.5174 {
			t.Errorf("unexpected nearby location: %+v", first)
		}
		if resp.Solar.Elevation != 60.12 || resp.Solar.Azimuth != 179.99 {
			t.Errorf("expected rounded solar angles, got %+v", resp.Solar)
		}
		if !resp.Solar.Daytime {
			t.Error("expected daytime at noon")
		}
	})
	t.Run("JSON field names", func(t *testing.T) {
		data, err := json.Marshal(New().Response(testReport()))
		if err != nil {
			t.Fatal(err)
		}
		for _, key := range []string{`"current_sunlight_status":true`, `"confidence_level":0.09`,
			`"nearby_sunny_locations":[`, `"location_name":"Gendarmenmarkt, Berlin"`,
			`"coordinates":{"latitude":52.5174,"longitude":13.391}`, `"sunlight_status":true`, `"sunrise":`} {
			if !bytes.Contains(data, []byte(key)) {
				t.Errorf("expected JSON to contain %s, got %s", key, data)
			}
		}
	})
	t.Run("empty nearby list is encoded as an array", func(t *testing.T) {
		report := testReport()
		report.Nearby = nil
		report.Solar.Sunrise = time.Time{}
		report.Solar.Sunset = time.Time{}
		data, err := json.Marshal(New().Response(report))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Contains(data, []byte(`"nearby_sunny_locations":[]`)) {
			t.Errorf("expected empty array, got %s", data)
		}
		if bytes.Contains(data, []byte(`"sunrise"`)) {
			t.Errorf("expected sunrise to be omitted, got %s", data)
		}
	})
}

func TestPresenter_GeoJSON(t *testing.T) {
	type feature struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	}
	type collection struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}

	t.Run("report is rendered as a feature collection", func(t *testing.T) {
		data, err := New().GeoJSON(testReport())
		if err != nil {
			t.Fatal(err)
		}
		var got collection
		if err = json.Unmarshal(data, &got); err != nil {
			t.Fatalf("failed to decode GeoJSON: %s", err)
		}
		if got.Type != "FeatureCollection" {
			t.Errorf("expected FeatureCollection, got %q", got.Type)
		}
		if len(got.Features) != 3 {
			t.Fatalf("expected 3 features, got %d", len(got.Features))
		}
		origin := got.Features[0]
		if origin.Geometry.Type != "Point" {
			t.Errorf("expected Point geometry, got %q", origin.Geometry.Type)
		}
		if origin.Geometry.Coordinates[0] != 13.3910 || origin.Geometry.Coordinates[1] != 52.5129 {
			t.Errorf("expected longitude first, got %v", origin.Geometry.Coordinates)
		}
		if origin.Properties["role"] != RoleOrigin {
			t.Errorf("expected first feature to be the origin, got %v", origin.Properties["role"])
		}
		if got.Features[1].Properties["rank"] != float64(1) {
			t.Errorf("expected rank 1, got %v", got.Features[1].Properties["rank"])
		}
		if dist, ok := got.Features[1].Properties["distance"].(float64); !ok || math.Abs(dist-500) > 5 {
			t.Errorf("expected a distance of about 500m, got %v", got.Features[1].Properties["distance"])
		}
	})
	t.Run("infinite shadows are encoded as null", func(t *testing.T) {
		report := testReport()
		report.ShadowLength = math.Inf(1)
		data, err := New().GeoJSON(report)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Contains(data, []byte(`"shadow_length":null`)) {
			t.Errorf("expected null shadow length, got %s", data)
		}
	})
}

func TestPresenter_Table(t *testing.T) {
	t.Run("report is rendered as an aligned table", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		if err := New().Table(buf, testReport()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"Quartier 205", "52.512900,13.391000", "02:43 UTC", "shadow 8.66 m",
			"yes (confidence 0.09)", "Sunny spots within 500 m:", "Gendarmenmarkt, Berlin"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}

		var widths []int
		for _, line := range strings.Split(out, "\n") {
			if idx := strings.Index(line, "52.51"); idx > 0 && !strings.HasPrefix(line, "Coordinates") {
				widths = append(widths, runewidth.StringWidth(line[:idx]))
			}
		}
		if len(widths) != 2 || widths[0] != widths[1] {
			t.Errorf("expected coordinate columns to line up, got cell offsets %v", widths)
		}
		if !strings.Contains(out, ellipsis) {
			t.Error("expected the wide location name to be truncated")
		}
	})
	t.Run("no sunny spots and infinite shadow", func(t *testing.T) {
		report := testReport()
		report.Nearby = nil
		report.ShadowLength = math.Inf(1)
		report.SunlightPresent = false
		report.Solar.Sunrise = time.Time{}
		buf := bytes.NewBuffer(nil)
		if err := New().Table(buf, report); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"shadow infinite", "No sunny spots found within 500 m.", noSunriseText,
			"no (confidence"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})
}

func TestEmojiWithSpace(t *testing.T) {
	if got := runewidth.StringWidth(EmojiWithSpace("☀")); got != 3 {
		t.Errorf("expected padded width of 3 cells, got %d", got)
	}
}
