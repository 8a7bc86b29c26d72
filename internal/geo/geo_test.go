// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import (
	"errors"
	"math"
	"testing"
)

var berlin = Coordinate{Lat: 52.5129, Lon: 13.3910}

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		valid bool
	}{
		{"berlin is valid", berlin, true},
		{"poles are valid", Coordinate{Lat: -90, Lon: 180}, true},
		{"latitude out of range", Coordinate{Lat: 91, Lon: 0}, false},
		{"longitude out of range", Coordinate{Lat: 0, Lon: -181}, false},
		{"NaN is invalid", Coordinate{Lat: math.NaN(), Lon: 0}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.coord.Valid() != tc.valid {
				t.Errorf("expected valid to be %t for %s", tc.valid, tc.coord)
			}
		})
	}
}

func TestCoordinate_DistanceTo(t *testing.T) {
	t.Run("distance to itself is zero", func(t *testing.T) {
		if d := berlin.DistanceTo(berlin); d != 0 {
			t.Errorf("expected zero distance, got %f", d)
		}
	})
	t.Run("one degree of latitude is about 111km", func(t *testing.T) {
		d := Coordinate{Lat: 0, Lon: 0}.DistanceTo(Coordinate{Lat: 1, Lon: 0})
		if math.Abs(d-111195) > 100 {
			t.Errorf("expected ~111195m, got %f", d)
		}
	})
}

func TestBearings(t *testing.T) {
	t.Run("default interval yields eight compass directions", func(t *testing.T) {
		bearings, err := Bearings(DefaultBearingInterval)
		if err != nil {
			t.Fatal(err)
		}
		want := []float64{0, 45, 90, 135, 180, 225, 270, 315}
		if len(bearings) != len(want) {
			t.Fatalf("expected %d bearings, got %d", len(want), len(bearings))
		}
		for i := range want {
			if bearings[i] != want[i] {
				t.Errorf("expected bearing %d to be %f, got %f", i, want[i], bearings[i])
			}
		}
	})
	t.Run("invalid intervals are rejected", func(t *testing.T) {
		for _, interval := range []int{0, -45, 7, 361} {
			if _, err := Bearings(interval); !errors.Is(err, ErrInvalidInterval) {
				t.Errorf("expected ErrInvalidInterval for %d, got %v", interval, err)
			}
		}
	})
}

func TestNearby(t *testing.T) {
	t.Run("eight points at the requested radius", func(t *testing.T) {
		const radius = 500.0
		points, err := Nearby(berlin, radius, DefaultBearingInterval)
		if err != nil {
			t.Fatal(err)
		}
		if len(points) != 8 {
			t.Fatalf("expected 8 points, got %d", len(points))
		}
		for i, p := range points {
			if !p.Valid() {
				t.Errorf("point %d is not valid: %s", i, p)
			}
			// haversine on a sphere vs. geodesic on the ellipsoid differ by well under 1%
			if d := berlin.DistanceTo(p); math.Abs(d-radius) > radius*0.01 {
				t.Errorf("point %d: expected distance ~%f, got %f", i, radius, d)
			}
		}
	})
	t.Run("points follow the compass", func(t *testing.T) {
		points, err := Nearby(berlin, 1000, DefaultBearingInterval)
		if err != nil {
			t.Fatal(err)
		}
		north, east, south, west := points[0], points[2], points[4], points[6]
		if north.Lat <= berlin.Lat || math.Abs(north.Lon-berlin.Lon) > 1e-9 {
			t.Errorf("expected north point due north, got %s", north)
		}
		if east.Lon <= berlin.Lon {
			t.Errorf("expected east point east of origin, got %s", east)
		}
		if south.Lat >= berlin.Lat {
			t.Errorf("expected south point south of origin, got %s", south)
		}
		if west.Lon >= berlin.Lon {
			t.Errorf("expected west point west of origin, got %s", west)
		}
	})
	t.Run("non-positive radius fails", func(t *testing.T) {
		if _, err := Nearby(berlin, 0, DefaultBearingInterval); !errors.Is(err, ErrInvalidRadius) {
			t.Errorf("expected ErrInvalidRadius, got %v", err)
		}
	})
}
