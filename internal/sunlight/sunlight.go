// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package sunlight decides whether a street is sunlit from the sun's elevation, the height
// of the surrounding buildings and the width of the street.
package sunlight

import "math"

// Estimate is the outcome for a single street location.
type Estimate struct {
	SunlightPresent bool
	// Confidence is always within [0, 1]
	Confidence float64
}

// ShadowLength returns the horizontal length in meters of the shadow that a vertical object
// of the given height casts at the given solar elevation in degrees. With the sun at or below
// the horizon the shadow is infinite.
func ShadowLength(height, elevation float64) float64 {
	if elevation <= 0 {
		return math.Inf(1)
	}
	return height / math.Tan(elevation*math.Pi/180)
}

// Confidence compares the shadow length to the street width. The street counts as sunlit
// when the shadow does not reach across it. Confidence scales with the solar elevation and
// drops linearly as the shadow approaches the street width.
func Confidence(elevation, shadow, width float64) Estimate {
	if elevation <= 0 {
		return Estimate{}
	}
	ratio := shadow / width
	confidence := (elevation / 90) * (1 - ratio)
	return Estimate{
		SunlightPresent: shadow < width,
		Confidence:      clamp(confidence, 0, 1),
	}
}

// Evaluate chains ShadowLength and Confidence and returns the shadow length with the estimate.
func Evaluate(height, elevation, width float64) (float64, Estimate) {
	shadow := ShadowLength(height, elevation)
	return shadow, Confidence(elevation, shadow, width)
}

// Round rounds val to the given number of decimals.
func Round(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}

func clamp(val, lower, upper float64) float64 {
	if math.IsNaN(val) {
		return lower
	}
	return math.Max(lower, math.Min(val, upper))
}
