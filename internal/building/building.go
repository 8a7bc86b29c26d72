// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package building estimates the height of the buildings lining a street.
package building

import (
	"context"

	"github.com/wneessen/sunspot/internal/geo"
)

// DefaultHeight assumes five floors of 3 m each
const DefaultHeight = 15.0

// Estimator returns the building height in meters at the given coordinate.
type Estimator interface {
	Height(ctx context.Context, coords geo.Coordinate) (float64, error)
}

// Static returns the same height for every coordinate.
type Static struct {
	height float64
}

// NewStatic returns a Static estimator. A non-positive height selects DefaultHeight.
func NewStatic(height float64) *Static {
	if height <= 0 {
		height = DefaultHeight
	}
	return &Static{height: height}
}

func (s *Static) Height(context.Context, geo.Coordinate) (float64, error) {
	return s.height, nil
}
