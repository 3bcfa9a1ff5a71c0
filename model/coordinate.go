// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model contains the shared data model for OpenStreetMap map data:
// coordinates, tags, metadata, and the node/way/relation entities.
package model

import (
	"fmt"
	"math"
)

// NanoDegree is the fixed-point resolution of a Coordinate: 10^-7 degree.
const NanoDegree = 1e7

// Coordinate is a latitude/longitude pair stored as fixed-point nano-degree
// integers. Construction from floating-point degrees multiplies by 10^7 and
// truncates.
type Coordinate struct {
	Lat int32
	Lon int32
}

// NewCoordinate builds a Coordinate from floating-point degrees, truncating
// to nano-degree resolution.
func NewCoordinate(latDeg, lonDeg float64) Coordinate {
	return Coordinate{
		Lat: int32(latDeg * NanoDegree),
		Lon: int32(lonDeg * NanoDegree),
	}
}

// LatDegrees returns the latitude in floating-point degrees.
func (c Coordinate) LatDegrees() float64 { return float64(c.Lat) / NanoDegree }

// LonDegrees returns the longitude in floating-point degrees.
func (c Coordinate) LonDegrees() float64 { return float64(c.Lon) / NanoDegree }

// Coordinate satisfies the Coordinater conversion contract by being its own
// identity conversion.
func (c Coordinate) Coordinate() Coordinate { return c }

func (c Coordinate) String() string {
	return fmt.Sprintf("(%s, %s)", ftoa(c.LatDegrees()), ftoa(c.LonDegrees()))
}

// Boundary is a bounding box of nano-degree coordinates.
type Boundary struct {
	MinLat int32
	MinLon int32
	MaxLat int32
	MaxLon int32
}

// InitialBoundary returns a Boundary inverted so that the first Expand call
// establishes real bounds.
func InitialBoundary() *Boundary {
	return &Boundary{
		MinLat: math.MaxInt32,
		MinLon: math.MaxInt32,
		MaxLat: math.MinInt32,
		MaxLon: math.MinInt32,
	}
}

// Expand grows the boundary, if necessary, to contain c.
func (b *Boundary) Expand(c Coordinate) {
	if c.Lat < b.MinLat {
		b.MinLat = c.Lat
	}

	if c.Lat > b.MaxLat {
		b.MaxLat = c.Lat
	}

	if c.Lon < b.MinLon {
		b.MinLon = c.Lon
	}

	if c.Lon > b.MaxLon {
		b.MaxLon = c.Lon
	}
}

// ExpandBoundary grows the boundary, if necessary, to contain o.
func (b *Boundary) ExpandBoundary(o *Boundary) {
	if o == nil {
		return
	}

	if o.MinLat < b.MinLat {
		b.MinLat = o.MinLat
	}

	if o.MaxLat > b.MaxLat {
		b.MaxLat = o.MaxLat
	}

	if o.MinLon < b.MinLon {
		b.MinLon = o.MinLon
	}

	if o.MaxLon > b.MaxLon {
		b.MaxLon = o.MaxLon
	}
}

func (b *Boundary) String() string {
	return fmt.Sprintf("[(%s, %s) (%s, %s)]",
		ftoa(float64(b.MinLat)/NanoDegree), ftoa(float64(b.MinLon)/NanoDegree),
		ftoa(float64(b.MaxLat)/NanoDegree), ftoa(float64(b.MaxLon)/NanoDegree))
}

// ftoa renders a float with trailing zeros trimmed, the way bounding-box and
// coordinate String methods throughout this package format degrees.
func ftoa(f float64) string {
	return fmt.Sprintf("%g", f)
}
