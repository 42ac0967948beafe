// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "math"

// Coordinate is a resolved (latitude, longitude) pair. The zero value is a
// valid point on the equator; absence is reported separately by the resolver.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// String formats the coordinate as "lat,lng" with no brackets.
func (c Coordinate) String() string {
	return FormatFloat(c.Lat) + "," + FormatFloat(c.Lng)
}

// Valid reports whether both components are finite and in range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Region is a named latitude/longitude bounding box used as a geographic
// relevance predicate.
type Region struct {
	Name   string  `json:"name" yaml:"name" mapstructure:"name"`
	MinLat float64 `json:"min_lat" yaml:"min_lat" mapstructure:"min_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng" mapstructure:"min_lng"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat" mapstructure:"max_lat"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng" mapstructure:"max_lng"`
}

// Contains reports whether c lies inside the box, edges included.
func (r Region) Contains(c Coordinate) bool {
	return c.Lat >= r.MinLat && c.Lat <= r.MaxLat && c.Lng >= r.MinLng && c.Lng <= r.MaxLng
}
