// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/geo-extract/pkg/types"
)

// CoordinateFunc resolves one coordinate representation. It reports false
// when the representation is absent or not well-formed.
type CoordinateFunc func(rec types.Record) (types.Coordinate, bool)

var coordinateFuncs = map[types.CoordinateStrategy]CoordinateFunc{
	types.StrategyDirect:    FromDirect,
	types.StrategyGeo:       FromGeo,
	types.StrategyPlaceBBox: FromPlaceBBox,
	types.StrategyBBox:      FromBBox,
}

// CoordinateChain tries each strategy in order; the first present and
// well-formed representation wins.
type CoordinateChain struct {
	funcs []CoordinateFunc
}

// NewCoordinateChain builds a chain from strategy names. An empty list uses
// the default precedence.
func NewCoordinateChain(names []types.CoordinateStrategy) (CoordinateChain, error) {
	if len(names) == 0 {
		names = types.DefaultCoordinateChain
	}
	var c CoordinateChain
	for _, n := range names {
		fn, ok := coordinateFuncs[types.CoordinateStrategy(strings.ToLower(string(n)))]
		if !ok {
			return CoordinateChain{}, fmt.Errorf("unknown coordinate strategy %q", n)
		}
		c.funcs = append(c.funcs, fn)
	}
	return c, nil
}

// Resolve returns the coordinate of rec from the first strategy that yields
// one. The second result is false when no representation is usable.
func (c CoordinateChain) Resolve(rec types.Record) (types.Coordinate, bool) {
	for _, fn := range c.funcs {
		if coord, ok := fn(rec); ok {
			return coord, true
		}
	}
	return types.Coordinate{}, false
}

// FromDirect reads the root "coordinates" field: a GeoJSON point object, a
// bare [lng, lat] list, or either of those encoded as a JSON string.
func FromDirect(rec types.Record) (types.Coordinate, bool) {
	v, ok := decoded(rec, "coordinates")
	if !ok {
		return types.Coordinate{}, false
	}
	pair, ok := pointList(v)
	if !ok {
		return types.Coordinate{}, false
	}
	return checked(types.Coordinate{Lat: pair[1], Lng: pair[0]})
}

// FromGeo reads the root "geo" field, which stores [lat, lng].
func FromGeo(rec types.Record) (types.Coordinate, bool) {
	v, ok := decoded(rec, "geo")
	if !ok {
		return types.Coordinate{}, false
	}
	pair, ok := pointList(v)
	if !ok {
		return types.Coordinate{}, false
	}
	return checked(types.Coordinate{Lat: pair[0], Lng: pair[1]})
}

// FromPlaceBBox takes the centroid of "place.bounding_box".
func FromPlaceBBox(rec types.Record) (types.Coordinate, bool) {
	v, ok := decoded(rec, "place")
	if !ok {
		return types.Coordinate{}, false
	}
	place, ok := types.AsRecord(v)
	if !ok {
		return types.Coordinate{}, false
	}
	return FromBBox(place)
}

// FromBBox takes the centroid of the first ring of the root "bounding_box"
// polygon, whose points are [lng, lat].
func FromBBox(rec types.Record) (types.Coordinate, bool) {
	v, ok := decoded(rec, "bounding_box")
	if !ok {
		return types.Coordinate{}, false
	}
	box, ok := types.AsRecord(v)
	if !ok {
		return types.Coordinate{}, false
	}
	rings, ok := box.Slice("coordinates")
	if !ok || len(rings) == 0 {
		return types.Coordinate{}, false
	}
	ring, ok := rings[0].([]any)
	if !ok || len(ring) == 0 {
		return types.Coordinate{}, false
	}

	var sumLat, sumLng float64
	for _, p := range ring {
		pair, ok := numberPair(p)
		if !ok {
			return types.Coordinate{}, false
		}
		sumLng += pair[0]
		sumLat += pair[1]
	}
	n := float64(len(ring))
	return checked(types.Coordinate{Lat: sumLat / n, Lng: sumLng / n})
}

// decoded returns the value under key, parsing it first if it is a string
// holding JSON. Missing, null and empty values are absent.
func decoded(rec types.Record, key string) (any, bool) {
	v, ok := rec.Value(key)
	if !ok || v == nil {
		return nil, false
	}
	s, isString := v.(string)
	if !isString {
		return v, true
	}
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	var out any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, false
	}
	return out, out != nil
}

// pointList extracts the first two numbers of a point, accepting either a
// bare list or an object with a "coordinates" list.
func pointList(v any) ([2]float64, bool) {
	if m, ok := types.AsRecord(v); ok {
		inner, ok := m.Value("coordinates")
		if !ok {
			return [2]float64{}, false
		}
		v = inner
	}
	return numberPair(v)
}

func numberPair(v any) ([2]float64, bool) {
	list, ok := v.([]any)
	if !ok || len(list) < 2 {
		return [2]float64{}, false
	}
	a, ok := types.AsFloat(list[0])
	if !ok {
		return [2]float64{}, false
	}
	b, ok := types.AsFloat(list[1])
	if !ok {
		return [2]float64{}, false
	}
	return [2]float64{a, b}, true
}

func checked(c types.Coordinate) (types.Coordinate, bool) {
	if !c.Valid() {
		return types.Coordinate{}, false
	}
	return c, true
}
