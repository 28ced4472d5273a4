// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package convert

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// ToLatLng converts a point given as orb.Point, as {"lat": …, "lng": …}
// (or "lon"), or as [lat, lng] array.
func ToLatLng(v interface{}) (orb.Point, error) {
	switch v := v.(type) {
	case orb.Point:
		return v, nil
	case map[string]interface{}:
		lat, okLat := number(v["lat"])
		lng, okLng := number(v["lng"])
		if !okLng {
			lng, okLng = number(v["lon"])
		}
		if !okLat || !okLng {
			return orb.Point{}, fmt.Errorf("%w: latLng: %v", ErrBadValue, v)
		}
		return orb.Point{lng, lat}, nil
	case []interface{}:
		if len(v) < 2 {
			return orb.Point{}, fmt.Errorf("%w: latLng: %v", ErrBadValue, v)
		}
		lat, okLat := number(v[0])
		lng, okLng := number(v[1])
		if !okLat || !okLng {
			return orb.Point{}, fmt.Errorf("%w: latLng: %v", ErrBadValue, v)
		}
		return orb.Point{lng, lat}, nil
	case nil:
		return orb.Point{}, fmt.Errorf("%w: latLng", ErrMissingValue)
	}
	return orb.Point{}, fmt.Errorf("%w: latLng: %v", ErrBadValue, v)
}

// ToLatLng converts a plain point; see ToLatLng.
func (c *Converter) ToLatLng(v interface{}) (orb.Point, error) {
	return ToLatLng(v)
}

// ToLatLngs converts a sequence of points.
func ToLatLngs(v interface{}) (orb.LineString, error) {
	switch v := v.(type) {
	case orb.LineString:
		return v, nil
	case []interface{}:
		ls := make(orb.LineString, 0, len(v))
		for i, p := range v {
			ll, err := ToLatLng(p)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			ls = append(ls, ll)
		}
		return ls, nil
	}
	return nil, fmt.Errorf("%w: latLngs: %v", ErrBadValue, v)
}

// ToRings converts a sequence of points or a sequence of point
// sequences into polygon rings.  Rings are closed if necessary.
func ToRings(v interface{}) (orb.Polygon, error) {
	switch v := v.(type) {
	case orb.Polygon:
		return v, nil
	case []interface{}:
		if len(v) > 0 && isPointSequence(v[0]) {
			p := orb.Polygon{}
			for i, r := range v {
				ls, err := ToLatLngs(r)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", i, err)
				}
				p = append(p, closed(ls))
			}
			return p, nil
		}
		ls, err := ToLatLngs(v)
		if err != nil {
			return nil, err
		}
		return orb.Polygon{closed(ls)}, nil
	}
	return nil, fmt.Errorf("%w: rings: %v", ErrBadValue, v)
}

// isPointSequence is true for [[lat, lng], …], [{lat, lng}, …] and a
// sequence of already converted points.
func isPointSequence(v interface{}) bool {
	ss, ok := v.([]interface{})
	if !ok || len(ss) == 0 {
		return false
	}
	switch ss[0].(type) {
	case []interface{}, map[string]interface{}, orb.Point:
		return true
	}
	return false
}

func closed(ls orb.LineString) orb.Ring {
	r := orb.Ring(ls)
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// ToLatLngBounds converts bounds given as orb.Bound, as array of two
// corner points, as {"southWest": …, "northEast": …} map or as
// {"min": {"x", "y"}, "max": {"x", "y"}} map whose x is the longitude.
func (c *Converter) ToLatLngBounds(v interface{}) (orb.Bound, error) {
	return ToLatLngBounds(v)
}

// ToLatLngBounds is the converter independent bounds conversion.
func ToLatLngBounds(v interface{}) (orb.Bound, error) {
	var a, b orb.Point
	switch v := v.(type) {
	case orb.Bound:
		return v, nil
	case nil:
		return orb.Bound{}, fmt.Errorf("%w: bounds", ErrMissingValue)
	case []interface{}:
		if len(v) != 2 {
			return orb.Bound{}, fmt.Errorf("%w: bounds: %v", ErrBadValue, v)
		}
		var err error
		if a, err = ToLatLng(v[0]); err != nil {
			return orb.Bound{}, fmt.Errorf("bounds: %w", err)
		}
		if b, err = ToLatLng(v[1]); err != nil {
			return orb.Bound{}, fmt.Errorf("bounds: %w", err)
		}
	case map[string]interface{}:
		var err error
		switch {
		case v["southWest"] != nil:
			if a, err = ToLatLng(v["southWest"]); err != nil {
				return orb.Bound{}, fmt.Errorf("bounds: %w", err)
			}
			if b, err = ToLatLng(v["northEast"]); err != nil {
				return orb.Bound{}, fmt.Errorf("bounds: %w", err)
			}
		case v["min"] != nil:
			if a, err = xy(v["min"]); err != nil {
				return orb.Bound{}, err
			}
			if b, err = xy(v["max"]); err != nil {
				return orb.Bound{}, err
			}
		default:
			return orb.Bound{}, fmt.Errorf("%w: bounds: %v", ErrBadValue, v)
		}
	default:
		return orb.Bound{}, fmt.Errorf("%w: bounds: %v", ErrBadValue, v)
	}
	return a.Bound().Extend(b), nil
}

func xy(v interface{}) (orb.Point, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return orb.Point{}, fmt.Errorf("%w: bounds: point: %v", ErrBadValue, v)
	}
	x, okX := number(m["x"])
	y, okY := number(m["y"])
	if !okX || !okY {
		return orb.Point{}, fmt.Errorf("%w: bounds: point: %v", ErrBadValue, v)
	}
	return orb.Point{x, y}, nil
}

func isLatLng(m map[string]interface{}) bool {
	_, lat := m["lat"]
	_, lng := m["lng"]
	_, lon := m["lon"]
	return lat && (lng || lon) && len(m) <= 3
}

func isBounds(m map[string]interface{}) bool {
	_, sw := m["southWest"]
	_, ne := m["northEast"]
	return sw && ne
}

func number(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt(v interface{}) (int, error) {
	f, ok := number(v)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: integer: %v", ErrBadValue, v)
	}
	return int(f), nil
}

// ToInt converts a plain number without fraction into an int.
func ToInt(v interface{}) (int, error) { return toInt(v) }

// ToFloat converts a plain number into a float64.
func ToFloat(v interface{}) (float64, error) {
	f, ok := number(v)
	if !ok {
		return 0, fmt.Errorf("%w: number: %v", ErrBadValue, v)
	}
	return f, nil
}
