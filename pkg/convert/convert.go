// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
Package convert turns plain host data, i.e. the values produced by
decoding JSON into an interface{}, into leaf layers, leaf controls and
orb values.

A layer is described by a map whose "leafletType" names its kind:

	{"leafletType": "Marker", "uuid": "…", "latLng": {"lat": 52.5, "lng": 13.4}}
	{"leafletType": "Circle", "latLng": [52.5, 13.4], "radius": 200}
	{"leafletType": "Polyline", "latLngs": [[52.5, 13.4], [52.6, 13.5]]}
	{"leafletType": "Rectangle", "bounds": [[52.5, 13.4], [52.6, 13.5]]}
	{"leafletType": "TileLayer", "url": "https://…/{z}/{x}/{y}.png"}
	{"leafletType": "FeatureGroup", "layers": [{…}, {…}]}
	{"leafletType": "GeoJSON", "data": {"type": "FeatureCollection", …}}

Note that array coordinates are given latitude first while orb points
store the longitude first.
*/
package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/slukits/mapbridge/pkg/leaf"
)

// ErrConvert is the general conversion error all other conversion
// errors are derived from.
var ErrConvert = errors.New("convert")

// ErrUnknownType is returned for a layer or control descriptor whose
// leafletType is not known.
var ErrUnknownType = fmt.Errorf("%w: unknown type", ErrConvert)

// ErrMissingValue is returned if a descriptor lacks a required field.
var ErrMissingValue = fmt.Errorf("%w: missing value", ErrConvert)

// ErrBadValue is returned if a value has not the expected shape.
var ErrBadValue = fmt.Errorf("%w: bad value", ErrConvert)

// Converter converts plain host data into leaf layers, controls and orb
// values.  The zero value is ready to use.
type Converter struct {

	// IDGen generates the identity of child layers which were declared
	// without one; it defaults to uuid.NewString.
	IDGen func() string
}

// New returns a converter generating child identities with given
// generator; nil selects uuid.NewString.
func New(idGen func() string) *Converter {
	return &Converter{IDGen: idGen}
}

func (c *Converter) newID() string {
	if c == nil || c.IDGen == nil {
		return uuid.NewString()
	}
	return c.IDGen()
}

// ToLayer converts given layer descriptor into a leaf layer.
func (c *Converter) ToLayer(d map[string]interface{}) (leaf.Layer, error) {
	typ, _ := d["leafletType"].(string)
	opts, err := layerOptions(d)
	if err != nil {
		return nil, err
	}
	var l leaf.Layer
	switch typ {
	case "Marker":
		l, err = marker(d, opts)
	case "Circle", "CircleMarker":
		l, err = circle(typ, d, opts)
	case "Polyline":
		l, err = polyline(d, opts)
	case "Polygon":
		l, err = polygon(d, opts)
	case "Rectangle":
		var b orb.Bound
		if b, err = c.ToLatLngBounds(d["bounds"]); err == nil {
			l = leaf.NewRectangle(b, opts)
		}
	case "TileLayer":
		url, ok := d["url"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: url", ErrMissingValue, typ)
		}
		l = leaf.NewTileLayer(url, opts)
	case "LayerGroup", "FeatureGroup":
		l, err = c.group(typ, d, opts)
	case "GeoJSON":
		l, err = c.geoJSON(d, opts)
	default:
		return nil, fmt.Errorf("%w: layer: '%s'", ErrUnknownType, typ)
	}
	if err != nil {
		return nil, err
	}
	if err := style(l, d); err != nil {
		return nil, err
	}
	bindOverlays(l, d)
	return l, nil
}

func layerOptions(d map[string]interface{}) (leaf.Options, error) {
	opts := leaf.Options{}
	opts.UUID, _ = d["uuid"].(string)
	opts.Name, _ = d["name"].(string)
	opts.Attribution, _ = d["attribution"].(string)
	opts.Pane, _ = d["pane"].(string)
	if v, ok := d["nodeId"]; ok && v != nil {
		n, err := toInt(v)
		if err != nil {
			return opts, fmt.Errorf("nodeId: %w", err)
		}
		opts.NodeID = n
	}
	return opts, nil
}

func marker(d map[string]interface{}, opts leaf.Options) (leaf.Layer, error) {
	ll, err := required(d, "latLng", ToLatLng)
	if err != nil {
		return nil, err
	}
	m := leaf.NewMarker(ll, opts)
	if v, ok := d["draggable"].(bool); ok {
		m.SetDraggable(v)
	}
	if v, ok := d["opacity"].(float64); ok {
		m.SetOpacity(v)
	}
	if v, ok := d["zIndexOffset"].(float64); ok {
		m.SetZIndexOffset(int(v))
	}
	return m, nil
}

func circle(
	typ string, d map[string]interface{}, opts leaf.Options,
) (leaf.Layer, error) {
	ll, err := required(d, "latLng", ToLatLng)
	if err != nil {
		return nil, err
	}
	r, ok := d["radius"].(float64)
	if !ok {
		if typ == "Circle" {
			return nil, fmt.Errorf("%w: %s: radius", ErrMissingValue, typ)
		}
		r = 10
	}
	if typ == "Circle" {
		return leaf.NewCircle(ll, r, opts), nil
	}
	return leaf.NewCircleMarker(ll, r, opts), nil
}

func polyline(d map[string]interface{}, opts leaf.Options) (leaf.Layer, error) {
	ls, err := required(d, "latLngs", ToLatLngs)
	if err != nil {
		return nil, err
	}
	return leaf.NewPolyline(ls, opts), nil
}

func polygon(d map[string]interface{}, opts leaf.Options) (leaf.Layer, error) {
	rr, err := required(d, "latLngs", ToRings)
	if err != nil {
		return nil, err
	}
	return leaf.NewPolygon(rr, opts), nil
}

// required converts the value of given field with given conversion
// failing with ErrMissingValue if the field is not set.
func required[T any](
	d map[string]interface{}, field string, conv func(interface{}) (T, error),
) (T, error) {
	v, ok := d[field]
	if !ok || v == nil {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrMissingValue, field)
	}
	t, err := conv(v)
	if err != nil {
		return t, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func (c *Converter) group(
	typ string, d map[string]interface{}, opts leaf.Options,
) (leaf.Layer, error) {
	ll := []leaf.Layer{}
	raw, _ := d["layers"].([]interface{})
	for i, v := range raw {
		cd, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: layers[%d]", ErrBadValue, typ, i)
		}
		if id, _ := cd["uuid"].(string); id == "" {
			cd["uuid"] = c.newID()
		}
		l, err := c.ToLayer(cd)
		if err != nil {
			return nil, fmt.Errorf("%s: layers[%d]: %w", typ, i, err)
		}
		ll = append(ll, l)
	}
	if typ == "LayerGroup" {
		return leaf.NewLayerGroup(opts, ll...), nil
	}
	return leaf.NewFeatureGroup(opts, ll...), nil
}

func (c *Converter) geoJSON(
	d map[string]interface{}, opts leaf.Options,
) (leaf.Layer, error) {
	data, ok := d["data"]
	if !ok || data == nil {
		return nil, fmt.Errorf("%w: GeoJSON: data", ErrMissingValue)
	}
	fc, err := ToFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	return leaf.NewGeoJSON(fc, opts, c.newID), nil
}

// ToFeatureCollection converts a plain GeoJSON feature collection,
// feature or geometry into a feature collection.
func ToFeatureCollection(v interface{}) (*geojson.FeatureCollection, error) {
	bb, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: geojson: %v", ErrBadValue, err)
	}
	typ := ""
	if m, ok := v.(map[string]interface{}); ok {
		typ, _ = m["type"].(string)
	}
	switch typ {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(bb)
		if err != nil {
			return nil, fmt.Errorf("%w: geojson: %v", ErrBadValue, err)
		}
		return fc, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(bb)
		if err != nil {
			return nil, fmt.Errorf("%w: geojson: %v", ErrBadValue, err)
		}
		return geojson.NewFeatureCollection().Append(f), nil
	case "":
		return nil, fmt.Errorf("%w: geojson: type", ErrMissingValue)
	}
	g, err := geojson.UnmarshalGeometry(bb)
	if err != nil {
		return nil, fmt.Errorf("%w: geojson: %v", ErrBadValue, err)
	}
	return geojson.NewFeatureCollection().Append(
		geojson.NewFeature(g.Geometry())), nil
}

// styler is implemented by vector layers and feature groups.
type styler interface {
	Style() leaf.Style
	SetStyle(leaf.Style)
}

func style(l leaf.Layer, d map[string]interface{}) error {
	p, ok := l.(styler)
	if !ok {
		return nil
	}
	s, err := ApplyStyle(p.Style(), d)
	if err != nil {
		return err
	}
	p.SetStyle(s)
	return nil
}

// ApplyStyle overwrites the fields of given style with the style fields
// set in given plain map.  Fields which are not set are kept.
func ApplyStyle(s leaf.Style, d map[string]interface{}) (leaf.Style, error) {
	for k, v := range d {
		var ok bool
		switch k {
		case "stroke":
			s.Stroke, ok = v.(bool)
		case "color":
			s.Color, ok = v.(string)
		case "weight":
			s.Weight, ok = v.(float64)
		case "opacity":
			s.Opacity, ok = v.(float64)
		case "fill":
			s.Fill, ok = v.(bool)
		case "fillColor":
			s.FillColor, ok = v.(string)
		case "fillOpacity":
			s.FillOpacity, ok = v.(float64)
		case "dashArray":
			s.DashArray, ok = v.(string)
		default:
			continue
		}
		if !ok {
			return s, fmt.Errorf("%w: style: %s: %v", ErrBadValue, k, v)
		}
	}
	return s, nil
}

func bindOverlays(l leaf.Layer, d map[string]interface{}) {
	type popupBinder interface{ BindPopup(string) }
	type tooltipBinder interface{ BindTooltip(string) }
	if p, ok := d["popup"].(string); ok && p != "" {
		if b, ok := l.(popupBinder); ok {
			b.BindPopup(p)
		}
	}
	if t, ok := d["tooltip"].(string); ok && t != "" {
		if b, ok := l.(tooltipBinder); ok {
			b.BindTooltip(t)
		}
	}
}

func isControl(d map[string]interface{}) bool {
	typ, _ := d["leafletType"].(string)
	switch strings.ToLower(typ) {
	case "zoom", "scale", "attribution", "layers":
		return true
	}
	return false
}

// ToControl converts given control descriptor into a leaf control.
func (c *Converter) ToControl(d map[string]interface{}) (leaf.Control, error) {
	typ, _ := d["leafletType"].(string)
	pos, _ := d["position"].(string)
	switch strings.ToLower(typ) {
	case "zoom":
		return leaf.NewZoomControl(pos), nil
	case "scale":
		s := leaf.NewScaleControl(pos)
		if v, ok := d["metric"].(bool); ok {
			s.Metric = v
		}
		if v, ok := d["imperial"].(bool); ok {
			s.Imperial = v
		}
		return s, nil
	case "attribution":
		prefix, _ := d["prefix"].(string)
		return leaf.NewAttributionControl(prefix, pos), nil
	case "layers":
		opts := leaf.LayersOptions{Position: pos}
		opts.Collapsed, _ = d["collapsed"].(bool)
		opts.AutoZIndex, _ = d["autoZIndex"].(bool)
		opts.HideSingleBase, _ = d["hideSingleBase"].(bool)
		opts.SortLayers, _ = d["sortLayers"].(bool)
		return leaf.NewLayersControl(opts), nil
	}
	return nil, fmt.Errorf("%w: control: '%s'", ErrUnknownType, typ)
}

// Convert converts a plain call argument.  Maps describing a layer or a
// control, a point or bounds are converted to the respective leaf or orb
// value, arrays are converted element-wise and everything else is
// returned unchanged.
func (c *Converter) Convert(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case map[string]interface{}:
		if _, ok := v["leafletType"]; ok {
			if isControl(v) {
				return c.ToControl(v)
			}
			return c.ToLayer(v)
		}
		if isLatLng(v) {
			return ToLatLng(v)
		}
		if isBounds(v) {
			return c.ToLatLngBounds(v)
		}
		return v, nil
	case []interface{}:
		cc := make([]interface{}, len(v))
		for i, e := range v {
			ce, err := c.Convert(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			cc[i] = ce
		}
		return cc, nil
	}
	return v, nil
}
