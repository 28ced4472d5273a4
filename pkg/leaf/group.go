// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package leaf

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/exp/slices"
)

// LayerGroup is a container layer.  Its children are attached to the
// map the group is attached to.
type LayerGroup struct {
	Base
	children  []Layer
	propagate bool
}

// NewLayerGroup creates a layer group holding given layers.
func NewLayerGroup(opts Options, ll ...Layer) *LayerGroup {
	g := &LayerGroup{}
	g.Base = newBase(g, "LayerGroup", opts)
	for _, l := range ll {
		g.AddLayer(l)
	}
	return g
}

// AddLayer adds given layer to the group and to the group's map if the
// group is attached.
func (g *LayerGroup) AddLayer(l Layer) *LayerGroup {
	if l == nil || g.HasLayer(l) {
		return g
	}
	g.children = append(g.children, l)
	if g.propagate {
		l.base().parent = &g.Base
	}
	if g.m != nil {
		l.attach(g.m)
	}
	return g
}

// RemoveLayer removes given layer from the group and detaches it from
// the group's map.
func (g *LayerGroup) RemoveLayer(l Layer) *LayerGroup {
	idx := slices.Index(g.children, l)
	if idx < 0 {
		return g
	}
	g.children = slices.Delete(g.children, idx, idx+1)
	if l.base().parent == &g.Base {
		l.base().parent = nil
	}
	if l.Map() != nil {
		l.detach()
	}
	return g
}

// HasLayer returns true if given layer is a direct child of the group.
func (g *LayerGroup) HasLayer(l Layer) bool {
	return slices.Contains(g.children, l)
}

// ClearLayers removes all children of the group.
func (g *LayerGroup) ClearLayers() *LayerGroup {
	for _, l := range g.Layers() {
		g.RemoveLayer(l)
	}
	return g
}

// EachLayer calls given function for each direct child of the group.
func (g *LayerGroup) EachLayer(cb func(Layer)) {
	for _, l := range g.Layers() {
		cb(l)
	}
}

// Layers returns a copy of the group's direct children.
func (g *LayerGroup) Layers() []Layer {
	return append([]Layer(nil), g.children...)
}

// Layer returns the direct child with given identity.
func (g *LayerGroup) Layer(id string) (Layer, bool) {
	for _, l := range g.children {
		if l.ID() == id {
			return l, true
		}
	}
	return nil, false
}

// attach attaches the group's children after the group itself.
func (g *LayerGroup) attach(m *Map) {
	g.Base.attach(m)
	for _, l := range g.children {
		l.attach(m)
	}
}

// detach detaches the group's children before the group itself.
func (g *LayerGroup) detach() {
	for _, l := range g.children {
		if l.Map() != nil {
			l.detach()
		}
	}
	g.Base.detach()
}

// Bounder is implemented by layers with geographical extent.
type Bounder interface {
	Bounds() orb.Bound
}

// FeatureGroup is a layer group which knows its bounds.  Events fired
// at a child, except "add" and "remove", are also reported to the
// group's handlers with the child as the event's Layer.
type FeatureGroup struct {
	LayerGroup
}

// NewFeatureGroup creates a feature group holding given layers.
func NewFeatureGroup(opts Options, ll ...Layer) *FeatureGroup {
	g := &FeatureGroup{}
	g.Base = newBase(g, "FeatureGroup", opts)
	g.propagate = true
	for _, l := range ll {
		g.AddLayer(l)
	}
	return g
}

// AddLayer adds given layer to the group.
func (g *FeatureGroup) AddLayer(l Layer) *FeatureGroup {
	g.LayerGroup.AddLayer(l)
	return g
}

// Bounds returns the union of the bounds of all children having
// bounds.  The zero bound is returned if no child has bounds.
func (g *FeatureGroup) Bounds() orb.Bound {
	var (
		b     orb.Bound
		found bool
	)
	for _, l := range g.children {
		var lb orb.Bound
		switch l := l.(type) {
		case Bounder:
			lb = l.Bounds()
		case *Marker:
			lb = l.LatLng().Bound()
		default:
			continue
		}
		if !found {
			b, found = lb, true
			continue
		}
		b = b.Union(lb)
	}
	return b
}

// SetStyle sets the style of all vector children.
func (g *FeatureGroup) SetStyle(s Style) {
	for _, l := range g.children {
		if p, ok := l.(interface{ SetStyle(Style) }); ok {
			p.SetStyle(s)
		}
	}
}

// GeoJSON is a feature group whose children are created from GeoJSON
// features.
type GeoJSON struct {
	FeatureGroup
	fc    *geojson.FeatureCollection
	IDGen func() string
}

// NewGeoJSON creates a GeoJSON layer from given feature collection.
// The layers created for the features get the identities returned by
// given id generator; if it is nil the feature ids are used.
func NewGeoJSON(
	fc *geojson.FeatureCollection, opts Options, idGen func() string,
) *GeoJSON {
	g := &GeoJSON{IDGen: idGen}
	g.Base = newBase(g, "GeoJSON", opts)
	g.propagate = true
	if fc != nil {
		g.AddData(fc)
	}
	return g
}

// AddData creates layers for the features of given collection and adds
// them to the group.
func (g *GeoJSON) AddData(fc *geojson.FeatureCollection) {
	if g.fc == nil {
		g.fc = geojson.NewFeatureCollection()
	}
	for _, f := range fc.Features {
		l := g.featureLayer(f)
		if l == nil {
			continue
		}
		g.fc.Append(f)
		g.AddLayer(l)
	}
}

// Data returns the features the group's layers were created from.
func (g *GeoJSON) Data() *geojson.FeatureCollection {
	if g.fc == nil {
		return geojson.NewFeatureCollection()
	}
	return g.fc
}

func (g *GeoJSON) featureLayer(f *geojson.Feature) Layer {
	opts := Options{Pane: g.opts.Pane}
	if g.IDGen != nil {
		opts.UUID = g.IDGen()
	} else if id, ok := f.ID.(string); ok {
		opts.UUID = id
	}
	if n, ok := f.Properties["name"].(string); ok {
		opts.Name = n
	}
	var l Layer
	switch geo := f.Geometry.(type) {
	case orb.Point:
		l = NewMarker(geo, opts)
	case orb.LineString:
		l = NewPolyline(geo, opts)
	case orb.Polygon:
		l = NewPolygon(geo, opts)
	case orb.Ring:
		l = NewPolygon(orb.Polygon{geo}, opts)
	case orb.MultiPoint:
		fg := NewFeatureGroup(opts)
		for _, p := range geo {
			fg.AddLayer(NewMarker(p, Options{}))
		}
		l = fg
	case orb.MultiLineString:
		fg := NewFeatureGroup(opts)
		for _, ls := range geo {
			fg.AddLayer(NewPolyline(ls, Options{}))
		}
		l = fg
	case orb.MultiPolygon:
		fg := NewFeatureGroup(opts)
		for _, p := range geo {
			fg.AddLayer(NewPolygon(p, Options{}))
		}
		l = fg
	default:
		return nil
	}
	if p, ok := f.Properties["popupContent"].(string); ok {
		l.base().BindPopup(p)
	}
	return l
}
