// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package leaf

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// Marker is a point layer which may be dragged.
type Marker struct {
	Base
	latLng       orb.Point
	opacity      float64
	zIndexOffset int
	draggable    bool
}

// NewMarker creates a marker at given position.
func NewMarker(ll orb.Point, opts Options) *Marker {
	m := &Marker{latLng: ll, opacity: 1}
	m.Base = newBase(m, "Marker", opts)
	return m
}

// LatLng returns the position of the marker.
func (m *Marker) LatLng() orb.Point { return m.latLng }

// SetLatLng moves the marker to given position firing "move".
func (m *Marker) SetLatLng(ll orb.Point) {
	old := m.latLng
	m.latLng = ll
	m.Fire("move", &Event{LatLng: ll, OldLatLng: old})
}

// Opacity returns the opacity of the marker.
func (m *Marker) Opacity() float64 { return m.opacity }

// SetOpacity sets the opacity of the marker.
func (m *Marker) SetOpacity(o float64) { m.opacity = o }

// ZIndexOffset returns the z-index offset of the marker.
func (m *Marker) ZIndexOffset() int { return m.zIndexOffset }

// SetZIndexOffset sets the z-index offset of the marker.
func (m *Marker) SetZIndexOffset(o int) { m.zIndexOffset = o }

// Draggable returns true if the marker may be dragged.
func (m *Marker) Draggable() bool { return m.draggable }

// SetDraggable enables or disables dragging.
func (m *Marker) SetDraggable(d bool) { m.draggable = d }

// Drag simulates a user dragging the marker along given path.  It fires
// "dragstart", "movestart", a "drag" and a "move" for each path point,
// "dragend" and "moveend".  Drag is a no-op for a marker which isn't
// draggable or attached.
func (m *Marker) Drag(path ...orb.Point) {
	if !m.draggable || m.Map() == nil || len(path) == 0 {
		return
	}
	start := m.latLng
	m.Fire("dragstart", nil)
	m.Fire("movestart", nil)
	for _, p := range path {
		old := m.latLng
		m.latLng = p
		m.Fire("drag", &Event{LatLng: p, OldLatLng: old})
		m.Fire("move", &Event{LatLng: p, OldLatLng: old})
	}
	m.Fire("dragend", &Event{Distance: m.pixelDistance(start)})
	m.Fire("moveend", nil)
}

func (m *Marker) pixelDistance(from orb.Point) float64 {
	mp := m.Map()
	z := float64(mp.Zoom())
	a, b := project(from, z), project(m.latLng, z)
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}

// project returns the web mercator pixel coordinates of given point at
// given zoom.
func project(p orb.Point, z float64) orb.Point {
	scale := TileSize * math.Exp2(z)
	x := (p[0] + 180) / 360 * scale
	siny := math.Sin(p[1] * math.Pi / 180)
	y := (0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi)) * scale
	return orb.Point{x, y}
}

// Style is the styling of vector layers.
type Style struct {
	Stroke      bool
	Color       string
	Weight      float64
	Opacity     float64
	Fill        bool
	FillColor   string
	FillOpacity float64
	DashArray   string
}

// DefaultStyle is the style of a new path.
var DefaultStyle = Style{
	Stroke: true, Color: "#3388ff", Weight: 3, Opacity: 1,
	FillOpacity: 0.2,
}

// Path implements the features all vector layers have in common.
type Path struct {
	Base
	style Style
}

func newPath(self Layer, kind string, opts Options, fill bool) Path {
	s := DefaultStyle
	s.Fill = fill
	return Path{Base: newBase(self, kind, opts), style: s}
}

// Style returns the style of a vector layer.
func (p *Path) Style() Style { return p.style }

// SetStyle replaces the style of a vector layer.
func (p *Path) SetStyle(s Style) { p.style = s }

// BringToFront moves an attached vector layer to the top of its map's
// layer stack.
func (p *Path) BringToFront() {
	if p.Map() != nil {
		p.Map().BringToFront(p.self)
	}
}

// BringToBack moves an attached vector layer to the bottom of its map's
// layer stack.
func (p *Path) BringToBack() {
	if p.Map() != nil {
		p.Map().BringToBack(p.self)
	}
}

// Circle is a circle with a radius in meters.
type Circle struct {
	Path
	center orb.Point
	radius float64
}

// NewCircle creates a circle at given center with given radius in
// meters.
func NewCircle(center orb.Point, radius float64, opts Options) *Circle {
	c := &Circle{center: center, radius: radius}
	c.Path = newPath(c, "Circle", opts, true)
	return c
}

// NewCircleMarker creates a circle whose radius is given in pixels.
func NewCircleMarker(center orb.Point, radius float64, opts Options) *Circle {
	c := &Circle{center: center, radius: radius}
	c.Path = newPath(c, "CircleMarker", opts, true)
	return c
}

// LatLng returns the center of the circle.
func (c *Circle) LatLng() orb.Point { return c.center }

// SetLatLng moves the circle to given center firing "move".
func (c *Circle) SetLatLng(ll orb.Point) {
	old := c.center
	c.center = ll
	c.Fire("move", &Event{LatLng: ll, OldLatLng: old})
}

// Radius returns the radius of the circle.
func (c *Circle) Radius() float64 { return c.radius }

// SetRadius sets the radius of the circle.
func (c *Circle) SetRadius(r float64) { c.radius = r }

// Bounds returns the geographical bounds of a circle with a radius in
// meters respectively the center's bounds for a circle marker.
func (c *Circle) Bounds() orb.Bound {
	if c.Kind() == "CircleMarker" {
		return c.center.Bound()
	}
	return accuracyBounds(c.center, c.radius)
}

// Polyline is a line through a sequence of points.
type Polyline struct {
	Path
	latLngs orb.LineString
}

// NewPolyline creates a line through given points.
func NewPolyline(ll orb.LineString, opts Options) *Polyline {
	p := &Polyline{latLngs: ll.Clone()}
	p.Path = newPath(p, "Polyline", opts, false)
	return p
}

// LatLngs returns a copy of the line's points.
func (p *Polyline) LatLngs() orb.LineString { return p.latLngs.Clone() }

// SetLatLngs replaces the line's points.
func (p *Polyline) SetLatLngs(ll orb.LineString) { p.latLngs = ll.Clone() }

// AddLatLng appends given point to the line.
func (p *Polyline) AddLatLng(ll orb.Point) { p.latLngs = append(p.latLngs, ll) }

// Bounds returns the geographical bounds of the line.
func (p *Polyline) Bounds() orb.Bound { return p.latLngs.Bound() }

// Polygon is a filled area with optional holes.
type Polygon struct {
	Path
	rings orb.Polygon
}

// NewPolygon creates a polygon from given rings; the first ring is the
// outer boundary.
func NewPolygon(rings orb.Polygon, opts Options) *Polygon {
	p := &Polygon{rings: rings.Clone()}
	p.Path = newPath(p, "Polygon", opts, true)
	return p
}

// NewRectangle creates a rectangular polygon from given bounds.
func NewRectangle(b orb.Bound, opts Options) *Polygon {
	p := &Polygon{rings: b.ToPolygon()}
	p.Path = newPath(p, "Rectangle", opts, true)
	return p
}

// LatLngs returns a copy of the polygon's rings.
func (p *Polygon) LatLngs() orb.Polygon { return p.rings.Clone() }

// SetLatLngs replaces the polygon's rings.
func (p *Polygon) SetLatLngs(rings orb.Polygon) { p.rings = rings.Clone() }

// SetBounds replaces the rings by the rectangle of given bounds.
func (p *Polygon) SetBounds(b orb.Bound) { p.rings = b.ToPolygon() }

// Bounds returns the geographical bounds of the polygon.
func (p *Polygon) Bounds() orb.Bound { return p.rings.Bound() }

// TileLayer loads map tiles from a URL template.
type TileLayer struct {
	Base
	url              string
	opacity          float64
	zIndex           int
	minZoom, maxZoom int
	redraws          int
}

// NewTileLayer creates a tile layer for given URL template.
func NewTileLayer(url string, opts Options) *TileLayer {
	t := &TileLayer{url: url, opacity: 1, zIndex: 1,
		maxZoom: DefaultMaxZoom}
	t.Base = newBase(t, "TileLayer", opts)
	return t
}

// URL returns the URL template of the tile layer.
func (t *TileLayer) URL() string { return t.url }

// SetURL replaces the URL template and redraws the layer.
func (t *TileLayer) SetURL(url string) {
	t.url = url
	t.Redraw()
}

// Opacity returns the opacity of the tile layer.
func (t *TileLayer) Opacity() float64 { return t.opacity }

// SetOpacity sets the opacity of the tile layer.
func (t *TileLayer) SetOpacity(o float64) { t.opacity = o }

// ZIndex returns the z-index of the tile layer.
func (t *TileLayer) ZIndex() int { return t.zIndex }

// SetZIndex sets the z-index of the tile layer.
func (t *TileLayer) SetZIndex(z int) { t.zIndex = z }

// SetZoomRange sets the zoom levels at which tiles are loaded.
func (t *TileLayer) SetZoomRange(min, max int) {
	t.minZoom, t.maxZoom = min, max
}

// ZoomRange returns the zoom levels at which tiles are loaded.
func (t *TileLayer) ZoomRange() (min, max int) { return t.minZoom, t.maxZoom }

// Redraw reloads all tiles and fires "loading" and "load".
func (t *TileLayer) Redraw() {
	t.redraws++
	if t.Map() == nil {
		return
	}
	t.Fire("loading", nil)
	t.Fire("load", nil)
}

// Redraws returns how often the tile layer was redrawn.
func (t *TileLayer) Redraws() int { return t.redraws }

// Tile returns the tile address of given point at the map's zoom level.
func (t *TileLayer) Tile(ll orb.Point) (x, y uint32, z int, ok bool) {
	if t.Map() == nil {
		return 0, 0, 0, false
	}
	z = t.Map().Zoom()
	if z < t.minZoom || z > t.maxZoom {
		return 0, 0, 0, false
	}
	tl := maptile.At(ll, maptile.Zoom(z))
	return tl.X, tl.Y, z, true
}
