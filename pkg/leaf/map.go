// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package leaf

import (
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"golang.org/x/exp/slices"
)

// TileSize is the edge length of a map tile in pixels.
const TileSize = 256

const (
	// DefaultMaxZoom is the maximal zoom level if MapOptions.MaxZoom
	// is zero.
	DefaultMaxZoom = 18

	// DefaultWidth and DefaultHeight are the container size in pixels
	// if MapOptions.Size is zero.
	DefaultWidth, DefaultHeight = 800, 600
)

// Geolocator reports the device position with its accuracy in meters.
type Geolocator = func() (orb.Point, float64, error)

// MapOptions configure a new map.
type MapOptions struct {

	// UUID is the identity tag of the map.
	UUID string

	// Center and Zoom set the initial view iff Center is not nil.
	Center *orb.Point
	Zoom   int

	// MinZoom and MaxZoom bound the zoom level.
	MinZoom, MaxZoom int

	// ZoomControl and AttributionControl add the respective control
	// at construction time.
	ZoomControl, AttributionControl bool

	// Size is the pixel size of the map container.
	Size Point

	// Geolocator is used by Locate.  Locate reports an error if it is
	// nil.
	Geolocator Geolocator
}

// Map is the central object of leaf: it has a view, layers and
// controls.  A map is loaded, i.e. ready, as soon as its view is set
// the first time.
type Map struct {
	evented
	container     string
	opts          MapOptions
	layers        []Layer
	controls      []Control
	center        orb.Point
	zoom          int
	loaded        bool
	ready         []func()
	size          Point
	containerSize Point
	invalidations int
}

// NewMap creates a map bound to given container.  NewMap fails if the
// container is the zero string.
func NewMap(container string, opts MapOptions) (*Map, error) {
	if container == "" {
		return nil, ErrNoContainer
	}
	if opts.MaxZoom == 0 {
		opts.MaxZoom = DefaultMaxZoom
	}
	if opts.Size == (Point{}) {
		opts.Size = Point{X: DefaultWidth, Y: DefaultHeight}
	}
	m := &Map{
		container:     container,
		opts:          opts,
		size:          opts.Size,
		containerSize: opts.Size,
		zoom:          opts.Zoom,
	}
	if opts.ZoomControl {
		m.AddControl(NewZoomControl(""))
	}
	if opts.AttributionControl {
		m.AddControl(NewAttributionControl("", ""))
	}
	if opts.Center != nil {
		m.SetView(*opts.Center, opts.Zoom)
	}
	return m, nil
}

// ID returns the map's UUID option.
func (m *Map) ID() string { return m.opts.UUID }

// Container returns the container the map is bound to.
func (m *Map) Container() string { return m.container }

// Options returns a copy of the options m was created with.
func (m *Map) Options() MapOptions { return m.opts }

// Fire reports given event of given type to the handlers registered at
// the map.
func (m *Map) Fire(typ string, e *Event) {
	if e == nil {
		e = &Event{}
	}
	e.Type, e.Target = typ, m
	m.fire(e)
}

// AddLayer attaches given layer to the map and fires "add" at the
// layer and "layeradd" at the map.  A layer attached to an other map is
// removed from it first.
func (m *Map) AddLayer(l Layer) *Map {
	if l == nil || l.Map() == m {
		return m
	}
	if l.Map() != nil {
		l.Map().RemoveLayer(l)
	}
	m.layers = append(m.layers, l)
	l.attach(m)
	m.Fire("layeradd", &Event{Layer: l})
	return m
}

// RemoveLayer detaches given layer from the map and fires "remove" at
// the layer and "layerremove" at the map.  RemoveLayer is a no-op for a
// layer which is not attached to m.
func (m *Map) RemoveLayer(l Layer) *Map {
	idx := m.indexOf(l)
	if idx < 0 {
		return m
	}
	m.layers = slices.Delete(m.layers, idx, idx+1)
	l.detach()
	m.Fire("layerremove", &Event{Layer: l})
	return m
}

func (m *Map) indexOf(l Layer) int {
	for i, _l := range m.layers {
		if _l == l {
			return i
		}
	}
	return -1
}

// HasLayer returns true if given layer was added to m.
func (m *Map) HasLayer(l Layer) bool { return m.indexOf(l) >= 0 }

// EachLayer calls given function for each layer which was added
// directly to the map in the order of their addition.
func (m *Map) EachLayer(cb func(Layer)) {
	for _, l := range append([]Layer(nil), m.layers...) {
		cb(l)
	}
}

// Layers returns a copy of the layers added directly to the map.
func (m *Map) Layers() []Layer { return append([]Layer(nil), m.layers...) }

// BringToFront moves given attached layer to the top of the layer
// stack.
func (m *Map) BringToFront(l Layer) {
	idx := m.indexOf(l)
	if idx < 0 {
		return
	}
	m.layers = append(slices.Delete(m.layers, idx, idx+1), l)
}

// BringToBack moves given attached layer to the bottom of the layer
// stack.
func (m *Map) BringToBack(l Layer) {
	idx := m.indexOf(l)
	if idx < 0 {
		return
	}
	m.layers = slices.Insert(slices.Delete(m.layers, idx, idx+1), 0, l)
}

// AddControl adds given control to the map.
func (m *Map) AddControl(c Control) *Map {
	if c == nil || slices.Contains(m.controls, c) {
		return m
	}
	m.controls = append(m.controls, c)
	c.attach(m)
	return m
}

// RemoveControl removes given control from the map.
func (m *Map) RemoveControl(c Control) *Map {
	idx := slices.Index(m.controls, c)
	if idx < 0 {
		return m
	}
	m.controls = slices.Delete(m.controls, idx, idx+1)
	c.detach()
	return m
}

// Controls returns a copy of the controls of the map.
func (m *Map) Controls() []Control {
	return append([]Control(nil), m.controls...)
}

// Loaded returns true once the view of the map was set.
func (m *Map) Loaded() bool { return m.loaded }

// WhenReady calls given function once the map is loaded.  Is the map
// already loaded given function is called right away.
func (m *Map) WhenReady(cb func()) {
	if cb == nil {
		return
	}
	if m.loaded {
		cb()
		return
	}
	m.ready = append(m.ready, cb)
}

// Center returns the geographical center of the view.
func (m *Map) Center() orb.Point { return m.center }

// Zoom returns the zoom level of the view.
func (m *Map) Zoom() int { return m.zoom }

func (m *Map) clamp(z int) int {
	if z < m.opts.MinZoom {
		return m.opts.MinZoom
	}
	if z > m.opts.MaxZoom {
		return m.opts.MaxZoom
	}
	return z
}

// SetView sets the view of the map to given center and zoom level
// firing the move and zoom events.  The first SetView call loads the
// map, i.e. fires "viewreset" and "load" and calls all functions
// registered by WhenReady.
func (m *Map) SetView(center orb.Point, zoom int) *Map {
	zoom = m.clamp(zoom)
	zoomChanged := zoom != m.zoom || !m.loaded
	m.Fire("movestart", nil)
	if zoomChanged {
		m.Fire("zoomstart", nil)
		m.Fire("zoomanim", &Event{Center: center, Zoom: float64(zoom)})
	}
	old := m.center
	m.center, m.zoom = center, zoom
	m.Fire("move", &Event{LatLng: center, OldLatLng: old})
	if zoomChanged {
		m.Fire("zoom", nil)
	}
	if !m.loaded {
		m.Fire("viewreset", nil)
	}
	if zoomChanged {
		m.Fire("zoomend", nil)
	}
	m.Fire("moveend", nil)
	if !m.loaded {
		m.load()
	}
	return m
}

func (m *Map) load() {
	m.loaded = true
	m.Fire("load", nil)
	rr := m.ready
	m.ready = nil
	for _, cb := range rr {
		cb()
	}
}

// SetZoom sets the zoom level of the view.  Before the map is loaded
// only the zoom level is recorded.
func (m *Map) SetZoom(z int) *Map {
	if !m.loaded {
		m.zoom = m.clamp(z)
		return m
	}
	return m.SetView(m.center, z)
}

// SetZoomBounds replaces the minimal and maximal zoom level and fires
// "zoomlevelschange".
func (m *Map) SetZoomBounds(min, max int) *Map {
	if max <= 0 {
		max = DefaultMaxZoom
	}
	if min > max {
		min = max
	}
	m.opts.MinZoom, m.opts.MaxZoom = min, max
	m.Fire("zoomlevelschange", nil)
	if m.loaded && m.clamp(m.zoom) != m.zoom {
		m.SetZoom(m.zoom)
	}
	return m
}

// FitBounds sets a view containing given bounds with the maximal zoom
// level possible.
func (m *Map) FitBounds(b orb.Bound) error {
	if b.IsEmpty() {
		return ErrEmptyBounds
	}
	m.SetView(b.Center(), m.BoundsZoom(b))
	return nil
}

// BoundsZoom returns the maximal zoom level at which given bounds fit
// into the map's container.
func (m *Map) BoundsZoom(b orb.Bound) int {
	for z := m.opts.MaxZoom; z > m.opts.MinZoom; z-- {
		nw := maptile.Fraction(b.LeftTop(), maptile.Zoom(z))
		se := maptile.Fraction(b.RightBottom(), maptile.Zoom(z))
		w := (se[0] - nw[0]) * TileSize
		h := (se[1] - nw[1]) * TileSize
		if w <= float64(m.size.X) && h <= float64(m.size.Y) {
			return z
		}
	}
	return m.opts.MinZoom
}

// Bounds returns the geographical bounds of the current view.
func (m *Map) Bounds() orb.Bound {
	c := maptile.Fraction(m.center, maptile.Zoom(m.zoom))
	dx := float64(m.size.X) / 2 / TileSize
	dy := float64(m.size.Y) / 2 / TileSize
	nw := fromFraction(orb.Point{c[0] - dx, c[1] - dy}, m.zoom)
	se := fromFraction(orb.Point{c[0] + dx, c[1] + dy}, m.zoom)
	return orb.Bound{Min: orb.Point{nw[0], se[1]}, Max: orb.Point{se[0], nw[1]}}
}

// fromFraction is the inverse of maptile.Fraction.
func fromFraction(p orb.Point, z int) orb.Point {
	n := math.Exp2(float64(z))
	lng := p[0]/n*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*p[1]/n))) * 180 / math.Pi
	return orb.Point{lng, lat}
}

// SetSize sets the pixel size of the map's container.  The map takes
// notice of the change at the next InvalidateSize call.
func (m *Map) SetSize(p Point) { m.containerSize = p }

// Size returns the pixel size of the map as of the last InvalidateSize
// call.
func (m *Map) Size() Point { return m.size }

// InvalidateSize checks if the container size changed and fires
// "resize" if so and the map is loaded.
func (m *Map) InvalidateSize() {
	m.invalidations++
	if m.size == m.containerSize {
		return
	}
	old := m.size
	m.size = m.containerSize
	if m.loaded {
		m.Fire("resize", &Event{OldSize: old, NewSize: m.size})
	}
}

// Invalidations returns the number of InvalidateSize calls.
func (m *Map) Invalidations() int { return m.invalidations }

// Locate asks the map's geolocator for the device position and fires
// "locationfound" or "locationerror".
func (m *Map) Locate() {
	if m.opts.Geolocator == nil {
		m.Fire("locationerror", &Event{
			Message: "Geolocation error: not supported.", Code: 0})
		return
	}
	p, acc, err := m.opts.Geolocator()
	if err != nil {
		m.Fire("locationerror", &Event{
			Message: "Geolocation error: " + err.Error(), Code: 1})
		return
	}
	m.Fire("locationfound", &Event{
		LatLng:    p,
		Accuracy:  acc,
		Bounds:    accuracyBounds(p, acc),
		Timestamp: time.Now(),
	})
}

const metersPerDegree = 40075016.686 / 360

func accuracyBounds(p orb.Point, acc float64) orb.Bound {
	dLat := acc / metersPerDegree
	dLng := dLat / math.Max(math.Cos(p[1]*math.Pi/180), 1e-9)
	return orb.Bound{
		Min: orb.Point{p[0] - dLng, p[1] - dLat},
		Max: orb.Point{p[0] + dLng, p[1] + dLat},
	}
}

// Remove detaches all layers and controls, fires "unload" and removes
// all handlers.
func (m *Map) Remove() {
	for _, l := range m.Layers() {
		m.RemoveLayer(l)
	}
	for _, c := range m.Controls() {
		m.RemoveControl(c)
	}
	m.Fire("unload", nil)
	m.OffAll()
}
