// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package leaf

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Control positions.
const (
	TopLeft     = "topleft"
	TopRight    = "topright"
	BottomLeft  = "bottomleft"
	BottomRight = "bottomright"
)

// Control is a UI element placed in a corner of a map.  A Control can
// only be implemented by embedding ControlBase.
type Control interface {

	// Kind returns the control type name, e.g. "Zoom".
	Kind() string

	// Position returns the corner a control is placed in.
	Position() string

	// Map returns the map a control was added to or nil.
	Map() *Map

	attach(*Map)
	detach()
}

// ControlBase implements the features all controls have in common.
type ControlBase struct {
	kind     string
	position string
	m        *Map
}

func newControlBase(kind, position, dflt string) ControlBase {
	if position == "" {
		position = dflt
	}
	return ControlBase{kind: kind, position: position}
}

// Kind returns the type name of a control.
func (c *ControlBase) Kind() string { return c.kind }

// Position returns the corner a control is placed in.
func (c *ControlBase) Position() string { return c.position }

// SetPosition moves a control to given corner.
func (c *ControlBase) SetPosition(p string) { c.position = p }

// Map returns the map a control was added to or nil.
func (c *ControlBase) Map() *Map { return c.m }

func (c *ControlBase) attach(m *Map) { c.m = m }
func (c *ControlBase) detach()       { c.m = nil }

// ZoomControl provides buttons to zoom in and out.
type ZoomControl struct{ ControlBase }

// NewZoomControl creates a zoom control at given position which
// defaults to TopLeft.
func NewZoomControl(position string) *ZoomControl {
	return &ZoomControl{newControlBase("Zoom", position, TopLeft)}
}

// ZoomIn increases the zoom level of the map by one.
func (c *ZoomControl) ZoomIn() {
	if c.m != nil {
		c.m.SetZoom(c.m.Zoom() + 1)
	}
}

// ZoomOut decreases the zoom level of the map by one.
func (c *ZoomControl) ZoomOut() {
	if c.m != nil {
		c.m.SetZoom(c.m.Zoom() - 1)
	}
}

// ScaleControl shows the scale of the current view.
type ScaleControl struct {
	ControlBase
	Metric, Imperial bool
}

// NewScaleControl creates a scale control at given position which
// defaults to BottomLeft.
func NewScaleControl(position string) *ScaleControl {
	return &ScaleControl{
		ControlBase: newControlBase("Scale", position, BottomLeft),
		Metric:      true, Imperial: true,
	}
}

// AttributionControl shows the attributions of a map's layers.
type AttributionControl struct {
	ControlBase
	prefix string
}

// NewAttributionControl creates an attribution control with given
// prefix at given position which defaults to BottomRight.
func NewAttributionControl(prefix, position string) *AttributionControl {
	return &AttributionControl{
		ControlBase: newControlBase("Attribution", position, BottomRight),
		prefix:      prefix,
	}
}

// Prefix returns the text shown in front of the attributions.
func (c *AttributionControl) Prefix() string { return c.prefix }

// SetPrefix replaces the text shown in front of the attributions.
func (c *AttributionControl) SetPrefix(p string) { c.prefix = p }

// Text returns the prefix and the distinct attributions of the map's
// layers joined by " | ".
func (c *AttributionControl) Text() string {
	ss := []string{}
	if c.prefix != "" {
		ss = append(ss, c.prefix)
	}
	if c.m == nil {
		return strings.Join(ss, " | ")
	}
	c.m.EachLayer(func(l Layer) {
		a := l.Options().Attribution
		if a == "" || slices.Contains(ss, a) {
			return
		}
		ss = append(ss, a)
	})
	return strings.Join(ss, " | ")
}

// LayersOptions configure a layers control.
type LayersOptions struct {
	Position       string
	Collapsed      bool
	AutoZIndex     bool
	HideSingleBase bool
	SortLayers     bool
}

// LayerEntry is a layer listed by a layers control.
type LayerEntry struct {
	Name    string
	Layer   Layer
	Overlay bool
}

// LayersControl lets a user switch between base layers and toggle
// overlays.
type LayersControl struct {
	ControlBase
	opts    LayersOptions
	entries []LayerEntry
}

// NewLayersControl creates a layers control; its position defaults to
// TopRight.
func NewLayersControl(opts LayersOptions) *LayersControl {
	return &LayersControl{
		ControlBase: newControlBase("Layers", opts.Position, TopRight),
		opts:        opts,
	}
}

// Options returns the options a layers control was created with.
func (c *LayersControl) Options() LayersOptions { return c.opts }

// AddBaseLayer lists given layer with given name as base layer.
func (c *LayersControl) AddBaseLayer(l Layer, name string) *LayersControl {
	c.add(LayerEntry{Name: name, Layer: l})
	return c
}

// AddOverlay lists given layer with given name as overlay.
func (c *LayersControl) AddOverlay(l Layer, name string) *LayersControl {
	c.add(LayerEntry{Name: name, Layer: l, Overlay: true})
	return c
}

func (c *LayersControl) add(e LayerEntry) {
	if e.Layer == nil {
		return
	}
	c.RemoveLayer(e.Layer)
	c.entries = append(c.entries, e)
	if c.opts.SortLayers {
		slices.SortStableFunc(c.entries, func(a, b LayerEntry) bool {
			if a.Overlay != b.Overlay {
				return !a.Overlay
			}
			return a.Name < b.Name
		})
	}
}

// RemoveLayer removes given layer from the listed layers.
func (c *LayersControl) RemoveLayer(l Layer) *LayersControl {
	idx := slices.IndexFunc(c.entries, func(e LayerEntry) bool {
		return e.Layer == l
	})
	if idx >= 0 {
		c.entries = slices.Delete(c.entries, idx, idx+1)
	}
	return c
}

// Entries returns a copy of the listed layers.
func (c *LayersControl) Entries() []LayerEntry {
	return append([]LayerEntry(nil), c.entries...)
}

// Select emulates a user selecting the listed layer with given name.
// A selected base layer is added to the map while all other base layers
// are removed from it; a selected overlay is toggled.  Select returns
// false if no layer with given name is listed or the control is not
// added to a map.
func (c *LayersControl) Select(name string) bool {
	if c.m == nil {
		return false
	}
	idx := slices.IndexFunc(c.entries, func(e LayerEntry) bool {
		return e.Name == name
	})
	if idx < 0 {
		return false
	}
	sel := c.entries[idx]
	if sel.Overlay {
		if c.m.HasLayer(sel.Layer) {
			c.m.RemoveLayer(sel.Layer)
			return true
		}
		c.m.AddLayer(sel.Layer)
		return true
	}
	for _, e := range c.entries {
		if e.Overlay || e.Layer == sel.Layer {
			continue
		}
		c.m.RemoveLayer(e.Layer)
	}
	c.m.AddLayer(sel.Layer)
	c.m.Fire("baselayerchange", &Event{Layer: sel.Layer})
	return true
}
