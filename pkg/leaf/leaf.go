// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package leaf is a small imperative interactive-map library.  It
// provides a map with a view (center and zoom), layers which may be
// attached to the map, container layers holding child layers, controls
// and an event system reporting user interaction to registered
// handlers.
//
// leaf does not draw anything.  It keeps the state a drawing map
// library keeps and fires the events such a library would fire, i.e.
// it is the imperative counterpart a declarative host is synchronized
// with:
//
//	m, err := leaf.NewMap("map", leaf.MapOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mrk := leaf.NewMarker(orb.Point{13.4, 52.5}, leaf.Options{UUID: id})
//	mrk.On("click", func(e *leaf.Event) { fmt.Println(e.LatLng) })
//	m.AddLayer(mrk)
//	mrk.Fire("click", &leaf.Event{LatLng: mrk.LatLng()})
//
// Every layer carries Options whose UUID is the identity a host uses
// to address a layer later on.  Note that Map.EachLayer only reports
// the layers which were added directly to the map; the children of a
// container layer are reported by the container's EachLayer.
package leaf

import (
	"errors"
	"fmt"
)

// Node is implemented by everything a layer can be searched for in,
// i.e. by the map and by every layer.
type Node interface {
	// ID returns the identity tag of a node; the zero string if a
	// node has none.
	ID() string
}

// Enumerable is implemented by nodes which hold child layers like the
// map or a layer group.
type Enumerable interface {
	Node
	// EachLayer calls given function for each direct child layer.
	EachLayer(func(Layer))
}

// Layer is the interface all map layers implement.  A Layer can only
// be implemented by embedding Base.
type Layer interface {
	Node
	Evented

	// Kind returns the layer type name, e.g. "Marker".
	Kind() string

	// Options returns the options a layer was created with.
	Options() *Options

	// Map returns the map a layer is attached to or nil.
	Map() *Map

	base() *Base
	attach(*Map)
	detach()
}

// Container is a layer holding other layers.
type Container interface {
	Layer
	EachLayer(func(Layer))
}

// Options are the options all layers have in common.
type Options struct {

	// UUID is the identity tag of a layer.
	UUID string

	// NodeID is the host's node id of the component which created a
	// layer.
	NodeID int

	// Name is the display name of a layer.
	Name string

	// Attribution is reported to an attribution control.
	Attribution string

	// Pane is the name of the map pane a layer belongs to.
	Pane string
}

// ErrLeaf is the general leaf error all other errors are derived from.
var ErrLeaf = errors.New("leaf")

// ErrNoContainer is returned by NewMap if no container is given.
var ErrNoContainer = fmt.Errorf("%w: map: no container", ErrLeaf)

// ErrNotLoaded is returned by operations which need a map whose view
// was set.
var ErrNotLoaded = fmt.Errorf("%w: map: view not set", ErrLeaf)

// ErrEmptyBounds is returned by FitBounds for empty bounds.
var ErrEmptyBounds = fmt.Errorf("%w: map: empty bounds", ErrLeaf)

// Base implements the features all layers have in common.  It must be
// embedded by every Layer implementation.
type Base struct {
	evented
	kind    string
	opts    Options
	m       *Map
	self    Layer
	popup   overlay
	tooltip overlay
	parent  *Base
}

func newBase(self Layer, kind string, opts Options) Base {
	return Base{kind: kind, opts: opts, self: self}
}

func (b *Base) base() *Base { return b }

// ID returns the UUID of a layer's options.
func (b *Base) ID() string { return b.opts.UUID }

// Kind returns the type name of a layer.
func (b *Base) Kind() string { return b.kind }

// Options returns a layer's options.
func (b *Base) Options() *Options { return &b.opts }

// Map returns the map a layer is attached to or nil.
func (b *Base) Map() *Map { return b.m }

// AddTo adds a layer to given map.
func (b *Base) AddTo(m *Map) { m.AddLayer(b.self) }

// Remove removes a layer from the map it is attached to.
func (b *Base) Remove() {
	if b.m == nil {
		return
	}
	b.m.RemoveLayer(b.self)
}

// Fire reports an event of given type to the handlers registered at a
// layer.  A Fire call sets the event's type and target.
func (b *Base) Fire(typ string, e *Event) {
	if e == nil {
		e = &Event{}
	}
	e.Type, e.Target = typ, b.self
	b.fire(e)
	if b.parent == nil || typ == "add" || typ == "remove" {
		return
	}
	pe := *e
	pe.Layer = b.self
	b.parent.Fire(typ, &pe)
}

func (b *Base) attach(m *Map) {
	b.m = m
	b.Fire("add", nil)
}

func (b *Base) detach() {
	if b.popup.open {
		b.ClosePopup()
	}
	if b.tooltip.open {
		b.CloseTooltip()
	}
	b.m = nil
	b.Fire("remove", nil)
}

// overlay is the content and state of a popup or tooltip.
type overlay struct {
	content string
	bound   bool
	open    bool
}

// BindPopup binds a popup with given content to a layer.
func (b *Base) BindPopup(content string) {
	b.popup.content, b.popup.bound = content, true
}

// Popup returns the content of a layer's bound popup and false if no
// popup is bound.
func (b *Base) Popup() (string, bool) {
	return b.popup.content, b.popup.bound
}

// OpenPopup opens the bound popup and fires "popupopen" at the layer
// and its map.  OpenPopup is a no-op if no popup is bound or it is
// already open.
func (b *Base) OpenPopup() {
	if !b.popup.bound || b.popup.open {
		return
	}
	b.popup.open = true
	b.fireOverlay("popupopen", &Event{Popup: b.popup.content})
}

// ClosePopup closes an open popup and fires "popupclose".
func (b *Base) ClosePopup() {
	if !b.popup.open {
		return
	}
	b.popup.open = false
	b.fireOverlay("popupclose", &Event{Popup: b.popup.content})
}

// TogglePopup opens a closed and closes an open popup.
func (b *Base) TogglePopup() {
	if b.popup.open {
		b.ClosePopup()
		return
	}
	b.OpenPopup()
}

// IsPopupOpen returns true if a layer's popup is open.
func (b *Base) IsPopupOpen() bool { return b.popup.open }

// BindTooltip binds a tooltip with given content to a layer.
func (b *Base) BindTooltip(content string) {
	b.tooltip.content, b.tooltip.bound = content, true
}

// Tooltip returns the content of a layer's bound tooltip and false if
// no tooltip is bound.
func (b *Base) Tooltip() (string, bool) {
	return b.tooltip.content, b.tooltip.bound
}

// OpenTooltip opens the bound tooltip and fires "tooltipopen".
func (b *Base) OpenTooltip() {
	if !b.tooltip.bound || b.tooltip.open {
		return
	}
	b.tooltip.open = true
	b.fireOverlay("tooltipopen", &Event{Tooltip: b.tooltip.content})
}

// CloseTooltip closes an open tooltip and fires "tooltipclose".
func (b *Base) CloseTooltip() {
	if !b.tooltip.open {
		return
	}
	b.tooltip.open = false
	b.fireOverlay("tooltipclose", &Event{Tooltip: b.tooltip.content})
}

// IsTooltipOpen returns true if a layer's tooltip is open.
func (b *Base) IsTooltipOpen() bool { return b.tooltip.open }

// fireOverlay fires a popup/tooltip event at the layer and, if
// attached, at its map.
func (b *Base) fireOverlay(typ string, e *Event) {
	b.Fire(typ, e)
	if b.m == nil {
		return
	}
	me := *e
	me.Layer = b.self
	b.m.Fire(typ, &me)
}
