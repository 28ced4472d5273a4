// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"sync"

	"github.com/slukits/mapbridge/pkg/leaf"
	"golang.org/x/exp/slices"
)

// Category is a normalized event handler shape.  Every event name a
// host may subscribe to belongs to exactly one category.
type Category int

const (
	// Pointer handles mouse events like "click".
	Pointer Category = iota
	// Drag handles "drag".
	Drag
	// DragEnd handles "dragend".
	DragEnd
	// Resize handles the map's "resize".
	Resize
	// AddRemove handles "add" and "remove".
	AddRemove
	// Move handles "move".
	Move
	// ZoomAnim handles the map's "zoomanim".
	ZoomAnim
	// Popup handles "popupopen" and "popupclose".
	Popup
	// Tooltip handles "tooltipopen" and "tooltipclose".
	Tooltip
	// LocationFound handles "locationfound".
	LocationFound
	// LocationError handles "locationerror".
	LocationError
	// Base handles the generic lifecycle events like "zoomend".
	Base
)

var categoryNames = []string{"pointer", "drag", "dragend", "resize",
	"add/remove", "move", "zoomanim", "popup", "tooltip",
	"locationfound", "locationerror", "base"}

func (c Category) String() string {
	if c < Pointer || c > Base {
		return "unknown"
	}
	return categoryNames[c]
}

type dispatchEntry struct {
	category Category
	events   map[string]bool
}

var (
	dispatchOnce  sync.Once
	dispatchTable []dispatchEntry
)

func entry(c Category, events ...string) dispatchEntry {
	e := dispatchEntry{category: c, events: map[string]bool{}}
	for _, evt := range events {
		e.events[evt] = true
	}
	return e
}

// table returns the memoized dispatch table.
func table() []dispatchEntry {
	dispatchOnce.Do(func() {
		dispatchTable = []dispatchEntry{
			entry(Pointer, "click", "dblclick", "mousedown", "mouseup",
				"mouseover", "mouseout", "mousemove", "contextmenu",
				"preclick"),
			entry(Drag, "drag"),
			entry(DragEnd, "dragend"),
			entry(Resize, "resize"),
			entry(AddRemove, "add", "remove"),
			entry(Move, "move"),
			entry(ZoomAnim, "zoomanim"),
			entry(Popup, "popupopen", "popupclose"),
			entry(Tooltip, "tooltipopen", "tooltipclose"),
			entry(LocationFound, "locationfound"),
			entry(LocationError, "locationerror"),
			entry(Base, "dragstart", "movestart", "moveend",
				"zoomlevelschange", "unload", "viewreset", "load", "zoom",
				"zoomend", "zoomstart"),
		}
	})
	return dispatchTable
}

// CategoryOf returns the category handling given event name and false
// if no category knows it.
func CategoryOf(event string) (Category, bool) {
	for _, e := range table() {
		if e.events[event] {
			return e.category, true
		}
	}
	return 0, false
}

// EventsOf returns the sorted event names handled by given category.
func EventsOf(c Category) []string {
	for _, e := range table() {
		if e.category != c {
			continue
		}
		ee := make([]string, 0, len(e.events))
		for evt := range e.events {
			ee = append(ee, evt)
		}
		slices.Sort(ee)
		return ee
	}
	return nil
}

// registerEventListener binds the handler of given event's category to
// given target.  It returns false if no category knows given event.
func (c *Component) registerEventListener(
	target leaf.Evented, event string,
) bool {
	cat, ok := CategoryOf(event)
	if !ok {
		c.log("mapbridge: ignoring unknown event: ", event)
		return false
	}
	target.On(event, c.handler(cat))
	return true
}

// applyEventListeners binds the handlers of given events to given
// layer.
func (c *Component) applyEventListeners(l leaf.Layer, events []string) {
	for _, evt := range events {
		c.registerEventListener(l, evt)
	}
}
