// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package leaf

import (
	"time"

	"github.com/paulmach/orb"
)

// Handler is a callback registered for an event type.
type Handler func(*Event)

// Point is a position or size in pixels.
type Point struct{ X, Y int }

// Event is reported to registered handlers.  Which of its fields are
// set depends on the event type, e.g. a "click" provides LatLng and
// ContainerPoint while a "resize" provides OldSize and NewSize.
type Event struct {

	// Type is the event type, e.g. "click".
	Type string

	// Target is the node the event was fired at.
	Target Node

	// Layer is the layer a map-level popup/tooltip event originates
	// from.
	Layer Layer

	// LatLng is the geographical point of a pointer or drag event.
	LatLng orb.Point

	// OldLatLng is the previous position of a dragged or moved layer.
	OldLatLng orb.Point

	// ContainerPoint is the pixel position of a pointer event
	// relative to the map container.
	ContainerPoint Point

	// Distance is the pixel distance a layer was dragged.
	Distance float64

	// OldSize and NewSize are reported by "resize".
	OldSize, NewSize Point

	// Center and Zoom are reported by "zoomanim".
	Center orb.Point
	Zoom   float64

	// NoUpdate is reported by "zoomanim".
	NoUpdate bool

	// Popup and Tooltip are the contents reported by popup
	// respectively tooltip events.
	Popup, Tooltip string

	// Bounds, Accuracy and Timestamp are reported by "locationfound".
	Bounds    orb.Bound
	Accuracy  float64
	Timestamp time.Time

	// Message and Code are reported by "locationerror".
	Message string
	Code    int
}

// Evented is implemented by the map and all layers.
type Evented interface {

	// On registers given handler for given event type.
	On(typ string, h Handler)

	// Off removes all handlers of given event type.
	Off(typ string)

	// Listens returns true if at least one handler is registered for
	// given event type.
	Listens(typ string) bool

	// Fire reports given event of given type to registered handlers.
	Fire(typ string, e *Event)
}

// evented keeps the handlers of a node mapped to their event types.
// Handlers of the same type are called in registration order.
type evented struct {
	hh map[string][]Handler
}

func (ev *evented) On(typ string, h Handler) {
	if h == nil {
		return
	}
	if ev.hh == nil {
		ev.hh = map[string][]Handler{}
	}
	ev.hh[typ] = append(ev.hh[typ], h)
}

func (ev *evented) Off(typ string) { delete(ev.hh, typ) }

func (ev *evented) Listens(typ string) bool { return len(ev.hh[typ]) > 0 }

// Listeners returns the number of handlers registered for given type.
func (ev *evented) Listeners(typ string) int { return len(ev.hh[typ]) }

// OffAll removes all registered handlers.
func (ev *evented) OffAll() { ev.hh = nil }

func (ev *evented) fire(e *Event) {
	hh := ev.hh[e.Type]
	if len(hh) == 0 {
		return
	}
	// a handler may register or remove handlers
	for _, h := range append([]Handler(nil), hh...) {
		h(e)
	}
}
