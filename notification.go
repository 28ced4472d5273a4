// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/slukits/mapbridge/pkg/leaf"
)

// Notification is a normalized native event reported to the host.
type Notification interface {
	// EventType returns the native event name, e.g. "click".
	EventType() string
	// Source returns the identity of the layer or map the event was
	// fired at.
	Source() string
	// Category returns the handler category which produced the
	// notification.
	Category() Category
}

// Notifier receives the notifications of a component.  It is called
// while the component processes a host call or an operation, i.e. it
// must not call back into the component synchronously.
type Notifier func(Notification)

// Origin is the part all notifications have in common.
type Origin struct {
	Type   string
	ID     string
	NodeID int
	cat    Category
}

// EventType returns the native event name.
func (o Origin) EventType() string { return o.Type }

// Source returns the identity the event was fired at.
func (o Origin) Source() string { return o.ID }

// Category returns the category of the handler creating o.
func (o Origin) Category() Category { return o.cat }

func (o Origin) String() string {
	return fmt.Sprintf("%s %s@%s", o.cat, o.Type, o.ID)
}

// MouseEvent is reported by the Pointer category.
type MouseEvent struct {
	Origin
	LatLng         orb.Point
	ContainerPoint leaf.Point
}

// DragEvent is reported by the Drag category.
type DragEvent struct {
	Origin
	LatLng, OldLatLng orb.Point
}

// DragEndEvent is reported by the DragEnd category.
type DragEndEvent struct {
	Origin
	Distance float64
}

// ResizeEvent is reported by the Resize category.
type ResizeEvent struct {
	Origin
	OldSize, NewSize leaf.Point
}

// BaseEvent is reported by the AddRemove and the Base category.
type BaseEvent struct {
	Origin
}

// MoveEvent is reported by the Move category.
type MoveEvent struct {
	Origin
	LatLng, OldLatLng orb.Point
}

// ZoomAnimEvent is reported by the ZoomAnim category.
type ZoomAnimEvent struct {
	Origin
	Center   orb.Point
	Zoom     float64
	NoUpdate bool
}

// PopupEvent is reported by the Popup category.  Layer is the identity
// of the layer owning the popup.
type PopupEvent struct {
	Origin
	Content string
	Layer   string
}

// TooltipEvent is reported by the Tooltip category.
type TooltipEvent struct {
	Origin
	Content string
	Layer   string
}

// LocationEvent is reported by the LocationFound category.
type LocationEvent struct {
	Origin
	LatLng    orb.Point
	Bounds    orb.Bound
	Accuracy  float64
	Timestamp time.Time
}

// ErrorEvent is reported by the LocationError category.
type ErrorEvent struct {
	Origin
	Message string
	Code    int
}

// handler returns the native handler of given category which reports
// the normalized event to the component's notifier.
func (c *Component) handler(cat Category) leaf.Handler {
	return func(e *leaf.Event) {
		c.notify(normalize(cat, e))
	}
}

func origin(cat Category, e *leaf.Event) Origin {
	o := Origin{Type: e.Type, cat: cat}
	if e.Target != nil {
		o.ID = e.Target.ID()
	}
	if l, ok := e.Target.(leaf.Layer); ok {
		o.NodeID = l.Options().NodeID
	}
	return o
}

func layerID(e *leaf.Event) string {
	if e.Layer != nil {
		return e.Layer.ID()
	}
	if e.Target != nil {
		return e.Target.ID()
	}
	return ""
}

func normalize(cat Category, e *leaf.Event) Notification {
	o := origin(cat, e)
	switch cat {
	case Pointer:
		return MouseEvent{Origin: o, LatLng: e.LatLng,
			ContainerPoint: e.ContainerPoint}
	case Drag:
		return DragEvent{Origin: o, LatLng: e.LatLng,
			OldLatLng: e.OldLatLng}
	case DragEnd:
		return DragEndEvent{Origin: o, Distance: e.Distance}
	case Resize:
		return ResizeEvent{Origin: o, OldSize: e.OldSize,
			NewSize: e.NewSize}
	case Move:
		return MoveEvent{Origin: o, LatLng: e.LatLng,
			OldLatLng: e.OldLatLng}
	case ZoomAnim:
		return ZoomAnimEvent{Origin: o, Center: e.Center, Zoom: e.Zoom,
			NoUpdate: e.NoUpdate}
	case Popup:
		return PopupEvent{Origin: o, Content: e.Popup, Layer: layerID(e)}
	case Tooltip:
		return TooltipEvent{Origin: o, Content: e.Tooltip,
			Layer: layerID(e)}
	case LocationFound:
		return LocationEvent{Origin: o, LatLng: e.LatLng, Bounds: e.Bounds,
			Accuracy: e.Accuracy, Timestamp: e.Timestamp}
	case LocationError:
		return ErrorEvent{Origin: o, Message: e.Message, Code: e.Code}
	}
	return BaseEvent{Origin: o}
}
