// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"github.com/slukits/mapbridge/pkg/leaf"
)

// MapOptions configure the native map.  Center and Bounds are plain
// host values converted by the component's Converter.  Zoom and Bounds
// may be updated after initialization and are pushed to the live map.
type MapOptions struct {
	UUID               string      `json:"uuid,omitempty"`
	Zoom               int         `json:"zoom"`
	Center             interface{} `json:"center,omitempty"`
	Bounds             interface{} `json:"bounds,omitempty"`
	MinZoom            int         `json:"minZoom,omitempty"`
	MaxZoom            int         `json:"maxZoom,omitempty"`
	ZoomControl        *bool       `json:"zoomControl,omitempty"`
	AttributionControl *bool       `json:"attributionControl,omitempty"`
	Width              int         `json:"width,omitempty"`
	Height             int         `json:"height,omitempty"`
}

func (o MapOptions) leaf() leaf.MapOptions {
	return leaf.MapOptions{
		UUID:               o.UUID,
		Zoom:               o.Zoom,
		MinZoom:            o.MinZoom,
		MaxZoom:            o.MaxZoom,
		ZoomControl:        o.ZoomControl == nil || *o.ZoomControl,
		AttributionControl: o.AttributionControl == nil || *o.AttributionControl,
		Size:               leaf.Point{X: o.Width, Y: o.Height},
	}
}

// LayerDescriptor is a host declared layer.  JSON is the encoded layer
// payload, e.g.
//
//	{"leafletType": "Marker", "latLng": {"lat": 52.5, "lng": 13.4}}
//
// which is stamped with the descriptor's identity, node id and name
// before it is converted.
type LayerDescriptor struct {
	ID     string   `json:"uuid"`
	Name   string   `json:"name,omitempty"`
	NodeID int      `json:"nodeId,omitempty"`
	JSON   string   `json:"json"`
	Events []string `json:"events,omitempty"`
}

// ControlDescriptor is a plain host value describing a control, e.g.
// {"leafletType": "scale", "position": "bottomleft"}.
type ControlDescriptor map[string]interface{}

// EventRecord subscribes the map itself to an event.
type EventRecord struct {
	LeafletEvent string `json:"leafletEvent"`
}

// LayerControlOptions configure the overlay control.
type LayerControlOptions struct {
	Collapsed      *bool  `json:"collapsed,omitempty"`
	Position       string `json:"position,omitempty"`
	AutoZIndex     *bool  `json:"autoZIndex,omitempty"`
	HideSingleBase bool   `json:"hideSingleBase,omitempty"`
	SortLayers     bool   `json:"sortLayers,omitempty"`
}

func (o LayerControlOptions) leaf() leaf.LayersOptions {
	return leaf.LayersOptions{
		Position:       o.Position,
		Collapsed:      o.Collapsed == nil || *o.Collapsed,
		AutoZIndex:     o.AutoZIndex == nil || *o.AutoZIndex,
		HideSingleBase: o.HideSingleBase,
		SortLayers:     o.SortLayers,
	}
}

// Splice is one change of the declared layer collection: Removed lists
// the removed descriptors while the added descriptors are found in the
// current collection at [Index, Index+AddedCount).
type Splice struct {
	Index      int               `json:"index"`
	Removed    []LayerDescriptor `json:"removed,omitempty"`
	AddedCount int               `json:"addedCount"`
}
