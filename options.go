// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"github.com/paulmach/orb"
	"github.com/slukits/mapbridge/pkg/convert"
	"github.com/slukits/mapbridge/pkg/leaf"
)

// Converter turns plain host values into native values.
type Converter interface {
	ToLayer(map[string]interface{}) (leaf.Layer, error)
	ToControl(map[string]interface{}) (leaf.Control, error)
	ToLatLng(interface{}) (orb.Point, error)
	ToLatLngBounds(interface{}) (orb.Bound, error)
	Convert(interface{}) (interface{}, error)
}

// Option configures a component at construction time.
type Option func(*Component)

// WithConverter replaces the default converter.
func WithConverter(cv Converter) Option {
	return func(c *Component) {
		if cv != nil {
			c.conv = cv
		}
	}
}

// WithLogger sets the sink of the component's diagnostics which are
// discarded by default.
func WithLogger(log func(...interface{})) Option {
	return func(c *Component) {
		if log != nil {
			c.log = log
		}
	}
}

// WithNotifier sets the receiver of the component's notifications.
func WithNotifier(n Notifier) Option {
	return func(c *Component) { c.notifier = n }
}

// WithOperations replaces the default operations callable by Invoke.
func WithOperations(oo *Operations) Option {
	return func(c *Component) {
		if oo != nil {
			c.ops = oo
		}
	}
}

// WithGeolocator sets the device position source of the native map.
func WithGeolocator(g leaf.Geolocator) Option {
	return func(c *Component) { c.geolocator = g }
}

func defaults(container string) *Component {
	return &Component{
		container: container,
		conv:      convert.New(nil),
		log:       func(...interface{}) {},
		ops:       DefaultOperations(),
		registry:  &Registry{},
	}
}
