// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"fmt"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/slukits/mapbridge/pkg/leaf"
)

// Component bridges the host's declared model and a native leaf map.
// All its methods may be called concurrently; they are processed one
// after another.
type Component struct {
	mutex      sync.Mutex
	container  string
	conv       Converter
	log        func(...interface{})
	notifier   Notifier
	ops        *Operations
	geolocator leaf.Geolocator

	mapOptions          MapOptions
	baseURL             string
	controls            []ControlDescriptor
	events              []EventRecord
	layerControlOptions LayerControlOptions
	layers              []LayerDescriptor

	m           *leaf.Map
	initialized bool
	destroyed   bool
	baseLayer   *leaf.TileLayer
	overlay     *leaf.LayersControl
	attached    []leaf.Control
	registry    *Registry
}

// New creates a component whose map will be bound to given container.
// The map is constructed by the first InitializeOnce call.
func New(container string, opts ...Option) *Component {
	c := defaults(container)
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Component) notify(n Notification) {
	if c.notifier == nil {
		return
	}
	c.notifier(n)
}

// SetMapOptions records the host's map options.  After initialization
// a changed zoom is pushed to the map by UpdateZoom and changed bounds
// by UpdateBounds.
func (c *Component) SetMapOptions(o MapOptions) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	old := c.mapOptions
	c.mapOptions = o
	if c.m == nil {
		return nil
	}
	if old.Zoom != o.Zoom {
		c.updateZoom(o.Zoom)
	}
	if !cmp.Equal(old.Bounds, o.Bounds) {
		return c.fitBounds(o.Bounds)
	}
	return nil
}

// MapOptions returns the recorded map options.
func (c *Component) MapOptions() MapOptions {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.mapOptions
}

// SetBaseURL records the url template of the base tile layer which is
// attached at initialization.
func (c *Component) SetBaseURL(url string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.baseURL = url
}

// SetControls records the controls attached at initialization.
func (c *Component) SetControls(cc []ControlDescriptor) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.controls = append([]ControlDescriptor(nil), cc...)
}

// SetEvents records the events the map itself is subscribed to at
// initialization.  Changes after initialization are logged and
// otherwise ignored.
func (c *Component) SetEvents(ee []EventRecord) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.events = append([]EventRecord(nil), ee...)
	if c.initialized {
		c.log("mapbridge: map listeners changed after initialization: ",
			len(ee))
	}
}

// SetLayerControlOptions records the options of the overlay control.
func (c *Component) SetLayerControlOptions(o LayerControlOptions) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.layerControlOptions = o
}

// InitializeOnce constructs the native map and attaches the declared
// configuration to it.  Only the first successful call has an effect;
// a failing call leaves the component uninitialized and without map.
func (c *Component) InitializeOnce() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.initialized || c.destroyed {
		return nil
	}
	if c.container == "" {
		return ErrNoContainer
	}

	opts := c.mapOptions.leaf()
	opts.Geolocator = c.geolocator
	if c.mapOptions.Center != nil {
		center, err := c.conv.ToLatLng(c.mapOptions.Center)
		if err != nil {
			return fmt.Errorf("mapbridge: center: %w", err)
		}
		opts.Center = &center
	}
	var bounds interface{}
	if c.mapOptions.Bounds != nil {
		b, err := c.conv.ToLatLngBounds(c.mapOptions.Bounds)
		if err != nil {
			return fmt.Errorf("mapbridge: bounds: %w", err)
		}
		bounds = b
	}
	initial, err := c.prepare(c.layers, []Splice{{AddedCount: len(c.layers)}})
	if err != nil {
		return err
	}
	controls := []leaf.Control{}
	for i, cd := range c.controls {
		ctl, err := c.conv.ToControl(cd)
		if err != nil {
			return fmt.Errorf("mapbridge: controls[%d]: %w", i, err)
		}
		controls = append(controls, ctl)
	}

	m, err := leaf.NewMap(c.container, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoContainer, err)
	}
	c.m = m
	for _, e := range c.events {
		c.registerEventListener(m, e.LeafletEvent)
	}
	if c.baseURL != "" {
		c.baseLayer = leaf.NewTileLayer(c.baseURL, leaf.Options{})
		m.AddLayer(c.baseLayer)
	}
	if c.declaresNamedLayer() {
		c.ensureOverlay()
	}
	if bounds != nil {
		if err := c.fitBounds(bounds); err != nil {
			c.log(err)
		}
	}
	c.apply(initial)
	for _, ctl := range controls {
		m.AddControl(ctl)
		c.attached = append(c.attached, ctl)
	}
	m.WhenReady(func() {
		m.InvalidateSize()
	})
	c.initialized = true
	c.log("mapbridge: initialized map in container: ", c.container)
	return nil
}

func (c *Component) declaresNamedLayer() bool {
	for _, d := range c.layers {
		if d.Name != "" {
			return true
		}
	}
	return false
}

// ensureOverlay creates the overlay control if it doesn't exist yet.
func (c *Component) ensureOverlay() {
	if c.overlay != nil {
		return
	}
	c.overlay = leaf.NewLayersControl(c.layerControlOptions.leaf())
	c.m.AddControl(c.overlay)
}

// Initialized returns true once InitializeOnce succeeded.
func (c *Component) Initialized() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.initialized
}

// UpdateZoom sets the zoom level of the map.  It is a no-op before
// initialization.
func (c *Component) UpdateZoom(z int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.updateZoom(z)
}

func (c *Component) updateZoom(z int) {
	if c.m == nil {
		return
	}
	c.m.SetZoom(z)
}

// UpdateBounds fits the map's view to given plain bounds; see
// FitBounds.
func (c *Component) UpdateBounds(b interface{}) error {
	return c.FitBounds(b)
}

// FitBounds sets the view of the map containing given plain bounds at
// the maximal zoom level.  FitBounds is a no-op if the map or the
// bounds are absent.
func (c *Component) FitBounds(b interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.fitBounds(b)
}

func (c *Component) fitBounds(b interface{}) error {
	if c.m == nil || b == nil {
		return nil
	}
	bb, err := c.conv.ToLatLngBounds(b)
	if err != nil {
		return fmt.Errorf("mapbridge: fit bounds: %w", err)
	}
	if err := c.m.FitBounds(bb); err != nil {
		return fmt.Errorf("mapbridge: fit bounds: %w", err)
	}
	return nil
}

// Destroy detaches everything the component attached to the map and
// drops its live layers.  The map is never constructed again, i.e.
// InitializeOnce stays a no-op while the setters keep recording the
// host's declarations.
func (c *Component) Destroy() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.destroyed = true
	if c.m == nil {
		return
	}
	for _, l := range c.registry.Live() {
		c.removeLayer(l.ID)
	}
	if c.overlay != nil {
		c.m.RemoveControl(c.overlay)
		c.overlay = nil
	}
	for _, ctl := range c.attached {
		c.m.RemoveControl(ctl)
	}
	c.attached = nil
	if c.baseLayer != nil {
		c.m.RemoveLayer(c.baseLayer)
		c.baseLayer = nil
	}
	c.m.Remove()
	c.m = nil
	c.registry = &Registry{}
	c.log("mapbridge: destroyed map in container: ", c.container)
}

// Fire reports a native event of given type at the node with given
// identity, e.g. a user's click on a layer of a host's viewer.  The
// event is processed like any other component call, i.e. the
// notifier is called before Fire returns.  Fire fails with
// ErrResolution if there is no map or no node with given identity.
func (c *Component) Fire(id, event string, e *leaf.Event) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.m == nil {
		return fmt.Errorf("%w: no map: %s", ErrResolution, id)
	}
	target, ok := FindLayer(c.m, id).(leaf.Evented)
	if !ok {
		return fmt.Errorf("%w: %s", ErrResolution, id)
	}
	target.Fire(event, e)
	return nil
}

// LayerState describes a live layer in a Snapshot.
type LayerState struct {
	ID, Name, Kind string
}

// Snapshot is a copy of a component's observable state which may be
// read independently of the component.
type Snapshot struct {
	// Mapped is true if the component has a map.
	Mapped   bool
	Zoom     int
	Center   orb.Point
	Layers   []LayerState
	Overlays int
}

// Snapshot returns a copy of the component's current state.
func (c *Component) Snapshot() Snapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	s := Snapshot{Layers: []LayerState{}}
	for _, l := range c.registry.Live() {
		s.Layers = append(s.Layers, LayerState{
			ID: l.ID, Name: l.Name, Kind: l.Layer.Kind()})
	}
	if c.overlay != nil {
		s.Overlays = len(c.overlay.Entries())
	}
	if c.m == nil {
		return s
	}
	s.Mapped, s.Zoom, s.Center = true, c.m.Zoom(), c.m.Center()
	return s
}

// Map returns the native map or nil before initialization and after
// destruction.  Callers running concurrently to other component calls
// must use Fire, Invoke and Snapshot instead of mutating or reading
// the returned map.
func (c *Component) Map() *leaf.Map {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.m
}

// Live returns the live layers in the order of their addition.  The
// same restrictions as for Map apply to the returned native layers.
func (c *Component) Live() []LiveLayer {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.registry.Live()
}

// OverlayControl returns the overlay control or nil if it wasn't
// created yet.
func (c *Component) OverlayControl() *leaf.LayersControl {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.overlay
}

// BaseLayer returns the base tile layer or nil if none is attached.
func (c *Component) BaseLayer() *leaf.TileLayer {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.baseLayer
}

// Controls returns the controls which were attached at initialization.
func (c *Component) Controls() []leaf.Control {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]leaf.Control(nil), c.attached...)
}
