// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"encoding/json"
	"fmt"

	"github.com/slukits/mapbridge/pkg/leaf"
)

// addition is a converted declared layer waiting to be attached.
type addition struct {
	desc   LayerDescriptor
	layer  leaf.Layer
	events []string
}

// change is a prepared splice.
type change struct {
	removed []string
	added   []addition
}

// UpdateLayers records the host's declared layer collection and
// synchronizes the live layers with given splices describing how the
// collection changed.  Before initialization only the collection is
// recorded.  A notification whose splices can't be prepared completely
// fails without changing the live layers or the recorded collection.
func (c *Component) UpdateLayers(
	collection []LayerDescriptor, splices ...Splice,
) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.m == nil {
		c.layers = append([]LayerDescriptor(nil), collection...)
		return nil
	}
	cc, err := c.prepare(collection, splices)
	if err != nil {
		return err
	}
	c.layers = append([]LayerDescriptor(nil), collection...)
	c.apply(cc)
	return nil
}

// prepare decodes, stamps, checks and converts the layers added by
// given splices.  Nothing is attached to the map.
func (c *Component) prepare(
	collection []LayerDescriptor, splices []Splice,
) ([]change, error) {
	live := map[string]bool{}
	for _, id := range c.registry.IDs() {
		live[id] = true
	}
	cc := make([]change, 0, len(splices))
	for i, s := range splices {
		if s.Index < 0 || s.AddedCount < 0 ||
			s.Index+s.AddedCount > len(collection) {
			return nil, fmt.Errorf("%w: splices[%d]: [%d, %d) of %d",
				ErrSplice, i, s.Index, s.Index+s.AddedCount,
				len(collection))
		}
		ch := change{}
		for _, d := range s.Removed {
			ch.removed = append(ch.removed, d.ID)
			delete(live, d.ID)
		}
		for _, d := range collection[s.Index : s.Index+s.AddedCount] {
			if d.ID == "" {
				return nil, fmt.Errorf("%w: layer without identity: %s",
					ErrDecode, d.JSON)
			}
			if live[d.ID] {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentity, d.ID)
			}
			a, err := c.convertLayer(d)
			if err != nil {
				return nil, err
			}
			live[d.ID] = true
			ch.added = append(ch.added, a)
		}
		cc = append(cc, ch)
	}
	return cc, nil
}

func (c *Component) convertLayer(d LayerDescriptor) (addition, error) {
	payload := map[string]interface{}{}
	if err := json.Unmarshal([]byte(d.JSON), &payload); err != nil {
		return addition{}, fmt.Errorf("%w: layer %s: %v", ErrDecode, d.ID, err)
	}
	if payload == nil {
		return addition{}, fmt.Errorf("%w: layer %s: not an object",
			ErrDecode, d.ID)
	}
	payload["uuid"] = d.ID
	payload["nodeId"] = d.NodeID
	if d.Name != "" {
		payload["name"] = d.Name
	}
	l, err := c.conv.ToLayer(payload)
	if err != nil {
		return addition{}, fmt.Errorf("mapbridge: layer %s: %w", d.ID, err)
	}
	return addition{desc: d, layer: l, events: layerEvents(d, payload)}, nil
}

// layerEvents returns the descriptor's events or the events listed in
// the payload.
func layerEvents(d LayerDescriptor, payload map[string]interface{}) []string {
	if len(d.Events) > 0 {
		return d.Events
	}
	raw, ok := payload["events"].([]interface{})
	if !ok {
		return nil
	}
	ee := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			ee = append(ee, s)
		}
	}
	return ee
}

// apply executes prepared changes; per change removals come first.
func (c *Component) apply(cc []change) {
	for _, ch := range cc {
		for _, id := range ch.removed {
			c.removeLayer(id)
		}
		for _, a := range ch.added {
			c.addLayer(a)
		}
	}
}

func (c *Component) addLayer(a addition) {
	c.applyEventListeners(a.layer, a.events)
	c.m.AddLayer(a.layer)
	c.registry.Add(LiveLayer{ID: a.desc.ID, Name: a.desc.Name,
		Layer: a.layer})
	if a.desc.Name == "" {
		return
	}
	c.ensureOverlay()
	c.overlay.AddBaseLayer(a.layer, a.desc.Name)
}

// removeLayer detaches all live layers with given identity from the
// map and the overlay control.  Unknown identities are ignored.
func (c *Component) removeLayer(id string) {
	for _, l := range c.registry.Remove(id) {
		c.m.RemoveLayer(l.Layer)
		if c.overlay != nil {
			c.overlay.RemoveLayer(l.Layer)
		}
	}
}
