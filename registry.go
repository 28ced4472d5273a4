// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"github.com/slukits/ints"
	"github.com/slukits/mapbridge/pkg/leaf"
)

// LiveLayer is a native layer created from a host declared layer
// tagged with the declared identity and name.
type LiveLayer struct {
	ID    string
	Name  string
	Layer leaf.Layer
}

// Registry keeps the live layers of a component in the order of their
// addition.  Its zero value is ready to use.
type Registry struct {
	ll []LiveLayer
}

// Add registers given live layer.
func (r *Registry) Add(l LiveLayer) { r.ll = append(r.ll, l) }

// Remove unregisters all live layers with given identity and returns
// them.  Removing an unknown identity is a no-op.
func (r *Registry) Remove(id string) []LiveLayer {
	ii, removed := &ints.Set{}, []LiveLayer{}
	for i, l := range r.ll {
		if l.ID != id {
			continue
		}
		ii.Add(i)
		removed = append(removed, l)
	}
	if ii.Len() == 0 {
		return nil
	}
	kept := make([]LiveLayer, 0, len(r.ll)-ii.Len())
	for i, l := range r.ll {
		if ii.Has(i) {
			continue
		}
		kept = append(kept, l)
	}
	r.ll = kept
	return removed
}

// Get returns the live layer with given identity.
func (r *Registry) Get(id string) (LiveLayer, bool) {
	for _, l := range r.ll {
		if l.ID == id {
			return l, true
		}
	}
	return LiveLayer{}, false
}

// Has returns true if a live layer with given identity is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Len returns the number of registered live layers.
func (r *Registry) Len() int { return len(r.ll) }

// Live returns a copy of the registered live layers.
func (r *Registry) Live() []LiveLayer {
	return append([]LiveLayer(nil), r.ll...)
}

// IDs returns the identities of the registered live layers.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.ll))
	for i, l := range r.ll {
		ids[i] = l.ID
	}
	return ids
}

// FindLayer resolves the node with given identity in the tree rooted
// at given root.  root itself is returned if it has the identity;
// otherwise its children are searched depth first and the first match
// is returned.  The empty identity never matches.  FindLayer returns
// nil if no node with given identity exists.
func FindLayer(root leaf.Node, id string) leaf.Node {
	if root == nil || id == "" {
		return nil
	}
	return findLayer(root, id, map[leaf.Node]bool{})
}

func findLayer(
	head leaf.Node, id string, visited map[leaf.Node]bool,
) (found leaf.Node) {
	if visited[head] {
		return nil
	}
	visited[head] = true
	if head.ID() == id {
		return head
	}
	parent, ok := head.(leaf.Enumerable)
	if !ok {
		return nil
	}
	parent.EachLayer(func(child leaf.Layer) {
		if found != nil {
			return
		}
		found = findLayer(child, id, visited)
	})
	return found
}
