// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/slukits/gounit"
	"github.com/slukits/lines"
	"github.com/slukits/mapbridge/cmd/mapbridge/view"
)

const fxSession = `
# a map with one named marker listening to clicks
{"op": "mapOptions", "mapOptions": {"uuid": "map", "zoom": 5, "center": [52.5, 13.4]}}
{"op": "baseUrl", "baseUrl": "https://tile.example/{z}/{x}/{y}.png"}
{"op": "events", "events": [{"leafletEvent": "zoomend"}]}
{"op": "layers", "layers": [{"uuid": "A", "name": "Roads", "events": ["click"], "json": "{\"leafletType\":\"Marker\",\"latLng\":[1,2]}"}]}
{"op": "init"}
{"op": "zoom", "zoom": 7}
{"op": "invoke", "id": "A", "operation": "getLatLng"}
`

// fixtureSetter implements a method to store a fixture which needs
// cleaning up usually a gounit.Fixtures instance.
type fixtureSetter interface {
	Set(*gounit.T, interface{})
}

type controllerFX struct {
	tt   *lines.Fixture
	view lines.Componenter
	ctrl *controller
}

// fx replays given session by a new controller and returns the
// lines.Fixture instantiated for the controller's view along with the
// controller itself.  The fixture's Quit method is stored to given
// fixture setter.
func fx(t *gounit.T, fs fixtureSetter, session string) *controllerFX {
	fx := &controllerFX{}
	New(InitFactories{
		Fatal: func(i ...interface{}) {
			t.Fatalf("unexpected error: %s", fmt.Sprint(i...))
		},
		Session: func() (io.Reader, error) {
			return strings.NewReader(session), nil
		},
		View: func(i view.Initer) lines.Componenter {
			vi, ok := i.(*viewIniter)
			if !ok {
				t.Fatalf("fx: init: expected viewIniter; got %T", i)
			}
			fx.ctrl = vi.controller
			fx.view = view.New(i)
			return fx.view
		},
		Lines: func(c lines.Componenter) *lines.Lines {
			fx.tt = lines.TermFixture(t.GoT(), 0, c)
			return fx.tt.Lines
		},
	})
	fs.Set(t, func() {
		if fx.tt != nil {
			fx.tt.Lines.Quit()
		}
	})
	return fx
}

// layerLine returns the index of the reported line of the live layer
// with given identity.
func (fx *controllerFX) layerLine(t *gounit.T, id string) int {
	for idx, l := range fx.ctrl.report().ll {
		if strings.HasPrefix(l, "    "+id+" ") {
			return idx
		}
	}
	t.Fatalf("fx: no reported layer %s", id)
	return -1
}

// selectLayer emulates the selection of the reported line of the live
// layer with given identity.
func (fx *controllerFX) selectLayer(t *gounit.T, id string) {
	fx.ctrl.report().Listener()(fx.layerLine(t, id))
}

// report returns the view's reporting component.
func (fx *controllerFX) report(t *gounit.T) lines.Componenter {
	stk, ok := fx.view.(lines.Stacker)
	if !ok {
		t.Fatalf("fx: view is not stacking")
	}
	var rp lines.Componenter
	stk.ForStacked(func(c lines.Componenter) bool {
		if _, ok := c.(lines.Clicker); ok {
			rp = c
			return true
		}
		return false
	})
	if rp == nil {
		t.Fatalf("fx: view has no reporting component")
	}
	return rp
}
