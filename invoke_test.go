// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	. "github.com/slukits/gounit"
	"github.com/slukits/mapbridge/pkg/leaf"
)

type invoke struct{ Suite }

func (s *invoke) SetUp(t *T) { t.Parallel() }

func (s *invoke) Fails_to_resolve_before_construction(t *T) {
	_, err := New("map").Invoke("A", "getLatLng", "")
	t.ErrIs(err, ErrResolution)
}

func (s *invoke) Fails_to_resolve_unknown_identity(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	_, err := c.Invoke("X", "getLatLng", "")
	t.ErrIs(err, ErrResolution)
	t.Not.True(errors.Is(err, ErrInvocation))
}

func (s *invoke) Fails_unknown_operation(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	_, err := c.Invoke("A", "frobnicate", "")
	t.ErrIs(err, ErrInvocation)
}

func (s *invoke) Returns_the_native_result_unchanged(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	v, err := c.Invoke("A", "getLatLng", "")
	t.FatalOn(err)
	t.Eq(orb.Point{2, 1}, v)
}

func (s *invoke) Applies_converted_arguments(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	v, err := c.Invoke("A", "setLatLng", `[{"lat": 5, "lng": 6}]`)
	t.FatalOn(err)
	t.True(v == nil)
	t.Eq(orb.Point{6, 5}, c.Live()[0].Layer.(*leaf.Marker).LatLng())

	_, err = c.Invoke("A", "setLatLng", `[[7, 8]]`)
	t.FatalOn(err)
	t.Eq(orb.Point{8, 7}, c.Live()[0].Layer.(*leaf.Marker).LatLng())
}

func (s *invoke) Fails_malformed_arguments_as_decode_error(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	_, err := c.Invoke("A", "setLatLng", `[{"lat": 5`)
	t.ErrIs(err, ErrInvocation)
	t.ErrIs(err, ErrDecode)

	_, err = c.Invoke("A", "setLatLng", `{"lat": 5, "lng": 6}`)
	t.ErrIs(err, ErrDecode)
}

func (s *invoke) Fails_ill_typed_arguments(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	_, err := c.Invoke("A", "setOpacity", `["opaque"]`)
	t.ErrIs(err, ErrArguments)
	t.ErrIs(err, ErrInvocation)
	_, err = c.Invoke("A", "setOpacity", "")
	t.ErrIs(err, ErrArguments)
}

func (s *invoke) Fails_operation_unsupported_by_target(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	_, err := c.Invoke("A", "setRadius", "[5]")
	t.ErrIs(err, ErrUnsupportedTarget)
	t.ErrIs(err, ErrInvocation)
}

func (s *invoke) Resolves_layers_nested_in_containers(t *T) {
	c := initialized(t, []LayerDescriptor{{ID: "G", JSON: `{
		"leafletType": "LayerGroup",
		"layers": [{"leafletType": "FeatureGroup", "uuid": "F",
			"layers": [{"leafletType": "Circle", "uuid": "C",
				"latLng": [1, 2], "radius": 30}]}]}`}})
	v, err := c.Invoke("C", "getRadius", "")
	t.FatalOn(err)
	t.Eq(30.0, v)

	v, err = c.Invoke("G", "getLayers", "")
	t.FatalOn(err)
	t.Eq("[F]", fmt.Sprint(v))
}

func (s *invoke) Resolves_the_map_itself(t *T) {
	c := New("map")
	t.FatalOn(c.SetMapOptions(MapOptions{UUID: "map-1",
		Center: []interface{}{1.0, 2.0}, Zoom: 4}))
	t.FatalOn(c.InitializeOnce())

	v, err := c.Invoke("map-1", "getZoom", "")
	t.FatalOn(err)
	t.Eq(4, v)
	_, err = c.Invoke("map-1", "zoomIn", "[2]")
	t.FatalOn(err)
	t.Eq(6, c.Map().Zoom())
	_, err = c.Invoke("map-1", "setView", `[{"lat": 3, "lng": 4}, 7]`)
	t.FatalOn(err)
	t.Eq(orb.Point{4, 3}, c.Map().Center())
	t.Eq(7, c.Map().Zoom())
}

func (s *invoke) Opens_bound_popups_and_notifies(t *T) {
	nn := []Notification{}
	c := initialized(t,
		[]LayerDescriptor{layer("A", "", "popupopen")},
		WithNotifier(func(n Notification) { nn = append(nn, n) }))
	_, err := c.Invoke("A", "bindPopup", `["hello"]`)
	t.FatalOn(err)
	_, err = c.Invoke("A", "openPopup", "")
	t.FatalOn(err)

	v, err := c.Invoke("A", "isPopupOpen", "")
	t.FatalOn(err)
	t.Eq(true, v)
	t.FatalIfNot(t.Eq(1, len(nn)))
	pe, ok := nn[0].(PopupEvent)
	t.FatalIfNot(t.True(ok))
	t.Eq("hello", pe.Content)
	t.Eq("A", pe.Layer)
	t.Eq(Popup, pe.Category())
}

func (s *invoke) Styles_paths(t *T) {
	c := initialized(t, []LayerDescriptor{{ID: "P", JSON: `{
		"leafletType": "Polyline", "latLngs": [[0, 0], [1, 1]]}`}})
	_, err := c.Invoke("P", "setStyle", `[{"color": "red", "weight": 5}]`)
	t.FatalOn(err)
	st := c.Live()[0].Layer.(*leaf.Polyline).Style()
	t.Eq("red", st.Color)
	t.Eq(5.0, st.Weight)

	_, err = c.Invoke("P", "setStyle", `[{"color": 5}]`)
	t.ErrIs(err, ErrArguments)
}

func (s *invoke) Sets_polygon_rings_given_as_objects(t *T) {
	c := initialized(t, []LayerDescriptor{{ID: "P", JSON: `{
		"leafletType": "Polygon", "latLngs": [[0, 0], [1, 1], [1, 0]]}`}})
	_, err := c.Invoke("P", "setLatLngs", `[[
		[{"lat": 1, "lng": 2}, {"lat": 3, "lng": 4}, {"lat": 5, "lng": 6}],
		[{"lat": 2, "lng": 3}, {"lat": 3, "lng": 4}, {"lat": 2, "lng": 4}]
	]]`)
	t.FatalOn(err)
	rr := c.Live()[0].Layer.(*leaf.Polygon).LatLngs()
	t.FatalIfNot(t.Eq(2, len(rr)))
	t.Eq(4, len(rr[0]))
	t.Eq(orb.Point{2, 1}, rr[0][0])
	t.Eq(orb.Point{3, 2}, rr[1][0])
}

func (s *invoke) Calls_registered_operations(t *T) {
	oo := DefaultOperations()
	t.FatalOn(oo.Register("kind", func(
		target leaf.Node, _ []interface{},
	) (interface{}, error) {
		return target.(leaf.Layer).Kind(), nil
	}))
	boom := errors.New("boom")
	t.FatalOn(oo.Register("boom", func(
		leaf.Node, []interface{},
	) (interface{}, error) {
		return nil, boom
	}))
	c := initialized(t, []LayerDescriptor{layer("A", "")},
		WithOperations(oo))

	v, err := c.Invoke("A", "kind", "")
	t.FatalOn(err)
	t.Eq("Marker", v)
	_, err = c.Invoke("A", "boom", "")
	t.ErrIs(err, ErrInvocation)
	t.ErrIs(err, boom)
}

func TestInvoke(t *testing.T) {
	t.Parallel()
	Run(&invoke{}, t)
}

type operations struct{ Suite }

func (s *operations) SetUp(t *T) { t.Parallel() }

func (s *operations) Fail_registration_of_invalid_operation(t *T) {
	oo := &Operations{}
	t.ErrIs(oo.Register("", func(leaf.Node, []interface{}) (
		interface{}, error) {
		return nil, nil
	}), ErrOperation)
	t.ErrIs(oo.Register("nil", nil), ErrOperation)
}

func (s *operations) Fail_registration_of_existing_name(t *T) {
	t.ErrIs(DefaultOperations().Register("getLatLng", getRadius),
		ErrOperationExists)
}

func (s *operations) Are_listed_sorted_by_name(t *T) {
	oo := &Operations{}
	t.FatalOn(oo.Register("b", getRadius))
	t.FatalOn(oo.Register("a", getRadius))
	t.Eq("[a b]", fmt.Sprint(oo.Names()))
	_, ok := oo.Lookup("c")
	t.Not.True(ok)
}

func (s *operations) Cover_map_and_layer_capabilities(t *T) {
	oo := DefaultOperations()
	for _, name := range []string{"setLatLng", "getLatLng", "setStyle",
		"bindPopup", "openTooltip", "setUrl", "redraw", "clearLayers",
		"getLayers", "setZoom", "fitBounds", "locate"} {
		_, ok := oo.Lookup(name)
		t.True(ok)
	}
}

func (s *operations) Edit_tile_layers(t *T) {
	tl := leaf.NewTileLayer("a", leaf.Options{})
	_, err := setURL(tl, []interface{}{"b"})
	t.FatalOn(err)
	t.Eq("b", tl.URL())
	_, err = setZIndex(tl, []interface{}{3.0})
	t.FatalOn(err)
	t.Eq(3, tl.ZIndex())
	_, err = setZIndex(tl, []interface{}{3.5})
	t.ErrIs(err, ErrArguments)
}

func (s *operations) Edit_polygons(t *T) {
	p := leaf.NewPolygon(orb.Polygon{}, leaf.Options{})
	_, err := setBounds(p, []interface{}{orb.Bound{
		Min: orb.Point{0, 0}, Max: orb.Point{2, 1}}})
	t.FatalOn(err)
	b, err := getBounds(p, nil)
	t.FatalOn(err)
	t.Eq(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 1}}, b)

	_, err = setLatLngs(p, []interface{}{[]interface{}{
		[]interface{}{orb.Point{0, 0}, orb.Point{4, 0}, orb.Point{4, 3}},
	}})
	t.FatalOn(err)
	t.Eq(1, len(p.LatLngs()))
	t.Eq(4, len(p.LatLngs()[0]))
}

func (s *operations) Clear_groups(t *T) {
	g := leaf.NewFeatureGroup(leaf.Options{},
		leaf.NewMarker(orb.Point{}, leaf.Options{UUID: "m"}))
	_, err := clearLayers(g, nil)
	t.FatalOn(err)
	t.Eq(0, len(g.Layers()))
	_, err = clearLayers(leaf.NewMarker(orb.Point{}, leaf.Options{}), nil)
	t.ErrIs(err, ErrUnsupportedTarget)
}

func TestOperations(t *testing.T) {
	t.Parallel()
	Run(&operations{}, t)
}
