// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	. "github.com/slukits/gounit"
	"github.com/slukits/mapbridge/pkg/convert"
	"github.com/slukits/mapbridge/pkg/leaf"
	"golang.org/x/exp/slices"
)

func markerJSON(lat, lng float64) string {
	return fmt.Sprintf(
		`{"leafletType":"Marker","latLng":{"lat":%v,"lng":%v}}`, lat, lng)
}

// layer returns a marker descriptor at (1, 2).
func layer(id, name string, events ...string) LayerDescriptor {
	return LayerDescriptor{ID: id, Name: name, JSON: markerJSON(1, 2),
		Events: events}
}

func initialized(t *T, ll []LayerDescriptor, opts ...Option) *Component {
	c := New("map", opts...)
	t.FatalOn(c.UpdateLayers(ll))
	t.FatalOn(c.InitializeOnce())
	return c
}

func live(c *Component) []string {
	ids := []string{}
	for _, l := range c.Live() {
		ids = append(ids, l.ID)
	}
	return ids
}

func liveIDs(c *Component) string { return fmt.Sprint(live(c)) }

func overlayNames(c *Component) string {
	nn := []string{}
	if c.OverlayControl() == nil {
		return fmt.Sprint(nn)
	}
	for _, e := range c.OverlayControl().Entries() {
		nn = append(nn, e.Name)
	}
	return fmt.Sprint(nn)
}

func controlKinds(m *leaf.Map) map[string]int {
	kk := map[string]int{}
	for _, c := range m.Controls() {
		kk[c.Kind()]++
	}
	return kk
}

var unitBounds = []interface{}{
	[]interface{}{0.0, 0.0}, []interface{}{1.0, 1.0}}

type component struct{ Suite }

func (s *component) SetUp(t *T) { t.Parallel() }

func (s *component) Fails_initialization_without_container(t *T) {
	c := New("")
	t.ErrIs(c.InitializeOnce(), ErrNoContainer)
	t.Not.True(c.Initialized())
	t.True(c.Map() == nil)
}

func (s *component) Constructs_map_and_attachments_exactly_once(t *T) {
	c := New("map")
	c.SetBaseURL("https://tiles.example/{z}/{x}/{y}.png")
	c.SetControls([]ControlDescriptor{{"leafletType": "scale"}})
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{
		layer("A", "Roads"), layer("B", "Rivers")}))

	for i := 0; i < 3; i++ {
		t.FatalOn(c.InitializeOnce())
	}
	m := c.Map()
	t.FatalIfNot(t.True(m != nil))
	t.Eq(3, len(m.Layers()))
	t.True(m.HasLayer(c.BaseLayer()))
	t.Eq(1, controlKinds(m)["Layers"])
	t.Eq(1, controlKinds(m)["Scale"])
	t.Eq("[A B]", liveIDs(c))
	t.Eq("[Roads Rivers]", overlayNames(c))

	t.FatalOn(c.InitializeOnce())
	t.True(m == c.Map())
	t.Eq(3, len(m.Layers()))
}

func (s *component) Adds_no_overlay_control_without_named_layers(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	t.True(c.OverlayControl() == nil)
	t.Eq(0, controlKinds(c.Map())["Layers"])
}

func (s *component) Passes_layer_control_options_to_overlay(t *T) {
	c := New("map")
	collapsed := false
	c.SetLayerControlOptions(LayerControlOptions{
		Position: leaf.BottomLeft, Collapsed: &collapsed, SortLayers: true})
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{
		layer("A", "b"), layer("B", "a")}))
	t.FatalOn(c.InitializeOnce())

	t.Eq(leaf.BottomLeft, c.OverlayControl().Position())
	t.Not.True(c.OverlayControl().Options().Collapsed)
	t.True(c.OverlayControl().Options().AutoZIndex)
	t.Eq("[a b]", overlayNames(c))
}

func (s *component) Fails_initialization_without_side_effects(t *T) {
	c := New("map")
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{
		layer("A", ""), {ID: "B", JSON: "{"}}))
	t.ErrIs(c.InitializeOnce(), ErrDecode)
	t.Not.True(c.Initialized())
	t.True(c.Map() == nil)
	t.Eq(0, len(c.Live()))

	t.FatalOn(c.UpdateLayers([]LayerDescriptor{layer("A", "")}))
	t.FatalOn(c.InitializeOnce())
	t.True(c.Initialized())
	t.Eq("[A]", liveIDs(c))
}

func (s *component) Fails_initialization_with_bad_center(t *T) {
	c := New("map")
	t.FatalOn(c.SetMapOptions(MapOptions{Center: "nowhere"}))
	t.ErrIs(c.InitializeOnce(), convert.ErrBadValue)
	t.Not.True(c.Initialized())
}

func (s *component) Fails_initialization_with_unknown_control(t *T) {
	c := New("map")
	c.SetControls([]ControlDescriptor{{"leafletType": "minimap"}})
	t.ErrIs(c.InitializeOnce(), convert.ErrUnknownType)
	t.True(c.Map() == nil)
}

func (s *component) Only_records_layers_before_initialization(t *T) {
	c := New("map")
	t.FatalOn(c.UpdateLayers(
		[]LayerDescriptor{layer("A", "")},
		Splice{Index: 0, AddedCount: 1},
	))
	t.Eq(0, len(c.Live()))
	t.FatalOn(c.InitializeOnce())
	t.Eq("[A]", liveIDs(c))
}

func (s *component) Adds_and_removes_layers_by_splices(t *T) {
	a, b := layer("A", ""), layer("B", "")
	c := initialized(t, []LayerDescriptor{a})

	t.FatalOn(c.UpdateLayers([]LayerDescriptor{a, b},
		Splice{Index: 1, AddedCount: 1}))
	t.Eq("[A B]", liveIDs(c))

	nativeA := c.Live()[0].Layer
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{b},
		Splice{Index: 0, Removed: []LayerDescriptor{a}}))
	t.Eq("[B]", liveIDs(c))
	t.Not.True(c.Map().HasLayer(nativeA))
	t.True(c.Map().HasLayer(c.Live()[0].Layer))
}

func (s *component) Applies_several_splices_of_one_notification(t *T) {
	a, b, x, d := layer("A", ""), layer("B", ""), layer("C", ""),
		layer("D", "")
	c := initialized(t, []LayerDescriptor{a, b})

	t.FatalOn(c.UpdateLayers([]LayerDescriptor{x, b, d},
		Splice{Index: 0, Removed: []LayerDescriptor{a}, AddedCount: 1},
		Splice{Index: 2, AddedCount: 1},
	))
	ids := live(c)
	slices.Sort(ids)
	t.Eq("[B C D]", fmt.Sprint(ids))
}

func (s *component) Keeps_live_set_equal_to_declared_set(t *T) {
	c, declared := initialized(t, nil), []LayerDescriptor{}
	insert := func(i int, id string) {
		declared = slices.Insert(declared, i, layer(id, ""))
		t.FatalOn(c.UpdateLayers(declared, Splice{Index: i, AddedCount: 1}))
	}
	remove := func(i int) {
		removed := declared[i]
		declared = slices.Delete(declared, i, i+1)
		t.FatalOn(c.UpdateLayers(declared, Splice{Index: i,
			Removed: []LayerDescriptor{removed}}))
	}
	assertEqual := func() {
		want := []string{}
		for _, d := range declared {
			want = append(want, d.ID)
		}
		got := live(c)
		slices.Sort(want)
		slices.Sort(got)
		t.Eq(strings.Join(want, ","), strings.Join(got, ","))
		t.Eq(len(want), len(c.Map().Layers()))
	}

	insert(0, "a")
	insert(0, "b")
	insert(2, "c")
	assertEqual()
	remove(1)
	assertEqual()
	insert(1, "d")
	remove(0)
	remove(0)
	assertEqual()
	insert(0, "a")
	remove(1)
	remove(0)
	assertEqual()
}

func (s *component) Keeps_overlay_entries_symmetric_to_named_layers(t *T) {
	a, b := layer("A", "Roads"), layer("B", "")
	c := initialized(t, []LayerDescriptor{a, b})
	t.True(c.Map().HasLayer(c.Live()[0].Layer))
	t.True(c.Map().HasLayer(c.Live()[1].Layer))
	t.Eq("[Roads]", overlayNames(c))
	nativeA, nativeB := c.Live()[0].Layer, c.Live()[1].Layer

	t.FatalOn(c.UpdateLayers([]LayerDescriptor{b},
		Splice{Index: 0, Removed: []LayerDescriptor{a}}))
	t.Not.True(c.Map().HasLayer(nativeA))
	t.Eq("[]", overlayNames(c))
	t.True(c.Map().HasLayer(nativeB))

	r := layer("R", "Rails")
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{b, r},
		Splice{Index: 1, AddedCount: 1}))
	t.Eq("[Rails]", overlayNames(c))
}

func (s *component) Creates_overlay_lazily_for_first_named_layer(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	t.True(c.OverlayControl() == nil)
	t.FatalOn(c.UpdateLayers(
		[]LayerDescriptor{layer("A", ""), layer("B", "Roads")},
		Splice{Index: 1, AddedCount: 1}))
	t.FatalIfNot(t.True(c.OverlayControl() != nil))
	t.Eq("[Roads]", overlayNames(c))
	t.Eq(1, controlKinds(c.Map())["Layers"])
}

func (s *component) Ignores_removal_of_unknown_identity(t *T) {
	c := initialized(t, []LayerDescriptor{layer("A", "")})
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{layer("A", "")},
		Splice{Removed: []LayerDescriptor{layer("X", "")}}))
	t.Eq("[A]", liveIDs(c))
}

func (s *component) Fails_adding_a_live_identity(t *T) {
	a := layer("A", "")
	c := initialized(t, []LayerDescriptor{a})
	err := c.UpdateLayers([]LayerDescriptor{a, a},
		Splice{Index: 1, AddedCount: 1})
	t.ErrIs(err, ErrDuplicateIdentity)
	t.Eq("[A]", liveIDs(c))
	t.Eq(1, len(c.Map().Layers()))
}

func (s *component) Replaces_an_identity_within_one_notification(t *T) {
	a := layer("A", "")
	c := initialized(t, []LayerDescriptor{a})
	old := c.Live()[0].Layer
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{a},
		Splice{Index: 0, Removed: []LayerDescriptor{a}, AddedCount: 1}))
	t.Eq("[A]", liveIDs(c))
	t.True(c.Live()[0].Layer != old)
	t.Not.True(c.Map().HasLayer(old))
}

func (s *component) Applies_nothing_of_a_failing_notification(t *T) {
	a := layer("A", "")
	c := initialized(t, []LayerDescriptor{a})
	err := c.UpdateLayers(
		[]LayerDescriptor{layer("B", ""), {ID: "X", JSON: `{"lat`}},
		Splice{Index: 0, Removed: []LayerDescriptor{a}, AddedCount: 2},
	)
	t.ErrIs(err, ErrDecode)
	t.Eq("[A]", liveIDs(c))
	t.Eq(1, len(c.Map().Layers()))
}

func (s *component) Fails_a_splice_outside_the_collection(t *T) {
	c := initialized(t, nil)
	err := c.UpdateLayers([]LayerDescriptor{layer("A", "")},
		Splice{Index: 1, AddedCount: 1})
	t.ErrIs(err, ErrSplice)
	t.Eq(0, len(c.Live()))
}

func (s *component) Fails_a_layer_without_identity(t *T) {
	c := initialized(t, nil)
	err := c.UpdateLayers([]LayerDescriptor{layer("", "")},
		Splice{Index: 0, AddedCount: 1})
	t.ErrIs(err, ErrDecode)
}

func (s *component) Fails_a_null_layer_payload(t *T) {
	c := initialized(t, nil)
	err := c.UpdateLayers([]LayerDescriptor{{ID: "A", JSON: "null"}},
		Splice{AddedCount: 1})
	t.ErrIs(err, ErrDecode)
	t.Eq(0, len(c.Live()))
}

func (s *component) Fails_a_layer_of_unknown_type(t *T) {
	c := initialized(t, nil)
	err := c.UpdateLayers([]LayerDescriptor{{ID: "A",
		JSON: `{"leafletType":"Heatmap"}`}}, Splice{AddedCount: 1})
	t.ErrIs(err, convert.ErrUnknownType)
	t.Eq(0, len(c.Live()))
}

func (s *component) Stamps_identity_node_id_and_name(t *T) {
	c := initialized(t, []LayerDescriptor{{ID: "A", Name: "Roads",
		NodeID: 7, JSON: `{"leafletType":"Marker","uuid":"other",` +
			`"latLng":[1,2]}`}})
	opts := c.Live()[0].Layer.Options()
	t.Eq("A", opts.UUID)
	t.Eq(7, opts.NodeID)
	t.Eq("Roads", opts.Name)
}

func (s *component) Reads_events_from_payload_if_not_declared(t *T) {
	c := initialized(t, []LayerDescriptor{{ID: "A",
		JSON: `{"leafletType":"Marker","latLng":[1,2],` +
			`"events":["click"]}`}})
	t.True(c.Live()[0].Layer.Listens("click"))
}

func (s *component) Ignores_update_bounds_without_bounds(t *T) {
	c := initialized(t, nil)
	t.FatalOn(c.UpdateBounds(nil))
	t.Not.True(c.Map().Loaded())
}

func (s *component) Ignores_update_bounds_before_construction(t *T) {
	c := New("map")
	t.FatalOn(c.UpdateBounds(unitBounds))
	t.True(c.Map() == nil)
}

func (s *component) Fits_view_to_updated_bounds(t *T) {
	c := initialized(t, nil)
	t.FatalOn(c.UpdateBounds(unitBounds))
	t.True(c.Map().Loaded())
	t.Eq(orb.Point{0.5, 0.5}, c.Map().Center())
	t.True(c.Map().Zoom() > 0)
}

func (s *component) Fails_updating_malformed_bounds(t *T) {
	c := initialized(t, nil)
	t.ErrIs(c.UpdateBounds("everywhere"), convert.ErrBadValue)
}

func (s *component) Fits_view_to_initial_bounds(t *T) {
	c := New("map")
	t.FatalOn(c.SetMapOptions(MapOptions{Bounds: unitBounds}))
	t.FatalOn(c.InitializeOnce())
	t.Eq(orb.Point{0.5, 0.5}, c.Map().Center())
}

func (s *component) Pushes_changed_map_options_after_construction(t *T) {
	c := New("map")
	center := map[string]interface{}{"lat": 52.5, "lng": 13.4}
	t.FatalOn(c.SetMapOptions(MapOptions{Center: center, Zoom: 5}))
	t.FatalOn(c.InitializeOnce())
	t.Eq(5, c.Map().Zoom())

	t.FatalOn(c.SetMapOptions(MapOptions{Center: center, Zoom: 9}))
	t.Eq(9, c.Map().Zoom())
	t.FatalOn(c.SetMapOptions(MapOptions{Center: center, Zoom: 9,
		Bounds: unitBounds}))
	t.Eq(orb.Point{0.5, 0.5}, c.Map().Center())
}

func (s *component) Ignores_zoom_updates_before_construction(t *T) {
	c := New("map")
	c.UpdateZoom(4)
	t.True(c.Map() == nil)
}

func (s *component) Invalidates_size_once_map_is_ready(t *T) {
	c := initialized(t, nil)
	t.Eq(0, c.Map().Invalidations())
	t.FatalOn(c.FitBounds(unitBounds))
	t.Eq(1, c.Map().Invalidations())

	loaded := New("map")
	t.FatalOn(loaded.SetMapOptions(MapOptions{
		Center: []interface{}{1.0, 2.0}}))
	t.FatalOn(loaded.InitializeOnce())
	t.Eq(1, loaded.Map().Invalidations())
}

func (s *component) Binds_map_events_at_construction(t *T) {
	nn := []Notification{}
	c := New("map", WithNotifier(func(n Notification) {
		nn = append(nn, n)
	}))
	c.SetEvents([]EventRecord{{LeafletEvent: "zoomend"},
		{LeafletEvent: "frobnicate"}})
	t.FatalOn(c.SetMapOptions(MapOptions{UUID: "map-1",
		Center: []interface{}{1.0, 2.0}, Zoom: 3}))
	t.FatalOn(c.InitializeOnce())
	t.Eq(0, len(nn))

	c.UpdateZoom(6)
	t.FatalIfNot(t.Eq(1, len(nn)))
	t.Eq("zoomend", nn[0].EventType())
	t.Eq("map-1", nn[0].Source())
	t.Eq(Base, nn[0].Category())
	t.Not.True(c.Map().Listens("frobnicate"))
}

func (s *component) Logs_map_event_changes_after_construction(t *T) {
	logged := []string{}
	c := initialized(t, nil, WithLogger(func(args ...interface{}) {
		logged = append(logged, fmt.Sprint(args...))
	}))
	c.SetEvents([]EventRecord{{LeafletEvent: "click"}})
	t.Contains(strings.Join(logged, "\n"), "after initialization")
	t.Not.True(c.Map().Listens("click"))
}

func (s *component) Notifies_pointer_events_of_layers(t *T) {
	nn := []Notification{}
	c := initialized(t,
		[]LayerDescriptor{{ID: "A", NodeID: 3, JSON: markerJSON(1, 2),
			Events: []string{"click", "frobnicate"}}},
		WithNotifier(func(n Notification) { nn = append(nn, n) }))
	l := c.Live()[0].Layer
	t.Not.True(l.Listens("frobnicate"))

	l.Fire("click", &leaf.Event{LatLng: orb.Point{2, 1},
		ContainerPoint: leaf.Point{X: 10, Y: 20}})
	t.FatalIfNot(t.Eq(1, len(nn)))
	me, ok := nn[0].(MouseEvent)
	t.FatalIfNot(t.True(ok))
	t.Eq("A", me.Source())
	t.Eq(3, me.NodeID)
	t.Eq(Pointer, me.Category())
	t.Eq(orb.Point{2, 1}, me.LatLng)
	t.Eq(leaf.Point{X: 10, Y: 20}, me.ContainerPoint)
}

func (s *component) Notifies_drag_events_of_markers(t *T) {
	nn := []Notification{}
	c := initialized(t,
		[]LayerDescriptor{layer("A", "", "drag", "dragend", "dragstart")},
		WithNotifier(func(n Notification) { nn = append(nn, n) }))
	mrk := c.Live()[0].Layer.(*leaf.Marker)
	mrk.SetDraggable(true)
	mrk.Drag(orb.Point{3, 1})
	t.FatalIfNot(t.Eq(3, len(nn)))
	t.Eq(Base, nn[0].Category())
	drag, ok := nn[1].(DragEvent)
	t.FatalIfNot(t.True(ok))
	t.Eq(orb.Point{3, 1}, drag.LatLng)
	t.Eq(orb.Point{2, 1}, drag.OldLatLng)
	_, ok = nn[2].(DragEndEvent)
	t.True(ok)
}

func (s *component) Notifies_located_device_position(t *T) {
	nn := []Notification{}
	c := New("map",
		WithNotifier(func(n Notification) { nn = append(nn, n) }),
		WithGeolocator(func() (orb.Point, float64, error) {
			return orb.Point{13.4, 52.5}, 100, nil
		}))
	c.SetEvents([]EventRecord{{LeafletEvent: "locationfound"}})
	t.FatalOn(c.InitializeOnce())
	_, err := c.Invoke("", "locate", "")
	t.ErrIs(err, ErrResolution)

	c.Map().Locate()
	t.FatalIfNot(t.Eq(1, len(nn)))
	le, ok := nn[0].(LocationEvent)
	t.FatalIfNot(t.True(ok))
	t.Eq(orb.Point{13.4, 52.5}, le.LatLng)
	t.True(le.Bounds.Contains(le.LatLng))
}

func (s *component) Tears_down_everything_on_destroy(t *T) {
	c := New("map")
	c.SetBaseURL("https://tiles.example/{z}/{x}/{y}.png")
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{layer("A", "Roads")}))
	t.FatalOn(c.InitializeOnce())
	m, native := c.Map(), c.Live()[0].Layer

	c.Destroy()
	t.True(c.Map() == nil)
	t.Eq(0, len(c.Live()))
	t.True(c.OverlayControl() == nil)
	t.True(native.Map() == nil)
	t.Eq(0, len(m.Layers()))
	t.Eq(0, len(m.Controls()))

	t.FatalOn(c.InitializeOnce())
	t.True(c.Map() == nil)
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{layer("B", "")},
		Splice{AddedCount: 1}))
	t.Eq(0, len(c.Live()))
}

func (s *component) Fires_native_events_at_resolved_layers(t *T) {
	nn := []Notification{}
	c := initialized(t, []LayerDescriptor{layer("A", "", "click")},
		WithNotifier(func(n Notification) { nn = append(nn, n) }))

	t.FatalOn(c.Fire("A", "click", &leaf.Event{LatLng: orb.Point{2, 1}}))
	t.FatalIfNot(t.Eq(1, len(nn)))
	me, ok := nn[0].(MouseEvent)
	t.FatalIfNot(t.True(ok))
	t.Eq("A", me.Source())
	t.Eq(orb.Point{2, 1}, me.LatLng)

	t.ErrIs(c.Fire("X", "click", nil), ErrResolution)
	c.Destroy()
	t.ErrIs(c.Fire("A", "click", nil), ErrResolution)
}

func (s *component) Fires_concurrently_to_layer_updates(t *T) {
	mutex, clicks := sync.Mutex{}, 0
	a := layer("A", "", "click")
	c := initialized(t, []LayerDescriptor{a},
		WithNotifier(func(Notification) {
			mutex.Lock()
			defer mutex.Unlock()
			clicks++
		}))

	var fireErr, updateErr error
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := c.Fire("A", "click", nil); err != nil {
				fireErr = err
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			err := c.UpdateLayers([]LayerDescriptor{
				a, layer(fmt.Sprintf("B%d", i), "")},
				Splice{Index: 1, AddedCount: 1})
			if err != nil {
				updateErr = err
			}
			c.Snapshot()
		}
	}()
	wg.Wait()

	t.FatalOn(fireErr)
	t.FatalOn(updateErr)
	t.Eq(50, clicks)
	t.Eq(51, len(c.Snapshot().Layers))
}

func (s *component) Reports_a_snapshot_of_its_state(t *T) {
	c := New("map")
	t.FatalOn(c.UpdateLayers([]LayerDescriptor{layer("A", "Roads")}))
	t.Not.True(c.Snapshot().Mapped)

	t.FatalOn(c.SetMapOptions(MapOptions{Zoom: 4,
		Center: []interface{}{1.0, 2.0}}))
	t.FatalOn(c.InitializeOnce())
	ss := c.Snapshot()
	t.True(ss.Mapped)
	t.Eq(4, ss.Zoom)
	t.Eq(orb.Point{2, 1}, ss.Center)
	t.Eq(1, ss.Overlays)
	t.Eq("[{A Roads Marker}]", fmt.Sprint(ss.Layers))
}

func TestComponent(t *testing.T) {
	t.Parallel()
	Run(&component{}, t)
}
