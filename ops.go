// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/slukits/mapbridge/pkg/convert"
	"github.com/slukits/mapbridge/pkg/leaf"
	"golang.org/x/exp/slices"
)

// Operation is a remotely callable operation.  It is called with the
// resolved target node and the converted call arguments and returns
// the native result.  An Operation should fail with ErrUnsupportedTarget
// for a target it can't be applied to and with ErrArguments for bad
// arguments.
type Operation func(target leaf.Node, args []interface{}) (interface{}, error)

// Operations is a registry of named operations.  Its zero value is an
// empty registry ready to use.
type Operations struct {
	oo map[string]Operation
}

// Register adds given operation under given name.  Register fails
// with ErrOperation for an empty name or a nil operation and with
// ErrOperationExists if given name is already registered.
func (oo *Operations) Register(name string, op Operation) error {
	if name == "" || op == nil {
		return fmt.Errorf("%w: '%s'", ErrOperation, name)
	}
	if oo.oo == nil {
		oo.oo = map[string]Operation{}
	}
	if _, ok := oo.oo[name]; ok {
		return fmt.Errorf("%w: '%s'", ErrOperationExists, name)
	}
	oo.oo[name] = op
	return nil
}

// Lookup returns the operation registered under given name.
func (oo *Operations) Lookup(name string) (Operation, bool) {
	op, ok := oo.oo[name]
	return op, ok
}

// Names returns the sorted names of all registered operations.
func (oo *Operations) Names() []string {
	nn := make([]string, 0, len(oo.oo))
	for n := range oo.oo {
		nn = append(nn, n)
	}
	slices.Sort(nn)
	return nn
}

// DefaultOperations returns a registry with the operations of the
// leaf layers and the leaf map.  It panics if a default operation
// can't be registered.
func DefaultOperations() *Operations {
	oo := &Operations{}
	for name, op := range defaultOperations {
		if err := oo.Register(name, op); err != nil {
			panic(err)
		}
	}
	return oo
}

var defaultOperations = map[string]Operation{
	"setLatLng":       setLatLng,
	"getLatLng":       getLatLng,
	"setOpacity":      setOpacity,
	"setZIndexOffset": setZIndexOffset,
	"setRadius":       setRadius,
	"getRadius":       getRadius,
	"setStyle":        setStyle,
	"bringToFront":    bringToFront,
	"bringToBack":     bringToBack,
	"getBounds":       getBounds,
	"getLatLngs":      getLatLngs,
	"setLatLngs":      setLatLngs,
	"addLatLng":       addLatLng,
	"setBounds":       setBounds,
	"setUrl":          setURL,
	"setZIndex":       setZIndex,
	"redraw":          redraw,
	"bindPopup":       bindPopup,
	"openPopup":       overlayOp(func(o overlayer) { o.OpenPopup() }),
	"closePopup":      overlayOp(func(o overlayer) { o.ClosePopup() }),
	"togglePopup":     overlayOp(func(o overlayer) { o.TogglePopup() }),
	"isPopupOpen":     isPopupOpen,
	"bindTooltip":     bindTooltip,
	"openTooltip":     overlayOp(func(o overlayer) { o.OpenTooltip() }),
	"closeTooltip":    overlayOp(func(o overlayer) { o.CloseTooltip() }),
	"isTooltipOpen":   isTooltipOpen,
	"clearLayers":     clearLayers,
	"getLayers":       getLayers,
	"setZoom":         setZoom,
	"getZoom":         getZoom,
	"zoomIn":          zoomBy(1),
	"zoomOut":         zoomBy(-1),
	"setView":         setView,
	"fitBounds":       fitBounds,
	"getCenter":       getCenter,
	"invalidateSize":  invalidateSize,
	"locate":          locate,
}

func unsupported(target leaf.Node) error {
	return fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
}

func arg(args []interface{}, i int) (interface{}, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("%w: missing argument %d", ErrArguments, i)
	}
	return args[i], nil
}

func pointArg(args []interface{}, i int) (orb.Point, error) {
	v, err := arg(args, i)
	if err != nil {
		return orb.Point{}, err
	}
	p, err := convert.ToLatLng(v)
	if err != nil {
		return orb.Point{}, fmt.Errorf("%w: %w", ErrArguments, err)
	}
	return p, nil
}

func boundsArg(args []interface{}, i int) (orb.Bound, error) {
	v, err := arg(args, i)
	if err != nil {
		return orb.Bound{}, err
	}
	b, err := convert.ToLatLngBounds(v)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("%w: %w", ErrArguments, err)
	}
	return b, nil
}

func floatArg(args []interface{}, i int) (float64, error) {
	v, err := arg(args, i)
	if err != nil {
		return 0, err
	}
	f, err := convert.ToFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArguments, err)
	}
	return f, nil
}

func intArg(args []interface{}, i int) (int, error) {
	v, err := arg(args, i)
	if err != nil {
		return 0, err
	}
	n, err := convert.ToInt(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArguments, err)
	}
	return n, nil
}

func stringArg(args []interface{}, i int) (string, error) {
	v, err := arg(args, i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: string: %v", ErrArguments, v)
	}
	return s, nil
}

type positioned interface {
	LatLng() orb.Point
	SetLatLng(orb.Point)
}

func setLatLng(target leaf.Node, args []interface{}) (interface{}, error) {
	l, ok := target.(positioned)
	if !ok {
		return nil, unsupported(target)
	}
	p, err := pointArg(args, 0)
	if err != nil {
		return nil, err
	}
	l.SetLatLng(p)
	return nil, nil
}

func getLatLng(target leaf.Node, _ []interface{}) (interface{}, error) {
	l, ok := target.(positioned)
	if !ok {
		return nil, unsupported(target)
	}
	return l.LatLng(), nil
}

func setOpacity(target leaf.Node, args []interface{}) (interface{}, error) {
	l, ok := target.(interface{ SetOpacity(float64) })
	if !ok {
		return nil, unsupported(target)
	}
	o, err := floatArg(args, 0)
	if err != nil {
		return nil, err
	}
	l.SetOpacity(o)
	return nil, nil
}

func setZIndexOffset(
	target leaf.Node, args []interface{},
) (interface{}, error) {
	m, ok := target.(*leaf.Marker)
	if !ok {
		return nil, unsupported(target)
	}
	o, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	m.SetZIndexOffset(o)
	return nil, nil
}

func setRadius(target leaf.Node, args []interface{}) (interface{}, error) {
	c, ok := target.(*leaf.Circle)
	if !ok {
		return nil, unsupported(target)
	}
	r, err := floatArg(args, 0)
	if err != nil {
		return nil, err
	}
	c.SetRadius(r)
	return nil, nil
}

func getRadius(target leaf.Node, _ []interface{}) (interface{}, error) {
	c, ok := target.(*leaf.Circle)
	if !ok {
		return nil, unsupported(target)
	}
	return c.Radius(), nil
}

type styled interface {
	Style() leaf.Style
	SetStyle(leaf.Style)
}

func setStyle(target leaf.Node, args []interface{}) (interface{}, error) {
	v, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	d, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: style: %v", ErrArguments, v)
	}
	var (
		base  leaf.Style
		apply func(leaf.Style)
	)
	switch l := target.(type) {
	case styled:
		base, apply = l.Style(), l.SetStyle
	case interface{ SetStyle(leaf.Style) }:
		base, apply = leaf.DefaultStyle, l.SetStyle
	default:
		return nil, unsupported(target)
	}
	s, err := convert.ApplyStyle(base, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArguments, err)
	}
	apply(s)
	return nil, nil
}

func bringToFront(target leaf.Node, _ []interface{}) (interface{}, error) {
	l, ok := target.(interface{ BringToFront() })
	if !ok {
		return nil, unsupported(target)
	}
	l.BringToFront()
	return nil, nil
}

func bringToBack(target leaf.Node, _ []interface{}) (interface{}, error) {
	l, ok := target.(interface{ BringToBack() })
	if !ok {
		return nil, unsupported(target)
	}
	l.BringToBack()
	return nil, nil
}

func getBounds(target leaf.Node, _ []interface{}) (interface{}, error) {
	b, ok := target.(leaf.Bounder)
	if !ok {
		return nil, unsupported(target)
	}
	return b.Bounds(), nil
}

func getLatLngs(target leaf.Node, _ []interface{}) (interface{}, error) {
	switch l := target.(type) {
	case *leaf.Polyline:
		return l.LatLngs(), nil
	case *leaf.Polygon:
		return l.LatLngs(), nil
	}
	return nil, unsupported(target)
}

func setLatLngs(target leaf.Node, args []interface{}) (interface{}, error) {
	v, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	switch l := target.(type) {
	case *leaf.Polyline:
		ls, err := convert.ToLatLngs(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrArguments, err)
		}
		l.SetLatLngs(ls)
	case *leaf.Polygon:
		rr, err := convert.ToRings(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrArguments, err)
		}
		l.SetLatLngs(rr)
	default:
		return nil, unsupported(target)
	}
	return nil, nil
}

func addLatLng(target leaf.Node, args []interface{}) (interface{}, error) {
	l, ok := target.(*leaf.Polyline)
	if !ok {
		return nil, unsupported(target)
	}
	p, err := pointArg(args, 0)
	if err != nil {
		return nil, err
	}
	l.AddLatLng(p)
	return nil, nil
}

func setBounds(target leaf.Node, args []interface{}) (interface{}, error) {
	l, ok := target.(*leaf.Polygon)
	if !ok {
		return nil, unsupported(target)
	}
	b, err := boundsArg(args, 0)
	if err != nil {
		return nil, err
	}
	l.SetBounds(b)
	return nil, nil
}

func setURL(target leaf.Node, args []interface{}) (interface{}, error) {
	t, ok := target.(*leaf.TileLayer)
	if !ok {
		return nil, unsupported(target)
	}
	url, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	t.SetURL(url)
	return nil, nil
}

func setZIndex(target leaf.Node, args []interface{}) (interface{}, error) {
	t, ok := target.(*leaf.TileLayer)
	if !ok {
		return nil, unsupported(target)
	}
	z, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	t.SetZIndex(z)
	return nil, nil
}

func redraw(target leaf.Node, _ []interface{}) (interface{}, error) {
	t, ok := target.(*leaf.TileLayer)
	if !ok {
		return nil, unsupported(target)
	}
	t.Redraw()
	return nil, nil
}

type overlayer interface {
	BindPopup(string)
	OpenPopup()
	ClosePopup()
	TogglePopup()
	IsPopupOpen() bool
	BindTooltip(string)
	OpenTooltip()
	CloseTooltip()
	IsTooltipOpen() bool
}

func overlayOp(f func(overlayer)) Operation {
	return func(target leaf.Node, _ []interface{}) (interface{}, error) {
		o, ok := target.(overlayer)
		if !ok {
			return nil, unsupported(target)
		}
		f(o)
		return nil, nil
	}
}

func bindPopup(target leaf.Node, args []interface{}) (interface{}, error) {
	o, ok := target.(overlayer)
	if !ok {
		return nil, unsupported(target)
	}
	content, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	o.BindPopup(content)
	return nil, nil
}

func isPopupOpen(target leaf.Node, _ []interface{}) (interface{}, error) {
	o, ok := target.(overlayer)
	if !ok {
		return nil, unsupported(target)
	}
	return o.IsPopupOpen(), nil
}

func bindTooltip(target leaf.Node, args []interface{}) (interface{}, error) {
	o, ok := target.(overlayer)
	if !ok {
		return nil, unsupported(target)
	}
	content, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	o.BindTooltip(content)
	return nil, nil
}

func isTooltipOpen(target leaf.Node, _ []interface{}) (interface{}, error) {
	o, ok := target.(overlayer)
	if !ok {
		return nil, unsupported(target)
	}
	return o.IsTooltipOpen(), nil
}

// groupOf returns the layer group of given container layer.
func groupOf(target leaf.Node) (*leaf.LayerGroup, bool) {
	switch g := target.(type) {
	case *leaf.LayerGroup:
		return g, true
	case *leaf.FeatureGroup:
		return &g.LayerGroup, true
	case *leaf.GeoJSON:
		return &g.LayerGroup, true
	}
	return nil, false
}

func clearLayers(target leaf.Node, _ []interface{}) (interface{}, error) {
	g, ok := groupOf(target)
	if !ok {
		return nil, unsupported(target)
	}
	g.ClearLayers()
	return nil, nil
}

// getLayers returns the identities of a container's children or of the
// layers added to the map.
func getLayers(target leaf.Node, _ []interface{}) (interface{}, error) {
	e, ok := target.(leaf.Enumerable)
	if !ok {
		return nil, unsupported(target)
	}
	ids := []string{}
	e.EachLayer(func(l leaf.Layer) { ids = append(ids, l.ID()) })
	return ids, nil
}

func setZoom(target leaf.Node, args []interface{}) (interface{}, error) {
	m, ok := target.(*leaf.Map)
	if !ok {
		return nil, unsupported(target)
	}
	z, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	m.SetZoom(z)
	return nil, nil
}

func getZoom(target leaf.Node, _ []interface{}) (interface{}, error) {
	m, ok := target.(*leaf.Map)
	if !ok {
		return nil, unsupported(target)
	}
	return m.Zoom(), nil
}

func zoomBy(delta int) Operation {
	return func(target leaf.Node, args []interface{}) (interface{}, error) {
		m, ok := target.(*leaf.Map)
		if !ok {
			return nil, unsupported(target)
		}
		d := 1
		if len(args) > 0 {
			var err error
			if d, err = intArg(args, 0); err != nil {
				return nil, err
			}
		}
		m.SetZoom(m.Zoom() + delta*d)
		return nil, nil
	}
}

func setView(target leaf.Node, args []interface{}) (interface{}, error) {
	m, ok := target.(*leaf.Map)
	if !ok {
		return nil, unsupported(target)
	}
	center, err := pointArg(args, 0)
	if err != nil {
		return nil, err
	}
	z := m.Zoom()
	if len(args) > 1 {
		if z, err = intArg(args, 1); err != nil {
			return nil, err
		}
	}
	m.SetView(center, z)
	return nil, nil
}

func fitBounds(target leaf.Node, args []interface{}) (interface{}, error) {
	m, ok := target.(*leaf.Map)
	if !ok {
		return nil, unsupported(target)
	}
	b, err := boundsArg(args, 0)
	if err != nil {
		return nil, err
	}
	return nil, m.FitBounds(b)
}

func getCenter(target leaf.Node, _ []interface{}) (interface{}, error) {
	m, ok := target.(*leaf.Map)
	if !ok {
		return nil, unsupported(target)
	}
	return m.Center(), nil
}

func invalidateSize(
	target leaf.Node, _ []interface{},
) (interface{}, error) {
	m, ok := target.(*leaf.Map)
	if !ok {
		return nil, unsupported(target)
	}
	m.InvalidateSize()
	return nil, nil
}

func locate(target leaf.Node, _ []interface{}) (interface{}, error) {
	m, ok := target.(*leaf.Map)
	if !ok {
		return nil, unsupported(target)
	}
	m.Locate()
	return nil, nil
}
