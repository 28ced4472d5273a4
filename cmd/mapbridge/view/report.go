// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package view

import (
	"fmt"
	"io"

	"github.com/slukits/ints"
	"github.com/slukits/lines"
)

// RprtMask types flags for Reporter-implementations.
type RprtMask uint

const (

	// RpClearing indicates that all lines of a view's reporting
	// component which are not updated by a Reporter-implementation are
	// cleared.
	RpClearing RprtMask = 1 << iota

	// RpNoFlags is the return value of a Reporter.Flags implementation
	// where no flags are set.
	RpNoFlags = 0
)

// LineMask provides formatting information for a reported line.
type LineMask uint

const (
	// Failed marks the line of a host message which failed.
	Failed LineMask = 1 << iota

	// Selectable marks a line the user may select, e.g. a live layer.
	Selectable

	// Overlay marks the line of a live layer listed in the overlay
	// control.
	Overlay

	// ZeroLineMode is the default line mask.
	ZeroLineMode LineMask = 0
)

// A Reporter implementation provides line-updates for the view's
// reporting area.
type Reporter interface {

	// Flags returns an optional combination of flags controlling how a
	// given Reporter implementation is processed.  See Rp*-constants.
	Flags() RprtMask

	// For is provided with the reporting component instance and a
	// callback function which must be called for each line which should
	// be updated.
	For(_ lines.Componenter, line func(idx uint, content string))

	// LineMask provides for an updated line formatting information.
	LineMask(idx uint) LineMask

	// Listener provides a callback function which is informed about
	// line selections by the user providing the selected line's index.
	Listener() func(idx int)
}

type report struct {
	lines.Component
	rr       []Reporter
	listener func(int)
}

func (m *report) OnInit(e *lines.Env) {
	m.FF.Add(lines.Scrollable | lines.LinesSelectable)
	if len(m.rr) == 0 || m.rr[0] == nil {
		return
	}
	m.rr[0].For(m, func(idx uint, content string) {
		fmt.Fprint(m.wrt(m.rr[0], idx, e), content)
	})
	m.listener = m.rr[0].Listener()
}

func (m *report) OnClick(_ *lines.Env, _, y int) {
	if m.listener == nil {
		return
	}
	m.listener(y)
}

func (m *report) OnUpdate(e *lines.Env, data interface{}) {
	r, ok := data.(Reporter)
	if !ok {
		return
	}
	clearing := r.Flags()&RpClearing == RpClearing
	ii := &ints.Set{}
	r.For(m, func(idx uint, content string) {
		ii.Add(int(idx))
		fmt.Fprint(m.wrt(r, idx, e), content)
	})
	m.listener = r.Listener()
	if !clearing {
		return
	}
	for i := 0; i < m.Len(); i++ {
		if ii.Has(i) {
			continue
		}
		m.Reset(i)
	}
}

func (m *report) wrt(r Reporter, idx uint, e *lines.Env) io.Writer {
	lm := r.LineMask(idx)
	w := e.LL(int(idx))
	switch {
	case lm&Failed > 0:
		w = w.BG(lines.Red).FG(lines.White)
	case lm&Overlay > 0:
		w = w.FG(lines.Green)
	}
	if lm&Selectable > 0 {
		w = w.AA(lines.Bold)
	}
	return w
}
