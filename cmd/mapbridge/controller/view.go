// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
view.go contains the functionality of the controller needed to update
the view in response to a user request or a component notification.
I.e. there are two sources of change for the view: user input and
native events.  Hence the view is updated through a single (locking)
function.
*/

package controller

import (
	"sync"

	"github.com/slukits/lines"
	"github.com/slukits/mapbridge/cmd/mapbridge/view"
)

// viewIniter instance implements view.Initer, i.e. provides the initial
// data to a new view and collects the provided view modifiers.
type viewIniter struct {

	// controller instance providing needed information to initialize a
	// view.
	controller *controller

	// ftl to report fatal errors during the initialization process.
	ftl func(...interface{})
}

func (i *viewIniter) Fatal() func(...interface{}) { return i.ftl }

func (i *viewIniter) Message(msg func(string)) string {
	i.controller.view.set(func(vw *viewUpdater) { vw.msg = msg })
	return i.controller.message()
}

func (i *viewIniter) Reporting(upd func(view.Reporter)) view.Reporter {
	i.controller.view.set(func(vw *viewUpdater) { vw.rprUpd = upd })
	return i.controller.report()
}

func (i *viewIniter) Status(upd func(view.Statuser)) view.Statuser {
	i.controller.view.set(func(vw *viewUpdater) { vw.sttUpd = upd })
	return i.controller.status()
}

// viewUpdater collects the functions to update aspects of a view.
type viewUpdater struct {

	// Mutex avoids that the view is updated concurrently.
	*sync.Mutex

	// msg updates the view's message bar
	msg func(string)

	// sttUpd updates the view's status bar
	sttUpd func(view.Statuser)

	// rprUpd updates lines of a view's reporting component.
	rprUpd func(view.Reporter)
}

func (vw *viewUpdater) set(f func(*viewUpdater)) {
	vw.Lock()
	defer vw.Unlock()
	f(vw)
}

// Update updates the view and should be the only way the view is
// updated to avoid data races.  Updates before the view's
// initialization are dropped.
func (vw *viewUpdater) Update(dd ...interface{}) {
	vw.Lock()
	defer vw.Unlock()

	for _, d := range dd {
		switch updData := d.(type) {
		case string:
			if vw.msg != nil {
				vw.msg(updData)
			}
		case view.Reporter:
			if vw.rprUpd != nil {
				vw.rprUpd(updData)
			}
		case view.Statuser:
			if vw.sttUpd != nil {
				vw.sttUpd(updData)
			}
		}
	}
}

// reporter lists replayed messages, live layers and notifications in
// the view's reporting component.
type reporter struct {
	flags    view.RprtMask
	ll       []string
	mm       map[uint]view.LineMask
	listener func(int)
}

func (r *reporter) Flags() view.RprtMask { return r.flags }

func (r *reporter) For(_ lines.Componenter, line func(uint, string)) {
	for idx, l := range r.ll {
		line(uint(idx), l)
	}
}

func (r *reporter) LineMask(idx uint) view.LineMask { return r.mm[idx] }

func (r *reporter) Listener() func(int) { return r.listener }
