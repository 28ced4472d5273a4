// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package controller

import (
	"fmt"
	"strings"
	"sync"

	"github.com/slukits/mapbridge"
	"github.com/slukits/mapbridge/cmd/mapbridge/host"
	"github.com/slukits/mapbridge/cmd/mapbridge/view"
	"github.com/slukits/mapbridge/pkg/leaf"
)

// entry is the outcome of a replayed host message.
type entry struct {
	msg    host.Message
	result interface{}
	err    error
}

func (e entry) String() string {
	switch {
	case e.err != nil:
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	case e.result != nil:
		return fmt.Sprintf("%s = %v", e.msg, e.result)
	}
	return e.msg.String()
}

// controller keeps the outcome of a replayed session and the
// notifications of its component.
type controller struct {
	mutex   *sync.Mutex
	session *host.Session
	ee      []entry
	nn      []string
	view    *viewUpdater
}

func newController() *controller {
	ctrl := &controller{
		mutex: &sync.Mutex{},
		view:  &viewUpdater{Mutex: &sync.Mutex{}},
	}
	ctrl.session = host.NewSession(mapbridge.New(Container,
		mapbridge.WithNotifier(ctrl.notify),
		mapbridge.WithLogger(ctrl.log)))
	return ctrl
}

func (ctrl *controller) replay(mm []host.Message) {
	for _, m := range mm {
		r, err := ctrl.session.Apply(m)
		ctrl.mutex.Lock()
		ctrl.ee = append(ctrl.ee, entry{msg: m, result: r, err: err})
		ctrl.mutex.Unlock()
	}
}

// notify may be called while the component is locked, i.e. it only
// records given notification and shows it in the message bar.
func (ctrl *controller) notify(n mapbridge.Notification) {
	msg := fmt.Sprint(n)
	ctrl.mutex.Lock()
	ctrl.nn = append(ctrl.nn, msg)
	ctrl.mutex.Unlock()
	ctrl.view.Update(msg)
}

func (ctrl *controller) log(vv ...interface{}) {
	ctrl.mutex.Lock()
	defer ctrl.mutex.Unlock()
	ctrl.nn = append(ctrl.nn, fmt.Sprint(vv...))
}

// fire emulates a user clicking the live layer with given identity and
// updates the view accordingly.
func (ctrl *controller) fire(id string) {
	err := ctrl.session.Component().Fire(id, "click", &leaf.Event{})
	if err != nil {
		ctrl.log(err)
	}
	ctrl.view.Update(ctrl.report(), ctrl.status())
}

const (
	dfltMessage = "session %s: %d messages"
	liveHeader  = "live layers: %d"
	notifHeader = "notifications: %d"
)

func (ctrl *controller) message() string {
	ctrl.mutex.Lock()
	defer ctrl.mutex.Unlock()
	return fmt.Sprintf(dfltMessage, ctrl.session.ID, len(ctrl.ee))
}

func (ctrl *controller) report() *reporter {
	ctrl.mutex.Lock()
	ee := append([]entry(nil), ctrl.ee...)
	nn := append([]string(nil), ctrl.nn...)
	ctrl.mutex.Unlock()

	rp := &reporter{flags: view.RpClearing, mm: map[uint]view.LineMask{}}
	for _, e := range ee {
		if e.err != nil {
			rp.mm[uint(len(rp.ll))] = view.Failed
		}
		rp.ll = append(rp.ll, e.String())
	}

	live := ctrl.session.Component().Snapshot().Layers
	rp.ll = append(rp.ll, "", fmt.Sprintf(liveHeader, len(live)))
	layers := map[int]string{}
	for _, l := range live {
		idx, mask := len(rp.ll), view.Selectable
		if l.Name != "" {
			mask |= view.Overlay
		}
		rp.mm[uint(idx)], layers[idx] = mask, l.ID
		rp.ll = append(rp.ll, strings.TrimRight(fmt.Sprintf(
			"    %s %s %s", l.ID, l.Kind, l.Name), " "))
	}

	if len(nn) > 0 {
		rp.ll = append(rp.ll, "", fmt.Sprintf(notifHeader, len(nn)))
		for _, n := range nn {
			rp.ll = append(rp.ll, "    "+n)
		}
	}

	rp.listener = func(idx int) {
		id, ok := layers[idx]
		if !ok {
			return
		}
		go ctrl.fire(id)
	}
	return rp
}

func (ctrl *controller) status() view.Statuser {
	ss := ctrl.session.Component().Snapshot()
	s := view.Statuser{Layers: len(ss.Layers), Overlays: ss.Overlays}
	if !ss.Mapped {
		s.Str = "no map"
		return s
	}
	s.Zoom, s.Center = ss.Zoom, ss.Center
	ctrl.mutex.Lock()
	defer ctrl.mutex.Unlock()
	for _, e := range ctrl.ee {
		if e.err != nil {
			s.Failed++
		}
	}
	return s
}
