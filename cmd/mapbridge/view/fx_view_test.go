// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package view

import (
	"log"
	"strings"

	"github.com/paulmach/orb"
	"github.com/slukits/gounit"
	"github.com/slukits/lines"
)

type fxInit struct {
	t *gounit.T

	// fatal is provided to the view to report fatal errors; it defaults
	// to log.Fatal
	fatal func(...interface{})

	// update* are holding the updaters for message bar, reporting and
	// status bar which were received through the Initer implementation.
	updateMessage   func(string)
	updateReporting func(Reporter)
	updateStatus    func(Statuser)

	reportedLine int
}

const (
	fxMsg       = "init fixture message"
	fxReporting = "init fixture reporting\nsecond fixture line"
)

var fxStatus = Statuser{Layers: 3, Overlays: 1, Zoom: 5,
	Center: orb.Point{13.4, 52.5}}

func (fx *fxInit) Fatal() func(...interface{}) {
	if fx.fatal == nil {
		return log.Fatal
	}
	return fx.fatal
}

func (fx *fxInit) Message(upd func(string)) string {
	fx.updateMessage = upd
	return fxMsg
}

func (fx *fxInit) Reporting(upd func(Reporter)) Reporter {
	fx.updateReporting = upd
	return &reporterFX{content: fxReporting,
		mm:       map[uint]LineMask{1: Selectable},
		listener: func(idx int) { fx.reportedLine = idx }}
}

func (fx *fxInit) Status(upd func(Statuser)) Statuser {
	fx.updateStatus = upd
	return fxStatus
}

// viewFX augments the embedded view-instance with its initer's
// updaters and the components of the view.
type viewFX struct {
	*view
	*fxInit
	Report *report
}

func newFX(t *gounit.T) *viewFX {
	fx := viewFX{}
	fx.fxInit = &fxInit{t: t, reportedLine: -1}
	fx.view = New(fx.fxInit)
	fx.Report = fx.CC[1].(*report)
	return &fx
}

type reporterFX struct {
	content  string
	flags    RprtMask
	mm       map[uint]LineMask
	listener func(int)
}

func (r *reporterFX) Flags() RprtMask { return r.flags }

func (r *reporterFX) LineMask(idx uint) LineMask { return r.mm[idx] }

func (r *reporterFX) Listener() func(int) { return r.listener }

func (r *reporterFX) For(_ lines.Componenter, cb func(uint, string)) {
	for idx, l := range strings.Split(r.content, "\n") {
		if l == "" {
			continue
		}
		cb(uint(idx), l)
	}
}
