// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package view

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/slukits/lines"
)

// Statuser instance passed to the status bar updater.
type Statuser struct {
	// Str is a status-bar string superseding all other status
	// information.
	Str string

	// Layers is the number of live layers
	Layers int

	// Overlays is the number of overlay control entries
	Overlays int

	// Zoom is the map's zoom level
	Zoom int

	// Center is the map's center
	Center orb.Point

	// Failed is the number of failed host messages
	Failed int
}

type statusBar struct {
	lines.Component
	status Statuser
}

func (sb *statusBar) OnInit(e *lines.Env) {
	sb.Dim().SetHeight(2)
	sb.write(e)
}

func (sb *statusBar) OnUpdate(e *lines.Env, data interface{}) {
	s, ok := data.(Statuser)
	if !ok {
		return
	}
	sb.status = s
	sb.write(e)
}

const dfltStatus = "layers/overlays: %d/%d; zoom: %d; center: %.4f,%.4f"

func (sb *statusBar) write(e *lines.Env) {
	fmt.Fprint(e.BG(sb.bg()).FG(sb.fg()).LL(1), sb.str()+lines.Filler)
}

func (sb *statusBar) str() string {
	s := sb.status
	if s.Str != "" {
		return s.Str
	}
	str := fmt.Sprintf(dfltStatus, s.Layers, s.Overlays, s.Zoom,
		s.Center.Lat(), s.Center.Lon())
	if s.Failed > 0 {
		str += fmt.Sprintf("; failed: %d", s.Failed)
	}
	return str
}

func (sb *statusBar) bg() lines.Color {
	if sb.status.Failed > 0 {
		return lines.Red
	}
	return lines.Green
}

func (sb *statusBar) fg() lines.Color {
	if sb.status.Failed > 0 {
		return lines.White
	}
	return lines.Black
}
