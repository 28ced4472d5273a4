// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package view

import (
	"fmt"

	"github.com/slukits/lines"
)

// An Initer implementation initializes a new view provided to the
// [New] constructor and it is provided with the functionality to
// manipulate the view, i.e. the screen content.
type Initer interface {

	// Fatal returns the function fatal view errors are reported to.
	Fatal() func(...interface{})

	// Message returns the message bar's headline and is provided by a
	// view with a function to push a message to the message bar.
	// Pushing the empty string clears the pushed messages.
	Message(update func(string)) string

	// Reporting returns the initial reporter of the reporting component
	// and is provided with a function to update the reporting
	// component's lines.
	Reporting(update func(Reporter)) Reporter

	// Status returns the initial status and is provided with a function
	// to update the status bar.
	Status(update func(Statuser)) Statuser
}

// view implements the lines Componenter interface hence an instance of
// it can be used to initialize a lines terminal ui.  A view instance is
// only modified through the functions provided to an Initer
// implementation.
type view struct {
	lines.Component
	lines.Stacking
	ll *lines.Lines
}

// New uses provided information of given Initer i implementation to
// initialize a new returned view instance.  New's return value should
// be only ever used to initialize a Lines instance, e.g.:
//
//	lines.Term(view.New(i)).WaitForQuit()
func New(i Initer) *view {
	new := &view{}
	new.CC = append(new.CC, &messageBar{
		headline: i.Message(new.updateMessageBar)})
	new.CC = append(new.CC, &report{
		rr: []Reporter{i.Reporting(new.updateReporting)}})
	new.CC = append(new.CC, &statusBar{
		status: i.Status(new.updateStatusBar)})
	return new
}

func (v *view) OnInit(e *lines.Env) {
	v.ll = e.Lines
}

func (v *view) updateMessageBar(s string) {
	if v.ll == nil {
		return
	}
	v.ll.Update(v.CC[0], s, nil)
}

func (v *view) updateReporting(r Reporter) {
	if v.ll == nil {
		return
	}
	v.ll.Update(v.CC[1], r, nil)
}

func (v *view) updateStatusBar(s Statuser) {
	if v.ll == nil {
		return
	}
	v.ll.Update(v.CC[2], s, nil)
}

// pushed is the number of messages the message bar shows below its
// headline.
const pushed = 2

// messageBar shows its headline followed by the most recently pushed
// messages, the newest first.
type messageBar struct {
	lines.Component
	headline string
	mm       []string
}

func (mb *messageBar) OnInit(e *lines.Env) {
	mb.Dim().SetHeight(1 + pushed)
	fmt.Fprint(e.LL(0).AA(lines.Bold), mb.headline)
}

func (mb *messageBar) OnUpdate(e *lines.Env, data interface{}) {
	s, _ := data.(string)
	if s == "" {
		mb.mm = nil
	} else {
		mb.mm = append([]string{s}, mb.mm...)
	}
	if len(mb.mm) > pushed {
		mb.mm = mb.mm[:pushed]
	}
	for i := 0; i < pushed; i++ {
		if i >= len(mb.mm) {
			mb.Reset(i + 1)
			continue
		}
		fmt.Fprint(e.LL(i+1), mb.mm[i])
	}
}
