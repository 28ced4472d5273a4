// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package controller

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/slukits/lines"
	"github.com/slukits/mapbridge/cmd/mapbridge/host"
	"github.com/slukits/mapbridge/cmd/mapbridge/view"
)

// Container identifies the container a replayed session's map is
// created in.
const Container = "map"

// ErrUsage is reported to the fatal function if no session file is
// given.
var ErrUsage = errors.New("mapbridge: usage: mapbridge <session file>")

// InitFactories allows to replace the defaults of New's collaborators,
// e.g. for testing.
type InitFactories struct {

	// Fatal reports fatal errors; defaults to log.Fatal.
	Fatal func(...interface{})

	// Session provides the session to replay; defaults to the file
	// named by the first command line argument.
	Session func() (io.Reader, error)

	// View creates the ui's root component; defaults to view.New.
	View func(view.Initer) lines.Componenter

	// Lines creates the ui's event loop; defaults to lines.Term.
	Lines func(lines.Componenter) *lines.Lines
}

// New replays a session against a new mapbridge component, reports the
// outcome in a terminal ui and blocks until a quit event occurs.
func New(i InitFactories) {
	if i.Fatal == nil {
		i.Fatal = log.Fatal
	}
	if i.Session == nil {
		i.Session = argSession
	}
	if i.View == nil {
		i.View = func(vi view.Initer) lines.Componenter {
			return view.New(vi)
		}
	}
	if i.Lines == nil {
		i.Lines = lines.Term
	}

	r, err := i.Session()
	if err != nil {
		i.Fatal(err)
		return
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	mm, err := host.Decode(r)
	if err != nil {
		i.Fatal(err)
		return
	}

	ctrl := newController()
	ctrl.replay(mm)
	i.Lines(i.View(&viewIniter{controller: ctrl, ftl: i.Fatal})).
		WaitForQuit()
}

func argSession() (io.Reader, error) {
	if len(os.Args) < 2 {
		return nil, ErrUsage
	}
	return os.Open(os.Args[1])
}
