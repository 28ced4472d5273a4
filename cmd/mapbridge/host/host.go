// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
Package host replays a recorded host session against a mapbridge
Component.  A session is a sequence of JSON lines each describing one
property notification or call of the declarative host, e.g.:

	{"op": "mapOptions", "mapOptions": {"zoom": 5, "center": [52.5, 13.4]}}
	{"op": "baseUrl", "baseUrl": "https://tile.example/{z}/{x}/{y}.png"}
	{"op": "layers", "layers": [{"uuid": "A", "name": "Roads", "json": "…"}]}
	{"op": "init"}
	{"op": "invoke", "id": "A", "operation": "getLatLng"}

A "layers" message without splices is diffed against the previously
declared collection by identity.
*/
package host

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/slukits/mapbridge"
)

// Ops understood by a session.
const (
	OpMapOptions          = "mapOptions"
	OpBaseURL             = "baseUrl"
	OpControls            = "controls"
	OpEvents              = "events"
	OpLayerControlOptions = "layerControlOptions"
	OpLayers              = "layers"
	OpInit                = "init"
	OpZoom                = "zoom"
	OpBounds              = "bounds"
	OpInvoke              = "invoke"
	OpDestroy             = "destroy"
)

// ErrHost is the general host error all other host errors are derived
// from.
var ErrHost = errors.New("host")

// ErrMessage is returned for a session line which is not a message.
var ErrMessage = fmt.Errorf("%w: malformed message", ErrHost)

// ErrUnknownOp is returned by Apply for a message with an unknown op.
var ErrUnknownOp = fmt.Errorf("%w: unknown op", ErrHost)

// Message is one host notification or call of a session.
type Message struct {
	Op                  string                         `json:"op"`
	MapOptions          *mapbridge.MapOptions          `json:"mapOptions,omitempty"`
	BaseURL             string                         `json:"baseUrl,omitempty"`
	Controls            []mapbridge.ControlDescriptor  `json:"controls,omitempty"`
	Events              []mapbridge.EventRecord        `json:"events,omitempty"`
	LayerControlOptions *mapbridge.LayerControlOptions `json:"layerControlOptions,omitempty"`
	Layers              []mapbridge.LayerDescriptor    `json:"layers,omitempty"`
	Splices             []mapbridge.Splice             `json:"splices,omitempty"`
	Zoom                int                            `json:"zoom,omitempty"`
	Bounds              interface{}                    `json:"bounds,omitempty"`
	ID                  string                         `json:"id,omitempty"`
	Operation           string                         `json:"operation,omitempty"`
	Args                json.RawMessage                `json:"args,omitempty"`
}

func (m Message) String() string {
	switch m.Op {
	case OpInvoke:
		return fmt.Sprintf("%s %s.%s(%s)", m.Op, m.ID, m.Operation,
			string(m.Args))
	case OpLayers:
		return fmt.Sprintf("%s %d", m.Op, len(m.Layers))
	case OpZoom:
		return fmt.Sprintf("%s %d", m.Op, m.Zoom)
	}
	return m.Op
}

// Decode reads a session's messages.  Empty lines and lines starting
// with "#" are skipped.
func Decode(r io.Reader) ([]Message, error) {
	mm, scn, n := []Message{}, bufio.NewScanner(r), 0
	scn.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scn.Scan() {
		n++
		line := strings.TrimSpace(scn.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := Message{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMessage, n, err)
		}
		if m.Op == "" {
			return nil, fmt.Errorf("%w: line %d: missing op", ErrMessage, n)
		}
		mm = append(mm, m)
	}
	if err := scn.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMessage, err)
	}
	return mm, nil
}

// Session applies messages to a component.
type Session struct {
	ID       string
	c        *mapbridge.Component
	declared []mapbridge.LayerDescriptor
}

// NewSession creates a session for given component with a random
// session id.
func NewSession(c *mapbridge.Component) *Session {
	return &Session{ID: uuid.NewString(), c: c}
}

// Component returns the component messages are applied to.
func (s *Session) Component() *mapbridge.Component { return s.c }

// Apply applies given message to the session's component and returns
// the result of an invocation.
func (s *Session) Apply(m Message) (interface{}, error) {
	switch m.Op {
	case OpMapOptions:
		if m.MapOptions == nil {
			return nil, fmt.Errorf("%w: %s: no options", ErrMessage, m.Op)
		}
		return nil, s.c.SetMapOptions(*m.MapOptions)
	case OpBaseURL:
		s.c.SetBaseURL(m.BaseURL)
	case OpControls:
		s.c.SetControls(m.Controls)
	case OpEvents:
		s.c.SetEvents(m.Events)
	case OpLayerControlOptions:
		if m.LayerControlOptions == nil {
			return nil, fmt.Errorf("%w: %s: no options", ErrMessage, m.Op)
		}
		s.c.SetLayerControlOptions(*m.LayerControlOptions)
	case OpLayers:
		return nil, s.updateLayers(m)
	case OpInit:
		return nil, s.c.InitializeOnce()
	case OpZoom:
		s.c.UpdateZoom(m.Zoom)
	case OpBounds:
		return nil, s.c.UpdateBounds(m.Bounds)
	case OpInvoke:
		return s.c.Invoke(m.ID, m.Operation, string(m.Args))
	case OpDestroy:
		s.c.Destroy()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOp, m.Op)
	}
	return nil, nil
}

func (s *Session) updateLayers(m Message) error {
	splices := m.Splices
	if len(splices) == 0 {
		splices = Splices(s.declared, m.Layers)
	}
	if err := s.c.UpdateLayers(m.Layers, splices...); err != nil {
		return err
	}
	s.declared = append([]mapbridge.LayerDescriptor(nil), m.Layers...)
	return nil
}

// Splices returns the splices turning the old into the new declared
// collection.  Descriptors are identified by their identity; a
// descriptor whose identity is in both collections is kept.
func Splices(old, new []mapbridge.LayerDescriptor) []mapbridge.Splice {
	kept, removed := map[string]bool{}, []mapbridge.LayerDescriptor{}
	for _, d := range new {
		kept[d.ID] = true
	}
	known := map[string]bool{}
	for _, d := range old {
		known[d.ID] = true
		if !kept[d.ID] {
			removed = append(removed, d)
		}
	}
	ss := []mapbridge.Splice{}
	if len(removed) > 0 {
		ss = append(ss, mapbridge.Splice{Removed: removed})
	}
	for i, d := range new {
		if known[d.ID] {
			continue
		}
		if n := len(ss); n > 0 && ss[n-1].AddedCount > 0 &&
			ss[n-1].Index+ss[n-1].AddedCount == i {
			ss[n-1].AddedCount++
			continue
		}
		ss = append(ss, mapbridge.Splice{Index: i, AddedCount: 1})
	}
	return ss
}
