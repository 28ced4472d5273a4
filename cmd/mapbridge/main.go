/*
Mapbridge replays a recorded host session against a mapbridge component
and reports the outcome in a terminal ui.  A session file holds one JSON
message per line, each a property notification or call of the
declarative host (see package host).

Usage:

	mapbridge <session file>

Sample ui:

	session 3f1c…: 7 messages

	mapOptions
	baseUrl
	events
	layers 1
	init
	zoom 7
	invoke A.getLatLng() = [2 1]

	live layers: 1
	    A Marker Roads

	notifications: 1
	    base zoomend@map

	layers/overlays: 1/1; zoom: 7; center: 52.5000,13.4000

The message bar shows the session's identity and later the latest
notification.  Messages which failed are highlighted.  Selecting a live
layer's line fires a click at that layer and its notification is
reported.  The status bar reports the number of live layers and overlay
entries along with the map's zoom and center.
*/
package main

import (
	"github.com/slukits/mapbridge/cmd/mapbridge/controller"
)

func main() {
	controller.New(controller.InitFactories{})
}
