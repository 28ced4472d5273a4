// Package mapbridge keeps an imperative leaf map synchronized with the
// declarative model a remote host pushes to it and translates user
// interaction inside the map back into notifications the host can
// observe.
//
// The host owns the source of truth: map options, the base tile url,
// an ordered layer collection, controls and event subscriptions.  A
// [Component] records what the host declares through its setters and
// applies it to the native map:
//
//	c := mapbridge.New("map", mapbridge.WithNotifier(notify))
//	c.SetMapOptions(mapbridge.MapOptions{Zoom: 12, Center: center})
//	c.SetBaseURL("https://tile.example.org/{z}/{x}/{y}.png")
//	c.UpdateLayers(layers)
//	if err := c.InitializeOnce(); err != nil {
//	    log.Fatal(err)
//	}
//
// InitializeOnce constructs the native map exactly once and attaches
// the declared configuration to it: top-level event listeners, the base
// tile layer, the overlay control, the initial bounds, the declared
// layers and controls.  Once the map reports ready its size is
// invalidated.  Later calls are no-ops.
//
// After initialization every layer collection change is reported by
// UpdateLayers together with the splices describing it:
//
//	c.UpdateLayers(layers, mapbridge.Splice{
//	    Index: 2, Removed: []mapbridge.LayerDescriptor{old}, AddedCount: 1,
//	})
//
// The removals of a splice are processed before its additions and
// splices are processed in the given order.  A notification is either
// applied completely or not at all, i.e. a malformed layer payload
// fails the notification before anything was detached or attached.
//
// The events a layer descriptor lists are bound to one of twelve
// handler categories (see [CategoryOf]); each handler normalizes the
// native event into a [Notification] which is reported to the
// configured [Notifier].  Event names no category knows are ignored.
//
// Finally the host may call a named operation on any live layer or the
// map itself:
//
//	center, err := c.Invoke(markerID, "getLatLng", "[]")
//
// The callable operations form the closed registry [Operations]; see
// [DefaultOperations] for what is callable out of the box.
package mapbridge
