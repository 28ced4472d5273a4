// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"errors"
	"fmt"
)

// ErrMapBridge is the general error all other mapbridge errors are
// derived from.
var ErrMapBridge = errors.New("mapbridge")

// ErrNoContainer is returned by InitializeOnce if the component was
// created without container.
var ErrNoContainer = fmt.Errorf("%w: no container", ErrMapBridge)

// ErrDecode is returned for a malformed encoded layer payload or
// malformed encoded call arguments.
var ErrDecode = fmt.Errorf("%w: decode", ErrMapBridge)

// ErrSplice is returned for a splice whose added range lies outside the
// declared layer collection.
var ErrSplice = fmt.Errorf("%w: splice", ErrMapBridge)

// ErrDuplicateIdentity is returned for a notification adding a layer
// whose identity is live.
var ErrDuplicateIdentity = fmt.Errorf("%w: duplicate identity", ErrMapBridge)

// ErrResolution is returned by Invoke if the targeted identity is not
// found under the map root.
var ErrResolution = fmt.Errorf("%w: resolution", ErrMapBridge)

// ErrInvocation is returned by Invoke if the requested operation is
// unknown, not supported by the target, gets bad arguments or fails.
var ErrInvocation = fmt.Errorf("%w: invocation", ErrMapBridge)

// ErrUnsupportedTarget is returned by an operation which can't be
// applied to the resolved target.
var ErrUnsupportedTarget = fmt.Errorf("%w: unsupported target", ErrInvocation)

// ErrArguments is returned by an operation for missing or ill typed
// arguments.
var ErrArguments = fmt.Errorf("%w: arguments", ErrInvocation)

// ErrOperation is returned by Operations.Register for an empty name or
// a nil operation.
var ErrOperation = fmt.Errorf("%w: invalid operation", ErrMapBridge)

// ErrOperationExists is returned by Operations.Register for a name
// which is already registered.
var ErrOperationExists = fmt.Errorf("%w: operation exists", ErrMapBridge)
