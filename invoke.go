// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapbridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Invoke calls the operation with given name on the layer with given
// identity.  The layer is resolved in the layer tree rooted at the map
// which itself is addressed by the map options' UUID.  The encoded
// arguments are a JSON array whose elements are converted by the
// component's Converter; an empty string means no arguments.  Invoke
// returns the operation's result unchanged.
//
// Invoke fails with ErrResolution if there is no map or no node with
// given identity, with ErrInvocation if the operation is unknown, the
// arguments are malformed (then it is also an ErrDecode) or the
// operation fails.
func (c *Component) Invoke(
	id, operation, encodedArguments string,
) (interface{}, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.m == nil {
		return nil, fmt.Errorf("%w: no map: %s", ErrResolution, id)
	}
	target := FindLayer(c.m, id)
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrResolution, id)
	}
	op, ok := c.ops.Lookup(operation)
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation: %s",
			ErrInvocation, operation)
	}
	args, err := c.decodeArguments(encodedArguments)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvocation, operation, err)
	}
	result, err := op(target, args)
	if err == nil {
		return result, nil
	}
	if errors.Is(err, ErrInvocation) {
		return nil, fmt.Errorf("%s(%s): %w", operation, id, err)
	}
	return nil, fmt.Errorf("%w: %s(%s): %w", ErrInvocation, operation, id,
		err)
}

func (c *Component) decodeArguments(encoded string) ([]interface{}, error) {
	if strings.TrimSpace(encoded) == "" {
		return nil, nil
	}
	raw := []interface{}{}
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, fmt.Errorf("%w: arguments: %v", ErrDecode, err)
	}
	args := make([]interface{}, len(raw))
	for i, v := range raw {
		cv, err := c.conv.Convert(v)
		if err != nil {
			return nil, fmt.Errorf("arguments[%d]: %w", i, err)
		}
		args[i] = cv
	}
	return args, nil
}
