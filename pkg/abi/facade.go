// Copyright © 2024 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package abi

import (
	"context"
	"sync"
)

// ProtobufTypes is the opaque descriptor-set payload carried by an
// abi_def's protobuf_types tail field. No descriptor-pool library is
// wired in; the bridge is a no-op placeholder that round-trips the bytes.
type ProtobufTypes []byte

// Context is the Go-idiomatic analogue of the C facade §6 describes: an
// opaque, mutex-guarded context wrapping one ABI plus a last-error string.
// It does no codec work of its own beyond routing calls and capturing
// errors, letting callers avoid threading
// context.Context error plumbing through a thin per-request wrapper.
type Context struct {
	mu       sync.Mutex
	abi      *ABI
	lastErr  string
}

// NewContext returns an empty context with no ABI set.
func NewContext() *Context {
	return &Context{}
}

// SetABI parses data as a JSON abi_def document when isJSON is true, or as
// the binary form otherwise, and installs the resulting ABI, replacing any
// previous one.
func (c *Context) SetABI(ctx context.Context, data []byte, isJSON bool, opts ...Option) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	var a *ABI
	var err error
	if isJSON {
		a, err = FromJSON(ctx, data, opts...)
	} else {
		a, err = FromBinary(ctx, data, opts...)
	}
	if err != nil {
		c.lastErr = err.Error()
		return false
	}
	c.abi = a
	c.lastErr = ""
	return true
}

// BinToJSON routes to the installed ABI's BinToJSON, returning nil and
// recording the error on failure.
func (c *Context) BinToJSON(ctx context.Context, typeName string, data []byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.abi == nil {
		c.lastErr = "no ABI set"
		return nil
	}
	out, err := c.abi.BinToJSON(ctx, typeName, data)
	if err != nil {
		c.lastErr = err.Error()
		return nil
	}
	c.lastErr = ""
	return out
}

// JSONToBin routes to the installed ABI's JSONToBin.
func (c *Context) JSONToBin(ctx context.Context, typeName string, jsonText []byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.abi == nil {
		c.lastErr = "no ABI set"
		return nil
	}
	out, err := c.abi.JSONToBin(ctx, typeName, jsonText)
	if err != nil {
		c.lastErr = err.Error()
		return nil
	}
	c.lastErr = ""
	return out
}

// JSONToBinReorderable routes to the installed ABI's JSONToBinReorderable.
func (c *Context) JSONToBinReorderable(ctx context.Context, typeName string, jsonText []byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.abi == nil {
		c.lastErr = "no ABI set"
		return nil
	}
	out, err := c.abi.JSONToBinReorderable(ctx, typeName, jsonText)
	if err != nil {
		c.lastErr = err.Error()
		return nil
	}
	c.lastErr = ""
	return out
}

// KVPrimaryIndexToJSON routes to the installed ABI's KVPrimaryIndexToJSON.
func (c *Context) KVPrimaryIndexToJSON(ctx context.Context, keyBytes, valueBytes []byte) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.abi == nil {
		c.lastErr = "no ABI set"
		return ""
	}
	out, err := c.abi.KVPrimaryIndexToJSON(ctx, keyBytes, valueBytes)
	if err != nil {
		c.lastErr = err.Error()
		return ""
	}
	c.lastErr = ""
	return out
}

// ABI returns the currently installed ABI, or nil if none has been set.
func (c *Context) ABI() *ABI {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.abi
}

// Error returns the message of the last failed call, or "" if the last
// call succeeded.
func (c *Context) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
