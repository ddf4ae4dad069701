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
	"bytes"
	"context"
	"encoding/json"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

// ABI is the validated, immutable runtime type graph built from an abi_def
// document (§3). All codec operations on it are read-only; re-building is
// the caller's responsibility to serialize.
type ABI struct {
	def   *ABIDef
	graph *typeGraph

	actionTypes             map[string]string
	tableTypes              map[string]string
	actionResultTypes       map[string]string
	kvTables                map[string]string
	kvTableTypes            map[string]*Node
	kvTablePrimaryKeyName   map[string]string
	kvTableSecondaryIndices map[string]map[string]string

	maxDepth int
}

// Def returns the abi_def document the ABI was built from.
func (a *ABI) Def() *ABIDef { return a.def }

// FromJSON parses an abi_def document from its JSON interchange form and
// builds the runtime type graph.
func FromJSON(ctx context.Context, text []byte, opts ...Option) (*ABI, error) {
	var def ABIDef
	if err := json.Unmarshal(text, &def); err != nil {
		return nil, newErr(ctx, ErrBadABI, abimsgs.MsgBadABI, err.Error())
	}
	return Build(ctx, &def, opts...)
}

// FromBinary parses an abi_def document from its canonical binary form and
// builds the runtime type graph.
func FromBinary(ctx context.Context, data []byte, opts ...Option) (*ABI, error) {
	def, err := DecodeABIDefBinary(ctx, data)
	if err != nil {
		return nil, err
	}
	return Build(ctx, def, opts...)
}

func (a *ABI) typeNode(ctx context.Context, typeName string) (*Node, error) {
	return a.graph.resolve(ctx, typeName, 0)
}

// TypeForAction returns the argument struct's type name for action name,
// or "" if no such action is declared.
func (a *ABI) TypeForAction(name string) (string, bool) {
	t, ok := a.actionTypes[name]
	return t, ok
}

// TypeForTable returns the row type name for table name.
func (a *ABI) TypeForTable(name string) (string, bool) {
	t, ok := a.tableTypes[name]
	return t, ok
}

// TypeForActionResult returns the result type name for action name.
func (a *ABI) TypeForActionResult(name string) (string, bool) {
	t, ok := a.actionResultTypes[name]
	return t, ok
}

// TypeForKVTable returns the row type name for kv table name.
func (a *ABI) TypeForKVTable(name string) (string, bool) {
	t, ok := a.kvTables[name]
	return t, ok
}

// KVTableSecondaryIndices returns the declared secondary index name->type
// map for kv table name (§5 of SPEC_FULL's supplemented features).
func (a *ABI) KVTableSecondaryIndices(name string) map[string]string {
	return a.kvTableSecondaryIndices[name]
}

func (a *ABI) newCodecState() *codecState {
	return &codecState{maxDepth: a.maxDepth}
}

// BinToJSON decodes bytes as typeName and returns its JSON rendering.
func (a *ABI) BinToJSON(ctx context.Context, typeName string, data []byte) ([]byte, error) {
	node, err := a.typeNode(ctx, typeName)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := newJSONWriter(&buf)
	r := newBinReader(data)
	if err := node.binToJSON(ctx, a.newCodecState(), r, w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONToBin encodes jsonText (an object whose fields must arrive in
// declaration order for struct types) as typeName's canonical binary form.
func (a *ABI) JSONToBin(ctx context.Context, typeName string, jsonText []byte) ([]byte, error) {
	return a.jsonToBin(ctx, typeName, jsonText, false)
}

// JSONToBinReorderable is the reorderable variant of JSONToBin (§4.4):
// struct object keys may arrive in any order.
func (a *ABI) JSONToBinReorderable(ctx context.Context, typeName string, jsonText []byte) ([]byte, error) {
	return a.jsonToBin(ctx, typeName, jsonText, true)
}

func (a *ABI) jsonToBin(ctx context.Context, typeName string, jsonText []byte, reorderable bool) ([]byte, error) {
	node, err := a.typeNode(ctx, typeName)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	r := newJSONReader(jsonText)
	if err := node.jsonToBin(ctx, a.newCodecState(), r, &buf, reorderable); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
