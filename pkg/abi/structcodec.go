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

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

// jsonToBinStrictStruct requires object keys to arrive in declaration
// order (§4.3): a reordered or duplicate key is bad_data.
func (n *Node) jsonToBinStrictStruct(ctx context.Context, s *codecState, r *jsonReader, w *bytes.Buffer) error {
	if err := r.expectDelim(ctx, '{'); err != nil {
		return err
	}
	fields := n.AllFields()
	present := make([]bool, len(fields))
	slots := make([]bytes.Buffer, len(fields))
	extensionGapOpen := false
	i := 0
	for r.more() {
		key, err := r.readString(ctx)
		if err != nil {
			return err
		}
		for i < len(fields) && fields[i].Name != key {
			if fields[i].Type.Kind != KindExtension {
				return newErr(ctx, ErrBadData, abimsgs.MsgOutOfOrderField, key, n.Name, fields[i].Name)
			}
			// missing extension field: tail rule disables later extensions,
			// and writes nothing to the wire.
			extensionGapOpen = true
			i++
		}
		if i >= len(fields) {
			return newErr(ctx, ErrBadData, abimsgs.MsgUnknownField, key, n.Name)
		}
		f := fields[i]
		if f.Type.Kind == KindExtension && extensionGapOpen {
			return newErr(ctx, ErrBadData, abimsgs.MsgExtensionAfterGap, key, n.Name)
		}
		if err := f.Type.jsonToBin(ctx, s, r, &slots[i], false); err != nil {
			return err
		}
		present[i] = true
		i++
	}
	for i < len(fields) {
		if fields[i].Type.Kind != KindExtension {
			return newErr(ctx, ErrBadData, abimsgs.MsgMissingField, fields[i].Name, n.Name)
		}
		i++
	}
	if err := r.expectDelim(ctx, '}'); err != nil {
		return err
	}
	writeStructSlots(ctx, s, fields, present, slots, w)
	return nil
}

// jsonToBinReorderableStruct pre-reads the whole object, routing each key
// to a per-declared-field byte buffer, then concatenates the buffers in
// declaration order (§4.4).
func (n *Node) jsonToBinReorderableStruct(ctx context.Context, s *codecState, r *jsonReader, w *bytes.Buffer) error {
	if err := r.expectDelim(ctx, '{'); err != nil {
		return err
	}
	fields := n.AllFields()
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}
	present := make([]bool, len(fields))
	slots := make([]bytes.Buffer, len(fields))
	for r.more() {
		key, err := r.readString(ctx)
		if err != nil {
			return err
		}
		idx, ok := index[key]
		if !ok {
			return newErr(ctx, ErrBadData, abimsgs.MsgUnknownField, key, n.Name)
		}
		if present[idx] {
			return newErr(ctx, ErrBadData, abimsgs.MsgUnknownField, key, n.Name)
		}
		raw, err := r.readRawValue(ctx)
		if err != nil {
			return err
		}
		sub := newJSONReader(raw)
		if err := fields[idx].Type.jsonToBin(ctx, s, sub, &slots[idx], true); err != nil {
			return err
		}
		present[idx] = true
	}
	if err := r.expectDelim(ctx, '}'); err != nil {
		return err
	}
	extensionGapOpen := false
	for i, f := range fields {
		if !present[i] {
			if f.Type.Kind != KindExtension {
				return newErr(ctx, ErrBadData, abimsgs.MsgMissingField, f.Name, n.Name)
			}
			extensionGapOpen = true
			continue
		}
		if f.Type.Kind == KindExtension && extensionGapOpen {
			return newErr(ctx, ErrBadData, abimsgs.MsgExtensionAfterGap, f.Name, n.Name)
		}
	}
	writeStructSlots(ctx, s, fields, present, slots, w)
	return nil
}

// writeStructSlots concatenates each present field's already-encoded bytes
// in declaration order, omitting a trailing run of present extension
// fields whose encoded value equals their type's default. binToJSON fills
// in that same default when it meets an absent extension at EOF (Testable
// Property 3), so this is what lets a struct decoded from a shorter,
// older binary re-encode back to the identical bytes.
func writeStructSlots(ctx context.Context, s *codecState, fields []FieldNode, present []bool, slots []bytes.Buffer, w *bytes.Buffer) {
	omit := make([]bool, len(fields))
	for i := len(fields) - 1; i >= 0; i-- {
		if !present[i] || fields[i].Type.Kind != KindExtension {
			break
		}
		if !isDefaultEncoding(ctx, s, fields[i].Type.Elem, slots[i].Bytes()) {
			break
		}
		omit[i] = true
	}
	for i := range fields {
		if present[i] && !omit[i] {
			w.Write(slots[i].Bytes())
		}
	}
}
