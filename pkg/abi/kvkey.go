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
	"encoding/binary"
	"math"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

// KeyTuple concatenates pre-encoded tuple element byte strings with no
// length prefix, matching the order-preserving composite key encoding of
// §4.5.
func KeyTuple(elements ...[]byte) []byte {
	var total int
	for _, e := range elements {
		total += len(e)
	}
	out := make([]byte, 0, total)
	for _, e := range elements {
		out = append(out, e...)
	}
	return out
}

// KeyUint encodes an unsigned integer of the given byte width as fixed
// width big-endian, preserving numeric order under byte comparison.
func KeyUint(width int, v uint64) []byte {
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// KeyInt encodes a signed integer of the given byte width as big-endian
// with the sign bit flipped, so two's-complement ordering becomes
// unsigned byte-lexicographic ordering.
func KeyInt(width int, v int64) []byte {
	u := uint64(v)
	b := KeyUint(width, u)
	b[0] ^= 0x80
	return b
}

// KeyName encodes a name's packed 64-bit value as native big-endian (the
// KV key codec does not use the name scalar's usual little-endian wire
// form).
func KeyName(v uint64) []byte {
	return KeyUint(8, v)
}

// KeyString encodes s with every embedded 0x00 byte doubled to 0x00 0x01,
// terminated by 0x00 0x00, so that no valid encoding is a prefix of
// another and byte comparison matches string comparison.
func KeyString(s string) []byte {
	out := make([]byte, 0, len(s)+2)
	for i := 0; i < len(s); i++ {
		if s[i] == 0x00 {
			out = append(out, 0x00, 0x01)
		} else {
			out = append(out, s[i])
		}
	}
	return append(out, 0x00, 0x00)
}

// KeyFloat64 encodes v as IEEE-754 bits, big-endian, with the sign bit
// inverted for values whose sign bit is clear and all bits inverted for
// values whose sign bit is set (including -0.0), making unsigned byte
// order match float order.
func KeyFloat64(v float64) []byte {
	bits := math.Float64bits(v)
	if (bits >> 63) == 0 {
		bits ^= 1 << 63
	} else {
		bits = ^bits
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, bits)
	return b
}

// KVPrimaryIndexToJSON implements abi::kv_primary_index_to_json (§4.5):
// it parses the key prefix (u8 table_code, name table, name index), looks
// up the table, and if index names the table's declared primary index,
// JSON-renders the row type from valueBytes. If index is a secondary
// index (or any other name), it returns an empty string - the documented
// "not a primary key" signal - rather than an error.
func (a *ABI) KVPrimaryIndexToJSON(ctx context.Context, keyBytes, valueBytes []byte) (string, error) {
	r := newBinReader(keyBytes)
	if _, err := r.readByte(); err != nil { // table_code, not interpreted
		return "", badData(ctx, "kv_key", "truncated table_code")
	}
	tableRaw, err := r.readBytes(8)
	if err != nil {
		return "", badData(ctx, "kv_key", "truncated table name")
	}
	indexRaw, err := r.readBytes(8)
	if err != nil {
		return "", badData(ctx, "kv_key", "truncated index name")
	}
	tableName := NameToString(binary.BigEndian.Uint64(tableRaw))
	indexName := NameToString(binary.BigEndian.Uint64(indexRaw))

	rowType, ok := a.TypeForKVTable(tableName)
	if !ok {
		return "", newErr(ctx, ErrBadData, abimsgs.MsgUnknownKVTable, tableName)
	}
	if indexName != a.kvTablePrimaryKeyName[tableName] {
		return "", nil
	}
	jsonBytes, err := a.BinToJSON(ctx, rowType, valueBytes)
	if err != nil {
		return "", err
	}
	return string(jsonBytes), nil
}
