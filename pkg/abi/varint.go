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
)

// writeVaruint32 appends the LEB128 encoding of v to w.
func writeVaruint32(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// readVaruint32 reads a LEB128-encoded uint32 from r.
func readVaruint32(ctx context.Context, r *binReader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, badData(ctx, "varuint32", "truncated")
		}
		if shift >= 35 {
			return 0, badData(ctx, "varuint32", "too many continuation bytes")
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

func writeVarint32(w *bytes.Buffer, v int32) {
	zz := uint32(v<<1) ^ uint32(v>>31)
	writeVaruint32(w, zz)
}

func readVarint32(ctx context.Context, r *binReader) (int32, error) {
	zz, err := readVaruint32(ctx, r)
	if err != nil {
		return 0, err
	}
	return int32(zz>>1) ^ -int32(zz&1), nil
}
