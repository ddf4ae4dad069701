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
	"encoding/hex"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

func init() {
	registerScalar("checksum160", checksumCodec{width: 20})
	registerScalar("checksum256", checksumCodec{width: 32})
	registerScalar("checksum512", checksumCodec{width: 64})
}

// checksumCodec codes a fixed-width digest as a lowercase hex string,
// written on the wire in the byte order it was supplied (no endianness
// reordering - digests are opaque byte strings, not integers).
type checksumCodec struct {
	width int
}

func (c checksumCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(c.width)
	if err != nil {
		return badData(ctx, "checksum", "truncated")
	}
	w.StringValue(hex.EncodeToString(b))
	return nil
}

func (c checksumCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	b, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil || len(b) != c.width {
		return newErr(ctx, ErrBadData, abimsgs.MsgInvalidChecksumLength, s, c.width)
	}
	w.Write(b)
	return nil
}
