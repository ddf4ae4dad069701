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
	"strings"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

func init() {
	registerScalar("bytes", bytesCodec{})
	registerScalar("string", stringCodec{})
	registerScalar("name", nameCodec{})
	registerScalar("byte", byteElementCodec{})
	registerScalar("char", byteElementCodec{})
}

func trimHexPrefix(s string) string {
	return strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
}

type bytesCodec struct{}

func (bytesCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	n, err := readVaruint32(ctx, r)
	if err != nil {
		return err
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return badData(ctx, "bytes", "truncated")
	}
	w.StringValue(hex.EncodeToString(b))
	return nil
}

func (bytesCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	b, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil {
		return newErr(ctx, ErrBadData, abimsgs.MsgInvalidBytesHex, s)
	}
	writeVaruint32(w, uint32(len(b)))
	w.Write(b)
	return nil
}

type stringCodec struct{}

func (stringCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	n, err := readVaruint32(ctx, r)
	if err != nil {
		return err
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return badData(ctx, "string", "truncated")
	}
	w.StringValue(string(b))
	return nil
}

func (stringCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	writeVaruint32(w, uint32(len(s)))
	w.WriteString(s)
	return nil
}

type nameCodec struct{}

func (nameCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(8)
	if err != nil {
		return badData(ctx, "name", "truncated")
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	w.StringValue(NameToString(v))
	return nil
}

func (nameCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	v, err := NameFromString(ctx, s)
	if err != nil {
		return err
	}
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v)
		v >>= 8
	}
	w.Write(b[:])
	return nil
}

// byteElementCodec codes a single byte/char element the way sized_array
// handles non-blob elements; unused in practice since sizedArrayNode
// special-cases byte/char element types into a single hex-string blob, but
// kept so "byte"/"char" resolve as valid builtin names on their own.
type byteElementCodec struct{}

func (byteElementCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readByte()
	if err != nil {
		return badData(ctx, "byte", "truncated")
	}
	w.StringValue(hex.EncodeToString([]byte{b}))
	return nil
}

func (byteElementCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	b, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil || len(b) != 1 {
		return newErr(ctx, ErrBadData, abimsgs.MsgInvalidBytesHex, s)
	}
	w.WriteByte(b[0])
	return nil
}
