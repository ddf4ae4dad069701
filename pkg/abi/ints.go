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
	"fmt"
	"math/big"
	"strconv"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

func init() {
	registerScalar("bool", boolCodec{})
	registerScalar("int8", smallIntCodec{width: 1, signed: true})
	registerScalar("uint8", smallIntCodec{width: 1, signed: false})
	registerScalar("int16", smallIntCodec{width: 2, signed: true})
	registerScalar("uint16", smallIntCodec{width: 2, signed: false})
	registerScalar("int32", smallIntCodec{width: 4, signed: true})
	registerScalar("uint32", smallIntCodec{width: 4, signed: false})
	registerScalar("int64", bigIntCodec{width: 8, signed: true})
	registerScalar("uint64", bigIntCodec{width: 8, signed: false})
	registerScalar("int128", bigIntCodec{width: 16, signed: true})
	registerScalar("uint128", bigIntCodec{width: 16, signed: false})
	registerScalar("varuint32", varuint32Codec{})
	registerScalar("varint32", varint32Codec{})
}

type boolCodec struct{}

func (boolCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readByte()
	if err != nil {
		return badData(ctx, "bool", "truncated")
	}
	if b == 0 {
		w.RawValue("false")
	} else {
		w.RawValue("true")
	}
	return nil
}

func (boolCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	t, err := r.token(ctx)
	if err != nil {
		return err
	}
	v, ok := t.(bool)
	if !ok {
		return newErr(ctx, ErrBadData, abimsgs.MsgWrongJSONType, "bool", "bool", fmt.Sprintf("%T", t))
	}
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
	return nil
}

// smallIntCodec handles int8/16/32 and uint8/16/32: little-endian on the
// wire, plain JSON numbers.
type smallIntCodec struct {
	width  int
	signed bool
}

func (c smallIntCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(c.width)
	if err != nil {
		return badData(ctx, "int", "truncated")
	}
	var u uint64
	for i := c.width - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	if c.signed {
		w.RawValue(strconv.FormatInt(signExtend(u, c.width), 10))
	} else {
		w.RawValue(strconv.FormatUint(u, 10))
	}
	return nil
}

func signExtend(u uint64, width int) int64 {
	bits := uint(width * 8)
	shift := 64 - bits
	return int64(u<<shift) >> shift
}

func (c smallIntCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	t, err := r.token(ctx)
	if err != nil {
		return err
	}
	num, ok := t.(json.Number)
	if !ok {
		return newErr(ctx, ErrBadData, abimsgs.MsgWrongJSONType, "number", "int", fmt.Sprintf("%T", t))
	}
	var u uint64
	if c.signed {
		v, err := strconv.ParseInt(string(num), 10, c.width*8)
		if err != nil {
			return newErr(ctx, ErrBadData, abimsgs.MsgIntegerOutOfRange, "int", string(num))
		}
		u = uint64(v)
	} else {
		v, err := strconv.ParseUint(string(num), 10, c.width*8)
		if err != nil {
			return newErr(ctx, ErrBadData, abimsgs.MsgIntegerOutOfRange, "uint", string(num))
		}
		u = v
	}
	for i := 0; i < c.width; i++ {
		w.WriteByte(byte(u))
		u >>= 8
	}
	return nil
}

// bigIntCodec handles int64/uint64/int128/uint128: little-endian on the
// wire, JSON strings (base 10) to avoid float precision loss.
type bigIntCodec struct {
	width  int
	signed bool
}

func (c bigIntCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(c.width)
	if err != nil {
		return badData(ctx, "bigint", "truncated")
	}
	be := reversed(b)
	v := new(big.Int).SetBytes(be)
	if c.signed && len(be) > 0 && be[0]&0x80 != 0 {
		// two's-complement negative: v - 2^(width*8)
		mod := new(big.Int).Lsh(big.NewInt(1), uint(c.width*8))
		v.Sub(v, mod)
	}
	w.StringValue(v.String())
	return nil
}

func (c bigIntCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := scalarAsString(ctx, r)
	if err != nil {
		return err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return newErr(ctx, ErrBadData, abimsgs.MsgIntegerOutOfRange, "bigint", s)
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(c.width*8))
	if !c.signed {
		if v.Sign() < 0 || v.Cmp(max) >= 0 {
			return newErr(ctx, ErrBadData, abimsgs.MsgIntegerOutOfRange, "uint", s)
		}
	} else {
		half := new(big.Int).Rsh(max, 1)
		negHalf := new(big.Int).Neg(half)
		if v.Cmp(negHalf) < 0 || v.Cmp(half) >= 0 {
			return newErr(ctx, ErrBadData, abimsgs.MsgIntegerOutOfRange, "int", s)
		}
		if v.Sign() < 0 {
			v = new(big.Int).Add(v, max)
		}
	}
	be := v.FillBytes(make([]byte, c.width))
	w.Write(reversed(be))
	return nil
}

// scalarAsString accepts either a bare JSON number or a quoted string for a
// large-integer literal, matching common ABI JSON producers.
func scalarAsString(ctx context.Context, r *jsonReader) (string, error) {
	t, err := r.token(ctx)
	if err != nil {
		return "", err
	}
	switch v := t.(type) {
	case string:
		return v, nil
	case json.Number:
		return string(v), nil
	default:
		return "", newErr(ctx, ErrBadData, abimsgs.MsgWrongJSONType, "string or number", "bigint", fmt.Sprintf("%T", t))
	}
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

type varuint32Codec struct{}

func (varuint32Codec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	v, err := readVaruint32(ctx, r)
	if err != nil {
		return err
	}
	w.RawValue(strconv.FormatUint(uint64(v), 10))
	return nil
}

func (varuint32Codec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	t, err := r.token(ctx)
	if err != nil {
		return err
	}
	num, ok := t.(json.Number)
	if !ok {
		return newErr(ctx, ErrBadData, abimsgs.MsgWrongJSONType, "number", "varuint32", fmt.Sprintf("%T", t))
	}
	v, err := strconv.ParseUint(string(num), 10, 32)
	if err != nil {
		return newErr(ctx, ErrBadData, abimsgs.MsgIntegerOutOfRange, "varuint32", string(num))
	}
	writeVaruint32(w, uint32(v))
	return nil
}

type varint32Codec struct{}

func (varint32Codec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	v, err := readVarint32(ctx, r)
	if err != nil {
		return err
	}
	w.RawValue(strconv.FormatInt(int64(v), 10))
	return nil
}

func (varint32Codec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	t, err := r.token(ctx)
	if err != nil {
		return err
	}
	num, ok := t.(json.Number)
	if !ok {
		return newErr(ctx, ErrBadData, abimsgs.MsgWrongJSONType, "number", "varint32", fmt.Sprintf("%T", t))
	}
	v, err := strconv.ParseInt(string(num), 10, 32)
	if err != nil {
		return newErr(ctx, ErrBadData, abimsgs.MsgIntegerOutOfRange, "varint32", string(num))
	}
	writeVarint32(w, int32(v))
	return nil
}
