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
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

func init() {
	registerScalar("float32", float32Codec{})
	registerScalar("float64", float64Codec{})
	registerScalar("float128", float128Codec{})
}

type float32Codec struct{}

func (float32Codec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(4)
	if err != nil {
		return badData(ctx, "float32", "truncated")
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(b))
	writeFloatJSON(w, float64(v), 32)
	return nil
}

func (float32Codec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	v, err := readFloatJSON(ctx, r, "float32")
	if err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v)))
	w.Write(b[:])
	return nil
}

type float64Codec struct{}

func (float64Codec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(8)
	if err != nil {
		return badData(ctx, "float64", "truncated")
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(b))
	writeFloatJSON(w, v, 64)
	return nil
}

func (float64Codec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	v, err := readFloatJSON(ctx, r, "float64")
	if err != nil {
		return err
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.Write(b[:])
	return nil
}

func writeFloatJSON(w *jsonWriter, v float64, bits int) {
	switch {
	case math.IsNaN(v):
		w.StringValue("NaN")
	case math.IsInf(v, 1):
		w.StringValue("Infinity")
	case math.IsInf(v, -1):
		w.StringValue("-Infinity")
	default:
		w.RawValue(strconv.FormatFloat(v, 'g', -1, bits))
	}
}

func readFloatJSON(ctx context.Context, r *jsonReader, typeName string) (float64, error) {
	t, err := r.token(ctx)
	if err != nil {
		return 0, err
	}
	switch v := t.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, badData(ctx, typeName, "malformed float literal")
		}
		return f, nil
	case string:
		switch v {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		default:
			return 0, badData(ctx, typeName, fmt.Sprintf("unrecognized float string %q", v))
		}
	default:
		return 0, newErr(ctx, ErrBadData, abimsgs.MsgWrongJSONType, "number", typeName, fmt.Sprintf("%T", t))
	}
}

// float128Codec has no bit-exact arithmetic support in Go; the 16-byte
// little-endian payload is preserved opaquely, JSON-rendered as a hex
// string per the spec's chosen representation for an unstandardized type.
type float128Codec struct{}

func (float128Codec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(16)
	if err != nil {
		return badData(ctx, "float128", "truncated")
	}
	w.StringValue("0x" + hex.EncodeToString(b))
	return nil
}

func (float128Codec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	s = trimHexPrefix(s)
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 16 {
		return newErr(ctx, ErrBadData, abimsgs.MsgInvalidBytesHex, s)
	}
	w.Write(b)
	return nil
}
