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
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

func init() {
	registerScalar("symbol_code", symbolCodeCodec{})
	registerScalar("symbol", symbolCodec{})
	registerScalar("asset", assetCodec{})
}

func packSymbolCode(code string) uint64 {
	var v uint64
	for i := 0; i < len(code); i++ {
		v |= uint64(code[i]) << (8 * uint(i))
	}
	return v
}

func unpackSymbolCode(v uint64) string {
	var b []byte
	for i := 0; i < 7; i++ {
		c := byte(v >> (8 * uint(i)))
		if c == 0 {
			break
		}
		b = append(b, c)
	}
	return string(b)
}

func validSymbolCode(code string) bool {
	if len(code) < 1 || len(code) > 7 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

type symbolCodeCodec struct{}

func (symbolCodeCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(8)
	if err != nil {
		return badData(ctx, "symbol_code", "truncated")
	}
	v := binary.LittleEndian.Uint64(b)
	w.StringValue(unpackSymbolCode(v))
	return nil
}

func (symbolCodeCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	if !validSymbolCode(s) {
		return newErr(ctx, ErrBadData, abimsgs.MsgInvalidSymbolCode, s)
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], packSymbolCode(s))
	w.Write(b[:])
	return nil
}

type symbolCodec struct{}

func (symbolCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(8)
	if err != nil {
		return badData(ctx, "symbol", "truncated")
	}
	v := binary.LittleEndian.Uint64(b)
	precision := byte(v)
	code := unpackSymbolCode(v >> 8)
	w.StringValue(fmt.Sprintf("%d,%s", precision, code))
	return nil
}

func (symbolCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	precision, code, err := parseSymbol(ctx, s)
	if err != nil {
		return err
	}
	v := uint64(precision) | (packSymbolCode(code) << 8)
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
	return nil
}

func parseSymbol(ctx context.Context, s string) (byte, string, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, "", newErr(ctx, ErrBadData, abimsgs.MsgInvalidAssetString, s)
	}
	p, err := strconv.Atoi(parts[0])
	if err != nil || p < 0 || p > 18 {
		return 0, "", newErr(ctx, ErrBadData, abimsgs.MsgInvalidAssetPrecision, p)
	}
	if !validSymbolCode(parts[1]) {
		return 0, "", newErr(ctx, ErrBadData, abimsgs.MsgInvalidSymbolCode, parts[1])
	}
	return byte(p), parts[1], nil
}

type assetCodec struct{}

func (assetCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	ab, err := r.readBytes(8)
	if err != nil {
		return badData(ctx, "asset", "truncated")
	}
	amount := int64(binary.LittleEndian.Uint64(ab))
	sb, err := r.readBytes(8)
	if err != nil {
		return badData(ctx, "asset", "truncated")
	}
	v := binary.LittleEndian.Uint64(sb)
	precision := int(byte(v))
	code := unpackSymbolCode(v >> 8)
	w.StringValue(formatAsset(amount, precision, code))
	return nil
}

func formatAsset(amount int64, precision int, code string) string {
	neg := amount < 0
	u := amount
	if neg {
		u = -u
	}
	s := strconv.FormatInt(u, 10)
	var intPart, fracPart string
	if precision == 0 {
		intPart = s
	} else {
		for len(s) <= precision {
			s = "0" + s
		}
		intPart = s[:len(s)-precision]
		fracPart = s[len(s)-precision:]
	}
	sign := ""
	if neg {
		sign = "-"
	}
	if precision == 0 {
		return fmt.Sprintf("%s%s %s", sign, intPart, code)
	}
	return fmt.Sprintf("%s%s.%s %s", sign, intPart, fracPart, code)
}

func (assetCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	amount, precision, code, err := parseAsset(ctx, s)
	if err != nil {
		return err
	}
	var ab [8]byte
	binary.LittleEndian.PutUint64(ab[:], uint64(amount))
	w.Write(ab[:])
	v := uint64(precision) | (packSymbolCode(code) << 8)
	var sb [8]byte
	binary.LittleEndian.PutUint64(sb[:], v)
	w.Write(sb[:])
	return nil
}

func parseAsset(ctx context.Context, s string) (int64, byte, string, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, "", newErr(ctx, ErrBadData, abimsgs.MsgInvalidAssetString, s)
	}
	numPart, code := fields[0], fields[1]
	if !validSymbolCode(code) {
		return 0, 0, "", newErr(ctx, ErrBadData, abimsgs.MsgInvalidSymbolCode, code)
	}
	neg := strings.HasPrefix(numPart, "-")
	numPart = strings.TrimPrefix(numPart, "-")
	dot := strings.IndexByte(numPart, '.')
	var intPart, fracPart string
	if dot < 0 {
		intPart, fracPart = numPart, ""
	} else {
		intPart, fracPart = numPart[:dot], numPart[dot+1:]
	}
	precision := len(fracPart)
	if precision > 18 {
		return 0, 0, "", newErr(ctx, ErrBadData, abimsgs.MsgInvalidAssetPrecision, precision)
	}
	digits := intPart + fracPart
	if digits == "" {
		return 0, 0, "", newErr(ctx, ErrBadData, abimsgs.MsgInvalidAssetString, s)
	}
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, 0, "", newErr(ctx, ErrBadData, abimsgs.MsgInvalidAssetString, s)
	}
	if neg {
		amount = -amount
	}
	return amount, byte(precision), code, nil
}
