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
	"io"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

// binReader is a forward-only cursor over an in-memory binary payload.
type binReader struct {
	data []byte
	pos  int
}

func newBinReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) atEOF() bool {
	return r.pos >= len(r.data)
}

func (r *binReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *binReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *binReader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// jsonWriter emits JSON tokens to an append-only byte buffer, tracking
// container nesting so commas are inserted between sibling values without
// building an intermediate tree.
type jsonWriter struct {
	buf       *bytes.Buffer
	needComma []bool
}

func newJSONWriter(buf *bytes.Buffer) *jsonWriter {
	return &jsonWriter{buf: buf}
}

func (w *jsonWriter) preValue() {
	n := len(w.needComma)
	if n == 0 {
		return
	}
	if w.needComma[n-1] {
		w.buf.WriteByte(',')
	} else {
		w.needComma[n-1] = true
	}
}

func (w *jsonWriter) BeginObject() {
	w.preValue()
	w.buf.WriteByte('{')
	w.needComma = append(w.needComma, false)
}

func (w *jsonWriter) EndObject() {
	w.needComma = w.needComma[:len(w.needComma)-1]
	w.buf.WriteByte('}')
}

func (w *jsonWriter) BeginArray() {
	w.preValue()
	w.buf.WriteByte('[')
	w.needComma = append(w.needComma, false)
}

func (w *jsonWriter) EndArray() {
	w.needComma = w.needComma[:len(w.needComma)-1]
	w.buf.WriteByte(']')
}

// Key writes an object key, including the trailing colon. It must be called
// with the enclosing object as the current container.
func (w *jsonWriter) Key(key string) {
	w.preValue()
	w.needComma[len(w.needComma)-1] = false
	b, _ := json.Marshal(key)
	w.buf.Write(b)
	w.buf.WriteByte(':')
}

// RawValue writes a value that is already valid, pre-escaped JSON (numbers,
// booleans, null, or a caller-escaped string literal).
func (w *jsonWriter) RawValue(raw string) {
	w.preValue()
	w.buf.WriteString(raw)
}

// StringValue writes s as a safely escaped JSON string value.
func (w *jsonWriter) StringValue(s string) {
	w.preValue()
	b, _ := json.Marshal(s)
	w.buf.Write(b)
}

func (w *jsonWriter) NullValue() {
	w.RawValue("null")
}

// jsonReader consumes a JSON document one token at a time via the standard
// library's streaming decoder, never materializing an intermediate tree.
type jsonReader struct {
	dec *json.Decoder
}

func newJSONReader(data []byte) *jsonReader {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &jsonReader{dec: dec}
}

func (r *jsonReader) token(ctx context.Context) (json.Token, error) {
	t, err := r.dec.Token()
	if err != nil {
		return nil, newErr(ctx, ErrBadData, abimsgs.MsgJSONParse, err.Error())
	}
	return t, nil
}

func (r *jsonReader) more() bool {
	return r.dec.More()
}

// expectDelim reads the next token and requires it be the given delimiter.
func (r *jsonReader) expectDelim(ctx context.Context, d byte) error {
	t, err := r.token(ctx)
	if err != nil {
		return err
	}
	delim, ok := t.(json.Delim)
	if !ok || byte(delim) != d {
		return newErr(ctx, ErrBadData, abimsgs.MsgJSONParse, fmt.Sprintf("expected '%c', got %v", d, t))
	}
	return nil
}

// readString reads a JSON string token.
func (r *jsonReader) readString(ctx context.Context) (string, error) {
	t, err := r.token(ctx)
	if err != nil {
		return "", err
	}
	s, ok := t.(string)
	if !ok {
		return "", newErr(ctx, ErrBadData, abimsgs.MsgWrongJSONType, "string", "", fmt.Sprintf("%T", t))
	}
	return s, nil
}

// readRawValue consumes the next full JSON value (scalar, object, or array)
// and returns its raw re-encoded JSON text, used by the reorderable struct
// path to buffer a field's value without interpreting it yet.
func (r *jsonReader) readRawValue(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := r.dec.Decode(&raw); err != nil {
		return nil, newErr(ctx, ErrBadData, abimsgs.MsgJSONParse, err.Error())
	}
	return raw, nil
}
