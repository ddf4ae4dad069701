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
	"time"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

func init() {
	registerScalar("time_point", timePointCodec{})
	registerScalar("time_point_sec", timePointSecCodec{})
	registerScalar("block_timestamp_type", blockTimestampCodec{})
	registerScalar("block_timestamp", blockTimestampCodec{})
}

// blockTimestampEpoch is 2000-01-01T00:00:00 UTC, the chain epoch that
// block_timestamp slots (half-second ticks) count from.
var blockTimestampEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const timePointLayout = "2006-01-02T15:04:05.000000"
const timePointSecLayout = "2006-01-02T15:04:05"
const blockTimestampLayout = "2006-01-02T15:04:05.000"

type timePointCodec struct{}

func (timePointCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(8)
	if err != nil {
		return badData(ctx, "time_point", "truncated")
	}
	us := int64(binary.LittleEndian.Uint64(b))
	t := time.Unix(0, us*int64(time.Microsecond)).UTC()
	w.StringValue(t.Format(timePointLayout))
	return nil
}

func (timePointCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	t, parseErr := time.Parse(timePointLayout, s)
	if parseErr != nil {
		t, parseErr = time.Parse(time.RFC3339, s)
	}
	if parseErr != nil {
		return newErr(ctx, ErrBadData, abimsgs.MsgInvalidTimeFormat, s, "time_point")
	}
	us := t.UnixMicro()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(us))
	w.Write(b[:])
	return nil
}

type timePointSecCodec struct{}

func (timePointSecCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(4)
	if err != nil {
		return badData(ctx, "time_point_sec", "truncated")
	}
	secs := binary.LittleEndian.Uint32(b)
	t := time.Unix(int64(secs), 0).UTC()
	w.StringValue(t.Format(timePointSecLayout))
	return nil
}

func (timePointSecCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	t, parseErr := time.Parse(timePointSecLayout, s)
	if parseErr != nil {
		t, parseErr = time.Parse(time.RFC3339, s)
	}
	if parseErr != nil {
		return newErr(ctx, ErrBadData, abimsgs.MsgInvalidTimeFormat, s, "time_point_sec")
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(t.Unix()))
	w.Write(b[:])
	return nil
}

type blockTimestampCodec struct{}

func (blockTimestampCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	b, err := r.readBytes(4)
	if err != nil {
		return badData(ctx, "block_timestamp", "truncated")
	}
	slot := binary.LittleEndian.Uint32(b)
	t := blockTimestampEpoch.Add(time.Duration(slot) * 500 * time.Millisecond)
	w.StringValue(t.Format(blockTimestampLayout))
	return nil
}

func (blockTimestampCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	t, parseErr := time.Parse(blockTimestampLayout, s)
	if parseErr != nil {
		t, parseErr = time.Parse(time.RFC3339, s)
	}
	if parseErr != nil {
		return newErr(ctx, ErrBadData, abimsgs.MsgInvalidTimeFormat, s, "block_timestamp")
	}
	slot := uint32(t.Sub(blockTimestampEpoch) / (500 * time.Millisecond))
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], slot)
	w.Write(b[:])
	return nil
}
