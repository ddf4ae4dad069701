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
	"github.com/hyperledger/firefly-abi/pkg/abikeys"
)

func init() {
	registerScalar("public_key", publicKeyCodec{})
	registerScalar("private_key", privateKeyCodec{})
	registerScalar("signature", signatureCodec{})
}

func curveFromByte(ctx context.Context, b byte) (abikeys.Curve, error) {
	switch abikeys.Curve(b) {
	case abikeys.CurveK1, abikeys.CurveR1, abikeys.CurveWA:
		return abikeys.Curve(b), nil
	default:
		return 0, newErr(ctx, ErrBadData, abimsgs.MsgUnknownCurveID, int(b))
	}
}

// readCurvePayload reads the 1-byte curve tag followed by a fixed-width
// payload for K1/R1, or a varuint32-length-prefixed payload for WA (whose
// key material is variable length).
func readCurvePayload(ctx context.Context, r *binReader, fixedWidth int) (abikeys.Curve, []byte, error) {
	tagByte, err := r.readByte()
	if err != nil {
		return 0, nil, badData(ctx, "curve payload", "truncated")
	}
	curve, err := curveFromByte(ctx, tagByte)
	if err != nil {
		return 0, nil, err
	}
	if curve == abikeys.CurveWA {
		n, err := readVaruint32(ctx, r)
		if err != nil {
			return 0, nil, err
		}
		b, err := r.readBytes(int(n))
		if err != nil {
			return 0, nil, badData(ctx, "curve payload", "truncated")
		}
		return curve, b, nil
	}
	b, err := r.readBytes(fixedWidth)
	if err != nil {
		return 0, nil, badData(ctx, "curve payload", "truncated")
	}
	return curve, b, nil
}

func writeCurvePayload(w *bytes.Buffer, curve abikeys.Curve, payload []byte) {
	w.WriteByte(byte(curve))
	if curve == abikeys.CurveWA {
		writeVaruint32(w, uint32(len(payload)))
	}
	w.Write(payload)
}

type publicKeyCodec struct{}

func (publicKeyCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	curve, payload, err := readCurvePayload(ctx, r, 33)
	if err != nil {
		return err
	}
	k := &abikeys.PublicKey{Curve: curve, Payload: payload}
	w.StringValue(k.String())
	return nil
}

func (publicKeyCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	k, err := abikeys.ParsePublicKey(ctx, s)
	if err != nil {
		return &Error{Kind: ErrBadData, err: err}
	}
	writeCurvePayload(w, k.Curve, k.Payload)
	return nil
}

type privateKeyCodec struct{}

func (privateKeyCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	curve, payload, err := readCurvePayload(ctx, r, 32)
	if err != nil {
		return err
	}
	k := &abikeys.PrivateKey{Curve: curve, Payload: payload}
	w.StringValue(k.String())
	return nil
}

func (privateKeyCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	k, err := abikeys.ParsePrivateKey(ctx, s)
	if err != nil {
		return &Error{Kind: ErrBadData, err: err}
	}
	writeCurvePayload(w, k.Curve, k.Payload)
	return nil
}

type signatureCodec struct{}

func (signatureCodec) binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error {
	curve, payload, err := readCurvePayload(ctx, r, 65)
	if err != nil {
		return err
	}
	k := &abikeys.Signature{Curve: curve, Payload: payload}
	w.StringValue(k.String())
	return nil
}

func (signatureCodec) jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error {
	s, err := r.readString(ctx)
	if err != nil {
		return err
	}
	k, err := abikeys.ParseSignature(ctx, s)
	if err != nil {
		return &Error{Kind: ErrBadData, err: err}
	}
	writeCurvePayload(w, k.Curve, k.Payload)
	return nil
}
