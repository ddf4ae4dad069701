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

// Package abikeys implements the curve-tagged, base58check text form of the
// EOSIO public_key / private_key / signature wire types: K1 backed by
// btcsuite's secp256k1 implementation (the same curve library the teacher
// module uses for its own key pairs), R1 backed by the standard library's
// P-256 implementation, and WA (WebAuthn) carried as an opaque payload.
package abikeys

import (
	"context"
	"crypto/elliptic"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/hyperledger/firefly-abi/internal/abimsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for EOSIO base58check, no drop-in replacement
)

// Curve identifies the elliptic curve tag carried in the first byte of a
// public_key/private_key/signature wire payload.
type Curve byte

const (
	CurveK1 Curve = 0
	CurveR1 Curve = 1
	CurveWA Curve = 2
)

func (c Curve) tag() string {
	switch c {
	case CurveK1:
		return "K1"
	case CurveR1:
		return "R1"
	case CurveWA:
		return "WA"
	default:
		return ""
	}
}

func curveFromTag(tag string) (Curve, bool) {
	switch tag {
	case "K1":
		return CurveK1, true
	case "R1":
		return CurveR1, true
	case "WA":
		return CurveWA, true
	default:
		return 0, false
	}
}

// PublicKey is a curve-tagged public key payload.
type PublicKey struct {
	Curve   Curve
	Payload []byte // 33-byte compressed point for K1/R1, variable for WA
}

// PrivateKey is a curve-tagged private key payload (32 bytes for K1/R1).
type PrivateKey struct {
	Curve   Curve
	Payload []byte
}

// Signature is a curve-tagged signature payload (65 bytes for K1/R1).
type Signature struct {
	Curve   Curve
	Payload []byte
}

func ripemd160Sum(parts ...[]byte) []byte {
	h := ripemd160.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func checksum4(payload []byte, tag string, legacy bool) []byte {
	var sum []byte
	if legacy {
		sum = ripemd160Sum(payload)
	} else {
		sum = ripemd160Sum(payload, []byte(tag))
	}
	return sum[:4]
}

func encodeBase58Check(prefix string, curve Curve, payload []byte, legacy bool) string {
	cs := checksum4(payload, curve.tag(), legacy)
	body := append(append([]byte{}, payload...), cs...)
	if legacy {
		return "EOS" + base58.Encode(body)
	}
	return fmt.Sprintf("%s%s_%s", prefix, curve.tag(), base58.Encode(body))
}

func decodeBase58Check(ctx context.Context, s, expectedPrefix string) (Curve, []byte, error) {
	if len(s) > 3 && s[:3] == "EOS" && !isTaggedForm(s, expectedPrefix) {
		raw := base58.Decode(s[3:])
		if len(raw) < 5 {
			return 0, nil, badKey(ctx, s)
		}
		payload, cs := raw[:len(raw)-4], raw[len(raw)-4:]
		want := checksum4(payload, "", true)
		if !bytesEqual(cs, want) {
			return 0, nil, i18n.NewError(ctx, abimsgs.MsgInvalidKeyChecksum, s)
		}
		return CurveK1, payload, nil
	}
	// tagged form: "<PREFIX>_<TAG>_<base58>"
	if len(s) < len(expectedPrefix)+4 || s[:len(expectedPrefix)] != expectedPrefix {
		return 0, nil, i18n.NewError(ctx, abimsgs.MsgInvalidKeyPrefix, s)
	}
	rest := s[len(expectedPrefix):]
	if len(rest) < 3 || rest[2] != '_' {
		return 0, nil, i18n.NewError(ctx, abimsgs.MsgInvalidKeyPrefix, s)
	}
	tag, b58 := rest[:2], rest[3:]
	curve, ok := curveFromTag(tag)
	if !ok {
		return 0, nil, i18n.NewError(ctx, abimsgs.MsgInvalidKeyPrefix, s)
	}
	raw := base58.Decode(b58)
	if len(raw) < 5 {
		return 0, nil, badKey(ctx, s)
	}
	payload, cs := raw[:len(raw)-4], raw[len(raw)-4:]
	want := checksum4(payload, tag, false)
	if !bytesEqual(cs, want) {
		return 0, nil, i18n.NewError(ctx, abimsgs.MsgInvalidKeyChecksum, s)
	}
	return curve, payload, nil
}

func isTaggedForm(s, expectedPrefix string) bool {
	return len(s) >= len(expectedPrefix) && s[:len(expectedPrefix)] == expectedPrefix
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func badKey(ctx context.Context, s string) error {
	return i18n.NewError(ctx, abimsgs.MsgInvalidKeyPrefix, s)
}

// ParsePublicKey accepts either the legacy "EOS..." K1 form or the tagged
// "PUB_<curve>_..." form.
func ParsePublicKey(ctx context.Context, s string) (*PublicKey, error) {
	curve, payload, err := decodeBase58Check(ctx, s, "PUB_")
	if err != nil {
		return nil, err
	}
	return &PublicKey{Curve: curve, Payload: payload}, nil
}

// String renders the tagged "PUB_<curve>_..." text form. Use StringLegacy
// for the legacy "EOS..." K1 form.
func (k *PublicKey) String() string {
	return encodeBase58Check("PUB_", k.Curve, k.Payload, false)
}

// StringLegacy renders the legacy "EOS..." form, valid only for K1 keys.
func (k *PublicKey) StringLegacy() string {
	return encodeBase58Check("", CurveK1, k.Payload, true)
}

func ParsePrivateKey(ctx context.Context, s string) (*PrivateKey, error) {
	curve, payload, err := decodeBase58Check(ctx, s, "PVT_")
	if err != nil {
		return nil, err
	}
	return &PrivateKey{Curve: curve, Payload: payload}, nil
}

func (k *PrivateKey) String() string {
	return encodeBase58Check("PVT_", k.Curve, k.Payload, false)
}

func ParseSignature(ctx context.Context, s string) (*Signature, error) {
	curve, payload, err := decodeBase58Check(ctx, s, "SIG_")
	if err != nil {
		return nil, err
	}
	return &Signature{Curve: curve, Payload: payload}, nil
}

func (k *Signature) String() string {
	return encodeBase58Check("SIG_", k.Curve, k.Payload, false)
}

// PublicKeyFromPrivate derives the compressed public key point for a K1 or
// R1 private key, using btcec for K1 and crypto/elliptic's P-256 for R1.
func PublicKeyFromPrivate(curve Curve, priv []byte) ([]byte, error) {
	switch curve {
	case CurveK1:
		_, pub := btcec.PrivKeyFromBytes(priv)
		return pub.SerializeCompressed(), nil
	case CurveR1:
		c := elliptic.P256()
		x, y := c.ScalarBaseMult(priv)
		return elliptic.MarshalCompressed(c, x, y), nil
	default:
		return nil, fmt.Errorf("public key derivation is not supported for curve %s", curve.tag())
	}
}
