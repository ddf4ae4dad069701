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

package abikeys

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHexKey(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestPublicKeyK1RoundTrip(t *testing.T) {
	ctx := context.Background()
	priv := mustHexKey(t, "16bcff85713d9dfe177d18974ead013dad59ed9dfdaaf819c4a123e52ff313c8")
	pubBytes, err := PublicKeyFromPrivate(CurveK1, priv)
	require.NoError(t, err)

	pub := &PublicKey{Curve: CurveK1, Payload: pubBytes}
	tagged := pub.String()
	assert.Regexp(t, "^PUB_K1_", tagged)

	parsed, err := ParsePublicKey(ctx, tagged)
	require.NoError(t, err)
	assert.Equal(t, CurveK1, parsed.Curve)
	assert.Equal(t, pubBytes, parsed.Payload)
}

func TestPublicKeyLegacyRoundTrip(t *testing.T) {
	ctx := context.Background()
	priv := mustHexKey(t, "16bcff85713d9dfe177d18974ead013dad59ed9dfdaaf819c4a123e52ff313c8")
	pubBytes, err := PublicKeyFromPrivate(CurveK1, priv)
	require.NoError(t, err)

	pub := &PublicKey{Curve: CurveK1, Payload: pubBytes}
	legacy := pub.StringLegacy()
	assert.Regexp(t, "^EOS", legacy)

	parsed, err := ParsePublicKey(ctx, legacy)
	require.NoError(t, err)
	assert.Equal(t, CurveK1, parsed.Curve)
	assert.Equal(t, pubBytes, parsed.Payload)
}

func TestPrivateKeyRoundTrip(t *testing.T) {
	ctx := context.Background()
	priv := mustHexKey(t, "16bcff85713d9dfe177d18974ead013dad59ed9dfdaaf819c4a123e52ff313c8")

	k := &PrivateKey{Curve: CurveK1, Payload: priv}
	tagged := k.String()
	assert.Regexp(t, "^PVT_K1_", tagged)

	parsed, err := ParsePrivateKey(ctx, tagged)
	require.NoError(t, err)
	assert.Equal(t, CurveK1, parsed.Curve)
	assert.Equal(t, priv, parsed.Payload)
}

func TestPublicKeyR1RoundTrip(t *testing.T) {
	ctx := context.Background()
	priv := mustHexKey(t, "aa26d11accecdf2caee634585f4cd128da7b18a8e6d488da86f68857b52e6f1c")
	pubBytes, err := PublicKeyFromPrivate(CurveR1, priv)
	require.NoError(t, err)

	pub := &PublicKey{Curve: CurveR1, Payload: pubBytes}
	tagged := pub.String()
	assert.Regexp(t, "^PUB_R1_", tagged)

	parsed, err := ParsePublicKey(ctx, tagged)
	require.NoError(t, err)
	assert.Equal(t, CurveR1, parsed.Curve)
	assert.Equal(t, pubBytes, parsed.Payload)
}

func TestSignatureRoundTrip(t *testing.T) {
	ctx := context.Background()
	payload := make([]byte, 65)
	for i := range payload {
		payload[i] = byte(i)
	}
	sig := &Signature{Curve: CurveK1, Payload: payload}
	tagged := sig.String()
	assert.Regexp(t, "^SIG_K1_", tagged)

	parsed, err := ParseSignature(ctx, tagged)
	require.NoError(t, err)
	assert.Equal(t, CurveK1, parsed.Curve)
	assert.Equal(t, payload, parsed.Payload)
}

func TestParsePublicKeyBadChecksum(t *testing.T) {
	ctx := context.Background()
	priv := mustHexKey(t, "16bcff85713d9dfe177d18974ead013dad59ed9dfdaaf819c4a123e52ff313c8")
	pubBytes, err := PublicKeyFromPrivate(CurveK1, priv)
	require.NoError(t, err)
	pub := &PublicKey{Curve: CurveK1, Payload: pubBytes}
	tagged := pub.String()

	last := tagged[len(tagged)-1]
	replacement := byte('a')
	if last == 'a' {
		replacement = 'b'
	}
	corrupted := tagged[:len(tagged)-1] + string(replacement)
	_, err = ParsePublicKey(ctx, corrupted)
	assert.Error(t, err)
}

func TestParsePublicKeyBadPrefix(t *testing.T) {
	ctx := context.Background()
	_, err := ParsePublicKey(ctx, "NOTAKEY_K1_abc")
	assert.Regexp(t, "FF23039", err)
}
