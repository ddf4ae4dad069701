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
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestNameCodecS1(t *testing.T) {
	v, err := NameFromString(context.Background(), "eosio.token")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x5530ea0000000000), v)
	assert.Equal(t, "eosio.token", NameToString(v))
}

func TestScalarUint8S2(t *testing.T) {
	ctx := context.Background()
	abiDef := &ABIDef{Version: "eosio::abi/1.3"}
	a, err := Build(ctx, abiDef)
	require.NoError(t, err)

	bin, err := a.JSONToBin(ctx, "uint8", []byte("42"))
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "2a"), bin)

	j, err := a.BinToJSON(ctx, "uint8", mustHex(t, "2a"))
	require.NoError(t, err)
	assert.Equal(t, "42", string(j))
}

func simpleStructABI(t *testing.T) *ABI {
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Structs: []StructDef{
			{Name: "mystruct", Fields: []FieldDef{
				{Name: "a", Type: "uint32"},
				{Name: "b", Type: "string"},
			}},
		},
	}
	a, err := Build(context.Background(), def)
	require.NoError(t, err)
	return a
}

func TestStructRoundTripS3(t *testing.T) {
	ctx := context.Background()
	a := simpleStructABI(t)

	bin, err := a.JSONToBin(ctx, "mystruct", []byte(`{"a":1,"b":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "01000000026869"), bin)

	j, err := a.BinToJSON(ctx, "mystruct", bin)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":"hi"}`, string(j))
}

func TestReorderableEquivalenceS2(t *testing.T) {
	ctx := context.Background()
	a := simpleStructABI(t)

	strictBin, err := a.JSONToBin(ctx, "mystruct", []byte(`{"a":1,"b":"hi"}`))
	require.NoError(t, err)

	reorderedBin, err := a.JSONToBinReorderable(ctx, "mystruct", []byte(`{"b":"hi","a":1}`))
	require.NoError(t, err)

	assert.Equal(t, strictBin, reorderedBin)

	_, err = a.JSONToBin(ctx, "mystruct", []byte(`{"b":"hi","a":1}`))
	assert.Error(t, err)
	assert.Equal(t, ErrBadData, KindOf(err))
}

func TestVariantRoundTripS4(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Variants: []VariantDef{
			{Name: "myvariant", Types: []string{"first", "second"}},
		},
		Types: []TypeDef{
			{NewTypeName: "first", Type: "uint8"},
			{NewTypeName: "second", Type: "uint32"},
		},
	}
	a, err := Build(ctx, def)
	require.NoError(t, err)

	bin, err := a.JSONToBin(ctx, "myvariant", []byte(`["second",7]`))
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "0107000000"), bin)

	j, err := a.BinToJSON(ctx, "myvariant", bin)
	require.NoError(t, err)
	assert.JSONEq(t, `["second",7]`, string(j))
}

func TestOptionalRoundTripS5(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{Version: "eosio::abi/1.3"}
	a, err := Build(ctx, def)
	require.NoError(t, err)

	absent, err := a.JSONToBin(ctx, "uint16?", []byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "00"), absent)

	present, err := a.JSONToBin(ctx, "uint16?", []byte(`5`))
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "010500"), present)

	j, err := a.BinToJSON(ctx, "uint16?", absent)
	require.NoError(t, err)
	assert.Equal(t, "null", string(j))

	j, err = a.BinToJSON(ctx, "uint16?", present)
	require.NoError(t, err)
	assert.Equal(t, "5", string(j))
}

func kvTestABI(t *testing.T) *ABI {
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Structs: []StructDef{
			{Name: "my_struct", Fields: []FieldDef{
				{Name: "primary_key", Type: "name"},
				{Name: "note", Type: "string"},
			}},
		},
		KVTables: map[string]KVTableDef{
			"testtable": {
				Type:         "my_struct",
				PrimaryIndex: KVTableIndexDef{Name: "primary", Type: "name"},
				SecondaryIndices: map[string]KVTableIndexDef{
					"note": {Name: "note", Type: "string"},
				},
			},
		},
	}
	a, err := Build(context.Background(), def)
	require.NoError(t, err)
	return a
}

func TestKVPrimaryIndexToJSONS6(t *testing.T) {
	ctx := context.Background()
	a := kvTestABI(t)

	tableName, err := NameFromString(ctx, "testtable")
	require.NoError(t, err)
	primaryName, err := NameFromString(ctx, "primary")
	require.NoError(t, err)

	key := KeyTuple(KeyUint(1, 1), KeyName(tableName), KeyName(primaryName), KeyString("test"))

	value, err := a.JSONToBin(ctx, "my_struct", []byte(`{"primary_key":"taurus","note":"note"}`))
	require.NoError(t, err)

	result, err := a.KVPrimaryIndexToJSON(ctx, key, value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"primary_key":"taurus","note":"note"}`, result)
}

func TestKVPrimaryIndexToJSONS7(t *testing.T) {
	ctx := context.Background()
	a := kvTestABI(t)

	tableName, err := NameFromString(ctx, "testtable")
	require.NoError(t, err)
	noteIndexName, err := NameFromString(ctx, "note")
	require.NoError(t, err)

	key := KeyTuple(KeyUint(1, 1), KeyName(tableName), KeyName(noteIndexName), KeyString("test"))
	value, err := a.JSONToBin(ctx, "my_struct", []byte(`{"primary_key":"taurus","note":"note"}`))
	require.NoError(t, err)

	result, err := a.KVPrimaryIndexToJSON(ctx, key, value)
	require.NoError(t, err)
	assert.Equal(t, "", result)
}

func TestRecursionCap(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Structs: []StructDef{
			{Name: "node", Fields: []FieldDef{
				{Name: "children", Type: "node[]"},
			}},
		},
	}
	a, err := Build(ctx, def, WithMaxDepth(3))
	require.NoError(t, err)

	deeplyNested := []byte(`{"children":[{"children":[{"children":[{"children":[]}]}]}]}`)
	_, err = a.JSONToBin(ctx, "node", deeplyNested)
	require.Error(t, err)
	assert.Equal(t, ErrRecursionLimit, KindOf(err))
}

func TestInvalidNesting(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Types: []TypeDef{
			{NewTypeName: "bad", Type: "uint32?[]"},
		},
	}
	_, err := Build(ctx, def)
	require.Error(t, err)
	assert.Equal(t, ErrInvalidNesting, KindOf(err))
}

func TestRedefinedType(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Structs: []StructDef{
			{Name: "dup"},
		},
		Variants: []VariantDef{
			{Name: "dup"},
		},
	}
	_, err := Build(ctx, def)
	require.Error(t, err)
	assert.Equal(t, ErrRedefinedType, KindOf(err))
}

func TestExtensionNotLastAcrossInheritance(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Structs: []StructDef{
			{Name: "base", Fields: []FieldDef{
				{Name: "x", Type: "uint32"},
				{Name: "y", Type: "string$"},
			}},
			{Name: "derived", Base: "base", Fields: []FieldDef{
				{Name: "z", Type: "uint32"},
			}},
		},
	}
	_, err := Build(ctx, def)
	require.Error(t, err)
	assert.Equal(t, ErrExtensionTypedef, KindOf(err))
}

func TestBaseNotAStruct(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Structs: []StructDef{
			{Name: "child", Base: "uint32"},
		},
	}
	_, err := Build(ctx, def)
	require.Error(t, err)
	assert.Equal(t, ErrBaseNotAStruct, KindOf(err))
}

func TestABIDefBinaryRoundTrip(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Structs: []StructDef{
			{Name: "mystruct", Fields: []FieldDef{{Name: "a", Type: "uint32"}}},
		},
		Actions: []ActionDef{{Name: "doit", Type: "mystruct"}},
	}
	bin, err := def.EncodeBinary(ctx)
	require.NoError(t, err)

	decoded, err := DecodeABIDefBinary(ctx, bin)
	require.NoError(t, err)
	assert.Equal(t, def.Version, decoded.Version)
	assert.Equal(t, def.Structs, decoded.Structs)
	assert.Equal(t, def.Actions, decoded.Actions)
}

func TestExtensionTailStability(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		Structs: []StructDef{
			{Name: "v1", Fields: []FieldDef{{Name: "a", Type: "uint32"}}},
			{Name: "v2", Fields: []FieldDef{
				{Name: "a", Type: "uint32"},
				{Name: "b", Type: "string$"},
			}},
		},
	}
	a, err := Build(ctx, def)
	require.NoError(t, err)

	oldBin, err := a.JSONToBin(ctx, "v1", []byte(`{"a":1}`))
	require.NoError(t, err)

	j, err := a.BinToJSON(ctx, "v2", oldBin)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":""}`, string(j))

	reencoded, err := a.JSONToBin(ctx, "v2", j)
	require.NoError(t, err)
	assert.Equal(t, oldBin, reencoded)

	reencodedReorderable, err := a.JSONToBinReorderable(ctx, "v2", j)
	require.NoError(t, err)
	assert.Equal(t, oldBin, reencodedReorderable)
}

func TestABIDefBinaryRoundTripMixedTailFields(t *testing.T) {
	ctx := context.Background()
	def := &ABIDef{
		Version: "eosio::abi/1.3",
		KVTables: map[string]KVTableDef{
			"mytable": {
				Type:             "mystruct",
				PrimaryIndex:     KVTableIndexDef{Name: "id", Type: "uint64"},
				SecondaryIndices: map[string]KVTableIndexDef{},
			},
		},
	}
	bin, err := def.EncodeBinary(ctx)
	require.NoError(t, err)

	decoded, err := DecodeABIDefBinary(ctx, bin)
	require.NoError(t, err)
	assert.Empty(t, decoded.Variants)
	assert.Empty(t, decoded.ActionResults)
	assert.Equal(t, def.KVTables, decoded.KVTables)
}
