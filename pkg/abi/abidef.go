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

// FieldDef is one (name, type) pair of a StructDef.
type FieldDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypeDef is a (new_type_name, target_type_name) alias declaration.
type TypeDef struct {
	NewTypeName string `json:"new_type_name"`
	Type        string `json:"type"`
}

// StructDef declares a struct's optional base and ordered field list.
type StructDef struct {
	Name   string     `json:"name"`
	Base   string     `json:"base"`
	Fields []FieldDef `json:"fields"`
}

// ActionDef names a contract entry point and its argument struct.
type ActionDef struct {
	Name              string `json:"name"`
	Type              string `json:"type"`
	RicardianContract string `json:"ricardian_contract"`
}

// TableDef declares a multi-index table.
type TableDef struct {
	Name      string   `json:"name"`
	IndexType string   `json:"index_type"`
	KeyNames  []string `json:"key_names"`
	KeyTypes  []string `json:"key_types"`
	Type      string   `json:"type"`
}

// ClausePair is an opaque (id, body) entry of ricardian_clauses; never
// interpreted by the codec.
type ClausePair struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// ErrorMessageEntry is the (error_code, error_msg) shape error_messages
// actually uses on the wire (distinct field names from ClausePair).
type ErrorMessageEntry struct {
	ErrorCode uint64 `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// ExtensionEntry is one unknown-tag abi_extensions entry, round-tripped
// opaquely.
type ExtensionEntry struct {
	Tag     uint16 `json:"tag"`
	Payload []byte `json:"-"`
}

// VariantDef declares a tagged union's ordered alternative type list.
type VariantDef struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// ActionResultDef declares the result type of an action.
type ActionResultDef struct {
	Name       string `json:"name"`
	ResultType string `json:"result_type"`
}

// KVTableIndexDef is one named index (primary or secondary) of a KV table.
type KVTableIndexDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// KVTableDef declares a key-value table's row type and indices, keyed by
// table name in ABIDef.KVTables.
type KVTableDef struct {
	Type             string                     `json:"type"`
	PrimaryIndex     KVTableIndexDef            `json:"primary_index"`
	SecondaryIndices map[string]KVTableIndexDef `json:"secondary_indices"`
}

// ABIDef is the on-disk/on-wire schema document (§3). The four tail fields
// follow the extension rule: absent at EOF on decode yields the zero
// value; on encode each is written once any later tail field is written,
// so only a trailing run of zero values is ever omitted.
type ABIDef struct {
	Version           string              `json:"version"`
	Types             []TypeDef           `json:"types"`
	Structs           []StructDef         `json:"structs"`
	Actions           []ActionDef         `json:"actions"`
	Tables            []TableDef          `json:"tables"`
	RicardianClauses  []ClausePair        `json:"ricardian_clauses"`
	ErrorMessages     []ErrorMessageEntry `json:"error_messages"`
	Extensions        []ExtensionEntry    `json:"abi_extensions"`
	Variants          []VariantDef        `json:"variants,omitempty"`
	ActionResults     []ActionResultDef   `json:"action_results,omitempty"`
	KVTables          map[string]KVTableDef `json:"kv_tables,omitempty"`
	ProtobufTypes     []byte              `json:"protobuf_types,omitempty"`
}
