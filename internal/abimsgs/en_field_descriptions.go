// Copyright © 2023 Kaleido, Inc.
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

package abimsgs

import (
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

var ffm = func(key, translation string) i18n.MessageKey {
	return i18n.FFM(language.AmericanEnglish, key, translation)
}

//revive:disable
var (
	ABIDefVersion          = ffm("ABIDef.version", "The ABI schema version tag, e.g. 'eosio::abi/1.3'")
	ABIDefTypes            = ffm("ABIDef.types", "Type aliases declared by the contract")
	ABIDefStructs          = ffm("ABIDef.structs", "Struct definitions declared by the contract")
	ABIDefActions          = ffm("ABIDef.actions", "Actions exposed by the contract")
	ABIDefTables           = ffm("ABIDef.tables", "Multi-index tables exposed by the contract")
	ABIDefRicardianClauses = ffm("ABIDef.ricardian_clauses", "Opaque ricardian clause text, keyed by id")
	ABIDefErrorMessages    = ffm("ABIDef.error_messages", "Opaque error message text, keyed by error code")
	ABIDefExtensions       = ffm("ABIDef.abi_extensions", "Unknown-tag extension bytes preserved verbatim across round-trips")
	ABIDefVariants         = ffm("ABIDef.variants", "Tagged-union (variant) type definitions")
	ABIDefActionResults    = ffm("ABIDef.action_results", "Result type declared per action")
	ABIDefKVTables         = ffm("ABIDef.kv_tables", "Key-value table definitions, keyed by table name")
	ABIDefProtobufTypes    = ffm("ABIDef.protobuf_types", "Opaque embedded protobuf descriptor set bytes")

	StructDefName   = ffm("StructDef.name", "The declared name of the struct")
	StructDefBase   = ffm("StructDef.base", "The name of the base struct, or empty if none")
	StructDefFields = ffm("StructDef.fields", "Ordered list of (name, type) fields")

	FieldDefName = ffm("FieldDef.name", "The field name")
	FieldDefType = ffm("FieldDef.type", "The field's textual ABI type name")
)
