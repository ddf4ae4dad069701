// Copyright © 2022 Kaleido, Inc.
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

import "github.com/hyperledger/firefly-common/pkg/i18n"

var ffe = i18n.FFE

//revive:disable
var (
	// Type graph construction (abi_def -> abi)
	MsgUnknownType           = ffe("FF23001", "Unknown type '%s'")
	MsgMissingName           = ffe("FF23002", "Missing name on %s")
	MsgRedefinedType         = ffe("FF23003", "Type '%s' is defined more than once")
	MsgBaseNotAStruct        = ffe("FF23004", "Base type '%s' of struct '%s' is not a struct")
	MsgInvalidNesting        = ffe("FF23005", "Type '%s' may not directly contain '%s'")
	MsgExtensionTypedef      = ffe("FF23006", "'$' extension suffix is not allowed on '%s'")
	MsgRecursionLimit        = ffe("FF23007", "Recursion limit of %d exceeded while processing '%s'")
	MsgBadABI                = ffe("FF23008", "Malformed ABI document: %s")
	MsgAliasCycle            = ffe("FF23009", "Alias cycle detected involving type '%s'")
	MsgReservedComposite     = ffe("FF23010", "'%s' cannot be used as a declared type name - it would be ambiguous with the %s suffix grammar")
	MsgDuplicateExtensions   = ffe("FF23011", "Duplicate ABI extension tag %d")

	// Scalar / composite wire codec
	MsgBadData                 = ffe("FF23020", "Malformed data for type '%s': %s")
	MsgTruncatedInput          = ffe("FF23021", "Unexpected end of input decoding '%s' (need %d more byte(s), have %d)")
	MsgIntegerOutOfRange       = ffe("FF23022", "Integer value out of range for type '%s': %s")
	MsgInvalidNameString       = ffe("FF23023", "'%s' is not a valid name - must be at most 13 base-32 characters from '.12345abcdefghijklmnopqrstuvwxyz'")
	MsgInvalidNameSuffixChar   = ffe("FF23024", "'%s' is not a valid name - 13th character must be one of the first 16 symbols of the name alphabet")
	MsgInvalidTimeFormat       = ffe("FF23025", "'%s' is not a valid %s - expected ISO-8601 UTC timestamp")
	MsgInvalidOptionalTag      = ffe("FF23026", "Invalid optional presence byte 0x%02x - must be 0x00 or 0x01")
	MsgInvalidVariantTag       = ffe("FF23027", "Variant tag %d is out of range for variant '%s' with %d alternative(s)")
	MsgUnknownVariantAlt       = ffe("FF23028", "'%s' is not a known alternative of variant '%s'")
	MsgSizedArrayLengthMismatch = ffe("FF23029", "Expected exactly %d element(s) for '%s', got %d")
	MsgOutOfOrderField         = ffe("FF23030", "Field '%s' arrived out of declaration order in struct '%s' (expected '%s')")
	MsgUnknownField            = ffe("FF23031", "Unknown field '%s' in struct '%s'")
	MsgMissingField            = ffe("FF23032", "Missing required field '%s' in struct '%s'")
	MsgExtensionAfterGap       = ffe("FF23033", "Extension field '%s' is present but an earlier extension field in struct '%s' was absent")
	MsgInvalidAssetPrecision   = ffe("FF23034", "Asset/symbol precision %d is out of range (0-18)")
	MsgInvalidSymbolCode       = ffe("FF23035", "'%s' is not a valid symbol code - must be 1-7 uppercase ASCII letters")
	MsgInvalidAssetString      = ffe("FF23036", "'%s' is not a valid asset string")
	MsgInvalidChecksumLength   = ffe("FF23037", "'%s' is not a valid %d-byte checksum hex string")
	MsgInvalidKeyChecksum      = ffe("FF23038", "Base58check checksum mismatch decoding %s")
	MsgInvalidKeyPrefix        = ffe("FF23039", "Unrecognized key/signature prefix in '%s'")
	MsgUnknownCurveID          = ffe("FF23040", "Unknown elliptic curve id %d")
	MsgInvalidBytesHex         = ffe("FF23041", "'%s' is not a valid hex string")
	MsgWrongJSONType           = ffe("FF23042", "Expected JSON %s for type '%s', got %s")
	MsgJSONParse               = ffe("FF23043", "Failed to parse JSON: %s")
	MsgDepthExceeded           = ffe("FF23044", "JSON nesting depth exceeded processing '%s'")

	// ABI lookups
	MsgUnknownAction   = ffe("FF23050", "Action '%s' is not defined in the ABI")
	MsgUnknownTable    = ffe("FF23051", "Table '%s' is not defined in the ABI")
	MsgUnknownKVTable  = ffe("FF23052", "KV table '%s' is not defined in the ABI")

	// Reflection source
	MsgInvalidReflectedField = ffe("FF23060", "Invalid reflected field '%s' on type '%s': %s")
	MsgReflectedTypeExists   = ffe("FF23061", "Type '%s' is already registered")

	// Registry / server / client / CLI (ambient & domain stack)
	MsgRegistryReadDir      = ffe("FF23070", "Failed to list ABI directory '%s'")
	MsgRegistryLoadFailed   = ffe("FF23071", "Failed to load ABI for account '%s' from '%s'")
	MsgRegistryNotFound     = ffe("FF23072", "No ABI registered for account '%s'")
	MsgChainRequestFailed   = ffe("FF23073", "Request to chain endpoint failed: %s")
	MsgChainBadResponse     = ffe("FF23074", "Unexpected response from chain endpoint fetching ABI for '%s'")
	MsgServerBadRequest     = ffe("FF23075", "Invalid request: %s")
	MsgServerInternalError  = ffe("FF23076", "Internal error: %s")
	MsgConfigFailed         = ffe("FF23077", "Failed to read configuration: %s")
)
