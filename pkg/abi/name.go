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
	"strings"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

const nameAlphabet = ".12345abcdefghijklmnopqrstuvwxyz"

// NameToString converts a packed 64-bit name value to its base-32 textual
// form, right-trimmed of the padding character '.'.
func NameToString(v uint64) string {
	chars := make([]byte, 13)
	tmp := v
	for i := 12; i >= 0; i-- {
		var idx uint64
		if i == 12 {
			idx = tmp & 0x0f
		} else {
			idx = tmp & 0x1f
		}
		chars[i] = nameAlphabet[idx]
		if i == 12 {
			tmp >>= 4
		} else {
			tmp >>= 5
		}
	}
	s := string(chars)
	return strings.TrimRight(s, ".")
}

// NameFromString parses the base-32 textual form of a name into its packed
// 64-bit representation. It fails with bad_data if the string is longer
// than 13 characters, contains characters outside the alphabet, or has a
// 13th character outside the first 16 symbols of the alphabet.
func NameFromString(ctx context.Context, s string) (uint64, error) {
	if len(s) > 13 {
		return 0, newErr(ctx, ErrBadData, abimsgs.MsgInvalidNameString, s)
	}
	var v uint64
	for i := 0; i < 13; i++ {
		var c byte
		if i < len(s) {
			c = s[i]
		} else {
			c = '.'
		}
		idx := strings.IndexByte(nameAlphabet, c)
		if idx < 0 {
			return 0, newErr(ctx, ErrBadData, abimsgs.MsgInvalidNameString, s)
		}
		if i == 12 {
			if idx > 0x0f {
				return 0, newErr(ctx, ErrBadData, abimsgs.MsgInvalidNameSuffixChar, s)
			}
			v |= uint64(idx)
		} else {
			shift := uint(64 - 5*(i+1))
			v |= uint64(idx) << shift
		}
	}
	return v, nil
}
