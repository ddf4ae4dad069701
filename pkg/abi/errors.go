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
	"errors"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// ErrorKind classifies a failure raised by the type graph builder or the
// codec, so callers can branch on the kind without string matching.
type ErrorKind string

const (
	ErrUnknownType         ErrorKind = "unknown_type"
	ErrMissingName         ErrorKind = "missing_name"
	ErrRedefinedType       ErrorKind = "redefined_type"
	ErrBaseNotAStruct      ErrorKind = "base_not_a_struct"
	ErrInvalidNesting      ErrorKind = "invalid_nesting"
	ErrExtensionTypedef    ErrorKind = "extension_typedef"
	ErrRecursionLimit      ErrorKind = "recursion_limit_reached"
	ErrBadABI              ErrorKind = "bad_abi"
	ErrBadData             ErrorKind = "bad_data"
)

// Error wraps an i18n-translated message with a stable ErrorKind so that
// code such as the HTTP facade can map failures to the right status without
// parsing strings.
type Error struct {
	Kind ErrorKind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

// KindOf returns the ErrorKind carried by err, or "" if err was not raised
// by this package.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newErr(ctx context.Context, kind ErrorKind, msg i18n.MessageKey, args ...interface{}) error {
	return &Error{Kind: kind, err: i18n.NewError(ctx, msg, args...)}
}

func wrapErr(ctx context.Context, kind ErrorKind, err error, msg i18n.MessageKey, args ...interface{}) error {
	return &Error{Kind: kind, err: i18n.WrapError(ctx, err, msg, args...)}
}

func badData(ctx context.Context, typeName, detail string) error {
	return newErr(ctx, ErrBadData, abimsgs.MsgBadData, typeName, detail)
}
