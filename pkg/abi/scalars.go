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
)

// scalarCodec is implemented by every builtin leaf type. Composite nodes
// never implement it directly; composite.go dispatches on NodeKind instead.
type scalarCodec interface {
	// binToJSON reads the wire encoding from r and writes its JSON
	// rendering to w.
	binToJSON(ctx context.Context, r *binReader, w *jsonWriter) error
	// jsonToBin reads one JSON value from r and appends its wire encoding
	// to w.
	jsonToBin(ctx context.Context, r *jsonReader, w *bytes.Buffer) error
}

// builtinScalars is populated by init() in the scalar-family source files.
var builtinScalars = map[string]scalarCodec{}

func registerScalar(name string, c scalarCodec) {
	builtinScalars[name] = c
}
