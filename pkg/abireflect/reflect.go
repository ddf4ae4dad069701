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

// Package abireflect is the reflection-source collaborator named but not
// implemented by the core codec: it takes the ordered (field name, field
// type name) pairs a host-language record type exposes and turns them into
// an abi.StructDef the type graph builder can consume. It does no reading
// of host-language struct tags or reflection itself - callers own that.
package abireflect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
	"github.com/hyperledger/firefly-abi/pkg/abi"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldDescriptor is one (field_name, field_type_name) pair as reflected
// from a host-language record.
type FieldDescriptor struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

const fieldSchemaDoc = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name", "type"],
		"properties": {
			"name": {"type": "string", "minLength": 1, "pattern": "^[A-Za-z_][A-Za-z0-9_]*$"},
			"type": {"type": "string", "minLength": 1}
		},
		"additionalProperties": false
	}
}`

var fieldSchema = sync.OnceValue(func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("field-descriptor-list.json", bytes.NewReader([]byte(fieldSchemaDoc))); err != nil {
		panic(err)
	}
	return c.MustCompile("field-descriptor-list.json")
})

// Registry accumulates reflected struct descriptors into an abi_def's
// struct list, keyed by type name, rejecting a type name registered twice.
type Registry struct {
	mu      sync.Mutex
	structs map[string]*abi.StructDef
	order   []string
}

// NewRegistry returns an empty reflected-type registry.
func NewRegistry() *Registry {
	return &Registry{structs: map[string]*abi.StructDef{}}
}

// RegisterStruct validates fields against the field-descriptor JSON schema,
// builds an abi.StructDef named typeName, and stores it for later retrieval
// via Structs. base, if non-empty, names an already-registered base type.
func (reg *Registry) RegisterStruct(ctx context.Context, typeName string, fields []FieldDescriptor, base string) (*abi.StructDef, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.structs[typeName]; exists {
		return nil, i18n.NewError(ctx, abimsgs.MsgReflectedTypeExists, typeName)
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, i18n.NewError(ctx, abimsgs.MsgInvalidReflectedField, "", typeName, err.Error())
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, i18n.NewError(ctx, abimsgs.MsgInvalidReflectedField, "", typeName, err.Error())
	}
	if err := fieldSchema().Validate(doc); err != nil {
		return nil, i18n.NewError(ctx, abimsgs.MsgInvalidReflectedField, "", typeName, err.Error())
	}

	seen := make(map[string]bool, len(fields))
	sd := &abi.StructDef{Name: typeName, Base: base}
	sd.Fields = make([]abi.FieldDef, len(fields))
	for i, f := range fields {
		if seen[f.Name] {
			return nil, i18n.NewError(ctx, abimsgs.MsgInvalidReflectedField, f.Name, typeName, fmt.Sprintf("duplicate field name"))
		}
		seen[f.Name] = true
		sd.Fields[i] = abi.FieldDef{Name: f.Name, Type: f.Type}
	}

	reg.structs[typeName] = sd
	reg.order = append(reg.order, typeName)
	return sd, nil
}

// Structs returns the registered struct definitions in registration order,
// ready to be appended to an abi_def.Structs slice before calling abi.Build.
func (reg *Registry) Structs() []abi.StructDef {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]abi.StructDef, len(reg.order))
	for i, name := range reg.order {
		out[i] = *reg.structs[name]
	}
	return out
}
