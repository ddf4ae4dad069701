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

const defaultMaxDepth = 32

// Option configures a Build call.
type Option func(*buildOptions)

type buildOptions struct {
	maxDepth int
}

// WithMaxDepth overrides the default recursion cap of 32, letting callers
// such as the HTTP facade tighten it for untrusted input.
func WithMaxDepth(n int) Option {
	return func(o *buildOptions) { o.maxDepth = n }
}

// Build converts an abi_def document into a validated, immutable runtime
// abi (§4.6's convert(abi_def -> abi) state machine):
// empty -> loading_builtins -> loading_aliases -> loading_structs ->
// loading_variants -> resolving -> ready.
func Build(ctx context.Context, def *ABIDef, opts ...Option) (*ABI, error) {
	o := buildOptions{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	g := newTypeGraph(o.maxDepth) // loading_builtins

	declared := map[string]bool{}
	for name := range builtinScalars {
		declared[name] = true
	}

	// loading_aliases: register declared names and alias targets up front
	// so forward references and self-reference resolve correctly.
	for _, t := range def.Types {
		if t.NewTypeName == "" {
			return nil, newErr(ctx, ErrMissingName, abimsgs.MsgMissingName, "type alias")
		}
		if hasComposeSuffix(t.NewTypeName) {
			return nil, newErr(ctx, ErrBadABI, abimsgs.MsgReservedComposite, t.NewTypeName, "suffix grammar")
		}
		if declared[t.NewTypeName] {
			return nil, newErr(ctx, ErrRedefinedType, abimsgs.MsgRedefinedType, t.NewTypeName)
		}
		if strings.HasSuffix(t.Type, "$") {
			return nil, newErr(ctx, ErrExtensionTypedef, abimsgs.MsgExtensionTypedef, t.NewTypeName)
		}
		declared[t.NewTypeName] = true
		g.aliasTargets[t.NewTypeName] = t.Type
	}

	// loading_structs: placeholder nodes so self- and forward-references
	// through arrays/optionals resolve to stable identity.
	structDefs := make(map[string]*StructDef, len(def.Structs))
	for i := range def.Structs {
		sd := &def.Structs[i]
		if sd.Name == "" {
			return nil, newErr(ctx, ErrMissingName, abimsgs.MsgMissingName, "struct")
		}
		if hasComposeSuffix(sd.Name) {
			return nil, newErr(ctx, ErrBadABI, abimsgs.MsgReservedComposite, sd.Name, "suffix grammar")
		}
		if declared[sd.Name] {
			return nil, newErr(ctx, ErrRedefinedType, abimsgs.MsgRedefinedType, sd.Name)
		}
		declared[sd.Name] = true
		structDefs[sd.Name] = sd
		g.nodes[sd.Name] = &Node{Kind: KindStruct, Name: sd.Name}
	}

	// loading_variants: same placeholder treatment.
	variantDefs := make(map[string]*VariantDef, len(def.Variants))
	for i := range def.Variants {
		vd := &def.Variants[i]
		if vd.Name == "" {
			return nil, newErr(ctx, ErrMissingName, abimsgs.MsgMissingName, "variant")
		}
		if hasComposeSuffix(vd.Name) {
			return nil, newErr(ctx, ErrBadABI, abimsgs.MsgReservedComposite, vd.Name, "suffix grammar")
		}
		if declared[vd.Name] {
			return nil, newErr(ctx, ErrRedefinedType, abimsgs.MsgRedefinedType, vd.Name)
		}
		declared[vd.Name] = true
		variantDefs[vd.Name] = vd
		g.nodes[vd.Name] = &Node{Kind: KindVariant, Name: vd.Name}
	}

	// resolving: force every alias to resolve now so cycles and unknown
	// types surface at build time rather than on first codec use.
	for name := range g.aliasTargets {
		if _, err := g.resolve(ctx, name, 0); err != nil {
			return nil, err
		}
	}

	for name, sd := range structDefs {
		node := g.nodes[name]
		if sd.Base != "" {
			baseNode, err := g.resolve(ctx, sd.Base, 0)
			if err != nil {
				return nil, err
			}
			if baseNode.resolvedBase().Kind != KindStruct {
				return nil, newErr(ctx, ErrBaseNotAStruct, abimsgs.MsgBaseNotAStruct, sd.Base, name)
			}
			node.Base = baseNode
		}
		fields := make([]FieldNode, len(sd.Fields))
		for i, f := range sd.Fields {
			if f.Name == "" {
				return nil, newErr(ctx, ErrMissingName, abimsgs.MsgMissingName, "field of "+name)
			}
			ft, err := g.resolve(ctx, f.Type, 0)
			if err != nil {
				return nil, err
			}
			fields[i] = FieldNode{Name: f.Name, Type: ft}
		}
		node.Fields = fields
	}

	// an extension field may only be the last field of the full inherited
	// chain: a base struct's trailing extension stops being trailing once
	// a derived struct appends fields of its own. Checked over AllFields()
	// in a separate pass since base structs may resolve after derived ones
	// in map iteration order above.
	for name := range structDefs {
		full := g.nodes[name].AllFields()
		for i, f := range full {
			if f.Type.Kind == KindExtension && i != len(full)-1 {
				return nil, newErr(ctx, ErrExtensionTypedef, abimsgs.MsgExtensionTypedef, f.Name)
			}
		}
	}

	for name, vd := range variantDefs {
		node := g.nodes[name]
		alts := make([]FieldNode, len(vd.Types))
		for i, t := range vd.Types {
			alt, err := g.resolve(ctx, t, 0)
			if err != nil {
				return nil, err
			}
			alts[i] = FieldNode{Name: t, Type: alt}
		}
		node.Alternatives = alts
	}

	a := &ABI{
		def:                     def,
		graph:                   g,
		actionTypes:             map[string]string{},
		tableTypes:              map[string]string{},
		actionResultTypes:       map[string]string{},
		kvTables:                map[string]string{},
		kvTableTypes:            map[string]*Node{},
		kvTablePrimaryKeyName:   map[string]string{},
		kvTableSecondaryIndices: map[string]map[string]string{},
		maxDepth:                o.maxDepth,
	}

	for _, act := range def.Actions {
		if act.Name == "" {
			return nil, newErr(ctx, ErrMissingName, abimsgs.MsgMissingName, "action")
		}
		if _, err := g.resolve(ctx, act.Type, 0); err != nil {
			return nil, err
		}
		a.actionTypes[act.Name] = act.Type
	}

	for _, t := range def.Tables {
		if t.Name == "" {
			return nil, newErr(ctx, ErrMissingName, abimsgs.MsgMissingName, "table")
		}
		if _, err := g.resolve(ctx, t.Type, 0); err != nil {
			return nil, err
		}
		a.tableTypes[t.Name] = t.Type
	}

	for _, ar := range def.ActionResults {
		if _, err := g.resolve(ctx, ar.ResultType, 0); err != nil {
			return nil, err
		}
		a.actionResultTypes[ar.Name] = ar.ResultType
	}

	for tableName, kv := range def.KVTables {
		rowNode, err := g.resolve(ctx, kv.Type, 0)
		if err != nil {
			return nil, err
		}
		if _, err := g.resolve(ctx, kv.PrimaryIndex.Type, 0); err != nil {
			return nil, err
		}
		a.kvTables[tableName] = kv.Type
		a.kvTableTypes[tableName] = rowNode
		a.kvTablePrimaryKeyName[tableName] = kv.PrimaryIndex.Name
		secondary := map[string]string{}
		for sname, sidx := range kv.SecondaryIndices {
			if _, err := g.resolve(ctx, sidx.Type, 0); err != nil {
				return nil, err
			}
			secondary[sname] = sidx.Type
		}
		a.kvTableSecondaryIndices[tableName] = secondary
	}

	return a, nil // ready
}
