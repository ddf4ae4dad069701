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
	"strconv"
	"strings"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

// NodeKind tags the eight shapes a resolved ABI type can take.
type NodeKind int

const (
	KindBuiltin NodeKind = iota
	KindAlias
	KindOptional
	KindExtension
	KindArray
	KindSizedArray
	KindStruct
	KindVariant
)

// Node is a resolved entry of the type graph. Exactly one of the kind-
// specific fields is meaningful, selected by Kind.
type Node struct {
	Kind NodeKind
	Name string // canonical textual form

	// KindBuiltin
	Scalar scalarCodec

	// KindAlias
	Target *Node

	// KindOptional, KindExtension, KindArray, KindSizedArray
	Elem *Node
	Size uint32 // KindSizedArray only

	// KindStruct
	Base   *Node
	Fields []FieldNode

	// KindVariant
	Alternatives []FieldNode
}

// FieldNode is a named, resolved struct field or variant alternative.
type FieldNode struct {
	Name string
	Type *Node
}

// AllFields returns the struct's fields, base fields first, recursively.
func (n *Node) AllFields() []FieldNode {
	if n.Kind != KindStruct {
		return nil
	}
	var fields []FieldNode
	if n.Base != nil {
		fields = append(fields, n.Base.AllFields()...)
	}
	return append(fields, n.Fields...)
}

// resolvedBase skips through alias nodes.
func (n *Node) resolvedBase() *Node {
	for n.Kind == KindAlias {
		n = n.Target
	}
	return n
}

func (n *Node) isOptionalArrayOrExtension() bool {
	switch n.resolvedBase().Kind {
	case KindOptional, KindArray, KindSizedArray, KindExtension:
		return true
	default:
		return false
	}
}

// typeGraph tracks the full set of resolved nodes by canonical name while
// an abi is being built, and the in-progress set of names being resolved
// (used to detect alias cycles).
type typeGraph struct {
	nodes        map[string]*Node
	resolving    map[string]bool
	aliasTargets map[string]string
	maxDepth     int
}

func newTypeGraph(maxDepth int) *typeGraph {
	g := &typeGraph{
		nodes:        map[string]*Node{},
		resolving:    map[string]bool{},
		aliasTargets: map[string]string{},
		maxDepth:     maxDepth,
	}
	for name, codec := range builtinScalars {
		g.nodes[name] = &Node{Kind: KindBuiltin, Name: name, Scalar: codec}
	}
	return g
}

// hasComposeSuffix reports whether name ends in one of the suffix-grammar
// tokens, making it illegal as a declared type/struct/variant name.
func hasComposeSuffix(name string) bool {
	if strings.HasSuffix(name, "?") || strings.HasSuffix(name, "$") {
		return true
	}
	if strings.HasSuffix(name, "[]") {
		return true
	}
	if strings.HasSuffix(name, "]") {
		if idx := strings.LastIndexByte(name, '['); idx >= 0 {
			if _, err := strconv.Atoi(name[idx+1 : len(name)-1]); err == nil {
				return true
			}
		}
	}
	return false
}

// resolve parses name via the right-to-left suffix grammar (§4.1),
// creating and memoizing composite nodes as needed.
func (g *typeGraph) resolve(ctx context.Context, name string, depth int) (*Node, error) {
	if depth > g.maxDepth {
		return nil, newErr(ctx, ErrRecursionLimit, abimsgs.MsgRecursionLimit, g.maxDepth, name)
	}
	if n, ok := g.nodes[name]; ok {
		return n, nil
	}

	switch {
	case strings.HasSuffix(name, "?"):
		elem, err := g.resolve(ctx, name[:len(name)-1], depth+1)
		if err != nil {
			return nil, err
		}
		if elem.isOptionalArrayOrExtension() {
			return nil, newErr(ctx, ErrInvalidNesting, abimsgs.MsgInvalidNesting, "optional", elem.Name)
		}
		n := &Node{Kind: KindOptional, Name: name, Elem: elem}
		g.nodes[name] = n
		return n, nil

	case strings.HasSuffix(name, "$"):
		elem, err := g.resolve(ctx, name[:len(name)-1], depth+1)
		if err != nil {
			return nil, err
		}
		if elem.isOptionalArrayOrExtension() {
			return nil, newErr(ctx, ErrInvalidNesting, abimsgs.MsgInvalidNesting, "extension", elem.Name)
		}
		n := &Node{Kind: KindExtension, Name: name, Elem: elem}
		g.nodes[name] = n
		return n, nil

	case strings.HasSuffix(name, "[]"):
		elem, err := g.resolve(ctx, name[:len(name)-2], depth+1)
		if err != nil {
			return nil, err
		}
		if elem.isOptionalArrayOrExtension() {
			return nil, newErr(ctx, ErrInvalidNesting, abimsgs.MsgInvalidNesting, "array", elem.Name)
		}
		n := &Node{Kind: KindArray, Name: name, Elem: elem}
		g.nodes[name] = n
		return n, nil

	case strings.HasSuffix(name, "]"):
		if idx := strings.LastIndexByte(name, '['); idx >= 0 {
			if sz, err := strconv.Atoi(name[idx+1 : len(name)-1]); err == nil && sz >= 1 {
				elem, err := g.resolve(ctx, name[:idx], depth+1)
				if err != nil {
					return nil, err
				}
				if elem.isOptionalArrayOrExtension() {
					return nil, newErr(ctx, ErrInvalidNesting, abimsgs.MsgInvalidNesting, "sized_array", elem.Name)
				}
				n := &Node{Kind: KindSizedArray, Name: name, Elem: elem, Size: uint32(sz)}
				g.nodes[name] = n
				return n, nil
			}
		}
	}

	if target, ok := g.aliasTargets[name]; ok {
		if g.resolving[name] {
			return nil, newErr(ctx, ErrBadABI, abimsgs.MsgAliasCycle, name)
		}
		g.resolving[name] = true
		elem, err := g.resolve(ctx, target, depth+1)
		delete(g.resolving, name)
		if err != nil {
			return nil, err
		}
		n := &Node{Kind: KindAlias, Name: name, Target: elem}
		g.nodes[name] = n
		return n, nil
	}

	return nil, newErr(ctx, ErrUnknownType, abimsgs.MsgUnknownType, name)
}
