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
	"encoding/binary"
	"sort"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
)

// abi_def's own bin<->binary codec is hand-written against the same
// primitive helpers (writeVaruint32/readVaruint32/string framing) the
// generic struct/array/optional machinery in composite.go uses, rather
// than bootstrapped through the type graph abi_def itself describes -
// avoiding the circularity of an abi needing an abi to parse its own
// document. The tail fields (variants, action_results, kv_tables,
// protobuf_types) follow extension semantics: absent at EOF on decode,
// and on encode omitted only as a contiguous trailing run starting from
// protobuf_types, since the decoder's EOF checks are positional.

func writeBinString(w *bytes.Buffer, s string) {
	writeVaruint32(w, uint32(len(s)))
	w.WriteString(s)
}

func readBinString(ctx context.Context, r *binReader) (string, error) {
	n, err := readVaruint32(ctx, r)
	if err != nil {
		return "", err
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return "", badData(ctx, "string", "truncated")
	}
	return string(b), nil
}

func writeBinName(w *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func readBinName(ctx context.Context, r *binReader) (uint64, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return 0, badData(ctx, "name", "truncated")
	}
	return binary.LittleEndian.Uint64(b), nil
}

// EncodeBinary produces the canonical binary form of the abi_def document.
func (a *ABIDef) EncodeBinary(ctx context.Context) ([]byte, error) {
	var w bytes.Buffer
	writeBinString(&w, a.Version)

	writeVaruint32(&w, uint32(len(a.Types)))
	for _, t := range a.Types {
		writeBinString(&w, t.NewTypeName)
		writeBinString(&w, t.Type)
	}

	writeVaruint32(&w, uint32(len(a.Structs)))
	for _, s := range a.Structs {
		writeBinString(&w, s.Name)
		writeBinString(&w, s.Base)
		writeVaruint32(&w, uint32(len(s.Fields)))
		for _, f := range s.Fields {
			writeBinString(&w, f.Name)
			writeBinString(&w, f.Type)
		}
	}

	writeVaruint32(&w, uint32(len(a.Actions)))
	for _, act := range a.Actions {
		nameVal, err := NameFromString(ctx, act.Name)
		if err != nil {
			return nil, err
		}
		writeBinName(&w, nameVal)
		writeBinString(&w, act.Type)
		writeBinString(&w, act.RicardianContract)
	}

	writeVaruint32(&w, uint32(len(a.Tables)))
	for _, t := range a.Tables {
		nameVal, err := NameFromString(ctx, t.Name)
		if err != nil {
			return nil, err
		}
		writeBinName(&w, nameVal)
		writeBinString(&w, t.IndexType)
		writeVaruint32(&w, uint32(len(t.KeyNames)))
		for _, kn := range t.KeyNames {
			writeBinString(&w, kn)
		}
		writeVaruint32(&w, uint32(len(t.KeyTypes)))
		for _, kt := range t.KeyTypes {
			writeBinString(&w, kt)
		}
		writeBinString(&w, t.Type)
	}

	writeVaruint32(&w, uint32(len(a.RicardianClauses)))
	for _, c := range a.RicardianClauses {
		writeBinString(&w, c.ID)
		writeBinString(&w, c.Body)
	}

	writeVaruint32(&w, uint32(len(a.ErrorMessages)))
	for _, e := range a.ErrorMessages {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], e.ErrorCode)
		w.Write(b[:])
		writeBinString(&w, e.ErrorMsg)
	}

	writeVaruint32(&w, uint32(len(a.Extensions)))
	for _, e := range a.Extensions {
		var tb [2]byte
		binary.LittleEndian.PutUint16(tb[:], e.Tag)
		w.Write(tb[:])
		writeVaruint32(&w, uint32(len(e.Payload)))
		w.Write(e.Payload)
	}

	// tail-optional fields are read back positionally, each gated only by
	// EOF, so they may only be omitted as a contiguous trailing run: once
	// a later field must be written, every earlier one is too, even if
	// empty, matching abieos's might_not_exist to_bin (abi.hpp:62-65).
	writeVariants := len(a.Variants) > 0
	writeActionResults := len(a.ActionResults) > 0
	writeKVTables := len(a.KVTables) > 0
	writeProtobufTypes := len(a.ProtobufTypes) > 0
	if writeProtobufTypes {
		writeKVTables = true
	}
	if writeKVTables {
		writeActionResults = true
	}
	if writeActionResults {
		writeVariants = true
	}

	if writeVariants {
		writeVaruint32(&w, uint32(len(a.Variants)))
		for _, v := range a.Variants {
			writeBinString(&w, v.Name)
			writeVaruint32(&w, uint32(len(v.Types)))
			for _, t := range v.Types {
				writeBinString(&w, t)
			}
		}
	}
	if writeActionResults {
		writeVaruint32(&w, uint32(len(a.ActionResults)))
		for _, ar := range a.ActionResults {
			nameVal, err := NameFromString(ctx, ar.Name)
			if err != nil {
				return nil, err
			}
			writeBinName(&w, nameVal)
			writeBinString(&w, ar.ResultType)
		}
	}
	if writeKVTables {
		writeVaruint32(&w, uint32(len(a.KVTables)))
		tableNames := make([]string, 0, len(a.KVTables))
		for name := range a.KVTables {
			tableNames = append(tableNames, name)
		}
		sort.Strings(tableNames)
		for _, name := range tableNames {
			kv := a.KVTables[name]
			writeBinString(&w, name)
			writeBinString(&w, kv.Type)
			writeBinString(&w, kv.PrimaryIndex.Name)
			writeBinString(&w, kv.PrimaryIndex.Type)
			writeVaruint32(&w, uint32(len(kv.SecondaryIndices)))
			snames := make([]string, 0, len(kv.SecondaryIndices))
			for sname := range kv.SecondaryIndices {
				snames = append(snames, sname)
			}
			sort.Strings(snames)
			for _, sname := range snames {
				sidx := kv.SecondaryIndices[sname]
				writeBinString(&w, sname)
				writeBinString(&w, sidx.Name)
				writeBinString(&w, sidx.Type)
			}
		}
	}
	if writeProtobufTypes {
		writeVaruint32(&w, uint32(len(a.ProtobufTypes)))
		w.Write(a.ProtobufTypes)
	}

	return w.Bytes(), nil
}

// DecodeABIDefBinary parses the canonical binary form of an abi_def
// document. Tail-optional fields default to empty when the input ends
// before they are reached.
func DecodeABIDefBinary(ctx context.Context, data []byte) (*ABIDef, error) {
	r := newBinReader(data)
	a := &ABIDef{}
	var err error

	if a.Version, err = readBinString(ctx, r); err != nil {
		return nil, err
	}

	n, err := readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.Types = make([]TypeDef, n)
	for i := range a.Types {
		if a.Types[i].NewTypeName, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		if a.Types[i].Type, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
	}

	n, err = readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.Structs = make([]StructDef, n)
	for i := range a.Structs {
		sd := &a.Structs[i]
		if sd.Name, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		if sd.Base, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		fn, err := readVaruint32(ctx, r)
		if err != nil {
			return nil, err
		}
		sd.Fields = make([]FieldDef, fn)
		for j := range sd.Fields {
			if sd.Fields[j].Name, err = readBinString(ctx, r); err != nil {
				return nil, err
			}
			if sd.Fields[j].Type, err = readBinString(ctx, r); err != nil {
				return nil, err
			}
		}
	}

	n, err = readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.Actions = make([]ActionDef, n)
	for i := range a.Actions {
		nameVal, err := readBinName(ctx, r)
		if err != nil {
			return nil, err
		}
		a.Actions[i].Name = NameToString(nameVal)
		if a.Actions[i].Type, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		if a.Actions[i].RicardianContract, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
	}

	n, err = readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.Tables = make([]TableDef, n)
	for i := range a.Tables {
		td := &a.Tables[i]
		nameVal, err := readBinName(ctx, r)
		if err != nil {
			return nil, err
		}
		td.Name = NameToString(nameVal)
		if td.IndexType, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		kn, err := readVaruint32(ctx, r)
		if err != nil {
			return nil, err
		}
		td.KeyNames = make([]string, kn)
		for j := range td.KeyNames {
			if td.KeyNames[j], err = readBinString(ctx, r); err != nil {
				return nil, err
			}
		}
		kt, err := readVaruint32(ctx, r)
		if err != nil {
			return nil, err
		}
		td.KeyTypes = make([]string, kt)
		for j := range td.KeyTypes {
			if td.KeyTypes[j], err = readBinString(ctx, r); err != nil {
				return nil, err
			}
		}
		if td.Type, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
	}

	n, err = readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.RicardianClauses = make([]ClausePair, n)
	for i := range a.RicardianClauses {
		if a.RicardianClauses[i].ID, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		if a.RicardianClauses[i].Body, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
	}

	n, err = readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.ErrorMessages = make([]ErrorMessageEntry, n)
	for i := range a.ErrorMessages {
		b, err := r.readBytes(8)
		if err != nil {
			return nil, badData(ctx, "error_messages", "truncated")
		}
		a.ErrorMessages[i].ErrorCode = binary.LittleEndian.Uint64(b)
		if a.ErrorMessages[i].ErrorMsg, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
	}

	n, err = readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.Extensions = make([]ExtensionEntry, n)
	for i := range a.Extensions {
		tb, err := r.readBytes(2)
		if err != nil {
			return nil, badData(ctx, "abi_extensions", "truncated")
		}
		a.Extensions[i].Tag = binary.LittleEndian.Uint16(tb)
		pn, err := readVaruint32(ctx, r)
		if err != nil {
			return nil, err
		}
		payload, err := r.readBytes(int(pn))
		if err != nil {
			return nil, badData(ctx, "abi_extensions", "truncated")
		}
		a.Extensions[i].Payload = append([]byte{}, payload...)
	}
	if err := checkDuplicateExtensionTags(ctx, a.Extensions); err != nil {
		return nil, err
	}

	// tail-optional fields: absence at EOF yields the zero value.
	if r.atEOF() {
		return a, nil
	}
	vn, err := readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.Variants = make([]VariantDef, vn)
	for i := range a.Variants {
		if a.Variants[i].Name, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		tn, err := readVaruint32(ctx, r)
		if err != nil {
			return nil, err
		}
		a.Variants[i].Types = make([]string, tn)
		for j := range a.Variants[i].Types {
			if a.Variants[i].Types[j], err = readBinString(ctx, r); err != nil {
				return nil, err
			}
		}
	}

	if r.atEOF() {
		return a, nil
	}
	arn, err := readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.ActionResults = make([]ActionResultDef, arn)
	for i := range a.ActionResults {
		nameVal, err := readBinName(ctx, r)
		if err != nil {
			return nil, err
		}
		a.ActionResults[i].Name = NameToString(nameVal)
		if a.ActionResults[i].ResultType, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
	}

	if r.atEOF() {
		return a, nil
	}
	kvn, err := readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	a.KVTables = make(map[string]KVTableDef, kvn)
	for i := uint32(0); i < kvn; i++ {
		tableName, err := readBinString(ctx, r)
		if err != nil {
			return nil, err
		}
		var kv KVTableDef
		if kv.Type, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		if kv.PrimaryIndex.Name, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		if kv.PrimaryIndex.Type, err = readBinString(ctx, r); err != nil {
			return nil, err
		}
		sn, err := readVaruint32(ctx, r)
		if err != nil {
			return nil, err
		}
		kv.SecondaryIndices = make(map[string]KVTableIndexDef, sn)
		for j := uint32(0); j < sn; j++ {
			sname, err := readBinString(ctx, r)
			if err != nil {
				return nil, err
			}
			var sidx KVTableIndexDef
			if sidx.Name, err = readBinString(ctx, r); err != nil {
				return nil, err
			}
			if sidx.Type, err = readBinString(ctx, r); err != nil {
				return nil, err
			}
			kv.SecondaryIndices[sname] = sidx
		}
		a.KVTables[tableName] = kv
	}

	if r.atEOF() {
		return a, nil
	}
	pn, err := readVaruint32(ctx, r)
	if err != nil {
		return nil, err
	}
	payload, err := r.readBytes(int(pn))
	if err != nil {
		return nil, badData(ctx, "protobuf_types", "truncated")
	}
	a.ProtobufTypes = append([]byte{}, payload...)

	return a, nil
}

func checkDuplicateExtensionTags(ctx context.Context, exts []ExtensionEntry) error {
	seen := map[uint16]bool{}
	for _, e := range exts {
		if seen[e.Tag] {
			return newErr(ctx, ErrBadABI, abimsgs.MsgDuplicateExtensions, int(e.Tag))
		}
		seen[e.Tag] = true
	}
	return nil
}
