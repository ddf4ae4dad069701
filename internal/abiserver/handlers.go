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

package abiserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/hyperledger/firefly-abi/internal/abimsgs"
	"github.com/hyperledger/firefly-abi/pkg/abi"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
)

func (s *abiServer) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *abiServer) putABI(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	account := mux.Vars(req)["account"]
	body, err := io.ReadAll(req.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, i18n.NewError(ctx, abimsgs.MsgServerBadRequest, err.Error()))
		return
	}
	isJSON := !strings.Contains(req.Header.Get("Content-Type"), "application/octet-stream")
	if err := s.registry.Put(ctx, account, body, isJSON); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	log.L(ctx).Infof("Installed ABI for account '%s'", account)
	w.WriteHeader(http.StatusNoContent)
}

func (s *abiServer) lookup(w http.ResponseWriter, req *http.Request) (*abi.ABI, bool) {
	ctx := req.Context()
	account := mux.Vars(req)["account"]
	a, ok := s.registry.Lookup(ctx, account)
	if !ok {
		s.writeError(w, http.StatusNotFound, i18n.NewError(ctx, abimsgs.MsgRegistryNotFound, account))
		return nil, false
	}
	return a, true
}

func (s *abiServer) binToJSON(w http.ResponseWriter, req *http.Request) {
	a, ok := s.lookup(w, req)
	if !ok {
		return
	}
	ctx := req.Context()
	typeName := mux.Vars(req)["type"]
	data, err := io.ReadAll(req.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, i18n.NewError(ctx, abimsgs.MsgServerBadRequest, err.Error()))
		return
	}
	out, err := a.BinToJSON(ctx, typeName, data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func (s *abiServer) jsonToBinCommon(w http.ResponseWriter, req *http.Request, reorderable bool) {
	a, ok := s.lookup(w, req)
	if !ok {
		return
	}
	ctx := req.Context()
	typeName := mux.Vars(req)["type"]
	data, err := io.ReadAll(req.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, i18n.NewError(ctx, abimsgs.MsgServerBadRequest, err.Error()))
		return
	}
	var out []byte
	if reorderable {
		out, err = a.JSONToBinReorderable(ctx, typeName, data)
	} else {
		out, err = a.JSONToBin(ctx, typeName, data)
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(out)
}

func (s *abiServer) jsonToBin(w http.ResponseWriter, req *http.Request) {
	s.jsonToBinCommon(w, req, false)
}

func (s *abiServer) jsonToBinReorderable(w http.ResponseWriter, req *http.Request) {
	s.jsonToBinCommon(w, req, true)
}

type kvPrimaryIndexRequest struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

func (s *abiServer) kvPrimaryIndexToJSON(w http.ResponseWriter, req *http.Request) {
	a, ok := s.lookup(w, req)
	if !ok {
		return
	}
	ctx := req.Context()
	var body kvPrimaryIndexRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, i18n.NewError(ctx, abimsgs.MsgServerBadRequest, err.Error()))
		return
	}
	out, err := a.KVPrimaryIndexToJSON(ctx, body.Key, body.Value)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"row": out})
}
