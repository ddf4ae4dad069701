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

// Package abiserver is the thin HTTP facade over pkg/abiregistry and the
// *abi.ABI values it holds: it does no codec work itself, only request
// routing, decoding, and error mapping.
package abiserver

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hyperledger/firefly-abi/internal/abiconfig"
	"github.com/hyperledger/firefly-abi/pkg/abiregistry"
	"github.com/hyperledger/firefly-common/pkg/httpserver"
)

// Server runs the ABI codec HTTP facade until Stop is called.
type Server interface {
	Start() error
	Stop()
	WaitStop() error
}

// NewServer builds a Server backed by registry, serving the routes declared
// in router().
func NewServer(ctx context.Context, registry abiregistry.Registry) (Server, error) {
	s := &abiServer{
		registry:      registry,
		apiServerDone: make(chan error),
	}
	s.ctx, s.cancelCtx = context.WithCancel(ctx)

	var err error
	s.apiServer, err = httpserver.NewHTTPServer(ctx, "server", s.router(), s.apiServerDone, abiconfig.ServerConfig)
	if err != nil {
		return nil, err
	}
	return s, nil
}

type abiServer struct {
	ctx       context.Context
	cancelCtx func()
	registry  abiregistry.Registry

	started       bool
	apiServer     httpserver.HTTPServer
	apiServerDone chan error
}

func (s *abiServer) router() *mux.Router {
	r := mux.NewRouter()
	r.Path("/abi/{account}").Methods(http.MethodPut).Handler(http.HandlerFunc(s.putABI))
	r.Path("/abi/{account}/bin-to-json/{type}").Methods(http.MethodPost).Handler(http.HandlerFunc(s.binToJSON))
	r.Path("/abi/{account}/json-to-bin/{type}").Methods(http.MethodPost).Handler(http.HandlerFunc(s.jsonToBin))
	r.Path("/abi/{account}/json-to-bin-reorderable/{type}").Methods(http.MethodPost).Handler(http.HandlerFunc(s.jsonToBinReorderable))
	r.Path("/abi/{account}/kv-primary-index-to-json").Methods(http.MethodPost).Handler(http.HandlerFunc(s.kvPrimaryIndexToJSON))
	return r
}

func (s *abiServer) runAPIServer() {
	s.apiServer.ServeHTTP(s.ctx)
}

func (s *abiServer) Start() error {
	if err := s.registry.Initialize(s.ctx); err != nil {
		return err
	}
	go s.runAPIServer()
	s.started = true
	return nil
}

func (s *abiServer) Stop() {
	s.cancelCtx()
}

func (s *abiServer) WaitStop() (err error) {
	if s.started {
		s.started = false
		err = <-s.apiServerDone
	}
	return err
}
