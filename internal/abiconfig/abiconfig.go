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

// Package abiconfig declares the root configuration sections of the ABI
// codec service, following the shape of the teacher's internal/signerconfig.
package abiconfig

import (
	"github.com/hyperledger/firefly-abi/pkg/abiregistry"
	"github.com/hyperledger/firefly-common/pkg/httpserver"
	"github.com/spf13/viper"

	"github.com/hyperledger/firefly-common/pkg/config"
)

var ffc = config.AddRootKey

var (
	// ChainClientEnabled is the chainClient.enabled key (default false). No
	// code in this module reads it; the registry is never hydrated from a
	// chain endpoint.
	ChainClientEnabled = ffc("chainClient.enabled")
	// ChainClientBaseURL is the base URL of the chain's HTTP API.
	ChainClientBaseURL = ffc("chainClient.baseURL")
	// MaxRecursionDepth is the codec.maxRecursionDepth key (default 32). No
	// code in this module reads it.
	MaxRecursionDepth = ffc("codec.maxRecursionDepth")
)

var (
	ServerConfig   config.Section
	CorsConfig     config.Section
	RegistryConfig config.Section
)

func setDefaults() {
	viper.SetDefault(string(ChainClientEnabled), false)
	viper.SetDefault(string(MaxRecursionDepth), 32)
}

// Reset (re)initializes all configuration sections. Exposed separately from
// init() so unit tests can reset global viper state between runs, matching
// the teacher's own config.Reset pattern.
func Reset() {
	config.RootConfigReset(setDefaults)

	ServerConfig = config.RootSection("server")
	httpserver.InitHTTPConfig(ServerConfig, 8830)

	CorsConfig = config.RootSection("cors")
	httpserver.InitCORSConfig(CorsConfig)

	RegistryConfig = config.RootSection("registry")
	abiregistry.InitConfig(RegistryConfig)
}
