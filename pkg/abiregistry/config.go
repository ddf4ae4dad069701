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

package abiregistry

import (
	"github.com/hyperledger/firefly-common/pkg/config"
)

const (
	// ConfigPath is the directory containing <account>.abi.json /
	// <account>.abi.bin documents.
	ConfigPath = "path"
	// ConfigDisableListener turns off the fsnotify watch, falling back to
	// Refresh-on-demand only.
	ConfigDisableListener = "disableListener"
	// ConfigCacheSize is parsed as a byte-size string and passed to ccache
	// as its MaxSize. Cached ABIs report no size of their own, so each
	// counts as 1 and the value bounds the number of cached ABIs.
	ConfigCacheSize = "cacheSize"
	// ConfigCacheTTL is how long an unused ABI is kept in the cache.
	ConfigCacheTTL = "cacheTTL"
)

type Config struct {
	Path            string
	DisableListener bool
	CacheSize       string
	CacheTTL        string
}

func InitConfig(section config.Section) {
	section.AddKnownKey(ConfigPath)
	section.AddKnownKey(ConfigDisableListener)
	section.AddKnownKey(ConfigCacheSize, 250)
	section.AddKnownKey(ConfigCacheTTL, "24h")
}

func ReadConfig(section config.Section) *Config {
	return &Config{
		Path:            section.GetString(ConfigPath),
		DisableListener: section.GetBool(ConfigDisableListener),
		CacheSize:       section.GetString(ConfigCacheSize),
		CacheTTL:        section.GetString(ConfigCacheTTL),
	}
}
