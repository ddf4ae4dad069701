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
	"context"
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *registry {
	conf := &Config{
		Path:            t.TempDir(),
		DisableListener: true,
		CacheSize:       "1000000",
		CacheTTL:        "24h",
	}
	reg, err := New(conf)
	require.NoError(t, err)
	r := reg.(*registry)
	require.NoError(t, r.Initialize(context.Background()))
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func awaitNotification(t *testing.T, ch <-chan string, want string) {
	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for notification of %q", want)
	}
}

func TestPutThenLookup(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)

	abiJSON := []byte(`{"version":"eosio::abi/1.3","structs":[{"name":"mystruct","base":"","fields":[{"name":"a","type":"uint32"}]}]}`)
	require.NoError(t, r.Put(ctx, "myaccount", abiJSON, true))

	a, ok := r.Lookup(ctx, "myaccount")
	require.True(t, ok)
	assert.Equal(t, "eosio::abi/1.3", a.Def().Version)
}

func TestPutNotifiesListeners(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)

	ch := make(chan string, 1)
	r.AddListener(ch)

	abiJSON := []byte(`{"version":"eosio::abi/1.3","structs":[{"name":"mystruct","base":"","fields":[{"name":"a","type":"uint32"}]}]}`)
	require.NoError(t, r.Put(ctx, "myaccount", abiJSON, true))

	awaitNotification(t, ch, "myaccount")
}

func TestRefreshNotifiesListenersForFilesAddedOutOfBand(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)

	ch := make(chan string, 1)
	r.AddListener(ch)

	abiJSON := []byte(`{"version":"eosio::abi/1.3"}`)
	require.NoError(t, os.WriteFile(path.Join(r.conf.Path, "sideloaded.abi.json"), abiJSON, 0600))
	require.NoError(t, r.Refresh(ctx))

	awaitNotification(t, ch, "sideloaded")
}
