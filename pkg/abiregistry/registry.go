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

// Package abiregistry watches a directory of per-account ABI documents
// (<account>.abi.json or <account>.abi.bin), parses them with pkg/abi, and
// caches the resulting type graphs for fast repeated lookup.
package abiregistry

import (
	"context"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hyperledger/firefly-abi/internal/abimsgs"
	"github.com/hyperledger/firefly-abi/pkg/abi"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/karlseguin/ccache"
)

const (
	jsonExt = ".abi.json"
	binExt  = ".abi.bin"
)

// Registry is a directory-backed, hot-reloading cache of validated ABI type
// graphs, keyed by contract account name.
type Registry interface {
	Initialize(ctx context.Context) error
	Lookup(ctx context.Context, account string) (*abi.ABI, bool)
	Refresh(ctx context.Context) error
	Put(ctx context.Context, account string, data []byte, isJSON bool) error
	AddListener(listener chan<- string)
	Close() error
}

// New returns a Registry backed by conf.Path, not yet scanning the
// filesystem - call Initialize to perform the first scan and (unless
// disabled) start the fsnotify watch.
func New(conf *Config) (Registry, error) {
	ttl, err := time.ParseDuration(conf.CacheTTL)
	if err != nil {
		ttl = 24 * time.Hour
	}
	r := &registry{
		conf:          *conf,
		cacheTTL:      ttl,
		accountToFile: make(map[string]string),
	}
	r.cache = ccache.New(
		ccache.Configure().MaxSize(fftypes.ParseToByteSize(conf.CacheSize)),
	)
	return r, nil
}

type registry struct {
	conf     Config
	cache    *ccache.Cache
	cacheTTL time.Duration

	mux              sync.Mutex
	accountToFile    map[string]string
	listeners        []chan<- string
	fsListenerCancel context.CancelFunc
	fsListenerDone   chan struct{}
}

func (r *registry) Initialize(ctx context.Context) error {
	r.fsListenerDone = make(chan struct{})
	lCtx, cancel := context.WithCancel(log.WithLogField(ctx, "abiregistry", r.conf.Path))
	r.fsListenerCancel = cancel
	if err := r.startFilesystemListener(lCtx); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

func (r *registry) AddListener(listener chan<- string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *registry) Close() error {
	if r.fsListenerCancel != nil {
		r.fsListenerCancel()
		<-r.fsListenerDone
	}
	return nil
}

func (r *registry) Refresh(ctx context.Context) error {
	entries, err := os.ReadDir(r.conf.Path)
	if err != nil {
		return i18n.WrapError(ctx, err, abimsgs.MsgRegistryReadDir, r.conf.Path)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	r.notifyNewFiles(ctx, names...)
	return nil
}

func accountFromFilename(name string) (account string, ok bool) {
	switch {
	case strings.HasSuffix(name, jsonExt):
		return strings.TrimSuffix(name, jsonExt), true
	case strings.HasSuffix(name, binExt):
		return strings.TrimSuffix(name, binExt), true
	default:
		return "", false
	}
}

func (r *registry) notifyNewFiles(ctx context.Context, names ...string) {
	r.mux.Lock()
	var added []string
	for _, name := range names {
		account, ok := accountFromFilename(name)
		if !ok {
			log.L(ctx).Tracef("Ignoring '%s': does not match *%s or *%s", name, jsonExt, binExt)
			continue
		}
		if r.accountToFile[account] != name {
			r.accountToFile[account] = name
			r.cache.Delete(account)
			added = append(added, account)
		}
	}
	r.mux.Unlock()
	r.notifyListeners(ctx, added)
}

// notifyListeners fans accounts out to every registered listener on its own
// goroutine, so a slow or blocked listener can't stall the caller (the
// fsnotify loop, or an HTTP-driven Put).
func (r *registry) notifyListeners(ctx context.Context, accounts []string) {
	if len(accounts) == 0 {
		return
	}
	r.mux.Lock()
	listeners := make([]chan<- string, len(r.listeners))
	copy(listeners, r.listeners)
	r.mux.Unlock()

	log.L(ctx).Debugf("Registered/updated %d ABI account(s)", len(accounts))
	go func() {
		for _, l := range listeners {
			for _, account := range accounts {
				l <- account
			}
		}
	}()
}

// Put validates data by parsing it, writes it to the registry directory
// under the standard extension for isJSON, installs it directly in the
// cache so the result is visible before any fsnotify event fires, and
// notifies listeners itself - the fsnotify event that follows is a no-op
// against accountToFile by the time it arrives, so it would otherwise
// never reach AddListener subscribers.
func (r *registry) Put(ctx context.Context, account string, data []byte, isJSON bool) error {
	var a *abi.ABI
	var err error
	var filename string
	if isJSON {
		a, err = abi.FromJSON(ctx, data)
		filename = account + jsonExt
	} else {
		a, err = abi.FromBinary(ctx, data)
		filename = account + binExt
	}
	if err != nil {
		return err
	}

	full := path.Join(r.conf.Path, filename)
	if err := os.WriteFile(full, data, 0600); err != nil {
		return i18n.WrapError(ctx, err, abimsgs.MsgRegistryLoadFailed, account, full)
	}

	r.mux.Lock()
	r.accountToFile[account] = filename
	r.mux.Unlock()
	r.cache.Set(account, a, r.cacheTTL)
	r.notifyListeners(ctx, []string{account})
	return nil
}

func (r *registry) Lookup(ctx context.Context, account string) (*abi.ABI, bool) {
	if cached := r.cache.Get(account); cached != nil {
		cached.Extend(r.cacheTTL)
		return cached.Value().(*abi.ABI), true
	}

	r.mux.Lock()
	filename, ok := r.accountToFile[account]
	r.mux.Unlock()
	if !ok {
		return nil, false
	}

	full := path.Join(r.conf.Path, filename)
	data, err := os.ReadFile(full)
	if err != nil {
		log.L(ctx).Errorf("Failed to read '%s': %s", full, err)
		return nil, false
	}

	var a *abi.ABI
	if strings.HasSuffix(filename, jsonExt) {
		a, err = abi.FromJSON(ctx, data)
	} else {
		a, err = abi.FromBinary(ctx, data)
	}
	if err != nil {
		log.L(ctx).Errorf("%s", i18n.NewError(ctx, abimsgs.MsgRegistryLoadFailed, account, full).Error())
		return nil, false
	}

	r.cache.Set(account, a, r.cacheTTL)
	return a, true
}
