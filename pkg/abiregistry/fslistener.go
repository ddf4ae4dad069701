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
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/hyperledger/firefly-abi/internal/abimsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
)

func (r *registry) startFilesystemListener(ctx context.Context) error {
	if r.conf.DisableListener {
		log.L(ctx).Debugf("ABI registry filesystem listener disabled")
		close(r.fsListenerDone)
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		go r.fsListenerLoop(ctx, func() {
			_ = watcher.Close()
			close(r.fsListenerDone)
		}, watcher.Events, watcher.Errors)
		err = watcher.Add(r.conf.Path)
	}
	if err != nil {
		log.L(ctx).Errorf("Failed to start ABI registry filesystem listener: %s", err)
		return i18n.WrapError(ctx, err, abimsgs.MsgRegistryReadDir, r.conf.Path)
	}
	return nil
}

func (r *registry) fsListenerLoop(ctx context.Context, done func(), events chan fsnotify.Event, errs chan error) {
	defer done()

	for {
		select {
		case <-ctx.Done():
			log.L(ctx).Infof("ABI registry listener exiting")
			return
		case event, ok := <-events:
			if ok {
				log.L(ctx).Tracef("FSEvent [%s]: %s", event.Op, event.Name)
				r.notifyNewFiles(ctx, filepath.Base(event.Name))
			}
		case err, ok := <-errs:
			if ok {
				log.L(ctx).Errorf("FSEvent error: %s", err)
			}
		}
	}
}
