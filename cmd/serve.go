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

package cmd

import (
	"github.com/hyperledger/firefly-abi/internal/abiconfig"
	"github.com/hyperledger/firefly-abi/internal/abiserver"
	"github.com/hyperledger/firefly-abi/pkg/abiregistry"
	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ABI codec HTTP facade",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancelCtx, err := bootstrap()
			if err != nil {
				return err
			}
			defer cancelCtx()

			registry, err := abiregistry.New(abiregistry.ReadConfig(abiconfig.RegistryConfig))
			if err != nil {
				return err
			}
			defer func() { _ = registry.Close() }()

			server, err := abiserver.NewServer(ctx, registry)
			if err != nil {
				return err
			}
			return runServer(server)
		},
	}
}

func runServer(server abiserver.Server) error {
	if err := server.Start(); err != nil {
		return err
	}
	return server.WaitStop()
}
