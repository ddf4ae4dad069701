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
	"context"
	"encoding/json"
	"fmt"

	"github.com/hyperledger/firefly-abi/internal/chainclient"
	"github.com/spf13/cobra"
)

func fetchABICommand() *cobra.Command {
	var baseURL string
	c := &cobra.Command{
		Use:   "fetch-abi [account]",
		Short: "Fetch a contract account's abi_def from a chain node and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client := chainclient.New(baseURL)
			def, err := client.GetABI(ctx, args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(def, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	c.Flags().StringVar(&baseURL, "base-url", "", "base URL of the chain node's HTTP API")
	_ = c.MarkFlagRequired("base-url")
	return c
}
