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
	"encoding/hex"
	"fmt"
	"os"

	"github.com/hyperledger/firefly-abi/pkg/abi"
	"github.com/spf13/cobra"
)

func loadABIFile(ctx context.Context, path string) (*abi.ABI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return abi.FromJSON(ctx, data)
}

func binToJSONCommand() *cobra.Command {
	var abiFile, typeName string
	c := &cobra.Command{
		Use:   "bin-to-json [hex-data]",
		Short: "Decode hex-encoded binary data against a named type in an abi.json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := loadABIFile(ctx, abiFile)
			if err != nil {
				return err
			}
			data, err := hex.DecodeString(args[0])
			if err != nil {
				return err
			}
			out, err := a.BinToJSON(ctx, typeName, data)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	c.Flags().StringVarP(&abiFile, "abi", "a", "", "path to an abi.json document")
	c.Flags().StringVarP(&typeName, "type", "t", "", "ABI type name to decode against")
	_ = c.MarkFlagRequired("abi")
	_ = c.MarkFlagRequired("type")
	return c
}

func jsonToBinCommand() *cobra.Command {
	var abiFile, typeName string
	var reorderable bool
	c := &cobra.Command{
		Use:   "json-to-bin [json-data]",
		Short: "Encode JSON data against a named type in an abi.json file, printing hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := loadABIFile(ctx, abiFile)
			if err != nil {
				return err
			}
			var out []byte
			if reorderable {
				out, err = a.JSONToBinReorderable(ctx, typeName, []byte(args[0]))
			} else {
				out, err = a.JSONToBin(ctx, typeName, []byte(args[0]))
			}
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(out))
			return nil
		},
	}
	c.Flags().StringVarP(&abiFile, "abi", "a", "", "path to an abi.json document")
	c.Flags().StringVarP(&typeName, "type", "t", "", "ABI type name to encode against")
	c.Flags().BoolVar(&reorderable, "reorderable", false, "accept struct keys in any order")
	_ = c.MarkFlagRequired("abi")
	_ = c.MarkFlagRequired("type")
	return c
}
