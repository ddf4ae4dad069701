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

// Package cmd is the abicodec CLI: a thin cobra wrapper over
// internal/abiconfig, internal/abiserver, pkg/abiregistry, and
// internal/chainclient, following the shape of the teacher's cmd/ffsigner.go.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyperledger/firefly-abi/internal/abiconfig"
	"github.com/hyperledger/firefly-abi/internal/abimsgs"
	"github.com/hyperledger/firefly-common/pkg/config"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sigs = make(chan os.Signal, 1)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "abicodec",
	Short: "ABI/JSON codec service for EOSIO-style contracts",
	Long:  ``,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "f", "", "config file")
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(binToJSONCommand())
	rootCmd.AddCommand(jsonToBinCommand())
	rootCmd.AddCommand(fetchABICommand())
}

// Execute runs the root command, returning any error for main() to report.
func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	abiconfig.Reset()
}

func bootstrap() (context.Context, context.CancelFunc, error) {
	initConfig()
	err := config.ReadConfig("abicodec", cfgFile)

	ctx, cancelCtx := context.WithCancel(context.Background())
	ctx = log.WithLogger(ctx, logrus.WithField("pid", fmt.Sprintf("%d", os.Getpid())))
	ctx = log.WithLogger(ctx, logrus.WithField("prefix", "abicodec"))

	config.SetupLogging(ctx)

	if err != nil {
		cancelCtx()
		return nil, nil, i18n.WrapError(ctx, err, abimsgs.MsgConfigFailed, err.Error())
	}

	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.L(ctx).Infof("Shutting down due to %s", sig.String())
		cancelCtx()
	}()

	return ctx, cancelCtx, nil
}
