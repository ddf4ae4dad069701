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

// Package chainclient fetches the packed abi_def for a contract account
// from a live chain's HTTP API. Its caller is the fetch-abi command;
// pkg/abiregistry does not use it.
package chainclient

import (
	"context"
	"encoding/base64"

	"github.com/go-resty/resty/v2"
	"github.com/hyperledger/firefly-abi/internal/abimsgs"
	"github.com/hyperledger/firefly-abi/pkg/abi"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// Client fetches abi_def documents from a chain node's HTTP API.
type Client interface {
	GetABI(ctx context.Context, account string) (*abi.ABIDef, error)
}

type getRawABIRequest struct {
	AccountName string `json:"account_name"`
}

type getRawABIResponse struct {
	AccountName string `json:"account_name"`
	ABI         string `json:"abi"` // base64-packed abi_def binary
}

// New returns a Client that issues requests against baseURL, an EOSIO-style
// node exposing POST /v1/chain/get_raw_abi.
func New(baseURL string) Client {
	return &client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

type client struct {
	http *resty.Client
}

func (c *client) GetABI(ctx context.Context, account string) (*abi.ABIDef, error) {
	var result getRawABIResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(&getRawABIRequest{AccountName: account}).
		SetResult(&result).
		Post("/v1/chain/get_raw_abi")
	if err != nil {
		return nil, i18n.WrapError(ctx, err, abimsgs.MsgChainRequestFailed, err.Error())
	}
	if res.IsError() {
		return nil, i18n.NewError(ctx, abimsgs.MsgChainRequestFailed, res.Status())
	}
	if result.ABI == "" {
		return nil, i18n.NewError(ctx, abimsgs.MsgChainBadResponse, account)
	}
	packed, err := base64.StdEncoding.DecodeString(result.ABI)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, abimsgs.MsgChainBadResponse, account)
	}
	a, err := abi.DecodeABIDefBinary(ctx, packed)
	if err != nil {
		return nil, err
	}
	return a, nil
}
