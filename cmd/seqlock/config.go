// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/seqlock/builtin/locking"
	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/node"
	"github.com/vechain/seqlock/seq"
)

var defaultEngineAddress = seq.BytesToAddress([]byte("locking"))

// Config is the YAML deployment profile.
type Config struct {
	ChainID          uint64                `yaml:"chainId"`
	Engine           *seq.Address          `yaml:"engine"`
	MinLock          *math.HexOrDecimal256 `yaml:"minLock"`
	MaxLock          *math.HexOrDecimal256 `yaml:"maxLock"`
	MaxOperators     uint64                `yaml:"maxOperators"`
	WithdrawalDelay  time.Duration         `yaml:"withdrawalDelay"`
	MaxCommissionBps *uint32               `yaml:"maxCommissionBps"`
	Policy           string                `yaml:"policy"`
	Cutoff           string                `yaml:"cutoff"`
	SignerCacheSize  int                   `yaml:"signerCacheSize"`
	ReadCacheSize    int                   `yaml:"readCacheSize"`
	Genesis          *node.Genesis         `yaml:"genesis"`
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{ChainID: 1}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %v", path)
	}
	return cfg, nil
}

// applyFlags overrides the file with flags set on the command line.
func (cfg *Config) applyFlags(ctx *cli.Context) error {
	parse := func(name string, dst **math.HexOrDecimal256) error {
		if !ctx.IsSet(name) {
			return nil
		}
		v, ok := math.ParseBig256(ctx.String(name))
		if !ok {
			return errors.Errorf("invalid --%v", name)
		}
		*dst = (*math.HexOrDecimal256)(v)
		return nil
	}
	if err := parse(minLockFlag.Name, &cfg.MinLock); err != nil {
		return err
	}
	if err := parse(maxLockFlag.Name, &cfg.MaxLock); err != nil {
		return err
	}
	if ctx.IsSet(maxOperatorsFlag.Name) {
		cfg.MaxOperators = ctx.Uint64(maxOperatorsFlag.Name)
	}
	if ctx.IsSet(withdrawalDelayFlag.Name) {
		cfg.WithdrawalDelay = ctx.Duration(withdrawalDelayFlag.Name)
	}
	if ctx.IsSet(policyFlag.Name) {
		cfg.Policy = ctx.String(policyFlag.Name)
	}
	if ctx.IsSet(cutoffFlag.Name) {
		cfg.Cutoff = ctx.String(cutoffFlag.Name)
	}
	return nil
}

// Params builds the engine profile, defaults filling what is unset.
func (cfg *Config) Params() (locking.Params, error) {
	engine := defaultEngineAddress
	if cfg.Engine != nil {
		engine = *cfg.Engine
	}
	params := locking.DefaultParams(engine, cfg.ChainID)
	if cfg.MinLock != nil {
		params.MinLock = (*big.Int)(cfg.MinLock)
	}
	if cfg.MaxLock != nil {
		params.MaxLock = (*big.Int)(cfg.MaxLock)
	}
	if cfg.MaxOperators > 0 {
		params.MaxOperators = cfg.MaxOperators
	}
	if cfg.WithdrawalDelay > 0 {
		params.WithdrawalDelay = uint64(cfg.WithdrawalDelay / time.Second)
	}
	if cfg.MaxCommissionBps != nil {
		params.MaxCommissionBps = *cfg.MaxCommissionBps
	}
	if cfg.SignerCacheSize > 0 {
		params.SignerCacheSize = cfg.SignerCacheSize
	}
	var err error
	if cfg.Policy != "" {
		if params.Policy, err = reward.ParsePolicy(cfg.Policy); err != nil {
			return params, err
		}
	}
	if cfg.Cutoff != "" {
		if params.Cutoff, err = reward.ParseCutoff(cfg.Cutoff); err != nil {
			return params, err
		}
	}
	return params, params.Validate()
}
