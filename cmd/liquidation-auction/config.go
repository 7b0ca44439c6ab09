// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/spf13/viper"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/fixedpoint"
	"github.com/emturner/checker/internal/money"
)

// ratioFile is a config file's num/den encoding of a fixedpoint.Ratio
// — viper has no notion of *big.Int, so config files spell out the
// two integers and we build the Ratio ourselves.
type ratioFile struct {
	Num int64
	Den int64
}

func (r ratioFile) ratio(fallback fixedpoint.Ratio) fixedpoint.Ratio {
	if r.Den == 0 {
		return fallback
	}
	return fixedpoint.NewRatio(r.Num, r.Den)
}

// loadConfig reads auction.Config overrides from path, starting from
// auction.DefaultConfig for anything the file doesn't set. An empty
// path means "defaults only".
func loadConfig(path string) (auction.Config, error) {
	cfg := auction.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return auction.Config{}, err
	}

	if v.IsSet("max_queue_height") {
		cfg.MaxQueueHeight = v.GetInt("max_queue_height")
	}
	if v.IsSet("max_lot_size") {
		cfg.MaxLotSize = money.Mutez(v.GetInt64("max_lot_size"))
	}
	if v.IsSet("min_lot_queue_fraction") {
		var rf ratioFile
		if err := v.UnmarshalKey("min_lot_queue_fraction", &rf); err != nil {
			return auction.Config{}, err
		}
		cfg.MinLotQueueFraction = rf.ratio(cfg.MinLotQueueFraction)
	}
	if v.IsSet("auction_decay_rate") {
		var rf ratioFile
		if err := v.UnmarshalKey("auction_decay_rate", &rf); err != nil {
			return auction.Config{}, err
		}
		cfg.AuctionDecayRate = rf.ratio(cfg.AuctionDecayRate)
	}
	if v.IsSet("bid_improvement_factor") {
		var rf ratioFile
		if err := v.UnmarshalKey("bid_improvement_factor", &rf); err != nil {
			return auction.Config{}, err
		}
		cfg.BidImprovementFactor = rf.ratio(cfg.BidImprovementFactor)
	}
	if v.IsSet("liquidation_penalty") {
		var rf ratioFile
		if err := v.UnmarshalKey("liquidation_penalty", &rf); err != nil {
			return auction.Config{}, err
		}
		cfg.LiquidationPenalty = rf.ratio(cfg.LiquidationPenalty)
	}
	if v.IsSet("bid_interval_sec") {
		cfg.BidIntervalSec = v.GetInt64("bid_interval_sec")
	}
	if v.IsSet("bid_interval_blocks") {
		cfg.BidIntervalBlocks = v.GetInt64("bid_interval_blocks")
	}
	if v.IsSet("number_of_slices_to_process") {
		cfg.NumberOfSlicesToProcess = v.GetInt("number_of_slices_to_process")
	}
	if v.IsSet("kit_scaling_factor") {
		cfg.KitScalingFactor = v.GetInt64("kit_scaling_factor")
	}
	return cfg, nil
}
