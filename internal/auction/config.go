// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package auction

import (
	"github.com/emturner/checker/internal/fixedpoint"
	"github.com/emturner/checker/internal/money"
	"github.com/emturner/checker/lib/textui"
)

// Config is spec §6's constants, passed into the engine at
// construction rather than living as process-wide mutable state (spec
// §9's "global-state-like constants" note).
type Config struct {
	MaxQueueHeight int
	MaxLotSize     money.Mutez

	// MinLotQueueFraction is MIN_LOT_QUEUE_FRACTION (num/den).
	MinLotQueueFraction fixedpoint.Ratio
	// AuctionDecayRate is AUCTION_DECAY_RATE (num/den), applied as
	// (1-rate)^elapsedSeconds in the descending phase.
	AuctionDecayRate fixedpoint.Ratio
	// BidImprovementFactor is BID_IMPROVEMENT_FACTOR (num/den).
	BidImprovementFactor fixedpoint.Ratio
	// LiquidationPenalty is LIQUIDATION_PENALTY (num/den).
	LiquidationPenalty fixedpoint.Ratio

	BidIntervalSec    int64
	BidIntervalBlocks int64

	NumberOfSlicesToProcess int

	KitScalingFactor int64
}

// DefaultConfig mirrors the reference checker parameters (scenario
// seeds S3-S6 in spec §8 are sized against these).
func DefaultConfig() Config {
	return Config{
		MaxQueueHeight:          textui.Tunable(32),
		MaxLotSize:              money.Mutez(textui.Tunable(int64(10_000_000_000))),
		MinLotQueueFraction:     fixedpoint.NewRatio(5, 100),
		AuctionDecayRate:        fixedpoint.NewRatio(1, 3600),
		BidImprovementFactor:    fixedpoint.NewRatio(5, 100),
		LiquidationPenalty:      fixedpoint.NewRatio(10, 100),
		BidIntervalSec:          textui.Tunable(int64(1200)),
		BidIntervalBlocks:       textui.Tunable(int64(20)),
		NumberOfSlicesToProcess: textui.Tunable(1000),
		KitScalingFactor:        1_000_000,
	}
}
