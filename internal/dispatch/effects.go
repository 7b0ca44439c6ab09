// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch

import (
	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/money"
)

// Effect is spec §6's outbound effect descriptor: opaque to the core,
// interpreted by the host. Each concrete type below is one of the six
// named variants.
type Effect interface {
	isEffect()
}

// settlementPair is one slice's worth of CallTouchLiquidationSlices'
// settlement_data entry.
type settlementPair struct {
	Contents burrow.SliceContents
	Repay    money.Kit
}

// CallCancelSliceLiquidation tells the minter a queued slice's
// liquidation was cancelled and its collateral returned.
type CallCancelSliceLiquidation struct {
	MinterAddr money.Address
	Permission money.Address // the canceller, for the minter's own authorization bookkeeping
	Contents   burrow.SliceContents
}

func (CallCancelSliceLiquidation) isEffect() {}

// CallBurrowSendSliceToChecker describes a burrow handing a new slice
// of collateral to the engine. No Handle path emits it; it is part of
// the Effect set so that EncodeEffect can print its shape.
type CallBurrowSendSliceToChecker struct {
	BurrowAddr money.Address
	Tez        money.Mutez
}

func (CallBurrowSendSliceToChecker) isEffect() {}

// CallTouchLiquidationSlices reports a batch of settled slices back to
// the minter owning them, for it to update its own burrow accounting.
type CallTouchLiquidationSlices struct {
	MinterAddr     money.Address
	SettlementData []settlementPair
	TotalBurn      money.Kit
}

func (CallTouchLiquidationSlices) isEffect() {}

// CallTransferLABidTicket hands the bidder a receipt for their
// just-placed bid.
type CallTransferLABidTicket struct {
	BidderAddr money.Address
	Handle     auction.BidHandle
}

func (CallTransferLABidTicket) isEffect() {}

// CallTransferKit returns a losing bidder's kit.
type CallTransferKit struct {
	BidderAddr money.Address
	Kit        money.Kit
}

func (CallTransferKit) isEffect() {}

// CallUnitTransfer pays out the winning bidder's collateral.
type CallUnitTransfer struct {
	Addr money.Address
	Tez  money.Mutez
}

func (CallUnitTransfer) isEffect() {}
