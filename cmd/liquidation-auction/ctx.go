// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/dispatch"
	"github.com/emturner/checker/internal/money"
)

// selfAddress is the engine's own address — the harness stands in for
// both the checker contract and, for self-only entrypoints, its own
// caller.
const selfAddress = money.Address("checker")

// nowFlag and blockFlag back the --now/--block persistent flags; every
// subcommand shares the same host clock for the duration of one
// invocation.
var nowFlag, blockFlag int64

// selfCtx builds a dispatch.Context whose sender is the engine itself,
// as the self-authorized entrypoints (SendSliceToAuction,
// EnsureNoUnclaimedSlices, CancelLiquidationOfSlice) require. The touch
// subcommand uses it too, although Touch is publicly callable.
func selfCtx(_ *auction.State) dispatch.Context {
	return dispatch.Context{
		Now:         money.Timestamp(nowFlag),
		BlockHeight: money.BlockHeight(blockFlag),
		Sender:      selfAddress,
		SelfAddress: selfAddress,
	}
}

// publicCtx builds the dispatch.Context for a publicly-callable
// entrypoint (PlaceBid, TouchSlices, TouchOldestSlices) invoked as
// sender.
func publicCtx(sender money.Address) dispatch.Context {
	return dispatch.Context{
		Now:         money.Timestamp(nowFlag),
		BlockHeight: money.BlockHeight(blockFlag),
		Sender:      sender,
		SelfAddress: selfAddress,
	}
}
