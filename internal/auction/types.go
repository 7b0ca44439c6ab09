// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package auction

import (
	"github.com/emturner/checker/internal/avl"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/money"
	"github.com/emturner/checker/lib/containers"
)

// Bid is spec §3's Bid.
type Bid struct {
	Address money.Address
	Kit     money.Kit
}

// AuctionOutcome is spec §3's root-data of a completed lot.
type AuctionOutcome struct {
	WinningBid     Bid
	SoldTez        money.Mutez
	YoungerAuction containers.Optional[avl.TreeId]
	OlderAuction   containers.Optional[avl.TreeId]
}

// Phase tags CurrentAuction.State.
type Phase int

const (
	Descending Phase = iota
	Ascending
)

// CurrentAuctionState is spec §3's CurrentAuction.state sum type. Only
// the fields for the tagged Phase are meaningful, mirroring
// arena.Node's tagged-union shape.
type CurrentAuctionState struct {
	Phase Phase

	// Descending
	StartValue money.Kit
	StartTime  money.Timestamp

	// Ascending
	Leading  Bid
	BidTime  money.Timestamp
	BidBlock money.BlockHeight
}

// CurrentAuction is spec §3's CurrentAuction.
type CurrentAuction struct {
	Tree  avl.TreeId
	State CurrentAuctionState
}

// CompletedAuctionsHead is spec §3's CompletedAuctionsHead.
type CompletedAuctionsHead struct {
	Youngest avl.TreeId
	Oldest   avl.TreeId
}

// SliceTree is the one AVL forest backing all three of
// LiquidationAuctions' collections (spec §2's components A-C): its
// leaves are burrow.Slice values, and completed trees carry
// AuctionOutcome root-data.
type SliceTree = avl.Tree[burrow.Slice, AuctionOutcome]

// State is spec §3's LiquidationAuctions (top): the entire engine
// state as a single owned value, per spec §5 ("state is a single
// mutable value passed through every entrypoint").
type State struct {
	Tree         *SliceTree
	Queued       avl.TreeId
	Current      containers.Optional[CurrentAuction]
	Completed    containers.Optional[CompletedAuctionsHead]
	BurrowSlices map[money.Address]burrow.Head

	// QueuedCount is the number of slices currently in Queued. It is
	// a running total maintained incrementally alongside every
	// push/pop/take of that tree, rather than a avl.Tree.Count(Queued)
	// call on every guard check, to avoid re-deriving the same number
	// from the tree on every entrypoint. Backs the MaxQueueHeight guard.
	QueuedCount int

	Config Config
}

// NewState constructs an empty engine: one arena, an empty queued
// tree, no current or completed auctions.
func NewState(cfg Config) *State {
	tree := avl.New[burrow.Slice, AuctionOutcome](burrow.Weight)
	return &State{
		Tree:         tree,
		Queued:       tree.NewTree(),
		BurrowSlices: make(map[money.Address]burrow.Head),
		Config:       cfg,
	}
}

// BidHandle is the opaque receipt spec §4.D's place_bid returns.
type BidHandle struct {
	AuctionID avl.TreeId
	Bid       Bid
}

// Settlement is one slice's worth of per-slice settlement math (spec
// §4.D "Per-slice settlement math").
type Settlement struct {
	Contents burrow.SliceContents
	Repay    money.Kit
}

// TouchSlicesResult is the result of a bulk drain. Skipped holds the
// leaf ids left unprocessed because the caller-supplied list exceeded
// Config.NumberOfSlicesToProcess (spec §9's resolved cap open
// question).
type TouchSlicesResult struct {
	Settlements []Settlement
	TotalBurn   money.Kit
	Skipped     []avl.Id
}
