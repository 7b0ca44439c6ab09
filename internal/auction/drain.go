// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package auction

import (
	"github.com/emturner/checker/internal/avl"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/fixedpoint"
	"github.com/emturner/checker/internal/money"
	"github.com/emturner/checker/lib/containers"
)

// unlinkCompleted splices root out of the completed doubly-linked list
// and clears outcome's own younger/older fields for cleanliness, per
// spec §4.D's pop_completed_auction.
func (s *State) unlinkCompleted(root avl.TreeId, outcome AuctionOutcome) {
	if outcome.OlderAuction.OK {
		s.Tree.ModifyRootData(outcome.OlderAuction.Val, func(o *AuctionOutcome) *AuctionOutcome {
			o.YoungerAuction = outcome.YoungerAuction
			return o
		})
	}
	if outcome.YoungerAuction.OK {
		s.Tree.ModifyRootData(outcome.YoungerAuction.Val, func(o *AuctionOutcome) *AuctionOutcome {
			o.OlderAuction = outcome.OlderAuction
			return o
		})
	}

	head := s.Completed.Val
	if head.Oldest == root {
		if outcome.YoungerAuction.OK {
			head.Oldest = outcome.YoungerAuction.Val
		} else {
			head.Oldest = 0
		}
	}
	if head.Youngest == root {
		if outcome.OlderAuction.OK {
			head.Youngest = outcome.OlderAuction.Val
		} else {
			head.Youngest = 0
		}
	}
	if head.Oldest == 0 && head.Youngest == 0 {
		s.Completed = containers.Optional[CompletedAuctionsHead]{}
	} else {
		s.Completed = containers.Optional[CompletedAuctionsHead]{OK: true, Val: head}
	}

	s.Tree.ModifyRootData(root, func(o *AuctionOutcome) *AuctionOutcome {
		o.OlderAuction = containers.Optional[avl.TreeId]{}
		o.YoungerAuction = containers.Optional[avl.TreeId]{}
		return o
	})
}

// PopCompletedSlice implements spec §4.D's pop_completed_slice. The
// returned TreeId names the lot leaf belonged to, for batch callers
// (TouchSlices) that need to group settlements per lot.
func (s *State) PopCompletedSlice(leaf avl.Id) (burrow.SliceContents, AuctionOutcome, avl.TreeId, error) {
	root := s.Tree.FindRoot(leaf)
	outcome := s.Tree.RootData(root)
	if outcome == nil {
		return burrow.SliceContents{}, AuctionOutcome{}, 0, ErrNotACompletedSlice
	}
	picked := *outcome

	contents, poppedRoot := burrow.PopSlice(s.Tree, s.BurrowSlices, leaf)
	if poppedRoot != root {
		invariantViolation("PopCompletedSlice: leaf %v moved from %v to %v mid-pop", leaf, root, poppedRoot)
	}

	if s.Tree.IsEmpty(root) {
		s.unlinkCompleted(root, picked)
	}

	return contents, picked, root, nil
}

// settleLot implements spec §4.D's per-slice settlement math plus the
// SPEC_FULL-resolved aggregated-flooring-residual rule: the shortfall
// between Σcorresponding_kit (each floored) and winning_bid.kit is
// folded entirely into this batch's burn.
func settleLot(cfg Config, winningKit money.Kit, soldTez money.Mutez, slices []burrow.SliceContents) ([]Settlement, money.Kit) {
	settlements := make([]Settlement, 0, len(slices))
	var sumCorresponding int64
	var burn int64
	for _, c := range slices {
		corresponding := fixedpoint.MulDivInt64(int64(winningKit), int64(c.Tez), int64(soldTez), fixedpoint.Floor)
		sumCorresponding += corresponding
		var penalty int64
		if corresponding < int64(c.MinKitForUnwarranted) {
			penalty = ceilMul(corresponding, cfg.LiquidationPenalty)
		}
		burn += penalty
		settlements = append(settlements, Settlement{Contents: c, Repay: money.Kit(corresponding - penalty)})
	}
	residual := int64(winningKit) - sumCorresponding
	if residual > 0 {
		burn += residual
	}
	return settlements, money.Kit(burn)
}

func ceilMul(amount int64, r fixedpoint.Ratio) int64 {
	return fixedpoint.MulDivInt64(amount, r.Num.Int64(), r.Den.Int64(), fixedpoint.Ceil)
}

// TouchSlices implements spec §4.D's touch_slices(list), processing in
// list order and capping at Config.NumberOfSlicesToProcess (the
// SPEC_FULL-resolved cap on this otherwise-unbounded input).
func (s *State) TouchSlices(leaves []avl.Id) (TouchSlicesResult, error) {
	process := leaves
	var skipped []avl.Id
	if len(leaves) > s.Config.NumberOfSlicesToProcess {
		process = leaves[:s.Config.NumberOfSlicesToProcess]
		skipped = append(skipped, leaves[s.Config.NumberOfSlicesToProcess:]...)
	}
	result, err := s.drain(process)
	if err != nil {
		return TouchSlicesResult{}, err
	}
	result.Skipped = skipped
	return result, nil
}

// TouchOldestSlices implements spec §4.D's touch_oldest(max). Per
// spec §4.D's own caveat ("an implementation may choose the oldest
// tree instead, provided FIFO over the drain is preserved"), this
// walks from completed.oldest rather than completed.youngest: each
// pop_front is read fresh off the current oldest lot, and when a lot
// empties, unlinkCompleted (invoked by PopCompletedSlice) advances
// completed.oldest for the next iteration.
func (s *State) TouchOldestSlices(max int) (TouchSlicesResult, error) {
	if max > s.Config.NumberOfSlicesToProcess {
		max = s.Config.NumberOfSlicesToProcess
	}
	byLot := map[avl.TreeId]AuctionOutcome{}
	order := []avl.TreeId{}
	slicesByLot := map[avl.TreeId][]burrow.SliceContents{}

	for i := 0; i < max; i++ {
		if !s.Completed.OK {
			break
		}
		leaf, _, ok := s.Tree.PeekFront(s.Completed.Val.Oldest)
		if !ok {
			break
		}
		contents, outcome, root, err := s.PopCompletedSlice(leaf)
		if err != nil {
			return TouchSlicesResult{}, err
		}
		if _, seen := byLot[root]; !seen {
			byLot[root] = outcome
			order = append(order, root)
		}
		slicesByLot[root] = append(slicesByLot[root], contents)
	}
	return settleLots(s.Config, byLot, order, slicesByLot), nil
}

// drain pops each leaf in order, grouping the resulting settlements by
// lot, and is TouchSlices' core (TouchOldestSlices pops from the oldest
// lot with its own loop and does not go through drain).
// Per spec §7 ("errors... cause no state change"), every leaf is
// validated as belonging to a completed lot before any of them are
// popped, so a bad leaf anywhere in the list fails the whole batch
// without touching state. This includes rejecting a leaf id repeated
// in the same batch: TouchSlices/TouchOldestSlices are dispatched with
// no sender check, so a caller-supplied duplicate must fail cleanly
// here rather than reach PopCompletedSlice a second time against a
// leaf the first occurrence already freed.
func (s *State) drain(leaves []avl.Id) (TouchSlicesResult, error) {
	seen := make(map[avl.Id]bool, len(leaves))
	for _, leaf := range leaves {
		if seen[leaf] {
			return TouchSlicesResult{}, ErrDuplicateSliceInBatch
		}
		seen[leaf] = true
		root := s.Tree.FindRoot(leaf)
		if s.Tree.RootData(root) == nil {
			return TouchSlicesResult{}, ErrNotACompletedSlice
		}
	}

	byLot := map[avl.TreeId]AuctionOutcome{}
	order := []avl.TreeId{}
	slicesByLot := map[avl.TreeId][]burrow.SliceContents{}

	for _, leaf := range leaves {
		contents, outcome, root, err := s.PopCompletedSlice(leaf)
		if err != nil {
			return TouchSlicesResult{}, err
		}
		if _, seen := byLot[root]; !seen {
			byLot[root] = outcome
			order = append(order, root)
		}
		slicesByLot[root] = append(slicesByLot[root], contents)
	}
	return settleLots(s.Config, byLot, order, slicesByLot), nil
}

func settleLots(cfg Config, byLot map[avl.TreeId]AuctionOutcome, order []avl.TreeId, slicesByLot map[avl.TreeId][]burrow.SliceContents) TouchSlicesResult {
	var result TouchSlicesResult
	for _, root := range order {
		outcome := byLot[root]
		settlements, burn := settleLot(cfg, outcome.WinningBid.Kit, outcome.SoldTez, slicesByLot[root])
		result.Settlements = append(result.Settlements, settlements...)
		result.TotalBurn += burn
	}
	return result
}

// EnsureNoUnclaimedSlices implements the SPEC_FULL-specified
// reconciliation guard: no slice in burrow's chain may still be
// resident in a completed (i.e. root-data-bearing) tree.
func (s *State) EnsureNoUnclaimedSlices(addr money.Address) error {
	head, ok := s.BurrowSlices[addr]
	if !ok {
		return nil
	}
	cur := head.Oldest
	for {
		root := s.Tree.FindRoot(cur)
		if s.Tree.RootData(root) != nil {
			return ErrBurrowHasCompletedLiquidation
		}
		slice := s.Tree.ReadLeaf(cur)
		if !slice.Younger.OK {
			break
		}
		cur = slice.Younger.Val
	}
	return nil
}
