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

// SendSliceToAuction implements spec §4.C's send_to_auction entrypoint
// including the §4.D queue-height guard.
func (s *State) SendSliceToAuction(contents burrow.SliceContents) (avl.Id, error) {
	if s.QueuedCount >= s.Config.MaxQueueHeight {
		return 0, ErrQueueTooLong
	}
	leaf := burrow.SendToAuction(s.Tree, s.Queued, s.BurrowSlices, contents)
	s.QueuedCount++
	return leaf, nil
}

// CancelSlice implements spec §4.D's cancel_slice. The caller is
// responsible for having checked the leaf is actually queued;
// CancelSliceChecked is the safe, error-returning variant used by the
// dispatcher.
func (s *State) CancelSlice(leaf avl.Id) (burrow.SliceContents, error) {
	contents, root := burrow.PopSlice(s.Tree, s.BurrowSlices, leaf)
	if root != s.Queued {
		invariantViolation("CancelSlice popped from %v, not Queued %v", root, s.Queued)
	}
	s.QueuedCount--
	return contents, nil
}

// CancelSliceChecked is the dispatcher-facing variant that returns
// ErrUnwarrantedCancellation instead of panicking, by checking root
// membership before popping.
func (s *State) CancelSliceChecked(leaf avl.Id) (burrow.SliceContents, error) {
	if s.Tree.FindRoot(leaf) != s.Queued {
		return burrow.SliceContents{}, ErrUnwarrantedCancellation
	}
	contents, _ := burrow.PopSlice(s.Tree, s.BurrowSlices, leaf)
	s.QueuedCount--
	return contents, nil
}

// Touch implements spec §4.D's touch(price): complete-then-start,
// idempotent if nothing is due.
func (s *State) Touch(now money.Timestamp, block money.BlockHeight, startPrice fixedpoint.Ratio) {
	s.CompleteIfPossible(now, block)
	s.StartIfPossible(now, startPrice)
}

// CompleteIfPossible implements spec §4.D's complete_if_possible.
func (s *State) CompleteIfPossible(now money.Timestamp, block money.BlockHeight) bool {
	if !s.Current.OK {
		return false
	}
	cur := s.Current.Val
	if !s.isComplete(cur.State, now, block) {
		return false
	}

	outcome := AuctionOutcome{
		WinningBid: cur.State.Leading,
		SoldTez:    money.Mutez(s.Tree.Weight(cur.Tree)),
	}
	if s.Completed.OK {
		outcome.OlderAuction = containers.Optional[avl.TreeId]{OK: true, Val: s.Completed.Val.Youngest}
	}

	if s.Tree.RootData(cur.Tree) != nil {
		invariantViolation("CompleteIfPossible: tree %v already has root-data", cur.Tree)
	}
	s.Tree.ModifyRootData(cur.Tree, func(*AuctionOutcome) *AuctionOutcome {
		o := outcome
		return &o
	})

	if s.Completed.OK {
		prevYoungest := s.Completed.Val.Youngest
		s.Tree.ModifyRootData(prevYoungest, func(o *AuctionOutcome) *AuctionOutcome {
			o.YoungerAuction = containers.Optional[avl.TreeId]{OK: true, Val: cur.Tree}
			return o
		})
		s.Completed.Val.Youngest = cur.Tree
	} else {
		s.Completed = containers.Optional[CompletedAuctionsHead]{OK: true, Val: CompletedAuctionsHead{
			Youngest: cur.Tree,
			Oldest:   cur.Tree,
		}}
	}

	s.Current = containers.Optional[CurrentAuction]{}
	return true
}

func (s *State) isComplete(state CurrentAuctionState, now money.Timestamp, block money.BlockHeight) bool {
	if state.Phase == Descending {
		return false
	}
	return int64(now-state.BidTime) > s.Config.BidIntervalSec &&
		int64(block-state.BidBlock) > s.Config.BidIntervalBlocks
}

// StartIfPossible implements spec §4.D's start_if_possible, including
// take_with_splitting.
func (s *State) StartIfPossible(now money.Timestamp, startPrice fixedpoint.Ratio) {
	if s.Current.OK {
		return
	}

	queuedWeight := s.Tree.Weight(s.Queued)
	if queuedWeight == 0 {
		return
	}
	byFraction := fixedpoint.NewRatio(queuedWeight, 1).Mul(s.Config.MinLotQueueFraction).Round(fixedpoint.Floor)
	splitThreshold := max(int64(s.Config.MaxLotSize), byFraction)

	newTree := s.takeWithSplitting(splitThreshold)

	if s.Tree.IsEmpty(newTree) {
		s.Tree.DeleteEmptyTree(newTree)
		return
	}

	// spec §4.D: start_value = ceil(weight(new) * price.num / (KIT_SCALING_FACTOR * price.den)),
	// the KIT_SCALING_FACTOR term converting the mutez-denominated
	// weight into kit's own scaled-integer units.
	startValue := money.Kit(fixedpoint.NewRatio(s.Tree.Weight(newTree), s.Config.KitScalingFactor).
		Mul(startPrice).Round(fixedpoint.Ceil))
	s.Current = containers.Optional[CurrentAuction]{OK: true, Val: CurrentAuction{
		Tree: newTree,
		State: CurrentAuctionState{
			Phase:      Descending,
			StartValue: startValue,
			StartTime:  now,
		},
	}}
}

// takeWithSplitting is spec §4.D's take_with_splitting: extract a
// prefix of s.Queued weighing as close to threshold as possible
// without dividing a leaf, splitting the boundary slice if doing so
// gets closer to the threshold than leaving it whole in the queue.
func (s *State) takeWithSplitting(threshold int64) avl.TreeId {
	newTree := s.Tree.Take(s.Queued, threshold)
	s.QueuedCount -= int(s.Tree.Count(newTree))
	got := s.Tree.Weight(newTree)
	if got >= threshold {
		return newTree
	}

	leaf, slice, ok := s.Tree.PeekFront(s.Queued)
	if !ok {
		return newTree
	}
	needed := threshold - got
	// Take's greedy split only stops short of threshold because the next
	// leaf doesn't fit whole, so by construction needed < slice.Contents.Tez
	// here; this branch is defensive in case that invariant ever changes.
	if needed >= int64(slice.Contents.Tez) {
		s.Tree.PopFront(s.Queued)
		s.QueuedCount--
		moved := s.Tree.Push(newTree, slice, avl.Right)
		rewireMovedWhole(s, slice, moved)
		return newTree
	}

	burrow.PopSlice(s.Tree, s.BurrowSlices, leaf)
	s.QueuedCount--
	left, right := burrow.Split(slice, money.Mutez(needed))

	leftLeaf := s.Tree.Push(newTree, left, avl.Right)
	rightLeaf := s.Tree.Push(s.Queued, right, avl.Left)
	s.QueuedCount++
	burrow.FixupSplitLinks(s.Tree, s.BurrowSlices, slice.Contents.Burrow, slice, leftLeaf, rightLeaf)

	return newTree
}

// rewireMovedWhole fixes up the burrow-chain neighbor pointers after a
// whole slice is popped from one tree and pushed to another: Push
// assigns the moved value a brand new leaf id, so any neighbor still
// naming the old id must be updated to the new one.
func rewireMovedWhole(s *State, orig burrow.Slice, newLeaf avl.Id) {
	if orig.Older.OK {
		s.Tree.UpdateLeaf(orig.Older.Val, func(v burrow.Slice) burrow.Slice {
			v.Younger = containers.Optional[avl.Id]{OK: true, Val: newLeaf}
			return v
		})
	}
	if orig.Younger.OK {
		s.Tree.UpdateLeaf(orig.Younger.Val, func(v burrow.Slice) burrow.Slice {
			v.Older = containers.Optional[avl.Id]{OK: true, Val: newLeaf}
			return v
		})
	}
	head := s.BurrowSlices[orig.Contents.Burrow]
	if !orig.Older.OK {
		head.Oldest = newLeaf
	}
	if !orig.Younger.OK {
		head.Youngest = newLeaf
	}
	s.BurrowSlices[orig.Contents.Burrow] = head
}
