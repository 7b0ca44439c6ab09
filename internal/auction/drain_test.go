// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package auction_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/avl"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/fixedpoint"
)

// TestCompletionAndDrain mirrors scenario S5.
func TestCompletionAndDrain(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MaxLotSize = 100
	cfg.MinLotQueueFraction = fixedpoint.NewRatio(0, 100)
	cfg.BidIntervalSec = 1200
	cfg.BidIntervalBlocks = 20
	s := auction.NewState(cfg)

	_, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 10, MinKitForUnwarranted: 5})
	require.NoError(t, err)
	s.StartIfPossible(0, fixedpoint.NewRatio(1, 2))
	require.True(t, s.Current.OK)

	_, err = s.PlaceBid(0, 0, "bidder1", 6)
	require.NoError(t, err)

	completed := s.CompleteIfPossible(1201, 21)
	require.True(t, completed)
	require.False(t, s.Current.OK)
	require.True(t, s.Completed.OK)

	lotRoot := s.Completed.Val.Youngest
	leaf, _, ok := s.Tree.PeekFront(lotRoot)
	require.True(t, ok)

	result, err := s.TouchSlices([]avl.Id{leaf})
	require.NoError(t, err)
	require.Len(t, result.Settlements, 1)
	// corresponding = floor(6*10/10) = 6 >= min(5) -> no penalty.
	require.EqualValues(t, 6, result.Settlements[0].Repay)
	require.EqualValues(t, 0, result.TotalBurn)
}

// TestWinnerReclaimRequiresFullDrain mirrors scenario S6.
func TestWinnerReclaimRequiresFullDrain(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MaxLotSize = 100
	cfg.MinLotQueueFraction = fixedpoint.NewRatio(0, 100)
	cfg.BidIntervalSec = 1200
	cfg.BidIntervalBlocks = 20
	s := auction.NewState(cfg)

	_, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 10, MinKitForUnwarranted: 5})
	require.NoError(t, err)
	s.StartIfPossible(0, fixedpoint.NewRatio(1, 2))

	handle, err := s.PlaceBid(0, 0, "bidder1", 6)
	require.NoError(t, err)

	s.CompleteIfPossible(1201, 21)
	require.True(t, s.Completed.OK)

	_, err = s.ReclaimWinningBid(handle)
	require.ErrorIs(t, err, auction.ErrNotAllSlicesClaimed)

	lotRoot := handle.AuctionID
	leaf, _, ok := s.Tree.PeekFront(lotRoot)
	require.True(t, ok)
	_, _, _, err = s.PopCompletedSlice(leaf)
	require.NoError(t, err)

	soldTez, err := s.ReclaimWinningBid(handle)
	require.NoError(t, err)
	require.EqualValues(t, 10, soldTez)
	require.False(t, s.Completed.OK)
}

// TestTouchSlicesRejectsDuplicateLeaf covers a caller-supplied leaf
// list that names the same slice twice. TouchSlices/TouchOldestSlices
// are dispatched with no sender check (dispatch.rolePublic), so any
// caller can build this batch; the second occurrence must fail
// cleanly instead of reading the arena id the first occurrence's pop
// already freed.
func TestTouchSlicesRejectsDuplicateLeaf(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MaxLotSize = 100
	cfg.MinLotQueueFraction = fixedpoint.NewRatio(0, 100)
	cfg.BidIntervalSec = 1200
	cfg.BidIntervalBlocks = 20
	s := auction.NewState(cfg)

	_, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 10, MinKitForUnwarranted: 5})
	require.NoError(t, err)
	s.StartIfPossible(0, fixedpoint.NewRatio(1, 2))

	_, err = s.PlaceBid(0, 0, "bidder1", 6)
	require.NoError(t, err)

	completed := s.CompleteIfPossible(1201, 21)
	require.True(t, completed)

	lotRoot := s.Completed.Val.Youngest
	leaf, _, ok := s.Tree.PeekFront(lotRoot)
	require.True(t, ok)

	_, err = s.TouchSlices([]avl.Id{leaf, leaf})
	require.ErrorIs(t, err, auction.ErrDuplicateSliceInBatch)

	// Rejected batch must leave state untouched: the leaf still drains
	// cleanly afterward.
	result, err := s.TouchSlices([]avl.Id{leaf})
	require.NoError(t, err)
	require.Len(t, result.Settlements, 1)
}
