// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package auction_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/fixedpoint"
)

func startedAuction(t *testing.T, startKit int64) *auction.State {
	t.Helper()
	cfg := testConfig()
	cfg.MaxLotSize = 100
	cfg.MinLotQueueFraction = fixedpoint.NewRatio(0, 100)
	cfg.AuctionDecayRate = fixedpoint.NewRatio(1, 3600)
	cfg.BidImprovementFactor = fixedpoint.NewRatio(5, 100)
	s := auction.NewState(cfg)

	_, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 1, MinKitForUnwarranted: 1})
	require.NoError(t, err)
	s.StartIfPossible(0, fixedpoint.NewRatio(startKit, 1))
	require.True(t, s.Current.OK)
	return s
}

// TestDescendThenAscend mirrors scenario S4.
func TestDescendThenAscend(t *testing.T) {
	t.Parallel()
	s := startedAuction(t, 100)

	minAt3600, err := s.CurrentMinBid(3600)
	require.NoError(t, err)
	// 100*(1-1/3600)^3600 ~= 36.78, our ceil rounding yields 37.
	require.LessOrEqual(t, int64(minAt3600), int64(37))
	require.GreaterOrEqual(t, int64(minAt3600), int64(36))

	_, err = s.PlaceBid(3600, 1, "bidder1", 39)
	require.ErrorIs(t, err, auction.ErrBidTooLow)

	handle, err := s.PlaceBid(3600, 1, "bidder1", 40)
	require.NoError(t, err)
	require.True(t, s.IsLeading(handle))

	minNext, err := s.CurrentMinBid(3600)
	require.NoError(t, err)
	require.Equal(t, int64(42), int64(minNext)) // ceil(40*1.05)=42

	_, err = s.PlaceBid(3600, 1, "bidder2", 41)
	require.ErrorIs(t, err, auction.ErrBidTooLow)

	handle2, err := s.PlaceBid(3600, 1, "bidder2", 42)
	require.NoError(t, err)
	require.True(t, s.IsLeading(handle2))
	require.False(t, s.IsLeading(handle))
}

func TestReclaimLosingBid(t *testing.T) {
	t.Parallel()
	s := startedAuction(t, 100)
	handle, err := s.PlaceBid(3600, 1, "bidder1", 40)
	require.NoError(t, err)

	_, err = s.ReclaimLosingBid(handle)
	require.ErrorIs(t, err, auction.ErrCannotReclaimLeadingBid)

	handle2, err := s.PlaceBid(3600, 1, "bidder2", 42)
	require.NoError(t, err)

	kit, err := s.ReclaimLosingBid(handle)
	require.NoError(t, err)
	require.EqualValues(t, 40, kit)

	require.True(t, s.IsLeading(handle2))
}

func TestPlaceBidNoOpenAuction(t *testing.T) {
	t.Parallel()
	s := auction.NewState(testConfig())
	_, err := s.PlaceBid(0, 0, "bidder1", 10)
	require.ErrorIs(t, err, auction.ErrNoOpenAuction)
}

// TestReclaimLosingBidAfterWinnerFreesTree covers a loser reclaiming
// after the winner has already drained and reclaimed, which frees the
// tree the loser's handle still names via DeleteEmptyTree. Nothing in
// spec §4.D's reclaim_winning_bid requires losers to go first, so this
// must come back as an ordinary refund, not a panic on the freed id.
func TestReclaimLosingBidAfterWinnerFreesTree(t *testing.T) {
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

	losingHandle, err := s.PlaceBid(0, 0, "bidder1", 6)
	require.NoError(t, err)
	winningHandle, err := s.PlaceBid(0, 0, "bidder2", 7)
	require.NoError(t, err)

	s.CompleteIfPossible(1201, 21)
	require.True(t, s.Completed.OK)

	lotRoot := winningHandle.AuctionID
	leaf, _, ok := s.Tree.PeekFront(lotRoot)
	require.True(t, ok)
	_, _, _, err = s.PopCompletedSlice(leaf)
	require.NoError(t, err)

	_, err = s.ReclaimWinningBid(winningHandle)
	require.NoError(t, err)
	require.False(t, s.Completed.OK)

	kit, err := s.ReclaimLosingBid(losingHandle)
	require.NoError(t, err)
	require.EqualValues(t, 6, kit)
}

// TestReclaimWinningBidAfterTreeFreed covers a stale winning handle
// presented after the tree it names has already been freed (e.g. a
// double-submit of the same reclaim): it must report
// ErrNotAWinningBid rather than panic.
func TestReclaimWinningBidAfterTreeFreed(t *testing.T) {
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
	leaf, _, ok := s.Tree.PeekFront(handle.AuctionID)
	require.True(t, ok)
	_, _, _, err = s.PopCompletedSlice(leaf)
	require.NoError(t, err)

	_, err = s.ReclaimWinningBid(handle)
	require.NoError(t, err)

	_, err = s.ReclaimWinningBid(handle)
	require.ErrorIs(t, err, auction.ErrNotAWinningBid)
}
