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
	"github.com/emturner/checker/internal/money"
)

func testConfig() auction.Config {
	cfg := auction.DefaultConfig()
	cfg.MaxLotSize = 10
	cfg.MinLotQueueFraction = fixedpoint.NewRatio(100, 100)
	cfg.KitScalingFactor = 1 // tests work in whole-kit units, not KIT_SCALING_FACTOR-scaled ones.
	return cfg
}

// TestSendThenCancelRestoresQueue mirrors scenario S2.
func TestSendThenCancelRestoresQueue(t *testing.T) {
	t.Parallel()
	s := auction.NewState(testConfig())

	leaf, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 5, MinKitForUnwarranted: 10})
	require.NoError(t, err)

	contents, err := s.CancelSliceChecked(leaf)
	require.NoError(t, err)
	require.Equal(t, money.Mutez(5), contents.Tez)
	require.True(t, s.Tree.IsEmpty(s.Queued))
	require.Equal(t, 0, s.QueuedCount)
}

// TestStartSplitsBoundarySlice mirrors scenario S3: queue holds one
// 12-tez slice, MAX_LOT_SIZE=10, touch splits it into (10,2).
func TestStartSplitsBoundarySlice(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MaxLotSize = 10
	cfg.MinLotQueueFraction = fixedpoint.NewRatio(0, 100)
	s := auction.NewState(cfg)

	_, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 12, MinKitForUnwarranted: 7})
	require.NoError(t, err)

	s.StartIfPossible(0, fixedpoint.NewRatio(1, 1))
	require.True(t, s.Current.OK)

	cur := s.Current.Val
	require.Equal(t, int64(10), s.Tree.Weight(cur.Tree))
	require.Equal(t, int64(2), s.Tree.Weight(s.Queued))

	leaf, _, ok := s.Tree.PeekFront(cur.Tree)
	require.True(t, ok)
	left := s.Tree.ReadLeaf(leaf)
	rleaf, _, ok := s.Tree.PeekFront(s.Queued)
	require.True(t, ok)
	right := s.Tree.ReadLeaf(rleaf)

	require.GreaterOrEqual(t, int64(left.Contents.MinKitForUnwarranted+right.Contents.MinKitForUnwarranted), int64(7))
}

// TestQueueTooLongRejectsSend exercises invariant I5 (queue height
// bound) via the maintained QueuedCount guard.
func TestQueueTooLongRejectsSend(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MaxQueueHeight = 1
	s := auction.NewState(cfg)

	_, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 1})
	require.NoError(t, err)

	_, err = s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 1})
	require.ErrorIs(t, err, auction.ErrQueueTooLong)
}

func TestCancelNonQueuedSliceRejected(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MaxLotSize = 1
	cfg.MinLotQueueFraction = fixedpoint.NewRatio(0, 100)
	s := auction.NewState(cfg)

	leaf, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 1})
	require.NoError(t, err)
	s.StartIfPossible(0, fixedpoint.NewRatio(1, 1))
	require.True(t, s.Current.OK)

	_, err = s.CancelSliceChecked(leaf)
	require.ErrorIs(t, err, auction.ErrUnwarrantedCancellation)
}
