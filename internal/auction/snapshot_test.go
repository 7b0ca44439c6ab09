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

func TestSnapshotRoundTripQueued(t *testing.T) {
	t.Parallel()
	s := auction.NewState(testConfig())

	_, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 3, MinKitForUnwarranted: 1})
	require.NoError(t, err)
	_, err = s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 4, MinKitForUnwarranted: 1})
	require.NoError(t, err)

	snap := s.Snapshot()
	restored := auction.Restore(snap)

	require.Equal(t, s.QueuedCount, restored.QueuedCount)
	require.Equal(t, s.Tree.Weight(s.Queued), restored.Tree.Weight(restored.Queued))
	require.Equal(t, s.Tree.Count(s.Queued), restored.Tree.Count(restored.Queued))

	leaf, v, ok := restored.Tree.PeekFront(restored.Queued)
	require.True(t, ok)
	require.Equal(t, money.Mutez(3), v.Contents.Tez)
	require.False(t, v.Older.OK)
	require.True(t, v.Younger.OK)

	back, v2, ok := restored.Tree.PeekBack(restored.Queued)
	require.True(t, ok)
	require.Equal(t, money.Mutez(4), v2.Contents.Tez)
	require.True(t, v2.Older.OK)
	require.Equal(t, leaf, v2.Older.Val)
	require.False(t, v2.Younger.OK)
	_ = back

	head := restored.BurrowSlices["b"]
	require.Equal(t, leaf, head.Oldest)
	require.Equal(t, back, head.Youngest)
}

func TestSnapshotRoundTripCurrentAndCompleted(t *testing.T) {
	t.Parallel()
	s := auction.NewState(testConfig())

	_, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 10, MinKitForUnwarranted: 5})
	require.NoError(t, err)
	s.Touch(0, 0, fixedpoint.NewRatio(1, 2))
	require.True(t, s.Current.OK)

	_, err = s.PlaceBid(0, 0, "bidder1", 6)
	require.NoError(t, err)

	completed := s.CompleteIfPossible(2000, 100)
	require.True(t, completed)
	require.True(t, s.Completed.OK)

	snap := s.Snapshot()
	restored := auction.Restore(snap)

	require.True(t, restored.Completed.OK)
	require.Equal(t, restored.Completed.Val.Oldest, restored.Completed.Val.Youngest)
	outcome := restored.Tree.RootData(restored.Completed.Val.Oldest)
	require.NotNil(t, outcome)
	require.Equal(t, money.Kit(6), outcome.WinningBid.Kit)
	require.Equal(t, money.Address("bidder1"), outcome.WinningBid.Address)
	require.Equal(t, money.Mutez(10), outcome.SoldTez)
	require.False(t, outcome.OlderAuction.OK)
	require.False(t, outcome.YoungerAuction.OK)

	leaf, v, ok := restored.Tree.PeekFront(restored.Completed.Val.Oldest)
	require.True(t, ok)
	require.Equal(t, money.Mutez(10), v.Contents.Tez)
	require.False(t, v.Older.OK)
	require.False(t, v.Younger.OK)
	_ = leaf
}
