// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/avl"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/dispatch"
	"github.com/emturner/checker/internal/fixedpoint"
	"github.com/emturner/checker/internal/money"
)

func testConfig() auction.Config {
	cfg := auction.DefaultConfig()
	cfg.MaxLotSize = 100
	cfg.MinLotQueueFraction = fixedpoint.NewRatio(0, 100)
	cfg.KitScalingFactor = 1
	return cfg
}

const self = money.Address("checker")

func ctx(now money.Timestamp, sender money.Address) dispatch.Context {
	return dispatch.Context{Now: now, Sender: sender, SelfAddress: self}
}

func TestSendSliceRequiresSelf(t *testing.T) {
	t.Parallel()
	state := auction.NewState(testConfig())

	_, _, err := dispatch.Handle(ctx(0, "not-checker"), state, dispatch.Message{
		Kind:     dispatch.KindSendSliceToAuction,
		Contents: burrow.SliceContents{Burrow: "b", Tez: 5},
	})
	require.Error(t, err)

	_, effects, err := dispatch.Handle(ctx(0, self), state, dispatch.Message{
		Kind:     dispatch.KindSendSliceToAuction,
		Contents: burrow.SliceContents{Burrow: "b", Tez: 5},
	})
	require.NoError(t, err)
	require.Empty(t, effects)
}

func TestCancelLiquidationEmitsEffect(t *testing.T) {
	t.Parallel()
	state := auction.NewState(testConfig())

	_, _, err := dispatch.Handle(ctx(0, self), state, dispatch.Message{
		Kind:     dispatch.KindSendSliceToAuction,
		Contents: burrow.SliceContents{Burrow: "b", Tez: 5},
	})
	require.NoError(t, err)

	leaf, _, ok := state.Tree.PeekFront(state.Queued)
	require.True(t, ok)

	_, effects, err := dispatch.Handle(ctx(0, self), state, dispatch.Message{
		Kind: dispatch.KindCancelLiquidationOfSlice,
		Leaf: leaf,
	})
	require.NoError(t, err)
	require.Len(t, effects, 1)
	cancel, ok := effects[0].(dispatch.CallCancelSliceLiquidation)
	require.True(t, ok)
	require.EqualValues(t, 5, cancel.Contents.Tez)
	require.Equal(t, self, cancel.Permission)
}

func TestPlaceBidAndReclaimRoles(t *testing.T) {
	t.Parallel()
	state := auction.NewState(testConfig())
	_, _, err := dispatch.Handle(ctx(0, self), state, dispatch.Message{
		Kind:     dispatch.KindSendSliceToAuction,
		Contents: burrow.SliceContents{Burrow: "b", Tez: 10, MinKitForUnwarranted: 5},
	})
	require.NoError(t, err)
	_, _, err = dispatch.Handle(ctx(0, self), state, dispatch.Message{
		Kind:       dispatch.KindTouch,
		StartPrice: fixedpoint.NewRatio(1, 2),
	})
	require.NoError(t, err)
	require.True(t, state.Current.OK)

	_, effects, err := dispatch.Handle(ctx(0, "bidder1"), state, dispatch.Message{
		Kind: dispatch.KindPlaceBid,
		Kit:  6,
	})
	require.NoError(t, err)
	require.Len(t, effects, 1)
	ticket, ok := effects[0].(dispatch.CallTransferLABidTicket)
	require.True(t, ok)
	require.Equal(t, money.Address("bidder1"), ticket.BidderAddr)

	handle := ticket.Handle
	_, _, err = dispatch.Handle(ctx(0, "someone-else"), state, dispatch.Message{
		Kind:   dispatch.KindReclaimBid,
		Handle: handle,
	})
	require.Error(t, err)

	_, _, err = dispatch.Handle(ctx(0, "bidder1"), state, dispatch.Message{
		Kind:   dispatch.KindReclaimBid,
		Handle: handle,
	})
	require.ErrorIs(t, err, auction.ErrCannotReclaimLeadingBid)
}

func TestPayableRejected(t *testing.T) {
	t.Parallel()
	state := auction.NewState(testConfig())
	c := ctx(0, self)
	c.Amount = 1
	_, _, err := dispatch.Handle(c, state, dispatch.Message{
		Kind:     dispatch.KindSendSliceToAuction,
		Contents: burrow.SliceContents{Burrow: "b", Tez: 5},
	})
	require.Error(t, err)
}

func TestTouchSlicesEmitsGroupedEffect(t *testing.T) {
	t.Parallel()
	state := auction.NewState(testConfig())
	_, _, err := dispatch.Handle(ctx(0, self), state, dispatch.Message{
		Kind:     dispatch.KindSendSliceToAuction,
		Contents: burrow.SliceContents{Burrow: "b", Tez: 10, MinKitForUnwarranted: 5},
	})
	require.NoError(t, err)
	_, _, err = dispatch.Handle(ctx(0, self), state, dispatch.Message{
		Kind:       dispatch.KindTouch,
		StartPrice: fixedpoint.NewRatio(1, 2),
	})
	require.NoError(t, err)

	_, effects, err := dispatch.Handle(ctx(0, "bidder1"), state, dispatch.Message{Kind: dispatch.KindPlaceBid, Kit: 6})
	require.NoError(t, err)
	require.Len(t, effects, 1)

	completed := state.CompleteIfPossible(2000, 100)
	require.True(t, completed)

	lotRoot := state.Completed.Val.Youngest
	leaf, _, ok := state.Tree.PeekFront(lotRoot)
	require.True(t, ok)

	_, effects, err = dispatch.Handle(ctx(0, self), state, dispatch.Message{
		Kind:   dispatch.KindTouchSlices,
		Leaves: []avl.Id{leaf},
	})
	require.NoError(t, err)
	require.Len(t, effects, 1)
	settled, ok := effects[0].(dispatch.CallTouchLiquidationSlices)
	require.True(t, ok)
	require.Equal(t, money.Address("b"), settled.MinterAddr)
}
