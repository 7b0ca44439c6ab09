// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package auction

import (
	"math/big"

	"github.com/emturner/checker/internal/fixedpoint"
	"github.com/emturner/checker/internal/money"
	"github.com/emturner/checker/lib/containers"
)

// onePlus returns 1+r, the mirror of Ratio.Complement's 1-r.
func onePlus(r fixedpoint.Ratio) fixedpoint.Ratio {
	return fixedpoint.Ratio{
		Num: new(big.Int).Add(r.Den, r.Num),
		Den: new(big.Int).Set(r.Den),
	}
}

// CurrentMinBid implements spec §4.D's current_min_bid.
func (s *State) CurrentMinBid(now money.Timestamp) (money.Kit, error) {
	if !s.Current.OK {
		return 0, ErrNoOpenAuction
	}
	state := s.Current.Val.State
	switch state.Phase {
	case Descending:
		elapsed := int64(now - state.StartTime)
		decayed := fixedpoint.NewRatio(int64(state.StartValue), 1).
			Mul(s.Config.AuctionDecayRate.Complement().Pow(uint64(max(elapsed, 0))))
		return money.Kit(decayed.Round(fixedpoint.Ceil)), nil
	case Ascending:
		improved := fixedpoint.NewRatio(int64(state.Leading.Kit), 1).Mul(onePlus(s.Config.BidImprovementFactor))
		return money.Kit(improved.Round(fixedpoint.Ceil)), nil
	default:
		invariantViolation("CurrentMinBid: unknown phase %v", state.Phase)
		return 0, nil
	}
}

// PlaceBid implements spec §4.D's place_bid.
func (s *State) PlaceBid(now money.Timestamp, block money.BlockHeight, bidder money.Address, kit money.Kit) (BidHandle, error) {
	if !s.Current.OK {
		return BidHandle{}, ErrNoOpenAuction
	}
	minBid, err := s.CurrentMinBid(now)
	if err != nil {
		return BidHandle{}, err
	}
	if kit < minBid {
		return BidHandle{}, ErrBidTooLow
	}

	bid := Bid{Address: bidder, Kit: kit}
	cur := s.Current.Val
	cur.State = CurrentAuctionState{
		Phase:    Ascending,
		Leading:  bid,
		BidTime:  now,
		BidBlock: block,
	}
	s.Current = containers.Optional[CurrentAuction]{OK: true, Val: cur}
	return BidHandle{AuctionID: cur.Tree, Bid: bid}, nil
}

// IsLeading implements spec §4.D's is_leading.
func (s *State) IsLeading(handle BidHandle) bool {
	if !s.Current.OK {
		return false
	}
	cur := s.Current.Val
	return cur.Tree == handle.AuctionID &&
		cur.State.Phase == Ascending &&
		cur.State.Leading == handle.Bid
}

// ReclaimLosingBid implements spec §4.D's reclaim_losing_bid.
//
// The auction's tree may already be gone by the time a loser calls
// this: nothing requires the winner to reclaim after every loser, so
// ReclaimWinningBid may have already freed handle.AuctionID via
// DeleteEmptyTree. That's an ordinary "not a winning bid" outcome, not
// an invariant violation, so this looks up the root-data without
// panicking on a dangling id.
func (s *State) ReclaimLosingBid(handle BidHandle) (money.Kit, error) {
	if s.IsLeading(handle) {
		return 0, ErrCannotReclaimLeadingBid
	}
	if outcome, ok := s.Tree.TryRootData(handle.AuctionID); ok && outcome != nil && outcome.WinningBid == handle.Bid {
		return 0, ErrCannotReclaimWinningBid
	}
	return handle.Bid.Kit, nil
}

// ReclaimWinningBid implements spec §4.D's reclaim_winning_bid.
func (s *State) ReclaimWinningBid(handle BidHandle) (money.Mutez, error) {
	outcome, ok := s.Tree.TryRootData(handle.AuctionID)
	if !ok || outcome == nil || outcome.WinningBid != handle.Bid {
		return 0, ErrNotAWinningBid
	}
	if !s.Tree.IsEmpty(handle.AuctionID) {
		return 0, ErrNotAllSlicesClaimed
	}
	// PopCompletedSlice already unlinked this tree from the completed
	// list the moment its last leaf drained (a tree can only reach
	// IsEmpty via that path), so only the Root node itself remains to
	// be freed here.
	soldTez := outcome.SoldTez
	s.Tree.ModifyRootData(handle.AuctionID, func(*AuctionOutcome) *AuctionOutcome { return nil })
	s.Tree.DeleteEmptyTree(handle.AuctionID)
	return soldTez, nil
}
