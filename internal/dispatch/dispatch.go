// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package dispatch implements spec §4.F's dispatcher: a tagged Message
// over the nine entrypoints, dispatched against an internal/auction.State
// to produce a list of outbound Effect descriptors.
//
// Handle is the sole entrypoint, mirroring the teacher's cmd/btrfs-rec
// subcommand table (a map from a closed tag to a handler function)
// generalized from RunE funcs keyed by cobra subcommand name to
// transition funcs keyed by Kind.
package dispatch

import (
	"fmt"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/avl"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/fixedpoint"
	"github.com/emturner/checker/internal/money"
	"github.com/emturner/checker/lib/containers"
)

// Kind tags a Message, spec §4.F's nine variants.
type Kind int

const (
	KindTouch Kind = iota
	KindEnsureNoUnclaimedSlices
	KindSendSliceToAuction
	KindCancelLiquidationOfSlice
	KindTouchSlices
	KindTouchOldestSlices
	KindPlaceBid
	KindReclaimBid
	KindReclaimWinningBid
)

func (k Kind) String() string {
	switch k {
	case KindTouch:
		return "Touch"
	case KindEnsureNoUnclaimedSlices:
		return "EnsureNoUnclaimedSlices"
	case KindSendSliceToAuction:
		return "SendSliceToAuction"
	case KindCancelLiquidationOfSlice:
		return "CancelLiquidationOfSlice"
	case KindTouchSlices:
		return "TouchSlices"
	case KindTouchOldestSlices:
		return "TouchOldestSlices"
	case KindPlaceBid:
		return "PlaceBid"
	case KindReclaimBid:
		return "ReclaimBid"
	case KindReclaimWinningBid:
		return "ReclaimWinningBid"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Message is spec §4.F's tagged inbound message. Only the fields for
// the tagged Kind are meaningful, the same sum-type-via-struct shape
// internal/auction.CurrentAuctionState uses.
type Message struct {
	Kind Kind

	StartPrice fixedpoint.Ratio          // Touch
	Burrow     money.Address             // EnsureNoUnclaimedSlices
	Contents   burrow.SliceContents      // SendSliceToAuction
	Leaf       avl.Id                    // CancelLiquidationOfSlice
	Leaves     []avl.Id                  // TouchSlices
	Max        int                       // TouchOldestSlices
	Kit        money.Kit                 // PlaceBid
	Handle     auction.BidHandle         // ReclaimBid, ReclaimWinningBid
}

// Context is spec §6's host-provided, read-only-per-transition context.
type Context struct {
	Now         money.Timestamp
	BlockHeight money.BlockHeight
	Sender      money.Address
	SelfAddress money.Address
	Amount      money.Mutez
}

// role is spec §4.F's "checks the caller identity against expected
// role" step: which Address a message's Sender must match.
type role int

const (
	// roleSelf entrypoints are only ever invoked internally by the
	// auction's own owning contract (a burrow reporting its own
	// liquidation, the minter's own reconciliation check) — never by
	// an arbitrary external account.
	roleSelf role = iota
	// rolePublic entrypoints may be invoked by anyone; time- and
	// block-driven transitions and open bidding are public by design.
	rolePublic
	// roleBidder entrypoints require the sender to be the address on
	// the BidHandle being presented — only the bidder who placed a
	// bid may reclaim it.
	roleBidder
)

func (m Message) role() role {
	switch m.Kind {
	case KindEnsureNoUnclaimedSlices, KindSendSliceToAuction, KindCancelLiquidationOfSlice:
		return roleSelf
	case KindReclaimBid, KindReclaimWinningBid:
		return roleBidder
	default:
		return rolePublic
	}
}

var errUnauthorized = fmt.Errorf("dispatch: sender not authorized for this entrypoint")
var errPayableNotAllowed = fmt.Errorf("dispatch: this entrypoint does not accept an attached amount")

// Handle implements spec §4.F: authorizes ctx against msg's role,
// rejects attached value (no entrypoint in this domain is payable —
// tez/kit movement is accounted in SliceContents/Bid, not Context.Amount),
// applies the pure transition against state, and returns the effects it
// produced. state is mutated in place and returned as state' per
// internal/auction.State's existing "single owned value, mutated
// in-place" design (spec §5).
func Handle(ctx Context, state *auction.State, msg Message) (*auction.State, []Effect, error) {
	if ctx.Amount != 0 {
		return state, nil, errPayableNotAllowed
	}

	switch msg.role() {
	case roleSelf:
		if ctx.Sender != ctx.SelfAddress {
			return state, nil, errUnauthorized
		}
	case roleBidder:
		if ctx.Sender != msg.Handle.Bid.Address {
			return state, nil, errUnauthorized
		}
	}

	h, ok := handlers[msg.Kind]
	if !ok {
		return state, nil, fmt.Errorf("dispatch: unknown message kind %v", msg.Kind)
	}
	effects, err := h(ctx, state, msg)
	if err != nil {
		return state, nil, err
	}
	return state, effects, nil
}

type handlerFunc func(ctx Context, state *auction.State, msg Message) ([]Effect, error)

var handlers = map[Kind]handlerFunc{
	KindTouch:                    handleTouch,
	KindEnsureNoUnclaimedSlices:  handleEnsureNoUnclaimedSlices,
	KindSendSliceToAuction:       handleSendSliceToAuction,
	KindCancelLiquidationOfSlice: handleCancelLiquidationOfSlice,
	KindTouchSlices:              handleTouchSlices,
	KindTouchOldestSlices:        handleTouchOldestSlices,
	KindPlaceBid:                 handlePlaceBid,
	KindReclaimBid:               handleReclaimBid,
	KindReclaimWinningBid:        handleReclaimWinningBid,
}

func handleTouch(ctx Context, state *auction.State, msg Message) ([]Effect, error) {
	state.Touch(ctx.Now, ctx.BlockHeight, msg.StartPrice)
	return nil, nil
}

func handleEnsureNoUnclaimedSlices(_ Context, state *auction.State, msg Message) ([]Effect, error) {
	if err := state.EnsureNoUnclaimedSlices(msg.Burrow); err != nil {
		return nil, err
	}
	return nil, nil
}

func handleSendSliceToAuction(_ Context, state *auction.State, msg Message) ([]Effect, error) {
	if _, err := state.SendSliceToAuction(msg.Contents); err != nil {
		return nil, err
	}
	return nil, nil
}

func handleCancelLiquidationOfSlice(ctx Context, state *auction.State, msg Message) ([]Effect, error) {
	contents, err := state.CancelSliceChecked(msg.Leaf)
	if err != nil {
		return nil, err
	}
	var effects effectList
	effects.push(CallCancelSliceLiquidation{
		MinterAddr: contents.Burrow,
		Permission: ctx.Sender,
		Contents:   contents,
	})
	return effects.flatten(), nil
}

func handleTouchSlices(_ Context, state *auction.State, msg Message) ([]Effect, error) {
	result, err := state.TouchSlices(msg.Leaves)
	if err != nil {
		return nil, err
	}
	return settlementEffects(result), nil
}

func handleTouchOldestSlices(_ Context, state *auction.State, msg Message) ([]Effect, error) {
	result, err := state.TouchOldestSlices(msg.Max)
	if err != nil {
		return nil, err
	}
	return settlementEffects(result), nil
}

// settlementEffects groups a drain result's settlements by burrow and
// emits one CallTouchLiquidationSlices per burrow plus one
// CallBurrowSendSliceToChecker-style reconciliation is not needed here
// (that's the forward direction, §4.C); ordering follows spec §9's
// resolved bulk-drain ordering rule: slice-processing order, via
// containers.LinkedList rather than the teacher-acknowledged
// prepend-then-reverse FIXME.
func settlementEffects(result auction.TouchSlicesResult) []Effect {
	var effects effectList
	byMinter := map[money.Address][]settlementPair{}
	var order []money.Address
	for _, s := range result.Settlements {
		addr := s.Contents.Burrow
		if _, seen := byMinter[addr]; !seen {
			order = append(order, addr)
		}
		byMinter[addr] = append(byMinter[addr], settlementPair{Contents: s.Contents, Repay: s.Repay})
	}
	for _, addr := range order {
		effects.push(CallTouchLiquidationSlices{
			MinterAddr:     addr,
			SettlementData: byMinter[addr],
			TotalBurn:      result.TotalBurn,
		})
	}
	return effects.flatten()
}

func handlePlaceBid(ctx Context, state *auction.State, msg Message) ([]Effect, error) {
	handle, err := state.PlaceBid(ctx.Now, ctx.BlockHeight, ctx.Sender, msg.Kit)
	if err != nil {
		return nil, err
	}
	var effects effectList
	effects.push(CallTransferLABidTicket{BidderAddr: ctx.Sender, Handle: handle})
	return effects.flatten(), nil
}

func handleReclaimBid(_ Context, state *auction.State, msg Message) ([]Effect, error) {
	kit, err := state.ReclaimLosingBid(msg.Handle)
	if err != nil {
		return nil, err
	}
	var effects effectList
	effects.push(CallTransferKit{BidderAddr: msg.Handle.Bid.Address, Kit: kit})
	return effects.flatten(), nil
}

func handleReclaimWinningBid(_ Context, state *auction.State, msg Message) ([]Effect, error) {
	soldTez, err := state.ReclaimWinningBid(msg.Handle)
	if err != nil {
		return nil, err
	}
	var effects effectList
	effects.push(CallUnitTransfer{Addr: msg.Handle.Bid.Address, Tez: soldTez})
	return effects.flatten(), nil
}

// effectList accumulates Effects in a containers.LinkedList, per
// SPEC_FULL.md §4's resolved bulk-drain ordering open question: append
// is O(1) and Flatten walks Oldest->Newest, so effects are always
// reported in the order they were generated within one transition
// regardless of how many push calls a handler makes.
type effectList struct {
	list containers.LinkedList[Effect]
}

func (e *effectList) push(eff Effect) {
	e.list.Store(&containers.LinkedListEntry[Effect]{Value: eff})
}

func (e *effectList) flatten() []Effect {
	if e.list.IsEmpty() {
		return nil
	}
	out := make([]Effect, 0, e.list.Len)
	for entry := e.list.Oldest; entry != nil; entry = entry.Newer {
		out = append(out, entry.Value)
	}
	return out
}
