// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package burrow implements the per-burrow slice chain of spec §4.C:
// a doubly-linked list overlaid on internal/avl leaves via
// older/younger ids, plus the operations that keep it consistent when
// a slice is appended, split, or removed.
//
// Implementation note on Left/Right convention: spec §4.C flags (and
// its own source acknowledges as confusing) that push(Left) makes a
// leaf the "newest" insertion, without pinning down which end
// PopFront/Take then read from. This package fixes that ambiguity the
// straightforward way: avl.Left is the front of the FIFO (oldest,
// read first by PopFront and by the prefix side of Take), avl.Right is
// the back (newest arrivals). SendToAuction appends new slices with
// avl.Right accordingly. See DESIGN.md for this decision's rationale.
package burrow

import (
	"fmt"

	"github.com/emturner/checker/internal/avl"
	"github.com/emturner/checker/internal/fixedpoint"
	"github.com/emturner/checker/internal/money"
	"github.com/emturner/checker/lib/containers"
)

// SliceContents is spec §3's SliceContents: the payload a Minter
// submits when sending collateral to auction.
type SliceContents struct {
	Burrow               money.Address
	Tez                  money.Mutez
	MinKitForUnwarranted money.Kit
}

// Slice is spec §3's leaf payload.
type Slice struct {
	Contents SliceContents
	Older    containers.Optional[avl.Id]
	Younger  containers.Optional[avl.Id]
}

// Weight is the avl.Tree weightFn for a tree of Slices: the tez amount.
func Weight(s Slice) int64 { return int64(s.Contents.Tez) }

// Head is spec §3's BurrowSlicesHead: it exists for a burrow iff that
// burrow currently has >=1 slice anywhere in the engine's trees.
type Head struct {
	Oldest   avl.Id
	Youngest avl.Id
}

// SendToAuction implements spec §4.C's send_to_auction: pushes a new
// slice onto the back of queued and splices it onto the end of its
// burrow's chain. heads is the engine's burrow_slices map, mutated in
// place. The MAX_QUEUE_HEIGHT guard (spec §4.C step 1) is the caller's
// responsibility (internal/auction.State.SendSliceToAuction), since it
// needs the queue's current occupancy, which this package has no
// reason to track.
func SendToAuction[R any](tree *avl.Tree[Slice, R], queued avl.TreeId, heads map[money.Address]Head, contents SliceContents) avl.Id {
	head, exists := heads[contents.Burrow]

	slice := Slice{Contents: contents}
	if exists {
		slice.Older = containers.Optional[avl.Id]{OK: true, Val: head.Youngest}
	}

	leaf := tree.Push(queued, slice, avl.Right)

	if exists {
		tree.UpdateLeaf(head.Youngest, func(s Slice) Slice {
			s.Younger = containers.Optional[avl.Id]{OK: true, Val: leaf}
			return s
		})
		head.Youngest = leaf
	} else {
		head = Head{Oldest: leaf, Youngest: leaf}
	}
	heads[contents.Burrow] = head
	return leaf
}

// PopSlice implements spec §4.C's pop_slice: removes leaf from
// whatever tree contains it, splices it out of its burrow's chain, and
// reports the tree it came from (so the caller can tell e.g. whether
// that was the queue, for cancellation's UnwarrantedCancellation
// check).
func PopSlice[R any](tree *avl.Tree[Slice, R], heads map[money.Address]Head, leaf avl.Id) (SliceContents, avl.TreeId) {
	slice := tree.ReadLeaf(leaf)
	root := tree.Del(leaf)

	head := heads[slice.Contents.Burrow]
	switch {
	case slice.Older.OK && slice.Younger.OK:
		// interior: head unchanged, just splice neighbors together.
	case slice.Younger.OK && !slice.Older.OK:
		head.Oldest = slice.Younger.Val
	case slice.Older.OK && !slice.Younger.OK:
		head.Youngest = slice.Older.Val
	default:
		delete(heads, slice.Contents.Burrow)
	}
	if slice.Older.OK || slice.Younger.OK {
		heads[slice.Contents.Burrow] = head
	}

	if slice.Older.OK {
		older := slice.Older.Val
		tree.UpdateLeaf(older, func(s Slice) Slice {
			s.Younger = slice.Younger
			return s
		})
	}
	if slice.Younger.OK {
		younger := slice.Younger.Val
		tree.UpdateLeaf(younger, func(s Slice) Slice {
			s.Older = slice.Older
			return s
		})
	}

	return slice.Contents, root
}

// Split implements spec §4.D's slice-splitting formula as a pure value
// transform over a detached Slice (one already popped out of whatever
// tree held it): it does not itself push anything. The caller pushes
// both returned halves as fresh leaves and then calls FixupSplitLinks
// to relink the burrow chain around them, per §9's resolved
// pointer-fixup open question: left inherits the original's older
// pointer, right's older becomes left's new leaf id, and whatever was
// originally younger than the original slice has its older rewritten
// to right's new leaf id. Both halves keep the original's burrow.
// amount must satisfy 0 < amount < orig's tez.
func Split(orig Slice, amount money.Mutez) (left, right Slice) {
	if amount <= 0 || amount >= orig.Contents.Tez {
		panic(fmt.Errorf("burrow: invariant violation: Split amount %d out of range for slice of %d", amount, orig.Contents.Tez))
	}

	ltez := amount
	rtez := orig.Contents.Tez - amount
	lkit := money.Kit(fixedpoint.MulDivInt64(int64(orig.Contents.MinKitForUnwarranted), int64(ltez), int64(orig.Contents.Tez), fixedpoint.Ceil))
	rkit := money.Kit(fixedpoint.MulDivInt64(int64(orig.Contents.MinKitForUnwarranted), int64(rtez), int64(orig.Contents.Tez), fixedpoint.Ceil))

	left = Slice{
		Contents: SliceContents{Burrow: orig.Contents.Burrow, Tez: ltez, MinKitForUnwarranted: lkit},
		Older:    orig.Older,
	}
	right = Slice{
		Contents: SliceContents{Burrow: orig.Contents.Burrow, Tez: rtez, MinKitForUnwarranted: rkit},
		Younger:  orig.Younger,
	}
	return left, right
}

// FixupSplitLinks links leftLeaf and rightLeaf (the ids Split's two
// halves were pushed under) to each other and to whatever neighbors
// the original slice had, and updates heads if the original was the
// chain's oldest or youngest. orig is the pre-split Slice value
// (carrying the original older/younger before Split cleared one side
// of each half).
func FixupSplitLinks[R any](tree *avl.Tree[Slice, R], heads map[money.Address]Head, burrow money.Address, orig Slice, leftLeaf, rightLeaf avl.Id) {
	tree.UpdateLeaf(leftLeaf, func(s Slice) Slice {
		s.Younger = containers.Optional[avl.Id]{OK: true, Val: rightLeaf}
		return s
	})
	tree.UpdateLeaf(rightLeaf, func(s Slice) Slice {
		s.Older = containers.Optional[avl.Id]{OK: true, Val: leftLeaf}
		return s
	})
	if orig.Older.OK {
		tree.UpdateLeaf(orig.Older.Val, func(s Slice) Slice {
			s.Younger = containers.Optional[avl.Id]{OK: true, Val: leftLeaf}
			return s
		})
	}
	if orig.Younger.OK {
		tree.UpdateLeaf(orig.Younger.Val, func(s Slice) Slice {
			s.Older = containers.Optional[avl.Id]{OK: true, Val: rightLeaf}
			return s
		})
	}

	head := heads[burrow]
	if !orig.Older.OK {
		head.Oldest = leftLeaf
	}
	if !orig.Younger.OK {
		head.Youngest = rightLeaf
	}
	heads[burrow] = head
}
