// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package auction

import (
	"github.com/emturner/checker/internal/avl"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/money"
	"github.com/emturner/checker/lib/containers"
)

// Snapshot is a JSON-serializable copy of a State, for the CLI
// harness's load/save cycle (SPEC_FULL.md §5). internal/avl's Tree is
// arena-backed with unexported fields, so it cannot be marshaled
// directly; Snapshot instead flattens every leaf into one list and
// records cross-references as indices into that list, which survive a
// round trip even though the underlying avl.Id values a fresh Tree
// allocates on Restore will differ from the ones this snapshot was
// taken from.
type Snapshot struct {
	Leaves    []LeafSnapshot
	Queued    TreeSnapshot
	Current   *CurrentSnapshot
	Completed []CompletedSnapshot // oldest to youngest
	Config    Config
}

// LeafSnapshot is one slice, with its chain neighbors as indices into
// the owning Snapshot.Leaves (-1 for "no neighbor").
type LeafSnapshot struct {
	Contents   burrow.SliceContents
	OlderIdx   int
	YoungerIdx int
}

// TreeSnapshot is one avl tree's leaves, front to back, as indices
// into Snapshot.Leaves.
type TreeSnapshot struct {
	Leaves []int
}

// CurrentSnapshot is State.Current, minus the TreeId (Restore
// allocates a fresh one).
type CurrentSnapshot struct {
	Tree  TreeSnapshot
	State CurrentAuctionState
}

// CompletedSnapshot is one completed lot. OlderAuction/YoungerAuction
// are dropped from the embedded AuctionOutcome; Restore relinks the
// completed list purely from Snapshot.Completed's slice order, the
// same way CompleteIfPossible links a newly-completed lot to the
// previous youngest.
type CompletedSnapshot struct {
	Tree    TreeSnapshot
	Outcome AuctionOutcome
}

type walkedLeaf struct {
	id    avl.Id
	value burrow.Slice
}

// Snapshot captures s into a flattened, JSON-serializable form. s is
// not mutated.
func (s *State) Snapshot() Snapshot {
	var all []walkedLeaf
	index := map[avl.Id]int{}
	record := func(id avl.Id, v burrow.Slice) int {
		idx := len(all)
		all = append(all, walkedLeaf{id: id, value: v})
		index[id] = idx
		return idx
	}

	walkTree := func(tree avl.TreeId) TreeSnapshot {
		var ts TreeSnapshot
		s.Tree.Walk(tree, func(id avl.Id, v burrow.Slice) {
			ts.Leaves = append(ts.Leaves, record(id, v))
		})
		return ts
	}

	queued := walkTree(s.Queued)

	var current *CurrentSnapshot
	if s.Current.OK {
		current = &CurrentSnapshot{
			Tree:  walkTree(s.Current.Val.Tree),
			State: s.Current.Val.State,
		}
	}

	var completed []CompletedSnapshot
	if s.Completed.OK {
		for id := s.Completed.Val.Oldest; id != 0; {
			outcome := *s.Tree.RootData(id)
			cs := CompletedSnapshot{
				Tree: walkTree(id),
				Outcome: AuctionOutcome{
					WinningBid: outcome.WinningBid,
					SoldTez:    outcome.SoldTez,
				},
			}
			completed = append(completed, cs)
			if !outcome.YoungerAuction.OK {
				break
			}
			id = outcome.YoungerAuction.Val
		}
	}

	leaves := make([]LeafSnapshot, len(all))
	for i, w := range all {
		ls := LeafSnapshot{Contents: w.value.Contents, OlderIdx: -1, YoungerIdx: -1}
		if w.value.Older.OK {
			ls.OlderIdx = index[w.value.Older.Val]
		}
		if w.value.Younger.OK {
			ls.YoungerIdx = index[w.value.Younger.Val]
		}
		leaves[i] = ls
	}

	return Snapshot{
		Leaves:    leaves,
		Queued:    queued,
		Current:   current,
		Completed: completed,
		Config:    s.Config,
	}
}

// Restore rebuilds a State from a Snapshot taken by State.Snapshot. The
// avl.Id values inside the rebuilt State are freshly allocated and do
// not match the ids the original Snapshot was taken from; any
// BidHandle or leaf id held externally from before a save/load cycle
// is no longer valid.
func Restore(snap Snapshot) *State {
	tree := avl.New[burrow.Slice, AuctionOutcome](burrow.Weight)
	s := &State{
		Tree:         tree,
		BurrowSlices: make(map[money.Address]burrow.Head),
		Config:       snap.Config,
	}

	newIds := make([]avl.Id, len(snap.Leaves))
	pushTree := func(treeID avl.TreeId, ts TreeSnapshot) {
		for _, idx := range ts.Leaves {
			leaf := tree.Push(treeID, burrow.Slice{Contents: snap.Leaves[idx].Contents}, avl.Right)
			newIds[idx] = leaf
		}
	}

	s.Queued = tree.NewTree()
	pushTree(s.Queued, snap.Queued)

	if snap.Current != nil {
		curTree := tree.NewTree()
		pushTree(curTree, snap.Current.Tree)
		s.Current = containers.Optional[CurrentAuction]{
			OK:  true,
			Val: CurrentAuction{Tree: curTree, State: snap.Current.State},
		}
	}

	var prevLot avl.TreeId
	for i, cs := range snap.Completed {
		lotTree := tree.NewTree()
		pushTree(lotTree, cs.Tree)
		outcome := cs.Outcome
		if i > 0 {
			outcome.OlderAuction = containers.Optional[avl.TreeId]{OK: true, Val: prevLot}
			tree.ModifyRootData(prevLot, func(r *AuctionOutcome) *AuctionOutcome {
				r.YoungerAuction = containers.Optional[avl.TreeId]{OK: true, Val: lotTree}
				return r
			})
		}
		tree.ModifyRootData(lotTree, func(*AuctionOutcome) *AuctionOutcome {
			o := outcome
			return &o
		})
		if i == 0 {
			s.Completed = containers.Optional[CompletedAuctionsHead]{
				OK:  true,
				Val: CompletedAuctionsHead{Oldest: lotTree, Youngest: lotTree},
			}
		} else {
			head := s.Completed.Val
			head.Youngest = lotTree
			s.Completed.Val = head
		}
		prevLot = lotTree
	}

	for i, ls := range snap.Leaves {
		olderIdx, youngerIdx := ls.OlderIdx, ls.YoungerIdx
		tree.UpdateLeaf(newIds[i], func(v burrow.Slice) burrow.Slice {
			if olderIdx >= 0 {
				v.Older = containers.Optional[avl.Id]{OK: true, Val: newIds[olderIdx]}
			}
			if youngerIdx >= 0 {
				v.Younger = containers.Optional[avl.Id]{OK: true, Val: newIds[youngerIdx]}
			}
			return v
		})

		addr := ls.Contents.Burrow
		head := s.BurrowSlices[addr]
		if olderIdx < 0 {
			head.Oldest = newIds[i]
		}
		if youngerIdx < 0 {
			head.Youngest = newIds[i]
		}
		s.BurrowSlices[addr] = head
	}

	s.QueuedCount = len(snap.Queued.Leaves)
	return s
}
