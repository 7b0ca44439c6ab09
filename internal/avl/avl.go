// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package avl is the order-statistic AVL tree of spec §4.B: a
// height-balanced full binary tree ordered purely by insertion
// position (there is no comparison key — Push at either end is the
// only way new elements enter), where every internal node carries the
// sum of its subtree's leaf weights.
//
// This is a generalization of the teacher's
// lib/containers.RBTree[K,V]: the same rotation/rebalance shape
// (leftRotate/rightRotate, a parent-chain retrace after each
// structural change, a panic on a broken parent/child link) but keyed
// by position instead of an explicit K, carrying a weight attribute
// instead of a red/black color, and living in an arena.Arena instead
// of bare Go pointers so that three independent indexes
// (internal/burrow's per-burrow chains, the queue, the per-lot
// groupings in internal/auction) can all reference the same leaves by
// stable id.
package avl

import (
	"fmt"

	"github.com/emturner/checker/internal/arena"
)

// Side selects which end of the ordering a Push targets.
type Side bool

const (
	Left  Side = false
	Right Side = true
)

// Id names a leaf or internal branch node. TreeId names a Root node;
// it is a distinct alias only for readability, the two share one id
// space inside the same Arena.
type (
	Id     = arena.Id
	TreeId = arena.Id
)

// Tree is an order-statistic AVL forest: many independent TreeIds can
// live in the same Arena at once (the queue, the current lot, and
// every completed lot all do, per spec §3's LiquidationAuctions).
type Tree[V any, R any] struct {
	arena    *arena.Arena[V, R]
	weightFn func(V) int64
}

// New builds an empty forest. weightFn extracts the weight (tez) of a
// leaf's value; it must be stable — weight of a given leaf only
// changes via Take/Del/Push structural operations, never via
// UpdateLeaf (spec §9's narrow-update-API note).
func New[V any, R any](weightFn func(V) int64) *Tree[V, R] {
	return &Tree[V, R]{arena: arena.New[V, R](), weightFn: weightFn}
}

// NewTree allocates a fresh, empty tree and returns its TreeId.
func (t *Tree[V, R]) NewTree() TreeId {
	return t.arena.Alloc(arena.Node[V, R]{Kind: arena.KindRoot})
}

func (t *Tree[V, R]) root(tree TreeId) arena.Node[V, R] {
	n := t.arena.Read(tree)
	if n.Kind != arena.KindRoot {
		panic(fmt.Errorf("avl: invariant violation: %d is not a tree root", tree))
	}
	return n
}

// IsEmpty reports whether tree currently holds no leaves.
func (t *Tree[V, R]) IsEmpty(tree TreeId) bool {
	return t.root(tree).Subtree == 0
}

// DeleteEmptyTree frees an empty tree's Root node. Panics if the tree
// is non-empty, or still carries root-data (drain it first).
func (t *Tree[V, R]) DeleteEmptyTree(tree TreeId) {
	r := t.root(tree)
	if r.Subtree != 0 {
		panic(fmt.Errorf("avl: invariant violation: DeleteEmptyTree on non-empty tree %d", tree))
	}
	if r.Data != nil {
		panic(fmt.Errorf("avl: invariant violation: DeleteEmptyTree on tree %d with root-data still attached", tree))
	}
	t.arena.Free(tree)
}

// Weight returns the cached total leaf weight of tree, O(1).
func (t *Tree[V, R]) Weight(tree TreeId) int64 {
	return t.root(tree).Weight
}

// Count returns the cached number of leaves in tree, O(1). This backs
// the MaxQueueHeight guard, which bounds tree shape rather than tez.
func (t *Tree[V, R]) Count(tree TreeId) int64 {
	return t.root(tree).Count
}

// RootData returns the root-data attached to tree, or nil.
func (t *Tree[V, R]) RootData(tree TreeId) *R {
	return t.root(tree).Data
}

// TryRootData is like RootData, but reports false instead of panicking
// when tree no longer names a live root — for callers holding a handle
// that may have outlived the tree (e.g. a bid reclaim racing a winner's
// DeleteEmptyTree) rather than a handle the engine's own bookkeeping
// guarantees is still live.
func (t *Tree[V, R]) TryRootData(tree TreeId) (*R, bool) {
	n, ok := t.arena.TryRead(tree)
	if !ok || n.Kind != arena.KindRoot {
		return nil, false
	}
	return n.Data, true
}

// ModifyRootData replaces tree's attached root-data with f's result.
func (t *Tree[V, R]) ModifyRootData(tree TreeId, f func(*R) *R) {
	r := t.root(tree)
	r.Data = f(r.Data)
	t.arena.Write(tree, r)
}

func (t *Tree[V, R]) height(id Id) int {
	if id == 0 {
		return 0
	}
	n := t.arena.Read(id)
	return n.Height
}

func (t *Tree[V, R]) weight(id Id) int64 {
	if id == 0 {
		return 0
	}
	n := t.arena.Read(id)
	return n.Weight
}

func (t *Tree[V, R]) count(id Id) int64 {
	if id == 0 {
		return 0
	}
	n := t.arena.Read(id)
	return n.Count
}

// newBranch allocates a Branch over left and right, computing its
// cached Height/Weight/Count from them, and reparents both children.
// A Leaf's height is 0, matching how the empty subtree (id==0) is also
// height 0, so a lone leaf looks balanced against a missing sibling.
func (t *Tree[V, R]) newBranch(left, right Id) Id {
	id := t.arena.Alloc(arena.Node[V, R]{
		Kind:   arena.KindBranch,
		Left:   left,
		Right:  right,
		Height: 1 + max(t.height(left), t.height(right)),
		Weight: t.weight(left) + t.weight(right),
		Count:  t.count(left) + t.count(right),
	})
	t.setParent(left, id)
	t.setParent(right, id)
	return id
}

func (t *Tree[V, R]) setParent(id, parent Id) {
	if id == 0 {
		return
	}
	n := t.arena.Read(id)
	n.Parent = parent
	t.arena.Write(id, n)
}

// recompute refreshes a Branch's cached Height/Weight from its
// children. No-op on Leaf/Root nodes.
func (t *Tree[V, R]) recompute(id Id) {
	n := t.arena.Read(id)
	if n.Kind != arena.KindBranch {
		return
	}
	n.Height = 1 + max(t.height(n.Left), t.height(n.Right))
	n.Weight = t.weight(n.Left) + t.weight(n.Right)
	n.Count = t.count(n.Left) + t.count(n.Right)
	t.arena.Write(id, n)
}

// replaceChild rewrites whichever of parent's two children pointers
// currently names old to instead name new. parent==0 means old was a
// subtree top; the caller is responsible for fixing up the owning
// Root in that case.
func (t *Tree[V, R]) replaceChild(parent, old, new Id) {
	if parent == 0 {
		return
	}
	n := t.arena.Read(parent)
	switch {
	case n.Left == old:
		n.Left = new
	case n.Right == old:
		n.Right = new
	default:
		panic(fmt.Errorf("avl: invariant violation: %d is not a child of %d", old, parent))
	}
	t.arena.Write(parent, n)
}

// rotateLeft and rotateRight mirror the teacher's RBTree rotations,
// generalized to recompute Weight alongside Height.
//
//	        p                        p
//	        |                        |
//	      +---+                    +---+
//	      | x |                    | y |
//	      +---+                    +---+
//	     /     \         =>       /     \
//	    a    +---+              +---+    c
//	         | y |              | x |
//	         +---+              +---+
//	        /     \            /     \
//	       b       c          a       b
func (t *Tree[V, R]) rotateLeft(x Id) Id {
	xn := t.arena.Read(x)
	p := xn.Parent
	y := xn.Right
	yn := t.arena.Read(y)
	b := yn.Left

	xn.Right = b
	t.setParent(b, x)
	t.arena.Write(x, xn)
	t.recompute(x)

	yn.Left = x
	yn.Parent = p
	t.arena.Write(y, yn)
	t.setParent(x, y)
	t.recompute(y)

	t.replaceChild(p, x, y)
	return y
}

//	           |                |
//	         +---+            +---+
//	         | y |            | x |
//	         +---+            +---+
//	        /     \    =>    /     \
//	      +---+    c        a    +---+
//	      | x |                  | y |
//	      +---+                  +---+
//	     /     \                /     \
//	    a       b              b       c
func (t *Tree[V, R]) rotateRight(y Id) Id {
	yn := t.arena.Read(y)
	p := yn.Parent
	x := yn.Left
	xn := t.arena.Read(x)
	b := xn.Right

	yn.Left = b
	t.setParent(b, y)
	t.arena.Write(y, yn)
	t.recompute(y)

	xn.Right = y
	xn.Parent = p
	t.arena.Write(x, xn)
	t.setParent(y, x)
	t.recompute(x)

	t.replaceChild(p, y, x)
	return x
}

// rebalanceNode recomputes id's cached attributes and, if its balance
// factor has drifted outside [-1,1], rotates it back into AVL shape.
// Returns the id now occupying that position (unchanged unless a
// rotation happened).
func (t *Tree[V, R]) rebalanceNode(id Id) Id {
	n := t.arena.Read(id)
	if n.Kind != arena.KindBranch {
		return id
	}
	t.recompute(id)
	n = t.arena.Read(id)
	balance := t.height(n.Left) - t.height(n.Right)
	switch {
	case balance > 1:
		left := t.arena.Read(n.Left)
		if t.height(left.Left) < t.height(left.Right) {
			t.rotateLeft(n.Left)
		}
		return t.rotateRight(id)
	case balance < -1:
		right := t.arena.Read(n.Right)
		if t.height(right.Right) < t.height(right.Left) {
			t.rotateRight(n.Right)
		}
		return t.rotateLeft(id)
	default:
		return id
	}
}

// retrace walks up from start, rebalancing every Branch on the way,
// then writes the final top node back into owner's Root. This is the
// positional-tree analog of the teacher's RBTree.updateAttr parent
// walk, except it also performs the AVL rotations along the way
// instead of leaving that to a separate fixup pass.
func (t *Tree[V, R]) retrace(owner TreeId, start Id) {
	id := start
	for {
		id = t.rebalanceNode(id)
		n := t.arena.Read(id)
		if n.Parent == 0 {
			break
		}
		id = n.Parent
	}
	n := t.arena.Read(id)
	n.Parent = 0
	n.Subtree = owner // repurposed as the "which Root owns this top node" marker
	t.arena.Write(id, n)

	r := t.root(owner)
	r.Subtree = id
	r.Weight = n.Weight
	r.Count = n.Count
	t.arena.Write(owner, r)
}

// Push inserts value at the front (Left) or back (Right) of tree and
// returns its new leaf id. O(log n).
func (t *Tree[V, R]) Push(tree TreeId, value V, side Side) Id {
	leaf := t.arena.Alloc(arena.Node[V, R]{
		Kind:   arena.KindLeaf,
		Value:  value,
		Weight: t.weightFn(value),
		Count:  1,
	})

	r := t.root(tree)
	if r.Subtree == 0 {
		t.retrace(tree, leaf)
		return leaf
	}

	// Walk to the current front (all-Left) or back (all-Right)
	// leaf, and split that leaf's slot into a new branch holding
	// {old leaf, new leaf} in the correct order.
	cur := r.Subtree
	for {
		n := t.arena.Read(cur)
		if n.Kind == arena.KindLeaf {
			break
		}
		if side == Left {
			cur = n.Left
		} else {
			cur = n.Right
		}
	}
	old := t.arena.Read(cur)
	parent := old.Parent

	var branch Id
	if side == Left {
		branch = t.newBranch(leaf, cur)
	} else {
		branch = t.newBranch(cur, leaf)
	}
	bn := t.arena.Read(branch)
	bn.Parent = parent
	t.arena.Write(branch, bn)
	t.replaceChild(parent, cur, branch)

	t.retrace(tree, branch)
	return leaf
}

// PeekFront returns the frontmost (Left-end) leaf without removing it.
func (t *Tree[V, R]) PeekFront(tree TreeId) (Id, V, bool) {
	return t.peekSide(tree, Left)
}

// PeekBack is PeekFront's mirror.
func (t *Tree[V, R]) PeekBack(tree TreeId) (Id, V, bool) {
	return t.peekSide(tree, Right)
}

func (t *Tree[V, R]) peekSide(tree TreeId, side Side) (Id, V, bool) {
	var zero V
	r := t.root(tree)
	if r.Subtree == 0 {
		return 0, zero, false
	}
	cur := r.Subtree
	for {
		n := t.arena.Read(cur)
		if n.Kind == arena.KindLeaf {
			return cur, n.Value, true
		}
		if side == Left {
			cur = n.Left
		} else {
			cur = n.Right
		}
	}
}

// PopFront removes and returns the frontmost leaf. O(log n).
func (t *Tree[V, R]) PopFront(tree TreeId) (Id, V, bool) {
	id, v, ok := t.PeekFront(tree)
	if !ok {
		return 0, v, false
	}
	t.Del(id)
	return id, v, true
}

// PopBack removes and returns the backmost leaf. O(log n).
func (t *Tree[V, R]) PopBack(tree TreeId) (Id, V, bool) {
	id, v, ok := t.PeekBack(tree)
	if !ok {
		return 0, v, false
	}
	t.Del(id)
	return id, v, true
}

// FindRoot returns the TreeId owning leaf, by walking its parent
// chain to the top and reading that node's owner marker. O(log n).
func (t *Tree[V, R]) FindRoot(leaf Id) TreeId {
	id := leaf
	for {
		n := t.arena.Read(id)
		if n.Parent == 0 {
			return n.Subtree
		}
		id = n.Parent
	}
}

// Del removes leaf from whatever tree currently contains it and
// returns that tree's TreeId (so the caller can check e.g. whether it
// is now empty). O(log n).
func (t *Tree[V, R]) Del(leaf Id) TreeId {
	owner := t.FindRoot(leaf)
	n := t.arena.Read(leaf)

	if n.Parent == 0 {
		// leaf was the tree's only element.
		r := t.root(owner)
		r.Subtree = 0
		r.Weight = 0
		r.Count = 0
		t.arena.Write(owner, r)
		t.arena.Free(leaf)
		return owner
	}

	parent := n.Parent
	pn := t.arena.Read(parent)
	var sibling Id
	if pn.Left == leaf {
		sibling = pn.Right
	} else if pn.Right == leaf {
		sibling = pn.Left
	} else {
		panic(fmt.Errorf("avl: invariant violation: %d is not a child of its parent %d", leaf, parent))
	}

	grandparent := pn.Parent
	t.setParent(sibling, grandparent)
	t.replaceChild(grandparent, parent, sibling)
	t.arena.Free(parent)
	t.arena.Free(leaf)

	if grandparent == 0 {
		t.retrace(owner, sibling)
	} else {
		t.retrace(owner, grandparent)
	}
	return owner
}

// UpdateLeaf mutates a leaf's value in place via f, without changing
// which tree owns it. Per spec §9, this is meant only for the
// older/younger bookkeeping that internal/burrow performs, whose
// mutation never changes a leaf's tez and therefore never needs a
// weight retrace; UpdateLeaf defensively re-checks the weight anyway
// and retraces if it ever does change.
func (t *Tree[V, R]) UpdateLeaf(leaf Id, f func(V) V) {
	n := t.arena.Read(leaf)
	newVal := f(n.Value)
	newWeight := t.weightFn(newVal)
	n.Value = newVal
	changed := newWeight != n.Weight
	n.Weight = newWeight
	t.arena.Write(leaf, n)
	if changed && n.Parent != 0 {
		t.retrace(t.FindRoot(leaf), n.Parent)
	} else if changed {
		owner := t.FindRoot(leaf)
		r := t.root(owner)
		r.Weight = newWeight
		t.arena.Write(owner, r)
	}
}

// Walk visits every leaf of tree in order (front to back), without
// mutating the tree. Mirrors the teacher's RBTree.Walk in-order
// traversal, generalized from a binary-search-ordered tree to one
// ordered purely by insertion position.
func (t *Tree[V, R]) Walk(tree TreeId, visit func(id Id, v V)) {
	r := t.root(tree)
	t.walk(r.Subtree, visit)
}

func (t *Tree[V, R]) walk(id Id, visit func(id Id, v V)) {
	if id == 0 {
		return
	}
	n := t.arena.Read(id)
	if n.Kind == arena.KindLeaf {
		visit(id, n.Value)
		return
	}
	t.walk(n.Left, visit)
	t.walk(n.Right, visit)
}

// ReadLeaf returns a leaf's current value without removing it.
func (t *Tree[V, R]) ReadLeaf(leaf Id) V {
	n := t.arena.Read(leaf)
	if n.Kind != arena.KindLeaf {
		panic(fmt.Errorf("avl: invariant violation: %d is not a leaf", leaf))
	}
	return n.Value
}

// join reattaches two (possibly empty) subtree tops into one balanced
// subtree, per the standard height-balanced join algorithm: attach the
// shorter side down the taller side's spine at the first compatible
// height, then retrace-rebalance back up to the local top. Parent
// pointers within the result are correct; the Parent of the returned
// id itself is left unset, since join doesn't know whether its result
// is a final tree top or an intermediate value for the caller's own
// retrace.
func (t *Tree[V, R]) join(left, right Id) Id {
	switch {
	case left == 0:
		t.setParent(right, 0)
		return right
	case right == 0:
		t.setParent(left, 0)
		return left
	}
	lh, rh := t.height(left), t.height(right)
	switch {
	case lh <= rh+1 && rh <= lh+1:
		return t.newBranch(left, right)
	case lh > rh:
		ln := t.arena.Read(left)
		merged := t.join(ln.Right, right)
		ln.Right = merged
		t.arena.Write(left, ln)
		t.setParent(merged, left)
		return t.rebalanceNode(left)
	default:
		rn := t.arena.Read(right)
		merged := t.join(left, rn.Left)
		rn.Left = merged
		t.arena.Write(right, rn)
		t.setParent(merged, right)
		return t.rebalanceNode(right)
	}
}

// split partitions the subtree rooted at id into (prefix, suffix) such
// that prefix's total weight is the largest value <= threshold
// obtainable without dividing a leaf, freeing every Branch node it
// consumes along the way (the Leaves are all reused, just reparented).
func (t *Tree[V, R]) split(id Id, threshold int64) (Id, Id) {
	if id == 0 {
		return 0, 0
	}
	n := t.arena.Read(id)
	if n.Kind == arena.KindLeaf {
		if n.Weight <= threshold {
			return id, 0
		}
		return 0, id
	}
	leftWeight := t.weight(n.Left)
	if threshold >= leftWeight {
		rl, rr := t.split(n.Right, threshold-leftWeight)
		t.arena.Free(id)
		return t.join(n.Left, rl), rr
	}
	ll, lr := t.split(n.Left, threshold)
	t.arena.Free(id)
	return ll, t.join(lr, n.Right)
}

// Take extracts a prefix of tree whose total weight is the largest
// value <= thresholdTez obtainable without splitting a leaf, returning
// it as a newly allocated tree; tree itself is left holding the
// remaining suffix. O(log n). A threshold smaller than the first
// leaf's weight yields an empty prefix tree.
func (t *Tree[V, R]) Take(tree TreeId, thresholdTez int64) TreeId {
	r := t.root(tree)
	prefix, suffix := t.split(r.Subtree, thresholdTez)

	newTree := t.NewTree()
	if prefix == 0 {
		pr := t.root(newTree)
		pr.Subtree = 0
		pr.Weight = 0
		pr.Count = 0
		t.arena.Write(newTree, pr)
	} else {
		t.retrace(newTree, prefix)
	}

	if suffix == 0 {
		sr := t.root(tree)
		sr.Subtree = 0
		sr.Weight = 0
		sr.Count = 0
		t.arena.Write(tree, sr)
	} else {
		t.retrace(tree, suffix)
	}
	return newTree
}
