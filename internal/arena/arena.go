// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package arena is the flat backing store for internal/avl (spec
// §4.A): a map from opaque ids to tagged nodes, with allocation and
// free-id reuse. It has no notion of ordering or balance; callers
// (internal/avl) are responsible for every invariant beyond "ids
// resolve to the node last written, or don't resolve at all".
//
// The id/tagged-node shape here is the idiomatic minimal arena: an
// id-keyed map standing in for the pointer-based nodes the teacher's
// RBNode uses, generalized so leaves, branches, and tree roots can all
// live in one backing store and reference each other by id instead of
// by Go pointer (which is what lets the AVL overlay in internal/avl
// express three cross-referencing indexes over one shared heap without
// any native cycles).
package arena

import "fmt"

// Id is an opaque handle into an Arena. The zero Id never names a
// live node; it is used as the "no such node" sentinel (e.g. a Root's
// Subtree field when its tree is empty, or a Branch/Leaf's Parent
// field when it is the subtree root).
type Id int64

// Kind tags which union member a Node currently is.
type Kind int

const (
	KindRoot Kind = iota
	KindBranch
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindBranch:
		return "Branch"
	case KindLeaf:
		return "Leaf"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is the arena's one node shape, tagged by Kind; only the fields
// documented for that Kind are meaningful.
//
//   - KindRoot: Subtree (may be zero Id for an empty tree), Data,
//     Weight (cached, equal to weight(Subtree)), Count (cached leaf
//     count of Subtree).
//   - KindBranch: Parent, Left, Right, Height, Weight (cached subtree
//     weight, i.e. Left.Weight+Right.Weight), Count (cached subtree
//     leaf count, i.e. Left.Count+Right.Count).
//   - KindLeaf: Parent, Value, Weight (this leaf's own tez-derived
//     weight), Count (always 1).
//
// A Branch or Leaf whose Parent is zero is the top node of its tree;
// internal/avl also stores the owning Root's id in that node's Subtree
// field.
type Node[V any, R any] struct {
	Kind Kind

	Parent      Id
	Left, Right Id
	Height      int
	Weight      int64
	Count       int64

	Subtree Id
	Data    *R

	Value V
}

// Arena is the node store. The zero value is ready to use.
type Arena[V any, R any] struct {
	nodes   map[Id]Node[V, R]
	nextID  Id
	freeIDs []Id
}

// New returns a ready-to-use empty Arena.
func New[V any, R any]() *Arena[V, R] {
	return &Arena[V, R]{nodes: make(map[Id]Node[V, R])}
}

// Alloc stores n under a freshly (re)used id and returns that id.
func (a *Arena[V, R]) Alloc(n Node[V, R]) Id {
	if a.nodes == nil {
		a.nodes = make(map[Id]Node[V, R])
	}
	var id Id
	if l := len(a.freeIDs); l > 0 {
		id = a.freeIDs[l-1]
		a.freeIDs = a.freeIDs[:l-1]
	} else {
		a.nextID++
		id = a.nextID
	}
	a.nodes[id] = n
	return id
}

// Read returns the node at id. It panics with InvariantViolation
// semantics (spec §7: "InvariantViolation... crash the process") if id
// does not name a live node, since every id the rest of the engine
// holds is expected to have come from a prior Alloc that hasn't been
// Freed yet.
func (a *Arena[V, R]) Read(id Id) Node[V, R] {
	n, ok := a.nodes[id]
	if !ok {
		panic(fmt.Errorf("arena: invariant violation: read of freed or unknown id %d", id))
	}
	return n
}

// TryRead is like Read but reports absence instead of panicking, for
// the rare caller that legitimately expects a dangling id (e.g. probing
// whether the zero Id names anything).
func (a *Arena[V, R]) TryRead(id Id) (Node[V, R], bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// Write overwrites the node at id in place. Panics under the same
// condition as Read.
func (a *Arena[V, R]) Write(id Id, n Node[V, R]) {
	if _, ok := a.nodes[id]; !ok {
		panic(fmt.Errorf("arena: invariant violation: write of freed or unknown id %d", id))
	}
	a.nodes[id] = n
}

// Free releases id for reuse. Panics if id is not live, since a
// double-free is an internal bookkeeping bug in internal/avl, not a
// caller-recoverable error.
func (a *Arena[V, R]) Free(id Id) {
	if _, ok := a.nodes[id]; !ok {
		panic(fmt.Errorf("arena: invariant violation: double free of id %d", id))
	}
	delete(a.nodes, id)
	a.freeIDs = append(a.freeIDs, id)
}

// Len reports the number of live nodes, for tests asserting the arena
// doesn't leak nodes across a sequence of pushes/pops/splits.
func (a *Arena[V, R]) Len() int {
	return len(a.nodes)
}
