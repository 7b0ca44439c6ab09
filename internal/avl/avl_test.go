// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package avl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emturner/checker/internal/avl"
)

type rootData struct {
	Note string
}

func weightOf(x int64) int64 { return x }

func newTree() *avl.Tree[int64, rootData] {
	return avl.New[int64, rootData](weightOf)
}

func TestPushPopOrder(t *testing.T) {
	t.Parallel()
	tr := newTree()
	tree := tr.NewTree()

	// Right-push appends at the back: 1,2,3 pushed Right gives
	// front..back = 1,2,3.
	tr.Push(tree, 1, avl.Right)
	tr.Push(tree, 2, avl.Right)
	tr.Push(tree, 3, avl.Right)
	require.Equal(t, int64(6), tr.Weight(tree))

	_, v, ok := tr.PopFront(tree)
	require.True(t, ok)
	require.Equal(t, int64(1), v)

	_, v, ok = tr.PopFront(tree)
	require.True(t, ok)
	require.Equal(t, int64(2), v)

	_, v, ok = tr.PopBack(tree)
	require.True(t, ok)
	require.Equal(t, int64(3), v)

	require.True(t, tr.IsEmpty(tree))
	_, _, ok = tr.PopFront(tree)
	require.False(t, ok)
}

func TestPushLeftIsFront(t *testing.T) {
	t.Parallel()
	tr := newTree()
	tree := tr.NewTree()

	tr.Push(tree, 10, avl.Right) // [10]
	tr.Push(tree, 20, avl.Left)  // [20,10]

	_, v, ok := tr.PeekFront(tree)
	require.True(t, ok)
	require.Equal(t, int64(20), v)

	_, v, ok = tr.PeekBack(tree)
	require.True(t, ok)
	require.Equal(t, int64(10), v)
}

func TestFindRootAfterManyPushes(t *testing.T) {
	t.Parallel()
	tr := newTree()
	tree := tr.NewTree()

	var ids []avl.Id
	for i := int64(0); i < 50; i++ {
		ids = append(ids, tr.Push(tree, i, avl.Right))
	}
	for _, id := range ids {
		require.Equal(t, tree, tr.FindRoot(id))
	}
	require.Equal(t, int64(49*50/2), tr.Weight(tree))
}

func TestDelMiddle(t *testing.T) {
	t.Parallel()
	tr := newTree()
	tree := tr.NewTree()

	var ids []avl.Id
	for i := int64(0); i < 10; i++ {
		ids = append(ids, tr.Push(tree, i, avl.Right))
	}
	total := int64(0)
	for _, v := range []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9} {
		total += v
	}

	mid := ids[5]
	owner := tr.Del(mid)
	require.Equal(t, tree, owner)
	require.Equal(t, total-5, tr.Weight(tree))

	// the rest must still resolve and pop out in order, skipping 5.
	var got []int64
	for {
		_, v, ok := tr.PopFront(tree)
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal(t, []int64{0, 1, 2, 3, 4, 6, 7, 8, 9}, got)
}

func TestTakePrefixByWeight(t *testing.T) {
	t.Parallel()
	tr := newTree()
	tree := tr.NewTree()

	// weights 3,4,5 pushed Right => front..back 3,4,5, total 12.
	tr.Push(tree, 3, avl.Right)
	tr.Push(tree, 4, avl.Right)
	tr.Push(tree, 5, avl.Right)

	prefix := tr.Take(tree, 7)
	require.Equal(t, int64(7), tr.Weight(prefix))
	require.Equal(t, int64(5), tr.Weight(tree))

	var gotPrefix []int64
	for {
		_, v, ok := tr.PopFront(prefix)
		if !ok {
			break
		}
		gotPrefix = append(gotPrefix, v)
	}
	require.Equal(t, []int64{3, 4}, gotPrefix)

	_, v, ok := tr.PeekFront(tree)
	require.True(t, ok)
	require.Equal(t, int64(5), v)
}

func TestTakeBelowFirstLeafIsEmpty(t *testing.T) {
	t.Parallel()
	tr := newTree()
	tree := tr.NewTree()
	tr.Push(tree, 10, avl.Right)

	prefix := tr.Take(tree, 3)
	require.True(t, tr.IsEmpty(prefix))
	require.Equal(t, int64(10), tr.Weight(tree))
}

func TestRootDataRoundTrip(t *testing.T) {
	t.Parallel()
	tr := newTree()
	tree := tr.NewTree()
	tr.Push(tree, 1, avl.Right)

	require.Nil(t, tr.RootData(tree))
	tr.ModifyRootData(tree, func(*rootData) *rootData {
		return &rootData{Note: "outcome"}
	})
	require.Equal(t, "outcome", tr.RootData(tree).Note)
}

func TestUpdateLeafPreservesOwner(t *testing.T) {
	t.Parallel()
	tr := newTree()
	tree := tr.NewTree()
	id := tr.Push(tree, 5, avl.Right)
	tr.Push(tree, 7, avl.Right)

	tr.UpdateLeaf(id, func(v int64) int64 { return v }) // no-op mutation
	require.Equal(t, tree, tr.FindRoot(id))
	require.Equal(t, int64(5), tr.ReadLeaf(id))
}
