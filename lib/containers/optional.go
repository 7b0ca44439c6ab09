// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package containers

// Optional is an explicit "value or nothing", used wherever a zero
// value of T would be ambiguous with "absent". internal/burrow.Slice
// uses it for Older/Younger (Optional[avl.Id]), since avl.Id's own
// zero value already names the arena's "no node" sentinel and so
// can't double as "this is the oldest/youngest slice in the chain";
// internal/auction.State uses it the same way for Current and
// Completed, which simply don't exist until the first lot starts.
type Optional[T any] struct {
	OK  bool
	Val T
}
