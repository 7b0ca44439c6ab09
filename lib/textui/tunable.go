// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package textui

// Tunable annotates a value as something that might want to be tuned
// as the program gets optimized.
//
// internal/auction.DefaultConfig wraps its integer limits in Tunable
// (MaxQueueHeight, MaxLotSize, BidIntervalSec, BidIntervalBlocks,
// NumberOfSlicesToProcess), and run.go wraps the progress-flush
// interval the same way, so the call sites that will eventually need
// real tuning knobs are already marked.
//
// TODO(lukeshu): Have Tunable be runtime-configurable.
func Tunable[T any](x T) T {
	return x
}
