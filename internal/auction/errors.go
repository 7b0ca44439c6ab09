// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package auction

import (
	"errors"
	"fmt"
)

// Failure taxonomy, spec §7. Every one of these is reported to the
// caller with no state change; only InvariantViolation (below) is
// fatal.
var (
	ErrQueueTooLong                  = errors.New("queue too long")
	ErrBidTooLow                     = errors.New("bid too low")
	ErrNoOpenAuction                 = errors.New("no open auction")
	ErrUnwarrantedCancellation       = errors.New("cannot cancel a slice that is not queued")
	ErrCannotReclaimLeadingBid       = errors.New("cannot reclaim the currently leading bid")
	ErrCannotReclaimWinningBid       = errors.New("cannot reclaim a winning bid this way")
	ErrNotAWinningBid                = errors.New("handle does not match the winning bid")
	ErrNotAllSlicesClaimed           = errors.New("not all slices of the lot have been claimed")
	ErrNotACompletedSlice            = errors.New("slice is not part of any completed lot")
	ErrBurrowHasCompletedLiquidation = errors.New("burrow has an unclaimed completed liquidation")
	ErrDuplicateSliceInBatch         = errors.New("slice listed more than once in the same drain batch")
)

// invariantViolation panics, per spec §7: "Invariant violations are
// unrecoverable: the process aborts; no partial state is observable."
// This mirrors the teacher's RBTree.parentChild panic on a broken
// structural invariant.
func invariantViolation(msg string, args ...any) {
	panic(newInvariantViolation(msg, args...))
}

// InvariantViolation is the panic value invariantViolation raises, so
// a recovering caller (e.g. the CLI harness's top-level command
// runner) can log it distinctly from a Go runtime panic.
type InvariantViolation struct {
	msg string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.msg }

func newInvariantViolation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{msg: fmt.Sprintf(format, args...)}
}
