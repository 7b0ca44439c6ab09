// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package money holds the plain scalar types shared across the engine
// (internal/burrow, internal/auction, internal/dispatch): amounts,
// addresses, and host-supplied clock values. Kept separate from
// internal/auction so internal/burrow doesn't need to import the
// (much larger) auction package just for a Mutez type.
package money

import "fmt"

// Mutez is a collateral amount in micro-tez, always a non-negative
// integer (spec §3, §6 "Numeric semantics").
type Mutez int64

func (m Mutez) String() string { return fmt.Sprintf("%dmutez", int64(m)) }

// Kit is a stable-token amount, scaled by Config.KitScalingFactor so
// that it too is an exact integer (spec §6: "kit in scaled integer per
// KIT_SCALING_FACTOR").
type Kit int64

func (k Kit) String() string { return fmt.Sprintf("%dkit", int64(k)) }

// Address identifies a burrow owner, a bidder, or the minter/auction's
// own address (spec's Host Ledger concept, §1/§6).
type Address string

// Timestamp is a host-supplied clock reading, Unix seconds (spec §6:
// "now: Timestamp").
type Timestamp int64

// BlockHeight is the host ledger's block counter (spec §6).
type BlockHeight int64
