// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders a Kind as its name, so a hand-authored script
// file can say "PlaceBid" instead of a magic number.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements the reverse of MarshalJSON.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "Touch":
		*k = KindTouch
	case "EnsureNoUnclaimedSlices":
		*k = KindEnsureNoUnclaimedSlices
	case "SendSliceToAuction":
		*k = KindSendSliceToAuction
	case "CancelLiquidationOfSlice":
		*k = KindCancelLiquidationOfSlice
	case "TouchSlices":
		*k = KindTouchSlices
	case "TouchOldestSlices":
		*k = KindTouchOldestSlices
	case "PlaceBid":
		*k = KindPlaceBid
	case "ReclaimBid":
		*k = KindReclaimBid
	case "ReclaimWinningBid":
		*k = KindReclaimWinningBid
	default:
		return fmt.Errorf("dispatch: unknown message kind %q", name)
	}
	return nil
}
