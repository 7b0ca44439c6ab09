// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch

import (
	"encoding/json"
	"fmt"
)

// taggedEffect is the wire shape EncodeEffect produces: Effect is an
// interface, so a bare json.Marshal of one loses which concrete
// variant it was.
type taggedEffect struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EncodeEffect marshals e as a {"type", "data"} envelope, the shape
// the CLI harness prints one of per line.
func EncodeEffect(e Effect) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var typ string
	switch e.(type) {
	case CallCancelSliceLiquidation:
		typ = "CallCancelSliceLiquidation"
	case CallBurrowSendSliceToChecker:
		typ = "CallBurrowSendSliceToChecker"
	case CallTouchLiquidationSlices:
		typ = "CallTouchLiquidationSlices"
	case CallTransferLABidTicket:
		typ = "CallTransferLABidTicket"
	case CallTransferKit:
		typ = "CallTransferKit"
	case CallUnitTransfer:
		typ = "CallUnitTransfer"
	default:
		return nil, fmt.Errorf("dispatch: unknown effect type %T", e)
	}
	return json.Marshal(taggedEffect{Type: typ, Data: data})
}
