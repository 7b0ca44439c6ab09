// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/dispatch"
	"github.com/emturner/checker/internal/money"
)

func init() {
	var addressFlag string
	var kitFlag int64
	cmd := subcommand{
		Command: cobra.Command{
			Use:   "bid",
			Short: "Place a bid on the current lot",
			Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		},
		RunE: func(state *auction.State, cmd *cobra.Command, args []string) ([]dispatch.Effect, error) {
			ctx := dlog.WithField(cmd.Context(), "bid.address", addressFlag)
			ctx = dlog.WithField(ctx, "bid.kit", kitFlag)
			if state.Current.OK {
				ctx = dlog.WithField(ctx, "auction.id", state.Current.Val.Tree)
			}
			_, effects, err := dispatch.Handle(publicCtx(money.Address(addressFlag)), state, dispatch.Message{
				Kind: dispatch.KindPlaceBid,
				Kit:  money.Kit(kitFlag),
			})
			if err != nil {
				return nil, err
			}
			dlog.Debugf(ctx, "bid placed, %d effects", len(effects))
			return effects, nil
		},
	}
	cmd.Command.Flags().StringVar(&addressFlag, "address", "", "the bidder's address")
	cmd.Command.Flags().Int64Var(&kitFlag, "kit", 0, "the bid amount, in kit")
	for _, name := range []string{"address", "kit"} {
		if err := cmd.Command.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	subcommands = append(subcommands, cmd)
}
