// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/dispatch"
	"github.com/emturner/checker/internal/money"
)

func init() {
	var burrowFlag string
	var tezFlag int64
	var minKitFlag int64
	cmd := subcommand{
		Command: cobra.Command{
			Use:   "send-slice",
			Short: "Queue a burrow's collateral slice for liquidation",
			Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		},
		RunE: func(state *auction.State, cmd *cobra.Command, args []string) ([]dispatch.Effect, error) {
			ctx := dlog.WithField(cmd.Context(), "slice.burrow", burrowFlag)
			ctx = dlog.WithField(ctx, "slice.tez", tezFlag)
			_, effects, err := dispatch.Handle(selfCtx(state), state, dispatch.Message{
				Kind: dispatch.KindSendSliceToAuction,
				Contents: burrow.SliceContents{
					Burrow:               money.Address(burrowFlag),
					Tez:                  money.Mutez(tezFlag),
					MinKitForUnwarranted: money.Kit(minKitFlag),
				},
			})
			if err != nil {
				return nil, err
			}
			dlog.Debugf(ctx, "slice queued, %d effects", len(effects))
			return effects, nil
		},
	}
	cmd.Command.Flags().StringVar(&burrowFlag, "burrow", "", "address of the burrow the slice belongs to")
	cmd.Command.Flags().Int64Var(&tezFlag, "tez", 0, "size of the slice, in mutez")
	cmd.Command.Flags().Int64Var(&minKitFlag, "min-kit", 0, "kit below which this slice's liquidation was unwarranted")
	for _, name := range []string{"burrow", "tez"} {
		if err := cmd.Command.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	subcommands = append(subcommands, cmd)
}
