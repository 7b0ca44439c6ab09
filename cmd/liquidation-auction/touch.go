// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/dispatch"
	"github.com/emturner/checker/internal/fixedpoint"
)

func parseRatioFlag(s string) (fixedpoint.Ratio, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return fixedpoint.Ratio{}, fmt.Errorf("expected NUM/DEN, got %q", s)
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return fixedpoint.Ratio{}, fmt.Errorf("expected NUM/DEN, got %q: %w", s, err)
	}
	d, err := strconv.ParseInt(den, 10, 64)
	if err != nil {
		return fixedpoint.Ratio{}, fmt.Errorf("expected NUM/DEN, got %q: %w", s, err)
	}
	return fixedpoint.NewRatio(n, d), nil
}

func init() {
	var priceFlag string
	cmd := subcommand{
		Command: cobra.Command{
			Use:   "touch",
			Short: "Run the price clock forward and start a new lot if the queue warrants it",
			Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		},
		RunE: func(state *auction.State, cmd *cobra.Command, args []string) ([]dispatch.Effect, error) {
			price, err := parseRatioFlag(priceFlag)
			if err != nil {
				return nil, err
			}
			ctx := dlog.WithField(cmd.Context(), "auction.price", fmt.Sprintf("%s/%s", price.Num, price.Den))
			_, effects, err := dispatch.Handle(selfCtx(state), state, dispatch.Message{
				Kind:       dispatch.KindTouch,
				StartPrice: price,
			})
			if err != nil {
				return nil, err
			}
			if state.Current.OK {
				ctx = dlog.WithField(ctx, "auction.id", state.Current.Val.Tree)
			}
			dlog.Debugf(ctx, "touched, %d effects", len(effects))
			return effects, nil
		},
	}
	cmd.Command.Flags().StringVar(&priceFlag, "price", "", "tez/kit starting price for a newly-started lot, as NUM/DEN")
	if err := cmd.Command.MarkFlagRequired("price"); err != nil {
		panic(err)
	}
	subcommands = append(subcommands, cmd)
}
