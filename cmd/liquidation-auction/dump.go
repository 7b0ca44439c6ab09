// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"

	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/avl"
	"github.com/emturner/checker/internal/burrow"
	"github.com/emturner/checker/internal/dispatch"
	"github.com/emturner/checker/lib/textui"
)

func init() {
	cmd := subcommand{
		Command: cobra.Command{
			Use:   "dump-slices",
			Short: "Spew every slice currently resident in the queue or lots",
			Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		},
		RunE: func(state *auction.State, cmd *cobra.Command, args []string) ([]dispatch.Effect, error) {
			cfg := spew.NewDefaultConfig()
			cfg.DisablePointerAddresses = true

			dump := func(label string, tree avl.TreeId) {
				state.Tree.Walk(tree, func(id avl.Id, slice burrow.Slice) {
					textui.Fprintf(os.Stdout, "%s[%d] = ", label, id)
					cfg.Dump(slice)
				})
			}

			dump("queued", state.Queued)
			if state.Current.OK {
				dump("current", state.Current.Val.Tree)
			}
			if state.Completed.OK {
				for id := state.Completed.Val.Oldest; id != 0; {
					dump("completed", id)
					outcome := state.Tree.RootData(id)
					if outcome == nil || !outcome.YoungerAuction.OK {
						break
					}
					id = outcome.YoungerAuction.Val
				}
			}
			return nil, nil
		},
	}
	subcommands = append(subcommands, cmd)
}
