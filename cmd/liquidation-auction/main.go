// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/derror"
	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/dispatch"
	"github.com/emturner/checker/lib/profile"
	"github.com/emturner/checker/lib/textui"
)

// subcommand mirrors the teacher's cmd/btrfs-rec subcommand table: a
// cobra.Command paired with a RunE that's handed an already-opened
// resource (there, an *btrfs.FS; here, a loaded *auction.State) rather
// than having to open it itself.
type subcommand struct {
	cobra.Command
	RunE func(state *auction.State, cmd *cobra.Command, args []string) ([]dispatch.Effect, error)
}

var subcommands []subcommand

func main() {
	logLevelFlag := textui.LogLevelFlag{Level: dlog.LogLevelInfo}
	var configFlag string
	var stateFlag string

	argparser := &cobra.Command{
		Use:   "liquidation-auction {[flags]|SUBCOMMAND}",
		Short: "Drive a liquidation-auction engine from the command line",

		Args: cliutil.WrapPositionalArgs(cliutil.OnlySubcommands),
		RunE: cliutil.RunSubcommands,

		SilenceErrors: true,
		SilenceUsage:  true,

		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
	argparser.PersistentFlags().Var(&logLevelFlag, "verbosity", "set the verbosity")
	argparser.PersistentFlags().StringVar(&configFlag, "config", "", "load auction.Config overrides from `file`")
	argparser.PersistentFlags().StringVar(&stateFlag, "state", "state.json", "load/save the engine's state from/to `file`")
	argparser.PersistentFlags().Int64Var(&nowFlag, "now", 0, "the host clock's current time, as a unix timestamp")
	argparser.PersistentFlags().Int64Var(&blockFlag, "block", 0, "the host chain's current block height")
	stopProfile := profile.AddProfileFlags(argparser.PersistentFlags(), "")

	for _, child := range subcommands {
		cmd := child.Command
		runE := child.RunE
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := textui.NewLogger(os.Stderr, logLevelFlag.Level)
			ctx = dlog.WithLogger(ctx, logger)

			grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
				EnableSignalHandling: true,
			})
			grp.Go("main", func(ctx context.Context) (err error) {
				defer func() {
					if r := derror.PanicToError(recover()); r != nil {
						err = r
					}
				}()
				cfg, err := loadConfig(configFlag)
				if err != nil {
					return err
				}
				state, err := loadState(stateFlag, cfg)
				if err != nil {
					return err
				}

				cmd.SetContext(ctx)
				effects, err := runE(state, cmd, args)
				if err != nil {
					return err
				}

				if err := saveState(stateFlag, state); err != nil {
					return err
				}
				for _, e := range effects {
					bs, err := dispatch.EncodeEffect(e)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(bs))
				}
				return nil
			})
			return grp.Wait()
		}
		argparser.AddCommand(&cmd)
	}

	err := argparser.ExecuteContext(context.Background())
	if stopErr := stopProfile(); err == nil {
		err = stopErr
	}
	if err != nil {
		textui.Fprintf(os.Stderr, "%v: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
