// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/dispatch"
	"github.com/emturner/checker/internal/money"
	"github.com/emturner/checker/lib/maps"
	"github.com/emturner/checker/lib/textui"
)

// scriptLine is one line of a run --script file: a message plus the
// address that's presenting it, since dispatch.Context's Sender isn't
// part of the Message itself.
type scriptLine struct {
	Sender  money.Address
	Message dispatch.Message
}

func init() {
	var scriptFlag string
	cmd := subcommand{
		Command: cobra.Command{
			Use:   "run",
			Short: "Apply a script of messages against the engine, in order",
			Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		},
		RunE: func(state *auction.State, cmd *cobra.Command, args []string) ([]dispatch.Effect, error) {
			fh, err := os.Open(scriptFlag)
			if err != nil {
				return nil, err
			}
			defer fh.Close()

			var lines []scriptLine
			scanner := bufio.NewScanner(fh)
			for scanner.Scan() {
				text := strings.TrimSpace(scanner.Text())
				if text == "" || strings.HasPrefix(text, "#") {
					continue
				}
				var sl scriptLine
				if err := json.Unmarshal([]byte(text), &sl); err != nil {
					return nil, fmt.Errorf("run: %s: %w", scriptFlag, err)
				}
				lines = append(lines, sl)
			}
			if err := scanner.Err(); err != nil {
				return nil, err
			}

			ctx := cmd.Context()
			progress := textui.NewProgress[textui.Portion[int]](ctx, dlog.LogLevelInfo, textui.Tunable(1*time.Second))
			defer progress.Done()

			var memUse textui.LiveMemUse
			dlog.Debugf(ctx, "starting run: %d lines queued, mem=%v", len(lines), &memUse)

			var all []dispatch.Effect
			for i, sl := range lines {
				progress.Set(textui.Portion[int]{N: i, D: len(lines)})
				sender := sl.Sender
				if sender == "" {
					sender = selfAddress
				}
				_, effects, err := dispatch.Handle(publicCtx(sender), state, sl.Message)
				if err != nil {
					return all, fmt.Errorf("run: line %d (%v): %w", i+1, sl.Message.Kind, err)
				}
				all = append(all, effects...)
			}
			progress.Set(textui.Portion[int]{N: len(lines), D: len(lines)})
			dlog.Debugf(ctx, "finished run: mem=%v", &memUse)
			dlog.Debugf(ctx, "burrows touched: %v", maps.SortedKeys(state.BurrowSlices))
			return all, nil
		},
	}
	cmd.Command.Flags().StringVar(&scriptFlag, "script", "", "file of newline-delimited {\"sender\":...,\"message\":{...}} lines to apply")
	if err := cmd.Command.MarkFlagRequired("script"); err != nil {
		panic(err)
	}
	subcommands = append(subcommands, cmd)
}
