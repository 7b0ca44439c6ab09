// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/fixedpoint"
)

func TestLoadConfigEmptyPathIsDefault(t *testing.T) {
	t.Parallel()
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, auction.DefaultConfig(), cfg)
}

func TestLoadConfigOverridesOnlyGivenFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	const contents = `
max_queue_height: 8
liquidation_penalty:
  num: 1
  den: 4
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 8, cfg.MaxQueueHeight)
	require.Equal(t, fixedpoint.NewRatio(1, 4), cfg.LiquidationPenalty)
	// Untouched fields keep their default values.
	require.Equal(t, auction.DefaultConfig().MaxLotSize, cfg.MaxLotSize)
	require.Equal(t, auction.DefaultConfig().AuctionDecayRate, cfg.AuctionDecayRate)
}
