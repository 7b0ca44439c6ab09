// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emturner/checker/internal/auction"
	"github.com/emturner/checker/internal/burrow"
)

func TestLoadStateMissingFileIsFresh(t *testing.T) {
	t.Parallel()
	cfg := auction.DefaultConfig()
	s, err := loadState(filepath.Join(t.TempDir(), "missing.json"), cfg)
	require.NoError(t, err)
	require.True(t, s.Tree.IsEmpty(s.Queued))
}

func TestSaveThenLoadStateRoundTrips(t *testing.T) {
	t.Parallel()
	cfg := auction.DefaultConfig()
	s := auction.NewState(cfg)
	_, err := s.SendSliceToAuction(burrow.SliceContents{Burrow: "b", Tez: 7, MinKitForUnwarranted: 2})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, saveState(path, s))

	loaded, err := loadState(path, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.QueuedCount)
	require.Equal(t, s.Tree.Weight(s.Queued), loaded.Tree.Weight(loaded.Queued))
}
