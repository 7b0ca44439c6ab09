// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/emturner/checker/internal/auction"
)

// loadState reads a JSON-encoded auction.Snapshot from path. A missing
// file is not an error: it means "start a fresh engine with cfg",
// mirroring the teacher's pattern of an optional external mappings.json.
func loadState(path string, cfg auction.Config) (*auction.State, error) {
	bs, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return auction.NewState(cfg), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	var snap auction.Snapshot
	if err := json.Unmarshal(bs, &snap); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return auction.Restore(snap), nil
}

func saveState(path string, s *auction.State) error {
	bs, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
