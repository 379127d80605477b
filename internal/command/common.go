// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/dandictl/dandictl/internal/meta"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ResolveDir resolves a possibly relative directory against the working
// directory captured at startup, so output lands where the user invoked the
// command regardless of any directory changes during initialization.
func ResolveDir(m meta.Meta, dir string) string {
	if filepath.IsAbs(dir) || m.StartingDir == "" {
		return dir
	}
	return filepath.Join(m.StartingDir, dir)
}
