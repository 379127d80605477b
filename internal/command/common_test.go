// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"

	"github.com/dandictl/dandictl/internal/meta"
)

func TestGetMeta(t *testing.T) {
	m := meta.Meta{StartingDir: "/work"}
	cmd := &cli.Command{Metadata: map[string]any{"meta": m}}
	assert.Equal(t, m, GetMeta(cmd))

	assert.Equal(t, meta.Meta{}, GetMeta(nil))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{
		Metadata: map[string]any{"meta": "not a meta"},
	}))
}

func TestResolveDir(t *testing.T) {
	m := meta.Meta{StartingDir: "/work"}

	assert.Equal(t, filepath.Join("/work", "reports"), ResolveDir(m, "reports"))
	assert.Equal(t, "/abs/reports", ResolveDir(m, "/abs/reports"))
	assert.Equal(t, "reports", ResolveDir(meta.Meta{}, "reports"))
}
