// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dandictl/dandictl/internal/report"
)

func writeReportsDir(t *testing.T, dandisets, assets string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, report.DandisetReportsFile), []byte(dandisets), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, report.AssetReportsFile), []byte(assets), 0o644))
	return dir
}

func TestDiffCommand(t *testing.T) {
	ctx := context.Background()

	dir1 := writeReportsDir(t, `[
		{
			"report_type": "dandiset",
			"dandiset_identifier": "000001",
			"dandiset_version": "draft",
			"pydantic_validation_errs": [
				{"type": "missing", "msg": "Field required", "loc": ["name"]}
			],
			"jsonschema_validation_errs": []
		}
	]`, `[]`)
	dir2 := writeReportsDir(t, `[
		{
			"report_type": "dandiset",
			"dandiset_identifier": "000001",
			"dandiset_version": "draft",
			"pydantic_validation_errs": [],
			"jsonschema_validation_errs": []
		}
	]`, `[]`)

	outDir := filepath.Join(t.TempDir(), "diff-reports")

	app, err := InitApp(ctx, []string{"dandictl", "diff"})
	require.NoError(t, err)
	require.NoError(t, app.Run(ctx, []string{"dandictl", "diff", "-o", outDir, dir1, dir2}))

	assert.FileExists(t, filepath.Join(outDir, "dandiset", "pydantic_errs_summary.md"))
	assert.FileExists(t, filepath.Join(
		outDir, "dandiset", "000001", "draft", "pydantic_validation_errs1.json"))
}

func TestDiffCommandResolvesRelativeOutputDir(t *testing.T) {
	ctx := context.Background()

	dir1 := writeReportsDir(t, `[]`, `[]`)
	dir2 := writeReportsDir(t, `[]`, `[]`)

	workDir := t.TempDir()
	t.Chdir(workDir)

	// InitApp captures the starting directory, so a relative --output must
	// land there.
	app, err := InitApp(ctx, []string{"dandictl", "diff"})
	require.NoError(t, err)
	require.NoError(t, app.Run(ctx, []string{"dandictl", "diff", dir1, dir2}))

	assert.DirExists(t, filepath.Join(workDir, "diff-reports", "dandiset"))
}

func TestDiffCommandFailsOnMissingCollection(t *testing.T) {
	ctx := context.Background()

	dir1 := writeReportsDir(t, `[]`, `[]`)
	dir2 := t.TempDir() // no report files

	app, err := InitApp(ctx, []string{"dandictl", "diff"})
	require.NoError(t, err)

	err = app.Run(ctx, []string{"dandictl", "diff",
		"-o", filepath.Join(t.TempDir(), "out"), dir1, dir2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "there is no report file")
}

func TestDiffCommandRequiresTwoDirs(t *testing.T) {
	ctx := context.Background()

	app, err := InitApp(ctx, []string{"dandictl", "diff"})
	require.NoError(t, err)

	err = app.Run(ctx, []string{"dandictl", "diff", "only-one"})
	require.Error(t, err)
}

func TestInitAppWiresCommands(t *testing.T) {
	app, err := InitApp(context.Background(), []string{"dandictl"})
	require.NoError(t, err)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "validate")
	assert.Contains(t, names, "diff")
}
