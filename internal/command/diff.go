// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/dandictl/dandictl/internal/diff"
	"github.com/dandictl/dandictl/internal/log"
	"github.com/dandictl/dandictl/internal/meta"
	"github.com/dandictl/dandictl/internal/output"
	"github.com/dandictl/dandictl/internal/report"
)

func diffCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "diff two sets of validation reports",
		UsageText: "dandictl diff [options] <reports-dir-1> <reports-dir-2>",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			NewOutputDirFlag("diff-reports"),
		}, NewGlobalFlags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: diffCommandAction,
	}
}

// diffCommandAction reads the report collections of two validation runs,
// aligns them by entity, and writes the diff-report tree. A missing
// collection file in either run is fatal.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	if cmd.Args().Len() != 2 {
		return fmt.Errorf("diff requires exactly two report directory arguments")
	}
	dir1, dir2 := cmd.Args().Get(0), cmd.Args().Get(1)

	dandisetReports1, assetReports1, err := readReports(dir1)
	if err != nil {
		return err
	}
	dandisetReports2, assetReports2, err := readReports(dir2)
	if err != nil {
		return err
	}

	dandisetDiffs, err := diff.BuildDandisetDiffs(dandisetReports1, dandisetReports2)
	if err != nil {
		return err
	}
	assetDiffs, err := diff.BuildAssetDiffs(assetReports1, assetReports2)
	if err != nil {
		return err
	}

	totals, err := diff.Output(dandisetDiffs, assetDiffs, ResolveDir(m, cmd.String("output")))
	if err != nil {
		return err
	}

	renderDiffTotals(totals, cmd)
	log.Infof("diff of %s and %s is complete", dir1, dir2)
	return nil
}

// readReports loads the two report collection files of one validation run.
func readReports(dir string) ([]report.DandisetReport, []report.AssetReport, error) {
	dandisetReports, err := report.ReadDandisetReports(
		filepath.Join(dir, report.DandisetReportsFile))
	if err != nil {
		return nil, nil, err
	}
	assetReports, err := report.ReadAssetReports(
		filepath.Join(dir, report.AssetReportsFile))
	if err != nil {
		return nil, nil, err
	}
	return dandisetReports, assetReports, nil
}

func renderDiffTotals(totals []diff.Totals, cmd *cli.Command) {
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			t.Group,
			t.Origin,
			output.Count(t.Count1),
			output.Count(t.Count2),
			output.Count(t.Removed),
			output.Count(t.Gained),
		})
	}

	t := output.Table{
		Title: "validation error diff totals",
		Rows:  rows,
	}
	if cmd.Bool("titles") {
		t.Headers = []string{"group", "origin", "count 1", "count 2", "removed", "gained"}
	}
	output.Write(t, cmd.Bool("color"), os.Stdout)
}
