// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diff

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dandictl/dandictl/internal/errcount"
	"github.com/dandictl/dandictl/internal/log"
	"github.com/dandictl/dandictl/internal/report"
)

// Totals is one per-group, per-origin roll-up of a diff run, rendered on
// stdout after the report tree has been written.
type Totals struct {
	Group   string
	Origin  string
	Count1  int
	Count2  int
	Removed int
	Gained  int
}

// Output writes the diff-report tree: a dandiset/ and an asset/ group
// directory, each holding the two per-origin summary documents and one
// subdirectory per entity with the raw error lists and diffs. The output
// directory is recreated from scratch. Returns the per-group totals.
func Output(dandisetDiffs, assetDiffs []Report, outputDir string) ([]Totals, error) {
	log.Infof("creating validation diff report directory %s", outputDir)
	if err := report.CreateOrReplaceDir(outputDir); err != nil {
		return nil, err
	}

	var totals []Totals
	for _, group := range []struct {
		name    string
		reports []Report
	}{
		{"dandiset", dandisetDiffs},
		{"asset", assetDiffs},
	} {
		groupTotals, err := outputGroup(group.reports, filepath.Join(outputDir, group.name), group.name)
		if err != nil {
			return nil, err
		}
		totals = append(totals, groupTotals...)
	}
	return totals, nil
}

// outputGroup writes one group directory: summaries first, then the
// per-entity supporting files.
func outputGroup(reports []Report, dir, group string) ([]Totals, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report group directory %s: %w", dir, err)
	}

	pyd1, pyd2, js1, js2, err := errReps(reports)
	if err != nil {
		return nil, err
	}

	pydCtr1, pydCtr2 := countReps(pyd1), countReps(pyd2)
	jsCtr1, jsCtr2 := countReps(js1), countReps(js2)

	if err := writeSummary(dir, PydanticSummaryFile, pydCtr1, pydCtr2); err != nil {
		return nil, err
	}
	if err := writeSummary(dir, JsonschemaSummaryFile, jsCtr1, jsCtr2); err != nil {
		return nil, err
	}

	for _, r := range reports {
		key, err := r.key()
		if err != nil {
			return nil, err
		}
		entityDir := filepath.Join(append([]string{dir}, entityDirParts(key)...)...)
		if err := writeSupportingFiles(r, entityDir); err != nil {
			return nil, err
		}
		log.Debugf("wrote %s validation diff report files to %s", group, entityDir)
	}
	log.Infof("output of %s validation diff reports is complete", group)

	return []Totals{
		totalsRow(group, "pydantic", pydCtr1, pydCtr2),
		totalsRow(group, "jsonschema", jsCtr1, jsCtr2),
	}, nil
}

func countReps(reps []errcount.Rep) *errcount.Counter {
	c := errcount.New()
	c.Count(reps)
	return c
}

func writeSummary(dir, name string, c1, c2 *errcount.Counter) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(diffSummary(c1, c2)), 0o644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}

func totalsRow(group, origin string, c1, c2 *errcount.Counter) Totals {
	removed, gained := 0, 0
	for _, entry := range errcount.Diff(c1, c2) {
		removed += entry.Removed
		gained += entry.Gained
	}
	return Totals{
		Group:   group,
		Origin:  origin,
		Count1:  c1.Total(),
		Count2:  c2.Total(),
		Removed: removed,
		Gained:  gained,
	}
}

func entityDirParts(key report.Key) []string {
	parts := []string{key.DandisetID, key.Version}
	if key.AssetIdx >= 0 {
		parts = append(parts, strconv.Itoa(key.AssetIdx))
	}
	return parts
}

// writeSupportingFiles writes the raw error lists and diff objects of one
// diff report into its entity directory, each in JSON and YAML, skipping
// empty data.
func writeSupportingFiles(r Report, entityDir string) error {
	if err := os.MkdirAll(entityDir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", entityDir, err)
	}

	for _, f := range []struct {
		data     interface{}
		baseName string
	}{
		{r.PydanticErrs1, "pydantic_validation_errs1"},
		{r.PydanticErrs2, "pydantic_validation_errs2"},
		{r.PydanticDiff, "pydantic_validation_errs_diff"},
		{r.JsonschemaErrs1, "jsonschema_validation_errs1"},
		{r.JsonschemaErrs2, "jsonschema_validation_errs2"},
		{r.JsonschemaDiff, "jsonschema_validation_errs_diff"},
	} {
		if err := report.WriteData(f.data, entityDir, f.baseName); err != nil {
			return err
		}
	}
	return nil
}
