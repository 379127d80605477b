// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package diff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dandictl/dandictl/internal/report"
)

func strptr(s string) *string { return &s }

func pydErr(typ, msg string, loc ...interface{}) report.PydanticErr {
	return report.PydanticErr{"type": typ, "msg": msg, "loc": loc}
}

func TestWildcardedErasesOnlyIntegerSegments(t *testing.T) {
	assert.Equal(t,
		[]interface{}{"contributor", "[*]", "name"},
		wildcarded([]interface{}{"contributor", 3, "name"}))
	assert.Equal(t,
		[]interface{}{"contributor", "[*]", "name"},
		wildcarded([]interface{}{"contributor", float64(7), "name"}))
	assert.Equal(t,
		[]interface{}{"about", "schemaKey"},
		wildcarded([]interface{}{"about", "schemaKey"}))
}

func TestCategoryCollapsesArrayIndices(t *testing.T) {
	r1 := newPydanticRep(pydErr("missing", "Field required", "contributor", 0, "name"), "000001/draft")
	r2 := newPydanticRep(pydErr("missing", "Field required", "contributor", 5, "name"), "000002/draft")

	assert.Equal(t, r1.Category(), r2.Category())
	assert.NotEqual(t, r1.Key(), r2.Key())
}

func TestTupleString(t *testing.T) {
	assert.Equal(t,
		`("missing", "Field required", ("contributor", "[*]", "name"))`,
		tupleString("missing", "Field required",
			[]interface{}{"contributor", "[*]", "name"}))
	assert.Equal(t, `("license", 2)`, tupleString("license", float64(2)))
}

func TestBuildDandisetDiffsSkipsAllEmptyEntities(t *testing.T) {
	reports1 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000001", DandisetVersion: "draft"},
	}
	reports2 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000001", DandisetVersion: "draft"},
	}

	diffs, err := BuildDandisetDiffs(reports1, reports2)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestBuildDandisetDiffsUnionCoverage(t *testing.T) {
	reports1 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000002", DandisetVersion: "draft",
			PydanticErrs: []report.PydanticErr{pydErr("missing", "Field required", "name")}},
		{Kind: report.KindDandiset, DandisetID: "000009", DandisetVersion: "draft"},
	}
	reports2 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000001", DandisetVersion: "draft",
			JsonschemaErrs: []report.JsonschemaErr{{
				Message:            "expected string",
				AbsolutePath:       []interface{}{"name"},
				AbsoluteSchemaPath: []interface{}{"properties", "name", "type"},
			}}},
	}

	diffs, err := BuildDandisetDiffs(reports1, reports2)
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	// Entities with at least one error on some side appear, ordered by key;
	// the error-free 000009 entity does not.
	assert.Equal(t, "000001", diffs[0].DandisetID)
	assert.Equal(t, "000002", diffs[1].DandisetID)
}

func TestBuildDandisetDiffsOneSidedAppearance(t *testing.T) {
	reports1 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "ds1", DandisetVersion: "draft"},
	}
	reports2 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "ds1", DandisetVersion: "draft",
			PydanticErrs: []report.PydanticErr{pydErr("missing", "Field required", "name")}},
	}

	diffs, err := BuildDandisetDiffs(reports1, reports2)
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	d := diffs[0]
	assert.Empty(t, d.PydanticErrs1)
	assert.Len(t, d.PydanticErrs2, 1)

	delta, ok := d.PydanticDiff.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, delta, "a pure addition must yield a non-empty diff")

	jsDelta, ok := d.JsonschemaDiff.(map[string]interface{})
	require.True(t, ok)
	assert.Empty(t, jsDelta, "identical sides must yield an empty diff")
}

func TestBuildDandisetDiffsRejectsDuplicateKeys(t *testing.T) {
	reports := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000001", DandisetVersion: "draft"},
		{Kind: report.KindDandiset, DandisetID: "000001", DandisetVersion: "draft"},
	}

	_, err := BuildDandisetDiffs(reports, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate report entry")
}

func TestBuildAssetDiffsCarriesAssetIdentity(t *testing.T) {
	reports2 := []report.AssetReport{
		{Kind: report.KindAsset, DandisetID: "000001", DandisetVersion: "draft",
			AssetID: strptr("aaa"), AssetPath: strptr("sub-01/a.nwb"), AssetIdx: 0,
			PydanticErrs: []report.PydanticErr{pydErr("missing", "Field required", "path")}},
	}

	diffs, err := BuildAssetDiffs(nil, reports2)
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	d := diffs[0]
	assert.Equal(t, report.KindAsset, d.Kind)
	require.NotNil(t, d.AssetID)
	assert.Equal(t, "aaa", *d.AssetID)
	require.NotNil(t, d.AssetIdx)
	assert.Equal(t, 0, *d.AssetIdx)
}

func TestBuildAssetDiffsOrdersByIndexNumerically(t *testing.T) {
	var reports1 []report.AssetReport
	for _, idx := range []int{10, 2, 1} {
		reports1 = append(reports1, report.AssetReport{
			Kind: report.KindAsset, DandisetID: "000001", DandisetVersion: "draft",
			AssetIdx:     idx,
			PydanticErrs: []report.PydanticErr{pydErr("missing", "Field required", "path")},
		})
	}

	diffs, err := BuildAssetDiffs(reports1, nil)
	require.NoError(t, err)
	require.Len(t, diffs, 3)
	assert.Equal(t, 1, *diffs[0].AssetIdx)
	assert.Equal(t, 2, *diffs[1].AssetIdx)
	assert.Equal(t, 10, *diffs[2].AssetIdx)
}

func TestReportKeyRejectsUnsupportedKind(t *testing.T) {
	_, err := Report{Kind: "bogus"}.key()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report type")
}

func TestOutputWritesTreeAndSummaries(t *testing.T) {
	reports1 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000001", DandisetVersion: "draft",
			PydanticErrs: []report.PydanticErr{pydErr("missing", "Field required", "name")}},
	}
	reports2 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000001", DandisetVersion: "draft"},
	}

	dandisetDiffs, err := BuildDandisetDiffs(reports1, reports2)
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "diff-reports")
	totals, err := Output(dandisetDiffs, nil, outDir)
	require.NoError(t, err)

	entityDir := filepath.Join(outDir, "dandiset", "000001", "draft")
	assert.FileExists(t, filepath.Join(entityDir, "pydantic_validation_errs1.json"))
	assert.FileExists(t, filepath.Join(entityDir, "pydantic_validation_errs1.yaml"))
	assert.FileExists(t, filepath.Join(entityDir, "pydantic_validation_errs_diff.json"))
	assert.NoFileExists(t, filepath.Join(entityDir, "pydantic_validation_errs2.json"),
		"empty data must not produce a file")
	assert.NoFileExists(t, filepath.Join(entityDir, "jsonschema_validation_errs_diff.json"),
		"an empty diff must not produce a file")
	assert.FileExists(t, filepath.Join(outDir, "dandiset", PydanticSummaryFile))
	assert.FileExists(t, filepath.Join(outDir, "asset", JsonschemaSummaryFile))

	require.Len(t, totals, 4)
	assert.Equal(t, Totals{
		Group: "dandiset", Origin: "pydantic",
		Count1: 1, Count2: 0, Removed: 1, Gained: 0,
	}, totals[0])
}

func TestOutputIsDeterministic(t *testing.T) {
	reports1 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000002", DandisetVersion: "draft",
			PydanticErrs: []report.PydanticErr{
				pydErr("missing", "Field required", "name"),
				pydErr("missing", "Field required", "contributor", 0, "name"),
			}},
		{Kind: report.KindDandiset, DandisetID: "000001", DandisetVersion: "0.240101.1200",
			PydanticErrs: []report.PydanticErr{pydErr("string_too_long", "too long", "description")}},
	}
	reports2 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000002", DandisetVersion: "draft",
			PydanticErrs: []report.PydanticErr{pydErr("missing", "Field required", "contributor", 4, "name")}},
	}

	summaries := make([][]byte, 2)
	for i := range summaries {
		diffs, err := BuildDandisetDiffs(reports1, reports2)
		require.NoError(t, err)

		outDir := filepath.Join(t.TempDir(), "diff-reports")
		_, err = Output(diffs, nil, outDir)
		require.NoError(t, err)

		summaries[i], err = os.ReadFile(filepath.Join(outDir, "dandiset", PydanticSummaryFile))
		require.NoError(t, err)
	}

	assert.NotEmpty(t, summaries[0])
	assert.Equal(t, summaries[0], summaries[1])
}

func TestDiffSummaryListsAffectedEntities(t *testing.T) {
	reports1 := []report.DandisetReport{
		{Kind: report.KindDandiset, DandisetID: "000001", DandisetVersion: "draft",
			PydanticErrs: []report.PydanticErr{pydErr("missing", "Field required", "name")}},
		{Kind: report.KindDandiset, DandisetID: "000002", DandisetVersion: "draft",
			PydanticErrs: []report.PydanticErr{pydErr("missing", "Field required", "name")}},
	}

	diffs, err := BuildDandisetDiffs(reports1, nil)
	require.NoError(t, err)

	pyd1, _, _, _, err := errReps(diffs)
	require.NoError(t, err)

	c1 := countReps(pyd1)
	summary := diffSummary(c1, countReps(nil))

	assert.Contains(t, summary, "Total: 2 errors in set 1, 0 errors in set 2")
	assert.Contains(t, summary, "000001/draft<br>000002/draft")
	assert.Contains(t, summary, "Error category")
}
